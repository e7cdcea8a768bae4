package model

// Identity is the resolved current user attached to a request. It is
// the value cached by the session gate; the gate never creates or
// deletes the underlying User.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
