package dto

import (
	"time"

	"github.com/mindtrace/mindtrace/internal/model"
)

// SignupRequest represents the request body for registering a user.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse represents a freshly established session.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// SessionResponse represents the session refresh result. Field names
// match what the web client persists locally.
type SessionResponse struct {
	Success   bool   `json:"success"`
	UserID    string `json:"userId,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// ToSessionResponse converts a resolved identity to SessionResponse.
// A nil identity yields the failure shape.
func ToSessionResponse(identity *model.Identity) SessionResponse {
	if identity == nil {
		return SessionResponse{Success: false}
	}
	return SessionResponse{
		Success:   true,
		UserID:    identity.UserID,
		UserEmail: identity.Email,
		UserName:  identity.Name,
	}
}
