package auth

import (
	"net/http"
	"strings"
)

// SessionCookieName carries the session token for browser clients.
// API clients use the Authorization header instead.
const SessionCookieName = "mindtrace_session"

// SessionTokenFromRequest extracts the session token from the
// Authorization header, falling back to the session cookie.
// Returns "" when absent.
func SessionTokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
