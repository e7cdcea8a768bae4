package middleware

import (
	"net/http"

	"github.com/mindtrace/mindtrace/internal/auth"
	"github.com/mindtrace/mindtrace/internal/session"
)

// Session returns middleware that resolves the caller's session token
// through the gate and attaches the identity to the request context.
// An unresolvable token is not an error: the request proceeds without
// an identity and downstream handlers degrade to unscoped behavior.
func Session(gate *session.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.SessionTokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			if identity := gate.Resolve(r.Context(), token); identity != nil {
				r = r.WithContext(auth.ContextWithIdentity(r.Context(), identity))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireIdentity returns middleware that rejects requests without a
// resolved identity. Used for endpoints that cannot run unscoped.
func RequireIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.IdentityFromContext(r.Context()) == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication required","code":"UNAUTHORIZED"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
