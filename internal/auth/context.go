package auth

import (
	"context"

	"github.com/mindtrace/mindtrace/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityContextKey is the context key for storing the resolved Identity.
	identityContextKey contextKey = "identity"
)

// ContextWithIdentity adds a resolved Identity to the context.
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the Identity from the context.
// Returns nil if no user is resolved; dashboard reads degrade to
// unscoped in that case instead of failing.
func IdentityFromContext(ctx context.Context) *model.Identity {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}

// UserIDFromContext is a convenience function to get the user ID.
// Returns empty string if no identity is resolved.
func UserIDFromContext(ctx context.Context) string {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return ""
	}
	return identity.UserID
}
