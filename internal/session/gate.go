// Package session resolves the current user identity for scoped
// operations. The Redis identity cache is the primary source; a durable
// session record backs a one-shot refresh when the cache cannot answer.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mindtrace/mindtrace/internal/auth"
	"github.com/mindtrace/mindtrace/internal/metrics"
	"github.com/mindtrace/mindtrace/internal/model"
	"github.com/mindtrace/mindtrace/internal/repository"
)

// IdentityCache is the fast-path identity store.
type IdentityCache interface {
	GetIdentity(ctx context.Context, tokenHash string) (*model.Identity, error)
	SetIdentity(ctx context.Context, tokenHash string, identity *model.Identity, ttl time.Duration) error
	DeleteIdentity(ctx context.Context, tokenHash string) error
}

// Refresher resolves a session token hash against the durable store.
type Refresher interface {
	GetSessionIdentity(ctx context.Context, tokenHash string) (*model.Identity, error)
}

// Gate produces a CurrentUser-or-absent answer for each request and
// guarantees at most one refresh cycle per resolution.
type Gate struct {
	cache     IdentityCache
	refresher Refresher
	ttl       time.Duration
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewGate creates a session Gate.
func NewGate(cache IdentityCache, refresher Refresher, ttl time.Duration, recorder metrics.Recorder, logger *slog.Logger) *Gate {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Gate{
		cache:     cache,
		refresher: refresher,
		ttl:       ttl,
		metrics:   recorder,
		logger:    logger.With("component", "session.gate"),
	}
}

// Resolve maps a session token to the current user identity.
// Returns nil when no identity can be established; that is not an
// error - callers degrade to unscoped behavior.
//
// Resolution order: identity cache, then exactly one refresh against
// the durable store. On refresh success the cache is overwritten; on
// failure the cache entry is cleared so the next request starts clean.
func (g *Gate) Resolve(ctx context.Context, token string) *model.Identity {
	if token == "" || !auth.ValidateTokenFormat(token) {
		return nil
	}

	tokenHash := auth.QuickHash(token)

	identity, err := g.cache.GetIdentity(ctx, tokenHash)
	if err == nil && identity != nil {
		return identity
	}

	// Cache miss or cache error: one refresh, never more.
	identity, err = g.refresher.GetSessionIdentity(ctx, tokenHash)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			g.logger.Warn("session refresh failed", "error", err)
		}
		g.metrics.IncSessionRefresh("failed")
		if delErr := g.cache.DeleteIdentity(ctx, tokenHash); delErr != nil {
			g.logger.Warn("failed to clear identity cache", "error", delErr)
		}
		return nil
	}
	g.metrics.IncSessionRefresh("success")

	if setErr := g.cache.SetIdentity(ctx, tokenHash, identity, g.ttl); setErr != nil {
		// The refresh answer is still authoritative for this request.
		g.logger.Warn("failed to write identity cache", "error", setErr)
	}

	return identity
}

// SameID compares two user identifiers by value rather than by
// representation: "1" and "001" refer to the same user, while
// non-numeric identifiers compare exactly.
func SameID(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)

	if a == "" || b == "" {
		return false
	}

	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na == nb
	}

	return a == b
}
