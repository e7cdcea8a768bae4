package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mindtrace/mindtrace/internal/model"
)

// Common errors for session repository operations.
var (
	ErrSessionNotFound = errors.New("session not found")
)

// CreateSession inserts a durable session record. The token itself is
// never stored, only its hash.
func (r *Repository) CreateSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	query := `
		INSERT INTO sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.pool.Exec(ctx, query, tokenHash, userID, expiresAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetSessionIdentity resolves a session token hash to the owning user's
// identity. Expired sessions resolve to ErrSessionNotFound.
// This is the refresh collaborator behind the Redis identity cache.
func (r *Repository) GetSessionIdentity(ctx context.Context, tokenHash string) (*model.Identity, error) {
	query := `
		SELECT u.id, u.email, u.name
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1 AND s.expires_at > now()
	`

	var identity model.Identity
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&identity.UserID,
		&identity.Email,
		&identity.Name,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	return &identity, nil
}

// DeleteSession removes a session record. Deleting an absent session is
// not an error; logout must succeed regardless.
func (r *Repository) DeleteSession(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM sessions WHERE token_hash = $1`

	if _, err := r.pool.Exec(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteExpiredSessions clears out expired rows. Called opportunistically;
// correctness never depends on it because reads filter on expires_at.
func (r *Repository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
