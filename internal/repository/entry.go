package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mindtrace/mindtrace/internal/model"
)

// Common errors for entry repository operations.
var (
	ErrEntryNotFound = errors.New("entry not found")
)

// CreateEntry inserts a new entry. The caller assigns the ID; created_at
// is set by the database so the stored timestamp is never client time.
func (r *Repository) CreateEntry(ctx context.Context, entry *model.Entry) error {
	apps, err := json.Marshal(entry.Apps)
	if err != nil {
		return fmt.Errorf("encode apps: %w", err)
	}
	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	query := `
		INSERT INTO entries (id, user_id, apps, screen_time, reflection, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		string(apps),
		entry.ScreenTimeMinutes,
		entry.Reflection,
		string(tags),
	).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	return nil
}

// GetEntryByID retrieves a single entry.
func (r *Repository) GetEntryByID(ctx context.Context, id string) (*model.Entry, error) {
	query := `
		SELECT id, user_id, apps, screen_time, reflection, tags, created_at
		FROM entries
		WHERE id = $1
	`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// ListEntries retrieves all entries, newest first. The id tiebreak keeps
// the order stable for entries sharing a timestamp.
func (r *Repository) ListEntries(ctx context.Context) ([]*model.Entry, error) {
	query := `
		SELECT id, user_id, apps, screen_time, reflection, tags, created_at
		FROM entries
		ORDER BY created_at DESC, id DESC
	`

	return r.queryEntries(ctx, query)
}

// ListEntriesByUser retrieves one user's entries, newest first.
func (r *Repository) ListEntriesByUser(ctx context.Context, userID string) ([]*model.Entry, error) {
	query := `
		SELECT id, user_id, apps, screen_time, reflection, tags, created_at
		FROM entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	return r.queryEntries(ctx, query, userID)
}

func (r *Repository) queryEntries(ctx context.Context, query string, args ...any) ([]*model.Entry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.Entry, error) {
	var (
		entry model.Entry
		apps  string
		tags  string
	)

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&apps,
		&entry.ScreenTimeMinutes,
		&entry.Reflection,
		&tags,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Apps = decodeStringList(apps)
	entry.Tags = decodeStringList(tags)

	return &entry, nil
}

// decodeStringList parses a JSON-encoded string array stored as text.
// Malformed values degrade to an empty list rather than failing the
// whole read.
func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}
