// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mindtrace/mindtrace/internal/metrics"
	"github.com/mindtrace/mindtrace/internal/model"
	"github.com/mindtrace/mindtrace/internal/repository"
)

// Service errors.
var (
	ErrNoApps             = errors.New("at least one app is required")
	ErrBlankReflection    = errors.New("reflection must not be blank")
	ErrNoTags             = errors.New("at least one tag is required")
	ErrScreenTimeRange    = errors.New("screen time must be between 0 and 1440 minutes")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("valid email is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// EntryService handles journal entry business logic.
type EntryService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewEntryService creates a new EntryService.
func NewEntryService(repo *repository.Repository, recorder metrics.Recorder) *EntryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &EntryService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateEntryInput defines input for creating an entry.
type CreateEntryInput struct {
	UserID            string
	Apps              []string
	ScreenTimeMinutes int
	Reflection        string
	Tags              []string
}

// CreateEntry validates and persists a journal entry. The database
// assigns the timestamp; the returned entry carries it.
func (s *EntryService) CreateEntry(ctx context.Context, input CreateEntryInput) (*model.Entry, error) {
	apps := dedupeNonEmpty(input.Apps)
	if len(apps) == 0 {
		return nil, ErrNoApps
	}

	reflection := strings.TrimSpace(input.Reflection)
	if reflection == "" {
		return nil, ErrBlankReflection
	}

	tags := dedupeNonEmpty(input.Tags)
	if len(tags) == 0 {
		return nil, ErrNoTags
	}

	if input.ScreenTimeMinutes < 0 || input.ScreenTimeMinutes > model.MaxScreenTimeMinutes {
		return nil, ErrScreenTimeRange
	}

	entry := &model.Entry{
		ID:                generateULID(),
		UserID:            input.UserID,
		Apps:              apps,
		ScreenTimeMinutes: input.ScreenTimeMinutes,
		Reflection:        reflection,
		Tags:              tags,
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	s.metrics.IncEntryCreated()

	return entry, nil
}

// GetEntry retrieves an entry by ID.
func (s *EntryService) GetEntry(ctx context.Context, id string) (*model.Entry, error) {
	entry, err := s.repo.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries retrieves entries newest first. With an identity the list
// is scoped to that user; without one the full list is returned.
func (s *EntryService) ListEntries(ctx context.Context, identity *model.Identity) ([]*model.Entry, error) {
	if identity == nil {
		return s.repo.ListEntries(ctx)
	}
	return s.repo.ListEntriesByUser(ctx, identity.UserID)
}

// dedupeNonEmpty trims entries, drops blanks, and keeps the first
// occurrence of each value in order.
func dedupeNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// generateULID generates a unique, lexicographically sortable ID.
func generateULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}
