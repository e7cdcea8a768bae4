//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mindtrace/mindtrace/internal/auth"
	"github.com/mindtrace/mindtrace/internal/testutil"
)

func newIntegrationRepo(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetDatabase(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset database: %v", err)
	}

	return ctx, repo
}

func TestIntegrationUserCRUD(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("crud"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != user.Email || byID.Name != user.Name {
		t.Errorf("GetUserByID = %+v, want %+v", byID, user)
	}

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetUserByEmail id = %q, want %q", byEmail.ID, user.ID)
	}

	// Duplicate email maps to the sentinel.
	dup := testutil.NewTestUser(t, user.Email)
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate CreateUser error = %v, want ErrEmailExists", err)
	}

	if _, err := repo.GetUserByID(ctx, "no-such-user"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown GetUserByID error = %v, want ErrUserNotFound", err)
	}
}

func TestIntegrationEntryCRUD(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("entries"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	entry := testutil.NewTestEntry(t, user.ID)
	if err := repo.CreateEntry(ctx, entry); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("CreateEntry did not backfill created_at")
	}

	got, err := repo.GetEntryByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntryByID failed: %v", err)
	}
	if got.Reflection != entry.Reflection || got.ScreenTimeMinutes != entry.ScreenTimeMinutes {
		t.Errorf("GetEntryByID = %+v, want %+v", got, entry)
	}
	if len(got.Apps) != len(entry.Apps) || len(got.Tags) != len(entry.Tags) {
		t.Errorf("list columns round-tripped to %v / %v", got.Apps, got.Tags)
	}

	if _, err := repo.GetEntryByID(ctx, "no-such-entry"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("unknown GetEntryByID error = %v, want ErrEntryNotFound", err)
	}
}

func TestIntegrationEntryListScoping(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	alice := testutil.NewTestUser(t, testutil.UniqueEmail("alice"))
	bob := testutil.NewTestUser(t, testutil.UniqueEmail("bob"))
	if err := repo.CreateUser(ctx, alice); err != nil {
		t.Fatalf("CreateUser alice: %v", err)
	}
	if err := repo.CreateUser(ctx, bob); err != nil {
		t.Fatalf("CreateUser bob: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.CreateEntry(ctx, testutil.NewTestEntry(t, alice.ID)); err != nil {
			t.Fatalf("CreateEntry alice: %v", err)
		}
	}
	if err := repo.CreateEntry(ctx, testutil.NewTestEntry(t, bob.ID)); err != nil {
		t.Fatalf("CreateEntry bob: %v", err)
	}

	all, err := repo.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListEntries returned %d entries, want 3", len(all))
	}

	scoped, err := repo.ListEntriesByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListEntriesByUser failed: %v", err)
	}
	if len(scoped) != 2 {
		t.Errorf("ListEntriesByUser returned %d entries, want 2", len(scoped))
	}
	for _, e := range scoped {
		if e.UserID != alice.ID {
			t.Errorf("scoped list leaked entry for user %q", e.UserID)
		}
	}

	// Newest first.
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("ListEntries not newest-first at index %d", i)
		}
	}
}

func TestIntegrationMalformedListColumnsDegrade(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("malformed"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Write a broken row directly; reads must degrade, not fail.
	_, err := repo.Pool().Exec(ctx, `
		INSERT INTO entries (id, user_id, apps, screen_time, reflection, tags)
		VALUES ('broken-entry', $1, '["Instagram"', 30, 'legacy data', 'not json')
	`, user.ID)
	if err != nil {
		t.Fatalf("insert broken row: %v", err)
	}

	got, err := repo.GetEntryByID(ctx, "broken-entry")
	if err != nil {
		t.Fatalf("GetEntryByID failed on malformed lists: %v", err)
	}
	if len(got.Apps) != 0 || len(got.Tags) != 0 {
		t.Errorf("malformed lists = %v / %v, want empty", got.Apps, got.Tags)
	}
	if got.Reflection != "legacy data" {
		t.Errorf("reflection = %q", got.Reflection)
	}
}

func TestIntegrationSessionLifecycle(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("sessions"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if err := repo.CreateSession(ctx, token.Hash, user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	identity, err := repo.GetSessionIdentity(ctx, token.Hash)
	if err != nil {
		t.Fatalf("GetSessionIdentity failed: %v", err)
	}
	if identity.UserID != user.ID || identity.Email != user.Email {
		t.Errorf("identity = %+v, want user %s", identity, user.ID)
	}

	if err := repo.DeleteSession(ctx, token.Hash); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := repo.GetSessionIdentity(ctx, token.Hash); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("deleted session error = %v, want ErrSessionNotFound", err)
	}
}

func TestIntegrationExpiredSessions(t *testing.T) {
	ctx, repo := newIntegrationRepo(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("expiry"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	expired, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	live, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if err := repo.CreateSession(ctx, expired.Hash, user.ID, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("CreateSession expired: %v", err)
	}
	if err := repo.CreateSession(ctx, live.Hash, user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession live: %v", err)
	}

	// Expired sessions never resolve.
	if _, err := repo.GetSessionIdentity(ctx, expired.Hash); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session error = %v, want ErrSessionNotFound", err)
	}

	pruned, err := repo.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}

	if _, err := repo.GetSessionIdentity(ctx, live.Hash); err != nil {
		t.Errorf("live session should survive pruning: %v", err)
	}
}
