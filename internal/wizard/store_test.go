package wizard

import (
	"errors"
	"testing"
	"time"
)

func TestStore_OpenCreatesEmptyDraft(t *testing.T) {
	store := NewStore(0)

	draft := store.Open()
	if draft.ID == "" {
		t.Fatal("open should assign an ID")
	}
	if draft.State != StateAppSelection {
		t.Errorf("expected app selection, got %s", draft.State)
	}
	if len(draft.Apps) != 0 || len(draft.Tags) != 0 || draft.Reflection != "" {
		t.Error("open should reset the accumulator")
	}
}

func TestStore_DoMutatesAndSnapshots(t *testing.T) {
	store := NewStore(0)
	draft := store.Open()

	snap, err := store.Do(draft.ID, func(d *Draft) error {
		return d.ToggleApp("Instagram")
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(snap.Apps) != 1 || snap.Apps[0] != "Instagram" {
		t.Errorf("snapshot should reflect mutation: %v", snap.Apps)
	}
}

func TestStore_SubmitDestroysDraft(t *testing.T) {
	store := NewStore(0)
	draft := store.Open()

	_, err := store.Do(draft.ID, func(d *Draft) error {
		d.Apps = []string{"Instagram"}
		d.Reflection = "ok"
		d.Tags = []string{"✅ Productive"}
		d.State = StateReflectionAndTags
		return d.Finish()
	})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}

	if _, err := store.Do(draft.ID, func(d *Draft) error { return nil }); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("submitted draft should be gone, got %v", err)
	}
}

func TestStore_CancelIsIdempotent(t *testing.T) {
	store := NewStore(0)
	draft := store.Open()

	store.Cancel(draft.ID)
	store.Cancel(draft.ID) // no-op
	store.Cancel("unknown")

	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d drafts", store.Len())
	}

	if _, err := store.Do(draft.ID, func(d *Draft) error { return nil }); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("cancelled draft should be gone, got %v", err)
	}
}

func TestStore_ExpiredDraftNotFound(t *testing.T) {
	store := NewStore(time.Minute)
	draft := store.Open()

	// Move the clock past the TTL.
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := store.Do(draft.ID, func(d *Draft) error { return nil }); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expired draft should be gone, got %v", err)
	}
}
