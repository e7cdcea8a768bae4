package wizard

import (
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultDraftTTL bounds how long an abandoned draft survives.
const DefaultDraftTTL = 2 * time.Hour

// ErrDraftNotFound is returned for unknown, expired, or cancelled drafts.
var ErrDraftNotFound = errors.New("draft not found")

// Store holds active capture drafts in memory, one per open wizard.
// All draft mutations go through Do so a draft is never touched by two
// requests at once.
type Store struct {
	mu     sync.Mutex
	drafts map[string]*Draft
	ttl    time.Duration
	now    func() time.Time
}

// NewStore creates a draft store.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &Store{
		drafts: make(map[string]*Draft),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Open creates a fresh draft in the AppSelection step and returns a
// snapshot of it. Opening always starts from an empty accumulator.
func (s *Store) Open() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()

	draft := &Draft{
		ID:        ulid.Make().String(),
		State:     StateAppSelection,
		Apps:      []string{},
		Tags:      []string{},
		CreatedAt: s.now(),
	}
	s.drafts[draft.ID] = draft

	return *draft
}

// Do runs fn against the identified draft under the store lock and
// returns a snapshot of the draft afterwards. The snapshot is taken
// even when fn fails, so handlers can render the unchanged state.
func (s *Store) Do(id string, fn func(*Draft) error) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok || s.expiredLocked(draft) {
		delete(s.drafts, id)
		return Draft{}, ErrDraftNotFound
	}

	err := fn(draft)

	snapshot := *draft
	if draft.State == StateClosed {
		// Submit destroys the accumulator.
		delete(s.drafts, id)
	}

	return snapshot, err
}

// Cancel discards a draft without persistence. Cancelling an unknown
// draft is a no-op.
func (s *Store) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}

// Len reports the number of active drafts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

func (s *Store) expiredLocked(d *Draft) bool {
	return s.now().Sub(d.CreatedAt) > s.ttl
}

func (s *Store) evictExpiredLocked() {
	for id, d := range s.drafts {
		if s.expiredLocked(d) {
			delete(s.drafts, id)
		}
	}
}
