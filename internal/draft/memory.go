package draft

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type key struct {
	userID  uuid.UUID
	eventID uuid.UUID
}

type entry struct {
	draft     OrderDraft
	touchedAt time.Time
}

// MemoryStore is an in-process Store with per-entry TTL. Entries refresh
// their TTL on every Put; Sweep drops the expired ones.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[key]entry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[key]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, userID, eventID uuid.UUID) (OrderDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key{userID, eventID}]
	if !ok || s.now().Sub(e.touchedAt) > s.ttl {
		return OrderDraft{}, ErrNotFound
	}
	return e.draft, nil
}

func (s *MemoryStore) Put(ctx context.Context, d OrderDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key{d.UserID, d.EventID}] = entry{draft: d, touchedAt: s.now()}
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID, eventID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key{userID, eventID})
	return nil
}

// Sweep removes expired entries and returns how many were dropped. Wired to
// a periodic job at startup.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	dropped := 0
	for k, e := range s.entries {
		if e.touchedAt.Before(cutoff) {
			delete(s.entries, k)
			dropped++
		}
	}
	return dropped
}
