package session

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// MemoryStore is an in-process session store for tests and single-node
// development.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Save persists a session record.
func (s *MemoryStore) Save(_ context.Context, id string, rec *Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{rec: *rec, expiresAt: s.now().Add(ttl)}
	return nil
}

// Get retrieves a session record.
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || entry.expiresAt.Before(s.now()) {
		delete(s.entries, id)
		return nil, apperrors.NotFound("session", id)
	}
	rec := entry.rec
	return &rec, nil
}

// Delete removes a session record.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
