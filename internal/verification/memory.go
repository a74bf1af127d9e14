package verification

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/runconnect/runconnect/pkg/errors"
)

type memoryEntry struct {
	identity  Identity
	expiresAt time.Time
	used      bool
}

// MemoryStore is an in-process token store for tests and single-node
// development. Expired entries are swept lazily on every access. Not suitable
// for production: tokens do not survive a restart and are invisible to other
// processes.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory verification token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     TokenTTL,
		now:     time.Now,
	}
}

// WithClock replaces the store's clock. Tests use this to drive expiry.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// Generate creates a fresh token for the subject.
func (s *MemoryStore) Generate(_ context.Context, userID, email string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	s.entries[token] = &memoryEntry{
		identity:  Identity{UserID: userID, Email: email},
		expiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Consume redeems a token exactly once.
func (s *MemoryStore) Consume(_ context.Context, token string) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	entry, ok := s.entries[token]
	if !ok {
		return nil, apperrors.TokenInvalidOrExpired()
	}
	if entry.used {
		return nil, apperrors.TokenAlreadyUsed()
	}

	entry.used = true
	id := entry.identity
	return &id, nil
}

// sweepLocked evicts expired entries. Callers must hold the mutex.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for token, entry := range s.entries {
		if entry.expiresAt.Before(now) {
			delete(s.entries, token)
		}
	}
}
