package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"circlegov/internal/domain"
)

// MemoryStore is an in-process session store used in tests and
// single-node development setups.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record), now: time.Now}
}

// WithClock overrides the store's clock, for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// Put stores a session token for a user.
func (s *MemoryStore) Put(_ context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[token] = Record{UserID: userID, ExpiresAt: s.now().Add(ttl)}
	return nil
}

// Validate resolves a token to its user id.
func (s *MemoryStore) Validate(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.RLock()
	record, ok := s.records[token]
	s.mu.RUnlock()

	if !ok {
		return uuid.Nil, domain.NewError(domain.CodeSessionNotFound, "Session not found")
	}
	if !record.ExpiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.records, token)
		s.mu.Unlock()
		return uuid.Nil, domain.NewError(domain.CodeSessionExpired, "Session expired")
	}
	return record.UserID, nil
}

// Revoke deletes a session token.
func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, token)
	return nil
}
