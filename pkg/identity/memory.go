package identity

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrymomot/payrollguard/pkg/claims"
)

// MemoryStore is an in-process MetadataStore.
type MemoryStore struct {
	mu         sync.RWMutex
	data       map[string]claims.Metadata
	failWrites int
	failErr    error
	writes     int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]claims.Metadata)}
}

// GetMetadata returns a copy of the stored metadata.
func (s *MemoryStore) GetMetadata(_ context.Context, userID string) (claims.Metadata, error) {
	if userID == "" {
		return claims.Metadata{}, ErrEmptyUserID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.data[userID]), nil
}

// SetMetadata stores a copy of m unless a failure was injected.
func (s *MemoryStore) SetMetadata(ctx context.Context, userID string, m claims.Metadata) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.failWrites > 0 {
		s.failWrites--
		return s.failErr
	}
	s.data[userID] = clone(m)
	return nil
}

// FailWrites makes the next n writes return err without storing anything.
// A nil err injects ErrProviderRequest.
func (s *MemoryStore) FailWrites(n int, err error) {
	if err == nil {
		err = ErrProviderRequest
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = n
	s.failErr = err
}

// Writes returns the number of write attempts, failed ones included.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func clone(m claims.Metadata) claims.Metadata {
	m.AllowedRoles = slices.Clone(m.AllowedRoles)
	m.ExcludedPermissions = slices.Clone(m.ExcludedPermissions)
	return m
}
