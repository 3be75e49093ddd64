package usersync

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository is an in-process Repository.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryRepository creates a repository seeded with recs.
func NewMemoryRepository(recs ...Record) *MemoryRepository {
	r := &MemoryRepository{records: make(map[string]Record, len(recs))}
	for _, rec := range recs {
		r.records[rec.UserID] = cloneRecord(rec)
	}
	return r
}

func (r *MemoryRepository) GetUserAccess(_ context.Context, userID string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[userID]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return cloneRecord(rec), nil
}

func (r *MemoryRepository) SaveUserAccess(_ context.Context, rec Record) error {
	if rec.UserID == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.UserID] = cloneRecord(rec)
	return nil
}

func cloneRecord(rec Record) Record {
	rec.AllowedRoles = slices.Clone(rec.AllowedRoles)
	rec.ExcludedPermissions = slices.Clone(rec.ExcludedPermissions)
	return rec
}
