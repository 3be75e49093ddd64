package audit

import (
	"context"
	"slices"
	"sync"
)

// MemoryWriter keeps records in process. It is meant for development and
// tests.
type MemoryWriter struct {
	mu      sync.RWMutex
	records []Record
	err     error
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

// StoreBatch appends records, or returns the error set with FailWith.
func (m *MemoryWriter) StoreBatch(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, records...)
	return nil
}

// FailWith makes subsequent writes and queries fail with err. A nil err
// restores normal behaviour.
func (m *MemoryWriter) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Records returns a copy of everything stored, in insertion order.
func (m *MemoryWriter) Records() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.records)
}

// Find implements Reader.
func (m *MemoryWriter) Find(ctx context.Context, f Filter) ([]Record, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	out := make([]Record, 0, min(f.Limit, len(m.records)))
	for i := len(m.records) - 1; i >= 0 && len(out) < f.Limit; i-- {
		if f.Matches(m.records[i]) {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}
