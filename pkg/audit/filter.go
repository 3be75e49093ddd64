package audit

import (
	"context"
	"time"
)

// DefaultLimit caps query results when Filter.Limit is zero.
const DefaultLimit = 100

// MaxLimit is the largest accepted Filter.Limit.
const MaxLimit = 1000

// Reader queries stored records, newest first.
type Reader interface {
	Find(ctx context.Context, f Filter) ([]Record, error)
}

// Filter narrows a Find query. Zero fields match everything.
type Filter struct {
	UserID   string
	Kind     Kind
	Resource string
	Since    time.Time
	Until    time.Time
	Limit    int
}

// Validate normalizes the limit and rejects inverted time ranges.
func (f *Filter) Validate() error {
	if f.Limit < 0 || f.Limit > MaxLimit {
		return ErrInvalidFilter
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if !f.Since.IsZero() && !f.Until.IsZero() && f.Until.Before(f.Since) {
		return ErrInvalidFilter
	}
	return nil
}

// Matches reports whether rec satisfies every set field.
func (f Filter) Matches(rec Record) bool {
	if f.UserID != "" && rec.UserID != f.UserID {
		return false
	}
	if f.Kind != "" && rec.Kind != f.Kind {
		return false
	}
	if f.Resource != "" && rec.Resource != f.Resource {
		return false
	}
	if !f.Since.IsZero() && rec.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && rec.Timestamp.After(f.Until) {
		return false
	}
	return true
}
