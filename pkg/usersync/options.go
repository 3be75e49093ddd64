package usersync

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithHierarchy overrides the role hierarchy used for validation and the
// round-trip check.
func WithHierarchy(h *rbac.Hierarchy) Option {
	return func(s *Synchronizer) {
		if h != nil {
			s.hierarchy = h
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxRetries bounds the retries after the first failed write.
func WithMaxRetries(n uint64) Option {
	return func(s *Synchronizer) { s.maxRetries = n }
}

// WithBaseDelay sets the first backoff interval; later ones double.
func WithBaseDelay(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.baseDelay = d
		}
	}
}

// WithAttemptTimeout bounds each individual write.
func WithAttemptTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.attemptTimeout = d
		}
	}
}

// WithClock replaces time.Now for lastUpdated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		if now != nil {
			s.now = now
		}
	}
}
