package audit

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/payrollguard/pkg/logger"
)

// Option configures a Logger.
type Option func(*Logger)

// WithFallback sets the slog logger that receives records which could not be
// queued.
func WithFallback(l *slog.Logger) Option {
	return func(lg *Logger) {
		if l != nil {
			lg.fallback = l.With(logger.Component("audit"))
		}
	}
}

// WithAccessLogging enables recording of granted access.
func WithAccessLogging() Option {
	return func(l *Logger) {
		l.logAccess = true
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator overrides how record ids are generated.
func WithIDGenerator(fn func() string) Option {
	return func(l *Logger) {
		if fn != nil {
			l.newID = fn
		}
	}
}
