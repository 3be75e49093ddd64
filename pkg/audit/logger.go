package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/payrollguard/pkg/logger"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// Logger records denials, authentication failures and, optionally, granted
// access. Its methods never return errors and never block; a nil *Logger is
// a no-op.
type Logger struct {
	sink      Enqueuer
	fallback  *slog.Logger
	logAccess bool
	now       func() time.Time
	newID     func() string
}

// NewLogger creates a logger that hands records to sink. A nil sink sends
// every record to the fallback slog logger.
func NewLogger(sink Enqueuer, opts ...Option) *Logger {
	l := &Logger{
		sink:     sink,
		fallback: logger.Discard(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogAccessDenied records a role-threshold denial. The actual role is the
// actor's role.
func (l *Logger) LogAccessDenied(ctx context.Context, actor Actor, required rbac.Role, resource, action string) {
	if l == nil {
		return
	}
	rec := l.newRecord(ctx, KindAccessDenied, actor)
	rec.RequiredRole = required.String()
	rec.Resource = resource
	rec.Action = action
	l.emit(rec)
}

// LogPermissionDenied records a capability denial.
func (l *Logger) LogPermissionDenied(ctx context.Context, actor Actor, perm permission.Key, resource, action string) {
	if l == nil {
		return
	}
	rec := l.newRecord(ctx, KindAccessDenied, actor)
	rec.RequiredPermission = perm.String()
	rec.Resource = resource
	rec.Action = action
	l.emit(rec)
}

// LogAuthFailure records a request that carried no usable identity.
func (l *Logger) LogAuthFailure(ctx context.Context, rc RequestContext, reason string) {
	if l == nil {
		return
	}
	rec := l.newRecord(WithRequestContext(ctx, rc), KindAuthFailure, Actor{})
	rec.Reason = reason
	rec.Resource = rc.Path
	rec.Action = rc.Method
	l.emit(rec)
}

// LogAccess records a granted access. It is ignored unless the logger was
// created with WithAccessLogging.
func (l *Logger) LogAccess(ctx context.Context, actor Actor, resource, action string) {
	if l == nil || !l.logAccess {
		return
	}
	rec := l.newRecord(ctx, KindAccessGranted, actor)
	rec.Resource = resource
	rec.Action = action
	l.emit(rec)
}

// AccessLogging reports whether granted access is recorded.
func (l *Logger) AccessLogging() bool {
	return l != nil && l.logAccess
}

func (l *Logger) newRecord(ctx context.Context, kind Kind, actor Actor) Record {
	rc := RequestFromContext(ctx)
	return Record{
		ID:        l.newID(),
		Kind:      kind,
		UserID:    actor.userID(),
		UserRole:  actor.role(),
		RequestID: rc.RequestID,
		UserAgent: rc.UserAgent,
		IP:        rc.IP,
		Timestamp: l.now().UTC(),
	}
}

func (l *Logger) emit(rec Record) {
	if l.sink == nil {
		logRecord(l.fallback, slog.LevelWarn, "audit record", rec)
		return
	}
	if err := l.sink.Enqueue(rec); err != nil {
		l.fallback.Warn("audit record not queued", logger.Error(err))
		logRecord(l.fallback, slog.LevelWarn, "audit record", rec)
	}
}
