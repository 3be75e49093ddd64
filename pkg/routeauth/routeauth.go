package routeauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/payrollguard/pkg/access"
	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/claims"
	"github.com/dmitrymomot/payrollguard/pkg/logger"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
	"github.com/dmitrymomot/payrollguard/pkg/requestid"
)

// Session is the verified caller handed to a protected handler.
type Session struct {
	UserID  string
	Role    rbac.Role
	Email   string
	Claims  claims.SessionClaims
	Checker *access.Checker
}

// HandlerFunc is a handler that only runs for an authorized caller. Returned
// rbac denials become 401 or 403; any other error becomes a generic 500.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, s Session) error

// Wrap enforces the configured requirements before calling h. It reads the
// checker stored by access.Middleware.
func Wrap(h HandlerFunc, opts ...Option) http.Handler {
	cfg := config{log: logger.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.log = cfg.log.With(logger.Component("routeauth"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checker := access.FromContext(ctx)

		if !checker.IsAuthenticated() {
			cfg.unauthenticated(ctx, r, checker)
			WriteUnauthorized(w)
			return
		}

		if cfg.emptyRequirement() {
			cfg.log.ErrorContext(ctx, "route misconfigured, denying",
				logger.Error(ErrEmptyRequirement),
				logger.Resource(cfg.resourceFor(r)),
				logger.UserID(checker.UserID()),
			)
			WriteForbidden(w)
			return
		}

		if err := cfg.authorize(checker); err != nil {
			cfg.denied(ctx, r, checker, err)
			WriteForbidden(w)
			return
		}

		c := checker.Claims()
		session := Session{UserID: c.UserID, Role: c.Role, Email: c.Email, Claims: c, Checker: checker}
		cfg.audit.LogAccess(ctx, actorOf(checker), cfg.resourceFor(r), r.Method)

		tw := &trackingWriter{ResponseWriter: w}
		err := cfg.invoke(h, tw, r, session)
		if err == nil {
			return
		}
		if tw.wroteHeader {
			cfg.log.ErrorContext(ctx, "handler failed after writing response",
				logger.Error(err),
				logger.RequestID(requestid.FromContext(ctx)),
			)
			return
		}

		switch {
		case errors.Is(err, rbac.ErrUnauthorized):
			cfg.unauthenticated(ctx, r, checker)
			WriteUnauthorized(w)
		case rbac.IsDenied(err):
			cfg.denied(ctx, r, checker, err)
			WriteForbidden(w)
		default:
			cfg.log.ErrorContext(ctx, "handler failed",
				logger.Error(err),
				logger.UserID(session.UserID),
				logger.RequestID(requestid.FromContext(ctx)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			WriteInternalError(w, "")
		}
	})
}

func (cfg config) invoke(h HandlerFunc, w http.ResponseWriter, r *http.Request, s Session) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			cfg.log.ErrorContext(r.Context(), "handler panicked",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
				logger.RequestID(requestid.FromContext(r.Context())),
			)
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()
	return h(w, r, s)
}

func (cfg config) emptyRequirement() bool {
	return cfg.perms && len(cfg.all) == 0 && len(cfg.any) == 0
}

func (cfg config) authorize(c *access.Checker) error {
	if cfg.role != rbac.RoleNone {
		if err := c.RequireRole(cfg.role); err != nil {
			return err
		}
	}
	for _, k := range cfg.all {
		if err := c.RequirePermission(k); err != nil {
			return err
		}
	}
	if len(cfg.any) > 0 {
		for _, k := range cfg.any {
			if c.Has(k) {
				return nil
			}
		}
		return &rbac.PermissionDeniedError{Permission: cfg.any[0], Role: c.Role()}
	}
	return nil
}

func (cfg config) unauthenticated(ctx context.Context, r *http.Request, c *access.Checker) {
	reason := "missing session"
	switch {
	case c.Err() != nil:
		reason = "unusable session claims"
		cfg.log.ErrorContext(ctx, "session claims rejected",
			logger.Error(c.Err()),
			logger.RequestID(requestid.FromContext(ctx)),
			slog.String("path", r.URL.Path),
		)
	case c.IsLoading():
		cfg.log.WarnContext(ctx, "no access checker in request context",
			slog.String("path", r.URL.Path),
		)
	case c.IsAuthenticated():
		reason = "handler rejected session"
	}
	cfg.audit.LogAuthFailure(ctx, cfg.requestContext(r), reason)
}

func (cfg config) denied(ctx context.Context, r *http.Request, c *access.Checker, err error) {
	resource := cfg.resourceFor(r)
	actor := actorOf(c)

	var (
		roleErr *rbac.InsufficientRoleError
		permErr *rbac.PermissionDeniedError
	)
	switch {
	case errors.As(err, &roleErr):
		cfg.audit.LogAccessDenied(ctx, actor, roleErr.Required, resource, r.Method)
	case errors.As(err, &permErr):
		cfg.audit.LogPermissionDenied(ctx, actor, permErr.Permission, resource, r.Method)
	}

	cfg.log.InfoContext(ctx, "access denied",
		logger.UserID(actor.UserID),
		logger.Role(actor.Role.String()),
		logger.Resource(resource),
		logger.Error(err),
	)
}

func (cfg config) resourceFor(r *http.Request) string {
	if cfg.resource != "" {
		return cfg.resource
	}
	return r.URL.Path
}

func (cfg config) requestContext(r *http.Request) audit.RequestContext {
	rc := audit.NewRequestContext(r)
	rc.Path = cfg.resourceFor(r)
	return rc
}

func actorOf(c *access.Checker) audit.Actor {
	return audit.Actor{UserID: c.UserID(), Role: c.Role()}
}
