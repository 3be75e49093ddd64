package access

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/claims"
	"github.com/dmitrymomot/payrollguard/pkg/logger"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
	"github.com/dmitrymomot/payrollguard/pkg/routeauth"
)

// AuditReadPermission is required to list audit records.
const AuditReadPermission permission.Key = "audit:read"

// Synchronizer changes and re-publishes a user's access.
// *usersync.Synchronizer satisfies it.
type Synchronizer interface {
	Assign(
		ctx context.Context,
		actor claims.SessionClaims,
		userID string,
		role rbac.Role,
		excluded []permission.Pattern,
		allowed []rbac.Role,
	) (claims.Metadata, error)
	Sync(ctx context.Context, userID string) (claims.Metadata, error)
}

// Service serves the access administration API.
type Service struct {
	sync   Synchronizer
	audits audit.Reader
	audit  *audit.Logger
	log    *slog.Logger
}

// NewService creates the service. The audit listing endpoint is only mounted
// when a reader is configured with WithAuditReader.
func NewService(sync Synchronizer, opts ...Option) *Service {
	s := &Service{
		sync: sync,
		log:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("access-api"))
	return s
}

// Handle returns the router. Mount it under /api behind access.Middleware:
//
//	r.Mount("/api", svc.Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Method(http.MethodGet, "/me/permissions", s.wrap(s.myPermissions, "me/permissions"))
	r.Method(http.MethodPut, "/users/{userID}/access", s.wrap(s.assignAccess, "users/access"))
	r.Method(http.MethodPost, "/users/{userID}/sync", s.wrap(s.syncAccess, "users/sync",
		routeauth.RequireRole(rbac.OrgAdmin)))
	if s.audits != nil {
		r.Method(http.MethodGet, "/audit/denials", s.wrap(s.listDenials, "audit/denials",
			routeauth.RequirePermission(AuditReadPermission)))
	}

	return r
}

func (s *Service) wrap(h routeauth.HandlerFunc, resource string, opts ...routeauth.Option) http.Handler {
	opts = append(opts,
		routeauth.WithResource(resource),
		routeauth.WithAuditLogger(s.audit),
		routeauth.WithLogger(s.log),
	)
	return routeauth.Wrap(h, opts...)
}
