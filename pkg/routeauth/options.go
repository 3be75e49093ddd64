package routeauth

import (
	"log/slog"

	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// Option configures Wrap.
type Option func(*config)

type config struct {
	role     rbac.Role
	all      []permission.Key
	any      []permission.Key
	perms    bool // a permission requirement was configured
	audit    *audit.Logger
	log      *slog.Logger
	resource string
}

// RequireRole requires role or a higher one.
func RequireRole(role rbac.Role) Option {
	return func(c *config) { c.role = role }
}

// RequirePermission requires every key. Called with no keys it denies every
// request.
func RequirePermission(keys ...permission.Key) Option {
	return func(c *config) {
		c.perms = true
		c.all = append(c.all, keys...)
	}
}

// RequireAnyPermission requires at least one of keys. Called with no keys it
// denies every request.
func RequireAnyPermission(keys ...permission.Key) Option {
	return func(c *config) {
		c.perms = true
		c.any = append(c.any, keys...)
	}
}

// WithAuditLogger records denials and authentication failures.
func WithAuditLogger(l *audit.Logger) Option {
	return func(c *config) { c.audit = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithResource names the protected resource in audit records. The request
// path is used otherwise.
func WithResource(name string) Option {
	return func(c *config) { c.resource = name }
}
