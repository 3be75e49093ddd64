package access

import (
	"slices"

	"github.com/dmitrymomot/payrollguard/pkg/claims"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

type state uint8

const (
	statePending state = iota
	stateAnonymous
	stateAuthenticated
)

// grantSet is the claims-derived part of a Checker that is shared between
// sessions with equal fingerprints.
type grantSet struct {
	hierarchy *rbac.Hierarchy
	role      rbac.Role
	allowed   []rbac.Role
	excluded  []permission.Pattern
	effective []permission.Key
	granted   map[permission.Key]struct{}
}

func newGrantSet(h *rbac.Hierarchy, c claims.SessionClaims) *grantSet {
	effective := h.EffectivePermissions(c.Role, c.ExcludedPermissions)
	granted := make(map[permission.Key]struct{}, len(effective))
	for _, k := range effective {
		granted[k] = struct{}{}
	}
	return &grantSet{
		hierarchy: h,
		role:      c.Role,
		allowed:   slices.Clone(c.AllowedRoles),
		excluded:  slices.Clone(c.ExcludedPermissions),
		effective: effective,
		granted:   granted,
	}
}

// Checker answers permission queries for one session. The zero value is a
// pending checker.
type Checker struct {
	state  state
	claims claims.SessionClaims
	grants *grantSet
	err    error
}

var (
	pending   = &Checker{state: statePending}
	anonymous = &Checker{state: stateAnonymous}
)

// Pending returns the checker for a session that is still resolving.
func Pending() *Checker { return pending }

// Anonymous returns the checker for a resolved request without identity.
func Anonymous() *Checker { return anonymous }

// NewChecker builds an uncached checker over c using the default hierarchy.
// Claims without a valid role produce an anonymous checker.
func NewChecker(c claims.SessionClaims) *Checker {
	return newChecker(c, nil, rbac.DefaultHierarchy())
}

func newChecker(c claims.SessionClaims, gs *grantSet, h *rbac.Hierarchy) *Checker {
	if !c.Authenticated() {
		return &Checker{state: stateAnonymous, err: claims.ErrNoRole}
	}
	if gs == nil {
		gs = newGrantSet(h, c)
	}
	return &Checker{state: stateAuthenticated, claims: c, grants: gs}
}

// unusable returns an anonymous checker that remembers why the session
// could not be used.
func unusable(err error) *Checker {
	return &Checker{state: stateAnonymous, err: err}
}

// IsLoading reports whether claims are not yet known.
func (c *Checker) IsLoading() bool { return c == nil || c.state == statePending }

// IsAuthenticated reports whether the session carries a usable role.
func (c *Checker) IsAuthenticated() bool { return c != nil && c.state == stateAuthenticated }

// Err explains an anonymous checker built from a session whose claims were
// present but unusable. It is nil otherwise.
func (c *Checker) Err() error {
	if c == nil {
		return nil
	}
	return c.err
}

// Role returns the session role, or rbac.RoleNone.
func (c *Checker) Role() rbac.Role {
	if !c.IsAuthenticated() {
		return rbac.RoleNone
	}
	return c.grants.role
}

// Claims returns the decoded session claims.
func (c *Checker) Claims() claims.SessionClaims {
	if !c.IsAuthenticated() {
		return claims.SessionClaims{}
	}
	return c.claims
}

// UserID returns the session subject, or "".
func (c *Checker) UserID() string { return c.Claims().UserID }

// Has reports whether the session holds k.
func (c *Checker) Has(k permission.Key) bool {
	if !c.IsAuthenticated() {
		return false
	}
	_, ok := c.grants.granted[k]
	return ok
}

// HasPermission reports whether the session holds key. Keys are accepted in
// either separator form; unknown keys are never granted.
func (c *Checker) HasPermission(key string) bool {
	k, err := permission.ParseKey(key)
	if err != nil {
		return false
	}
	return c.Has(k)
}

// HasAnyPermission reports whether at least one key is held.
// An empty list is never satisfied.
func (c *Checker) HasAnyPermission(keys ...string) bool {
	return slices.ContainsFunc(keys, c.HasPermission)
}

// HasAllPermissions reports whether every key is held.
// An empty list is never satisfied.
func (c *Checker) HasAllPermissions(keys ...string) bool {
	if len(keys) == 0 {
		return false
	}
	for _, key := range keys {
		if !c.HasPermission(key) {
			return false
		}
	}
	return true
}

// HasRole reports whether the session role ranks at or above role.
func (c *Checker) HasRole(role rbac.Role) bool {
	return c.IsAuthenticated() && role.Valid() && c.grants.role.AtLeast(role)
}

// HasAnyRole reports whether the session role is exactly one of roles.
// Use HasRole for threshold checks.
func (c *Checker) HasAnyRole(roles ...rbac.Role) bool {
	return c.IsAuthenticated() && slices.Contains(roles, c.grants.role)
}

// CanAssignRole reports whether target is in the session's allowed roles and
// the session may assign it. It agrees with usersync.Synchronizer.Assign.
func (c *Checker) CanAssignRole(target rbac.Role) bool {
	if !c.IsAuthenticated() {
		return false
	}
	g := c.grants
	return rbac.RequireAssignable(g.role, g.allowed, g.excluded, target) == nil
}

// AllowedRoles returns a copy of the roles this session may assign.
func (c *Checker) AllowedRoles() []rbac.Role {
	if !c.IsAuthenticated() {
		return nil
	}
	return slices.Clone(c.grants.allowed)
}

// EffectivePermissions returns a copy of every granted key in catalog order.
// It is meant for display; use HasPermission for decisions.
func (c *Checker) EffectivePermissions() []permission.Key {
	if !c.IsAuthenticated() {
		return nil
	}
	return slices.Clone(c.grants.effective)
}

// Source explains why k is or is not granted.
func (c *Checker) Source(k permission.Key) rbac.Source {
	if !c.IsAuthenticated() {
		return rbac.SourceDenied
	}
	return c.grants.hierarchy.PermissionSource(c.grants.role, k, c.grants.excluded)
}

// RequireRole returns nil when HasRole(role) holds, rbac.ErrUnauthorized for
// sessions without identity, and a *rbac.InsufficientRoleError otherwise.
func (c *Checker) RequireRole(role rbac.Role) error {
	if !c.IsAuthenticated() {
		return rbac.ErrUnauthorized
	}
	return rbac.RequireRole(c.grants.role, role)
}

// RequirePermission is RequireRole for a single permission key.
func (c *Checker) RequirePermission(k permission.Key) error {
	if !c.IsAuthenticated() {
		return rbac.ErrUnauthorized
	}
	if !c.Has(k) {
		return &rbac.PermissionDeniedError{Permission: k, Role: c.grants.role}
	}
	return nil
}
