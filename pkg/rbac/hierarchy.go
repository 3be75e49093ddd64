package rbac

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/payrollguard/pkg/permission"
)

// Hierarchy holds the permissions introduced at each role level.
// Cumulative grants are derived on demand by walking every role at or below
// the requested one. A Hierarchy is immutable after construction and safe for
// concurrent use.
type Hierarchy struct {
	// grants holds base grants indexed by rank-1.
	grants [][]permission.Pattern
}

// defaultGrants is the compiled-in base grant table.
var defaultGrants = map[Role][]string{
	Viewer: {
		"dashboard:read",
		"payrolls:read",
		"clients:read",
		"documents:read",
		"reports:read",
	},
	Consultant: {
		"payrolls:update",
		"staff:read",
		"billing:read",
		"documents:upload",
		"reports:export",
	},
	Manager: {
		"payrolls:write",
		"payrolls:approve",
		"clients:write",
		"staff:update",
		"billing:write",
		"documents:delete",
		"users:read",
	},
	OrgAdmin: {
		"payrolls:*",
		"clients:*",
		"staff:*",
		"billing:*",
		"security:manage",
		"audit:read",
		"settings:manage",
		"users:assign_roles",
	},
	Developer: {
		"*",
	},
}

var defaultHierarchy = mustHierarchy(defaultGrants)

// DefaultHierarchy returns the application's role table.
func DefaultHierarchy() *Hierarchy {
	return defaultHierarchy
}

func mustHierarchy(grants map[Role][]string) *Hierarchy {
	h, err := NewHierarchy(grants)
	if err != nil {
		panic(err)
	}
	return h
}

// NewHierarchy builds a hierarchy from per-role base grants.
// Every key must be a defined role and every pattern must parse. A pattern
// already covered by a lower role's cumulative grant is rejected with
// ErrRedundantGrant, which keeps the table minimal and makes each permission's
// inheritance point unambiguous.
func NewHierarchy(grants map[Role][]string) (*Hierarchy, error) {
	for role := range grants {
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, string(role))
		}
	}

	h := &Hierarchy{grants: make([][]permission.Pattern, len(ordered))}
	var inherited []permission.Pattern
	for i, role := range ordered {
		patterns, err := permission.ParsePatterns(grants[role])
		if err != nil {
			return nil, fmt.Errorf("rbac: base grant for %s: %w", role, err)
		}
		for _, p := range patterns {
			for _, lower := range inherited {
				if lower.Covers(p) {
					return nil, fmt.Errorf("%w: %s at %s already granted by %s", ErrRedundantGrant, p, role, lower)
				}
			}
		}
		h.grants[i] = patterns
		inherited = append(inherited, patterns...)
	}
	return h, nil
}

// BaseGrant returns the patterns introduced at role r, not the cumulative set.
func (h *Hierarchy) BaseGrant(r Role) []permission.Pattern {
	if !r.Valid() {
		return nil
	}
	return slices.Clone(h.grants[r.Rank()-1])
}

// inherits reports whether r or any lower role grants k.
func (h *Hierarchy) inherits(r Role, k permission.Key) bool {
	for i := range r.Rank() {
		if permission.MatchesAny(h.grants[i], k) {
			return true
		}
	}
	return false
}

// Inherited returns every catalog key granted to r before exclusions.
func (h *Hierarchy) Inherited(r Role) []permission.Key {
	return h.EffectivePermissions(r, nil)
}
