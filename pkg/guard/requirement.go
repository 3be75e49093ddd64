package guard

import (
	"strings"

	"github.com/dmitrymomot/payrollguard/pkg/access"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// State is the outcome of evaluating a guard.
type State uint8

const (
	StateLoading State = iota
	StateGranted
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateGranted:
		return "granted"
	default:
		return "denied"
	}
}

// Mode selects how a list of permission keys is combined.
type Mode uint8

const (
	All Mode = iota
	Any
)

type requirementKind uint8

const (
	kindSignedIn requirementKind = iota
	kindRole
	kindPermissions
)

// Requirement is what a guard asks of the current checker.
type Requirement struct {
	kind requirementKind
	role rbac.Role
	keys []string
	mode Mode
}

// SignedIn requires any authenticated session.
func SignedIn() Requirement {
	return Requirement{kind: kindSignedIn}
}

// MinRole requires role or a higher one.
func MinRole(role rbac.Role) Requirement {
	return Requirement{kind: kindRole, role: role}
}

// Permissions requires the keys combined with mode. An empty list is never
// satisfied.
func Permissions(mode Mode, keys ...string) Requirement {
	return Requirement{kind: kindPermissions, keys: append([]string(nil), keys...), mode: mode}
}

// Evaluate resolves the requirement against c. A pending checker yields
// StateLoading.
func (r Requirement) Evaluate(c *access.Checker) State {
	if c.IsLoading() {
		return StateLoading
	}
	if r.satisfied(c) {
		return StateGranted
	}
	return StateDenied
}

func (r Requirement) satisfied(c *access.Checker) bool {
	switch r.kind {
	case kindSignedIn:
		return c.IsAuthenticated()
	case kindRole:
		return c.HasRole(r.role)
	case kindPermissions:
		if r.mode == Any {
			return c.HasAnyPermission(r.keys...)
		}
		return c.HasAllPermissions(r.keys...)
	}
	return false
}

// missing returns the first permission key c lacks, for audit records.
func (r Requirement) missing(c *access.Checker) (permission.Key, bool) {
	for _, s := range r.keys {
		if !c.HasPermission(s) {
			k, err := permission.ParseKey(s)
			return k, err == nil
		}
	}
	return "", false
}

// String describes the requirement for people, e.g. "the manager role".
func (r Requirement) String() string {
	switch r.kind {
	case kindSignedIn:
		return "a signed-in account"
	case kindRole:
		return "the " + r.role.String() + " role"
	}
	switch {
	case len(r.keys) == 0:
		return "a permission"
	case len(r.keys) == 1:
		return "the " + r.keys[0] + " permission"
	case r.mode == Any:
		return "one of the " + strings.Join(r.keys, ", ") + " permissions"
	default:
		return "the " + strings.Join(r.keys, ", ") + " permissions"
	}
}
