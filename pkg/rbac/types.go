package rbac

import (
	"fmt"
	"slices"
	"strings"
)

// Role is one of the fixed, totally ordered application roles.
// RoleNone is the zero value: it ranks below every real role and holds no grants.
type Role string

const (
	RoleNone   Role = ""
	Viewer     Role = "viewer"
	Consultant Role = "consultant"
	Manager    Role = "manager"
	OrgAdmin   Role = "org_admin"
	Developer  Role = "developer"
)

// ordered lists roles from least to most privileged. Rank is index+1.
var ordered = []Role{Viewer, Consultant, Manager, OrgAdmin, Developer}

// Roles returns every role in ascending rank order.
func Roles() []Role {
	return slices.Clone(ordered)
}

// ParseRole converts s to a Role. Matching is case-insensitive and
// "-" is accepted in place of "_" ("org-admin").
func ParseRole(s string) (Role, error) {
	r := Role(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !r.Valid() {
		return RoleNone, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// ParseRoles parses every string. Empty input yields nil.
func ParseRoles(ss []string) ([]Role, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]Role, 0, len(ss))
	for _, s := range ss {
		r, err := ParseRole(s)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b Role) int { return a.Rank() - b.Rank() })
	return out, nil
}

// Rank returns the role's position in the hierarchy, starting at 1.
// RoleNone and unknown values rank 0.
func (r Role) Rank() int {
	return slices.Index(ordered, r) + 1
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast reports whether r ranks at or above min. Invalid roles never qualify.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && min.Valid() && r.Rank() >= min.Rank()
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

// RolesAtOrBelow returns r and every lower role, ascending.
// Invalid roles yield nil.
func RolesAtOrBelow(r Role) []Role {
	rank := r.Rank()
	if rank == 0 {
		return nil
	}
	return slices.Clone(ordered[:rank])
}

// RolesBelow returns every role strictly below r, ascending.
func RolesBelow(r Role) []Role {
	rank := r.Rank()
	if rank <= 1 {
		return nil
	}
	return slices.Clone(ordered[:rank-1])
}

// CanAssignRole reports whether target is a valid role listed in allowed.
// Assignment rights come only from the explicit allowed-roles list; a high
// own role does not imply them.
func CanAssignRole(allowed []Role, target Role) bool {
	return target.Valid() && slices.Contains(allowed, target)
}

// RoleStrings converts roles to plain strings for serialization.
func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
