package rbac

import "github.com/dmitrymomot/payrollguard/pkg/permission"

// AssignRolesPermission names the right to change another user's access.
// Holding it comes from a non-empty allowed-roles list; an exclusion matching
// it revokes the right whatever the list says.
const AssignRolesPermission permission.Key = "users:assign_roles"

// RequireAssignable returns nil when a session with actor, allowed and
// excluded may hand target to someone else. target must be listed in allowed
// and may not rank above actor.
func RequireAssignable(actor Role, allowed []Role, excluded []permission.Pattern, target Role) error {
	if permission.MatchesAny(excluded, AssignRolesPermission) {
		return &PermissionDeniedError{Permission: AssignRolesPermission, Role: actor}
	}
	if !actor.AtLeast(target) || !CanAssignRole(allowed, target) {
		return &InsufficientRoleError{Required: target, Actual: actor}
	}
	return nil
}
