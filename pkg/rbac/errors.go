package rbac

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/payrollguard/pkg/permission"
)

// Domain errors for authorization decisions.
var (
	// ErrInvalidRole is returned when a string does not name a defined role.
	ErrInvalidRole = errors.New("rbac.invalid_role")

	// ErrUnauthorized is returned when no verifiable identity is present.
	ErrUnauthorized = errors.New("rbac.unauthorized")

	// ErrInsufficientRole matches every *InsufficientRoleError.
	ErrInsufficientRole = errors.New("rbac.insufficient_role")

	// ErrPermissionDenied matches every *PermissionDeniedError.
	ErrPermissionDenied = errors.New("rbac.permission_denied")

	// ErrRoleNotInContext is returned when no role is found in the context.
	ErrRoleNotInContext = errors.New("rbac.role_not_in_context")

	// ErrRedundantGrant is returned when a base grant repeats a permission
	// already inherited from a lower role.
	ErrRedundantGrant = errors.New("rbac.redundant_grant")
)

// InsufficientRoleError reports an identity whose role ranks below the required one.
type InsufficientRoleError struct {
	Required Role
	Actual   Role
}

func (e *InsufficientRoleError) Error() string {
	return fmt.Sprintf("rbac: role %s required, have %s", e.Required, e.Actual)
}

func (e *InsufficientRoleError) Is(target error) bool {
	return target == ErrInsufficientRole
}

// PermissionDeniedError reports a specific capability that is not granted.
type PermissionDeniedError struct {
	Permission permission.Key
	Role       Role
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("rbac: permission %s not granted to %s", e.Permission, e.Role)
}

func (e *PermissionDeniedError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// IsDenied reports whether err is a role or permission denial.
func IsDenied(err error) bool {
	return errors.Is(err, ErrInsufficientRole) || errors.Is(err, ErrPermissionDenied)
}
