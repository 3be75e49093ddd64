package rbac

import "context"

// roleCtxKey is the context key for storing role information.
type roleCtxKey struct{}

// SetRoleToContext stores the user's role in the context.
func SetRoleToContext(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// GetRoleFromContext retrieves the user's role from the context.
func GetRoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(Role)
	return role, ok
}

// RequireRoleFromContext checks the role stored in ctx against required.
func RequireRoleFromContext(ctx context.Context, required Role) error {
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return ErrRoleNotInContext
	}
	return RequireRole(role, required)
}
