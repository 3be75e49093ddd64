package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

func TestRoleContext(t *testing.T) {
	t.Parallel()

	t.Run("set and get role", func(t *testing.T) {
		ctx := rbac.SetRoleToContext(context.Background(), rbac.Manager)
		role, ok := rbac.GetRoleFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, rbac.Manager, role)
	})

	t.Run("get role from empty context", func(t *testing.T) {
		role, ok := rbac.GetRoleFromContext(context.Background())
		assert.False(t, ok)
		assert.Equal(t, rbac.RoleNone, role)
	})

	t.Run("override role in context", func(t *testing.T) {
		ctx := rbac.SetRoleToContext(context.Background(), rbac.Viewer)
		ctx = rbac.SetRoleToContext(ctx, rbac.OrgAdmin)
		role, ok := rbac.GetRoleFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, rbac.OrgAdmin, role)
	})

	t.Run("plain string is not a role", func(t *testing.T) {
		type wrongKey struct{}
		ctx := context.WithValue(context.Background(), wrongKey{}, "manager")
		_, ok := rbac.GetRoleFromContext(ctx)
		assert.False(t, ok)
	})

	t.Run("require role from context", func(t *testing.T) {
		ctx := rbac.SetRoleToContext(context.Background(), rbac.Viewer)
		err := rbac.RequireRoleFromContext(ctx, rbac.Manager)
		assert.ErrorIs(t, err, rbac.ErrInsufficientRole)

		err = rbac.RequireRoleFromContext(context.Background(), rbac.Viewer)
		assert.ErrorIs(t, err, rbac.ErrRoleNotInContext)
	})
}
