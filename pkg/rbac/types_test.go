package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

func TestRole_Rank(t *testing.T) {
	t.Parallel()

	roles := rbac.Roles()
	require.Len(t, roles, 5)
	for i, r := range roles {
		assert.Equal(t, i+1, r.Rank(), "role %s", r)
		assert.True(t, r.Valid())
	}

	assert.Equal(t, 0, rbac.RoleNone.Rank())
	assert.Equal(t, 0, rbac.Role("superuser").Rank())
	assert.False(t, rbac.Role("superuser").Valid())
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    rbac.Role
		wantErr bool
	}{
		{input: "viewer", want: rbac.Viewer},
		{input: " Manager ", want: rbac.Manager},
		{input: "org-admin", want: rbac.OrgAdmin},
		{input: "ORG_ADMIN", want: rbac.OrgAdmin},
		{input: "developer", want: rbac.Developer},
		{input: "", wantErr: true},
		{input: "admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := rbac.ParseRole(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, rbac.ErrInvalidRole)
				assert.Equal(t, rbac.RoleNone, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRoles(t *testing.T) {
	t.Parallel()

	got, err := rbac.ParseRoles([]string{"manager", "viewer", "viewer"})
	require.NoError(t, err)
	assert.Equal(t, []rbac.Role{rbac.Viewer, rbac.Manager}, got)

	got, err = rbac.ParseRoles(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = rbac.ParseRoles([]string{"viewer", "root"})
	assert.ErrorIs(t, err, rbac.ErrInvalidRole)
}

func TestRolesAtOrBelow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []rbac.Role{rbac.Viewer}, rbac.RolesAtOrBelow(rbac.Viewer))
	assert.Equal(t, []rbac.Role{rbac.Viewer, rbac.Consultant, rbac.Manager}, rbac.RolesAtOrBelow(rbac.Manager))
	assert.Equal(t, rbac.Roles(), rbac.RolesAtOrBelow(rbac.Developer))
	assert.Nil(t, rbac.RolesAtOrBelow(rbac.RoleNone))
	assert.Nil(t, rbac.RolesAtOrBelow("ghost"))

	assert.Equal(t, []rbac.Role{rbac.Viewer, rbac.Consultant}, rbac.RolesBelow(rbac.Manager))
	assert.Nil(t, rbac.RolesBelow(rbac.Viewer))
}

func TestRole_AtLeast(t *testing.T) {
	t.Parallel()

	assert.True(t, rbac.Manager.AtLeast(rbac.Manager))
	assert.True(t, rbac.Developer.AtLeast(rbac.Viewer))
	assert.False(t, rbac.Viewer.AtLeast(rbac.Manager))
	assert.False(t, rbac.RoleNone.AtLeast(rbac.Viewer))
	assert.False(t, rbac.Manager.AtLeast(rbac.RoleNone))
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	assert.NoError(t, rbac.RequireRole(rbac.OrgAdmin, rbac.Manager))
	assert.ErrorIs(t, rbac.RequireRole(rbac.RoleNone, rbac.Viewer), rbac.ErrUnauthorized)

	err := rbac.RequireRole(rbac.Viewer, rbac.Manager)
	require.ErrorIs(t, err, rbac.ErrInsufficientRole)

	var roleErr *rbac.InsufficientRoleError
	require.ErrorAs(t, err, &roleErr)
	assert.Equal(t, rbac.Manager, roleErr.Required)
	assert.Equal(t, rbac.Viewer, roleErr.Actual)
	assert.True(t, rbac.IsDenied(err))
	assert.False(t, rbac.IsDenied(rbac.ErrUnauthorized))
}

func TestCanAssignRole(t *testing.T) {
	t.Parallel()

	allowed := []rbac.Role{rbac.Viewer, rbac.Consultant}
	assert.True(t, rbac.CanAssignRole(allowed, rbac.Consultant))
	assert.False(t, rbac.CanAssignRole(allowed, rbac.Manager))
	assert.False(t, rbac.CanAssignRole(allowed, rbac.RoleNone))
	assert.False(t, rbac.CanAssignRole(nil, rbac.Viewer))
}

func TestRequireAssignable(t *testing.T) {
	t.Parallel()

	allowed := []rbac.Role{rbac.Viewer, rbac.Consultant}

	assert.NoError(t, rbac.RequireAssignable(rbac.Manager, allowed, nil, rbac.Consultant))
	assert.ErrorIs(t, rbac.RequireAssignable(rbac.Manager, allowed, nil, rbac.Manager), rbac.ErrInsufficientRole)
	assert.ErrorIs(t, rbac.RequireAssignable(rbac.OrgAdmin, nil, nil, rbac.Viewer), rbac.ErrInsufficientRole)
	assert.ErrorIs(t,
		rbac.RequireAssignable(rbac.Viewer, []rbac.Role{rbac.Manager}, nil, rbac.Manager),
		rbac.ErrInsufficientRole,
		"allowed roles above the holder are ignored")
	assert.ErrorIs(t,
		rbac.RequireAssignable(rbac.Manager, allowed, []permission.Pattern{"users:*"}, rbac.Viewer),
		rbac.ErrPermissionDenied)
}
