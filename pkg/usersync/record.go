package usersync

import (
	"context"
	"time"

	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// Record is the durable source of truth for a user's access.
type Record struct {
	UserID              string
	Role                rbac.Role
	AllowedRoles        []rbac.Role
	ExcludedPermissions []permission.Pattern
	UpdatedAt           time.Time
}

// Repository persists access records.
type Repository interface {
	// GetUserAccess returns ErrRecordNotFound for unknown users.
	GetUserAccess(ctx context.Context, userID string) (Record, error)
	// SaveUserAccess inserts or replaces the record.
	SaveUserAccess(ctx context.Context, rec Record) error
}
