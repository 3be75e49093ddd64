package usersync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/pg"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores records in the user_access table.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository creates a repository over db.
func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUserAccess = `
SELECT user_id, role, allowed_roles, excluded_permissions, updated_at
FROM user_access
WHERE user_id = $1`

const upsertUserAccess = `
INSERT INTO user_access (user_id, role, allowed_roles, excluded_permissions, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
    role = EXCLUDED.role,
    allowed_roles = EXCLUDED.allowed_roles,
    excluded_permissions = EXCLUDED.excluded_permissions,
    updated_at = EXCLUDED.updated_at`

func (r *PostgresRepository) GetUserAccess(ctx context.Context, userID string) (Record, error) {
	var (
		rec      Record
		role     string
		allowed  []string
		excluded []string
	)
	err := r.db.QueryRow(ctx, selectUserAccess, userID).
		Scan(&rec.UserID, &role, &allowed, &excluded, &rec.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("usersync: load user access: %w", err)
	}

	if rec.Role, err = rbac.ParseRole(role); err != nil {
		return Record{}, errors.Join(ErrInvalidInput, err)
	}
	if rec.AllowedRoles, err = rbac.ParseRoles(allowed); err != nil {
		return Record{}, errors.Join(ErrInvalidInput, err)
	}
	if rec.ExcludedPermissions, err = permission.ParsePatterns(excluded); err != nil {
		return Record{}, errors.Join(ErrInvalidInput, err)
	}
	return rec, nil
}

func (r *PostgresRepository) SaveUserAccess(ctx context.Context, rec Record) error {
	if rec.UserID == "" || !rec.Role.Valid() {
		return ErrInvalidInput
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := r.db.Exec(ctx, upsertUserAccess,
		rec.UserID,
		string(rec.Role),
		rbac.RoleStrings(rec.AllowedRoles),
		permission.Strings(rec.ExcludedPermissions),
		updated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("usersync: save user access: %w", err)
	}
	return nil
}
