package usersync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrymomot/payrollguard/pkg/claims"
	"github.com/dmitrymomot/payrollguard/pkg/identity"
	"github.com/dmitrymomot/payrollguard/pkg/logger"
	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// AssignPermission names the right to change another user's access.
const AssignPermission = rbac.AssignRolesPermission

// Synchronizer writes session metadata to the identity provider.
// It is safe for concurrent use.
type Synchronizer struct {
	store          identity.MetadataStore
	repo           Repository
	hierarchy      *rbac.Hierarchy
	logger         *slog.Logger
	maxRetries     uint64
	baseDelay      time.Duration
	attemptTimeout time.Duration
	now            func() time.Time
}

// New creates a Synchronizer. repo may be nil when only SyncClaims is used.
func New(store identity.MetadataStore, repo Repository, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:          store,
		repo:           repo,
		hierarchy:      rbac.DefaultHierarchy(),
		logger:         logger.Discard(),
		maxRetries:     3,
		baseDelay:      200 * time.Millisecond,
		attemptTimeout: 5 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncClaims validates the access state, writes it to the identity provider
// and returns the metadata that was written.
//
// allowed may be empty, meaning no role-assignment rights. Exclusions that do
// not remove anything from role's grant are dropped before writing.
func (s *Synchronizer) SyncClaims(
	ctx context.Context,
	userID string,
	role rbac.Role,
	excluded []permission.Pattern,
	allowed []rbac.Role,
) (claims.Metadata, error) {
	meta, intended, err := s.prepare(userID, role, excluded, allowed)
	if err != nil {
		return claims.Metadata{}, err
	}
	if err := s.verifyRoundTrip(meta, intended); err != nil {
		return claims.Metadata{}, err
	}
	if err := s.write(ctx, userID, meta); err != nil {
		return claims.Metadata{}, err
	}
	return meta, nil
}

// Sync loads the durable record for userID and synchronizes it.
func (s *Synchronizer) Sync(ctx context.Context, userID string) (claims.Metadata, error) {
	if s.repo == nil {
		return claims.Metadata{}, fmt.Errorf("%w: no repository configured", ErrInvalidInput)
	}
	rec, err := s.repo.GetUserAccess(ctx, userID)
	if err != nil {
		return claims.Metadata{}, err
	}
	return s.SyncClaims(ctx, rec.UserID, rec.Role, rec.ExcludedPermissions, rec.AllowedRoles)
}

// Assign changes userID's access on behalf of actor, persists it and syncs it.
//
// The actor's allowedRoles must contain the target role, the target may not
// rank above the actor, and the actor may only hand out assignment rights it
// holds itself. An exclusion matching users:assign_roles revokes the right.
// If the sync fails the durable record is already saved, so a later Sync
// converges on it.
func (s *Synchronizer) Assign(
	ctx context.Context,
	actor claims.SessionClaims,
	userID string,
	role rbac.Role,
	excluded []permission.Pattern,
	allowed []rbac.Role,
) (claims.Metadata, error) {
	if s.repo == nil {
		return claims.Metadata{}, fmt.Errorf("%w: no repository configured", ErrInvalidInput)
	}
	if !actor.Authenticated() {
		return claims.Metadata{}, rbac.ErrUnauthorized
	}
	for _, r := range append([]rbac.Role{role}, allowed...) {
		if err := rbac.RequireAssignable(actor.Role, actor.AllowedRoles, actor.ExcludedPermissions, r); err != nil {
			return claims.Metadata{}, err
		}
	}

	meta, _, err := s.prepare(userID, role, excluded, allowed)
	if err != nil {
		return claims.Metadata{}, err
	}
	rec := Record{
		UserID:              userID,
		Role:                role,
		AllowedRoles:        parsedRoles(meta.AllowedRoles),
		ExcludedPermissions: parsedPatterns(meta.ExcludedPermissions),
		UpdatedAt:           meta.LastUpdated,
	}
	if err := s.repo.SaveUserAccess(ctx, rec); err != nil {
		return claims.Metadata{}, err
	}

	s.logger.InfoContext(ctx, "user access assigned",
		logger.UserID(userID),
		logger.Role(role),
		slog.String("actor_id", actor.UserID),
		slog.String("actor_role", actor.Role.String()))

	return s.SyncClaims(ctx, rec.UserID, rec.Role, rec.ExcludedPermissions, rec.AllowedRoles)
}

// AssignableRoles is the default allowed-roles list for someone holding role:
// every role strictly below it.
func AssignableRoles(role rbac.Role) []rbac.Role {
	return rbac.RolesBelow(role)
}

// decision is the intended answer for every catalog key.
type decision map[permission.Key]bool

func (s *Synchronizer) prepare(
	userID string,
	role rbac.Role,
	excluded []permission.Pattern,
	allowed []rbac.Role,
) (claims.Metadata, decision, error) {
	if userID == "" {
		return claims.Metadata{}, nil, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}
	if !role.Valid() {
		return claims.Metadata{}, nil, errors.Join(ErrInvalidInput, fmt.Errorf("%w: %q", rbac.ErrInvalidRole, string(role)))
	}

	roles, err := rbac.ParseRoles(rbac.RoleStrings(allowed))
	if err != nil {
		return claims.Metadata{}, nil, errors.Join(ErrInvalidInput, err)
	}
	for _, r := range roles {
		if !role.AtLeast(r) {
			return claims.Metadata{}, nil, fmt.Errorf("%w: allowed role %s ranks above %s", ErrInvalidInput, r, role)
		}
	}

	patterns, err := permission.ParsePatterns(permission.Strings(excluded))
	if err != nil {
		return claims.Metadata{}, nil, errors.Join(ErrInvalidInput, err)
	}

	intended := make(decision)
	for _, k := range permission.Catalog() {
		intended[k] = s.hierarchy.HasPermission(role, k, patterns)
	}

	pruned := s.hierarchy.PruneExclusions(role, patterns)
	return claims.NewMetadata(role, roles, pruned, s.now()), intended, nil
}

// verifyRoundTrip decodes meta the way a session token would carry it and
// compares every catalog decision with the intended ones.
func (s *Synchronizer) verifyRoundTrip(meta claims.Metadata, intended decision) error {
	data, err := json.Marshal(map[string]any{"metadata": meta})
	if err != nil {
		return errors.Join(ErrRoundTrip, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Join(ErrRoundTrip, err)
	}
	decoded, err := claims.Decode(raw)
	if err != nil {
		return errors.Join(ErrRoundTrip, err)
	}
	for k, want := range intended {
		if got := s.hierarchy.HasPermission(decoded.Role, k, decoded.ExcludedPermissions); got != want {
			return fmt.Errorf("%w: %s decided %t, intended %t", ErrRoundTrip, k, got, want)
		}
	}
	return nil
}

func (s *Synchronizer) write(ctx context.Context, userID string, meta claims.Metadata) error {
	start := s.now()
	attempts := 0
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.baseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		defer cancel()

		err := s.store.SetMetadata(attemptCtx, userID, meta)
		if err == nil {
			return nil
		}
		if identity.IsPermanent(err) {
			return err
		}
		s.logger.WarnContext(ctx, "claim sync attempt failed",
			logger.UserID(userID),
			logger.RetryCount(attempts),
			logger.Error(err))
		return retry.RetryableError(err)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "claim sync failed",
			logger.UserID(userID),
			logger.Role(meta.Role),
			logger.RetryCount(attempts),
			logger.Error(err))
		return &SyncError{UserID: userID, Attempts: attempts, Err: err}
	}

	s.logger.InfoContext(ctx, "claims synced",
		logger.UserID(userID),
		logger.Role(meta.Role),
		slog.Int("excluded", len(meta.ExcludedPermissions)),
		logger.Duration(s.now().Sub(start)))
	return nil
}

func parsedRoles(ss []string) []rbac.Role {
	out := make([]rbac.Role, 0, len(ss))
	for _, s := range ss {
		out = append(out, rbac.Role(s))
	}
	return out
}

func parsedPatterns(ss []string) []permission.Pattern {
	out := make([]permission.Pattern, 0, len(ss))
	for _, s := range ss {
		out = append(out, permission.Pattern(s))
	}
	return out
}
