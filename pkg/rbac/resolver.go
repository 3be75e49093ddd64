package rbac

import (
	"slices"

	"github.com/dmitrymomot/payrollguard/pkg/permission"
)

// Source explains where a permission decision came from.
type Source string

const (
	// SourceInherited means the role (or a lower one) grants the key and no exclusion applies.
	SourceInherited Source = "inherited"
	// SourceExcluded means an exclusion pattern removes the key.
	SourceExcluded Source = "excluded"
	// SourceDenied means no role at or below the user's grants the key.
	SourceDenied Source = "denied"
)

// Decision is a single row of Explain output.
type Decision struct {
	Permission permission.Key `json:"permission"`
	Granted    bool           `json:"granted"`
	Source     Source         `json:"source"`
}

// HasPermission reports whether role r, minus excluded, grants k.
// Exclusions are evaluated first, so an explicit denial beats any inherited
// wildcard. An invalid role or zero key is always denied.
func (h *Hierarchy) HasPermission(r Role, k permission.Key, excluded []permission.Pattern) bool {
	if k == "" || !r.Valid() {
		return false
	}
	if permission.MatchesAny(excluded, k) {
		return false
	}
	return h.inherits(r, k)
}

// HasAnyPermission reports whether at least one key is granted.
// An empty key list is denied.
func (h *Hierarchy) HasAnyPermission(r Role, keys []permission.Key, excluded []permission.Pattern) bool {
	return slices.ContainsFunc(keys, func(k permission.Key) bool {
		return h.HasPermission(r, k, excluded)
	})
}

// HasAllPermissions reports whether every key is granted.
// An empty key list is denied.
func (h *Hierarchy) HasAllPermissions(r Role, keys []permission.Key, excluded []permission.Pattern) bool {
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if !h.HasPermission(r, k, excluded) {
			return false
		}
	}
	return true
}

// EffectivePermissions materializes the catalog keys granted to r after
// exclusions, in catalog order. Use it for display, not on hot paths.
func (h *Hierarchy) EffectivePermissions(r Role, excluded []permission.Pattern) []permission.Key {
	if !r.Valid() {
		return nil
	}
	var out []permission.Key
	for _, k := range permission.Catalog() {
		if h.HasPermission(r, k, excluded) {
			out = append(out, k)
		}
	}
	return out
}

// PermissionSource reports why k is or is not granted.
// An exclusion reports SourceExcluded even when the role never had the key.
func (h *Hierarchy) PermissionSource(r Role, k permission.Key, excluded []permission.Pattern) Source {
	switch {
	case permission.MatchesAny(excluded, k):
		return SourceExcluded
	case r.Valid() && h.inherits(r, k):
		return SourceInherited
	}
	return SourceDenied
}

// Explain returns a decision for every catalog key.
func (h *Hierarchy) Explain(r Role, excluded []permission.Pattern) []Decision {
	keys := permission.Catalog()
	out := make([]Decision, 0, len(keys))
	for _, k := range keys {
		src := h.PermissionSource(r, k, excluded)
		out = append(out, Decision{Permission: k, Granted: src == SourceInherited, Source: src})
	}
	return out
}

// PruneExclusions drops patterns that remove nothing from r's grant and
// patterns covered by another exclusion. Decisions are unchanged; the result
// is smaller, which keeps session tokens small.
func (h *Hierarchy) PruneExclusions(r Role, excluded []permission.Pattern) []permission.Pattern {
	excluded = permission.NormalizePatterns(excluded)
	var out []permission.Pattern
	for i, p := range excluded {
		covered := false
		for j, other := range excluded {
			// Equal patterns were compacted, so i != j implies distinct values.
			if i != j && other.Covers(p) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		if slices.ContainsFunc(p.Expand(), func(k permission.Key) bool { return h.inherits(r, k) }) {
			out = append(out, p)
		}
	}
	return out
}

// Can returns a *PermissionDeniedError when k is not granted.
func (h *Hierarchy) Can(r Role, k permission.Key, excluded []permission.Pattern) error {
	if !r.Valid() {
		return ErrUnauthorized
	}
	if !h.HasPermission(r, k, excluded) {
		return &PermissionDeniedError{Permission: k, Role: r}
	}
	return nil
}

// RequireRole returns a *InsufficientRoleError when actual ranks below required.
// A missing role is ErrUnauthorized.
func RequireRole(actual, required Role) error {
	if !actual.Valid() {
		return ErrUnauthorized
	}
	if !actual.AtLeast(required) {
		return &InsufficientRoleError{Required: required, Actual: actual}
	}
	return nil
}

// Package-level helpers bound to DefaultHierarchy.

// HasPermission reports whether r grants k after exclusions.
func HasPermission(r Role, k permission.Key, excluded []permission.Pattern) bool {
	return defaultHierarchy.HasPermission(r, k, excluded)
}

// HasAnyPermission reports whether r grants at least one of keys.
func HasAnyPermission(r Role, keys []permission.Key, excluded []permission.Pattern) bool {
	return defaultHierarchy.HasAnyPermission(r, keys, excluded)
}

// HasAllPermissions reports whether r grants every key.
func HasAllPermissions(r Role, keys []permission.Key, excluded []permission.Pattern) bool {
	return defaultHierarchy.HasAllPermissions(r, keys, excluded)
}

// EffectivePermissions materializes the granted catalog keys.
func EffectivePermissions(r Role, excluded []permission.Pattern) []permission.Key {
	return defaultHierarchy.EffectivePermissions(r, excluded)
}

// PermissionSource explains a single decision.
func PermissionSource(r Role, k permission.Key, excluded []permission.Pattern) Source {
	return defaultHierarchy.PermissionSource(r, k, excluded)
}
