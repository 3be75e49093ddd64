package claims

import (
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// SessionClaims is the normalized, shape-independent view of a session.
type SessionClaims struct {
	UserID              string
	Email               string
	Role                rbac.Role
	AllowedRoles        []rbac.Role
	ExcludedPermissions []permission.Pattern
	LastUpdated         time.Time
}

// Authenticated reports whether the claims carry a usable role.
func (c SessionClaims) Authenticated() bool {
	return c.Role.Valid()
}

// Fingerprint is a stable key over the inputs that affect authorization
// decisions: role, allowed roles and exclusions. Identity and timestamps are
// deliberately left out so equal grants share cached results.
func (c SessionClaims) Fingerprint() string {
	var b strings.Builder
	b.WriteString(string(c.Role))
	b.WriteByte('|')
	for i, r := range c.AllowedRoles {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(r))
	}
	b.WriteByte('|')
	for i, p := range c.ExcludedPermissions {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(p))
	}
	return b.String()
}

// Metadata is the object stored in the identity provider's per-user public
// metadata and embedded by the provider into the session token.
type Metadata struct {
	Role                string    `json:"role"`
	AllowedRoles        []string  `json:"allowedRoles"`
	ExcludedPermissions []string  `json:"excludedPermissions"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// NewMetadata builds the provider payload from typed values.
// Slices are never nil so the JSON always carries arrays.
func NewMetadata(role rbac.Role, allowed []rbac.Role, excluded []permission.Pattern, at time.Time) Metadata {
	return Metadata{
		Role:                string(role),
		AllowedRoles:        rbac.RoleStrings(allowed),
		ExcludedPermissions: permission.Strings(excluded),
		LastUpdated:         at.UTC(),
	}
}

// Claims converts the metadata into SessionClaims, validating every field.
func (m Metadata) Claims() (SessionClaims, error) {
	return fromFields(m.Role, m.AllowedRoles, m.ExcludedPermissions, m.LastUpdated)
}

// Equal reports whether two metadata objects grant the same access.
// LastUpdated is ignored.
func (m Metadata) Equal(other Metadata) bool {
	return m.Role == other.Role &&
		slices.Equal(m.AllowedRoles, other.AllowedRoles) &&
		slices.Equal(m.ExcludedPermissions, other.ExcludedPermissions)
}
