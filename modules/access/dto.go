package access

import (
	"time"

	"github.com/dmitrymomot/payrollguard/pkg/audit"
	"github.com/dmitrymomot/payrollguard/pkg/claims"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// PermissionsResponse describes the caller's effective access.
type PermissionsResponse struct {
	UserID              string          `json:"userId"`
	Role                string          `json:"role"`
	AllowedRoles        []string        `json:"allowedRoles"`
	ExcludedPermissions []string        `json:"excludedPermissions"`
	Permissions         []string        `json:"permissions"`
	Decisions           []rbac.Decision `json:"decisions"`
}

// AssignRequest is the body of PUT /users/{userID}/access.
type AssignRequest struct {
	UserID              string   `json:"-" path:"userID"`
	Role                string   `json:"role"`
	ExcludedPermissions []string `json:"excludedPermissions"`
	AllowedRoles        []string `json:"allowedRoles"`
}

// SyncRequest addresses POST /users/{userID}/sync.
type SyncRequest struct {
	UserID string `path:"userID"`
}

// DenialsQuery is the query string of GET /audit/denials.
type DenialsQuery struct {
	UserID   string     `query:"userId"`
	Kind     audit.Kind `query:"kind"`
	Resource string     `query:"resource"`
	Since    time.Time  `query:"since"`
	Until    time.Time  `query:"until"`
	Limit    int        `query:"limit"`
}

// AccessResponse is the metadata written to the identity provider.
type AccessResponse struct {
	UserID   string          `json:"userId"`
	Metadata claims.Metadata `json:"metadata"`
}

// DenialsResponse lists audit records, newest first.
type DenialsResponse struct {
	Records []audit.Record `json:"records"`
	Count   int            `json:"count"`
	Since   *time.Time     `json:"since,omitempty"`
	Until   *time.Time     `json:"until,omitempty"`
}
