package audit

import (
	"time"

	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// Kind classifies an audit record.
type Kind string

const (
	KindAccessDenied  Kind = "access_denied"
	KindAuthFailure   Kind = "auth_failure"
	KindAccessGranted Kind = "access_granted"
)

const (
	// AnonymousUser is recorded when no identity is known.
	AnonymousUser = "anonymous"
	// NoRole is recorded when the identity carries no usable role.
	NoRole = "none"
)

// Record is a single append-only audit entry.
type Record struct {
	ID                 string    `json:"id" bson:"_id"`
	Kind               Kind      `json:"kind" bson:"kind"`
	UserID             string    `json:"userId" bson:"userId"`
	UserRole           string    `json:"userRole" bson:"userRole"`
	RequiredPermission string    `json:"requiredPermission,omitempty" bson:"requiredPermission,omitempty"`
	RequiredRole       string    `json:"requiredRole,omitempty" bson:"requiredRole,omitempty"`
	Resource           string    `json:"resource,omitempty" bson:"resource,omitempty"`
	Action             string    `json:"action,omitempty" bson:"action,omitempty"`
	Reason             string    `json:"reason,omitempty" bson:"reason,omitempty"`
	RequestID          string    `json:"requestId,omitempty" bson:"requestId,omitempty"`
	UserAgent          string    `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	IP                 string    `json:"ip,omitempty" bson:"ip,omitempty"`
	Timestamp          time.Time `json:"timestamp" bson:"timestamp"`
}

// Actor identifies who attempted an action.
type Actor struct {
	UserID string
	Role   rbac.Role
}

func (a Actor) userID() string {
	if a.UserID == "" {
		return AnonymousUser
	}
	return a.UserID
}

func (a Actor) role() string {
	if !a.Role.Valid() {
		return NoRole
	}
	return a.Role.String()
}
