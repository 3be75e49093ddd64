package claims

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/payrollguard/pkg/permission"
	"github.com/dmitrymomot/payrollguard/pkg/rbac"
)

// DefaultNamespace prefixes the legacy "<namespace>/jwt/claims" key.
const DefaultNamespace = "https://hasura.io"

// Claim keys of the current shape.
const (
	keyMetadata       = "metadata"
	keyPublicMetadata = "public_metadata"
	keyRole           = "role"
	keyAllowedRoles   = "allowedRoles"
	keyExcluded       = "excludedPermissions"
	keyLastUpdated    = "lastUpdated"
)

// Claim keys of the legacy shape.
const (
	legacySuffix       = "/jwt/claims"
	legacyDefaultRole  = "x-hasura-default-role"
	legacyAllowedRoles = "x-hasura-allowed-roles"
	legacyExcluded     = "x-hasura-excluded-permissions"
	legacyUserID       = "x-hasura-user-id"
)

type decoder struct {
	namespace string
}

// DecodeOption configures Decode.
type DecodeOption func(*decoder)

// WithNamespace sets the legacy claims namespace. Empty values are ignored.
func WithNamespace(ns string) DecodeOption {
	return func(d *decoder) {
		if ns != "" {
			d.namespace = strings.TrimSuffix(ns, "/")
		}
	}
}

// Decode normalizes a verified token's claim payload.
//
// The current shape ("metadata.role", also accepted under "public_metadata")
// is tried first; the legacy Hasura shape ("<namespace>/jwt/claims" with
// "x-hasura-default-role") is used only when the current shape carries no
// role or is not an object. ErrNoRole means no shape was found. ErrMalformedClaims means a shape
// was found but a field could not be parsed; callers must treat both as
// unauthenticated.
func Decode(raw map[string]any, opts ...DecodeOption) (SessionClaims, error) {
	d := decoder{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(&d)
	}

	if raw == nil {
		return SessionClaims{}, ErrNoRole
	}

	c, err := d.decodeCurrent(raw)
	var mismatch shapeMismatch
	switch {
	case errors.Is(err, ErrNoRole):
		c, err = d.decodeLegacy(raw)
	case errors.As(err, &mismatch):
		legacy, lerr := d.decodeLegacy(raw)
		if errors.Is(lerr, ErrNoRole) {
			err = mismatch.error
		} else {
			c, err = legacy, lerr
		}
	}
	if err != nil {
		return SessionClaims{}, err
	}

	if sub := stringClaim(raw, "sub"); sub != "" {
		c.UserID = sub
	} else if c.UserID == "" {
		c.UserID = stringClaim(raw, "user_id")
	}
	c.Email = stringClaim(raw, "email")
	if c.Email == "" {
		c.Email = stringClaim(raw, "primary_email")
	}
	return c, nil
}

// shapeMismatch is a current-shape key holding something other than an
// object. The legacy shape is still tried; if it has no role either, the
// wrapped ErrMalformedClaims is returned.
type shapeMismatch struct{ error }

func (d decoder) decodeCurrent(raw map[string]any) (SessionClaims, error) {
	var mismatch error
	for _, key := range []string{keyMetadata, keyPublicMetadata} {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		meta, ok := v.(map[string]any)
		if !ok {
			if mismatch == nil {
				mismatch = fmt.Errorf("%w: %s is %T", ErrMalformedClaims, key, v)
			}
			continue
		}
		role := stringClaim(meta, keyRole)
		if role == "" {
			continue
		}
		allowed, err := stringSlice(meta[keyAllowedRoles])
		if err != nil {
			return SessionClaims{}, fmt.Errorf("%w: %s.%s: %w", ErrMalformedClaims, key, keyAllowedRoles, err)
		}
		excluded, err := stringSlice(meta[keyExcluded])
		if err != nil {
			return SessionClaims{}, fmt.Errorf("%w: %s.%s: %w", ErrMalformedClaims, key, keyExcluded, err)
		}
		var updated time.Time
		if ts := stringClaim(meta, keyLastUpdated); ts != "" {
			updated, _ = time.Parse(time.RFC3339Nano, ts)
		}
		return fromFields(role, allowed, excluded, updated)
	}
	if mismatch != nil {
		return SessionClaims{}, shapeMismatch{mismatch}
	}
	return SessionClaims{}, ErrNoRole
}

func (d decoder) decodeLegacy(raw map[string]any) (SessionClaims, error) {
	v, ok := raw[d.namespace+legacySuffix]
	if !ok || v == nil {
		return SessionClaims{}, ErrNoRole
	}
	hasura, ok := v.(map[string]any)
	if !ok {
		return SessionClaims{}, fmt.Errorf("%w: legacy claims are %T", ErrMalformedClaims, v)
	}
	role := stringClaim(hasura, legacyDefaultRole)
	if role == "" {
		return SessionClaims{}, ErrNoRole
	}
	allowed, err := stringSlice(hasura[legacyAllowedRoles])
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %s: %w", ErrMalformedClaims, legacyAllowedRoles, err)
	}
	excluded, err := stringSlice(hasura[legacyExcluded])
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %s: %w", ErrMalformedClaims, legacyExcluded, err)
	}
	c, err := fromFields(role, allowed, excluded, time.Time{})
	if err != nil {
		return SessionClaims{}, err
	}
	c.UserID = stringClaim(hasura, legacyUserID)
	return c, nil
}

// fromFields validates string fields from either shape.
func fromFields(role string, allowed, excluded []string, updated time.Time) (SessionClaims, error) {
	r, err := rbac.ParseRole(role)
	if err != nil {
		return SessionClaims{}, errors.Join(ErrMalformedClaims, err)
	}
	allowedRoles, err := rbac.ParseRoles(allowed)
	if err != nil {
		return SessionClaims{}, errors.Join(ErrMalformedClaims, err)
	}
	patterns, err := permission.ParsePatterns(excluded)
	if err != nil {
		return SessionClaims{}, errors.Join(ErrMalformedClaims, err)
	}
	return SessionClaims{
		Role:                r,
		AllowedRoles:        allowedRoles,
		ExcludedPermissions: patterns,
		LastUpdated:         updated,
	}, nil
}

func stringClaim(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// stringSlice accepts nil, []string, []any of strings, or a single
// space/comma separated string.
func stringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element is %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return strings.FieldsFunc(val, func(r rune) bool { return r == ',' || r == ' ' }), nil
	}
	return nil, fmt.Errorf("unexpected type %T", v)
}
