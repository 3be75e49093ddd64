package claims

import "errors"

var (
	// ErrNoRole is returned when neither claim shape carries a role.
	ErrNoRole = errors.New("claims: no role in session claims")
	// ErrMalformedClaims is returned when a recognized shape is present but unusable.
	ErrMalformedClaims = errors.New("claims: malformed session claims")
)
