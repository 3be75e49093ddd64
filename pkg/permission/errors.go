package permission

import "errors"

var (
	// ErrEmptyKey is returned when an empty string is parsed as a key or pattern.
	ErrEmptyKey = errors.New("permission: empty key")
	// ErrMalformedKey is returned when a string is not of the form resource:action.
	ErrMalformedKey = errors.New("permission: malformed key")
	// ErrUnknownKey is returned when a well-formed key is not in the catalog.
	ErrUnknownKey = errors.New("permission: unknown key")
	// ErrUnknownResource is returned when a resource wildcard names an unknown resource.
	ErrUnknownResource = errors.New("permission: unknown resource")
)
