package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrMissingContentType   = errors.New("binder: missing content type")
	ErrFailedToParseJSON    = errors.New("binder: failed to parse JSON request body")
	ErrInvalidPath          = errors.New("binder: invalid path parameters")
	ErrInvalidQuery         = errors.New("binder: invalid query parameters")
)

// IsBindError reports whether err came from a binder, i.e. the client sent a
// request that does not fit the target struct.
func IsBindError(err error) bool {
	return errors.Is(err, ErrUnsupportedMediaType) ||
		errors.Is(err, ErrMissingContentType) ||
		errors.Is(err, ErrFailedToParseJSON) ||
		errors.Is(err, ErrInvalidPath) ||
		errors.Is(err, ErrInvalidQuery)
}
