package routeauth

import "errors"

var (
	// ErrPanic wraps a value recovered from a panicking handler.
	ErrPanic = errors.New("routeauth: handler panicked")
	// ErrEmptyRequirement is logged when a route requires an empty permission list.
	ErrEmptyRequirement = errors.New("routeauth: empty permission requirement")
)
