package binder

import "net/http"

// Func binds one part of r into v, which must be a non-nil pointer.
type Func func(r *http.Request, v any) error

// Bind applies binders in order and stops at the first error.
func Bind(r *http.Request, v any, binders ...Func) error {
	for _, b := range binders {
		if err := b(r, v); err != nil {
			return err
		}
	}
	return nil
}
