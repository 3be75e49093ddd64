package binder

import (
	"fmt"
	"net/http"
)

// Query binds query string parameters by their `query` tag. Repeated and
// comma-separated values fill slices.
func Query() Func {
	return func(r *http.Request, v any) error {
		rv, err := structValue(v)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}

		values := r.URL.Query()
		rt := rv.Type()
		for i := range rv.NumField() {
			field := rv.Field(i)
			sf := rt.Field(i)
			if !field.CanSet() {
				continue
			}
			name, skip := parseFieldTag(sf, "query")
			if skip {
				continue
			}
			vals, ok := values[name]
			if !ok || len(vals) == 0 {
				continue
			}
			if err := setFieldValue(field, sf.Type, vals); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidQuery, name, err)
			}
		}
		return nil
	}
}
