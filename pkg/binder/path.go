package binder

import (
	"fmt"
	"net/http"
	"reflect"
)

// Path binds router path parameters using extractor, e.g. chi.URLParam.
// Fields are matched by their `path` tag; empty values leave the field as is.
func Path(extractor func(r *http.Request, name string) string) Func {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: nil extractor", ErrInvalidPath)
		}
		rv, err := structValue(v)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPath, err)
		}

		rt := rv.Type()
		for i := range rv.NumField() {
			field := rv.Field(i)
			sf := rt.Field(i)
			if !field.CanSet() {
				continue
			}
			name, skip := parseFieldTag(sf, "path")
			if skip {
				continue
			}
			value := extractor(r, name)
			if value == "" {
				continue
			}
			if err := setFieldValue(field, sf.Type, []string{value}); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidPath, name, err)
			}
		}
		return nil
	}
}

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("target must be a non-nil pointer, got %T", v)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("target must point to a struct, got %T", v)
	}
	return rv, nil
}
