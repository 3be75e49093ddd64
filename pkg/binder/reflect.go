package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var timeType = reflect.TypeFor[time.Time]()

// parseFieldTag returns the parameter name for sf. Untagged fields use the
// lowercased field name.
func parseFieldTag(sf reflect.StructField, tagName string) (name string, skip bool) {
	tag := sf.Tag.Get(tagName)
	switch tag {
	case "":
		return strings.ToLower(sf.Name), false
	case "-":
		return "", true
	}
	name, _, _ = strings.Cut(tag, ",")
	return name, false
}

func setFieldValue(field reflect.Value, t reflect.Type, values []string) error {
	if t.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(t.Elem()))
		}
		return setFieldValue(field.Elem(), t.Elem(), values)
	}
	if t.Kind() == reflect.Slice {
		return setSliceValue(field, t, values)
	}
	if len(values) == 0 {
		return nil
	}
	value := strings.TrimSpace(values[0])

	if t == timeType {
		ts, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("invalid RFC 3339 timestamp %q", value)
		}
		field.Set(reflect.ValueOf(ts.UTC()))
		return nil
	}

	switch t.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", value)
		}
		field.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", t)
	}
	return nil
}

func setSliceValue(field reflect.Value, t reflect.Type, values []string) error {
	var all []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				all = append(all, part)
			}
		}
	}

	slice := reflect.MakeSlice(t, len(all), len(all))
	for i, v := range all {
		if err := setFieldValue(slice.Index(i), t.Elem(), []string{v}); err != nil {
			return err
		}
	}
	field.Set(slice)
	return nil
}
