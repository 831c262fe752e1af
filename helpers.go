package viewset

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

// reflect.TypeOf constants for type checks
var (
	UUIDType = reflect.TypeOf(uuid.UUID{})
	TimeType = reflect.TypeOf(time.Time{})
)

// lookupInstanceValue resolves a declared field's current value from a domain
// instance.
//
// Supported instance shapes:
//   - map[string]any keyed by field name
//   - a struct (or pointer to struct) whose json tags match field names
//
// found is false when the instance simply has no such key or tagged field;
// that field is then omitted from the representation.
func lookupInstanceValue(instance any, name string) (value any, found bool, err error) {
	if m, ok := instance.(map[string]any); ok {
		value, found = m[name]
		return value, found, nil
	}

	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, false, fmt.Errorf("cannot serialize nil %s", v.Type())
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, false, fmt.Errorf("unsupported instance type %T", instance)
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if jsonFieldName(sf) == name {
			return renderValue(v.Field(i)), true, nil
		}
	}

	return nil, false, nil
}

// renderValue converts a struct field value into a JSON-friendly form.
// uuid.UUID and time.Time render as strings; everything else passes through
// for the JSON encoder to handle.
func renderValue(field reflect.Value) any {
	switch field.Type() {
	case UUIDType:
		return field.Interface().(uuid.UUID).String()
	case TimeType:
		return field.Interface().(time.Time).Format(time.RFC3339)
	}

	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil
		}
		return renderValue(field.Elem())
	}

	return field.Interface()
}
