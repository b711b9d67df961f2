package schema

import (
	"reflect"

	"github.com/marfarin/openapi-enforcer/datatype"
)

// Formalize converts value into the plain map[string]any/[]any/scalar tree
// the rest of this package operates on, preserving any value whose
// concrete type was registered as a data type constructor (dates, UUIDs,
// and similar domain types stay untouched rather than being flattened).
func (s *Schema) Formalize(value any) any {
	return formalize(value)
}

func formalize(value any) any {
	if value == nil {
		return nil
	}

	t := reflect.TypeOf(value)
	if datatype.IsRegisteredConstructor(t) {
		return value
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		for _, key := range rv.MapKeys() {
			out[keyToString(key)] = formalize(rv.MapIndex(key).Interface())
		}
		return out

	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = formalize(rv.Index(i).Interface())
		}
		return out

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return formalize(rv.Elem().Interface())

	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		rt := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Tag.Get("json")
			if name == "" || name == "-" {
				name = field.Name
			}
			out[name] = formalize(rv.Field(i).Interface())
		}
		return out

	default:
		return value
	}
}

func keyToString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return toString(v.Interface())
}
