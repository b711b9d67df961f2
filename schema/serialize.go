package schema

import (
	"reflect"

	"github.com/marfarin/openapi-enforcer/datatype"
	"github.com/marfarin/openapi-enforcer/exception"
)

// Serialize is the mirror of Deserialize: it converts native Go values
// back into transport-ready scalars via the data type registry's
// serialize callback. Only a schema whose format is registered converts a
// value, and only when isNativeValue recognizes it; a value at a schema
// without a registered format is passed through unchanged.
func (s *Schema) Serialize(value any) (any, *exception.Tree, *exception.Tree) {
	return s.serialize(value, make(seenMap))
}

func (s *Schema) serialize(value any, seen seenMap) (any, *exception.Tree, *exception.Tree) {
	exc := exception.New()
	warn := exception.New()

	if value == nil {
		return nil, exc, warn
	}

	if s.IsComposite() {
		return s.serializeComposite(value, seen)
	}

	if already, _, tracked := seen.visit(value); tracked && already {
		return value, exc, warn
	}

	if s.Format != "" {
		if def, ok := s.dataTypeDefinition(); ok && isNativeValue(value, def) {
			out, err := def.Serialize(value)
			if err != nil {
				exc.Message("failed to serialize format %q: %v", s.Format, err)
				return value, exc, warn
			}
			return out, exc, warn
		}
	}

	switch s.Type {
	case "array":
		arr, ok := value.([]any)
		if !ok {
			return value, exc, warn
		}
		if s.Items == nil {
			return arr, exc, warn
		}
		out := make([]any, len(arr))
		for i, item := range arr {
			v, e, w := s.Items.serialize(item, seen)
			out[i] = v
			exc.Push(scopeIndex(e, i))
			warn.Push(scopeIndex(w, i))
		}
		return out, exc, warn

	case "object":
		m, ok := value.(map[string]any)
		if !ok {
			return value, exc, warn
		}
		out := make(map[string]any, len(m))
		for key, raw := range m {
			if prop, ok := s.Properties[key]; ok {
				v, e, w := prop.serialize(raw, seen)
				out[key] = v
				exc.Push(scopeKey(e, key))
				warn.Push(scopeKey(w, key))
				continue
			}
			if sub, ok := s.AdditionalProperties.(*Schema); ok {
				v, e, w := sub.serialize(raw, seen)
				out[key] = v
				exc.Push(scopeKey(e, key))
				warn.Push(scopeKey(w, key))
				continue
			}
			out[key] = raw
		}
		return out, exc, warn

	default:
		return value, exc, warn
	}
}

func (s *Schema) serializeComposite(value any, seen seenMap) (any, *exception.Tree, *exception.Tree) {
	if len(s.AllOf) > 0 {
		v, exc, warn := s.mergeAllOf(value, func(sub *Schema, v any) (any, *exception.Tree, *exception.Tree) {
			return sub.serialize(v, seen)
		})
		return v, exc, warn
	}
	target, exc := s.resolveComposite(value)
	if target == nil {
		if exc == nil {
			exc = exception.New()
		}
		return value, exc, exception.New()
	}
	v, subExc, subWarn := target.serialize(value, seen)
	subExc.Push(exc)
	return v, subExc, subWarn
}

// isNativeValue reports whether value's concrete Go type either matches
// one of the format's declared constructors, or is simply not the raw
// scalar shape (string/float64/bool) already expected on the wire -
// serializing a value that is already wire-shaped is a no-op.
func isNativeValue(value any, def *datatype.FormatDefinition) bool {
	t := reflect.TypeOf(value)
	for _, ctor := range def.Constructors {
		if t == ctor {
			return true
		}
		if datatype.IsRegisteredConstructor(t) {
			return true
		}
	}
	switch value.(type) {
	case string, float64, bool:
		return false
	default:
		return true
	}
}
