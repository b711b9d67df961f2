package schema

import (
	"github.com/marfarin/openapi-enforcer/datatype"
	"github.com/marfarin/openapi-enforcer/exception"
)

// Deserialize walks value against the schema tree top-down, converting
// transport scalars into native Go values via the data type registry
// (dates, byte-encoded binaries, and so on), recursing into arrays and
// objects, and picking the matching branch of a composite schema.
func (s *Schema) Deserialize(value any) (any, *exception.Tree, *exception.Tree) {
	return s.deserialize(value, make(seenMap))
}

func (s *Schema) deserialize(value any, seen seenMap) (any, *exception.Tree, *exception.Tree) {
	exc := exception.New()
	warn := exception.New()

	if value == nil {
		return nil, exc, warn
	}

	if s.IsComposite() {
		return s.deserializeComposite(value, seen)
	}

	if already, _, tracked := seen.visit(value); tracked && already {
		return value, exc, warn
	}

	switch s.Type {
	case "string":
		if s.Format != "" {
			if def, ok := s.dataTypeDefinition(); ok {
				out, err := def.Deserialize(value)
				if err != nil {
					exc.Message("failed to deserialize format %q: %v", s.Format, err)
					return value, exc, warn
				}
				return out, exc, warn
			}
		}
		return value, exc, warn

	case "integer", "number":
		if s.Format != "" {
			if def, ok := s.dataTypeDefinition(); ok {
				out, err := def.Deserialize(value)
				if err != nil {
					exc.Message("failed to deserialize format %q: %v", s.Format, err)
					return value, exc, warn
				}
				return out, exc, warn
			}
		}
		return value, exc, warn

	case "array":
		arr, ok := value.([]any)
		if !ok {
			exc.Message("expected an array")
			return value, exc, warn
		}
		if s.Items == nil {
			return arr, exc, warn
		}
		out := make([]any, len(arr))
		for i, item := range arr {
			v, e, w := s.Items.deserialize(item, seen)
			out[i] = v
			exc.Push(scopeIndex(e, i))
			warn.Push(scopeIndex(w, i))
		}
		return out, exc, warn

	case "object":
		m, ok := value.(map[string]any)
		if !ok {
			exc.Message("expected an object")
			return value, exc, warn
		}
		out := make(map[string]any, len(m))
		for key, raw := range m {
			if prop, ok := s.Properties[key]; ok {
				v, e, w := prop.deserialize(raw, seen)
				out[key] = v
				exc.Push(scopeKey(e, key))
				warn.Push(scopeKey(w, key))
				continue
			}
			switch add := s.AdditionalProperties.(type) {
			case bool:
				if add {
					out[key] = raw
				} else {
					exc.At(key).Message("additional property not allowed")
				}
			case *Schema:
				v, e, w := add.deserialize(raw, seen)
				out[key] = v
				exc.Push(scopeKey(e, key))
				warn.Push(scopeKey(w, key))
			default:
				out[key] = raw
			}
		}
		return out, exc, warn

	default:
		return value, exc, warn
	}
}

func (s *Schema) deserializeComposite(value any, seen seenMap) (any, *exception.Tree, *exception.Tree) {
	if len(s.AllOf) > 0 {
		v, exc, warn := s.mergeAllOf(value, func(sub *Schema, v any) (any, *exception.Tree, *exception.Tree) {
			return sub.deserialize(v, seen)
		})
		s.checkNot(value, exc)
		return v, exc, warn
	}

	target, exc := s.resolveComposite(value)
	if target == nil {
		if exc == nil {
			exc = exception.New()
		}
		return value, exc, exception.New()
	}
	v, subExc, subWarn := target.deserialize(value, seen)
	if exc != nil {
		subExc.Push(exc)
	}
	s.checkNot(value, subExc)
	return v, subExc, subWarn
}

func (s *Schema) dataTypeDefinition() (*datatype.FormatDefinition, bool) {
	reg := s.enforcerData.DataTypes()
	if reg == nil {
		return nil, false
	}
	def, ok := reg.Lookup(s.Type, s.Format)
	if !ok {
		return nil, false
	}
	return def, true
}

func scopeKey(t *exception.Tree, key string) *exception.Tree {
	if t == nil || !t.HasException() {
		return nil
	}
	scoped := exception.New()
	scoped.At(key).Push(t)
	return scoped
}

func scopeIndex(t *exception.Tree, i int) *exception.Tree {
	if t == nil || !t.HasException() {
		return nil
	}
	scoped := exception.New()
	scoped.AtIndex(i).Push(t)
	return scoped
}
