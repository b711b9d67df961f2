package schema

import "github.com/marfarin/openapi-enforcer/exception"

// operation is the shape shared by deserialize/serialize/validate/populate
// so mergeAllOf can drive any of them without depending on the concrete
// method it is merging.
type operation func(s *Schema, value any) (any, *exception.Tree, *exception.Tree)

// resolveComposite implements the anyOf/oneOf branch-selection rule shared
// by every schema operation: pick via discriminator when one is declared,
// otherwise by trial validation, first match wins, and record an error for
// oneOf when nothing matches.
func (s *Schema) resolveComposite(value any) (*Schema, *exception.Tree) {
	oneOf := len(s.OneOf) > 0
	candidates := s.AnyOf
	if oneOf {
		candidates = s.OneOf
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if s.Discriminator != nil {
		if target := s.discriminatorTarget(value); target != nil {
			return target, nil
		}
	}

	exc := exception.New()
	var matched []*Schema
	for _, candidate := range candidates {
		if _, valExc, _ := candidate.Validate(value); !valExc.HasException() {
			matched = append(matched, candidate)
		}
	}

	switch {
	case len(matched) == 0:
		kind := "anyOf"
		if oneOf {
			kind = "oneOf"
		}
		exc.Message("value does not match any schema in %s", kind)
		return nil, exc
	case oneOf && len(matched) > 1:
		exc.Message("value matches more than one schema in oneOf")
		return matched[0], exc
	default:
		return matched[0], nil
	}
}

// mergeAllOf runs op against every allOf branch and merges the results:
// object results merge key by key in declared order (later branches win on
// key collision), non-object results simply return the last branch's
// result since allOf on scalars only makes sense when every branch agrees.
func (s *Schema) mergeAllOf(value any, op operation) (any, *exception.Tree, *exception.Tree) {
	exc := exception.New()
	warn := exception.New()

	var result any
	merged := map[string]any{}
	anyObject := false

	for _, branch := range s.AllOf {
		v, e, w := op(branch, value)
		exc.Push(e)
		warn.Push(w)
		if m, ok := v.(map[string]any); ok {
			anyObject = true
			for k, val := range m {
				merged[k] = val
			}
		} else {
			result = v
		}
	}

	if anyObject {
		return merged, exc, warn
	}
	return result, exc, warn
}

// checkNot validates value against Not and records a violation if it
// matches - "not" is satisfied only when the sub-schema rejects the value.
func (s *Schema) checkNot(value any, exc *exception.Tree) {
	if s.Not == nil {
		return
	}
	if _, sub, _ := s.Not.Validate(value); !sub.HasException() {
		exc.Message("value must not match the \"not\" schema")
	}
}
