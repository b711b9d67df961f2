package schema

import (
	"math"
	"sort"

	"github.com/marfarin/openapi-enforcer/exception"
	"github.com/marfarin/openapi-enforcer/internal/valuecompare"
)

// Validate applies every constraint reachable from the schema. A null value
// is checked against nullable and nothing else. A composite schema is
// checked through its allOf branches, or the selected anyOf/oneOf branch,
// plus not, in place of its own constraints. Otherwise the order is: type,
// enum, numeric bounds / string length and pattern / array size and
// uniqueness / object property rules, discriminator, and format-specific
// validation.
func (s *Schema) Validate(value any) (any, *exception.Tree, *exception.Tree) {
	exc := exception.New()
	warn := exception.New()
	s.validate(value, exc, warn, make(seenMap))
	return value, exc, warn
}

func (s *Schema) validate(value any, exc, warn *exception.Tree, seen seenMap) {
	if value == nil {
		if !s.Nullable && s.Type != "" {
			exc.Message("value must not be null")
		}
		return
	}

	if s.IsComposite() {
		s.validateComposite(value, exc, warn, seen)
		return
	}

	if already, _, tracked := seen.visit(value); tracked && already {
		return
	}

	if s.Type != "" && !typeMatches(s.Type, value) {
		exc.Message("expected type %s", s.Type)
		return
	}

	if len(s.Enum) > 0 && !valuecompare.Contains(s.Enum, value) {
		exc.Message("value must be one of the enumerated values")
	}

	switch s.Type {
	case "string":
		s.validateString(value.(string), exc)
	case "integer", "number":
		s.validateNumber(value, exc)
	case "array":
		s.validateArray(value, exc, warn, seen)
	case "object":
		s.validateObject(value, exc, warn, seen)
	}

	if s.Discriminator != nil {
		if m, ok := value.(map[string]any); ok {
			if _, present := m[s.Discriminator.PropertyName]; !present {
				exc.At(s.Discriminator.PropertyName).Message("discriminator property is required")
			}
		}
	}

	if s.Format != "" {
		if def, ok := s.dataTypeDefinition(); ok {
			if err := def.Validate(value); err != nil {
				exc.Message("value fails format %q validation: %v", s.Format, err)
			}
		} else {
			warn.At("format").Message("unrecognized format %q, skipping format-specific validation", s.Format)
		}
	}
}

func (s *Schema) validateComposite(value any, exc, warn *exception.Tree, seen seenMap) {
	if len(s.AllOf) > 0 {
		for _, branch := range s.AllOf {
			branch.validate(value, exc, warn, seen)
		}
	} else {
		target, subExc := s.resolveComposite(value)
		exc.Push(subExc)
		if target != nil {
			target.validate(value, exc, warn, seen)
		}
	}
	s.checkNot(value, exc)
}

func typeMatches(schemaType string, value any) bool {
	switch schemaType {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "integer":
		f, ok := valuecompare.ToFloat(value)
		return ok && f == math.Trunc(f)
	case "number":
		_, ok := valuecompare.ToFloat(value)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

func (s *Schema) validateString(v string, exc *exception.Tree) {
	if s.MinLength != nil && len(v) < *s.MinLength {
		exc.Message("length must be at least %d", *s.MinLength)
	}
	if s.MaxLength != nil && len(v) > *s.MaxLength {
		exc.Message("length must be at most %d", *s.MaxLength)
	}
	if s.Pattern != nil && !s.Pattern.MatchString(v) {
		exc.Message("value does not match pattern")
	}
}

func (s *Schema) validateNumber(value any, exc *exception.Tree) {
	f, ok := numericOf(value)
	if !ok {
		return
	}
	if s.Minimum != nil {
		if s.ExclusiveMinimum && f <= *s.Minimum {
			exc.Message("value must be greater than %v", *s.Minimum)
		} else if !s.ExclusiveMinimum && f < *s.Minimum {
			exc.Message("value must be at least %v", *s.Minimum)
		}
	}
	if s.Maximum != nil {
		if s.ExclusiveMaximum && f >= *s.Maximum {
			exc.Message("value must be less than %v", *s.Maximum)
		} else if !s.ExclusiveMaximum && f > *s.Maximum {
			exc.Message("value must be at most %v", *s.Maximum)
		}
	}
	if s.MultipleOf != nil && *s.MultipleOf != 0 {
		if math.Mod(f, *s.MultipleOf) != 0 {
			exc.Message("value must be a multiple of %v", *s.MultipleOf)
		}
	}
}

func numericOf(value any) (float64, bool) {
	return valuecompare.ToFloat(value)
}

func (s *Schema) validateArray(value any, exc, warn *exception.Tree, seen seenMap) {
	arr, ok := value.([]any)
	if !ok {
		return
	}
	if s.MinItems != nil && len(arr) < *s.MinItems {
		exc.Message("must contain at least %d items", *s.MinItems)
	}
	if s.MaxItems != nil && len(arr) > *s.MaxItems {
		exc.Message("must contain at most %d items", *s.MaxItems)
	}
	if s.UniqueItems {
		for i := 0; i < len(arr); i++ {
			for j := i + 1; j < len(arr); j++ {
				if valuecompare.Equal(arr[i], arr[j]) {
					exc.Message("items at index %d and %d must be unique", i, j)
				}
			}
		}
	}
	if s.Items != nil {
		for i, item := range arr {
			itemExc := exc.AtIndex(i)
			itemWarn := warn.AtIndex(i)
			s.Items.validate(item, itemExc, itemWarn, seen)
		}
	}
}

func (s *Schema) validateObject(value any, exc, warn *exception.Tree, seen seenMap) {
	m, ok := value.(map[string]any)
	if !ok {
		return
	}
	if s.MinProperties != nil && len(m) < *s.MinProperties {
		exc.Message("must contain at least %d properties", *s.MinProperties)
	}
	if s.MaxProperties != nil && len(m) > *s.MaxProperties {
		exc.Message("must contain at most %d properties", *s.MaxProperties)
	}

	missing := make([]string, 0)
	for _, req := range s.Required {
		if _, present := m[req]; !present {
			missing = append(missing, req)
		}
	}
	sort.Strings(missing)
	for _, key := range missing {
		exc.Message("missing required property: %s", key)
	}

	for key, raw := range m {
		if prop, ok := s.Properties[key]; ok {
			prop.validate(raw, exc.At(key), warn.At(key), seen)
			continue
		}
		switch add := s.AdditionalProperties.(type) {
		case bool:
			if !add {
				exc.At(key).Message("additional property not allowed")
			}
		case *Schema:
			add.validate(raw, exc.At(key), warn.At(key), seen)
		}
	}
}
