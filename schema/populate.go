package schema

import (
	"github.com/marfarin/openapi-enforcer/exception"
	"github.com/marfarin/openapi-enforcer/oaserrors"
)

// PopulateOptions controls how Populate synthesizes a value from a
// parameter map. Zero value is not a valid options set; use
// DefaultPopulateOptions.
type PopulateOptions struct {
	Copy             bool
	Conditions       bool
	Defaults         bool
	TemplateDefaults bool
	Templates        bool
	Variables        bool
	Depth            int
	Replacement      Replacement
}

// DefaultPopulateOptions returns the documented defaults.
func DefaultPopulateOptions() PopulateOptions {
	return PopulateOptions{
		Conditions:       true,
		Defaults:         true,
		TemplateDefaults: true,
		Templates:        true,
		Variables:        true,
		Depth:            100,
		Replacement:      ReplacementColon,
	}
}

// Populate recursively synthesizes a value against the schema using params,
// filling in declared defaults, expanding templates in string values, and
// honoring x-condition style predicates on properties when Conditions is
// set.
func (s *Schema) Populate(params map[string]any, value any, opts PopulateOptions) (any, *exception.Tree, *exception.Tree, error) {
	exc := exception.New()
	warn := exception.New()

	if opts.Depth < 0 {
		return value, exc, warn, &oaserrors.ConfigError{
			Option:  "Depth",
			Value:   opts.Depth,
			Message: "must be a non-negative integer",
		}
	}

	out := s.populate(params, value, opts, exc, warn, 0)
	return out, exc, warn, nil
}

func (s *Schema) populate(params map[string]any, value any, opts PopulateOptions, exc, warn *exception.Tree, depth int) any {
	if depth > opts.Depth {
		warn.Message("populate stopped at max depth %d", opts.Depth)
		return value
	}

	if value == nil && opts.Defaults && s.Default != nil {
		value = s.Default
		if opts.TemplateDefaults {
			value = s.applyTemplate(value, params, opts)
		}
	}

	if value == nil {
		return nil
	}

	if s.IsComposite() {
		return s.populateComposite(params, value, opts, exc, warn, depth)
	}

	switch s.Type {
	case "string":
		if str, ok := value.(string); ok {
			if opts.Templates || opts.Variables {
				return inject(str, opts.Replacement, params)
			}
			return str
		}
		return value

	case "array":
		arr, ok := value.([]any)
		if !ok || s.Items == nil {
			return value
		}
		out := make([]any, len(arr))
		for i, item := range arr {
			out[i] = s.Items.populate(params, item, opts, exc.AtIndex(i), warn.AtIndex(i), depth+1)
		}
		return out

	case "object":
		m, ok := value.(map[string]any)
		if !ok {
			return value
		}
		if opts.Copy {
			cloned := make(map[string]any, len(m))
			for k, v := range m {
				cloned[k] = v
			}
			m = cloned
		}
		for key, prop := range s.Properties {
			if opts.Conditions && !propertyConditionMet(prop, m, params) {
				continue
			}
			raw, present := m[key]
			if !present && !opts.Defaults {
				continue
			}
			m[key] = prop.populate(params, raw, opts, exc.At(key), warn.At(key), depth+1)
		}
		return m

	default:
		return value
	}
}

func (s *Schema) populateComposite(params map[string]any, value any, opts PopulateOptions, exc, warn *exception.Tree, depth int) any {
	if len(s.AllOf) > 0 {
		var result any = value
		for _, branch := range s.AllOf {
			result = branch.populate(params, result, opts, exc, warn, depth)
		}
		return result
	}
	target, subExc := s.resolveComposite(value)
	exc.Push(subExc)
	if target == nil {
		return value
	}
	return target.populate(params, value, opts, exc, warn, depth)
}

func (s *Schema) applyTemplate(value any, params map[string]any, opts PopulateOptions) any {
	str, ok := value.(string)
	if !ok {
		return value
	}
	return inject(str, opts.Replacement, params)
}

// propertyConditionMet evaluates a simple x-condition predicate on a
// property's schema, if present: `x-condition: "otherKey"` means "populate
// this property only if otherKey is already set on the object being
// populated". Absent an x-condition, the property is always eligible.
func propertyConditionMet(prop *Schema, m map[string]any, params map[string]any) bool {
	if prop.Extensions == nil {
		return true
	}
	cond, ok := prop.Extensions["x-condition"].(string)
	if !ok || cond == "" {
		return true
	}
	if _, present := m[cond]; present {
		return true
	}
	_, present := params[cond]
	return present
}
