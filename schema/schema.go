package schema

import (
	"regexp"

	"github.com/marfarin/openapi-enforcer/datatype"
	"github.com/marfarin/openapi-enforcer/enforcer"
	"github.com/marfarin/openapi-enforcer/internal/valuecompare"
)

// EnforcerData is the walk-context back-reference attached to every
// materialized Schema, mirroring what the surrounding project calls
// enforcerData: version info, the document root, the shared static data
// bag, and DefToInstanceMap, the Normalizer's identity-keyed cycle cache
// (Ctx.Map) mapping a raw definition to what was materialized for it.
// Nothing in this package reads DefToInstanceMap; discriminator lookups go
// through Root.
type EnforcerData struct {
	Major, Minor, Patch int
	Root                any
	StaticData          *enforcer.StaticData
	DefToInstanceMap    map[uintptr]any
}

// DataTypes returns the data type registry for this schema's root, or nil
// if none was supplied.
func (d *EnforcerData) DataTypes() *datatype.Registry {
	if d == nil || d.StaticData == nil {
		return nil
	}
	reg, _ := d.StaticData.DataTypes.(*datatype.Registry)
	return reg
}

// Discriminator is the normalized form of a schema's discriminator field,
// covering both the OpenAPI 2 (bare string) and 3 (object) shapes.
type Discriminator struct {
	PropertyName string
	Mapping      map[string]*Schema
	IsV2         bool
}

// Schema is a materialized OpenAPI schema node: the Component
// implementation registered under "Schema".
type Schema struct {
	Type   string
	Format string

	Properties           map[string]*Schema
	Items                *Schema
	AdditionalProperties any // bool | *Schema

	Required []string

	Enum    []any
	Default any
	Example any

	Pattern      *regexp.Regexp
	PatternError error

	MinLength *int
	MaxLength *int

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64

	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	MinProperties *int
	MaxProperties *int

	Nullable  bool
	ReadOnly  bool
	WriteOnly bool

	Discriminator *Discriminator

	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema
	Not   *Schema

	Extensions map[string]any

	enforcerData *EnforcerData
}

// EnforcerData exposes the walk-context back-reference.
func (s *Schema) EnforcerData() *EnforcerData {
	return s.enforcerData
}

// IsComposite reports whether this schema carries any of allOf/anyOf/oneOf/not.
func (s *Schema) IsComposite() bool {
	return len(s.AllOf) > 0 || len(s.AnyOf) > 0 || len(s.OneOf) > 0 || s.Not != nil
}

// isNumericType reports whether values at this schema are numeric either
// natively or via a registry format flagged IsNumeric.
func (s *Schema) isNumericType() bool {
	if s.Type == "integer" || s.Type == "number" {
		return true
	}
	if s.Type == "" {
		return false
	}
	reg := s.enforcerData.DataTypes()
	if reg == nil || s.Format == "" {
		return false
	}
	def, ok := reg.Lookup(s.Type, s.Format)
	return ok && def.IsNumeric
}

// Init implements enforcer.Component. It copies every recognized field out
// of ctx.Result onto the typed struct and stashes the walk-context
// back-reference.
func (s *Schema) Init(ctx *enforcer.Ctx) error {
	m, _ := ctx.Result.(map[string]any)
	if m == nil {
		m = map[string]any{}
	}

	if v, ok := m["type"].(string); ok {
		s.Type = v
	}
	if v, ok := m["format"].(string); ok {
		s.Format = v
	}
	if v, ok := m["nullable"].(bool); ok {
		s.Nullable = v
	}
	if v, ok := m["readOnly"].(bool); ok {
		s.ReadOnly = v
	}
	if v, ok := m["writeOnly"].(bool); ok {
		s.WriteOnly = v
	}
	if v, ok := m["uniqueItems"].(bool); ok {
		s.UniqueItems = v
	}
	if v, ok := m["default"]; ok {
		s.Default = v
	}
	if v, ok := m["example"]; ok {
		s.Example = v
	}
	if v, ok := m["enum"].([]any); ok {
		s.Enum = v
	}

	if v, ok := valuecompare.ToFloat(m["minLength"]); ok {
		n := int(v)
		s.MinLength = &n
	}
	if v, ok := valuecompare.ToFloat(m["maxLength"]); ok {
		n := int(v)
		s.MaxLength = &n
	}
	if v, ok := valuecompare.ToFloat(m["minItems"]); ok {
		n := int(v)
		s.MinItems = &n
	}
	if v, ok := valuecompare.ToFloat(m["maxItems"]); ok {
		n := int(v)
		s.MaxItems = &n
	}
	if v, ok := valuecompare.ToFloat(m["minProperties"]); ok {
		n := int(v)
		s.MinProperties = &n
	}
	if v, ok := valuecompare.ToFloat(m["maxProperties"]); ok {
		n := int(v)
		s.MaxProperties = &n
	}
	if v, ok := valuecompare.ToFloat(m["minimum"]); ok {
		s.Minimum = &v
	}
	if v, ok := valuecompare.ToFloat(m["maximum"]); ok {
		s.Maximum = &v
	}
	if v, ok := valuecompare.ToFloat(m["multipleOf"]); ok {
		s.MultipleOf = &v
	}
	if v, ok := m["exclusiveMinimum"].(bool); ok {
		s.ExclusiveMinimum = v
	}
	if v, ok := m["exclusiveMaximum"].(bool); ok {
		s.ExclusiveMaximum = v
	}

	if v, ok := m["pattern"].(string); ok {
		s.compilePattern(ctx, v)
	}

	if v, ok := m["required"].([]any); ok {
		for _, item := range v {
			if str, ok := item.(string); ok {
				s.Required = append(s.Required, str)
			}
		}
	}

	if v, ok := m["items"].(*Schema); ok {
		s.Items = v
	}

	if v, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*Schema, len(v))
		for key, val := range v {
			if child, ok := val.(*Schema); ok {
				s.Properties[key] = child
			}
		}
	}

	switch v := m["additionalProperties"].(type) {
	case bool:
		s.AdditionalProperties = v
	case *Schema:
		s.AdditionalProperties = v
	}

	if v, ok := m["allOf"].([]any); ok {
		s.AllOf = toSchemaSlice(v)
	}
	if v, ok := m["anyOf"].([]any); ok {
		s.AnyOf = toSchemaSlice(v)
	}
	if v, ok := m["oneOf"].([]any); ok {
		s.OneOf = toSchemaSlice(v)
	}
	if v, ok := m["not"].(*Schema); ok {
		s.Not = v
	}

	if v, ok := m["discriminator"]; ok {
		s.initDiscriminator(ctx, v)
	}

	for key, val := range m {
		if len(key) > 2 && key[0] == 'x' && key[1] == '-' {
			if s.Extensions == nil {
				s.Extensions = map[string]any{}
			}
			s.Extensions[key] = val
		}
	}

	s.enforcerData = &EnforcerData{
		Major:            ctx.Major,
		Minor:            ctx.Minor,
		Patch:            ctx.Patch,
		Root:             ctx.Root.Result,
		StaticData:       ctx.StaticData,
		DefToInstanceMap: ctx.Map,
	}

	return nil
}

func toSchemaSlice(raw []any) []*Schema {
	out := make([]*Schema, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(*Schema); ok {
			out = append(out, s)
		}
	}
	return out
}

// compilePattern implements the dual-signal behavior for an empty pattern:
// it both reports an error and falls back to a universal matcher, so a
// downstream consumer that only reads Pattern still gets something usable.
func (s *Schema) compilePattern(ctx *enforcer.Ctx, raw string) {
	if raw == "" {
		s.PatternError = errEmptyPattern
		s.Pattern = regexp.MustCompile(".*")
		ctx.Exception.At("pattern").Message("pattern must not be an empty string")
		return
	}
	re, err := regexp.Compile(raw)
	if err != nil {
		s.PatternError = err
		s.Pattern = regexp.MustCompile(".*")
		ctx.Exception.At("pattern").Message("invalid pattern: %v", err)
		return
	}
	s.Pattern = re
}

var errEmptyPattern = patternError("pattern must not be an empty string")

type patternError string

func (e patternError) Error() string { return string(e) }
