package schema

import (
	"sync"

	"github.com/marfarin/openapi-enforcer/datatype"
	"github.com/marfarin/openapi-enforcer/enforcer"
	"github.com/marfarin/openapi-enforcer/internal/valuecompare"
)

var (
	descriptorOnce sync.Once
	descriptor     *enforcer.Descriptor
)

// Descriptor returns the meta-validator governing every schema object in a
// document: the enforcer.Descriptor registered under the "Schema" component
// name. It is built once and shared; every self-reference (properties,
// items, additionalProperties, the composite arrays) is a plain
// &enforcer.Ref{Component: "Schema"} rather than an embedded copy, since the
// registry resolves that name back to this same value.
func Descriptor() *enforcer.Descriptor {
	descriptorOnce.Do(func() {
		descriptor = buildDescriptor()
	})
	return descriptor
}

func buildDescriptor() *enforcer.Descriptor {
	schemaRef := &enforcer.Ref{Component: "Schema"}

	stringType := &enforcer.Descriptor{Type: enforcer.Val([]string{"string"})}
	boolType := &enforcer.Descriptor{Type: enforcer.Val([]string{"boolean"})}
	numberType := &enforcer.Descriptor{Type: enforcer.Val([]string{"number"})}
	intType := &enforcer.Descriptor{Type: enforcer.Val([]string{"number"})}
	// enum items, default, and example accept any shape at all - the
	// literal true validator, not an empty Descriptor (which would still
	// dispatch objects into structured-object mode with zero declared
	// properties and flag every key as not allowed).
	var anyType enforcer.Validator = true

	stringArray := &enforcer.Descriptor{
		Type:  enforcer.Val([]string{"array"}),
		Items: stringType,
	}
	anyArray := &enforcer.Descriptor{
		Type:  enforcer.Val([]string{"array"}),
		Items: anyType,
	}
	schemaArray := &enforcer.Descriptor{
		Type:  enforcer.Val([]string{"array"}),
		Items: schemaRef,
	}

	discriminatorV3Descriptor := &enforcer.Descriptor{
		Type: enforcer.Val([]string{"object"}),
		Properties: []enforcer.Property{
			{Key: "propertyName", Required: enforcer.Val(true), Validator: stringType},
			{
				Key: "mapping",
				Validator: &enforcer.Descriptor{
					Type:                 enforcer.Val([]string{"object"}),
					AdditionalProperties: stringType,
				},
			},
		},
	}
	// v2 knows only the bare-string discriminator; the {propertyName, mapping}
	// object shape was introduced in v3.
	discriminatorValidator := enforcer.ValidatorFunc(func(ctx *enforcer.Ctx) enforcer.Validator {
		if ctx.Major == 2 {
			return stringType
		}
		return discriminatorV3Descriptor
	})

	// v2's "file" type is only ever legal on a top-level parameter/header
	// schema, never nested - callers that need that restriction enforce it
	// at the parameter descriptor, not here; this only gates the enum by
	// version the way the rest of the type system does.
	typeValidator := enforcer.ValidatorFunc(func(ctx *enforcer.Ctx) enforcer.Validator {
		values := []any{"array", "boolean", "integer", "number", "object", "string"}
		if ctx.Major == 2 {
			values = append(values, "file")
		}
		return &enforcer.Descriptor{
			Type: enforcer.Val([]string{"string"}),
			Enum: enforcer.Val(values),
		}
	})

	additionalPropertiesValidator := enforcer.ValidatorFunc(func(ctx *enforcer.Ctx) enforcer.Validator {
		if ctx.DefinitionType == enforcer.TypeBoolean {
			return boolType
		}
		return schemaRef
	})

	// siblingType reads the "type" value already normalized into this
	// object's result map - safe for any property whose weight sorts after
	// type's -10, which every caller below does.
	siblingType := func(ctx *enforcer.Ctx) string {
		m, _ := ctx.Result.(map[string]any)
		t, _ := m["type"].(string)
		return t
	}
	numericTypes := map[string]bool{"integer": true, "number": true}
	primitiveTypes := map[string]bool{"string": true, "number": true, "integer": true, "boolean": true}

	// numeric-ish: integer/number, or a type/format pair whose registry
	// definition is flagged IsNumeric (format's -9 weight sorts before -8).
	numericOnlyAllowed := enforcer.Calc(func(ctx *enforcer.Ctx) bool {
		t := siblingType(ctx)
		if numericTypes[t] {
			return true
		}
		m, _ := ctx.Result.(map[string]any)
		format, _ := m["format"].(string)
		reg := staticDataTypes(ctx)
		if reg == nil || t == "" || format == "" {
			return false
		}
		def, ok := reg.Lookup(t, format)
		return ok && def.IsNumeric
	})
	primitiveOnlyAllowed := enforcer.Calc(func(ctx *enforcer.Ctx) bool {
		return primitiveTypes[siblingType(ctx)]
	})
	// anyOf, oneOf, and not were introduced in OpenAPI 3; v2 schemas only
	// ever have allOf among the composites.
	v3OnlyAllowed := enforcer.Calc(func(ctx *enforcer.Ctx) bool {
		return ctx.Major != 2
	})

	d := &enforcer.Descriptor{
		Type: enforcer.Val([]string{"object"}),
		Properties: []enforcer.Property{
			{Key: "allOf", Weight: enforcer.Val(-12), Validator: schemaArray},
			{Key: "anyOf", Weight: enforcer.Val(-12), Validator: schemaArray, Allowed: v3OnlyAllowed},
			{Key: "oneOf", Weight: enforcer.Val(-12), Validator: schemaArray, Allowed: v3OnlyAllowed},
			{Key: "not", Weight: enforcer.Val(-12), Validator: schemaRef, Allowed: v3OnlyAllowed},

			{Key: "type", Weight: enforcer.Val(-10), Validator: typeValidator},
			{Key: "format", Weight: enforcer.Val(-9), Validator: &enforcer.Descriptor{
				Type:   enforcer.Val([]string{"string"}),
				Errors: warnUnknownFormat,
			}, Allowed: primitiveOnlyAllowed},

			{Key: "maximum", Weight: enforcer.Val(-8), Validator: numberType, Allowed: numericOnlyAllowed},
			{Key: "minimum", Weight: enforcer.Val(-8), Validator: numberType, Allowed: numericOnlyAllowed},
			{Key: "exclusiveMaximum", Weight: enforcer.Val(-8), Validator: boolType},
			{Key: "exclusiveMinimum", Weight: enforcer.Val(-8), Validator: boolType},
			{Key: "multipleOf", Weight: enforcer.Val(-8), Validator: numberType},

			{Key: "enum", Weight: enforcer.Val(-7), Validator: anyArray},

			{Key: "items", Weight: enforcer.Val(-6), Validator: schemaRef},

			{Key: "properties", Weight: enforcer.Val(-5), Validator: &enforcer.Descriptor{
				Type:                 enforcer.Val([]string{"object"}),
				AdditionalProperties: schemaRef,
			}},
			{Key: "additionalProperties", Weight: enforcer.Val(-5), Validator: additionalPropertiesValidator},

			{Key: "maxLength", Weight: enforcer.Val(-4), Validator: intType},
			{Key: "minLength", Weight: enforcer.Val(-4), Validator: intType},
			{Key: "pattern", Weight: enforcer.Val(-4), Validator: stringType},
			{Key: "maxItems", Weight: enforcer.Val(-4), Validator: intType},
			{Key: "minItems", Weight: enforcer.Val(-4), Validator: intType},
			{Key: "uniqueItems", Weight: enforcer.Val(-4), Validator: boolType},
			{Key: "maxProperties", Weight: enforcer.Val(-4), Validator: intType},
			{Key: "minProperties", Weight: enforcer.Val(-4), Validator: intType},

			{Key: "nullable", Weight: enforcer.Val(-2), Validator: boolType},
			{Key: "readOnly", Weight: enforcer.Val(0), Validator: boolType},
			{Key: "writeOnly", Weight: enforcer.Val(0), Validator: boolType},

			{Key: "discriminator", Weight: enforcer.Val(2), Validator: discriminatorValidator},

			{Key: "required", Weight: enforcer.Val(1), Validator: stringArray},

			{Key: "default", Weight: enforcer.Val(3), Validator: anyType},
			{Key: "example", Weight: enforcer.Val(3), Validator: anyType},
		},
		Errors: crossFieldChecks,
	}

	return d
}

// warnUnknownFormat implements Testable Scenario 6: a format the data type
// registry has never seen for this type is not an error, just a warning -
// the value is still accepted verbatim.
func warnUnknownFormat(ctx *enforcer.Ctx, result any) {
	format, _ := result.(string)
	if format == "" {
		return
	}
	typeRaw, _ := ctx.Parent.Result.(map[string]any)
	primitiveType, _ := typeRaw["type"].(string)
	if primitiveType == "" {
		return
	}
	reg := staticDataTypes(ctx)
	if reg == nil {
		return
	}
	if _, ok := reg.Lookup(primitiveType, format); !ok {
		ctx.Warn.At("format").Message("unrecognized format %q for type %q", format, primitiveType)
	}
}

// crossFieldChecks runs once a schema object's properties have all been
// normalized: composite exclusivity, type-vs-composite requirement, min/max
// ordering, and the readOnly/writeOnly conflict.
func crossFieldChecks(ctx *enforcer.Ctx, result any) {
	m, ok := result.(map[string]any)
	if !ok {
		return
	}

	composites := 0
	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		if arr, ok := m[key].([]any); ok && len(arr) > 0 {
			composites++
		}
	}
	if composites > 1 {
		ctx.Exception.Message("cannot have multiple composites: allOf, anyOf, oneOf are mutually exclusive")
	}

	_, hasType := m["type"]
	if !hasType && composites == 0 && m["not"] == nil {
		ctx.Exception.Message("must define a type unless allOf, anyOf, oneOf, or not is present")
	}

	if minV, ok := numericValue(m["minimum"]); ok {
		if maxV, ok := numericValue(m["maximum"]); ok && minV > maxV {
			ctx.Exception.Message("minimum (%v) must not exceed maximum (%v)", minV, maxV)
		}
	}
	if minV, ok := numericValue(m["minLength"]); ok {
		if maxV, ok := numericValue(m["maxLength"]); ok && minV > maxV {
			ctx.Exception.Message("minLength (%v) must not exceed maxLength (%v)", minV, maxV)
		}
	}
	if minV, ok := numericValue(m["minItems"]); ok {
		if maxV, ok := numericValue(m["maxItems"]); ok && minV > maxV {
			ctx.Exception.Message("minItems (%v) must not exceed maxItems (%v)", minV, maxV)
		}
	}
	if minV, ok := numericValue(m["minProperties"]); ok {
		if maxV, ok := numericValue(m["maxProperties"]); ok && minV > maxV {
			ctx.Exception.Message("minProperties (%v) must not exceed maxProperties (%v)", minV, maxV)
		}
	}

	if readOnly, _ := m["readOnly"].(bool); readOnly {
		if writeOnly, _ := m["writeOnly"].(bool); writeOnly {
			ctx.Exception.Message("readOnly and writeOnly are mutually exclusive")
		}
	}

	if req, ok := m["required"].([]any); ok {
		if maxProps, ok := numericValue(m["maxProperties"]); ok && float64(len(req)) > maxProps {
			ctx.Exception.Message("required lists more properties than maxProperties allows")
		}

		properties, _ := m["properties"].(map[string]any)
		additionalAllowed := true
		if add, ok := m["additionalProperties"]; ok {
			if b, ok := add.(bool); ok {
				additionalAllowed = b
			}
		}
		if !additionalAllowed {
			for _, item := range req {
				name, ok := item.(string)
				if !ok {
					continue
				}
				if _, declared := properties[name]; !declared {
					ctx.Exception.At("required").Message("required property %q must appear in properties or additionalProperties must be permitted", name)
				}
			}
		}
	}

	var discriminatorPropertyName string
	switch disc := m["discriminator"].(type) {
	case map[string]any:
		discriminatorPropertyName, _ = disc["propertyName"].(string)
	case string:
		discriminatorPropertyName = disc
	}
	if discriminatorPropertyName != "" {
		properties, _ := m["properties"].(map[string]any)
		if _, declared := properties[discriminatorPropertyName]; !declared {
			ctx.Exception.At("discriminator").Message("propertyName %q must appear in properties", discriminatorPropertyName)
		}
		required, _ := m["required"].([]any)
		if !containsString(required, discriminatorPropertyName) {
			ctx.Exception.At("discriminator").Message("propertyName %q must be listed in required", discriminatorPropertyName)
		}
	}
}

func containsString(items []any, s string) bool {
	for _, item := range items {
		if str, ok := item.(string); ok && str == s {
			return true
		}
	}
	return false
}

func numericValue(v any) (float64, bool) {
	return valuecompare.ToFloat(v)
}

func staticDataTypes(ctx *enforcer.Ctx) *datatype.Registry {
	if ctx.StaticData == nil {
		return nil
	}
	reg, _ := ctx.StaticData.DataTypes.(*datatype.Registry)
	return reg
}
