package schema

import (
	"strings"
	"testing"

	"github.com/marfarin/openapi-enforcer/datatype"
	"github.com/marfarin/openapi-enforcer/enforcer"
	"github.com/marfarin/openapi-enforcer/rawdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchemaRegistry() enforcer.Registry {
	return enforcer.Registry{
		"Schema": enforcer.Registration{
			New:        func() enforcer.Component { return &Schema{} },
			Descriptor: Descriptor(),
		},
	}
}

func normalizeSchema(t *testing.T, def map[string]any) (*Schema, bool, bool) {
	t.Helper()
	return normalizeSchemaVersion(t, def, 3)
}

func normalizeSchemaVersion(t *testing.T, def map[string]any, major int) (*Schema, bool, bool) {
	t.Helper()
	root := &enforcer.Ctx{
		Definition: def,
		Validator:  &enforcer.Ref{Component: "Schema"},
		Context:    newSchemaRegistry(),
		StaticData: &enforcer.StaticData{DataTypes: datatype.New()},
		Major:      major,
	}
	result, exc, warn := enforcer.Normalize(root)
	s, ok := result.(*Schema)
	require.True(t, ok)
	return s, exc.HasException(), warn.HasException()
}

func TestSchemaDescriptorAcceptsBasicObject(t *testing.T) {
	s, hasExc, _ := normalizeSchema(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	})
	require.False(t, hasExc)
	assert.Equal(t, "object", s.Type)
	assert.Contains(t, s.Properties, "name")
}

func TestSchemaDescriptorRejectsMultipleComposites(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"allOf": []any{map[string]any{"type": "string"}},
		"oneOf": []any{map[string]any{"type": "number"}},
	})
	assert.True(t, hasExc)
}

func TestSchemaDescriptorRequiresTypeWithoutComposite(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{})
	assert.True(t, hasExc)
}

func TestSchemaDescriptorAllowsCompositeWithoutType(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"allOf": []any{map[string]any{"type": "string"}},
	})
	assert.False(t, hasExc)
}

func TestSchemaDescriptorFlagsReadWriteOnlyConflict(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":      "string",
		"readOnly":  true,
		"writeOnly": true,
	})
	assert.True(t, hasExc)
}

func TestSchemaDescriptorFlagsMinMaxInversion(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":    "integer",
		"minimum": 10.0,
		"maximum": 5.0,
	})
	assert.True(t, hasExc)
}

func TestSchemaDescriptorWarnsOnUnknownFormat(t *testing.T) {
	_, hasExc, hasWarn := normalizeSchema(t, map[string]any{
		"type":   "string",
		"format": "not-a-real-format",
	})
	require.False(t, hasExc)
	assert.True(t, hasWarn)
}

func TestSchemaDescriptorKnownFormatDoesNotWarn(t *testing.T) {
	_, hasExc, hasWarn := normalizeSchema(t, map[string]any{
		"type":   "string",
		"format": "date",
	})
	require.False(t, hasExc)
	assert.False(t, hasWarn)
}

// TestSchemaDescriptorAcceptsIntegerYAMLScalars exercises the full
// rawdoc.Decode -> enforcer.Normalize -> schema.Schema path: a YAML document
// with plain integer scalars, which go.yaml.in/yaml/v4 hands back as Go int
// rather than float64.
func TestSchemaDescriptorAcceptsIntegerYAMLScalars(t *testing.T) {
	def, err := rawdoc.Decode(strings.NewReader("type: string\nminLength: 5\nmaxLength: 10\n"))
	require.NoError(t, err)

	s, hasExc, _ := normalizeSchema(t, def)
	require.False(t, hasExc)
	require.NotNil(t, s.MinLength)
	assert.Equal(t, 5, *s.MinLength)
	require.NotNil(t, s.MaxLength)
	assert.Equal(t, 10, *s.MaxLength)
}

func TestSchemaDescriptorFlagsMinMaxInversionFromYAMLIntegers(t *testing.T) {
	def, err := rawdoc.Decode(strings.NewReader("type: integer\nminimum: 10\nmaximum: 5\n"))
	require.NoError(t, err)

	_, hasExc, _ := normalizeSchema(t, def)
	assert.True(t, hasExc)
}

func TestSchemaDescriptorRequiredMustAppearInProperties(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":                 "object",
		"required":             []any{"missing"},
		"properties":           map[string]any{},
		"additionalProperties": false,
	})
	assert.True(t, hasExc)
}

func TestSchemaDescriptorRequiredAllowedViaAdditionalProperties(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":     "object",
		"required": []any{"anything"},
	})
	assert.False(t, hasExc)
}

func TestSchemaDescriptorRejectsFileTypeInV3(t *testing.T) {
	_, hasExc, _ := normalizeSchemaVersion(t, map[string]any{"type": "file"}, 3)
	assert.True(t, hasExc)
}

func TestSchemaDescriptorAllowsFileTypeInV2(t *testing.T) {
	_, hasExc, _ := normalizeSchemaVersion(t, map[string]any{"type": "file"}, 2)
	assert.False(t, hasExc)
}

func TestSchemaDescriptorRejectsV3DiscriminatorShapeInV2(t *testing.T) {
	_, hasExc, _ := normalizeSchemaVersion(t, map[string]any{
		"type":       "object",
		"properties": map[string]any{"kind": map[string]any{"type": "string"}},
		"required":   []any{"kind"},
		"discriminator": map[string]any{
			"propertyName": "kind",
		},
	}, 2)
	assert.True(t, hasExc)
}

func TestSchemaDescriptorAcceptsV2DiscriminatorString(t *testing.T) {
	s, hasExc, _ := normalizeSchemaVersion(t, map[string]any{
		"type":       "object",
		"properties": map[string]any{"kind": map[string]any{"type": "string"}},
		"required":   []any{"kind"},
		"discriminator": "kind",
	}, 2)
	require.False(t, hasExc)
	require.NotNil(t, s.Discriminator)
	assert.True(t, s.Discriminator.IsV2)
	assert.Equal(t, "kind", s.Discriminator.PropertyName)
}

func TestSchemaDescriptorRejectsBareStringDiscriminatorInV3(t *testing.T) {
	_, hasExc, _ := normalizeSchemaVersion(t, map[string]any{
		"type":          "object",
		"properties":    map[string]any{"kind": map[string]any{"type": "string"}},
		"required":      []any{"kind"},
		"discriminator": "kind",
	}, 3)
	assert.True(t, hasExc)
}

// TestSchemaDescriptorDefaultAcceptsObjectShape guards the "default"/
// "example"/enum-item validator against being an empty structured
// Descriptor: an object value under one of these keys must pass through
// untouched rather than being flagged as having no allowed properties.
func TestSchemaDescriptorDefaultAcceptsObjectShape(t *testing.T) {
	s, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":    "object",
		"default": map[string]any{"foo": "bar"},
	})
	require.False(t, hasExc)
	m, ok := s.Default.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bar", m["foo"])
}

func TestSchemaDescriptorExampleAcceptsObjectShape(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":    "object",
		"example": map[string]any{"foo": "bar"},
	})
	assert.False(t, hasExc)
}

func TestSchemaDescriptorEnumAcceptsObjectItems(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type": "object",
		"enum": []any{map[string]any{"foo": "bar"}},
	})
	assert.False(t, hasExc)
}

func TestSchemaDescriptorRejectsMaximumOnStringType(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":    "string",
		"maximum": 5.0,
	})
	assert.True(t, hasExc)
}

func TestSchemaDescriptorAllowsMaximumOnNumericType(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":    "number",
		"maximum": 5.0,
	})
	assert.False(t, hasExc)
}

func TestSchemaDescriptorRejectsFormatOnObjectType(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":   "object",
		"format": "date",
	})
	assert.True(t, hasExc)
}

func TestSchemaDescriptorAllowsFormatOnPrimitiveType(t *testing.T) {
	_, hasExc, _ := normalizeSchema(t, map[string]any{
		"type":   "string",
		"format": "date",
	})
	assert.False(t, hasExc)
}

func TestSchemaDescriptorRejectsOneOfInV2(t *testing.T) {
	_, hasExc, _ := normalizeSchemaVersion(t, map[string]any{
		"oneOf": []any{map[string]any{"type": "string"}},
	}, 2)
	assert.True(t, hasExc)
}

func TestSchemaDescriptorAllowsOneOfInV3(t *testing.T) {
	_, hasExc, _ := normalizeSchemaVersion(t, map[string]any{
		"oneOf": []any{map[string]any{"type": "string"}},
	}, 3)
	assert.False(t, hasExc)
}
