package schema

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minP(n int) *int         { return &n }
func maxP(n int) *int         { return &n }
func minF(f float64) *float64 { return &f }

func TestValidateTypeMismatch(t *testing.T) {
	s := &Schema{Type: "string"}
	_, exc, _ := s.Validate(3.0)
	assert.True(t, exc.HasException())
}

func TestValidateStringLengthBounds(t *testing.T) {
	s := &Schema{Type: "string", MinLength: minP(3), MaxLength: maxP(5)}
	_, exc, _ := s.Validate("ab")
	assert.True(t, exc.HasException())

	_, exc, _ = s.Validate("abcd")
	require.False(t, exc.HasException())
}

func TestValidatePattern(t *testing.T) {
	s := &Schema{Type: "string", Pattern: regexp.MustCompile(`^[a-z]+$`)}
	_, exc, _ := s.Validate("ABC")
	assert.True(t, exc.HasException())
}

func TestValidateNumericBoundsExclusive(t *testing.T) {
	s := &Schema{Type: "number", Minimum: minF(0), ExclusiveMinimum: true}
	_, exc, _ := s.Validate(0.0)
	assert.True(t, exc.HasException())

	_, exc, _ = s.Validate(0.1)
	assert.False(t, exc.HasException())
}

func TestValidateMultipleOf(t *testing.T) {
	s := &Schema{Type: "number", MultipleOf: minF(5)}
	_, exc, _ := s.Validate(12.0)
	assert.True(t, exc.HasException())

	_, exc, _ = s.Validate(15.0)
	assert.False(t, exc.HasException())
}

func TestValidateRequiredProperties(t *testing.T) {
	s := &Schema{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]*Schema{
			"name": {Type: "string"},
		},
	}
	_, exc, _ := s.Validate(map[string]any{})
	assert.True(t, exc.HasException())

	_, exc, _ = s.Validate(map[string]any{"name": "widget"})
	assert.False(t, exc.HasException())
}

func TestValidateAdditionalPropertiesFalseRejectsExtras(t *testing.T) {
	s := &Schema{
		Type:                 "object",
		AdditionalProperties: false,
		Properties:           map[string]*Schema{},
	}
	_, exc, _ := s.Validate(map[string]any{"extra": 1.0})
	assert.True(t, exc.HasException())
}

func TestValidateEnumViolation(t *testing.T) {
	s := &Schema{Type: "string", Enum: []any{"a", "b"}}
	_, exc, _ := s.Validate("c")
	assert.True(t, exc.HasException())
}

func TestValidateArrayUniqueItems(t *testing.T) {
	s := &Schema{Type: "array", UniqueItems: true, Items: &Schema{Type: "number"}}
	_, exc, _ := s.Validate([]any{1.0, 1.0})
	assert.True(t, exc.HasException())
}

func TestValidateNullableAllowsNull(t *testing.T) {
	s := &Schema{Type: "string", Nullable: true}
	_, exc, _ := s.Validate(nil)
	assert.False(t, exc.HasException())
}

func TestValidateNonNullableRejectsNull(t *testing.T) {
	s := &Schema{Type: "string"}
	_, exc, _ := s.Validate(nil)
	assert.True(t, exc.HasException())
}

// TestValidateIntegerAcceptsNativeIntValue covers a YAML-decoded integer
// scalar, which go.yaml.in/yaml/v4 hands back as Go int rather than float64.
func TestValidateIntegerAcceptsNativeIntValue(t *testing.T) {
	s := &Schema{Type: "integer", Minimum: minF(0), Maximum: minF(10)}
	_, exc, _ := s.Validate(5)
	assert.False(t, exc.HasException())

	_, exc, _ = s.Validate(50)
	assert.True(t, exc.HasException())
}
