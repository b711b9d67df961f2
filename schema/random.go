package schema

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/marfarin/openapi-enforcer/exception"
	"github.com/marfarin/openapi-enforcer/internal/valuecompare"
	"github.com/marfarin/openapi-enforcer/oaserrors"
)

// RandomOptions controls Random's value generation. Zero value is not a
// valid options set; use DefaultRandomOptions.
type RandomOptions struct {
	AdditionalPropertiesPossibility float64
	DefaultPossibility              float64
	DefinedPropertyPossibility      float64
	ArrayVariation                  int
	NumberVariation                 float64
	MaxDepth                        int
	UniqueItemRetry                 int
	Copy                            bool

	// Rand supplies the entropy source. Left nil, Random seeds a fresh
	// generator off the current time on every call rather than reusing a
	// fixed seed, so repeated calls on the same schema vary. Callers that
	// want reproducible output should set this to a seeded *rand.Rand.
	Rand *rand.Rand
}

// DefaultRandomOptions returns the documented defaults.
func DefaultRandomOptions() RandomOptions {
	return RandomOptions{
		DefaultPossibility:         0.25,
		DefinedPropertyPossibility: 0.80,
		ArrayVariation:             4,
		NumberVariation:            1000,
		MaxDepth:                   10,
		UniqueItemRetry:            5,
	}
}

// Random generates a value conforming to the schema. A malformed opts value
// (a possibility outside [0, 1]) is a caller configuration mistake, not a
// document defect, so it is reported as a *oaserrors.ConfigError rather than
// through the exception tree.
func (s *Schema) Random(opts RandomOptions) (any, *exception.Tree, *exception.Tree, error) {
	exc := exception.New()
	warn := exception.New()

	for _, p := range []struct {
		name string
		v    float64
	}{
		{"additionalPropertiesPossibility", opts.AdditionalPropertiesPossibility},
		{"defaultPossibility", opts.DefaultPossibility},
		{"definedPropertyPossibility", opts.DefinedPropertyPossibility},
	} {
		if p.v < 0 || p.v > 1 {
			return nil, exc, warn, &oaserrors.ConfigError{
				Option:  p.name,
				Value:   p.v,
				Message: fmt.Sprintf("%s must be in [0, 1]", p.name),
			}
		}
	}

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	value := s.random(opts, 0)
	return value, exc, warn, nil
}

func (s *Schema) random(opts RandomOptions, depth int) any {
	if depth > opts.MaxDepth {
		return nil
	}

	if s.Default != nil && opts.Rand.Float64() < opts.DefaultPossibility {
		return s.Default
	}

	if s.IsComposite() {
		return s.randomComposite(opts, depth)
	}

	if len(s.Enum) > 0 {
		return s.Enum[opts.Rand.Intn(len(s.Enum))]
	}

	switch s.Type {
	case "boolean":
		return opts.Rand.Intn(2) == 0
	case "string":
		return randomString(opts.Rand, s)
	case "integer", "number":
		return randomNumber(opts.Rand, s, opts.NumberVariation)
	case "array":
		return s.randomArray(opts, depth)
	case "object":
		return s.randomObject(opts, depth)
	default:
		return nil
	}
}

func (s *Schema) randomComposite(opts RandomOptions, depth int) any {
	if len(s.AllOf) > 0 {
		merged := map[string]any{}
		var scalar any
		for _, branch := range s.AllOf {
			v := branch.random(opts, depth)
			if m, ok := v.(map[string]any); ok {
				for k, val := range m {
					merged[k] = val
				}
			} else {
				scalar = v
			}
		}
		if len(merged) > 0 {
			return merged
		}
		return scalar
	}
	candidates := s.AnyOf
	if len(s.OneOf) > 0 {
		candidates = s.OneOf
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[opts.Rand.Intn(len(candidates))].random(opts, depth)
}

func randomString(rng *rand.Rand, s *Schema) string {
	minLen := 5
	maxLen := 10
	if s.MinLength != nil {
		minLen = *s.MinLength
	}
	if s.MaxLength != nil {
		maxLen = *s.MaxLength
	} else if maxLen < minLen {
		maxLen = minLen + 5
	}
	n := minLen
	if maxLen > minLen {
		n += rng.Intn(maxLen - minLen + 1)
	}
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

func randomNumber(rng *rand.Rand, s *Schema, variation float64) float64 {
	min := 0.0
	if s.Minimum != nil {
		min = *s.Minimum
	}
	max := min + variation
	if s.Maximum != nil {
		max = *s.Maximum
	}
	if max <= min {
		max = min + 1
	}
	value := min + rng.Float64()*(max-min)
	if s.Type == "integer" {
		value = float64(int64(value))
	}
	if s.MultipleOf != nil && *s.MultipleOf != 0 {
		value = float64(int64(value / *s.MultipleOf)) * *s.MultipleOf
	}
	return value
}

func (s *Schema) randomArray(opts RandomOptions, depth int) []any {
	minItems := 0
	if s.MinItems != nil {
		minItems = *s.MinItems
	}
	n := minItems
	if opts.ArrayVariation > 0 {
		n += opts.Rand.Intn(opts.ArrayVariation + 1)
	}
	if s.MaxItems != nil && n > *s.MaxItems {
		n = *s.MaxItems
	}
	out := make([]any, 0, n)
	if s.Items == nil {
		return out
	}
	for len(out) < n {
		v := s.Items.random(opts, depth+1)
		if s.UniqueItems && containsEqual(out, v) {
			retried := false
			for i := 0; i < opts.UniqueItemRetry; i++ {
				v = s.Items.random(opts, depth+1)
				if !containsEqual(out, v) {
					retried = true
					break
				}
			}
			if !retried {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

func containsEqual(items []any, v any) bool {
	for _, item := range items {
		if valuecompare.Equal(item, v) {
			return true
		}
	}
	return false
}

func (s *Schema) randomObject(opts RandomOptions, depth int) map[string]any {
	out := map[string]any{}
	required := make(map[string]bool, len(s.Required))
	for _, k := range s.Required {
		required[k] = true
	}
	for key, prop := range s.Properties {
		if !required[key] && opts.Rand.Float64() > opts.DefinedPropertyPossibility {
			continue
		}
		out[key] = prop.random(opts, depth+1)
	}
	if sub, ok := s.AdditionalProperties.(*Schema); ok && opts.Rand.Float64() < opts.AdditionalPropertiesPossibility {
		extraKey := fmt.Sprintf("extra%d", opts.Rand.Intn(1000))
		out[extraKey] = sub.random(opts, depth+1)
	}
	return out
}
