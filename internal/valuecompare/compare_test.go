package valuecompare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualScalars(t *testing.T) {
	assert.True(t, Equal("a", "a"))
	assert.False(t, Equal("a", "b"))
	assert.True(t, Equal(float64(1), int(1)))
	assert.False(t, Equal(nil, "a"))
	assert.True(t, Equal(nil, nil))
}

func TestEqualMapsIgnoreKeyOrder(t *testing.T) {
	a := map[string]any{"x": 1.0, "y": "two"}
	b := map[string]any{"y": "two", "x": 1.0}
	assert.True(t, Equal(a, b))
}

func TestEqualDetectsDeepDifference(t *testing.T) {
	a := map[string]any{"items": []any{1.0, 2.0}}
	b := map[string]any{"items": []any{1.0, 3.0}}
	assert.False(t, Equal(a, b))
}

func TestEqualHandlesCycles(t *testing.T) {
	a := map[string]any{}
	a["self"] = a
	b := map[string]any{}
	b["self"] = b
	assert.NotPanics(t, func() {
		Equal(a, b)
	})
}

func TestContains(t *testing.T) {
	candidates := []any{"red", "green", "blue"}
	assert.True(t, Contains(candidates, "green"))
	assert.False(t, Contains(candidates, "purple"))
}

func TestHashStableAcrossKeyOrder(t *testing.T) {
	a := map[string]any{"x": 1.0, "y": 2.0}
	b := map[string]any{"y": 2.0, "x": 1.0}
	assert.Equal(t, Hash(a), Hash(b))
}
