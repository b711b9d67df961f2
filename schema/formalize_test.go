package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type widget struct {
	Name  string
	Count int `json:"count"`
}

func TestFormalizeFlattensStruct(t *testing.T) {
	s := &Schema{}
	out := s.Formalize(widget{Name: "bolt", Count: 3})
	m, ok := out.(map[string]any)
	if !assert.True(t, ok) {
		return
	}
	assert.Equal(t, "bolt", m["Name"])
	assert.Equal(t, 3, m["count"])
}

func TestFormalizePassesThroughPlainMap(t *testing.T) {
	s := &Schema{}
	in := map[string]any{"a": 1.0}
	out := s.Formalize(in)
	assert.Equal(t, in, out)
}

func TestFormalizeRecursesIntoSlice(t *testing.T) {
	s := &Schema{}
	out := s.Formalize([]widget{{Name: "a"}, {Name: "b"}})
	arr, ok := out.([]any)
	if !assert.True(t, ok) {
		return
	}
	assert.Len(t, arr, 2)
	first := arr[0].(map[string]any)
	assert.Equal(t, "a", first["Name"])
}

func TestFormalizeHandlesNil(t *testing.T) {
	s := &Schema{}
	assert.Nil(t, s.Formalize(nil))
}
