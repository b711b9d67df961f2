package rawdoc

import (
	"strings"
	"testing"

	"github.com/marfarin/openapi-enforcer/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeYAML(t *testing.T) {
	doc := "openapi: 3.0.0\ninfo:\n  title: Widgets\n  version: \"1.0\"\n"
	m, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", m["openapi"])
	info := m["info"].(map[string]any)
	assert.Equal(t, "Widgets", info["title"])
}

func TestDecodeJSON(t *testing.T) {
	doc := `{"openapi": "3.0.0", "paths": {}}`
	m, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", m["openapi"])
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader("openapi: [unterminated"))
	require.Error(t, err)
	var parseErr *oaserrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeNonObjectRoot(t *testing.T) {
	_, err := Decode(strings.NewReader("- 1\n- 2\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrParse)
}
