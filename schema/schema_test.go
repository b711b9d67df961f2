package schema

import (
	"testing"

	"github.com/marfarin/openapi-enforcer/enforcer"
	"github.com/marfarin/openapi-enforcer/exception"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInitCtx(result map[string]any) *enforcer.Ctx {
	root := &enforcer.Ctx{Exception: exception.New(), Warn: exception.New(), Result: map[string]any{}}
	root.Root = root
	return &enforcer.Ctx{
		Result:    result,
		Exception: exception.New(),
		Warn:      exception.New(),
		Root:      root,
		Map:       map[uintptr]any{},
	}
}

func TestSchemaInitCopiesRecognizedFields(t *testing.T) {
	s := &Schema{}
	ctx := newInitCtx(map[string]any{
		"type":     "string",
		"format":   "date",
		"nullable": true,
	})
	require.NoError(t, s.Init(ctx))
	assert.Equal(t, "string", s.Type)
	assert.Equal(t, "date", s.Format)
	assert.True(t, s.Nullable)
}

func TestSchemaInitExtractsExtensions(t *testing.T) {
	s := &Schema{}
	ctx := newInitCtx(map[string]any{
		"type":     "object",
		"x-custom": "value",
	})
	require.NoError(t, s.Init(ctx))
	assert.Equal(t, "value", s.Extensions["x-custom"])
}

func TestCompilePatternEmptyIsDualSignal(t *testing.T) {
	s := &Schema{}
	ctx := newInitCtx(map[string]any{})
	s.compilePattern(ctx, "")
	assert.ErrorIs(t, s.PatternError, errEmptyPattern)
	require.NotNil(t, s.Pattern)
	assert.True(t, s.Pattern.MatchString("anything"))
	assert.True(t, ctx.Exception.At("pattern").HasException())
}

func TestCompilePatternValid(t *testing.T) {
	s := &Schema{}
	ctx := newInitCtx(map[string]any{})
	s.compilePattern(ctx, "^[a-z]+$")
	assert.NoError(t, s.PatternError)
	assert.True(t, s.Pattern.MatchString("abc"))
	assert.False(t, s.Pattern.MatchString("ABC"))
}

func TestIsCompositeDetectsAnyComposite(t *testing.T) {
	assert.True(t, (&Schema{AllOf: []*Schema{{}}}).IsComposite())
	assert.True(t, (&Schema{Not: &Schema{}}).IsComposite())
	assert.False(t, (&Schema{}).IsComposite())
}
