package schema

import (
	"testing"

	"github.com/marfarin/openapi-enforcer/enforcer"
	"github.com/marfarin/openapi-enforcer/exception"
	"github.com/marfarin/openapi-enforcer/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDiscriminatorV2String(t *testing.T) {
	s := &Schema{}
	root := &enforcer.Ctx{Exception: exception.New(), Plugins: &enforcer.PluginQueue{}}
	root.Root = root
	s.initDiscriminator(root, "petType")
	require.NotNil(t, s.Discriminator)
	assert.True(t, s.Discriminator.IsV2)
	assert.Equal(t, "petType", s.Discriminator.PropertyName)
}

func TestInitDiscriminatorV3MappingResolves(t *testing.T) {
	dogSchema := &Schema{Type: "object"}
	root := &enforcer.Ctx{Exception: exception.New(), Plugins: &enforcer.PluginQueue{}}
	root.Root = root
	root.Result = map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Dog": dogSchema,
			},
		},
	}

	s := &Schema{}
	raw := map[string]any{
		"propertyName": "petType",
		"mapping":      map[string]any{"dog": "Dog"},
	}
	s.initDiscriminator(root, raw)
	require.NotNil(t, s.Discriminator)
	assert.False(t, s.Discriminator.IsV2)

	errs := root.Plugins.Run()
	require.Empty(t, errs)
	assert.Same(t, dogSchema, s.Discriminator.Mapping["dog"])
}

func TestDiscriminateV3UsesMappingThenFallsBack(t *testing.T) {
	catSchema := &Schema{Type: "object"}
	root := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Cat": catSchema,
			},
		},
	}
	s := &Schema{
		Discriminator: &Discriminator{
			PropertyName: "petType",
			Mapping:      map[string]*Schema{},
		},
	}
	s.enforcerData = &EnforcerData{Root: root}

	target, _, err := s.Discriminate(map[string]any{"petType": "Cat"}, false)
	require.NoError(t, err)
	assert.Same(t, catSchema, target)
}

func TestDiscriminateMissingPropertyErrors(t *testing.T) {
	s := &Schema{Discriminator: &Discriminator{PropertyName: "petType"}}
	s.enforcerData = &EnforcerData{Root: map[string]any{}}
	_, _, err := s.Discriminate(map[string]any{}, false)
	require.Error(t, err)
	var refErr *oaserrors.ReferenceError
	assert.ErrorAs(t, err, &refErr)
}

func TestDiscriminateUnresolvedValueReturnsReferenceError(t *testing.T) {
	s := &Schema{
		Discriminator: &Discriminator{
			PropertyName: "petType",
			Mapping:      map[string]*Schema{},
		},
	}
	s.enforcerData = &EnforcerData{Root: map[string]any{}}

	_, _, err := s.Discriminate(map[string]any{"petType": "Fish"}, false)
	require.Error(t, err)
	var refErr *oaserrors.ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "Fish", refErr.Ref)
}

func TestInitDiscriminatorV3UnresolvedMappingReportsReferenceError(t *testing.T) {
	root := &enforcer.Ctx{Exception: exception.New(), Plugins: &enforcer.PluginQueue{}}
	root.Root = root
	root.Result = map[string]any{}

	s := &Schema{}
	raw := map[string]any{
		"propertyName": "petType",
		"mapping":      map[string]any{"dog": "Dog"},
	}
	s.initDiscriminator(root, raw)

	errs := root.Plugins.Run()
	require.Empty(t, errs)
	require.True(t, root.Exception.HasException())
	assert.Contains(t, root.Exception.String(), "cannot resolve discriminator mapping target")
}
