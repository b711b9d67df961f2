package openapienforcer

import (
	"github.com/marfarin/openapi-enforcer/datatype"
	"github.com/marfarin/openapi-enforcer/enforcer"
	"github.com/marfarin/openapi-enforcer/schema"
)

// Engine bundles the two lookup tables a Normalize call needs: the
// component registry a Ref resolves against, and the data type registry
// Schema's codec methods consult for (type, format) pairs.
type Engine struct {
	Components enforcer.Registry
	DataTypes  *datatype.Registry
}

// New builds an Engine wired with the Schema component and the built-in
// (type, format) codecs. Callers that need additional components or
// formats can add to Components/DataTypes before calling Normalize.
func New() *Engine {
	return &Engine{
		Components: enforcer.Registry{
			"Schema": enforcer.Registration{
				New:        func() enforcer.Component { return &schema.Schema{} },
				Descriptor: schema.Descriptor(),
			},
		},
		DataTypes: datatype.New(),
	}
}
