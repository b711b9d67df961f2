package schema

import (
	"fmt"

	"github.com/marfarin/openapi-enforcer/enforcer"
	"github.com/marfarin/openapi-enforcer/oaserrors"
)

// initDiscriminator normalizes the raw discriminator field (a bare string
// in OpenAPI 2, an object with propertyName/mapping in OpenAPI 3) and, for
// the v3 mapping case, enqueues a deferred plugin that resolves each
// mapping's target name to the Schema instance materialized elsewhere in
// the document. The mapping cannot be resolved eagerly: the target schema
// may not have been visited yet at this point in the walk.
func (s *Schema) initDiscriminator(ctx *enforcer.Ctx, raw any) {
	switch v := raw.(type) {
	case string:
		s.Discriminator = &Discriminator{PropertyName: v, IsV2: true}
	case map[string]any:
		propertyName, _ := v["propertyName"].(string)
		d := &Discriminator{PropertyName: propertyName, Mapping: map[string]*Schema{}}
		s.Discriminator = d

		rawMapping, _ := v["mapping"].(map[string]any)
		if len(rawMapping) == 0 {
			return
		}

		root := ctx.Root
		mappingExc := ctx.Exception.At("discriminator").At("mapping")
		ctx.Plugins.Push(func() error {
			for name, target := range rawMapping {
				str, ok := target.(string)
				if !ok {
					continue
				}
				resolved := lookupSchemaByName(root.Result, str)
				if resolved == nil {
					err := &oaserrors.ReferenceError{
						Ref:     str,
						RefType: "discriminator-mapping",
						Message: fmt.Sprintf("cannot resolve discriminator mapping target %q", str),
					}
					mappingExc.At(name).Message("%v", err)
					continue
				}
				d.Mapping[name] = resolved
			}
			return nil
		})
	}
}

// DiscriminateResult is what Discriminate returns when details is
// requested: the raw property key read off value, the resolved schema
// name, and the schema itself.
type DiscriminateResult struct {
	Key    string
	Name   string
	Schema *Schema
}

// Discriminate implements the discriminator lookup described for
// deserialize/validate's composite handling and for direct callers: given a
// value carrying the discriminator property, it resolves the target
// schema. The v2 form reads root.definitions[name]; the v3 form prefers
// mapping[name] and falls back to root.components.schemas[name].
func (s *Schema) Discriminate(value any, details bool) (*Schema, *DiscriminateResult, error) {
	if s.Discriminator == nil {
		return nil, nil, &oaserrors.ReferenceError{Message: "schema does not declare a discriminator"}
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, nil, &oaserrors.ReferenceError{Message: "discriminator requires an object value"}
	}
	name, ok := m[s.Discriminator.PropertyName].(string)
	if !ok || name == "" {
		return nil, nil, &oaserrors.ReferenceError{
			Ref:     s.Discriminator.PropertyName,
			Message: fmt.Sprintf("value is missing discriminator property %q", s.Discriminator.PropertyName),
		}
	}

	target := s.discriminatorTargetByName(name)
	if target == nil {
		return nil, nil, &oaserrors.ReferenceError{
			Ref:     name,
			RefType: "discriminator-value",
			Message: fmt.Sprintf("cannot resolve discriminator value %q", name),
		}
	}

	if details {
		return target, &DiscriminateResult{Key: s.Discriminator.PropertyName, Name: name, Schema: target}, nil
	}
	return target, nil, nil
}

// discriminatorTarget resolves the schema for a value using the same rule
// as Discriminate, but swallows lookup failures for callers (composite
// resolution) that want to fall back to trial validation instead.
func (s *Schema) discriminatorTarget(value any) *Schema {
	target, _, err := s.Discriminate(value, false)
	if err != nil {
		return nil
	}
	return target
}

func (s *Schema) discriminatorTargetByName(name string) *Schema {
	root := s.enforcerData.Root
	if !s.Discriminator.IsV2 {
		if target, ok := s.Discriminator.Mapping[name]; ok {
			return target
		}
	}
	return lookupSchemaByName(root, name)
}

// lookupSchemaByName finds a Schema instance registered under
// components.schemas[name] (v3) or definitions[name] (v2) in the fully
// materialized root document. Used both by the mapping-resolution plugin
// and by Discriminate's own fallback lookup.
func lookupSchemaByName(root any, name string) *Schema {
	doc, ok := root.(map[string]any)
	if !ok {
		return nil
	}
	if defs, ok := doc["definitions"].(map[string]any); ok {
		if sch, ok := defs[name].(*Schema); ok {
			return sch
		}
	}
	if components, ok := doc["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok {
			if sch, ok := schemas[name].(*Schema); ok {
				return sch
			}
		}
	}
	return nil
}
