// Package openapienforcer wires together the core of an OpenAPI document
// enforcement engine: a recursive, validator-driven Normalizer that turns a
// raw OpenAPI definition into a tree of strongly-shaped enforcer objects,
// and a Schema subsystem that deserializes, serializes, validates,
// populates, and randomizes user values against any node of that tree.
//
// # Overview
//
// The engine is split into four packages that each own one layer:
//
//   - exception: a hierarchical, lazy error/warning collector indexed by path
//   - enforcer: the validator descriptor model and the Normalizer that walks
//     a raw definition against it, producing an enforcer tree
//   - datatype: the extensible (type, format) -> codec registry consulted by
//     Schema's deserialize/serialize/validate/random methods
//   - schema: the Schema component itself, registered into the Normalizer's
//     component registry, plus composite (allOf/anyOf/oneOf) resolution and
//     the three populate-template injectors
//
// Reference resolution against external documents, the HTTP request/response
// enforcement layer, and the top-level surface that chooses between an
// OpenAPI 2 and an OpenAPI 3 root descriptor are treated as external
// collaborators; this module supplies the tree-rewriting and value-shaping
// engine they sit on top of.
//
// # Quick start
//
//	reg := openapienforcer.New()
//	def, err := rawdoc.Decode(strings.NewReader(yamlDoc))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	root := &enforcer.Ctx{
//		Definition: def,
//		Validator:  &enforcer.Ref{Component: "Schema"},
//		Context:    reg.Components,
//		StaticData: &enforcer.StaticData{DataTypes: reg.DataTypes},
//	}
//	result, exc, warn := enforcer.Normalize(root)
//	if exc.HasException() {
//		log.Fatal(exc.String())
//	}
//	sch := result.(*schema.Schema)
//	value, valExc, _ := sch.Validate(userValue)
//
// See the exception, enforcer, datatype, and schema package documentation
// for the full method set.
package openapienforcer
