// Package schema implements the Schema enforcer component: the node type
// registered into an enforcer.Registry under the name "Schema", and the
// seven public methods (Deserialize, Serialize, Validate, Populate,
// Random, Discriminate, Formalize) that operate on a materialized Schema
// tree.
//
// A Schema is built entirely by the Normalizer walking Descriptor(), the
// meta-validator returned by this package: the normalizer never has any
// OpenAPI-specific knowledge, and this package never re-implements tree
// walking - it only supplies the shape and the post-construction methods.
package schema
