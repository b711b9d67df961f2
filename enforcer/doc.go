// Package enforcer implements the validator descriptor model and the
// recursive Normalizer that walks a raw OpenAPI definition against a
// descriptor tree, producing an enforcer tree: the same shape as the input,
// but with every EnforcerRef-governed object node replaced by an
// initialized component instance.
//
// The package knows nothing about OpenAPI itself or about the concrete
// component set (Schema, Parameter, Response, ...); callers supply a
// Registry mapping component names to constructors and a root Descriptor or
// Ref to drive the walk. This keeps the Normalizer reusable across the
// whole document shape, not just Schema nodes.
package enforcer
