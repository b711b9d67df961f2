package enforcer

// Validator is the sum type living at every node of a descriptor tree. It
// is one of:
//
//   - bool: true means free-form (accept and deep-copy anything), false
//     means every key/value at this node is a violation
//   - *Ref: instantiate a named component for this node
//   - *Descriptor: a structured capability set
//   - ValidatorFunc: resolved once, at traversal time, to one of the above
//   - nil: no constraint; the raw definition passes through untouched
type Validator any

// ValidatorFunc is a validator that closes over the walk context to decide
// its own shape lazily.
type ValidatorFunc func(ctx *Ctx) Validator

// Ref is the EnforcerRef marker: "instantiate the named component here".
// Config, when non-nil, overrides the component's registered default
// descriptor. Most Refs leave it nil and rely on the registry entry; the
// override exists for slots where a component's default shape is wrong
// for this particular position (rare).
type Ref struct {
	Component string
	Config    Validator
}

// Property is one named entry in a Descriptor's Properties list: the
// validator governing the value at Key, plus the per-slot lifecycle
// controls from the structured-object algorithm.
type Property struct {
	Key       string
	Validator Validator
	Weight    Spec[int]
	Allowed   Spec[bool]
	Required  Spec[bool]
	Ignored   Spec[bool]
	Default   Spec[any]
}

// Descriptor is a capability-set node: the declarative meta-schema
// describing what a raw definition at this position must look like.
type Descriptor struct {
	Type Spec[[]string]

	// Properties, when non-empty, puts this node in structured-object mode.
	Properties []Property

	// AdditionalProperties governs array/object catch-all slots. On an
	// object node with no Properties, its presence puts the node in
	// map-container mode (every key uses this validator). Also used as the
	// per-property validator for a named "additionalProperties" slot inside
	// a structured schema descriptor - that usage is a plain Property, not
	// this field.
	AdditionalProperties Validator

	// Items governs each element of an array-typed node.
	Items Validator

	Enum Spec[[]any]

	// Errors runs once the node's result map/value has been materialized,
	// for cross-field checks that need to see sibling results.
	Errors func(ctx *Ctx, result any)
}

// Component is anything the Normalizer can instantiate for an
// EnforcerRef-governed object node. Init receives a walk context whose
// Result already holds the normalized property map; the component is
// expected to copy whatever fields it recognizes off of that map.
type Component interface {
	Init(ctx *Ctx) error
}

// Constructor produces a fresh, uninitialized Component.
type Constructor func() Component

// Registration is what a component name resolves to: a constructor plus
// the default descriptor governing an instance's object body. A Ref names
// only the component; the shape it validates against lives here, so a
// descriptor can reference "the Schema component" anywhere in its own
// tree (properties, items, additionalProperties) without needing to embed
// or self-reference the meta-validator by value.
type Registration struct {
	New        Constructor
	Descriptor Validator
}

// Registry is the string-keyed dispatch table from component name to
// registration that a Ref names into.
type Registry map[string]Registration
