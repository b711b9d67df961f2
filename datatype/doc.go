// Package datatype implements the extensible (primitive type, format) code
// table consulted by the Schema subsystem's deserialize, serialize,
// validate, and random methods.
//
// A Registry is created once per document root and threaded through the
// walk via enforcer.Ctx.StaticData.DataTypes. Format registration mutates
// the registry only during setup, before normalization begins; the
// process-wide constructors set (used by formalize to recognize a native
// value produced by a registered format) is append-only for the lifetime
// of the process, matching the surrounding project's single-root mutation
// discipline.
package datatype
