// Package rawdoc decodes an OpenAPI document's outer YAML/JSON envelope
// into the map[string]any / []any / scalar tree the Normalizer walks. It
// owns nothing about OpenAPI semantics - it only turns bytes into the raw
// definition shape enforcer.Ctx.Definition expects.
package rawdoc
