package enforcer

import (
	"log/slog"

	"github.com/marfarin/openapi-enforcer/exception"
)

// DefinitionType classifies the raw value under examination at a node.
type DefinitionType string

const (
	TypeArray     DefinitionType = "array"
	TypeObject    DefinitionType = "object"
	TypeBoolean   DefinitionType = "boolean"
	TypeNumber    DefinitionType = "number"
	TypeString    DefinitionType = "string"
	TypeNull      DefinitionType = "null"
	TypeUndefined DefinitionType = "undefined"
)

// DetectType classifies a decoded value (map[string]any / []any / scalar,
// as produced by rawdoc.Decode) into a DefinitionType.
func DetectType(v any) DefinitionType {
	if v == nil {
		return TypeNull
	}
	switch v.(type) {
	case map[string]any:
		return TypeObject
	case []any:
		return TypeArray
	case bool:
		return TypeBoolean
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return TypeNumber
	case string:
		return TypeString
	default:
		return TypeUndefined
	}
}

// StaticData is per-root shared state reachable from every Ctx in that
// root's walk, notably the data type registry. Its concrete payload is
// opaque to this package on purpose: the Normalizer must not know about
// Schema or the data type registry's shape.
type StaticData struct {
	DataTypes any
	Extra     map[string]any
}

// PluginQueue is a FIFO of callbacks deferred until the entire tree has
// been materialized, so they can safely resolve back-references into
// sibling instances.
type PluginQueue struct {
	fns []func() error
}

// Push enqueues a deferred callback.
func (q *PluginQueue) Push(fn func() error) {
	q.fns = append(q.fns, fn)
}

// Run drains the queue in FIFO order, collecting every error returned
// rather than stopping at the first.
func (q *PluginQueue) Run() []error {
	var errs []error
	for _, fn := range q.fns {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	q.fns = nil
	return errs
}

// Ctx is the walk context threaded through normalization. Callbacks may
// read ancestors via Parent/Root and append to their own Exception/Warn
// handles, but must not mutate an ancestor's Result.
type Ctx struct {
	Definition     any
	DefinitionType DefinitionType
	Result         any
	Key            string
	Parent         *Ctx
	Root           *Ctx

	Exception *exception.Tree
	Warn      *exception.Tree

	Validator Validator

	// Map caches already-materialized results keyed by the identity of the
	// raw definition object (map or slice) that produced them, breaking
	// cycles in the raw definition.
	Map map[uintptr]any

	Major, Minor, Patch int

	Context Registry

	Plugins *PluginQueue

	StaticData *StaticData

	Debug  bool
	Logger *slog.Logger

	// Instance is set on the Ctx handed to Component.Init: the component
	// instance whose fields Init is expected to populate.
	Instance Component
}

// child builds a scoped Ctx for a property or array element, sharing every
// root-level collaborator with its parent.
func (ctx *Ctx) child(key string, raw any, defType DefinitionType) *Ctx {
	return &Ctx{
		Definition:     raw,
		DefinitionType: defType,
		Key:            key,
		Parent:         ctx,
		Root:           ctx.Root,
		Exception:      ctx.Exception.At(key),
		Warn:           ctx.Warn.At(key),
		Map:            ctx.Map,
		Major:          ctx.Major,
		Minor:          ctx.Minor,
		Patch:          ctx.Patch,
		Context:        ctx.Context,
		Plugins:        ctx.Plugins,
		StaticData:     ctx.StaticData,
		Debug:          ctx.Debug,
		Logger:         ctx.Logger,
	}
}

func (ctx *Ctx) logger() *slog.Logger {
	if ctx.Logger != nil {
		return ctx.Logger
	}
	return slog.Default()
}
