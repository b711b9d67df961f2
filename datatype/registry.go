package datatype

import (
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/marfarin/openapi-enforcer/oaserrors"
)

var validPrimitiveTypes = map[string]bool{
	"boolean": true,
	"integer": true,
	"number":  true,
	"string":  true,
}

// FormatDefinition is the codec bundle registered for one (primitive type,
// format) pair. Deserialize, Serialize, and Validate are required; Random
// and Constructors are optional.
type FormatDefinition struct {
	Deserialize func(raw any) (any, error)
	Serialize   func(value any) (any, error)
	Validate    func(value any) error
	Random      func() (any, error)

	// Constructors lists the Go types this format's Deserialize produces.
	// Values whose reflect.Type appears here are recognized as "native" by
	// formalize and by serialize's constructor-based dispatch.
	Constructors []reflect.Type

	// IsNumeric marks a string-typed format (e.g. a fixed-point decimal
	// string) as numeric-ish for the purposes of maximum/minimum checks.
	IsNumeric bool
}

// Registry is the per-root (type, format) -> FormatDefinition table.
type Registry struct {
	mu     sync.RWMutex
	table  map[string]map[string]*FormatDefinition
	warned map[string]bool
	logger *slog.Logger
}

// NewRegistry returns an empty registry. Most callers want New, which also
// seeds the built-in formats.
func NewRegistry() *Registry {
	return &Registry{
		table:  make(map[string]map[string]*FormatDefinition),
		warned: make(map[string]bool),
	}
}

// WithLogger attaches a logger used for the once-per-format
// missing-constructors warning.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Define registers def under (primitiveType, format). Passing a nil def is
// an explicit de-registration.
func (r *Registry) Define(primitiveType, format string, def *FormatDefinition) error {
	if !validPrimitiveTypes[primitiveType] {
		return &oaserrors.ConfigError{Option: "type", Value: primitiveType, Message: "unknown primitive type"}
	}
	if strings.TrimSpace(format) == "" {
		return &oaserrors.ConfigError{Option: "format", Message: "format must be a non-empty string"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.table[primitiveType] == nil {
		r.table[primitiveType] = make(map[string]*FormatDefinition)
	}

	if def == nil {
		delete(r.table[primitiveType], format)
		return nil
	}

	if _, exists := r.table[primitiveType][format]; exists {
		return &oaserrors.ConfigError{Option: format, Message: "duplicate data type format registration for " + primitiveType}
	}
	if def.Deserialize == nil || def.Serialize == nil || def.Validate == nil {
		return &oaserrors.ConfigError{Option: format, Message: "data type format definition missing deserialize, serialize, or validate"}
	}

	r.table[primitiveType][format] = def
	for _, ctor := range def.Constructors {
		registerConstructor(ctor)
	}
	if len(def.Constructors) == 0 {
		key := primitiveType + "/" + format
		if !r.warned[key] {
			r.warned[key] = true
			r.log().Warn("data type format registered without constructors", "type", primitiveType, "format", format)
		}
	}
	return nil
}

// Lookup returns the definition registered for (primitiveType, format).
func (r *Registry) Lookup(primitiveType, format string) (*FormatDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byFormat, ok := r.table[primitiveType]
	if !ok {
		return nil, false
	}
	def, ok := byFormat[format]
	return def, ok
}

var (
	constructorsMu    sync.Mutex
	knownConstructors = map[reflect.Type]bool{}
)

func registerConstructor(t reflect.Type) {
	if t == nil {
		return
	}
	constructorsMu.Lock()
	defer constructorsMu.Unlock()
	knownConstructors[t] = true
}

// IsRegisteredConstructor reports whether t was registered as a
// Constructors entry by any format definition in this process, across
// every Registry. Used by formalize to decide whether a non-plain value
// should be preserved as-is or coerced into a plain tree.
func IsRegisteredConstructor(t reflect.Type) bool {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()
	return knownConstructors[t]
}
