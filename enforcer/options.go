package enforcer

import "log/slog"

// Option configures a top-level Normalize call.
type Option func(*Ctx)

// WithLogger attaches a structured logger the Normalizer uses for
// diagnostic Debug/Warn output (cycle collapses, component instantiation,
// panics converted to host exceptions). Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ctx *Ctx) {
		ctx.Logger = logger
	}
}

// WithDebug re-panics instead of swallowing a callback panic into a host
// "Unexpected error encountered" exception. Intended for development.
func WithDebug(debug bool) Option {
	return func(ctx *Ctx) {
		ctx.Debug = debug
	}
}
