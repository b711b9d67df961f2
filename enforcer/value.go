package enforcer

// Spec is a descriptor leaf that is either a literal value or a callback
// resolved lazily against a walk context. The zero value reports Present()
// == false, modeling an absent field distinctly from one explicitly set to
// the type's zero value.
type Spec[T any] struct {
	lit T
	fn  func(*Ctx) T
	set bool
}

// Val builds a literal Spec.
func Val[T any](v T) Spec[T] {
	return Spec[T]{lit: v, set: true}
}

// Calc builds a callback Spec.
func Calc[T any](fn func(*Ctx) T) Spec[T] {
	return Spec[T]{fn: fn, set: true}
}

// Present reports whether the field was set at all (literal or callback).
func (s Spec[T]) Present() bool {
	return s.set
}

// Resolve evaluates the spec against ctx, calling the callback if present.
func (s Spec[T]) Resolve(ctx *Ctx) T {
	if s.fn != nil {
		return s.fn(ctx)
	}
	return s.lit
}
