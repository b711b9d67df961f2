// Package valuecompare provides cycle-safe deep equality and hashing over
// arbitrary decoded-document values (map[string]any, []any, and scalars).
//
// It generalizes the teacher's SchemaHasher, which walked a single typed
// *parser.Schema tree, to the untyped trees this module works with: enum
// member equality during normalization, and uniqueItems and enum checks
// during validation all go through here.
package valuecompare

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"sort"
)

// Equal reports whether a and b are member-wise equal: same shape, same
// keys, same scalar values, ignoring map key order. Cyclic inputs (shared
// map/slice identities) are handled by recording each (a, b) identity pair
// as it is entered and treating a pair that is reached again as equal.
func Equal(a, b any) bool {
	return equal(a, b, map[[2]uintptr]bool{})
}

func equal(a, b any, seen map[[2]uintptr]bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	am, aIsMap := a.(map[string]any)
	bm, bIsMap := b.(map[string]any)
	if aIsMap || bIsMap {
		if !aIsMap || !bIsMap {
			return false
		}
		return equalMaps(am, bm, seen)
	}

	as, aIsSlice := a.([]any)
	bs, bIsSlice := b.([]any)
	if aIsSlice || bIsSlice {
		if !aIsSlice || !bIsSlice {
			return false
		}
		return equalSlices(as, bs, seen)
	}

	an, aIsNum := ToFloat(a)
	bn, bIsNum := ToFloat(b)
	if aIsNum && bIsNum {
		return an == bn
	}

	return a == b
}

func identityPair(a, b any) ([2]uintptr, bool) {
	ap, aok := pointerOf(a)
	bp, bok := pointerOf(b)
	if !aok || !bok {
		return [2]uintptr{}, false
	}
	return [2]uintptr{ap, bp}, true
}

func pointerOf(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Ptr:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}

func equalMaps(a, b map[string]any, seen map[[2]uintptr]bool) bool {
	if key, ok := identityPair(a, b); ok {
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !equal(av, bv, seen) {
			return false
		}
	}
	return true
}

func equalSlices(a, b []any, seen map[[2]uintptr]bool) bool {
	if key, ok := identityPair(a, b); ok {
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i], seen) {
			return false
		}
	}
	return true
}

// ToFloat coerces any of Go's numeric kinds to float64, reporting false for
// anything else. YAML decoders hand back plain int for integer scalars and
// float64 for anything with a decimal point or exponent, so numeric fields
// pulled off a decoded document must go through this rather than a bare
// type assertion to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Hash computes an order-independent fnv64a hash of v, suitable for
// deduplicating structurally-equal values (e.g. uniqueItems bucketing)
// before falling back to Equal for confirmation. Cyclic references hash to
// a fixed sentinel rather than recursing forever.
func Hash(v any) uint64 {
	h := fnv.New64a()
	hashInto(h, v, map[uintptr]bool{})
	return h.Sum64()
}

func hashInto(h interface{ Write([]byte) (int, error) }, v any, visiting map[uintptr]bool) {
	if v == nil {
		h.Write([]byte("null"))
		return
	}
	switch t := v.(type) {
	case map[string]any:
		if p, ok := pointerOf(v); ok {
			if visiting[p] {
				h.Write([]byte("cycle"))
				return
			}
			visiting[p] = true
			defer delete(visiting, p)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			h.Write([]byte(k))
			hashInto(h, t[k], visiting)
		}
	case []any:
		if p, ok := pointerOf(v); ok {
			if visiting[p] {
				h.Write([]byte("cycle"))
				return
			}
			visiting[p] = true
			defer delete(visiting, p)
		}
		for _, e := range t {
			hashInto(h, e, visiting)
		}
	default:
		h.Write([]byte(fmt.Sprintf("%T:%v", v, v)))
	}
}

// Contains reports whether target is member-wise equal to any element of
// candidates.
func Contains(candidates []any, target any) bool {
	for _, c := range candidates {
		if Equal(c, target) {
			return true
		}
	}
	return false
}
