package enforcer

import "reflect"

// identityKey returns the pointer identity of v when it is a reference type
// (map or slice) that can participate in a cycle, and false otherwise.
func identityKey(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}

func cycleGet(ctx *Ctx) (any, bool) {
	key, ok := identityKey(ctx.Definition)
	if !ok || ctx.Map == nil {
		return nil, false
	}
	v, found := ctx.Map[key]
	return v, found
}

func cyclePut(ctx *Ctx, v any) {
	if ctx.Map == nil {
		return
	}
	if key, ok := identityKey(ctx.Definition); ok {
		ctx.Map[key] = v
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return t
	}
}
