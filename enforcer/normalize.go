package enforcer

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/marfarin/openapi-enforcer/exception"
	"github.com/marfarin/openapi-enforcer/internal/valuecompare"
)

var extensionKeyPattern = regexp.MustCompile(`^x-.+`)

// Normalize is the single top-level entry point. root must have Definition,
// Validator, Context, and StaticData set; DefinitionType, Exception, Warn,
// Map, Plugins, and Root are filled in with fresh zero values when left
// nil, so callers only need to build the root Ctx by hand once per
// document.
//
// It returns the materialized enforcer tree node, the accumulated
// exception tree, and the accumulated warning tree.
func Normalize(root *Ctx, opts ...Option) (any, *exception.Tree, *exception.Tree) {
	if root.Exception == nil {
		root.Exception = exception.New()
	}
	if root.Warn == nil {
		root.Warn = exception.New()
	}
	if root.Map == nil {
		root.Map = make(map[uintptr]any)
	}
	if root.Plugins == nil {
		root.Plugins = &PluginQueue{}
	}
	if root.Root == nil {
		root.Root = root
	}
	if root.DefinitionType == "" {
		root.DefinitionType = DetectType(root.Definition)
	}
	for _, opt := range opts {
		opt(root)
	}

	result := runChildValidator(root)
	root.Result = result

	for _, err := range root.Plugins.Run() {
		root.Exception.Message("%v", err)
	}

	return result, root.Exception, root.Warn
}

// resolveValidator resolves a ValidatorFunc chain to a concrete validator,
// per the "resolve the effective validator" step run both at the top of
// normalize and again inside runChildValidator.
func resolveValidator(ctx *Ctx, v Validator) Validator {
	for i := 0; i < 32; i++ {
		fn, ok := v.(ValidatorFunc)
		if !ok {
			return v
		}
		v = fn(ctx)
	}
	return v
}

// runChildValidator implements the dispatch rule between plain descriptors
// and component instantiation (spec §4.2.2 in the surrounding project's
// terms; here, simply "the child dispatch rule").
func runChildValidator(ctx *Ctx) any {
	v := resolveValidator(ctx, ctx.Validator)
	ctx.Validator = v

	switch val := v.(type) {
	case *Ref:
		return runRef(ctx, val)
	case nil:
		ctx.Result = ctx.Definition
		return ctx.Definition
	default:
		return normalize(ctx)
	}
}

func runRef(ctx *Ctx, ref *Ref) any {
	reg, ok := ctx.Context[ref.Component]
	if !ok {
		ctx.Exception.Message("unknown enforcer component %q", ref.Component)
		return nil
	}

	switch ctx.DefinitionType {
	case TypeBoolean:
		cfg := ref.Config
		if cfg == nil {
			cfg = true
		}
		ctx.Validator = cfg
		return normalize(ctx)
	case TypeObject:
		key, hasKey := identityKey(ctx.Definition)
		if hasKey {
			if cached, found := ctx.Map[key]; found {
				ctx.Result = cached
				return cached
			}
		}
		instance := reg.New()
		ctx.logger().Debug("instantiated component", "component", ref.Component, "path", ctx.Exception.Path())
		if hasKey {
			ctx.Map[key] = instance
		}
		cfg := ref.Config
		if cfg == nil {
			cfg = reg.Descriptor
		}
		initComponent(ctx, cfg, instance)
		return instance
	default:
		ctx.Exception.Message("must be a plain object")
		return nil
	}
}

func initComponent(ctx *Ctx, cfg Validator, instance Component) {
	m, _ := ctx.Definition.(map[string]any)

	body := &Ctx{
		Definition:     ctx.Definition,
		DefinitionType: ctx.DefinitionType,
		Key:            ctx.Key,
		Parent:         ctx.Parent,
		Root:           ctx.Root,
		Exception:      ctx.Exception,
		Warn:           ctx.Warn,
		Map:            ctx.Map,
		Major:          ctx.Major,
		Minor:          ctx.Minor,
		Patch:          ctx.Patch,
		Context:        ctx.Context,
		Plugins:        ctx.Plugins,
		StaticData:     ctx.StaticData,
		Debug:          ctx.Debug,
		Logger:         ctx.Logger,
		Validator:      resolveValidator(ctx, cfg),
		Result:         map[string]any{},
	}

	switch bv := body.Validator.(type) {
	case *Descriptor:
		normalizeObjectBody(body, bv, m)
	case bool:
		if bv {
			body.Result = deepCopy(m)
		} else {
			for k := range m {
				ctx.Exception.At(k).Message("not allowed")
			}
		}
	case nil:
		body.Result = deepCopy(m)
	}

	ctx.Result = body.Result
	body.Instance = instance

	if err := instance.Init(body); err != nil {
		ctx.Exception.Message("%v", err)
	}
}

// normalize implements the per-node algorithm: type check, cycle guard,
// enum check, dispatch on definitionType, post-errors.
func normalize(ctx *Ctx) (result any) {
	defer func() {
		if r := recover(); r != nil {
			if ctx.Debug {
				panic(r)
			}
			ctx.logger().Warn("callback panic converted to host exception", "path", ctx.Exception.Path(), "recovered", r)
			ctx.Exception.Message("Unexpected error encountered: %v", r)
			result = ctx.Result
		}
	}()

	v := resolveValidator(ctx, ctx.Validator)
	ctx.Validator = v

	if b, ok := v.(bool); ok {
		if b {
			ctx.Result = deepCopy(ctx.Definition)
		} else {
			ctx.Exception.Message("not allowed")
		}
		return ctx.Result
	}

	d, isDescriptor := v.(*Descriptor)

	if isDescriptor && d.Type.Present() && ctx.DefinitionType != TypeUndefined {
		allowed := d.Type.Resolve(ctx)
		if !containsDefinitionType(allowed, ctx.DefinitionType) {
			ctx.Exception.Message("expected type %s, got %s", joinTypes(allowed), ctx.DefinitionType)
			return nil
		}
	}

	if ctx.DefinitionType == TypeObject {
		if cached, found := cycleGet(ctx); found {
			ctx.logger().Debug("cycle collapsed", "path", ctx.Exception.Path())
			ctx.Result = cached
			return cached
		}
	}

	if isDescriptor && d.Enum.Present() {
		options := d.Enum.Resolve(ctx)
		if !valuecompare.Contains(options, ctx.Definition) {
			ctx.Exception.Message("must be one of the enumerated values")
		}
	}

	switch ctx.DefinitionType {
	case TypeArray:
		normalizeArray(ctx, d, isDescriptor)
	case TypeObject:
		if isDescriptor {
			normalizeObjectBody(ctx, d, mustMap(ctx.Definition))
		} else if v == nil {
			ctx.Result = ctx.Definition
		} else {
			ctx.Exception.Message("invalid validator for object")
		}
		cyclePut(ctx, ctx.Result)
	case TypeBoolean, TypeNumber, TypeString:
		ctx.Result = ctx.Definition
	case TypeNull:
		ctx.Result = nil
	default:
		ctx.Exception.Message("Unknown data type")
	}

	if isDescriptor && d.Errors != nil && ctx.DefinitionType != TypeObject {
		d.Errors(ctx, ctx.Result)
	}

	return ctx.Result
}

func normalizeArray(ctx *Ctx, d *Descriptor, isDescriptor bool) {
	arr, _ := ctx.Definition.([]any)
	var items Validator
	if isDescriptor {
		items = d.Items
	}
	result := make([]any, 0, len(arr))
	for i, raw := range arr {
		child := ctx.child(strconv.Itoa(i), raw, DetectType(raw))
		child.Validator = items
		result = append(result, runChildValidator(child))
	}
	ctx.Result = result
}

// normalizeObjectBody dispatches between map-container mode and the
// structured-object lifecycle.
func normalizeObjectBody(ctx *Ctx, d *Descriptor, m map[string]any) {
	if len(d.Properties) == 0 && d.AdditionalProperties != nil {
		normalizeMapObject(ctx, d, m)
		return
	}
	normalizeStructuredObject(ctx, d, m)
}

func normalizeMapObject(ctx *Ctx, d *Descriptor, m map[string]any) {
	result := map[string]any{}
	ctx.Result = result

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw := m[k]
		if extensionKeyPattern.MatchString(k) {
			result[k] = raw
			continue
		}
		child := ctx.child(k, raw, DetectType(raw))
		child.Validator = d.AdditionalProperties
		result[k] = runChildValidator(child)
	}

	if d.Errors != nil {
		d.Errors(ctx, result)
	}
}

func normalizeStructuredObject(ctx *Ctx, d *Descriptor, m map[string]any) {
	result := map[string]any{}
	ctx.Result = result

	unknown := make(map[string]bool, len(m))
	for k := range m {
		if extensionKeyPattern.MatchString(k) {
			result[k] = m[k]
			continue
		}
		unknown[k] = true
	}

	type ordered struct {
		prop   Property
		weight int
	}
	entries := make([]ordered, 0, len(d.Properties))
	for _, p := range d.Properties {
		delete(unknown, p.Key)
		w := 0
		if p.Weight.Present() {
			w = p.Weight.Resolve(ctx)
		}
		entries = append(entries, ordered{prop: p, weight: w})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].weight != entries[j].weight {
			return entries[i].weight < entries[j].weight
		}
		return entries[i].prop.Key < entries[j].prop.Key
	})

	var notAllowed []string
	var missingRequired []string

	for _, e := range entries {
		p := e.prop

		allowed := true
		if p.Allowed.Present() {
			allowed = p.Allowed.Resolve(ctx)
		}

		raw, present := m[p.Key]
		defType := TypeUndefined
		if present {
			defType = DetectType(raw)
		}

		if !present && allowed && p.Default.Present() {
			raw = p.Default.Resolve(ctx)
			present = true
			defType = DetectType(raw)
		}

		switch {
		case present && !allowed:
			notAllowed = append(notAllowed, p.Key)
		case present:
			ignored := false
			if p.Ignored.Present() {
				ignored = p.Ignored.Resolve(ctx)
			}
			if !ignored {
				child := ctx.child(p.Key, raw, defType)
				child.Validator = p.Validator
				result[p.Key] = runChildValidator(child)
			}
		case allowed:
			required := false
			if p.Required.Present() {
				required = p.Required.Resolve(ctx)
			}
			if required {
				missingRequired = append(missingRequired, p.Key)
			}
		}
	}

	for k := range unknown {
		notAllowed = append(notAllowed, k)
	}
	sort.Strings(notAllowed)
	for _, k := range notAllowed {
		ctx.Exception.At(k).Message("not allowed")
	}

	sort.Strings(missingRequired)
	for _, k := range missingRequired {
		ctx.Exception.Message("missing required property: %s", k)
	}

	if d.Errors != nil {
		d.Errors(ctx, result)
	}
}

func mustMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	if m == nil {
		return map[string]any{}
	}
	return m
}

func containsDefinitionType(types []string, dt DefinitionType) bool {
	for _, t := range types {
		if DefinitionType(t) == dt {
			return true
		}
	}
	return false
}

func joinTypes(types []string) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += "|"
		}
		out += t
	}
	return out
}
