package schema

import "strings"

// Replacement selects which template syntax populate's injector recognizes.
type Replacement string

const (
	ReplacementColon           Replacement = "colon"
	ReplacementHandlebar       Replacement = "handlebar"
	ReplacementDoubleHandlebar Replacement = "doubleHandlebar"
)

// inject scans template for parameter references in the style named by
// style, substituting params[name] when present. Unresolved references are
// left verbatim. The scan is a single left-to-right pass; a substituted
// value is never rescanned for further references.
func inject(template string, style Replacement, params map[string]any) string {
	switch style {
	case ReplacementHandlebar:
		return injectDelimited(template, "{", "}", params)
	case ReplacementDoubleHandlebar:
		return injectDelimited(template, "{{", "}}", params)
	default:
		return injectColon(template, params)
	}
}

func injectDelimited(template, open, close string, params map[string]any) string {
	var b strings.Builder
	rest := template
	for {
		start := strings.Index(rest, open)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+len(open):], close)
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += start + len(open)
		name := rest[start+len(open) : end]

		b.WriteString(rest[:start])
		if val, ok := params[name]; ok {
			b.WriteString(stringifyParam(val))
		} else {
			b.WriteString(rest[start : end+len(close)])
		}
		rest = rest[end+len(close):]
	}
	return b.String()
}

func injectColon(template string, params map[string]any) string {
	var b strings.Builder
	rest := template
	for {
		idx := strings.IndexByte(rest, ':')
		if idx < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:idx])
		rest = rest[idx+1:]

		end := 0
		for end < len(rest) && isNameByte(rest[end]) {
			end++
		}
		name := rest[:end]
		if name == "" {
			b.WriteByte(':')
			continue
		}
		if val, ok := params[name]; ok {
			b.WriteString(stringifyParam(val))
		} else {
			b.WriteByte(':')
			b.WriteString(name)
		}
		rest = rest[end:]
	}
	return b.String()
}

func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func stringifyParam(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return toString(t)
	}
}
