package rawdoc

import (
	"fmt"
	"io"

	"github.com/marfarin/openapi-enforcer/oaserrors"
	yaml "go.yaml.in/yaml/v4"
)

// Decode reads r fully and parses it as YAML (which is a superset of JSON,
// so JSON documents decode identically) into the raw definition tree the
// Normalizer expects: nested map[string]any, []any, and scalars.
//
// A document whose root is not a mapping is rejected - every OpenAPI
// document, v2 or v3, is an object at the top level.
func Decode(r io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &oaserrors.ParseError{Message: "failed to read document", Cause: err}
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &oaserrors.ParseError{Message: "failed to parse document as YAML/JSON", Cause: err}
	}

	m, ok := doc.(map[string]any)
	if !ok {
		return nil, &oaserrors.ParseError{Message: fmt.Sprintf("document root must be an object, got %T", doc)}
	}

	return m, nil
}
