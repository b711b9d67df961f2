package datatype

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// New returns a Registry seeded with the built-in string, integer, and
// number formats.
func New() *Registry {
	r := NewRegistry()
	for _, seed := range []struct {
		primitiveType string
		format        string
		def           *FormatDefinition
	}{
		{"string", "date", dateDefinition()},
		{"string", "date-time", dateTimeDefinition()},
		{"string", "byte", byteDefinition()},
		{"string", "binary", binaryDefinition()},
		{"string", "uuid", uuidDefinition()},
		{"string", "password", passwordDefinition()},
		{"integer", "int32", int32Definition()},
		{"integer", "int64", int64Definition()},
		{"number", "float", floatDefinition()},
		{"number", "double", doubleDefinition()},
	} {
		// Built-ins are known-good; a registration failure here is a
		// programmer error in this file, not a caller mistake.
		if err := r.Define(seed.primitiveType, seed.format, seed.def); err != nil {
			panic(fmt.Sprintf("datatype: built-in %s/%s failed to register: %v", seed.primitiveType, seed.format, err))
		}
	}
	return r
}

func dateDefinition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("date value must be a string")
			}
			var d strfmt.Date
			if err := d.UnmarshalText([]byte(s)); err != nil {
				return nil, err
			}
			return d, nil
		},
		Serialize: func(value any) (any, error) {
			switch v := value.(type) {
			case strfmt.Date:
				return v.String(), nil
			case string:
				return v, nil
			default:
				return nil, fmt.Errorf("expected strfmt.Date, got %T", value)
			}
		},
		Validate: func(value any) error {
			switch v := value.(type) {
			case string:
				if !strfmt.IsDate(v) {
					return fmt.Errorf("%q is not a valid date", v)
				}
				return nil
			case strfmt.Date:
				return nil
			default:
				return fmt.Errorf("value is not a date")
			}
		},
		Constructors: []reflect.Type{reflect.TypeOf(strfmt.Date{})},
	}
}

func dateTimeDefinition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("date-time value must be a string")
			}
			var dt strfmt.DateTime
			if err := dt.UnmarshalText([]byte(s)); err != nil {
				return nil, err
			}
			return dt, nil
		},
		Serialize: func(value any) (any, error) {
			switch v := value.(type) {
			case strfmt.DateTime:
				return v.String(), nil
			case string:
				return v, nil
			default:
				return nil, fmt.Errorf("expected strfmt.DateTime, got %T", value)
			}
		},
		Validate: func(value any) error {
			switch v := value.(type) {
			case string:
				if !strfmt.IsDateTime(v) {
					return fmt.Errorf("%q is not a valid date-time", v)
				}
				return nil
			case strfmt.DateTime:
				return nil
			default:
				return fmt.Errorf("value is not a date-time")
			}
		},
		Constructors: []reflect.Type{reflect.TypeOf(strfmt.DateTime{})},
	}
}

func byteDefinition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("byte value must be a base64 string")
			}
			return base64.StdEncoding.DecodeString(s)
		},
		Serialize: func(value any) (any, error) {
			b, ok := value.([]byte)
			if !ok {
				return nil, fmt.Errorf("expected []byte, got %T", value)
			}
			return base64.StdEncoding.EncodeToString(b), nil
		},
		Validate: func(value any) error {
			switch v := value.(type) {
			case string:
				_, err := base64.StdEncoding.DecodeString(v)
				return err
			case []byte:
				return nil
			default:
				return fmt.Errorf("value is not byte data")
			}
		},
		Constructors: []reflect.Type{reflect.TypeOf([]byte(nil))},
	}
}

func binaryDefinition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("binary value must be a string")
			}
			return []byte(s), nil
		},
		Serialize: func(value any) (any, error) {
			b, ok := value.([]byte)
			if !ok {
				return nil, fmt.Errorf("expected []byte, got %T", value)
			}
			return string(b), nil
		},
		Validate: func(value any) error {
			switch value.(type) {
			case string, []byte:
				return nil
			default:
				return fmt.Errorf("value is not binary data")
			}
		},
		Constructors: []reflect.Type{reflect.TypeOf([]byte(nil))},
	}
}

func uuidDefinition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("uuid value must be a string")
			}
			return uuid.Parse(s)
		},
		Serialize: func(value any) (any, error) {
			switch v := value.(type) {
			case uuid.UUID:
				return v.String(), nil
			case string:
				return v, nil
			default:
				return nil, fmt.Errorf("expected uuid.UUID, got %T", value)
			}
		},
		Validate: func(value any) error {
			switch v := value.(type) {
			case string:
				_, err := uuid.Parse(v)
				return err
			case uuid.UUID:
				return nil
			default:
				return fmt.Errorf("value is not a uuid")
			}
		},
		Random:       func() (any, error) { return uuid.New(), nil },
		Constructors: []reflect.Type{reflect.TypeOf(uuid.UUID{})},
	}
}

// Password is an opaque string that masks itself in String() output;
// deserialize/serialize keep the underlying value intact for round-trips
// while discouraging it from ending up in logs verbatim.
type Password string

func (Password) String() string { return "********" }

func passwordDefinition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("password value must be a string")
			}
			return Password(s), nil
		},
		Serialize: func(value any) (any, error) {
			switch v := value.(type) {
			case Password:
				return string(v), nil
			case string:
				return v, nil
			default:
				return nil, fmt.Errorf("expected Password, got %T", value)
			}
		},
		Validate: func(value any) error {
			switch value.(type) {
			case string, Password:
				return nil
			default:
				return fmt.Errorf("value is not a password string")
			}
		},
		Constructors: []reflect.Type{reflect.TypeOf(Password(""))},
	}
}

func int32Definition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			f, err := toFloat(raw)
			if err != nil {
				return nil, err
			}
			return int32(f), nil
		},
		Serialize: func(value any) (any, error) {
			v, ok := value.(int32)
			if !ok {
				return nil, fmt.Errorf("expected int32, got %T", value)
			}
			return float64(v), nil
		},
		Validate: func(value any) error {
			f, err := toFloat(value)
			if err != nil {
				return err
			}
			if f != math.Trunc(f) {
				return fmt.Errorf("%v is not an integer", f)
			}
			if f < math.MinInt32 || f > math.MaxInt32 {
				return fmt.Errorf("%v overflows int32", f)
			}
			return nil
		},
		IsNumeric: true,
	}
}

func int64Definition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			f, err := toFloat(raw)
			if err != nil {
				return nil, err
			}
			return int64(f), nil
		},
		Serialize: func(value any) (any, error) {
			v, ok := value.(int64)
			if !ok {
				return nil, fmt.Errorf("expected int64, got %T", value)
			}
			return float64(v), nil
		},
		Validate: func(value any) error {
			f, err := toFloat(value)
			if err != nil {
				return err
			}
			if f != math.Trunc(f) {
				return fmt.Errorf("%v is not an integer", f)
			}
			return nil
		},
		IsNumeric: true,
	}
}

func floatDefinition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			f, err := toFloat(raw)
			if err != nil {
				return nil, err
			}
			return float32(f), nil
		},
		Serialize: func(value any) (any, error) {
			v, ok := value.(float32)
			if !ok {
				return nil, fmt.Errorf("expected float32, got %T", value)
			}
			return float64(v), nil
		},
		Validate: func(value any) error {
			_, err := toFloat(value)
			return err
		},
		IsNumeric: true,
	}
}

func doubleDefinition() *FormatDefinition {
	return &FormatDefinition{
		Deserialize: func(raw any) (any, error) {
			return toFloat(raw)
		},
		Serialize: func(value any) (any, error) {
			return toFloat(value)
		},
		Validate: func(value any) error {
			_, err := toFloat(value)
			return err
		},
		IsNumeric: true,
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
