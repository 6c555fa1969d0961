package config

import (
	"fmt"

	"github.com/jedi4ever/ctenv/ctenverr"
)

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int64, int:
		return "int"
	case float64:
		return "float"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// asStringField extracts a scalar string field, recognizing the
// NotSetLiteral as an explicit clear.
func asStringField(path, field string, v interface{}) (Field[string], error) {
	s, ok := v.(string)
	if !ok {
		return Field[string]{}, &ctenverr.ConfigTypeError{Path: path, Field: field, Want: "string", Got: typeName(v)}
	}
	if s == NotSetLiteral {
		return NullField[string](), nil
	}
	return SetField(s), nil
}

func asBoolField(path, field string, v interface{}) (Field[bool], error) {
	if s, ok := v.(string); ok && s == NotSetLiteral {
		return NullField[bool](), nil
	}
	b, ok := v.(bool)
	if !ok {
		return Field[bool]{}, &ctenverr.ConfigTypeError{Path: path, Field: field, Want: "bool", Got: typeName(v)}
	}
	return SetField(b), nil
}

func asStringListField(path, field string, v interface{}) (Field[[]string], error) {
	if s, ok := v.(string); ok && s == NotSetLiteral {
		return NullField[[]string](), nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		return Field[[]string]{}, &ctenverr.ConfigTypeError{Path: path, Field: field, Want: "array of strings", Got: typeName(v)}
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return Field[[]string]{}, &ctenverr.ConfigTypeError{Path: path, Field: field, Want: "array of strings", Got: "array of " + typeName(e)}
		}
		out = append(out, s)
	}
	return SetField(out), nil
}

// asUlimitMapField extracts ulimits: map<string, int or "soft:hard">,
// normalized to map<string,string> (spec.md §3/§4.4.9).
func asUlimitMapField(path, field string, v interface{}) (Field[map[string]string], error) {
	if s, ok := v.(string); ok && s == NotSetLiteral {
		return NullField[map[string]string](), nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return Field[map[string]string]{}, &ctenverr.ConfigTypeError{Path: path, Field: field, Want: "table of int or string", Got: typeName(v)}
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		switch t := val.(type) {
		case int64:
			out[k] = fmt.Sprintf("%d", t)
		case string:
			out[k] = t
		default:
			return Field[map[string]string]{}, &ctenverr.ConfigTypeError{Path: path, Field: field + "." + k, Want: "int or string", Got: typeName(val)}
		}
	}
	return SetField(out), nil
}

// asStringMapField extracts map<string,string> (used for build.args).
func asStringMapField(path, field string, v interface{}) (Field[map[string]string], error) {
	if s, ok := v.(string); ok && s == NotSetLiteral {
		return NullField[map[string]string](), nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return Field[map[string]string]{}, &ctenverr.ConfigTypeError{Path: path, Field: field, Want: "table of strings", Got: typeName(v)}
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		s, ok := val.(string)
		if !ok {
			return Field[map[string]string]{}, &ctenverr.ConfigTypeError{Path: path, Field: field + "." + k, Want: "string", Got: typeName(val)}
		}
		out[k] = s
	}
	return SetField(out), nil
}
