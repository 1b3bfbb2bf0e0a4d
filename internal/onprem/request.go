package onprem

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Params are the caller supplied values of one invocation keyed by field name
// or alias. A nil value is treated as not supplied.
type Params map[string]any

// Data is the request body of an invocation and the source of its path
// placeholder values.
type Data map[string]any

// IgnoreSet holds the names of server managed fields.
type IgnoreSet map[string]struct{}

// Has reports whether name is ignored.
func (s IgnoreSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Request is the outcome of mapping Params onto a Schema.
type Request struct {
	Data   Data
	Ignore IgnoreSet
	Query  url.Values
}

// BuildRequest maps params onto schema. Fields are processed in schema order:
// ignored fields only land in the ignore set, body fields are copied into the
// data map, DeriveID fields store the derived identifier and Foreign fields are
// wrapped into a reference object holding the (possibly derived) value.
func BuildRequest(schema Schema, params Params) (*Request, error) {
	values, err := normalizeParams(schema, params)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Data:   Data{},
		Ignore: IgnoreSet{},
		Query:  url.Values{},
	}

	for _, field := range schema {
		if field.Include == InclusionIgnored {
			req.Ignore[field.Name] = struct{}{}
			continue
		}

		raw, ok := values[field.Name]
		if !ok || raw == nil {
			continue
		}

		value, err := coerce(field, raw)
		if err != nil {
			return nil, err
		}

		if field.Query {
			req.Query.Set(field.Name, queryValue(value))
		}
		if field.Include == InclusionBody {
			req.Data[field.Name] = value
		}
		if field.DeriveID {
			name, isString := value.(string)
			if !isString {
				return nil, validationErrorf("field %s must be a string to derive an identifier", field.Name)
			}
			value = DeriveID(name)
			req.Data[field.Name] = value
		}
		if field.Foreign != "" {
			req.Data[field.Name] = map[string]any{field.Foreign: value}
		}
	}

	return req, nil
}

// normalizeParams resolves aliases onto canonical field names and rejects
// unknown keys.
func normalizeParams(schema Schema, params Params) (map[string]any, error) {
	values := make(map[string]any, len(params))
	sources := make(map[string]string, len(params))

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := params[key]
		if value == nil {
			continue
		}
		field, ok := schema.Lookup(key)
		if !ok {
			return nil, validationErrorf("unsupported field: %s", key)
		}
		if previous, dup := sources[field.Name]; dup {
			return nil, validationErrorf("fields %s and %s are mutually exclusive", previous, key)
		}
		sources[field.Name] = key
		values[field.Name] = value
	}
	return values, nil
}

func coerce(field Field, value any) (any, error) {
	switch field.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, typeError(field, value)
		}
		if len(field.Choices) > 0 && !slices.Contains(field.Choices, s) {
			return nil, validationErrorf("value of %s must be one of: %s, got: %s",
				field.Name, strings.Join(field.Choices, ", "), s)
		}
		return s, nil
	case TypeInt:
		i, ok := toInt(value)
		if !ok {
			return nil, typeError(field, value)
		}
		return i, nil
	case TypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, typeError(field, value)
		}
		return b, nil
	case TypeList:
		switch v := value.(type) {
		case []any:
			return v, nil
		case []string:
			list := make([]any, len(v))
			for i, s := range v {
				list[i] = s
			}
			return list, nil
		}
		return nil, typeError(field, value)
	case TypeMap:
		switch v := value.(type) {
		case map[string]any:
			return v, nil
		case string:
			var m map[string]any
			if err := json.Unmarshal([]byte(v), &m); err != nil || m == nil {
				return nil, validationErrorf("value of %s must be a JSON object", field.Name)
			}
			return m, nil
		}
		return nil, typeError(field, value)
	}
	return value, nil
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		i, err := v.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(v)
		return i, err == nil
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func typeError(field Field, value any) error {
	return validationErrorf("value of %s must be of type %s, got %T", field.Name, field.Type, value)
}

func queryValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
