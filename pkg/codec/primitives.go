package codec

import (
	"encoding/json"
	"math"
	"reflect"
)

// String accepts Go strings.
var String = New[string]("string",
	func(u any) bool { _, ok := u.(string); return ok },
	func(u any, c Context) (string, Errors) {
		s, ok := u.(string)
		if !ok {
			return "", Failure(u, c, "")
		}
		return s, nil
	}, nil)

// Number accepts any Go numeric value or json.Number and decodes it as float64.
var Number = New[float64]("number",
	func(u any) bool { _, ok := u.(float64); return ok },
	func(u any, c Context) (float64, Errors) {
		n, ok := toFloat(u)
		if !ok || math.IsNaN(n) {
			return 0, Failure(u, c, "")
		}
		return n, nil
	}, nil)

// Int accepts integral numbers within the range of int and decodes them as int.
var Int = New[int]("Int",
	func(u any) bool { _, ok := u.(int); return ok },
	func(u any, c Context) (int, Errors) {
		n, ok := toFloat(u)
		// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
		if !ok || n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return 0, Failure(u, c, "")
		}
		return int(n), nil
	}, nil)

// Boolean accepts Go booleans.
var Boolean = New[bool]("boolean",
	func(u any) bool { _, ok := u.(bool); return ok },
	func(u any, c Context) (bool, Errors) {
		b, ok := u.(bool)
		if !ok {
			return false, Failure(u, c, "")
		}
		return b, nil
	}, nil)

// Null accepts only nil.
var Null = New[any]("null",
	func(u any) bool { return u == nil },
	func(u any, c Context) (any, Errors) {
		if u != nil {
			return nil, Failure(u, c, "")
		}
		return nil, nil
	}, nil)

// Undefined accepts only Missing.
var Undefined = New[any]("undefined",
	func(u any) bool { return u == Missing },
	func(u any, c Context) (any, Errors) {
		if u != Missing {
			return nil, Failure(u, c, "")
		}
		return Missing, nil
	}, nil)

// Unknown accepts anything.
var Unknown = New[any]("unknown",
	func(any) bool { return true },
	func(u any, _ Context) (any, Errors) { return u, nil }, nil)

// UnknownRecord accepts any record with string keys.
var UnknownRecord = New[map[string]any]("UnknownRecord",
	func(u any) bool { _, ok := u.(map[string]any); return ok },
	func(u any, c Context) (map[string]any, Errors) {
		m, ok := asRecord(u)
		if !ok {
			return nil, Failure(u, c, "")
		}
		return m, nil
	}, nil)

// Never rejects everything. It names undeclared keys in exact records.
var Never = New[any]("never",
	func(any) bool { return false },
	func(u any, c Context) (any, Errors) { return nil, Failure(u, c, "") }, nil)

func toFloat(u any) (float64, bool) {
	switch n := u.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// asRecord normalises string-keyed maps into map[string]any.
func asRecord(u any) (map[string]any, bool) {
	switch m := u.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	case map[string][]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			items := make([]any, len(v))
			for i, s := range v {
				items[i] = s
			}
			out[k] = items
		}
		return out, true
	}
	rv := reflect.ValueOf(u)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asArray normalises slices into []any.
func asArray(u any) ([]any, bool) {
	switch s := u.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, v := range s {
			out[i] = v
		}
		return out, true
	}
	rv := reflect.ValueOf(u)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
