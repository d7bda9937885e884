package handler

import (
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const maxRenderDepth = 100

// marshalBounded encodes v as JSON, refusing values that are cyclic or nested deeper than maxRenderDepth.
// Encoding such values would overflow the stack, which no recover can catch.
func marshalBounded(v any) (b []byte, err error) {
	if !bounded(v) {
		return nil, errors.Errorf("cannot render %T: cyclic or too deeply nested", v)
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("cannot render %T: %v", v, r)
		}
	}()
	return json.Marshal(v)
}

// describe formats v with %v, or names its type when v cannot be walked safely.
func describe(v any) string {
	if !bounded(v) {
		return fmt.Sprintf("%T", v)
	}
	return fmt.Sprintf("%v", v)
}

// isNil reports whether v is nil or a nil value of a nillable kind.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

type visit struct {
	ptr uintptr
	typ reflect.Type
}

func bounded(v any) bool {
	return walk(reflect.ValueOf(v), 0, map[visit]bool{})
}

// walk visits every reference reachable from v. onPath holds the references of the current branch only,
// so shared but acyclic values are accepted.
func walk(v reflect.Value, depth int, onPath map[visit]bool) bool {
	if !v.IsValid() {
		return true
	}
	if depth > maxRenderDepth {
		return false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return true
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if onPath[key] {
			return false
		}
		onPath[key] = true
		defer delete(onPath, key)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return walk(v.Elem(), depth+1, onPath)
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if !walk(iter.Key(), depth+1, onPath) || !walk(iter.Value(), depth+1, onPath) {
				return false
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !walk(v.Index(i), depth+1, onPath) {
				return false
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !walk(v.Field(i), depth+1, onPath) {
				return false
			}
		}
	}
	return true
}
