package codec

import (
	"slices"
	"sort"
	"strings"
)

// Prop declares one key of a record validator.
type Prop struct {
	Key   string
	Codec Any
}

// P is shorthand for a Prop.
func P(key string, c Any) Prop {
	return Prop{Key: key, Codec: c}
}

// ObjectType validates records with a declared set of keys.
type ObjectType struct {
	*Type[map[string]any]
	keys []string
}

// Keys implements HasProps.
func (o *ObjectType) Keys() []string {
	return slices.Clone(o.keys)
}

func propKeys(props []Prop) []string {
	keys := make([]string, len(props))
	for i, p := range props {
		keys[i] = p.Key
	}
	return keys
}

func propsName(props []Prop) string {
	if len(props) == 0 {
		return "{}"
	}
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.Key + ": " + p.Codec.Name()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func encodeProps(props []Prop) func(map[string]any) any {
	return func(m map[string]any) any {
		out := make(map[string]any, len(m))
		for _, p := range props {
			if v, ok := m[p.Key]; ok {
				out[p.Key] = p.Codec.EncodeAny(v)
			}
		}
		return out
	}
}

// Object validates a record in which every declared key must satisfy its codec.
// Keys that are not declared are dropped. All fields are validated; errors are collected.
func Object(props ...Prop) *ObjectType {
	props = slices.Clone(props)
	o := &ObjectType{keys: propKeys(props)}
	o.Type = New[map[string]any](propsName(props),
		func(u any) bool {
			m, ok := u.(map[string]any)
			if !ok {
				return false
			}
			for _, p := range props {
				v, present := m[p.Key]
				if !present {
					v = Missing
				}
				if !p.Codec.Is(v) {
					return false
				}
			}
			return true
		},
		func(u any, c Context) (map[string]any, Errors) {
			m, ok := asRecord(u)
			if !ok {
				return nil, Failure(u, c, "")
			}
			out := make(map[string]any, len(props))
			var errs Errors
			for _, p := range props {
				v, present := m[p.Key]
				if !present {
					v = Missing
				}
				a, fieldErrs := p.Codec.ValidateAny(v, c.Append(p.Key, p.Codec, v))
				if len(fieldErrs) > 0 {
					errs = append(errs, fieldErrs...)
					continue
				}
				if a != Missing {
					out[p.Key] = a
				}
			}
			if len(errs) > 0 {
				return nil, errs
			}
			return out, nil
		},
		encodeProps(props))
	return o
}

// Partial validates a record in which every declared key is optional.
// Absent keys are omitted from the decoded record.
func Partial(props ...Prop) *ObjectType {
	props = slices.Clone(props)
	o := &ObjectType{keys: propKeys(props)}
	o.Type = New[map[string]any]("Partial<"+propsName(props)+">",
		func(u any) bool {
			m, ok := u.(map[string]any)
			if !ok {
				return false
			}
			for _, p := range props {
				if v, present := m[p.Key]; present && !p.Codec.Is(v) {
					return false
				}
			}
			return true
		},
		func(u any, c Context) (map[string]any, Errors) {
			m, ok := asRecord(u)
			if !ok {
				return nil, Failure(u, c, "")
			}
			out := make(map[string]any, len(props))
			var errs Errors
			for _, p := range props {
				v, present := m[p.Key]
				if !present {
					continue
				}
				a, fieldErrs := p.Codec.ValidateAny(v, c.Append(p.Key, p.Codec, v))
				if len(fieldErrs) > 0 {
					errs = append(errs, fieldErrs...)
					continue
				}
				if a != Missing {
					out[p.Key] = a
				}
			}
			if len(errs) > 0 {
				return nil, errs
			}
			return out, nil
		},
		encodeProps(props))
	return o
}

// Intersection validates a record against every part and merges the decoded records.
func Intersection(parts ...HasProps) *ObjectType {
	parts = slices.Clone(parts)
	var keys []string
	names := make([]string, len(parts))
	for i, part := range parts {
		names[i] = part.Name()
		for _, k := range part.Keys() {
			if !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}
	o := &ObjectType{keys: keys}
	o.Type = New[map[string]any]("("+strings.Join(names, " & ")+")",
		func(u any) bool {
			for _, part := range parts {
				if !part.Is(u) {
					return false
				}
			}
			return true
		},
		func(u any, c Context) (map[string]any, Errors) {
			out := make(map[string]any)
			var errs Errors
			for i, part := range parts {
				a, partErrs := part.ValidateAny(u, c.Append(itoa(i), part, u))
				if len(partErrs) > 0 {
					errs = append(errs, partErrs...)
					continue
				}
				if m, ok := a.(map[string]any); ok {
					for k, v := range m {
						out[k] = v
					}
				}
			}
			if len(errs) > 0 {
				return nil, errs
			}
			return out, nil
		},
		func(m map[string]any) any {
			out := make(map[string]any, len(m))
			for _, part := range parts {
				if enc, ok := part.EncodeAny(m).(map[string]any); ok {
					for k, v := range enc {
						out[k] = v
					}
				}
			}
			return out
		})
	return o
}

// Exact wraps a record validator so that any undeclared key is reported as an error.
// Errors from the wrapped validator come first, followed by one error per undeclared key in
// lexical order.
func Exact(inner HasProps) *ObjectType {
	declared := inner.Keys()
	o := &ObjectType{keys: declared}
	o.Type = New[map[string]any](inner.Name(),
		func(u any) bool {
			m, ok := u.(map[string]any)
			if !ok {
				return false
			}
			for k := range m {
				if !slices.Contains(declared, k) {
					return false
				}
			}
			return inner.Is(u)
		},
		func(u any, c Context) (map[string]any, Errors) {
			m, ok := asRecord(u)
			if !ok {
				return nil, Failure(u, c, "")
			}
			a, errs := inner.ValidateAny(m, c)
			var unknown []string
			for k := range m {
				if !slices.Contains(declared, k) {
					unknown = append(unknown, k)
				}
			}
			sort.Strings(unknown)
			for _, k := range unknown {
				errs = append(errs, ValidationError{
					Value:   m[k],
					Context: c.Append(k, Never, m[k]),
					Message: "unknown key",
				})
			}
			if len(errs) > 0 {
				return nil, errs
			}
			out, _ := a.(map[string]any)
			return out, nil
		},
		func(m map[string]any) any { return inner.EncodeAny(m) })
	return o
}
