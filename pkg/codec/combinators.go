package codec

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

func itoa(i int) string { return strconv.Itoa(i) }

// Union accepts a value matching any member, trying members in order.
// When every member fails, the errors of all members are reported.
func Union(members ...Any) *Type[any] {
	members = slices.Clone(members)
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name()
	}
	return New[any]("("+strings.Join(names, " | ")+")",
		func(u any) bool {
			for _, m := range members {
				if m.Is(u) {
					return true
				}
			}
			return false
		},
		func(u any, c Context) (any, Errors) {
			var errs Errors
			for i, m := range members {
				a, memberErrs := m.ValidateAny(u, c.Append(itoa(i), m, u))
				if len(memberErrs) == 0 {
					return a, nil
				}
				errs = append(errs, memberErrs...)
			}
			return nil, errs
		},
		func(a any) any {
			for _, m := range members {
				if m.Is(a) {
					return m.EncodeAny(a)
				}
			}
			return a
		})
}

// Optional accepts an absent value or a value matching c.
func Optional(c Any) *Type[any] {
	return Union(Undefined, c)
}

// Nullable accepts nil or a value matching c.
func Nullable(c Any) *Type[any] {
	return Union(Null, c)
}

// Array validates every item of a list. All items are validated; errors are collected.
func Array(item Any) *Type[[]any] {
	return New[[]any]("Array<"+item.Name()+">",
		func(u any) bool {
			items, ok := u.([]any)
			if !ok {
				return false
			}
			for _, v := range items {
				if !item.Is(v) {
					return false
				}
			}
			return true
		},
		func(u any, c Context) ([]any, Errors) {
			items, ok := asArray(u)
			if !ok {
				return nil, Failure(u, c, "")
			}
			out := make([]any, len(items))
			var errs Errors
			for i, v := range items {
				a, itemErrs := item.ValidateAny(v, c.Append(itoa(i), item, v))
				if len(itemErrs) > 0 {
					errs = append(errs, itemErrs...)
					continue
				}
				out[i] = a
			}
			if len(errs) > 0 {
				return nil, errs
			}
			return out, nil
		},
		func(items []any) any {
			out := make([]any, len(items))
			for i, v := range items {
				out[i] = item.EncodeAny(v)
			}
			return out
		})
}

// Record validates every value of a string-keyed map, visiting keys in lexical order.
func Record(value Any) *Type[map[string]any] {
	return New[map[string]any]("{ [K in string]: "+value.Name()+" }",
		func(u any) bool {
			m, ok := u.(map[string]any)
			if !ok {
				return false
			}
			for _, v := range m {
				if !value.Is(v) {
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
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out := make(map[string]any, len(m))
			var errs Errors
			for _, k := range keys {
				a, valueErrs := value.ValidateAny(m[k], c.Append(k, value, m[k]))
				if len(valueErrs) > 0 {
					errs = append(errs, valueErrs...)
					continue
				}
				out[k] = a
			}
			if len(errs) > 0 {
				return nil, errs
			}
			return out, nil
		},
		func(m map[string]any) any {
			out := make(map[string]any, len(m))
			for k, v := range m {
				out[k] = value.EncodeAny(v)
			}
			return out
		})
}

// Literal accepts exactly v.
func Literal[L comparable](v L) *Type[L] {
	return New[L](Stringify(v),
		func(u any) bool { l, ok := u.(L); return ok && l == v },
		func(u any, c Context) (L, Errors) {
			if l, ok := u.(L); ok && l == v {
				return l, nil
			}
			var zero L
			return zero, Failure(u, c, "")
		}, nil)
}

// Pipe chains two validators: the output of ab is validated by bc.
// Errors from the second stage describe the intermediate value, not the original input.
func Pipe[A, B any](ab Validator[A], bc Validator[B]) *Type[B] {
	return New[B]("pipe("+ab.Name()+", "+bc.Name()+")",
		bc.Is,
		func(u any, c Context) (B, Errors) {
			a, errs := ab.Validate(u, c)
			if len(errs) > 0 {
				var zero B
				return zero, errs
			}
			return bc.Validate(a, c)
		},
		func(b B) any { return ab.EncodeAny(bc.Encode(b)) })
}
