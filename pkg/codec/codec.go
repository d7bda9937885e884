// Package codec provides composable runtime validators that decode untyped values into typed ones.
//
// Every validator reports failures as an ordered list of ValidationError values, each carrying the
// path from the root to the offending value. Composite validators never stop at the first failure.
package codec

import (
	"strings"
)

type missing struct{}

func (missing) String() string { return "undefined" }

// Missing marks a key that is absent from its enclosing record. It is distinct from nil, which is JSON null.
var Missing any = missing{}

// ContextEntry is one step of the path from the root value to the value being validated.
type ContextEntry struct {
	Key    string
	Type   Any
	Actual any
}

// Context is the path from the root value to the value being validated.
type Context []ContextEntry

// Append returns a copy of c extended with a new entry.
func (c Context) Append(key string, t Any, actual any) Context {
	out := make(Context, len(c), len(c)+1)
	copy(out, c)
	return append(out, ContextEntry{Key: key, Type: t, Actual: actual})
}

// Path renders the context as `key: TypeName` segments joined by slashes.
func (c Context) Path() string {
	parts := make([]string, 0, len(c))
	for _, e := range c {
		name := "unknown"
		if e.Type != nil {
			name = e.Type.Name()
		}
		parts = append(parts, e.Key+": "+name)
	}
	return strings.Join(parts, "/")
}

// Field returns the dotted field path of the context, skipping the root entry.
func (c Context) Field() string {
	keys := make([]string, 0, len(c))
	for i, e := range c {
		if i == 0 && e.Key == "" {
			continue
		}
		keys = append(keys, e.Key)
	}
	return strings.Join(keys, ".")
}

// ValidationError describes a single value that failed validation.
type ValidationError struct {
	// Value is the offending input value.
	Value any
	// Context is the path to the offending value. Its last entry names the expected type.
	Context Context
	// Message optionally overrides the default description.
	Message string
}

// Expected returns the name of the type expected at the failing position.
func (e ValidationError) Expected() string {
	if len(e.Context) == 0 || e.Context[len(e.Context)-1].Type == nil {
		return ""
	}
	return e.Context[len(e.Context)-1].Type.Name()
}

func (e ValidationError) String() string {
	s := "Invalid value " + Stringify(e.Value) + " supplied to " + e.Context.Path()
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

// Errors is an ordered list of validation failures.
type Errors []ValidationError

func (errs Errors) Error() string {
	return strings.Join(Report(errs), ", ")
}

// Failure builds a single-entry Errors for the value at context c.
func Failure(u any, c Context, message string) Errors {
	return Errors{{Value: u, Context: c, Message: message}}
}

// Any is a validator with its value type erased.
type Any interface {
	// Name describes the expected type in error reports.
	Name() string
	// Is reports whether u is already a decoded value of this validator.
	Is(u any) bool
	// ValidateAny decodes u at context c.
	ValidateAny(u any, c Context) (any, Errors)
	// EncodeAny converts a decoded value back into its wire representation.
	EncodeAny(a any) any
}

// HasProps is a record validator with a statically known set of keys.
type HasProps interface {
	Any
	// Keys lists the declared keys in declaration order.
	Keys() []string
}

// Validator is a typed validator.
type Validator[A any] interface {
	Any
	Validate(u any, c Context) (A, Errors)
	Encode(a A) any
}

// Type is the generic validator implementation used by every built-in codec.
type Type[A any] struct {
	name     string
	is       func(u any) bool
	validate func(u any, c Context) (A, Errors)
	encode   func(a A) any
}

// New creates a validator. A nil encode function makes Encode the identity.
func New[A any](name string, is func(u any) bool, validate func(u any, c Context) (A, Errors), encode func(a A) any) *Type[A] {
	if encode == nil {
		encode = func(a A) any { return a }
	}
	return &Type[A]{name: name, is: is, validate: validate, encode: encode}
}

// Name implements Any.
func (t *Type[A]) Name() string { return t.name }

// Is implements Any.
func (t *Type[A]) Is(u any) bool { return t.is(u) }

// Validate decodes u at context c.
func (t *Type[A]) Validate(u any, c Context) (A, Errors) { return t.validate(u, c) }

// Encode converts a into its wire representation.
func (t *Type[A]) Encode(a A) any { return t.encode(a) }

// Decode validates u from the root.
func (t *Type[A]) Decode(u any) (A, error) {
	a, errs := t.validate(u, Context{{Key: "", Type: t, Actual: u}})
	if len(errs) > 0 {
		var zero A
		return zero, errs
	}
	return a, nil
}

// ValidateAny implements Any.
func (t *Type[A]) ValidateAny(u any, c Context) (any, Errors) {
	a, errs := t.validate(u, c)
	if len(errs) > 0 {
		return nil, errs
	}
	return a, nil
}

// EncodeAny implements Any. Values that are not of type A are returned unchanged.
func (t *Type[A]) EncodeAny(a any) any {
	if v, ok := a.(A); ok {
		return t.encode(v)
	}
	return a
}

// Erase wraps any validator as a *Type[any].
func Erase(c Any) *Type[any] {
	if t, ok := c.(*Type[any]); ok {
		return t
	}
	return New[any](c.Name(), c.Is, c.ValidateAny, c.EncodeAny)
}

// DecodeAny validates u from the root using an erased validator.
func DecodeAny(c Any, u any) (any, error) {
	a, errs := c.ValidateAny(u, Context{{Key: "", Type: c, Actual: u}})
	if len(errs) > 0 {
		return nil, errs
	}
	return a, nil
}
