package handler

import (
	"context"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Event is a validated event: decoded sections plus every other top-level field of the raw event.
type Event map[string]any

// Section returns the decoded record of s, or nil when s is not a record.
func (e Event) Section(s Section) map[string]any {
	m, _ := e[string(s)].(map[string]any)
	return m
}

// Body returns the decoded body.
func (e Event) Body() any {
	return e[string(Body)]
}

// Field returns a single key of a decoded section.
func (e Event) Field(s Section, key string) (any, bool) {
	v, ok := e.Section(s)[key]
	return v, ok
}

func (e Event) str(key string) string {
	s, _ := e[key].(string)
	return s
}

// HTTPMethod returns the pass-through httpMethod field.
func (e Event) HTTPMethod() string { return e.str("httpMethod") }

// Path returns the pass-through path field.
func (e Event) Path() string { return e.str("path") }

// Resource returns the pass-through resource field.
func (e Event) Resource() string { return e.str("resource") }

// Bind decodes the event into out, a pointer to a struct whose fields carry json tags.
func (e Event) Bind(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create event decoder")
	}
	if err = decoder.Decode(map[string]any(e)); err != nil {
		return errors.Wrap(err, "failed to bind event")
	}
	return nil
}

// Typed adapts a handler taking a bound struct into a HandlerFunc.
func Typed[T any](fn func(ctx context.Context, in T) (any, error)) HandlerFunc {
	return func(ctx context.Context, e Event) (any, error) {
		var in T
		if err := e.Bind(&in); err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}
}
