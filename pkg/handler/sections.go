package handler

import (
	"github.com/isometry/codec-handler/pkg/codec"
	"github.com/isometry/codec-handler/pkg/parser"
)

// Section names one top-level field of an API Gateway proxy event.
type Section string

const (
	Headers                         Section = "headers"
	MultiValueHeaders               Section = "multiValueHeaders"
	PathParameters                  Section = "pathParameters"
	QueryStringParameters           Section = "queryStringParameters"
	MultiValueQueryStringParameters Section = "multiValueQueryStringParameters"
	StageVariables                  Section = "stageVariables"
	Body                            Section = "body"
)

// Sections lists every section in declaration order.
var Sections = []Section{
	Headers,
	MultiValueHeaders,
	PathParameters,
	QueryStringParameters,
	MultiValueQueryStringParameters,
	StageVariables,
	Body,
}

// EventMap declares the validator of each section a handler cares about.
// A nil field leaves that section undeclared.
type EventMap struct {
	Headers                         codec.HasProps
	MultiValueHeaders               codec.HasProps
	PathParameters                  codec.HasProps
	QueryStringParameters           codec.HasProps
	MultiValueQueryStringParameters codec.HasProps
	StageVariables                  codec.HasProps
	// Body is validated after the raw body string has been parsed as JSON.
	Body codec.Any
}

// Lookup returns the validator declared for s.
func (m EventMap) Lookup(s Section) (codec.Any, bool) {
	var c codec.HasProps
	switch s {
	case Headers:
		c = m.Headers
	case MultiValueHeaders:
		c = m.MultiValueHeaders
	case PathParameters:
		c = m.PathParameters
	case QueryStringParameters:
		c = m.QueryStringParameters
	case MultiValueQueryStringParameters:
		c = m.MultiValueQueryStringParameters
	case StageVariables:
		c = m.StageVariables
	case Body:
		return m.Body, m.Body != nil
	default:
		return nil, false
	}
	if c == nil {
		return nil, false
	}
	return c, true
}

// Declared lists the declared sections in declaration order.
func (m EventMap) Declared() []Section {
	var out []Section
	for _, s := range Sections {
		if _, ok := m.Lookup(s); ok {
			out = append(out, s)
		}
	}
	return out
}

// IsDeclared reports whether s has a validator.
func (m EventMap) IsDeclared(s Section) bool {
	_, ok := m.Lookup(s)
	return ok
}

// Compose builds the event validator for m.
//
// In strict mode every non-body section rejects keys it does not declare. The body is parsed from
// its string form with p before its validator runs. The composed validator covers exactly the
// declared sections and reports the errors of every failing section.
func Compose(m EventMap, strict bool, p parser.Parser) codec.Any {
	props := make([]codec.Prop, 0, len(Sections))
	for _, s := range m.Declared() {
		c, _ := m.Lookup(s)
		switch {
		case s == Body:
			c = codec.Pipe[any, any](codec.JSONFromStringWith(p), codec.Erase(c))
		case strict:
			c = codec.Exact(c.(codec.HasProps))
		}
		props = append(props, codec.P(string(s), c))
	}
	return codec.Object(props...)
}
