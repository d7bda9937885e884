package codec

import (
	"github.com/goccy/go-json"

	"github.com/isometry/codec-handler/pkg/parser"
)

const unknownParseError = "Unknown error"

// JSONFromString decodes a JSON document held in a string, using parser.Default.
var JSONFromString = JSONFromStringWith(nil)

// JSONFromStringWith decodes a JSON document held in a string using p.
// A nil p resolves parser.Default at decode time.
func JSONFromStringWith(p parser.Parser) *Type[any] {
	return New[any]("JSONFromString",
		func(u any) bool { return u != Missing },
		func(u any, c Context) (any, Errors) {
			s, errs := String.Validate(u, c)
			if len(errs) > 0 {
				return nil, errs
			}
			active := p
			if active == nil {
				active = parser.Default
			}
			v, message := safeParse(active, s)
			if message != "" {
				return nil, Failure(u, c, message)
			}
			return v, nil
		},
		encodeJSON)
}

// safeParse turns both returned errors and panics into a failure message.
func safeParse(p parser.Parser, s string) (v any, message string) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			if err, ok := r.(error); ok {
				message = err.Error()
			} else {
				message = unknownParseError
			}
		}
	}()
	v, err := p.Parse(s)
	if err != nil {
		if msg := err.Error(); msg != "" {
			return nil, msg
		}
		return nil, unknownParseError
	}
	return v, ""
}

func encodeJSON(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
