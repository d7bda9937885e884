// Package parser provides the JSON parsing capability used to decode string payloads.
package parser

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by the gjson parser when the input is not valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// Parser turns a string into a JSON value: nil, bool, float64, string, []any or map[string]any.
type Parser interface {
	Parse(input string) (any, error)
}

// Func adapts a plain function into a Parser.
type Func func(input string) (any, error)

// Parse implements Parser.
func (f Func) Parse(input string) (any, error) {
	return f(input)
}

// Default is the parser used when none is configured explicitly.
var Default = GoJSON()

// GoJSON returns a Parser backed by goccy/go-json.
func GoJSON() Parser {
	return goJSON{}
}

type goJSON struct{}

func (goJSON) Parse(input string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(input), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// GJSON returns a Parser backed by tidwall/gjson.
func GJSON() Parser {
	return gjsonParser{}
}

type gjsonParser struct{}

func (gjsonParser) Parse(input string) (any, error) {
	if !gjson.Valid(input) {
		return nil, ErrInvalidJSON
	}
	return gjson.Parse(input).Value(), nil
}
