package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/isometry/codec-handler/pkg/codec"
)

// ValidationErrorHandler builds the response for an event that failed validation.
type ValidationErrorHandler func(errs codec.Errors) Response

// UnhandledErrorHandler builds the response for a handler that failed or panicked.
type UnhandledErrorHandler func(err UnhandledError) Response

// SuccessHandler builds the response for a handler result.
type SuccessHandler func(result any) Response

// UnhandledError is either a *StructuredError or an *OpaqueError.
type UnhandledError interface {
	error
	unhandled()
}

// StructuredError is an unhandled failure that carried a Go error.
type StructuredError struct {
	Message string `json:"message"`
	// Stack is the formatted stack trace of the failure.
	Stack string `json:"-"`
	Cause error  `json:"-"`
}

func (e *StructuredError) Error() string { return e.Message }
func (e *StructuredError) Unwrap() error { return e.Cause }
func (*StructuredError) unhandled()      {}

// OpaqueError is an unhandled failure raised with a value that is not an error.
type OpaqueError struct {
	Value any
}

func (e *OpaqueError) Error() string { return describe(e.Value) }
func (*OpaqueError) unhandled()      {}

// MarshalJSON renders the raised value itself.
func (e *OpaqueError) MarshalJSON() ([]byte, error) {
	return marshalBounded(e.Value)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// panicked carries a recovered panic value out of a handler call.
type panicked struct {
	value any
}

func (p *panicked) Error() string { return "handler panicked: " + describe(p.value) }

// NewUnhandledError classifies a handler failure. A nil error value, or one whose methods panic, becomes a
// StructuredError naming its type.
func NewUnhandledError(err error) (u UnhandledError) {
	defer func() {
		if r := recover(); r != nil {
			u = &StructuredError{Message: fmt.Sprintf("handler returned an unusable %T error value", err)}
		}
	}()

	var p *panicked
	if errors.As(err, &p) {
		cause, ok := p.value.(error)
		if !ok {
			return &OpaqueError{Value: p.value}
		}
		err = cause
	}
	if isNil(err) {
		return &StructuredError{Message: fmt.Sprintf("handler returned a nil %T error value", err)}
	}
	if errors.As(err, &u) && !isNil(u) {
		return u
	}
	var st stackTracer
	if !errors.As(err, &st) {
		st = errors.WithStack(err).(stackTracer)
	}
	return &StructuredError{
		Message: err.Error(),
		Stack:   strings.TrimSpace(fmt.Sprintf("%+v", st.StackTrace())),
		Cause:   err,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func jsonResponse(statusCode int, body string) Response {
	return Response{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func errorResponse(statusCode int, message string) Response {
	b, err := json.Marshal(errorBody{Error: message})
	if err != nil {
		b = []byte(`{"error":"` + http.StatusText(statusCode) + `"}`)
	}
	return jsonResponse(statusCode, string(b))
}

// DefaultValidationErrorHandler responds 400 with every validation error joined by ", ".
func DefaultValidationErrorHandler(errs codec.Errors) Response {
	return errorResponse(http.StatusBadRequest, strings.Join(codec.Report(errs), ", "))
}

// DefaultUnhandledErrorHandler responds 500 with a best-effort JSON rendering of the failure.
func DefaultUnhandledErrorHandler(err UnhandledError) Response {
	var rendered string
	if b, marshalErr := marshalBounded(err); marshalErr == nil {
		rendered = string(b)
	} else {
		rendered = fmt.Sprintf("%v", err)
	}
	return errorResponse(http.StatusInternalServerError, "Unhandled error: "+rendered)
}

// DefaultSuccessHandler responds 200 with the JSON encoding of result.
func DefaultSuccessHandler(result any) Response {
	b, err := marshalBounded(result)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "Unable to serialise result: "+err.Error())
	}
	return jsonResponse(http.StatusOK, string(b))
}
