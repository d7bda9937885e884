// Package handler wraps API Gateway proxy handlers with section-level validation of the incoming event
// and a uniform response envelope for every outcome.
package handler

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"maps"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/isometry/codec-handler/pkg/codec"
	"github.com/isometry/codec-handler/pkg/parser"
)

// Response is the envelope returned to API Gateway.
type Response = events.APIGatewayProxyResponse

// HandlerFunc handles a validated event. A returned error is treated as an unhandled failure.
type HandlerFunc func(ctx context.Context, e Event) (any, error)

// Config is the declarative part of the wrapper configuration.
type Config struct {
	// Strict rejects undeclared keys inside declared non-body sections.
	Strict bool `yaml:"strict,omitempty"`
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// Wrapper holds the configuration shared by every handler it wraps.
type Wrapper struct {
	logger            *slog.Logger
	strict            bool
	parser            parser.Parser
	onValidationError ValidationErrorHandler
	onUnhandledError  UnhandledErrorHandler
	onSuccess         SuccessHandler
}

// Configure creates a Wrapper. Outcome handlers that are not set use the package defaults.
func Configure(opts ...Option) *Wrapper {
	_inst := &Wrapper{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if _inst.parser == nil {
		_inst.parser = parser.Default
	}
	if _inst.onValidationError == nil {
		_inst.onValidationError = DefaultValidationErrorHandler
	}
	if _inst.onUnhandledError == nil {
		_inst.onUnhandledError = DefaultUnhandledErrorHandler
	}
	if _inst.onSuccess == nil {
		_inst.onSuccess = DefaultSuccessHandler
	}
	return _inst
}

// Strict reports whether the wrapper rejects undeclared section keys.
func (w *Wrapper) Strict() bool { return w.strict }

// Wrap binds fn to the sections declared in m.
func (w *Wrapper) Wrap(m EventMap, fn HandlerFunc) *Handler {
	return &Handler{
		wrapper: w,
		events:  m,
		fn:      fn,
		logger:  w.logger.With(slog.Any("sections", m.Declared())),
	}
}

// Handler is a HandlerFunc bound to its event declaration.
type Handler struct {
	wrapper *Wrapper
	events  EventMap
	fn      HandlerFunc
	logger  *slog.Logger
}

// Invoke validates raw and dispatches it to exactly one outcome handler.
// The returned error is non-nil only for a *ContractViolation, in which case there is no response.
func (h *Handler) Invoke(ctx context.Context, raw map[string]any) (Response, error) {
	if h.fn == nil {
		h.logger.Error("no handler function configured")
		return Response{}, &ContractViolation{Reason: "no handler function configured"}
	}

	input, passthrough := h.prepare(raw)
	schema := Compose(h.events, h.wrapper.strict, h.wrapper.parser)

	decoded, err := codec.DecodeAny(schema, input)
	if err != nil {
		var errs codec.Errors
		if !errors.As(err, &errs) {
			errs = codec.Failure(input, nil, err.Error())
		}
		h.logger.Info("rejecting invalid event", slog.Int("errors", len(errs)), slog.Any("error", err))
		return h.wrapper.onValidationError(errs), nil
	}

	event := Event(passthrough)
	if sections, ok := decoded.(map[string]any); ok {
		maps.Copy(event, sections)
	}

	result, err := h.call(ctx, event)
	if err != nil {
		var violation *ContractViolation
		if errors.As(err, &violation) {
			h.logger.Error("handler broke its contract", slog.Any("error", err))
			return Response{}, violation
		}
		unhandled := NewUnhandledError(err)
		h.logger.Error("unhandled error", slog.Any("error", unhandled))
		return h.wrapper.onUnhandledError(unhandled), nil
	}

	h.logger.Debug("event handled")
	return h.wrapper.onSuccess(result), nil
}

// prepare drops null top-level entries and fills declared sections with their defaults.
// Every remaining field that is not a declared section is returned as pass-through.
func (h *Handler) prepare(raw map[string]any) (input, passthrough map[string]any) {
	input = make(map[string]any, len(Sections))
	for _, s := range h.events.Declared() {
		if s == Body {
			input[string(s)] = nil
		} else {
			input[string(s)] = map[string]any{}
		}
	}
	passthrough = make(map[string]any, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		if h.events.IsDeclared(Section(k)) {
			input[k] = v
			continue
		}
		passthrough[k] = v
	}
	return input, passthrough
}

func (h *Handler) call(ctx context.Context, e Event) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicked{value: r}
		}
	}()
	return h.fn(ctx, e)
}

// HandleRequest is the Lambda entry point for API Gateway REST (payload v1) events.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (Response, error) {
	raw, err := RequestToEvent(req)
	if err != nil {
		return Response{}, err
	}
	return h.Invoke(ctx, raw)
}

// RequestToEvent converts a typed proxy request into the raw event map seen by Invoke.
// An empty body becomes null and a base64-encoded body is decoded.
func RequestToEvent(req events.APIGatewayProxyRequest) (map[string]any, error) {
	if req.IsBase64Encoded && req.Body != "" {
		b, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode base64 request body")
		}
		req.Body = string(b)
		req.IsBase64Encoded = false
	}
	b, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}
	var raw map[string]any
	if err = json.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal request")
	}
	if req.Body == "" {
		raw[string(Body)] = nil
	}
	return raw, nil
}
