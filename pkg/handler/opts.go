package handler

import (
	"log/slog"

	"github.com/isometry/codec-handler/pkg/parser"
)

// WithLogger sets the logger used by the wrapper and every handler it wraps.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wrapper) {
		w.logger = logger
	}
}

// WithStrict makes declared non-body sections reject keys they do not declare.
func WithStrict(strict bool) Option {
	return func(w *Wrapper) {
		w.strict = strict
	}
}

// WithConfig applies a declarative Config.
func WithConfig(cfg Config) Option {
	return func(w *Wrapper) {
		w.strict = cfg.Strict
	}
}

// WithParser sets the JSON parser used for the body section.
func WithParser(p parser.Parser) Option {
	return func(w *Wrapper) {
		w.parser = p
	}
}

// WithValidationErrorHandler overrides the response built for invalid events.
func WithValidationErrorHandler(fn ValidationErrorHandler) Option {
	return func(w *Wrapper) {
		w.onValidationError = fn
	}
}

// WithUnhandledErrorHandler overrides the response built for failing handlers.
func WithUnhandledErrorHandler(fn UnhandledErrorHandler) Option {
	return func(w *Wrapper) {
		w.onUnhandledError = fn
	}
}

// WithSuccessHandler overrides the response built for handler results.
func WithSuccessHandler(fn SuccessHandler) Option {
	return func(w *Wrapper) {
		w.onSuccess = fn
	}
}
