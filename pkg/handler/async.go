package handler

import (
	"context"

	"github.com/pkg/errors"
)

// ContractViolation reports a handler that broke the calling contract rather than failing on its own terms.
// Invoke returns it as an error and produces no response.
type ContractViolation struct {
	Reason string
}

func (e *ContractViolation) Error() string {
	return "handler contract violated: " + e.Reason
}

// Outcome is the eventual result of an asynchronous handler.
type Outcome struct {
	Result any
	Err    error
}

// AsyncFunc starts handling an event and returns a channel delivering its outcome.
type AsyncFunc func(ctx context.Context, e Event) <-chan Outcome

// Async adapts an AsyncFunc into a HandlerFunc that waits for the outcome or for ctx to end.
// A nil channel, or one closed without an outcome, is a contract violation.
func Async(fn AsyncFunc) HandlerFunc {
	return func(ctx context.Context, e Event) (any, error) {
		pending := fn(ctx, e)
		if pending == nil {
			return nil, &ContractViolation{Reason: "handler returned no pending result"}
		}
		select {
		case o, ok := <-pending:
			if !ok {
				return nil, &ContractViolation{Reason: "handler closed its result channel without an outcome"}
			}
			return o.Result, o.Err
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "abandoned waiting for handler result")
		}
	}
}
