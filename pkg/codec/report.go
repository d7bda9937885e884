package codec

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Report renders every error as a human-readable line, in order.
func Report(errs Errors) []string {
	if len(errs) == 0 {
		return []string{"No errors!"}
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.String())
	}
	return out
}

// Stringify renders a value for error reports. It never fails.
func Stringify(v any) string {
	if v == Missing {
		return "undefined"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
