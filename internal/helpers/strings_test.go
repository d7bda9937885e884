package helpers_test

import (
	"testing"

	"github.com/isometry/codec-handler/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    string
		Length   int
		Expected string
	}{
		{
			Name:     "short_string",
			Input:    "abc",
			Length:   10,
			Expected: "abc",
		},
		{
			Name:     "exact_length",
			Input:    "abcdef",
			Length:   6,
			Expected: "abcdef",
		},
		{
			Name:     "long_string",
			Input:    "abcdefghij",
			Length:   6,
			Expected: "abc...",
		},
		{
			Name:     "tiny_limit",
			Input:    "abcdefghij",
			Length:   2,
			Expected: "ab",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.Truncate(tc.Input, tc.Length))
		})
	}
}
