package parser_test

import (
	"testing"

	"github.com/isometry/codec-handler/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsers(t *testing.T) {
	testCases := []struct {
		Name        string
		Input       string
		Expected    any
		ExpectError bool
	}{
		{
			Name:     "null",
			Input:    "null",
			Expected: nil,
		},
		{
			Name:     "number",
			Input:    "8",
			Expected: float64(8),
		},
		{
			Name:     "boolean",
			Input:    "false",
			Expected: false,
		},
		{
			Name:     "object",
			Input:    `{ "hello": 4 }`,
			Expected: map[string]any{"hello": float64(4)},
		},
		{
			Name:     "array",
			Input:    `[1, "a", null]`,
			Expected: []any{float64(1), "a", nil},
		},
		{
			Name:        "empty",
			Input:       "",
			ExpectError: true,
		},
		{
			Name:        "garbage",
			Input:       "dfsjlsf",
			ExpectError: true,
		},
		{
			Name:        "truncated_object",
			Input:       `{ "hello": 4 `,
			ExpectError: true,
		},
	}

	parsers := map[string]parser.Parser{
		"go-json": parser.GoJSON(),
		"gjson":   parser.GJSON(),
	}

	for name, p := range parsers {
		for _, tc := range testCases {
			t.Run(name+"/"+tc.Name, func(t *testing.T) {
				v, err := p.Parse(tc.Input)
				if tc.ExpectError {
					require.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tc.Expected, v)
			})
		}
	}
}

func TestFunc(t *testing.T) {
	p := parser.Func(func(input string) (any, error) {
		return input + "!", nil
	})
	v, err := p.Parse("hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", v)
}
