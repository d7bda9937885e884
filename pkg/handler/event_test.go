package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/codec-handler/pkg/codec"
	"github.com/isometry/codec-handler/pkg/handler"
)

type listRequest struct {
	HTTPMethod string `json:"httpMethod"`
	Query      struct {
		PageNumber float64 `json:"pageNumber"`
		PageSize   float64 `json:"pageSize,omitempty"`
	} `json:"queryStringParameters"`
	Body struct {
		Tags []any `json:"tags"`
	} `json:"body"`
}

func TestEventBind(t *testing.T) {
	e := handler.Event{
		"httpMethod":            "GET",
		"queryStringParameters": map[string]any{"pageNumber": 2.0, "pageSize": 5.0},
		"body":                  map[string]any{"tags": []any{"a", "b"}},
	}

	var out listRequest
	require.NoError(t, e.Bind(&out))
	assert.Equal(t, "GET", out.HTTPMethod)
	assert.Equal(t, 2.0, out.Query.PageNumber)
	assert.Equal(t, 5.0, out.Query.PageSize)
	assert.Equal(t, []any{"a", "b"}, out.Body.Tags)

	var bad struct {
		HTTPMethod int `json:"httpMethod"`
	}
	assert.Error(t, e.Bind(&bad))
}

func TestEventAccessors(t *testing.T) {
	e := handler.Event{
		"pathParameters": map[string]any{"id": 4},
		"body":           "raw",
		"path":           "/products/4",
	}

	testCases := []struct {
		Name     string
		Actual   any
		Expected any
	}{
		{Name: "section", Actual: e.Section(handler.PathParameters), Expected: map[string]any{"id": 4}},
		{Name: "missing_section", Actual: e.Section(handler.Headers), Expected: map[string]any(nil)},
		{Name: "body", Actual: e.Body(), Expected: "raw"},
		{Name: "path", Actual: e.Path(), Expected: "/products/4"},
		{Name: "missing_method", Actual: e.HTTPMethod(), Expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, tc.Actual)
		})
	}

	_, ok := e.Field(handler.Headers, "x")
	assert.False(t, ok)
}

func TestTyped(t *testing.T) {
	m := handler.EventMap{
		QueryStringParameters: codec.Object(codec.P("pageNumber", codec.NumberFromString)),
		Body:                  codec.Object(codec.P("tags", codec.Array(codec.String))),
	}
	h := handler.Configure().Wrap(m, handler.Typed(func(_ context.Context, in listRequest) (any, error) {
		return map[string]any{"page": in.Query.PageNumber, "tags": len(in.Body.Tags), "method": in.HTTPMethod}, nil
	}))

	resp, err := h.Invoke(context.Background(), map[string]any{
		"httpMethod":            "POST",
		"queryStringParameters": map[string]any{"pageNumber": "3"},
		"body":                  `{"tags":["x","y","z"]}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"page":3,"tags":3,"method":"POST"}`, resp.Body)
}

func TestTypedBindFailure(t *testing.T) {
	h := handler.Configure().Wrap(handler.EventMap{}, handler.Typed(func(context.Context, struct {
		Method int `json:"httpMethod"`
	}) (any, error) {
		return nil, nil
	}))

	resp, err := h.Invoke(context.Background(), map[string]any{"httpMethod": "GET"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
