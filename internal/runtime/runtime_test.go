package runtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/codec-handler/internal/products"
	"github.com/isometry/codec-handler/internal/runtime"
	"github.com/isometry/codec-handler/pkg/handler"
)

type recordingUploader struct {
	ids    []string
	bucket string
	bodies [][]byte
	err    error
}

func (u *recordingUploader) PutS3Object(_ context.Context, id, bucket string, body []byte) error {
	u.ids = append(u.ids, id)
	u.bucket = bucket
	u.bodies = append(u.bodies, body)
	return u.err
}

func newRuntime(uploader runtime.Uploader) *runtime.Runtime {
	svc := products.NewService(products.Generate(40))
	var routes []runtime.Route
	for _, r := range svc.Routes() {
		routes = append(routes, runtime.Route{Method: r.Method, Resource: r.Resource, Handler: r.Handler})
	}
	opts := []runtime.Option{
		runtime.WithHandler(svc.GetProduct()),
		runtime.WithRoutes(routes...),
	}
	if uploader != nil {
		opts = append(opts, runtime.WithS3Upload(uploader, "rejected-requests"))
	}
	return runtime.NewRuntime(opts...)
}

func TestServeHTTP(t *testing.T) {
	testCases := []struct {
		Name           string
		Method         string
		Target         string
		ExpectedStatus int
		ExpectedBody   string
	}{
		{
			Name:           "list_products",
			Method:         http.MethodGet,
			Target:         "/products?pageSize=2&pageNumber=1",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   `"id":2`,
		},
		{
			Name:           "get_product",
			Method:         http.MethodGet,
			Target:         "/products/5",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   `"id":5`,
		},
		{
			Name:           "invalid_id",
			Method:         http.MethodGet,
			Target:         "/products/five",
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   `"error":"Invalid value \"five\"`,
		},
		{
			Name:           "unknown_product",
			Method:         http.MethodGet,
			Target:         "/products/99",
			ExpectedStatus: http.StatusInternalServerError,
			ExpectedBody:   "product not found",
		},
		{
			Name:           "method_not_allowed",
			Method:         http.MethodPost,
			Target:         "/products",
			ExpectedStatus: http.StatusMethodNotAllowed,
		},
		{
			Name:           "not_found",
			Method:         http.MethodGet,
			Target:         "/orders",
			ExpectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rw := httptest.NewRecorder()
			newRuntime(nil).ServeHTTP(rw, httptest.NewRequest(tc.Method, tc.Target, nil))
			assert.Equal(t, tc.ExpectedStatus, rw.Code)
			assert.Contains(t, rw.Body.String(), tc.ExpectedBody)
		})
	}
}

func TestRequestFromHTTP(t *testing.T) {
	var got events.APIGatewayProxyRequest
	router := chi.NewRouter()
	router.Put("/items/{id}/tags/{tag:[a-z]+}", func(_ http.ResponseWriter, req *http.Request) {
		var err error
		got, err = runtime.RequestFromHTTP(req, "/items/{id}/tags/{tag:[a-z]+}")
		require.NoError(t, err)
	})

	req := httptest.NewRequest(http.MethodPut, "/items/7/tags/red?a=1&a=2&b=3", strings.NewReader(`{"x":1}`))
	req.Header.Add("X-Trace", "one")
	req.Header.Add("X-Trace", "two")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, http.MethodPut, got.HTTPMethod)
	assert.Equal(t, "/items/7/tags/red", got.Path)
	assert.Equal(t, "/items/{id}/tags/{tag:[a-z]+}", got.Resource)
	assert.Equal(t, map[string]string{"id": "7", "tag": "red"}, got.PathParameters)
	assert.Equal(t, map[string]string{"a": "2", "b": "3"}, got.QueryStringParameters)
	assert.Equal(t, []string{"1", "2"}, got.MultiValueQueryStringParameters["a"])
	assert.Equal(t, "one", got.Headers["x-trace"])
	assert.Equal(t, []string{"one", "two"}, got.MultiValueHeaders["x-trace"])
	assert.Equal(t, `{"x":1}`, got.Body)
}

func TestLambda(t *testing.T) {
	t.Run("delegates_to_handler", func(t *testing.T) {
		resp, err := newRuntime(nil).Lambda(context.Background(), events.APIGatewayProxyRequest{
			PathParameters: map[string]string{"id": "3"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("no_handler", func(t *testing.T) {
		_, err := runtime.NewRuntime().Lambda(context.Background(), events.APIGatewayProxyRequest{})
		assert.Error(t, err)
	})

	t.Run("contract_violation", func(t *testing.T) {
		rt := runtime.NewRuntime(runtime.WithHandler(handler.Configure().Wrap(handler.EventMap{}, nil)))
		_, err := rt.Lambda(context.Background(), events.APIGatewayProxyRequest{})
		var violation *handler.ContractViolation
		assert.ErrorAs(t, err, &violation)
	})
}

func TestRejectedRequestArchive(t *testing.T) {
	testCases := []struct {
		Name            string
		PathParameters  map[string]string
		UploadErr       error
		ExpectedStatus  int
		ExpectedUploads int
	}{
		{
			Name:            "rejected_request_is_archived",
			PathParameters:  map[string]string{"id": "x"},
			ExpectedStatus:  http.StatusBadRequest,
			ExpectedUploads: 1,
		},
		{
			Name:            "accepted_request_is_not_archived",
			PathParameters:  map[string]string{"id": "1"},
			ExpectedStatus:  http.StatusOK,
			ExpectedUploads: 0,
		},
		{
			Name:            "upload_failure_keeps_response",
			PathParameters:  map[string]string{"id": "x"},
			UploadErr:       errors.New("access denied"),
			ExpectedStatus:  http.StatusBadRequest,
			ExpectedUploads: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			uploader := &recordingUploader{err: tc.UploadErr}
			req := events.APIGatewayProxyRequest{PathParameters: tc.PathParameters}
			req.RequestContext.RequestID = "req-42"

			resp, err := newRuntime(uploader).Lambda(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedStatus, resp.StatusCode)
			require.Len(t, uploader.ids, tc.ExpectedUploads)
			if tc.ExpectedUploads == 0 {
				return
			}
			assert.Equal(t, "req-42", uploader.ids[0])
			assert.Equal(t, "rejected-requests", uploader.bucket)
			var archived events.APIGatewayProxyRequest
			require.NoError(t, json.Unmarshal(uploader.bodies[0], &archived))
			assert.Equal(t, tc.PathParameters, archived.PathParameters)
		})
	}
}

func TestArchiveWithoutRequestID(t *testing.T) {
	uploader := &recordingUploader{}
	resp, err := newRuntime(uploader).Lambda(context.Background(), events.APIGatewayProxyRequest{
		PathParameters: map[string]string{"id": "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, uploader.ids, 1)
	_, err = uuid.Parse(uploader.ids[0])
	assert.NoError(t, err)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := products.NewService(products.Generate(3))
	var routes []runtime.Route
	for _, r := range svc.Routes() {
		routes = append(routes, runtime.Route{Method: r.Method, Resource: r.Resource, Handler: r.Handler})
	}
	rt := runtime.NewRuntime(
		runtime.WithRoutes(routes...),
		runtime.WithS3Upload(&recordingUploader{err: errors.New("access denied")}, "rejected-requests"),
		runtime.WithMetrics(reg))

	for _, target := range []string{"/products/1", "/products/2", "/products/x"} {
		rt.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	expected := `
# HELP codec_handler_responses_total Responses produced by wrapped handlers, by resource and status code.
# TYPE codec_handler_responses_total counter
codec_handler_responses_total{resource="/products/{id}",status="200"} 2
codec_handler_responses_total{resource="/products/{id}",status="400"} 1
# HELP codec_handler_rejected_requests_archived_total Rejected requests sent to the archive, by result.
# TYPE codec_handler_rejected_requests_archived_total counter
codec_handler_rejected_requests_archived_total{result="failed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"codec_handler_responses_total", "codec_handler_rejected_requests_archived_total"))

	rw := httptest.NewRecorder()
	rt.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), "codec_handler_request_duration_seconds")
}
