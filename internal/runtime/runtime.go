// Package runtime hosts wrapped handlers inside the AWS Lambda runtime or behind an HTTP server.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/isometry/codec-handler/internal/helpers"
	"github.com/isometry/codec-handler/pkg/handler"
)

// Uploader archives request payloads.
type Uploader interface {
	PutS3Object(ctx context.Context, id, bucket string, body []byte) error
}

// Route binds a wrapped handler to an HTTP method and an API Gateway resource path such as /products/{id}.
type Route struct {
	Method   string
	Resource string
	Handler  *handler.Handler
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger of the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithHandler sets the handler invoked by Lambda.
func WithHandler(h *handler.Handler) Option {
	return func(r *Runtime) {
		r.handler = h
	}
}

// WithRoutes adds HTTP routes served by ServeHTTP.
func WithRoutes(routes ...Route) Option {
	return func(r *Runtime) {
		r.routes = append(r.routes, routes...)
	}
}

// WithS3Upload archives every request rejected with 400 to bucket.
func WithS3Upload(uploader Uploader, bucket string) Option {
	return func(r *Runtime) {
		r.uploader = uploader
		r.bucket = bucket
	}
}

// WithMetrics records response metrics in reg and serves them on GET /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(r *Runtime) {
		r.registry = reg
	}
}

// Runtime serves wrapped handlers to the Lambda runtime and over HTTP.
type Runtime struct {
	handler  *handler.Handler
	routes   []Route
	router   chi.Router
	uploader Uploader
	bucket   string
	registry *prometheus.Registry
	metrics  *metrics
	logger   *slog.Logger
}

// NewRuntime creates a new runtime instance
func NewRuntime(opts ...Option) *Runtime {
	_inst := &Runtime{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.router = chi.NewRouter()
	if _inst.registry != nil {
		_inst.metrics = newMetrics(_inst.registry)
		_inst.router.Method(http.MethodGet, "/metrics", _inst.metrics.handler)
	}
	for _, route := range _inst.routes {
		_inst.router.Method(route.Method, route.Resource, _inst.serve(route))
	}
	return _inst
}

// Lambda is the Lambda handler for the runtime
func (r *Runtime) Lambda(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if r.handler == nil {
		return events.APIGatewayProxyResponse{}, errors.New("no handler configured")
	}
	r.logger.Info("received API Gateway request", slog.String("method", req.HTTPMethod), slog.String("path", req.Path))

	started := time.Now()
	resp, err := r.handler.HandleRequest(ctx, req)
	if err != nil {
		r.logger.Error("failed to handle request", slog.Any("error", err))
		return resp, err
	}
	r.metrics.observe(req.Resource, resp.StatusCode, started)

	// Extensions
	r.extensions(ctx, req, resp)
	return resp, nil
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(resp, req)
}

func (r *Runtime) serve(route Route) http.HandlerFunc {
	return func(resp http.ResponseWriter, req *http.Request) {
		r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("method", req.Method), slog.Any("path", req.URL.Path))

		proxyReq, err := RequestFromHTTP(req, route.Resource)
		if err != nil {
			r.logger.Error("failed to read request", slog.Any("error", err))
			helpers.RespondHTTP(events.APIGatewayProxyResponse{}, err, resp)
			return
		}

		started := time.Now()
		result, err := route.Handler.HandleRequest(req.Context(), proxyReq)
		if err != nil {
			r.logger.Error("failed to handle request", slog.Any("error", err))
			helpers.RespondHTTP(result, err, resp)
			return
		}
		r.metrics.observe(route.Resource, result.StatusCode, started)

		// Extensions
		r.extensions(req.Context(), proxyReq, result)
		helpers.RespondHTTP(result, nil, resp)
	}
}

var pathParameterPattern = regexp.MustCompile(`\{([^}/:]+)(?::[^}]*)?\}`)

// RequestFromHTTP converts an HTTP request into the API Gateway proxy request it would have produced.
// Path parameters are read from the chi route context, whose placeholders must be named as in resource.
func RequestFromHTTP(req *http.Request, resource string) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, errors.Wrap(err, "failed to read request body")
	}

	proxyReq := events.APIGatewayProxyRequest{
		Resource:   resource,
		Path:       req.URL.Path,
		HTTPMethod: req.Method,
		Body:       string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			ResourcePath: resource,
			HTTPMethod:   req.Method,
			Path:         req.URL.Path,
			Identity:     events.APIGatewayRequestIdentity{SourceIP: req.RemoteAddr, UserAgent: req.UserAgent()},
		},
	}

	if len(req.Header) > 0 {
		proxyReq.Headers = make(map[string]string, len(req.Header))
		proxyReq.MultiValueHeaders = make(map[string][]string, len(req.Header))
		for k, v := range req.Header {
			// Lower-case incoming headers for compatibility purposes
			key := strings.ToLower(k)
			proxyReq.Headers[key] = v[0]
			proxyReq.MultiValueHeaders[key] = v
		}
	}

	if query := req.URL.Query(); len(query) > 0 {
		proxyReq.QueryStringParameters = make(map[string]string, len(query))
		proxyReq.MultiValueQueryStringParameters = make(map[string][]string, len(query))
		for k, v := range query {
			proxyReq.QueryStringParameters[k] = v[len(v)-1]
			proxyReq.MultiValueQueryStringParameters[k] = v
		}
	}

	if names := pathParameterPattern.FindAllStringSubmatch(resource, -1); len(names) > 0 {
		proxyReq.PathParameters = make(map[string]string, len(names))
		for _, name := range names {
			proxyReq.PathParameters[name[1]] = chi.URLParam(req, name[1])
		}
	}

	return proxyReq, nil
}

// extensions is a helper function to execute additional runtime extensions
func (r *Runtime) extensions(ctx context.Context, req events.APIGatewayProxyRequest, resp events.APIGatewayProxyResponse) {
	// S3 archive of rejected requests
	if r.uploader == nil || resp.StatusCode != http.StatusBadRequest {
		return
	}
	body, err := json.Marshal(req)
	if err != nil {
		r.logger.Warn("failed to marshal rejected request", slog.Any("error", err))
		return
	}
	id := req.RequestContext.RequestID
	if id == "" {
		id = uuid.NewString()
	}
	err = r.uploader.PutS3Object(ctx, id, r.bucket, body)
	r.metrics.archive(err == nil)
	if err != nil {
		helpers.OnceAMinute.Do(func() {
			r.logger.Warn("failed to archive rejected request", slog.Any("error", err), slog.String("response", helpers.Truncate(resp.Body, 256)))
		})
	}
}
