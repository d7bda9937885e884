package products

import (
	"context"
	"log/slog"

	"github.com/isometry/codec-handler/internal/helpers"
	"github.com/isometry/codec-handler/pkg/codec"
	"github.com/isometry/codec-handler/pkg/handler"
)

const (
	// FunctionListProducts names the paginated listing function.
	FunctionListProducts = "list-products"
	// FunctionGetProduct names the single product lookup function.
	FunctionGetProduct = "get-product"

	defaultPageSize   float64 = 10
	defaultPageNumber float64 = 0
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger of the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithWrapper sets the wrapper used to validate events and build responses.
func WithWrapper(w *handler.Wrapper) Option {
	return func(s *Service) {
		s.wrapper = w
	}
}

// Service exposes the catalogue through wrapped handlers.
type Service struct {
	catalogue *Catalogue
	wrapper   *handler.Wrapper
	logger    *slog.Logger
}

// NewService creates a Service. Without WithWrapper, events are validated in strict mode.
func NewService(catalogue *Catalogue, opts ...Option) *Service {
	_inst := &Service{catalogue: catalogue}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.wrapper == nil {
		_inst.wrapper = handler.Configure(
			handler.WithStrict(true),
			handler.WithLogger(_inst.logger))
	}
	return _inst
}

type listProductsRequest struct {
	Query struct {
		PageNumber *float64 `json:"pageNumber"`
		PageSize   *float64 `json:"pageSize"`
	} `json:"queryStringParameters"`
}

// ListProducts returns one page of the catalogue. The page size defaults to 10 and the page number to 0.
func (s *Service) ListProducts() *handler.Handler {
	return s.wrapper.Wrap(handler.EventMap{
		QueryStringParameters: codec.Partial(
			codec.P("pageNumber", codec.NumberFromString),
			codec.P("pageSize", codec.NumberFromString),
		),
	}, handler.Typed(func(_ context.Context, in listProductsRequest) (any, error) {
		pageNumber := helpers.Deref(in.Query.PageNumber, defaultPageNumber)
		pageSize := helpers.Deref(in.Query.PageSize, defaultPageSize)
		s.logger.Debug("listing products", slog.Float64("pageNumber", pageNumber), slog.Float64("pageSize", pageSize))
		return s.catalogue.Page(pageNumber, pageSize), nil
	}))
}

type getProductRequest struct {
	Path struct {
		ID int `json:"id"`
	} `json:"pathParameters"`
}

// GetProduct returns a single product. The id must be an integer string, so a fractional id such as "1.5"
// is rejected with 400. An unknown id is an unhandled error.
func (s *Service) GetProduct() *handler.Handler {
	return s.wrapper.Wrap(handler.EventMap{
		PathParameters: codec.Object(codec.P("id", codec.IntFromString)),
	}, handler.Typed(func(_ context.Context, in getProductRequest) (any, error) {
		return s.catalogue.Get(in.Path.ID)
	}))
}

// Functions returns every wrapped handler by function name.
func (s *Service) Functions() map[string]*handler.Handler {
	return map[string]*handler.Handler{
		FunctionListProducts: s.ListProducts(),
		FunctionGetProduct:   s.GetProduct(),
	}
}

// Route binds a wrapped handler to an HTTP method and an API Gateway resource path.
type Route struct {
	Method   string
	Resource string
	Handler  *handler.Handler
}

// Routes returns the HTTP routes of the service.
func (s *Service) Routes() []Route {
	return []Route{
		{Method: "GET", Resource: "/products", Handler: s.ListProducts()},
		{Method: "GET", Resource: "/products/{id}", Handler: s.GetProduct()},
	}
}
