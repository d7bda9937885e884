package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/isometry/codec-handler/internal/config"
	"github.com/isometry/codec-handler/internal/controllers/aws"
	"github.com/isometry/codec-handler/internal/products"
	"github.com/isometry/codec-handler/internal/runtime"
	"github.com/isometry/codec-handler/pkg/handler"
	"github.com/isometry/codec-handler/pkg/parser"
)

// awsController is the subset of the AWS controller used while wiring the runtime.
type awsController interface {
	products.ParameterStore
	runtime.Uploader
}

var newAWSController = func(ctx context.Context, logger *slog.Logger) (awsController, error) {
	return aws.NewController(
		aws.WithContext(ctx),
		aws.WithLogger(logger))
}

func parserFor(name string) (parser.Parser, error) {
	switch name {
	case "", "go-json":
		return parser.GoJSON(), nil
	case "gjson":
		return parser.GJSON(), nil
	default:
		return nil, fmt.Errorf("unsupported parser: %s", name)
	}
}

func loadCatalogue(ctx context.Context, store products.ParameterStore) (*products.Catalogue, error) {
	switch config.Products.Source {
	case config.SourceGenerated:
		return products.Generate(config.Products.Count), nil
	case config.SourceSSM:
		if config.Products.SSMParameter == "" {
			return nil, errors.New("products source is ssm but no parameter is configured")
		}
		return products.Load(ctx, store, config.Products.SSMParameter, config.Products.Encrypted)
	default:
		return nil, fmt.Errorf("unsupported products source: %s", config.Products.Source)
	}
}

// setup wires the configuration into a runtime serving every product route. function selects the handler
// invoked by the Lambda runtime and may be empty in service mode.
func setup(ctx context.Context, logger *slog.Logger, function string, extra ...runtime.Option) (*runtime.Runtime, error) {
	p, err := parserFor(config.Codec.Parser)
	if err != nil {
		return nil, err
	}

	var controller awsController
	if config.Global.S3.Upload.Enabled || config.Products.Source == config.SourceSSM {
		logger.Debug("creating AWS controller...")
		if controller, err = newAWSController(ctx, logger.With("component", "aws")); err != nil {
			return nil, errors.Wrap(err, "failed to create AWS controller")
		}
	}

	logger.Debug("loading product catalogue...", slog.String("source", config.Products.Source))
	catalogue, err := loadCatalogue(ctx, controller)
	if err != nil {
		return nil, err
	}

	wrapper := handler.Configure(
		handler.WithConfig(handler.Config{Strict: config.Codec.Strict}),
		handler.WithParser(p),
		handler.WithLogger(logger.With("component", "handler")))
	svc := products.NewService(catalogue,
		products.WithWrapper(wrapper),
		products.WithLogger(logger.With("component", "products")))

	var routes []runtime.Route
	for _, r := range svc.Routes() {
		routes = append(routes, runtime.Route{Method: r.Method, Resource: r.Resource, Handler: r.Handler})
	}
	opts := []runtime.Option{
		runtime.WithRoutes(routes...),
		runtime.WithLogger(logger.With("component", "runtime")),
	}
	if function != "" {
		h, ok := svc.Functions()[function]
		if !ok {
			return nil, fmt.Errorf("unknown function: %s", function)
		}
		opts = append(opts, runtime.WithHandler(h))
	}
	if config.Global.S3.Upload.Enabled {
		if config.Global.S3.Upload.BucketName == "" {
			return nil, errors.New("S3 upload is enabled but no bucket is configured")
		}
		opts = append(opts, runtime.WithS3Upload(controller, config.Global.S3.Upload.BucketName))
	}

	logger.Debug("creating runtime...")
	return runtime.NewRuntime(append(opts, extra...)...), nil
}
