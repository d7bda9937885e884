// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeLambda runs a single wrapped function inside the AWS Lambda runtime.
	ModeLambda = "lambda"
	// ModeService serves every wrapped function over HTTP.
	ModeService = "service"
)

const (
	// SourceGenerated builds the product catalogue in memory.
	SourceGenerated = "generated"
	// SourceSSM loads the product catalogue from an SSM parameter holding JSON.
	SourceSSM = "ssm"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Codec is a struct that contains the configuration of the event validation wrapper.
	Codec codec
	// Products is a struct that contains the configuration of the product catalogue.
	Products products
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"lambda"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
	// S3 is a struct that contains the configuration for S3.
	S3 struct {
		// Upload archives every rejected request to the bucket.
		Upload struct {
			BucketName string `yaml:"bucketName,omitempty"`
			Enabled    bool   `yaml:"enabled,omitempty"`
		} `yaml:"upload,omitempty"`
	} `yaml:"s3,omitempty"`
}

type codec struct {
	// Strict rejects undeclared keys in declared event sections.
	Strict bool `yaml:"strict,omitempty" default:"true"`
	// Parser selects the body parser. Supported values are 'go-json' and 'gjson'.
	Parser string `yaml:"parser,omitempty" default:"go-json"`
}

type products struct {
	// Source is where the catalogue comes from. Supported values are 'generated' and 'ssm'.
	Source string `yaml:"source,omitempty" default:"generated"`
	// Count is the size of a generated catalogue.
	Count int `yaml:"count,omitempty" default:"40"`
	// SSMParameter names the parameter holding the JSON catalogue.
	SSMParameter string `yaml:"ssmParameter,omitempty"`
	// Encrypted requests decryption of the SSM parameter.
	Encrypted bool `yaml:"encrypted,omitempty"`
}

type service struct {
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
	// Metrics exposes Prometheus metrics on GET /metrics.
	Metrics bool `yaml:"metrics,omitempty" default:"true"`
}

type lambda struct {
	// Function is the wrapped function served by the Lambda runtime.
	Function string `yaml:"function,omitempty" default:"list-products"`
}

// SetDefaults resets the configuration to its default values.
func SetDefaults() error {
	Global, Codec, Products, Service, Lambda = global{}, codec{}, products{}, service{}, lambda{}
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Codec),
		defaults.Set(&Products),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile overlays the configuration with the content of a file. Keys absent from the file keep their
// current values, so SetDefaults must run first.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global   global   `yaml:"global,omitempty"`
		Codec    codec    `yaml:"codec,omitempty"`
		Products products `yaml:"products,omitempty"`
		Service  service  `yaml:"service,omitempty"`
		Lambda   lambda   `yaml:"lambda,omitempty"`
	}
	a := all{Global: Global, Codec: Codec, Products: Products, Service: Service, Lambda: Lambda}
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Codec = a.Codec
	Products = a.Products
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
