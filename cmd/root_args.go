package cmd

import (
	"github.com/isometry/codec-handler/internal/config"
	"github.com/isometry/codec-handler/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.Codec.Parser: {
		Name:        "codec-parser",
		Description: "The JSON parser used for request bodies. Supported values are 'go-json' and 'gjson'",
	},
	&config.Products.Source: {
		Name:        "products-source",
		Description: "Where the product catalogue comes from. Supported values are 'generated' and 'ssm'",
	},
	&config.Products.SSMParameter: {
		Name:        "products-ssm-parameter",
		Description: "The SSM parameter holding the JSON product catalogue",
		Env:         helpers.Ptr("PRODUCTS_SSM_PARAMETER"),
	},
	&config.Global.S3.Upload.BucketName: {
		Name:        "rejected-requests-s3-upload-bucket",
		Description: "The S3 bucket to use when archiving rejected requests",
		Env:         helpers.Ptr("REJECTED_REQUESTS_S3_BUCKET"),
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Codec.Strict: {
		Name:        "codec-strict",
		Description: "Reject undeclared keys in validated request sections",
	},
	&config.Products.Encrypted: {
		Name:        "products-ssm-parameter-encrypted",
		Description: "Decrypt the product catalogue SSM parameter",
	},
	&config.Global.S3.Upload.Enabled: {
		Name:        "rejected-requests-s3-upload",
		Description: "Enable S3 archiving of rejected requests",
		Env:         helpers.Ptr("REJECTED_REQUESTS_S3_UPLOAD"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
		Counter:     true,
	},
}

var envMapInt = map[*int]boundEnvVar[int]{
	&config.Products.Count: {
		Name:        "products-count",
		Description: "The number of products in a generated catalogue",
	},
}
