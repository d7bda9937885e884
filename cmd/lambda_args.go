package cmd

import (
	"github.com/isometry/codec-handler/internal/config"
	"github.com/isometry/codec-handler/internal/helpers"
)

var lambdaEnvMapString = map[*string]boundEnvVar[string]{
	&config.Lambda.Function: {
		Name:        "lambda-function",
		Description: "The wrapped function served in Lambda mode. Supported values are 'list-products' and 'get-product'",
		Short:       helpers.Ptr("f"),
	},
}
