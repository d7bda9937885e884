// Package main provides the entrypoint for codec-handler.
package main

import (
	"os"

	"github.com/isometry/codec-handler/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
