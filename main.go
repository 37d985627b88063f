// Package main provides the entrypoint for eln-packager-app.
package main

import (
	"os"

	"github.com/elnpack/eln-packager-app/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
