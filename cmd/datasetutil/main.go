// Package main provides the datasetutil CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/datasetutil/datasetutil/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitFailure)
	}
}
