// Package main provides the leapmt command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/leapmt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
