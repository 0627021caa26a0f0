// Package main is the entry point for the fence-bom CLI.
package main

import (
	"os"

	"fence-bom/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
