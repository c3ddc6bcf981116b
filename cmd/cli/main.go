// Package main is the entry point for the pricing CLI.
package main

import (
	"os"

	"creative-pricing/cmd/cli/cmd"
	"creative-pricing/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
