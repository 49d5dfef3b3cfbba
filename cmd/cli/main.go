// Package main is the entry point for the osuka CLI.
// The CLI is the terminal tool for launching and watching discovery runs.
package main

import (
	"os"

	"github.com/IM-IMPOWER/OSUKA-foresight/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
