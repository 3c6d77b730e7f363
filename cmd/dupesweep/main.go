// Package main provides the dupesweep CLI entry point.
// dupesweep is a convenience wrapper around jdupes that records every
// deleted duplicate in a sidecar file next to the surviving copy.
package main

import (
	"fmt"
	"os"

	"github.com/dupesweep/dupesweep/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
