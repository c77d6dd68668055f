// Package main implements the claimscan CLI for running extractions locally
// without the HTTP server.
package main

import (
	"fmt"
	"os"

	"claimscan/internal/config"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "claimscan: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
