package main

import (
	"github.com/spf13/cobra"

	"hellod/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "hellod",
	Short: "hellod - a minimal HTTP greeting service",
	Long: `hellod serves a single greeting endpoint (GET /hello) over HTTP,
with request logging, a terminal error handler, health and metrics
endpoints, and environment-driven configuration.

Running hellod with no subcommand starts the server.`,
	Version: version.Version,
	// Bare invocation serves; "hellod serve" does the same explicitly.
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate("hellod version {{.Version}}\n")
}
