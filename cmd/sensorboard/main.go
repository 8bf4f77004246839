// Package main is the entry point for the sensorboard CLI.
//
// SensorBoard can be embedded as a library or run as a standalone binary with
// a YAML configuration file. This CLI provides the standalone binary.
//
// Usage:
//
//	sensorboard serve -c config.yaml              # Serve the live page
//	sensorboard serve -c config.yaml --terminal   # ...and draw it in the terminal
//	sensorboard once -c config.yaml               # Poll once and print the result
//	sensorboard validate -c config.yaml           # Validate configuration
//	sensorboard version                           # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sensorboard",
	Short: "A live display for measurement streams",
	Long: `SensorBoard polls a measurement server for a JSON snapshot of its
streams and renders every stream as a block of text, on a web page that
updates live and optionally in the terminal.

Quick start:
  1. Create a config file (sensorboard.yaml)
  2. Run: sensorboard serve -c sensorboard.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  poll_interval: 10s
  source:
    url: http://rtherm.local/static/index.html
    variant: sensors`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func main() {
	Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this sensorboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sensorboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
