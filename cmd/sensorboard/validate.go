package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/sensorboard/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a SensorBoard configuration file without polling or serving.

This command parses the YAML, expands environment variables, validates all
fields and resolves the snapshot URL. It's useful for CI/CD pipelines or
pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  sensorboard validate -c config.yaml
  sensorboard validate --config /etc/sensorboard/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	src, err := config.BuildSource(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	timezone := cfg.Timezone
	if timezone == "" {
		timezone = "local"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:          %d\n", cfg.Port)
	fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Fprintf(out, "  Variant:       %s\n", src.Variant())
	fmt.Fprintf(out, "  Snapshot URL:  %s\n", src.URL())
	fmt.Fprintf(out, "  Timezone:      %s\n", timezone)

	return nil
}
