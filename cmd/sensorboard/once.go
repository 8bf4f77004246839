package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/sensorboard"
	"github.com/jpalmerr/sensorboard/config"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Poll the source once and print the display",
	Long: `Poll the configured source exactly once and print the rendered display
to stdout. No server is started.

Exit codes:
  0 - The snapshot was fetched, decoded and printed
  1 - The fetch or decode failed (details printed to stderr)

Example:
  sensorboard once -c config.yaml
  sensorboard once -c config.yaml --format html > sensors.html`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)

	onceCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	onceCmd.Flags().StringP("format", "f", "text", "output format: text or html")
	_ = onceCmd.MarkFlagRequired("config")
}

func runOnce(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := sensorboard.ParseFormat(formatName)
	if err != nil {
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("failed to build source: %w", err)
	}

	out := sensorboard.NewWriterSink(cmd.OutOrStdout())
	opts = append(opts,
		sensorboard.WithoutServer(),
		sensorboard.WithSink(format, out),
		sensorboard.WithLogger(newLogger(cmd.ErrOrStderr(), slog.LevelWarn)),
	)

	board, err := sensorboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create SensorBoard: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := board.Poll(ctx)
	if err != nil {
		if result.Outcome == "" {
			return err
		}
		return fmt.Errorf("poll %s failed (%s): %w", result.URL, result.Outcome, err)
	}
	if err := out.Err(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
