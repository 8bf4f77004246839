package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpalmerr/sensorboard"
	"github.com/jpalmerr/sensorboard/config"
	"github.com/jpalmerr/sensorboard/internal/tui"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start polling and serve the display",
	Long: `Start polling the configured source and serve the display.

The server will:
  - Load configuration from the specified YAML file
  - Poll the source immediately, then after every poll_interval
  - Serve the live page, /api/content and /metrics on the configured port

With --terminal (or "terminal: true" in the config) the display is also drawn
in the terminal and log output moves to a pane below it. The flag is ignored
when stdout is not a terminal.

The server runs until interrupted (Ctrl+C), SIGTERM, or q in the terminal view.

Example:
  sensorboard serve -c config.yaml
  sensorboard serve --config /etc/sensorboard/config.yaml --terminal`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	serveCmd.Flags().BoolP("terminal", "t", false, "also draw the display in the terminal")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	terminal, _ := cmd.Flags().GetBool("terminal")
	terminal = terminal || cfg.Terminal

	// the board keeps this logger; only its destination moves
	logOut := newLogOutput(os.Stderr)
	logger := newLogger(logOut, slog.LevelInfo)
	if terminal && !term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Warn("terminal view disabled", "reason", "stdout is not a terminal")
		terminal = false
	}

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("failed to build source: %w", err)
	}

	var view *tui.View
	if terminal {
		title := cfg.Title
		if title == "" {
			title = "SensorBoard"
		}
		view = tui.New(title)
		logOut.Set(view.LogWriter())
		opts = append(opts, sensorboard.WithSink(sensorboard.FormatText, view))
	}
	opts = append(opts, sensorboard.WithLogger(logger))

	board, err := sensorboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create SensorBoard: %w", err)
	}

	logger.Info("config loaded",
		"url", board.Source().URL(),
		"variant", board.Source().Variant().String(),
		"terminal", terminal,
	)

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- board.Start(ctx)
	}()

	if view != nil {
		// returns when ctx ends or the user quits the view
		viewErr := view.Run(ctx)

		// the log pane is gone; shutdown logs go to stderr
		logOut.Set(os.Stderr)
		cancel()
		if viewErr != nil {
			logger.Error("terminal view failed", "error", viewErr)
		}
	}

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
