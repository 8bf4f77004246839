package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/sensorboard"
	"github.com/jpalmerr/sensorboard/example/mocksensors"
)

func main() {
	// start the simulated measurement server (see mocksensors)
	go func() {
		if err := http.ListenAndServe(":9999", mocksensors.New().Handler()); err != nil {
			slog.Error("mock server error", "error", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	// the page would live at /static/index.html; ../sensors resolves to /sensors
	src, err := sensorboard.NewSource("http://localhost:9999/static/index.html", sensorboard.VariantSensors,
		sensorboard.WithTimeout(2*time.Second),
	)
	if err != nil {
		slog.Error("failed to create source", "error", err)
		os.Exit(1)
	}

	board, err := sensorboard.New(
		sensorboard.WithSource(src),
		sensorboard.WithPollingInterval(3*time.Second),
		sensorboard.WithPort(8080),
		sensorboard.WithTitle("SensorBoard Demo"),
		sensorboard.WithCycleCallback(func(r sensorboard.CycleResult) {
			if r.Outcome == sensorboard.OutcomeRendered {
				slog.Info("rendered", "cycle", r.Cycle, "streams", r.Snapshot.Len())
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create sensorboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  SensorBoard Demo")
	fmt.Println()
	fmt.Println("  Open http://localhost:8080 in your browser")
	fmt.Println("  Polling", src.URL(), "every 3s")
	fmt.Println("  The door sensor reports nothing for its first few polls")
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := board.Start(ctx); err != nil {
		slog.Error("sensorboard error", "error", err)
		os.Exit(1)
	}
}
