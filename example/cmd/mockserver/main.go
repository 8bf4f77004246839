// Standalone mock measurement server for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/sensorboard serve -c example/config.yaml --terminal
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jpalmerr/sensorboard/example/mocksensors"
)

func main() {
	fmt.Println("Mock measurement server starting on :9999")
	fmt.Println("Routes: /info (channels), /sensors (summaries), /latest (samples)")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if err := http.ListenAndServe(":9999", mocksensors.New().Handler()); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
