// Package sensorboard polls a JSON snapshot of named measurement streams
// from a server and keeps a display region showing a summary of the latest
// snapshot.
//
// A snapshot maps stream names to either a single sample ({time, value}) or
// a summary of retained history ({last, min, max, mean}), depending on the
// deployment [Variant]. Every poll replaces the display wholesale; a failed
// poll leaves it showing the previous snapshot.
//
// # Quick Start
//
//	src, _ := sensorboard.NewSource("http://rtherm.local/static/index.html", sensorboard.VariantChannels)
//	b, _ := sensorboard.New(sensorboard.WithSource(src))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	b.Start(ctx) // blocks until ctx is cancelled
//
// # Polling
//
// The first fetch is issued immediately. After every fetch, successful or
// not, the board waits a fixed interval (10 seconds by default) before the
// next one. There is never more than one request in flight and no backoff.
//
// # Display regions
//
// The built-in page at http://localhost:<port> receives HTML over
// Server-Sent Events. Further regions implement [Sink] and are registered
// with [WithSink] in either [FormatHTML] or [FormatText]:
//
//	b, err := sensorboard.New(
//	    sensorboard.WithSource(src),
//	    sensorboard.WithSink(sensorboard.FormatText, sensorboard.NewWriterSink(os.Stdout)),
//	)
//
// # Architecture
//
//   - internal/poller: sequential fetch loop with injectable clock and fetcher
//   - internal/store: display region backing the web page, with pub/sub
//   - internal/server: HTTP server with SSE, content API and metrics
//   - internal/tui: terminal display region
//   - internal/metrics: Prometheus collectors
//   - dashboard: embedded page assets
package sensorboard
