package sensorboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/sensorboard/dashboard"
	"github.com/jpalmerr/sensorboard/internal/metrics"
	"github.com/jpalmerr/sensorboard/internal/poller"
	"github.com/jpalmerr/sensorboard/internal/server"
	"github.com/jpalmerr/sensorboard/internal/store"
)

const (
	defaultPollingInterval = 10 * time.Second
	defaultPort            = 8080
	defaultTitle           = "SensorBoard"
)

// Board polls one snapshot source and keeps every display region showing the
// latest rendered snapshot.
//
// Board is created using [New] with functional options and started with
// [Board.Start]:
//
//	src, err := sensorboard.NewSource("http://rtherm.local/static/", sensorboard.VariantSensors)
//	if err != nil {
//	    slog.Error("invalid source", "error", err)
//	    os.Exit(1)
//	}
//
//	b, err := sensorboard.New(sensorboard.WithSource(src))
//	if err != nil {
//	    slog.Error("failed to create board", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	b.Start(ctx) // blocks until context cancelled
//
// Each cycle fetches the source, decodes the snapshot, renders it and
// replaces the content of every sink. A failed cycle is logged and counted;
// the sinks keep their previous content and the next fetch is issued after
// the usual interval.
type Board struct {
	title           string
	source          Source
	pollingInterval time.Duration
	port            int
	serve           bool
	strictStatus    bool
	logger          *slog.Logger
	renderer        Renderer
	display         *store.Display
	sinks           []sinkBinding
	cycleCallbacks  []func(CycleResult)
	pollerOpts      []poller.Option
}

// New creates a new [Board] with the given options.
//
// A source must be configured via [WithSource]. Other options have defaults:
//   - Polling interval: 10 seconds
//   - Port: 8080
//   - Title: "SensorBoard"
//   - Location: local time
//
// Returns an error if no source is configured or if any option is invalid.
func New(opts ...Option) (*Board, error) {
	cfg := &boardConfig{
		pollingInterval: defaultPollingInterval,
		port:            defaultPort,
		serve:           true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.source == nil {
		return nil, errors.New("a source is required")
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	if !cfg.serve && len(cfg.sinks) == 0 && len(cfg.cycleCallbacks) == 0 {
		return nil, errors.New("nothing to display: server disabled and no sinks or callbacks registered")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	title := cfg.title
	if title == "" {
		title = defaultTitle
	}

	b := &Board{
		title:           title,
		source:          *cfg.source,
		pollingInterval: cfg.pollingInterval,
		port:            cfg.port,
		serve:           cfg.serve,
		strictStatus:    cfg.strictStatus,
		logger:          logger,
		renderer:        NewRenderer(cfg.source.Variant(), cfg.location),
		sinks:           cfg.sinks,
		cycleCallbacks:  cfg.cycleCallbacks,
		pollerOpts:      cfg.pollerOpts,
	}
	if b.serve {
		b.display = store.NewDisplay()
	}

	// Poll records metrics too, without Start
	metrics.Init()
	return b, nil
}

// Start begins polling and, unless [WithoutServer] was given, serving the
// display page.
//
// Start is a blocking call that runs until the provided context is cancelled.
// The first fetch is issued immediately. The page is available at
// http://localhost:<port>, the current frame at /api/content and Prometheus
// metrics at /metrics.
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start.
func (b *Board) Start(ctx context.Context) error {
	b.logger.Info("sensorboard starting",
		"url", b.source.URL(),
		"variant", b.source.Variant().String(),
	)
	b.logger.Info("polling configured", "interval", b.pollingInterval.String())

	if ctx.Err() != nil {
		return nil
	}

	metrics.Init()

	if b.serve {
		page := server.Page{
			Title:     b.title,
			Container: b.source.Variant().Container(),
		}
		httpServer := server.NewServer(b.display, b.port, dashboard.Assets, page, b.logger)
		if err := httpServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		b.logger.Info("display available", "url", fmt.Sprintf("http://localhost:%d", b.port))
	}

	p := b.newPoller(func(_ context.Context, r poller.Result) {
		b.process(r)
	})
	p.Start(ctx)

	<-ctx.Done()
	p.Stop()
	b.logger.Info("sensorboard stopped")
	return nil
}

// Poll runs exactly one cycle: fetch, decode, render and update the sinks.
//
// The returned error is the cycle's failure, if any; it matches
// [ErrInvalidSnapshot] or [ErrUnexpectedStatus] via errors.Is where
// applicable. If ctx ends before the response is handled, Poll returns
// ctx.Err() and no sink is touched.
func (b *Board) Poll(ctx context.Context) (CycleResult, error) {
	var (
		result  CycleResult
		handled bool
	)
	p := b.newPoller(func(_ context.Context, r poller.Result) {
		result = b.process(r)
		handled = true
	})
	defer p.Stop()

	if !p.Once(ctx) || !handled {
		if err := ctx.Err(); err != nil {
			return CycleResult{}, err
		}
		return CycleResult{}, errors.New("poll cycle was not handled")
	}
	return result, result.Error
}

func (b *Board) newPoller(handler poller.Handler) *poller.Poller {
	target := poller.Target{
		URL:     b.source.URL(),
		Timeout: b.source.Timeout(),
	}
	return poller.New(target, b.pollingInterval, handler, b.logger, b.pollerOpts...)
}

// process turns one fetch into a cycle result, updating sinks on success.
func (b *Board) process(r poller.Result) CycleResult {
	cr := CycleResult{
		Cycle:      r.Cycle,
		URL:        r.URL,
		Latency:    r.Latency,
		CheckedAt:  r.CheckedAt,
		StatusCode: r.StatusCode,
	}

	ok2xx := r.StatusCode >= 200 && r.StatusCode < 300

	switch {
	case r.Error != nil:
		cr.Outcome = OutcomeTransportError
		cr.Error = r.Error

	case !ok2xx && b.strictStatus:
		cr.Outcome = OutcomeStatusError
		cr.Error = fmt.Errorf("%w: %d", ErrUnexpectedStatus, r.StatusCode)

	default:
		if !ok2xx {
			b.logger.Warn("non-2xx response treated as snapshot",
				"url", r.URL,
				"status_code", r.StatusCode,
			)
		}
		snap, err := DecodeSnapshot(r.Body, b.source.Variant().Shape())
		if err != nil {
			cr.Outcome = OutcomeDecodeError
			cr.Error = err
			break
		}
		b.publish(snap)
		metrics.ObserveRendered(snap.Len(), cr.CheckedAt)
		cr.Outcome = OutcomeRendered
		cr.Snapshot = snap
	}

	metrics.ObservePoll(cr.Outcome.String(), cr.Latency)

	logAttrs := []any{
		"cycle", cr.Cycle,
		"outcome", cr.Outcome.String(),
		"url", cr.URL,
		"status_code", cr.StatusCode,
		"latency_ms", cr.Latency.Milliseconds(),
	}
	if cr.Error != nil {
		b.logger.Warn("poll failed", append(logAttrs, "error", cr.Error.Error())...)
	} else {
		b.logger.Debug("poll completed", append(logAttrs, "streams", cr.Snapshot.Len())...)
	}

	for _, cb := range b.cycleCallbacks {
		invokeCallbackSafe(cb, cr, b.logger)
	}

	return cr
}

// publish renders the snapshot once per format in use and replaces the
// content of every sink.
func (b *Board) publish(s Snapshot) {
	rendered := make(map[Format]string, 2)
	render := func(f Format) string {
		out, ok := rendered[f]
		if !ok {
			out = b.renderer.Render(s, f)
			rendered[f] = out
		}
		return out
	}

	if b.display != nil {
		b.display.SetContent(render(FormatHTML))
	}
	for _, sb := range b.sinks {
		sb.sink.SetContent(render(sb.format))
	}
}

// Source returns the configured source.
func (b *Board) Source() Source {
	return b.source
}

// Port returns the configured HTTP port for the display page.
func (b *Board) Port() int {
	return b.port
}

// PollingInterval returns the configured delay between polls.
func (b *Board) PollingInterval() time.Duration {
	return b.pollingInterval
}

// Title returns the page title.
func (b *Board) Title() string {
	return b.title
}

// invokeCallbackSafe calls a cycle callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(CycleResult), result CycleResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("cycle callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"cycle", result.Cycle,
			)
		}
	}()
	cb(result)
}
