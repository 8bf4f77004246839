package sensorboard

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jpalmerr/sensorboard/internal/poller"
)

// boardConfig holds mutable state during Board construction.
type boardConfig struct {
	title           string
	source          *Source
	pollingInterval time.Duration
	port            int
	serve           bool
	strictStatus    bool
	location        *time.Location
	logger          *slog.Logger
	sinks           []sinkBinding
	cycleCallbacks  []func(CycleResult)
	pollerOpts      []poller.Option
}

// Option is a function that configures a [Board] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*boardConfig) error

// WithSource sets the server location to poll. Required.
//
// Example:
//
//	src, _ := sensorboard.NewSource("http://rtherm.local/static/", sensorboard.VariantChannels)
//	b, err := sensorboard.New(sensorboard.WithSource(src))
func WithSource(s Source) Option {
	return func(cfg *boardConfig) error {
		if s.url == "" {
			return errors.New("source must be created with NewSource")
		}
		cfg.source = &s
		return nil
	}
}

// WithPollingInterval sets the fixed delay between the end of one poll and
// the start of the next.
//
// Defaults to 10 seconds. The delay is the same after failures; there is no
// backoff.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *boardConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the display page.
//
// The page and API will be available at http://localhost:<port>.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *boardConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithoutServer disables the built-in display page. Rendered content then
// goes only to sinks registered with [WithSink].
func WithoutServer() Option {
	return func(cfg *boardConfig) error {
		cfg.serve = false
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Board instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *boardConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithSink registers an additional display region fed with content in the
// given format.
//
// Every rendered cycle replaces the sink's whole content. Sinks are called in
// registration order, after the built-in page region.
//
// Example:
//
//	b, err := sensorboard.New(
//	    sensorboard.WithSource(src),
//	    sensorboard.WithSink(sensorboard.FormatText, sensorboard.NewWriterSink(os.Stdout)),
//	)
//
// Returns an error if the sink is nil or the format unknown.
func WithSink(format Format, sink Sink) Option {
	return func(cfg *boardConfig) error {
		if sink == nil {
			return errors.New("sink cannot be nil")
		}
		if format != FormatHTML && format != FormatText {
			return errors.New("unknown sink format")
		}
		cfg.sinks = append(cfg.sinks, sinkBinding{format: format, sink: sink})
		return nil
	}
}

// WithCycleCallback registers a function to be called after every poll cycle,
// whatever its outcome.
//
// Callbacks run synchronously on the polling goroutine after sinks are
// updated, so a slow callback delays the next poll. Panics are recovered and
// logged. Nil callbacks are silently ignored.
func WithCycleCallback(cb func(CycleResult)) Option {
	return func(cfg *boardConfig) error {
		if cb == nil {
			return nil
		}
		cfg.cycleCallbacks = append(cfg.cycleCallbacks, cb)
		return nil
	}
}

// WithStrictStatus treats non-2xx responses as failures.
//
// By default any completed response is decoded as a snapshot and a non-2xx
// status is only logged.
func WithStrictStatus() Option {
	return func(cfg *boardConfig) error {
		cfg.strictStatus = true
		return nil
	}
}

// WithLocation sets the time zone used to display sample times.
// Defaults to the local time zone.
//
// Returns an error if loc is nil.
func WithLocation(loc *time.Location) Option {
	return func(cfg *boardConfig) error {
		if loc == nil {
			return errors.New("location cannot be nil")
		}
		cfg.location = loc
		return nil
	}
}

// WithTitle sets the page title displayed in the browser tab and header.
//
// If not specified, defaults to "SensorBoard".
func WithTitle(title string) Option {
	return func(cfg *boardConfig) error {
		cfg.title = title
		return nil
	}
}

// withPollerOptions injects poller test doubles (clock, fetcher).
func withPollerOptions(opts ...poller.Option) Option {
	return func(cfg *boardConfig) error {
		cfg.pollerOpts = append(cfg.pollerOpts, opts...)
		return nil
	}
}
