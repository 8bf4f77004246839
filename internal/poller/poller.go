package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Clock is the time source used between polls.
//
// Tests substitute a fake implementation to drive the loop without waiting
// on real timers.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Target is the fixed location polled on every cycle.
type Target struct {
	// URL is the fully resolved snapshot URL.
	URL string

	// Timeout is the per-request timeout. Zero leaves the request bounded
	// only by the poller's context.
	Timeout time.Duration
}

// Result is the outcome of one fetch, handed to the [Handler].
type Result struct {
	// Cycle is the 1-based sequence number of this fetch.
	Cycle uint64

	// URL is the target URL that was polled.
	URL string

	// Body contains the HTTP response body, limited to 1MB.
	Body []byte

	// StatusCode is the HTTP status code. Zero on transport failure.
	StatusCode int

	// Latency is the time taken to complete the HTTP request.
	Latency time.Duration

	// CheckedAt is when the fetch completed.
	CheckedAt time.Time

	// Error is the transport-level error, if any.
	Error error
}

// Handler consumes a [Result]. It runs on the poll goroutine and the next
// fetch is not scheduled until it returns.
type Handler func(ctx context.Context, result Result)

// Option configures a [Poller].
type Option func(*Poller)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(p *Poller) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithFetcher replaces the default HTTP [Client].
func WithFetcher(f Fetcher) Option {
	return func(p *Poller) {
		if f != nil {
			p.fetcher = f
		}
	}
}

// Poller repeatedly fetches a single [Target] and hands every result to a
// [Handler].
//
// Polls are strictly sequential: the first fetch is issued immediately, and
// each subsequent fetch is issued one interval after the previous result has
// been handled. Latency therefore pushes every later poll back; there is no
// fixed wall-clock grid and never more than one request in flight.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Poller struct {
	target   Target
	interval time.Duration
	handler  Handler
	fetcher  Fetcher
	clock    Clock
	logger   *slog.Logger
	cycles   atomic.Uint64

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a [Poller] for target that waits interval between polls.
//
// The poller must be started with [Poller.Start] and stopped with
// [Poller.Stop], or driven one cycle at a time with [Poller.Once].
func New(target Target, interval time.Duration, handler Handler, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		target:   target,
		interval: interval,
		handler:  handler,
		fetcher:  NewClient(),
		clock:    systemClock{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins the polling loop in a background goroutine.
//
// Start is non-blocking. The loop runs until [Poller.Stop] is called or ctx
// is cancelled; fetch failures and handler panics never end it.
//
// If ctx is nil, context.Background() is used. Start is idempotent, and a
// no-op after Stop.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		p.run(pollCtx)
	}()
}

// Stop halts the loop and waits for it to exit.
//
// An in-flight fetch is abandoned via context cancellation and its result is
// not handled. Stop is idempotent and safe to call before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		if p.cancel != nil {
			p.cancel()
		}
	}
	p.mu.Unlock()

	p.wg.Wait()

	if c, ok := p.fetcher.(interface{ Close() }); ok {
		c.Close()
	}
}

// Once performs a single fetch and hands the result to the handler.
//
// It returns false if ctx was cancelled before the result could be handled.
func (p *Poller) Once(ctx context.Context) bool {
	return p.poll(ctx)
}

func (p *Poller) run(ctx context.Context) {
	for {
		if !p.poll(ctx) {
			return
		}

		// the delay starts only now, after the result has been handled
		select {
		case <-ctx.Done():
			return
		case <-p.clock.After(p.interval):
		}
	}
}

// poll fetches the target and invokes the handler. Returns false when the
// context is done, in which case the result is dropped.
func (p *Poller) poll(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	resp := p.fetcher.Fetch(ctx, p.target.URL, p.target.Timeout)
	if ctx.Err() != nil {
		// shutdown, not a source failure
		return false
	}

	result := Result{
		Cycle:      p.cycles.Add(1),
		URL:        p.target.URL,
		Body:       resp.Body,
		StatusCode: resp.StatusCode,
		Latency:    resp.Latency,
		CheckedAt:  p.clock.Now(),
		Error:      resp.Error,
	}

	p.safeHandle(ctx, result)
	return true
}

// safeHandle calls the handler with panic recovery.
// A panic is logged with its stack trace and a correlation ID; the loop
// carries on with the next cycle.
func (p *Poller) safeHandle(ctx context.Context, result Result) {
	if p.handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("poll handler panic",
				"correlation_id", uuid.NewString(),
				"cycle", result.Cycle,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	p.handler(ctx, result)
}
