// Package metrics exposes Prometheus collectors for the poll loop.
//
// Collectors are registered on the default registry by [Init], which every
// Board constructor calls. The Observe helpers are no-ops until then.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "sensorboard_"

type collectors struct {
	pollsTotal      *prometheus.CounterVec
	pollLatency     *prometheus.HistogramVec
	streamsRendered prometheus.Gauge
	lastRendered    prometheus.Gauge
}

var (
	registerOnce sync.Once

	// nil until Init; read by the Observe helpers from any goroutine
	active atomic.Pointer[collectors]
)

// Init registers the poll collectors. Safe to call more than once and
// concurrently with the Observe helpers.
func Init() {
	registerOnce.Do(func() {
		c := &collectors{
			pollsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: metricPrefix + "polls_total",
					Help: "Total poll cycles by outcome",
				},
				[]string{"outcome"},
			),
			pollLatency: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    metricPrefix + "poll_latency_seconds",
					Help:    "Snapshot request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"outcome"},
			),
			streamsRendered: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: metricPrefix + "streams",
					Help: "Number of streams in the last rendered snapshot",
				},
			),
			lastRendered: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: metricPrefix + "last_rendered_timestamp_seconds",
					Help: "Unix time of the last successfully rendered snapshot",
				},
			),
		}

		prometheus.MustRegister(c.pollsTotal, c.pollLatency, c.streamsRendered, c.lastRendered)
		active.Store(c)
	})
}

// ObservePoll records one poll cycle.
func ObservePoll(outcome string, latency time.Duration) {
	c := active.Load()
	if c == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	c.pollsTotal.WithLabelValues(outcome).Inc()
	c.pollLatency.WithLabelValues(outcome).Observe(latency.Seconds())
}

// ObserveRendered records a successfully rendered snapshot.
func ObserveRendered(streams int, at time.Time) {
	c := active.Load()
	if c == nil {
		return
	}
	c.streamsRendered.Set(float64(streams))
	c.lastRendered.Set(float64(at.Unix()))
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
