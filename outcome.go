package sensorboard

import (
	"errors"
	"time"
)

// ErrUnexpectedStatus is returned (wrapped) for a non-2xx response when
// strict status checking is enabled via [WithStrictStatus].
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Outcome classifies how a poll cycle ended.
//
// Only [OutcomeRendered] changes what the display shows. Every other outcome
// is reported and the display keeps its previous content.
type Outcome string

const (
	// OutcomeRendered means the snapshot was decoded and pushed to all sinks.
	OutcomeRendered Outcome = "rendered"

	// OutcomeTransportError means no response was received (connection
	// refused, timeout, reset).
	OutcomeTransportError Outcome = "transport_error"

	// OutcomeStatusError means a non-2xx response was rejected because
	// strict status checking is on.
	OutcomeStatusError Outcome = "status_error"

	// OutcomeDecodeError means the body was not a valid snapshot.
	OutcomeDecodeError Outcome = "decode_error"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// CycleResult describes one completed poll cycle.
//
// CycleResult is delivered to callbacks registered with [WithCycleCallback]
// after the sinks have been updated.
type CycleResult struct {
	// Cycle is the 1-based sequence number of the poll.
	Cycle uint64

	// URL is the snapshot URL that was polled.
	URL string

	// Outcome classifies the cycle.
	Outcome Outcome

	// Snapshot is the decoded snapshot. Zero unless Outcome is rendered.
	Snapshot Snapshot

	// Latency is the time taken by the HTTP request.
	Latency time.Duration

	// CheckedAt is when the response (or failure) was received.
	CheckedAt time.Time

	// StatusCode is the HTTP status code. Zero on transport failure.
	StatusCode int

	// Error is nil for rendered cycles and describes the failure otherwise.
	Error error
}
