package sensorboard

import (
	"errors"
	"time"
)

// sourceConfig holds mutable state during source construction.
type sourceConfig struct {
	path    string
	timeout time.Duration
}

// SourceOption configures a [Source] during construction.
//
// Options return an error if validation fails.
type SourceOption func(*sourceConfig) error

// WithPath overrides the variant's default snapshot path.
//
// The path is resolved against the base URL, so a relative path such as
// "../sensors" depends on where the base URL points while "/sensors" is
// rooted at the host.
//
// Returns an error if path is empty.
func WithPath(path string) SourceOption {
	return func(cfg *sourceConfig) error {
		if path == "" {
			return errors.New("path cannot be empty")
		}
		cfg.path = path
		return nil
	}
}

// WithTimeout bounds each snapshot request.
//
// Without it no explicit timeout is enforced and the HTTP client's defaults
// apply. A timed-out request is reported like any other transport failure and
// the next poll is scheduled as usual.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) SourceOption {
	return func(cfg *sourceConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}
