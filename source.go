package sensorboard

import (
	"errors"
	"net/url"
	"time"
)

// Source is the server location polled for snapshots.
//
// Source is immutable after creation via [NewSource]. The snapshot URL is the
// variant's path (or the one set by [WithPath]) resolved against the base URL
// per RFC 3986, so "../info" and "/sensors" land in different places for the
// same base.
type Source struct {
	baseURL string
	variant Variant
	path    string
	url     string
	timeout time.Duration
}

// BaseURL returns the URL the snapshot path is resolved against.
func (s Source) BaseURL() string {
	return s.baseURL
}

// Variant returns the deployment variant.
func (s Source) Variant() Variant {
	return s.variant
}

// Path returns the snapshot path before resolution.
func (s Source) Path() string {
	return s.path
}

// URL returns the fully resolved snapshot URL.
func (s Source) URL() string {
	return s.url
}

// Timeout returns the per-request timeout. Zero means the HTTP client's
// default behaviour applies.
func (s Source) Timeout() time.Duration {
	return s.timeout
}

// NewSource creates a [Source] for the given base URL and variant.
//
// The base URL must be absolute with an http or https scheme. Typically it is
// the address of the page that would host the display, for example
// "http://rtherm.local/static/index.html".
//
// Example:
//
//	src, err := sensorboard.NewSource("http://rtherm.local/static/", sensorboard.VariantSensors,
//	    sensorboard.WithTimeout(5 * time.Second),
//	)
func NewSource(baseURL string, variant Variant, opts ...SourceOption) (Source, error) {
	if baseURL == "" {
		return Source{}, errors.New("source URL cannot be empty")
	}
	if !variant.Valid() {
		_, err := ParseVariant(string(variant))
		return Source{}, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return Source{}, errors.New("invalid URL: " + err.Error())
	}
	if base.Scheme == "" {
		return Source{}, errors.New("URL must have a scheme (http:// or https://)")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return Source{}, errors.New("URL scheme must be http or https, got " + base.Scheme)
	}

	cfg := &sourceConfig{
		path: variant.DefaultPath(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Source{}, err
		}
	}

	ref, err := url.Parse(cfg.path)
	if err != nil {
		return Source{}, errors.New("invalid path: " + err.Error())
	}

	return Source{
		baseURL: baseURL,
		variant: variant,
		path:    cfg.path,
		url:     base.ResolveReference(ref).String(),
		timeout: cfg.timeout,
	}, nil
}
