// Package config provides YAML configuration parsing for SensorBoard.
//
// This package enables running SensorBoard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Greenhouse
//	port: 8080
//	poll_interval: 10s
//	timezone: Europe/Moscow
//
//	source:
//	  url: ${RTHERM_URL:-http://rtherm.local/static/index.html}
//	  variant: sensors
//	  timeout: 5s
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/sensorboard"
)

const (
	// minPollInterval keeps a misconfigured board from hammering the server.
	minPollInterval = 1 * time.Second

	defaultPort         = 8080
	defaultPollInterval = 10 * time.Second
	defaultVariant      = sensorboard.VariantSensors
)

// Config is the root configuration structure for SensorBoard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the page title. Defaults to "SensorBoard" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// PollInterval is the delay between the end of one poll and the start
	// of the next. Accepts duration strings like "10s", "1m".
	// Defaults to 10s.
	PollInterval Duration `yaml:"poll_interval"`

	// StrictStatus treats non-2xx responses as failures instead of
	// decoding their bodies.
	StrictStatus bool `yaml:"strict_status"`

	// Timezone is an IANA zone name used to display sample times.
	// Defaults to the local zone.
	Timezone string `yaml:"timezone"`

	// Terminal also renders the board in the terminal when serving.
	Terminal bool `yaml:"terminal"`

	// Source is the server polled for snapshots.
	Source SourceConfig `yaml:"source"`

	location *time.Location
}

// SourceConfig defines where snapshots are fetched from.
type SourceConfig struct {
	// URL is the base URL the snapshot path is resolved against.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Variant is "channels", "sensors" or "samples". Defaults to "sensors".
	Variant string `yaml:"variant"`

	// Path overrides the variant's default snapshot path.
	Path string `yaml:"path"`

	// Timeout bounds each request. Unset means no explicit timeout.
	Timeout Duration `yaml:"timeout"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Location returns the display time zone. Nil means local time.
func (c *Config) Location() *time.Location {
	return c.location
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the source URL and path.
// Defaults are applied for Port (8080), PollInterval (10s) and the source
// variant (sensors).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(defaultPollInterval)
	}
	if cfg.Source.Variant == "" {
		cfg.Source.Variant = defaultVariant.String()
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
		c.location = loc
	}

	return c.Source.expandAndValidate()
}

func (s *SourceConfig) expandAndValidate() error {
	if s.URL == "" {
		return errors.New("source.url is required")
	}
	expanded, err := expandEnvVars(s.URL)
	if err != nil {
		return fmt.Errorf("source.url: %w", err)
	}
	s.URL = expanded

	parsedURL, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("source.url: invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return errors.New("source.url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("source.url scheme must be http or https, got %q", parsedURL.Scheme)
	}

	if _, err := sensorboard.ParseVariant(s.Variant); err != nil {
		return fmt.Errorf("source.variant: %w", err)
	}

	if s.Path != "" {
		expanded, err := expandEnvVars(s.Path)
		if err != nil {
			return fmt.Errorf("source.path: %w", err)
		}
		s.Path = expanded
	}

	if s.Timeout != 0 {
		if s.Timeout.Duration() < 0 {
			return fmt.Errorf("source.timeout cannot be negative, got %s", s.Timeout.Duration())
		}
		if s.Timeout.Duration() < 100*time.Millisecond {
			return fmt.Errorf("source.timeout must be at least 100ms if specified, got %s", s.Timeout.Duration())
		}
	}

	return nil
}
