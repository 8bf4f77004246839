package config

import (
	"github.com/jpalmerr/sensorboard"
)

// BuildSource converts the parsed source section into an SDK [sensorboard.Source].
func BuildSource(cfg *Config) (sensorboard.Source, error) {
	variant, err := sensorboard.ParseVariant(cfg.Source.Variant)
	if err != nil {
		return sensorboard.Source{}, err
	}

	var opts []sensorboard.SourceOption
	if cfg.Source.Path != "" {
		opts = append(opts, sensorboard.WithPath(cfg.Source.Path))
	}
	if cfg.Source.Timeout != 0 {
		opts = append(opts, sensorboard.WithTimeout(cfg.Source.Timeout.Duration()))
	}

	return sensorboard.NewSource(cfg.Source.URL, variant, opts...)
}

// BuildOptions converts parsed configuration into SDK options for
// [sensorboard.New], including the source.
//
// Callers append their own options (logger, sinks) to the result.
func BuildOptions(cfg *Config) ([]sensorboard.Option, error) {
	src, err := BuildSource(cfg)
	if err != nil {
		return nil, err
	}

	opts := []sensorboard.Option{
		sensorboard.WithSource(src),
		sensorboard.WithPort(cfg.Port),
		sensorboard.WithPollingInterval(cfg.PollInterval.Duration()),
	}

	if cfg.Title != "" {
		opts = append(opts, sensorboard.WithTitle(cfg.Title))
	}
	if cfg.StrictStatus {
		opts = append(opts, sensorboard.WithStrictStatus())
	}
	if loc := cfg.Location(); loc != nil {
		opts = append(opts, sensorboard.WithLocation(loc))
	}

	return opts, nil
}
