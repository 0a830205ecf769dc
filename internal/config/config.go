// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ServiceVersion is reported by the health endpoint.
	ServiceVersion string `koanf:"service_version"`

	// DefaultStrategy resolves requests that name no strategy, or an
	// unknown one.
	DefaultStrategy string `koanf:"default_strategy"`

	// RetrainThreshold is the mean-confidence level below which a
	// retrain is recommended.
	RetrainThreshold float64 `koanf:"retrain_threshold"`

	// RetrainMinSamples gates the retrain trigger until the confidence
	// history holds at least this many samples.
	RetrainMinSamples int `koanf:"retrain_min_samples"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		ServiceVersion:    "0.1.0",
		DefaultStrategy:   "modelo_basico",
		RetrainThreshold:  0.75,
		RetrainMinSamples: 10,
	}
}
