package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MODELGATE_CONFIG is set
//  3. env (prefix MODELGATE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("MODELGATE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: MODELGATE_ADDR, MODELGATE_RETRAIN_THRESHOLD, ...
	// Map env keys like MODELGATE_LOG_LEVEL -> log_level (flat keys);
	// underscores are preserved to match the koanf struct tags.
	envProvider := env.Provider("MODELGATE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "modelgate_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.RetrainThreshold <= 0 || cfg.RetrainThreshold > 1 {
		return nil, fmt.Errorf("%w: retrain_threshold must be in (0,1]", ErrInvalidConfig)
	}
	if cfg.RetrainMinSamples < 1 {
		return nil, fmt.Errorf("%w: retrain_min_samples must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
