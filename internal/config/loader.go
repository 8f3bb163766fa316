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
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SPOTFINDER_CONFIG is set
//  3. env (prefix SPOTFINDER_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SPOTFINDER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SPOTFINDER_ADDR, SPOTFINDER_SUBSCRIPTION_ID, ...
	// Map env keys like SPOTFINDER_RESULT_CACHE_SIZE -> result_cache_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SPOTFINDER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "spotfinder_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.ResultCacheTTLMinutes <= 0 || cfg.PricingCacheTTLMinutes <= 0 {
		return nil, fmt.Errorf("%w: cache TTLs must be positive", ErrInvalidConfig)
	}
	if cfg.RecommendationLimit < 1 {
		return nil, fmt.Errorf("%w: recommendation_limit must be at least 1", ErrInvalidConfig)
	}
	return &cfg, nil
}
