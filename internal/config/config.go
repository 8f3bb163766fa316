// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SubscriptionID identifies the Azure subscription used for compute discovery.
	SubscriptionID string `koanf:"subscription_id"`

	// ResultCacheTTLMinutes bounds how long a computed listing or
	// recommendation stays valid.
	ResultCacheTTLMinutes int `koanf:"result_cache_ttl_minutes"`

	// ResultCacheSize caps the number of memoized result sets.
	ResultCacheSize int `koanf:"result_cache_size"`

	// PricingCacheTTLMinutes bounds how long raw retail prices stay valid.
	// Prices move slowly; the default is deliberately longer than results.
	PricingCacheTTLMinutes int `koanf:"pricing_cache_ttl_minutes"`

	// PricingCacheSize caps the number of memoized pricing pages.
	PricingCacheSize int `koanf:"pricing_cache_size"`

	// RecommendationLimit is the default top-N size for /v1/recommendations.
	RecommendationLimit int `koanf:"recommendation_limit"`

	// MaxListLimit caps GET /v1/spot-skus?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// PricingBatchSize bounds SKU names per retail-prices request to keep
	// the OData filter under URL length limits.
	PricingBatchSize int `koanf:"pricing_batch_size"`

	// ProviderRatePerSecond throttles calls to the public retail prices API.
	ProviderRatePerSecond float64 `koanf:"provider_rate_per_second"`

	// DefaultCurrency is used when a request does not name one.
	DefaultCurrency string `koanf:"default_currency"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		ResultCacheTTLMinutes:  30,
		ResultCacheSize:        128,
		PricingCacheTTLMinutes: 240,
		PricingCacheSize:       256,
		RecommendationLimit:    5,
		MaxListLimit:           1000,
		PricingBatchSize:       10,
		ProviderRatePerSecond:  5,
		DefaultCurrency:        "USD",
	}
	return c
}
