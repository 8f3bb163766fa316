package service

import (
	"time"

	"github.com/okian/spotfinder/internal/adapters/cache"
	"github.com/okian/spotfinder/internal/domain/dedupe"
	"github.com/okian/spotfinder/internal/domain/normalize"
	"github.com/okian/spotfinder/internal/domain/scoring"
	"github.com/okian/spotfinder/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithComputeSource sets the compute discovery collaborator.
func WithComputeSource(src ComputeSource) Option {
	return func(s *Service) {
		if src != nil {
			s.compute = src
		}
	}
}

// WithPriceSource sets the pricing collaborator.
func WithPriceSource(src PriceSource) Option {
	return func(s *Service) {
		if src != nil {
			s.prices = src
		}
	}
}

// WithEvictionSource sets the eviction-rate collaborator.
func WithEvictionSource(src EvictionSource) Option {
	return func(s *Service) {
		if src != nil {
			s.eviction = src
		}
	}
}

// WithNormalizer overrides the capability normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithMerger overrides the deduplicating merger.
func WithMerger(m dedupe.Merger) Option {
	return func(s *Service) {
		if m != nil {
			s.merger = m
		}
	}
}

// WithRanker overrides the recommendation ranker.
func WithRanker(r scoring.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithResultCache injects the result memoization store.
func WithResultCache(c cache.Store) Option {
	return func(s *Service) {
		if c != nil {
			s.results = c
		}
	}
}

// WithUpstreamCache injects the provider-data memoization store.
func WithUpstreamCache(c cache.Store) Option {
	return func(s *Service) {
		if c != nil {
			s.upstream = c
		}
	}
}

// WithResultTTL sets how long computed results stay valid.
func WithResultTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.resultTTL = ttl
		}
	}
}

// WithUpstreamTTL sets how long raw pricing data stays valid.
func WithUpstreamTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.upstreamTTL = ttl
		}
	}
}

// WithDefaultCurrency sets the currency used when a request names none.
func WithDefaultCurrency(code string) Option {
	return func(s *Service) {
		if code != "" {
			s.currency = code
		}
	}
}

// WithTopN sets the default recommendation list size.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
