// Package service provides the core aggregation pipeline that backs
// the HTTP API: discover, normalize, dedupe, enrich, filter, score.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/spotfinder/internal/adapters/cache"
	"github.com/okian/spotfinder/internal/domain/dedupe"
	"github.com/okian/spotfinder/internal/domain/filter"
	"github.com/okian/spotfinder/internal/domain/model"
	"github.com/okian/spotfinder/internal/domain/normalize"
	"github.com/okian/spotfinder/internal/domain/scoring"
	"github.com/okian/spotfinder/pkg/logger"
	"github.com/okian/spotfinder/pkg/metrics"
)

// Collaborator contracts consumed by the pipeline. All are read-only
// and side-effect free on shared state, so independent calls may run
// concurrently.
type (
	// ComputeSource produces raw per-zone capability sightings for a
	// region: finite, one pass per call.
	ComputeSource interface {
		Sightings(ctx context.Context, region string) ([]model.RawSku, error)
	}

	// PriceSource maps SKU names to hourly spot prices; partial maps
	// are valid (missing entries mean no retail price, not an error).
	PriceSource interface {
		SpotPrices(ctx context.Context, region string, names []string, currency string) (map[string]float64, error)
	}

	// EvictionSource maps SKU names to eviction buckets; partial.
	EvictionSource interface {
		Rates(ctx context.Context, region string, names []string) (map[string]model.EvictionBucket, error)
	}
)

// Service implements the API dependencies for spot SKU discovery.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	compute  ComputeSource
	prices   PriceSource
	eviction EvictionSource

	// Pipeline components
	normalizer *normalize.Normalizer
	merger     dedupe.Merger
	ranker     scoring.Ranker

	// Caches: results memoize the full pipeline; upstream memoizes raw
	// provider data so changed filter parameters skip re-fetching.
	results  cache.Store
	upstream cache.Store

	// Configuration
	resultTTL   time.Duration
	upstreamTTL time.Duration
	currency    string
	topN        int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Default service configuration constants.
const (
	defaultResultTTL   = 30 * time.Minute
	defaultUpstreamTTL = 4 * time.Hour
	defaultCurrency    = "USD"
	defaultTopN        = 5
)

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		resultTTL:   defaultResultTTL,
		upstreamTTL: defaultUpstreamTTL,
		currency:    defaultCurrency,
		topN:        defaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes remaining components and validates wiring.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.compute == nil {
		return fmt.Errorf("compute source is required")
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.normalizer == nil {
		s.normalizer = normalize.New(normalize.WithLogger(s.logger))
	}
	if s.merger == nil {
		s.merger = dedupe.New()
	}
	if s.ranker == nil {
		s.ranker = scoring.New(scoring.WithDefaultLimit(s.topN))
	}
	if s.results == nil {
		s.results = cache.NewTTLStore(
			cache.WithName("results"),
			cache.WithDefaultTTL(s.resultTTL),
		)
	}
	if s.upstream == nil {
		s.upstream = cache.NewTTLStore(
			cache.WithName("upstream"),
			cache.WithDefaultTTL(s.upstreamTTL),
			cache.WithMaxEntries(256),
		)
	}

	s.started = true
	s.logger.Info(ctx, "spot SKU service started",
		logger.Duration("result_ttl", s.resultTTL),
		logger.Duration("upstream_ttl", s.upstreamTTL),
		logger.String("currency", s.currency),
	)
	return nil
}

// Stop releases service state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "spot SKU service stopped")
}

// ListSkus returns the filtered, optionally enriched SKU listing for
// a region. Identical parameter tuples within the TTL window are
// served from cache without touching the provider.
func (s *Service) ListSkus(ctx context.Context, region string, params ListParams) (Listing, error) {
	region, err := normalizeRegion(region)
	if err != nil {
		return Listing{}, err
	}
	currency := s.currencyOrDefault(params.Currency)

	tags := filterTags(params.Constraints)
	tags["pricing"] = fmt.Sprintf("%t", params.IncludePricing)
	tags["eviction"] = fmt.Sprintf("%t", params.IncludeEviction)
	if params.IncludePricing {
		tags["currency"] = currency
	}
	key := cacheKey("skus", region, tags,
		fmt.Sprintf("limit=%d", params.Limit),
		fmt.Sprintf("offset=%d", params.Offset),
	)

	if v, ok := s.results.Get(ctx, key); ok {
		if listing, ok := v.(Listing); ok {
			return listing, nil
		}
	}

	start := time.Now()
	cands, err := s.buildCandidates(ctx, region, params.IncludePricing, params.IncludeEviction, currency)
	if err != nil {
		return Listing{}, err
	}

	cands = filter.Apply(cands, params.Constraints)
	sortCandidates(cands)
	total := len(cands)
	cands = pageOf(cands, params.Offset, params.Limit)

	listing := Listing{
		Items: cands,
		Metadata: Metadata{
			Region:    region,
			Filters:   tags,
			Count:     len(cands),
			Total:     total,
			Timestamp: time.Now().UTC(),
		},
	}

	metrics.RecordPipelineLatency(float64(time.Since(start).Milliseconds()))

	// A cancelled computation must not populate the cache.
	if ctx.Err() != nil {
		return Listing{}, ctx.Err()
	}
	s.results.Set(ctx, key, listing, s.resultTTL)
	return listing, nil
}

// Recommend returns the top-N candidates for a region under the given
// optimization strategy. Pricing and eviction data are always fetched
// for recommendations.
func (s *Service) Recommend(ctx context.Context, region string, params RecommendParams) (Recommendation, error) {
	region, err := normalizeRegion(region)
	if err != nil {
		return Recommendation{}, err
	}
	currency := s.currencyOrDefault(params.Currency)

	limit := params.Limit
	if limit <= 0 {
		limit = s.topN
	}

	tags := filterTags(params.Constraints)
	tags["optimize_for"] = string(params.Strategy)
	tags["currency"] = currency
	key := cacheKey("recommend", region, tags, fmt.Sprintf("limit=%d", limit))

	if v, ok := s.results.Get(ctx, key); ok {
		if rec, ok := v.(Recommendation); ok {
			return rec, nil
		}
	}

	start := time.Now()
	cands, err := s.buildCandidates(ctx, region, true, true, currency)
	if err != nil {
		return Recommendation{}, err
	}

	cands = filter.Apply(cands, params.Constraints)

	crit := scoring.Criteria{
		Strategy:       params.Strategy,
		ArchPreference: params.Constraints.Architecture,
		Limit:          limit,
	}
	scored := s.ranker.Rank(ctx, cands, crit)

	rec := Recommendation{
		Items: scored,
		Metadata: Metadata{
			Region:    region,
			Filters:   tags,
			Count:     len(scored),
			Total:     len(cands),
			Timestamp: time.Now().UTC(),
		},
	}

	metrics.RecordPipelineLatency(float64(time.Since(start).Milliseconds()))

	if ctx.Err() != nil {
		return Recommendation{}, ctx.Err()
	}
	s.results.Set(ctx, key, rec, s.resultTTL)
	return rec, nil
}

// buildCandidates produces the enriched base working set for a region:
// discover, normalize, dedupe, then optionally attach pricing and
// eviction data concurrently.
func (s *Service) buildCandidates(ctx context.Context, region string, withPricing, withEviction bool, currency string) ([]model.Candidate, error) {
	specs, err := s.baseSpecs(ctx, region)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(specs))
	for i, sp := range specs {
		names[i] = sp.Name
	}

	var (
		prices map[string]float64
		rates  map[string]model.EvictionBucket
	)

	// The two enrichment lookups are independent read-only calls;
	// issue them concurrently and let a failure cancel the sibling.
	g, gctx := errgroup.WithContext(ctx)
	if withPricing {
		g.Go(func() error {
			var err error
			prices, err = s.spotPrices(gctx, region, names, currency)
			return err
		})
	}
	if withEviction {
		g.Go(func() error {
			var err error
			rates, err = s.evictionRates(gctx, region, names)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cands := make([]model.Candidate, len(specs))
	for i, sp := range specs {
		c := model.Candidate{Spec: sp}
		if withPricing {
			if price, ok := prices[sp.Name]; ok {
				c.Pricing = &model.PricingInfo{CurrencyCode: currency, HourlyPrice: price}
			}
		}
		if withEviction {
			bucket := model.BucketUnknown
			if b, ok := rates[strings.ToLower(sp.Name)]; ok {
				bucket = b
			} else if b, ok := rates[sp.Name]; ok {
				bucket = b
			}
			c.Eviction = &bucket
		}
		cands[i] = c
	}
	return cands, nil
}

// baseSpecs returns the normalized, deduplicated spot-capable specs
// for a region, memoized at provider granularity so differing filter
// parameters reuse the same upstream data within the TTL window.
func (s *Service) baseSpecs(ctx context.Context, region string) ([]model.SkuSpec, error) {
	key := cacheKey("sightings", region, nil)
	if v, ok := s.upstream.Get(ctx, key); ok {
		if specs, ok := v.([]model.SkuSpec); ok {
			return specs, nil
		}
	}

	raw, err := s.compute.Sightings(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("list sightings for %q: %w: %v", region, ErrUpstream, err)
	}

	specs := make([]model.SkuSpec, 0, len(raw))
	for _, r := range raw {
		if sp, ok := s.normalizer.Normalize(ctx, r, region); ok {
			specs = append(specs, sp)
		}
	}
	merged := s.merger.Merge(ctx, specs)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.upstream.Set(ctx, key, merged, s.resultTTL)
	return merged, nil
}

// spotPrices memoizes the region's full price map so repeated queries
// with different filters reuse it for the pricing TTL window.
func (s *Service) spotPrices(ctx context.Context, region string, names []string, currency string) (map[string]float64, error) {
	if s.prices == nil {
		return nil, fmt.Errorf("pricing requested but no price source configured: %w", ErrUpstream)
	}

	key := cacheKey("prices", region, map[string]string{"currency": currency})
	if v, ok := s.upstream.Get(ctx, key); ok {
		if m, ok := v.(map[string]float64); ok {
			return m, nil
		}
	}

	m, err := s.prices.SpotPrices(ctx, region, names, currency)
	if err != nil {
		return nil, fmt.Errorf("spot prices for %q: %w: %v", region, ErrUpstream, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.upstream.Set(ctx, key, m, s.upstreamTTL)
	return m, nil
}

// evictionRates memoizes the region's eviction buckets.
func (s *Service) evictionRates(ctx context.Context, region string, names []string) (map[string]model.EvictionBucket, error) {
	if s.eviction == nil {
		return nil, fmt.Errorf("eviction data requested but no eviction source configured: %w", ErrUpstream)
	}

	key := cacheKey("eviction", region, nil)
	if v, ok := s.upstream.Get(ctx, key); ok {
		if m, ok := v.(map[string]model.EvictionBucket); ok {
			return m, nil
		}
	}

	m, err := s.eviction.Rates(ctx, region, names)
	if err != nil {
		return nil, fmt.Errorf("eviction rates for %q: %w: %v", region, ErrUpstream, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.upstream.Set(ctx, key, m, s.resultTTL)
	return m, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"currency":        s.currency,
		"result_ttl":      s.resultTTL.String(),
		"upstream_ttl":    s.upstreamTTL.String(),
		"recommend_top_n": s.topN,
	}
	if s.results != nil {
		stats["result_cache_entries"] = s.results.Len()
	}
	if s.upstream != nil {
		stats["upstream_cache_entries"] = s.upstream.Len()
	}
	return stats
}

func (s *Service) currencyOrDefault(c string) string {
	if c == "" {
		return s.currency
	}
	return strings.ToUpper(c)
}

// normalizeRegion validates and canonicalizes a region name.
func normalizeRegion(region string) (string, error) {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return "", fmt.Errorf("region is required: %w", ErrValidation)
	}
	return region, nil
}

// sortCandidates orders a listing by (family, name) for deterministic
// output across identical inputs.
func sortCandidates(cands []model.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Spec.Family != cands[j].Spec.Family {
			return cands[i].Spec.Family < cands[j].Spec.Family
		}
		return cands[i].Spec.Name < cands[j].Spec.Name
	})
}

// pageOf applies offset/limit paging.
func pageOf(cands []model.Candidate, offset, limit int) []model.Candidate {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(cands) {
		return []model.Candidate{}
	}
	cands = cands[offset:]
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}
