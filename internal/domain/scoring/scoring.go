// Package scoring ranks filtered candidates under an optimization strategy.
package scoring

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/okian/spotfinder/internal/domain/model"
	"github.com/okian/spotfinder/pkg/metrics"
)

// Factor names used in score breakdowns.
const (
	FactorPrice        = "price_score"
	FactorReliability  = "reliability_score"
	FactorPerformance  = "performance_score"
	FactorAvailability = "availability_score"
	FactorArchitecture = "architecture_score"
)

// Neutral defaults applied when optional enrichment data is absent.
// An unknown eviction bucket scores below neutral: missing risk data
// is itself a risk signal.
const (
	neutralScore         = 0.5
	unknownEvictionScore = 0.3
	defaultLimit         = 5

	// Memory contribution to a compute unit: 4 GB is valued like one vCPU.
	memoryGBPerComputeUnit = 4.0
)

// evictionScores maps known buckets to reliability scores, lowest
// bucket best. The mapping is fixed rather than min-max normalized so
// a bucket means the same thing in every result set.
var evictionScores = map[model.EvictionBucket]float64{
	model.Bucket0To5:   1.0,
	model.Bucket5To10:  0.8,
	model.Bucket10To15: 0.6,
	model.Bucket15To20: 0.4,
	model.Bucket20Plus: 0.2,
}

// Criteria carries the optimization goal for one ranking request.
type Criteria struct {
	Strategy model.Strategy

	// ArchPreference, when set, adds the architecture factor to the
	// weight vector with a 1.0/0.3 match/mismatch score.
	ArchPreference *model.Architecture

	// Limit caps the returned list; zero means the scorer default.
	Limit int
}

// Ranker scores a filtered candidate set and returns the top entries.
type Ranker interface {
	Rank(ctx context.Context, cands []model.Candidate, crit Criteria) []model.ScoredCandidate
}

// scorer implements Ranker with per-factor min-max normalization
// relative to the candidate set at query time. Scores are only
// meaningful within one query's result set.
type scorer struct {
	defaultLimit int
}

// Option applies a configuration option to the scorer.
type Option func(*scorer)

// WithDefaultLimit sets the top-N size used when Criteria.Limit is zero.
func WithDefaultLimit(n int) Option {
	return func(s *scorer) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// New constructs a Ranker.
func New(opts ...Option) Ranker {
	s := &scorer{
		defaultLimit: defaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rank scores every candidate, sorts by score descending with name
// ascending as the tie-break, and returns the top entries.
func (s *scorer) Rank(ctx context.Context, cands []model.Candidate, crit Criteria) []model.ScoredCandidate {
	if len(cands) == 0 {
		return nil
	}

	limit := crit.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	weights := weightVector(crit)
	stats := newSetStats(cands)

	scored := make([]model.ScoredCandidate, 0, len(cands))
	for _, cand := range cands {
		factors := map[string]float64{
			FactorPrice:        stats.priceScore(cand),
			FactorReliability:  reliabilityScore(cand),
			FactorPerformance:  stats.performanceScore(cand),
			FactorAvailability: stats.availabilityScore(cand),
		}
		if _, ok := weights[FactorArchitecture]; ok {
			factors[FactorArchitecture] = architectureScore(cand, crit.ArchPreference)
		}

		breakdown := make(map[string]float64, len(weights))
		total := 0.0
		for name, w := range weights {
			contribution := w * factors[name]
			breakdown[name] = contribution
			total += contribution
		}

		scored = append(scored, model.ScoredCandidate{
			Candidate: cand,
			Score:     clamp01(total),
			Breakdown: breakdown,
			Reason:    reason(factors, crit.Strategy),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Spec.Name < scored[j].Spec.Name
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	metrics.RecordCandidatesScored(len(scored))
	return scored
}

// weightVector returns the strategy's factor weights. Weights sum to
// 1.0; when an architecture preference is given, the architecture
// factor takes a tenth and the rest scale down proportionally.
func weightVector(crit Criteria) map[string]float64 {
	var w map[string]float64
	switch crit.Strategy {
	case model.StrategyCost:
		w = map[string]float64{
			FactorPrice:        0.5,
			FactorPerformance:  0.3,
			FactorReliability:  0.1,
			FactorAvailability: 0.1,
		}
	case model.StrategyReliability:
		w = map[string]float64{
			FactorReliability:  0.5,
			FactorAvailability: 0.2,
			FactorPrice:        0.2,
			FactorPerformance:  0.1,
		}
	case model.StrategyPerformance:
		w = map[string]float64{
			FactorPerformance:  0.5,
			FactorPrice:        0.2,
			FactorReliability:  0.2,
			FactorAvailability: 0.1,
		}
	default: // balanced
		w = map[string]float64{
			FactorPrice:        0.25,
			FactorReliability:  0.25,
			FactorPerformance:  0.25,
			FactorAvailability: 0.25,
		}
	}

	if crit.ArchPreference != nil {
		const archWeight = 0.1
		for name := range w {
			w[name] *= 1 - archWeight
		}
		w[FactorArchitecture] = archWeight
	}
	return w
}

// setStats holds the min-max bounds of the candidate set for the
// factors normalized relative to it.
type setStats struct {
	minPrice, maxPrice float64
	havePrices         bool

	minRatio, maxRatio float64
	haveRatios         bool

	minVCPUs, maxVCPUs int
	maxZones           int
}

func newSetStats(cands []model.Candidate) *setStats {
	st := &setStats{}
	for i, c := range cands {
		if len(c.Spec.Zones) > st.maxZones {
			st.maxZones = len(c.Spec.Zones)
		}
		if i == 0 {
			st.minVCPUs, st.maxVCPUs = c.Spec.VCPUs, c.Spec.VCPUs
		} else {
			if c.Spec.VCPUs < st.minVCPUs {
				st.minVCPUs = c.Spec.VCPUs
			}
			if c.Spec.VCPUs > st.maxVCPUs {
				st.maxVCPUs = c.Spec.VCPUs
			}
		}

		if c.Pricing == nil {
			continue
		}
		price := c.Pricing.HourlyPrice
		if !st.havePrices {
			st.minPrice, st.maxPrice = price, price
			st.havePrices = true
		} else {
			st.minPrice = math.Min(st.minPrice, price)
			st.maxPrice = math.Max(st.maxPrice, price)
		}

		if ratio, ok := computeUnitPrice(c); ok {
			if !st.haveRatios {
				st.minRatio, st.maxRatio = ratio, ratio
				st.haveRatios = true
			} else {
				st.minRatio = math.Min(st.minRatio, ratio)
				st.maxRatio = math.Max(st.maxRatio, ratio)
			}
		}
	}
	return st
}

// priceScore inverse-normalizes the hourly price: the cheapest
// candidate scores 1.0. Absent pricing is neutral, not disqualifying,
// since pricing may not have been requested at all.
func (st *setStats) priceScore(c model.Candidate) float64 {
	if c.Pricing == nil || !st.havePrices {
		return neutralScore
	}
	if st.maxPrice == st.minPrice {
		return 1.0
	}
	return clamp01((st.maxPrice - c.Pricing.HourlyPrice) / (st.maxPrice - st.minPrice))
}

// performanceScore inverse-normalizes price per compute unit. When no
// candidate carries pricing the set falls back to normalized vCPU
// count as a fixed proxy.
func (st *setStats) performanceScore(c model.Candidate) float64 {
	if !st.haveRatios {
		return st.vcpuProxyScore(c)
	}
	ratio, ok := computeUnitPrice(c)
	if !ok {
		return neutralScore
	}
	if st.maxRatio == st.minRatio {
		return 1.0
	}
	return clamp01((st.maxRatio - ratio) / (st.maxRatio - st.minRatio))
}

func (st *setStats) vcpuProxyScore(c model.Candidate) float64 {
	if st.maxVCPUs == st.minVCPUs {
		return 1.0
	}
	return clamp01(float64(c.Spec.VCPUs-st.minVCPUs) / float64(st.maxVCPUs-st.minVCPUs))
}

// availabilityScore normalizes zone count against the widest candidate.
func (st *setStats) availabilityScore(c model.Candidate) float64 {
	if st.maxZones == 0 {
		return 0.0
	}
	return clamp01(float64(len(c.Spec.Zones)) / float64(st.maxZones))
}

// reliabilityScore maps the eviction bucket to a fixed score; unknown
// or absent buckets score below neutral.
func reliabilityScore(c model.Candidate) float64 {
	if c.Eviction == nil {
		return unknownEvictionScore
	}
	if s, ok := evictionScores[*c.Eviction]; ok {
		return s
	}
	return unknownEvictionScore
}

// architectureScore rewards an exact preference match.
func architectureScore(c model.Candidate, pref *model.Architecture) float64 {
	if pref == nil {
		return neutralScore
	}
	if c.Spec.Architecture == *pref {
		return 1.0
	}
	return 0.3
}

// computeUnitPrice returns hourly price per compute unit, where 4 GB
// of memory is valued like one vCPU.
func computeUnitPrice(c model.Candidate) (float64, bool) {
	if c.Pricing == nil || c.Spec.VCPUs <= 0 || c.Spec.MemoryGB <= 0 {
		return 0, false
	}
	units := float64(c.Spec.VCPUs) + c.Spec.MemoryGB/memoryGBPerComputeUnit
	if units <= 0 {
		return 0, false
	}
	return c.Pricing.HourlyPrice / units, true
}

// reason builds a short human-readable explanation from the strongest
// factors.
func reason(factors map[string]float64, strategy model.Strategy) string {
	var parts []string
	if factors[FactorPrice] > 0.7 {
		parts = append(parts, "excellent pricing")
	} else if factors[FactorPrice] > 0.5 {
		parts = append(parts, "good pricing")
	}
	if factors[FactorReliability] > 0.8 {
		parts = append(parts, "very low eviction risk")
	} else if factors[FactorReliability] > 0.6 {
		parts = append(parts, "low eviction risk")
	}
	if factors[FactorPerformance] > 0.7 {
		parts = append(parts, "excellent value")
	}
	if factors[FactorAvailability] > 0.8 {
		parts = append(parts, "high availability")
	}
	switch strategy {
	case model.StrategyCost:
		parts = append(parts, "cost-optimized")
	case model.StrategyReliability:
		parts = append(parts, "reliability-focused")
	case model.StrategyPerformance:
		parts = append(parts, "performance-optimized")
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}
	if len(parts) == 0 {
		return ""
	}
	return "Recommended for " + strings.Join(parts, ", ")
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
