package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/spotfinder/internal/domain/model"
)

// ListParams selects and shapes a SKU listing.
type ListParams struct {
	Constraints model.Constraints

	// IncludePricing attaches hourly spot prices in Currency.
	IncludePricing bool

	// IncludeEviction attaches eviction-rate buckets.
	IncludeEviction bool

	// Currency is the 3-letter pricing currency; empty means the
	// service default.
	Currency string

	// Limit and Offset page the result. Zero limit means no cap.
	Limit  int
	Offset int
}

// RecommendParams selects and ranks recommendation candidates.
// Pricing and eviction data are always fetched for recommendations.
type RecommendParams struct {
	Constraints model.Constraints
	Strategy    model.Strategy
	Currency    string

	// Limit caps the ranked list; zero means the service default.
	Limit int
}

// Metadata describes a computed result set.
type Metadata struct {
	Region    string            `json:"region"`
	Filters   map[string]string `json:"filters"`
	Count     int               `json:"count"`
	Total     int               `json:"total"`
	Timestamp time.Time         `json:"timestamp"`
}

// Listing is a filtered, optionally enriched SKU result set.
type Listing struct {
	Items    []model.Candidate `json:"items"`
	Metadata Metadata          `json:"metadata"`
}

// Recommendation is a ranked top-N result set.
type Recommendation struct {
	Items    []model.ScoredCandidate `json:"items"`
	Metadata Metadata                `json:"metadata"`
}

// filterTags renders the active constraints for metadata and cache keys.
func filterTags(c model.Constraints) map[string]string {
	tags := map[string]string{
		"gpu": fmt.Sprintf("%t", c.GPU),
	}
	if c.Architecture != nil {
		tags["architecture"] = string(*c.Architecture)
	}
	if c.MaxVCPUs != nil {
		tags["max_vcpus"] = fmt.Sprintf("%d", *c.MaxVCPUs)
	}
	if c.MaxMemoryGB != nil {
		tags["max_memory_gb"] = fmt.Sprintf("%g", *c.MaxMemoryGB)
	}
	if c.MaxHourlyCost != nil {
		tags["max_hourly_cost"] = fmt.Sprintf("%g", *c.MaxHourlyCost)
	}
	if c.MaxEvictionRate != nil {
		tags["max_eviction_rate"] = string(*c.MaxEvictionRate)
	}
	if c.MinZones > 0 {
		tags["min_zones"] = fmt.Sprintf("%d", c.MinZones)
	}
	return tags
}

// cacheKey builds an exact-match key over the full parameter tuple.
// Tags are folded in sorted order so equal parameter sets always
// produce the same key.
func cacheKey(kind, region string, tags map[string]string, extra ...string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(kind)
	b.WriteString("|")
	b.WriteString(region)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(tags[k])
	}
	for _, e := range extra {
		b.WriteString("|")
		b.WriteString(e)
	}
	return b.String()
}
