// Package model contains domain models passed between layers.
package model

// Architecture is the CPU architecture of a SKU.
type Architecture string

// Supported architectures.
const (
	ArchX64   Architecture = "x64"
	ArchARM64 Architecture = "arm64"
)

// ParseArchitecture maps user input to an Architecture.
// Returns false for anything it does not recognize.
func ParseArchitecture(s string) (Architecture, bool) {
	switch s {
	case "x64", "X64", "amd64":
		return ArchX64, true
	case "arm64", "Arm64", "ARM64":
		return ArchARM64, true
	default:
		return "", false
	}
}

// SkuSpec is the canonical record for one VM SKU in one region.
// Name is the provider's full SKU identifier and is unique after
// deduplication; Zones is the union of all per-zone sightings.
type SkuSpec struct {
	Name         string       `json:"name"`
	Size         string       `json:"size,omitempty"`
	Family       string       `json:"family,omitempty"`
	Architecture Architecture `json:"architecture"`
	VCPUs        int          `json:"vcpus"`
	MemoryGB     float64      `json:"memory_gb"`
	HasGPU       bool         `json:"has_gpu"`
	Zones        []string     `json:"zones"`
	SupportsSpot bool         `json:"supports_spot"`
}

// PricingInfo is an optional attachment carrying the hourly spot price.
// A nil *PricingInfo means pricing was not requested, not that the SKU
// is free.
type PricingInfo struct {
	CurrencyCode string  `json:"currency_code"`
	HourlyPrice  float64 `json:"hourly_price"`
}

// Candidate is a SkuSpec with its optional enrichments.
// Eviction distinguishes three states: nil (not requested),
// BucketUnknown (requested but unavailable), and a known bucket.
type Candidate struct {
	Spec     SkuSpec         `json:"sku"`
	Pricing  *PricingInfo    `json:"pricing,omitempty"`
	Eviction *EvictionBucket `json:"eviction,omitempty"`
}

// ScoredCandidate is a Candidate with its recommendation score.
// Breakdown maps factor name to the weighted contribution; the
// contributions sum to Score.
type ScoredCandidate struct {
	Candidate
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"score_breakdown"`
	Reason    string             `json:"reason,omitempty"`
}
