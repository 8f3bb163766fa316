// Package normalize turns raw provider capability sightings into
// canonical SKU specs.
package normalize

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/spotfinder/internal/domain/model"
	"github.com/okian/spotfinder/pkg/logger"
	"github.com/okian/spotfinder/pkg/metrics"
)

// Normalizer converts one RawSku sighting into a SkuSpec. Eligibility
// gates (resource type, spot capability, restrictions) are applied
// here so downstream stages only ever see spot-capable VM specs.
type Normalizer struct {
	arch   ArchPolicy
	gpu    GPUPolicy
	logger logger.Logger
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithArchPolicy swaps the architecture detection policy.
func WithArchPolicy(p ArchPolicy) Option {
	return func(n *Normalizer) {
		if p != nil {
			n.arch = p
		}
	}
}

// WithGPUPolicy swaps the GPU detection policy.
func WithGPUPolicy(p GPUPolicy) Option {
	return func(n *Normalizer) {
		if p != nil {
			n.gpu = p
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// New constructs a Normalizer with the default heuristic policies.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		arch: DefaultArchPolicy,
		gpu:  DefaultGPUPolicy,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = logger.Get().Named("normalize")
	}
	return n
}

// Normalize converts a single sighting. The returned bool is false
// when the sighting is ineligible or malformed; one bad record never
// aborts the batch.
func (n *Normalizer) Normalize(ctx context.Context, raw model.RawSku, region string) (model.SkuSpec, bool) {
	if raw.Name == "" {
		metrics.RecordSkuSkipped()
		return model.SkuSpec{}, false
	}

	// Only virtual machine SKUs carry spot semantics.
	rt := strings.ToLower(raw.ResourceType)
	if !strings.Contains(rt, "virtualmachine") && !strings.Contains(rt, "compute") {
		metrics.RecordSkuSkipped()
		return model.SkuSpec{}, false
	}

	caps := capabilityMap(raw.Capabilities)

	// Records failing spot capability are dropped before the output stream.
	if !isTrue(caps["lowprioritycapable"]) {
		metrics.RecordSkuSkipped()
		return model.SkuSpec{}, false
	}

	if restrictedInRegion(raw.Restrictions, region) {
		metrics.RecordSkuSkipped()
		return model.SkuSpec{}, false
	}

	// B-series sizes are not offered for spot even when the capability
	// flag claims otherwise.
	nameLower := strings.ToLower(raw.Name)
	familyLower := strings.ToLower(raw.Family)
	if strings.HasPrefix(nameLower, "standard_b") ||
		strings.HasPrefix(familyLower, "standard_b") ||
		strings.HasPrefix(familyLower, "standardb") {
		metrics.RecordSkuSkipped()
		return model.SkuSpec{}, false
	}

	vcpus, err := strconv.Atoi(strings.TrimSpace(caps["vcpus"]))
	if err != nil || vcpus <= 0 {
		n.logger.Warn(ctx, "skipping sighting with malformed vCPU count",
			logger.String("sku", raw.Name),
			logger.String("vcpus", caps["vcpus"]),
		)
		metrics.RecordSkuSkipped()
		return model.SkuSpec{}, false
	}
	memoryGB, err := strconv.ParseFloat(strings.TrimSpace(caps["memorygb"]), 64)
	if err != nil || memoryGB <= 0 {
		n.logger.Warn(ctx, "skipping sighting with malformed memory size",
			logger.String("sku", raw.Name),
			logger.String("memory_gb", caps["memorygb"]),
		)
		metrics.RecordSkuSkipped()
		return model.SkuSpec{}, false
	}

	spec := model.SkuSpec{
		Name:         raw.Name,
		Size:         raw.Size,
		Family:       raw.Family,
		Architecture: n.arch(raw.Name, raw.Family),
		VCPUs:        vcpus,
		MemoryGB:     memoryGB,
		HasGPU:       n.gpu(raw.Name, raw.Family, caps),
		Zones:        zonesForRegion(raw.LocationInfo, region),
		SupportsSpot: true,
	}

	metrics.RecordSkuNormalized()
	return spec, true
}

// capabilityMap lowers capability names for case-insensitive lookup.
func capabilityMap(caps []model.RawCapability) map[string]string {
	m := make(map[string]string, len(caps))
	for _, c := range caps {
		m[strings.ToLower(c.Name)] = c.Value
	}
	return m
}

func isTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1":
		return true
	default:
		return false
	}
}

// restrictedInRegion reports whether a NotAvailableForSubscription
// restriction applies to the region. A restriction with no locations
// applies everywhere.
func restrictedInRegion(rs []model.RawRestriction, region string) bool {
	for _, r := range rs {
		if !strings.EqualFold(r.ReasonCode, "NotAvailableForSubscription") {
			continue
		}
		if len(r.Locations) == 0 {
			return true
		}
		for _, loc := range r.Locations {
			if strings.EqualFold(loc, region) {
				return true
			}
		}
	}
	return false
}

// zonesForRegion collects the zones of location entries matching the
// region. Zones of one sighting only; the union across sightings
// happens in dedupe.
func zonesForRegion(infos []model.RawLocation, region string) []string {
	seen := make(map[string]struct{})
	for _, li := range infos {
		if !strings.EqualFold(li.Location, region) {
			continue
		}
		for _, z := range li.Zones {
			seen[z] = struct{}{}
		}
	}
	zones := make([]string, 0, len(seen))
	for z := range seen {
		zones = append(zones, z)
	}
	sort.Strings(zones)
	return zones
}
