// Package dedupe merges repeated SKU sightings into one record per name.
package dedupe

import (
	"context"
	"sort"

	"github.com/okian/spotfinder/internal/domain/model"
	"github.com/okian/spotfinder/pkg/metrics"
)

// Merger collapses a sequence of per-zone SKU sightings into one spec
// per unique name with a unioned zone set.
type Merger interface {
	// Merge processes the sightings in a single pass. Output order is
	// the insertion order of each name's first sighting, so a fixed
	// input order yields a deterministic output.
	Merge(ctx context.Context, sightings []model.SkuSpec) []model.SkuSpec
}

// zoneUnionMerger implements Merger with first-seen-wins scalar fields.
type zoneUnionMerger struct {
	backfillZeroSpecs bool
}

// Option applies a configuration option to the merger.
type Option func(*zoneUnionMerger)

// WithZeroSpecBackfill controls whether zero numeric specs on the
// first sighting are filled in from later sightings of the same name.
func WithZeroSpecBackfill(enabled bool) Option {
	return func(m *zoneUnionMerger) {
		m.backfillZeroSpecs = enabled
	}
}

// New creates a zone-union merger.
func New(opts ...Option) Merger {
	m := &zoneUnionMerger{
		backfillZeroSpecs: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge collapses sightings by name. Scalar fields are taken from the
// first sighting; if sightings disagree, first-seen wins. Zones are
// set-unioned, so a SKU seen in zone "2" twice and zone "1" once
// yields {1,2}.
func (m *zoneUnionMerger) Merge(ctx context.Context, sightings []model.SkuSpec) []model.SkuSpec {
	byName := make(map[string]int, len(sightings))
	zoneSets := make([]map[string]struct{}, 0, len(sightings))
	out := make([]model.SkuSpec, 0, len(sightings))

	for _, s := range sightings {
		idx, exists := byName[s.Name]
		if !exists {
			zones := make(map[string]struct{}, len(s.Zones))
			for _, z := range s.Zones {
				zones[z] = struct{}{}
			}
			byName[s.Name] = len(out)
			zoneSets = append(zoneSets, zones)
			out = append(out, s)
			continue
		}

		metrics.RecordSkuDeduplicated()
		for _, z := range s.Zones {
			zoneSets[idx][z] = struct{}{}
		}
		if m.backfillZeroSpecs {
			if out[idx].VCPUs == 0 && s.VCPUs > 0 {
				out[idx].VCPUs = s.VCPUs
			}
			if out[idx].MemoryGB == 0 && s.MemoryGB > 0 {
				out[idx].MemoryGB = s.MemoryGB
			}
		}
	}

	for i := range out {
		zones := make([]string, 0, len(zoneSets[i]))
		for z := range zoneSets[i] {
			zones = append(zones, z)
		}
		sort.Strings(zones)
		out[i].Zones = zones
	}

	return out
}
