// Package filter applies caller constraints to enriched candidates.
package filter

import (
	"github.com/okian/spotfinder/internal/domain/model"
)

// Matches is a pure predicate: it reports whether a candidate
// independently satisfies every constraint in c. All constraints are
// conjunctive; an unset constraint is unconstrained, not zero.
func Matches(cand model.Candidate, c model.Constraints) bool {
	spec := cand.Spec

	if c.Architecture != nil && spec.Architecture != *c.Architecture {
		return false
	}

	// GPU false drops GPU SKUs; GPU true passes both kinds.
	if !c.GPU && spec.HasGPU {
		return false
	}

	if c.MaxVCPUs != nil && spec.VCPUs > *c.MaxVCPUs {
		return false
	}
	if c.MaxMemoryGB != nil && spec.MemoryGB > *c.MaxMemoryGB {
		return false
	}

	if c.MinZones > 0 && len(spec.Zones) < c.MinZones {
		return false
	}

	// An active cost bound cannot be verified without pricing; exclude
	// rather than assume the candidate passes.
	if c.MaxHourlyCost != nil {
		if cand.Pricing == nil || cand.Pricing.HourlyPrice > *c.MaxHourlyCost {
			return false
		}
	}

	// Same rule for eviction: unknown data fails an active bound.
	if c.MaxEvictionRate != nil {
		if cand.Eviction == nil || !cand.Eviction.AtMost(*c.MaxEvictionRate) {
			return false
		}
	}

	return true
}

// Apply keeps the candidates matching c, preserving input order.
func Apply(cands []model.Candidate, c model.Constraints) []model.Candidate {
	out := make([]model.Candidate, 0, len(cands))
	for _, cand := range cands {
		if Matches(cand, c) {
			out = append(out, cand)
		}
	}
	return out
}
