package normalize

import (
	"strings"

	"github.com/okian/spotfinder/internal/domain/model"
)

// ArchPolicy classifies a SKU's architecture from its name and family
// tokens. It is deliberately isolated so it can be replaced without
// touching the pipeline when an authoritative source becomes available.
type ArchPolicy func(name, family string) model.Architecture

// GPUPolicy decides whether a SKU carries GPU hardware.
type GPUPolicy func(name, family string, caps map[string]string) bool

// arm64Patterns are size-token substrings the provider uses for ARM64
// series (Dpls, Dpds, Dps, Eps, Epds). This is a naming heuristic, not
// an authoritative lookup: a provider naming-convention change can
// silently misclassify new SKUs. Non-matches always fall back to x64.
var arm64Patterns = []string{
	"pls",
	"pds",
	"ps_",
	"eps",
	"epds",
}

// DefaultArchPolicy matches ARM64 naming patterns, defaulting to x64.
func DefaultArchPolicy(name, family string) model.Architecture {
	nameLower := strings.ToLower(name)
	familyLower := strings.ToLower(family)
	for _, p := range arm64Patterns {
		if strings.Contains(nameLower, p) || strings.Contains(familyLower, p) {
			return model.ArchARM64
		}
	}
	return model.ArchX64
}

// gpuNamePatterns mark GPU series names (NC, ND, NV, NSv2).
var gpuNamePatterns = []string{
	"_nc",
	"_nd",
	"_nv",
	"_nsv2",
	"standard_nc",
	"standard_nd",
	"standard_nv",
	"standard_nsv2",
	"microsoft.hpcgpu",
	"gpu",
}

// DefaultGPUPolicy inspects name/family patterns and declared
// capability names for GPU-class resources. Absence of any marker
// means no GPU.
func DefaultGPUPolicy(name, family string, caps map[string]string) bool {
	nameLower := strings.ToLower(name)
	familyLower := strings.ToLower(family)
	for _, p := range gpuNamePatterns {
		if strings.Contains(nameLower, p) || strings.Contains(familyLower, p) {
			return true
		}
	}
	for capName := range caps {
		if strings.Contains(capName, "gpu") || strings.Contains(capName, "nvidia") {
			return true
		}
	}
	return false
}
