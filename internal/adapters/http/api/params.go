package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/okian/spotfinder/internal/domain/model"
)

// parseConstraints reads the constraint parameters shared by both
// endpoints. Absent parameters stay unconstrained.
func parseConstraints(q url.Values) (model.Constraints, error) {
	var c model.Constraints

	if v := q.Get("arch"); v != "" {
		arch, ok := model.ParseArchitecture(v)
		if !ok {
			return c, fmt.Errorf("invalid arch %q (want x64 or arm64)", v)
		}
		c.Architecture = &arch
	}

	gpu, err := parseBool(q, "gpu", false)
	if err != nil {
		return c, err
	}
	c.GPU = gpu

	if v := q.Get("max_vcpus"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c, fmt.Errorf("invalid max_vcpus %q", v)
		}
		c.MaxVCPUs = &n
	}

	if v := q.Get("max_memory_gb"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return c, fmt.Errorf("invalid max_memory_gb %q", v)
		}
		c.MaxMemoryGB = &f
	}

	if v := q.Get("max_hourly_cost"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return c, fmt.Errorf("invalid max_hourly_cost %q", v)
		}
		c.MaxHourlyCost = &f
	}

	if v := q.Get("max_eviction_rate"); v != "" {
		bucket, ok := model.ParseEvictionBucket(v)
		if !ok {
			return c, fmt.Errorf("invalid max_eviction_rate %q", v)
		}
		c.MaxEvictionRate = &bucket
	}

	if v := q.Get("min_zones"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c, fmt.Errorf("invalid min_zones %q", v)
		}
		c.MinZones = n
	}

	return c, nil
}

// parseBool reads an optional boolean query parameter.
func parseBool(q url.Values, name string, def bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q", name, v)
	}
	return b, nil
}

// parseIntInRange reads an optional bounded integer query parameter.
func parseIntInRange(q url.Values, name string, def, minVal, maxVal int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < minVal || n > maxVal {
		return def, fmt.Errorf("invalid %s %q (want %d..%d)", name, v, minVal, maxVal)
	}
	return n, nil
}
