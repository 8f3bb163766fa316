package model

// Constraints narrows a candidate set. A nil pointer field means the
// dimension is unconstrained, never "zero".
type Constraints struct {
	// Architecture keeps only matching candidates when set.
	Architecture *Architecture

	// GPU false (the default) drops GPU SKUs; true lifts the exclusion
	// so both GPU and non-GPU candidates pass.
	GPU bool

	// Inclusive upper bounds on the spec.
	MaxVCPUs    *int
	MaxMemoryGB *float64

	// MaxHourlyCost is an inclusive bound; candidates without pricing
	// attached cannot verify the bound and are excluded while it is set.
	MaxHourlyCost *float64

	// MaxEvictionRate bounds the bucket under the total bucket order;
	// unknown buckets are excluded while it is set.
	MaxEvictionRate *EvictionBucket

	// MinZones requires at least this many availability zones.
	MinZones int
}

// Strategy selects the optimization goal for recommendations.
type Strategy string

// Supported strategies.
const (
	StrategyCost        Strategy = "cost"
	StrategyReliability Strategy = "reliability"
	StrategyPerformance Strategy = "performance"
	StrategyBalanced    Strategy = "balanced"
)

// ParseStrategy validates an optimize_for value from user input.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyCost, StrategyReliability, StrategyPerformance, StrategyBalanced:
		return Strategy(s), true
	case "":
		return StrategyBalanced, true
	default:
		return "", false
	}
}
