package domain

import "strings"

// Allocation tiers, best to worst.
const (
	TierS = "S"
	TierA = "A"
	TierB = "B"
	TierC = "C"
	TierD = "D"
)

// BlendConfig parameterizes weight blending, tier classification and the
// insider/cluster multiplier tables. Passed explicitly so alternative
// parameterizations are testable without process-wide state.
type BlendConfig struct {
	// Recency weights for the 3M / 6M / 1Y sharpes. 3M dominates.
	Weight3M float64
	Weight6M float64
	Weight1Y float64

	// Lower bounds of the S / A / B / C bands, inclusive. Below C is D.
	TierS float64
	TierA float64
	TierB float64
	TierC float64

	// Clamp range for the blended sharpe before multipliers. The 0.1 floor
	// keeps the recommended weight a strictly positive magnitude knob even
	// for negative-edge traders; downstream consumers gate separately.
	WeightFloor float64
	WeightCeil  float64

	InsiderMult    map[string]float64 // risk label → multiplier
	InsiderDefault float64            // unrecognized or absent risk

	ActiveClusters    []string // boosted categories
	PlayedOutClusters []string // faded categories
	ActiveBoost       float64
	PlayedOutBoost    float64
}

// DefaultBlendConfig returns the production parameterization.
func DefaultBlendConfig() BlendConfig {
	return BlendConfig{
		Weight3M:    0.5,
		Weight6M:    0.3,
		Weight1Y:    0.2,
		TierS:       1.5,
		TierA:       1.0,
		TierB:       0.5,
		TierC:       0.0,
		WeightFloor: 0.1,
		WeightCeil:  3.0,
		InsiderMult: map[string]float64{
			RiskExtreme: 2.5,
			RiskHigh:    2.0,
			RiskMedium:  1.0,
			RiskLow:     0.5,
		},
		InsiderDefault: 0.5,
		ActiveClusters: []string{
			"iran", "fed", "geopolitics", "politics", "crypto",
			"tech", "sports", "ufc", "mma",
		},
		PlayedOutClusters: []string{"election-2024", "election"},
		ActiveBoost:       1.5,
		PlayedOutBoost:    0.3,
	}
}

// InsiderMultiplier maps a risk classification to its sizing multiplier.
func (c BlendConfig) InsiderMultiplier(risk string) float64 {
	if m, ok := c.InsiderMult[risk]; ok {
		return m
	}
	return c.InsiderDefault
}

// ClusterBoost maps a cluster label to its boost. Empty or unknown → 1.
func (c BlendConfig) ClusterBoost(cluster string) float64 {
	if cluster == "" {
		return 1
	}
	lc := strings.ToLower(cluster)
	for _, p := range c.PlayedOutClusters {
		if lc == p {
			return c.PlayedOutBoost
		}
	}
	for _, a := range c.ActiveClusters {
		if lc == a {
			return c.ActiveBoost
		}
	}
	return 1
}

// AllocationWeight is a trader's blended cross-window score, tier, and the
// recommended sizing weight.
type AllocationWeight struct {
	Username          string
	Address           string
	Sharpe3M          float64
	Sharpe6M          float64
	Sharpe1Y          float64
	Blended           float64
	Tier              string
	RecommendedWeight float64
}

// Blend combines per-window sharpes with the recency weights and the external
// risk/cluster multipliers into a single allocation weight.
func (c BlendConfig) Blend(t Trader, sharpe3m, sharpe6m, sharpe1y float64) AllocationWeight {
	blended := c.Weight3M*sharpe3m + c.Weight6M*sharpe6m + c.Weight1Y*sharpe1y

	clamped := blended
	if clamped < c.WeightFloor {
		clamped = c.WeightFloor
	}
	if clamped > c.WeightCeil {
		clamped = c.WeightCeil
	}

	rec := clamped * c.InsiderMultiplier(t.InsiderRisk) * c.ClusterBoost(t.Cluster)

	return AllocationWeight{
		Username:          t.DisplayName(),
		Address:           t.Address,
		Sharpe3M:          Round3(sharpe3m),
		Sharpe6M:          Round3(sharpe6m),
		Sharpe1Y:          Round3(sharpe1y),
		Blended:           Round3(blended),
		Tier:              c.tier(blended),
		RecommendedWeight: Round3(rec),
	}
}

func (c BlendConfig) tier(blended float64) string {
	switch {
	case blended >= c.TierS:
		return TierS
	case blended >= c.TierA:
		return TierA
	case blended >= c.TierB:
		return TierB
	case blended >= c.TierC:
		return TierC
	default:
		return TierD
	}
}
