package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlend_RecencyWeights(t *testing.T) {
	// 0.5×2 + 0.3×1 + 0.2×0 = 1.3 → tier A
	cfg := DefaultBlendConfig()
	w := cfg.Blend(Trader{Username: "alice", InsiderRisk: RiskLow}, 2, 1, 0)

	assert.InDelta(t, 1.3, w.Blended, 0.001)
	assert.Equal(t, TierA, w.Tier)
	// clamp leaves 1.3 alone; LOW halves it
	assert.InDelta(t, 0.65, w.RecommendedWeight, 0.001)
}

func TestBlend_CeilingThenMultipliers(t *testing.T) {
	// blended 10 clamps to 3.0 before EXTREME (2.5×) and crypto (1.5×)
	cfg := DefaultBlendConfig()
	w := cfg.Blend(Trader{Username: "whale", InsiderRisk: RiskExtreme, Cluster: "crypto"}, 10, 10, 10)

	assert.InDelta(t, 10.0, w.Blended, 0.001)
	assert.Equal(t, TierS, w.Tier)
	assert.InDelta(t, 11.25, w.RecommendedWeight, 0.001)
}

func TestBlend_FloorForNegativeEdge(t *testing.T) {
	// negative blended clamps to the 0.1 floor; tier reads the raw value
	cfg := DefaultBlendConfig()
	w := cfg.Blend(Trader{Username: "cold", InsiderRisk: RiskMedium}, -1, -1, -1)

	assert.Equal(t, TierD, w.Tier)
	assert.InDelta(t, 0.1, w.RecommendedWeight, 0.001)
}

func TestTierBoundaries(t *testing.T) {
	cfg := DefaultBlendConfig()
	assert.Equal(t, TierS, cfg.tier(1.5))
	assert.Equal(t, TierA, cfg.tier(1.0))
	assert.Equal(t, TierB, cfg.tier(0.5))
	assert.Equal(t, TierC, cfg.tier(0.0))
	assert.Equal(t, TierD, cfg.tier(-0.001))
}

func TestInsiderMultiplier(t *testing.T) {
	cfg := DefaultBlendConfig()
	assert.Equal(t, 2.5, cfg.InsiderMultiplier(RiskExtreme))
	assert.Equal(t, 2.0, cfg.InsiderMultiplier(RiskHigh))
	assert.Equal(t, 1.0, cfg.InsiderMultiplier(RiskMedium))
	assert.Equal(t, 0.5, cfg.InsiderMultiplier(RiskLow))
	assert.Equal(t, 0.5, cfg.InsiderMultiplier("SHRUG"))
	assert.Equal(t, 0.5, cfg.InsiderMultiplier(""))
}

func TestClusterBoost(t *testing.T) {
	cfg := DefaultBlendConfig()
	assert.Equal(t, 1.5, cfg.ClusterBoost("crypto"))
	assert.Equal(t, 1.5, cfg.ClusterBoost("Crypto")) // case-insensitive
	assert.Equal(t, 0.3, cfg.ClusterBoost("election-2024"))
	assert.Equal(t, 0.3, cfg.ClusterBoost("election"))
	assert.Equal(t, 1.0, cfg.ClusterBoost("weather"))
	assert.Equal(t, 1.0, cfg.ClusterBoost(""))
}

func TestClusterBoost_PlayedOutWinsOverActive(t *testing.T) {
	cfg := DefaultBlendConfig()
	cfg.ActiveClusters = append(cfg.ActiveClusters, "election")
	assert.Equal(t, 0.3, cfg.ClusterBoost("election"))
}
