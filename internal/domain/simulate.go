package domain

import (
	"math"
	"sort"
	"sync"
)

// SimConfig parameterizes the capital replay.
type SimConfig struct {
	StartingCapital float64
	BasePosition    float64
	CapFraction     float64 // max share of current capital per position
	SharpeCap       float64 // cap on the sharpe-weight multiplier
	SharpeFloor     float64 // nominal multiplier for non-positive sharpes
	DefaultSharpe   float64 // traders missing from the sharpe table
	DefaultWeight   float64 // traders missing a recommended weight
}

// DefaultSimConfig returns the production parameterization.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		StartingCapital: 10000,
		BasePosition:    1000,
		CapFraction:     0.10,
		SharpeCap:       3,
		SharpeFloor:     0.1,
		DefaultSharpe:   1,
		DefaultWeight:   1,
	}
}

// PolicySummary compares the four allocation policies over one window's
// position stream. Percentages are return on starting capital; the win rate
// is a property of the stream, not of any policy.
type PolicySummary struct {
	Equal          float64
	Sharpe         float64
	Optimal        float64
	RecencyOptimal float64
	Trades         int
	WinRate        float64
}

// Simulate replays the positions under the four policies.
//
// Positions must arrive in ascending exit-timestamp order: Optimal and
// RecencyOptimal compound against current capital, so the trajectory is
// path-dependent. Simulate sorts defensively but callers should feed the
// already-merged chronological stream. The four replays run concurrently;
// each one is strictly sequential over the shared read-only slice.
//
// sharpeByAddr holds each trader's raw sharpe for this window. A positive
// sharpe is floored at SharpeFloor; a non-positive sharpe still receives the
// nominal floor rather than 0. That quirk is part of the contract.
func Simulate(
	cfg SimConfig,
	blend BlendConfig,
	positions []TraderPosition,
	sharpeByAddr map[string]float64,
	weightByAddr map[string]float64,
) PolicySummary {
	if len(positions) == 0 {
		return PolicySummary{}
	}

	ordered := make([]TraderPosition, len(positions))
	copy(ordered, positions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LastTrade < ordered[j].LastTrade
	})

	sharpeWeight := func(addr string) float64 {
		raw, ok := sharpeByAddr[addr]
		if !ok {
			return math.Min(cfg.DefaultSharpe, cfg.SharpeCap)
		}
		w := cfg.SharpeFloor
		if raw > 0 {
			w = math.Max(cfg.SharpeFloor, raw)
		}
		return math.Min(w, cfg.SharpeCap)
	}

	var equal, sharpe, optimal, recency float64
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		capital := cfg.StartingCapital
		for _, p := range ordered {
			capital += cfg.BasePosition * p.Ret
		}
		equal = capital
	}()

	go func() {
		defer wg.Done()
		capital := cfg.StartingCapital
		for _, p := range ordered {
			capital += cfg.BasePosition * sharpeWeight(p.Address) * p.Ret
		}
		sharpe = capital
	}()

	go func() {
		defer wg.Done()
		capital := cfg.StartingCapital
		for _, p := range ordered {
			w := sharpeWeight(p.Address) *
				blend.InsiderMultiplier(p.InsiderRisk) *
				blend.ClusterBoost(p.Cluster)
			size := math.Min(cfg.BasePosition*w, capital*cfg.CapFraction)
			capital += size * p.Ret
		}
		optimal = capital
	}()

	go func() {
		defer wg.Done()
		capital := cfg.StartingCapital
		for _, p := range ordered {
			w, ok := weightByAddr[p.Address]
			if !ok {
				w = cfg.DefaultWeight
			}
			size := math.Min(cfg.BasePosition*w, capital*cfg.CapFraction)
			capital += size * p.Ret
		}
		recency = capital
	}()

	wg.Wait()

	wins := 0
	for _, p := range ordered {
		if p.PnL > 0 {
			wins++
		}
	}
	n := len(ordered)

	pct := func(capital float64) float64 {
		return round1((capital/cfg.StartingCapital - 1) * 100)
	}

	return PolicySummary{
		Equal:          pct(equal),
		Sharpe:         pct(sharpe),
		Optimal:        pct(optimal),
		RecencyOptimal: pct(recency),
		Trades:         n,
		WinRate:        round1(float64(wins) / float64(n) * 100),
	}
}
