package domain

import "math"

// WindowStats is one trader's performance inside one window. Rate fields are
// percentage-scaled for reporting; TotalPnL is the raw sum.
type WindowStats struct {
	Trades     int
	WinRate    float64 // % of positions with pnl > 0, 1dp
	AvgReturn  float64 // mean return × 100, 2dp
	Volatility float64 // population std of returns × 100, 2dp
	Sharpe     float64 // mean/std, 3dp — see degenerate branch below
	TotalPnL   float64 // 2dp
}

// CalcStats scores one trader/window pair from its per-position returns and
// P&Ls. Empty input yields the zero value rather than an error.
//
// Variance is the population variance (divide by n). When the std collapses
// to 0 the sharpe degenerates to 1.0 for a positive mean and 0 otherwise, so
// a single winning trade scores a full 1.0 instead of being undefined.
func CalcStats(returns, pnls []float64) WindowStats {
	n := len(returns)
	if n == 0 {
		return WindowStats{}
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(n)

	std := 0.0
	if n > 1 {
		var ss float64
		for _, r := range returns {
			d := r - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n))
	}

	sharpe := 0.0
	switch {
	case std > 0:
		sharpe = mean / std
	case mean > 0:
		sharpe = 1.0
	}

	wins := 0
	var totalPnL float64
	for _, p := range pnls {
		if p > 0 {
			wins++
		}
		totalPnL += p
	}

	return WindowStats{
		Trades:     n,
		WinRate:    round1(float64(wins) / float64(n) * 100),
		AvgReturn:  Round2(mean * 100),
		Volatility: Round2(std * 100),
		Sharpe:     Round3(sharpe),
		TotalPnL:   Round2(totalPnL),
	}
}

// TraderStats bundles one trader's stats across all windows.
type TraderStats struct {
	Trader  Trader
	Windows map[string]WindowStats
}
