package domain

import "sort"

// LeaderboardRow is one trader's line in a per-window ranking.
type LeaderboardRow struct {
	Username    string
	Address     string
	Sharpe      float64
	Trades      int
	WinRate     float64
	AvgReturn   float64
	TotalPnL    float64
	InsiderRisk string
	Cluster     string
}

// Rank builds the top-n and bottom-n leaderboards for one window. Traders
// with fewer than minTrades qualifying trades in the window are excluded.
// Top is sorted best-first; bottom worst-first.
func Rank(traders []TraderStats, window string, minTrades, n int) (top, bottom []LeaderboardRow) {
	var rows []LeaderboardRow
	for _, t := range traders {
		s, ok := t.Windows[window]
		if !ok || s.Trades < minTrades {
			continue
		}
		rows = append(rows, LeaderboardRow{
			Username:    t.Trader.DisplayName(),
			Address:     t.Trader.Address,
			Sharpe:      s.Sharpe,
			Trades:      s.Trades,
			WinRate:     s.WinRate,
			AvgReturn:   s.AvgReturn,
			TotalPnL:    s.TotalPnL,
			InsiderRisk: t.Trader.InsiderRisk,
			Cluster:     t.Trader.Cluster,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Sharpe > rows[j].Sharpe })

	if len(rows) > n {
		top = rows[:n]
	} else {
		top = rows
	}

	k := n
	if len(rows) < k {
		k = len(rows)
	}
	for i := len(rows) - 1; i >= len(rows)-k; i-- {
		bottom = append(bottom, rows[i])
	}
	return top, bottom
}

// TierCounts tallies the tier population across all allocation weights.
func TierCounts(weights []AllocationWeight) map[string]int {
	counts := make(map[string]int)
	for _, w := range weights {
		counts[w.Tier]++
	}
	return counts
}
