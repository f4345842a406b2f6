package domain

import "sort"

// DivergenceEntry compares a trader's recent form against their long run.
// A negative delta means the trader has cooled off.
type DivergenceEntry struct {
	Username      string
	Address       string
	AllTimeSharpe float64
	Sharpe3M      float64
	Delta         float64
	Trades3M      int
}

// Divergence ranks traders by sharpe3M − sharpeALL, ascending (biggest drop
// first). Only traders with at least minAllTrades all-time trades qualify.
// It is a pure re-sort of already-computed stats.
func Divergence(traders []TraderStats, minAllTrades int) []DivergenceEntry {
	var out []DivergenceEntry
	for _, t := range traders {
		all := t.Windows["ALL"]
		if all.Trades < minAllTrades {
			continue
		}
		m3 := t.Windows["3M"]
		out = append(out, DivergenceEntry{
			Username:      t.Trader.DisplayName(),
			Address:       t.Trader.Address,
			AllTimeSharpe: all.Sharpe,
			Sharpe3M:      m3.Sharpe,
			Delta:         Round3(m3.Sharpe - all.Sharpe),
			Trades3M:      m3.Trades,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Delta < out[j].Delta })
	return out
}

// Reversed returns the entries in descending delta order (biggest improvement
// first) without mutating the input.
func Reversed(entries []DivergenceEntry) []DivergenceEntry {
	out := make([]DivergenceEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
