package domain

import "time"

// WalletReport is one wallet's aggregated position list plus its rollup.
type WalletReport struct {
	Trader    Trader
	Positions []Position
	Summary   WalletSummary
}

// Leaderboard holds one window's top/bottom rankings.
type Leaderboard struct {
	Window string
	Top    []LeaderboardRow
	Bottom []LeaderboardRow
}

// Report is the structured output of one analysis run. Renderers (console,
// markdown, JSON, storage) consume this; nothing in the core emits text.
type Report struct {
	AsOf         time.Time
	Windows      []Window
	Wallets      []WalletReport // roster order
	Stats        []TraderStats  // roster order
	Weights      []AllocationWeight
	Policies     map[string]PolicySummary // by window name
	Leaderboards []Leaderboard
	Divergence   []DivergenceEntry
	TierCounts   map[string]int
	ClosedCount  int // cross-trader closed positions after the noise filter
}
