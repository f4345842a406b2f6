package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

func fixtureReport() *domain.Report {
	asOf := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	windows := domain.Windows(asOf, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))

	alice := domain.Trader{Username: "alice", Address: "0xaaa", InsiderRisk: domain.RiskHigh, Cluster: "crypto"}

	return &domain.Report{
		AsOf:    asOf,
		Windows: windows,
		Wallets: []domain.WalletReport{{
			Trader: alice,
			Positions: []domain.Position{
				{Market: "Fed cuts?", Slug: "fed-cut", Outcome: "Yes", Status: domain.StatusClosed,
					TotalBought: 5, TotalSold: 6, PnL: 1, AvgEntryPrice: 0.5, AvgExitPrice: 0.6,
					LastTrade: asOf.AddDate(0, 0, -10).Unix(), TradeCount: 2},
			},
			Summary: domain.WalletSummary{TotalTrades: 2, Closed: 1, WinRate: 1, TotalPnLClosed: 1},
		}},
		Stats: []domain.TraderStats{{
			Trader:  alice,
			Windows: map[string]domain.WindowStats{"3M": {Trades: 1, Sharpe: 1.0, WinRate: 100}},
		}},
		Weights: []domain.AllocationWeight{{
			Username: "alice", Address: "0xaaa",
			Sharpe3M: 1.0, Blended: 0.5, Tier: domain.TierB, RecommendedWeight: 1.5,
		}},
		Policies: map[string]domain.PolicySummary{
			"3M": {Equal: 2.5, Sharpe: 3.1, Optimal: 1.9, RecencyOptimal: 2.2, Trades: 1, WinRate: 100},
		},
		Leaderboards: []domain.Leaderboard{
			{Window: "3M",
				Top:    []domain.LeaderboardRow{{Username: "alice", Sharpe: 1.0, Trades: 1, WinRate: 100}},
				Bottom: []domain.LeaderboardRow{{Username: "alice", Sharpe: 1.0, Trades: 1, WinRate: 100}}},
		},
		Divergence: []domain.DivergenceEntry{
			{Username: "alice", AllTimeSharpe: 1.2, Sharpe3M: 1.0, Delta: -0.2, Trades3M: 1},
		},
		TierCounts:  map[string]int{domain.TierB: 1},
		ClosedCount: 1,
	}
}

func TestConsole_Compact(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false, 20)

	require.NoError(t, c.Publish(context.Background(), fixtureReport()))

	out := buf.String()
	assert.Contains(t, out, "1 traders")
	assert.Contains(t, out, "1 closed positions")
	assert.Contains(t, out, "3M: EQ 2.5% SH 3.1% OPT 1.9% REC 2.2%")
	// only one line in compact mode
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestConsole_Full(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, true, 20)

	require.NoError(t, c.Publish(context.Background(), fixtureReport()))

	out := buf.String()
	assert.Contains(t, out, "SHADOW INDEX — as of 2026-09-01")
	assert.Contains(t, out, "Strategy comparison")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "Top traders by Sharpe (3M)")
	assert.Contains(t, out, "Bottom traders (3M)")
	assert.Contains(t, out, "Divergence: biggest drop")
	assert.Contains(t, out, "Tier population")
}

func TestConsole_TopNCapsLeaderboard(t *testing.T) {
	rep := fixtureReport()
	rows := make([]domain.LeaderboardRow, 30)
	for i := range rows {
		rows[i] = domain.LeaderboardRow{Username: "t", Sharpe: float64(30 - i)}
	}
	rep.Leaderboards = []domain.Leaderboard{{Window: "3M", Top: rows}}

	var buf bytes.Buffer
	require.NoError(t, NewConsoleWriter(&buf, true, 5).Publish(context.Background(), rep))

	// row 6 never printed
	assert.NotContains(t, buf.String(), "25.000")
	assert.Contains(t, buf.String(), "26.000")
}
