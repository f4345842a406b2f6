package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

func testReport() *domain.Report {
	asOf := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Report{
		AsOf:    asOf,
		Windows: domain.Windows(asOf, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)),
		Wallets: []domain.WalletReport{{
			Trader: domain.Trader{Username: "alice", Address: "0xaaa"},
			Positions: []domain.Position{
				{Market: "Fed cuts?", Slug: "fed-cut", Outcome: "Yes", Status: domain.StatusClosed, PnL: 1, TradeCount: 2},
				{Market: "BTC 100k?", Slug: "btc-100k", Outcome: "No", Status: domain.StatusOpen, TradeCount: 1},
			},
		}},
		Weights: []domain.AllocationWeight{{
			Username: "alice", Address: "0xaaa", Tier: domain.TierB, RecommendedWeight: 1.5,
		}},
		Policies: map[string]domain.PolicySummary{
			"3M": {Equal: 2.5, Trades: 1, WinRate: 100},
		},
		ClosedCount: 1,
	}
}

func TestSQLiteStorage_SaveAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")
	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveReport(ctx, testReport()))
	require.NoError(t, store.SaveReport(ctx, testReport()))

	summaries, err := store.RunSummaries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.NotEqual(t, summaries[0].ID, summaries[1].ID)
	assert.Equal(t, 1, summaries[0].Traders)
	assert.Equal(t, 1, summaries[0].ClosedPositions)
	assert.Equal(t, 1, summaries[0].Weights)
}

func TestSQLiteStorage_LimitRespected(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveReport(ctx, testReport()))
	}

	summaries, err := store.RunSummaries(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

func TestSQLiteStorage_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveReport(ctx, testReport()))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer reopened.Close()

	summaries, err := reopened.RunSummaries(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}
