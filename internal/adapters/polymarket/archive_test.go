package polymarket

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

func TestFileArchive_RoundTrip(t *testing.T) {
	archive, err := NewFileArchiveMkdir(t.TempDir())
	require.NoError(t, err)

	trader := domain.Trader{Username: "alice", Address: "0xaaa"}
	fills := []domain.Fill{
		{
			MarketSlug: "fed-cut", Outcome: "Yes", Side: domain.SideBuy,
			EventType: domain.EventTrade, Price: 0.55, Notional: 11, Size: 20,
			Timestamp: 1700000000, Title: "Fed cuts?",
		},
		{
			MarketSlug: "fed-cut", Outcome: "Yes", EventType: domain.EventRedemption,
			Price: 1, Notional: 20, Size: 20, Timestamp: 1700100000,
		},
	}
	require.NoError(t, archive.SaveRaw(trader, fills))

	got, err := archive.Fills(context.Background(), trader)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, fills[0], got[0])
	assert.Equal(t, fills[1], got[1])
}

func TestFileArchive_MissingWalletDegradesToEmpty(t *testing.T) {
	archive, err := NewFileArchiveMkdir(t.TempDir())
	require.NoError(t, err)

	fills, err := archive.Fills(context.Background(), domain.Trader{Username: "ghost"})
	require.NoError(t, err)
	assert.Empty(t, fills)
}

func TestFileArchive_CorruptFileIsError(t *testing.T) {
	dir := t.TempDir()
	archive, err := NewFileArchive(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))
	_, err = archive.Fills(context.Background(), domain.Trader{Username: "bad"})
	assert.Error(t, err)
}

func TestNewFileArchive_MissingDir(t *testing.T) {
	_, err := NewFileArchive(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
