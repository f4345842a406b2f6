package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSink_PublishWritesAllFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONSink(dir)
	require.NoError(t, err)

	require.NoError(t, s.Publish(context.Background(), fixtureReport()))

	var history map[string]jsonWallet
	readJSON(t, filepath.Join(dir, "trade-history.json"), &history)
	require.Contains(t, history, "alice")
	assert.Equal(t, "0xaaa", history["alice"].Address)
	require.Len(t, history["alice"].Trades, 1)
	assert.Equal(t, "fed-cut", history["alice"].Trades[0].Slug)
	assert.Equal(t, 1, history["alice"].Summary.ClosedPositions)

	var weights map[string]jsonWeight
	readJSON(t, filepath.Join(dir, "trader-weights.json"), &weights)
	require.Contains(t, weights, "0xaaa")
	assert.Equal(t, "alice", weights["0xaaa"].Username)
	assert.InDelta(t, 1.5, weights["0xaaa"].RecommendedWeight, 0.001)
	assert.Equal(t, "B", weights["0xaaa"].Tier)

	var display map[string][]DisplayPosition
	readJSON(t, filepath.Join(dir, "closed-positions.json"), &display)
	require.Contains(t, display, "alice")
	require.Len(t, display["alice"], 1)
	assert.Equal(t, "Won", display["alice"][0].Outcome)
}

func TestNewJSONSink_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := NewJSONSink(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}
