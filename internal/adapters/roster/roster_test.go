package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

const rosterFixture = `[
	{"username":"alice","address":"0xaaa","insiderRisk":"HIGH","cluster":"crypto","predictions":120},
	{"address":"0xbbb"}
]`

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "traders.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTraders_Load(t *testing.T) {
	r := NewFileRoster(writeRoster(t, rosterFixture))

	traders, err := r.Traders(context.Background())
	require.NoError(t, err)
	require.Len(t, traders, 2)

	assert.Equal(t, domain.Trader{
		Username:    "alice",
		Address:     "0xaaa",
		InsiderRisk: domain.RiskHigh,
		Cluster:     "crypto",
		Predictions: 120,
	}, traders[0])

	// sparse entries stay sparse; defaults are applied downstream
	assert.Equal(t, "0xbbb", traders[1].Address)
	assert.Empty(t, traders[1].InsiderRisk)
}

func TestTraders_MissingFile(t *testing.T) {
	r := NewFileRoster(filepath.Join(t.TempDir(), "nope.json"))
	_, err := r.Traders(context.Background())
	assert.Error(t, err)
}

func TestTraders_BadJSON(t *testing.T) {
	r := NewFileRoster(writeRoster(t, "{oops"))
	_, err := r.Traders(context.Background())
	assert.Error(t, err)
}
