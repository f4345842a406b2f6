package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

func TestToFill_Defaults(t *testing.T) {
	// empty type means TRADE; title falls back to question
	f := rawActivity{Question: "Will it rain?", Slug: "rain"}.toFill()
	assert.Equal(t, domain.EventTrade, f.EventType)
	assert.Equal(t, "Will it rain?", f.Title)
	assert.Equal(t, "rain", f.MarketSlug)
	assert.Equal(t, 0.0, f.Price)
}

func TestToFill_StringNumbers(t *testing.T) {
	var r rawActivity
	require.NoError(t, json.Unmarshal([]byte(`{
		"type":"TRADE","side":"BUY","slug":"m",
		"price":"0.55","usdcSize":"11","size":"20","timestamp":"1700000000"
	}`), &r))

	f := r.toFill()
	assert.InDelta(t, 0.55, f.Price, 0.0001)
	assert.InDelta(t, 11.0, f.Notional, 0.001)
	assert.Equal(t, int64(1700000000), f.Timestamp)
}

func TestNumToEpoch_Milliseconds(t *testing.T) {
	assert.Equal(t, int64(1700000000), numToEpoch(json.Number("1700000000000")))
	assert.Equal(t, int64(1700000000), numToEpoch(json.Number("1700000000")))
	assert.Equal(t, int64(1700000000), numToEpoch(json.Number("1.7e9")))
	assert.Equal(t, int64(0), numToEpoch(json.Number("")))
	assert.Equal(t, int64(0), numToEpoch(json.Number("garbage")))
}

func TestWalletActivity_Paginates(t *testing.T) {
	// two full pages then a short one
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		offset := r.URL.Query().Get("offset")

		n := activityPerPage
		if offset == "200" {
			n = 5
		}
		records := make([]rawActivity, n)
		for i := range records {
			records[i] = rawActivity{Type: "TRADE", Side: "BUY", Slug: fmt.Sprintf("m-%s-%d", offset, i)}
		}
		require.NoError(t, json.NewEncoder(w).Encode(records))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	fills, err := client.WalletActivity(context.Background(), "0xabc", 1000)
	require.NoError(t, err)
	assert.Len(t, fills, 205)
	assert.Equal(t, 3, pages)
}

func TestWalletActivity_StopsAtCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		records := make([]rawActivity, activityPerPage)
		require.NoError(t, json.NewEncoder(w).Encode(records))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	fills, err := client.WalletActivity(context.Background(), "0xabc", 150)
	require.NoError(t, err)
	// cap is page-granular: two pages fetched, loop exits at offset 200
	assert.Len(t, fills, 200)
}

func TestWalletActivity_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.WalletActivity(context.Background(), "0xabc", 100)
	assert.Error(t, err)
}
