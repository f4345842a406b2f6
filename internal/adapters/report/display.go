// Package report renders the structured analysis report to its sinks:
// console tables, a markdown document, and the JSON files downstream
// dashboards consume. Nothing here computes; it only formats.
package report

import (
	"math"
	"time"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

const (
	displayTitleLen = 80
	displayTopN     = 15
)

// DisplayPosition is one row of a trader's closed-positions display list,
// shaped for the dashboard.
type DisplayPosition struct {
	Market     string  `json:"market"`
	Side       string  `json:"side"`
	PnL        int64   `json:"pnl"`
	Outcome    string  `json:"outcome"` // Won | Lost
	EntryPrice float64 `json:"entryPrice"`
	ExitPrice  float64 `json:"exitPrice"`
	Date       string  `json:"date"` // calendar day of the exit
}

// BuildDisplay converts a wallet's closed positions into the top-n display
// list, preserving the aggregation order (largest |pnl| first).
func BuildDisplay(positions []domain.Position, n int) []DisplayPosition {
	out := []DisplayPosition{}
	for _, p := range positions {
		if !p.Closed() {
			continue
		}
		if len(out) >= n {
			break
		}

		side := p.Outcome
		if side == "" {
			side = "YES"
		}
		result := "Lost"
		if p.PnL > 0 {
			result = "Won"
		}

		out = append(out, DisplayPosition{
			Market:     truncate(p.Market, displayTitleLen),
			Side:       side,
			PnL:        int64(math.Round(p.PnL)),
			Outcome:    result,
			EntryPrice: p.AvgEntryPrice,
			ExitPrice:  p.AvgExitPrice,
			Date:       dayString(p.LastTrade),
		})
	}
	return out
}

func dayString(epoch int64) string {
	if epoch == 0 {
		return ""
	}
	return time.Unix(epoch, 0).UTC().Format("2006-01-02")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
