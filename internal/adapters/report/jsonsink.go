package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

// JSONSink implements ports.Publisher by writing the dashboard data files:
// trade-history.json, trader-weights.json and closed-positions.json.
type JSONSink struct {
	dir string
}

// NewJSONSink creates the output directory if needed.
func NewJSONSink(dir string) (*JSONSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report.NewJSONSink: %q: %w", dir, err)
	}
	return &JSONSink{dir: dir}, nil
}

type jsonPosition struct {
	Market        string  `json:"market"`
	Slug          string  `json:"slug"`
	Outcome       string  `json:"outcome"`
	Status        string  `json:"status"`
	TotalBought   float64 `json:"totalBought"`
	TotalSold     float64 `json:"totalSold"`
	PnL           float64 `json:"pnl"`
	AvgEntryPrice float64 `json:"avgEntryPrice"`
	AvgExitPrice  float64 `json:"avgExitPrice"`
	FirstTrade    int64   `json:"firstTrade"`
	LastTrade     int64   `json:"lastTrade"`
	TradeCount    int     `json:"tradeCount"`
}

type jsonSummary struct {
	TotalTrades     int     `json:"totalTrades"`
	ClosedPositions int     `json:"closedPositions"`
	OpenPositions   int     `json:"openPositions"`
	WinRate         float64 `json:"winRate"`
	TotalPnLClosed  float64 `json:"totalPnlClosed"`
}

type jsonWallet struct {
	Address string         `json:"address"`
	Trades  []jsonPosition `json:"trades"`
	Summary jsonSummary    `json:"summary"`
}

type jsonWeight struct {
	Username          string  `json:"username"`
	Sharpe3M          float64 `json:"sharpe3m"`
	Sharpe6M          float64 `json:"sharpe6m"`
	Sharpe1Y          float64 `json:"sharpe1y"`
	RecommendedWeight float64 `json:"recommendedWeight"`
	Tier              string  `json:"tier"`
}

// Publish writes all three files. Any write failure is fatal.
func (s *JSONSink) Publish(_ context.Context, rep *domain.Report) error {
	history := make(map[string]jsonWallet, len(rep.Wallets))
	display := make(map[string][]DisplayPosition, len(rep.Wallets))
	for _, w := range rep.Wallets {
		positions := make([]jsonPosition, len(w.Positions))
		for i, p := range w.Positions {
			positions[i] = jsonPosition{
				Market:        p.Market,
				Slug:          p.Slug,
				Outcome:       p.Outcome,
				Status:        p.Status,
				TotalBought:   p.TotalBought,
				TotalSold:     p.TotalSold,
				PnL:           p.PnL,
				AvgEntryPrice: p.AvgEntryPrice,
				AvgExitPrice:  p.AvgExitPrice,
				FirstTrade:    p.FirstTrade,
				LastTrade:     p.LastTrade,
				TradeCount:    p.TradeCount,
			}
		}
		name := w.Trader.DisplayName()
		history[name] = jsonWallet{
			Address: w.Trader.Address,
			Trades:  positions,
			Summary: jsonSummary{
				TotalTrades:     w.Summary.TotalTrades,
				ClosedPositions: w.Summary.Closed,
				OpenPositions:   w.Summary.Open,
				WinRate:         w.Summary.WinRate,
				TotalPnLClosed:  w.Summary.TotalPnLClosed,
			},
		}
		display[name] = BuildDisplay(w.Positions, displayTopN)
	}

	weights := make(map[string]jsonWeight, len(rep.Weights))
	for _, w := range rep.Weights {
		weights[w.Address] = jsonWeight{
			Username:          w.Username,
			Sharpe3M:          w.Sharpe3M,
			Sharpe6M:          w.Sharpe6M,
			Sharpe1Y:          w.Sharpe1Y,
			RecommendedWeight: w.RecommendedWeight,
			Tier:              w.Tier,
		}
	}

	if err := s.writeFile("trade-history.json", history); err != nil {
		return err
	}
	if err := s.writeFile("trader-weights.json", weights); err != nil {
		return err
	}
	return s.writeFile("closed-positions.json", display)
}

func (s *JSONSink) writeFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("report.JSONSink: marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report.JSONSink: write %q: %w", path, err)
	}
	return nil
}
