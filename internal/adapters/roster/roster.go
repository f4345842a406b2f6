// Package roster loads the tracked-trader database from a JSON file.
package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

// rawTrader mirrors one roster entry on disk.
type rawTrader struct {
	Username    string `json:"username"`
	Address     string `json:"address"`
	InsiderRisk string `json:"insiderRisk"`
	Cluster     string `json:"cluster"`
	Predictions int    `json:"predictions"`
}

// FileRoster implements ports.RosterProvider over a JSON file.
type FileRoster struct {
	path string
}

// NewFileRoster wraps the roster path. The file is read on each Traders call
// so a long-lived process sees roster edits.
func NewFileRoster(path string) *FileRoster {
	return &FileRoster{path: path}
}

// Traders loads the roster. A missing or unparsable file is fatal for the
// run: without the roster there is nothing to analyze.
func (r *FileRoster) Traders(_ context.Context) ([]domain.Trader, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("roster.Traders: read %q: %w", r.path, err)
	}

	var raw []rawTrader
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("roster.Traders: parse %q: %w", r.path, err)
	}

	traders := make([]domain.Trader, len(raw))
	for i, t := range raw {
		traders[i] = domain.Trader{
			Username:    t.Username,
			Address:     t.Address,
			InsiderRisk: t.InsiderRisk,
			Cluster:     t.Cluster,
			Predictions: t.Predictions,
		}
	}
	return traders, nil
}
