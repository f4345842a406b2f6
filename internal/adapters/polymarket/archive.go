package polymarket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

// FileArchive stores each wallet's raw activity as a JSON array at
// <dir>/<username>.json, in the exact shape the data API returned it. It
// implements ports.FillSource for the batch pipeline.
type FileArchive struct {
	dir string
}

// NewFileArchive opens the archive directory. A missing directory is fatal:
// the fill history is a required input collection.
func NewFileArchive(dir string) (*FileArchive, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("polymarket.NewFileArchive: stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("polymarket.NewFileArchive: %q is not a directory", dir)
	}
	return &FileArchive{dir: dir}, nil
}

// NewFileArchiveMkdir opens the archive, creating the directory first. Used
// by fetch mode where an empty archive is a valid starting state.
func NewFileArchiveMkdir(dir string) (*FileArchive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("polymarket.NewFileArchiveMkdir: %q: %w", dir, err)
	}
	return &FileArchive{dir: dir}, nil
}

// Fills loads one wallet's archived activity. A wallet with no archive file
// degrades to an empty history with a warning; only unreadable or corrupt
// files are errors.
func (a *FileArchive) Fills(_ context.Context, trader domain.Trader) ([]domain.Fill, error) {
	path := a.walletPath(trader)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("no raw data for trader", "trader", trader.DisplayName(), "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("polymarket.Fills: read %q: %w", path, err)
	}

	var raw []rawActivity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("polymarket.Fills: parse %q: %w", path, err)
	}

	fills := make([]domain.Fill, len(raw))
	for i, r := range raw {
		fills[i] = r.toFill()
	}
	return fills, nil
}

// SaveRaw writes one wallet's freshly fetched activity to the archive,
// re-encoded but shape-preserving.
func (a *FileArchive) SaveRaw(trader domain.Trader, fills []domain.Fill) error {
	raw := make([]rawActivity, len(fills))
	for i, f := range fills {
		raw[i] = fromFill(f)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("polymarket.SaveRaw: marshal: %w", err)
	}

	path := a.walletPath(trader)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("polymarket.SaveRaw: write %q: %w", path, err)
	}
	return nil
}

func (a *FileArchive) walletPath(trader domain.Trader) string {
	return filepath.Join(a.dir, trader.DisplayName()+".json")
}

func fromFill(f domain.Fill) rawActivity {
	return rawActivity{
		Type:      f.EventType,
		Side:      f.Side,
		Slug:      f.MarketSlug,
		Outcome:   f.Outcome,
		Title:     f.Title,
		Price:     floatToNum(f.Price),
		USDCSize:  floatToNum(f.Notional),
		Size:      floatToNum(f.Size),
		Timestamp: json.Number(fmt.Sprintf("%d", f.Timestamp)),
	}
}

func floatToNum(f float64) json.Number {
	return json.Number(fmt.Sprintf("%g", f))
}
