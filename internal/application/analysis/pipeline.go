package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"time"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
	"github.com/jadesullie/polymarket-shadow-tracker/internal/ports"
)

// Config controls one analysis run. Everything that was a tunable constant in
// the research notebooks lives here and is passed down explicitly.
type Config struct {
	Workers             int
	TopN                int
	MinRankTrades       int
	MinDivergenceTrades int
	NoisePattern        string // case-insensitive; empty disables the filter
	AsOf                time.Time
	AllAnchor           time.Time
	Sim                 domain.SimConfig
	Blend               domain.BlendConfig
}

// DefaultConfig returns the production parameterization.
func DefaultConfig() Config {
	return Config{
		TopN:                20,
		MinRankTrades:       3,
		MinDivergenceTrades: 5,
		NoisePattern:        `Up or Down.*\d+:\d+(AM|PM)`,
		AsOf:                time.Now().UTC(),
		AllAnchor:           time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		Sim:                 domain.DefaultSimConfig(),
		Blend:               domain.DefaultBlendConfig(),
	}
}

// Pipeline runs the full batch: aggregate per wallet, score per window, blend
// weights, replay the capital simulation, rank and diff.
type Pipeline struct {
	cfg    Config
	roster ports.RosterProvider
	fills  ports.FillSource
	noise  *regexp.Regexp
}

// New builds a Pipeline. The noise pattern is compiled up front so a bad
// config fails the run instead of silently matching nothing.
func New(cfg Config, roster ports.RosterProvider, fills ports.FillSource) (*Pipeline, error) {
	var noise *regexp.Regexp
	if cfg.NoisePattern != "" {
		re, err := regexp.Compile("(?i)" + cfg.NoisePattern)
		if err != nil {
			return nil, fmt.Errorf("analysis.New: noise pattern: %w", err)
		}
		noise = re
	}
	return &Pipeline{cfg: cfg, roster: roster, fills: fills, noise: noise}, nil
}

// Run executes one batch over the full fill history and returns the
// structured report.
func (p *Pipeline) Run(ctx context.Context) (*domain.Report, error) {
	traders, err := p.roster.Traders(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis.Run: load roster: %w", err)
	}
	if len(traders) == 0 {
		return nil, fmt.Errorf("analysis.Run: roster is empty")
	}

	start := time.Now()
	wallets, err := aggregateWallets(ctx, p.fills, traders, p.cfg.Workers)
	if err != nil {
		return nil, err
	}

	// Cross-trader closed-position stream, noise filtered, exit-ordered.
	var all []domain.TraderPosition
	for _, w := range wallets {
		for _, tp := range w.closed {
			if p.noise != nil && p.noise.MatchString(tp.Market) {
				continue
			}
			all = append(all, tp)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].LastTrade < all[j].LastTrade })

	windows := domain.Windows(p.cfg.AsOf, p.cfg.AllAnchor)
	byAddr := make(map[string][]domain.TraderPosition)
	for _, tp := range all {
		byAddr[tp.Address] = append(byAddr[tp.Address], tp)
	}

	// Per-trader per-window stats, roster order.
	stats := make([]domain.TraderStats, 0, len(traders))
	statsByAddr := make(map[string]domain.TraderStats)
	for _, w := range wallets {
		ts := domain.TraderStats{
			Trader:  w.report.Trader,
			Windows: make(map[string]domain.WindowStats, len(windows)),
		}
		mine := byAddr[w.report.Trader.Address]
		for _, win := range windows {
			sel := domain.SelectWindow(mine, win.Start)
			returns := make([]float64, len(sel))
			pnls := make([]float64, len(sel))
			for i, tp := range sel {
				returns[i] = tp.Ret
				pnls[i] = tp.PnL
			}
			ts.Windows[win.Name] = domain.CalcStats(returns, pnls)
		}
		stats = append(stats, ts)
		statsByAddr[w.report.Trader.Address] = ts
	}

	// Allocation weights for every trader with at least one qualifying
	// closed position.
	var weights []domain.AllocationWeight
	weightByAddr := make(map[string]float64)
	for _, ts := range stats {
		addr := ts.Trader.Address
		if len(byAddr[addr]) == 0 {
			continue
		}
		w := p.cfg.Blend.Blend(ts.Trader,
			ts.Windows["3M"].Sharpe,
			ts.Windows["6M"].Sharpe,
			ts.Windows["1Y"].Sharpe,
		)
		weights = append(weights, w)
		weightByAddr[addr] = w.RecommendedWeight
	}

	// Capital replay and leaderboards, per window.
	policies := make(map[string]domain.PolicySummary, len(windows))
	leaderboards := make([]domain.Leaderboard, 0, len(windows))
	for _, win := range windows {
		sel := domain.SelectWindow(all, win.Start)

		sharpeByAddr := make(map[string]float64)
		for _, tp := range sel {
			if _, ok := sharpeByAddr[tp.Address]; ok {
				continue
			}
			sharpeByAddr[tp.Address] = statsByAddr[tp.Address].Windows[win.Name].Sharpe
		}

		policies[win.Name] = domain.Simulate(p.cfg.Sim, p.cfg.Blend, sel, sharpeByAddr, weightByAddr)

		top, bottom := domain.Rank(stats, win.Name, p.cfg.MinRankTrades, p.cfg.TopN)
		leaderboards = append(leaderboards, domain.Leaderboard{Window: win.Name, Top: top, Bottom: bottom})
	}

	reports := make([]domain.WalletReport, len(wallets))
	for i, w := range wallets {
		reports[i] = w.report
	}

	rep := &domain.Report{
		AsOf:         p.cfg.AsOf,
		Windows:      windows,
		Wallets:      reports,
		Stats:        stats,
		Weights:      weights,
		Policies:     policies,
		Leaderboards: leaderboards,
		Divergence:   domain.Divergence(stats, p.cfg.MinDivergenceTrades),
		TierCounts:   domain.TierCounts(weights),
		ClosedCount:  len(all),
	}

	slog.Info("analysis complete",
		"traders", len(traders),
		"closed_positions", len(all),
		"weights", len(weights),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return rep, nil
}
