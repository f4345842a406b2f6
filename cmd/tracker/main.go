package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"

	"github.com/jadesullie/polymarket-shadow-tracker/config"
	"github.com/jadesullie/polymarket-shadow-tracker/internal/adapters/polymarket"
	"github.com/jadesullie/polymarket-shadow-tracker/internal/adapters/report"
	"github.com/jadesullie/polymarket-shadow-tracker/internal/adapters/roster"
	"github.com/jadesullie/polymarket-shadow-tracker/internal/adapters/storage"
	"github.com/jadesullie/polymarket-shadow-tracker/internal/application/analysis"
	"github.com/jadesullie/polymarket-shadow-tracker/internal/ports"
)

// fetchHeadroom is added to a trader's known prediction count so the fetch
// picks up fills made since the roster was last curated.
const fetchHeadroom = 200

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	fetch := flag.Bool("fetch", false, "refresh the raw fill archive from the data API before analysis")
	full := flag.Bool("report", false, "print full tables (default: compact 1-line)")
	markdown := flag.Bool("markdown", false, "write the strategy reanalysis markdown report")
	runs := flag.Int("runs", 0, "list the N most recent stored runs and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	topN := flag.Int("top", 0, "leaderboard size (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *topN > 0 {
		cfg.Analysis.TopN = *topN
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *runs > 0 {
		listRuns(ctx, cfg.Storage.DSN, *runs)
		return
	}

	slog.Info("tracker starting",
		"config", *configPath,
		"roster", cfg.Paths.Roster,
		"raw_dir", cfg.Paths.RawDir,
		"fetch", *fetch,
	)

	traders := roster.NewFileRoster(cfg.Paths.Roster)

	var archive *polymarket.FileArchive
	if *fetch {
		archive, err = polymarket.NewFileArchiveMkdir(cfg.Paths.RawDir)
		if err != nil {
			slog.Error("failed to prepare raw archive", "err", err, "dir", cfg.Paths.RawDir)
			os.Exit(1)
		}
		client := polymarket.NewClient(cfg.API.DataBase)
		if err := fetchAll(ctx, client, archive, traders, cfg.Analysis.MaxFills); err != nil {
			slog.Error("fetch failed", "err", err)
			os.Exit(1)
		}
	} else {
		archive, err = polymarket.NewFileArchive(cfg.Paths.RawDir)
		if err != nil {
			slog.Error("raw archive not found (run with -fetch first)", "err", err, "dir", cfg.Paths.RawDir)
			os.Exit(1)
		}
	}

	pipeCfg, err := pipelineConfig(cfg)
	if err != nil {
		slog.Error("invalid analysis config", "err", err)
		os.Exit(1)
	}

	pipe, err := analysis.New(pipeCfg, traders, archive)
	if err != nil {
		slog.Error("failed to build pipeline", "err", err)
		os.Exit(1)
	}

	rep, err := pipe.Run(ctx)
	if err != nil {
		slog.Error("analysis failed", "err", err)
		os.Exit(1)
	}

	var store ports.ResultStore
	store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.SaveReport(ctx, rep); err != nil {
		slog.Error("failed to persist run", "err", err)
		os.Exit(1)
	}

	sinks := []ports.Publisher{report.NewConsole(*full, cfg.Analysis.TopN)}
	if *markdown {
		sinks = append(sinks, report.NewMarkdown(cfg.Paths.Markdown))
	}
	jsonSink, err := report.NewJSONSink(cfg.Paths.JSONDir)
	if err != nil {
		slog.Error("failed to prepare JSON output dir", "err", err, "dir", cfg.Paths.JSONDir)
		os.Exit(1)
	}
	sinks = append(sinks, jsonSink)

	for _, sink := range sinks {
		if err := sink.Publish(ctx, rep); err != nil {
			slog.Error("publish failed", "err", err)
			os.Exit(1)
		}
	}

	slog.Info("tracker finished",
		"traders", len(rep.Wallets),
		"closed_positions", rep.ClosedCount,
		"weights", len(rep.Weights),
	)
}

// pipelineConfig maps the YAML config onto the analysis parameterization.
func pipelineConfig(cfg *config.Config) (analysis.Config, error) {
	asOf, err := cfg.AsOfTime()
	if err != nil {
		return analysis.Config{}, err
	}
	anchor, err := cfg.AllAnchorTime()
	if err != nil {
		return analysis.Config{}, err
	}

	pc := analysis.DefaultConfig()
	pc.Workers = cfg.Analysis.Workers
	pc.TopN = cfg.Analysis.TopN
	pc.MinRankTrades = cfg.Analysis.MinRankTrades
	pc.MinDivergenceTrades = cfg.Analysis.MinDivergenceTrades
	pc.NoisePattern = cfg.Analysis.NoisePattern
	pc.AsOf = asOf
	pc.AllAnchor = anchor
	pc.Sim.StartingCapital = cfg.Analysis.StartingCapital
	pc.Sim.BasePosition = cfg.Analysis.BasePosition
	pc.Sim.CapFraction = cfg.Analysis.CapFraction
	if len(cfg.Analysis.ActiveClusters) > 0 {
		pc.Blend.ActiveClusters = cfg.Analysis.ActiveClusters
	}
	if len(cfg.Analysis.PlayedOutClusters) > 0 {
		pc.Blend.PlayedOutClusters = cfg.Analysis.PlayedOutClusters
	}
	return pc, nil
}

// fetchAll refreshes the raw archive for every roster trader. Each wallet is
// capped at maxFills, tightened to predictions+headroom when the roster knows
// the trader is smaller than the cap.
func fetchAll(ctx context.Context, client ports.ActivityProvider, archive *polymarket.FileArchive, provider ports.RosterProvider, maxFills int) error {
	traders, err := provider.Traders(ctx)
	if err != nil {
		return err
	}

	for _, t := range traders {
		limit := maxFills
		if t.Predictions > 0 && t.Predictions < maxFills {
			if capped := t.Predictions + fetchHeadroom; capped < limit {
				limit = capped
			}
		}

		fills, err := client.WalletActivity(ctx, t.Address, limit)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", t.DisplayName(), err)
		}
		if err := archive.SaveRaw(t, fills); err != nil {
			return fmt.Errorf("archive %s: %w", t.DisplayName(), err)
		}
		slog.Info("fetched wallet", "trader", t.DisplayName(), "fills", len(fills), "cap", limit)
	}
	return nil
}

func listRuns(ctx context.Context, dsn string, n int) {
	store, err := storage.NewSQLiteStorage(dsn)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", dsn)
		os.Exit(1)
	}
	defer store.Close()

	summaries, err := store.RunSummaries(ctx, n)
	if err != nil {
		slog.Error("failed to list runs", "err", err)
		os.Exit(1)
	}
	if len(summaries) == 0 {
		fmt.Println("no stored runs")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Ran at", "As of", "Traders", "Closed", "Weights", "Run ID")
	for _, s := range summaries {
		table.Append(
			s.RanAt.Format("2006-01-02 15:04"),
			s.AsOf.Format("2006-01-02"),
			fmt.Sprintf("%d", s.Traders),
			fmt.Sprintf("%d", s.ClosedPositions),
			fmt.Sprintf("%d", s.Weights),
			s.ID,
		)
	}
	table.Render()
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
