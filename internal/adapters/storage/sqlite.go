package storage

// sqlite.go — run history persistence.
//
// Each analysis run writes one row to `runs` plus its positions, weights and
// per-window policy results, keyed by a run UUID. Old runs are pruned on open
// so the database stays small across months of daily batches.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id               TEXT PRIMARY KEY,
    ran_at           DATETIME NOT NULL,
    as_of            DATETIME NOT NULL,
    traders          INTEGER  NOT NULL DEFAULT 0,
    closed_positions INTEGER  NOT NULL DEFAULT 0,
    weights          INTEGER  NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS positions (
    run_id      TEXT NOT NULL,
    address     TEXT NOT NULL,
    market_key  TEXT NOT NULL,
    market      TEXT,
    outcome     TEXT,
    status      TEXT NOT NULL,
    total_bought REAL NOT NULL DEFAULT 0,
    total_sold   REAL NOT NULL DEFAULT 0,
    pnl          REAL NOT NULL DEFAULT 0,
    avg_entry    REAL NOT NULL DEFAULT 0,
    avg_exit     REAL NOT NULL DEFAULT 0,
    trade_count  INTEGER NOT NULL DEFAULT 0,
    first_trade  INTEGER NOT NULL DEFAULT 0,
    last_trade   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, address, market_key)
);

CREATE TABLE IF NOT EXISTS weights (
    run_id      TEXT NOT NULL,
    address     TEXT NOT NULL,
    username    TEXT,
    sharpe_3m   REAL NOT NULL DEFAULT 0,
    sharpe_6m   REAL NOT NULL DEFAULT 0,
    sharpe_1y   REAL NOT NULL DEFAULT 0,
    blended     REAL NOT NULL DEFAULT 0,
    tier        TEXT NOT NULL,
    recommended REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, address)
);

CREATE TABLE IF NOT EXISTS policies (
    run_id      TEXT NOT NULL,
    win         TEXT NOT NULL,
    equal_pct   REAL NOT NULL DEFAULT 0,
    sharpe_pct  REAL NOT NULL DEFAULT 0,
    optimal_pct REAL NOT NULL DEFAULT 0,
    recency_pct REAL NOT NULL DEFAULT 0,
    trades      INTEGER NOT NULL DEFAULT 0,
    win_rate    REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, win)
);

CREATE INDEX IF NOT EXISTS idx_runs_at       ON runs(ran_at DESC);
CREATE INDEX IF NOT EXISTS idx_positions_run ON positions(run_id);
CREATE INDEX IF NOT EXISTS idx_weights_run   ON weights(run_id);
`

const retentionRuns = 90 * 24 * time.Hour

// SQLiteStorage implements ports.ResultStore using SQLite (pure Go, no CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at the given path,
// applies the schema and prunes old runs.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveReport persists one analysis run atomically and returns no run handle;
// the run row carries a fresh UUID.
func (s *SQLiteStorage) SaveReport(ctx context.Context, report *domain.Report) error {
	runID := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveReport: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, ran_at, as_of, traders, closed_positions, weights) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, now, report.AsOf.UTC(), len(report.Wallets), report.ClosedCount, len(report.Weights),
	); err != nil {
		return fmt.Errorf("storage.SaveReport: insert run: %w", err)
	}

	posStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO positions
			(run_id, address, market_key, market, outcome, status,
			 total_bought, total_sold, pnl, avg_entry, avg_exit,
			 trade_count, first_trade, last_trade)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveReport: prepare positions: %w", err)
	}
	defer posStmt.Close()

	for _, w := range report.Wallets {
		for _, p := range w.Positions {
			key := p.Slug + "|" + p.Outcome
			if _, err := posStmt.ExecContext(ctx,
				runID, w.Trader.Address, key, p.Market, p.Outcome, p.Status,
				p.TotalBought, p.TotalSold, p.PnL, p.AvgEntryPrice, p.AvgExitPrice,
				p.TradeCount, p.FirstTrade, p.LastTrade,
			); err != nil {
				return fmt.Errorf("storage.SaveReport: insert position %s/%s: %w", w.Trader.DisplayName(), key, err)
			}
		}
	}

	wStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weights
			(run_id, address, username, sharpe_3m, sharpe_6m, sharpe_1y,
			 blended, tier, recommended)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveReport: prepare weights: %w", err)
	}
	defer wStmt.Close()

	for _, w := range report.Weights {
		if _, err := wStmt.ExecContext(ctx,
			runID, w.Address, w.Username, w.Sharpe3M, w.Sharpe6M, w.Sharpe1Y,
			w.Blended, w.Tier, w.RecommendedWeight,
		); err != nil {
			return fmt.Errorf("storage.SaveReport: insert weight %s: %w", w.Username, err)
		}
	}

	for _, win := range report.Windows {
		p := report.Policies[win.Name]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO policies (run_id, win, equal_pct, sharpe_pct, optimal_pct, recency_pct, trades, win_rate)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, win.Name, p.Equal, p.Sharpe, p.Optimal, p.RecencyOptimal, p.Trades, p.WinRate,
		); err != nil {
			return fmt.Errorf("storage.SaveReport: insert policy %s: %w", win.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveReport: commit: %w", err)
	}
	return nil
}

// RunSummary is one persisted run's headline numbers.
type RunSummary struct {
	ID              string
	RanAt           time.Time
	AsOf            time.Time
	Traders         int
	ClosedPositions int
	Weights         int
}

// RunSummaries returns the most recent runs, newest first.
func (s *SQLiteStorage) RunSummaries(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ran_at, as_of, traders, closed_positions, weights
		FROM runs ORDER BY ran_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RunSummaries: query: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var ranAt, asOf string
		if err := rows.Scan(&r.ID, &ranAt, &asOf, &r.Traders, &r.ClosedPositions, &r.Weights); err != nil {
			return nil, fmt.Errorf("storage.RunSummaries: scan row: %w", err)
		}
		r.RanAt, _ = time.Parse(time.RFC3339, ranAt)
		r.AsOf, _ = time.Parse(time.RFC3339, asOf)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld removes runs past the retention window, children included.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns)
	s.db.ExecContext(ctx, `DELETE FROM positions WHERE run_id IN (SELECT id FROM runs WHERE ran_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM weights   WHERE run_id IN (SELECT id FROM runs WHERE ran_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM policies  WHERE run_id IN (SELECT id FROM runs WHERE ran_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE ran_at < ?`, cutoff)
}
