package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

// Console implements ports.Publisher on stdout. Compact mode prints a
// one-line digest per run; full mode prints every table.
type Console struct {
	out  io.Writer
	full bool
	topN int
}

// NewConsole creates a stdout publisher.
func NewConsole(full bool, topN int) *Console {
	return &Console{out: os.Stdout, full: full, topN: topN}
}

// NewConsoleWriter creates a publisher for tests.
func NewConsoleWriter(w io.Writer, full bool, topN int) *Console {
	return &Console{out: w, full: full, topN: topN}
}

// Publish renders the report in the configured mode.
func (c *Console) Publish(_ context.Context, rep *domain.Report) error {
	if c.full {
		c.printFull(rep)
	} else {
		c.printCompact(rep)
	}
	return nil
}

func (c *Console) printCompact(rep *domain.Report) {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d traders | %d closed positions | %d weighted",
		now, len(rep.Wallets), rep.ClosedCount, len(rep.Weights))

	if p, ok := rep.Policies["3M"]; ok {
		fmt.Fprintf(&sb, " | 3M: EQ %.1f%% SH %.1f%% OPT %.1f%% REC %.1f%% (%d trades, WR %.1f%%)",
			p.Equal, p.Sharpe, p.Optimal, p.RecencyOptimal, p.Trades, p.WinRate)
	}

	for _, tier := range []string{domain.TierS, domain.TierA} {
		if n := rep.TierCounts[tier]; n > 0 {
			fmt.Fprintf(&sb, " | %s:%d", tier, n)
		}
	}

	fmt.Fprintln(c.out, sb.String())
}

func (c *Console) printFull(rep *domain.Report) {
	fmt.Fprintf(c.out, "\n=== SHADOW INDEX — as of %s | %d traders | %d closed positions ===\n",
		rep.AsOf.Format("2006-01-02"), len(rep.Wallets), rep.ClosedCount)

	c.printPolicies(rep)
	c.printWallets(rep)
	c.printLeaderboards(rep)
	c.printDivergence(rep)
	c.printTiers(rep)
}

func (c *Console) printPolicies(rep *domain.Report) {
	fmt.Fprintln(c.out, "\n--- Strategy comparison (return on starting capital) ---")

	table := tablewriter.NewWriter(c.out)
	table.Header("Window", "Equal", "Sharpe", "Optimal", "Recency-Opt", "Trades", "Win rate")

	for _, win := range rep.Windows {
		p := rep.Policies[win.Name]
		table.Append(
			win.Name,
			fmt.Sprintf("%.1f%%", p.Equal),
			fmt.Sprintf("%.1f%%", p.Sharpe),
			fmt.Sprintf("%.1f%%", p.Optimal),
			fmt.Sprintf("%.1f%%", p.RecencyOptimal),
			fmt.Sprintf("%d", p.Trades),
			fmt.Sprintf("%.1f%%", p.WinRate),
		)
	}
	table.Render()
}

func (c *Console) printWallets(rep *domain.Report) {
	fmt.Fprintln(c.out, "\n--- Wallets ---")

	table := tablewriter.NewWriter(c.out)
	table.Header("Trader", "Fills", "Closed", "Open", "Win rate", "Closed P&L")

	for _, w := range rep.Wallets {
		s := w.Summary
		table.Append(
			w.Trader.DisplayName(),
			fmt.Sprintf("%d", s.TotalTrades),
			fmt.Sprintf("%d", s.Closed),
			fmt.Sprintf("%d", s.Open),
			fmt.Sprintf("%.1f%%", s.WinRate*100),
			fmt.Sprintf("$%.0f", s.TotalPnLClosed),
		)
	}
	table.Render()
}

func (c *Console) printLeaderboards(rep *domain.Report) {
	for _, lb := range rep.Leaderboards {
		if lb.Window != "3M" && lb.Window != "6M" {
			continue
		}
		c.printRows(fmt.Sprintf("Top traders by Sharpe (%s)", lb.Window), capRows(lb.Top, c.topN))
		if lb.Window == "3M" {
			c.printRows("Bottom traders (3M)", capRows(lb.Bottom, c.topN))
		}
	}
}

func (c *Console) printRows(title string, rows []domain.LeaderboardRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(c.out, "\n--- %s ---\n", title)

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Trader", "Sharpe", "Trades", "Win rate", "Avg ret", "P&L", "Insider", "Cluster")

	for i, r := range rows {
		table.Append(
			fmt.Sprintf("%d", i+1),
			r.Username,
			fmt.Sprintf("%.3f", r.Sharpe),
			fmt.Sprintf("%d", r.Trades),
			fmt.Sprintf("%.1f%%", r.WinRate),
			fmt.Sprintf("%.2f%%", r.AvgReturn),
			fmt.Sprintf("$%.0f", r.TotalPnL),
			r.InsiderRisk,
			r.Cluster,
		)
	}
	table.Render()
}

func (c *Console) printDivergence(rep *domain.Report) {
	if len(rep.Divergence) == 0 {
		return
	}

	fmt.Fprintln(c.out, "\n--- Divergence: biggest drop (all-time vs 3M) ---")
	c.printDivRows(capDiv(rep.Divergence, 10))

	fmt.Fprintln(c.out, "\n--- Divergence: biggest improvement ---")
	c.printDivRows(capDiv(domain.Reversed(rep.Divergence), 10))
}

func (c *Console) printDivRows(rows []domain.DivergenceEntry) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Trader", "All-time", "3M", "Delta", "3M trades")
	for _, d := range rows {
		table.Append(
			d.Username,
			fmt.Sprintf("%.3f", d.AllTimeSharpe),
			fmt.Sprintf("%.3f", d.Sharpe3M),
			fmt.Sprintf("%+.3f", d.Delta),
			fmt.Sprintf("%d", d.Trades3M),
		)
	}
	table.Render()
}

func (c *Console) printTiers(rep *domain.Report) {
	fmt.Fprintln(c.out, "\n--- Tier population ---")
	for _, tier := range []string{domain.TierS, domain.TierA, domain.TierB, domain.TierC, domain.TierD} {
		fmt.Fprintf(c.out, "  %s: %d\n", tier, rep.TierCounts[tier])
	}
	fmt.Fprintln(c.out)
}

func capRows(rows []domain.LeaderboardRow, n int) []domain.LeaderboardRow {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

func capDiv(rows []domain.DivergenceEntry, n int) []domain.DivergenceEntry {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
