package report

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

// Markdown implements ports.Publisher by writing the strategy reanalysis
// document to a file.
type Markdown struct {
	path string
}

// NewMarkdown wraps the output path.
func NewMarkdown(path string) *Markdown {
	return &Markdown{path: path}
}

// Publish renders and writes the document. An unwritable sink is fatal.
func (m *Markdown) Publish(_ context.Context, rep *domain.Report) error {
	doc := Render(rep)
	if err := os.WriteFile(m.path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("report.Markdown: write %q: %w", m.path, err)
	}
	return nil
}

// Render produces the markdown document from the structured report.
func Render(rep *domain.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Polymarket Shadow Index — Strategy Reanalysis\n")
	fmt.Fprintf(&sb, "**Date:** %s  \n", rep.AsOf.Format("2006-01-02"))
	fmt.Fprintf(&sb, "**Positions analyzed:** %d (after noise filter)  \n", rep.ClosedCount)
	fmt.Fprintf(&sb, "**Traders with allocation weights:** %d\n", len(rep.Weights))

	sb.WriteString("\n## Strategy Comparison\n\n")
	sb.WriteString("| Window | Equal Weight | Sharpe-Weighted | Optimal | Recency-Optimal | Trades | Win Rate |\n")
	sb.WriteString("|--------|-------------|-----------------|---------|-----------------|--------|----------|\n")
	for _, win := range rep.Windows {
		p := rep.Policies[win.Name]
		fmt.Fprintf(&sb, "| %s | %.1f%% | %.1f%% | %.1f%% | %.1f%% | %d | %.1f%% |\n",
			win.Name, p.Equal, p.Sharpe, p.Optimal, p.RecencyOptimal, p.Trades, p.WinRate)
	}

	for _, lb := range rep.Leaderboards {
		if lb.Window != "3M" && lb.Window != "6M" {
			continue
		}
		fmt.Fprintf(&sb, "\n## Top Traders by Sharpe (%s Window)\n\n", lb.Window)
		writeLeaderboard(&sb, lb.Top)
		if lb.Window == "3M" {
			sb.WriteString("\n## Bottom Traders (3M Window)\n\n")
			writeLeaderboard(&sb, lb.Bottom)
		}
	}

	sb.WriteString("\n## Divergence: Historical vs Recent\n\n")
	sb.WriteString("Biggest drop (good historically, poor recently):\n\n")
	writeDivergence(&sb, capDiv(rep.Divergence, 10))
	sb.WriteString("\nBiggest improvement:\n\n")
	writeDivergence(&sb, capDiv(domain.Reversed(rep.Divergence), 10))

	sb.WriteString("\n## Tier Distribution\n\n")
	for _, tier := range []string{domain.TierS, domain.TierA, domain.TierB, domain.TierC, domain.TierD} {
		fmt.Fprintf(&sb, "- **%s**: %d traders\n", tier, rep.TierCounts[tier])
	}

	return sb.String()
}

func writeLeaderboard(sb *strings.Builder, rows []domain.LeaderboardRow) {
	sb.WriteString("| # | Username | Sharpe | Trades | Win Rate | Avg Return | P&L | Insider | Cluster |\n")
	sb.WriteString("|---|----------|--------|--------|----------|------------|-----|---------|--------|\n")
	for i, r := range rows {
		fmt.Fprintf(sb, "| %d | %s | %.3f | %d | %.1f%% | %.2f%% | $%.0f | %s | %s |\n",
			i+1, r.Username, r.Sharpe, r.Trades, r.WinRate, r.AvgReturn, r.TotalPnL,
			r.InsiderRisk, r.Cluster)
	}
}

func writeDivergence(sb *strings.Builder, rows []domain.DivergenceEntry) {
	sb.WriteString("| Username | All-Time Sharpe | 3M Sharpe | Delta | 3M Trades |\n")
	sb.WriteString("|----------|----------------|-----------|-------|-----------|\n")
	for _, d := range rows {
		fmt.Fprintf(sb, "| %s | %.3f | %.3f | %+.3f | %d |\n",
			d.Username, d.AllTimeSharpe, d.Sharpe3M, d.Delta, d.Trades3M)
	}
}
