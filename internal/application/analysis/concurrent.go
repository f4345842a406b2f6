package analysis

// concurrent.go — worker pool for per-wallet aggregation.
//
// Each wallet's aggregation and annotation reads nothing outside its own fill
// history, so the fan-out is safe; everything downstream of the merge
// (simulation in particular) stays sequential.

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
	"github.com/jadesullie/polymarket-shadow-tracker/internal/ports"
)

// walletResult is one wallet's aggregation output, tagged with its roster
// index so results can be reassembled in roster order.
type walletResult struct {
	idx    int
	report domain.WalletReport
	closed []domain.TraderPosition
	err    error
}

// aggregateWallets fans the roster out across a worker pool and returns the
// per-wallet results in roster order. Any wallet error fails the batch: the
// fill source already degrades missing files to empty histories, so a
// surviving error means the fill collection itself is broken.
func aggregateWallets(
	ctx context.Context,
	fills ports.FillSource,
	traders []domain.Trader,
	workers int,
) ([]walletResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}

	type work struct {
		idx    int
		trader domain.Trader
	}

	workCh := make(chan work, len(traders))
	resultCh := make(chan walletResult, len(traders))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				resultCh <- aggregateOne(ctx, fills, w.idx, w.trader)
			}
		}()
	}

	for i, t := range traders {
		workCh <- work{idx: i, trader: t}
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	out := make([]walletResult, len(traders))
	for r := range resultCh {
		if r.err != nil {
			return nil, fmt.Errorf("analysis.aggregateWallets: %s: %w", traders[r.idx].DisplayName(), r.err)
		}
		out[r.idx] = r
	}
	return out, nil
}

func aggregateOne(ctx context.Context, fills ports.FillSource, idx int, trader domain.Trader) walletResult {
	raw, err := fills.Fills(ctx, trader)
	if err != nil {
		return walletResult{idx: idx, err: err}
	}

	positions := domain.Aggregate(raw)
	summary := domain.Summarize(len(raw), positions)

	if len(raw) == 0 {
		slog.Warn("no raw fills for trader", "trader", trader.DisplayName())
	} else {
		slog.Debug("aggregated wallet",
			"trader", trader.DisplayName(),
			"fills", len(raw),
			"closed", summary.Closed,
			"open", summary.Open,
		)
	}

	return walletResult{
		idx: idx,
		report: domain.WalletReport{
			Trader:    trader,
			Positions: positions,
			Summary:   summary,
		},
		closed: domain.AnnotatePositions(trader, positions),
	}
}
