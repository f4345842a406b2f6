package ports

import (
	"context"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

// FillSource yields a trader's raw fill history. Implementations degrade a
// missing wallet record to an empty list; only a missing collection is fatal.
type FillSource interface {
	Fills(ctx context.Context, trader domain.Trader) ([]domain.Fill, error)
}

// ActivityProvider fetches a wallet's activity feed from the venue.
type ActivityProvider interface {
	WalletActivity(ctx context.Context, address string, maxFills int) ([]domain.Fill, error)
}
