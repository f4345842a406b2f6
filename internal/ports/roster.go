package ports

import (
	"context"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

// RosterProvider supplies the tracked-trader roster. A missing roster is a
// fatal condition for the run.
type RosterProvider interface {
	Traders(ctx context.Context) ([]domain.Trader, error)
}
