package ports

import (
	"context"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

// ResultStore persists analysis runs for later comparison.
type ResultStore interface {
	SaveReport(ctx context.Context, report *domain.Report) error
	Close() error
}

// Publisher renders a finished report to some sink (console, markdown, JSON).
type Publisher interface {
	Publish(ctx context.Context, report *domain.Report) error
}
