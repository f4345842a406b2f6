package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jadesullie/polymarket-shadow-tracker/internal/domain"
)

const activityPerPage = 100

// rawActivity mirrors one record of the /activity feed. Numeric fields come
// back as either numbers or strings depending on endpoint version, so
// everything suspect decodes through json.Number.
type rawActivity struct {
	Type      string      `json:"type"`
	Side      string      `json:"side"`
	Slug      string      `json:"slug"`
	Outcome   string      `json:"outcome"`
	Title     string      `json:"title"`
	Question  string      `json:"question"`
	Price     json.Number `json:"price"`
	USDCSize  json.Number `json:"usdcSize"`
	Size      json.Number `json:"size"`
	Timestamp json.Number `json:"timestamp"`
}

// WalletActivity fetches up to maxFills activity records for one wallet,
// paginating until a short page. Records decode defensively: a missing or
// malformed field becomes its zero value, never an error.
func (c *Client) WalletActivity(ctx context.Context, address string, maxFills int) ([]domain.Fill, error) {
	var all []domain.Fill

	for offset := 0; offset < maxFills; offset += activityPerPage {
		url := fmt.Sprintf("%s/activity?user=%s&limit=%d&offset=%d",
			c.base, address, activityPerPage, offset)

		var page []rawActivity
		if err := c.get(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("polymarket.WalletActivity: offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		for _, r := range page {
			all = append(all, r.toFill())
		}

		slog.Debug("fetched activity page",
			"wallet", shortAddr(address),
			"offset", offset,
			"count", len(page),
			"total", len(all),
		)

		if len(page) < activityPerPage {
			break
		}
	}

	return all, nil
}

func (r rawActivity) toFill() domain.Fill {
	eventType := r.Type
	if eventType == "" {
		eventType = domain.EventTrade
	}
	title := r.Title
	if title == "" {
		title = r.Question
	}
	return domain.Fill{
		MarketSlug: r.Slug,
		Outcome:    r.Outcome,
		Side:       r.Side,
		EventType:  eventType,
		Price:      numToFloat(r.Price),
		Notional:   numToFloat(r.USDCSize),
		Size:       numToFloat(r.Size),
		Timestamp:  numToEpoch(r.Timestamp),
		Title:      title,
	}
}

func numToFloat(n json.Number) float64 {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

// numToEpoch parses an epoch timestamp in seconds or milliseconds.
func numToEpoch(n json.Number) int64 {
	s := n.String()
	if s == "" {
		return 0
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		if sec > 1e12 {
			return sec / 1000
		}
		return sec
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func shortAddr(addr string) string {
	if len(addr) > 10 {
		return addr[:10] + "..."
	}
	return addr
}
