package domain

import (
	"math"
	"sort"
)

// Position status values.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// closeSellRatio: a position counts as closed once the cumulative sell size
// reaches 90% of the cumulative buy size, even without a redemption.
const closeSellRatio = 0.9

// Position is the aggregated buy/sell/redemption activity for one market
// outcome, collapsed to entry/exit prices and P&L.
type Position struct {
	Market  string // title, first non-empty wins
	Slug    string
	Outcome string
	Status  string // open | closed

	TotalBought   float64
	TotalSold     float64 // sells + redemptions
	PnL           float64
	AvgEntryPrice float64 // size-weighted over buys
	AvgExitPrice  float64 // size-weighted over sells + redemptions

	FirstTrade int64 // epoch seconds, 0 when no fill carried a timestamp
	LastTrade  int64

	TradeCount  int
	Buys        int
	Sells       int
	Redemptions int
}

// Closed reports whether the position has been fully exited.
func (p Position) Closed() bool { return p.Status == StatusClosed }

// Return is the per-position fractional return, 0 when there is no entry price.
func (p Position) Return() float64 {
	if p.AvgEntryPrice <= 0 {
		return 0
	}
	return (p.AvgExitPrice - p.AvgEntryPrice) / p.AvgEntryPrice
}

// positionBuilder accumulates the fills of one market key before derivation.
type positionBuilder struct {
	title   string
	slug    string
	outcome string

	buys        []Fill
	sells       []Fill
	redemptions []Fill
}

// Aggregate groups raw fills into per-market positions. It is a pure function
// of its input: the grouping map is iterated in first-seen key order so the
// |pnl|-descending stable sort breaks ties deterministically.
//
// Redemptions bucket by event type regardless of side; everything else buckets
// by side, and fills with an unrecognized side are kept out of the P&L math
// without being treated as errors.
func Aggregate(fills []Fill) []Position {
	byKey := make(map[string]*positionBuilder)
	var order []string

	for _, f := range fills {
		key := f.MarketKey()
		b, ok := byKey[key]
		if !ok {
			b = &positionBuilder{}
			byKey[key] = b
			order = append(order, key)
		}

		slug := f.MarketSlug
		if slug == "" {
			slug = "unknown"
		}
		b.slug = slug
		if b.title == "" {
			b.title = f.Title
		}
		if b.outcome == "" {
			b.outcome = f.Outcome
		}

		switch {
		case f.EventType == EventRedemption:
			b.redemptions = append(b.redemptions, f)
		case f.Side == SideBuy:
			b.buys = append(b.buys, f)
		case f.Side == SideSell:
			b.sells = append(b.sells, f)
		}
	}

	positions := make([]Position, 0, len(order))
	for _, key := range order {
		positions = append(positions, byKey[key].build())
	}

	sort.SliceStable(positions, func(i, j int) bool {
		return math.Abs(positions[i].PnL) > math.Abs(positions[j].PnL)
	})
	return positions
}

func (b *positionBuilder) build() Position {
	var bought, buySize, buyWeighted float64
	for _, f := range b.buys {
		bought += f.Notional
		buySize += f.Size
		buyWeighted += f.Price * f.Size
	}

	var sold, sellSize, exitSize, exitWeighted float64
	for _, f := range b.sells {
		sold += f.Notional
		sellSize += f.Size
		exitSize += f.Size
		exitWeighted += f.Price * f.Size
	}
	for _, f := range b.redemptions {
		sold += f.Notional
		exitSize += f.Size
		exitWeighted += f.Price * f.Size
	}

	avgEntry := 0.0
	if buySize > 0 {
		avgEntry = buyWeighted / buySize
	}
	avgExit := 0.0
	if exitSize > 0 {
		avgExit = exitWeighted / exitSize
	}

	status := StatusOpen
	if len(b.redemptions) > 0 {
		status = StatusClosed
	} else if buySize > 0 && sellSize >= buySize*closeSellRatio {
		status = StatusClosed
	}

	var first, last int64
	for _, list := range [][]Fill{b.buys, b.sells, b.redemptions} {
		for _, f := range list {
			if f.Timestamp == 0 {
				continue
			}
			if first == 0 || f.Timestamp < first {
				first = f.Timestamp
			}
			if f.Timestamp > last {
				last = f.Timestamp
			}
		}
	}

	title := b.title
	if title == "" {
		title = b.slug
	}

	return Position{
		Market:        title,
		Slug:          b.slug,
		Outcome:       b.outcome,
		Status:        status,
		TotalBought:   Round2(bought),
		TotalSold:     Round2(sold),
		PnL:           Round2(sold - bought),
		AvgEntryPrice: Round4(avgEntry),
		AvgExitPrice:  Round4(avgExit),
		FirstTrade:    first,
		LastTrade:     last,
		TradeCount:    len(b.buys) + len(b.sells) + len(b.redemptions),
		Buys:          len(b.buys),
		Sells:         len(b.sells),
		Redemptions:   len(b.redemptions),
	}
}

// WalletSummary is the per-wallet rollup persisted next to the position list.
type WalletSummary struct {
	TotalTrades    int
	Closed         int
	Open           int
	WinRate        float64 // fraction, 4dp
	TotalPnLClosed float64
}

// Summarize derives the wallet rollup from the raw fill count and the
// aggregated positions.
func Summarize(rawFills int, positions []Position) WalletSummary {
	s := WalletSummary{TotalTrades: rawFills}
	wins := 0
	for _, p := range positions {
		if !p.Closed() {
			s.Open++
			continue
		}
		s.Closed++
		s.TotalPnLClosed += p.PnL
		if p.PnL > 0 {
			wins++
		}
	}
	if s.Closed > 0 {
		s.WinRate = Round4(float64(wins) / float64(s.Closed))
	}
	s.TotalPnLClosed = Round2(s.TotalPnLClosed)
	return s
}

// Round2 rounds to cents.
func Round2(x float64) float64 { return math.Round(x*100) / 100 }

// Round3 rounds to 3 decimals (weights, sharpe).
func Round3(x float64) float64 { return math.Round(x*1000) / 1000 }

// Round4 rounds to 4 decimals (prices).
func Round4(x float64) float64 { return math.Round(x*10000) / 10000 }

func round1(x float64) float64 { return math.Round(x*10) / 10 }
