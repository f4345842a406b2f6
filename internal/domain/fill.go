package domain

// Event types reported by the Polymarket data API activity feed.
const (
	EventTrade      = "TRADE"
	EventRedemption = "REDEMPTION"
)

// Trade sides. Redemptions carry no side.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Fill is one raw trade or redemption event for a wallet. Every field
// defaults to its zero value when the API omits it; a fill is never rejected.
type Fill struct {
	MarketSlug string
	Outcome    string  // "Yes" | "No" | free text
	Side       string  // BUY | SELL, empty for redemptions
	EventType  string  // TRADE | REDEMPTION
	Price      float64 // market probability, 0–1
	Notional   float64 // cash value in USDC
	Size       float64 // share count
	Timestamp  int64   // epoch seconds
	Title      string
}

// MarketKey groups fills into positions: one market outcome is one key.
// Fills with no resolvable slug collapse into a synthetic "unknown" bucket.
func (f Fill) MarketKey() string {
	slug := f.MarketSlug
	if slug == "" {
		slug = "unknown"
	}
	return slug + "|" + f.Outcome
}
