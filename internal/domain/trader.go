package domain

// Insider risk classifications supplied by the trader roster.
const (
	RiskLow     = "LOW"
	RiskMedium  = "MEDIUM"
	RiskHigh    = "HIGH"
	RiskExtreme = "EXTREME"
)

// Trader is one tracked wallet plus its externally supplied classification.
type Trader struct {
	Username    string
	Address     string
	InsiderRisk string // LOW | MEDIUM | HIGH | EXTREME
	Cluster     string // free-text category label
	Predictions int    // rough trade count hint, drives the fetch cap
}

// DisplayName is the username, falling back to an address prefix for wallets
// missing from the roster.
func (t Trader) DisplayName() string {
	if t.Username != "" {
		return t.Username
	}
	if len(t.Address) > 10 {
		return t.Address[:10]
	}
	return t.Address
}

// TraderPosition is a closed position annotated with its trader, ready for
// cross-trader window selection and simulation.
type TraderPosition struct {
	Position
	Address     string
	Username    string
	InsiderRisk string
	Cluster     string
	Ret         float64 // (exit-entry)/entry, cached at annotation time
}

// AnnotatePositions attaches trader metadata and the cached return to each
// closed position. Wallets absent from the roster degrade to LOW risk and the
// "other" cluster.
func AnnotatePositions(t Trader, positions []Position) []TraderPosition {
	risk := t.InsiderRisk
	if risk == "" {
		risk = RiskLow
	}
	cluster := t.Cluster
	if cluster == "" {
		cluster = "other"
	}

	var out []TraderPosition
	for _, p := range positions {
		if !p.Closed() {
			continue
		}
		out = append(out, TraderPosition{
			Position:    p,
			Address:     t.Address,
			Username:    t.DisplayName(),
			InsiderRisk: risk,
			Cluster:     cluster,
			Ret:         p.Return(),
		})
	}
	return out
}
