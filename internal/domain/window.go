package domain

import "time"

// Canonical window names, in report order.
var WindowOrder = []string{"3M", "6M", "1Y", "YTD", "ALL"}

// Window is a named time range. Membership is gated on a position's exit
// (last trade) timestamp: entry dates are not present in the activity feed,
// so a long-held position is attributed entirely to the window it closes in.
// That is an acknowledged approximation, not something to correct downstream.
type Window struct {
	Name  string
	Start time.Time
}

// Windows returns the five analysis windows relative to the as-of instant.
// allAnchor is the start of the ALL window and must predate every record.
func Windows(asOf, allAnchor time.Time) []Window {
	return []Window{
		{Name: "3M", Start: asOf.AddDate(0, 0, -90)},
		{Name: "6M", Start: asOf.AddDate(0, 0, -180)},
		{Name: "1Y", Start: asOf.AddDate(0, 0, -365)},
		{Name: "YTD", Start: time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "ALL", Start: allAnchor},
	}
}

// SelectWindow filters positions to those whose exit falls inside the window.
// Input order is preserved.
func SelectWindow(positions []TraderPosition, start time.Time) []TraderPosition {
	cut := start.Unix()
	var out []TraderPosition
	for _, p := range positions {
		if p.LastTrade >= cut {
			out = append(out, p)
		}
	}
	return out
}
