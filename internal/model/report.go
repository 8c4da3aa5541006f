package model

import "time"

// Pair names the two instruments being compared.
type Pair struct {
	A string
	B string
}

func (p Pair) String() string { return p.A + "/" + p.B }

// Window is a trailing date range ending at End.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns the days whole days before now. Today's bar is still
// forming, so the window ends at yesterday's close.
func TrailingWindow(now time.Time, days int) Window {
	today := DayKey(now)
	return Window{Start: today.AddDate(0, 0, -days), End: today.AddDate(0, 0, -1)}
}

// Days returns the number of calendar days in the window, both ends included.
func (w Window) Days() int {
	return int(DayKey(w.End).Sub(DayKey(w.Start)).Hours()/24) + 1
}

// PairReport bundles everything the presentation layer needs for one pair.
type PairReport struct {
	Pair        Pair
	Window      Window
	PricesA     PriceSeries
	PricesB     PriceSeries
	ReturnsA    ReturnSeries
	ReturnsB    ReturnSeries
	Summary     CorrelationSummary
	LastA       float64
	LastB       float64
	GeneratedAt time.Time
}
