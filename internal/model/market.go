package model

import "time"

// PricePoint is one daily closing price.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries holds ascending, day-unique closing prices for one instrument.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int { return len(s.Points) }

// Last returns the most recent point. ok is false for an empty series.
func (s PriceSeries) Last() (p PricePoint, ok bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// ReturnPoint is the fractional change from the previous close to Time.
type ReturnPoint struct {
	Time  time.Time
	Value float64
}

// ReturnSeries is derived from exactly one PriceSeries.
type ReturnSeries struct {
	Symbol string
	Points []ReturnPoint
}

// Len returns the number of returns in the series.
func (s ReturnSeries) Len() int { return len(s.Points) }

// DayKey truncates t to its UTC calendar day. Providers carry different
// intraday timestamps for the same daily bar; they restamp every close at its
// DayKey so series from different sources share timestamps.
func DayKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
