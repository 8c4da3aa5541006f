package calculator

import (
	"fmt"
	"math"

	"PairWatch/internal/model"
)

// BuildReturns converts closing prices into fractional day-over-day returns.
// The first point has no predecessor and is dropped, so the result has one
// fewer entry than the input.
func BuildReturns(prices model.PriceSeries) (model.ReturnSeries, error) {
	if prices.Len() < 2 {
		return model.ReturnSeries{}, fmt.Errorf("%s: %d price points: %w", prices.Symbol, prices.Len(), ErrInsufficientData)
	}
	for i, p := range prices.Points {
		if !validPrice(p.Close) {
			return model.ReturnSeries{}, fmt.Errorf("%s: point %d (%s) = %v: %w",
				prices.Symbol, i, p.Time.Format("2006-01-02"), p.Close, ErrInvalidPrice)
		}
	}

	points := make([]model.ReturnPoint, prices.Len()-1)
	for i := 1; i < prices.Len(); i++ {
		prev := prices.Points[i-1].Close
		cur := prices.Points[i].Close
		points[i-1] = model.ReturnPoint{
			Time:  prices.Points[i].Time,
			Value: (cur - prev) / prev,
		}
	}
	return model.ReturnSeries{Symbol: prices.Symbol, Points: points}, nil
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
