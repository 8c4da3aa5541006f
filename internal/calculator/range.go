package calculator

import (
	"errors"
	"math"

	"PairWatch/internal/model"
)

// WindowRange scans every close in the series and returns the high and low.
func WindowRange(prices model.PriceSeries) (high, low float64, err error) {
	if prices.Len() == 0 {
		return 0, 0, errors.New("no price points provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range prices.Points {
		if p.Close > high {
			high = p.Close
		}
		if p.Close < low {
			low = p.Close
		}
	}
	return high, low, nil
}

// RangePosition returns where the current price sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// PeriodChange returns the fractional change from the first to the last close.
func PeriodChange(prices model.PriceSeries) (float64, error) {
	if prices.Len() < 2 {
		return 0, ErrInsufficientData
	}
	first := prices.Points[0].Close
	if !validPrice(first) {
		return 0, ErrInvalidPrice
	}
	last := prices.Points[prices.Len()-1].Close
	return (last - first) / first, nil
}
