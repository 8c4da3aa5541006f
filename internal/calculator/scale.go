package calculator

import (
	"fmt"

	"PairWatch/internal/model"
)

// ScalePoint is one day of the price comparison: the reference close and the
// other instrument's close rescaled onto the reference's axis.
type ScalePoint struct {
	Time   string  `json:"date"`
	A      float64 `json:"a"`
	B      float64 `json:"b_scaled"`
	BClose float64 `json:"b"`
}

// ScaleToReference aligns a and b by timestamp and multiplies every close in b by
// lastA/lastB, so both lines finish at the same level.
func ScaleToReference(a, b model.PriceSeries) ([]ScalePoint, error) {
	lastA, okA := a.Last()
	lastB, okB := b.Last()
	if !okA || !okB {
		return nil, fmt.Errorf("scale %s/%s: %w", a.Symbol, b.Symbol, ErrInsufficientData)
	}
	if !validPrice(lastA.Close) || !validPrice(lastB.Close) {
		return nil, fmt.Errorf("scale %s/%s: %w", a.Symbol, b.Symbol, ErrInvalidPrice)
	}
	factor := lastA.Close / lastB.Close

	byTime := make(map[int64]float64, b.Len())
	for _, p := range b.Points {
		byTime[p.Time.UnixNano()] = p.Close
	}
	out := make([]ScalePoint, 0, a.Len())
	for _, p := range a.Points {
		if v, ok := byTime[p.Time.UnixNano()]; ok {
			out = append(out, ScalePoint{
				Time:   p.Time.UTC().Format("2006-01-02"),
				A:      p.Close,
				B:      v * factor,
				BClose: v,
			})
		}
	}
	return out, nil
}
