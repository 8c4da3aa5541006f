package calculator

import (
	"fmt"
	"math"

	"PairWatch/internal/model"
)

// AlignReturns inner-joins two return series on exact timestamp. Pairs follow
// the order of a; timestamps present in only one series are dropped.
// Providers stamp daily closes at the start of the UTC day, so series from
// different sources meet on the same instants.
func AlignReturns(a, b model.ReturnSeries) []model.ReturnPair {
	byTime := make(map[int64]float64, b.Len())
	for _, p := range b.Points {
		byTime[p.Time.UnixNano()] = p.Value
	}
	pairs := make([]model.ReturnPair, 0, a.Len())
	for _, p := range a.Points {
		if v, ok := byTime[p.Time.UnixNano()]; ok {
			pairs = append(pairs, model.ReturnPair{A: p.Value, B: v})
		}
	}
	return pairs
}

// Summarize computes the Pearson correlation of two return series after
// aligning them by timestamp, using sample (N-1) normalisation.
func Summarize(a, b model.ReturnSeries) (model.CorrelationSummary, error) {
	pairs := AlignReturns(a, b)
	if len(pairs) < 2 {
		return model.CorrelationSummary{}, fmt.Errorf("%s/%s: %d common timestamps: %w",
			a.Symbol, b.Symbol, len(pairs), ErrMisalignedSeries)
	}

	r, err := Pearson(pairs)
	if err != nil {
		return model.CorrelationSummary{}, fmt.Errorf("%s/%s: %w", a.Symbol, b.Symbol, err)
	}
	return model.CorrelationSummary{
		Coefficient:  r,
		Relationship: Classify(r),
		SampleSize:   len(pairs),
	}, nil
}

// Pearson returns cov(A,B) / (sd(A) * sd(B)) over the given pairs.
func Pearson(pairs []model.ReturnPair) (float64, error) {
	n := len(pairs)
	if n < 2 {
		return 0, ErrMisalignedSeries
	}
	// A constant side has zero variance, but the mean of identical floats
	// can land one ulp away and leave a tiny non-zero residue.
	if constant(pairs, func(p model.ReturnPair) float64 { return p.A }) ||
		constant(pairs, func(p model.ReturnPair) float64 { return p.B }) {
		return 0, ErrUndefinedCorrelation
	}

	var sumA, sumB float64
	for _, p := range pairs {
		sumA += p.A
		sumB += p.B
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var cov, varA, varB float64
	for _, p := range pairs {
		da := p.A - meanA
		db := p.B - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	denom := float64(n - 1)
	cov /= denom
	varA /= denom
	varB /= denom

	if varA == 0 || varB == 0 {
		return 0, ErrUndefinedCorrelation
	}
	r := cov / (math.Sqrt(varA) * math.Sqrt(varB))
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, ErrUndefinedCorrelation
	}
	// Rounding can push a perfect correlation just outside [-1, 1].
	return math.Max(-1, math.Min(1, r)), nil
}

// Classify maps the sign of r to a Relationship.
func Classify(r float64) model.Relationship {
	switch {
	case r > 0:
		return model.CoMoving
	case r < 0:
		return model.Inverse
	default:
		return model.Neutral
	}
}

func constant(pairs []model.ReturnPair, side func(model.ReturnPair) float64) bool {
	first := side(pairs[0])
	for _, p := range pairs[1:] {
		if side(p) != first {
			return false
		}
	}
	return true
}
