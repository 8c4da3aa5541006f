package interpret

import (
	"fmt"
	"math"

	"PairWatch/internal/model"
)

// Strength describes how tight a linear relationship is.
type Strength struct {
	Label string
	Note  string
}

// Bands maps |r| to a strength, checked from the top down.
var Bands = []struct {
	MinAbs   float64
	Strength Strength
}{
	{0.7, Strength{Label: "strong", Note: "prices tend to follow each other closely"}},
	{0.4, Strength{Label: "moderate", Note: "a visible but loose link"}},
	{0.1, Strength{Label: "weak", Note: "only a faint link"}},
}

// DefaultStrength applies below the lowest band.
var DefaultStrength = Strength{Label: "negligible", Note: "little to no relationship"}

// mapStrength maps a coefficient to its band.
func mapStrength(r float64) Strength {
	abs := math.Abs(r)
	for _, b := range Bands {
		if abs >= b.MinAbs {
			return b.Strength
		}
	}
	return DefaultStrength
}

// Interpretation is the reader-facing explanation of a summary.
type Interpretation struct {
	Strength Strength
	Headline string
	Guide    []string
}

// Explain turns a summary into a headline plus the sign guide shown under it.
func Explain(pair model.Pair, s model.CorrelationSummary) Interpretation {
	st := mapStrength(s.Coefficient)
	return Interpretation{
		Strength: st,
		Headline: fmt.Sprintf("The correlation coefficient of %.3f (%s, %d days) indicates that %s and %s %s: %s.",
			s.Coefficient, st.Label, s.SampleSize, pair.A, pair.B, s.Relationship.Describe(), st.Note),
		Guide: []string{
			"Positive (> 0): they generally rise and fall together.",
			"Negative (< 0): when one rises, the other tends to drop.",
			"Close to 0: little to no relationship.",
		},
	}
}
