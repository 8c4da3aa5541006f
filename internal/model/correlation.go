package model

// Relationship classifies the sign of a correlation coefficient.
type Relationship string

const (
	CoMoving Relationship = "CO_MOVING"
	Inverse  Relationship = "INVERSE"
	Neutral  Relationship = "NEUTRAL"
)

// Describe returns the plain-language wording shown next to the coefficient.
func (r Relationship) Describe() string {
	switch r {
	case CoMoving:
		return "move together"
	case Inverse:
		return "move opposite"
	default:
		return "no linear relationship"
	}
}

// CorrelationSummary is the result of correlating two aligned return series.
type CorrelationSummary struct {
	Coefficient  float64      `json:"coefficient"`
	Relationship Relationship `json:"relationship"`
	SampleSize   int          `json:"sample_size"`
}

// ReturnPair is one day's returns for both instruments.
type ReturnPair struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}
