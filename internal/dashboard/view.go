package dashboard

import (
	"fmt"
	"time"

	"PairWatch/internal/calculator"
	"PairWatch/internal/interpret"
	"PairWatch/internal/model"
	"PairWatch/internal/notifier"
)

// Metric is one headline card.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

// InstrumentStats summarises one instrument over the window.
type InstrumentStats struct {
	Symbol        string  `json:"symbol"`
	Last          float64 `json:"last"`
	LastFormatted string  `json:"last_formatted"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	RangePosition float64 `json:"range_position"`
	Change        float64 `json:"change"`
}

// View is everything the page and the JSON API render for a pair.
type View struct {
	Title          string                   `json:"title"`
	Caption        string                   `json:"caption"`
	SymbolA        string                   `json:"symbol_a"`
	SymbolB        string                   `json:"symbol_b"`
	Days           int                      `json:"days"`
	Start          string                   `json:"start"`
	End            string                   `json:"end"`
	GeneratedAt    time.Time                `json:"generated_at"`
	Summary        model.CorrelationSummary `json:"summary"`
	Strength       string                   `json:"strength"`
	Headline       string                   `json:"headline"`
	Metrics        []Metric                 `json:"metrics"`
	A              InstrumentStats          `json:"a"`
	B              InstrumentStats          `json:"b"`
	Interpretation interpret.Interpretation `json:"-"`
	Prices         []calculator.ScalePoint  `json:"-"`
	Scatter        []model.ReturnPair       `json:"-"`
}

// BuildView derives the display data from a report.
func BuildView(title, caption string, rep *model.PairReport) (*View, error) {
	prices, err := calculator.ScaleToReference(rep.PricesA, rep.PricesB)
	if err != nil {
		return nil, err
	}
	statsA, err := instrumentStats(rep.PricesA, rep.LastA, notifier.FormatCurrency(rep.LastA))
	if err != nil {
		return nil, err
	}
	statsB, err := instrumentStats(rep.PricesB, rep.LastB, notifier.FormatPrice(rep.LastB, notifier.ComparedPlaces))
	if err != nil {
		return nil, err
	}
	in := interpret.Explain(rep.Pair, rep.Summary)

	return &View{
		Title:       title,
		Caption:     caption,
		SymbolA:     rep.Pair.A,
		SymbolB:     rep.Pair.B,
		Days:        rep.Window.Days(),
		Start:       rep.Window.Start.Format("2006-01-02"),
		End:         rep.Window.End.Format("2006-01-02"),
		GeneratedAt: rep.GeneratedAt,
		Summary:     rep.Summary,
		Strength:    in.Strength.Label,
		Headline:    in.Headline,
		Metrics: []Metric{
			{Label: rep.Pair.A + " Last Price", Value: statsA.LastFormatted},
			{Label: rep.Pair.B + " Last Price", Value: statsB.LastFormatted},
			{
				Label: fmt.Sprintf("Correlation (%dd)", rep.Window.Days()),
				Value: notifier.FormatCoefficient(rep.Summary.Coefficient),
				Delta: rep.Summary.Relationship.Describe(),
			},
		},
		A:              statsA,
		B:              statsB,
		Interpretation: in,
		Prices:         prices,
		Scatter:        calculator.AlignReturns(rep.ReturnsA, rep.ReturnsB),
	}, nil
}

func instrumentStats(s model.PriceSeries, last float64, formatted string) (InstrumentStats, error) {
	high, low, err := calculator.WindowRange(s)
	if err != nil {
		return InstrumentStats{}, fmt.Errorf("%s range: %w", s.Symbol, err)
	}
	pos, err := calculator.RangePosition(last, high, low)
	if err != nil {
		return InstrumentStats{}, fmt.Errorf("%s position: %w", s.Symbol, err)
	}
	change, err := calculator.PeriodChange(s)
	if err != nil {
		return InstrumentStats{}, fmt.Errorf("%s change: %w", s.Symbol, err)
	}
	return InstrumentStats{
		Symbol:        s.Symbol,
		Last:          last,
		LastFormatted: formatted,
		High:          high,
		Low:           low,
		RangePosition: pos,
		Change:        change,
	}, nil
}
