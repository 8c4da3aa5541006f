package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"PairWatch/internal/calculator"
	"PairWatch/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string]model.PriceSeries
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, symbol string, w model.Window) (model.PriceSeries, error) {
	m.Calls++
	if m.Err != nil {
		return model.PriceSeries{}, m.Err
	}
	s, ok := m.Series[symbol]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("mock: unknown symbol %s", symbol)
	}
	return clip(s, w), nil
}

// Collector orchestrates data fetching and correlation computation.
type Collector struct {
	Fetcher Fetcher
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Now: time.Now}
}

// Collect fetches both instruments over the trailing window of lookbackDays,
// builds their return series and correlates them.
func (c *Collector) Collect(ctx context.Context, pair model.Pair, lookbackDays int) (*model.PairReport, error) {
	now := c.Now()
	w := model.TrailingWindow(now, lookbackDays)

	pricesA, err := c.Fetcher.FetchDailyCloses(ctx, pair.A, w)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pair.A, err)
	}
	pricesB, err := c.Fetcher.FetchDailyCloses(ctx, pair.B, w)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pair.B, err)
	}

	returnsA, err := calculator.BuildReturns(pricesA)
	if err != nil {
		return nil, fmt.Errorf("returns: %w", err)
	}
	returnsB, err := calculator.BuildReturns(pricesB)
	if err != nil {
		return nil, fmt.Errorf("returns: %w", err)
	}

	summary, err := calculator.Summarize(returnsA, returnsB)
	if err != nil {
		return nil, fmt.Errorf("correlate: %w", err)
	}

	lastA, _ := pricesA.Last()
	lastB, _ := pricesB.Last()
	log.Info().
		Str("pair", pair.String()).
		Float64("coefficient", summary.Coefficient).
		Str("relationship", string(summary.Relationship)).
		Int("samples", summary.SampleSize).
		Msg("pair collected")

	return &model.PairReport{
		Pair:        pair,
		Window:      w,
		PricesA:     pricesA,
		PricesB:     pricesB,
		ReturnsA:    returnsA,
		ReturnsB:    returnsB,
		Summary:     summary,
		LastA:       lastA.Close,
		LastB:       lastB.Close,
		GeneratedAt: now,
	}, nil
}
