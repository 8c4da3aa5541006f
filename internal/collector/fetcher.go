package collector

import (
	"context"

	"PairWatch/internal/model"
)

// Fetcher defines the interface for fetching daily closing prices.
// Implementations return points ascending by day with positive closes only.
type Fetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, w model.Window) (model.PriceSeries, error)
	Name() string
}
