package collector

import (
	"context"

	"github.com/rs/zerolog/log"

	"PairWatch/internal/cache"
	"PairWatch/internal/model"
)

// CachedFetcher serves repeated requests for the same symbol and window from
// a cache owned by the caller.
type CachedFetcher struct {
	next  Fetcher
	cache *cache.SeriesCache
}

// NewCachedFetcher wraps next with c.
func NewCachedFetcher(next Fetcher, c *cache.SeriesCache) *CachedFetcher {
	return &CachedFetcher{next: next, cache: c}
}

func (f *CachedFetcher) Name() string { return f.next.Name() }

func (f *CachedFetcher) FetchDailyCloses(ctx context.Context, symbol string, w model.Window) (model.PriceSeries, error) {
	key := cache.KeyFor(symbol, w)
	if s, ok := f.cache.Get(key); ok {
		log.Debug().Str("symbol", symbol).Msg("price series cache hit")
		return s, nil
	}
	s, err := f.next.FetchDailyCloses(ctx, symbol, w)
	if err != nil {
		return model.PriceSeries{}, err
	}
	f.cache.Set(key, s)
	return s, nil
}
