package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"PairWatch/internal/metrics"
	"PairWatch/internal/model"
)

// ErrSourceUnavailable is returned while the breaker for a data source is open.
var ErrSourceUnavailable = errors.New("data source unavailable")

// GuardOptions configures GuardedFetcher.
type GuardOptions struct {
	RatePerSec float64
	Burst      int
	// Trips is the number of consecutive failures that opens the breaker.
	Trips uint32
	// Cooldown is how long the breaker stays open before a probe.
	Cooldown time.Duration
}

// GuardedFetcher throttles calls to a data source and stops calling it after
// repeated failures. It never retries.
type GuardedFetcher struct {
	next    Fetcher
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedFetcher wraps next with a token-bucket limiter and a circuit breaker.
func NewGuardedFetcher(next Fetcher, opts GuardOptions) *GuardedFetcher {
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	if opts.Trips == 0 {
		opts.Trips = 3
	}
	if opts.Cooldown == 0 {
		opts.Cooldown = 60 * time.Second
	}
	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	st := gobreaker.Settings{
		Name:    next.Name(),
		Timeout: opts.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.Trips
		},
		IsSuccessful: func(err error) bool {
			// A cancelled caller says nothing about the source's health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("source", name).Str("from", from.String()).Str("to", to.String()).Msg("breaker state change")
		},
	}
	return &GuardedFetcher{
		next:    next,
		limiter: rate.NewLimiter(limit, opts.Burst),
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

func (g *GuardedFetcher) Name() string { return g.next.Name() }

// State reports the breaker state, for health output.
func (g *GuardedFetcher) State() string { return g.breaker.State().String() }

func (g *GuardedFetcher) FetchDailyCloses(ctx context.Context, symbol string, w model.Window) (model.PriceSeries, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return model.PriceSeries{}, fmt.Errorf("rate limit %s: %w", g.Name(), err)
	}

	start := time.Now()
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.FetchDailyCloses(ctx, symbol, w)
	})
	metrics.FetchDuration.WithLabelValues(g.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.FetchTotal.WithLabelValues(g.Name(), "error").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return model.PriceSeries{}, fmt.Errorf("%s: %w", g.Name(), ErrSourceUnavailable)
		}
		return model.PriceSeries{}, err
	}
	metrics.FetchTotal.WithLabelValues(g.Name(), "ok").Inc()
	return out.(model.PriceSeries), nil
}
