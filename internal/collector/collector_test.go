package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PairWatch/internal/cache"
	"PairWatch/internal/calculator"
	"PairWatch/internal/metrics"
	"PairWatch/internal/model"
)

var now = time.Date(2025, 3, 31, 15, 0, 0, 0, time.UTC)

func closes(symbol string, end time.Time, values ...float64) model.PriceSeries {
	pts := make([]model.PricePoint, len(values))
	for i, v := range values {
		pts[i] = model.PricePoint{Time: model.DayKey(end).AddDate(0, 0, i-len(values)), Close: v}
	}
	return model.PriceSeries{Symbol: symbol, Points: pts}
}

func newMock() *MockFetcher {
	return &MockFetcher{Series: map[string]model.PriceSeries{
		"BTC-USD":  closes("BTC-USD", now, 100, 110, 99, 108.9),
		"GODS-USD": closes("GODS-USD", now, 1.0, 1.1, 0.99, 1.089),
		"INV-USD":  closes("INV-USD", now, 1.0, 0.9, 0.99, 0.891),
	}}
}

func TestCollect_CoMoving(t *testing.T) {
	c := NewCollector(newMock())
	c.Now = func() time.Time { return now }

	rep, err := c.Collect(context.Background(), model.Pair{A: "BTC-USD", B: "GODS-USD"}, 90)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rep.Summary.Coefficient, 1e-9)
	assert.Equal(t, model.CoMoving, rep.Summary.Relationship)
	assert.Equal(t, 3, rep.Summary.SampleSize)
	assert.Equal(t, 108.9, rep.LastA)
	assert.Equal(t, 1.089, rep.LastB)
	assert.Equal(t, 90, rep.Window.Days())
	assert.Equal(t, 3, rep.ReturnsA.Len())
}

func TestCollect_Inverse(t *testing.T) {
	c := NewCollector(newMock())
	c.Now = func() time.Time { return now }

	rep, err := c.Collect(context.Background(), model.Pair{A: "BTC-USD", B: "INV-USD"}, 90)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, rep.Summary.Coefficient, 1e-9)
	assert.Equal(t, model.Inverse, rep.Summary.Relationship)
}

func TestCollect_LeavesCorrelationGaugeAlone(t *testing.T) {
	before := testutil.CollectAndCount(metrics.Correlation)
	c := NewCollector(newMock())
	c.Now = func() time.Time { return now }

	_, err := c.Collect(context.Background(), model.Pair{A: "BTC-USD", B: "INV-USD"}, 90)
	require.NoError(t, err)
	assert.Equal(t, before, testutil.CollectAndCount(metrics.Correlation))
}

func TestCollect_Errors(t *testing.T) {
	m := newMock()
	m.Series["FLAT-USD"] = closes("FLAT-USD", now, 5)
	c := NewCollector(m)
	c.Now = func() time.Time { return now }

	_, err := c.Collect(context.Background(), model.Pair{A: "BTC-USD", B: "FLAT-USD"}, 90)
	assert.ErrorIs(t, err, calculator.ErrInsufficientData)

	_, err = c.Collect(context.Background(), model.Pair{A: "BTC-USD", B: "NOPE"}, 90)
	assert.Error(t, err)

	m.Err = errors.New("boom")
	_, err = c.Collect(context.Background(), model.Pair{A: "BTC-USD", B: "GODS-USD"}, 90)
	assert.ErrorContains(t, err, "fetch BTC-USD")
}

func TestCollect_WindowClipsOldData(t *testing.T) {
	m := newMock()
	c := NewCollector(m)
	c.Now = func() time.Time { return now }

	// A three-day window keeps the last three closes.
	rep, err := c.Collect(context.Background(), model.Pair{A: "BTC-USD", B: "GODS-USD"}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.PricesA.Len())
	assert.Equal(t, 2, rep.Summary.SampleSize)
}

func TestCollect_SkipsTodaysPartialBar(t *testing.T) {
	m := newMock()
	for _, sym := range []string{"BTC-USD", "GODS-USD"} {
		s := m.Series[sym]
		s.Points = append(s.Points, model.PricePoint{Time: model.DayKey(now), Close: 1e6})
		m.Series[sym] = s
	}
	c := NewCollector(m)
	c.Now = func() time.Time { return now }

	rep, err := c.Collect(context.Background(), model.Pair{A: "BTC-USD", B: "GODS-USD"}, 90)
	require.NoError(t, err)
	assert.Equal(t, 108.9, rep.LastA)
	assert.Equal(t, 3, rep.Summary.SampleSize)
}

func TestCachedFetcher(t *testing.T) {
	m := newMock()
	f := NewCachedFetcher(m, cache.New(0, 0))
	w := model.TrailingWindow(now, 90)

	first, err := f.FetchDailyCloses(context.Background(), "BTC-USD", w)
	require.NoError(t, err)
	second, err := f.FetchDailyCloses(context.Background(), "BTC-USD", w)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, m.Calls)
	assert.Equal(t, "mock", f.Name())

	m.Err = errors.New("down")
	_, err = f.FetchDailyCloses(context.Background(), "GODS-USD", w)
	assert.Error(t, err)
}

func TestGuardedFetcher_OpensAfterFailures(t *testing.T) {
	m := &MockFetcher{Err: errors.New("upstream 500")}
	g := NewGuardedFetcher(m, GuardOptions{Trips: 2, Cooldown: time.Hour})
	w := model.TrailingWindow(now, 90)

	for i := 0; i < 2; i++ {
		_, err := g.FetchDailyCloses(context.Background(), "BTC-USD", w)
		assert.ErrorContains(t, err, "upstream 500")
	}
	_, err := g.FetchDailyCloses(context.Background(), "BTC-USD", w)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, 2, m.Calls)
	assert.Equal(t, "open", g.State())
}

func TestGuardedFetcher_PassesThrough(t *testing.T) {
	g := NewGuardedFetcher(newMock(), GuardOptions{RatePerSec: 100, Burst: 2})
	s, err := g.FetchDailyCloses(context.Background(), "GODS-USD", model.TrailingWindow(now, 90))
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, "closed", g.State())
}

func TestGuardedFetcher_CancelledContext(t *testing.T) {
	g := NewGuardedFetcher(newMock(), GuardOptions{RatePerSec: 0.001, Burst: 1})
	w := model.TrailingWindow(now, 90)
	_, err := g.FetchDailyCloses(context.Background(), "BTC-USD", w)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.FetchDailyCloses(ctx, "BTC-USD", w)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	d := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := normalize("X", []model.PricePoint{
		{Time: d.AddDate(0, 0, 2), Close: 3},
		{Time: d, Close: 1},
		{Time: d.AddDate(0, 0, 1), Close: 0},
		{Time: d.AddDate(0, 0, 2).Add(time.Hour), Close: 3.5},
		{Time: d.AddDate(0, 0, 3), Close: -2},
	})
	require.Len(t, s.Points, 2)
	assert.Equal(t, 1.0, s.Points[0].Close)
	assert.Equal(t, 3.5, s.Points[1].Close)
	assert.Equal(t, d.AddDate(0, 0, 2), s.Points[1].Time, "restamped at the start of the day")
}
