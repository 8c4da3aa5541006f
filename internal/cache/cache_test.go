package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PairWatch/internal/model"
)

var (
	start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	win   = model.Window{Start: start, End: start.AddDate(0, 0, 90)}
)

func sample(symbol string) model.PriceSeries {
	return model.PriceSeries{Symbol: symbol, Points: []model.PricePoint{
		{Time: start, Close: 1}, {Time: start.AddDate(0, 0, 1), Close: 2},
	}}
}

func TestSeriesCache_GetSet(t *testing.T) {
	c := New(0, 0)
	_, ok := c.Get(KeyFor("BTC-USD", win))
	assert.False(t, ok)

	c.Set(KeyFor("BTC-USD", win), sample("BTC-USD"))
	got, ok := c.Get(KeyFor("BTC-USD", win))
	require.True(t, ok)
	assert.Equal(t, sample("BTC-USD"), got)

	// Keys normalise to calendar days.
	shifted := model.Window{Start: win.Start.Add(3 * time.Hour), End: win.End.Add(7 * time.Hour)}
	_, ok = c.Get(KeyFor("BTC-USD", shifted))
	assert.True(t, ok)

	other := model.Window{Start: win.Start.AddDate(0, 0, 1), End: win.End}
	_, ok = c.Get(KeyFor("BTC-USD", other))
	assert.False(t, ok)
}

func TestSeriesCache_ReturnsCopies(t *testing.T) {
	c := New(0, 0)
	s := sample("X")
	c.Set(KeyFor("X", win), s)
	s.Points[0].Close = 999

	got, _ := c.Get(KeyFor("X", win))
	assert.Equal(t, 1.0, got.Points[0].Close)
	got.Points[1].Close = 777

	again, _ := c.Get(KeyFor("X", win))
	assert.Equal(t, 2.0, again.Points[1].Close)
}

func TestSeriesCache_TTL(t *testing.T) {
	now := start
	c := New(time.Minute, 0)
	c.now = func() time.Time { return now }

	c.Set(KeyFor("X", win), sample("X"))
	now = now.Add(30 * time.Second)
	_, ok := c.Get(KeyFor("X", win))
	assert.True(t, ok)

	now = now.Add(31 * time.Second)
	_, ok = c.Get(KeyFor("X", win))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestSeriesCache_InvalidateAndPurge(t *testing.T) {
	c := New(0, 0)
	c.Set(KeyFor("A", win), sample("A"))
	c.Set(KeyFor("B", win), sample("B"))
	c.Invalidate("A")
	_, ok := c.Get(KeyFor("A", win))
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestSeriesCache_SweepsExpiredAcrossDays(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c := New(time.Hour, 0)
	c.now = func() time.Time { return now }

	for i := 0; i < 30; i++ {
		key := KeyFor("BTC-USD", model.TrailingWindow(now, 90))
		c.Set(key, sample("BTC-USD"))
		_, ok := c.Get(key)
		require.True(t, ok)
		now = now.AddDate(0, 0, 1)
	}
	assert.Equal(t, 1, c.Len(), "only the latest daily window survives")

	now = now.Add(2 * time.Hour)
	c.Set(KeyFor("GODS-USD", win), sample("GODS-USD"))
	assert.Equal(t, 1, c.Len())
}

func TestSeriesCache_MaxEntries(t *testing.T) {
	now := start
	c := New(0, 3)
	c.now = func() time.Time { return now }

	for _, sym := range []string{"A", "B", "C"} {
		c.Set(KeyFor(sym, win), sample(sym))
		now = now.Add(time.Second)
	}
	c.Set(KeyFor("B", win), sample("B"))
	assert.Equal(t, 3, c.Len(), "overwriting a key evicts nothing")

	c.Set(KeyFor("D", win), sample("D"))
	assert.Equal(t, 3, c.Len())
	_, ok := c.Get(KeyFor("A", win))
	assert.False(t, ok, "oldest entry evicted")
	_, ok = c.Get(KeyFor("D", win))
	assert.True(t, ok)
}
