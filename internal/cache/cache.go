// Package cache holds fetched price series for the caller that owns it.
// Entries live until their TTL passes, the caller invalidates them, the size
// bound evicts them, or the process exits. Nothing is written outside the
// process.
package cache

import (
	"sync"
	"time"

	"PairWatch/internal/metrics"
	"PairWatch/internal/model"
)

// Key identifies one fetched series.
type Key struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

// KeyFor builds the cache key for a symbol over a window, normalised to calendar days.
func KeyFor(symbol string, w model.Window) Key {
	return Key{Symbol: symbol, Start: model.DayKey(w.Start), End: model.DayKey(w.End)}
}

// DefaultMaxEntries bounds a cache created with maxEntries <= 0.
const DefaultMaxEntries = 512

type entry struct {
	series model.PriceSeries
	stored time.Time
	exp    time.Time
}

// SeriesCache is an in-process TTL cache of price series. A zero TTL keeps
// entries until they are invalidated or evicted. Expired entries are swept on
// every Set, and once maxEntries is reached the oldest entry makes room.
type SeriesCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	m          map[Key]entry
}

// New creates a cache with the given TTL holding at most maxEntries series.
func New(ttl time.Duration, maxEntries int) *SeriesCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &SeriesCache{ttl: ttl, maxEntries: maxEntries, now: time.Now, m: make(map[Key]entry)}
}

// Get returns a copy of the cached series for key.
func (c *SeriesCache) Get(key Key) (model.PriceSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if ok && e.expired(c.now()) {
		delete(c.m, key)
		ok = false
	}
	if !ok {
		metrics.CacheTotal.WithLabelValues("miss").Inc()
		return model.PriceSeries{}, false
	}
	metrics.CacheTotal.WithLabelValues("hit").Inc()
	return clone(e.series), true
}

// Set stores a copy of series under key.
func (c *SeriesCache) Set(key Key, series model.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.sweep(now)
	if _, ok := c.m[key]; !ok {
		for len(c.m) >= c.maxEntries {
			c.evictOldest()
		}
	}
	e := entry{series: clone(series), stored: now}
	if c.ttl > 0 {
		e.exp = now.Add(c.ttl)
	}
	c.m[key] = e
}

func (c *SeriesCache) sweep(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for k, e := range c.m {
		if e.expired(now) {
			delete(c.m, k)
		}
	}
}

func (c *SeriesCache) evictOldest() {
	var (
		oldest Key
		at     time.Time
		found  bool
	)
	for k, e := range c.m {
		if !found || e.stored.Before(at) {
			oldest, at, found = k, e.stored, true
		}
	}
	if found {
		delete(c.m, oldest)
	}
}

func (e entry) expired(now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

// Invalidate drops every entry for symbol.
func (c *SeriesCache) Invalidate(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.m {
		if k.Symbol == symbol {
			delete(c.m, k)
		}
	}
}

// Purge drops all entries.
func (c *SeriesCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[Key]entry)
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *SeriesCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Series are handed out by value; the points slice must not be shared.
func clone(s model.PriceSeries) model.PriceSeries {
	s.Points = append([]model.PricePoint(nil), s.Points...)
	return s
}
