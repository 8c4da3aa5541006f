package collector

import (
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"PairWatch/internal/model"
)

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// normalize drops unusable closes, stamps every point at the start of its
// UTC day, orders points by time and keeps the last point seen for each day.
func normalize(symbol string, points []model.PricePoint) model.PriceSeries {
	kept := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if p.Close <= 0 || math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			continue // null bars, holidays
		}
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Time.Before(kept[j].Time) })

	out := kept[:0]
	for _, p := range kept {
		p.Time = model.DayKey(p.Time)
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return model.PriceSeries{Symbol: symbol, Points: out}
}

// clip keeps points inside [w.Start, w.End] by calendar day.
func clip(s model.PriceSeries, w model.Window) model.PriceSeries {
	start, end := model.DayKey(w.Start), model.DayKey(w.End)
	out := make([]model.PricePoint, 0, len(s.Points))
	for _, p := range s.Points {
		d := model.DayKey(p.Time)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, p)
	}
	s.Points = out
	return s
}
