package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pairwatch_fetch_total", Help: "Price series fetches by data source and outcome"},
		[]string{"source", "status"},
	)
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pairwatch_fetch_duration_seconds",
			Help:    "Latency of price series fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pairwatch_cache_total", Help: "Price series cache lookups"},
		[]string{"result"},
	)
	Correlation = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "pairwatch_correlation", Help: "Latest return correlation of the configured pair"},
		[]string{"pair"},
	)
)

func init() {
	prometheus.MustRegister(FetchTotal, FetchDuration, CacheTotal, Correlation)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
