package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PairWatch/internal/collector"
	"PairWatch/internal/metrics"
	"PairWatch/internal/model"
)

type recordingSender struct{ msgs []string }

func (r *recordingSender) SendWithRetry(_ context.Context, text string, _ int) error {
	r.msgs = append(r.msgs, text)
	return nil
}

var now = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

func series(symbol string, values ...float64) model.PriceSeries {
	pts := make([]model.PricePoint, len(values))
	for i, v := range values {
		pts[i] = model.PricePoint{Time: model.DayKey(now).AddDate(0, 0, i-len(values)), Close: v}
	}
	return model.PriceSeries{Symbol: symbol, Points: pts}
}

func newScheduler(m *collector.MockFetcher, sender Sender) *Scheduler {
	col := collector.NewCollector(m)
	col.Now = func() time.Time { return now }
	return NewScheduler(context.Background(), col, sender, model.Pair{A: "A", B: "B"}, 30)
}

func TestRefresh_AlertsOnFirstRunAndFlip(t *testing.T) {
	m := &collector.MockFetcher{Series: map[string]model.PriceSeries{
		"A": series("A", 100, 110, 99, 108.9),
		"B": series("B", 1.0, 1.1, 0.99, 1.089),
	}}
	rs := &recordingSender{}
	s := newScheduler(m, rs)

	s.RunNow()
	require.Len(t, rs.msgs, 1)
	assert.Equal(t, model.CoMoving, s.LastRelationship())
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.Correlation.WithLabelValues("A/B")), 1e-9)

	s.RunNow()
	assert.Len(t, rs.msgs, 1, "no alert while relationship holds")

	m.Series["B"] = series("B", 1.0, 0.9, 0.99, 0.891)
	s.RunNow()
	require.Len(t, rs.msgs, 2)
	assert.Contains(t, rs.msgs[1], "Relationship changed")
	assert.InDelta(t, -1.0, testutil.ToFloat64(metrics.Correlation.WithLabelValues("A/B")), 1e-9)
	assert.Equal(t, model.Inverse, s.LastRelationship())
}

func TestRefresh_FailureKeepsLastState(t *testing.T) {
	m := &collector.MockFetcher{Series: map[string]model.PriceSeries{}}
	rs := &recordingSender{}
	s := newScheduler(m, rs)

	s.RunNow()
	require.Len(t, rs.msgs, 1)
	assert.Contains(t, rs.msgs[0], "refresh failed")
	assert.Equal(t, model.Relationship(""), s.LastRelationship())
}

func TestRefresh_NilSender(t *testing.T) {
	m := &collector.MockFetcher{Series: map[string]model.PriceSeries{
		"A": series("A", 1, 2, 3, 2),
		"B": series("B", 4, 5, 6, 5),
	}}
	s := newScheduler(m, nil)
	assert.NotPanics(t, s.RunNow)
}

func TestRegister(t *testing.T) {
	s := newScheduler(&collector.MockFetcher{}, nil)
	assert.NoError(t, s.Register("0 0 9 * * *"))
	assert.Error(t, s.Register("not a cron"))
	assert.Len(t, s.Cron.Entries(), 1)
}

func TestHandleCommand(t *testing.T) {
	m := &collector.MockFetcher{Series: map[string]model.PriceSeries{
		"A": series("A", 100, 110, 99, 108.9),
		"B": series("B", 1.0, 1.1, 0.99, 1.089),
	}}
	s := newScheduler(m, nil)

	assert.Contains(t, s.HandleCommand(context.Background(), "/corr"), "1.000")
	assert.Contains(t, s.HandleCommand(context.Background(), "hello"), "/corr")

	delete(m.Series, "B")
	assert.Contains(t, s.HandleCommand(context.Background(), "/corr"), "❌")
}
