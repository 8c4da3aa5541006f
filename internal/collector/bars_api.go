package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"PairWatch/internal/model"
)

// BarsAPIFetcher implements Fetcher against a REST API serving daily bars as
// a JSON array. It is selected when data_source.base_url is set.
type BarsAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewBarsAPIFetcher creates a new fetcher with optional proxy support.
func NewBarsAPIFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *BarsAPIFetcher {
	return &BarsAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *BarsAPIFetcher) Name() string { return "bars_api" }

// apiBar is the expected JSON shape from the bars API.
type apiBar struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

func (f *BarsAPIFetcher) FetchDailyCloses(ctx context.Context, symbol string, w model.Window) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", model.DayKey(w.Start).Format("2006-01-02"))
	q.Set("to", model.DayKey(w.End).Format("2006-01-02"))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.PriceSeries{}, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return model.PriceSeries{}, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var bars []apiBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return model.PriceSeries{}, fmt.Errorf("decode bars: %w", err)
	}
	points := make([]model.PricePoint, len(bars))
	for i, b := range bars {
		points[i] = model.PricePoint{Time: time.Unix(b.Timestamp, 0).UTC(), Close: b.Close}
	}
	return clip(normalize(symbol, points), w), nil
}
