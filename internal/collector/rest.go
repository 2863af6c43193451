package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/platform/httpclient"
)

// RESTFetcher implements Fetcher against a JSON daily-bars endpoint:
// GET {BaseURL}/api/v1/bars/daily?symbol=..&start=yyyy-mm-dd&end=yyyy-mm-dd
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *httpclient.Client
}

// NewRESTFetcher creates a fetcher for baseURL authenticated with apiKey, if set.
func NewRESTFetcher(baseURL, apiKey string, client *httpclient.Client) *RESTFetcher {
	return &RESTFetcher{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars endpoint.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Close     float64  `json:"close"`
	AdjClose  *float64 `json:"adj_close"`
}

func (f *RESTFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("start", model.Day(start).Format(time.DateOnly))
	q.Set("end", model.Day(end).Format(time.DateOnly))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	header := http.Header{}
	if f.APIKey != "" {
		header.Set("Authorization", "Bearer "+f.APIKey)
	}
	body, err := f.Client.Get(ctx, endpoint, header)
	if err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}

	var bars []restBar
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, unavailable(f.Name(), symbol, fmt.Errorf("decode bars: %w", err))
	}
	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		price := b.Close
		if b.AdjClose != nil {
			price = *b.AdjClose
		}
		points = append(points, model.PricePoint{Date: time.Unix(b.Timestamp, 0).UTC(), AdjClose: price})
	}
	// Ensure chronological order
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	series, err := buildSeries(symbol, points, start, end)
	if err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	return series, nil
}
