package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/platform/httpclient"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *httpclient.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	logger    zerolog.Logger
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(client *httpclient.Client) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  client,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		logger: log.With().Str("component", "yahoo_fetcher").Logger(),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch downloads daily adjusted closes for [start, end].
func (f *YahooFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if model.Day(end).Before(model.Day(start)) {
		return nil, unavailable(f.Name(), symbol, model.ErrInvalidWindow)
	}
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprint(model.Day(start).Unix()))
	q.Set("period2", fmt.Sprint(model.Day(end).AddDate(0, 0, 1).Unix()))
	q.Set("events", "div,splits")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), q.Encode())

	f.logger.Debug().Str("symbol", symbol).Str("url", u).Msg("fetching chart")
	body, err := f.Client.Get(ctx, u, http.Header{"User-Agent": {"Mozilla/5.0"}})
	if err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}

	points, err := parseYahooChart(body)
	if err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	series, err := buildSeries(symbol, points, start, end)
	if err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	f.logger.Debug().Str("symbol", symbol).Int("count", series.Len()).Msg("fetched prices")
	return series, nil
}

func parseYahooChart(body []byte) ([]model.PricePoint, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, errors.New("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	// prefer adjusted closes, plain closes only when the block is missing
	var closes []*float64
	switch {
	case len(result.Indicators.AdjClose) > 0:
		closes = result.Indicators.AdjClose[0].AdjClose
	case len(result.Indicators.Quote) > 0:
		closes = result.Indicators.Quote[0].Close
	default:
		return nil, errors.New("yahoo: no close prices in response")
	}

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue // null bars (holidays etc.)
		}
		// shift to exchange local time before taking the calendar date
		local := time.Unix(ts+result.Meta.GMTOffset, 0).UTC()
		points = append(points, model.PricePoint{Date: model.Day(local), AdjClose: *closes[i]})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
