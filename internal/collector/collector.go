package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"RiskSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Series entries win over generated data; Err, when set, fails every call.
type MockFetcher struct {
	Price  float64
	Series map[string][]model.PricePoint
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	m.Calls++
	if m.Err != nil {
		return nil, unavailable(m.Name(), symbol, m.Err)
	}
	if points, ok := m.Series[symbol]; ok {
		series, err := buildSeries(symbol, points, start, end)
		if err != nil {
			return nil, unavailable(m.Name(), symbol, err)
		}
		return series, nil
	}
	base := m.Price
	if base <= 0 {
		base = 100
	}
	series, err := buildSeries(symbol, GenerateMockPrices(base, start, end), start, end)
	if err != nil {
		return nil, unavailable(m.Name(), symbol, err)
	}
	return series, nil
}

// GenerateMockPrices returns a deterministic weekday price path from start to end.
func GenerateMockPrices(basePrice float64, start, end time.Time) []model.PricePoint {
	var points []model.PricePoint
	i := 0
	for d := model.Day(start); !d.After(model.Day(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.0002*float64(i) + 0.015*math.Sin(float64(i)*0.7) + 0.01*math.Sin(float64(i)*2.3))
		points = append(points, model.PricePoint{Date: d, AdjClose: p})
		i++
	}
	return points
}

// Chain tries fetchers in order and returns the first success. The order is
// the caller's explicit fallback policy; every failure is logged.
type Chain struct {
	fetchers []Fetcher
	logger   zerolog.Logger
}

// NewChain composes fetchers into a fallback chain.
func NewChain(fetchers ...Fetcher) *Chain {
	return &Chain{
		fetchers: fetchers,
		logger:   log.With().Str("component", "fetcher_chain").Logger(),
	}
}

func (c *Chain) Name() string {
	names := make([]string, len(c.fetchers))
	for i, f := range c.fetchers {
		names[i] = f.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c *Chain) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	var errs []error
	for _, f := range c.fetchers {
		series, err := f.Fetch(ctx, symbol, start, end)
		if err == nil {
			return series, nil
		}
		c.logger.Warn().Err(err).Str("fetcher", f.Name()).Str("symbol", symbol).Msg("fetch failed")
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%s %s: %w: no fetchers configured", c.Name(), symbol, model.ErrDataUnavailable)
	}
	return nil, fmt.Errorf("%s %s: %w", c.Name(), symbol, errors.Join(errs...))
}
