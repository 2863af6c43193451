package collector

import (
	"context"
	"fmt"
	"time"

	"RiskSentinel/internal/model"
)

// Fetcher retrieves adjusted daily closes from a market-data provider.
// Fetch returns the prices dated within [start, end] in ascending order, or an
// error wrapping model.ErrDataUnavailable.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	Name() string
}

func unavailable(provider, symbol string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", provider, symbol, model.ErrDataUnavailable, err)
}

// buildSeries drops points outside [start, end], keeps the last point of
// each calendar day and validates the result.
func buildSeries(symbol string, points []model.PricePoint, start, end time.Time) (*model.PriceSeries, error) {
	first, last := model.Day(start), model.Day(end)
	kept := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		d := model.Day(p.Date)
		if d.Before(first) || d.After(last) {
			continue
		}
		p.Date = d
		if n := len(kept); n > 0 && kept[n-1].Date.Equal(d) {
			kept[n-1] = p
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no prices between %s and %s", model.FormatDate(first), model.FormatDate(last))
	}
	return model.NewPriceSeries(symbol, kept)
}
