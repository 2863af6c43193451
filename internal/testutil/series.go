package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"RiskSentinel/internal/model"
)

// Start is the first date used by generated test series.
var Start = time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC)

// Series builds a daily price series starting at Start.
func Series(t testing.TB, symbol string, prices ...float64) *model.PriceSeries {
	t.Helper()
	points := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = model.PricePoint{Date: Start.AddDate(0, 0, i), AdjClose: p}
	}
	s, err := model.NewPriceSeries(symbol, points)
	require.NoError(t, err)
	return s
}

// Walk builds a deterministic zig-zag price series of n points around base.
func Walk(t testing.TB, symbol string, base float64, n int) *model.PriceSeries {
	t.Helper()
	prices := make([]float64, n)
	for i := range prices {
		// period-7 pattern with a slow upward drift keeps every price positive
		steps := []float64{0, 1.5, -2, 0.5, -1, 2.5, -3}
		prices[i] = base + float64(i)*0.05 + steps[i%len(steps)]
	}
	return Series(t, symbol, prices...)
}
