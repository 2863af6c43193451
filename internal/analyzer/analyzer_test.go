package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskSentinel/internal/collector"
	"RiskSentinel/internal/model"
	"RiskSentinel/internal/returns"
	"RiskSentinel/internal/risk"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSettings() Settings {
	s := DefaultSettings()
	s.HistoryDays = 120
	s.WindowDays = 60
	s.LookbackDays = 20
	s.Paths = 10
	s.HorizonDays = 5
	s.Seed = 7
	return s
}

func points(start time.Time, prices ...float64) []model.PricePoint {
	out := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = model.PricePoint{Date: start.AddDate(0, 0, i), AdjClose: p}
	}
	return out
}

// symbolFetcher serves generated prices for known symbols and fails for the rest.
type symbolFetcher map[string]float64

func (f symbolFetcher) Name() string { return "symbols" }

func (f symbolFetcher) Fetch(_ context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	base, ok := f[symbol]
	if !ok {
		return nil, fmt.Errorf("symbols %s: %w: unknown symbol", symbol, model.ErrDataUnavailable)
	}
	return model.NewPriceSeries(symbol, collector.GenerateMockPrices(base, start, end))
}

func TestValueAtRisk_And_EmptyTail(t *testing.T) {
	start := day(2024, 1, 1)
	f := &collector.MockFetcher{Series: map[string][]model.PricePoint{
		"X": points(start, 100, 102, 99, 101, 98),
	}}
	a := New(f, testSettings())

	v, err := a.ValueAtRisk(context.Background(), "X", start, day(2024, 1, 5), 1, 0.8)
	require.NoError(t, err)
	assert.InDelta(t, -3, v.Value, 1e-12)

	v4, err := a.ValueAtRisk(context.Background(), "X", start, day(2024, 1, 5), 4, 0.8)
	require.NoError(t, err)
	assert.InDelta(t, 2*v.Value, v4.Value, 1e-12)

	// the quantile equals the sample minimum, so nothing is strictly below it
	_, err = a.ExpectedShortfall(context.Background(), "X", start, day(2024, 1, 5), 1, 0.8)
	assert.ErrorIs(t, err, model.ErrEmptyTail)
}

func TestValueAtRisk_FetchFailure(t *testing.T) {
	a := New(&collector.MockFetcher{Err: errors.New("offline")}, testSettings())
	_, err := a.ValueAtRisk(context.Background(), "X", day(2024, 1, 1), day(2024, 2, 1), 1, 0.95)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)

	_, err = a.History(context.Background(), "X", day(2024, 2, 1), day(2024, 1, 1))
	assert.ErrorIs(t, err, model.ErrInvalidWindow)
}

func TestBacktest_TestsEveryWindowDayWithoutLookahead(t *testing.T) {
	const lookback = 20
	windowStart, windowEnd := day(2024, 3, 4), day(2024, 3, 29)
	f := symbolFetcher{"SPY": 400}
	a := New(f, testSettings())

	bt, err := a.Backtest(context.Background(), "SPY", windowStart, windowEnd, lookback, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 20, bt.Outcome.Observations)
	assert.Equal(t, windowStart, bt.Days[0].Date)
	assert.Equal(t, windowEnd, bt.Outcome.WindowEnd)
	assert.Equal(t, lookback, bt.Outcome.LookbackDays)
	assert.NotEmpty(t, bt.Distribution)

	// recompute the first VaR from the lookback returns strictly before it
	series, err := f.Fetch(context.Background(), "SPY", windowStart.AddDate(0, 0, -lookbackBuffer(lookback)), windowEnd)
	require.NoError(t, err)
	r, err := returns.Absolute(series, 1)
	require.NoError(t, err)
	j := 0
	for r.At(j).Date.Before(windowStart) {
		j++
	}
	q, err := risk.Quantile(r.Values()[j-lookback:j], 0.05, model.QuantileLinear)
	require.NoError(t, err)
	assert.InDelta(t, q, bt.Days[0].VaR, 1e-12)
	assert.Equal(t, r.At(j).Value, bt.Days[0].Return)
}

func TestBacktest_NotEnoughHistory(t *testing.T) {
	start := day(2024, 1, 1)
	f := &collector.MockFetcher{Series: map[string][]model.PricePoint{
		"X": points(start, 100, 101, 102, 103, 104, 105, 106, 107),
	}}
	a := New(f, testSettings())
	_, err := a.Backtest(context.Background(), "X", day(2024, 1, 5), day(2024, 1, 8), 10, 0.95)
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	_, err = a.Backtest(context.Background(), "X", day(2024, 1, 8), day(2024, 1, 5), 2, 0.95)
	assert.ErrorIs(t, err, model.ErrInvalidWindow)
}

func TestSimulate_DefaultsSeedToLastClose(t *testing.T) {
	start := day(2024, 1, 1)
	f := &collector.MockFetcher{Series: map[string][]model.PricePoint{
		"X": points(start, 100, 101, 99, 102, 103),
	}}
	a := New(f, testSettings())

	m, sim, err := a.Simulate(context.Background(), "X", start, day(2024, 1, 5), day(2024, 2, 1), day(2024, 2, 11), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 103.0, sim.SeedPrice)
	assert.Equal(t, 10, sim.Days())
	assert.Equal(t, 3, sim.Paths())
	assert.Equal(t, []float64{103, 103, 103}, sim.Prices[0])
	assert.Contains(t, m.String(), "Model calibrated using data for 01/01/2024 to 05/01/2024")

	_, sim2, err := a.Simulate(context.Background(), "X", start, day(2024, 1, 5), day(2024, 2, 1), day(2024, 2, 11), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, sim.Prices, sim2.Prices, "a fixed seed reproduces the paths")
}

func TestCalibrate_TooShort(t *testing.T) {
	start := day(2024, 1, 1)
	f := &collector.MockFetcher{Series: map[string][]model.PricePoint{"X": points(start, 100, 101)}}
	_, err := New(f, testSettings()).Calibrate(context.Background(), "X", start, day(2024, 1, 2))
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestReport_AllSections(t *testing.T) {
	a := New(symbolFetcher{"SPY": 400}, testSettings())
	rep, err := a.Report(context.Background(), "SPY", day(2024, 6, 28))
	require.NoError(t, err)

	assert.Empty(t, rep.Notes)
	require.NotNil(t, rep.VaR)
	require.NotNil(t, rep.ExpectedShortfall)
	require.NotNil(t, rep.Backtest)
	require.NotNil(t, rep.GBM)
	require.NotNil(t, rep.Simulation)
	assert.LessOrEqual(t, rep.ExpectedShortfall.Value, rep.VaR.Value)
	assert.Equal(t, model.CalibrationData, rep.GBM.Source)
	assert.Equal(t, rep.LastPrice, rep.Simulation.SeedPrice)
	assert.Equal(t, day(2024, 6, 29), rep.Simulation.Start)
	assert.Equal(t, 10, rep.Simulation.Paths)
}

func TestReport_SkipsFailedSections(t *testing.T) {
	f := &collector.MockFetcher{Series: map[string][]model.PricePoint{
		"X": points(day(2024, 6, 24), 100, 101, 99, 102, 104),
	}}
	rep, err := New(f, testSettings()).Report(context.Background(), "X", day(2024, 6, 28))
	require.NoError(t, err)
	assert.Nil(t, rep.Backtest)
	assert.NotNil(t, rep.VaR)
	assert.NotNil(t, rep.GBM)

	joined := strings.Join(rep.Notes, "\n")
	assert.Contains(t, joined, "backtest:")
}

func TestRunAll_CollectsPerSymbolFailures(t *testing.T) {
	a := New(symbolFetcher{"SPY": 400, "QQQ": 350}, testSettings())
	reports, err := a.RunAll(context.Background(), []string{"SPY", "NOPE", "QQQ"}, day(2024, 6, 28))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "NOPE")

	require.Len(t, reports, 3)
	assert.Equal(t, "SPY", reports[0].Symbol)
	assert.Nil(t, reports[1])
	assert.Equal(t, "QQQ", reports[2].Symbol)
}

func TestRunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(symbolFetcher{"SPY": 400}, testSettings()).RunAll(ctx, []string{"SPY"}, day(2024, 6, 28))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewModel_SeedDependsOnSymbol(t *testing.T) {
	start := day(2024, 1, 1)
	f := &collector.MockFetcher{Series: map[string][]model.PricePoint{
		"X": points(start, 100, 101, 99, 102, 103),
		"Y": points(start, 100, 101, 99, 102, 103),
	}}
	a := New(f, testSettings())

	simulate := func(symbol string) [][]float64 {
		_, sim, err := a.Simulate(context.Background(), symbol, start, day(2024, 1, 5), day(2024, 2, 1), day(2024, 2, 6), 2, 0)
		require.NoError(t, err)
		return sim.Prices
	}
	x, y := simulate("X"), simulate("Y")
	assert.Equal(t, x[0], y[0])
	assert.NotEqual(t, x[1:], y[1:], "identical calibration must not give identical shocks")
	assert.Equal(t, x, simulate("X"))

	assert.NotEqual(t, symbolSeed(7, "X"), symbolSeed(7, "Y"))
	assert.Equal(t, symbolSeed(7, "X"), symbolSeed(7, "X"))
}
