// Package analyzer fetches market data and runs the risk, backtest and GBM
// computations on it for one or many symbols.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"RiskSentinel/internal/backtest"
	"RiskSentinel/internal/collector"
	"RiskSentinel/internal/gbm"
	"RiskSentinel/internal/model"
	"RiskSentinel/internal/report"
	"RiskSentinel/internal/returns"
	"RiskSentinel/internal/risk"
)

// Analyzer composes a Fetcher with the risk core.
type Analyzer struct {
	fetcher  collector.Fetcher
	settings Settings
	logger   zerolog.Logger
}

// New creates an Analyzer reading prices from f.
func New(f collector.Fetcher, s Settings) *Analyzer {
	return &Analyzer{
		fetcher:  f,
		settings: s,
		logger:   log.With().Str("component", "analyzer").Str("fetcher", f.Name()).Logger(),
	}
}

// Settings returns the analyzer defaults.
func (a *Analyzer) Settings() Settings { return a.settings }

// History fetches adjusted closes for symbol within [start, end].
func (a *Analyzer) History(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("history %s: %w: %s after %s", symbol, model.ErrInvalidWindow,
			model.FormatDate(start), model.FormatDate(end))
	}
	series, err := a.fetcher.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("symbol", symbol).Int("points", series.Len()).
		Time("start", series.Start()).Time("end", series.End()).Msg("history fetched")
	return series, nil
}

// DailyReturns fetches history and derives its one-day absolute returns.
func (a *Analyzer) DailyReturns(ctx context.Context, symbol string, start, end time.Time) (*model.ReturnSeries, error) {
	series, err := a.History(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	return returns.Absolute(series, 1)
}

// ValueAtRisk estimates historical VaR from the daily returns between start and end.
func (a *Analyzer) ValueAtRisk(ctx context.Context, symbol string, start, end time.Time, horizon int, confidence float64) (model.VaRResult, error) {
	r, err := a.DailyReturns(ctx, symbol, start, end)
	if err != nil {
		return model.VaRResult{}, fmt.Errorf("var %s: %w", symbol, err)
	}
	res, err := risk.ValueAtRisk(r, horizon, confidence, risk.WithMethod(a.settings.Method))
	if err != nil {
		return model.VaRResult{}, fmt.Errorf("var %s: %w", symbol, err)
	}
	return res, nil
}

// ExpectedShortfall estimates historical ES from the daily returns between start and end.
func (a *Analyzer) ExpectedShortfall(ctx context.Context, symbol string, start, end time.Time, horizon int, confidence float64) (model.ExpectedShortfallResult, error) {
	r, err := a.DailyReturns(ctx, symbol, start, end)
	if err != nil {
		return model.ExpectedShortfallResult{}, fmt.Errorf("es %s: %w", symbol, err)
	}
	res, err := risk.ExpectedShortfall(r, horizon, confidence, risk.WithMethod(a.settings.Method))
	if err != nil {
		return model.ExpectedShortfallResult{}, fmt.Errorf("es %s: %w", symbol, err)
	}
	return res, nil
}

// lookbackBuffer is the calendar span that holds lookback trading days plus slack for holidays.
func lookbackBuffer(lookbackDays int) int {
	return lookbackDays*7/5 + 10
}

// Backtest tests the rolling one-day VaR on every trading day of
// [windowStart, windowEnd], each estimated from the lookbackDays returns
// before it. History before windowStart is fetched as needed.
func (a *Analyzer) Backtest(ctx context.Context, symbol string, windowStart, windowEnd time.Time, lookbackDays int, confidence float64) (*report.BacktestReport, error) {
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("backtest %s: %w: %s after %s", symbol, model.ErrInvalidWindow,
			model.FormatDate(windowStart), model.FormatDate(windowEnd))
	}
	if lookbackDays < 1 {
		return nil, fmt.Errorf("backtest %s: lookback: %w: got %d", symbol, model.ErrInvalidLag, lookbackDays)
	}
	from := model.Day(windowStart).AddDate(0, 0, -lookbackBuffer(lookbackDays))
	series, err := a.History(ctx, symbol, from, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", symbol, err)
	}
	return a.backtestSeries(symbol, series, windowStart, windowEnd, lookbackDays, confidence)
}

func (a *Analyzer) backtestSeries(symbol string, series *model.PriceSeries, windowStart, windowEnd time.Time, lookbackDays int, confidence float64) (*report.BacktestReport, error) {
	upTo, err := series.Between(series.Start(), windowEnd)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", symbol, err)
	}
	idx := upTo.IndexOnOrAfter(windowStart)
	if idx >= upTo.Len() {
		return nil, fmt.Errorf("backtest %s: %w: no prices from %s", symbol, model.ErrInsufficientData,
			model.FormatDate(windowStart))
	}
	if idx < lookbackDays+1 {
		return nil, fmt.Errorf("backtest %s: %w: %d prices before %s, need %d",
			symbol, model.ErrInsufficientData, idx, model.FormatDate(windowStart), lookbackDays+1)
	}
	// exactly lookbackDays returns precede the first tested day
	trimmed, err := upTo.Slice(idx-lookbackDays-1, upTo.Len())
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", symbol, err)
	}

	days, err := backtest.Rolling(trimmed, lookbackDays, confidence,
		backtest.WithWorkers(a.settings.Workers), backtest.WithMethod(a.settings.Method))
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", symbol, err)
	}
	outcome := backtest.Summarize(days, lookbackDays, confidence)
	test, err := backtest.BinomialTest(outcome)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", symbol, err)
	}
	dist, err := backtest.ExceptionDistribution(outcome.Observations, test.PException)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", symbol, err)
	}
	verdict := backtest.Interpret(test, a.settings.Significance)

	a.logger.Info().Str("symbol", symbol).Int("observations", outcome.Observations).
		Int("exceptions", outcome.Exceptions).Float64("p_value", test.PValue).
		Str("zone", string(test.Zone)).Str("verdict", string(verdict)).Msg("backtest done")

	return &report.BacktestReport{
		Symbol:       symbol,
		Outcome:      outcome,
		Test:         test,
		Verdict:      verdict,
		Days:         days,
		Distribution: dist,
	}, nil
}

// NewModel returns an uncalibrated GBM model for symbol, seeded when the
// settings carry a seed.
func (a *Analyzer) NewModel(symbol string) *gbm.Model {
	if a.settings.Seed != 0 {
		return gbm.New(symbol, gbm.WithSeed(symbolSeed(a.settings.Seed, symbol)))
	}
	return gbm.New(symbol)
}

// symbolSeed derives a per-symbol seed so symbols sharing a configured seed
// still draw independent shocks.
func symbolSeed(seed uint64, symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return seed ^ h.Sum64()
}

// Calibrate fits a GBM model to the log returns between start and end.
func (a *Analyzer) Calibrate(ctx context.Context, symbol string, start, end time.Time) (*gbm.Model, error) {
	m, _, err := a.calibrate(ctx, symbol, start, end)
	return m, err
}

func (a *Analyzer) calibrate(ctx context.Context, symbol string, start, end time.Time) (*gbm.Model, *model.PriceSeries, error) {
	series, err := a.History(ctx, symbol, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("calibrate %s: %w", symbol, err)
	}
	m := a.NewModel(symbol)
	if err := m.CalibrateFromData(series); err != nil {
		return nil, nil, err
	}
	return m, series, nil
}

// Simulate calibrates on [calStart, calEnd] and simulates nPaths paths over
// [simStart, simEnd). A seedPrice <= 0 starts the paths from the last
// calibration close.
func (a *Analyzer) Simulate(ctx context.Context, symbol string, calStart, calEnd, simStart, simEnd time.Time, nPaths int, seedPrice float64) (*gbm.Model, *model.SimulatedPaths, error) {
	m, series, err := a.calibrate(ctx, symbol, calStart, calEnd)
	if err != nil {
		return nil, nil, err
	}
	if seedPrice <= 0 {
		seedPrice = series.Last().AdjClose
	}
	sim, err := m.Simulate(simStart, simEnd, nPaths, seedPrice)
	if err != nil {
		return nil, nil, err
	}
	return m, sim, nil
}

// Report fetches history once and fills every section of a risk snapshot
// ending at asOf. Only a failed fetch fails the report; a section that cannot
// be computed is left nil and explained in Notes.
func (a *Analyzer) Report(ctx context.Context, symbol string, asOf time.Time) (*report.RiskReport, error) {
	s := a.settings
	asOf = model.Day(asOf)
	historyStart := asOf.AddDate(0, 0, -s.HistoryDays)
	windowStart := asOf.AddDate(0, 0, -s.WindowDays)
	from := windowStart.AddDate(0, 0, -lookbackBuffer(s.LookbackDays))
	if historyStart.Before(from) {
		from = historyStart
	}

	series, err := a.History(ctx, symbol, from, asOf)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", symbol, err)
	}
	rep := &report.RiskReport{Symbol: symbol, AsOf: asOf, LastPrice: series.Last().AdjClose}
	note := func(section string, err error) {
		rep.Notes = append(rep.Notes, fmt.Sprintf("%s: %v", section, err))
		a.logger.Warn().Err(err).Str("symbol", symbol).Str("section", section).Msg("report section skipped")
	}

	history, err := series.Between(historyStart, asOf)
	if err != nil {
		note("history", err)
		return rep, nil
	}

	if r, err := returns.Absolute(history, 1); err != nil {
		note("var", err)
	} else {
		if v, err := risk.ValueAtRisk(r, s.Horizon, s.Confidence, risk.WithMethod(s.Method)); err != nil {
			note("var", err)
		} else {
			rep.VaR = &v
		}
		if es, err := risk.ExpectedShortfall(r, s.Horizon, s.Confidence, risk.WithMethod(s.Method)); err != nil {
			note("es", err)
		} else {
			rep.ExpectedShortfall = &es
		}
	}

	if bt, err := a.backtestSeries(symbol, series, windowStart, asOf, s.LookbackDays, s.Confidence); err != nil {
		note("backtest", err)
	} else {
		rep.Backtest = bt
	}

	m := a.NewModel(symbol)
	if err := m.CalibrateFromData(history); err != nil {
		note("gbm", err)
		return rep, nil
	}
	params, _ := m.Params()
	rep.GBM = &params
	simStart := asOf.AddDate(0, 0, 1)
	sim, err := m.Simulate(simStart, simStart.AddDate(0, 0, s.HorizonDays), s.Paths, rep.LastPrice)
	if err != nil {
		note("simulation", err)
		return rep, nil
	}
	summary := report.Summarize(sim)
	rep.Simulation = &summary
	return rep, nil
}

// RunAll builds a report for every symbol, at most Settings.Concurrency at
// once. Reports come back in symbol order with nil entries for the symbols
// that failed; the error joins every failure.
func (a *Analyzer) RunAll(ctx context.Context, symbols []string, asOf time.Time) ([]*report.RiskReport, error) {
	reports := make([]*report.RiskReport, len(symbols))
	errs := make([]error, len(symbols))

	var g errgroup.Group
	if a.settings.Concurrency > 0 {
		g.SetLimit(a.settings.Concurrency)
	}
	for i, symbol := range symbols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("report %s: %w", symbol, err)
				return nil
			}
			reports[i], errs[i] = a.Report(ctx, symbol, asOf)
			return nil
		})
	}
	_ = g.Wait()
	return reports, errors.Join(errs...)
}
