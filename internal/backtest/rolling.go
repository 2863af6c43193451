// Package backtest checks a rolling historical VaR against realized returns.
package backtest

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/returns"
	"RiskSentinel/internal/risk"
)

type options struct {
	workers int
	method  model.QuantileMethod
}

// Option configures a backtest run.
type Option func(*options)

// WithWorkers estimates the daily VaR figures on up to n goroutines.
// The result does not depend on n.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithMethod selects the quantile estimator used for the rolling VaR.
func WithMethod(m model.QuantileMethod) Option {
	return func(o *options) { o.method = m }
}

// Rolling runs a one-day historical VaR forward over prices.
//
// Day t is tested once lookbackDays one-day returns precede it. Its VaR is the
// 1-confidence quantile of the returns r[t-lookbackDays] .. r[t-1], so the
// estimate never sees r[t]. An exception is r[t] < VaR[t]. The first
// lookbackDays+1 prices have no VaR and are not part of the result.
func Rolling(prices *model.PriceSeries, lookbackDays int, confidence float64, opts ...Option) ([]model.BacktestDay, error) {
	o := options{workers: 1, method: model.QuantileLinear}
	for _, opt := range opts {
		opt(&o)
	}
	if err := risk.ValidateConfidence(confidence); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	if lookbackDays < 1 {
		return nil, fmt.Errorf("backtest: lookback: %w: got %d", model.ErrInvalidLag, lookbackDays)
	}
	r, err := returns.Absolute(prices, 1)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	if r.Len() <= lookbackDays {
		return nil, fmt.Errorf("backtest: %w: %d returns for a %d-day lookback",
			model.ErrInsufficientData, r.Len(), lookbackDays)
	}

	values := r.Values()
	days := make([]model.BacktestDay, r.Len()-lookbackDays)

	// each day writes only its own slot
	estimate := func(from, to int) error {
		for i := from; i < to; i++ {
			j := i + lookbackDays
			q, err := risk.Quantile(values[j-lookbackDays:j], 1-confidence, o.method)
			if err != nil {
				return fmt.Errorf("backtest: VaR on %s: %w", model.FormatDate(r.At(j).Date), err)
			}
			days[i] = model.BacktestDay{
				Date:      r.At(j).Date,
				Return:    values[j],
				VaR:       q,
				Exception: values[j] < q,
			}
		}
		return nil
	}

	workers := o.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(days) {
		workers = len(days)
	}
	if workers == 1 {
		if err := estimate(0, len(days)); err != nil {
			return nil, err
		}
		return days, nil
	}

	var g errgroup.Group
	chunk := (len(days) + workers - 1) / workers
	for from := 0; from < len(days); from += chunk {
		from, to := from, min(from+chunk, len(days))
		g.Go(func() error { return estimate(from, to) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return days, nil
}

// CountExceptions runs Rolling and counts the exception days.
func CountExceptions(prices *model.PriceSeries, lookbackDays int, confidence float64, opts ...Option) (model.BacktestOutcome, error) {
	days, err := Rolling(prices, lookbackDays, confidence, opts...)
	if err != nil {
		return model.BacktestOutcome{}, err
	}
	return Summarize(days, lookbackDays, confidence), nil
}

// Summarize folds tested days into an outcome.
func Summarize(days []model.BacktestDay, lookbackDays int, confidence float64) model.BacktestOutcome {
	out := model.BacktestOutcome{
		Observations: len(days),
		Confidence:   confidence,
		LookbackDays: lookbackDays,
	}
	if len(days) == 0 {
		return out
	}
	out.WindowStart = days[0].Date
	out.WindowEnd = days[len(days)-1].Date
	for _, d := range days {
		if d.Exception {
			out.Exceptions++
		}
	}
	return out
}
