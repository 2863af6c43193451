// Package returns derives return series from price series.
package returns

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"RiskSentinel/internal/model"
)

// Absolute computes r[t] = P[t] - P[t-lag] for every t >= lag.
// Pass lag = n to get the n-day returns used for exact multi-day historical simulation.
func Absolute(series *model.PriceSeries, lag int) (*model.ReturnSeries, error) {
	prices, dates, err := prepare(series, lag)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(prices)-lag)
	for t := lag; t < len(prices); t++ {
		values[t-lag] = prices[t] - prices[t-lag]
	}
	return model.NewReturnSeries(model.AbsoluteReturn, lag, dates[lag:], values)
}

// Log computes r[t] = ln(P[t] / P[t-lag]) for every t >= lag.
func Log(series *model.PriceSeries, lag int) (*model.ReturnSeries, error) {
	prices, dates, err := prepare(series, lag)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(prices)-lag)
	for t := lag; t < len(prices); t++ {
		prev := prices[t-lag]
		if prev <= 0 {
			return nil, fmt.Errorf("log returns: %w: %v on %s", model.ErrNonPositivePrice, prev, model.FormatDate(dates[t-lag]))
		}
		// ln(1 + (P[t]-P[t-lag])/P[t-lag]) written in its ratio form.
		values[t-lag] = math.Log(prices[t] / prev)
	}
	return model.NewReturnSeries(model.LogReturn, lag, dates[lag:], values)
}

// Resample computes non-overlapping horizon-day absolute returns: one return
// per block of horizon prices, dated at the block's last price. It feeds
// risk estimators with horizon 1 when sqrt-of-time scaling is not wanted.
func Resample(series *model.PriceSeries, horizon int) (*model.ReturnSeries, error) {
	prices, dates, err := prepare(series, horizon)
	if err != nil {
		return nil, err
	}
	n := (len(prices) - 1) / horizon
	values := make([]float64, n)
	at := make([]time.Time, n)
	for i := 0; i < n; i++ {
		from, to := i*horizon, (i+1)*horizon
		values[i] = prices[to] - prices[from]
		at[i] = dates[to]
	}
	return model.NewReturnSeries(model.AbsoluteReturn, horizon, at, values)
}

// Reconstruct rebuilds prices from lag-1 log returns: the result starts at
// seed and has one more element than logReturns.
func Reconstruct(seed float64, logReturns []float64) ([]float64, error) {
	if seed <= 0 {
		return nil, fmt.Errorf("reconstruct: %w: seed %v", model.ErrNonPositivePrice, seed)
	}
	growth := make([]float64, len(logReturns)+1)
	growth[0] = seed
	for i, r := range logReturns {
		growth[i+1] = math.Exp(r)
	}
	return floats.CumProd(make([]float64, len(growth)), growth), nil
}

func prepare(series *model.PriceSeries, lag int) ([]float64, []time.Time, error) {
	if lag < 1 {
		return nil, nil, fmt.Errorf("returns: %w: got %d", model.ErrInvalidLag, lag)
	}
	if series == nil || series.Len() <= lag {
		n := 0
		if series != nil {
			n = series.Len()
		}
		return nil, nil, fmt.Errorf("returns: %w: %d prices for lag %d", model.ErrInsufficientData, n, lag)
	}
	return series.Prices(), series.Dates(), nil
}
