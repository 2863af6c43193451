// Package risk estimates historical-simulation Value-at-Risk and Expected
// Shortfall from a return series.
//
// Results keep the sign of the returns: a loss is negative, so VaR is the
// (negative) lower-tail quantile and ES <= VaR. Multi-day figures use the
// square-root-of-time rule, which assumes i.i.d. daily returns; callers that
// need exact multi-day historical simulation should pass n-day returns
// (returns.Absolute with lag n) with horizon 1.
package risk

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"RiskSentinel/internal/model"
)

type options struct {
	method model.QuantileMethod
}

// Option configures an estimator.
type Option func(*options)

// WithMethod selects the quantile estimator. The default is model.QuantileLinear.
func WithMethod(m model.QuantileMethod) Option {
	return func(o *options) { o.method = m }
}

func buildOptions(opts []Option) options {
	o := options{method: model.QuantileLinear}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ValidateConfidence rejects confidence levels outside the open interval (0, 1).
func ValidateConfidence(confidence float64) error {
	if math.IsNaN(confidence) || confidence <= 0 || confidence >= 1 {
		return fmt.Errorf("%w: got %v", model.ErrInvalidConfidence, confidence)
	}
	return nil
}

func validate(n, horizon int, confidence float64) error {
	if err := ValidateConfidence(confidence); err != nil {
		return err
	}
	if horizon < 1 {
		return fmt.Errorf("%w: got %d", model.ErrInvalidHorizon, horizon)
	}
	if n == 0 {
		return model.ErrEmptyDistribution
	}
	return nil
}

// ValueAtRisk computes the 1-confidence quantile of returns scaled by sqrt(horizon).
func ValueAtRisk(returns *model.ReturnSeries, horizon int, confidence float64, opts ...Option) (model.VaRResult, error) {
	var values []float64
	if returns != nil {
		values = returns.Values()
	}
	return ValueAtRiskValues(values, horizon, confidence, opts...)
}

// ValueAtRiskValues is ValueAtRisk over a raw slice of returns.
func ValueAtRiskValues(values []float64, horizon int, confidence float64, opts ...Option) (model.VaRResult, error) {
	o := buildOptions(opts)
	if err := validate(len(values), horizon, confidence); err != nil {
		return model.VaRResult{}, fmt.Errorf("value at risk: %w", err)
	}
	q, err := Quantile(values, 1-confidence, o.method)
	if err != nil {
		return model.VaRResult{}, fmt.Errorf("value at risk: %w", err)
	}
	return model.VaRResult{
		Horizon:    horizon,
		Confidence: confidence,
		Value:      q * math.Sqrt(float64(horizon)),
		Method:     o.method,
	}, nil
}

// ExpectedShortfall averages the returns strictly below the 1-confidence
// quantile and scales the mean by sqrt(horizon). It fails with
// model.ErrEmptyTail when no return lies below the quantile.
func ExpectedShortfall(returns *model.ReturnSeries, horizon int, confidence float64, opts ...Option) (model.ExpectedShortfallResult, error) {
	var values []float64
	if returns != nil {
		values = returns.Values()
	}
	return ExpectedShortfallValues(values, horizon, confidence, opts...)
}

// ExpectedShortfallValues is ExpectedShortfall over a raw slice of returns.
func ExpectedShortfallValues(values []float64, horizon int, confidence float64, opts ...Option) (model.ExpectedShortfallResult, error) {
	o := buildOptions(opts)
	if err := validate(len(values), horizon, confidence); err != nil {
		return model.ExpectedShortfallResult{}, fmt.Errorf("expected shortfall: %w", err)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	threshold, err := sortedQuantile(sorted, 1-confidence, o.method)
	if err != nil {
		return model.ExpectedShortfallResult{}, fmt.Errorf("expected shortfall: %w", err)
	}
	// sorted ascending: the tail is the prefix strictly below threshold
	n := sort.SearchFloat64s(sorted, threshold)
	if n == 0 {
		return model.ExpectedShortfallResult{}, fmt.Errorf("expected shortfall at %v: %w (threshold %v)",
			confidence, model.ErrEmptyTail, threshold)
	}
	return model.ExpectedShortfallResult{
		Horizon:    horizon,
		Confidence: confidence,
		Value:      stat.Mean(sorted[:n], nil) * math.Sqrt(float64(horizon)),
		Threshold:  threshold,
		TailSize:   n,
	}, nil
}
