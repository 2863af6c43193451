package model

import "time"

// QuantileMethod selects how an empirical quantile is estimated.
type QuantileMethod string

const (
	// QuantileLinear interpolates linearly between the order statistics around
	// h = (n-1)p (Hyndman-Fan type 7).
	QuantileLinear QuantileMethod = "linear"
	// QuantileEmpirical is the inverse of the empirical CDF, no interpolation.
	QuantileEmpirical QuantileMethod = "empirical"
	// QuantileLinInterp interpolates the piecewise linear empirical CDF (gonum LinInterp).
	QuantileLinInterp QuantileMethod = "lininterp"
)

// VaRResult is a historical-simulation Value-at-Risk. Value is the lower-tail
// return quantile scaled by sqrt(Horizon); losses are negative.
type VaRResult struct {
	Horizon    int
	Confidence float64
	Value      float64
	Method     QuantileMethod
}

// ExpectedShortfallResult is the mean return strictly below the VaR quantile,
// scaled by sqrt(Horizon). Threshold is the unscaled quantile.
type ExpectedShortfallResult struct {
	Horizon    int
	Confidence float64
	Value      float64
	Threshold  float64
	TailSize   int
}

// Zone is the Basel traffic-light classification of a backtest.
type Zone string

const (
	ZoneGreen  Zone = "GREEN"
	ZoneYellow Zone = "YELLOW"
	ZoneRed    Zone = "RED"
)

// BacktestDay is one tested day of a rolling VaR backtest.
type BacktestDay struct {
	Date      time.Time
	Return    float64
	VaR       float64
	Exception bool
}

// BacktestOutcome summarises a rolling VaR backtest.
type BacktestOutcome struct {
	WindowStart  time.Time
	WindowEnd    time.Time
	Observations int
	Exceptions   int
	Confidence   float64
	LookbackDays int
}

// ExceptionRate is the observed share of exception days.
func (o BacktestOutcome) ExceptionRate() float64 {
	if o.Observations == 0 {
		return 0
	}
	return float64(o.Exceptions) / float64(o.Observations)
}

// BinomialTestResult scores an exception count against Binomial(Observations, PException).
// PValue is P(X <= Exceptions).
type BinomialTestResult struct {
	Observations int
	Exceptions   int
	PException   float64
	PValue       float64
	Expected     float64
	Zone         Zone
}
