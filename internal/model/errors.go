package model

import "errors"

// Errors returned by the risk packages. Callers match them with errors.Is;
// returned errors usually wrap one of these with extra context.
var (
	// ErrInsufficientData means there are not enough observations for the
	// requested lag, window or estimator.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNonPositivePrice means a price that must be strictly positive is not.
	ErrNonPositivePrice = errors.New("non-positive price")
	// ErrInvalidConfidence means a confidence level outside the open interval (0, 1).
	ErrInvalidConfidence = errors.New("confidence must be in (0, 1)")
	// ErrInvalidVolatility means a GBM volatility that is not strictly positive.
	ErrInvalidVolatility = errors.New("volatility must be positive")
	// ErrEmptyDistribution means a quantile was requested over no values.
	ErrEmptyDistribution = errors.New("empty return distribution")
	// ErrEmptyTail means no return lies strictly below the VaR threshold.
	ErrEmptyTail = errors.New("no returns beyond the VaR threshold")
	// ErrNotCalibrated means a GBM simulation was requested before calibration.
	ErrNotCalibrated = errors.New("model is not calibrated")
	// ErrDataUnavailable means the market-data provider could not serve the request.
	ErrDataUnavailable = errors.New("market data unavailable")

	ErrInvalidLag       = errors.New("lag must be at least 1")
	ErrInvalidHorizon   = errors.New("horizon must be at least 1 day")
	ErrInvalidWindow    = errors.New("end date must be after start date")
	ErrInvalidPathCount = errors.New("path count must be at least 1")
	ErrUnorderedSeries  = errors.New("dates must be strictly increasing")
	ErrInvalidDate      = errors.New("invalid date")
)
