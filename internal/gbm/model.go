// Package gbm calibrates and simulates a Geometric Brownian Motion price model
// at daily steps.
package gbm

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/returns"
)

// CalibrationState tracks how the model parameters were set.
type CalibrationState int

const (
	Uncalibrated CalibrationState = iota
	ManuallyCalibrated
	DataCalibrated
)

func (s CalibrationState) String() string {
	switch s {
	case ManuallyCalibrated:
		return "manually calibrated"
	case DataCalibrated:
		return "calibrated from data"
	default:
		return "uncalibrated"
	}
}

// SimulationState tracks whether the model has produced a simulation.
type SimulationState int

const (
	NotSimulated SimulationState = iota
	Simulated
)

// Model is a GBM model for one instrument. Calibrating again replaces the
// parameters; simulating again replaces the last simulation. A Model is not
// safe for concurrent use.
type Model struct {
	symbol      string
	sampler     Sampler
	calibration CalibrationState
	params      model.GBMParameters
	simulation  SimulationState
	last        *model.SimulatedPaths
}

// Option configures a Model.
type Option func(*Model)

// WithSampler injects the standard normal source used by Simulate.
func WithSampler(s Sampler) Option {
	return func(m *Model) { m.sampler = s }
}

// WithSeed makes simulations reproducible.
func WithSeed(seed uint64) Option {
	return WithSampler(NewSeededSampler(seed))
}

// New returns an uncalibrated model. Without options it samples from distuv.UnitNormal.
func New(symbol string, opts ...Option) *Model {
	m := &Model{symbol: symbol, sampler: distuv.UnitNormal}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Symbol returns the modelled instrument.
func (m *Model) Symbol() string { return m.symbol }

// Calibration returns the calibration state.
func (m *Model) Calibration() CalibrationState { return m.calibration }

// Simulation returns the simulation state.
func (m *Model) Simulation() SimulationState { return m.simulation }

// Params returns the current parameters and whether the model is calibrated.
func (m *Model) Params() (model.GBMParameters, bool) {
	return m.params, m.calibration != Uncalibrated
}

// LastSimulation returns the most recent simulation, or nil.
func (m *Model) LastSimulation() *model.SimulatedPaths { return m.last }

// CalibrateManual sets the daily drift and volatility directly.
func (m *Model) CalibrateManual(mu, sigma float64) error {
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return fmt.Errorf("calibrate %s: drift %v is not finite", m.symbol, mu)
	}
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma <= 0 {
		return fmt.Errorf("calibrate %s: %w: got %v", m.symbol, model.ErrInvalidVolatility, sigma)
	}
	m.params = model.GBMParameters{Mu: mu, Sigma: sigma, Source: model.CalibrationManual}
	m.calibration = ManuallyCalibrated
	return nil
}

// CalibrateFromData fits the model to the daily log returns of series:
// sigma is their sample standard deviation and mu = mean - sigma²/2.
//
// A series with perfectly constant growth yields sigma = 0, or a rounding
// residue of it. Unlike CalibrateManual this is accepted and the model then
// simulates deterministically.
func (m *Model) CalibrateFromData(series *model.PriceSeries) error {
	if series == nil || series.Len() < 3 {
		n := 0
		if series != nil {
			n = series.Len()
		}
		return fmt.Errorf("calibrate %s: %w: %d prices, need at least 3", m.symbol, model.ErrInsufficientData, n)
	}
	lr, err := returns.Log(series, 1)
	if err != nil {
		return fmt.Errorf("calibrate %s: %w", m.symbol, err)
	}
	mean, sigma := stat.MeanStdDev(lr.Values(), nil)
	m.params = model.GBMParameters{
		Mu:               mean - sigma*sigma/2,
		Sigma:            sigma,
		Source:           model.CalibrationData,
		CalibrationStart: series.Start(),
		CalibrationEnd:   series.End(),
	}
	m.calibration = DataCalibrated
	return nil
}

// Simulate draws nPaths daily price paths over [start, end). The result has
// one row per calendar day, starting at start with seedPrice on every path;
// each later row multiplies the previous one by exp(mu + sigma*z) with an
// independent standard normal z per path and day. Since the log-price
// increment is exactly normal, the discretisation is exact at daily steps.
func (m *Model) Simulate(start, end time.Time, nPaths int, seedPrice float64) (*model.SimulatedPaths, error) {
	if m.calibration == Uncalibrated {
		return nil, fmt.Errorf("simulate %s: %w", m.symbol, model.ErrNotCalibrated)
	}
	if nPaths < 1 {
		return nil, fmt.Errorf("simulate %s: %w: got %d", m.symbol, model.ErrInvalidPathCount, nPaths)
	}
	if math.IsNaN(seedPrice) || seedPrice <= 0 {
		return nil, fmt.Errorf("simulate %s: %w: seed %v", m.symbol, model.ErrNonPositivePrice, seedPrice)
	}
	nDays := model.DaysBetween(start, end)
	if nDays < 1 {
		return nil, fmt.Errorf("simulate %s: %w: %s to %s", m.symbol, model.ErrInvalidWindow,
			model.FormatDate(start), model.FormatDate(end))
	}

	first := model.Day(start)
	dates := make([]time.Time, nDays)
	prices := make([][]float64, nDays)
	for t := range prices {
		dates[t] = first.AddDate(0, 0, t)
		prices[t] = make([]float64, nPaths)
	}
	for p := 0; p < nPaths; p++ {
		prices[0][p] = seedPrice
	}

	mu, sigma := m.params.Mu, m.params.Sigma
	for t := 1; t < nDays; t++ {
		for p := 0; p < nPaths; p++ {
			z := m.sampler.Rand()
			prices[t][p] = prices[t-1][p] * math.Exp(mu+sigma*z)
		}
	}

	sim := &model.SimulatedPaths{
		Dates:     dates,
		Prices:    prices,
		Params:    m.params,
		SeedPrice: seedPrice,
	}
	m.last = sim
	m.simulation = Simulated
	return sim, nil
}

// String describes the model state.
func (m *Model) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock name: %s\n", m.symbol)
	switch m.calibration {
	case DataCalibrated:
		fmt.Fprintf(&b, "Model calibrated using data for %s to %s\n",
			model.FormatDate(m.params.CalibrationStart), model.FormatDate(m.params.CalibrationEnd))
		fmt.Fprintf(&b, "Model parameters mu: %g, sigma: %g\n", m.params.Mu, m.params.Sigma)
	case ManuallyCalibrated:
		b.WriteString("Model calibrated manually\n")
		fmt.Fprintf(&b, "Model parameters mu: %g, sigma: %g\n", m.params.Mu, m.params.Sigma)
	default:
		b.WriteString("Model not calibrated.\n")
	}
	if m.simulation == Simulated && m.last != nil {
		fmt.Fprintf(&b, "Model simulated between dates %s to %s (%d paths)",
			model.FormatDate(m.last.Dates[0]), model.FormatDate(m.last.Dates[len(m.last.Dates)-1]), m.last.Paths())
	} else {
		b.WriteString("Model not simulated.")
	}
	return b.String()
}
