// Package report assembles risk results into reports and renders them as
// text and tables for people and plotting tools.
package report

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"RiskSentinel/internal/backtest"
	"RiskSentinel/internal/model"
)

// BacktestReport is the full result of a VaR backtest for one symbol.
type BacktestReport struct {
	Symbol       string
	Outcome      model.BacktestOutcome
	Test         model.BinomialTestResult
	Verdict      backtest.Verdict
	Days         []model.BacktestDay
	Distribution []backtest.DistributionBar
}

// SimulationSummary condenses the final prices of a GBM simulation.
type SimulationSummary struct {
	Start     time.Time
	End       time.Time
	Paths     int
	SeedPrice float64
	MeanFinal float64
	P05Final  float64
	P95Final  float64
}

// Summarize reduces a simulation to its final-price distribution.
func Summarize(sim *model.SimulatedPaths) SimulationSummary {
	final := sim.Final()
	sorted := make([]float64, len(final))
	copy(sorted, final)
	sortFloats(sorted)
	return SimulationSummary{
		Start:     sim.Dates[0],
		End:       sim.Dates[len(sim.Dates)-1],
		Paths:     sim.Paths(),
		SeedPrice: sim.SeedPrice,
		MeanFinal: stat.Mean(final, nil),
		P05Final:  stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P95Final:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
}

// RiskReport is the periodic per-symbol risk snapshot. A nil section failed
// to compute; the reason is in Notes.
type RiskReport struct {
	Symbol            string
	AsOf              time.Time
	LastPrice         float64
	VaR               *model.VaRResult
	ExpectedShortfall *model.ExpectedShortfallResult
	Backtest          *BacktestReport
	GBM               *model.GBMParameters
	Simulation        *SimulationSummary
	Notes             []string
}
