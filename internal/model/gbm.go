package model

import "time"

// CalibrationSource tells where GBM parameters came from.
type CalibrationSource string

const (
	CalibrationManual CalibrationSource = "MANUAL"
	CalibrationData   CalibrationSource = "DATA"
)

// GBMParameters are the daily drift and volatility of a GBM model.
// CalibrationStart/End are set only for data calibration.
type GBMParameters struct {
	Mu               float64
	Sigma            float64
	Source           CalibrationSource
	CalibrationStart time.Time
	CalibrationEnd   time.Time
}

// SimulatedPaths is a grid of simulated prices, Prices[day][path], with one
// date per row. Row 0 holds the seed price on every path.
type SimulatedPaths struct {
	Dates     []time.Time
	Prices    [][]float64
	Params    GBMParameters
	SeedPrice float64
}

// Days returns the number of simulated rows.
func (s *SimulatedPaths) Days() int { return len(s.Prices) }

// Paths returns the number of simulated paths.
func (s *SimulatedPaths) Paths() int {
	if len(s.Prices) == 0 {
		return 0
	}
	return len(s.Prices[0])
}

// Path returns a copy of path p across all days.
func (s *SimulatedPaths) Path(p int) []float64 {
	out := make([]float64, len(s.Prices))
	for t, row := range s.Prices {
		out[t] = row[p]
	}
	return out
}

// Final returns the last simulated price of every path.
func (s *SimulatedPaths) Final() []float64 {
	last := s.Prices[len(s.Prices)-1]
	out := make([]float64, len(last))
	copy(out, last)
	return out
}
