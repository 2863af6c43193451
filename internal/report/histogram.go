package report

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one histogram bucket [Lower, Upper).
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// Histogram buckets values into n equal-width bins spanning their range,
// the return-distribution view VaR and ES are drawn against.
func Histogram(values []float64, n int) ([]Bin, error) {
	if len(values) == 0 {
		return nil, errors.New("histogram: no values")
	}
	if n < 1 {
		return nil, errors.New("histogram: bin count must be positive")
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sortFloats(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(sorted)}}, nil
	}
	dividers := floats.Span(make([]float64, n+1), lo, hi)
	// stat.Histogram needs the last divider strictly above the maximum
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	return bins, nil
}

func sortFloats(v []float64) { sort.Float64s(v) }
