package risk

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"RiskSentinel/internal/model"
)

// Quantile returns the p-quantile of values using method. values is not modified.
//
// QuantileLinear sorts the sample and interpolates between the order
// statistics x[floor(h)] and x[floor(h)+1] with h = (n-1)p. gonum only ships
// the Empirical and LinInterp estimators, which are exposed as the other two
// methods.
func Quantile(values []float64, p float64, method model.QuantileMethod) (float64, error) {
	if len(values) == 0 {
		return 0, model.ErrEmptyDistribution
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("quantile level %v outside [0, 1]", p)
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sortedQuantile(sorted, p, method)
}

func sortedQuantile(sorted []float64, p float64, method model.QuantileMethod) (float64, error) {
	switch method {
	case model.QuantileLinear, "":
		return linearQuantile(sorted, p), nil
	case model.QuantileEmpirical:
		return stat.Quantile(p, stat.Empirical, sorted, nil), nil
	case model.QuantileLinInterp:
		return stat.Quantile(p, stat.LinInterp, sorted, nil), nil
	default:
		return 0, fmt.Errorf("unknown quantile method %q", method)
	}
}

func linearQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// ParseQuantileMethod maps a config/flag string to a QuantileMethod.
func ParseQuantileMethod(s string) (model.QuantileMethod, error) {
	switch m := model.QuantileMethod(s); m {
	case model.QuantileLinear, model.QuantileEmpirical, model.QuantileLinInterp:
		return m, nil
	case "":
		return model.QuantileLinear, nil
	default:
		return "", fmt.Errorf("unknown quantile method %q (want linear, empirical or lininterp)", s)
	}
}
