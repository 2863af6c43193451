package backtest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/risk"
)

// Traffic-light bounds on P(X <= exceptions).
const (
	greenBound  = 0.95
	yellowBound = 0.9999
)

// BinomialTest scores the exception count of outcome against X ~ Binomial(n, p)
// with p = 1 - confidence, the per-day exception probability a correct VaR
// implies. PValue is P(X <= exceptions).
//
// The test is one-sided in both directions and is reported as such:
// a p-value near 1 means more exceptions than the model allows (VaR too
// aggressive, risk understated); a p-value near 0 means fewer exceptions than
// expected (VaR too conservative, risk overstated). Use Interpret to turn the
// p-value into a Verdict.
func BinomialTest(outcome model.BacktestOutcome) (model.BinomialTestResult, error) {
	if err := risk.ValidateConfidence(outcome.Confidence); err != nil {
		return model.BinomialTestResult{}, fmt.Errorf("binomial test: %w", err)
	}
	n, k := outcome.Observations, outcome.Exceptions
	if n < 1 {
		return model.BinomialTestResult{}, fmt.Errorf("binomial test: %w: no observations", model.ErrInsufficientData)
	}
	if k < 0 || k > n {
		return model.BinomialTestResult{}, fmt.Errorf("binomial test: %d exceptions out of %d observations", k, n)
	}

	p := 1 - outcome.Confidence
	dist := distuv.Binomial{N: float64(n), P: p}
	cdf := clamp01(dist.CDF(float64(k)))
	return model.BinomialTestResult{
		Observations: n,
		Exceptions:   k,
		PException:   p,
		PValue:       cdf,
		Expected:     dist.Mean(),
		Zone:         zoneFor(cdf),
	}, nil
}

func zoneFor(cdf float64) model.Zone {
	switch {
	case cdf < greenBound:
		return model.ZoneGreen
	case cdf < yellowBound:
		return model.ZoneYellow
	default:
		return model.ZoneRed
	}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// DistributionBar is the probability mass and cumulative probability of k exceptions.
type DistributionBar struct {
	K   int
	PMF float64
	CDF float64
}

// ExceptionDistribution tabulates Binomial(n, p) for k in [q01, q99), where
// qX is the smallest k with CDF(k) >= X, the range worth showing next to an
// observed exception count. At least the q01 bar is returned.
func ExceptionDistribution(n int, p float64) ([]DistributionBar, error) {
	if n < 1 {
		return nil, fmt.Errorf("exception distribution: %w: n = %d", model.ErrInsufficientData, n)
	}
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return nil, fmt.Errorf("exception distribution: probability %v outside (0, 1)", p)
	}
	dist := distuv.Binomial{N: float64(n), P: p}

	lo, hi := -1, n
	for k := 0; k <= n; k++ {
		cdf := dist.CDF(float64(k))
		if lo < 0 && cdf >= 0.01 {
			lo = k
		}
		if cdf >= 0.99 {
			hi = k
			break
		}
	}
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		hi = lo + 1
	}

	bars := make([]DistributionBar, 0, hi-lo)
	for k := lo; k < hi; k++ {
		bars = append(bars, DistributionBar{
			K:   k,
			PMF: dist.Prob(float64(k)),
			CDF: clamp01(dist.CDF(float64(k))),
		})
	}
	return bars, nil
}
