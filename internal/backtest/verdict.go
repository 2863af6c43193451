package backtest

import "RiskSentinel/internal/model"

// Verdict reads a binomial p-value in both tails.
type Verdict string

const (
	// VerdictTooAggressive: more exceptions than expected, the VaR understates risk.
	VerdictTooAggressive Verdict = "TOO_AGGRESSIVE"
	// VerdictConsistent: the exception count is plausible under the model.
	VerdictConsistent Verdict = "CONSISTENT"
	// VerdictTooConservative: fewer exceptions than expected, the VaR overstates risk.
	VerdictTooConservative Verdict = "TOO_CONSERVATIVE"
)

// DefaultSignificance is the tail probability used by Interpret.
const DefaultSignificance = 0.05

// Interpret maps a p-value to a Verdict using alpha in each tail:
// PValue >= 1-alpha is too aggressive, PValue <= alpha too conservative.
func Interpret(res model.BinomialTestResult, alpha float64) Verdict {
	if alpha <= 0 || alpha >= 0.5 {
		alpha = DefaultSignificance
	}
	switch {
	case res.PValue >= 1-alpha:
		return VerdictTooAggressive
	case res.PValue <= alpha:
		return VerdictTooConservative
	default:
		return VerdictConsistent
	}
}

// Description is a one-line human reading of the verdict.
func (v Verdict) Description() string {
	switch v {
	case VerdictTooAggressive:
		return "more exceptions than expected: VaR likely understates risk"
	case VerdictTooConservative:
		return "fewer exceptions than expected: VaR likely overstates risk"
	default:
		return "exception count consistent with the stated confidence"
	}
}
