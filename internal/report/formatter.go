package report

import (
	"fmt"
	"strings"

	"RiskSentinel/internal/model"
)

// FormatRiskReport formats a risk snapshot as plain text.
func FormatRiskReport(r *RiskReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("RiskSentinel | %s | %s\n", r.Symbol, model.FormatDate(r.AsOf)))
	b.WriteString(fmt.Sprintf("Last price: %.2f\n\n", r.LastPrice))

	if r.VaR != nil {
		b.WriteString(fmt.Sprintf("VaR %d-day @ %.1f%%: %+.4f (%s)\n",
			r.VaR.Horizon, r.VaR.Confidence*100, r.VaR.Value, r.VaR.Method))
	}
	if r.ExpectedShortfall != nil {
		es := r.ExpectedShortfall
		b.WriteString(fmt.Sprintf("ES  %d-day @ %.1f%%: %+.4f (%d tail days)\n",
			es.Horizon, es.Confidence*100, es.Value, es.TailSize))
	}

	if bt := r.Backtest; bt != nil {
		b.WriteString("\nBacktest:\n")
		b.WriteString(FormatBacktest(bt))
	}

	if r.GBM != nil {
		b.WriteString(fmt.Sprintf("\nGBM: mu %+.6f  sigma %.6f (%s)\n", r.GBM.Mu, r.GBM.Sigma, r.GBM.Source))
	}
	if s := r.Simulation; s != nil {
		b.WriteString(fmt.Sprintf("  %d paths %s -> %s from %.2f: mean %.2f, 5%% %.2f, 95%% %.2f\n",
			s.Paths, model.FormatDate(s.Start), model.FormatDate(s.End), s.SeedPrice, s.MeanFinal, s.P05Final, s.P95Final))
	}

	if len(r.Notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, n := range r.Notes {
			b.WriteString("  - " + n + "\n")
		}
	}
	return b.String()
}

// FormatBacktest formats a backtest outcome and its binomial test.
func FormatBacktest(bt *BacktestReport) string {
	var b strings.Builder
	o, t := bt.Outcome, bt.Test
	b.WriteString(fmt.Sprintf("  window %s -> %s, lookback %d days\n",
		model.FormatDate(o.WindowStart), model.FormatDate(o.WindowEnd), o.LookbackDays))
	b.WriteString(fmt.Sprintf("  exceptions %d / %d (expected %.1f at %.1f%%)\n",
		t.Exceptions, t.Observations, t.Expected, o.Confidence*100))
	b.WriteString(fmt.Sprintf("  p-value P(X <= %d) = %.4f, zone %s\n", t.Exceptions, t.PValue, t.Zone))
	b.WriteString(fmt.Sprintf("  verdict: %s\n", bt.Verdict.Description()))
	return b.String()
}
