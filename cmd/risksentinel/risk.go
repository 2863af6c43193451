package main

import (
	"github.com/spf13/cobra"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/report"
	"RiskSentinel/internal/risk"
)

func init() {
	for _, c := range []*cobra.Command{VarCmd, EsCmd} {
		c.Flags().StringP("symbol", "s", "", "ticker symbol")
		c.Flags().String("start", "", "first day of history, dd/mm/yyyy")
		c.Flags().String("end", "", "last day of history, dd/mm/yyyy (default today)")
		c.Flags().Int("horizon", 0, "horizon in days (default from config)")
		c.Flags().Float64("confidence", 0, "confidence level in (0, 1) (default from config)")
		c.Flags().Int("bins", 0, "also print a histogram of daily returns with this many bins")
		RootCmd.AddCommand(c)
	}
}

var VarCmd = &cobra.Command{
	Use:   "var",
	Short: "historical Value-at-Risk of a symbol",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRisk(cmd, false)
	},
}

var EsCmd = &cobra.Command{
	Use:   "es",
	Short: "historical VaR and Expected Shortfall of a symbol",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRisk(cmd, true)
	},
}

func runRisk(cmd *cobra.Command, withES bool) error {
	symbol, err := symbolFlag(cmd)
	if err != nil {
		return err
	}
	settings := current.analyzer.Settings()
	start, end, err := dateRange(cmd, "start", "end", settings.HistoryDays)
	if err != nil {
		return err
	}
	horizon := settings.Horizon
	if cmd.Flags().Changed("horizon") {
		horizon, _ = cmd.Flags().GetInt("horizon")
	}
	confidence := settings.Confidence
	if cmd.Flags().Changed("confidence") {
		confidence, _ = cmd.Flags().GetFloat64("confidence")
	}

	r, err := current.analyzer.DailyReturns(cmd.Context(), symbol, start, end)
	if err != nil {
		return err
	}
	v, err := risk.ValueAtRisk(r, horizon, confidence, risk.WithMethod(settings.Method))
	if err != nil {
		return err
	}
	var es *model.ExpectedShortfallResult
	if withES {
		res, err := risk.ExpectedShortfall(r, horizon, confidence, risk.WithMethod(settings.Method))
		if err != nil {
			return err
		}
		es = &res
	}

	out := cmd.OutOrStdout()
	report.WriteVaR(out, symbol, &v, es)
	if bins, _ := cmd.Flags().GetInt("bins"); bins > 0 {
		h, err := report.Histogram(r.Values(), bins)
		if err != nil {
			return err
		}
		report.WriteHistogram(out, h)
	}
	return nil
}
