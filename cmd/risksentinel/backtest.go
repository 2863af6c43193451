package main

import (
	"github.com/spf13/cobra"

	"RiskSentinel/internal/report"
)

func init() {
	BacktestCmd.Flags().StringP("symbol", "s", "", "ticker symbol")
	BacktestCmd.Flags().String("start", "", "first tested day, dd/mm/yyyy")
	BacktestCmd.Flags().String("end", "", "last tested day, dd/mm/yyyy (default today)")
	BacktestCmd.Flags().Int("lookback", 0, "trading days of returns behind each VaR (default from config)")
	BacktestCmd.Flags().Float64("confidence", 0, "VaR confidence level (default from config)")
	BacktestCmd.Flags().Bool("distribution", false, "print the binomial distribution of the exception count")
	RootCmd.AddCommand(BacktestCmd)
}

var BacktestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "count rolling VaR exceptions and test them against the binomial model",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, err := symbolFlag(cmd)
		if err != nil {
			return err
		}
		settings := current.analyzer.Settings()
		start, end, err := dateRange(cmd, "start", "end", settings.WindowDays)
		if err != nil {
			return err
		}
		lookback := settings.LookbackDays
		if cmd.Flags().Changed("lookback") {
			lookback, _ = cmd.Flags().GetInt("lookback")
		}
		confidence := settings.Confidence
		if cmd.Flags().Changed("confidence") {
			confidence, _ = cmd.Flags().GetFloat64("confidence")
		}

		bt, err := current.analyzer.Backtest(cmd.Context(), symbol, start, end, lookback, confidence)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report.WriteBacktest(out, bt)
		if show, _ := cmd.Flags().GetBool("distribution"); show {
			report.WriteDistribution(out, bt.Distribution, bt.Test.Exceptions)
		}
		return nil
	},
}
