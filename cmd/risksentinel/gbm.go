package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"RiskSentinel/internal/gbm"
	"RiskSentinel/internal/model"
	"RiskSentinel/internal/report"
)

func init() {
	CalibrateCmd.Flags().StringP("symbol", "s", "", "ticker symbol")
	CalibrateCmd.Flags().String("start", "", "first day of calibration data, dd/mm/yyyy")
	CalibrateCmd.Flags().String("end", "", "last day of calibration data, dd/mm/yyyy (default today)")
	RootCmd.AddCommand(CalibrateCmd)

	SimulateCmd.Flags().StringP("symbol", "s", "", "ticker symbol")
	SimulateCmd.Flags().String("cal-start", "", "first day of calibration data, dd/mm/yyyy")
	SimulateCmd.Flags().String("cal-end", "", "last day of calibration data, dd/mm/yyyy (default today)")
	SimulateCmd.Flags().String("start", "", "first simulated day, dd/mm/yyyy (default the day after cal-end)")
	SimulateCmd.Flags().String("end", "", "end of the simulation, exclusive, dd/mm/yyyy")
	SimulateCmd.Flags().Int("paths", 0, "number of paths (default from config)")
	SimulateCmd.Flags().Float64("seed-price", 0, "starting price (default the last calibration close)")
	SimulateCmd.Flags().Float64("mu", 0, "daily drift for manual calibration")
	SimulateCmd.Flags().Float64("sigma", 0, "daily volatility; setting it skips data calibration")
	SimulateCmd.Flags().Int("show", 5, "paths to print, 0 prints only the summary")
	RootCmd.AddCommand(SimulateCmd)
}

var CalibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "fit GBM drift and volatility to historical log returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, err := symbolFlag(cmd)
		if err != nil {
			return err
		}
		start, end, err := dateRange(cmd, "start", "end", current.analyzer.Settings().HistoryDays)
		if err != nil {
			return err
		}
		m, err := current.analyzer.Calibrate(cmd.Context(), symbol, start, end)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), m.String())
		return nil
	},
}

var SimulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "simulate GBM price paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, err := symbolFlag(cmd)
		if err != nil {
			return err
		}
		settings := current.analyzer.Settings()
		calStart, calEnd, err := dateRange(cmd, "cal-start", "cal-end", settings.HistoryDays)
		if err != nil {
			return err
		}
		simStart := calEnd.AddDate(0, 0, 1)
		if s, _ := cmd.Flags().GetString("start"); s != "" {
			if simStart, err = model.ParseDate(s); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
		}
		simEnd := simStart.AddDate(0, 0, settings.HorizonDays)
		if s, _ := cmd.Flags().GetString("end"); s != "" {
			if simEnd, err = model.ParseDate(s); err != nil {
				return fmt.Errorf("--end: %w", err)
			}
		}
		paths, _ := cmd.Flags().GetInt("paths")
		if paths == 0 {
			paths = settings.Paths
		}
		seedPrice, _ := cmd.Flags().GetFloat64("seed-price")

		var m *gbm.Model
		var sim *model.SimulatedPaths
		if cmd.Flags().Changed("sigma") {
			if seedPrice <= 0 {
				return errors.New("--seed-price is required with manual calibration")
			}
			mu, _ := cmd.Flags().GetFloat64("mu")
			sigma, _ := cmd.Flags().GetFloat64("sigma")
			m = current.analyzer.NewModel(symbol)
			if err := m.CalibrateManual(mu, sigma); err != nil {
				return err
			}
			if sim, err = m.Simulate(simStart, simEnd, paths, seedPrice); err != nil {
				return err
			}
		} else {
			m, sim, err = current.analyzer.Simulate(cmd.Context(), symbol, calStart, calEnd, simStart, simEnd, paths, seedPrice)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, m.String())
		if show, _ := cmd.Flags().GetInt("show"); show > 0 {
			report.WritePaths(out, sim, show)
		}
		s := report.Summarize(sim)
		fmt.Fprintf(out, "final price over %d paths: mean %.2f, 5%% %.2f, 95%% %.2f\n",
			s.Paths, s.MeanFinal, s.P05Final, s.P95Final)
		return nil
	},
}
