package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"RiskSentinel/internal/analyzer"
	"RiskSentinel/internal/collector"
	"RiskSentinel/internal/config"
	"RiskSentinel/internal/logging"
	"RiskSentinel/internal/model"
	"RiskSentinel/internal/platform/httpclient"
)

// app is what every subcommand shares once the config is loaded.
type app struct {
	cfg      *config.Config
	client   *httpclient.Client
	fetcher  collector.Fetcher
	analyzer *analyzer.Analyzer
}

var current app

var RootCmd = &cobra.Command{
	Use:   "risksentinel",
	Short: "historical VaR, VaR backtesting and GBM price simulation",

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("provider") {
			cfg.DataSource.Provider, _ = cmd.Flags().GetString("provider")
		}
		logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}

		client := httpclient.New(httpclient.Options{
			Timeout:        cfg.DataSource.Timeout,
			RequestsPerSec: cfg.DataSource.RequestsPerSec,
			ProxyURL:       cfg.DataSource.Proxy,
		})
		fetcher, err := collector.NewFetchers(cfg.DataSource.Provider, cfg.DataSource.Fallback, collector.Sources{
			BaseURL: cfg.DataSource.BaseURL,
			APIKey:  cfg.DataSource.APIKey,
			CSVDir:  cfg.DataSource.CSVDir,
			Client:  client,
		})
		if err != nil {
			return err
		}
		settings, err := analyzer.SettingsFromConfig(cfg)
		if err != nil {
			return err
		}
		log.Debug().Str("data_source", fetcher.Name()).Msg("config loaded")

		current = app{
			cfg:      cfg,
			client:   client,
			fetcher:  fetcher,
			analyzer: analyzer.New(fetcher, settings),
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().String("config", "configs/config.yaml", "config file")
	RootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().String("provider", "", "override the data provider (yahoo, rest, csv, mock)")
}

// dateRange reads --start and --end (dd/mm/yyyy). end defaults to today and
// start to defaultDays calendar days before end.
func dateRange(cmd *cobra.Command, startFlag, endFlag string, defaultDays int) (time.Time, time.Time, error) {
	end := model.Day(time.Now())
	if s, _ := cmd.Flags().GetString(endFlag); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--%s: %w", endFlag, err)
		}
		end = d
	}
	start := end.AddDate(0, 0, -defaultDays)
	if s, _ := cmd.Flags().GetString(startFlag); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--%s: %w", startFlag, err)
		}
		start = d
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is after %s", model.ErrInvalidWindow,
			model.FormatDate(start), model.FormatDate(end))
	}
	return start, end, nil
}

func symbolFlag(cmd *cobra.Command) (string, error) {
	symbol, err := cmd.Flags().GetString("symbol")
	if err != nil {
		return "", err
	}
	if symbol == "" {
		return "", errors.New("--symbol is required")
	}
	return symbol, nil
}
