package analyzer

import (
	"RiskSentinel/internal/backtest"
	"RiskSentinel/internal/config"
	"RiskSentinel/internal/model"
	"RiskSentinel/internal/risk"
)

// Settings are the defaults an Analyzer applies when a call does not override them.
type Settings struct {
	Confidence   float64
	Horizon      int
	Method       model.QuantileMethod
	HistoryDays  int // calendar days of history behind VaR, ES and calibration
	LookbackDays int
	WindowDays   int // calendar days backtested in a report
	Workers      int
	Significance float64
	Paths        int
	HorizonDays  int // calendar days simulated in a report
	Seed         uint64
	Concurrency  int // symbols analysed at once by RunAll
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Confidence:   0.95,
		Horizon:      1,
		Method:       model.QuantileLinear,
		HistoryDays:  365,
		LookbackDays: 250,
		WindowDays:   365,
		Workers:      1,
		Significance: backtest.DefaultSignificance,
		Paths:        100,
		HorizonDays:  30,
		Concurrency:  4,
	}
}

// SettingsFromConfig builds Settings from a loaded configuration.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	method, err := risk.ParseQuantileMethod(cfg.Risk.QuantileMethod)
	if err != nil {
		return Settings{}, err
	}
	s := DefaultSettings()
	s.Confidence = cfg.Risk.Confidence
	s.Horizon = cfg.Risk.Horizon
	s.Method = method
	s.HistoryDays = cfg.Risk.HistoryDays
	s.LookbackDays = cfg.Backtest.LookbackDays
	s.WindowDays = cfg.Backtest.WindowDays
	s.Workers = cfg.Backtest.Workers
	s.Significance = cfg.Backtest.Significance
	s.Paths = cfg.GBM.Paths
	s.HorizonDays = cfg.GBM.HorizonDays
	s.Seed = cfg.GBM.Seed
	return s, nil
}
