package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"RiskSentinel/internal/model"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider       string        `yaml:"provider"` // yahoo, rest, csv or mock
		Fallback       []string      `yaml:"fallback"`
		BaseURL        string        `yaml:"base_url"`
		APIKey         string        `yaml:"api_key"`
		CSVDir         string        `yaml:"csv_dir"`
		Proxy          string        `yaml:"proxy"`
		RequestsPerSec int           `yaml:"requests_per_sec"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Risk struct {
		Confidence     float64 `yaml:"confidence"`
		Horizon        int     `yaml:"horizon"`
		QuantileMethod string  `yaml:"quantile_method"`
		HistoryDays    int     `yaml:"history_days"`
	} `yaml:"risk"`
	Backtest struct {
		LookbackDays int     `yaml:"lookback_days"`
		WindowDays   int     `yaml:"window_days"`
		Workers      int     `yaml:"workers"`
		Significance float64 `yaml:"significance"`
	} `yaml:"backtest"`
	GBM struct {
		Paths       int    `yaml:"paths"`
		HorizonDays int    `yaml:"horizon_days"`
		Seed        uint64 `yaml:"seed"`
	} `yaml:"gbm"`
	Schedule struct {
		ReportCron string   `yaml:"report_cron"`
		Symbols    []string `yaml:"symbols"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then a .env file next to the working
// directory, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_CSV_DIR"); v != "" {
		c.DataSource.CSVDir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.DataSource.Proxy = v
	}
	if v := os.Getenv("RISK_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Risk.Confidence = f
		}
	}
	if v := os.Getenv("BACKTEST_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backtest.LookbackDays = n
		}
	}
	if v := os.Getenv("GBM_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.GBM.Seed = n
		}
	}
	if v := os.Getenv("REPORT_CRON"); v != "" {
		c.Schedule.ReportCron = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Schedule.Symbols = splitList(v)
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("METRICS_LISTEN"); v != "" {
		c.Metrics.Listen = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.RequestsPerSec == 0 {
		c.DataSource.RequestsPerSec = 2
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Risk.Confidence == 0 {
		c.Risk.Confidence = 0.95
	}
	if c.Risk.Horizon == 0 {
		c.Risk.Horizon = 1
	}
	if c.Risk.QuantileMethod == "" {
		c.Risk.QuantileMethod = string(model.QuantileLinear)
	}
	if c.Risk.HistoryDays == 0 {
		c.Risk.HistoryDays = 365
	}
	if c.Backtest.LookbackDays == 0 {
		c.Backtest.LookbackDays = 250
	}
	if c.Backtest.WindowDays == 0 {
		c.Backtest.WindowDays = 365
	}
	if c.Backtest.Workers == 0 {
		c.Backtest.Workers = 1
	}
	if c.Backtest.Significance == 0 {
		c.Backtest.Significance = 0.05
	}
	if c.GBM.Paths == 0 {
		c.GBM.Paths = 100
	}
	if c.GBM.HorizonDays == 0 {
		c.GBM.HorizonDays = 30
	}
	if c.Schedule.ReportCron == "" {
		c.Schedule.ReportCron = "0 30 22 * * 1-5"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var err error
	providers := append([]string{c.DataSource.Provider}, c.DataSource.Fallback...)
	for _, p := range providers {
		switch p {
		case "yahoo", "mock":
		case "rest":
			if c.DataSource.BaseURL == "" {
				err = multierr.Append(err, errors.New("data_source.base_url is required for the rest provider"))
			}
		case "csv":
			if c.DataSource.CSVDir == "" {
				err = multierr.Append(err, errors.New("data_source.csv_dir is required for the csv provider"))
			}
		default:
			err = multierr.Append(err, fmt.Errorf("data_source: unknown provider %q", p))
		}
	}
	if c.Risk.Confidence <= 0 || c.Risk.Confidence >= 1 {
		err = multierr.Append(err, fmt.Errorf("risk.confidence: %w", model.ErrInvalidConfidence))
	}
	if c.Risk.Horizon < 1 {
		err = multierr.Append(err, fmt.Errorf("risk.horizon: %w", model.ErrInvalidHorizon))
	}
	switch model.QuantileMethod(c.Risk.QuantileMethod) {
	case model.QuantileLinear, model.QuantileEmpirical, model.QuantileLinInterp:
	default:
		err = multierr.Append(err, fmt.Errorf("risk.quantile_method: unknown method %q", c.Risk.QuantileMethod))
	}
	if c.Backtest.LookbackDays < 1 {
		err = multierr.Append(err, fmt.Errorf("backtest.lookback_days: %w", model.ErrInvalidLag))
	}
	if c.Backtest.WindowDays < 1 {
		err = multierr.Append(err, errors.New("backtest.window_days must be positive"))
	}
	if c.Backtest.Significance <= 0 || c.Backtest.Significance >= 0.5 {
		err = multierr.Append(err, errors.New("backtest.significance must be in (0, 0.5)"))
	}
	if c.GBM.Paths < 1 {
		err = multierr.Append(err, fmt.Errorf("gbm.paths: %w", model.ErrInvalidPathCount))
	}
	if c.GBM.HorizonDays < 1 {
		err = multierr.Append(err, errors.New("gbm.horizon_days must be positive"))
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		err = multierr.Append(err, errors.New("telegram: bot_token and chat_id must be set together"))
	}
	return err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
