package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"RiskSentinel/internal/analyzer"
	"RiskSentinel/internal/metrics"
	"RiskSentinel/internal/notifier"
	"RiskSentinel/internal/report"
)

// Scheduler runs the periodic risk report over a fixed symbol list.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer *analyzer.Analyzer
	Notifier notifier.Notifier
	Metrics  *metrics.Metrics
	Symbols  []string
	Ctx      context.Context
	Now      func() time.Time

	mu     sync.Mutex // one run at a time
	logger zerolog.Logger
}

// NewScheduler creates a new Scheduler. m may be nil.
func NewScheduler(ctx context.Context, a *analyzer.Analyzer, n notifier.Notifier, m *metrics.Metrics, symbols []string) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Analyzer: a,
		Notifier: n,
		Metrics:  m,
		Symbols:  symbols,
		Ctx:      ctx,
		Now:      time.Now,
		logger:   log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the report task under a six-field cron spec.
func (s *Scheduler) Register(reportCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Strs("symbols", s.Symbols).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the report task immediately and returns the reports built.
func (s *Scheduler) RunNow() []*report.RiskReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	asOf := s.Now()
	s.logger.Info().Time("as_of", asOf).Int("symbols", len(s.Symbols)).Msg("running risk report")

	reports, err := s.Analyzer.RunAll(s.Ctx, s.Symbols, asOf)
	if err != nil {
		s.logger.Error().Err(err).Msg("risk report incomplete")
	}
	for i, rep := range reports {
		if rep == nil {
			s.observeFailure(s.Symbols[i])
			continue
		}
		if s.Metrics != nil {
			s.Metrics.Observe(rep)
		}
		s.trySend(report.FormatRiskReport(rep))
	}
	if s.Metrics != nil {
		s.Metrics.ObserveRun(start)
	}
	s.logger.Info().Dur("took", time.Since(start)).Msg("risk report done")
	return reports
}

func (s *Scheduler) observeFailure(symbol string) {
	if s.Metrics != nil {
		s.Metrics.ReportFailed(symbol)
	}
	s.trySend(fmt.Sprintf("RiskSentinel | %s | report failed, see logs", symbol))
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(s.Ctx, text); err != nil {
		s.logger.Error().Err(err).Str("notifier", s.Notifier.Name()).Msg("send notification")
	}
}
