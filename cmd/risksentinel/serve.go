package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"RiskSentinel/internal/metrics"
	"RiskSentinel/internal/notifier"
	"RiskSentinel/internal/scheduler"
)

func init() {
	ServeCmd.Flags().Bool("run-on-start", false, "build the reports once right away")
	RootCmd.AddCommand(ServeCmd)
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the scheduled risk reports and expose metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := current.cfg
		if len(cfg.Schedule.Symbols) == 0 {
			return errors.New("schedule.symbols is empty")
		}
		ctx := cmd.Context()

		notifiers := notifier.Multi{notifier.NewLogNotifier()}
		if cfg.Telegram.BotToken != "" {
			notifiers = append(notifiers, notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, current.client))
		}
		m := metrics.New()

		sched := scheduler.NewScheduler(ctx, current.analyzer, notifiers, m, cfg.Schedule.Symbols)
		if err := sched.Register(cfg.Schedule.ReportCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		var srv *http.Server
		if cfg.Metrics.Listen != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			srv = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("metrics server")
				}
			}()
			log.Info().Str("listen", cfg.Metrics.Listen).Msg("metrics server started")
		}

		runOnStart, _ := cmd.Flags().GetBool("run-on-start")
		if runOnStart || os.Getenv("RUN_ON_START") == "true" {
			log.Info().Msg("run-on-start enabled, building reports now")
			go sched.RunNow()
		}

		log.Info().Str("cron", cfg.Schedule.ReportCron).Msg("RiskSentinel is running. Press Ctrl+C to stop.")
		<-ctx.Done()
		log.Info().Msg("shutdown signal received, stopping...")

		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("metrics server shutdown")
			}
		}
		return nil
	},
}
