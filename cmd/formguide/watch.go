package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/form-guide/internal/database"
	"github.com/yourusername/form-guide/internal/health"
	"github.com/yourusername/form-guide/internal/metrics"
	"github.com/yourusername/form-guide/internal/repository"
	"github.com/yourusername/form-guide/internal/scheduler"
	"github.com/yourusername/form-guide/internal/service"
)

var runImmediately bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the pipeline on the configured cron schedule",
	Long: `watch keeps running, executing the pipeline on schedule.cron in
schedule.timezone. It requires schedule.enabled. With metrics.enabled it serves /health, /ready, /live,
/runs/last and /metrics on metrics.port.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Schedule.Enabled {
			return fmt.Errorf("schedule.enabled must be true for watch")
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		var runs repository.RunRepository
		if db != nil {
			defer db.Close()
			repos, err := repository.NewRepositories(db)
			if err != nil {
				return err
			}
			runs = repos.Run
		}

		p, err := service.FromConfig(cfg, appLog, runs)
		if err != nil {
			return err
		}

		if err := p.RestoreLastRun(ctx); err != nil {
			appLog.WithError(err).Warn("Could not restore last run")
		}
		healthServer := startHealthServer(ctx, db, p)

		sched := scheduler.NewScheduler(p, loc, appLog)
		sched.SetRunTimeout(cfg.RunTimeout())
		req := runRequest()
		if _, err := sched.ScheduleRun(cfg.Schedule.Cron, req); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		if healthServer != nil {
			healthServer.SetReady(true)
		}

		appLog.WithFields(logrus.Fields{
			"cron":        cfg.Schedule.Cron,
			"timezone":    loc.String(),
			"run_timeout": cfg.RunTimeout().String(),
			"next_run":    sched.GetNextRun(),
		}).Info("Watching for scheduled runs")

		if runImmediately {
			// Errors are logged by the scheduler; keep watching.
			_ = sched.RunNow(req)
		}

		<-ctx.Done()
		appLog.Info("Shutting down")
		if healthServer != nil {
			healthServer.SetReady(false)
		}
		return sched.Stop()
	},
}

func init() {
	watchCmd.Flags().BoolVar(&runImmediately, "now", false, "Run once immediately before waiting for the schedule")
}

func startHealthServer(ctx context.Context, db *database.DB, runs health.RunStatusProvider) *health.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}
	hc := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Metrics.Port),
		Logger:      appLog,
		Runs:        runs,
		Metrics:     metrics.Handler(),
		MetricsPath: cfg.Metrics.Path,
	}
	if db != nil {
		hc.DB = db
	}
	server := health.NewServer(hc)
	if err := server.Start(ctx); err != nil {
		appLog.WithError(err).Error("Failed to start health server")
		return nil
	}
	return server
}
