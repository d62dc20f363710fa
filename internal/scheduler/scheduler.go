// Package scheduler re-runs the pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/form-guide/internal/service"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, req service.RunRequest) (*service.RunResult, error)
}

// Scheduler manages scheduled pipeline runs
type Scheduler struct {
	cron            *cron.Cron
	runner          Runner
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	runTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler evaluating cron expressions in loc.
// Overlapping runs are skipped rather than queued.
func NewScheduler(runner Runner, loc *time.Location, logger *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	entry := logger.WithField("component", "scheduler")
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(entry))),
		),
		runner:          runner,
		logger:          entry,
		jobIDs:          make([]cron.EntryID, 0),
		runTimeout:      30 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// SetRunTimeout bounds each scheduled run.
func (s *Scheduler) SetRunTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runTimeout = d
}

// ScheduleRun schedules req on a standard five-field cron expression.
func (s *Scheduler) ScheduleRun(cronExpression string, req service.RunRequest) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return 0, fmt.Errorf("cannot schedule job while scheduler is running")
	}

	req.Trigger = service.TriggerSchedule
	entryID, err := s.cron.AddFunc(cronExpression, func() { s.runOnce(req) })
	if err != nil {
		return 0, fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron":      cronExpression,
		"input_dir": req.InputDir,
	}).Info("Scheduled pipeline run")
	return entryID, nil
}

// RunNow executes req immediately on the caller's goroutine.
func (s *Scheduler) RunNow(req service.RunRequest) error {
	req.Trigger = service.TriggerSchedule
	return s.runOnce(req)
}

func (s *Scheduler) runOnce(req service.RunRequest) error {
	s.mu.RLock()
	timeout := s.runTimeout
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	res, err := s.runner.Run(ctx, req)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled run failed")
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"run_id":      res.Run.ID.String(),
		"rows":        res.Run.Rows,
		"bets":        res.Run.Bets,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Scheduled run completed")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a run in progress, up to the
// graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	done := s.cron.Stop()
	s.isRunning = false
	timeout := s.gracefulTimeout
	s.mu.Unlock()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("scheduler stop timed out after %s", timeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}
	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	s.logger.WithField("job_id", int(jobID)).Info("Removed job")
	return nil
}
