package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"equiprent-backend/internal/jobs"
	"equiprent-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron       *cron.Cron
	jobs       *jobs.JobRunner
	firstSweep *time.Timer
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	_, err := s.cron.AddFunc(cfg.ExpireRentals, s.jobs.ExpireActiveRentals)
	if err != nil {
		logger.Error("Failed to register ExpireActiveRentals job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler and schedules the delayed first sweep
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()

	delay := s.jobs.Config().Scheduler.InitialDelay()
	s.firstSweep = time.AfterFunc(delay, s.jobs.ExpireActiveRentals)
	logger.Info("Cron scheduler started successfully", "first_sweep_in", delay)
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	if s.firstSweep != nil {
		s.firstSweep.Stop()
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has registered entries
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
