// Package scheduler runs the notification sweep on its cron schedule. A new
// run never starts while the previous one is still going.
package scheduler

import (
	"context"
	"fmt"

	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/internal/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler drives periodic sweep runs
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	notifier ports.NotificationService
	logger   logger.Logger
}

// New creates a sweep scheduler for the given cron expression
func New(schedule string, notifier ports.NotificationService) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		notifier: notifier,
		logger:   logger.New("scheduler", ""),
	}
}

// Start registers the sweep job and starts the cron loop
func (s *Scheduler) Start() error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(s.runSweep))

	if _, err := s.cron.AddJob(s.schedule, job); err != nil {
		return fmt.Errorf("failed to register sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Infow("Sweep scheduler started", "schedule", s.schedule)
	return nil
}

// Stop stops the cron loop and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Infow("Sweep scheduler stopped")
}

func (s *Scheduler) runSweep() {
	if _, err := s.notifier.RunSweep(context.Background()); err != nil {
		s.logger.Errorw("Scheduled sweep failed", "error", err)
	}
}
