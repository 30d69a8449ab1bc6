package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/internal/logger"
)

// notificationService orchestrates the periodic sweep: read fleet state,
// evaluate rules, dispatch firings. It never mutates equipment or task
// state itself.
type notificationService struct {
	equipmentRepo   ports.EquipmentRepository
	taskRepo        ports.TaskRepository
	settingRepo     ports.SettingRepository
	logRepo         ports.NotificationLogRepository
	activityRepo    ports.ActivityLogRepository
	evaluator       *Evaluator
	dispatcher      *Dispatcher
	sweepTimeout    time.Duration
	dispatchTimeout time.Duration
	logger          logger.Logger
}

// NotificationServiceConfig bounds the sweep and per-firing dispatch
type NotificationServiceConfig struct {
	SweepTimeout    time.Duration
	DispatchTimeout time.Duration
}

// NewNotificationService creates the sweep orchestrator
func NewNotificationService(
	equipmentRepo ports.EquipmentRepository,
	taskRepo ports.TaskRepository,
	settingRepo ports.SettingRepository,
	logRepo ports.NotificationLogRepository,
	activityRepo ports.ActivityLogRepository,
	dispatcher *Dispatcher,
	cfg NotificationServiceConfig,
) ports.NotificationService {
	if cfg.SweepTimeout == 0 {
		cfg.SweepTimeout = 10 * time.Minute
	}
	if cfg.DispatchTimeout == 0 {
		cfg.DispatchTimeout = 30 * time.Second
	}
	return &notificationService{
		equipmentRepo:   equipmentRepo,
		taskRepo:        taskRepo,
		settingRepo:     settingRepo,
		logRepo:         logRepo,
		activityRepo:    activityRepo,
		evaluator:       NewEvaluator(),
		dispatcher:      dispatcher,
		sweepTimeout:    cfg.SweepTimeout,
		dispatchTimeout: cfg.DispatchTimeout,
		logger:          logger.New("notification-sweep", ""),
	}
}

// RunSweep performs one full evaluation of the fleet. A fault while reading
// state aborts the sweep and is recorded as a SYSTEM_ERROR activity entry;
// firings dispatched before a deadline expiry remain valid.
func (s *notificationService) RunSweep(ctx context.Context) (*ports.SweepResult, error) {
	started := time.Now()
	s.logger.Infow("Sweep started")

	ctx, cancel := context.WithTimeout(ctx, s.sweepTimeout)
	defer cancel()

	equipments, err := s.equipmentRepo.List(ctx)
	if err != nil {
		return nil, s.failSweep(ctx, started, fmt.Errorf("failed to list equipment: %w", err))
	}

	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, s.failSweep(ctx, started, fmt.Errorf("failed to list tasks: %w", err))
	}

	settings, err := s.settingRepo.List(ctx)
	if err != nil {
		return nil, s.failSweep(ctx, started, fmt.Errorf("failed to list settings: %w", err))
	}

	firings := s.evaluator.Evaluate(started, equipments, tasks, settings)

	result := &ports.SweepResult{Firings: len(firings), Started: started}

	for _, firing := range firings {
		if ctx.Err() != nil {
			// Partial sweep: what was dispatched stands, the rest is dropped
			// and the truncation is made visible in the activity log.
			result.Finished = time.Now()
			return result, s.failSweep(ctx, started, fmt.Errorf("sweep deadline exceeded after %d firings: %w", result.Dispatched+result.Failed, ctx.Err()))
		}

		dispatchCtx, dispatchCancel := context.WithTimeout(ctx, s.dispatchTimeout)
		outcomes := s.dispatcher.Dispatch(dispatchCtx, firing)
		dispatchCancel()

		for _, outcome := range outcomes {
			if outcome.Status == models.DispatchStatusSent {
				result.Dispatched++
			} else {
				result.Failed++
			}
		}
	}

	result.Finished = time.Now()
	logger.SweepRunsTotal.WithLabelValues("ok").Inc()
	logger.SweepDuration.Observe(result.Finished.Sub(started).Seconds())

	s.logger.Infow("Sweep completed", "firings", result.Firings,
		"dispatched", result.Dispatched, "failed", result.Failed,
		"duration_ms", result.Finished.Sub(started).Milliseconds())

	return result, nil
}

// failSweep records the fault in the activity log and hands the error back.
// The activity append uses a fresh context so it still works when the sweep
// context itself expired.
func (s *notificationService) failSweep(ctx context.Context, started time.Time, sweepErr error) error {
	logger.SweepRunsTotal.WithLabelValues("error").Inc()
	s.logger.Errorw("Sweep failed", "error", sweepErr, "elapsed_ms", time.Since(started).Milliseconds())

	appendCtx := ctx
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(ctx.Err(), context.Canceled) {
		var cancel context.CancelFunc
		appendCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	entry := &models.ActivityLog{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Actor:       "System",
		Action:      models.ActionSystemError,
		Description: "Notification sweep failed: " + sweepErr.Error(),
		Detail:      models.SystemErrorDetail{Component: "notification-sweep", Error: sweepErr.Error()},
	}
	if err := s.activityRepo.Append(appendCtx, entry); err != nil {
		s.logger.Errorw("Failed to record sweep failure", "error", err)
	}

	return sweepErr
}

// ListFirings retrieves dispatch history newest-first
func (s *notificationService) ListFirings(ctx context.Context, offset, limit int) ([]*models.NotificationLog, error) {
	return s.logRepo.List(ctx, offset, limit)
}
