package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/internal/logger"
)

// maintenanceService drives the task state machine. Transitions against the
// same task are serialized through a per-task lock so concurrent requests
// re-check legality against the freshest stored status.
type maintenanceService struct {
	taskRepo      ports.TaskRepository
	equipmentRepo ports.EquipmentRepository
	settingRepo   ports.SettingRepository
	activityRepo  ports.ActivityLogRepository
	dispatcher    *Dispatcher
	taskLocks     sync.Map // task ID -> *sync.Mutex
	logger        logger.Logger
}

// NewMaintenanceService creates the task lifecycle service
func NewMaintenanceService(
	taskRepo ports.TaskRepository,
	equipmentRepo ports.EquipmentRepository,
	settingRepo ports.SettingRepository,
	activityRepo ports.ActivityLogRepository,
	dispatcher *Dispatcher,
) ports.MaintenanceService {
	return &maintenanceService{
		taskRepo:      taskRepo,
		equipmentRepo: equipmentRepo,
		settingRepo:   settingRepo,
		activityRepo:  activityRepo,
		dispatcher:    dispatcher,
		logger:        logger.New("maintenance-service", ""),
	}
}

// Schedule creates a new task in SCHEDULED state
func (s *maintenanceService) Schedule(ctx context.Context, req *ports.ScheduleRequest) (*models.MaintenanceTask, error) {
	equipment, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load equipment %s: %w", req.EquipmentID, err)
	}

	now := time.Now()
	task := &models.MaintenanceTask{
		ID:             uuid.NewString(),
		EquipmentID:    equipment.ID,
		Action:         req.Action,
		Category:       req.Category,
		Priority:       req.Priority,
		Status:         models.MaintenanceStatusScheduled,
		ScheduledDate:  req.ScheduledDate,
		Responsible:    req.Responsible,
		PerformingUser: req.PerformingUser,
		Description:    req.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.recordActivity(ctx, req.PerformingUser,
		fmt.Sprintf("Programó mantenimiento %q para %s", task.Action, equipment.Instrument),
		models.MaintenanceScheduledDetail{
			EquipmentID:   equipment.ID,
			EquipmentName: equipment.Instrument,
			TaskID:        task.ID,
			Action:        task.Action,
			Category:      task.Category,
			ScheduledDate: task.ScheduledDate,
		})

	s.logger.Infow("Maintenance scheduled", "task_id", task.ID,
		"equipment_id", equipment.ID, "scheduled_date", task.ScheduledDate.Format("2006-01-02"))

	return task, nil
}

// Transition moves a task to a new status. Legality is re-checked under the
// per-task lock so two racing requests cannot both leave the same state.
// Completing a task requires a completion date; the field gateway defaults
// it to now, the staff surface must supply it.
func (s *maintenanceService) Transition(ctx context.Context, req *ports.TransitionRequest) (*models.MaintenanceTask, error) {
	if err := models.ValidateMaintenanceStatus(req.NewStatus); err != nil {
		return nil, err
	}

	lock := s.lockFor(req.TaskID)
	lock.Lock()
	defer lock.Unlock()

	task, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task %s: %w", req.TaskID, err)
	}

	if !models.CanTransition(task.Status, req.NewStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, task.Status, req.NewStatus)
	}

	oldStatus := task.Status
	task.Status = req.NewStatus
	task.UpdatedAt = time.Now()

	if req.NewStatus == models.MaintenanceStatusCompleted {
		switch {
		case req.CompletionDate != nil:
			task.CompletionDate = req.CompletionDate
		case req.Source == ports.TransitionSourceFieldGateway:
			now := time.Now()
			task.CompletionDate = &now
		default:
			return nil, models.ErrCompletionDateNeeded
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", task.ID, err)
	}

	logger.TaskTransitionsTotal.WithLabelValues(string(req.NewStatus), string(req.Source)).Inc()

	equipment, err := s.equipmentRepo.GetByID(ctx, task.EquipmentID)
	if err != nil {
		// The transition itself is committed; the activity entry and the
		// completed notification degrade without the equipment snapshot.
		s.logger.Errorw("Failed to load equipment after transition",
			"task_id", task.ID, "equipment_id", task.EquipmentID, "error", err)
		return task, nil
	}

	s.recordActivity(ctx, req.Actor,
		fmt.Sprintf("Cambió el estado del mantenimiento de %s a %s para %s", oldStatus, task.Status, equipment.Instrument),
		models.MaintenanceStatusDetail{
			EquipmentID:   equipment.ID,
			EquipmentName: equipment.Instrument,
			TaskID:        task.ID,
			OldStatus:     oldStatus,
			NewStatus:     task.Status,
		})

	if task.Status == models.MaintenanceStatusCompleted {
		s.dispatchCompleted(ctx, equipment, task)
	}

	s.logger.Infow("Maintenance transitioned", "task_id", task.ID,
		"from", oldStatus, "to", task.Status, "source", req.Source, "actor", req.Actor)

	return task, nil
}

// ListForEquipment returns one equipment unit's history
func (s *maintenanceService) ListForEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceTask, error) {
	return s.taskRepo.ListForEquipment(ctx, equipmentID)
}

// dispatchCompleted fires the maintenance_completed rule inline. The rule
// never participates in the sweep; a completed task notifies exactly once,
// here, if the rule is active with recipients.
func (s *maintenanceService) dispatchCompleted(ctx context.Context, equipment *models.Equipment, task *models.MaintenanceTask) {
	setting, err := s.settingRepo.GetByKind(ctx, models.RuleKindMaintenanceCompleted)
	if err != nil {
		s.logger.Warnw("Completed notification rule unavailable", "error", err)
		return
	}
	if !setting.CanFire() {
		return
	}

	s.dispatcher.Dispatch(ctx, &models.Firing{
		Kind:       models.RuleKindMaintenanceCompleted,
		Equipment:  equipment,
		Task:       task,
		Recipients: setting.Recipients,
	})
}

func (s *maintenanceService) lockFor(taskID string) *sync.Mutex {
	lock, _ := s.taskLocks.LoadOrStore(taskID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// recordActivity appends an audit entry. Log persistence failures never fail
// the operation that produced them.
func (s *maintenanceService) recordActivity(ctx context.Context, actor, description string, detail models.ActivityDetail) {
	entry := &models.ActivityLog{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Actor:       actor,
		Action:      detail.ActivityAction(),
		Description: description,
		Detail:      detail,
	}
	if err := s.activityRepo.Append(ctx, entry); err != nil {
		s.logger.Errorw("Failed to append activity entry", "action", entry.Action, "error", err)
	}
}
