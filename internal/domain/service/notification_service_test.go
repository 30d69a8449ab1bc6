package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/labwise/labwise/internal/adapters/memory"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepFixture struct {
	service       ports.NotificationService
	equipmentRepo ports.EquipmentRepository
	taskRepo      ports.TaskRepository
	settingRepo   ports.SettingRepository
	notifLog      ports.NotificationLogRepository
	activityRepo  ports.ActivityLogRepository
	transport     *fakeTransport
}

func newSweepFixture(t *testing.T, cfg NotificationServiceConfig) *sweepFixture {
	t.Helper()
	f := &sweepFixture{
		equipmentRepo: memory.NewInMemoryEquipmentRepository(),
		taskRepo:      memory.NewInMemoryTaskRepository(),
		settingRepo:   memory.NewInMemorySettingRepository(),
		notifLog:      memory.NewInMemoryNotificationLogRepository(),
		activityRepo:  memory.NewInMemoryActivityLogRepository(),
		transport:     &fakeTransport{},
	}
	dispatcher := NewDispatcher(f.transport, f.notifLog)
	f.service = NewNotificationService(f.equipmentRepo, f.taskRepo, f.settingRepo,
		f.notifLog, f.activityRepo, dispatcher, cfg)
	return f
}

func TestRunSweepDispatchesFirings(t *testing.T) {
	f := newSweepFixture(t, NotificationServiceConfig{})
	ctx := context.Background()

	require.NoError(t, f.equipmentRepo.Create(ctx, &models.Equipment{
		ID:           "eq-1",
		Instrument:   "Incubadora",
		InternalCode: "INC-001",
		Status:       models.EquipmentStatusOperational,
	}))
	require.NoError(t, f.taskRepo.Create(ctx, &models.MaintenanceTask{
		ID:            "task-1",
		EquipmentID:   "eq-1",
		Action:        "Cambio de filtro",
		Status:        models.MaintenanceStatusScheduled,
		ScheduledDate: time.Now().Add(-24 * time.Hour),
	}))
	require.NoError(t, f.settingRepo.Create(ctx, &models.NotificationSetting{
		ID:         "setting-overdue",
		Kind:       models.RuleKindMaintenanceOverdue,
		Active:     true,
		Recipients: []string{"a@example.com", "b@example.com"},
	}))

	result, err := f.service.RunSweep(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Firings)
	assert.Equal(t, 2, result.Dispatched)
	assert.Equal(t, 0, result.Failed)
	assert.False(t, result.Finished.Before(result.Started))
	require.Len(t, f.transport.sent, 2)

	history, err := f.service.ListFirings(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestRunSweepCountsFailures(t *testing.T) {
	f := newSweepFixture(t, NotificationServiceConfig{})
	f.transport.failFor = map[string]error{"b@example.com": errors.New("mailbox full")}
	ctx := context.Background()

	require.NoError(t, f.equipmentRepo.Create(ctx, &models.Equipment{
		ID: "eq-1", Instrument: "Incubadora", InternalCode: "INC-001",
		Status: models.EquipmentStatusOperational,
	}))
	require.NoError(t, f.taskRepo.Create(ctx, &models.MaintenanceTask{
		ID: "task-1", EquipmentID: "eq-1", Action: "Cambio de filtro",
		Status:        models.MaintenanceStatusScheduled,
		ScheduledDate: time.Now().Add(-24 * time.Hour),
	}))
	require.NoError(t, f.settingRepo.Create(ctx, &models.NotificationSetting{
		ID: "setting-overdue", Kind: models.RuleKindMaintenanceOverdue,
		Active: true, Recipients: []string{"a@example.com", "b@example.com"},
	}))

	result, err := f.service.RunSweep(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Dispatched)
	assert.Equal(t, 1, result.Failed)
}

func TestRunSweepEmptyFleet(t *testing.T) {
	f := newSweepFixture(t, NotificationServiceConfig{})

	result, err := f.service.RunSweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Firings)
	assert.Equal(t, 0, result.Dispatched)
	assert.Empty(t, f.transport.sent)
}

type failingEquipmentRepo struct {
	ports.EquipmentRepository
}

func (f *failingEquipmentRepo) List(ctx context.Context) ([]*models.Equipment, error) {
	return nil, errors.New("connection reset")
}

func TestRunSweepRecordsSystemError(t *testing.T) {
	f := newSweepFixture(t, NotificationServiceConfig{})
	dispatcher := NewDispatcher(f.transport, f.notifLog)
	service := NewNotificationService(
		&failingEquipmentRepo{EquipmentRepository: f.equipmentRepo},
		f.taskRepo, f.settingRepo, f.notifLog, f.activityRepo, dispatcher,
		NotificationServiceConfig{})

	_, err := service.RunSweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list equipment")

	entries, listErr := f.activityRepo.List(context.Background(), 0, 10)
	require.NoError(t, listErr)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionSystemError, entries[0].Action)
	assert.Equal(t, "System", entries[0].Actor)
}

func TestRunSweepHonorsDeadline(t *testing.T) {
	f := newSweepFixture(t, NotificationServiceConfig{SweepTimeout: time.Nanosecond})
	ctx := context.Background()

	require.NoError(t, f.equipmentRepo.Create(ctx, &models.Equipment{
		ID: "eq-1", Instrument: "Incubadora", InternalCode: "INC-001",
		Status: models.EquipmentStatusOperational,
	}))
	require.NoError(t, f.taskRepo.Create(ctx, &models.MaintenanceTask{
		ID: "task-1", EquipmentID: "eq-1", Action: "Cambio de filtro",
		Status:        models.MaintenanceStatusScheduled,
		ScheduledDate: time.Now().Add(-24 * time.Hour),
	}))
	require.NoError(t, f.settingRepo.Create(ctx, &models.NotificationSetting{
		ID: "setting-overdue", Kind: models.RuleKindMaintenanceOverdue,
		Active: true, Recipients: []string{"a@example.com"},
	}))

	_, err := f.service.RunSweep(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	entries, listErr := f.activityRepo.List(ctx, 0, 10)
	require.NoError(t, listErr)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionSystemError, entries[0].Action)
}
