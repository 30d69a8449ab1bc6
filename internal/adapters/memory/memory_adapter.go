package memory

import (
	"context"

	"github.com/labwise/labwise/internal/domain/ports"
)

// MemoryAdapter implements the DatabaseAdapter interface entirely in memory.
// It backs tests and the zero-dependency development mode.
type MemoryAdapter struct {
	equipmentRepo       ports.EquipmentRepository
	taskRepo            ports.TaskRepository
	settingRepo         ports.SettingRepository
	notificationLogRepo ports.NotificationLogRepository
	activityLogRepo     ports.ActivityLogRepository
}

// NewMemoryAdapter creates a new in-memory database adapter
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		equipmentRepo:       NewInMemoryEquipmentRepository(),
		taskRepo:            NewInMemoryTaskRepository(),
		settingRepo:         NewInMemorySettingRepository(),
		notificationLogRepo: NewInMemoryNotificationLogRepository(),
		activityLogRepo:     NewInMemoryActivityLogRepository(),
	}
}

// Connect is a no-op for the in-memory adapter
func (a *MemoryAdapter) Connect(ctx context.Context) error { return nil }

// Disconnect is a no-op for the in-memory adapter
func (a *MemoryAdapter) Disconnect(ctx context.Context) error { return nil }

// Ping always succeeds for the in-memory adapter
func (a *MemoryAdapter) Ping(ctx context.Context) error { return nil }

// GetType returns the database type
func (a *MemoryAdapter) GetType() ports.DatabaseType {
	return ports.DatabaseTypeMemory
}

// GetEquipmentRepository returns the equipment repository
func (a *MemoryAdapter) GetEquipmentRepository() ports.EquipmentRepository {
	return a.equipmentRepo
}

// GetTaskRepository returns the task repository
func (a *MemoryAdapter) GetTaskRepository() ports.TaskRepository {
	return a.taskRepo
}

// GetSettingRepository returns the notification setting repository
func (a *MemoryAdapter) GetSettingRepository() ports.SettingRepository {
	return a.settingRepo
}

// GetNotificationLogRepository returns the notification log repository
func (a *MemoryAdapter) GetNotificationLogRepository() ports.NotificationLogRepository {
	return a.notificationLogRepo
}

// GetActivityLogRepository returns the activity log repository
func (a *MemoryAdapter) GetActivityLogRepository() ports.ActivityLogRepository {
	return a.activityLogRepo
}
