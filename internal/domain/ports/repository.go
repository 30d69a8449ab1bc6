package ports

import (
	"context"

	"github.com/labwise/labwise/internal/domain/models"
)

// EquipmentRepository defines the interface for equipment data access
// This is a port owned by the domain layer
type EquipmentRepository interface {
	// GetByID retrieves an equipment unit by identifier
	GetByID(ctx context.Context, id string) (*models.Equipment, error)

	// GetByInternalCode retrieves an equipment unit by its unique internal code
	GetByInternalCode(ctx context.Context, code string) (*models.Equipment, error)

	// GetByFieldToken retrieves an equipment unit by its field-access token
	GetByFieldToken(ctx context.Context, token string) (*models.Equipment, error)

	// Create adds a new equipment record
	Create(ctx context.Context, equipment *models.Equipment) error

	// Update updates an existing equipment record
	Update(ctx context.Context, equipment *models.Equipment) error

	// List retrieves all equipment, ordered by instrument name
	List(ctx context.Context) ([]*models.Equipment, error)
}

// TaskRepository defines the interface for maintenance task access.
// Tasks are never deleted; they form each equipment's history.
type TaskRepository interface {
	// GetByID retrieves a task by identifier
	GetByID(ctx context.Context, id string) (*models.MaintenanceTask, error)

	// Create adds a new task record
	Create(ctx context.Context, task *models.MaintenanceTask) error

	// Update updates an existing task record
	Update(ctx context.Context, task *models.MaintenanceTask) error

	// ListForEquipment retrieves tasks for one equipment unit, newest
	// scheduled date first
	ListForEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceTask, error)

	// ListAll retrieves every task; used by the sweep
	ListAll(ctx context.Context) ([]*models.MaintenanceTask, error)
}

// SettingRepository defines the interface for notification rule settings
type SettingRepository interface {
	// GetByID retrieves a setting by identifier
	GetByID(ctx context.Context, id string) (*models.NotificationSetting, error)

	// GetByKind retrieves a setting by its rule kind
	GetByKind(ctx context.Context, kind models.RuleKind) (*models.NotificationSetting, error)

	// Create adds a new setting
	Create(ctx context.Context, setting *models.NotificationSetting) error

	// Update updates an existing setting
	Update(ctx context.Context, setting *models.NotificationSetting) error

	// List retrieves all settings
	List(ctx context.Context) ([]*models.NotificationSetting, error)

	// Count returns the number of stored settings; used by idempotent seeding
	Count(ctx context.Context) (int, error)
}

// NotificationLogRepository is the append-only sink for dispatch attempts
type NotificationLogRepository interface {
	// Append records one dispatch attempt
	Append(ctx context.Context, entry *models.NotificationLog) error

	// List retrieves entries newest-first
	List(ctx context.Context, offset, limit int) ([]*models.NotificationLog, error)
}

// ActivityLogRepository is the append-only sink for domain mutations
type ActivityLogRepository interface {
	// Append records one activity entry
	Append(ctx context.Context, entry *models.ActivityLog) error

	// List retrieves entries newest-first
	List(ctx context.Context, offset, limit int) ([]*models.ActivityLog, error)
}
