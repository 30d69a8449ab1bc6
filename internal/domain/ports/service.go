package ports

import (
	"context"
	"time"

	"github.com/labwise/labwise/internal/domain/models"
)

// EquipmentService defines the registry operations exposed to the staff UI
type EquipmentService interface {
	// CreateEquipment registers a new instrument, derives its next
	// calibration date and assigns its field-access token
	CreateEquipment(ctx context.Context, req *CreateEquipmentRequest) (*models.Equipment, error)

	// UpdateEquipment edits an instrument and re-derives its next
	// calibration date; an unparseable periodicity keeps the stored value
	UpdateEquipment(ctx context.Context, req *UpdateEquipmentRequest) (*models.Equipment, error)

	// GetEquipment retrieves an instrument by identifier
	GetEquipment(ctx context.Context, id string) (*models.Equipment, error)

	// GetEquipmentByToken retrieves an instrument by field-access token
	GetEquipmentByToken(ctx context.Context, token string) (*models.Equipment, error)

	// ListEquipment retrieves all instruments ordered by name
	ListEquipment(ctx context.Context) ([]*models.Equipment, error)
}

// CreateEquipmentRequest carries the staff-supplied equipment fields
type CreateEquipmentRequest struct {
	Instrument              string
	InternalCode            string
	Brand                   string
	Model                   string
	SerialNumber            string
	Status                  models.EquipmentStatus
	LastExternalCalibration string
	Periodicity             string
	PerformingUser          string
}

// UpdateEquipmentRequest carries an equipment edit
type UpdateEquipmentRequest struct {
	ID                      string
	Instrument              string
	InternalCode            string
	Brand                   string
	Model                   string
	SerialNumber            string
	Status                  models.EquipmentStatus
	LastExternalCalibration string
	Periodicity             string
	PerformingUser          string
}

// TransitionSource identifies which surface requested a task transition
type TransitionSource string

const (
	TransitionSourceStaff        TransitionSource = "STAFF"
	TransitionSourceFieldGateway TransitionSource = "FIELD_GATEWAY"
)

// MaintenanceService drives the task state machine
type MaintenanceService interface {
	// Schedule creates a task in SCHEDULED state and logs the activity
	Schedule(ctx context.Context, req *ScheduleRequest) (*models.MaintenanceTask, error)

	// Transition moves a task to a new status, enforcing the legal
	// transition set atomically per task. When the target is COMPLETED a
	// completion date is required; the field gateway defaults it to now.
	Transition(ctx context.Context, req *TransitionRequest) (*models.MaintenanceTask, error)

	// ListForEquipment returns one equipment unit's history
	ListForEquipment(ctx context.Context, equipmentID string) ([]*models.MaintenanceTask, error)
}

// ScheduleRequest carries a new maintenance task
type ScheduleRequest struct {
	EquipmentID    string
	Action         string
	Category       models.MaintenanceCategory
	Priority       models.TaskPriority
	ScheduledDate  time.Time
	Responsible    string
	PerformingUser string
	Description    string
}

// TransitionRequest carries a task status transition
type TransitionRequest struct {
	TaskID         string
	NewStatus      models.MaintenanceStatus
	Actor          string
	CompletionDate *time.Time
	Source         TransitionSource
}

// SettingsService manages notification rule configuration
type SettingsService interface {
	// ListSettings retrieves all configured rules
	ListSettings(ctx context.Context) ([]*models.NotificationSetting, error)

	// UpdateSetting saves an edited rule
	UpdateSetting(ctx context.Context, setting *models.NotificationSetting) error

	// CreateCustomSetting creates a user-defined rule whose kind is a slug
	// of the title; collides with an existing kind -> ErrDuplicateRuleKind
	CreateCustomSetting(ctx context.Context, title, description string) (*models.NotificationSetting, error)

	// SeedDefaults creates the four built-in rules with sane defaults.
	// Idempotent: a no-op when any settings already exist.
	SeedDefaults(ctx context.Context) error
}

// NotificationService orchestrates the periodic sweep and exposes history
type NotificationService interface {
	// RunSweep evaluates every active rule against the fleet and dispatches
	// the resulting firings. Not reentrant-safe; the scheduler guarantees
	// non-overlapping runs.
	RunSweep(ctx context.Context) (*SweepResult, error)

	// ListFirings retrieves dispatch history newest-first
	ListFirings(ctx context.Context, offset, limit int) ([]*models.NotificationLog, error)
}

// SweepResult summarizes one evaluator run
type SweepResult struct {
	Firings    int
	Dispatched int
	Failed     int
	Started    time.Time
	Finished   time.Time
}
