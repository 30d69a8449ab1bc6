package models

import (
	"errors"
	"time"
)

// MaintenanceStatus represents the lifecycle state of a maintenance task
type MaintenanceStatus string

const (
	MaintenanceStatusScheduled  MaintenanceStatus = "SCHEDULED"
	MaintenanceStatusInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceStatusCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceStatusCancelled  MaintenanceStatus = "CANCELLED"
)

// MaintenanceCategory classifies the kind of work performed
type MaintenanceCategory string

const (
	MaintenanceCategoryPreventive MaintenanceCategory = "PREVENTIVE"
	MaintenanceCategoryCorrective MaintenanceCategory = "CORRECTIVE"
	MaintenanceCategoryPredictive MaintenanceCategory = "PREDICTIVE"
	MaintenanceCategoryOther      MaintenanceCategory = "OTHER"
)

// TaskPriority is the urgency assigned when the task was scheduled
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

var (
	ErrInvalidTransition    = errors.New("illegal maintenance status transition")
	ErrCompletionDateNeeded = errors.New("completion date required for completed status")
)

// MaintenanceTask is one unit of work against exactly one equipment unit.
// Tasks are never deleted; together they form the equipment's history.
//
// CompletionDate is set if and only if Status is COMPLETED. ScheduledDate is
// always present and is the sole field consulted for overdue checks.
type MaintenanceTask struct {
	ID          string              `json:"id" db:"id" bson:"_id"`
	EquipmentID string              `json:"equipment_id" db:"equipment_id" bson:"equipment_id"`
	Action      string              `json:"action" db:"action" bson:"action"`
	Category    MaintenanceCategory `json:"category" db:"category" bson:"category"`
	Priority    TaskPriority        `json:"priority" db:"priority" bson:"priority"`
	Status      MaintenanceStatus   `json:"status" db:"status" bson:"status"`

	ScheduledDate  time.Time  `json:"scheduled_date" db:"scheduled_date" bson:"scheduled_date"`
	CompletionDate *time.Time `json:"completion_date,omitempty" db:"completion_date" bson:"completion_date,omitempty"`

	Responsible string `json:"responsible" db:"responsible" bson:"responsible"`
	// PerformingUser is who recorded the task, which may differ from the
	// person responsible for carrying it out.
	PerformingUser string `json:"performing_user" db:"performing_user" bson:"performing_user"`
	Description    string `json:"description" db:"description" bson:"description"`

	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// legalTransitions is the complete transition relation of the task state
// machine. SCHEDULED may skip IN_PROGRESS. COMPLETED and CANCELLED are
// terminal.
var legalTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	MaintenanceStatusScheduled:  {MaintenanceStatusInProgress, MaintenanceStatusCompleted, MaintenanceStatusCancelled},
	MaintenanceStatusInProgress: {MaintenanceStatusCompleted, MaintenanceStatusCancelled},
	MaintenanceStatusCompleted:  {},
	MaintenanceStatusCancelled:  {},
}

// CanTransition reports whether moving from one status to another is legal
func CanTransition(from, to MaintenanceStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func IsTerminal(status MaintenanceStatus) bool {
	return status == MaintenanceStatusCompleted || status == MaintenanceStatusCancelled
}

// ValidateMaintenanceStatus checks if the status is part of the closed set
func ValidateMaintenanceStatus(status MaintenanceStatus) error {
	switch status {
	case MaintenanceStatusScheduled, MaintenanceStatusInProgress,
		MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return nil
	default:
		return ErrInvalidTransition
	}
}

// IsOverdue reports whether a task should fire the overdue rule at the given
// instant: still scheduled and its scheduled date already past.
func (t *MaintenanceTask) IsOverdue(now time.Time) bool {
	return t.Status == MaintenanceStatusScheduled && t.ScheduledDate.Before(now)
}
