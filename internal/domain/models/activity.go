package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActivityAction is the closed enumeration of domain mutations recorded in
// the activity log.
type ActivityAction string

const (
	ActionUserCreated              ActivityAction = "USER_CREATED"
	ActionUserUpdated              ActivityAction = "USER_UPDATED"
	ActionUserStatusToggled        ActivityAction = "USER_STATUS_TOGGLED"
	ActionUserLogin                ActivityAction = "USER_LOGIN"
	ActionPasswordResetRequest     ActivityAction = "PASSWORD_RESET_REQUEST"
	ActionEquipmentCreated         ActivityAction = "EQUIPMENT_CREATED"
	ActionEquipmentUpdated         ActivityAction = "EQUIPMENT_UPDATED"
	ActionMaintenanceScheduled     ActivityAction = "MAINTENANCE_SCHEDULED"
	ActionMaintenanceStatusUpdated ActivityAction = "MAINTENANCE_STATUS_UPDATED"
	ActionSystemError              ActivityAction = "SYSTEM_ERROR"
)

// ActivityDetail is the structured payload attached to an activity entry.
// Each action kind has its own detail type so payload fields stay statically
// checkable instead of living in an open string-keyed map.
type ActivityDetail interface {
	ActivityAction() ActivityAction
}

// EquipmentChangeDetail captures equipment creation and edits
type EquipmentChangeDetail struct {
	EquipmentID   string     `json:"equipment_id"`
	EquipmentName string     `json:"equipment_name"`
	Before        *Equipment `json:"before,omitempty"`
	After         *Equipment `json:"after,omitempty"`
}

func (d EquipmentChangeDetail) ActivityAction() ActivityAction {
	if d.Before == nil {
		return ActionEquipmentCreated
	}
	return ActionEquipmentUpdated
}

// MaintenanceScheduledDetail captures a newly scheduled task
type MaintenanceScheduledDetail struct {
	EquipmentID   string              `json:"equipment_id"`
	EquipmentName string              `json:"equipment_name"`
	TaskID        string              `json:"task_id"`
	Action        string              `json:"action"`
	Category      MaintenanceCategory `json:"category"`
	ScheduledDate time.Time           `json:"scheduled_date"`
}

func (d MaintenanceScheduledDetail) ActivityAction() ActivityAction {
	return ActionMaintenanceScheduled
}

// MaintenanceStatusDetail captures a task status transition
type MaintenanceStatusDetail struct {
	EquipmentID   string            `json:"equipment_id"`
	EquipmentName string            `json:"equipment_name"`
	TaskID        string            `json:"task_id"`
	OldStatus     MaintenanceStatus `json:"old_status"`
	NewStatus     MaintenanceStatus `json:"new_status"`
}

func (d MaintenanceStatusDetail) ActivityAction() ActivityAction {
	return ActionMaintenanceStatusUpdated
}

// UserDetail captures user account mutations and logins
type UserDetail struct {
	Action   ActivityAction `json:"action"`
	UserID   string         `json:"user_id"`
	UserName string         `json:"user_name"`
}

func (d UserDetail) ActivityAction() ActivityAction { return d.Action }

// SystemErrorDetail captures background faults such as a sweep that could
// not complete before its deadline.
type SystemErrorDetail struct {
	Component string `json:"component"`
	Error     string `json:"error"`
}

func (d SystemErrorDetail) ActivityAction() ActivityAction { return ActionSystemError }

// ActivityLog is one append-only record per domain mutation. Entries are
// never updated or deleted.
type ActivityLog struct {
	ID          string         `json:"id" db:"id" bson:"_id"`
	Timestamp   time.Time      `json:"timestamp" db:"timestamp" bson:"timestamp"`
	Actor       string         `json:"actor" db:"actor" bson:"actor"`
	Action      ActivityAction `json:"action" db:"action" bson:"action"`
	Description string         `json:"description" db:"description" bson:"description"`
	Detail      ActivityDetail `json:"detail,omitempty" db:"-" bson:"-"`
}

// DecodeActivityDetail rebuilds the typed detail payload from its stored
// JSON form, using the action kind as the union tag. A nil payload decodes
// to a nil detail.
func DecodeActivityDetail(action ActivityAction, raw []byte) (ActivityDetail, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	switch action {
	case ActionEquipmentCreated, ActionEquipmentUpdated:
		var d EquipmentChangeDetail
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case ActionMaintenanceScheduled:
		var d MaintenanceScheduledDetail
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case ActionMaintenanceStatusUpdated:
		var d MaintenanceStatusDetail
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case ActionUserCreated, ActionUserUpdated, ActionUserStatusToggled,
		ActionUserLogin, ActionPasswordResetRequest:
		var d UserDetail
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case ActionSystemError:
		var d SystemErrorDetail
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown activity action %q", action)
	}
}
