package http

import (
	"time"

	"github.com/labwise/labwise/internal/domain/models"
)

// ProblemDetails follows RFC 7807 for error responses
type ProblemDetails struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// EquipmentRequest carries equipment create and update payloads
type EquipmentRequest struct {
	Instrument              string `json:"instrument" binding:"required"`
	InternalCode            string `json:"internal_code" binding:"required"`
	Brand                   string `json:"brand"`
	Model                   string `json:"model"`
	SerialNumber            string `json:"serial_number"`
	Status                  string `json:"status" binding:"required"`
	LastExternalCalibration string `json:"last_external_calibration"`
	Periodicity             string `json:"periodicity"`
	PerformingUser          string `json:"performing_user"`
}

// ScheduleTaskRequest carries a new maintenance task
type ScheduleTaskRequest struct {
	Action         string    `json:"action" binding:"required"`
	Category       string    `json:"category" binding:"required"`
	Priority       string    `json:"priority"`
	ScheduledDate  time.Time `json:"scheduled_date" binding:"required"`
	Responsible    string    `json:"responsible"`
	PerformingUser string    `json:"performing_user"`
	Description    string    `json:"description"`
}

// TransitionTaskRequest carries a task status change
type TransitionTaskRequest struct {
	Status         string     `json:"status" binding:"required"`
	Actor          string     `json:"actor"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
}

// SettingRequest carries a notification rule edit
type SettingRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	LeadTimeDays int      `json:"lead_time_days"`
	Active       bool     `json:"active"`
	Recipients   []string `json:"recipients"`
}

// CustomSettingRequest carries a new user-defined notification rule
type CustomSettingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// SweepResponse summarizes a manually triggered sweep run
type SweepResponse struct {
	Firings    int       `json:"firings"`
	Dispatched int       `json:"dispatched"`
	Failed     int       `json:"failed"`
	Started    time.Time `json:"started"`
	Finished   time.Time `json:"finished"`
}

// FieldEquipmentResponse is the token-scoped view handed to the field
// gateway. The field token itself and internal identifiers stay hidden.
type FieldEquipmentResponse struct {
	Instrument              string                    `json:"instrument"`
	InternalCode            string                    `json:"internal_code"`
	Brand                   string                    `json:"brand"`
	Model                   string                    `json:"model"`
	SerialNumber            string                    `json:"serial_number"`
	Status                  models.EquipmentStatus    `json:"status"`
	NextExternalCalibration string                    `json:"next_external_calibration"`
	Tasks                   []*models.MaintenanceTask `json:"tasks"`
}
