package models

import "time"

// RuleKind discriminates the configured notification rules. The four
// built-in kinds are seeded on first run; custom kinds are slugs derived
// from user-supplied titles.
type RuleKind string

const (
	RuleKindCalibrationDue       RuleKind = "calibration_due"
	RuleKindMaintenanceReminder  RuleKind = "maintenance_reminder"
	RuleKindMaintenanceCompleted RuleKind = "maintenance_completed"
	RuleKindMaintenanceOverdue   RuleKind = "maintenance_overdue"
)

// BuiltinRuleKinds lists the seeded kinds in their seeding order
var BuiltinRuleKinds = []RuleKind{
	RuleKindCalibrationDue,
	RuleKindMaintenanceReminder,
	RuleKindMaintenanceCompleted,
	RuleKindMaintenanceOverdue,
}

// NotificationSetting is one configured notification rule.
//
// LeadTimeDays is 0 for rules that fire instantly on a state change and N>0
// for rules that fire N days before a scheduled date. An empty recipient
// list disables firing regardless of Active.
type NotificationSetting struct {
	ID           string   `json:"id" db:"id" bson:"_id"`
	Kind         RuleKind `json:"kind" db:"kind" bson:"kind"`
	Title        string   `json:"title" db:"title" bson:"title"`
	Description  string   `json:"description" db:"description" bson:"description"`
	LeadTimeDays int      `json:"lead_time_days" db:"lead_time_days" bson:"lead_time_days"`
	Active       bool     `json:"active" db:"active" bson:"active"`
	Recipients   []string `json:"recipients" db:"-" bson:"recipients"`
}

// CanFire reports whether the rule is eligible to fire at all
func (s *NotificationSetting) CanFire() bool {
	return s.Active && len(s.Recipients) > 0
}

// Firing is a decision by the rule evaluator that a rule applies right now
// to a specific equipment unit, and for task rules, to a specific task.
type Firing struct {
	Kind         RuleKind
	Equipment    *Equipment
	Task         *MaintenanceTask
	DaysUntilDue int
	Recipients   []string
}

// DispatchStatus records the outcome of one mail send attempt
type DispatchStatus string

const (
	DispatchStatusSent   DispatchStatus = "SENT"
	DispatchStatusFailed DispatchStatus = "FAILED"
)

// DispatchOutcome is the per-recipient result of dispatching one firing
type DispatchOutcome struct {
	Recipient string
	Status    DispatchStatus
	Error     string
}

// NotificationLog is one append-only record per dispatch attempt. Equipment
// name and code are denormalized at dispatch time so the log stays readable
// after the equipment is edited or deleted.
type NotificationLog struct {
	ID                    string   `json:"id" db:"id" bson:"_id"`
	Kind                  RuleKind `json:"kind" db:"kind" bson:"kind"`
	EquipmentName         string   `json:"equipment_name" db:"equipment_name" bson:"equipment_name"`
	EquipmentInternalCode string   `json:"equipment_internal_code" db:"equipment_internal_code" bson:"equipment_internal_code"`
	Subject               string   `json:"subject" db:"subject" bson:"subject"`
	Recipient             string   `json:"recipient" db:"recipient" bson:"recipient"`
	// Recipients is the firing's full recipient set, kept with each attempt
	// so one log entry is enough to reconstruct the firing.
	Recipients []string       `json:"recipients" db:"-" bson:"recipients"`
	Status     DispatchStatus `json:"status" db:"status" bson:"status"`
	Error      string         `json:"error,omitempty" db:"error" bson:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at" bson:"created_at"`
	SentAt     time.Time      `json:"sent_at" db:"sent_at" bson:"sent_at"`
}
