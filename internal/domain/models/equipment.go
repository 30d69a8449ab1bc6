package models

import (
	"errors"
	"time"
)

// EquipmentStatus represents the lifecycle status of a laboratory instrument
type EquipmentStatus string

const (
	EquipmentStatusOperational      EquipmentStatus = "OPERATIONAL"
	EquipmentStatusInRepair         EquipmentStatus = "IN_REPAIR"
	EquipmentStatusNeedsCalibration EquipmentStatus = "NEEDS_CALIBRATION"
	EquipmentStatusDecommissioned   EquipmentStatus = "DECOMMISSIONED"
	// EquipmentStatusActive is a legacy synonym of OPERATIONAL still present
	// in imported records.
	EquipmentStatusActive EquipmentStatus = "ACTIVE"
)

// Equipment represents one physical laboratory instrument.
//
// NextExternalCalibration is derived from LastExternalCalibration and
// Periodicity through pkg/calibration but persisted for query efficiency.
// When the periodicity cannot be parsed the stored value is kept as-is
// (stale but present), never cleared.
type Equipment struct {
	ID           string          `json:"id" db:"id" bson:"_id"`
	Instrument   string          `json:"instrument" db:"instrument" bson:"instrument"`
	InternalCode string          `json:"internal_code" db:"internal_code" bson:"internal_code"`
	Brand        string          `json:"brand" db:"brand" bson:"brand"`
	Model        string          `json:"model" db:"model" bson:"model"`
	SerialNumber string          `json:"serial_number" db:"serial_number" bson:"serial_number"`
	Status       EquipmentStatus `json:"status" db:"status" bson:"status"`

	// Calibration dates use the calendar layout calibration.DateLayout.
	LastExternalCalibration string `json:"last_external_calibration" db:"last_external_calibration" bson:"last_external_calibration"`
	NextExternalCalibration string `json:"next_external_calibration" db:"next_external_calibration" bson:"next_external_calibration"`
	Periodicity             string `json:"periodicity" db:"periodicity" bson:"periodicity"`

	// FieldToken is the opaque credential accepted by the field check-in
	// gateway. Immutable once assigned.
	FieldToken string `json:"field_token" db:"field_token" bson:"field_token"`

	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidStatus     = errors.New("invalid equipment status")
	ErrDuplicateCode     = errors.New("internal code already in use")
	ErrDuplicateRuleKind = errors.New("notification rule kind already exists")
)

// ValidateEquipmentStatus checks if the status is part of the closed set
func ValidateEquipmentStatus(status EquipmentStatus) error {
	switch status {
	case EquipmentStatusOperational, EquipmentStatusInRepair,
		EquipmentStatusNeedsCalibration, EquipmentStatusDecommissioned,
		EquipmentStatusActive:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// IsOperational reports whether the instrument is in service. ACTIVE is a
// legacy alias of OPERATIONAL and is treated identically.
func (e *Equipment) IsOperational() bool {
	return e.Status == EquipmentStatusOperational || e.Status == EquipmentStatusActive
}
