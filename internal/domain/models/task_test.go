package models

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from MaintenanceStatus
		to   MaintenanceStatus
		want bool
	}{
		{"scheduled to in progress", MaintenanceStatusScheduled, MaintenanceStatusInProgress, true},
		{"scheduled straight to completed", MaintenanceStatusScheduled, MaintenanceStatusCompleted, true},
		{"scheduled to cancelled", MaintenanceStatusScheduled, MaintenanceStatusCancelled, true},
		{"in progress to completed", MaintenanceStatusInProgress, MaintenanceStatusCompleted, true},
		{"in progress to cancelled", MaintenanceStatusInProgress, MaintenanceStatusCancelled, true},
		{"in progress back to scheduled", MaintenanceStatusInProgress, MaintenanceStatusScheduled, false},
		{"completed is terminal", MaintenanceStatusCompleted, MaintenanceStatusInProgress, false},
		{"completed to cancelled", MaintenanceStatusCompleted, MaintenanceStatusCancelled, false},
		{"cancelled is terminal", MaintenanceStatusCancelled, MaintenanceStatusScheduled, false},
		{"cancelled to completed", MaintenanceStatusCancelled, MaintenanceStatusCompleted, false},
		{"self transition", MaintenanceStatusScheduled, MaintenanceStatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(MaintenanceStatusCompleted) {
		t.Error("COMPLETED should be terminal")
	}
	if !IsTerminal(MaintenanceStatusCancelled) {
		t.Error("CANCELLED should be terminal")
	}
	if IsTerminal(MaintenanceStatusScheduled) {
		t.Error("SCHEDULED should not be terminal")
	}
	if IsTerminal(MaintenanceStatusInProgress) {
		t.Error("IN_PROGRESS should not be terminal")
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status MaintenanceStatus
		date   time.Time
		want   bool
	}{
		{"scheduled and past", MaintenanceStatusScheduled, now.Add(-24 * time.Hour), true},
		{"scheduled and future", MaintenanceStatusScheduled, now.Add(24 * time.Hour), false},
		{"in progress and past", MaintenanceStatusInProgress, now.Add(-24 * time.Hour), false},
		{"completed and past", MaintenanceStatusCompleted, now.Add(-24 * time.Hour), false},
		{"cancelled and past", MaintenanceStatusCancelled, now.Add(-24 * time.Hour), false},
		{"scheduled exactly now", MaintenanceStatusScheduled, now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &MaintenanceTask{Status: tt.status, ScheduledDate: tt.date}
			if got := task.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateEquipmentStatus(t *testing.T) {
	for _, status := range []EquipmentStatus{
		EquipmentStatusOperational, EquipmentStatusInRepair,
		EquipmentStatusNeedsCalibration, EquipmentStatusDecommissioned,
		EquipmentStatusActive,
	} {
		if err := ValidateEquipmentStatus(status); err != nil {
			t.Errorf("ValidateEquipmentStatus(%s) unexpected error: %v", status, err)
		}
	}

	if err := ValidateEquipmentStatus("BROKEN"); err == nil {
		t.Error("expected error for unknown status")
	}
}
