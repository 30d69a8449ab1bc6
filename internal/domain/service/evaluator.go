package service

import (
	"time"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/logger"
	"github.com/labwise/labwise/pkg/calibration"
)

// Evaluator decides which notification rules fire for the current fleet
// state. It is read-only and deterministic: evaluating twice against the
// same inputs and the same instant yields the same firings.
type Evaluator struct {
	logger logger.Logger
}

// NewEvaluator creates a new rule evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{
		logger: logger.New("rule-evaluator", ""),
	}
}

// Evaluate walks every active rule against the equipment fleet and the task
// population and returns the firings due right now.
//
// maintenance_completed is deliberately absent: it fires inline from the
// task transition path, never from the sweep. Calibration dates already in
// the past are not covered by calibration_due (strictly 0 < daysUntilDue);
// this mirrors the established behavior and is flagged in DESIGN.md.
func (e *Evaluator) Evaluate(
	now time.Time,
	equipments []*models.Equipment,
	tasks []*models.MaintenanceTask,
	settings []*models.NotificationSetting,
) []*models.Firing {
	equipmentByID := make(map[string]*models.Equipment, len(equipments))
	for _, eq := range equipments {
		equipmentByID[eq.ID] = eq
	}

	var firings []*models.Firing

	for _, setting := range settings {
		if !setting.CanFire() {
			continue
		}

		switch setting.Kind {
		case models.RuleKindMaintenanceOverdue:
			firings = append(firings, e.evaluateOverdue(now, tasks, equipmentByID, setting)...)
		case models.RuleKindCalibrationDue:
			firings = append(firings, e.evaluateCalibrationDue(now, equipments, setting)...)
		case models.RuleKindMaintenanceReminder:
			firings = append(firings, e.evaluateReminder(tasks, equipmentByID, setting)...)
		default:
			// maintenance_completed fires inline on transition; custom kinds
			// have no sweep semantics.
		}
	}

	e.logger.Infow("Evaluation completed", "firings", len(firings),
		"equipment", len(equipments), "tasks", len(tasks), "settings", len(settings))

	return firings
}

// evaluateOverdue fires once per still-scheduled task whose scheduled date
// has passed. The rule's lead-time field is ignored.
func (e *Evaluator) evaluateOverdue(
	now time.Time,
	tasks []*models.MaintenanceTask,
	equipmentByID map[string]*models.Equipment,
	setting *models.NotificationSetting,
) []*models.Firing {
	var firings []*models.Firing
	for _, task := range tasks {
		if !task.IsOverdue(now) {
			continue
		}
		equipment, ok := equipmentByID[task.EquipmentID]
		if !ok {
			e.logger.Warnw("Overdue task references unknown equipment",
				"task_id", task.ID, "equipment_id", task.EquipmentID)
			continue
		}
		firings = append(firings, &models.Firing{
			Kind:       models.RuleKindMaintenanceOverdue,
			Equipment:  equipment,
			Task:       task,
			Recipients: setting.Recipients,
		})
	}
	return firings
}

// evaluateCalibrationDue fires once per equipment whose next calibration
// falls strictly within the rule's lead-time window. Unparseable dates are
// skipped, and equipment already past due never fires under this rule.
func (e *Evaluator) evaluateCalibrationDue(
	now time.Time,
	equipments []*models.Equipment,
	setting *models.NotificationSetting,
) []*models.Firing {
	var firings []*models.Firing
	for _, equipment := range equipments {
		if equipment.NextExternalCalibration == "" {
			continue
		}
		due, err := time.Parse(calibration.DateLayout, equipment.NextExternalCalibration)
		if err != nil {
			e.logger.Warnw("Skipping equipment with unparseable calibration date",
				"equipment_id", equipment.ID, "next_calibration", equipment.NextExternalCalibration)
			continue
		}

		daysUntilDue := wholeDaysUntil(now, due)
		if daysUntilDue > 0 && daysUntilDue <= setting.LeadTimeDays {
			firings = append(firings, &models.Firing{
				Kind:         models.RuleKindCalibrationDue,
				Equipment:    equipment,
				DaysUntilDue: daysUntilDue,
				Recipients:   setting.Recipients,
			})
		}
	}
	return firings
}

// evaluateReminder fires for every task sitting in SCHEDULED state. The
// lead-time field is informational only for this rule.
func (e *Evaluator) evaluateReminder(
	tasks []*models.MaintenanceTask,
	equipmentByID map[string]*models.Equipment,
	setting *models.NotificationSetting,
) []*models.Firing {
	var firings []*models.Firing
	for _, task := range tasks {
		if task.Status != models.MaintenanceStatusScheduled {
			continue
		}
		equipment, ok := equipmentByID[task.EquipmentID]
		if !ok {
			continue
		}
		firings = append(firings, &models.Firing{
			Kind:       models.RuleKindMaintenanceReminder,
			Equipment:  equipment,
			Task:       task,
			Recipients: setting.Recipients,
		})
	}
	return firings
}

// wholeDaysUntil computes the calendar-day difference between now's date and
// the due date, floor semantics: due today is 0, due tomorrow is 1.
func wholeDaysUntil(now, due time.Time) int {
	nowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDate.Sub(nowDate).Hours() / 24)
}
