package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/internal/logger"
	"github.com/labwise/labwise/pkg/calibration"
)

// equipmentService implements the instrument registry
type equipmentService struct {
	equipmentRepo ports.EquipmentRepository
	taskRepo      ports.TaskRepository
	activityRepo  ports.ActivityLogRepository
	logger        logger.Logger
}

// NewEquipmentService creates the equipment registry service
func NewEquipmentService(
	equipmentRepo ports.EquipmentRepository,
	taskRepo ports.TaskRepository,
	activityRepo ports.ActivityLogRepository,
) ports.EquipmentService {
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		taskRepo:      taskRepo,
		activityRepo:  activityRepo,
		logger:        logger.New("equipment-service", ""),
	}
}

// CreateEquipment registers a new instrument. The next calibration date is
// derived from the last calibration and the periodicity; when either is
// unparseable the date defaults to today so the unit surfaces in the due
// window immediately instead of silently dropping off the radar. A seed
// history entry marks the registration in the unit's maintenance timeline.
func (s *equipmentService) CreateEquipment(ctx context.Context, req *ports.CreateEquipmentRequest) (*models.Equipment, error) {
	if err := models.ValidateEquipmentStatus(req.Status); err != nil {
		return nil, err
	}

	existing, err := s.equipmentRepo.GetByInternalCode(ctx, req.InternalCode)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check internal code: %w", err)
	}
	if existing != nil {
		return nil, models.ErrDuplicateCode
	}

	now := time.Now()
	next, err := calibration.NextCalibration(req.LastExternalCalibration, req.Periodicity)
	if err != nil {
		s.logger.Warnw("Could not derive next calibration, defaulting to today",
			"internal_code", req.InternalCode, "periodicity", req.Periodicity, "error", err)
		next = now.Format(calibration.DateLayout)
	}

	equipment := &models.Equipment{
		ID:                      uuid.NewString(),
		Instrument:              req.Instrument,
		InternalCode:            req.InternalCode,
		Brand:                   req.Brand,
		Model:                   req.Model,
		SerialNumber:            req.SerialNumber,
		Status:                  req.Status,
		LastExternalCalibration: req.LastExternalCalibration,
		NextExternalCalibration: next,
		Periodicity:             req.Periodicity,
		FieldToken:              uuid.NewString(),
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := s.equipmentRepo.Create(ctx, equipment); err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}

	seed := &models.MaintenanceTask{
		ID:             uuid.NewString(),
		EquipmentID:    equipment.ID,
		Action:         "Equipo Creado",
		Category:       models.MaintenanceCategoryOther,
		Priority:       models.TaskPriorityLow,
		Status:         models.MaintenanceStatusCompleted,
		ScheduledDate:  now,
		CompletionDate: &now,
		Responsible:    req.PerformingUser,
		PerformingUser: req.PerformingUser,
		Description:    "Registro inicial del equipo en el sistema",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.taskRepo.Create(ctx, seed); err != nil {
		s.logger.Errorw("Failed to seed creation history entry",
			"equipment_id", equipment.ID, "error", err)
	}

	s.recordActivity(ctx, req.PerformingUser,
		fmt.Sprintf("Creó el equipo %s (%s)", equipment.Instrument, equipment.InternalCode),
		models.EquipmentChangeDetail{
			EquipmentID:   equipment.ID,
			EquipmentName: equipment.Instrument,
			After:         equipment,
		})

	s.logger.Infow("Equipment created", "equipment_id", equipment.ID,
		"internal_code", equipment.InternalCode, "next_calibration", equipment.NextExternalCalibration)

	return equipment, nil
}

// UpdateEquipment edits an instrument and re-derives its next calibration
// date. On a parse failure the previously stored date is kept rather than
// reset. The field token is immutable and never touched by edits.
func (s *equipmentService) UpdateEquipment(ctx context.Context, req *ports.UpdateEquipmentRequest) (*models.Equipment, error) {
	if err := models.ValidateEquipmentStatus(req.Status); err != nil {
		return nil, err
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load equipment %s: %w", req.ID, err)
	}

	if req.InternalCode != equipment.InternalCode {
		other, err := s.equipmentRepo.GetByInternalCode(ctx, req.InternalCode)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("failed to check internal code: %w", err)
		}
		if other != nil && other.ID != equipment.ID {
			return nil, models.ErrDuplicateCode
		}
	}

	before := *equipment

	equipment.Instrument = req.Instrument
	equipment.InternalCode = req.InternalCode
	equipment.Brand = req.Brand
	equipment.Model = req.Model
	equipment.SerialNumber = req.SerialNumber
	equipment.Status = req.Status
	equipment.LastExternalCalibration = req.LastExternalCalibration
	equipment.Periodicity = req.Periodicity
	equipment.UpdatedAt = time.Now()

	next, err := calibration.NextCalibration(req.LastExternalCalibration, req.Periodicity)
	if err != nil {
		s.logger.Warnw("Could not re-derive next calibration, keeping stored value",
			"equipment_id", equipment.ID, "periodicity", req.Periodicity, "error", err)
	} else {
		equipment.NextExternalCalibration = next
	}

	if err := s.equipmentRepo.Update(ctx, equipment); err != nil {
		return nil, fmt.Errorf("failed to update equipment %s: %w", equipment.ID, err)
	}

	s.recordActivity(ctx, req.PerformingUser,
		fmt.Sprintf("Actualizó el equipo %s (%s)", equipment.Instrument, equipment.InternalCode),
		models.EquipmentChangeDetail{
			EquipmentID:   equipment.ID,
			EquipmentName: equipment.Instrument,
			Before:        &before,
			After:         equipment,
		})

	s.logger.Infow("Equipment updated", "equipment_id", equipment.ID,
		"internal_code", equipment.InternalCode, "next_calibration", equipment.NextExternalCalibration)

	return equipment, nil
}

// GetEquipment retrieves an instrument by identifier
func (s *equipmentService) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	return s.equipmentRepo.GetByID(ctx, id)
}

// GetEquipmentByToken retrieves an instrument by its field-access token
func (s *equipmentService) GetEquipmentByToken(ctx context.Context, token string) (*models.Equipment, error) {
	return s.equipmentRepo.GetByFieldToken(ctx, token)
}

// ListEquipment retrieves all instruments ordered by name
func (s *equipmentService) ListEquipment(ctx context.Context) ([]*models.Equipment, error) {
	return s.equipmentRepo.List(ctx)
}

func (s *equipmentService) recordActivity(ctx context.Context, actor, description string, detail models.ActivityDetail) {
	entry := &models.ActivityLog{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Actor:       actor,
		Action:      detail.ActivityAction(),
		Description: description,
		Detail:      detail,
	}
	if err := s.activityRepo.Append(ctx, entry); err != nil {
		s.logger.Errorw("Failed to append activity entry", "action", entry.Action, "error", err)
	}
}
