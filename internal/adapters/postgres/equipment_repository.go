package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches
const uniqueViolation = "23505"

// equipmentRepository implements the EquipmentRepository interface using PostgreSQL
type equipmentRepository struct {
	db dbExecutor
}

// NewEquipmentRepository creates a new PostgreSQL equipment repository
func NewEquipmentRepository(db dbExecutor) ports.EquipmentRepository {
	return &equipmentRepository{db: db}
}

const equipmentColumns = `
	id, instrument, internal_code, brand, model, serial_number, status,
	last_external_calibration, next_external_calibration, periodicity,
	field_token, created_at, updated_at
`

// GetByID retrieves an equipment unit by identifier
func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`

	var equipment models.Equipment
	err := r.db.GetContext(ctx, &equipment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}

	return &equipment, nil
}

// GetByInternalCode retrieves an equipment unit by its unique internal code
func (r *equipmentRepository) GetByInternalCode(ctx context.Context, code string) (*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE internal_code = $1`

	var equipment models.Equipment
	err := r.db.GetContext(ctx, &equipment, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get equipment by internal code: %w", err)
	}

	return &equipment, nil
}

// GetByFieldToken retrieves an equipment unit by its field-access token
func (r *equipmentRepository) GetByFieldToken(ctx context.Context, token string) (*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE field_token = $1`

	var equipment models.Equipment
	err := r.db.GetContext(ctx, &equipment, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get equipment by field token: %w", err)
	}

	return &equipment, nil
}

// Create adds a new equipment record
func (r *equipmentRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	query := `
		INSERT INTO equipment (
			id, instrument, internal_code, brand, model, serial_number, status,
			last_external_calibration, next_external_calibration, periodicity,
			field_token, created_at, updated_at
		) VALUES (
			:id, :instrument, :internal_code, :brand, :model, :serial_number, :status,
			:last_external_calibration, :next_external_calibration, :periodicity,
			:field_token, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, equipment)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create equipment: %w", err)
	}

	return nil
}

// Update updates an existing equipment record
func (r *equipmentRepository) Update(ctx context.Context, equipment *models.Equipment) error {
	query := `
		UPDATE equipment
		SET instrument = :instrument,
		    internal_code = :internal_code,
		    brand = :brand,
		    model = :model,
		    serial_number = :serial_number,
		    status = :status,
		    last_external_calibration = :last_external_calibration,
		    next_external_calibration = :next_external_calibration,
		    periodicity = :periodicity,
		    updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, equipment)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.ErrDuplicateCode
		}
		return fmt.Errorf("failed to update equipment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// List retrieves all equipment ordered by instrument name
func (r *equipmentRepository) List(ctx context.Context) ([]*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment ORDER BY instrument ASC`

	var equipments []*models.Equipment
	err := r.db.SelectContext(ctx, &equipments, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}

	return equipments, nil
}
