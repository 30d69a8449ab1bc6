package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func equipmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "instrument", "internal_code", "brand", "model", "serial_number", "status",
		"last_external_calibration", "next_external_calibration", "periodicity",
		"field_token", "created_at", "updated_at",
	})
}

func TestNewEquipmentRepository(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	assert.NotNil(t, repo)
}

func TestEquipmentGetByID_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM equipment WHERE id = (.+)").
		WithArgs("eq-1").
		WillReturnRows(equipmentRows().AddRow(
			"eq-1", "Balanza Analítica", "BAL-001", "Mettler Toledo", "XPR204",
			"MT-99812", "OPERATIONAL", "2026-02-10", "2026-08-10", "6 meses",
			"token-1", now, now,
		))

	equipment, err := repo.GetByID(ctx, "eq-1")

	assert.NoError(t, err)
	assert.Equal(t, "eq-1", equipment.ID)
	assert.Equal(t, "BAL-001", equipment.InternalCode)
	assert.Equal(t, models.EquipmentStatusOperational, equipment.Status)
	assert.Equal(t, "2026-08-10", equipment.NextExternalCalibration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentGetByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM equipment WHERE id = (.+)").
		WithArgs("missing").
		WillReturnRows(equipmentRows())

	equipment, err := repo.GetByID(ctx, "missing")

	assert.Nil(t, equipment)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentGetByFieldToken_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM equipment WHERE field_token = (.+)").
		WithArgs("token-1").
		WillReturnRows(equipmentRows().AddRow(
			"eq-1", "Balanza Analítica", "BAL-001", "Mettler Toledo", "XPR204",
			"MT-99812", "OPERATIONAL", "2026-02-10", "2026-08-10", "6 meses",
			"token-1", now, now,
		))

	equipment, err := repo.GetByFieldToken(ctx, "token-1")

	assert.NoError(t, err)
	assert.Equal(t, "eq-1", equipment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentCreate_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO equipment").
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	err := repo.Create(ctx, &models.Equipment{
		ID:           "eq-1",
		Instrument:   "Balanza Analítica",
		InternalCode: "BAL-001",
		Status:       models.EquipmentStatusOperational,
		FieldToken:   "token-1",
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentCreate_DuplicateCode(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO equipment").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "equipment_internal_code_key"})

	err := repo.Create(ctx, &models.Equipment{ID: "eq-1", InternalCode: "BAL-001"})

	assert.ErrorIs(t, err, models.ErrDuplicateCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentUpdate_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE equipment").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(ctx, &models.Equipment{ID: "eq-1", InternalCode: "BAL-001"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentUpdate_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE equipment").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(ctx, &models.Equipment{ID: "missing"})

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentList_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM equipment ORDER BY instrument ASC").
		WillReturnRows(equipmentRows().
			AddRow("eq-2", "Autoclave", "AUT-001", "", "", "", "OPERATIONAL",
				"", "", "", "token-2", now, now).
			AddRow("eq-1", "Balanza Analítica", "BAL-001", "", "", "", "OPERATIONAL",
				"", "", "", "token-1", now, now))

	equipments, err := repo.List(ctx)

	assert.NoError(t, err)
	require.Len(t, equipments, 2)
	assert.Equal(t, "Autoclave", equipments[0].Instrument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentList_QueryError(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM equipment ORDER BY instrument ASC").
		WillReturnError(errors.New("connection refused"))

	equipments, err := repo.List(ctx)

	assert.Nil(t, equipments)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
