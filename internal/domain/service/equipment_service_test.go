package service

import (
	"context"
	"testing"
	"time"

	"github.com/labwise/labwise/internal/adapters/memory"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/pkg/calibration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type equipmentFixture struct {
	service       ports.EquipmentService
	equipmentRepo ports.EquipmentRepository
	taskRepo      ports.TaskRepository
	activityRepo  ports.ActivityLogRepository
}

func newEquipmentFixture(t *testing.T) *equipmentFixture {
	t.Helper()
	f := &equipmentFixture{
		equipmentRepo: memory.NewInMemoryEquipmentRepository(),
		taskRepo:      memory.NewInMemoryTaskRepository(),
		activityRepo:  memory.NewInMemoryActivityLogRepository(),
	}
	f.service = NewEquipmentService(f.equipmentRepo, f.taskRepo, f.activityRepo)
	return f
}

func createRequest() *ports.CreateEquipmentRequest {
	return &ports.CreateEquipmentRequest{
		Instrument:              "Balanza Analítica",
		InternalCode:            "BAL-001",
		Brand:                   "Mettler Toledo",
		Model:                   "XPR204",
		SerialNumber:            "MT-99812",
		Status:                  models.EquipmentStatusOperational,
		LastExternalCalibration: "2026-02-10",
		Periodicity:             "6 meses",
		PerformingUser:          "admin",
	}
}

func TestCreateEquipmentDerivesCalibration(t *testing.T) {
	f := newEquipmentFixture(t)

	equipment, err := f.service.CreateEquipment(context.Background(), createRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, equipment.ID)
	assert.NotEmpty(t, equipment.FieldToken)
	assert.Equal(t, "2026-08-10", equipment.NextExternalCalibration)

	// A seed history entry marks the registration.
	tasks, err := f.taskRepo.ListForEquipment(context.Background(), equipment.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Equipo Creado", tasks[0].Action)
	assert.Equal(t, models.MaintenanceStatusCompleted, tasks[0].Status)
	require.NotNil(t, tasks[0].CompletionDate)

	entries, err := f.activityRepo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionEquipmentCreated, entries[0].Action)
}

func TestCreateEquipmentUnparseableCalibrationDefaultsToToday(t *testing.T) {
	f := newEquipmentFixture(t)

	req := createRequest()
	req.Periodicity = "según fabricante"

	equipment, err := f.service.CreateEquipment(context.Background(), req)
	require.NoError(t, err)

	today := time.Now().Format(calibration.DateLayout)
	assert.Equal(t, today, equipment.NextExternalCalibration)
}

func TestCreateEquipmentDuplicateCode(t *testing.T) {
	f := newEquipmentFixture(t)

	_, err := f.service.CreateEquipment(context.Background(), createRequest())
	require.NoError(t, err)

	_, err = f.service.CreateEquipment(context.Background(), createRequest())
	assert.ErrorIs(t, err, models.ErrDuplicateCode)
}

func TestCreateEquipmentInvalidStatus(t *testing.T) {
	f := newEquipmentFixture(t)

	req := createRequest()
	req.Status = models.EquipmentStatus("BROKEN")

	_, err := f.service.CreateEquipment(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestUpdateEquipmentKeepsToken(t *testing.T) {
	f := newEquipmentFixture(t)

	created, err := f.service.CreateEquipment(context.Background(), createRequest())
	require.NoError(t, err)

	updated, err := f.service.UpdateEquipment(context.Background(), &ports.UpdateEquipmentRequest{
		ID:                      created.ID,
		Instrument:              "Balanza Analítica",
		InternalCode:            "BAL-001",
		Brand:                   "Mettler Toledo",
		Model:                   "XPR204",
		SerialNumber:            "MT-99812",
		Status:                  models.EquipmentStatusInRepair,
		LastExternalCalibration: "2026-03-01",
		Periodicity:             "12 meses",
		PerformingUser:          "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, created.FieldToken, updated.FieldToken)
	assert.Equal(t, models.EquipmentStatusInRepair, updated.Status)
	assert.Equal(t, "2027-03-01", updated.NextExternalCalibration)
}

func TestUpdateEquipmentKeepsStoredCalibrationOnParseFailure(t *testing.T) {
	f := newEquipmentFixture(t)

	created, err := f.service.CreateEquipment(context.Background(), createRequest())
	require.NoError(t, err)

	req := &ports.UpdateEquipmentRequest{
		ID:                      created.ID,
		Instrument:              created.Instrument,
		InternalCode:            created.InternalCode,
		Status:                  created.Status,
		LastExternalCalibration: "fecha pendiente",
		Periodicity:             created.Periodicity,
		PerformingUser:          "admin",
	}

	updated, err := f.service.UpdateEquipment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, created.NextExternalCalibration, updated.NextExternalCalibration)
}

func TestUpdateEquipmentDuplicateCode(t *testing.T) {
	f := newEquipmentFixture(t)

	first, err := f.service.CreateEquipment(context.Background(), createRequest())
	require.NoError(t, err)

	second := createRequest()
	second.InternalCode = "BAL-002"
	_, err = f.service.CreateEquipment(context.Background(), second)
	require.NoError(t, err)

	_, err = f.service.UpdateEquipment(context.Background(), &ports.UpdateEquipmentRequest{
		ID:                      first.ID,
		Instrument:              first.Instrument,
		InternalCode:            "BAL-002",
		Status:                  first.Status,
		LastExternalCalibration: first.LastExternalCalibration,
		Periodicity:             first.Periodicity,
		PerformingUser:          "admin",
	})
	assert.ErrorIs(t, err, models.ErrDuplicateCode)
}

func TestGetEquipmentByToken(t *testing.T) {
	f := newEquipmentFixture(t)

	created, err := f.service.CreateEquipment(context.Background(), createRequest())
	require.NoError(t, err)

	found, err := f.service.GetEquipmentByToken(context.Background(), created.FieldToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = f.service.GetEquipmentByToken(context.Background(), "bogus")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListEquipmentSortedByInstrument(t *testing.T) {
	f := newEquipmentFixture(t)

	first := createRequest()
	first.Instrument = "Microscopio"
	first.InternalCode = "MIC-001"
	_, err := f.service.CreateEquipment(context.Background(), first)
	require.NoError(t, err)

	second := createRequest()
	second.Instrument = "Autoclave"
	second.InternalCode = "AUT-001"
	_, err = f.service.CreateEquipment(context.Background(), second)
	require.NoError(t, err)

	all, err := f.service.ListEquipment(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Autoclave", all[0].Instrument)
	assert.Equal(t, "Microscopio", all[1].Instrument)
}
