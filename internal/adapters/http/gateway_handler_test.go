package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labwise/labwise/internal/adapters/memory"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dropTransport struct{}

func (dropTransport) Send(ctx context.Context, to, subject, html string) error { return nil }

type routerFixture struct {
	router    *gin.Engine
	equipment *models.Equipment
	taskRepo  ports.TaskRepository
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	equipmentRepo := memory.NewInMemoryEquipmentRepository()
	taskRepo := memory.NewInMemoryTaskRepository()
	settingRepo := memory.NewInMemorySettingRepository()
	notifLog := memory.NewInMemoryNotificationLogRepository()
	activityRepo := memory.NewInMemoryActivityLogRepository()

	dispatcher := service.NewDispatcher(dropTransport{}, notifLog)

	services := Services{
		Equipment:   service.NewEquipmentService(equipmentRepo, taskRepo, activityRepo),
		Maintenance: service.NewMaintenanceService(taskRepo, equipmentRepo, settingRepo, activityRepo, dispatcher),
		Settings:    service.NewSettingsService(settingRepo),
		Notification: service.NewNotificationService(equipmentRepo, taskRepo, settingRepo,
			notifLog, activityRepo, dispatcher, service.NotificationServiceConfig{}),
		ActivityLog: activityRepo,
	}

	equipment, err := services.Equipment.CreateEquipment(context.Background(), &ports.CreateEquipmentRequest{
		Instrument:              "Cabina de Flujo Laminar",
		InternalCode:            "CFL-003",
		Brand:                   "Telstar",
		Model:                   "Bio II Advance",
		Status:                  models.EquipmentStatusOperational,
		LastExternalCalibration: "2026-01-15",
		Periodicity:             "12 meses",
		PerformingUser:          "admin",
	})
	require.NoError(t, err)

	return &routerFixture{
		router:    SetupRouter(services),
		equipment: equipment,
		taskRepo:  taskRepo,
	}
}

func (f *routerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func TestGatewayGetEquipment(t *testing.T) {
	f := newRouterFixture(t)

	recorder := f.do(t, http.MethodGet, "/m/"+f.equipment.FieldToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp FieldEquipmentResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))

	assert.Equal(t, "Cabina de Flujo Laminar", resp.Instrument)
	assert.Equal(t, "CFL-003", resp.InternalCode)
	assert.Equal(t, "2027-01-15", resp.NextExternalCalibration)
	// Registration seeds one history entry.
	require.Len(t, resp.Tasks, 1)

	// The access token is never echoed back.
	assert.NotContains(t, recorder.Body.String(), f.equipment.FieldToken)
}

func TestGatewayUnknownToken(t *testing.T) {
	f := newRouterFixture(t)

	recorder := f.do(t, http.MethodGet, "/m/bogus-token", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, "unknown access token", problem.Detail)
}

func TestGatewayScheduleTask(t *testing.T) {
	f := newRouterFixture(t)

	recorder := f.do(t, http.MethodPost, "/m/"+f.equipment.FieldToken+"/tasks", ScheduleTaskRequest{
		Action:        "Cambio de prefiltro",
		Category:      string(models.MaintenanceCategoryPreventive),
		ScheduledDate: time.Now().Add(48 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var task models.MaintenanceTask
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &task))

	assert.Equal(t, f.equipment.ID, task.EquipmentID)
	assert.Equal(t, models.MaintenanceStatusScheduled, task.Status)
	// Anonymous field check-ins get the default actor and priority.
	assert.Equal(t, "Mobile User", task.PerformingUser)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
}

func TestGatewayTransitionTask(t *testing.T) {
	f := newRouterFixture(t)

	recorder := f.do(t, http.MethodPost, "/m/"+f.equipment.FieldToken+"/tasks", ScheduleTaskRequest{
		Action:        "Cambio de prefiltro",
		Category:      string(models.MaintenanceCategoryPreventive),
		ScheduledDate: time.Now().Add(48 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var task models.MaintenanceTask
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &task))

	path := fmt.Sprintf("/m/%s/tasks/%s/status", f.equipment.FieldToken, task.ID)
	recorder = f.do(t, http.MethodPut, path, TransitionTaskRequest{
		Status: string(models.MaintenanceStatusCompleted),
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var updated models.MaintenanceTask
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &updated))

	assert.Equal(t, models.MaintenanceStatusCompleted, updated.Status)
	// Completion from the field defaults the date to now.
	require.NotNil(t, updated.CompletionDate)
}

func TestGatewayTransitionForeignTask(t *testing.T) {
	f := newRouterFixture(t)

	// A task on another equipment unit must look missing through this token.
	require.NoError(t, f.taskRepo.Create(context.Background(), &models.MaintenanceTask{
		ID:            "foreign-task",
		EquipmentID:   "other-equipment",
		Action:        "Limpieza",
		Status:        models.MaintenanceStatusScheduled,
		ScheduledDate: time.Now(),
	}))

	path := fmt.Sprintf("/m/%s/tasks/foreign-task/status", f.equipment.FieldToken)
	recorder := f.do(t, http.MethodPut, path, TransitionTaskRequest{
		Status: string(models.MaintenanceStatusInProgress),
	})
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &problem))
	assert.Equal(t, "task not found", problem.Detail)
}

func TestGatewayTransitionInvalidBody(t *testing.T) {
	f := newRouterFixture(t)

	path := fmt.Sprintf("/m/%s/tasks/whatever/status", f.equipment.FieldToken)
	recorder := f.do(t, http.MethodPut, path, map[string]string{"actor": "x"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHealthCheck(t *testing.T) {
	f := newRouterFixture(t)

	recorder := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
