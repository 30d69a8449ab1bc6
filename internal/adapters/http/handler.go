package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
)

// Handler handles the staff-facing HTTP requests
type Handler struct {
	services Services
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services) *Handler {
	return &Handler{services: services}
}

func problem(c *gin.Context, status int, title, detail string) {
	c.JSON(status, ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// domainProblem maps domain sentinel errors onto HTTP problem responses
func domainProblem(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		problem(c, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, models.ErrDuplicateCode), errors.Is(err, models.ErrDuplicateRuleKind):
		problem(c, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrCompletionDateNeeded):
		problem(c, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	default:
		problem(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

// CreateEquipment handles POST /api/v1/equipment
func (h *Handler) CreateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	equipment, err := h.services.Equipment.CreateEquipment(c.Request.Context(), &ports.CreateEquipmentRequest{
		Instrument:              req.Instrument,
		InternalCode:            req.InternalCode,
		Brand:                   req.Brand,
		Model:                   req.Model,
		SerialNumber:            req.SerialNumber,
		Status:                  models.EquipmentStatus(req.Status),
		LastExternalCalibration: req.LastExternalCalibration,
		Periodicity:             req.Periodicity,
		PerformingUser:          req.PerformingUser,
	})
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusCreated, equipment)
}

// UpdateEquipment handles PUT /api/v1/equipment/:id
func (h *Handler) UpdateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	equipment, err := h.services.Equipment.UpdateEquipment(c.Request.Context(), &ports.UpdateEquipmentRequest{
		ID:                      c.Param("id"),
		Instrument:              req.Instrument,
		InternalCode:            req.InternalCode,
		Brand:                   req.Brand,
		Model:                   req.Model,
		SerialNumber:            req.SerialNumber,
		Status:                  models.EquipmentStatus(req.Status),
		LastExternalCalibration: req.LastExternalCalibration,
		Periodicity:             req.Periodicity,
		PerformingUser:          req.PerformingUser,
	})
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

// GetEquipment handles GET /api/v1/equipment/:id
func (h *Handler) GetEquipment(c *gin.Context) {
	equipment, err := h.services.Equipment.GetEquipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, equipment)
}

// ListEquipment handles GET /api/v1/equipment
func (h *Handler) ListEquipment(c *gin.Context) {
	equipments, err := h.services.Equipment.ListEquipment(c.Request.Context())
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, equipments)
}

// ScheduleTask handles POST /api/v1/equipment/:id/tasks
func (h *Handler) ScheduleTask(c *gin.Context) {
	var req ScheduleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	priority := models.TaskPriority(req.Priority)
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task, err := h.services.Maintenance.Schedule(c.Request.Context(), &ports.ScheduleRequest{
		EquipmentID:    c.Param("id"),
		Action:         req.Action,
		Category:       models.MaintenanceCategory(req.Category),
		Priority:       priority,
		ScheduledDate:  req.ScheduledDate,
		Responsible:    req.Responsible,
		PerformingUser: req.PerformingUser,
		Description:    req.Description,
	})
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// TransitionTask handles PUT /api/v1/tasks/:taskId/status
func (h *Handler) TransitionTask(c *gin.Context) {
	var req TransitionTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	task, err := h.services.Maintenance.Transition(c.Request.Context(), &ports.TransitionRequest{
		TaskID:         c.Param("taskId"),
		NewStatus:      models.MaintenanceStatus(req.Status),
		Actor:          req.Actor,
		CompletionDate: req.CompletionDate,
		Source:         ports.TransitionSourceStaff,
	})
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListTasks handles GET /api/v1/equipment/:id/tasks
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.services.Maintenance.ListForEquipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// ListSettings handles GET /api/v1/settings
func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.services.Settings.ListSettings(c.Request.Context())
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSetting handles PUT /api/v1/settings/:id
func (h *Handler) UpdateSetting(c *gin.Context) {
	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	setting := &models.NotificationSetting{
		ID:           c.Param("id"),
		Title:        req.Title,
		Description:  req.Description,
		LeadTimeDays: req.LeadTimeDays,
		Active:       req.Active,
		Recipients:   req.Recipients,
	}

	if err := h.services.Settings.UpdateSetting(c.Request.Context(), setting); err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}

// CreateCustomSetting handles POST /api/v1/settings
func (h *Handler) CreateCustomSetting(c *gin.Context) {
	var req CustomSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	setting, err := h.services.Settings.CreateCustomSetting(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusCreated, setting)
}

// ListNotifications handles GET /api/v1/notifications
func (h *Handler) ListNotifications(c *gin.Context) {
	offset, limit := pagination(c)

	entries, err := h.services.Notification.ListFirings(c.Request.Context(), offset, limit)
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ListActivity handles GET /api/v1/activity
func (h *Handler) ListActivity(c *gin.Context) {
	offset, limit := pagination(c)

	entries, err := h.services.ActivityLog.List(c.Request.Context(), offset, limit)
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// RunSweep handles POST /api/v1/notifications/sweep, triggering an immediate
// evaluator run outside the scheduled window.
func (h *Handler) RunSweep(c *gin.Context) {
	result, err := h.services.Notification.RunSweep(c.Request.Context())
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, SweepResponse{
		Firings:    result.Firings,
		Dispatched: result.Dispatched,
		Failed:     result.Failed,
		Started:    result.Started,
		Finished:   result.Finished,
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "labwise",
	})
}

func pagination(c *gin.Context) (offset, limit int) {
	offset = 0
	limit = 100

	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	return offset, limit
}
