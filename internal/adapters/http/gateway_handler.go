package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labwise/labwise/internal/domain/models"
	"github.com/labwise/labwise/internal/domain/ports"
)

// fieldDefaultActor is recorded when a field check-in does not identify the
// person performing it.
const fieldDefaultActor = "Mobile User"

// GatewayHandler serves the field check-in surface. Every route is scoped by
// the equipment's opaque token; an unknown token is indistinguishable from a
// missing record.
type GatewayHandler struct {
	services Services
}

// NewGatewayHandler creates a new field gateway handler
func NewGatewayHandler(services Services) *GatewayHandler {
	return &GatewayHandler{services: services}
}

// resolveToken loads the equipment unit for the token in the path, or writes
// a 404 problem and returns nil.
func (h *GatewayHandler) resolveToken(c *gin.Context) *models.Equipment {
	equipment, err := h.services.Equipment.GetEquipmentByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			problem(c, http.StatusNotFound, "Not Found", "unknown access token")
		} else {
			problem(c, http.StatusInternalServerError, "Internal Server Error", "failed to resolve access token")
		}
		return nil
	}
	return equipment
}

// GetEquipment handles GET /m/:token, returning the equipment unit and its
// task history. The response never echoes the token or internal identifiers.
func (h *GatewayHandler) GetEquipment(c *gin.Context) {
	equipment := h.resolveToken(c)
	if equipment == nil {
		return
	}

	tasks, err := h.services.Maintenance.ListForEquipment(c.Request.Context(), equipment.ID)
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, FieldEquipmentResponse{
		Instrument:              equipment.Instrument,
		InternalCode:            equipment.InternalCode,
		Brand:                   equipment.Brand,
		Model:                   equipment.Model,
		SerialNumber:            equipment.SerialNumber,
		Status:                  equipment.Status,
		NextExternalCalibration: equipment.NextExternalCalibration,
		Tasks:                   tasks,
	})
}

// ScheduleTask handles POST /m/:token/tasks, recording maintenance from the
// field against the token's equipment only.
func (h *GatewayHandler) ScheduleTask(c *gin.Context) {
	equipment := h.resolveToken(c)
	if equipment == nil {
		return
	}

	var req ScheduleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	actor := req.PerformingUser
	if actor == "" {
		actor = fieldDefaultActor
	}

	priority := models.TaskPriority(req.Priority)
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task, err := h.services.Maintenance.Schedule(c.Request.Context(), &ports.ScheduleRequest{
		EquipmentID:    equipment.ID,
		Action:         req.Action,
		Category:       models.MaintenanceCategory(req.Category),
		Priority:       priority,
		ScheduledDate:  req.ScheduledDate,
		Responsible:    req.Responsible,
		PerformingUser: actor,
		Description:    req.Description,
	})
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// TransitionTask handles PUT /m/:token/tasks/:taskId/status. Only the status
// and completion date can change from the field; a completion without a date
// defaults it to now.
func (h *GatewayHandler) TransitionTask(c *gin.Context) {
	equipment := h.resolveToken(c)
	if equipment == nil {
		return
	}

	var req TransitionTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	// The task must belong to the token's equipment; anything else is
	// reported as missing to avoid leaking task identifiers.
	taskID := c.Param("taskId")
	tasks, err := h.services.Maintenance.ListForEquipment(c.Request.Context(), equipment.ID)
	if err != nil {
		domainProblem(c, err)
		return
	}
	owned := false
	for _, task := range tasks {
		if task.ID == taskID {
			owned = true
			break
		}
	}
	if !owned {
		problem(c, http.StatusNotFound, "Not Found", "task not found")
		return
	}

	actor := req.Actor
	if actor == "" {
		actor = fieldDefaultActor
	}

	task, err := h.services.Maintenance.Transition(c.Request.Context(), &ports.TransitionRequest{
		TaskID:         taskID,
		NewStatus:      models.MaintenanceStatus(req.Status),
		Actor:          actor,
		CompletionDate: req.CompletionDate,
		Source:         ports.TransitionSourceFieldGateway,
	})
	if err != nil {
		domainProblem(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}
