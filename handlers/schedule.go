package handlers

import (
	"errors"
	"net/http"

	"servihub/middleware"
	"servihub/models"
	"servihub/services/schedule"
	"servihub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleHandler exposes provider availability management over HTTP.
type ScheduleHandler struct {
	Service schedule.ScheduleService
	Logger  *zap.Logger
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc schedule.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Service: svc, Logger: logger}
}

func respondScheduleError(c *gin.Context, err error) {
	var (
		notFound *schedule.NotFoundError
		invalid  *schedule.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case errors.As(err, &invalid):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", "An unexpected error occurred")
	}
}

// SubmitAvailability handles POST /api/schedules.
func (h *ScheduleHandler) SubmitAvailability(c *gin.Context) {
	var input models.SubmitScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	providerID := c.GetString(middleware.CtxActorID)

	sched, err := h.Service.SubmitAvailability(providerID, input)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sched)
}

// GetMonth handles GET /api/schedules?providerId=&month=.
func (h *ScheduleHandler) GetMonth(c *gin.Context) {
	providerID := c.Query("providerId")
	month := c.Query("month")
	if providerID == "" || month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "providerId and month query parameters are required"})
		return
	}

	sched, err := h.Service.GetMonth(providerID, month)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sched)
}

// PatchDay handles PATCH /api/schedules/:id/days/:dayId.
func (h *ScheduleHandler) PatchDay(c *gin.Context) {
	var input struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.SetDayActive(c.Param("id"), c.Param("dayId"), *input.IsActive); err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PatchSlot handles PATCH /api/schedules/:id/days/:dayId/slots/:slotId.
func (h *ScheduleHandler) PatchSlot(c *gin.Context) {
	var input struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.SetSlotActive(c.Param("id"), c.Param("dayId"), c.Param("slotId"), *input.IsActive); err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteSchedule handles DELETE /api/schedules/:id (soft delete).
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	if err := h.Service.DeleteSchedule(c.Param("id")); err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
