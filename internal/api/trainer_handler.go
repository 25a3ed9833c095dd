package api

import (
	"net/http"
	"time"

	"fitpoint/gym-app/internal/clock"
	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerHandler struct {
	trainerService  service.TrainerService
	scheduleService service.ScheduleService
}

func NewTrainerHandler(trainerService service.TrainerService, scheduleService service.ScheduleService) *TrainerHandler {
	return &TrainerHandler{
		trainerService:  trainerService,
		scheduleService: scheduleService,
	}
}

type UpdateTrainerProfileRequest struct {
	Name        string               `json:"name"`
	PhoneNumber string               `json:"phoneNumber"`
	Position    string               `json:"position"`
	Description string               `json:"description"`
	Schedule    []domain.DaySchedule `json:"schedule"`
}

type SetTimeslotAvailabilityRequest struct {
	TimeslotID string `json:"timeslotId" binding:"required"`
	Available  *bool  `json:"available" binding:"required"`
}

func (h *TrainerHandler) GetAll(c *gin.Context) {
	trainers, err := h.trainerService.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if trainers == nil {
		trainers = []domain.Trainer{}
	}
	c.JSON(http.StatusOK, trainers)
}

func (h *TrainerHandler) GetProfile(c *gin.Context) {
	trainer, err := h.trainerService.GetProfile(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainer)
}

func (h *TrainerHandler) UpdateProfile(c *gin.Context) {
	targetUID := c.Param("uid")
	callerUID, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify user from token")
		return
	}
	role, _ := getUserRoleFromContext(c)
	if role != domain.RoleAdmin && callerUID != targetUID {
		abortWithError(c, http.StatusForbidden, "NOT_AUTHORIZED", "Cannot update another trainer's profile")
		return
	}

	var req UpdateTrainerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}

	trainer, err := h.trainerService.UpdateProfile(c.Request.Context(), targetUID, service.TrainerProfileUpdate{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Position:    req.Position,
		Description: req.Description,
		Schedule:    req.Schedule,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, trainer)
}

// GetTimeslots returns the trainer's bookable windows on the requested
// day: schedule slots that are available, not already confirmed, and (for
// today) not already started.
func (h *TrainerHandler) GetTimeslots(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "date query parameter is required")
		return
	}
	day, err := time.ParseInLocation("2006-01-02", dateStr, clock.Business)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "date must be formatted YYYY-MM-DD")
		return
	}

	slots, err := h.scheduleService.AvailableSlots(c.Request.Context(), c.Param("uid"), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if slots == nil {
		slots = []domain.TimeRange{}
	}

	c.JSON(http.StatusOK, gin.H{"date": dateStr, "timeslots": slots})
}

// SetTimeslotAvailability toggles one of the trainer's own schedule slots.
func (h *TrainerHandler) SetTimeslotAvailability(c *gin.Context) {
	trainerUID, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify trainer from token")
		return
	}
	if c.Param("uid") != trainerUID {
		abortWithError(c, http.StatusForbidden, "NOT_AUTHORIZED", "Cannot edit another trainer's schedule")
		return
	}

	var req SetTimeslotAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}
	timeslotID, err := primitive.ObjectIDFromHex(req.TimeslotID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid timeslot ID format")
		return
	}

	if err := h.scheduleService.SetTimeslotAvailability(c.Request.Context(), trainerUID, timeslotID, *req.Available); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "timeslot updated"})
}
