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

type AppointmentHandler struct {
	appointmentService service.AppointmentService
}

func NewAppointmentHandler(appointmentService service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// --- DTOs ---

type CreateAppointmentRequest struct {
	TrainerUID  string `json:"trainerUid" binding:"required"`
	ServiceType string `json:"serviceType" binding:"required"`
	Date        string `json:"date" binding:"required"` // "2006-01-02", business-local
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
}

// CancelAppointmentRequest identifies the booking the caller wants to
// cancel.
type CancelAppointmentRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
}

// ValidateAppointmentRequest carries the appointment id scanned from the
// client's QR code at the session.
type ValidateAppointmentRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
}

type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Handlers ---

// Create books a new pending appointment for the authenticated client.
func (h *AppointmentHandler) Create(c *gin.Context) {
	clientUID, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify client from token")
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, clock.Business)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "date must be formatted YYYY-MM-DD")
		return
	}

	appt, err := h.appointmentService.Create(c.Request.Context(), service.CreateAppointmentInput{
		ClientUID:   clientUID,
		TrainerUID:  req.TrainerUID,
		ServiceType: req.ServiceType,
		Date:        day,
		Start:       req.StartTime,
		End:         req.EndTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := appointmentIDFromPath(c)
	if !ok {
		return
	}

	appt, err := h.appointmentService.Confirm(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) Reject(c *gin.Context) {
	id, ok := appointmentIDFromPath(c)
	if !ok {
		return
	}

	appt, err := h.appointmentService.Reject(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

// Cancel lets the booking client cancel a confirmed appointment up to one
// hour before its start.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	clientUID, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify client from token")
		return
	}

	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid appointment ID format")
		return
	}

	appt, err := h.appointmentService.Cancel(c.Request.Context(), clientUID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

// Validate completes a confirmed appointment on its scheduled day and
// settles the session points. Called by the assigned trainer after
// scanning the client's QR code.
func (h *AppointmentHandler) Validate(c *gin.Context) {
	trainerUID, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify trainer from token")
		return
	}

	var req ValidateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid appointment ID format")
		return
	}

	appt, err := h.appointmentService.Complete(c.Request.Context(), trainerUID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) GetAll(c *gin.Context) {
	appts, err := h.appointmentService.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, appts)
}

func (h *AppointmentHandler) GetByTrainer(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid trainer ID format")
		return
	}

	appts, err := h.appointmentService.GetByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, appts)
}

// OverrideStatus writes the status field directly, bypassing the state
// machine. Admin escape hatch for correcting bad records.
func (h *AppointmentHandler) OverrideStatus(c *gin.Context) {
	id, ok := appointmentIDFromPath(c)
	if !ok {
		return
	}

	var req OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}

	appt, err := h.appointmentService.OverrideStatus(c.Request.Context(), id, domain.AppointmentStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

func appointmentIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid appointment ID format")
		return primitive.NilObjectID, false
	}
	return id, true
}
