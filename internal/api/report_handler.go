package api

import (
	"net/http"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type CreateReportRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
}

type UpdateReportRequest struct {
	Exercises []domain.ReportExercise `json:"exercises"`
	Notes     string                  `json:"notes"`
}

func (h *ReportHandler) CreateDraft(c *gin.Context) {
	trainerUID, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify trainer from token")
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}
	appointmentID, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid appointment ID format")
		return
	}

	report, err := h.reportService.CreateDraft(c.Request.Context(), trainerUID, appointmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) Update(c *gin.Context) {
	id, ok := reportIDFromPath(c)
	if !ok {
		return
	}

	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}

	report, err := h.reportService.Update(c.Request.Context(), id, req.Exercises, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Complete finalizes a draft report and moves its appointment to
// reported.
func (h *ReportHandler) Complete(c *gin.Context) {
	id, ok := reportIDFromPath(c)
	if !ok {
		return
	}

	report, err := h.reportService.Complete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) Review(c *gin.Context) {
	id, ok := reportIDFromPath(c)
	if !ok {
		return
	}

	report, err := h.reportService.Review(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetByAppointment(c *gin.Context) {
	appointmentID, err := primitive.ObjectIDFromHex(c.Param("appointmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid appointment ID format")
		return
	}

	report, err := h.reportService.GetByAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func reportIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid report ID format")
		return primitive.NilObjectID, false
	}
	return id, true
}
