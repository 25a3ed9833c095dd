package api

import (
	"errors"
	"net/http"

	"fitpoint/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// serviceErrorMapping pairs a service sentinel with the HTTP status and
// machine-readable code clients switch on.
type serviceErrorMapping struct {
	err    error
	status int
	code   string
}

var serviceErrorMappings = []serviceErrorMapping{
	{service.ErrMissingFields, http.StatusBadRequest, "MISSING_FIELDS"},
	{service.ErrPastDate, http.StatusBadRequest, "PAST_DATE"},
	{service.ErrStartTimeElapsed, http.StatusBadRequest, "START_TIME_ELAPSED"},
	{service.ErrClientNotFound, http.StatusNotFound, "CLIENT_NOT_FOUND"},
	{service.ErrTrainerNotFound, http.StatusNotFound, "TRAINER_NOT_FOUND"},
	{service.ErrAppointmentNotFound, http.StatusNotFound, "APPOINTMENT_NOT_FOUND"},
	{service.ErrServiceTypeNotFound, http.StatusNotFound, "SERVICE_TYPE_NOT_FOUND"},
	{service.ErrPackageNotFound, http.StatusNotFound, "PACKAGE_NOT_FOUND"},
	{service.ErrReportNotFound, http.StatusNotFound, "REPORT_NOT_FOUND"},
	{service.ErrNoActiveMembership, http.StatusForbidden, "NO_ACTIVE_MEMBERSHIP"},
	{service.ErrInsufficientPoints, http.StatusForbidden, "INSUFFICIENT_POINTS"},
	{service.ErrClientDoubleBooking, http.StatusConflict, "CLIENT_DOUBLE_BOOKING"},
	{service.ErrTrainerSlotTaken, http.StatusConflict, "TRAINER_SLOT_TAKEN"},
	{service.ErrNotAuthorized, http.StatusForbidden, "NOT_AUTHORIZED"},
	{service.ErrAlreadyCompleted, http.StatusConflict, "ALREADY_COMPLETED"},
	{service.ErrInvalidStatus, http.StatusConflict, "INVALID_STATUS"},
	{service.ErrWrongDay, http.StatusBadRequest, "WRONG_DAY"},
	{service.ErrNotConfirmed, http.StatusConflict, "NOT_CONFIRMED"},
	{service.ErrCancellationWindowPassed, http.StatusBadRequest, "CANCELLATION_WINDOW_PASSED"},
	{service.ErrNotEligible, http.StatusConflict, "NOT_ELIGIBLE"},
	{service.ErrConcurrentModification, http.StatusConflict, "CONCURRENT_MODIFICATION"},
	{service.ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized, "AUTHENTICATION_FAILED"},
	{service.ErrPackageAlreadyExists, http.StatusConflict, "PACKAGE_ALREADY_EXISTS"},
}

// respondServiceError maps service errors to HTTP responses. Anything not
// in the taxonomy is a 500 with the detail kept server-side.
func respondServiceError(c *gin.Context, err error) {
	for _, m := range serviceErrorMappings {
		if errors.Is(err, m.err) {
			abortWithError(c, m.status, m.code, m.err.Error())
			return
		}
	}
	abortWithError(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
}
