package service

import "errors"

// Expected, caller-correctable conditions. Handlers map these to HTTP
// statuses and machine-readable codes; anything else is an internal error.
var (
	ErrMissingFields            = errors.New("missing required fields")
	ErrPastDate                 = errors.New("appointment date must be today or in the future")
	ErrStartTimeElapsed         = errors.New("appointment start time must be after the current time for today's bookings")
	ErrClientNotFound           = errors.New("client not found")
	ErrTrainerNotFound          = errors.New("trainer not found")
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrServiceTypeNotFound      = errors.New("service type not found")
	ErrPackageNotFound          = errors.New("membership package not found")
	ErrReportNotFound           = errors.New("report not found")
	ErrNoActiveMembership       = errors.New("client does not have an active membership")
	ErrInsufficientPoints       = errors.New("insufficient membership points")
	ErrClientDoubleBooking      = errors.New("client already has an appointment at this date and start time")
	ErrTrainerSlotTaken         = errors.New("trainer already has a confirmed appointment at this date and start time")
	ErrNotAuthorized            = errors.New("not authorized for this appointment")
	ErrAlreadyCompleted         = errors.New("appointment has already been completed")
	ErrInvalidStatus            = errors.New("appointment status does not allow this transition")
	ErrWrongDay                 = errors.New("appointment can only be completed on its scheduled day")
	ErrNotConfirmed             = errors.New("only confirmed appointments can be cancelled")
	ErrCancellationWindowPassed = errors.New("appointment is less than one hour away or has already started")
	ErrNotEligible              = errors.New("client is not eligible for a new membership yet")
	ErrConcurrentModification   = errors.New("record was modified concurrently, retry")
)
