package events

// Event names pushed over the realtime channel.
const (
	NewAppointment       = "new_appointment"
	AppointmentConfirmed = "appointment_confirmed"
	AppointmentRejected  = "appointment_rejected"
	AppointmentCancelled = "appointment_cancelled"
	AppointmentCompleted = "appointment_completed"
	AppointmentReported  = "appointment_status_reported"
	PointsDeducted       = "points_deducted"
	PaymentCompleted     = "payment_completed"
)

// Event is one outbound realtime message: a name plus the affected record
// (or its id) as payload.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Emitter is the fire-and-forget channel the booking core publishes to.
// Emit must never block and must never fail the caller.
type Emitter interface {
	Emit(event Event)
}
