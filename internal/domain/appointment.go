package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentStatus type for the appointment lifecycle
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"   // created, waiting for trainer decision
	StatusConfirmed AppointmentStatus = "confirmed" // trainer accepted, slot is occupied
	StatusRejected  AppointmentStatus = "rejected"  // trainer declined (terminal)
	StatusCancelled AppointmentStatus = "cancelled" // client cancelled (terminal)
	StatusComplete  AppointmentStatus = "complete"  // session delivered, points debited
	StatusReported  AppointmentStatus = "reported"  // training report filed
)

// Terminal reports whether no further transition may be applied.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusReported
}

// CanTransitionTo reports whether the state machine allows moving from s to
// next: pending -> {confirmed, rejected}, confirmed -> {complete, cancelled},
// complete -> reported.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusRejected
	case StatusConfirmed:
		return next == StatusComplete || next == StatusCancelled
	case StatusComplete:
		return next == StatusReported
	default:
		return false
	}
}

// TimeRange is a wall-clock window ("HH:MM") interpreted in the business
// timezone.
type TimeRange struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// Appointment is a single booking unit between a client and a trainer.
// Appointments are never deleted; rejected/cancelled records stay as
// history.
type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`

	ServiceType string `bson:"serviceType" json:"serviceType"`

	// AppointmentDate is business-local midnight of the booked day, stored
	// as an instant.
	AppointmentDate time.Time `bson:"appointmentDate" json:"appointmentDate"`
	AppointmentTime TimeRange `bson:"appointmentTime" json:"appointmentTime"`

	Status AppointmentStatus `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
