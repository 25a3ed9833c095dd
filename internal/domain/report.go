package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus type for the report lifecycle
type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportCompleted ReportStatus = "completed" // drives the linked appointment to "reported"
	ReportReviewed  ReportStatus = "reviewed"
)

// ReportExercise is one exercise entry in a training report.
type ReportExercise struct {
	Name   string `bson:"name" json:"name"`
	Sets   int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps   int    `bson:"reps,omitempty" json:"reps,omitempty"`
	Rating int    `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5
}

// Report is the trainer's per-appointment training note.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppointmentID primitive.ObjectID `bson:"appointmentId" json:"appointmentId"`
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`

	Exercises []ReportExercise `bson:"exercises,omitempty" json:"exercises,omitempty"`
	Notes     string           `bson:"notes,omitempty" json:"notes,omitempty"`
	Status    ReportStatus     `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
