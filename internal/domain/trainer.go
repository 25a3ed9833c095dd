package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Timeslot is one fixed-duration recurring window on a trainer's weekly
// schedule.
type Timeslot struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StartTime   string             `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime     string             `bson:"endTime" json:"endTime"`
	IsAvailable bool               `bson:"isAvailable" json:"isAvailable"`
}

// DaySchedule lists a trainer's timeslots for one day of the week.
type DaySchedule struct {
	DayOfWeek string     `bson:"dayOfWeek" json:"dayOfWeek"` // "monday".."sunday"
	Timeslots []Timeslot `bson:"timeslots" json:"timeslots"`
}

// Trainer is a person who delivers sessions on a weekly recurring schedule.
type Trainer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID         string             `bson:"trainerUid" json:"trainerUid"`
	Email       string             `bson:"email" json:"email"`
	Name        string             `bson:"name" json:"name"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Position    string             `bson:"position,omitempty" json:"position,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	TotalClassConducted int `bson:"totalClassConducted" json:"totalClassConducted"`

	Schedule []DaySchedule `bson:"schedule" json:"schedule"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ScheduleFor returns the day entry for a lowercase weekday name, or nil
// when the trainer does not work that day.
func (t *Trainer) ScheduleFor(dayOfWeek string) *DaySchedule {
	for i := range t.Schedule {
		if t.Schedule[i].DayOfWeek == dayOfWeek {
			return &t.Schedule[i]
		}
	}
	return nil
}

// DefaultSchedule builds the standard weekly schedule for a new trainer:
// hourly slots 08-20 on weekdays, 08-17 Saturday, 08-13 Sunday.
func DefaultSchedule() []DaySchedule {
	hours := func(from, to int) []Timeslot {
		slots := make([]Timeslot, 0, to-from)
		for h := from; h < to; h++ {
			slots = append(slots, Timeslot{
				ID:          primitive.NewObjectID(),
				StartTime:   fmt.Sprintf("%02d:00", h),
				EndTime:     fmt.Sprintf("%02d:00", h+1),
				IsAvailable: true,
			})
		}
		return slots
	}

	schedule := make([]DaySchedule, 0, 7)
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		schedule = append(schedule, DaySchedule{DayOfWeek: day, Timeslots: hours(8, 20)})
	}
	schedule = append(schedule, DaySchedule{DayOfWeek: "saturday", Timeslots: hours(8, 17)})
	schedule = append(schedule, DaySchedule{DayOfWeek: "sunday", Timeslots: hours(8, 13)})
	return schedule
}
