package service

import (
	"context"
	"testing"

	"fitpoint/gym-app/internal/clock"
	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func scheduledTrainer(day string, slots ...domain.Timeslot) *domain.Trainer {
	return &domain.Trainer{
		ID:  primitive.NewObjectID(),
		UID: "trainer-1",
		Schedule: []domain.DaySchedule{
			{DayOfWeek: day, Timeslots: slots},
		},
	}
}

func slot(start, end string, available bool) domain.Timeslot {
	return domain.Timeslot{
		ID:          primitive.NewObjectID(),
		StartTime:   start,
		EndTime:     end,
		IsAvailable: available,
	}
}

func TestAvailableSlots_ExcludesConfirmedAndUnavailable(t *testing.T) {
	trainers := new(MockTrainerRepository)
	appts := new(MockAppointmentRepository)
	svc := NewScheduleService(trainers, appts, clock.Fixed(testNow))

	// Wednesday 2026-03-11, the day after the fixed clock's today.
	date := clock.DayStart(testNow.AddDate(0, 0, 1))
	trainer := scheduledTrainer("wednesday",
		slot("09:00", "10:00", true),
		slot("10:00", "11:00", true),
		slot("11:00", "12:00", false),
		slot("12:00", "13:00", true),
	)

	trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)
	appts.On("FindConfirmedOn", mock.Anything, trainer.ID, date).Return([]domain.Appointment{
		{AppointmentTime: domain.TimeRange{Start: "10:00", End: "11:00"}},
	}, nil)

	slots, err := svc.AvailableSlots(context.Background(), "trainer-1", date)

	assert.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{
		{Start: "09:00", End: "10:00"},
		{Start: "12:00", End: "13:00"},
	}, slots)
}

func TestAvailableSlots_TodayDropsElapsedStarts(t *testing.T) {
	trainers := new(MockTrainerRepository)
	appts := new(MockAppointmentRepository)
	svc := NewScheduleService(trainers, appts, clock.Fixed(testNow)) // 10:00

	date := clock.DayStart(testNow) // Tuesday
	trainer := scheduledTrainer("tuesday",
		slot("09:00", "10:00", true),
		slot("10:00", "11:00", true), // exactly now, already started
		slot("11:00", "12:00", true),
	)

	trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)
	appts.On("FindConfirmedOn", mock.Anything, trainer.ID, date).Return([]domain.Appointment{}, nil)

	slots, err := svc.AvailableSlots(context.Background(), "trainer-1", date)

	assert.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{{Start: "11:00", End: "12:00"}}, slots)
}

func TestAvailableSlots_NoScheduleForDay(t *testing.T) {
	trainers := new(MockTrainerRepository)
	appts := new(MockAppointmentRepository)
	svc := NewScheduleService(trainers, appts, clock.Fixed(testNow))

	trainer := scheduledTrainer("monday", slot("09:00", "10:00", true))
	trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)

	// Wednesday; the trainer only works Mondays.
	slots, err := svc.AvailableSlots(context.Background(), "trainer-1", clock.DayStart(testNow.AddDate(0, 0, 1)))

	assert.NoError(t, err)
	assert.Empty(t, slots)
	appts.AssertNotCalled(t, "FindConfirmedOn", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailableSlots_UnknownTrainer(t *testing.T) {
	trainers := new(MockTrainerRepository)
	appts := new(MockAppointmentRepository)
	svc := NewScheduleService(trainers, appts, clock.Fixed(testNow))

	trainers.On("GetByUID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := svc.AvailableSlots(context.Background(), "ghost", clock.DayStart(testNow))
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestSetTimeslotAvailability(t *testing.T) {
	trainers := new(MockTrainerRepository)
	appts := new(MockAppointmentRepository)
	svc := NewScheduleService(trainers, appts, clock.Fixed(testNow))

	trainer := scheduledTrainer("monday", slot("09:00", "10:00", true))
	timeslotID := trainer.Schedule[0].Timeslots[0].ID

	trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)
	trainers.On("SetTimeslotAvailability", mock.Anything, trainer.ID, timeslotID, false).Return(nil)

	err := svc.SetTimeslotAvailability(context.Background(), "trainer-1", timeslotID, false)
	assert.NoError(t, err)
	trainers.AssertExpectations(t)
}
