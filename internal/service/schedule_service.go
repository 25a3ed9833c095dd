package service

import (
	"context"
	"errors"
	"time"

	"fitpoint/gym-app/internal/clock"
	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleService computes bookable windows from a trainer's weekly
// recurring schedule. Results are recomputed per call; schedules and
// bookings change between requests.
type ScheduleService interface {
	AvailableSlots(ctx context.Context, trainerUID string, date time.Time) ([]domain.TimeRange, error)
	SetTimeslotAvailability(ctx context.Context, trainerUID string, timeslotID primitive.ObjectID, available bool) error
}

type scheduleService struct {
	trainerRepo repository.TrainerRepository
	apptRepo    repository.AppointmentRepository
	clk         clock.Clock
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(trainerRepo repository.TrainerRepository, apptRepo repository.AppointmentRepository, clk clock.Clock) ScheduleService {
	return &scheduleService{
		trainerRepo: trainerRepo,
		apptRepo:    apptRepo,
		clk:         clk,
	}
}

// AvailableSlots returns the trainer's bookable windows on date, in
// schedule order: the day's timeslots minus unavailable ones, minus
// past-cutoff starts when date is today, minus slots a confirmed
// appointment already occupies.
func (s *scheduleService) AvailableSlots(ctx context.Context, trainerUID string, date time.Time) ([]domain.TimeRange, error) {
	trainer, err := s.trainerRepo.GetByUID(ctx, trainerUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	day := trainer.ScheduleFor(clock.Weekday(date))
	if day == nil {
		return []domain.TimeRange{}, nil
	}

	now := s.clk.Now()
	today := clock.LocalDate(now) == clock.LocalDate(date)

	confirmed, err := s.apptRepo.FindConfirmedOn(ctx, trainer.ID, clock.DayStart(date))
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(confirmed))
	for _, appt := range confirmed {
		taken[appt.AppointmentTime.Start] = true
	}

	slots := make([]domain.TimeRange, 0, len(day.Timeslots))
	for _, ts := range day.Timeslots {
		if !ts.IsAvailable || taken[ts.StartTime] {
			continue
		}
		if today {
			start, err := clock.Combine(date, ts.StartTime)
			if err != nil {
				continue
			}
			if !start.After(now) {
				continue
			}
		}
		slots = append(slots, domain.TimeRange{Start: ts.StartTime, End: ts.EndTime})
	}
	return slots, nil
}

func (s *scheduleService) SetTimeslotAvailability(ctx context.Context, trainerUID string, timeslotID primitive.ObjectID, available bool) error {
	trainer, err := s.trainerRepo.GetByUID(ctx, trainerUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainerNotFound
		}
		return err
	}
	return s.trainerRepo.SetTimeslotAvailability(ctx, trainer.ID, timeslotID, available)
}
