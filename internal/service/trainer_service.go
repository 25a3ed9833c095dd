package service

import (
	"context"
	"errors"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/repository"
)

// TrainerService exposes the trainer catalog and profile updates. Schedule
// edits do not retroactively touch already-confirmed appointments.
type TrainerService interface {
	GetAll(ctx context.Context) ([]domain.Trainer, error)
	GetProfile(ctx context.Context, trainerUID string) (*domain.Trainer, error)
	UpdateProfile(ctx context.Context, trainerUID string, update TrainerProfileUpdate) (*domain.Trainer, error)
}

// TrainerProfileUpdate carries the editable profile fields. A nil Schedule
// leaves the existing schedule untouched.
type TrainerProfileUpdate struct {
	Name        string
	PhoneNumber string
	Position    string
	Description string
	Schedule    []domain.DaySchedule
}

type trainerService struct {
	trainerRepo repository.TrainerRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(trainerRepo repository.TrainerRepository) TrainerService {
	return &trainerService{trainerRepo: trainerRepo}
}

func (s *trainerService) GetAll(ctx context.Context) ([]domain.Trainer, error) {
	return s.trainerRepo.GetAll(ctx)
}

func (s *trainerService) GetProfile(ctx context.Context, trainerUID string) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByUID(ctx, trainerUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return trainer, nil
}

func (s *trainerService) UpdateProfile(ctx context.Context, trainerUID string, update TrainerProfileUpdate) (*domain.Trainer, error) {
	trainer, err := s.GetProfile(ctx, trainerUID)
	if err != nil {
		return nil, err
	}

	trainer.Name = update.Name
	trainer.PhoneNumber = update.PhoneNumber
	trainer.Position = update.Position
	trainer.Description = update.Description
	if update.Schedule != nil {
		trainer.Schedule = update.Schedule
	}

	if err := s.trainerRepo.Update(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}
