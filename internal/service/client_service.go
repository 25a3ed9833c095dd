package service

import (
	"context"
	"errors"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/repository"
)

// ClientService exposes client profile reads and updates. The membership
// ledger is owned by MembershipService and never touched here.
type ClientService interface {
	GetProfile(ctx context.Context, clientUID string) (*domain.Client, error)
	UpdateProfile(ctx context.Context, clientUID string, update ClientProfileUpdate) (*domain.Client, error)
}

// ClientProfileUpdate carries the editable profile fields.
type ClientProfileUpdate struct {
	Name            string
	Gender          string
	Age             int
	HeightCM        float64
	WeightKG        float64
	HealthCondition string
	Goals           []string
}

type clientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new instance of clientService.
func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) GetProfile(ctx context.Context, clientUID string) (*domain.Client, error) {
	client, err := s.clientRepo.GetByUID(ctx, clientUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) UpdateProfile(ctx context.Context, clientUID string, update ClientProfileUpdate) (*domain.Client, error) {
	client, err := s.GetProfile(ctx, clientUID)
	if err != nil {
		return nil, err
	}

	client.Name = update.Name
	client.Gender = update.Gender
	client.Age = update.Age
	client.HeightCM = update.HeightCM
	client.WeightKG = update.WeightKG
	client.HealthCondition = update.HealthCondition
	client.Goals = update.Goals
	client.BMI = client.CalculateBMI()

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}
