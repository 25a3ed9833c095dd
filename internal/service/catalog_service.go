package service

import (
	"context"
	"errors"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPackageAlreadyExists = errors.New("membership package with this name already exists")

// CatalogService manages the membership package and service type catalogs.
// Package edits only affect future activations; an installed membership
// keeps the point grant it was activated with.
type CatalogService interface {
	GetPackages(ctx context.Context) ([]domain.MembershipPackage, error)
	GetPackageByName(ctx context.Context, name string) (*domain.MembershipPackage, error)
	GetPackageByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPackage, error)
	CreatePackage(ctx context.Context, pkg *domain.MembershipPackage) (*domain.MembershipPackage, error)
	UpdatePackage(ctx context.Context, name string, price float64, durationMonths, points int, description string) (*domain.MembershipPackage, error)
	DeletePackage(ctx context.Context, id primitive.ObjectID) error
	GetServiceTypes(ctx context.Context) ([]domain.ServiceType, error)
}

type catalogService struct {
	packageRepo     repository.PackageRepository
	serviceTypeRepo repository.ServiceTypeRepository
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(packageRepo repository.PackageRepository, serviceTypeRepo repository.ServiceTypeRepository) CatalogService {
	return &catalogService{
		packageRepo:     packageRepo,
		serviceTypeRepo: serviceTypeRepo,
	}
}

func (s *catalogService) GetPackages(ctx context.Context) ([]domain.MembershipPackage, error) {
	return s.packageRepo.GetAll(ctx)
}

func (s *catalogService) GetPackageByName(ctx context.Context, name string) (*domain.MembershipPackage, error) {
	pkg, err := s.packageRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return pkg, nil
}

func (s *catalogService) GetPackageByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPackage, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return pkg, nil
}

func (s *catalogService) CreatePackage(ctx context.Context, pkg *domain.MembershipPackage) (*domain.MembershipPackage, error) {
	if pkg.Name == "" || pkg.DurationMonths <= 0 || pkg.Points <= 0 {
		return nil, ErrMissingFields
	}
	if _, err := s.packageRepo.Create(ctx, pkg); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPackageAlreadyExists
		}
		return nil, err
	}
	return pkg, nil
}

func (s *catalogService) UpdatePackage(ctx context.Context, name string, price float64, durationMonths, points int, description string) (*domain.MembershipPackage, error) {
	pkg, err := s.GetPackageByName(ctx, name)
	if err != nil {
		return nil, err
	}

	pkg.Price = price
	pkg.DurationMonths = durationMonths
	pkg.Points = points
	pkg.Description = description

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *catalogService) DeletePackage(ctx context.Context, id primitive.ObjectID) error {
	err := s.packageRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPackageNotFound
	}
	return err
}

func (s *catalogService) GetServiceTypes(ctx context.Context) ([]domain.ServiceType, error) {
	return s.serviceTypeRepo.GetAll(ctx)
}
