package service

import (
	"context"
	"errors"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportService manages per-appointment training notes. Completing a
// report drives its appointment to the reported state.
type ReportService interface {
	CreateDraft(ctx context.Context, trainerUID string, appointmentID primitive.ObjectID) (*domain.Report, error)
	Update(ctx context.Context, reportID primitive.ObjectID, exercises []domain.ReportExercise, notes string) (*domain.Report, error)
	Complete(ctx context.Context, reportID primitive.ObjectID) (*domain.Report, error)
	Review(ctx context.Context, reportID primitive.ObjectID) (*domain.Report, error)
	GetByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*domain.Report, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	apptRepo    repository.AppointmentRepository
	trainerRepo repository.TrainerRepository
	appts       AppointmentService
}

// NewReportService creates a new instance of reportService.
func NewReportService(
	reportRepo repository.ReportRepository,
	apptRepo repository.AppointmentRepository,
	trainerRepo repository.TrainerRepository,
	appts AppointmentService,
) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		apptRepo:    apptRepo,
		trainerRepo: trainerRepo,
		appts:       appts,
	}
}

// CreateDraft opens a draft report for a completed appointment assigned to
// the requesting trainer.
func (s *reportService) CreateDraft(ctx context.Context, trainerUID string, appointmentID primitive.ObjectID) (*domain.Report, error) {
	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	trainer, err := s.trainerRepo.GetByUID(ctx, trainerUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if appt.TrainerID != trainer.ID {
		return nil, ErrNotAuthorized
	}
	if appt.Status != domain.StatusComplete {
		return nil, ErrInvalidStatus
	}

	report := &domain.Report{
		AppointmentID: appt.ID,
		TrainerID:     appt.TrainerID,
		ClientID:      appt.ClientID,
		Status:        domain.ReportDraft,
	}
	if _, err := s.reportRepo.Create(ctx, report); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvalidStatus // a report already exists for this appointment
		}
		return nil, err
	}
	return report, nil
}

func (s *reportService) Update(ctx context.Context, reportID primitive.ObjectID, exercises []domain.ReportExercise, notes string) (*domain.Report, error) {
	report, err := s.get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.ReportDraft {
		return nil, ErrInvalidStatus
	}

	report.Exercises = exercises
	report.Notes = notes
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Complete marks the report completed and transitions the linked
// appointment to reported.
func (s *reportService) Complete(ctx context.Context, reportID primitive.ObjectID) (*domain.Report, error) {
	report, err := s.get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.ReportDraft {
		return nil, ErrInvalidStatus
	}

	report.Status = domain.ReportCompleted
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	if err := s.appts.MarkReported(ctx, report.AppointmentID); err != nil {
		// The report itself is saved; the appointment may have been
		// reported through another path already.
		if !errors.Is(err, ErrInvalidStatus) {
			return nil, err
		}
	}
	return report, nil
}

func (s *reportService) Review(ctx context.Context, reportID primitive.ObjectID) (*domain.Report, error) {
	report, err := s.get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.ReportCompleted {
		return nil, ErrInvalidStatus
	}

	report.Status = domain.ReportReviewed
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) GetByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*domain.Report, error) {
	report, err := s.reportRepo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *reportService) get(ctx context.Context, id primitive.ObjectID) (*domain.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}
