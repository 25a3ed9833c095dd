package service

import (
	"context"
	"errors"
	"time"

	"fitpoint/gym-app/internal/clock"
	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/events"
	"fitpoint/gym-app/internal/notification"
	"fitpoint/gym-app/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateAppointmentInput is the validated booking request.
type CreateAppointmentInput struct {
	ClientUID   string
	TrainerUID  string
	ServiceType string
	Date        time.Time // business-local midnight of the booked day
	Start       string    // "HH:MM"
	End         string
}

// AppointmentService owns the appointment state machine and orchestrates
// each transition: validate, mutate, then fire best-effort events and
// notifications. A realtime or push failure never rolls back a persisted
// transition.
type AppointmentService interface {
	Create(ctx context.Context, in CreateAppointmentInput) (*domain.Appointment, error)
	Confirm(ctx context.Context, appointmentID primitive.ObjectID) (*domain.Appointment, error)
	Reject(ctx context.Context, appointmentID primitive.ObjectID) (*domain.Appointment, error)
	Cancel(ctx context.Context, clientUID string, appointmentID primitive.ObjectID) (*domain.Appointment, error)
	Complete(ctx context.Context, trainerUID string, appointmentID primitive.ObjectID) (*domain.Appointment, error)
	MarkReported(ctx context.Context, appointmentID primitive.ObjectID) error
	OverrideStatus(ctx context.Context, appointmentID primitive.ObjectID, status domain.AppointmentStatus) (*domain.Appointment, error)
	GetAll(ctx context.Context) ([]domain.Appointment, error)
	GetByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error)
}

type appointmentService struct {
	apptRepo        repository.AppointmentRepository
	clientRepo      repository.ClientRepository
	trainerRepo     repository.TrainerRepository
	serviceTypeRepo repository.ServiceTypeRepository
	userRepo        repository.UserRepository
	ledger          MembershipService
	clk             clock.Clock
	emitter         events.Emitter
	notifier        notification.Notifier
	log             zerolog.Logger
}

// NewAppointmentService creates a new instance of appointmentService.
func NewAppointmentService(
	apptRepo repository.AppointmentRepository,
	clientRepo repository.ClientRepository,
	trainerRepo repository.TrainerRepository,
	serviceTypeRepo repository.ServiceTypeRepository,
	userRepo repository.UserRepository,
	ledger MembershipService,
	clk clock.Clock,
	emitter events.Emitter,
	notifier notification.Notifier,
	log zerolog.Logger,
) AppointmentService {
	return &appointmentService{
		apptRepo:        apptRepo,
		clientRepo:      clientRepo,
		trainerRepo:     trainerRepo,
		serviceTypeRepo: serviceTypeRepo,
		userRepo:        userRepo,
		ledger:          ledger,
		clk:             clk,
		emitter:         emitter,
		notifier:        notifier,
		log:             log.With().Str("component", "appointments").Logger(),
	}
}

// Create validates a booking request and inserts the appointment in
// pending. Preconditions are checked in a fixed order so each failure maps
// to one distinct error.
func (s *appointmentService) Create(ctx context.Context, in CreateAppointmentInput) (*domain.Appointment, error) {
	if in.ClientUID == "" || in.TrainerUID == "" || in.ServiceType == "" ||
		in.Date.IsZero() || in.Start == "" || in.End == "" {
		return nil, ErrMissingFields
	}
	if !clock.ValidHHMM(in.Start) || !clock.ValidHHMM(in.End) {
		return nil, ErrMissingFields
	}

	now := s.clk.Now()
	bookingDay := clock.DayStart(in.Date)
	today := clock.DayStart(now)

	if bookingDay.Before(today) {
		return nil, ErrPastDate
	}
	if bookingDay.Equal(today) {
		start, err := clock.Combine(bookingDay, in.Start)
		if err != nil {
			return nil, ErrMissingFields
		}
		if !start.After(now) {
			return nil, ErrStartTimeElapsed
		}
	}

	client, err := s.clientRepo.GetByUID(ctx, in.ClientUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	trainer, err := s.trainerRepo.GetByUID(ctx, in.TrainerUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	if !client.HasActiveMembership() {
		return nil, ErrNoActiveMembership
	}

	committed, err := s.ledger.ForecastCommitment(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if committed+SessionCost > client.Membership.Points {
		return nil, ErrInsufficientPoints
	}

	clientClash, err := s.apptRepo.FindAt(ctx, "clientId", client.ID, bookingDay, in.Start,
		[]domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed})
	if err != nil {
		return nil, err
	}
	if len(clientClash) > 0 {
		return nil, ErrClientDoubleBooking
	}

	trainerClash, err := s.apptRepo.FindAt(ctx, "trainerId", trainer.ID, bookingDay, in.Start,
		[]domain.AppointmentStatus{domain.StatusConfirmed})
	if err != nil {
		return nil, err
	}
	if len(trainerClash) > 0 {
		return nil, ErrTrainerSlotTaken
	}

	appt := &domain.Appointment{
		ClientID:        client.ID,
		TrainerID:       trainer.ID,
		ServiceType:     in.ServiceType,
		AppointmentDate: bookingDay,
		AppointmentTime: domain.TimeRange{Start: in.Start, End: in.End},
		Status:          domain.StatusPending,
	}
	if _, err := s.apptRepo.Create(ctx, appt); err != nil {
		// The pending-slot uniqueness index backstops the read check above
		// when two creates for the same slot race.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrClientDoubleBooking
		}
		return nil, err
	}

	s.emitter.Emit(events.Event{Name: events.NewAppointment, Payload: appt})
	s.notifyAsync(trainer.UID, notification.KindNewBooking, map[string]string{
		"appointmentId": appt.ID.Hex(),
		"date":          clock.LocalDate(appt.AppointmentDate),
		"start":         appt.AppointmentTime.Start,
	})
	return appt, nil
}

// Confirm moves pending -> confirmed. The conditional update plus the
// confirmed-slot uniqueness index make the transition safe against a racing
// confirm for the same trainer slot.
func (s *appointmentService) Confirm(ctx context.Context, appointmentID primitive.ObjectID) (*domain.Appointment, error) {
	appt, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransitionTo(domain.StatusConfirmed) {
		return nil, ErrInvalidStatus
	}

	occupied, err := s.apptRepo.FindAt(ctx, "trainerId", appt.TrainerID, appt.AppointmentDate,
		appt.AppointmentTime.Start, []domain.AppointmentStatus{domain.StatusConfirmed})
	if err != nil {
		return nil, err
	}
	if len(occupied) > 0 {
		return nil, ErrTrainerSlotTaken
	}

	err = s.apptRepo.UpdateStatusIf(ctx, appt.ID, domain.StatusPending, domain.StatusConfirmed)
	switch {
	case errors.Is(err, repository.ErrConflict):
		return nil, ErrTrainerSlotTaken
	case errors.Is(err, repository.ErrPreconditionFailed):
		return nil, ErrConcurrentModification
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrAppointmentNotFound
	case err != nil:
		return nil, err
	}
	appt.Status = domain.StatusConfirmed

	s.emitter.Emit(events.Event{Name: events.AppointmentConfirmed, Payload: appt})
	s.notifyClient(ctx, appt, notification.KindBookingConfirmed)
	return appt, nil
}

// Reject moves pending -> rejected. Rejecting an appointment that is no
// longer pending is an error, not a second notification.
func (s *appointmentService) Reject(ctx context.Context, appointmentID primitive.ObjectID) (*domain.Appointment, error) {
	appt, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransitionTo(domain.StatusRejected) {
		return nil, ErrInvalidStatus
	}

	err = s.apptRepo.UpdateStatusIf(ctx, appt.ID, domain.StatusPending, domain.StatusRejected)
	switch {
	case errors.Is(err, repository.ErrPreconditionFailed):
		return nil, ErrConcurrentModification
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrAppointmentNotFound
	case err != nil:
		return nil, err
	}
	appt.Status = domain.StatusRejected

	s.emitter.Emit(events.Event{Name: events.AppointmentRejected, Payload: map[string]string{
		"appointmentId": appt.ID.Hex(),
	}})
	s.notifyClient(ctx, appt, notification.KindBookingRejected)
	return appt, nil
}

// Cancel is the client-initiated confirmed -> cancelled transition,
// guarded by the one-hour cutoff window on the appointment day.
func (s *appointmentService) Cancel(ctx context.Context, clientUID string, appointmentID primitive.ObjectID) (*domain.Appointment, error) {
	client, err := s.clientRepo.GetByUID(ctx, clientUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	appt, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.ClientID != client.ID {
		return nil, ErrNotAuthorized
	}
	if !appt.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, ErrNotConfirmed
	}

	now := s.clk.Now()
	apptDay := clock.DayStart(appt.AppointmentDate)
	today := clock.DayStart(now)

	if apptDay.Before(today) {
		return nil, ErrPastDate
	}
	if apptDay.Equal(today) {
		start, err := clock.Combine(apptDay, appt.AppointmentTime.Start)
		if err != nil {
			return nil, err
		}
		// Exactly 60 minutes before start is still cancellable.
		if start.Sub(now) < time.Hour {
			return nil, ErrCancellationWindowPassed
		}
	}

	err = s.apptRepo.UpdateStatusIf(ctx, appt.ID, domain.StatusConfirmed, domain.StatusCancelled)
	switch {
	case errors.Is(err, repository.ErrPreconditionFailed):
		return nil, ErrConcurrentModification
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrAppointmentNotFound
	case err != nil:
		return nil, err
	}
	appt.Status = domain.StatusCancelled

	s.emitter.Emit(events.Event{Name: events.AppointmentCancelled, Payload: appt})
	s.notifyTrainer(ctx, appt, notification.KindBookingCancelled)
	return appt, nil
}

// Complete is the trainer-initiated confirmed -> complete transition,
// triggered by scanning the client's session QR on the appointment day. It
// debits the session cost and increments the trainer's class counter.
func (s *appointmentService) Complete(ctx context.Context, trainerUID string, appointmentID primitive.ObjectID) (*domain.Appointment, error) {
	appt, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
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

	if appt.Status == domain.StatusComplete || appt.Status == domain.StatusReported {
		return nil, ErrAlreadyCompleted
	}
	if !appt.Status.CanTransitionTo(domain.StatusComplete) {
		return nil, ErrInvalidStatus
	}

	if clock.LocalDate(appt.AppointmentDate) != clock.LocalDate(s.clk.Now()) {
		return nil, ErrWrongDay
	}

	if _, err := s.serviceTypeRepo.GetByName(ctx, appt.ServiceType); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceTypeNotFound
		}
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, appt.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.HasActiveMembership() {
		return nil, ErrNoActiveMembership
	}
	if client.Membership.Points < SessionCost {
		return nil, ErrInsufficientPoints
	}

	// CAS the status first so a concurrent completion cannot debit twice,
	// then debit conditionally. A failed debit reverts the status.
	err = s.apptRepo.UpdateStatusIf(ctx, appt.ID, domain.StatusConfirmed, domain.StatusComplete)
	switch {
	case errors.Is(err, repository.ErrPreconditionFailed):
		return nil, ErrConcurrentModification
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrAppointmentNotFound
	case err != nil:
		return nil, err
	}

	balance, err := s.ledger.Debit(ctx, client.ID, SessionCost)
	if err != nil {
		if revertErr := s.apptRepo.UpdateStatusIf(ctx, appt.ID, domain.StatusComplete, domain.StatusConfirmed); revertErr != nil {
			s.log.Error().Err(revertErr).Str("appointment", appt.ID.Hex()).
				Msg("failed to revert completion after debit failure")
		}
		return nil, err
	}
	appt.Status = domain.StatusComplete

	if err := s.trainerRepo.IncrementClassCount(ctx, trainer.ID); err != nil {
		s.log.Error().Err(err).Str("trainer", trainer.UID).Msg("failed to increment class counter")
	}

	s.emitter.Emit(events.Event{Name: events.AppointmentCompleted, Payload: appt})
	s.emitter.Emit(events.Event{Name: events.PointsDeducted, Payload: map[string]interface{}{
		"clientUid": client.UID,
		"points":    balance,
	}})
	s.notifyClient(ctx, appt, notification.KindSessionCompleted)
	return appt, nil
}

// MarkReported moves complete -> reported on behalf of the report
// subsystem, once the linked report reaches completed.
func (s *appointmentService) MarkReported(ctx context.Context, appointmentID primitive.ObjectID) error {
	err := s.apptRepo.UpdateStatusIf(ctx, appointmentID, domain.StatusComplete, domain.StatusReported)
	switch {
	case errors.Is(err, repository.ErrPreconditionFailed):
		return ErrInvalidStatus
	case errors.Is(err, repository.ErrNotFound):
		return ErrAppointmentNotFound
	case err != nil:
		return err
	}

	s.emitter.Emit(events.Event{Name: events.AppointmentReported, Payload: map[string]string{
		"appointmentId": appointmentID.Hex(),
	}})
	return nil
}

// OverrideStatus is the admin escape hatch: a raw status write bypassing
// the state machine.
func (s *appointmentService) OverrideStatus(ctx context.Context, appointmentID primitive.ObjectID, status domain.AppointmentStatus) (*domain.Appointment, error) {
	switch status {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusRejected,
		domain.StatusCancelled, domain.StatusComplete, domain.StatusReported:
	default:
		return nil, ErrInvalidStatus
	}

	err := s.apptRepo.SetStatus(ctx, appointmentID, status)
	switch {
	case errors.Is(err, repository.ErrConflict):
		return nil, ErrTrainerSlotTaken
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrAppointmentNotFound
	case err != nil:
		return nil, err
	}
	return s.getAppointment(ctx, appointmentID)
}

func (s *appointmentService) GetAll(ctx context.Context) ([]domain.Appointment, error) {
	return s.apptRepo.GetAll(ctx)
}

func (s *appointmentService) GetByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error) {
	return s.apptRepo.GetByTrainer(ctx, trainerID)
}

func (s *appointmentService) getAppointment(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return appt, nil
}

// notifyClient resolves the appointment's client to a user account and
// fires the push asynchronously.
func (s *appointmentService) notifyClient(ctx context.Context, appt *domain.Appointment, kind notification.Kind) {
	client, err := s.clientRepo.GetByID(ctx, appt.ClientID)
	if err != nil {
		s.log.Warn().Err(err).Str("appointment", appt.ID.Hex()).Msg("client lookup for notification failed")
		return
	}
	s.notifyAsync(client.UID, kind, map[string]string{"appointmentId": appt.ID.Hex()})
}

func (s *appointmentService) notifyTrainer(ctx context.Context, appt *domain.Appointment, kind notification.Kind) {
	trainer, err := s.trainerRepo.GetByID(ctx, appt.TrainerID)
	if err != nil {
		s.log.Warn().Err(err).Str("appointment", appt.ID.Hex()).Msg("trainer lookup for notification failed")
		return
	}
	s.notifyAsync(trainer.UID, kind, map[string]string{"appointmentId": appt.ID.Hex()})
}

func (s *appointmentService) notifyAsync(userUID string, kind notification.Kind, data map[string]string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		user, err := s.userRepo.GetByUID(ctx, userUID)
		if err != nil {
			s.log.Warn().Err(err).Str("uid", userUID).Msg("notification target lookup failed")
			return
		}
		if err := s.notifier.Send(ctx, user.DeviceToken, kind, data); err != nil {
			s.log.Warn().Err(err).Str("uid", userUID).Str("kind", string(kind)).Msg("notification send failed")
		}
	}()
}
