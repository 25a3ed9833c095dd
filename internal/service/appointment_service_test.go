package service

import (
	"context"
	"testing"
	"time"

	"fitpoint/gym-app/internal/clock"
	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/events"
	"fitpoint/gym-app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tuesday 2026-03-10 10:00 business time.
var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, clock.Business)

type apptFixture struct {
	appts    *MockAppointmentRepository
	clients  *MockClientRepository
	trainers *MockTrainerRepository
	stypes   *MockServiceTypeRepository
	users    *MockUserRepository
	emitter  *recordingEmitter
	svc      AppointmentService
}

func newApptFixture(t *testing.T, now time.Time) *apptFixture {
	t.Helper()

	f := &apptFixture{
		appts:    new(MockAppointmentRepository),
		clients:  new(MockClientRepository),
		trainers: new(MockTrainerRepository),
		stypes:   new(MockServiceTypeRepository),
		users:    new(MockUserRepository),
		emitter:  &recordingEmitter{},
	}

	purchases := new(MockPurchaseHistoryRepository)
	packages := new(MockPackageRepository)
	ledger := NewMembershipService(f.clients, packages, purchases, f.users, f.appts,
		clock.Fixed(now), f.emitter, silentNotifier{}, zerolog.Nop())

	f.svc = NewAppointmentService(f.appts, f.clients, f.trainers, f.stypes, f.users,
		ledger, clock.Fixed(now), f.emitter, silentNotifier{}, zerolog.Nop())

	// Notification targets are resolved in a background goroutine; tests
	// don't assert on them.
	f.users.On("GetByUID", mock.Anything, mock.Anything).
		Return(nil, repository.ErrNotFound).Maybe()

	return f
}

func activeClient() *domain.Client {
	return &domain.Client{
		ID:   primitive.NewObjectID(),
		UID:  "client-1",
		Name: "Mei Ling",
		Membership: &domain.Membership{
			Points:    1000,
			StartDate: testNow.AddDate(0, -1, 0),
			EndDate:   testNow.AddDate(0, 5, 0),
			IsActive:  true,
		},
	}
}

func testTrainer() *domain.Trainer {
	return &domain.Trainer{
		ID:   primitive.NewObjectID(),
		UID:  "trainer-1",
		Name: "Ahmad",
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	trainer := testTrainer()
	day := clock.DayStart(testNow.AddDate(0, 0, 1))

	f.clients.On("GetByUID", mock.Anything, "client-1").Return(client, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)
	f.appts.On("CountCommitted", mock.Anything, client.ID, clock.DayStart(testNow)).Return(int64(1), nil)
	f.appts.On("FindAt", mock.Anything, "clientId", client.ID, day, "10:00",
		[]domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed}).
		Return([]domain.Appointment{}, nil)
	f.appts.On("FindAt", mock.Anything, "trainerId", trainer.ID, day, "10:00",
		[]domain.AppointmentStatus{domain.StatusConfirmed}).
		Return([]domain.Appointment{}, nil)
	f.appts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Appointment")).
		Return(primitive.NewObjectID(), nil)

	appt, err := f.svc.Create(context.Background(), CreateAppointmentInput{
		ClientUID:   "client-1",
		TrainerUID:  "trainer-1",
		ServiceType: "personal-training",
		Date:        day,
		Start:       "10:00",
		End:         "11:00",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, appt.Status)
	assert.Equal(t, day, appt.AppointmentDate)
	assert.Contains(t, f.emitter.names(), events.NewAppointment)
}

func TestCreateAppointment_MissingFields(t *testing.T) {
	f := newApptFixture(t, testNow)

	_, err := f.svc.Create(context.Background(), CreateAppointmentInput{
		ClientUID:  "client-1",
		TrainerUID: "trainer-1",
		// no service type
		Date:  clock.DayStart(testNow),
		Start: "10:00",
		End:   "11:00",
	})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.svc.Create(context.Background(), CreateAppointmentInput{
		ClientUID:   "client-1",
		TrainerUID:  "trainer-1",
		ServiceType: "personal-training",
		Date:        clock.DayStart(testNow),
		Start:       "25:99",
		End:         "11:00",
	})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestCreateAppointment_PastDate(t *testing.T) {
	f := newApptFixture(t, testNow)

	_, err := f.svc.Create(context.Background(), CreateAppointmentInput{
		ClientUID:   "client-1",
		TrainerUID:  "trainer-1",
		ServiceType: "personal-training",
		Date:        clock.DayStart(testNow.AddDate(0, 0, -1)),
		Start:       "10:00",
		End:         "11:00",
	})
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestCreateAppointment_StartTimeElapsed(t *testing.T) {
	f := newApptFixture(t, testNow)

	// Today at 09:00, but it is already 10:00.
	_, err := f.svc.Create(context.Background(), CreateAppointmentInput{
		ClientUID:   "client-1",
		TrainerUID:  "trainer-1",
		ServiceType: "personal-training",
		Date:        clock.DayStart(testNow),
		Start:       "09:00",
		End:         "10:00",
	})
	assert.ErrorIs(t, err, ErrStartTimeElapsed)
}

func TestCreateAppointment_InsufficientPointsWithCommitments(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	client.Membership.Points = 500 // funds two sessions
	trainer := testTrainer()
	day := clock.DayStart(testNow.AddDate(0, 0, 2))

	f.clients.On("GetByUID", mock.Anything, "client-1").Return(client, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)
	// Two sessions already committed: 500 points spoken for.
	f.appts.On("CountCommitted", mock.Anything, client.ID, clock.DayStart(testNow)).Return(int64(2), nil)

	_, err := f.svc.Create(context.Background(), CreateAppointmentInput{
		ClientUID:   "client-1",
		TrainerUID:  "trainer-1",
		ServiceType: "personal-training",
		Date:        day,
		Start:       "10:00",
		End:         "11:00",
	})
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestCreateAppointment_ClientDoubleBooking(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	trainer := testTrainer()
	day := clock.DayStart(testNow.AddDate(0, 0, 1))

	f.clients.On("GetByUID", mock.Anything, "client-1").Return(client, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)
	f.appts.On("CountCommitted", mock.Anything, client.ID, mock.Anything).Return(int64(0), nil)
	f.appts.On("FindAt", mock.Anything, "clientId", client.ID, day, "10:00", mock.Anything).
		Return([]domain.Appointment{{Status: domain.StatusPending}}, nil)

	_, err := f.svc.Create(context.Background(), CreateAppointmentInput{
		ClientUID:   "client-1",
		TrainerUID:  "trainer-1",
		ServiceType: "personal-training",
		Date:        day,
		Start:       "10:00",
		End:         "11:00",
	})
	assert.ErrorIs(t, err, ErrClientDoubleBooking)
}

func TestCreateAppointment_DoubleBookingRaceCaughtByIndex(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	trainer := testTrainer()
	day := clock.DayStart(testNow.AddDate(0, 0, 1))

	// Both read checks pass, but a racing create already inserted a pending
	// document for the slot and the uniqueness index rejects ours.
	f.clients.On("GetByUID", mock.Anything, "client-1").Return(client, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)
	f.appts.On("CountCommitted", mock.Anything, client.ID, mock.Anything).Return(int64(0), nil)
	f.appts.On("FindAt", mock.Anything, "clientId", client.ID, day, "10:00", mock.Anything).
		Return([]domain.Appointment{}, nil)
	f.appts.On("FindAt", mock.Anything, "trainerId", trainer.ID, day, "10:00", mock.Anything).
		Return([]domain.Appointment{}, nil)
	f.appts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Appointment")).
		Return(primitive.NilObjectID, repository.ErrConflict)

	_, err := f.svc.Create(context.Background(), CreateAppointmentInput{
		ClientUID:   "client-1",
		TrainerUID:  "trainer-1",
		ServiceType: "personal-training",
		Date:        day,
		Start:       "10:00",
		End:         "11:00",
	})

	assert.ErrorIs(t, err, ErrClientDoubleBooking)
	assert.Empty(t, f.emitter.names())
}

func TestCreateAppointment_NoActiveMembership(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	client.Membership.IsActive = false
	trainer := testTrainer()

	f.clients.On("GetByUID", mock.Anything, "client-1").Return(client, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)

	_, err := f.svc.Create(context.Background(), CreateAppointmentInput{
		ClientUID:   "client-1",
		TrainerUID:  "trainer-1",
		ServiceType: "personal-training",
		Date:        clock.DayStart(testNow.AddDate(0, 0, 1)),
		Start:       "10:00",
		End:         "11:00",
	})
	assert.ErrorIs(t, err, ErrNoActiveMembership)
}

func TestConfirmAppointment_Success(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:              apptID,
		ClientID:        client.ID,
		TrainerID:       primitive.NewObjectID(),
		AppointmentDate: clock.DayStart(testNow.AddDate(0, 0, 1)),
		AppointmentTime: domain.TimeRange{Start: "10:00", End: "11:00"},
		Status:          domain.StatusPending,
	}

	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)
	f.appts.On("FindAt", mock.Anything, "trainerId", appt.TrainerID, appt.AppointmentDate, "10:00",
		[]domain.AppointmentStatus{domain.StatusConfirmed}).
		Return([]domain.Appointment{}, nil)
	f.appts.On("UpdateStatusIf", mock.Anything, apptID, domain.StatusPending, domain.StatusConfirmed).Return(nil)
	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)

	got, err := f.svc.Confirm(context.Background(), apptID)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Contains(t, f.emitter.names(), events.AppointmentConfirmed)
}

func TestConfirmAppointment_SlotTakenByIndex(t *testing.T) {
	f := newApptFixture(t, testNow)
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:              apptID,
		TrainerID:       primitive.NewObjectID(),
		AppointmentDate: clock.DayStart(testNow.AddDate(0, 0, 1)),
		AppointmentTime: domain.TimeRange{Start: "10:00"},
		Status:          domain.StatusPending,
	}

	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)
	f.appts.On("FindAt", mock.Anything, "trainerId", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Appointment{}, nil)
	// The pre-check saw a free slot but the unique index caught a racing
	// confirm at write time.
	f.appts.On("UpdateStatusIf", mock.Anything, apptID, domain.StatusPending, domain.StatusConfirmed).
		Return(repository.ErrConflict)

	_, err := f.svc.Confirm(context.Background(), apptID)
	assert.ErrorIs(t, err, ErrTrainerSlotTaken)
}

func TestConfirmAppointment_TerminalStatusIsInvalid(t *testing.T) {
	f := newApptFixture(t, testNow)
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{ID: apptID, Status: domain.StatusCancelled}

	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)

	_, err := f.svc.Confirm(context.Background(), apptID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	f.appts.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectAppointment_RepeatIsInvalidStatus(t *testing.T) {
	f := newApptFixture(t, testNow)
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{ID: apptID, Status: domain.StatusRejected}

	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)

	_, err := f.svc.Reject(context.Background(), apptID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, f.emitter.names())
}

func TestCancelAppointment_Boundary(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		wantErr error
	}{
		{"exactly 60 minutes before start", "11:00", nil},
		{"59 minutes before start", "10:59", ErrCancellationWindowPassed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newApptFixture(t, testNow) // 10:00
			client := activeClient()
			apptID := primitive.NewObjectID()
			appt := &domain.Appointment{
				ID:              apptID,
				ClientID:        client.ID,
				TrainerID:       primitive.NewObjectID(),
				AppointmentDate: clock.DayStart(testNow),
				AppointmentTime: domain.TimeRange{Start: tc.start},
				Status:          domain.StatusConfirmed,
			}

			f.clients.On("GetByUID", mock.Anything, "client-1").Return(client, nil)
			f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)
			f.appts.On("UpdateStatusIf", mock.Anything, apptID, domain.StatusConfirmed, domain.StatusCancelled).
				Return(nil).Maybe()
			f.trainers.On("GetByID", mock.Anything, appt.TrainerID).
				Return(testTrainer(), nil).Maybe()

			_, err := f.svc.Cancel(context.Background(), "client-1", apptID)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestCancelAppointment_PastDate(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:              apptID,
		ClientID:        client.ID,
		AppointmentDate: clock.DayStart(testNow.AddDate(0, 0, -1)),
		AppointmentTime: domain.TimeRange{Start: "10:00"},
		Status:          domain.StatusConfirmed,
	}

	f.clients.On("GetByUID", mock.Anything, "client-1").Return(client, nil)
	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)

	_, err := f.svc.Cancel(context.Background(), "client-1", apptID)
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestCancelAppointment_NotOwnAppointment(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:       apptID,
		ClientID: primitive.NewObjectID(), // someone else's booking
		Status:   domain.StatusConfirmed,
	}

	f.clients.On("GetByUID", mock.Anything, "client-1").Return(client, nil)
	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)

	_, err := f.svc.Cancel(context.Background(), "client-1", apptID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCancelAppointment_PendingNotCancellable(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:       apptID,
		ClientID: client.ID,
		Status:   domain.StatusPending,
	}

	f.clients.On("GetByUID", mock.Anything, "client-1").Return(client, nil)
	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)

	_, err := f.svc.Cancel(context.Background(), "client-1", apptID)
	assert.ErrorIs(t, err, ErrNotConfirmed)
}

func TestCompleteAppointment_Success(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	client.Membership.Points = SessionCost // exactly one session left
	trainer := testTrainer()
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:              apptID,
		ClientID:        client.ID,
		TrainerID:       trainer.ID,
		ServiceType:     "personal-training",
		AppointmentDate: clock.DayStart(testNow),
		AppointmentTime: domain.TimeRange{Start: "11:00", End: "12:00"},
		Status:          domain.StatusConfirmed,
	}

	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)
	f.stypes.On("GetByName", mock.Anything, "personal-training").Return(&domain.ServiceType{Name: "personal-training"}, nil)
	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.appts.On("UpdateStatusIf", mock.Anything, apptID, domain.StatusConfirmed, domain.StatusComplete).Return(nil)
	f.clients.On("DebitPoints", mock.Anything, client.ID, SessionCost).Return(0, nil)
	f.trainers.On("IncrementClassCount", mock.Anything, trainer.ID).Return(nil)

	got, err := f.svc.Complete(context.Background(), "trainer-1", apptID)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, got.Status)
	assert.Contains(t, f.emitter.names(), events.AppointmentCompleted)
	assert.Contains(t, f.emitter.names(), events.PointsDeducted)
	f.trainers.AssertCalled(t, "IncrementClassCount", mock.Anything, trainer.ID)
}

func TestCompleteAppointment_WrongDay(t *testing.T) {
	f := newApptFixture(t, testNow)
	trainer := testTrainer()
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:              apptID,
		TrainerID:       trainer.ID,
		AppointmentDate: clock.DayStart(testNow.AddDate(0, 0, 1)),
		Status:          domain.StatusConfirmed,
	}

	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)

	_, err := f.svc.Complete(context.Background(), "trainer-1", apptID)
	assert.ErrorIs(t, err, ErrWrongDay)
}

func TestCompleteAppointment_NotAssignedTrainer(t *testing.T) {
	f := newApptFixture(t, testNow)
	trainer := testTrainer()
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:        apptID,
		TrainerID: primitive.NewObjectID(),
		Status:    domain.StatusConfirmed,
	}

	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)

	_, err := f.svc.Complete(context.Background(), "trainer-1", apptID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCompleteAppointment_AlreadyCompleted(t *testing.T) {
	f := newApptFixture(t, testNow)
	trainer := testTrainer()
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:        apptID,
		TrainerID: trainer.ID,
		Status:    domain.StatusComplete,
	}

	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)

	_, err := f.svc.Complete(context.Background(), "trainer-1", apptID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCompleteAppointment_DebitFailureRevertsStatus(t *testing.T) {
	f := newApptFixture(t, testNow)
	client := activeClient()
	trainer := testTrainer()
	apptID := primitive.NewObjectID()
	appt := &domain.Appointment{
		ID:              apptID,
		ClientID:        client.ID,
		TrainerID:       trainer.ID,
		ServiceType:     "personal-training",
		AppointmentDate: clock.DayStart(testNow),
		AppointmentTime: domain.TimeRange{Start: "11:00"},
		Status:          domain.StatusConfirmed,
	}

	f.appts.On("GetByID", mock.Anything, apptID).Return(appt, nil)
	f.trainers.On("GetByUID", mock.Anything, "trainer-1").Return(trainer, nil)
	f.stypes.On("GetByName", mock.Anything, "personal-training").Return(&domain.ServiceType{}, nil)
	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.appts.On("UpdateStatusIf", mock.Anything, apptID, domain.StatusConfirmed, domain.StatusComplete).Return(nil)
	// A concurrent completion emptied the balance between the read and the
	// conditional debit.
	f.clients.On("DebitPoints", mock.Anything, client.ID, SessionCost).
		Return(0, repository.ErrPreconditionFailed)
	f.appts.On("UpdateStatusIf", mock.Anything, apptID, domain.StatusComplete, domain.StatusConfirmed).Return(nil)

	_, err := f.svc.Complete(context.Background(), "trainer-1", apptID)

	assert.Error(t, err)
	f.appts.AssertCalled(t, "UpdateStatusIf", mock.Anything, apptID, domain.StatusComplete, domain.StatusConfirmed)
	f.trainers.AssertNotCalled(t, "IncrementClassCount", mock.Anything, mock.Anything)
}

func TestMarkReported(t *testing.T) {
	f := newApptFixture(t, testNow)
	apptID := primitive.NewObjectID()

	f.appts.On("UpdateStatusIf", mock.Anything, apptID, domain.StatusComplete, domain.StatusReported).Return(nil)

	err := f.svc.MarkReported(context.Background(), apptID)
	assert.NoError(t, err)
	assert.Contains(t, f.emitter.names(), events.AppointmentReported)
}

func TestOverrideStatus_RejectsUnknownValue(t *testing.T) {
	f := newApptFixture(t, testNow)

	_, err := f.svc.OverrideStatus(context.Background(), primitive.NewObjectID(), domain.AppointmentStatus("paused"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
