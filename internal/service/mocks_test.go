package service

import (
	"context"
	"sync"
	"time"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/events"
	"fitpoint/gym-app/internal/notification"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Mock repositories ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetDeviceToken(ctx context.Context, uid, token string) error {
	args := m.Called(ctx, uid, token)
	return args.Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	args := m.Called(ctx, client)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) GetByUID(ctx context.Context, uid string) (*domain.Client, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) ReplaceMembership(ctx context.Context, clientID primitive.ObjectID, mem *domain.Membership) error {
	args := m.Called(ctx, clientID, mem)
	return args.Error(0)
}

func (m *MockClientRepository) DebitPoints(ctx context.Context, clientID primitive.ObjectID, amount int) (int, error) {
	args := m.Called(ctx, clientID, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockClientRepository) ExpireMemberships(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockTrainerRepository struct {
	mock.Mock
}

func (m *MockTrainerRepository) Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	args := m.Called(ctx, trainer)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockTrainerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trainer), args.Error(1)
}

func (m *MockTrainerRepository) GetByUID(ctx context.Context, uid string) (*domain.Trainer, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trainer), args.Error(1)
}

func (m *MockTrainerRepository) GetAll(ctx context.Context) ([]domain.Trainer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trainer), args.Error(1)
}

func (m *MockTrainerRepository) Update(ctx context.Context, trainer *domain.Trainer) error {
	args := m.Called(ctx, trainer)
	return args.Error(0)
}

func (m *MockTrainerRepository) IncrementClassCount(ctx context.Context, trainerID primitive.ObjectID) error {
	args := m.Called(ctx, trainerID)
	return args.Error(0)
}

func (m *MockTrainerRepository) SetTimeslotAvailability(ctx context.Context, trainerID, timeslotID primitive.ObjectID, available bool) error {
	args := m.Called(ctx, trainerID, timeslotID, available)
	return args.Error(0)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) (primitive.ObjectID, error) {
	args := m.Called(ctx, appt)
	if appt != nil && appt.ID.IsZero() {
		appt.ID = primitive.NewObjectID()
	}
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) GetAll(ctx context.Context) ([]domain.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) GetByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to domain.AppointmentStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockAppointmentRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.AppointmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindAt(ctx context.Context, partyField string, partyID primitive.ObjectID, date time.Time, start string, statuses []domain.AppointmentStatus) ([]domain.Appointment, error) {
	args := m.Called(ctx, partyField, partyID, date, start, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindConfirmedOn(ctx context.Context, trainerID primitive.ObjectID, date time.Time) ([]domain.Appointment, error) {
	args := m.Called(ctx, trainerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) CountCommitted(ctx context.Context, clientID primitive.ObjectID, from time.Time) (int64, error) {
	args := m.Called(ctx, clientID, from)
	return args.Get(0).(int64), args.Error(1)
}

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *domain.MembershipPackage) (primitive.ObjectID, error) {
	args := m.Called(ctx, pkg)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipPackage), args.Error(1)
}

func (m *MockPackageRepository) GetByName(ctx context.Context, name string) (*domain.MembershipPackage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipPackage), args.Error(1)
}

func (m *MockPackageRepository) GetAll(ctx context.Context) ([]domain.MembershipPackage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MembershipPackage), args.Error(1)
}

func (m *MockPackageRepository) Update(ctx context.Context, pkg *domain.MembershipPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockServiceTypeRepository struct {
	mock.Mock
}

func (m *MockServiceTypeRepository) GetByName(ctx context.Context, name string) (*domain.ServiceType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepository) GetAll(ctx context.Context) ([]domain.ServiceType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceType), args.Error(1)
}

func (m *MockServiceTypeRepository) Create(ctx context.Context, st *domain.ServiceType) (primitive.ObjectID, error) {
	args := m.Called(ctx, st)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

type MockPurchaseHistoryRepository struct {
	mock.Mock
}

func (m *MockPurchaseHistoryRepository) Create(ctx context.Context, record *domain.PurchaseHistory) (primitive.ObjectID, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPurchaseHistoryRepository) GetByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.PurchaseHistory, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseHistory), args.Error(1)
}

// --- Test doubles for events and notifications ---

// recordingEmitter captures emitted events in order.
type recordingEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (e *recordingEmitter) Emit(event events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEmitter) names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Name
	}
	return out
}

// silentNotifier drops every push. Notification delivery is asynchronous
// and best-effort, so tests only need it to not panic.
type silentNotifier struct{}

func (silentNotifier) Send(context.Context, string, notification.Kind, map[string]string) error {
	return nil
}
