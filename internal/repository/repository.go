package repository

import (
	"context"
	"time"

	"fitpoint/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict")
	// ErrPreconditionFailed is returned when a conditional update matched no
	// document, meaning the expected prior state no longer holds.
	ErrPreconditionFailed = RepositoryError("precondition failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores account records and device tokens.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUID(ctx context.Context, uid string) (*domain.User, error)
	SetDeviceToken(ctx context.Context, uid, token string) error
}

// ClientRepository stores clients and their embedded membership ledger.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByUID(ctx context.Context, uid string) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error

	// ReplaceMembership installs a new membership wholesale (activation).
	ReplaceMembership(ctx context.Context, clientID primitive.ObjectID, m *domain.Membership) error

	// DebitPoints decrements the balance only when the membership is active
	// and holds at least amount points, in a single conditional update.
	// Returns ErrPreconditionFailed when the condition does not hold.
	DebitPoints(ctx context.Context, clientID primitive.ObjectID, amount int) (newBalance int, err error)

	// ExpireMemberships deactivates and zeroes every active membership whose
	// endDate is before now. Returns the number of memberships swept.
	ExpireMemberships(ctx context.Context, now time.Time) (int64, error)
}

// TrainerRepository stores trainers and their weekly schedules.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetByUID(ctx context.Context, uid string) (*domain.Trainer, error)
	GetAll(ctx context.Context) ([]domain.Trainer, error)
	Update(ctx context.Context, trainer *domain.Trainer) error
	IncrementClassCount(ctx context.Context, trainerID primitive.ObjectID) error
	SetTimeslotAvailability(ctx context.Context, trainerID, timeslotID primitive.ObjectID, available bool) error
}

// AppointmentRepository stores appointments. Status moves only through
// conditional updates so concurrent transitions cannot interleave.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error)
	GetAll(ctx context.Context) ([]domain.Appointment, error)
	GetByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error)

	// UpdateStatusIf performs a compare-and-swap on the status field.
	// Returns ErrPreconditionFailed when the appointment is no longer in
	// from, and ErrConflict when the write violates the confirmed-slot
	// uniqueness index.
	UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to domain.AppointmentStatus) error

	// SetStatus overwrites the status unconditionally (admin escape hatch).
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.AppointmentStatus) error

	// FindAt returns appointments for one party at an exact (date, start)
	// holding any of the given statuses. Party is matched by the field
	// name: "clientId" or "trainerId".
	FindAt(ctx context.Context, partyField string, partyID primitive.ObjectID, date time.Time, start string, statuses []domain.AppointmentStatus) ([]domain.Appointment, error)

	// FindConfirmedOn returns a trainer's confirmed appointments on a date.
	FindConfirmedOn(ctx context.Context, trainerID primitive.ObjectID, date time.Time) ([]domain.Appointment, error)

	// CountCommitted counts a client's pending-or-confirmed appointments
	// dated from (inclusive) or later.
	CountCommitted(ctx context.Context, clientID primitive.ObjectID, from time.Time) (int64, error)
}

// PackageRepository stores the membership package catalog.
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.MembershipPackage) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPackage, error)
	GetByName(ctx context.Context, name string) (*domain.MembershipPackage, error)
	GetAll(ctx context.Context) ([]domain.MembershipPackage, error)
	Update(ctx context.Context, pkg *domain.MembershipPackage) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ServiceTypeRepository stores the training service catalog.
type ServiceTypeRepository interface {
	GetByName(ctx context.Context, name string) (*domain.ServiceType, error)
	GetAll(ctx context.Context) ([]domain.ServiceType, error)
	Create(ctx context.Context, st *domain.ServiceType) (primitive.ObjectID, error)
}

// PurchaseHistoryRepository archives replaced memberships.
type PurchaseHistoryRepository interface {
	Create(ctx context.Context, record *domain.PurchaseHistory) (primitive.ObjectID, error)
	GetByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.PurchaseHistory, error)
}

// ReportRepository stores per-appointment training reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Report, error)
	GetByAppointment(ctx context.Context, appointmentID primitive.ObjectID) (*domain.Report, error)
	Update(ctx context.Context, report *domain.Report) error
}
