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

// SessionCost is the fixed points price of one training session.
const SessionCost = 250

// MembershipService is the points ledger: activation, eligibility,
// conditional debit, commitment forecasting, and the expiry sweep.
type MembershipService interface {
	IsEligibleForActivation(ctx context.Context, clientUID string) (bool, error)
	Activate(ctx context.Context, clientID, packageID primitive.ObjectID, paymentRef string) (*domain.Membership, error)
	Debit(ctx context.Context, clientID primitive.ObjectID, amount int) (newBalance int, err error)
	ForecastCommitment(ctx context.Context, clientID primitive.ObjectID) (requiredPoints int, err error)
	SweepExpired(ctx context.Context) (int64, error)
	PurchaseHistory(ctx context.Context, clientUID string) ([]domain.PurchaseHistory, error)
}

type membershipService struct {
	clientRepo   repository.ClientRepository
	packageRepo  repository.PackageRepository
	purchaseRepo repository.PurchaseHistoryRepository
	userRepo     repository.UserRepository
	apptRepo     repository.AppointmentRepository
	clk          clock.Clock
	emitter      events.Emitter
	notifier     notification.Notifier
	log          zerolog.Logger
}

// NewMembershipService creates a new instance of membershipService.
func NewMembershipService(
	clientRepo repository.ClientRepository,
	packageRepo repository.PackageRepository,
	purchaseRepo repository.PurchaseHistoryRepository,
	userRepo repository.UserRepository,
	apptRepo repository.AppointmentRepository,
	clk clock.Clock,
	emitter events.Emitter,
	notifier notification.Notifier,
	log zerolog.Logger,
) MembershipService {
	return &membershipService{
		clientRepo:   clientRepo,
		packageRepo:  packageRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		apptRepo:     apptRepo,
		clk:          clk,
		emitter:      emitter,
		notifier:     notifier,
		log:          log.With().Str("component", "membership").Logger(),
	}
}

// IsEligibleForActivation reports whether the client may purchase a new
// membership: no membership yet, the current one has expired, or the
// balance has dropped below one session.
func (s *membershipService) IsEligibleForActivation(ctx context.Context, clientUID string) (bool, error) {
	client, err := s.clientRepo.GetByUID(ctx, clientUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrClientNotFound
		}
		return false, err
	}

	m := client.Membership
	if m == nil {
		return true, nil
	}
	if clock.LocalDate(s.clk.Now()) > clock.LocalDate(m.EndDate) {
		return true, nil
	}
	return m.Points < SessionCost, nil
}

// Activate installs a new membership from the package, archiving the prior
// membership (if any) to purchase history first.
func (s *membershipService) Activate(ctx context.Context, clientID, packageID primitive.ObjectID, paymentRef string) (*domain.Membership, error) {
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	now := s.clk.Now()
	record := &domain.PurchaseHistory{
		ClientID:     client.ID,
		PackageID:    pkg.ID,
		PackageName:  pkg.Name,
		Amount:       pkg.Price,
		Points:       pkg.Points,
		PaymentRef:   paymentRef,
		PurchaseDate: now,
		Prior:        client.Membership,
	}
	if _, err := s.purchaseRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	membership := &domain.Membership{
		Type:      pkg.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, pkg.DurationMonths, 0),
		Points:    pkg.Points,
		IsActive:  true,
	}
	if err := s.clientRepo.ReplaceMembership(ctx, client.ID, membership); err != nil {
		return nil, err
	}

	s.emitter.Emit(events.Event{Name: events.PaymentCompleted, Payload: map[string]interface{}{
		"clientUid":  client.UID,
		"package":    pkg.Name,
		"paymentRef": paymentRef,
		"points":     membership.Points,
	}})
	s.notifyAsync(client.UID, notification.KindPaymentReceived, map[string]string{
		"package": pkg.Name,
	})

	return membership, nil
}

// Debit subtracts points through a single conditional update. When the
// update matches nothing the client is re-read to surface the precise
// reason.
func (s *membershipService) Debit(ctx context.Context, clientID primitive.ObjectID, amount int) (int, error) {
	balance, err := s.clientRepo.DebitPoints(ctx, clientID, amount)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, repository.ErrPreconditionFailed) {
		return 0, err
	}

	client, getErr := s.clientRepo.GetByID(ctx, clientID)
	if getErr != nil {
		if errors.Is(getErr, repository.ErrNotFound) {
			return 0, ErrClientNotFound
		}
		return 0, getErr
	}
	if !client.HasActiveMembership() {
		return 0, ErrNoActiveMembership
	}
	if client.Membership.Points < amount {
		return 0, ErrInsufficientPoints
	}
	return 0, ErrConcurrentModification
}

// ForecastCommitment sums the session cost across the client's pending and
// confirmed appointments dated today or later.
func (s *membershipService) ForecastCommitment(ctx context.Context, clientID primitive.ObjectID) (int, error) {
	count, err := s.apptRepo.CountCommitted(ctx, clientID, clock.DayStart(s.clk.Now()))
	if err != nil {
		return 0, err
	}
	return int(count) * SessionCost, nil
}

// SweepExpired deactivates and zeroes every membership past its end date.
// Invoked daily by the scheduled job.
func (s *membershipService) SweepExpired(ctx context.Context) (int64, error) {
	swept, err := s.clientRepo.ExpireMemberships(ctx, s.clk.Now())
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		s.log.Info().Int64("memberships", swept).Msg("expired memberships swept")
	}
	return swept, nil
}

func (s *membershipService) PurchaseHistory(ctx context.Context, clientUID string) ([]domain.PurchaseHistory, error) {
	client, err := s.clientRepo.GetByUID(ctx, clientUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return s.purchaseRepo.GetByClient(ctx, client.ID)
}

// notifyAsync fires a push notification without blocking or failing the
// caller.
func (s *membershipService) notifyAsync(userUID string, kind notification.Kind, data map[string]string) {
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
