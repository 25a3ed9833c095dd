package notification

import "context"

// Kind selects the message template for a push notification.
type Kind string

const (
	KindNewBooking       Kind = "new_booking"
	KindBookingConfirmed Kind = "booking_confirmed"
	KindBookingRejected  Kind = "booking_rejected"
	KindBookingCancelled Kind = "booking_cancelled"
	KindSessionCompleted Kind = "session_completed"
	KindPaymentReceived  Kind = "payment_received"
)

// Notifier delivers a push notification to a device token. Errors are for
// the caller to log; a failed notification never fails the operation that
// triggered it.
type Notifier interface {
	Send(ctx context.Context, deviceToken string, kind Kind, data map[string]string) error
}

type noopNotifier struct{}

// NewNoopNotifier returns a Notifier that discards everything. Used when
// Firebase credentials are not configured.
func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) Send(context.Context, string, Kind, map[string]string) error { return nil }
