package notification

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var templates = map[Kind]struct {
	title string
	body  string
}{
	KindNewBooking:       {"New Booking Request", "A client has requested a session with you."},
	KindBookingConfirmed: {"Booking Confirmed", "Your trainer has confirmed your session."},
	KindBookingRejected:  {"Booking Rejected", "Your trainer could not take this session."},
	KindBookingCancelled: {"Booking Cancelled", "A client has cancelled a confirmed session."},
	KindSessionCompleted: {"Session Completed", "Your session has been completed and points deducted."},
	KindPaymentReceived:  {"Payment Received", "Your membership has been activated."},
}

// fcmNotifier implements Notifier on Firebase Cloud Messaging.
type fcmNotifier struct {
	client *messaging.Client
}

// NewFCMNotifier initializes the Firebase app and its messaging client.
// With an empty credentialsFile, Application Default Credentials are used.
func NewFCMNotifier(ctx context.Context, projectID, credentialsFile string) (Notifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &fcmNotifier{client: client}, nil
}

func (n *fcmNotifier) Send(ctx context.Context, deviceToken string, kind Kind, data map[string]string) error {
	if deviceToken == "" {
		return errors.New("no device token registered")
	}
	tpl, ok := templates[kind]
	if !ok {
		return errors.New("unknown notification kind")
	}

	if data == nil {
		data = map[string]string{}
	}
	data["kind"] = string(kind)

	_, err := n.client.Send(ctx, &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: tpl.title,
			Body:  tpl.body,
		},
		Data: data,
	})
	return err
}
