package push

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type fcmTransport struct {
	client *messaging.Client
}

// NewFCMTransport builds a Firebase Cloud Messaging backed Transport.
// Credentials come from FIREBASE_CREDENTIALS_FILE or application default
// credentials when the variable is unset.
func NewFCMTransport(ctx context.Context) (Transport, error) {
	var opts []option.ClientOption
	if credFile := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fcm client: %w", err)
	}

	return &fcmTransport{client: client}, nil
}

// Verify issues a dry-run send to the token. FCM rejects the dry run when the
// registration token is stale, which is exactly the signal we need.
func (t *fcmTransport) Verify(ctx context.Context, token string) bool {
	_, err := t.client.SendDryRun(ctx, &messaging.Message{Token: token})
	return err == nil
}

func (t *fcmTransport) Send(ctx context.Context, token string, n Notification) error {
	_, err := t.client.Send(ctx, &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: n.Title, Body: n.Body},
	})
	return err
}

func (t *fcmTransport) SendMulticast(ctx context.Context, tokens []string, n Notification) error {
	_, err := t.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens:       tokens,
		Notification: &messaging.Notification{Title: n.Title, Body: n.Body},
	})
	return err
}

func (t *fcmTransport) SendToTopic(ctx context.Context, topic string, n Notification) error {
	_, err := t.client.Send(ctx, &messaging.Message{
		Topic:        topic,
		Notification: &messaging.Notification{Title: n.Title, Body: n.Body},
	})
	return err
}

func (t *fcmTransport) SubscribeToTopic(ctx context.Context, tokens []string, topic string) error {
	_, err := t.client.SubscribeToTopic(ctx, tokens, topic)
	return err
}

func (t *fcmTransport) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) error {
	_, err := t.client.UnsubscribeFromTopic(ctx, tokens, topic)
	return err
}
