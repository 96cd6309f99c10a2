package push

import "context"

// Notification is the payload delivered to devices and topics.
type Notification struct {
	Title string
	Body  string
}

// Transport is the push-messaging boundary. Verify reports whether a device
// token is currently valid; implementations must not treat an invalid token
// as an error.
type Transport interface {
	Verify(ctx context.Context, token string) bool
	Send(ctx context.Context, token string, n Notification) error
	SendMulticast(ctx context.Context, tokens []string, n Notification) error
	SendToTopic(ctx context.Context, topic string, n Notification) error
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) error
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) error
}
