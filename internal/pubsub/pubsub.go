// Package pubsub carries workspace change notifications between the
// components of one process.
package pubsub

import "context"

// Message is one event on the bus.
type Message struct {
	Topic       string
	WorkspaceID string
	// Payload is JSON for typed events.
	Payload  []byte
	Metadata map[string]string
}

// Handler processes a delivered message.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber registers handlers for a topic. Subscribe returns once the
// subscription is live; delivery stops when ctx is canceled or the
// subscriber is closed.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// Bus is both ends of the event bus.
type Bus interface {
	Publisher
	Subscriber
}

var _ Bus = (*WatermillBridge)(nil)
