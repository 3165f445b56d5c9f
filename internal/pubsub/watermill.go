package pubsub

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ErrClosed is returned when publishing or subscribing on a closed bridge.
var ErrClosed = errors.New("pubsub: bridge closed")

const (
	// Metadata keys used to carry Message fields through a watermill message.
	metaKeyWorkspaceID = "workspace_id"
	metaKeyTopic       = "topic"

	defaultBuffer = 64
)

// WatermillBridge is the in-process event bus: a watermill GoChannel behind
// the Publisher and Subscriber interfaces.
type WatermillBridge struct {
	channel *gochannel.GoChannel
	logger  *slog.Logger
	closed  atomic.Bool
}

// BridgeOption configures a WatermillBridge.
type BridgeOption func(*bridgeConfig)

type bridgeConfig struct {
	buffer  int64
	verbose bool
}

// WithBuffer sets how many undelivered messages each subscriber may queue.
func WithBuffer(n int64) BridgeOption {
	return func(c *bridgeConfig) {
		if n > 0 {
			c.buffer = n
		}
	}
}

// WithWatermillDebug turns on watermill's own debug and trace logging.
func WithWatermillDebug() BridgeOption {
	return func(c *bridgeConfig) { c.verbose = true }
}

// NewWatermillBridge initializes an in-process Pub/Sub system.
func NewWatermillBridge(opts ...BridgeOption) *WatermillBridge {
	cfg := bridgeConfig{buffer: defaultBuffer}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &WatermillBridge{
		channel: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: cfg.buffer},
			watermill.NewStdLogger(cfg.verbose, cfg.verbose),
		),
		logger: slog.Default().With("service", "pubsub"),
	}
}

func toWatermill(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	wmMsg.Metadata.Set(metaKeyWorkspaceID, msg.WorkspaceID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	return wmMsg
}

func fromWatermill(wmMsg *message.Message) Message {
	msg := Message{
		Topic:       wmMsg.Metadata.Get(metaKeyTopic),
		WorkspaceID: wmMsg.Metadata.Get(metaKeyWorkspaceID),
		Payload:     wmMsg.Payload,
		Metadata:    make(map[string]string, len(wmMsg.Metadata)),
	}
	for k, v := range wmMsg.Metadata {
		if k != metaKeyWorkspaceID && k != metaKeyTopic {
			msg.Metadata[k] = v
		}
	}
	return msg
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	if wb.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return wb.channel.Publish(msg.Topic, toWatermill(msg))
}

// Subscribe implements the Subscriber interface. It returns once the
// subscription is active; messages are handled on a background goroutine.
// Handler errors are logged and the message is acked anyway: events on this
// bus are notifications and a redelivery would only repeat the failure.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	if wb.closed.Load() {
		return ErrClosed
	}
	messages, err := wb.channel.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			msg := fromWatermill(wmMsg)
			if err := handler(ctx, msg); err != nil {
				wb.logger.Error("Failed to handle message",
					"topic", topic, "workspace_id", msg.WorkspaceID, "msg_id", wmMsg.UUID, "error", err)
			}
			wmMsg.Ack()
		}
		wb.logger.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close shuts down the bridge and ends every subscription loop.
func (wb *WatermillBridge) Close() error {
	if wb.closed.Swap(true) {
		return nil
	}
	return wb.channel.Close()
}
