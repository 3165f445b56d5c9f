package pubsub

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingPayload struct {
	Count int    `json:"count"`
	Note  string `json:"note"`
}

var testPing = NewEvent[pingPayload]("test.ping", "Ping used in tests")

func TestWatermillBridge_TypedRoundTrip(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan pingPayload, 1)
	require.NoError(t, Subscribe(ctx, bridge, testPing, func(ctx context.Context, p pingPayload) error {
		received <- p
		return nil
	}))

	require.NoError(t, Publish(ctx, bridge, testPing, "ws-1", pingPayload{Count: 3, Note: "hi"}))

	select {
	case got := <-received:
		assert.Equal(t, pingPayload{Count: 3, Note: "hi"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for typed event")
	}
}

func TestWatermillBridge_CarriesWorkspaceAndMetadata(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx := context.Background()
	received := make(chan Message, 1)
	require.NoError(t, bridge.Subscribe(ctx, "raw.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	require.NoError(t, bridge.Publish(ctx, Message{
		Topic:       "raw.topic",
		WorkspaceID: "ws-9",
		Payload:     []byte("payload"),
		Metadata:    map[string]string{"reason": "test"},
	}))

	select {
	case msg := <-received:
		assert.Equal(t, "raw.topic", msg.Topic)
		assert.Equal(t, "ws-9", msg.WorkspaceID)
		assert.Equal(t, "payload", string(msg.Payload))
		assert.Equal(t, "test", msg.Metadata["reason"])
		assert.NotContains(t, msg.Metadata, metaKeyTopic)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestWatermillBridge_ClosedBridgeRejectsUse(t *testing.T) {
	bridge := NewWatermillBridge(WithBuffer(8))
	require.NoError(t, bridge.Close())
	require.NoError(t, bridge.Close(), "close is idempotent")

	err := bridge.Publish(context.Background(), Message{Topic: "t"})
	assert.ErrorIs(t, err, ErrClosed)
	err = bridge.Subscribe(context.Background(), "t", func(context.Context, Message) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWatermillBridge_HandlerErrorIsNotRedelivered(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	require.NoError(t, bridge.Subscribe(ctx, "failing", func(context.Context, Message) error {
		calls.Add(1)
		return errors.New("boom")
	}))
	require.NoError(t, bridge.Publish(ctx, Message{Topic: "failing"}))
	require.NoError(t, bridge.Publish(ctx, Message{Topic: "failing"}))

	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}
