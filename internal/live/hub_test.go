package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/nfrund/instagrid/internal/pubsub"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("ws"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, workspaceID string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?ws=" + workspaceID
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func readRefresh(t *testing.T, conn *websocket.Conn) Refresh {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	var r Refresh
	require.NoError(t, json.Unmarshal(data, &r))
	return r
}

func TestHub_NotifyReachesOnlyThatWorkspace(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()
	srv := newServer(t, hub)

	a1 := dial(t, srv, "a")
	a2 := dial(t, srv, "a")
	b := dial(t, srv, "b")
	require.Eventually(t, func() bool { return hub.Count("a") == 2 && hub.Count("b") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Notify(workspace.ChangedEvent{WorkspaceID: "a", Version: 7, Reason: workspace.ReasonSpacing})

	want := Refresh{Type: "refresh", Version: 7, Reason: workspace.ReasonSpacing}
	assert.Equal(t, want, readRefresh(t, a1))
	assert.Equal(t, want, readRefresh(t, a2))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, _, err := b.Read(ctx)
	assert.Error(t, err, "other workspaces stay quiet")
}

func TestHub_ListenForwardsChangeEvents(t *testing.T) {
	bus := pubsub.NewWatermillBridge()
	defer bus.Close()

	hub := NewHub()
	defer hub.Shutdown()
	srv := newServer(t, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.Listen(ctx, bus))

	conn := dial(t, srv, "ws-1")
	require.Eventually(t, func() bool { return hub.Count("ws-1") == 1 }, 2*time.Second, 10*time.Millisecond)

	ev := workspace.ChangedEvent{WorkspaceID: "ws-1", Version: 3, Reason: workspace.ReasonImagesAdded}
	require.NoError(t, pubsub.Publish(ctx, bus, workspace.TopicChanged, ev.WorkspaceID, ev))

	got := readRefresh(t, conn)
	assert.Equal(t, uint64(3), got.Version)
	assert.Equal(t, workspace.ReasonImagesAdded, got.Reason)
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()
	srv := newServer(t, hub)

	conn := dial(t, srv, "a")
	require.Eventually(t, func() bool { return hub.Count("a") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	assert.Eventually(t, func() bool { return hub.Count("a") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	srv := newServer(t, hub)

	conn := dial(t, srv, "a")
	require.Eventually(t, func() bool { return hub.Count("a") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
	assert.Equal(t, 0, hub.Count("a"))
}
