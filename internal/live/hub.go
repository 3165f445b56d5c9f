// Package live pushes refresh notifications to the browser tabs of a
// workspace over websockets whenever the workspace commits a change.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/nfrund/instagrid/internal/pubsub"
	"github.com/nfrund/instagrid/internal/workspace"
)

const (
	sendBuffer          = 16
	defaultWriteTimeout = 10 * time.Second
)

// Refresh is the message sent to clients.
type Refresh struct {
	Type    string `json:"type"`
	Version uint64 `json:"version"`
	Reason  string `json:"reason"`
}

type client struct {
	workspaceID string
	conn        *websocket.Conn
	send        chan []byte
}

// Hub tracks websocket clients per workspace.
type Hub struct {
	logger       *slog.Logger
	writeTimeout time.Duration

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		logger:       slog.Default().With("service", "live"),
		writeTimeout: defaultWriteTimeout,
		clients:      make(map[string]map[*client]struct{}),
	}
}

// Listen subscribes the hub to workspace change events on sub. It returns
// once the subscription is established; delivery stops when ctx is done.
func (h *Hub) Listen(ctx context.Context, sub pubsub.Subscriber) error {
	return pubsub.Subscribe(ctx, sub, workspace.TopicChanged, func(ctx context.Context, ev workspace.ChangedEvent) error {
		h.Notify(ev)
		return nil
	})
}

// Notify queues a refresh for every client of ev's workspace. Slow clients
// miss the message rather than block the caller.
func (h *Hub) Notify(ev workspace.ChangedEvent) {
	payload, err := json.Marshal(Refresh{Type: "refresh", Version: ev.Version, Reason: ev.Reason})
	if err != nil {
		h.logger.Error("Failed to encode refresh", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[ev.WorkspaceID] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("Client send channel full, dropping refresh", "workspace_id", ev.WorkspaceID)
		}
	}
}

// Count reports how many clients are connected to workspaceID.
func (h *Hub) Count(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

// Serve upgrades the request and streams refreshes for workspaceID until the
// client goes away, the request context ends or the hub shuts down.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, workspaceID string) error {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket", "error", err)
		return err
	}

	c := &client{workspaceID: workspaceID, conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		return conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	defer h.unregister(c)

	// Clients never send anything; CloseRead handles control frames and
	// cancels ctx when the peer disconnects.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return nil
		case msg, ok := <-c.send:
			if !ok {
				return conn.Close(websocket.StatusGoingAway, "server shutting down")
			}
			wctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					h.logger.Warn("WebSocket write error", "workspace_id", workspaceID, "error", err)
				}
				conn.CloseNow()
				return nil
			}
		}
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.workspaceID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.workspaceID] = set
	}
	set[c] = struct{}{}
	h.logger.Debug("Client registered", "workspace_id", c.workspaceID, "clients", len(set))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.workspaceID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.workspaceID)
	}
	h.logger.Debug("Client unregistered", "workspace_id", c.workspaceID)
}

// Shutdown closes every client's send channel, which makes Serve close its
// connection. Later connections are refused.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, id)
	}
	h.logger.Info("Live hub shut down")
}
