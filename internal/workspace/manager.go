package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/pubsub"
)

const (
	// DefaultIdleTTL is how long an untouched workspace is kept.
	DefaultIdleTTL = 2 * time.Hour

	// DefaultCleanupInterval is how often idle workspaces are swept.
	DefaultCleanupInterval = time.Minute
)

// ChangedEvent is published after every committed workspace change.
type ChangedEvent struct {
	WorkspaceID string `json:"workspace_id"`
	Version     uint64 `json:"version"`
	Reason      string `json:"reason"`
}

// TopicChanged carries ChangedEvent payloads.
var TopicChanged = pubsub.NewEvent[ChangedEvent]("workspace.changed", "A planning workspace committed a new snapshot")

// Manager owns the workspaces of all live sessions.
type Manager struct {
	releaser  Releaser
	publisher pubsub.Publisher
	logger    *slog.Logger
	now       func() time.Time

	idleTTL         time.Duration
	cleanupInterval time.Duration

	mu         sync.Mutex
	workspaces map[string]*Workspace

	stopCleanup chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
}

// ManagerOption is a function that configures a Manager.
type ManagerOption func(*Manager)

// WithIdleTTL sets how long an untouched workspace survives.
func WithIdleTTL(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.idleTTL = d
		}
	}
}

// WithCleanupInterval sets the idle sweep period.
func WithCleanupInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.cleanupInterval = d
		}
	}
}

// WithManagerClock overrides the time source, mostly for tests.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a manager and starts its idle sweeper. publisher may be
// nil, in which case no change events are emitted.
func NewManager(releaser Releaser, publisher pubsub.Publisher, opts ...ManagerOption) *Manager {
	m := &Manager{
		releaser:        releaser,
		publisher:       publisher,
		logger:          slog.Default().With("service", "workspace-manager"),
		now:             time.Now,
		idleTTL:         DefaultIdleTTL,
		cleanupInterval: DefaultCleanupInterval,
		workspaces:      make(map[string]*Workspace),
		stopCleanup:     make(chan struct{}),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	go m.startCleanup()
	return m
}

// Get returns the workspace for id, creating a default-seeded one on first use.
func (m *Manager) Get(id string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.workspaces[id]; ok {
		ws.Touch()
		return ws
	}

	ws := New(id, m.releaser, WithOnChange(m.publishChange), WithClock(m.now))
	m.workspaces[id] = ws
	m.logger.Debug("Workspace created", "workspace_id", id)
	return ws
}

// Lookup returns the workspace for id without creating one.
func (m *Manager) Lookup(id string) (*Workspace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[id]
	return ws, ok
}

// Len returns the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// Each calls fn for every live workspace. fn must not call back into m.
func (m *Manager) Each(fn func(*Workspace)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ws := range m.workspaces {
		fn(ws)
	}
}

// EvictIdle closes and forgets every workspace idle for longer than the TTL.
// It returns how many were evicted.
func (m *Manager) EvictIdle() int {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var stale []*Workspace
	for id, ws := range m.workspaces {
		snap := ws.Snapshot()
		if snap.Generating {
			continue
		}
		if ws.IdleSince().Before(cutoff) {
			stale = append(stale, ws)
			delete(m.workspaces, id)
		}
	}
	m.mu.Unlock()

	for _, ws := range stale {
		ws.Close()
		m.logger.Info("Evicted idle workspace", "workspace_id", ws.ID())
	}
	return len(stale)
}

func (m *Manager) startCleanup() {
	defer close(m.done)
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.EvictIdle()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) publishChange(snap domain.Snapshot, reason string) {
	if m.publisher == nil {
		return
	}
	event := ChangedEvent{WorkspaceID: snap.WorkspaceID, Version: snap.Version, Reason: reason}
	if err := pubsub.Publish(context.Background(), m.publisher, TopicChanged, snap.WorkspaceID, event); err != nil {
		m.logger.Warn("Failed to publish workspace change", "workspace_id", snap.WorkspaceID, "error", err)
	}
}

// Shutdown stops the sweeper and releases every workspace.
func (m *Manager) Shutdown() {
	m.stopOnce.Do(func() {
		close(m.stopCleanup)
		<-m.done

		m.mu.Lock()
		all := make([]*Workspace, 0, len(m.workspaces))
		for _, ws := range m.workspaces {
			all = append(all, ws)
		}
		m.workspaces = make(map[string]*Workspace)
		m.mu.Unlock()

		for _, ws := range all {
			ws.Close()
		}
		m.logger.Info("Workspace manager stopped", "released", len(all))
	})
}
