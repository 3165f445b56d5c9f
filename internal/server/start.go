package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nfrund/instagrid/internal/live"
	"github.com/nfrund/instagrid/internal/pubsub"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/samber/do/v2"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until an interrupt, then shuts down gracefully.
func (s *Server) Start() error {
	errc := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", s.Cfg.Addr)
		if err := s.E.Start(s.Cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	startErr := waitForShutdown(errc)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return errors.Join(startErr, err)
	}
	return startErr
}

// Shutdown stops the server in dependency order: no new requests, then the
// modules, the live clients, the workspaces and finally the event bus.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}

	for _, m := range s.modules {
		if err := m.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("module %s: %w", m.Name(), err))
		}
	}

	if hub, err := do.Invoke[*live.Hub](s.injector); err == nil {
		hub.Shutdown()
	}
	if manager, err := do.Invoke[*workspace.Manager](s.injector); err == nil {
		manager.Shutdown()
	}
	if bus, err := do.Invoke[*pubsub.WatermillBridge](s.injector); err == nil {
		if err := bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}

	slog.Info("Server stopped")
	return errors.Join(errs...)
}
