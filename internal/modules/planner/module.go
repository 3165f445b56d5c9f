// Package planner is the profile feed planner: the page, its htmx
// fragments, uploads, AI fill, export and live refresh.
package planner

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/instagrid/internal/aifill"
	"github.com/nfrund/instagrid/internal/config"
	"github.com/nfrund/instagrid/internal/export"
	"github.com/nfrund/instagrid/internal/ingest"
	"github.com/nfrund/instagrid/internal/live"
	"github.com/nfrund/instagrid/internal/middleware"
	"github.com/nfrund/instagrid/internal/module"
	"github.com/nfrund/instagrid/internal/pubsub"
	"github.com/nfrund/instagrid/internal/rendering"
	"github.com/nfrund/instagrid/internal/resource"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/samber/do/v2"
)

// Dependencies holds the services the planner needs.
type Dependencies struct {
	Config     *config.Config
	Manager    *workspace.Manager
	Pool       *resource.Pool
	Ingestor   *ingest.Ingestor
	AI         *aifill.Service
	Exporter   *export.Exporter
	Renderer   rendering.Renderer
	Hub        *live.Hub
	Subscriber pubsub.Subscriber
}

// Module serves the planner.
type Module struct {
	deps    Dependencies
	handler *Handler
	cancel  context.CancelFunc
}

var _ module.Module = (*Module)(nil)

// New creates the planner module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the unique name for the module.
func (m *Module) Name() string {
	return "planner"
}

// Register provides the planner handler to the injector.
func (m *Module) Register(i do.Injector) error {
	m.handler = NewHandler(m.deps)
	do.ProvideValue(i, m.handler)
	return nil
}

// Boot starts forwarding workspace changes to websocket clients and mounts
// the routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, i do.Injector) error {
	if m.handler == nil {
		m.handler = NewHandler(m.deps)
	}

	if m.deps.Subscriber != nil {
		listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		m.cancel = cancel
		if err := m.deps.Hub.Listen(listenCtx, m.deps.Subscriber); err != nil {
			cancel()
			return err
		}
	}

	slog.Info("Booting planner module: Setting up routes...")
	Routes(g, m.handler, m.deps.Manager)
	return nil
}

// Shutdown stops the change listener.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}

// Routes mounts the planner endpoints on g.
func Routes(g *echo.Group, h *Handler, workspaces middleware.WorkspaceProvider) {
	ws := middleware.Workspace(workspaces)

	g.GET("/", h.Page, ws)
	g.GET("/fragments/app", h.AppFragment, ws)
	g.GET("/fragments/preview", h.PreviewFragment, ws)

	g.POST("/images", h.AddImages, ws)
	g.DELETE("/images/:id", h.RemoveImage, ws)
	g.POST("/images/clear", h.ClearImages, ws)
	g.POST("/images/ai", h.AIFill, ws, middleware.RateLimiter(middleware.DefaultGenerationRate))

	g.POST("/spacing", h.SetSpacing, ws)
	g.POST("/profile", h.SetProfileField, ws)
	g.POST("/profile/avatar", h.SetAvatar, ws)
	g.POST("/highlights/:index/cover", h.SetHighlightCover, ws)
	g.POST("/highlights/:index/title", h.SetHighlightTitle, ws)
	g.POST("/mode", h.SetMode, ws)

	g.GET("/export", h.Export, ws)
	g.GET("/resources/:handle", h.Resource, ws)
	g.GET("/live", h.Live, ws)
}
