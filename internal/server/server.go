package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/instagrid/internal/app"
	"github.com/nfrund/instagrid/internal/config"
	"github.com/nfrund/instagrid/internal/middleware"
	"github.com/nfrund/instagrid/internal/module"
	"github.com/nfrund/instagrid/web"
	"github.com/samber/do/v2"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      *config.Config
	injector do.Injector
	modules  []module.Module
}

// New builds the echo instance, resolves the services and boots every
// module. ctx bounds the lifetime of background work started during boot.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	setupErrorHandling(e)

	// Serve static files from the embedded "web/static" directory.
	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	s := &Server{
		E:        e,
		Cfg:      cfg,
		injector: app.NewInjector(ctx, cfg),
	}

	mods, err := app.NewModules(s.injector)
	if err != nil {
		return nil, fmt.Errorf("resolve modules: %w", err)
	}
	s.modules = mods

	if err := s.bootModules(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Injector exposes the service container, useful for testing.
func (s *Server) Injector() do.Injector {
	return s.injector
}

func (s *Server) bootModules(ctx context.Context) error {
	for _, m := range s.modules {
		if err := m.Register(s.injector); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}

	root := s.E.Group("")
	for _, m := range s.modules {
		if err := m.Boot(ctx, root, s.injector); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		slog.Info("Module booted", "module", m.Name())
	}
	return nil
}
