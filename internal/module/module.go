// Package module defines how features plug into the server.
package module

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
)

// Module is one feature of the server. The server calls Register on every
// module before it calls Boot on any of them, and calls Shutdown in
// registration order once the HTTP listener has stopped.
type Module interface {
	Name() string

	// Register adds the module's own services to the injector.
	Register(i do.Injector) error

	// Boot mounts routes on router and starts background work. Work started
	// here must outlive ctx and end in Shutdown.
	Boot(ctx context.Context, router *echo.Group, i do.Injector) error

	Shutdown(ctx context.Context) error
}
