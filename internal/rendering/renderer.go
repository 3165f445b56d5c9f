// Package rendering turns view components into HTML responses.
package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer renders templ components and gomponents nodes.
type Renderer interface {
	RenderComponent(ctx context.Context, component any) ([]byte, error)
	// RenderPage writes component as the full response body.
	RenderPage(c echo.Context, status int, component any) error
}

// UniversalRenderer accepts templ.Component and anything with a
// gomponents-style Render(io.Writer) method.
type UniversalRenderer struct{}

func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

type writerNode interface {
	Render(w io.Writer) error
}

func (r *UniversalRenderer) write(ctx context.Context, w io.Writer, component any) error {
	switch node := component.(type) {
	case templ.Component:
		return node.Render(ctx, w)
	case writerNode:
		return node.Render(w)
	case nil:
		return fmt.Errorf("nil component")
	default:
		return fmt.Errorf("cannot render %T", component)
	}
}

func (r *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.write(ctx, &buf, component); err != nil {
		return nil, fmt.Errorf("render component: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage buffers the whole body before writing, so a failing component
// leaves the response untouched for the error handler. Pages and fragments
// share URLs and always reflect live workspace state, so responses are
// marked uncacheable and vary on HX-Request.
func (r *UniversalRenderer) RenderPage(c echo.Context, status int, component any) error {
	body, err := r.RenderComponent(c.Request().Context(), component)
	if err != nil {
		return err
	}
	h := c.Response().Header()
	h.Set("Cache-Control", "no-store")
	h.Add(echo.HeaderVary, "HX-Request")
	return c.HTMLBlob(status, body)
}
