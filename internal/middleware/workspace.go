package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/instagrid/internal/workspace"
)

const (
	// WorkspaceSessionName is the cookie session holding the workspace id.
	WorkspaceSessionName = "planner-session"
	// WorkspaceContextKey is the echo context key of the resolved workspace.
	WorkspaceContextKey = "workspace"

	workspaceIDKey = "workspace_id"
)

// WorkspaceProvider returns the workspace for an id, creating it if needed.
type WorkspaceProvider interface {
	Get(id string) *workspace.Workspace
}

// Workspace resolves the caller's planning workspace from the session cookie,
// starting a fresh one when the cookie is missing, unreadable or stale. It
// must run after the session middleware.
func Workspace(p WorkspaceProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger := FromContext(c.Request().Context())

			sess, err := session.Get(WorkspaceSessionName, c)
			if err != nil {
				// A cookie signed with an old secret decodes with an error but
				// still yields a usable new session.
				logger.Debug("Discarding unreadable planner session", "error", err)
			}
			if sess == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
			}

			id, _ := sess.Values[workspaceIDKey].(string)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				sess.Values[workspaceIDKey] = id
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					return err
				}
				logger.Info("Started planning workspace", "workspace_id", id)
			}

			ws := p.Get(id)
			c.Set(WorkspaceContextKey, ws)
			setLogger(c, logger.With("workspace_id", id))

			return next(c)
		}
	}
}

// WorkspaceFrom returns the workspace resolved by the Workspace middleware.
func WorkspaceFrom(c echo.Context) (*workspace.Workspace, bool) {
	ws, ok := c.Get(WorkspaceContextKey).(*workspace.Workspace)
	return ws, ok && ws != nil
}
