package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/instagrid/internal/middleware"
)

// setupErrorHandling installs the HTTP error handler. Errors that are not
// echo.HTTPErrors are unexpected: they are logged with a stack trace and
// answered with a bare 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		logger := middleware.FromContext(c.Request().Context())

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Internal != nil {
				logger.Warn("Request failed", "status", he.Code, "error", he.Internal)
			}
			if c.Request().Header.Get("HX-Request") == "true" {
				// htmx ignores error bodies, so surface the message as an event.
				trigger, _ := json.Marshal(map[string]string{"notice": fmt.Sprint(he.Message)})
				c.Response().Header().Set("HX-Trigger", string(trigger))
			}
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		logger.Error("Internal Server Error (Unhandled)",
			"error", err,
			"stack_trace", string(debug.Stack()),
		)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(http.StatusInternalServerError)
			return
		}
		_ = c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
