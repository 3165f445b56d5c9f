package middleware

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

type contextKey string

const loggerKey = contextKey("logger")

// Logger is a middleware that injects a request-scoped logger into the context.
// This logger is pre-configured with the request ID from the RequestID middleware,
// so it must be placed after it in the chain.
func Logger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := c.Response().Header().Get(echo.HeaderXRequestID)
		requestLogger := slog.Default().With(
			"request_id", reqID,
			"method", c.Request().Method,
			"path", c.Path(),
		)
		setLogger(c, requestLogger)
		return next(c)
	}
}

// setLogger replaces the request-scoped logger.
func setLogger(c echo.Context, l *slog.Logger) {
	ctx := context.WithValue(c.Request().Context(), loggerKey, l)
	c.SetRequest(c.Request().WithContext(ctx))
}

// FromContext returns the request-scoped logger, or the default logger when
// the request did not pass through Logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
