package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// DefaultGenerationRate allows one AI fill every six seconds per session with
// a burst of three.
var DefaultGenerationRate = RateLimit{Every: 6 * time.Second, Burst: 3}

// RateLimit describes a token bucket.
type RateLimit struct {
	Every time.Duration
	Burst int
}

// RateLimiter limits requests per planning session, falling back to the
// client's real IP before the session middleware has run.
func RateLimiter(limit RateLimit) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		// NewRateLimiterMemoryStore is a simple in-memory store suitable for single-instance deployments.
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Every(limit.Every),
			Burst:     limit.Burst,
			ExpiresIn: 10 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if ws, ok := WorkspaceFrom(c); ok {
				return "ws:" + ws.ID(), nil
			}
			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "identifier", identifier)
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
