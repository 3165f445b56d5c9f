package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_FallsBackToClientIP(t *testing.T) {
	e := echo.New()
	limit := RateLimit{Every: time.Hour, Burst: 2}
	e.POST("/images/ai", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RateLimiter(limit))

	post := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/images/ai", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < limit.Burst; i++ {
		require.Equal(t, http.StatusNoContent, post("192.0.2.2:1234").Code, "request %d", i+1)
	}
	rec := post("192.0.2.2:5678")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "port does not matter")
	assert.Contains(t, rec.Body.String(), "Too many requests")

	assert.Equal(t, http.StatusNoContent, post("192.0.2.3:1234").Code)
}

func TestRateLimiter_KeysOnWorkspace(t *testing.T) {
	e := echo.New()
	a := workspace.New("a", nil)
	b := workspace.New("b", nil)

	pick := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.QueryParam("ws") == "a" {
				c.Set(WorkspaceContextKey, a)
			} else {
				c.Set(WorkspaceContextKey, b)
			}
			return next(c)
		}
	}
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, pick, RateLimiter(RateLimit{Every: time.Hour, Burst: 1}))

	do := func(ws string) int {
		req := httptest.NewRequest(http.MethodGet, "/?ws="+ws, nil)
		req.RemoteAddr = "192.0.2.9:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusTooManyRequests, do("a"))
	assert.Equal(t, http.StatusOK, do("b"), "same IP, different workspace")
}
