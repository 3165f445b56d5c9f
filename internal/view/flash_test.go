package view_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/instagrid/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionContext returns a context that has been through the session
// middleware, so flash helpers can find their session.
func sessionContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	store := sessions.NewCookieStore([]byte("flash-test-secret-0123456789abcd"))

	var c echo.Context
	h := session.Middleware(store)(func(ctx echo.Context) error { c = ctx; return nil })
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())))
	return c
}

func TestFlash_DrainsInOrder(t *testing.T) {
	c := sessionContext(t)

	view.SetFlashNotice(c, "Export target missing")
	view.SetFlashError(c, "Upload failed: a:b")

	got := view.GetFlashData(c)
	assert.Equal(t, view.FlashData{
		{Level: view.FlashNotice, Text: "Export target missing"},
		{Level: view.FlashError, Text: "Upload failed: a:b"},
	}, got)

	assert.True(t, view.GetFlashData(c).Empty(), "messages are shown once")
}

func TestFlash_NothingQueued(t *testing.T) {
	assert.Nil(t, view.GetFlashData(sessionContext(t)))
}

func TestFlashPartial(t *testing.T) {
	var sb strings.Builder
	data := view.FlashData{
		{Level: view.FlashNotice, Text: "Nothing to export <yet>"},
		{Level: view.FlashError, Text: "boom"},
	}
	require.NoError(t, view.FlashPartial(data).Render(context.Background(), &sb))

	html := sb.String()
	assert.Contains(t, html, "Nothing to export &lt;yet&gt;")
	assert.Contains(t, html, `role="status" class="border rounded px-3 py-2 text-sm bg-blue-50`)
	assert.Contains(t, html, `role="alert" class="border rounded px-3 py-2 text-sm bg-red-50`)
	assert.Less(t, strings.Index(html, "Nothing"), strings.Index(html, "boom"))

	sb.Reset()
	require.NoError(t, view.FlashPartial(nil).Render(context.Background(), &sb))
	assert.Empty(t, sb.String())
}
