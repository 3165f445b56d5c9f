package rendering

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

func TestRenderComponent(t *testing.T) {
	r := NewUniversalRenderer()

	out, err := r.RenderComponent(context.Background(), g.P(cmp.Text("hi")))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(out))

	out, err = r.RenderComponent(context.Background(), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<b>templ</b>")
		return err
	}))
	require.NoError(t, err)
	assert.Equal(t, "<b>templ</b>", string(out))

	_, err = r.RenderComponent(context.Background(), 42)
	assert.ErrorContains(t, err, "cannot render int")
}

func TestRenderPage(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, NewUniversalRenderer().RenderPage(c, http.StatusAccepted, g.Div(cmp.Text("ok"))))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "<div>ok</div>", rec.Body.String())
}

func TestRenderPage_MarksResponseUncacheable(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, NewUniversalRenderer().RenderPage(c, http.StatusOK, g.Div()))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "HX-Request", rec.Header().Get(echo.HeaderVary))
}

func TestRenderPage_FailureWritesNothing(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := NewUniversalRenderer().RenderPage(c, http.StatusOK, nil)
	require.Error(t, err)
	assert.False(t, c.Response().Committed)
	assert.Empty(t, rec.Body.String())
}
