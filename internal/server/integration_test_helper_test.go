package server_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nfrund/instagrid/internal/server"
	"github.com/nfrund/instagrid/internal/testutils"
	"github.com/stretchr/testify/require"
)

// setupIntegrationTest encapsulates the boilerplate for setting up a full server
// instance for integration testing. The server runs without a Gemini key and
// keeps resources in memory.
func setupIntegrationTest(t *testing.T) (*server.Server, *httptest.Server) {
	t.Helper()

	cfg := testutils.ConfigForTests(t)

	s, err := server.New(context.Background(), cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(s.E)
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s, ts
}

// newClient returns an HTTP client that keeps cookies and does not follow
// redirects, like a browser tab we can inspect.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar:     jar,
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// htmxPost sends a form post the way htmx does.
func htmxPost(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

// cookieHeader renders the jar's cookies for base as a Cookie header.
func cookieHeader(client *http.Client, base string) http.Header {
	u, _ := url.Parse(base)
	h := http.Header{}
	for _, c := range client.Jar.Cookies(u) {
		h.Add("Cookie", c.String())
	}
	return h
}
