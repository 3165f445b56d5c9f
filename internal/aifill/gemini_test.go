package aifill

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGemini(t *testing.T, respond func(w http.ResponseWriter, body map[string]any)) (*httptest.Server, *string) {
	t.Helper()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		respond(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &gotPath
}

func newTestGenerator(t *testing.T, baseURL string) *GeminiGenerator {
	t.Helper()
	gen, err := NewGeminiGenerator(context.Background(), GeminiOptions{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		APIVersion: "v1beta",
		HTTPClient: http.DefaultClient,
	})
	require.NoError(t, err)
	return gen
}

func TestGeminiGenerator_ReturnsInlineImage(t *testing.T) {
	img := squarePNG(t)
	srv, path := fakeGemini(t, func(w http.ResponseWriter, body map[string]any) {
		cfg, _ := body["generationConfig"].(map[string]any)
		imgCfg, _ := cfg["imageConfig"].(map[string]any)
		assert.Equal(t, "1:1", imgCfg["aspectRatio"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[`+
			`{"text":"here you go"},`+
			`{"inlineData":{"mimeType":"image/png","data":"`+base64.StdEncoding.EncodeToString(img)+`"}}]}}]}`)
	})

	data, err := newTestGenerator(t, srv.URL).Generate(context.Background(), Prompt(""))

	require.NoError(t, err)
	assert.Equal(t, img, data)
	assert.True(t, strings.HasSuffix(*path, "/models/gemini-2.5-flash-image:generateContent"), *path)
}

func TestGeminiGenerator_NoImagePart(t *testing.T) {
	srv, _ := fakeGemini(t, func(w http.ResponseWriter, body map[string]any) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"sorry"}]}}]}`)
	})

	_, err := newTestGenerator(t, srv.URL).Generate(context.Background(), "x")
	assert.ErrorIs(t, err, errNoImage)
}

func TestGeminiGenerator_UpstreamError(t *testing.T) {
	srv, _ := fakeGemini(t, func(w http.ResponseWriter, body map[string]any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)
	})

	_, err := newTestGenerator(t, srv.URL).Generate(context.Background(), "x")
	assert.Error(t, err)
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), GeminiOptions{})
	assert.Error(t, err)
}
