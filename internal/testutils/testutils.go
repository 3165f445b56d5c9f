// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/nfrund/instagrid/internal/config"
	"github.com/nfrund/instagrid/internal/resource"
	"github.com/nfrund/instagrid/internal/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// testEnv pins every setting the config reads so a developer's shell or
// .env file cannot leak into tests.
var testEnv = map[string]string{
	"ADDR":                       "127.0.0.1:0",
	"SESSION_SECRET":             "test-session-secret-test-session",
	"LOG_FORMAT":                 "text",
	"LOG_LEVEL":                  "error",
	"GEMINI_API_KEY":             "",
	"API_KEY":                    "",
	"GEMINI_BASE_URL":            "",
	"STORAGE_DIR":                "",
	"MAX_UPLOAD_BYTES":           "1048576",
	"WORKSPACE_IDLE_TTL_MINUTES": "120",
	"EXPORT_FILENAME":            "insta-grid-preview",
}

// ConfigForTests returns a config built from a fixed test environment: no
// Gemini key, in-memory storage and a 1 MiB upload limit.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	// Use t.Setenv to set the environment variables for this test.
	// This is the idiomatic and safest way to handle test environments.
	for key, value := range testEnv {
		t.Setenv(key, value)
	}
	return config.FromEnv()
}

// MemPool returns a resource pool backed by an in-memory filesystem.
func MemPool() *resource.Pool {
	return resource.NewPool(storage.NewAferoStore(afero.NewMemMapFs()))
}

// PNG encodes a w×h image filled with c.
func PNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
