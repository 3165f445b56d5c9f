package resource

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newPool() (*Pool, afero.Fs) {
	fs := afero.NewMemMapFs()
	return NewPool(storage.NewAferoStore(fs)), fs
}

func TestPool_AllocateSniffsMIME(t *testing.T) {
	pool, _ := newPool()
	ctx := context.Background()
	data := pngBytes(t)

	h, err := pool.AllocateBytes(ctx, data)
	require.NoError(t, err)
	assert.False(t, h.IsZero())

	res, err := pool.Stat(h)
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MIMEType)
	assert.Equal(t, int64(len(data)), res.Size)

	got, err := pool.ReadAll(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestPool_LargeUploadRoundTrips(t *testing.T) {
	pool, _ := newPool()
	ctx := context.Background()
	payload := strings.Repeat("0123456789", 2000)

	h, err := pool.Allocate(ctx, strings.NewReader(payload))
	require.NoError(t, err)

	rc, res, err := pool.Open(ctx, h)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
	assert.Equal(t, "text/plain; charset=utf-8", res.MIMEType)
}

func TestPool_ReleaseFreesBytes(t *testing.T) {
	pool, fs := newPool()
	ctx := context.Background()

	h, err := pool.AllocateBytes(ctx, pngBytes(t))
	require.NoError(t, err)
	res, err := pool.Stat(h)
	require.NoError(t, err)

	require.NoError(t, pool.Release(ctx, h))
	assert.False(t, pool.Live(h))
	assert.Equal(t, 0, pool.Len())

	exists, err := afero.Exists(fs, res.StoragePath)
	require.NoError(t, err)
	assert.False(t, exists)

	_, _, err = pool.Open(ctx, h)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, pool.Release(ctx, h), "double release is a no-op")
}

func TestPool_DistinctHandles(t *testing.T) {
	pool, _ := newPool()
	ctx := context.Background()

	a, err := pool.AllocateBytes(ctx, []byte("a"))
	require.NoError(t, err)
	b, err := pool.AllocateBytes(ctx, []byte("a"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, pool.Len())
}
