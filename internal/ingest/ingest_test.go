package ingest

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/nfrund/instagrid/internal/resource"
	"github.com/nfrund/instagrid/internal/storage"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// The ingestor fans out with errgroup; every worker must be gone when a call
// returns.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newPool() *resource.Pool {
	return resource.NewPool(storage.NewAferoStore(afero.NewMemMapFs()))
}

// formFiles builds real multipart file headers for the given contents.
func formFiles(t *testing.T, contents ...string) []*multipart.FileHeader {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for i, c := range contents {
		part, err := w.CreateFormFile("files", string(rune('a'+i))+".jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte(c))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["files"]
}

type brokenOpener struct{}

func (brokenOpener) Open() (multipart.File, error) { return nil, errors.New("disk gone") }

func TestImages_PreservesSelectionOrder(t *testing.T) {
	pool := newPool()
	ws := workspace.New("ws", pool)
	ctx := context.Background()

	n, err := New(pool, 2).Images(ctx, ws, formFiles(t, "first", "second", "third"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	snap := ws.Snapshot()
	require.Len(t, snap.Images, 3)
	for i, want := range []string{"first", "second", "third"} {
		got, err := pool.ReadAll(ctx, snap.Images[i].Handle)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
	assert.Equal(t, uint64(1), snap.Version, "a batch is a single transition")
}

func TestImages_EmptySelectionIsNoop(t *testing.T) {
	pool := newPool()
	ws := workspace.New("ws", pool)

	n, err := New(pool, 0).Images(context.Background(), ws, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, ws.Snapshot().Version)
}

func TestImages_FailureLeavesWorkspaceUntouched(t *testing.T) {
	pool := newPool()
	ws := workspace.New("ws", pool)
	files := formFiles(t, "ok-1", "ok-2")

	openers := []Opener{files[0], brokenOpener{}, files[1]}
	_, err := New(pool, 1).ImagesFrom(context.Background(), ws, openers)

	require.Error(t, err)
	assert.Empty(t, ws.Snapshot().Images)
	assert.Zero(t, pool.Len(), "handles from the failed batch are released")
}

func TestAvatarAndHighlightCover(t *testing.T) {
	pool := newPool()
	ws := workspace.New("ws", pool)
	ing := New(pool, 1)
	ctx := context.Background()

	files := formFiles(t, "avatar-1", "avatar-2", "cover")
	require.NoError(t, ing.Avatar(ctx, ws, files[0]))
	first := ws.Snapshot().Profile.Avatar
	require.NoError(t, ing.Avatar(ctx, ws, files[1]))

	assert.False(t, pool.Live(first), "replaced avatar is released")
	assert.True(t, pool.Live(ws.Snapshot().Profile.Avatar))

	require.NoError(t, ing.HighlightCover(ctx, ws, 3, files[2]))
	cover := ws.Snapshot().Profile.Highlights[3].Cover
	got, err := pool.ReadAll(ctx, cover)
	require.NoError(t, err)
	assert.Equal(t, "cover", string(got))

	require.NoError(t, ing.Avatar(ctx, ws, nil))
	assert.Equal(t, 2, pool.Len())
}

var _ Target = (*workspace.Workspace)(nil)
var _ Allocator = (*resource.Pool)(nil)
