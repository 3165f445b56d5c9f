package aifill

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/resource"
	"github.com/nfrund/instagrid/internal/storage"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls   atomic.Int32
	data    []byte
	err     error
	prompts chan string
	release chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	f.calls.Add(1)
	if f.prompts != nil {
		f.prompts <- prompt
	}
	if f.release != nil {
		<-f.release
	}
	return f.data, f.err
}

func squarePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{B: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func setup() (*resource.Pool, *workspace.Workspace) {
	pool := resource.NewPool(storage.NewAferoStore(afero.NewMemMapFs()))
	return pool, workspace.New("ws", pool)
}

func TestPrompt(t *testing.T) {
	assert.Equal(t,
		"A high-quality, professional, minimalist aesthetic instagram photo. Minimalist, clean composition, trending on social media. Do not include text. Square aspect ratio.",
		Prompt(""))
	assert.Contains(t, Prompt("  moody film  "), "professional, moody film instagram photo.")
}

func TestFill_Success(t *testing.T) {
	pool, ws := setup()
	ws.AddImages("existing")
	gen := &fakeGenerator{data: squarePNG(t)}
	svc := NewService(gen, pool)

	require.NoError(t, svc.Fill(context.Background(), ws, ""))

	snap := ws.Snapshot()
	require.Len(t, snap.Images, 2)
	last := snap.Images[1]
	assert.True(t, last.AIGenerated)
	assert.True(t, pool.Live(last.Handle))
	assert.False(t, snap.Generating)
	assert.Empty(t, snap.Error)
}

func TestFill_MissingConfiguration(t *testing.T) {
	pool, ws := setup()
	svc := NewService(nil, pool)

	err := svc.Fill(context.Background(), ws, "")

	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
	assert.False(t, svc.Configured())
	snap := ws.Snapshot()
	assert.Equal(t, domain.MsgConfigurationMissing, snap.Error)
	assert.Empty(t, snap.Images)
	assert.False(t, snap.Generating)
}

func TestFill_FailuresLeaveListUnchanged(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"upstream error":  {err: errors.New("503 from upstream")},
		"no image":        {err: errNoImage},
		"garbage payload": {data: []byte("definitely not an image")},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			pool, ws := setup()
			ws.AddImages("a")
			before := ws.Snapshot().Images

			err := NewService(gen, pool).Fill(context.Background(), ws, "warm")

			assert.ErrorIs(t, err, domain.ErrGenerationFailed)
			snap := ws.Snapshot()
			assert.Equal(t, before, snap.Images)
			assert.Equal(t, domain.MsgGenerationFailed, snap.Error)
			assert.False(t, snap.Generating)
			assert.Zero(t, pool.Len(), "no handle is allocated for a failed fill")
		})
	}
}

func TestFill_ClearsPreviousError(t *testing.T) {
	pool, ws := setup()
	ws.SetError(domain.MsgGenerationFailed)

	require.NoError(t, NewService(&fakeGenerator{data: squarePNG(t)}, pool).Fill(context.Background(), ws, ""))
	assert.Empty(t, ws.Snapshot().Error)
}

func TestFill_SingleFlightPerWorkspace(t *testing.T) {
	pool, ws := setup()
	gen := &fakeGenerator{
		data:    squarePNG(t),
		prompts: make(chan string, 2),
		release: make(chan struct{}),
	}
	svc := NewService(gen, pool)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = svc.Fill(context.Background(), ws, "")
	}()

	select {
	case <-gen.prompts:
	case <-time.After(2 * time.Second):
		t.Fatal("first fill never reached the generator")
	}
	assert.True(t, ws.Snapshot().Generating)

	// Edits and removals stay available while busy.
	ws.SetProfileField(domain.FieldDisplayName, "Busy Bee")

	err := svc.Fill(context.Background(), ws, "")
	assert.ErrorIs(t, err, domain.ErrGenerationInProgress)
	assert.Equal(t, int32(1), gen.calls.Load(), "no second upstream call")

	close(gen.release)
	wg.Wait()
	require.NoError(t, firstErr)

	snap := ws.Snapshot()
	assert.Len(t, snap.Images, 1)
	assert.Equal(t, "Busy Bee", snap.Profile.DisplayName)
	assert.False(t, snap.Generating)
}

func TestFill_SurvivesClientCancellation(t *testing.T) {
	pool, ws := setup()
	gen := &fakeGenerator{data: squarePNG(t)}
	svc := NewService(gen, pool, WithTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, svc.Fill(ctx, ws, ""))
	assert.Len(t, ws.Snapshot().Images, 1)
}
