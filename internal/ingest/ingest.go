// Package ingest turns uploaded files into resource handles and hands them
// to a workspace in a single state transition.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/nfrund/instagrid/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Allocator stores bytes and hands out a handle for them.
type Allocator interface {
	Allocate(ctx context.Context, r io.Reader) (domain.ResourceHandle, error)
	Release(ctx context.Context, h domain.ResourceHandle) error
}

// Target is the part of a workspace ingestion writes to.
type Target interface {
	AddImages(handles ...domain.ResourceHandle)
	SetAvatar(h domain.ResourceHandle)
	SetHighlightCover(i int, h domain.ResourceHandle)
}

// Opener is anything that can be opened for reading, typically a
// *multipart.FileHeader.
type Opener interface {
	Open() (multipart.File, error)
}

// Ingestor stores uploads concurrently while preserving selection order.
type Ingestor struct {
	alloc       Allocator
	concurrency int
	logger      *slog.Logger
}

// New creates an Ingestor storing at most concurrency files at once.
func New(alloc Allocator, concurrency int) *Ingestor {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Ingestor{
		alloc:       alloc,
		concurrency: concurrency,
		logger:      slog.Default().With("service", "ingest"),
	}
}

// Images stores every file and appends them to ws in selection order.
// An empty selection changes nothing. If any file fails, the handles already
// allocated by this call are released and ws is left untouched.
func (i *Ingestor) Images(ctx context.Context, ws Target, files []*multipart.FileHeader) (int, error) {
	openers := make([]Opener, len(files))
	for idx, f := range files {
		openers[idx] = f
	}
	return i.ImagesFrom(ctx, ws, openers)
}

// ImagesFrom is Images over arbitrary openers.
func (i *Ingestor) ImagesFrom(ctx context.Context, ws Target, files []Opener) (int, error) {
	if len(files) == 0 {
		return 0, nil
	}

	handles := make([]domain.ResourceHandle, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for idx, f := range files {
		g.Go(func() error {
			h, err := i.store(gctx, f)
			if err != nil {
				return fmt.Errorf("file %d: %w", idx, err)
			}
			handles[idx] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, h := range handles {
			if !h.IsZero() {
				_ = i.alloc.Release(context.WithoutCancel(ctx), h)
			}
		}
		i.logger.Warn("Image batch rejected", "files", len(files), "error", err)
		return 0, err
	}

	ws.AddImages(handles...)
	i.logger.Debug("Image batch ingested", "files", len(files))
	return len(handles), nil
}

// Avatar replaces the avatar with file. A nil file is a no-op.
func (i *Ingestor) Avatar(ctx context.Context, ws Target, file Opener) error {
	if file == nil {
		return nil
	}
	h, err := i.store(ctx, file)
	if err != nil {
		return err
	}
	ws.SetAvatar(h)
	return nil
}

// HighlightCover replaces the cover of highlight index with file. A nil file
// is a no-op.
func (i *Ingestor) HighlightCover(ctx context.Context, ws Target, index int, file Opener) error {
	if file == nil {
		return nil
	}
	h, err := i.store(ctx, file)
	if err != nil {
		return err
	}
	ws.SetHighlightCover(index, h)
	return nil
}

func (i *Ingestor) store(ctx context.Context, f Opener) (domain.ResourceHandle, error) {
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return i.alloc.Allocate(ctx, src)
}
