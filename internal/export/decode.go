package export

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/nfrund/instagrid/internal/domain"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// loadImages decodes every image the snapshot references. Handles that cannot
// be read or decoded map to nil and render as placeholders.
func (e *Exporter) loadImages(ctx context.Context, snap domain.Snapshot) (map[domain.ResourceHandle]image.Image, error) {
	seen := make(map[domain.ResourceHandle]bool)
	var handles []domain.ResourceHandle
	for _, h := range snap.Handles() {
		if !h.IsZero() && !seen[h] {
			seen[h] = true
			handles = append(handles, h)
		}
	}

	var mu sync.Mutex
	out := make(map[domain.ResourceHandle]image.Image, len(handles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, h := range handles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img := e.decode(gctx, h)
			mu.Lock()
			out[h] = img
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Exporter) decode(ctx context.Context, h domain.ResourceHandle) image.Image {
	data, err := e.src.ReadAll(ctx, h)
	if err != nil {
		e.logger.Warn("Image unavailable for export", "handle", h, "error", err)
		return nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		e.logger.Warn("Image could not be decoded for export", "handle", h, "error", err)
		return nil
	}
	e.logger.Debug("Image decoded for export", "handle", h, "format", format)
	return img
}
