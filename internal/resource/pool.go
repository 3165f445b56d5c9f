// Package resource binds opaque handles to uploaded image bytes.
package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/storage"
)

// sniffLen is how much of the head of an upload is buffered for MIME detection.
const sniffLen = 3072

// Pool hands out resource handles for stored bytes and frees them on release.
type Pool struct {
	store  storage.Store
	logger *slog.Logger

	mu    sync.RWMutex
	items map[domain.ResourceHandle]domain.Resource
}

// NewPool creates a pool storing bytes in store.
func NewPool(store storage.Store) *Pool {
	return &Pool{
		store:  store,
		logger: slog.Default().With("service", "resource-pool"),
		items:  make(map[domain.ResourceHandle]domain.Resource),
	}
}

// Allocate stores everything read from r and returns a new live handle.
func (p *Pool) Allocate(ctx context.Context, r io.Reader) (domain.ResourceHandle, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	id := uuid.NewString()
	res := domain.Resource{
		Handle:      domain.ResourceHandle(id),
		MIMEType:    mimetype.Detect(head).String(),
		StoragePath: path.Join("resources", id[:2], id),
		CreatedAt:   time.Now().UTC(),
	}

	size, err := p.store.Save(ctx, res.StoragePath, io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return "", fmt.Errorf("store resource: %w", err)
	}
	res.Size = size

	if err := res.Validate(); err != nil {
		_ = p.store.Delete(ctx, res.StoragePath)
		return "", fmt.Errorf("invalid resource: %w", err)
	}

	p.mu.Lock()
	p.items[res.Handle] = res
	p.mu.Unlock()

	p.logger.Debug("Resource allocated", "handle", res.Handle, "mime", res.MIMEType, "size", res.Size)
	return res.Handle, nil
}

// AllocateBytes is Allocate for an in-memory buffer.
func (p *Pool) AllocateBytes(ctx context.Context, b []byte) (domain.ResourceHandle, error) {
	return p.Allocate(ctx, bytes.NewReader(b))
}

// Stat returns the metadata of a live handle.
func (p *Pool) Stat(h domain.ResourceHandle) (domain.Resource, error) {
	p.mu.RLock()
	res, ok := p.items[h]
	p.mu.RUnlock()
	if !ok {
		return domain.Resource{}, fmt.Errorf("handle %q: %w", h, domain.ErrNotFound)
	}
	return res, nil
}

// Open returns a reader over the bytes of a live handle.
func (p *Pool) Open(ctx context.Context, h domain.ResourceHandle) (io.ReadCloser, domain.Resource, error) {
	res, err := p.Stat(h)
	if err != nil {
		return nil, res, err
	}
	rc, err := p.store.Open(ctx, res.StoragePath)
	if err != nil {
		return nil, res, fmt.Errorf("open resource %q: %w", h, err)
	}
	return rc, res, nil
}

// ReadAll returns the full contents of a live handle.
func (p *Pool) ReadAll(ctx context.Context, h domain.ResourceHandle) ([]byte, error) {
	rc, _, err := p.Open(ctx, h)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Release frees the bytes behind h. Releasing an unknown or already released
// handle is a no-op.
func (p *Pool) Release(ctx context.Context, h domain.ResourceHandle) error {
	p.mu.Lock()
	res, ok := p.items[h]
	delete(p.items, h)
	p.mu.Unlock()
	if !ok {
		return nil
	}

	if err := p.store.Delete(ctx, res.StoragePath); err != nil {
		return fmt.Errorf("delete resource %q: %w", h, err)
	}
	p.logger.Debug("Resource released", "handle", h)
	return nil
}

// Live reports whether h currently resolves.
func (p *Pool) Live(h domain.ResourceHandle) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.items[h]
	return ok
}

// Len returns the number of live handles.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}
