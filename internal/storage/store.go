// Package storage persists resource bytes under opaque keys.
package storage

import (
	"context"
	"io"
)

// Store is a flat key/value byte store. Keys are slash separated and never
// absolute. Open wraps domain.ErrNotFound for unknown keys; deleting an
// unknown key succeeds.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

var _ Store = (*AferoStore)(nil)
