// Package app wires the long-lived services of the planner into a
// dependency injector and lists the modules that use them.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/instagrid/internal/aifill"
	"github.com/nfrund/instagrid/internal/config"
	"github.com/nfrund/instagrid/internal/export"
	"github.com/nfrund/instagrid/internal/ingest"
	"github.com/nfrund/instagrid/internal/live"
	"github.com/nfrund/instagrid/internal/pubsub"
	"github.com/nfrund/instagrid/internal/rendering"
	"github.com/nfrund/instagrid/internal/resource"
	"github.com/nfrund/instagrid/internal/storage"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/samber/do/v2"
)

// ingestConcurrency bounds how many uploads of one request are stored at once.
const ingestConcurrency = 4

// NewInjector registers every service provider. Services are built lazily on
// first use, so a missing Gemini key only matters once AI fill is invoked.
func NewInjector(ctx context.Context, cfg *config.Config) do.Injector {
	i := do.New()

	do.ProvideValue(i, cfg)

	do.Provide(i, func(i do.Injector) (storage.Store, error) {
		store, err := storage.New(cfg.StorageDir)
		if err != nil {
			return nil, err
		}
		if cfg.StorageDir == "" {
			slog.Info("Resources are kept in memory")
		} else {
			slog.Info("Resources are kept on disk", "dir", cfg.StorageDir)
		}
		return store, nil
	})

	do.Provide(i, func(i do.Injector) (*resource.Pool, error) {
		return resource.NewPool(do.MustInvoke[storage.Store](i)), nil
	})

	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(), nil
	})

	do.Provide(i, func(i do.Injector) (*workspace.Manager, error) {
		pool := do.MustInvoke[*resource.Pool](i)
		bus := do.MustInvoke[*pubsub.WatermillBridge](i)
		return workspace.NewManager(pool, bus, workspace.WithIdleTTL(cfg.WorkspaceIdleTTL)), nil
	})

	do.Provide(i, func(i do.Injector) (*ingest.Ingestor, error) {
		return ingest.New(do.MustInvoke[*resource.Pool](i), ingestConcurrency), nil
	})

	do.Provide(i, func(i do.Injector) (*aifill.Service, error) {
		gen, err := newGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return aifill.NewService(gen, do.MustInvoke[*resource.Pool](i),
			aifill.WithMaxConcurrent(cfg.MaxConcurrentGenerations),
			aifill.WithTimeout(cfg.GenerationTimeout),
		), nil
	})

	do.Provide(i, func(i do.Injector) (*export.Exporter, error) {
		return export.New(do.MustInvoke[*resource.Pool](i), cfg.ExportFileName), nil
	})

	do.Provide(i, func(i do.Injector) (rendering.Renderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})

	do.Provide(i, func(i do.Injector) (*live.Hub, error) {
		return live.NewHub(), nil
	})

	return i
}

// newGenerator returns the Gemini generator, or a nil Generator when no key
// is configured so that AI fill reports the missing configuration.
func newGenerator(ctx context.Context, cfg *config.Config) (aifill.Generator, error) {
	if !cfg.HasGeminiKey() {
		slog.Warn("GEMINI_API_KEY is not set, AI fill is disabled")
		return nil, nil
	}
	gen, err := aifill.NewGeminiGenerator(ctx, aifill.GeminiOptions{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		HTTPClient: aifill.NewHTTPClient(cfg.GenerationTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini generator: %w", err)
	}
	return gen, nil
}
