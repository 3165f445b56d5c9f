// Package aifill fills a grid slot with a picture from a generative image model.
package aifill

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"time"

	"github.com/nfrund/instagrid/internal/domain"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

// Generator produces raw image bytes for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Allocator stores generated bytes behind a resource handle.
type Allocator interface {
	Allocate(ctx context.Context, r io.Reader) (domain.ResourceHandle, error)
}

// Target is the part of a workspace an AI fill touches.
type Target interface {
	BeginGeneration() bool
	EndGeneration()
	SetError(msg string)
	AddAIImage(h domain.ResourceHandle)
}

// Service runs AI fills, one at a time per workspace.
type Service struct {
	gen     Generator
	alloc   Allocator
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger
}

// Option is a function that configures a Service.
type Option func(*Service)

// WithMaxConcurrent caps upstream calls across all workspaces.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithTimeout bounds a single generation.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// NewService creates a Service. A nil gen means no API key is configured and
// every fill fails fast with a configuration error.
func NewService(gen Generator, alloc Allocator, opts ...Option) *Service {
	s := &Service{
		gen:     gen,
		alloc:   alloc,
		sem:     semaphore.NewWeighted(4),
		timeout: 180 * time.Second,
		logger:  slog.Default().With("service", "aifill"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether fills can reach the model at all.
func (s *Service) Configured() bool {
	return s.gen != nil
}

// Fill generates one image in style and appends it to ws as AI generated.
// On failure ws gets a user-facing error line and no image.
func (s *Service) Fill(ctx context.Context, ws Target, style string) error {
	if s.gen == nil {
		ws.SetError(domain.MsgConfigurationMissing)
		return domain.ErrConfigurationMissing
	}
	if !ws.BeginGeneration() {
		return domain.ErrGenerationInProgress
	}
	defer ws.EndGeneration()
	ws.SetError("")

	// The request runs to completion even if the client goes away.
	ctx = context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return s.fail(ws, fmt.Errorf("wait for generation slot: %w", err))
	}
	defer s.sem.Release(1)

	started := time.Now()
	data, err := s.gen.Generate(ctx, Prompt(style))
	if err != nil {
		return s.fail(ws, err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return s.fail(ws, fmt.Errorf("undecodable image: %w", err))
	}
	s.logger.Debug("Image generated", "format", format, "bytes", len(data), "took", time.Since(started))

	h, err := s.alloc.Allocate(ctx, bytes.NewReader(data))
	if err != nil {
		return s.fail(ws, fmt.Errorf("store generated image: %w", err))
	}
	ws.AddAIImage(h)
	return nil
}

func (s *Service) fail(ws Target, cause error) error {
	s.logger.Error("AI fill failed", "error", cause)
	ws.SetError(domain.MsgGenerationFailed)
	return fmt.Errorf("%w: %v", domain.ErrGenerationFailed, cause)
}
