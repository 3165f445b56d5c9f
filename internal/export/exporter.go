// Package export rasterises the profile mockup of a workspace snapshot to PNG
// without a browser: the layout is recomputed from the snapshot at export
// density on an opaque white background.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/mockup"
	"golang.org/x/text/unicode/norm"
	xdraw "golang.org/x/image/draw"
)

// DefaultFileName is the download name used when none is configured.
const DefaultFileName = "insta-grid-preview"

// Source resolves resource handles to image bytes.
type Source interface {
	ReadAll(ctx context.Context, h domain.ResourceHandle) ([]byte, error)
}

// Options tunes a render.
type Options struct {
	// Scale is the device pixel ratio.
	Scale float64
	// Overlays draws interactive chrome (AI badges). Exports never do.
	Overlays bool
}

// DefaultOptions is what Export uses: 2x density, no overlays.
func DefaultOptions() Options {
	return Options{Scale: mockup.ExportScale}
}

// Artifact is an encoded export ready to download.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Exporter renders snapshots to images.
type Exporter struct {
	src         Source
	defaultName string
	concurrency int
	logger      *slog.Logger
}

// New creates an Exporter reading image bytes from src.
func New(src Source, defaultName string) *Exporter {
	if defaultName == "" {
		defaultName = DefaultFileName
	}
	return &Exporter{
		src:         src,
		defaultName: defaultName,
		concurrency: 4,
		logger:      slog.Default().With("service", "export"),
	}
}

// Export captures target from snap as a PNG named after name (or the default
// file name when name is empty).
func (e *Exporter) Export(ctx context.Context, snap domain.Snapshot, target, name string) (*Artifact, error) {
	return e.Encode(ctx, snap, target, name, DefaultOptions())
}

// Encode is Export with explicit render options.
func (e *Exporter) Encode(ctx context.Context, snap domain.Snapshot, target, name string, opts Options) (*Artifact, error) {
	img, err := e.Render(ctx, snap, target, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	b := img.Bounds()
	e.logger.Info("Mockup exported",
		"workspace_id", snap.WorkspaceID, "target", target,
		"width", b.Dx(), "height", b.Dy(), "bytes", buf.Len())
	return &Artifact{
		FileName:    FileName(name, e.defaultName),
		ContentType: "image/png",
		Data:        buf.Bytes(),
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}

// Render draws target from snap. Unknown targets yield ErrExportTargetMissing.
func (e *Exporter) Render(ctx context.Context, snap domain.Snapshot, target string, opts Options) (*image.RGBA, error) {
	if !mockup.KnownTarget(target) {
		return nil, fmt.Errorf("%q: %w", target, domain.ErrExportTargetMissing)
	}
	if opts.Scale <= 0 {
		opts.Scale = mockup.ExportScale
	}

	faces, err := newFaceCache(opts.Scale)
	if err != nil {
		return nil, err
	}
	defer faces.Close()

	images, err := e.loadImages(ctx, snap)
	if err != nil {
		return nil, err
	}

	r := &renderer{
		c:      &canvas{scale: opts.Scale, faces: faces},
		snap:   snap,
		images: images,
		opts:   opts,
	}
	return r.render(target), nil
}

type renderer struct {
	c      *canvas
	snap   domain.Snapshot
	images map[domain.ResourceHandle]image.Image
	opts   Options
}

func (r *renderer) render(target string) *image.RGBA {
	grid := r.gridMetrics()

	var header headerLayout
	top := 0
	if target == mockup.TargetComposite {
		header = r.layoutHeader()
		top = r.c.px(header.bottom)
	}

	r.c.img = image.NewRGBA(image.Rect(0, 0, r.c.px(mockup.Width), top+grid.height))
	xdraw.Draw(r.c.img, r.c.img.Bounds(), image.NewUniform(white), image.Point{}, xdraw.Src)

	if target == mockup.TargetComposite {
		r.drawHeader(header)
	}
	r.drawGrid(top, grid)
	return r.c.img
}

// FileName turns a user supplied name into a safe "<name>.png". Names with
// no letter or digit left after cleaning use fallback.
func FileName(name, fallback string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	name = filepath.Base(filepath.ToSlash(name))
	if strings.EqualFold(filepath.Ext(name), ".png") {
		name = name[:len(name)-len(".png")]
	}

	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.', r == ' ':
			return r
		}
		return '-'
	}, name)
	name = strings.Trim(name, " .")

	if !strings.ContainsFunc(name, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) {
		name = fallback
	}
	return name + ".png"
}
