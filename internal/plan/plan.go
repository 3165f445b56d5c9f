// Package plan loads profile mockups described in YAML so they can be
// rendered without the web UI.
//
//	profile:
//	  handle: aavax_call
//	  followers: "12,3 k"
//	spacing: wide
//	avatar: avatar.jpg
//	highlights:
//	  - title: FAQ
//	    cover: faq.png
//	images:
//	  - path: one.jpg
//	  - path: generated.png
//	    ai: true
package plan

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/ingest"
	"github.com/nfrund/instagrid/internal/resource"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Plan is a profile mockup: account fields, grid spacing and the images to
// show, with file paths relative to the plan file.
type Plan struct {
	Profile    Profile     `yaml:"profile"`
	Spacing    string      `yaml:"spacing" validate:"omitempty,oneof=none thin standard wide"`
	Avatar     string      `yaml:"avatar"`
	Highlights []Highlight `yaml:"highlights" validate:"max=5,dive"`
	Images     []Image     `yaml:"images" validate:"dive"`

	dir string
}

// Profile holds the text fields. Empty fields keep the default profile's value.
type Profile struct {
	Handle       string `yaml:"handle"`
	DisplayName  string `yaml:"display_name"`
	Bio          string `yaml:"bio" validate:"max=2200"`
	ExternalLink string `yaml:"external_link"`
	Posts        string `yaml:"posts"`
	Followers    string `yaml:"followers"`
	Following    string `yaml:"following"`
}

// Highlight is one story highlight bubble.
type Highlight struct {
	Title string `yaml:"title" validate:"max=64"`
	Cover string `yaml:"cover"`
}

// Image is one grid tile.
type Image struct {
	Path string `yaml:"path" validate:"required"`
	AI   bool   `yaml:"ai"`
}

// Parse decodes and validates a plan. Relative paths resolve against dir.
func Parse(data []byte, dir string) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	p.dir = dir
	return &p, nil
}

// Load reads the plan at path from fs.
func Load(fs afero.Fs, path string) (*Plan, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Build stores every file the plan references in pool and returns the
// resulting snapshot. A plan with an empty highlights list keeps no
// highlights; omitting the key keeps the default ones.
func (p *Plan) Build(ctx context.Context, fs afero.Fs, pool *resource.Pool) (domain.Snapshot, error) {
	ws := workspace.New("plan", pool, workspace.WithProfile(p.profile()))
	in := ingest.New(pool, 4)

	if p.Spacing != "" {
		ws.SetSpacing(domain.GridSpacing(p.Spacing))
	}

	if p.Avatar != "" {
		if err := in.Avatar(ctx, ws, p.open(fs, p.Avatar)); err != nil {
			return domain.Snapshot{}, fmt.Errorf("avatar: %w", err)
		}
	}

	for i, hl := range p.Highlights {
		if hl.Cover == "" {
			continue
		}
		if err := in.HighlightCover(ctx, ws, i, p.open(fs, hl.Cover)); err != nil {
			return domain.Snapshot{}, fmt.Errorf("highlight %d cover: %w", i, err)
		}
	}

	for _, img := range p.Images {
		if !img.AI {
			if _, err := in.ImagesFrom(ctx, ws, []ingest.Opener{p.open(fs, img.Path)}); err != nil {
				return domain.Snapshot{}, fmt.Errorf("image %s: %w", img.Path, err)
			}
			continue
		}
		f, err := fs.Open(p.resolve(img.Path))
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("image %s: %w", img.Path, err)
		}
		h, err := pool.Allocate(ctx, f)
		f.Close()
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("image %s: %w", img.Path, err)
		}
		ws.AddAIImage(h)
	}

	return ws.Snapshot(), nil
}

func (p *Plan) profile() domain.Profile {
	prof := workspace.DefaultProfile()
	fields := map[domain.ProfileField]string{
		domain.FieldHandle:         p.Profile.Handle,
		domain.FieldDisplayName:    p.Profile.DisplayName,
		domain.FieldBio:            p.Profile.Bio,
		domain.FieldExternalLink:   p.Profile.ExternalLink,
		domain.FieldPostsCount:     p.Profile.Posts,
		domain.FieldFollowersCount: p.Profile.Followers,
		domain.FieldFollowingCount: p.Profile.Following,
	}
	for f, v := range fields {
		if v != "" {
			prof, _ = prof.With(f, v)
		}
	}

	if p.Highlights != nil {
		prof.Highlights = make([]domain.Highlight, len(p.Highlights))
		for i, hl := range p.Highlights {
			prof.Highlights[i] = domain.Highlight{ID: strconv.Itoa(i + 1), Title: hl.Title}
		}
	}
	return prof
}

func (p *Plan) resolve(path string) string {
	if filepath.IsAbs(path) || p.dir == "" {
		return path
	}
	return filepath.Join(p.dir, path)
}

func (p *Plan) open(fs afero.Fs, path string) ingest.Opener {
	return fileOpener{fs: fs, path: p.resolve(path)}
}

// fileOpener adapts a path on an afero filesystem to ingest.Opener.
type fileOpener struct {
	fs   afero.Fs
	path string
}

func (o fileOpener) Open() (multipart.File, error) {
	f, err := o.fs.Open(o.path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
