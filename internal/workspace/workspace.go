// Package workspace holds the per-session planning state: staged images,
// grid spacing, profile metadata, the user-facing error line and the AI fill
// busy flag. Every mutation commits a new immutable snapshot.
package workspace

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/instagrid/internal/domain"
)

// Releaser frees the bytes behind a resource handle.
type Releaser interface {
	Release(ctx context.Context, h domain.ResourceHandle) error
}

// ChangeFunc observes every committed snapshot.
type ChangeFunc func(snap domain.Snapshot, reason string)

// Change reasons reported to ChangeFunc.
const (
	ReasonImagesAdded      = "images.added"
	ReasonImageRemoved     = "images.removed"
	ReasonImagesCleared    = "images.cleared"
	ReasonAIImageAdded     = "images.ai_added"
	ReasonSpacing          = "spacing"
	ReasonProfile          = "profile"
	ReasonAvatar           = "profile.avatar"
	ReasonHighlightCover   = "highlight.cover"
	ReasonHighlightTitle   = "highlight.title"
	ReasonError            = "error"
	ReasonGenerationStart  = "generation.started"
	ReasonGenerationFinish = "generation.finished"
)

// Workspace is the state store of one planning session.
type Workspace struct {
	releaser Releaser
	onChange ChangeFunc
	now      func() time.Time
	logger   *slog.Logger

	mu       sync.Mutex
	snap     domain.Snapshot
	lastSeen time.Time
	closed   bool
}

// Option is a function that configures a Workspace.
type Option func(*Workspace)

// WithProfile seeds the workspace with p instead of DefaultProfile.
func WithProfile(p domain.Profile) Option {
	return func(w *Workspace) {
		w.snap.Profile = p.Clone()
	}
}

// WithOnChange registers fn to observe every committed snapshot.
func WithOnChange(fn ChangeFunc) Option {
	return func(w *Workspace) {
		w.onChange = fn
	}
}

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		w.now = now
	}
}

// New creates a workspace seeded with the default profile and spacing.
func New(id string, releaser Releaser, opts ...Option) *Workspace {
	w := &Workspace{
		releaser: releaser,
		now:      time.Now,
		logger:   slog.Default().With("service", "workspace", "workspace_id", id),
		snap: domain.Snapshot{
			WorkspaceID: id,
			Images:      []domain.StagedImage{},
			Spacing:     domain.DefaultSpacing,
			Profile:     DefaultProfile(),
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.lastSeen = w.now()
	return w
}

// ID returns the workspace identifier.
func (w *Workspace) ID() string {
	return w.snap.WorkspaceID
}

// Snapshot returns a copy of the current state.
func (w *Workspace) Snapshot() domain.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snap.Clone()
}

// Touch marks the workspace as recently used.
func (w *Workspace) Touch() {
	w.mu.Lock()
	w.lastSeen = w.now()
	w.mu.Unlock()
}

// IdleSince returns the last time the workspace was touched or changed.
func (w *Workspace) IdleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// References reports whether h is referenced by the current state.
func (w *Workspace) References(h domain.ResourceHandle) bool {
	if h.IsZero() {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Contains(w.snap.Handles(), h)
}

// mutation edits next in place and reports whether anything changed along
// with the handles it displaced.
type mutation func(next *domain.Snapshot) (changed bool, displaced []domain.ResourceHandle)

// commit applies m under the lock, publishes the new snapshot and releases
// displaced handles. incoming handles are released straight away when the
// workspace is already closed so late writers cannot leak them.
func (w *Workspace) commit(reason string, m mutation, incoming ...domain.ResourceHandle) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.release(incoming...)
		return false
	}

	next := w.snap
	changed, displaced := m(&next)
	if !changed {
		w.mu.Unlock()
		return false
	}
	next.Version++
	w.snap = next
	w.lastSeen = w.now()
	published := next.Clone()
	w.mu.Unlock()

	w.release(displaced...)
	if w.onChange != nil {
		w.onChange(published, reason)
	}
	return true
}

func (w *Workspace) release(handles ...domain.ResourceHandle) {
	if w.releaser == nil {
		return
	}
	for _, h := range handles {
		if h.IsZero() {
			continue
		}
		if err := w.releaser.Release(context.Background(), h); err != nil {
			w.logger.Warn("Failed to release resource", "handle", h, "error", err)
		}
	}
}

// AddImages appends one staged image per handle, in order, and clears the
// error line. An empty call is a no-op.
func (w *Workspace) AddImages(handles ...domain.ResourceHandle) {
	if len(handles) == 0 {
		return
	}
	w.commit(ReasonImagesAdded, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		images := make([]domain.StagedImage, 0, len(next.Images)+len(handles))
		images = append(images, next.Images...)
		for _, h := range handles {
			images = append(images, domain.StagedImage{ID: uuid.NewString(), Handle: h})
		}
		next.Images = images
		next.Error = ""
		return true, nil
	}, handles...)
}

// AddAIImage appends a generated image at the end of the list.
func (w *Workspace) AddAIImage(h domain.ResourceHandle) {
	if h.IsZero() {
		return
	}
	w.commit(ReasonAIImageAdded, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		images := make([]domain.StagedImage, 0, len(next.Images)+1)
		images = append(images, next.Images...)
		next.Images = append(images, domain.StagedImage{ID: uuid.NewString(), Handle: h, AIGenerated: true})
		return true, nil
	}, h)
}

// RemoveImage drops the image with the given id. Unknown ids are ignored.
func (w *Workspace) RemoveImage(id string) {
	w.commit(ReasonImageRemoved, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		idx := slices.IndexFunc(next.Images, func(img domain.StagedImage) bool { return img.ID == id })
		if idx < 0 {
			return false, nil
		}
		removed := next.Images[idx].Handle
		images := make([]domain.StagedImage, 0, len(next.Images)-1)
		images = append(images, next.Images[:idx]...)
		next.Images = append(images, next.Images[idx+1:]...)
		return true, []domain.ResourceHandle{removed}
	})
}

// ClearAll empties the image list and clears the error line.
func (w *Workspace) ClearAll() {
	w.commit(ReasonImagesCleared, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		displaced := make([]domain.ResourceHandle, 0, len(next.Images))
		for _, img := range next.Images {
			displaced = append(displaced, img.Handle)
		}
		next.Images = []domain.StagedImage{}
		next.Error = ""
		return true, displaced
	})
}

// SetSpacing selects a gap preset. Unknown presets are ignored.
func (w *Workspace) SetSpacing(s domain.GridSpacing) {
	if !s.Valid() {
		return
	}
	w.commit(ReasonSpacing, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		if next.Spacing == s {
			return false, nil
		}
		next.Spacing = s
		return true, nil
	})
}

// SetProfileField replaces one text field verbatim. Unknown fields are ignored.
func (w *Workspace) SetProfileField(f domain.ProfileField, value string) {
	w.commit(ReasonProfile, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		if next.Profile.Get(f) == value {
			return false, nil
		}
		p, ok := next.Profile.With(f, value)
		if !ok {
			return false, nil
		}
		next.Profile = p
		return true, nil
	})
}

// SetAvatar replaces the avatar, releasing the previous one.
func (w *Workspace) SetAvatar(h domain.ResourceHandle) {
	w.commit(ReasonAvatar, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		old := next.Profile.Avatar
		if old == h {
			return false, nil
		}
		next.Profile = next.Profile.Clone()
		next.Profile.Avatar = h
		return true, []domain.ResourceHandle{old}
	}, h)
}

// SetHighlightCover replaces the cover of highlight i, releasing the previous
// one. Out of range indices are ignored and the incoming handle is released.
func (w *Workspace) SetHighlightCover(i int, h domain.ResourceHandle) {
	applied := w.commit(ReasonHighlightCover, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		if i < 0 || i >= len(next.Profile.Highlights) {
			return false, nil
		}
		old := next.Profile.Highlights[i].Cover
		if old == h {
			return false, nil
		}
		next.Profile = next.Profile.Clone()
		next.Profile.Highlights[i].Cover = h
		return true, []domain.ResourceHandle{old}
	}, h)
	if !applied && !w.References(h) {
		w.release(h)
	}
}

// SetHighlightTitle renames highlight i. Out of range indices are ignored.
func (w *Workspace) SetHighlightTitle(i int, title string) {
	w.commit(ReasonHighlightTitle, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		if i < 0 || i >= len(next.Profile.Highlights) || next.Profile.Highlights[i].Title == title {
			return false, nil
		}
		next.Profile = next.Profile.Clone()
		next.Profile.Highlights[i].Title = title
		return true, nil
	})
}

// SetError replaces the user-facing error line. An empty message clears it.
func (w *Workspace) SetError(msg string) {
	w.commit(ReasonError, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		if next.Error == msg {
			return false, nil
		}
		next.Error = msg
		return true, nil
	})
}

// BeginGeneration sets the busy flag. It returns false when a generation is
// already running.
func (w *Workspace) BeginGeneration() bool {
	return w.commit(ReasonGenerationStart, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		if next.Generating {
			return false, nil
		}
		next.Generating = true
		return true, nil
	})
}

// EndGeneration clears the busy flag.
func (w *Workspace) EndGeneration() {
	w.commit(ReasonGenerationFinish, func(next *domain.Snapshot) (bool, []domain.ResourceHandle) {
		if !next.Generating {
			return false, nil
		}
		next.Generating = false
		return true, nil
	})
}

// Close releases every handle the workspace references. Later mutations are
// ignored and any handles passed to them are released immediately.
func (w *Workspace) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	handles := w.snap.Handles()
	w.mu.Unlock()

	w.release(handles...)
}
