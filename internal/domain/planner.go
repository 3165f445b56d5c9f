package domain

// ResourceHandle is an opaque reference to stored image bytes. The zero value
// means "no image".
type ResourceHandle string

// IsZero reports whether the handle references nothing.
func (h ResourceHandle) IsZero() bool { return h == "" }

// StagedImage is one slot of the planned feed. Slice order is display order.
type StagedImage struct {
	ID          string         `json:"id"`
	Handle      ResourceHandle `json:"handle"`
	AIGenerated bool           `json:"ai_generated"`
}

// GridSpacing is the visual gap preset between grid cells.
type GridSpacing string

const (
	SpacingNone     GridSpacing = "none"
	SpacingThin     GridSpacing = "thin"
	SpacingStandard GridSpacing = "standard"
	SpacingWide     GridSpacing = "wide"

	DefaultSpacing = SpacingThin
)

// Spacings lists every preset in display order.
var Spacings = []GridSpacing{SpacingNone, SpacingThin, SpacingStandard, SpacingWide}

// Valid reports whether s is a known preset.
func (s GridSpacing) Valid() bool {
	switch s {
	case SpacingNone, SpacingThin, SpacingStandard, SpacingWide:
		return true
	}
	return false
}

// Pixels is the gap in CSS pixels at 1x density.
func (s GridSpacing) Pixels() int {
	switch s {
	case SpacingNone:
		return 0
	case SpacingStandard:
		return 4
	case SpacingWide:
		return 16
	default:
		return 2
	}
}

// GapClass is the Tailwind gap utility for the preset.
func (s GridSpacing) GapClass() string {
	switch s {
	case SpacingNone:
		return "gap-0"
	case SpacingStandard:
		return "gap-1"
	case SpacingWide:
		return "gap-4"
	default:
		return "gap-0.5"
	}
}

// Highlight is one story-highlight bubble under the profile header.
type Highlight struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Cover ResourceHandle `json:"cover,omitempty"`
}

// HighlightCount is the fixed number of highlights a workspace carries.
const HighlightCount = 5

// Profile is the mock account metadata rendered above the grid.
// Counts are free text so values like "12,3 k" render as typed.
type Profile struct {
	Handle         string         `json:"handle"`
	DisplayName    string         `json:"display_name"`
	Bio            string         `json:"bio"`
	ExternalLink   string         `json:"external_link"`
	Avatar         ResourceHandle `json:"avatar,omitempty"`
	PostsCount     string         `json:"posts_count"`
	FollowersCount string         `json:"followers_count"`
	FollowingCount string         `json:"following_count"`
	Highlights     []Highlight    `json:"highlights"`
}

// ProfileField names one editable text field of a Profile.
type ProfileField string

const (
	FieldHandle         ProfileField = "handle"
	FieldDisplayName    ProfileField = "displayName"
	FieldBio            ProfileField = "bio"
	FieldExternalLink   ProfileField = "externalLink"
	FieldPostsCount     ProfileField = "postsCount"
	FieldFollowersCount ProfileField = "followersCount"
	FieldFollowingCount ProfileField = "followingCount"
)

// ProfileFields lists the editable fields in form order.
var ProfileFields = []ProfileField{
	FieldHandle, FieldDisplayName, FieldBio, FieldExternalLink,
	FieldPostsCount, FieldFollowersCount, FieldFollowingCount,
}

// Get returns the value of field f, or "" for an unknown field.
func (p Profile) Get(f ProfileField) string {
	switch f {
	case FieldHandle:
		return p.Handle
	case FieldDisplayName:
		return p.DisplayName
	case FieldBio:
		return p.Bio
	case FieldExternalLink:
		return p.ExternalLink
	case FieldPostsCount:
		return p.PostsCount
	case FieldFollowersCount:
		return p.FollowersCount
	case FieldFollowingCount:
		return p.FollowingCount
	}
	return ""
}

// With returns a copy of p with field f set to value. ok is false for an
// unknown field, in which case p is returned unchanged.
func (p Profile) With(f ProfileField, value string) (Profile, bool) {
	switch f {
	case FieldHandle:
		p.Handle = value
	case FieldDisplayName:
		p.DisplayName = value
	case FieldBio:
		p.Bio = value
	case FieldExternalLink:
		p.ExternalLink = value
	case FieldPostsCount:
		p.PostsCount = value
	case FieldFollowersCount:
		p.FollowersCount = value
	case FieldFollowingCount:
		p.FollowingCount = value
	default:
		return p, false
	}
	return p, true
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	if p.Highlights != nil {
		p.Highlights = append([]Highlight(nil), p.Highlights...)
	}
	return p
}

// Handles returns every non-empty resource handle the profile references.
func (p Profile) Handles() []ResourceHandle {
	var out []ResourceHandle
	if !p.Avatar.IsZero() {
		out = append(out, p.Avatar)
	}
	for _, h := range p.Highlights {
		if !h.Cover.IsZero() {
			out = append(out, h.Cover)
		}
	}
	return out
}

// Snapshot is an immutable view of a planning workspace at one version.
type Snapshot struct {
	WorkspaceID string        `json:"workspace_id"`
	Version     uint64        `json:"version"`
	Images      []StagedImage `json:"images"`
	Spacing     GridSpacing   `json:"spacing"`
	Profile     Profile       `json:"profile"`
	Error       string        `json:"error,omitempty"`
	Generating  bool          `json:"generating"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	if s.Images != nil {
		s.Images = append([]StagedImage(nil), s.Images...)
	}
	s.Profile = s.Profile.Clone()
	return s
}

// Handles returns every resource handle referenced by the snapshot.
func (s Snapshot) Handles() []ResourceHandle {
	out := make([]ResourceHandle, 0, len(s.Images))
	for _, img := range s.Images {
		out = append(out, img.Handle)
	}
	return append(out, s.Profile.Handles()...)
}
