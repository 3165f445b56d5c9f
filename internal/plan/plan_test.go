package plan

import (
	"context"
	"image/color"
	"testing"

	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/testutils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, testutils.PNG(t, 4, 5, color.RGBA{R: 255, A: 255}), 0o644))
}

const samplePlan = `
profile:
  handle: studio_nord
  followers: "12,3 k"
  bio: |-
    Line one
    Line two
spacing: wide
avatar: img/avatar.png
highlights:
  - title: Atelier
    cover: img/cover.png
  - title: FAQ
images:
  - path: img/one.png
  - path: img/gen.png
    ai: true
  - path: img/two.png
`

func TestLoadAndBuild(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{"avatar", "cover", "one", "gen", "two"} {
		writePNG(t, fs, "/plans/img/"+p+".png")
	}
	require.NoError(t, afero.WriteFile(fs, "/plans/feed.yaml", []byte(samplePlan), 0o644))

	p, err := Load(fs, "/plans/feed.yaml")
	require.NoError(t, err)

	pool := testutils.MemPool()
	snap, err := p.Build(context.Background(), fs, pool)
	require.NoError(t, err)

	assert.Equal(t, "studio_nord", snap.Profile.Handle)
	assert.Equal(t, "AAVAX", snap.Profile.DisplayName, "unset fields keep the default")
	assert.Equal(t, "12,3 k", snap.Profile.FollowersCount)
	assert.Equal(t, "Line one\nLine two", snap.Profile.Bio)
	assert.Equal(t, domain.SpacingWide, snap.Spacing)
	assert.False(t, snap.Profile.Avatar.IsZero())

	require.Len(t, snap.Profile.Highlights, 2)
	assert.Equal(t, "Atelier", snap.Profile.Highlights[0].Title)
	assert.False(t, snap.Profile.Highlights[0].Cover.IsZero())
	assert.True(t, snap.Profile.Highlights[1].Cover.IsZero())

	require.Len(t, snap.Images, 3)
	assert.False(t, snap.Images[0].AIGenerated)
	assert.True(t, snap.Images[1].AIGenerated, "plan order is kept")
	assert.False(t, snap.Images[2].AIGenerated)

	assert.Equal(t, 5, pool.Len())
}

func TestBuild_EmptyHighlights(t *testing.T) {
	p, err := Parse([]byte("highlights: []\n"), "")
	require.NoError(t, err)

	pool := testutils.MemPool()
	snap, err := p.Build(context.Background(), afero.NewMemMapFs(), pool)
	require.NoError(t, err)
	assert.Empty(t, snap.Profile.Highlights)
	assert.Empty(t, snap.Images)
}

func TestBuild_MissingFile(t *testing.T) {
	p, err := Parse([]byte("images:\n  - path: nope.png\n"), "/plans")
	require.NoError(t, err)

	pool := testutils.MemPool()
	_, err = p.Build(context.Background(), afero.NewMemMapFs(), pool)
	assert.ErrorContains(t, err, "nope.png")
	assert.Equal(t, 0, pool.Len())
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "profile: [",
		"bad spacing":    "spacing: huge\n",
		"image w/o path": "images:\n  - ai: true\n",
		"six highlights": "highlights: [{title: a}, {title: b}, {title: c}, {title: d}, {title: e}, {title: f}]\n",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc), "")
		assert.Error(t, err, name)
	}
}
