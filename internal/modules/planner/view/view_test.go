package view

import (
	"strings"
	"testing"

	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/mockup"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"
)

func render(t *testing.T, n cmp.Node) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, n.Render(&sb))
	return sb.String()
}

func snapshot(images ...domain.StagedImage) domain.Snapshot {
	snap := workspace.New("ws", nil).Snapshot()
	snap.Images = images
	return snap
}

func TestGrid_EmptyShowsPlaceholder(t *testing.T) {
	html := render(t, Grid(snapshot(), GridOptions{}))

	assert.Contains(t, html, `id="inner-grid"`)
	assert.Contains(t, html, mockup.EmptyGridText)
	assert.Contains(t, html, "col-span-3")
	assert.Contains(t, html, "gap-0.5", "default spacing is thin")
}

func TestGrid_CellsInOrderWithChrome(t *testing.T) {
	snap := snapshot(
		domain.StagedImage{ID: "one", Handle: "h1"},
		domain.StagedImage{ID: "two", Handle: "h2", AIGenerated: true},
	)
	snap.Spacing = domain.SpacingWide

	html := render(t, Grid(snap, GridOptions{}))

	assert.NotContains(t, html, mockup.EmptyGridText)
	assert.Contains(t, html, "gap-4")
	assert.Less(t, strings.Index(html, "/resources/h1"), strings.Index(html, "/resources/h2"))
	assert.Equal(t, 2, strings.Count(html, "aspect-[4/5]"))
	assert.Contains(t, html, `hx-delete="/images/one"`)
	assert.Equal(t, 1, strings.Count(html, "bg-purple-600"), "only the AI image is badged")
}

func TestGrid_ExportingOmitsChrome(t *testing.T) {
	snap := snapshot(domain.StagedImage{ID: "two", Handle: "h2", AIGenerated: true})

	html := render(t, Grid(snap, GridOptions{Exporting: true}))

	assert.Contains(t, html, "/resources/h2")
	assert.NotContains(t, html, "hx-delete")
	assert.NotContains(t, html, "bg-purple-600")
}

func TestProfileHeader(t *testing.T) {
	p := workspace.DefaultProfile()
	html := render(t, ProfileHeader(p))

	for _, s := range []string{"aavax_call", "AAVAX", "490", "publications", "suivi(e)s", "Écrire", "Adresse e-mail", "whitespace-pre-wrap", "Nos valeurs", "aavaxcallcenter.com/pages/recrutement"} {
		assert.Contains(t, html, s)
	}
	assert.Contains(t, html, "Postule ici", "bio is rendered verbatim")

	p.ExternalLink = ""
	p.Avatar = "avatar-handle"
	p.Highlights[0].Cover = "cover-handle"
	html = render(t, ProfileHeader(p))
	assert.NotContains(t, html, "text-[#00376b]", "no link line without a link")
	assert.Contains(t, html, "/resources/avatar-handle")
	assert.Contains(t, html, "/resources/cover-handle")
}

func TestProfileHeader_EmptyReelFallsBack(t *testing.T) {
	p := workspace.DefaultProfile()
	p.Highlights = nil

	html := render(t, ProfileHeader(p))
	assert.Equal(t, domain.HighlightCount, strings.Count(html, "opacity-60"))
}

func TestControls(t *testing.T) {
	d := Data{Snapshot: snapshot(), ExportName: "feed"}

	html := render(t, Controls(d))

	assert.Contains(t, html, `hx-confirm="`+mockup.ClearConfirm+`"`)
	assert.Contains(t, html, `hx-disabled-elt="this"`)
	for _, s := range domain.Spacings {
		assert.Contains(t, html, ">"+SpacingLabel(s)+"<")
	}
	assert.Contains(t, html, `aria-pressed="true"`)
	assert.Contains(t, html, `value="feed"`)
	assert.Contains(t, html, `"/highlights/4/title"`)
	assert.Contains(t, html, `hx-include="#ai-style"`)
	assert.Contains(t, html, `id="ai-style" name="style"`)
}

func TestApp_ErrorLineAndVisitorMode(t *testing.T) {
	snap := snapshot(domain.StagedImage{ID: "a", Handle: "h", AIGenerated: true})
	snap.Error = domain.MsgGenerationFailed

	html := render(t, App(Data{Snapshot: snap, Clean: true}))

	assert.Contains(t, html, domain.MsgGenerationFailed)
	assert.Contains(t, html, `id="instagram-feed-preview"`)
	assert.Contains(t, html, "workspace-changed from:body")
	assert.NotContains(t, html, `hx-delete="/images/a"`, "visitor preview hides chrome")
}

func TestSpacingLabel(t *testing.T) {
	assert.Equal(t, "None", SpacingLabel(domain.SpacingNone))
	assert.Equal(t, "Standard", SpacingLabel(domain.SpacingStandard))
}
