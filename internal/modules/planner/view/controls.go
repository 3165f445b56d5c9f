package view

import (
	"fmt"
	"strconv"

	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/mockup"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

const inputClass = "w-full text-sm border border-gray-300 rounded px-2 py-1.5 focus:outline-none focus:border-blue-500"

// Controls is the side panel: profile editor, uploads, AI fill, spacing,
// visitor mode, download and clear.
func Controls(d Data) cmp.Node {
	snap := d.Snapshot
	return g.Div(
		g.ID("controls"),
		g.Class("flex flex-col gap-6 w-full max-w-md mx-auto p-4 bg-white border border-gray-200 rounded-xl shadow-sm"),
		profileEditor(snap.Profile),
		primaryActions(d),
		spacingPicker(snap.Spacing),
		modeToggle(d.Clean),
		bottomActions(d),
	)
}

// textField posts one profile field as the user types and swaps the preview
// only, so the focused input survives.
func textField(f domain.ProfileField, value string, multiline bool) cmp.Node {
	attrs := []cmp.Node{
		g.Name("value"),
		g.ID("field-" + string(f)),
		hx.Post("/profile"),
		hx.Trigger("input changed delay:400ms"),
		hx.Target("#preview"),
		hx.Swap("outerHTML"),
		cmp.Attr("hx-vals", fmt.Sprintf(`{"field":%q}`, string(f))),
	}
	if multiline {
		return g.Textarea(append(attrs, g.Rows("4"), g.Class(inputClass+" resize-none font-sans"), cmp.Text(value))...)
	}
	return g.Input(append(attrs, g.Type("text"), g.Value(value), g.Class(inputClass))...)
}

func labelled(f domain.ProfileField, control cmp.Node) cmp.Node {
	return g.Div(
		g.Label(g.For("field-"+string(f)), g.Class("block text-xs text-gray-500 mb-1"), cmp.Text(fieldLabels[f])),
		control,
	)
}

// uploadInput is a file input that submits its enclosing form on change.
func uploadInput(action string, multiple bool, extra ...cmp.Node) cmp.Node {
	return g.Form(
		hx.Post(action),
		hx.Encoding("multipart/form-data"),
		hx.Trigger("change"),
		hx.Target("#app"),
		hx.Swap("outerHTML"),
		g.Class("contents"),
		g.Input(
			g.Type("file"),
			g.Accept("image/*"),
			cmp.If(multiple, g.Multiple()),
			cmp.If(multiple, g.Name("files")),
			cmp.If(!multiple, g.Name("file")),
			cmp.Group(extra),
		),
	)
}

func profileEditor(p domain.Profile) cmp.Node {
	return g.Details(
		cmp.Attr("open"),
		g.Class("border border-gray-200 rounded-lg overflow-hidden"),
		g.Summary(
			g.Class("w-full flex items-center justify-between p-3 bg-gray-50 cursor-pointer text-sm font-semibold text-gray-700"),
			cmp.Text("Edit Profile Info"),
		),
		g.Div(
			g.Class("p-4 space-y-4 bg-white"),
			g.Div(
				g.Class("flex items-center gap-4"),
				g.Div(
					g.Class("relative shrink-0 w-16 h-16 rounded-full bg-gray-100 overflow-hidden border border-gray-200 cursor-pointer"),
					cmp.If(!p.Avatar.IsZero(), g.Img(g.Src(ResourceURL(p.Avatar)), g.Alt("Avatar"), g.Class("w-full h-full object-cover"))),
					uploadInput("/profile/avatar", false,
						g.Class("absolute inset-0 opacity-0 cursor-pointer"),
						cmp.Attr("title", "Change Avatar"),
					),
				),
				g.Div(g.Class("flex-1"), labelled(domain.FieldHandle, textField(domain.FieldHandle, p.Handle, false))),
			),
			g.Div(
				g.Class("grid grid-cols-3 gap-2"),
				labelled(domain.FieldPostsCount, textField(domain.FieldPostsCount, p.PostsCount, false)),
				labelled(domain.FieldFollowersCount, textField(domain.FieldFollowersCount, p.FollowersCount, false)),
				labelled(domain.FieldFollowingCount, textField(domain.FieldFollowingCount, p.FollowingCount, false)),
			),
			labelled(domain.FieldDisplayName, textField(domain.FieldDisplayName, p.DisplayName, false)),
			labelled(domain.FieldBio, textField(domain.FieldBio, p.Bio, true)),
			labelled(domain.FieldExternalLink, textField(domain.FieldExternalLink, p.ExternalLink, false)),
			highlightEditor(p.Highlights),
		),
	)
}

func highlightEditor(highlights []domain.Highlight) cmp.Node {
	return g.Details(
		g.Class("border-t border-gray-100 pt-3 mt-1"),
		g.Summary(
			g.Class("text-xs font-semibold text-gray-600 mb-2 cursor-pointer"),
			cmp.Textf("Edit Highlights (%d)", len(highlights)),
		),
		g.Div(
			g.Class("grid gap-3"),
			cmp.Map(indexed(highlights), func(ih indexedHighlight) cmp.Node {
				idx := strconv.Itoa(ih.index)
				h := ih.Highlight
				return g.Div(
					g.Class("flex items-center gap-2"),
					g.Div(
						g.Class("relative w-10 h-10 rounded-full bg-gray-100 border border-gray-200 shrink-0 overflow-hidden"),
						cmp.If(!h.Cover.IsZero(), g.Img(g.Src(ResourceURL(h.Cover)), g.Class("w-full h-full object-cover"))),
						cmp.If(h.Cover.IsZero(), g.Div(g.Class("w-full h-full flex items-center justify-center text-gray-400"), cmp.Text("+"))),
						uploadInput("/highlights/"+idx+"/cover", false, g.Class("absolute inset-0 opacity-0 cursor-pointer")),
					),
					g.Input(
						g.Type("text"),
						g.Name("title"),
						g.Value(h.Title),
						g.Placeholder("Title"),
						g.Class("flex-1 text-xs border border-gray-200 rounded px-2 py-1.5"),
						hx.Post("/highlights/"+idx+"/title"),
						hx.Trigger("input changed delay:400ms"),
						hx.Target("#preview"),
						hx.Swap("outerHTML"),
					),
				)
			}),
		),
	)
}

type indexedHighlight struct {
	index int
	domain.Highlight
}

func indexed(hs []domain.Highlight) []indexedHighlight {
	out := make([]indexedHighlight, len(hs))
	for i, h := range hs {
		out[i] = indexedHighlight{index: i, Highlight: h}
	}
	return out
}

func primaryActions(d Data) cmp.Node {
	generating := d.Snapshot.Generating
	return g.Div(
		g.Class("grid grid-cols-2 gap-3"),
		g.Label(
			g.Class("flex flex-col items-center justify-center gap-2 p-4 border-2 border-dashed border-gray-300 rounded-lg cursor-pointer hover:bg-gray-50 hover:border-blue-400 transition-all"),
			uploadInput("/images", true, g.Class("hidden")),
			g.Span(g.Class("text-sm font-medium text-gray-600"), cmp.Text("Add Grid Photos")),
		),
		g.Button(
			g.Type("button"),
			g.ID("ai-fill"),
			g.Class("flex flex-col items-center justify-center gap-2 p-4 border border-purple-100 bg-purple-50 rounded-lg cursor-pointer hover:bg-purple-100 transition-all disabled:opacity-50 disabled:cursor-not-allowed"),
			hx.Post("/images/ai"),
			hx.Include("#ai-style"),
			hx.Target("#app"),
			hx.Swap("outerHTML"),
			hx.Indicator("#ai-spinner"),
			cmp.Attr("hx-disabled-elt", "this"),
			cmp.If(generating, g.Disabled()),
			cmp.If(!d.AIConfigured, cmp.Attr("title", "No API key configured")),
			g.Div(g.ID("ai-spinner"), g.Class(spinnerClass(generating))),
			g.Span(g.Class("text-sm font-medium text-purple-700"), cmp.Text("AI Aesthetic Fill")),
		),
		g.Input(
			g.Type("text"),
			g.ID("ai-style"),
			g.Name("style"),
			g.MaxLength("200"),
			g.Placeholder("Style, e.g. minimalist aesthetic"),
			cmp.Attr("aria-label", "AI image style"),
			g.Class("col-span-2 text-sm border border-gray-200 rounded-md px-3 py-2 focus:outline-none focus:border-purple-400"),
		),
	)
}

// spinnerClass keeps the spinner visible while another request of the same
// workspace is generating; otherwise htmx shows it for this request only.
func spinnerClass(generating bool) string {
	const base = "w-6 h-6 border-2 border-purple-500 border-t-transparent rounded-full animate-spin"
	if generating {
		return base
	}
	return "htmx-indicator " + base
}

func spacingPicker(current domain.GridSpacing) cmp.Node {
	return g.Div(
		g.Class("flex items-center justify-between border-t border-b border-gray-100 py-4"),
		g.Span(g.Class("text-xs font-semibold text-gray-500 uppercase tracking-wider"), cmp.Text("Grid Spacing")),
		g.Div(
			g.Class("flex bg-gray-100 p-1 rounded-lg"),
			cmp.Map(domain.Spacings, func(s domain.GridSpacing) cmp.Node {
				class := "px-3 py-1 text-xs font-medium rounded-md transition-all text-gray-500 hover:text-gray-700"
				if s == current {
					class = "px-3 py-1 text-xs font-medium rounded-md transition-all bg-white shadow-sm text-black"
				}
				return g.Button(
					g.Type("button"),
					g.Class(class),
					hx.Post("/spacing"),
					hx.Target("#app"),
					hx.Swap("outerHTML"),
					cmp.Attr("hx-vals", fmt.Sprintf(`{"spacing":%q}`, string(s))),
					cmp.Attr("aria-pressed", strconv.FormatBool(s == current)),
					cmp.Text(SpacingLabel(s)),
				)
			}),
		),
	)
}

func modeToggle(clean bool) cmp.Node {
	label := "Visitor preview"
	if clean {
		label = "Back to editing"
	}
	return g.Button(
		g.Type("button"),
		g.Class("text-xs font-semibold text-gray-600 hover:text-gray-900 self-start"),
		hx.Post("/mode"),
		hx.Target("#app"),
		hx.Swap("outerHTML"),
		cmp.Attr("hx-vals", fmt.Sprintf(`{"clean":%q}`, strconv.FormatBool(!clean))),
		cmp.Text(label),
	)
}

func bottomActions(d Data) cmp.Node {
	return g.Div(
		g.Class("flex flex-col gap-3"),
		g.Form(
			g.Action("/export"),
			g.Method("get"),
			g.Class("flex gap-3"),
			g.Input(g.Type("hidden"), g.Name("target"), g.Value(mockup.TargetComposite)),
			g.Input(
				g.Type("text"),
				g.Name("name"),
				g.Value(d.ExportName),
				g.Class("w-32 text-sm border border-gray-300 rounded px-2"),
				cmp.Attr("aria-label", "File name"),
			),
			g.Button(
				g.Type("submit"),
				g.Class("flex-1 flex items-center justify-center gap-2 bg-black text-white px-4 py-3 rounded-lg font-medium hover:bg-gray-800 transition-colors"),
				cmp.Text("Download Mockup"),
			),
		),
		g.Button(
			g.Type("button"),
			g.Class("px-4 py-3 text-red-500 bg-red-50 hover:bg-red-100 rounded-lg transition-colors disabled:opacity-50 disabled:cursor-not-allowed"),
			cmp.Attr("title", "Clear all"),
			hx.Post("/images/clear"),
			hx.Confirm(mockup.ClearConfirm),
			hx.Target("#app"),
			hx.Swap("outerHTML"),
			cmp.If(len(d.Snapshot.Images) == 0, g.Disabled()),
			cmp.Text("Clear grid"),
		),
	)
}
