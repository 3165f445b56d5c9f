// Package view renders the planner page with gomponents and htmx.
package view

import (
	"github.com/nfrund/instagrid/internal/mockup"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// RefreshEvent is the client-side event that makes the app re-fetch itself.
const RefreshEvent = "workspace-changed"

// App is the swappable root of the planner: controls on the side, mockup
// preview in the main column.
func App(d Data) cmp.Node {
	return g.Div(
		g.ID("app"),
		g.Class("min-h-screen bg-gray-50 flex flex-col md:flex-row"),
		cmp.Attr("data-version", version(d.Snapshot)),
		hx.Get("/fragments/app"),
		hx.Trigger(RefreshEvent+" from:body"),
		hx.Swap("outerHTML"),
		g.Div(
			g.Class("w-full md:w-96 p-6 flex flex-col gap-6 border-r border-gray-200 bg-white z-10 md:h-screen md:sticky md:top-0 shadow-sm overflow-y-auto order-2 md:order-1"),
			g.Div(
				g.Class("mb-2"),
				g.H1(g.Class("text-2xl font-bold text-gray-900 tracking-tight"), cmp.Text("InstaGrid")),
				g.P(g.Class("text-gray-500 text-sm"), cmp.Text("Plan your aesthetic.")),
			),
			Controls(d),
			ErrorLine(d.Snapshot.Error),
			g.Div(
				g.Class("mt-auto pt-6 text-xs text-gray-400 border-t border-gray-100"),
				g.P(cmp.Text("Images stay in this session and are discarded when it ends. AI features powered by Google Gemini.")),
			),
		),
		g.Div(
			g.Class("flex-1 flex flex-col items-center p-4 md:p-12 overflow-y-auto order-1 md:order-2 bg-[#fafafa]"),
			Preview(d),
			g.Div(g.Class("mt-8 text-center text-gray-400 text-sm"), g.P(cmp.Text(mockup.GridHint))),
		),
	)
}

// ErrorLine shows the workspace's user-facing error, if any.
func ErrorLine(msg string) cmp.Node {
	if msg == "" {
		return g.Div(g.ID("error-line"))
	}
	return g.Div(
		g.ID("error-line"),
		cmp.Attr("role", "alert"),
		g.Class("p-3 bg-red-50 text-red-600 text-sm rounded-lg flex items-start gap-2"),
		g.Span(cmp.Text(msg)),
	)
}

// Preview is the composite mockup: top bar, profile header and grid. Its
// element id is the composite export target.
func Preview(d Data) cmp.Node {
	snap := d.Snapshot
	return g.Div(
		g.ID("preview"),
		g.Class("w-full max-w-md"),
		cmp.Attr("data-version", version(snap)),
		g.Div(
			g.ID(mockup.TargetComposite),
			g.Class("w-full bg-white shadow-xl ring-1 ring-black/5 overflow-hidden"),
			ProfileHeader(snap.Profile),
			g.Div(
				g.Class("bg-white min-h-[300px]"),
				Grid(snap, GridOptions{Exporting: d.Clean}),
			),
		),
	)
}
