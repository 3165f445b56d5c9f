package view

import (
	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/mockup"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Grid projects the staged images as a three column 4:5 grid.
func Grid(snap domain.Snapshot, opts GridOptions) cmp.Node {
	empty := len(snap.Images) == 0
	return g.Div(
		g.ID(mockup.TargetGrid),
		g.Class("grid grid-cols-3 "+snap.Spacing.GapClass()+" bg-white w-full max-w-md mx-auto overflow-hidden pb-12"),
		cmp.If(empty, cmp.Attr("style", "min-height: 300px")),
		cmp.Map(snap.Images, func(img domain.StagedImage) cmp.Node {
			return gridCell(img, opts)
		}),
		cmp.If(empty,
			g.Div(
				g.Class("col-span-3 flex flex-col items-center justify-center h-48 text-gray-400 text-sm"),
				g.P(cmp.Text(mockup.EmptyGridText)),
			),
		),
	)
}

func gridCell(img domain.StagedImage, opts GridOptions) cmp.Node {
	return g.Div(
		g.Class("relative group aspect-[4/5] bg-gray-100 overflow-hidden"),
		cmp.Attr("data-image-id", img.ID),
		g.Img(
			g.Src(ResourceURL(img.Handle)),
			g.Alt("Feed item"),
			g.Class("w-full h-full object-cover block"),
		),
		cmp.If(!opts.Exporting,
			g.Div(
				g.Class("absolute inset-0 bg-black/50 opacity-0 group-hover:opacity-100 transition-opacity flex items-center justify-center"),
				g.Button(
					g.Type("button"),
					g.Class("p-2 bg-white/10 rounded-full hover:bg-white/20 text-white transition-colors"),
					cmp.Attr("title", "Remove image"),
					hx.Delete("/images/"+img.ID),
					hx.Target("#app"),
					hx.Swap("outerHTML"),
					cmp.Text("✕"),
				),
			),
		),
		cmp.If(img.AIGenerated && !opts.Exporting,
			g.Div(
				g.Class("absolute top-1 right-1 bg-purple-600 text-white text-[10px] font-bold px-1.5 py-0.5 rounded-sm shadow-sm pointer-events-none"),
				cmp.Text(mockup.AIBadgeText),
			),
		),
	)
}
