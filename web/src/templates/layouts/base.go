// Package layouts holds the page shells shared by every module.
package layouts

import (
	"github.com/nfrund/instagrid/internal/view"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

const (
	htmxSrc     = "https://unpkg.com/htmx.org@2.0.4"
	tailwindSrc = "https://cdn.tailwindcss.com"
)

// Base wraps content in the HTML document, with flash banners on top. The
// flash partial is a templ component and is adapted into the tree.
func Base(title string, flash view.FlashData, content ...cmp.Node) cmp.Node {
	return g.Doctype(
		g.HTML(
			g.Lang("en"),
			g.Head(
				g.Meta(g.Charset("utf-8")),
				g.Meta(g.Name("viewport"), g.Content("width=device-width, initial-scale=1")),
				g.TitleEl(cmp.Text(CalculateTitle(title))),
				g.Script(g.Src(tailwindSrc)),
				g.Script(g.Src(htmxSrc)),
				g.Script(g.Src("/static/live.js"), g.Defer()),
			),
			g.Body(
				g.Class("bg-gray-50 text-gray-900 antialiased"),
				cmp.If(!flash.Empty(),
					g.Div(
						g.Class("fixed top-4 right-4 z-50 max-w-sm"),
						view.AdaptTemplToGomponent(view.FlashPartial(flash)),
					),
				),
				cmp.Group(content),
			),
		),
	)
}
