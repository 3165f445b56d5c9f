package view

import (
	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/mockup"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// TopBar is the mobile navigation bar above the profile.
func TopBar(p domain.Profile) cmp.Node {
	return g.Div(
		g.Class("flex justify-between items-center py-2 px-4 border-b border-gray-100"),
		g.Div(
			g.Class("flex items-center gap-1"),
			g.Span(g.Class("text-xs text-gray-800"), cmp.Text("🔒")),
			g.Span(g.Class("font-bold text-lg leading-none"), cmp.Text(p.Handle)),
			g.Span(g.Class("text-xs"), cmp.Text("▾")),
		),
		g.Div(
			g.Class("flex gap-4"),
			g.Div(g.Class("w-6 h-6 rounded-md border-2 border-gray-800")),
			g.Div(g.Class("w-6 h-6 border-b-2 border-r-2 border-gray-800")),
		),
	)
}

// ProfileHeader projects the profile record: avatar, stats, bio, action
// buttons, highlight reel and tab bar.
func ProfileHeader(p domain.Profile) cmp.Node {
	stats := [3]string{p.PostsCount, p.FollowersCount, p.FollowingCount}
	return g.Div(
		g.Class("bg-white pb-0 text-sm text-gray-900 font-sans"),
		TopBar(p),
		g.Div(
			g.Class("px-4 pt-4"),
			g.Div(
				g.Class("flex items-center"),
				g.Div(g.Class("shrink-0 mr-6"), avatar(p.Avatar)),
				g.Div(
					g.Class("flex-1 flex justify-around"),
					cmp.Group{
						stat(stats[0], mockup.StatLabels[0]),
						stat(stats[1], mockup.StatLabels[1]),
						stat(stats[2], mockup.StatLabels[2]),
					},
				),
			),
			g.Div(
				g.Class("mt-3"),
				g.Div(g.Class("font-semibold text-sm"), cmp.Text(p.DisplayName)),
				g.Div(g.Class("whitespace-pre-wrap text-sm leading-snug mt-1"), cmp.Text(p.Bio)),
				cmp.If(p.ExternalLink != "",
					g.Div(
						g.Class("flex items-center gap-1 text-[#00376b] text-sm font-semibold mt-1"),
						g.Span(cmp.Text("🔗")),
						g.Span(cmp.Text(p.ExternalLink)),
					),
				),
			),
			g.Div(
				g.Class("flex gap-2 mt-4 text-sm font-semibold"),
				actionButton(mockup.ActionLabels[0]+" ▾"),
				actionButton(mockup.ActionLabels[1]),
				actionButton(mockup.ActionLabels[2]),
			),
			highlightReel(p.Highlights),
			tabBar(),
		),
	)
}

func avatar(h domain.ResourceHandle) cmp.Node {
	var inner cmp.Node
	if h.IsZero() {
		inner = g.Div(
			g.Class("w-full h-full flex items-end justify-center bg-gray-200"),
			g.Div(g.Class("w-10 h-10 mb-[-8px] rounded-full bg-gray-300")),
		)
	} else {
		inner = g.Img(g.Src(ResourceURL(h)), g.Alt("Profile"), g.Class("w-full h-full object-cover"))
	}
	return g.Div(
		g.Class("w-20 h-20 rounded-full p-[2px] bg-gradient-to-tr from-yellow-400 via-red-500 to-purple-500"),
		g.Div(
			g.Class("w-full h-full rounded-full border-2 border-white overflow-hidden bg-gray-50"),
			inner,
		),
	)
}

func stat(value, label string) cmp.Node {
	return g.Div(
		g.Class("flex flex-col items-center"),
		g.Span(g.Class("font-semibold text-lg text-gray-900"), cmp.Text(value)),
		g.Span(g.Class("text-sm text-gray-600"), cmp.Text(label)),
	)
}

func actionButton(label string) cmp.Node {
	return g.Button(
		g.Type("button"),
		g.Class("flex-1 bg-gray-100 py-1.5 rounded-lg flex items-center justify-center gap-1"),
		cmp.Attr("tabindex", "-1"),
		cmp.Text(label),
	)
}

func highlightReel(highlights []domain.Highlight) cmp.Node {
	items := make([]cmp.Node, 0, domain.HighlightCount)
	if len(highlights) == 0 {
		for i := 0; i < domain.HighlightCount; i++ {
			items = append(items, g.Div(
				g.Class("flex flex-col items-center gap-1 min-w-[64px] opacity-60"),
				g.Div(
					g.Class("w-16 h-16 rounded-full border border-gray-200 bg-gray-50 p-1"),
					g.Div(g.Class("w-full h-full rounded-full bg-gray-200")),
				),
				g.Div(g.Class("h-2 w-8 bg-gray-100 rounded")),
			))
		}
	}
	for _, h := range highlights {
		var cover cmp.Node
		if h.Cover.IsZero() {
			cover = g.Div(
				g.Class("w-full h-full flex items-center justify-center bg-gray-100 text-gray-400"),
				g.Div(g.Class("w-8 h-8 rounded-full border-2 border-gray-300")),
			)
		} else {
			cover = g.Img(g.Src(ResourceURL(h.Cover)), g.Alt(h.Title), g.Class("w-full h-full object-cover"))
		}
		items = append(items, g.Div(
			g.Class("flex flex-col items-center gap-1 min-w-[64px]"),
			g.Div(
				g.Class("w-16 h-16 rounded-full border border-gray-200 bg-gray-50 p-0.5"),
				g.Div(g.Class("w-full h-full rounded-full border border-gray-100 bg-gray-200 overflow-hidden"), cover),
			),
			g.Div(g.Class("text-xs text-center truncate w-16"), cmp.Text(h.Title)),
		))
	}
	return g.Div(g.Class("flex gap-4 overflow-x-auto pb-4 mt-6"), cmp.Group(items))
}

func tabBar() cmp.Node {
	tab := func(glyph string, active bool) cmp.Node {
		class := "flex-1 flex justify-center items-center py-2.5 text-gray-400"
		if active {
			class = "flex-1 flex justify-center items-center py-2.5 border-b-2 border-black -mb-[1px] text-gray-900"
		}
		return g.Div(g.Class(class), cmp.Text(glyph))
	}
	return g.Div(
		g.Class("flex border-t border-gray-200 mt-2"),
		tab("▦", true),
		tab("▶", false),
		tab("◻", false),
	)
}
