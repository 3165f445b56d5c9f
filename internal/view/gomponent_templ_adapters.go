package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// gomponentComponent lets a gomponents node stand in wherever a
// templ.Component is expected.
type gomponentComponent struct {
	node gomponents.Node
}

func (a gomponentComponent) Render(_ context.Context, w io.Writer) error {
	return a.node.Render(w)
}

// AdaptGomponentToTempl wraps node as a templ.Component.
func AdaptGomponentToTempl(node gomponents.Node) templ.Component {
	return gomponentComponent{node: node}
}

// templNode lets a templ.Component be placed in a gomponents tree. gomponents
// does not pass a context down, so the component renders with ctx captured at
// adaptation time.
type templNode struct {
	ctx       context.Context
	component templ.Component
}

func (a templNode) Render(w io.Writer) error {
	return a.component.Render(a.ctx, w)
}

// AdaptTemplToGomponent wraps component as a gomponents.Node rendering with a
// background context.
func AdaptTemplToGomponent(component templ.Component) gomponents.Node {
	return AdaptTemplToGomponentContext(context.Background(), component)
}

// AdaptTemplToGomponentContext is AdaptTemplToGomponent with an explicit context.
func AdaptTemplToGomponentContext(ctx context.Context, component templ.Component) gomponents.Node {
	return templNode{ctx: ctx, component: component}
}
