package export

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	xdraw "golang.org/x/image/draw"
)

// canvas draws in CSS pixels onto a device-pixel RGBA image.
type canvas struct {
	img   *image.RGBA
	scale float64
	faces *faceCache
}

func (c *canvas) px(v float64) int { return int(math.Round(v * c.scale)) }

func (c *canvas) d(v float64) float64 { return v * c.scale }

// rect converts a CSS pixel box to device pixels.
func (c *canvas) rect(x0, y0, x1, y1 float64) image.Rectangle {
	return image.Rect(c.px(x0), c.px(y0), c.px(x1), c.px(y1))
}

func (c *canvas) fillRect(r image.Rectangle, col color.Color) {
	xdraw.Draw(c.img, r, image.NewUniform(col), image.Point{}, xdraw.Over)
}

// sdf is a signed distance field in device pixels: negative inside.
type sdf func(x, y float64) float64

func sdCircle(cx, cy, r float64) sdf {
	return func(x, y float64) float64 { return math.Hypot(x-cx, y-cy) - r }
}

func sdRoundRect(x0, y0, x1, y1, radius float64) sdf {
	cx, cy := (x0+x1)/2, (y0+y1)/2
	hw, hh := (x1-x0)/2, (y1-y0)/2
	radius = math.Min(radius, math.Min(hw, hh))
	return func(x, y float64) float64 {
		qx := math.Abs(x-cx) - (hw - radius)
		qy := math.Abs(y-cy) - (hh - radius)
		outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
		inside := math.Min(math.Max(qx, qy), 0)
		return outside + inside - radius
	}
}

func sdSegment(ax, ay, bx, by float64) sdf {
	return func(x, y float64) float64 {
		px, py := x-ax, y-ay
		dx, dy := bx-ax, by-ay
		h := 0.0
		if l := dx*dx + dy*dy; l > 0 {
			h = math.Max(0, math.Min(1, (px*dx+py*dy)/l))
		}
		return math.Hypot(px-dx*h, py-dy*h)
	}
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

// coverage is an anti-aliased alpha mask evaluated at pixel centres.
type coverage struct {
	r  image.Rectangle
	fn func(x, y float64) float64
}

func (m *coverage) ColorModel() color.Model { return color.AlphaModel }
func (m *coverage) Bounds() image.Rectangle { return m.r }
func (m *coverage) At(x, y int) color.Color {
	return color.Alpha{A: uint8(math.Round(clamp01(m.fn(float64(x)+0.5, float64(y)+0.5)) * 255))}
}

func fillMask(d sdf) func(x, y float64) float64 {
	return func(x, y float64) float64 { return 0.5 - d(x, y) }
}

func strokeMask(d sdf, width float64) func(x, y float64) float64 {
	return func(x, y float64) float64 { return width/2 + 0.5 - math.Abs(d(x, y)) }
}

// paint composites src through a coverage function limited to r.
func (c *canvas) paint(r image.Rectangle, fn func(x, y float64) float64, src image.Image) {
	r = r.Inset(-2).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	m := &coverage{r: r, fn: fn}
	xdraw.DrawMask(c.img, r, src, r.Min, m, r.Min, xdraw.Over)
}

func (c *canvas) fillCircle(cx, cy, radius float64, col color.Color) {
	c.paint(c.rect(cx-radius, cy-radius, cx+radius, cy+radius),
		fillMask(sdCircle(c.d(cx), c.d(cy), c.d(radius))), image.NewUniform(col))
}

func (c *canvas) strokeCircle(cx, cy, radius, width float64, col color.Color) {
	c.paint(c.rect(cx-radius-width, cy-radius-width, cx+radius+width, cy+radius+width),
		strokeMask(sdCircle(c.d(cx), c.d(cy), c.d(radius)), c.d(width)), image.NewUniform(col))
}

func (c *canvas) fillRoundRect(x0, y0, x1, y1, radius float64, col color.Color) {
	c.paint(c.rect(x0, y0, x1, y1),
		fillMask(sdRoundRect(c.d(x0), c.d(y0), c.d(x1), c.d(y1), c.d(radius))), image.NewUniform(col))
}

func (c *canvas) strokeRoundRect(x0, y0, x1, y1, radius, width float64, col color.Color) {
	c.paint(c.rect(x0-width, y0-width, x1+width, y1+width),
		strokeMask(sdRoundRect(c.d(x0), c.d(y0), c.d(x1), c.d(y1), c.d(radius)), c.d(width)), image.NewUniform(col))
}

func (c *canvas) line(ax, ay, bx, by, width float64, col color.Color) {
	c.paint(c.rect(math.Min(ax, bx)-width, math.Min(ay, by)-width, math.Max(ax, bx)+width, math.Max(ay, by)+width),
		strokeMask(sdSegment(c.d(ax), c.d(ay), c.d(bx), c.d(by)), c.d(width)), image.NewUniform(col))
}

// coverSource returns the centred part of src with the aspect ratio of w x h.
func coverSource(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 || w == 0 || h == 0 {
		return src
	}
	if sw*h > sh*w {
		cw := sh * w / h
		x0 := src.Min.X + (sw-cw)/2
		return image.Rect(x0, src.Min.Y, x0+cw, src.Max.Y)
	}
	ch := sw * h / w
	y0 := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y0, src.Max.X, y0+ch)
}

// drawCover scales img to fill r, cropping the overflow like object-cover.
func (c *canvas) drawCover(img image.Image, r image.Rectangle) {
	xdraw.CatmullRom.Scale(c.img, r, img, coverSource(img.Bounds(), r.Dx(), r.Dy()), xdraw.Over, nil)
}

// drawCoverCircle is drawCover clipped to the circle inscribed in the box.
func (c *canvas) drawCoverCircle(img image.Image, cx, cy, radius float64) {
	r := c.rect(cx-radius, cy-radius, cx+radius, cy+radius)
	tmp := image.NewRGBA(r)
	xdraw.CatmullRom.Scale(tmp, r, img, coverSource(img.Bounds(), r.Dx(), r.Dy()), xdraw.Src, nil)
	c.paint(r, fillMask(sdCircle(c.d(cx), c.d(cy), c.d(radius))), tmp)
}

// measure returns the advance of s in CSS pixels.
func (c *canvas) measure(s string, size float64, bold bool) float64 {
	return float64(font.MeasureString(c.faces.face(size, bold), s)) / 64 / c.scale
}

// baseline places text of the given size vertically centred on cy.
func baseline(cy, size float64) float64 { return cy + size*0.35 }

// text draws s with its left edge at x and returns its width in CSS pixels.
func (c *canvas) text(s string, x, cy, size float64, bold bool, col color.Color) float64 {
	face := c.faces.face(size, bold)
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(c.d(x) * 64), Y: fixed.Int26_6(c.d(baseline(cy, size)) * 64)},
	}
	d.DrawString(s)
	return c.measure(s, size, bold)
}

// textCentered draws s horizontally centred on cx.
func (c *canvas) textCentered(s string, cx, cy, size float64, bold bool, col color.Color) {
	c.text(s, cx-c.measure(s, size, bold)/2, cy, size, bold, col)
}

// truncate shortens s with an ellipsis so it fits in width.
func (c *canvas) truncate(s string, width, size float64, bold bool) string {
	if c.measure(s, size, bold) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "…"
		if c.measure(candidate, size, bold) <= width {
			return candidate
		}
	}
	return "…"
}

// wrap splits s on newlines and wraps each line to width, keeping blank lines.
func (c *canvas) wrap(s string, width, size float64, bold bool) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if c.measure(line+" "+w, size, bold) <= width {
				line += " " + w
				continue
			}
			out = append(out, line)
			line = w
		}
		out = append(out, line)
	}
	return out
}

// linearGradient paints stops evenly along the segment from (x0,y0) to (x1,y1)
// in device pixels.
type linearGradient struct {
	x0, y0, x1, y1 float64
	stops          []color.RGBA
}

func (g *linearGradient) ColorModel() color.Model { return color.RGBAModel }
func (g *linearGradient) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (g *linearGradient) At(x, y int) color.Color {
	dx, dy := g.x1-g.x0, g.y1-g.y0
	t := 0.0
	if l := dx*dx + dy*dy; l > 0 {
		t = clamp01(((float64(x)+0.5-g.x0)*dx + (float64(y)+0.5-g.y0)*dy) / l)
	}
	if len(g.stops) == 1 {
		return g.stops[0]
	}
	pos := t * float64(len(g.stops)-1)
	i := int(pos)
	if i >= len(g.stops)-1 {
		return g.stops[len(g.stops)-1]
	}
	f := pos - float64(i)
	a, b := g.stops[i], g.stops[i+1]
	mix := func(p, q uint8) uint8 { return uint8(math.Round(float64(p) + (float64(q)-float64(p))*f)) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
