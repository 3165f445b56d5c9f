package export

import (
	"image"
	"image/color"
	"math"

	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/mockup"
)

var (
	white     = color.RGBA{255, 255, 255, 255}
	black     = color.RGBA{0, 0, 0, 255}
	gray50    = color.RGBA{249, 250, 251, 255}
	gray100   = color.RGBA{243, 244, 246, 255}
	gray200   = color.RGBA{229, 231, 235, 255}
	gray300   = color.RGBA{209, 213, 219, 255}
	gray400   = color.RGBA{156, 163, 175, 255}
	gray600   = color.RGBA{75, 85, 99, 255}
	gray800   = color.RGBA{31, 41, 55, 255}
	gray900   = color.RGBA{17, 24, 39, 255}
	linkBlue  = color.RGBA{0, 55, 107, 255}
	purple600 = color.RGBA{147, 51, 234, 255}

	ringStops = []color.RGBA{
		{250, 204, 21, 255}, // yellow-400
		{239, 68, 68, 255},  // red-500
		{168, 85, 247, 255}, // purple-500
	}
)

// Header geometry in CSS pixels, mirroring the phone layout of the preview.
const (
	padX            = 16.0
	topBarHeight    = 41.0
	avatarSize      = 80.0
	lineHeight      = 20.0
	bioLineHeight   = 19.0
	buttonHeight    = 32.0
	buttonGap       = 8.0
	highlightSize   = 64.0
	highlightStride = 80.0
	tabRowHeight    = 44.0

	emptyGridHeight = 300.0
	gridPadBottom   = 48.0
)

// fade blends c towards white, like an opacity utility over a white page.
func fade(c color.RGBA, opacity float64) color.RGBA {
	mix := func(v uint8) uint8 { return uint8(math.Round(255 - (255-float64(v))*opacity)) }
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 255}
}

// headerLayout holds the vertical positions of the header rows.
type headerLayout struct {
	bio        []string
	avatarY    float64
	nameY      float64
	bioY       float64
	linkY      float64
	buttonsY   float64
	highlights float64
	tabsY      float64
	bottom     float64
}

func (r *renderer) layoutHeader() headerLayout {
	var l headerLayout
	p := r.snap.Profile

	l.avatarY = topBarHeight + 16
	l.nameY = l.avatarY + avatarSize + 12
	y := l.nameY + lineHeight

	if p.Bio != "" {
		l.bio = r.c.wrap(p.Bio, mockup.Width-2*padX, 14, false)
		l.bioY = y + 4
		y = l.bioY + float64(len(l.bio))*bioLineHeight
	}
	if p.ExternalLink != "" {
		l.linkY = y + 4
		y = l.linkY + lineHeight
	}

	l.buttonsY = y + 16
	l.highlights = l.buttonsY + buttonHeight + 24
	l.tabsY = l.highlights + highlightSize + 4 + 16 + 16 + 8
	l.bottom = l.tabsY + 1 + tabRowHeight
	return l
}

func (r *renderer) drawHeader(l headerLayout) {
	r.drawTopBar()
	r.drawAvatarRow(l.avatarY)
	r.drawBio(l)
	r.drawButtons(l.buttonsY)
	r.drawHighlights(l.highlights)
	r.drawTabs(l.tabsY)
}

func (r *renderer) drawTopBar() {
	c := r.c
	cy := 20.0

	// lock
	c.strokeRoundRect(17.5, 12.5, 24.5, 21, 3.5, 1.6, gray800)
	c.fillRoundRect(16, 18, 26, 26, 1.5, gray800)

	x := 16 + 10 + 4.0
	w := c.text(r.snap.Profile.Handle, x, cy, 18, true, gray900)

	cx := x + w + 6
	c.line(cx, cy-2, cx+4, cy+2, 1.8, gray900)
	c.line(cx+4, cy+2, cx+8, cy-2, 1.8, gray900)

	right := mockup.Width - padX
	c.strokeRoundRect(right-24-16-24+1, 9, right-24-16-1, 31, 6, 2, gray800)
	c.line(right-24, 31, right-1, 31, 2, gray800)
	c.line(right-1, 9, right-1, 31, 2, gray800)

	c.fillRect(c.rect(0, topBarHeight-1, mockup.Width, topBarHeight), gray100)
}

func (r *renderer) drawAvatarRow(y float64) {
	c := r.c
	cx, cy := padX+avatarSize/2, y+avatarSize/2

	grad := &linearGradient{
		x0: c.d(cx - avatarSize/2), y0: c.d(cy + avatarSize/2),
		x1: c.d(cx + avatarSize/2), y1: c.d(cy - avatarSize/2),
		stops: ringStops,
	}
	c.paint(c.rect(cx-40, cy-40, cx+40, cy+40), fillMask(sdCircle(c.d(cx), c.d(cy), c.d(40))), grad)
	c.fillCircle(cx, cy, 38, white)
	c.fillCircle(cx, cy, 36, gray50)

	if img := r.images[r.snap.Profile.Avatar]; img != nil {
		c.drawCoverCircle(img, cx, cy, 36)
	} else {
		r.drawPersonGlyph(cx, cy, 36)
	}

	left := padX + avatarSize + 24
	width := mockup.Width - padX - left
	counts := [3]string{r.snap.Profile.PostsCount, r.snap.Profile.FollowersCount, r.snap.Profile.FollowingCount}
	for i := range counts {
		sx := left + width*float64(2*i+1)/6
		c.textCentered(counts[i], sx, cy-10, 18, true, gray900)
		c.textCentered(mockup.StatLabels[i], sx, cy+14, 14, false, gray600)
	}
}

func (r *renderer) drawPersonGlyph(cx, cy, radius float64) {
	c := r.c
	c.fillCircle(cx, cy-8, radius*0.3, gray300)
	clip := sdCircle(c.d(cx), c.d(cy), c.d(radius))
	body := sdCircle(c.d(cx), c.d(cy+radius*0.75), c.d(radius*0.6))
	c.paint(c.rect(cx-radius, cy-radius, cx+radius, cy+radius), func(x, y float64) float64 {
		return math.Min(fillMask(clip)(x, y), fillMask(body)(x, y))
	}, image.NewUniform(gray300))
}

func (r *renderer) drawBio(l headerLayout) {
	c := r.c
	p := r.snap.Profile

	c.text(p.DisplayName, padX, l.nameY+lineHeight/2, 14, true, gray900)
	for i, line := range l.bio {
		if line != "" {
			c.text(line, padX, l.bioY+float64(i)*bioLineHeight+bioLineHeight/2, 14, false, gray900)
		}
	}
	if p.ExternalLink != "" {
		cy := l.linkY + lineHeight/2
		c.strokeRoundRect(padX, cy-2, padX+7, cy+2, 2, 1.3, linkBlue)
		c.strokeRoundRect(padX+5, cy-2, padX+12, cy+2, 2, 1.3, linkBlue)
		link := c.truncate(p.ExternalLink, mockup.Width-2*padX-16, 14, true)
		c.text(link, padX+16, cy, 14, true, linkBlue)
	}
}

func (r *renderer) drawButtons(y float64) {
	c := r.c
	w := (mockup.Width - 2*padX - 2*buttonGap) / 3
	for i, label := range mockup.ActionLabels {
		x0 := padX + float64(i)*(w+buttonGap)
		c.fillRoundRect(x0, y, x0+w, y+buttonHeight, 8, gray100)
		cx, cy := x0+w/2, y+buttonHeight/2
		if i == 0 {
			lw := c.measure(label, 14, true)
			c.text(label, cx-(lw+12)/2, cy, 14, true, gray900)
			ax := cx + lw/2 - 6 + 4
			c.line(ax, cy-1.5, ax+3.5, cy+2, 1.5, gray900)
			c.line(ax+3.5, cy+2, ax+7, cy-1.5, 1.5, gray900)
			continue
		}
		c.textCentered(label, cx, cy, 14, true, gray900)
	}
}

func (r *renderer) drawHighlights(y float64) {
	c := r.c
	highlights := r.snap.Profile.Highlights

	if len(highlights) == 0 {
		for i := 0; i < domain.HighlightCount; i++ {
			x := padX + float64(i)*highlightStride
			cx, cy := x+highlightSize/2, y+highlightSize/2
			c.fillCircle(cx, cy, 32, fade(gray200, 0.6))
			c.fillCircle(cx, cy, 31, fade(gray50, 0.6))
			c.fillCircle(cx, cy, 27, fade(gray200, 0.6))
			by := y + highlightSize + 4 + 4
			c.fillRoundRect(cx-16, by, cx+16, by+8, 2, fade(gray100, 0.6))
		}
		return
	}

	for i, h := range highlights {
		x := padX + float64(i)*highlightStride
		if x+highlightSize > mockup.Width {
			break
		}
		cx, cy := x+highlightSize/2, y+highlightSize/2
		c.fillCircle(cx, cy, 32, gray200)
		c.fillCircle(cx, cy, 31, gray50)
		c.fillCircle(cx, cy, 29, gray100)
		c.fillCircle(cx, cy, 28, gray200)

		if img := r.images[h.Cover]; img != nil {
			c.drawCoverCircle(img, cx, cy, 28)
		} else {
			c.fillCircle(cx, cy, 28, gray100)
			c.strokeCircle(cx, cy, 15, 2, gray300)
		}

		title := c.truncate(h.Title, highlightSize, 12, false)
		c.textCentered(title, cx, y+highlightSize+4+8, 12, false, gray900)
	}
}

func (r *renderer) drawTabs(y float64) {
	c := r.c
	c.fillRect(c.rect(padX, y, mockup.Width-padX, y+1), gray200)

	w := (mockup.Width - 2*padX) / 3
	cy := y + 1 + tabRowHeight/2
	c.fillRect(c.rect(padX, y+1+tabRowHeight-2, padX+w, y+1+tabRowHeight), black)

	for i := 0; i < 3; i++ {
		cx := padX + w*float64(2*i+1)/2
		col := gray400
		if i == 0 {
			col = gray900
		}
		x0, y0, x1, y1 := cx-9, cy-9, cx+9, cy+9
		c.strokeRoundRect(x0, y0, x1, y1, 2, 1.5, col)
		switch i {
		case 0:
			c.line(cx-3, y0, cx-3, y1, 1.5, col)
			c.line(cx+3, y0, cx+3, y1, 1.5, col)
			c.line(x0, cy-3, x1, cy-3, 1.5, col)
			c.line(x0, cy+3, x1, cy+3, 1.5, col)
		case 1:
			c.line(cx-5, y0, cx-5, y1, 1.5, col)
			c.line(cx+5, y0, cx+5, y1, 1.5, col)
			c.line(x0, cy, x1, cy, 1.5, col)
		case 2:
			c.strokeCircle(cx, cy-2, 3, 1.5, col)
			c.line(cx-5, y1-1, cx-3, cy+3, 1.5, col)
			c.line(cx-3, cy+3, cx+3, cy+3, 1.5, col)
			c.line(cx+3, cy+3, cx+5, y1-1, 1.5, col)
		}
	}
}

// gridMetrics is the grid geometry in device pixels.
type gridMetrics struct {
	gap, cellW, cellH, rows, height int
}

func (r *renderer) gridMetrics() gridMetrics {
	c := r.c
	n := len(r.snap.Images)
	if n == 0 {
		return gridMetrics{height: c.px(emptyGridHeight)}
	}
	gap := c.px(float64(r.snap.Spacing.Pixels()))
	cellW := (c.px(mockup.Width) - 2*gap) / 3
	cellH := cellW * 5 / 4
	rows := (n + 2) / 3
	return gridMetrics{
		gap:    gap,
		cellW:  cellW,
		cellH:  cellH,
		rows:   rows,
		height: rows*cellH + (rows-1)*gap + c.px(gridPadBottom),
	}
}

// CellRect returns the device pixel box of grid cell i at the given top offset.
func (m gridMetrics) CellRect(top, i int) image.Rectangle {
	col, row := i%3, i/3
	x := col * (m.cellW + m.gap)
	y := top + row*(m.cellH+m.gap)
	return image.Rect(x, y, x+m.cellW, y+m.cellH)
}

func (r *renderer) drawGrid(top int, m gridMetrics) {
	c := r.c
	if len(r.snap.Images) == 0 {
		c.textCentered(mockup.EmptyGridText, mockup.Width/2, float64(top)/c.scale+96, 14, false, gray400)
		return
	}

	for i, staged := range r.snap.Images {
		cell := m.CellRect(top, i)
		c.fillRect(cell, gray100)
		if img := r.images[staged.Handle]; img != nil {
			c.drawCover(img, cell)
		} else {
			r.drawBrokenGlyph(cell)
		}
		if r.opts.Overlays && staged.AIGenerated {
			r.drawAIBadge(cell)
		}
	}
}

func (r *renderer) drawBrokenGlyph(cell image.Rectangle) {
	c := r.c
	cx := float64(cell.Min.X+cell.Max.X) / 2 / c.scale
	cy := float64(cell.Min.Y+cell.Max.Y) / 2 / c.scale
	c.strokeRoundRect(cx-12, cy-10, cx+12, cy+10, 3, 1.5, gray300)
	c.line(cx-8, cy+6, cx-2, cy-1, 1.5, gray300)
	c.line(cx-2, cy-1, cx+8, cy+6, 1.5, gray300)
}

// drawAIBadge marks a generated image, top-right with a 4px inset.
func (r *renderer) drawAIBadge(cell image.Rectangle) {
	c := r.c
	right := float64(cell.Max.X)/c.scale - 4
	top := float64(cell.Min.Y)/c.scale + 4
	w := c.measure(mockup.AIBadgeText, 10, true) + 12
	c.fillRoundRect(right-w, top, right, top+16, 2, purple600)
	c.textCentered(mockup.AIBadgeText, right-w/2, top+8, 10, true, white)
}
