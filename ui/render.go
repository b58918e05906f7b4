package ui

import "github.com/mattn/go-runewidth"

// Canvas is the render target: row-major character cells plus parallel
// bg/fg color bitmaps, diffed into ANSI output by Diff.
type Canvas struct {
	W, H  int
	Cells []rune
	BG    []Color
	FG    []Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{W: w, H: h, Cells: make([]rune, w*h), BG: make([]Color, w*h), FG: make([]Color, w*h)}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.Cells {
		c.Cells[i] = ' '
		c.BG[i] = ColorTransparent
		c.FG[i] = ColorTransparent
	}
}

func (c *Canvas) idx(x, y int) int { return y*c.W + x }

func (c *Canvas) inBounds(x, y int) bool { return x >= 0 && x < c.W && y >= 0 && y < c.H }

// Box-drawing single-line glyphs, indexed by a 4-bit edge mask
// (1=bottom,2=right,4=top,8=left), used for border-merge at junctions.
var edgeToGlyph = map[uint8]rune{
	0b0011: '┌', 0b1001: '┐', 0b0110: '└', 0b1100: '┘',
	0b1010: '─', 0b0101: '│',
	0b1011: '┬', 0b1110: '┴', 0b0111: '├', 0b1101: '┤', 0b1111: '┼',
}

var glyphToEdge = func() map[rune]uint8 {
	m := make(map[rune]uint8, len(edgeToGlyph))
	for e, g := range edgeToGlyph {
		m[g] = e
	}
	return m
}()

// mergeBorder combines an existing box-drawing glyph with a new edge mask,
// returning the merged glyph. If existing isn't a recognised box-drawing
// glyph, the glyph for newMask alone is returned.
func mergeBorder(existing rune, newMask uint8) rune {
	existingMask, ok := glyphToEdge[existing]
	if !ok {
		return edgeToGlyph[newMask]
	}
	merged := existingMask | newMask
	if g, ok := edgeToGlyph[merged]; ok {
		return g
	}
	return edgeToGlyph[newMask]
}

func (c *Canvas) setBorderCell(x, y int, mask uint8, style Style) {
	if !c.inBounds(x, y) {
		return
	}
	i := c.idx(x, y)
	c.Cells[i] = mergeBorder(c.Cells[i], mask)
	c.BG[i] = Blend(c.BG[i], style.BG)
	c.FG[i] = Blend(c.FG[i], style.FG)
}

func (c *Canvas) blendCell(x, y int, bg, fg Color) {
	if !c.inBounds(x, y) {
		return
	}
	i := c.idx(x, y)
	c.BG[i] = Blend(c.BG[i], bg)
	c.FG[i] = Blend(c.FG[i], fg)
}

func (c *Canvas) setChar(x, y int, r rune) {
	if !c.inBounds(x, y) {
		return
	}
	c.Cells[c.idx(x, y)] = r
}

// Render paints the current frame's tree depth-first, pre-order, into
// canvas.
func (c *Context) Render(canvas *Canvas) {
	for _, root := range c.cur.roots {
		c.paintNode(canvas, root)
	}
	for _, fl := range c.cur.floaters {
		c.paintNode(canvas, fl)
	}
}

func (c *Context) paintNode(canvas *Canvas, idx int32) {
	n := c.cur.Node(idx)
	if n.OuterClipped.Empty() {
		return
	}

	style := Style{BG: n.Attrs.BG, FG: n.Attrs.FG}

	if n.Attrs.Bordered {
		paintBorder(canvas, n.OuterClipped, n.Outer, style)
	} else if n.Attrs.Floating {
		fillRect(canvas, n.OuterClipped, ' ', style)
	}

	if n.Kind == Scrollarea {
		paintScrollbarTrack(canvas, n)
	}

	blendRect(canvas, n.OuterClipped, style)

	if !n.InnerClipped.Empty() {
		switch n.Kind {
		case Text:
			paintText(canvas, n)
		case Textarea:
			paintTextarea(canvas, n)
		}
	}

	for _, ch := range c.cur.Children(idx) {
		c.paintNode(canvas, ch)
	}
}

func fillRect(canvas *Canvas, r Rect, ch rune, style Style) {
	for y := r.Top; y < r.Bottom; y++ {
		for x := r.Left; x < r.Right; x++ {
			canvas.setChar(x, y, ch)
			canvas.blendCell(x, y, style.BG, style.FG)
		}
	}
}

func blendRect(canvas *Canvas, r Rect, style Style) {
	for y := r.Top; y < r.Bottom; y++ {
		for x := r.Left; x < r.Right; x++ {
			canvas.blendCell(x, y, style.BG, style.FG)
		}
	}
}

// paintBorder draws the box-drawing border for outer (clipped to clip),
// merging with any adjacent border glyphs already painted.
func paintBorder(canvas *Canvas, clip, outer Rect, style Style) {
	if outer.Width() < 2 || outer.Height() < 2 {
		return
	}
	top, bottom := outer.Top, outer.Bottom-1
	left, right := outer.Left, outer.Right-1

	for x := left; x <= right; x++ {
		if !clip.Contains(Position{X: x, Y: top}) {
			continue
		}
		mask := uint8(0b1010)
		if x == left {
			mask = 0b0011
		} else if x == right {
			mask = 0b1001
		}
		canvas.setBorderCell(x, top, mask, style)
	}
	for x := left; x <= right; x++ {
		if !clip.Contains(Position{X: x, Y: bottom}) {
			continue
		}
		mask := uint8(0b1010)
		if x == left {
			mask = 0b0110
		} else if x == right {
			mask = 0b1100
		}
		canvas.setBorderCell(x, bottom, mask, style)
	}
	for y := top + 1; y < bottom; y++ {
		if clip.Contains(Position{X: left, Y: y}) {
			canvas.setBorderCell(left, y, 0b0101, style)
		}
		if clip.Contains(Position{X: right, Y: y}) {
			canvas.setBorderCell(right, y, 0b0101, style)
		}
	}
}

// paintScrollbarTrack draws the right-hand vertical scrollbar track, with
// the thumb height computed as max(round(viewport^2/content), 1) and the
// thumb top placed at track_top + round(scrollY*(track_height -
// thumb_height)/max_scroll), where track_top is the scrollarea's outer top
// (equal to track_bottom - track_height).
func paintScrollbarTrack(canvas *Canvas, n *Node) {
	trackX := n.Outer.Right - 1
	trackTop := n.Outer.Top
	trackBottom := n.Outer.Bottom
	trackHeight := trackBottom - trackTop
	if trackHeight <= 0 {
		return
	}

	viewport := n.Inner.Height()
	content := n.scroll.contentH
	if content <= 0 {
		content = viewport
	}

	thumbHeight := 1
	if content > 0 {
		v := float64(viewport * viewport)
		thumbHeight = int(round(v / float64(content)))
		if thumbHeight < 1 {
			thumbHeight = 1
		}
		if thumbHeight > trackHeight {
			thumbHeight = trackHeight
		}
	}

	maxScroll := maxInt(content-viewport, 0)
	thumbTop := trackTop
	if maxScroll > 0 {
		avail := trackHeight - thumbHeight
		thumbTop = trackTop + int(round(float64(n.scroll.scrollY)*float64(avail)/float64(maxScroll)))
	}
	thumbBottom := thumbTop + thumbHeight

	for y := trackTop; y < trackBottom; y++ {
		r := '░'
		if y >= thumbTop && y < thumbBottom {
			r = '█'
		}
		canvas.setChar(trackX, y, r)
	}
}

func paintText(canvas *Canvas, n *Node) {
	x := n.Inner.Left
	y := n.Inner.Top
	if n.Inner.Height() <= 0 {
		return
	}
	right := n.InnerClipped.Right
	for _, chunk := range n.text.chunks {
		x = replaceText(canvas, y, x, right, chunk.Text, chunk.Style)
		if x >= right {
			break
		}
	}
}

// replaceText writes text into row y starting at column x, stopping at
// column `right`, padding with a space where a wide glyph would straddle
// `right`; the left boundary x is not checked. Returns the new visual
// right edge.
func replaceText(canvas *Canvas, y, x, right int, text string, style Style) int {
	col := x
	for _, r := range text {
		if col >= right {
			break
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if col+w > right {
			// the glyph would straddle the clip edge: pad with a space
			canvas.setChar(col, y, ' ')
			canvas.blendCell(col, y, style.BG, style.FG)
			col++
			continue
		}
		canvas.setChar(col, y, r)
		canvas.blendCell(col, y, style.BG, style.FG)
		for k := 1; k < w; k++ {
			canvas.setChar(col+k, y, 0)
		}
		col += w
	}
	return col
}

func paintTextarea(canvas *Canvas, n *Node) {
	src := n.textarea.source
	if src == nil {
		return
	}
	gutter := n.textarea.gutter
	selBeg, selEnd, selActive := 0, 0, false
	if src != nil {
		selBeg, selEnd, selActive = src.SelectionRange()
	}

	rowCount := n.InnerClipped.Height()
	for row := 0; row < rowCount; row++ {
		y := n.InnerClipped.Top + row
		lineBeg, lineEnd := textareaRowRange(src, n.textarea.scrollY+row)
		if lineEnd > lineBeg {
			buf := make([]byte, lineEnd-lineBeg)
			nRead := src.Extract(lineBeg, lineEnd, buf)
			replaceText(canvas, y, n.Inner.Left+gutter, n.InnerClipped.Right, string(buf[:nRead]), Style{})
		}
		if selActive {
			paintSelection(canvas, y, n.Inner.Left+gutter, n.InnerClipped.Right, lineBeg, lineEnd, selBeg, selEnd)
		}
	}
}

// textareaRowRange returns the byte range of visual row `row` in src,
// delegating to the text store's own visual-position index (§4.7) so that
// word-wrapped lines are split across rows correctly rather than treating
// `row` as a raw '\n'-delimited logical line index.
func textareaRowRange(src TextSource, row int) (beg, end int) {
	beg, end, ok := src.VisualRowRange(row)
	if !ok {
		return 0, 0
	}
	return beg, end
}

func paintSelection(canvas *Canvas, y, x, right, lineBeg, lineEnd, selBeg, selEnd int) {
	if selBeg > selEnd {
		selBeg, selEnd = selEnd, selBeg
	}
	lo := maxInt(selBeg, lineBeg)
	hi := minInt(selEnd, lineEnd)
	if lo >= hi {
		return
	}
	col := x + (lo - lineBeg)
	width := hi - lo
	for i := 0; i < width && col+i < right; i++ {
		canvas.blendCell(col+i, y, RGBA(0x80, 0x44, 0x44, 0x88), ColorTransparent)
	}
}
