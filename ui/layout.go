package ui

// Finalize builds the current frame's retained-state hash table then runs
// the full layout pipeline: intrinsic sizing depth-first, document-root
// layout against the screen rect, then each floater positioned relative
// to its logical parent. It is idempotent: calling it twice in the same
// frame recomputes the same result.
func (c *Context) Finalize(screen Rect) {
	c.cur.buildNodeMap()
	for _, root := range c.cur.roots {
		c.measure(root)
	}
	for _, f := range c.cur.floaters {
		c.measure(f)
	}

	clip := screen
	for _, root := range c.cur.roots {
		n := c.cur.Node(root)
		n.Outer = screen
		n.Inner = outerToInner(n, screen)
		n.OuterClipped = screen.Intersect(clip)
		n.InnerClipped = n.Inner.Intersect(clip)
		c.layoutContainer(root, n.Inner, clip)
	}

	for _, f := range c.cur.floaters {
		parentOuter := screen
		if parent := c.cur.Node(f).Parent; parent != nilIdx {
			parentOuter = c.cur.Node(parent).Outer
		}
		c.layoutFloater(f, parentOuter, screen)
	}
}

func columnsOf(n *Node) []ColumnSpec {
	if len(n.Attrs.Columns) > 0 {
		return n.Attrs.Columns
	}
	return []ColumnSpec{{Width: -1}}
}

// intrinsicToOuter returns a child's outer size: its own intrinsic inner
// size plus padding, plus a 1-cell border on every side if bordered,
// plus a 1-cell right gutter if the child is a scrollarea.
func intrinsicToOuter(n *Node) Size {
	w, h := n.Intrinsic.W, n.Intrinsic.H
	if n.Attrs.MinW > 0 && w < n.Attrs.MinW {
		w = n.Attrs.MinW
	}
	if n.Attrs.MinH > 0 && h < n.Attrs.MinH {
		h = n.Attrs.MinH
	}
	w += 2 * n.Attrs.Padding
	h += 2 * n.Attrs.Padding
	if n.Attrs.Bordered {
		w += 2
		h += 2
	}
	if n.Kind == Scrollarea {
		w++
	}
	return Size{W: w, H: h}
}

func outerToInner(n *Node, outer Rect) Rect {
	in := outer
	if n.Attrs.Bordered {
		in.Left++
		in.Top++
		in.Right--
		in.Bottom--
	}
	in.Left += n.Attrs.Padding
	in.Top += n.Attrs.Padding
	in.Right -= n.Attrs.Padding
	in.Bottom -= n.Attrs.Padding
	if n.Kind == Scrollarea {
		in.Right--
	}
	return in
}

// measure computes Intrinsic bottom-up: a container's intrinsic size is
// the grid-accumulated size of its intrinsically-sized children; leaves
// report their own content size. A scrollarea's own intrinsic size is
// zero (its size comes from MinW/MinH); its content only sets the scroll
// range.
func (c *Context) measure(idx int32) {
	n := c.cur.Node(idx)
	switch n.Kind {
	case Text:
		n.Intrinsic = measureText(n)
		return
	case Textarea:
		n.Intrinsic = measureTextarea(n)
		return
	}

	children := c.cur.Children(idx)
	for _, ch := range children {
		c.measure(ch)
	}
	if n.Kind == Scrollarea {
		n.Intrinsic = Size{}
		return
	}

	cols := columnsOf(n)
	k := len(cols)
	colWidth := make([]int, k)

	var total Size
	var rowWidth, rowHeight int
	col := 0
	for _, ch := range children {
		child := c.cur.Node(ch)
		sz := intrinsicToOuter(child)
		if sz.W > colWidth[col] {
			colWidth[col] = sz.W
		}
		rowWidth += sz.W
		if sz.H > rowHeight {
			rowHeight = sz.H
		}
		col++
		if col == k {
			if rowWidth > total.W {
				total.W = rowWidth
			}
			total.H += rowHeight
			rowWidth, rowHeight, col = 0, 0, 0
		}
	}
	if col != 0 {
		if rowWidth > total.W {
			total.W = rowWidth
		}
		total.H += rowHeight
	}
	n.Intrinsic = total
}

// layoutContainer resolves column widths against inner, then places
// children in row-major order, clipping each child's outer rect to the
// parent's inner rect before recursing.
func (c *Context) layoutContainer(idx int32, inner Rect, clip Rect) {
	n := c.cur.Node(idx)
	if n.Kind == Scrollarea {
		c.layoutScrollarea(idx, inner, clip)
		return
	}
	clip = inner.Intersect(clip)

	children := c.cur.Children(idx)
	cols := columnsOf(n)
	k := len(cols)

	intrinsicCol := make([]int, k)
	for i, ch := range children {
		child := c.cur.Node(ch)
		sz := intrinsicToOuter(child)
		col := i % k
		if sz.W > intrinsicCol[col] {
			intrinsicCol[col] = sz.W
		}
	}

	resolved := resolveColumns(cols, intrinsicCol, inner.Width())

	x, y := inner.Left, inner.Top
	col := 0
	rowHeight := 0
	for _, ch := range children {
		child := c.cur.Node(ch)
		sz := intrinsicToOuter(child)
		w := resolved[col]
		h := sz.H

		outer := Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
		child.Outer = outer
		child.Inner = outerToInner(child, outer)
		child.OuterClipped = outer.Intersect(clip)
		child.InnerClipped = child.Inner.Intersect(clip)

		if h > rowHeight {
			rowHeight = h
		}
		x += w
		col++
		if col == k {
			col = 0
			x = inner.Left
			y += rowHeight
			rowHeight = 0
		}

		c.layoutContainer(ch, child.Inner, clip)
	}
}

// resolveColumns separates absolute (Width>0) from flexible (Width<=0)
// columns, distributes the remaining space proportionally among flexible
// columns by weight, and floors each at its intrinsic width.
func resolveColumns(cols []ColumnSpec, intrinsicCol []int, innerWidth int) []int {
	k := len(cols)
	resolved := make([]int, k)

	var absoluteSum, flexWeightSum int
	for i, c := range cols {
		if c.Width > 0 {
			resolved[i] = c.Width
			absoluteSum += c.Width
		} else {
			w := -c.Width
			if w == 0 {
				w = 1
			}
			flexWeightSum += w
		}
	}

	remaining := innerWidth - absoluteSum
	if remaining < 0 {
		remaining = 0
	}

	for i, c := range cols {
		if c.Width > 0 {
			continue
		}
		w := -c.Width
		if w == 0 {
			w = 1
		}
		share := 0
		if flexWeightSum > 0 {
			share = int(round(float64(w) * float64(remaining) / float64(flexWeightSum)))
		}
		if share < intrinsicCol[i] {
			share = intrinsicCol[i]
		}
		resolved[i] = share
	}
	return resolved
}

func round(v float64) float64 {
	if v < 0 {
		return float64(int(v - 0.5))
	}
	return float64(int(v + 0.5))
}

// layoutScrollarea positions the single child at the scroll-clamped
// offset, clipping the child's rects to the scrollarea's own inner rect.
func (c *Context) layoutScrollarea(idx int32, inner Rect, clip Rect) {
	n := c.cur.Node(idx)
	children := c.cur.Children(idx)
	if len(children) == 0 {
		return
	}
	child := c.cur.Node(children[0])
	sz := intrinsicToOuter(child)

	contentW, contentH := sz.W, sz.H
	if contentW < inner.Width() {
		contentW = inner.Width()
	}
	if contentH < inner.Height() {
		contentH = inner.Height()
	}
	n.scroll.contentW, n.scroll.contentH = contentW, contentH

	maxScrollX := maxInt(contentW-inner.Width(), 0)
	maxScrollY := maxInt(contentH-inner.Height(), 0)
	if n.scroll.scrollX < 0 {
		n.scroll.scrollX = 0
	}
	if n.scroll.scrollX > maxScrollX {
		n.scroll.scrollX = maxScrollX
	}
	if n.scroll.scrollY < 0 {
		n.scroll.scrollY = 0
	}
	if n.scroll.scrollY > maxScrollY {
		n.scroll.scrollY = maxScrollY
	}

	ox, oy := n.scroll.scrollX, n.scroll.scrollY
	outer := Rect{
		Left: inner.Left - ox, Top: inner.Top - oy,
		Right: inner.Left - ox + contentW, Bottom: inner.Top - oy + contentH,
	}
	child.Outer = outer
	child.Inner = outerToInner(child, outer)
	innerClip := n.InnerClipped
	child.OuterClipped = outer.Intersect(innerClip)
	child.InnerClipped = child.Inner.Intersect(innerClip)

	c.layoutContainer(children[0], child.Inner, innerClip)
}

// layoutFloater positions a floating root relative to parentOuter via
// gravity+offset, clips to the document root's inner rect, then recurses
// into its children using its own outer as the clip.
func (c *Context) layoutFloater(idx int32, parentOuter Rect, rootClip Rect) {
	n := c.cur.Node(idx)
	spec := FloatSpec{}
	if n.Attrs.Float != nil {
		spec = *n.Attrs.Float
	}

	sz := intrinsicToOuter(n)
	x := parentOuter.Left + spec.OffsetX - int(round(float64(spec.GravityX)*float64(sz.W)))
	y := parentOuter.Top + spec.OffsetY - int(round(float64(spec.GravityY)*float64(sz.H)))

	outer := Rect{Left: x, Top: y, Right: x + sz.W, Bottom: y + sz.H}
	n.Outer = outer
	n.Inner = outerToInner(n, outer)
	n.OuterClipped = outer.Intersect(rootClip)
	n.InnerClipped = n.Inner.Intersect(rootClip)

	c.layoutContainer(idx, n.Inner, n.Outer)
}
