package ui

import "github.com/nonomal/edit/ucd"

// TextSource is the minimal view a Textarea widget needs onto an external
// text store (textbuffer.Buffer satisfies this). Kept as an interface so
// `ui` does not import `textbuffer` directly, preserving the dependency
// order in SPEC_FULL.md's component table.
type TextSource interface {
	TextLength() int
	Extract(beg, end int, dst []byte) int
	CursorOffset() int
	CursorVisual() ucd.Position
	SelectionRange() (beg, end int, active bool)
	VisualRowRange(row int) (beg, end int, ok bool)
}

// Label renders a single styled line of text.
func (c *Context) Label(name, text string, style Style) *Node {
	n := c.leafNode(name, Text)
	n.text.chunks = []TextChunk{{Text: text, Style: style}}
	return n
}

// RichText renders multiple styled chunks as one Text node.
func (c *Context) RichText(name string, chunks []TextChunk) *Node {
	n := c.leafNode(name, Text)
	n.text.chunks = chunks
	return n
}

// Button is a Text node that additionally reports its own click state via
// WasClicked once the frame has rendered; callers check that after
// Finalize. autofocus/bordered are the caller's choice via SetBordered.
func (c *Context) Button(name, label string, style Style) *Node {
	return c.Label(name, label, style)
}

// Textarea creates a node bound to an external text source, with the
// scroll offset and gutter width spec'd separately.
func (c *Context) Textarea(name string, src TextSource, gutter int) *Node {
	n := c.leafNode(name, Textarea)
	n.textarea.source = src
	n.textarea.gutter = gutter
	n.textarea.focused = n.ID == c.FocusedID
	if prev, ok := c.GetPrevNode(n.ID); ok {
		n.textarea.scrollY = prev.textarea.scrollY
	}
	return n
}

// ScrollTextarea adjusts a textarea's remembered scroll offset (rows) by
// delta. The offset is not clamped: rows past the end of the document
// paint empty.
func (c *Context) ScrollTextarea(n *Node, delta int) {
	n.textarea.scrollY += delta
}

// Scrollarea begins a container with exactly one child, whose content can
// exceed the viewport and is scrolled via ScrollBy.
func (c *Context) ScrollareaBegin(name string) *Node {
	n := c.beginNode(name, Scrollarea)
	if prev, ok := c.GetPrevNode(n.ID); ok {
		n.scroll.scrollX = prev.scroll.scrollX
		n.scroll.scrollY = prev.scroll.scrollY
	}
	return n
}

func (c *Context) ScrollareaEnd() { c.ContainerEnd() }

// ScrollBy adjusts a scrollarea's remembered offset; it is clamped to
// [0, content-viewport] during the next Finalize.
func (c *Context) ScrollBy(n *Node, dx, dy int) {
	n.scroll.scrollX += dx
	n.scroll.scrollY += dy
}

// Menubar is a single-row horizontal container of Label items, a thin
// convenience wrapper over ContainerBegin/End + Label.
func (c *Context) Menubar(name string, items []string, style Style) *Node {
	n := c.ContainerBegin(name)
	n.Attrs.Columns = make([]ColumnSpec, len(items))
	for _, s := range items {
		c.Label(s, s, style)
	}
	c.ContainerEnd()
	return n
}

func measureText(n *Node) Size {
	width := 0
	for _, ch := range n.text.chunks {
		w := textWidth(ch.Text)
		width += w
	}
	h := 1
	if width == 0 {
		h = 0
		if len(n.text.chunks) > 0 {
			h = 1
		}
	}
	return Size{W: width, H: h}
}

func textWidth(s string) int {
	_, pos, _, _, _ := ucd.MeasureForward([]byte(s), 0, ucd.Position{}, -1, -1)
	return pos.X
}

func measureTextarea(n *Node) Size {
	// A textarea has no intrinsic content size of its own; it expands to
	// fill whatever space layout grants it. MinW/MinH (if set) establish a
	// floor via intrinsicToOuter.
	return Size{W: 0, H: 0}
}
