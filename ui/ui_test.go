package ui

import (
	"strings"
	"testing"

	"github.com/nonomal/edit/input"
)

func buildTwoButtonsBody(c *Context) *Node {
	root := c.ContainerBegin("root")
	root.Attrs.Columns = []ColumnSpec{{Width: 10}, {Width: 10}}
	c.Button("b1", "one", Style{})
	b2 := c.Button("b2", "two", Style{})
	c.ContainerEnd()
	return b2
}

func findNodeByID(f *Frame, id uint64) (*Node, bool) {
	for i := int32(0); i < int32(f.NodeCount()); i++ {
		n := f.Node(i)
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

func TestMouseFocusOnSecondButton(t *testing.T) {
	c := NewContext(64)

	c.Reset(input.Event{})
	b2 := buildTwoButtonsBody(c)
	c.Finalize(Rect{Left: 0, Top: 0, Right: 40, Bottom: 10})

	n2, ok := findNodeByID(c.Frame(), b2.ID)
	if !ok {
		t.Fatalf("button2 not found after finalize")
	}
	px := n2.InnerClipped.Left + 1
	py := n2.InnerClipped.Top

	c.Reset(input.Event{Kind: input.EventMouse, MouseAction: input.MousePress, MouseButton: input.ButtonLeft, MouseX: px, MouseY: py})
	buildTwoButtonsBody(c)
	c.Finalize(Rect{Left: 0, Top: 0, Right: 40, Bottom: 10})

	if c.FocusedID != b2.ID {
		t.Fatalf("focused id = %d, want button2 id %d", c.FocusedID, b2.ID)
	}

	c.Reset(input.Event{Kind: input.EventMouse, MouseAction: input.MouseRelease, MouseButton: input.ButtonLeft, MouseX: px, MouseY: py})
	button2 := buildTwoButtonsBody(c)
	c.Finalize(Rect{Left: 0, Top: 0, Right: 40, Bottom: 10})

	if !c.WasClicked(button2) {
		t.Fatalf("expected WasClicked(button2) to be true on release")
	}
}

func TestScrollareaClampsToContentHeight(t *testing.T) {
	c := NewContext(64)

	build := func() *Node {
		c.Reset(input.Event{})
		sa := c.ScrollareaBegin("sa")
		sa.Attrs.MinW, sa.Attrs.MinH = 20, 10
		inner := c.ContainerBegin("content")
		inner.Attrs.MinH = 100
		inner.Attrs.MinW = 20
		c.ContainerEnd()
		c.ScrollareaEnd()
		return sa
	}

	sa := build()
	c.Finalize(Rect{Left: 0, Top: 0, Right: 40, Bottom: 12})

	for i := 0; i < 40; i++ {
		c.ScrollBy(sa, 0, 3)
		sa = build()
		c.Finalize(Rect{Left: 0, Top: 0, Right: 40, Bottom: 12})
	}

	if sa.scroll.scrollY != 90 {
		t.Fatalf("scrollY = %d, want 90", sa.scroll.scrollY)
	}
}

func TestDiffEmitsSingleSGRTransitionForOneCellChange(t *testing.T) {
	prev := NewCanvas(4, 2)
	cur := NewCanvas(4, 2)
	for i := range prev.Cells {
		prev.Cells[i], cur.Cells[i] = 'x', 'x'
	}

	out1 := Diff(nil, prev, ColorModeTrueColor, true, 0, 0)
	if !strings.Contains(string(out1), "\x1b[H") {
		t.Fatalf("expected home-cursor prefix")
	}

	cur.BG[5] = RGBA(0xFF, 10, 20, 30)
	cur.Cells[5] = 'x'

	out2 := Diff(prev, cur, ColorModeTrueColor, true, 0, 0)
	if got := countSGRBgTransitions(string(out2)); got != 1 {
		t.Fatalf("bg SGR transitions = %d, want 1", got)
	}
}

func countSGRBgTransitions(s string) int {
	count := 0
	for i := 0; i+5 < len(s); i++ {
		if s[i] == '4' && s[i+1] == '8' && s[i+2] == ';' && s[i+3] == '2' {
			count++
		}
	}
	return count
}

func TestHitTestFindsDeepestNode(t *testing.T) {
	c := NewContext(64)
	c.Reset(input.Event{})
	outer := c.ContainerBegin("outer")
	outer.Attrs.MinW, outer.Attrs.MinH = 20, 20
	inner := c.ContainerBegin("inner")
	inner.Attrs.MinW, inner.Attrs.MinH = 5, 5
	c.ContainerEnd()
	c.ContainerEnd()
	c.Finalize(Rect{Left: 0, Top: 0, Right: 20, Bottom: 20})

	var best int32 = nilIdx
	hitTest(c.Frame(), &best, Position{X: 1, Y: 1})
	if best == nilIdx {
		t.Fatalf("expected a hit")
	}
	if c.Frame().Node(best).ID != inner.ID {
		t.Fatalf("hit node id = %d, want inner id %d", c.Frame().Node(best).ID, inner.ID)
	}
}

func TestFloaterPositionedAgainstLogicalParentNotRoot(t *testing.T) {
	c := NewContext(64)
	c.Reset(input.Event{})

	root := c.ContainerBegin("root")
	root.Attrs.Columns = []ColumnSpec{{Width: 10}, {Width: 30}}

	c.ContainerBegin("spacer")
	spacer := c.current()
	spacer.Attrs.MinW, spacer.Attrs.MinH = 10, 1
	c.ContainerEnd()

	panel := c.ContainerBegin("panel")
	panel.Attrs.MinW, panel.Attrs.MinH = 20, 10
	tip := c.Label("tip", "hi", Style{})
	c.Float(FloatSpec{})
	c.ContainerEnd()

	c.ContainerEnd()

	c.Finalize(Rect{Left: 0, Top: 0, Right: 60, Bottom: 20})

	if panel.Outer.Left == 0 {
		t.Fatalf("test setup invalid: panel.Outer.Left = 0, want > 0 so it differs from the screen rect")
	}
	if tip.Outer.Left != panel.Outer.Left || tip.Outer.Top != panel.Outer.Top {
		t.Fatalf("floater Outer = (%d,%d), want it to match its logical parent panel's Outer (%d,%d), not the screen/root rect",
			tip.Outer.Left, tip.Outer.Top, panel.Outer.Left, panel.Outer.Top)
	}
}

func TestResolveColumnsFloorsAtIntrinsicWidth(t *testing.T) {
	cols := []ColumnSpec{{Width: -1}, {Width: -1}}
	resolved := resolveColumns(cols, []int{30, 5}, 40)
	if resolved[0] < 30 {
		t.Fatalf("resolved[0] = %d, want >= 30", resolved[0])
	}
	if resolved[1] != 20 {
		t.Fatalf("resolved[1] = %d, want 20", resolved[1])
	}
}
