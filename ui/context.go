package ui

import "github.com/nonomal/edit/input"

// consumedMouse records the last mouse action the UI engine consumed after
// classification, including a synthesised RELEASE.
type consumedMouse struct {
	action input.MouseAction
	button input.Button
	x, y   int
	valid  bool
}

// Context is the UI engine's per-run state: two Frame arenas whose roles
// flip each Reset, the previous frame's retained-state table, focus, and
// pending input.
type Context struct {
	cur, prev *Frame

	Parent     int32 // current container in the frame under construction
	attrTarget int32 // node attribute setters act on
	idStack    []uint64

	FocusedID uint64

	lastMouse     consumedMouse
	pendingText   string
	pendingKey    input.Event
	hasPendingKey bool
	resizeW       int
	resizeH       int

	Palette [16]Color

	consumed bool
}

// NewContext creates a Context with both frame arenas pre-sized.
func NewContext(nodeCapacity int) *Context {
	return &Context{
		cur:  newFrame(nodeCapacity),
		prev: newFrame(nodeCapacity),
	}
}

// Frame returns the frame currently under construction.
func (c *Context) Frame() *Frame { return c.cur }

// PrevFrame returns the previous, finalized frame (read-only).
func (c *Context) PrevFrame() *Frame { return c.prev }

// Reset performs ui_root_reset: the two arenas swap roles (the arena that
// was "current" becomes "previous" and must already have been finalized
// by a prior Finalize call), a fresh root is allocated on the new current
// arena, and the input event is classified against the previous frame's
// tree.
func (c *Context) Reset(ev input.Event) {
	c.prev, c.cur = c.cur, c.prev
	c.cur.reset()
	c.Parent = nilIdx
	c.idStack = c.idStack[:0]
	c.consumed = false
	c.pendingText = ""
	c.pendingKey = input.Event{}
	c.hasPendingKey = false

	root := c.cur.alloc(Container, hashSeed, nilIdx)
	c.Parent = root
	c.attrTarget = root

	switch ev.Kind {
	case input.EventNone:
		// keep previous mouse action; mark input consumed.
		c.consumed = true
	case input.EventResize:
		w, h := ev.ResizeWidth, ev.ResizeHeight
		if w < 1 {
			w = 1
		}
		if w >= 32768 {
			w = 32767
		}
		if h < 1 {
			h = 1
		}
		if h >= 32768 {
			h = 32767
		}
		c.resizeW, c.resizeH = w, h
	case input.EventText:
		c.pendingText = ev.Text
	case input.EventKeyboard:
		c.pendingKey = ev
		c.hasPendingKey = true
	case input.EventMouse:
		c.classifyMouse(ev)
	}
}

func (c *Context) classifyMouse(ev input.Event) {
	pt := Position{X: ev.MouseX, Y: ev.MouseY}
	var best int32 = nilIdx
	hitTest(c.prev, &best, pt)

	switch ev.MouseAction {
	case input.MousePress:
		if ev.MouseButton == input.ButtonLeft && best != nilIdx {
			c.FocusedID = c.prev.Node(best).ID
		}
		c.lastMouse = consumedMouse{action: ev.MouseAction, button: ev.MouseButton, x: ev.MouseX, y: ev.MouseY, valid: true}
	default:
		if c.lastMouse.valid && c.lastMouse.action == input.MousePress && ev.MouseAction != input.MousePress {
			c.lastMouse = consumedMouse{action: input.MouseRelease, button: c.lastMouse.button, x: ev.MouseX, y: ev.MouseY, valid: true}
		} else {
			c.lastMouse = consumedMouse{action: ev.MouseAction, button: ev.MouseButton, x: ev.MouseX, y: ev.MouseY, valid: true}
		}
	}
}

// hashSeed is the root node's stable ID.
const hashSeed uint64 = 1469598103934665603 // FNV offset basis

// fnv1a64 mixes name into seed, producing a stable per-parent child ID.
func fnv1a64(seed uint64, name string) uint64 {
	h := seed
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= 1099511628211
	}
	return h
}

// idFor derives the stable ID for a child called name under the current
// container, mixing in the full id-stack path the way a path-addressed
// immediate-mode ID scheme does, so two sibling containers can reuse the
// same child name without colliding.
func (c *Context) idFor(name string) uint64 {
	seed := hashSeed
	if len(c.idStack) > 0 {
		seed = c.idStack[len(c.idStack)-1]
	}
	return fnv1a64(seed, name)
}

// ContainerBegin creates a node under the current parent, pushes it as
// the new parent, and migrates focus onto it if AutofocusNext was armed
// on the logical parent and the parent currently holds focus.
func (c *Context) ContainerBegin(name string) *Node {
	return c.beginNode(name, Container)
}

func (c *Context) beginNode(name string, kind NodeKind) *Node {
	id := c.idFor(name)
	parentNode := c.cur.Node(c.Parent)
	autofocus := parentNode.Attrs.AutofocusNext
	parentID := parentNode.ID

	idx := c.cur.alloc(kind, id, c.Parent)
	c.idStack = append(c.idStack, id)
	c.Parent = idx
	c.attrTarget = idx

	if autofocus && c.FocusedID == parentID {
		c.FocusedID = id
		parentNode.Attrs.AutofocusNext = false
	}
	return c.cur.Node(idx)
}

// leafNode allocates a non-container node (Text/Textarea/Scrollarea)
// under the current parent without pushing it as the new parent, and
// makes it the attribute-setter target.
func (c *Context) leafNode(name string, kind NodeKind) *Node {
	id := c.idFor(name)
	idx := c.cur.alloc(kind, id, c.Parent)
	c.attrTarget = idx
	return c.cur.Node(idx)
}

// ContainerEnd pops the current parent back to its stack-parent and
// clears any armed AutofocusNext on the node being closed.
func (c *Context) ContainerEnd() {
	n := c.cur.Node(c.Parent)
	n.Attrs.AutofocusNext = false
	c.Parent = n.StackParent
	c.attrTarget = c.Parent
	if len(c.idStack) > 0 {
		c.idStack = c.idStack[:len(c.idStack)-1]
	}
}

// current returns the attribute-target node: the one most recently opened
// or created, for chained attribute setters to mutate.
func (c *Context) current() *Node { return c.cur.Node(c.attrTarget) }

// SetPadding, SetBG, SetFG, SetBordered, SetMin are the attribute setters
// referenced by spec.md §4.5; they act on the current attribute target.
func (c *Context) SetPadding(p int) { c.current().Attrs.Padding = p }
func (c *Context) SetBG(col Color) { c.current().Attrs.BG = col }
func (c *Context) SetFG(col Color) { c.current().Attrs.FG = col }
func (c *Context) SetBordered(v bool) { c.current().Attrs.Bordered = v }
func (c *Context) SetMin(w, h int) { c.current().Attrs.MinW, c.current().Attrs.MinH = w, h }
func (c *Context) SetColumns(cols ...ColumnSpec) { c.current().Attrs.Columns = cols }
func (c *Context) AutofocusNext() { c.current().Attrs.AutofocusNext = true }

// Float removes the current attribute target from its logical parent's
// child list and appends it to the flat floaters list, per §4.6.
func (c *Context) Float(spec FloatSpec) {
	idx := c.attrTarget
	n := c.cur.Node(idx)
	n.Attrs.Floating = true
	n.Attrs.Float = &spec
	c.unlinkFromParent(idx)
	c.cur.floaters = append(c.cur.floaters, idx)
}

func (c *Context) unlinkFromParent(idx int32) {
	n := c.cur.Node(idx)
	parent := n.Parent
	if parent == nilIdx {
		return
	}
	p := c.cur.Node(parent)
	if n.PrevSib != nilIdx {
		c.cur.Node(n.PrevSib).NextSib = n.NextSib
	} else {
		p.FirstChild = n.NextSib
	}
	if n.NextSib != nilIdx {
		c.cur.Node(n.NextSib).PrevSib = n.PrevSib
	} else {
		p.LastChild = n.PrevSib
	}
	n.PrevSib, n.NextSib = nilIdx, nilIdx
}

// GetPrevNode looks up a node by stable id in the previous (already
// finalized) frame, the mechanism by which retained state (scroll offset,
// focus, measured rects) survives the rebuild.
func (c *Context) GetPrevNode(id uint64) (*Node, bool) {
	idx := c.prev.lookup(id)
	if idx == nilIdx {
		return nil, false
	}
	return c.prev.Node(idx), true
}
