package ui

import "github.com/nonomal/edit/input"

// hitTest walks f's tree (including floaters, which sit after the
// document root and so are naturally tested last-and-topmost when walked
// in that order) looking for the deepest node whose InnerClipped contains
// pt, updating *best with each match found (later, deeper matches win).
func hitTest(f *Frame, best *int32, pt Position) {
	for _, root := range f.roots {
		hitTestNode(f, root, best, pt)
	}
	for _, fl := range f.floaters {
		hitTestNode(f, fl, best, pt)
	}
}

func hitTestNode(f *Frame, idx int32, best *int32, pt Position) {
	n := f.Node(idx)
	if n.InnerClipped.Contains(pt) {
		*best = idx
	}
	for _, ch := range f.Children(idx) {
		hitTestNode(f, ch, best, pt)
	}
}

// IsHovering reports whether the previous frame's node with n's id has a
// rect containing the live mouse position.
func (c *Context) IsHovering(n *Node) bool {
	prev, ok := c.GetPrevNode(n.ID)
	if !ok || !c.lastMouse.valid {
		return false
	}
	return prev.InnerClipped.Contains(Position{X: c.lastMouse.x, Y: c.lastMouse.y})
}

// WasClicked reports whether n currently has focus and the consumed mouse
// action for this frame equals RELEASE.
func (c *Context) WasClicked(n *Node) bool {
	return c.FocusedID == n.ID && c.lastMouse.valid && c.lastMouse.action == input.MouseRelease
}

// ConsumeShortcut succeeds iff the pending keyboard input matches key/mods
// and has not yet been consumed this frame; succeeding marks it consumed.
func (c *Context) ConsumeShortcut(key rune, mods input.Mod) bool {
	if c.consumed || !c.hasPendingKey {
		return false
	}
	if c.pendingKey.Key == key && c.pendingKey.Mods == mods {
		c.consumed = true
		return true
	}
	return false
}

// PendingText returns the text payload delivered this frame, if any.
func (c *Context) PendingText() (string, bool) {
	if c.pendingText == "" {
		return "", false
	}
	return c.pendingText, true
}

// PendingKey returns the keyboard event delivered this frame, if any, and
// whether it has already been consumed by a prior ConsumeShortcut call.
func (c *Context) PendingKey() (input.Event, bool, bool) {
	return c.pendingKey, c.hasPendingKey, c.consumed
}

// ResizeSize returns the last RESIZE event's dimensions.
func (c *Context) ResizeSize() (w, h int) { return c.resizeW, c.resizeH }
