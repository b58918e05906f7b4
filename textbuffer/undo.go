package textbuffer

// pushUndo appends a new entry after undoTail, truncating any forward
// (redo) branch that was present. Entries form a singly-anchored doubly
// linked list: prev/next are explicit indices into b.undo even though, for
// a log that is never branched except by truncation, they coincide with
// i-1/i+1 — the fields are kept to mirror the source log's structure and
// to make a future non-linear undo tree a localized change.
func (b *Buffer) pushUndo(e undoEntry) {
	if b.undoTail+1 < len(b.undo) {
		b.undo = b.undo[:b.undoTail+1]
	}
	e.prev = b.undoTail
	e.next = -1
	if b.undoTail >= 0 {
		b.undo[b.undoTail].next = len(b.undo)
	}
	b.undo = append(b.undo, e)
	b.undoTail = len(b.undo) - 1
}

// Undo applies the entry at undoTail in reverse (re-inserting removed
// bytes, deleting inserted bytes) and rewinds undoTail by one. Returns
// false if there is nothing to undo.
func (b *Buffer) Undo() bool {
	if b.undoTail < 0 {
		return false
	}
	e := b.undo[b.undoTail]
	b.applyInverse(e)
	b.Cursor = e.cursorBefore
	b.undoTail = e.prev
	return true
}

// Redo re-applies the entry following undoTail and advances undoTail by
// one. Returns false if there is nothing to redo.
func (b *Buffer) Redo() bool {
	next := 0
	if b.undoTail >= 0 {
		next = b.undo[b.undoTail].next
	}
	if next < 0 || next >= len(b.undo) {
		return false
	}
	e := b.undo[next]
	b.applyForward(e)
	b.undoTail = next
	return true
}

// applyForward re-applies an entry's inserted/removed pair in the forward
// (original edit) direction without touching the undo log itself.
func (b *Buffer) applyForward(e undoEntry) {
	off := e.startOffset
	if len(e.removed) > 0 {
		b.deleteRange(off, off+len(e.removed))
		b.Stats.Lines -= lineCountDelta(e.removed)
	}
	if len(e.inserted) > 0 {
		b.allocateGap(off, len(e.inserted))
		copy(b.data[b.gapOff:b.gapOff+len(e.inserted)], e.inserted)
		b.gapOff += len(e.inserted)
		b.gapLen -= len(e.inserted)
		b.textLength += len(e.inserted)
		b.Stats.Lines += lineCountDelta(e.inserted)
		b.recomputeCursorAfterInsert(off, len(e.inserted))
	} else {
		b.Cursor.Offset = off
		flat := b.flatten()
		b.Cursor.Logical = b.logicalFromOffset(flat, off)
		b.reflowCursorVisual(flat)
	}
}

// applyInverse undoes an entry: removes what was inserted, re-inserts what
// was removed.
func (b *Buffer) applyInverse(e undoEntry) {
	off := e.startOffset
	if len(e.inserted) > 0 {
		b.deleteRange(off, off+len(e.inserted))
		b.Stats.Lines -= lineCountDelta(e.inserted)
	}
	if len(e.removed) > 0 {
		b.allocateGap(off, len(e.removed))
		copy(b.data[b.gapOff:b.gapOff+len(e.removed)], e.removed)
		b.gapOff += len(e.removed)
		b.gapLen -= len(e.removed)
		b.textLength += len(e.removed)
		b.Stats.Lines += lineCountDelta(e.removed)
	}
}
