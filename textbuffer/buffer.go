// Package textbuffer implements the gap-buffer text store: insertion and
// deletion at a cursor, dual logical/visual cursor tracking under optional
// word wrap, and a linear undo/redo log.
//
// Byte indices that cross this package's boundary ("native" indices) never
// count the gap. Internally the gap is a contiguous hole inside a single
// backing slice that is moved to the edit point before any mutation.
package textbuffer

import (
	"fmt"
	"os"

	"github.com/nonomal/edit/ucd"
)

const (
	chunkSize    = 4096
	growOvershot = chunkSize
)

// SelState is the selection state machine: NONE/MAYBE/ACTIVE/DONE.
type SelState uint8

const (
	SelNone SelState = iota
	SelMaybe
	SelActive
	SelDone
)

// Selection holds the anchor/extent of an in-progress or completed
// selection, as native byte offsets. Beg may be after End; the store never
// mutates them to fix the order, only the renderer swaps for display.
type Selection struct {
	State    SelState
	Beg, End int
}

// Range returns the selection bounds in ascending order without mutating
// the receiver.
func (s Selection) Range() (lo, hi int) {
	if s.Beg <= s.End {
		return s.Beg, s.End
	}
	return s.End, s.Beg
}

// Cursor is the editing caret, tracked simultaneously as a native byte
// offset, a logical (grapheme, line) position unaffected by wrap, and a
// visual (cell, row) position that accounts for wrap and wide glyphs.
type Cursor struct {
	Offset  int
	Logical ucd.Position
	Visual  ucd.Position
}

// Stats holds buffer-wide counters recomputed incrementally on edits.
type Stats struct {
	Lines int
}

// Buffer is the gap-buffer text store.
type Buffer struct {
	data   []byte
	gapOff int
	gapLen int

	textLength int

	Cursor    Cursor
	Selection Selection

	wordWrapColumns int // -1 = no wrap

	Dirty    bool
	Overtype bool

	Stats Stats

	undo     []undoEntry
	undoTail int // index of last applied entry in undo, -1 if none
}

type undoEntry struct {
	prev, next int

	// cursorBefore is the cursor state to restore when this entry is
	// undone; startOffset is the edit's native start offset (its low end,
	// "lo"), which for a backward delete differs from cursorBefore.Offset
	// (the pre-op cursor sits at the edit's high end, "hi").
	cursorBefore Cursor
	startOffset  int
	removed      []byte
	inserted     []byte
}

// New creates an empty text store.
func New() *Buffer {
	return &Buffer{
		wordWrapColumns: -1,
		undoTail:        -1,
		Stats:           Stats{Lines: 1},
	}
}

// TextLength returns the number of bytes in the document, excluding the
// gap.
func (b *Buffer) TextLength() int { return b.textLength }

// Capacity returns the size of the backing storage, including the gap.
func (b *Buffer) Capacity() int { return len(b.data) }

// GapOff and GapLen expose the current gap position/size (test/debug use).
func (b *Buffer) GapOff() int { return b.gapOff }
func (b *Buffer) GapLen() int { return b.gapLen }

// nativeToReal converts a native (gap-excluding) offset to a real index
// into b.data.
func (b *Buffer) nativeToReal(off int) int {
	if off < b.gapOff {
		return off
	}
	return off + b.gapLen
}

// ReadForward returns a zero-copy view of the bytes from native offset off
// up to the gap start if off is before the gap, otherwise up to the end of
// the document.
// The view is invalidated by any subsequent mutation.
func (b *Buffer) ReadForward(off int) []byte {
	if off < 0 || off > b.textLength {
		return nil
	}
	if off < b.gapOff {
		return b.data[off:b.gapOff]
	}
	real := off + b.gapLen
	return b.data[real:len(b.data)]
}

// ReadBackward returns a zero-copy view of the bytes ending at native
// offset off: from the start of the document if off is at or before the
// gap, otherwise from the end of the gap.
func (b *Buffer) ReadBackward(off int) []byte {
	if off < 0 || off > b.textLength {
		return nil
	}
	if off <= b.gapOff {
		return b.data[0:off]
	}
	return b.data[b.gapOff+b.gapLen : off+b.gapLen]
}

// Extract copies [beg, end) in native indices into dst, returning the
// number of bytes written. Out-of-range ranges return 0.
func (b *Buffer) Extract(beg, end int, dst []byte) int {
	if beg < 0 || end > b.textLength || beg >= end {
		return 0
	}
	n := 0
	for off := beg; off < end; {
		chunk := b.ReadForward(off)
		if len(chunk) == 0 {
			break
		}
		take := end - off
		if take > len(chunk) {
			take = len(chunk)
		}
		if n+take > len(dst) {
			take = len(dst) - n
		}
		if take <= 0 {
			break
		}
		copy(dst[n:n+take], chunk[:take])
		n += take
		off += take
	}
	return n
}

// ExtractBytes is a convenience allocation-based wrapper over Extract.
func (b *Buffer) ExtractBytes(beg, end int) []byte {
	if beg < 0 || end > b.textLength || beg >= end {
		return nil
	}
	dst := make([]byte, end-beg)
	n := b.Extract(beg, end, dst)
	return dst[:n]
}

// allocateGap moves the gap to native offset off and ensures it has at
// least len bytes of capacity, growing the backing storage if needed.
func (b *Buffer) allocateGap(off, length int) {
	if off < 0 {
		off = 0
	}
	if off > b.textLength {
		off = b.textLength
	}

	if b.gapOff != off {
		if off < b.gapOff {
			// Shift the block [off, gapOff) to just after the gap's new
			// position, moving it to higher addresses.
			n := b.gapOff - off
			copy(b.data[off+b.gapLen:off+b.gapLen+n], b.data[off:b.gapOff])
		} else {
			// Shift the block [gapOff+gapLen, off+gapLen) down to start
			// at the old gap offset.
			srcStart := b.gapOff + b.gapLen
			n := off - b.gapOff
			copy(b.data[b.gapOff:b.gapOff+n], b.data[srcStart:srcStart+n])
		}
		b.gapOff = off
	}

	if b.gapLen >= length {
		return
	}

	grow := length - b.gapLen + growOvershot
	grow = ((grow + chunkSize - 1) / chunkSize) * chunkSize

	newData := make([]byte, len(b.data)+grow)
	copy(newData, b.data[:b.gapOff])
	tailStart := b.gapOff + b.gapLen
	copy(newData[b.gapOff+b.gapLen+grow:], b.data[tailStart:])
	b.data = newData
	b.gapLen += grow
}

// lineCountDelta returns the number of newline bytes in p.
func lineCountDelta(p []byte) int {
	n := 0
	for _, c := range p {
		if c == '\n' {
			n++
		}
	}
	return n
}

// Write inserts bytes at the cursor (or replaces one grapheme in overtype
// mode), records an undo entry, and moves the cursor to just after the
// inserted text.
func (b *Buffer) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	var removed []byte
	insertOff := b.Cursor.Offset

	if b.Overtype {
		lo, hi := b.overtypeRange(insertOff)
		if hi > lo {
			removed = b.ExtractBytes(lo, hi)
			b.deleteRange(lo, hi)
			b.Stats.Lines -= lineCountDelta(removed)
			insertOff = lo
		}
	}

	b.allocateGap(insertOff, len(p))
	copy(b.data[b.gapOff:b.gapOff+len(p)], p)
	b.gapOff += len(p)
	b.gapLen -= len(p)
	b.textLength += len(p)
	b.Stats.Lines += lineCountDelta(p)

	b.pushUndo(undoEntry{
		cursorBefore: b.Cursor,
		startOffset:  insertOff,
		removed:      removed,
		inserted:     append([]byte(nil), p...),
	})

	b.recomputeCursorAfterInsert(insertOff, len(p))
	b.Dirty = true
}

// overtypeRange returns the native byte range of the grapheme under the
// cursor, for overtype mode. Returns an empty range (falling back to a
// pure insert) at end-of-document or when the one-grapheme step would
// cross a newline, so overtyping at end-of-line never merges the
// following line into the current one.
func (b *Buffer) overtypeRange(off int) (lo, hi int) {
	fwd := b.ReadForward(off)
	if len(fwd) == 0 {
		return off, off
	}
	endOff, _, moves, newline, _ := ucd.MeasureForward(b.flatten(), off, ucd.Position{}, -1, 1)
	if moves == 0 || newline {
		return off, off
	}
	return off, endOff
}

// flatten is a slow path returning the full document as one contiguous
// slice, used only where ucd needs a single byte slice spanning the gap.
func (b *Buffer) flatten() []byte {
	out := make([]byte, b.textLength)
	b.Extract(0, b.textLength, out)
	return out
}

// deleteRange is a pure gap-move primitive: it does not touch Stats.Lines,
// since every call site already has the removed bytes in hand (from an
// ExtractBytes or an undo entry's removed field) and adjusts Stats.Lines
// itself from that slice.
func (b *Buffer) deleteRange(lo, hi int) {
	if hi <= lo {
		return
	}
	b.allocateGap(hi, 0)
	b.gapOff = lo
	b.gapLen += hi - lo
	b.textLength -= hi - lo
}

// recomputeCursorAfterInsert measures forward from insertOff to produce
// the cursor's new logical/visual position and offset, detecting whether
// the inserted text combined with the preceding grapheme.
func (b *Buffer) recomputeCursorAfterInsert(insertOff, insertedLen int) {
	flat := b.flatten()
	// Re-derive the logical/visual position at insertOff by measuring
	// from the start of its line.
	lineStart := insertOff
	for lineStart > 0 && flat[lineStart-1] != '\n' {
		lineStart--
	}
	lineNo := b.Cursor.Logical.Y
	// Walk back one grapheme from insertOff to catch combining marks that
	// attach the new text to the preceding grapheme.
	backOff, backPos, backMoves := ucd.MeasureBackward(flat, insertOff, ucd.Position{}, -1, 1)
	_ = backMoves
	startOff := insertOff
	startPos := ucd.Position{X: colAt(flat, lineStart, insertOff), Y: lineNo}
	if backOff < insertOff && backOff >= lineStart {
		startOff = backOff
		startPos = ucd.Position{X: colAt(flat, lineStart, backOff), Y: lineNo}
	}
	_ = backPos

	endOff, endPos := startOff, startPos
	for endOff < insertOff+insertedLen {
		nOff, nPos, moves, _, _ := ucd.MeasureForward(flat, endOff, endPos, -1, 1)
		if moves == 0 {
			break
		}
		endOff, endPos = nOff, nPos
	}

	b.Cursor.Offset = endOff
	b.Cursor.Logical = ucd.Position{X: endPos.X, Y: lineNo + lineCountDelta(flat[insertOff:insertOff+insertedLen])}
	b.reflowCursorVisual(flat)
}

// colAt returns the grapheme column of offset within the line starting at
// lineStart.
func colAt(flat []byte, lineStart, offset int) int {
	_, pos, _, _, _ := ucd.MeasureForward(flat, lineStart, ucd.Position{}, -1, -1)
	if offset <= lineStart {
		return 0
	}
	_, p, _, _, _ := ucd.MeasureForward(flat[:offset], lineStart, ucd.Position{}, -1, -1)
	_ = pos
	return p.X
}

// Delete advances a temporary cursor n grapheme movements from the cursor
// (direction given by the sign of n) then removes the byte range between
// the two positions, recording an undo entry.
func (b *Buffer) Delete(n int) {
	if n == 0 {
		return
	}
	flat := b.flatten()
	var lo, hi int
	if n > 0 {
		end, _, moves, _, _ := ucd.MeasureForward(flat, b.Cursor.Offset, b.Cursor.Visual, -1, n)
		if moves == 0 {
			return
		}
		lo, hi = b.Cursor.Offset, end
	} else {
		start, _, moves := ucd.MeasureBackward(flat, b.Cursor.Offset, b.Cursor.Visual, -1, -n)
		if moves == 0 {
			return
		}
		lo, hi = start, b.Cursor.Offset
	}

	removed := b.ExtractBytes(lo, hi)
	removedLines := lineCountDelta(removed)
	before := b.Cursor
	b.deleteRange(lo, hi)
	b.Stats.Lines -= removedLines

	b.pushUndo(undoEntry{
		cursorBefore: before,
		startOffset:  lo,
		removed:      removed,
		inserted:     nil,
	})

	b.Cursor.Offset = lo
	flat = b.flatten()
	lineStart := lo
	for lineStart > 0 && flat[lineStart-1] != '\n' {
		lineStart--
	}
	lineNo := before.Logical.Y
	if n < 0 {
		lineNo -= removedLines
	}
	b.Cursor.Logical = ucd.Position{X: colAt(flat, lineStart, lo), Y: lineNo}
	b.reflowCursorVisual(flat)
	b.Dirty = true
}

// SelectionUpdate transitions NONE/DONE -> MAYBE (anchoring Beg) or
// MAYBE/ACTIVE -> ACTIVE (setting End).
func (b *Buffer) SelectionUpdate(offset int) {
	switch b.Selection.State {
	case SelNone, SelDone:
		b.Selection.State = SelMaybe
		b.Selection.Beg = offset
		b.Selection.End = offset
	case SelMaybe, SelActive:
		b.Selection.State = SelActive
		b.Selection.End = offset
	}
}

// SelectionEnd transitions ACTIVE -> DONE (returns true) or otherwise ->
// NONE (returns false).
func (b *Buffer) SelectionEnd() bool {
	if b.Selection.State == SelActive {
		b.Selection.State = SelDone
		return true
	}
	b.Selection.State = SelNone
	return false
}

// CursorOffset returns the cursor's native byte offset, satisfying
// ui.TextSource.
func (b *Buffer) CursorOffset() int { return b.Cursor.Offset }

// CursorVisual returns the cursor's wrap-aware (cell, row) position,
// satisfying ui.TextSource.
func (b *Buffer) CursorVisual() ucd.Position { return b.Cursor.Visual }

// SelectionRange returns the selection bounds in ascending order and
// whether a selection is currently active or completed, satisfying
// ui.TextSource.
func (b *Buffer) SelectionRange() (beg, end int, active bool) {
	lo, hi := b.Selection.Range()
	active = b.Selection.State == SelActive || b.Selection.State == SelDone
	return lo, hi, active
}

// ReadFile loads the file at path into an empty buffer via gap growth. A
// failure to open silently no-ops, leaving the buffer unchanged.
func (b *Buffer) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil //nolint:nilerr // silent no-op per §4.2 failure semantics
	}
	b.data = nil
	b.gapOff = 0
	b.gapLen = 0
	b.textLength = 0
	b.Cursor = Cursor{}
	b.Stats = Stats{Lines: 1}
	b.undo = nil
	b.undoTail = -1

	b.allocateGap(0, len(data))
	copy(b.data[b.gapOff:b.gapOff+len(data)], data)
	b.gapOff += len(data)
	b.gapLen -= len(data)
	b.textLength = len(data)
	b.Stats.Lines = 1 + lineCountDelta(data)
	b.Dirty = false
	return nil
}

// WriteFile writes the document to path, emitting the two halves of the
// buffer in order. A platform error is returned to the caller on failure.
func (b *Buffer) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("textbuffer: write %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(b.data[:b.gapOff]); err != nil {
		return fmt.Errorf("textbuffer: write %s: %w", path, err)
	}
	if _, err := f.Write(b.data[b.gapOff+b.gapLen:]); err != nil {
		return fmt.Errorf("textbuffer: write %s: %w", path, err)
	}
	b.Dirty = false
	return nil
}
