package textbuffer

import "github.com/nonomal/edit/ucd"

// Reflow sets the word-wrap column count (-1 disables wrap) and
// recomputes the cursor's visual position by moving to its current
// logical position under the new width.
func (b *Buffer) Reflow(width int) {
	b.wordWrapColumns = width
	b.CursorMoveToLogical(b.Cursor.Logical)
}

// WordWrapColumns returns the current wrap width, or -1 if wrap is off.
func (b *Buffer) WordWrapColumns() int { return b.wordWrapColumns }

// reflowCursorVisual recomputes Cursor.Visual from Cursor.Logical under
// the current wrap setting.
func (b *Buffer) reflowCursorVisual(flat []byte) {
	if b.wordWrapColumns < 0 {
		b.Cursor.Visual = b.Cursor.Logical
		return
	}
	if flat == nil {
		flat = b.flatten()
	}
	b.Cursor.Visual = b.visualFromLogical(flat, b.Cursor.Logical)
}

// CursorMoveToLogical moves the cursor to the given logical position,
// clamping to document bounds, and returns the resulting native offset.
// Idempotent: calling it twice with the same pos leaves the cursor
// unchanged.
func (b *Buffer) CursorMoveToLogical(pos ucd.Position) int {
	flat := b.flatten()
	if pos.Y < 0 {
		pos.Y = 0
	}
	if pos.Y >= b.Stats.Lines {
		pos.Y = b.Stats.Lines - 1
	}
	line := 0
	lineStart := ucd.NewlinesForward(flat, 0, &line, pos.Y)

	off := lineStart
	visual := ucd.Position{}
	if b.wordWrapColumns < 0 {
		visual.Y = pos.Y
	}
	logicalX := 0
	for logicalX < pos.X {
		if b.wordWrapColumns >= 0 {
			nOff, nPos, moves, nl, wrapped := ucd.MeasureForward(flat, off, visual, b.wordWrapColumns, 1)
			if moves == 0 && (wrapped < 0 || visual.X == 0) {
				break
			}
			if nl {
				break
			}
			if wrapped >= 0 && nOff == off {
				visual = ucd.Position{X: 0, Y: visual.Y + 1}
				continue
			}
			off, visual = nOff, nPos
		} else {
			nOff, nPos, moves, nl, _ := ucd.MeasureForward(flat, off, visual, -1, 1)
			if moves == 0 || nl {
				break
			}
			off, visual = nOff, nPos
		}
		logicalX++
	}

	b.Cursor.Offset = off
	b.Cursor.Logical = ucd.Position{X: logicalX, Y: pos.Y}
	b.Cursor.Visual = visual
	return off
}

// CursorMoveToVisual moves the cursor to the given visual position and
// returns the resulting native offset.
func (b *Buffer) CursorMoveToVisual(pos ucd.Position) int {
	flat := b.flatten()
	off := 0
	visual := ucd.Position{}
	logical := ucd.Position{}

	for visual.Y < pos.Y || (visual.Y == pos.Y && visual.X < pos.X) {
		limit := -1
		if b.wordWrapColumns >= 0 {
			limit = b.wordWrapColumns
		}
		nOff, nPos, moves, nl, wrapCol := ucd.MeasureForward(flat, off, visual, limit, 1)
		if moves == 0 && (wrapCol < 0 || visual.X == 0) {
			break
		}
		if nl {
			off, visual = nOff, ucd.Position{X: 0, Y: visual.Y + 1}
			logical = ucd.Position{X: 0, Y: logical.Y + 1}
			continue
		}
		if wrapCol >= 0 && nOff == off {
			visual = ucd.Position{X: 0, Y: visual.Y + 1}
			continue
		}
		off, visual = nOff, nPos
		logical.X++
	}

	b.Cursor.Offset = off
	b.Cursor.Visual = visual
	b.Cursor.Logical = logical
	return off
}

// visualFromLogical computes the visual position corresponding to a
// logical position under the current wrap width.
func (b *Buffer) visualFromLogical(flat []byte, logical ucd.Position) ucd.Position {
	line := 0
	lineStart := ucd.NewlinesForward(flat, 0, &line, logical.Y)
	off := lineStart
	visual := ucd.Position{}
	logicalX := 0
	for logicalX < logical.X {
		limit := -1
		if b.wordWrapColumns >= 0 {
			limit = b.wordWrapColumns
		}
		nOff, nPos, moves, nl, wrapCol := ucd.MeasureForward(flat, off, visual, limit, 1)
		if nl || (moves == 0 && (wrapCol < 0 || visual.X == 0)) {
			break
		}
		if wrapCol >= 0 && nOff == off {
			visual = ucd.Position{X: 0, Y: visual.Y + 1}
			continue
		}
		off, visual = nOff, nPos
		logicalX++
	}
	return visual
}

// VisualRowRange returns the native byte range [beg, end) of visual row
// `row` under the current wrap width, excluding any trailing newline. ok is
// false if the document has fewer than row+1 visual rows. Word-wrap turns a
// single logical line into several visual rows, so this walks the same
// grapheme-by-grapheme machinery as CursorMoveToVisual rather than counting
// '\n' bytes.
func (b *Buffer) VisualRowRange(row int) (beg, end int, ok bool) {
	if row < 0 {
		return 0, 0, false
	}
	flat := b.flatten()
	limit := -1
	if b.wordWrapColumns >= 0 {
		limit = b.wordWrapColumns
	}

	off := 0
	rowStart := 0
	visual := ucd.Position{}
	visRow := 0
	for off < len(flat) {
		nOff, nPos, moves, nl, wrapCol := ucd.MeasureForward(flat, off, visual, limit, 1)
		if moves == 0 && (wrapCol < 0 || visual.X == 0) {
			break
		}
		if nl {
			if visRow == row {
				return rowStart, off, true
			}
			off = nOff
			visual = ucd.Position{}
			visRow++
			rowStart = off
			continue
		}
		if wrapCol >= 0 && nOff == off {
			if visRow == row {
				return rowStart, off, true
			}
			visual = ucd.Position{}
			visRow++
			rowStart = off
			continue
		}
		off, visual = nOff, nPos
	}
	if visRow == row {
		return rowStart, off, true
	}
	return 0, 0, false
}

// CursorMoveDelta moves the cursor by d grapheme movements (negative for
// backward), clamped to document bounds.
func (b *Buffer) CursorMoveDelta(d int) int {
	flat := b.flatten()
	if d > 0 {
		off, pos, moves, _, _ := ucd.MeasureForward(flat, b.Cursor.Offset, b.Cursor.Visual, -1, d)
		if moves > 0 {
			b.Cursor.Offset = off
			b.Cursor.Visual = pos
			b.Cursor.Logical = b.logicalFromOffset(flat, off)
			b.reflowCursorVisual(flat)
		}
	} else if d < 0 {
		off, pos, moves := ucd.MeasureBackward(flat, b.Cursor.Offset, b.Cursor.Visual, -1, -d)
		if moves > 0 {
			b.Cursor.Offset = off
			b.Cursor.Visual = pos
			b.Cursor.Logical = b.logicalFromOffset(flat, off)
			b.reflowCursorVisual(flat)
		}
	}
	return b.Cursor.Offset
}

// logicalFromOffset derives the logical (grapheme, line) position of a
// native offset by scanning from the start of its line.
func (b *Buffer) logicalFromOffset(flat []byte, offset int) ucd.Position {
	lineStart := offset
	line := 0
	for i := 0; i < offset; i++ {
		if flat[i] == '\n' {
			line++
		}
	}
	for lineStart > 0 && flat[lineStart-1] != '\n' {
		lineStart--
	}
	_, pos, _, _, _ := ucd.MeasureForward(flat[:offset], lineStart, ucd.Position{}, -1, -1)
	return ucd.Position{X: pos.X, Y: line}
}
