// Package ucd is the Unicode oracle used by the text store and UI engine
// to measure graphemes and terminal columns over raw byte slices.
//
// Both measurement directions treat invalid UTF-8 as U+FFFD, following the
// same substitution policy used everywhere else malformed input is seen.
package ucd

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Position is a cell coordinate: X is columns into the current row, Y is
// the row number.
type Position struct {
	X, Y int
}

// MeasureForward advances through b starting at startOffset/startPos,
// stopping at the first of: reaching columnStop terminal columns,
// performing moveLimit grapheme movements, or exhausting b. It returns the
// final byte offset, the cell position reached, the number of grapheme
// movements performed, whether a newline terminated the advance, and the
// latest column at which wrapping could legally occur (the offset into b
// of the start of the grapheme that would have exceeded columnStop, which
// is where the advance stopped; -1 if columnStop did not stop it).
//
// columnStop < 0 and moveLimit < 0 mean "no limit" for that dimension.
func MeasureForward(b []byte, startOffset int, startPos Position, columnStop, moveLimit int) (offset int, pos Position, movements int, newline bool, lastWrapCol int) {
	offset = startOffset
	pos = startPos
	lastWrapCol = -1

	for offset < len(b) {
		if moveLimit >= 0 && movements >= moveLimit {
			return
		}
		cluster, rest, width, _ := firstGrapheme(b[offset:])
		if len(cluster) == 0 {
			return
		}
		if cluster[0] == '\n' {
			offset += len(cluster)
			pos.X = 0
			pos.Y++
			movements++
			newline = true
			return
		}
		if columnStop >= 0 && pos.X+width > columnStop {
			lastWrapCol = offset
			return
		}
		offset += len(cluster)
		pos.X += width
		movements++
		_ = rest
	}
	return
}

// MeasureBackward is the symmetric counterpart of MeasureForward, walking
// toward the start of b. pos.X may go negative if a newline is crossed;
// the caller is expected to renormalise against the previous line's width.
func MeasureBackward(b []byte, startOffset int, startPos Position, columnStop, moveLimit int) (offset int, pos Position, movements int) {
	offset = startOffset
	pos = startPos

	for offset > 0 {
		if moveLimit >= 0 && movements >= moveLimit {
			return
		}
		if columnStop >= 0 && pos.X <= 0 && pos.Y == startPos.Y {
			// column_stop applies only to the first (rightmost) row walked
		}
		start, width, nl := lastGraphemeBefore(b, offset)
		if start < 0 {
			return
		}
		if columnStop >= 0 && pos.X-width < columnStop && pos.Y == startPos.Y && movements > 0 {
			return
		}
		offset = start
		movements++
		if nl {
			pos.Y--
			pos.X -= 1
		} else {
			pos.X -= width
		}
	}
	return
}

// NewlinesForward advances offset through b, incrementing *line for each
// newline crossed, until *line reaches lineStop. Returns the new offset.
func NewlinesForward(b []byte, offset int, line *int, lineStop int) int {
	for offset < len(b) && *line < lineStop {
		if b[offset] == '\n' {
			*line++
			offset++
			continue
		}
		_, size := decodeRune(b[offset:])
		offset += size
	}
	return offset
}

// NewlinesBackward walks offset backward through b, decrementing *line for
// each newline crossed, until *line reaches lineStop. Returns the new
// offset (the position just after the newline that starts line lineStop,
// or 0).
func NewlinesBackward(b []byte, offset int, line *int, lineStop int) int {
	for offset > 0 {
		prev := offset - 1
		if b[prev] == '\n' {
			if *line <= lineStop {
				break
			}
			*line--
			offset = prev
			continue
		}
		offset = prevRuneStart(b, offset)
	}
	return offset
}

// firstGrapheme returns the first grapheme cluster in b, the remainder,
// its terminal column width, and whether it was well-formed UTF-8.
func firstGrapheme(b []byte) (cluster, rest []byte, width int, ok bool) {
	if len(b) == 0 {
		return nil, nil, 0, true
	}
	if !utf8.Valid(b[:min(len(b), 4)]) && !utf8.FullRune(b) {
		// fall through; DecodeRune below substitutes U+FFFD
	}
	c, _, w, _ := uniseg.FirstGraphemeCluster(b, -1)
	if len(c) == 0 {
		return nil, nil, 0, true
	}
	r, size := decodeRune(c)
	if size == len(c) && r != utf8.RuneError {
		w = runewidth.RuneWidth(r)
	} else if w < 0 {
		w = 0
	}
	return c, b[len(c):], w, utf8.Valid(c)
}

// lastGraphemeBefore returns the byte offset of the start of the grapheme
// cluster ending at offset, its column width, and whether it is a single
// newline byte.
func lastGraphemeBefore(b []byte, offset int) (start, width int, isNewline bool) {
	if offset <= 0 || offset > len(b) {
		return -1, 0, false
	}
	if b[offset-1] == '\n' {
		return offset - 1, 0, true
	}
	start = prevRuneStart(b, offset)
	// Extend left over any combining marks that attach to this cluster by
	// re-deriving the cluster boundary from the nearest line start.
	lineStart := start
	for lineStart > 0 && b[lineStart-1] != '\n' {
		lineStart--
	}
	c, _, w, _ := uniseg.FirstGraphemeCluster(b[lineStart:], -1)
	pos := lineStart
	for pos+len(c) < offset && len(c) > 0 {
		pos += len(c)
		c, _, w, _ = uniseg.FirstGraphemeCluster(b[pos:], -1)
	}
	if pos >= offset {
		return start, runewidth.RuneWidth(decodeRuneOnly(b[start:offset])), false
	}
	return pos, w, false
}

func decodeRune(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	return r, size
}

func decodeRuneOnly(b []byte) rune {
	r, _ := utf8.DecodeRune(b)
	return r
}

func prevRuneStart(b []byte, offset int) int {
	i := offset - 1
	for i > 0 && isUTF8Continuation(b[i]) {
		i--
	}
	return i
}

func isUTF8Continuation(c byte) bool {
	return c&0xC0 == 0x80
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
