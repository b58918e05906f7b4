package ui

import (
	"fmt"
	"strings"
)

// ColorMode selects the SGR encoding Diff emits for non-default colors.
type ColorMode uint8

const (
	ColorModeIndexed16 ColorMode = iota
	ColorMode256
	ColorModeTrueColor
)

// Diff compares canvas against prev (the previous frame's canvas, or nil
// for a full repaint) and returns the minimal ANSI byte stream that brings
// the terminal from prev's state to canvas's: a home-cursor prefix,
// per-row runs with SGR emitted only on bg/fg change, CRLF separators
// between consecutive changed rows (a cursor-position sequence after a
// skipped row), and a trailing cursor show/hide sequence.
func Diff(prev, canvas *Canvas, mode ColorMode, cursorVisible bool, cursorX, cursorY int) []byte {
	var b strings.Builder
	b.WriteString("\x1b[H")

	lastWritten := -1
	for y := 0; y < canvas.H; y++ {
		if rowsEqual(prev, canvas, y) {
			continue
		}
		if y > 0 && lastWritten == y-1 {
			b.WriteString("\r\n")
		} else {
			b.WriteString(fmt.Sprintf("\x1b[%d;1H", y+1))
		}
		writeRow(&b, canvas, y, mode)
		lastWritten = y
	}

	b.WriteString(fmt.Sprintf("\x1b[%d;%dH", cursorY+1, cursorX+1))
	if cursorVisible {
		b.WriteString("\x1b[?25h")
	} else {
		b.WriteString("\x1b[?25l")
	}
	return []byte(b.String())
}

func rowsEqual(prev, cur *Canvas, y int) bool {
	if prev == nil || prev.W != cur.W || prev.H != cur.H {
		return false
	}
	base := y * cur.W
	for x := 0; x < cur.W; x++ {
		i := base + x
		if prev.Cells[i] != cur.Cells[i] || prev.BG[i] != cur.BG[i] || prev.FG[i] != cur.FG[i] {
			return false
		}
	}
	return true
}

// writeRow emits one row's characters, flushing a new SGR sequence only
// when the resolved bg/fg pair changes from the previous cell in the row.
func writeRow(b *strings.Builder, canvas *Canvas, y int, mode ColorMode) {
	base := y * canvas.W
	var curBG, curFG Color
	haveStyle := false

	for x := 0; x < canvas.W; x++ {
		i := base + x
		r := canvas.Cells[i]
		if r == 0 {
			// second cell of a wide glyph: already emitted by its leader.
			continue
		}
		bg, fg := canvas.BG[i], canvas.FG[i]
		if !haveStyle || bg != curBG || fg != curFG {
			b.WriteString(sgrFor(bg, fg, mode))
			curBG, curFG = bg, fg
			haveStyle = true
		}
		b.WriteRune(r)
	}
	b.WriteString("\x1b[0m")
}

func sgrFor(bg, fg Color, mode ColorMode) string {
	var codes []string
	codes = append(codes, "0")
	if fg.A() != 0 {
		codes = append(codes, fgCode(fg, mode))
	}
	if bg.A() != 0 {
		codes = append(codes, bgCode(bg, mode))
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func fgCode(c Color, mode ColorMode) string {
	switch mode {
	case ColorModeTrueColor:
		return fmt.Sprintf("38;2;%d;%d;%d", c.R(), c.G(), c.B())
	case ColorMode256:
		return fmt.Sprintf("38;5;%d", colorTo256(c))
	default:
		return fmt.Sprintf("%d", 30+colorTo16(c))
	}
}

func bgCode(c Color, mode ColorMode) string {
	switch mode {
	case ColorModeTrueColor:
		return fmt.Sprintf("48;2;%d;%d;%d", c.R(), c.G(), c.B())
	case ColorMode256:
		return fmt.Sprintf("48;5;%d", colorTo256(c))
	default:
		return fmt.Sprintf("%d", 40+colorTo16(c))
	}
}

// colorTo256 maps an RGB color onto the 6x6x6 color cube of the 256-color
// palette (indices 16-231).
func colorTo256(c Color) int {
	r := int(c.R()) * 5 / 255
	g := int(c.G()) * 5 / 255
	bl := int(c.B()) * 5 / 255
	return 16 + 36*r + 6*g + bl
}

// colorTo16 maps an RGB color onto the nearest of the 8 basic ANSI colors
// by thresholding each channel at its midpoint.
func colorTo16(c Color) int {
	idx := 0
	if c.R() >= 128 {
		idx |= 1
	}
	if c.G() >= 128 {
		idx |= 2
	}
	if c.B() >= 128 {
		idx |= 4
	}
	return idx
}
