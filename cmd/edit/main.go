// Command edit is the host loop: it owns the terminal (via term.Screen),
// classifies raw bytes into events (via input.Classifier), mutates a text
// store and rebuilds a UI tree each frame (via textbuffer.Buffer and
// ui.Context), and writes the diffed frame back to the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/nonomal/edit/input"
	"github.com/nonomal/edit/term"
	"github.com/nonomal/edit/textbuffer"
	"github.com/nonomal/edit/ucd"
	"github.com/nonomal/edit/ui"
)

func main() {
	wrap := flag.Int("wrap", -1, "word-wrap column count, -1 to disable")
	tabWidth := flag.Int("tabwidth", 8, "tab stop width in columns")
	inject := flag.String("inject", "", "path to a byte stream fed in place of stdin, for scripted tests")
	logPath := flag.String("log", "", "path to a log file; logging is otherwise discarded")
	flag.Parse()

	logFile := openLog(*logPath)
	defer logFile.Close()
	log.SetOutput(logFile)

	var path string
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	buf := textbuffer.New()
	if path != "" {
		if err := buf.ReadFile(path); err != nil {
			log.Printf("read %s: %v", path, err)
		}
	}
	buf.Reflow(*wrap)
	_ = *tabWidth // accepted but not applied: neither the store nor ui.Textarea expands tabs

	screen, err := term.Open()
	if err != nil {
		log.Fatalf("open terminal: %v", err)
	}
	defer func() {
		if err := screen.Close(); err != nil {
			log.Printf("close terminal: %v", err)
		}
	}()
	log.Printf("session started, editing %q", path)

	in := io.Reader(screen)
	if *inject != "" {
		f, err := os.Open(*inject)
		if err != nil {
			log.Fatalf("open inject file: %v", err)
		}
		defer f.Close()
		in = f
	}

	cols, rows, err := screen.Size()
	if err != nil {
		log.Printf("initial size query: %v", err)
		cols, rows = 80, 24
	}

	ctx := ui.NewContext(4096)
	canvas := ui.NewCanvas(cols, rows)
	var prevCanvas *ui.Canvas

	classifier := input.New()
	readBuf := make([]byte, 4096)
	pending := make([]byte, 0, 4096)

	runFrame := func(ev input.Event) {
		applyEvent(buf, ctx, ev)

		ctx.Reset(ev)
		buildTree(ctx, buf)
		ctx.Finalize(ui.Rect{Left: 0, Top: 0, Right: cols, Bottom: rows})

		if canvas.W != cols || canvas.H != rows {
			canvas = ui.NewCanvas(cols, rows)
			prevCanvas = nil
		}
		canvas.Clear()
		ctx.Render(canvas)

		cx, cy := cursorScreenPos(ctx, buf)
		out := ui.Diff(prevCanvas, canvas, ui.ColorModeTrueColor, true, cx, cy)
		if _, err := screen.Write(out); err != nil {
			log.Printf("write frame: %v", err)
		}
		prevCanvas = canvas
		canvas = ui.NewCanvas(cols, rows)
	}

	runFrame(input.Event{Kind: input.EventNone})

	for {
		n, err := in.Read(readBuf)
		if n > 0 {
			pending = append(pending, readBuf[:n]...)
		}
		for len(pending) > 0 {
			consumed, ev, ok := classifier.Next(pending)
			if consumed == 0 {
				break
			}
			pending = pending[consumed:]
			if !ok {
				continue
			}
			if ev.Kind == input.EventResize {
				cols, rows = ev.ResizeWidth, ev.ResizeHeight
			}
			runFrame(ev)
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("read input: %v", err)
			}
			break
		}
	}

	if err := buf.WriteFile(path); path != "" && err != nil {
		log.Printf("write %s: %v", path, err)
	}
	log.Printf("session ended")
}

func openLog(path string) *os.File {
	if path == "" {
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return os.Stderr
		}
		return f
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edit: cannot open log file %s: %v\n", path, err)
		return os.Stderr
	}
	return f
}

// applyEvent mutates buf in response to a classified keyboard/text event,
// before the frame is rebuilt.
func applyEvent(buf *textbuffer.Buffer, ctx *ui.Context, ev input.Event) {
	switch ev.Kind {
	case input.EventText:
		buf.Write([]byte(ev.Text))
	case input.EventKeyboard:
		applyKey(buf, ev)
	}
}

func applyKey(buf *textbuffer.Buffer, ev input.Event) {
	switch ev.Key {
	case input.KeyLeft:
		buf.CursorMoveDelta(-1)
	case input.KeyRight:
		buf.CursorMoveDelta(1)
	case input.KeyUp:
		buf.CursorMoveToVisual(uiUp(buf))
	case input.KeyDown:
		buf.CursorMoveToVisual(uiDown(buf))
	case input.KeyBackspace:
		buf.Delete(-1)
	case input.KeyDel:
		buf.Delete(1)
	case input.KeyHome:
		pos := buf.Cursor.Logical
		pos.X = 0
		buf.CursorMoveToLogical(pos)
	case input.KeyEnd:
		buf.CursorMoveToLogical(lineEndOf(buf))
	default:
		if ev.Mods&input.ModCtrl != 0 {
			switch ev.Key {
			case 'Z':
				buf.Undo()
			case 'Y':
				buf.Redo()
			}
			return
		}
		if ev.Key >= 0 {
			buf.Write([]byte(string(ev.Key)))
		}
	}
}

func uiUp(buf *textbuffer.Buffer) ucd.Position {
	v := buf.Cursor.Visual
	return ucd.Position{X: v.X, Y: v.Y - 1}
}

func uiDown(buf *textbuffer.Buffer) ucd.Position {
	v := buf.Cursor.Visual
	return ucd.Position{X: v.X, Y: v.Y + 1}
}

func lineEndOf(buf *textbuffer.Buffer) ucd.Position {
	// A conservatively large column is clamped to the line's true end by
	// CursorMoveToLogical's own bounds handling.
	return ucd.Position{X: 1 << 30, Y: buf.Cursor.Logical.Y}
}

func buildTree(ctx *ui.Context, buf *textbuffer.Buffer) {
	root := ctx.ContainerBegin("root")
	root.Attrs.Columns = []ui.ColumnSpec{{Width: -1}}
	ctx.Textarea("document", buf, 0)
	ctx.ContainerEnd()
}

func cursorScreenPos(ctx *ui.Context, buf *textbuffer.Buffer) (x, y int) {
	v := buf.Cursor.Visual
	return v.X, v.Y
}
