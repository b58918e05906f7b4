package input

import (
	"github.com/nonomal/edit/vtparse"
)

// Classifier pulls tokens from an embedded vtparse.Parser and turns them
// into Events per the TEXT/CTRL/ESC/SS3/CSI mapping table.
type Classifier struct {
	p vtparse.Parser
}

// New returns a ready-to-use Classifier.
func New() *Classifier { return &Classifier{} }

// Next consumes bytes from b, returning the number consumed and the next
// classified event. ok is false if the tokenizer only reached Pending
// (more bytes are needed before an event can be produced), and also for
// tokens that map to no event (OSC and DCS strings).
func (c *Classifier) Next(b []byte) (consumed int, ev Event, ok bool) {
	n, tok := c.p.Next(b)
	switch tok.Kind {
	case vtparse.Pending:
		return n, Event{}, false
	case vtparse.Text:
		return n, Event{Kind: EventText, Text: string(tok.Bytes)}, true
	case vtparse.Ctrl:
		return n, classifyCtrl(tok.Ctrl), true
	case vtparse.Esc:
		return n, classifyEsc(tok.Final), true
	case vtparse.SS3:
		return n, classifySS3(tok.Final), true
	case vtparse.CSI:
		return n, classifyCSI(tok), true
	case vtparse.OSC, vtparse.DCS:
		// No editor-level event is defined for OSC/DCS responses; drop.
		return n, Event{}, false
	}
	return n, Event{}, false
}

func keyEvent(key rune, mods Mod) Event {
	return Event{Kind: EventKeyboard, Key: key, Mods: mods}
}

func classifyCtrl(c byte) Event {
	switch c {
	case 0x00:
		return keyEvent(0x00, 0)
	case '\t':
		return keyEvent('\t', 0)
	case '\r':
		return keyEvent('\r', 0)
	case 0x7F:
		return keyEvent(KeyBackspace, 0)
	default:
		if c >= 0x01 && c <= 0x1A {
			return keyEvent(rune(c|0x40), ModCtrl)
		}
		return keyEvent(rune(c), 0)
	}
}

func classifyEsc(c byte) Event {
	return keyEvent(rune(c), ModAlt)
}

func classifySS3(final byte) Event {
	switch final {
	case 'P':
		return keyEvent(KeyF1, 0)
	case 'Q':
		return keyEvent(KeyF2, 0)
	case 'R':
		return keyEvent(KeyF3, 0)
	case 'S':
		return keyEvent(KeyF4, 0)
	}
	return Event{}
}

// modsFromCSIParam decodes SHIFT/ALT/CTRL from a 1-based CSI modifier
// parameter (param[1]-1: bit0=SHIFT, bit1=ALT, bit2=CTRL).
func modsFromCSIParam(raw uint16) Mod {
	if raw == 0 {
		return 0
	}
	v := raw - 1
	var m Mod
	if v&1 != 0 {
		m |= ModShift
	}
	if v&2 != 0 {
		m |= ModAlt
	}
	if v&4 != 0 {
		m |= ModCtrl
	}
	return m
}

var csiTildeTable = map[uint16]rune{
	1: KeyHome, 2: KeyIns, 3: KeyDel, 4: KeyEnd, 5: KeyPgUp, 6: KeyPgDn,
	11: KeyF1, 12: KeyF2, 13: KeyF3, 14: KeyF4, 15: KeyF5,
	17: KeyF6, 18: KeyF7, 19: KeyF8, 20: KeyF9, 21: KeyF10,
	23: KeyF11, 24: KeyF12,
	25: KeyF13, 26: KeyF14,
	28: KeyF15, 29: KeyF16,
	31: KeyF17, 32: KeyF18, 33: KeyF19, 34: KeyF20,
}

func classifyCSI(tok vtparse.Token) Event {
	if tok.Private == '<' {
		return classifyMouse(tok)
	}

	switch tok.Final {
	case 'A':
		return keyEvent(KeyUp, modsFromCSIParam(tok.Params[1]))
	case 'B':
		return keyEvent(KeyDown, modsFromCSIParam(tok.Params[1]))
	case 'C':
		return keyEvent(KeyRight, modsFromCSIParam(tok.Params[1]))
	case 'D':
		return keyEvent(KeyLeft, modsFromCSIParam(tok.Params[1]))
	case 'F':
		return keyEvent(KeyEnd, modsFromCSIParam(tok.Params[1]))
	case 'H':
		return keyEvent(KeyHome, modsFromCSIParam(tok.Params[1]))
	case '~':
		if key, found := csiTildeTable[tok.Params[0]]; found {
			return keyEvent(key, modsFromCSIParam(tok.Params[1]))
		}
		return Event{}
	case 't':
		if tok.Params[0] == 8 {
			return classifyResize(tok.Params[2], tok.Params[1])
		}
		return Event{}
	}
	return Event{}
}

func clampDim(v uint16) int {
	n := int(v)
	if n < 1 {
		n = 1
	}
	if n >= 32768 {
		n = 32767
	}
	return n
}

func classifyResize(width, height uint16) Event {
	return Event{Kind: EventResize, ResizeWidth: clampDim(width), ResizeHeight: clampDim(height)}
}

func classifyMouse(tok vtparse.Token) Event {
	pb := tok.Params[0]
	x := int(tok.Params[1]) - 1
	y := int(tok.Params[2]) - 1
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	var mods Mod
	if pb&4 != 0 {
		mods |= ModShift
	}
	if pb&8 != 0 {
		mods |= ModAlt
	}
	if pb&16 != 0 {
		mods |= ModCtrl
	}

	ev := Event{Kind: EventMouse, MouseX: x, MouseY: y, Mods: mods}

	if pb&64 != 0 {
		ev.MouseAction = MouseScroll
		if pb&3 == 0 {
			ev.MouseButton = ButtonScrollUp
			ev.MouseY -= 3
		} else {
			ev.MouseButton = ButtonScrollDown
			ev.MouseY += 3
		}
		return ev
	}

	switch tok.Final {
	case 'M':
		ev.MouseAction = MousePress
		switch pb & 3 {
		case 0:
			ev.MouseButton = ButtonLeft
		case 1:
			ev.MouseButton = ButtonMiddle
		case 2:
			ev.MouseButton = ButtonRight
		default:
			ev.MouseButton = ButtonNone
		}
	case 'm':
		ev.MouseAction = MouseRelease
		ev.MouseButton = ButtonNone
	}
	return ev
}
