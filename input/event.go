// Package input classifies vtparse tokens into high-level editor events:
// text, key presses with modifiers, mouse actions, and terminal resizes.
package input

// Mod is a modifier bitmask.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
)

// Key codes for non-printable keys. Printable keys are represented by
// their rune value directly in Event.Key.
const (
	KeyNone rune = 0

	KeyBackspace rune = -1 - iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyIns
	KeyDel
	KeyPgUp
	KeyPgDn
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
)

// Button identifies a mouse button or scroll direction.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonScrollUp
	ButtonScrollDown
)

// Kind discriminates the Event union.
type Kind uint8

const (
	EventNone Kind = iota
	EventText
	EventKeyboard
	EventMouse
	EventResize
)

// MouseAction identifies the phase of a mouse event.
type MouseAction uint8

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
	MouseScroll
)

// Event is the classified result of one input token.
type Event struct {
	Kind Kind

	Text string // EventText

	Key  rune // EventKeyboard: rune value, or one of the Key* constants
	Mods Mod

	MouseAction MouseAction
	MouseButton Button
	MouseX      int
	MouseY      int

	ResizeWidth  int
	ResizeHeight int
}
