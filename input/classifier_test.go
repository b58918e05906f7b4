package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyText(t *testing.T) {
	c := New()
	_, ev, ok := c.Next([]byte("hi"))
	require.True(t, ok)
	require.Equal(t, EventText, ev.Kind)
	require.Equal(t, "hi", ev.Text)
}

func TestClassifyCtrlKeys(t *testing.T) {
	c := New()
	_, ev, _ := c.Next([]byte{0x01})
	require.Equal(t, EventKeyboard, ev.Kind)
	require.Equal(t, rune('A'), ev.Key)
	require.Equal(t, ModCtrl, ev.Mods)

	c2 := New()
	_, ev2, _ := c2.Next([]byte{0x7F})
	require.Equal(t, KeyBackspace, ev2.Key)
}

func TestClassifyArrowWithModifiers(t *testing.T) {
	c := New()
	_, ev, ok := c.Next([]byte("\x1b[1;2A"))
	require.True(t, ok)
	require.Equal(t, KeyUp, ev.Key)
	require.Equal(t, ModShift, ev.Mods)
}

func TestClassifyTildeKeys(t *testing.T) {
	c := New()
	_, ev, _ := c.Next([]byte("\x1b[3~"))
	require.Equal(t, KeyDel, ev.Key)
}

func TestClassifyMousePressAndRelease(t *testing.T) {
	c := New()
	_, ev, _ := c.Next([]byte("\x1b[<0;10;5M"))
	require.Equal(t, EventMouse, ev.Kind)
	require.Equal(t, MousePress, ev.MouseAction)
	require.Equal(t, ButtonLeft, ev.MouseButton)
	require.Equal(t, 9, ev.MouseX)
	require.Equal(t, 4, ev.MouseY)

	c2 := New()
	_, ev2, _ := c2.Next([]byte("\x1b[<0;10;5m"))
	require.Equal(t, MouseRelease, ev2.MouseAction)
}

func TestClassifyMouseScroll(t *testing.T) {
	c := New()
	_, ev, _ := c.Next([]byte("\x1b[<64;5;5M"))
	require.Equal(t, MouseScroll, ev.MouseAction)
	require.Equal(t, ButtonScrollUp, ev.MouseButton)
	require.Equal(t, 1, ev.MouseY)
}

func TestClassifyResize(t *testing.T) {
	c := New()
	_, ev, _ := c.Next([]byte("\x1b[8;24;80t"))
	require.Equal(t, EventResize, ev.Kind)
	require.Equal(t, 80, ev.ResizeWidth)
	require.Equal(t, 24, ev.ResizeHeight)
}

func TestClassifyAltKey(t *testing.T) {
	c := New()
	_, ev, _ := c.Next([]byte("\x1bx"))
	require.Equal(t, rune('x'), ev.Key)
	require.Equal(t, ModAlt, ev.Mods)
}
