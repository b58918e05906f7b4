package term

import (
	"strings"
	"testing"
)

func TestStartupSequenceContainsAltScreenAndMouseModes(t *testing.T) {
	s := startupSequence()
	for _, want := range []string{"\x1b[?1049h", "\x1b[?1002h", "\x1b[?1006h", "\x1b[?2004h", "\x1b[c"} {
		if !strings.Contains(s, want) {
			t.Fatalf("startup sequence missing %q", want)
		}
	}
}

func TestShutdownSequenceIsInverseOfStartup(t *testing.T) {
	s := shutdownSequence()
	for _, want := range []string{"\x1b[?1049l", "\x1b[?1002l", "\x1b[?1006l", "\x1b[?2004l", "\x1b[0 q"} {
		if !strings.Contains(s, want) {
			t.Fatalf("shutdown sequence missing %q", want)
		}
	}
}

func TestInjectResizeFormatsRowsColsOrder(t *testing.T) {
	got := InjectResize(80, 24)
	want := "\x1b[8;24;80t"
	if got != want {
		t.Fatalf("InjectResize = %q, want %q", got, want)
	}
}
