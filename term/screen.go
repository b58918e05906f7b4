// Package term owns the OS boundary: raw-mode termios, window-size
// queries, signal-driven resize notification, and the ANSI startup and
// shutdown sequences that bracket a session.
package term

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Screen wraps the controlling terminal in raw mode and exposes its
// winsize and resize-notification channel. Callers read classifier input
// from In and write rendered frames to Out.
type Screen struct {
	In  *os.File
	Out *os.File

	saved   *unix.Termios
	resize  chan struct{}
	sigwinc chan os.Signal
}

// Open puts the terminal into raw mode and begins watching SIGWINCH.
// Callers must call Close to restore the terminal on exit.
func Open() (*Screen, error) {
	fd := int(os.Stdin.Fd())
	saved, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("term: get termios: %w", err)
	}

	raw := *saved
	raw.Iflag &^= unix.IXON | unix.ICRNL | unix.BRKINT | unix.INPCK | unix.ISTRIP
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return nil, fmt.Errorf("term: set raw mode: %w", err)
	}

	s := &Screen{
		In:      os.Stdin,
		Out:     os.Stdout,
		saved:   saved,
		resize:  make(chan struct{}, 1),
		sigwinc: make(chan os.Signal, 1),
	}
	signal.Notify(s.sigwinc, unix.SIGWINCH)
	go s.watchResize()

	if _, err := s.Out.WriteString(startupSequence()); err != nil {
		return nil, fmt.Errorf("term: write startup sequence: %w", err)
	}
	return s, nil
}

func (s *Screen) watchResize() {
	for range s.sigwinc {
		select {
		case s.resize <- struct{}{}:
		default:
		}
	}
}

// Resize delivers a value each time SIGWINCH fires; callers should follow
// up with Size to read the new dimensions.
func (s *Screen) Resize() <-chan struct{} { return s.resize }

// Size queries the controlling terminal's current column/row count via
// TIOCGWINSZ.
func (s *Screen) Size() (cols, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(int(s.Out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("term: get winsize: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

// Close restores the terminal's original mode and emits the shutdown
// sequence (the inverse of startup, plus a cursor-shape reset).
func (s *Screen) Close() error {
	signal.Stop(s.sigwinc)
	close(s.sigwinc)

	if _, err := s.Out.WriteString(shutdownSequence()); err != nil {
		return fmt.Errorf("term: write shutdown sequence: %w", err)
	}
	if err := unix.IoctlSetTermios(int(s.In.Fd()), ioctlSetTermios, s.saved); err != nil {
		return fmt.Errorf("term: restore termios: %w", err)
	}
	return nil
}

// Write sends a rendered frame's bytes to the terminal.
func (s *Screen) Write(b []byte) (int, error) { return s.Out.Write(b) }

// Read blocks for the next chunk of raw input bytes.
func (s *Screen) Read(b []byte) (int, error) { return s.In.Read(b) }

// startupSequence queries the 16-entry indexed palette, requests a
// primary-device-attributes reply (used to detect terminal capability),
// enables the alternate screen, SGR mouse tracking (button-event: presses,
// releases, and motion while a button is held),
// and bracketed paste.
func startupSequence() string {
	s := ""
	for i := 0; i < 16; i++ {
		s += fmt.Sprintf("\x1b]4;%d;?\x1b\\", i)
	}
	s += "\x1b[c"
	s += "\x1b[?1049h"
	s += "\x1b[?1002h\x1b[?1006h"
	s += "\x1b[?2004h"
	return s
}

// shutdownSequence is startup's inverse, plus a cursor-shape reset to the
// terminal's default (blinking block).
func shutdownSequence() string {
	return "\x1b[?2004l" + "\x1b[?1006l\x1b[?1002l" + "\x1b[?1049l" + "\x1b[0 q"
}

// InjectResize builds the CSI 8;h;w t sequence a test harness can feed
// back through the classifier to simulate a terminal resize without a
// real SIGWINCH.
func InjectResize(cols, rows int) string {
	return fmt.Sprintf("\x1b[8;%d;%dt", rows, cols)
}
