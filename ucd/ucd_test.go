package ucd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeasureForwardASCII(t *testing.T) {
	b := []byte("hello")
	off, pos, moves, nl, _ := MeasureForward(b, 0, Position{}, -1, -1)
	require.Equal(t, len(b), off)
	require.Equal(t, Position{X: 5, Y: 0}, pos)
	require.Equal(t, 5, moves)
	require.False(t, nl)
}

func TestMeasureForwardStopsAtColumn(t *testing.T) {
	b := []byte("hello")
	off, pos, _, _, wrap := MeasureForward(b, 0, Position{}, 3, -1)
	require.Equal(t, 3, off)
	require.Equal(t, 3, pos.X)
	require.Equal(t, 3, wrap)
}

func TestMeasureForwardWideGlyph(t *testing.T) {
	b := []byte("a世b")
	off, pos, moves, _, _ := MeasureForward(b, 0, Position{}, -1, 2)
	require.Equal(t, 2, moves)
	// 'a' (1) + '世' (2) = 3 columns
	require.Equal(t, 3, pos.X)
	require.Equal(t, 1+len("世"), off)
}

func TestMeasureForwardNewline(t *testing.T) {
	b := []byte("ab\ncd")
	off, pos, _, nl, _ := MeasureForward(b, 0, Position{}, -1, 3)
	require.True(t, nl)
	require.Equal(t, 3, off)
	require.Equal(t, Position{X: 0, Y: 1}, pos)
}

func TestMeasureForwardInvalidUTF8(t *testing.T) {
	b := []byte{0xff, 0xfe, 'a'}
	off, _, moves, _, _ := MeasureForward(b, 0, Position{}, -1, -1)
	require.Equal(t, len(b), off)
	require.Greater(t, moves, 0)
}

func TestMeasureBackwardASCII(t *testing.T) {
	b := []byte("hello")
	off, pos, moves := MeasureBackward(b, len(b), Position{X: 5}, -1, 3)
	require.Equal(t, 3, moves)
	require.Equal(t, 2, off)
	require.Equal(t, 2, pos.X)
}

func TestNewlinesForwardBackward(t *testing.T) {
	b := []byte("a\nb\nc\nd")
	line := 0
	off := NewlinesForward(b, 0, &line, 2)
	require.Equal(t, 2, line)
	back := NewlinesBackward(b, off, &line, 0)
	require.Equal(t, 0, line)
	require.Equal(t, 0, back)
}
