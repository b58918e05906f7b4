package textbuffer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nonomal/edit/ucd"
)

func ucdPos(x, y int) ucd.Position {
	return ucd.Position{X: x, Y: y}
}

func TestInsertUndoRedo(t *testing.T) {
	b := New()
	b.Write([]byte("hello"))
	require.Equal(t, "hello", string(b.ExtractBytes(0, 5)))
	require.Equal(t, 5, b.Cursor.Offset)

	require.True(t, b.Undo())
	require.Equal(t, 0, b.TextLength())

	require.True(t, b.Redo())
	require.Equal(t, "hello", string(b.ExtractBytes(0, 5)))
}

func TestOvertypeAcrossWideGlyph(t *testing.T) {
	b := New()
	b.Write([]byte("a世b"))
	b.CursorMoveToLogical(ucdPos(1, 0))
	b.Overtype = true
	b.Write([]byte("X"))
	require.Equal(t, "aXb", string(b.ExtractBytes(0, b.TextLength())))
}

func TestGapInvariants(t *testing.T) {
	b := New()
	ops := []string{"hello", " world", "!", "x"}
	for _, s := range ops {
		b.Write([]byte(s))
		require.LessOrEqual(t, b.GapOff(), b.TextLength())
		require.LessOrEqual(t, b.GapOff()+b.GapLen(), b.Capacity())
		require.Equal(t, b.TextLength(), len(b.ExtractBytes(0, b.TextLength())))
	}
	b.Delete(-2)
	require.LessOrEqual(t, b.GapOff()+b.GapLen(), b.Capacity())
}

func TestCursorMoveToLogicalIdempotent(t *testing.T) {
	b := New()
	b.Write([]byte("hello\nworld"))
	p := ucdPos(2, 1)
	b.CursorMoveToLogical(p)
	first := b.Cursor
	b.CursorMoveToLogical(p)
	require.Equal(t, first, b.Cursor)
}

func TestUndoRedoPrefixIdentity(t *testing.T) {
	b := New()
	b.Write([]byte("a"))
	b.Write([]byte("b"))
	b.Write([]byte("c"))
	snapshot := string(b.ExtractBytes(0, b.TextLength()))

	b.Undo()
	b.Undo()
	b.Redo()
	b.Redo()
	require.Equal(t, snapshot, string(b.ExtractBytes(0, b.TextLength())))
}

func TestReflowInvariance(t *testing.T) {
	b := New()
	b.Write([]byte("hello world this is a long line"))
	b.CursorMoveToLogical(ucdPos(10, 0))
	before := b.Cursor.Logical

	b.Reflow(8)
	b.Reflow(-1)

	require.Equal(t, before, b.Cursor.Logical)
}

func TestDeleteBackwardForward(t *testing.T) {
	b := New()
	b.Write([]byte("hello"))
	b.Delete(-1)
	require.Equal(t, "hell", string(b.ExtractBytes(0, b.TextLength())))
	b.CursorMoveToLogical(ucdPos(0, 0))
	b.Delete(1)
	require.Equal(t, "ell", string(b.ExtractBytes(0, b.TextLength())))
}

func TestUndoAfterBackwardDeleteRestoresByteIdentity(t *testing.T) {
	b := New()
	b.Write([]byte("abcdef"))
	b.CursorMoveToLogical(ucdPos(3, 0))
	snapshot := string(b.ExtractBytes(0, b.TextLength()))

	b.Delete(-1)
	require.Equal(t, "abdef", string(b.ExtractBytes(0, b.TextLength())))

	require.True(t, b.Undo())
	require.Equal(t, snapshot, string(b.ExtractBytes(0, b.TextLength())))
}

func TestSelectionStateMachine(t *testing.T) {
	b := New()
	require.Equal(t, SelNone, b.Selection.State)
	b.SelectionUpdate(0)
	require.Equal(t, SelMaybe, b.Selection.State)
	b.SelectionUpdate(3)
	require.Equal(t, SelActive, b.Selection.State)
	require.True(t, b.SelectionEnd())
	require.Equal(t, SelDone, b.Selection.State)
}

func TestExtractOutOfRange(t *testing.T) {
	b := New()
	b.Write([]byte("hi"))
	require.Equal(t, 0, len(b.ExtractBytes(5, 10)))
}

func TestReadFileMissingIsNoop(t *testing.T) {
	b := New()
	b.Write([]byte("keep me"))
	err := b.ReadFile("/nonexistent/path/does/not/exist")
	require.NoError(t, err)
	require.Equal(t, "keep me", string(b.ExtractBytes(0, b.TextLength())))
}
