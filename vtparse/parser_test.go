package vtparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func drainAll(t *testing.T, p *Parser, b []byte) []Token {
	t.Helper()
	var toks []Token
	for len(b) > 0 {
		n, tok := p.Next(b)
		if tok.Kind == Pending {
			break
		}
		cp := tok
		cp.Bytes = append([]byte(nil), tok.Bytes...)
		cp.Payload = append([]byte(nil), tok.Payload...)
		toks = append(toks, cp)
		b = b[n:]
	}
	return toks
}

func TestGroundTextAndCtrl(t *testing.T) {
	p := New()
	toks := drainAll(t, p, []byte("ab\tc"))
	require.Len(t, toks, 3)
	require.Equal(t, Text, toks[0].Kind)
	require.Equal(t, "ab", string(toks[0].Bytes))
	require.Equal(t, Ctrl, toks[1].Kind)
	require.Equal(t, byte('\t'), toks[1].Ctrl)
	require.Equal(t, Text, toks[2].Kind)
}

func TestCSISplitAcrossCalls(t *testing.T) {
	p := New()
	n, tok := p.Next([]byte("\x1b[38;2;255"))
	require.Equal(t, 10, n)
	require.Equal(t, Pending, tok.Kind)

	n2, tok2 := p.Next([]byte(";0;0m"))
	require.Equal(t, 5, n2)
	require.Equal(t, CSI, tok2.Kind)
	require.Equal(t, byte('m'), tok2.Final)
	require.Equal(t, 5, tok2.NumParams)
	require.Equal(t, [5]uint16{38, 2, 255, 0, 0}, [5]uint16(tok2.Params[:5]))
}

func TestResumptionPropertyOnASplit(t *testing.T) {
	whole := []byte("\x1b[1;2Hhello\x1bOP\x1b]0;title\x07rest")
	for split := 0; split <= len(whole); split++ {
		p1 := New()
		want := drainAll(t, p1, whole)

		p2 := New()
		a := drainAll(t, p2, whole[:split])
		// feed remainder, but also drive the Pending boundary byte-by-byte
		// by simply handing the rest to Next in a loop via drainAll
		rest := whole[split:]
		b := drainAll(t, p2, rest)
		got := append(a, b...)

		require.Equal(t, len(want), len(got), "split at %d", split)
		for i := range want {
			require.Equal(t, want[i].Kind, got[i].Kind, "split %d token %d", split, i)
		}
	}
}

func TestOSCTerminatedByBEL(t *testing.T) {
	p := New()
	toks := drainAll(t, p, []byte("\x1b]0;hello\x07"))
	require.Len(t, toks, 1)
	require.Equal(t, OSC, toks[0].Kind)
	require.Equal(t, "0;hello", string(toks[0].Payload))
}

func TestOSCTerminatedBySTWithResumption(t *testing.T) {
	p := New()
	n, tok := p.Next([]byte("\x1b]0;hi\x1b"))
	require.Equal(t, Pending, tok.Kind)
	require.Equal(t, 7, n)

	_, tok2 := p.Next([]byte("\\"))
	require.Equal(t, OSC, tok2.Kind)
	require.Equal(t, "0;hi", string(tok2.Payload))
}

func TestSS3FunctionKeys(t *testing.T) {
	p := New()
	toks := drainAll(t, p, []byte("\x1bOP\x1bOQ"))
	require.Len(t, toks, 2)
	require.Equal(t, SS3, toks[0].Kind)
	require.Equal(t, byte('P'), toks[0].Final)
}

func TestDCSPassthrough(t *testing.T) {
	p := New()
	toks := drainAll(t, p, []byte("\x1bP1$rfoo\x1b\\"))
	require.Len(t, toks, 1)
	require.Equal(t, DCS, toks[0].Kind)
	require.Equal(t, "foo", string(toks[0].Payload))
}

func TestCSIPrivatePrefix(t *testing.T) {
	p := New()
	toks := drainAll(t, p, []byte("\x1b[?25h"))
	require.Len(t, toks, 1)
	require.Equal(t, CSI, toks[0].Kind)
	require.Equal(t, byte('?'), toks[0].Private)
	require.Equal(t, byte('h'), toks[0].Final)
}
