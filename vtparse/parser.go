// Package vtparse implements a resumable VT/ANSI byte-stream tokenizer:
// a state machine over {GROUND, ESC, SS3, CSI, OSC, DCS, OSC_ESC, DCS_ESC}
// producing exactly one token per call to Next, or leaving the parser in
// a Pending state when the input is exhausted mid-sequence.
//
// Unlike a classic VTE-style parser driving a long-lived callback object,
// Next returns one token at a time so a caller can interleave
// classification with its own event loop. OSC/DCS payloads are copied
// into the parser's own scratch buffer rather than aliasing the caller's
// slice, since the caller's read buffer may be reused before the token is
// consumed.
package vtparse

import "unicode/utf8"

// Parser is a single VT tokenizer instance. The zero value is ready to
// use.
type Parser struct {
	state State

	// CSI accumulation, valid across resumptions.
	csiParams    [maxCSIParams]uint16
	csiSub       [maxCSIParams]bool
	csiNum       int
	csiHaveDigit bool
	csiPrivate   byte
	csiInterm    byte

	// OSC/DCS accumulation.
	oscBuf     []byte
	oscPending byte // 0, or the control byte (ESC/BEL) staged for ST detection
	dcsHooked  bool // true once DCS has seen its final byte and entered passthrough

	// Unused: an incomplete UTF-8 sequence at the end of a call's input is
	// not stored here but left unconsumed in the caller's slice.
	partial    [4]byte
	partialLen int

	tok Token
}

// New returns a ready-to-use Parser.
func New() *Parser { return &Parser{} }

// State returns the parser's current internal state.
func (p *Parser) State() State { return p.state }

// Next consumes bytes from the start of b, returning the number of bytes
// consumed and the resulting token. If the input is exhausted before a
// full token is formed, tok.Kind == Pending and consumed == len(b), except
// that an incomplete UTF-8 sequence at the end of b is left unconsumed so
// the caller can present it again together with its continuation; calling
// Next again with the rest of the stream resumes exactly where it left off.
func (p *Parser) Next(b []byte) (consumed int, tok Token) {
	i := 0
	for i < len(b) {
		before := p.state
		n, t, done := p.step(b[i:])
		i += n
		if done {
			return i, t
		}
		if n == 0 && p.state == before {
			break
		}
	}
	p.tok = Token{Kind: Pending}
	return i, p.tok
}

// step processes as much of b as it can in the parser's current state,
// returning bytes consumed, a token if one completed, and whether one
// completed.
func (p *Parser) step(b []byte) (consumed int, tok Token, done bool) {
	switch p.state {
	case Ground:
		return p.stepGround(b)
	case Escape:
		return p.stepEscape(b)
	case SS3State:
		return p.stepSS3(b)
	case CSIState:
		return p.stepCSI(b)
	case OSCState:
		return p.stepOSC(b)
	case DCSState:
		return p.stepDCS(b)
	case OSCEscape:
		return p.stepOSCEscape(b)
	case DCSEscape:
		return p.stepDCSEscape(b)
	}
	return 0, Token{}, false
}

func (p *Parser) stepGround(b []byte) (int, Token, bool) {
	c := b[0]
	switch {
	case c == 0x1B:
		p.state = Escape
		p.resetCSI()
		return 1, Token{}, false
	case c < 0x20 || c == 0x7F:
		return 1, Token{Kind: Ctrl, Ctrl: c}, true
	case c >= 0x20 && c < 0x7F:
		return p.textRun(b)
	case c == 0x90:
		p.state = DCSState
		p.resetCSI()
		p.dcsHooked = false
		p.oscBuf = p.oscBuf[:0]
		return 1, Token{}, false
	case c == 0x9B:
		p.state = CSIState
		p.resetCSI()
		return 1, Token{}, false
	case c == 0x9D:
		p.state = OSCState
		p.oscBuf = p.oscBuf[:0]
		return 1, Token{}, false
	default:
		// UTF-8 multi-byte lead byte: treat as part of a text run.
		return p.textRun(b)
	}
}

// textRun consumes a run of printable bytes (ASCII 0x20-0x7E, or UTF-8
// multi-byte sequences) as one TEXT token.
func (p *Parser) textRun(b []byte) (int, Token, bool) {
	i := 0
	for i < len(b) {
		c := b[i]
		if c == 0x1B || c < 0x20 || c == 0x7F {
			break
		}
		if c < 0x80 {
			i++
			continue
		}
		if !utf8.FullRune(b[i:]) {
			if i == 0 {
				// Wait for more bytes before emitting anything.
				return 0, Token{}, false
			}
			break
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			if i == 0 {
				i++
				break
			}
			break
		}
		i += size
	}
	if i == 0 {
		return 0, Token{}, false
	}
	p.tok.Bytes = append(p.tok.Bytes[:0], b[:i]...)
	return i, Token{Kind: Text, Bytes: p.tok.Bytes}, true
}

func (p *Parser) stepEscape(b []byte) (int, Token, bool) {
	c := b[0]
	switch c {
	case '[':
		p.state = CSIState
		p.resetCSI()
		return 1, Token{}, false
	case ']':
		p.state = OSCState
		p.oscBuf = p.oscBuf[:0]
		return 1, Token{}, false
	case 'O':
		p.state = SS3State
		return 1, Token{}, false
	case 'P':
		p.state = DCSState
		p.resetCSI()
		p.dcsHooked = false
		p.oscBuf = p.oscBuf[:0]
		return 1, Token{}, false
	default:
		p.state = Ground
		return 1, Token{Kind: Esc, Final: c}, true
	}
}

func (p *Parser) stepSS3(b []byte) (int, Token, bool) {
	c := b[0]
	p.state = Ground
	return 1, Token{Kind: SS3, Final: c}, true
}

func (p *Parser) resetCSI() {
	p.csiNum = 0
	p.csiHaveDigit = false
	p.csiPrivate = 0
	p.csiInterm = 0
	for i := range p.csiParams {
		p.csiParams[i] = 0
		p.csiSub[i] = false
	}
}

func (p *Parser) stepCSI(b []byte) (int, Token, bool) {
	c := b[0]
	switch {
	case c >= '0' && c <= '9':
		if p.csiNum < maxCSIParams {
			v := uint32(p.csiParams[p.csiNum])*10 + uint32(c-'0')
			if v > 0xFFFF {
				v = 0xFFFF
			}
			p.csiParams[p.csiNum] = uint16(v)
			p.csiHaveDigit = true
		}
		return 1, Token{}, false
	case c == ';':
		p.advanceParam(false)
		return 1, Token{}, false
	case c == ':':
		p.advanceParam(true)
		return 1, Token{}, false
	case c >= '<' && c <= '?':
		if p.csiNum == 0 && !p.csiHaveDigit {
			p.csiPrivate = c
		}
		return 1, Token{}, false
	case c >= 0x20 && c <= 0x2F:
		p.csiInterm = c
		return 1, Token{}, false
	case c >= 0x40 && c <= 0x7E:
		p.finishParam()
		tok := Token{
			Kind:         CSI,
			Final:        c,
			Private:      p.csiPrivate,
			Intermediate: p.csiInterm,
			NumParams:    p.csiNum,
		}
		copy(tok.Params[:], p.csiParams[:])
		copy(tok.Subparam[:], p.csiSub[:])
		p.state = Ground
		return 1, tok, true
	default:
		// Unrecognised byte inside CSI: drop back to ground silently,
		// consuming it (malformed input is dropped per error policy).
		p.state = Ground
		return 1, Token{}, false
	}
}

func (p *Parser) advanceParam(subparam bool) {
	if p.csiNum+1 < maxCSIParams {
		p.csiSub[p.csiNum+1] = subparam
	}
	p.csiNum++
	p.csiHaveDigit = false
}

func (p *Parser) finishParam() {
	if p.csiHaveDigit || p.csiNum > 0 {
		p.csiNum++
	}
	if p.csiNum == 0 {
		p.csiNum = 1
	}
	if p.csiNum > maxCSIParams {
		p.csiNum = maxCSIParams
	}
}

// stepOSC collects bytes until BEL (terminates immediately) or an ESC
// (staged, awaiting '\' to confirm ST).
func (p *Parser) stepOSC(b []byte) (int, Token, bool) {
	i := 0
	for i < len(b) {
		c := b[i]
		if c == 0x07 {
			i++
			p.tok.Payload = append(p.tok.Payload[:0], p.oscBuf...)
			p.state = Ground
			return i, Token{Kind: OSC, Payload: p.tok.Payload}, true
		}
		if c == 0x1B {
			i++
			p.state = OSCEscape
			return i, Token{}, false
		}
		p.oscBuf = append(p.oscBuf, c)
		i++
	}
	return i, Token{}, false
}

func (p *Parser) stepOSCEscape(b []byte) (int, Token, bool) {
	c := b[0]
	if c == '\\' {
		p.tok.Payload = append(p.tok.Payload[:0], p.oscBuf...)
		p.state = Ground
		return 1, Token{Kind: OSC, Payload: p.tok.Payload}, true
	}
	// Not a genuine ST: the ESC belonged to the payload; re-enter OSC and
	// reprocess this byte as an OSC byte (it may itself be ESC again).
	p.oscBuf = append(p.oscBuf, 0x1B)
	p.state = OSCState
	return 0, Token{}, false
}

// stepDCS collects the control-sequence prefix (params/intermediates)
// until a final byte, matching CSI syntax, then passes through raw bytes
// until ST.
func (p *Parser) stepDCS(b []byte) (int, Token, bool) {
	if p.dcsHooked {
		return p.dcsPassthrough(b)
	}
	c := b[0]
	switch {
	case c >= '0' && c <= '9':
		if p.csiNum < maxCSIParams {
			v := uint32(p.csiParams[p.csiNum])*10 + uint32(c-'0')
			if v > 0xFFFF {
				v = 0xFFFF
			}
			p.csiParams[p.csiNum] = uint16(v)
			p.csiHaveDigit = true
		}
		return 1, Token{}, false
	case c == ';':
		p.advanceParam(false)
		return 1, Token{}, false
	case c >= '<' && c <= '?':
		if p.csiNum == 0 && !p.csiHaveDigit {
			p.csiPrivate = c
		}
		return 1, Token{}, false
	case c >= 0x20 && c <= 0x2F:
		p.csiInterm = c
		return 1, Token{}, false
	case c >= 0x40 && c <= 0x7E:
		p.finishParam()
		p.dcsHooked = true
		p.oscBuf = p.oscBuf[:0]
		return 1, Token{}, false
	default:
		// Unrecognised byte inside the DCS parameter prefix: drop it.
		return 1, Token{}, false
	}
}

func (p *Parser) dcsPassthrough(b []byte) (int, Token, bool) {
	i := 0
	for i < len(b) {
		c := b[i]
		if c == 0x18 || c == 0x1A {
			i++
			p.state = Ground
			p.dcsHooked = false
			return i, Token{Kind: Ctrl, Ctrl: c}, true
		}
		if c == 0x1B {
			i++
			p.state = DCSEscape
			return i, Token{}, false
		}
		p.oscBuf = append(p.oscBuf, c)
		i++
	}
	return i, Token{}, false
}

func (p *Parser) stepDCSEscape(b []byte) (int, Token, bool) {
	c := b[0]
	if c == '\\' {
		tok := Token{
			Kind:         DCS,
			Private:      p.csiPrivate,
			Intermediate: p.csiInterm,
			NumParams:    p.csiNum,
			Payload:      append(p.tok.Payload[:0], p.oscBuf...),
		}
		copy(tok.Params[:], p.csiParams[:])
		p.state = Ground
		p.dcsHooked = false
		return 1, tok, true
	}
	p.oscBuf = append(p.oscBuf, 0x1B)
	p.state = DCSState
	return 0, Token{}, false
}
