package ui

import "math"

// Color is a 32-bit 0xAARRGGBB value. Alpha 0x00 means fully transparent
// (the existing cell's color shows through unchanged); 0xFF is fully
// opaque. Intermediate alpha values are blended in linear light, per the
// gamma-correct blending requirement.
type Color uint32

const (
	ColorTransparent Color = 0
	ColorBlack       Color = 0xFF000000
	ColorWhite       Color = 0xFFFFFFFF
)

func RGB(r, g, b uint8) Color {
	return Color(0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func RGBA(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// srgbToLinearTable and linearToSRGB implement the gamma-correct blend
// required by §4.7/§9: blending must happen in linear light, not directly
// on the sRGB-encoded byte values.
var srgbToLinearTable [256]float32

func init() {
	for i := 0; i < 256; i++ {
		c := float32(i) / 255
		if c <= 0.04045 {
			srgbToLinearTable[i] = c / 12.92
		} else {
			srgbToLinearTable[i] = float32(math.Pow(float64((c+0.055)/1.055), 2.4))
		}
	}
}

func linearToSRGB(c float32) uint8 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	var v float32
	if c <= 0.0031308 {
		v = c * 12.92
	} else {
		v = 1.055*float32(math.Pow(float64(c), 1/2.4)) - 0.055
	}
	out := int(v*255 + 0.5)
	if out < 0 {
		out = 0
	}
	if out > 255 {
		out = 255
	}
	return uint8(out)
}

// Blend alpha-composites src over dst in linear light and returns the
// resulting opaque-or-blended color.
func Blend(dst, src Color) Color {
	a := src.A()
	if a == 0 {
		return dst
	}
	if a == 0xFF {
		return src
	}
	af := float32(a) / 255

	sr := srgbToLinearTable[src.R()]
	sg := srgbToLinearTable[src.G()]
	sb := srgbToLinearTable[src.B()]
	dr := srgbToLinearTable[dst.R()]
	dg := srgbToLinearTable[dst.G()]
	db := srgbToLinearTable[dst.B()]

	or := sr*af + dr*(1-af)
	og := sg*af + dg*(1-af)
	ob := sb*af + db*(1-af)

	da := float32(dst.A()) / 255
	oa := af + da*(1-af)

	return RGBA(uint8(oa*255+0.5), linearToSRGB(or), linearToSRGB(og), linearToSRGB(ob))
}

// Attr is a bitflag set of SGR text attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrStrikethrough
)

// PaletteIndex is an index into the 16-entry indexed palette carried on
// Context. Diff does not use it: its 16-color mode derives 30-37/40-47
// codes from the RGB value directly.
type PaletteIndex uint8

// Style carries the paint attributes for a run of text or a node's
// background/foreground fill.
type Style struct {
	FG, BG Color
	Attr   Attr
}
