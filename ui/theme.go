package ui

// Theme is a named set of colors widgets pull styles from: a base
// text/background pair plus muted, accent, error, and border colors.
type Theme struct {
	Base   Style
	Muted  Style
	Accent Style
	Error  Style
	Border Style
}

var ThemeDark = Theme{
	Base:   Style{FG: RGB(0xd8, 0xdc, 0xe0), BG: RGB(0x1a, 0x1b, 0x26)},
	Muted:  Style{FG: RGB(0x6c, 0x72, 0x86), BG: RGB(0x1a, 0x1b, 0x26)},
	Accent: Style{FG: RGB(0x7a, 0xa2, 0xf7), BG: RGB(0x1a, 0x1b, 0x26)},
	Error:  Style{FG: RGB(0xf7, 0x76, 0x8e), BG: RGB(0x1a, 0x1b, 0x26)},
	Border: Style{FG: RGB(0x3b, 0x40, 0x52), BG: RGB(0x1a, 0x1b, 0x26)},
}

var ThemeLight = Theme{
	Base:   Style{FG: RGB(0x1a, 0x1b, 0x26), BG: RGB(0xf4, 0xf4, 0xf6)},
	Muted:  Style{FG: RGB(0x8a, 0x8f, 0x98), BG: RGB(0xf4, 0xf4, 0xf6)},
	Accent: Style{FG: RGB(0x2b, 0x5c, 0xc9), BG: RGB(0xf4, 0xf4, 0xf6)},
	Error:  Style{FG: RGB(0xb3, 0x26, 0x1e), BG: RGB(0xf4, 0xf4, 0xf6)},
	Border: Style{FG: RGB(0xc8, 0xcc, 0xd4), BG: RGB(0xf4, 0xf4, 0xf6)},
}

var ThemeMonochrome = Theme{
	Base:   Style{FG: ColorWhite, BG: ColorBlack},
	Muted:  Style{FG: RGB(0x80, 0x80, 0x80), BG: ColorBlack},
	Accent: Style{FG: ColorWhite, BG: ColorBlack, Attr: AttrBold},
	Error:  Style{FG: ColorWhite, BG: ColorBlack, Attr: AttrInverse},
	Border: Style{FG: RGB(0x80, 0x80, 0x80), BG: ColorBlack},
}
