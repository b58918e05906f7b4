package ui

// NodeKind discriminates the UI node content union.
type NodeKind uint8

const (
	Container NodeKind = iota
	Text
	Textarea
	Scrollarea
)

// FloatSpec positions a floating node relative to its logical parent's
// outer rect: origin = parent.Outer.(Left,Top) + Offset - round(Gravity *
// node size).
type FloatSpec struct {
	GravityX, GravityY float32
	OffsetX, OffsetY   int
}

// ColumnSpec describes one grid column. Width <= 0 means flexible,
// weighted by |Width| (0 behaves as weight 1); Width > 0 is an absolute
// column width.
type ColumnSpec struct {
	Width int
}

// Attrs holds the attribute set accumulated on a node between
// container_begin and container_end (or on a leaf widget call).
type Attrs struct {
	Float    *FloatSpec
	Floating bool

	Padding int
	Columns []ColumnSpec

	BG, FG   Color
	Bordered bool

	MinW, MinH int // 0 = unset

	AutofocusNext bool
}

// TextChunk is one styled run of text within a Text node.
type TextChunk struct {
	Text  string
	Style Style
}

// textPayload is the content of a Text node.
type textPayload struct {
	chunks []TextChunk
}

// textareaPayload is the content of a Textarea node: it reads from an
// external text source (see TextSource in widgets.go) rather than owning
// text itself.
type textareaPayload struct {
	source   TextSource
	scrollY  int
	gutter   int
	focused  bool
}

// scrollareaPayload is the content of a Scrollarea node.
type scrollareaPayload struct {
	scrollX, scrollY int
	contentW, contentH int
}

// Node is one entry in a Frame's arena. It is transient: valid only for
// the frame (or, for the previous frame's table, the hit-test pass of the
// following frame) during which it was built.
type Node struct {
	ID uint64

	Parent, FirstChild, LastChild, PrevSib, NextSib int32
	StackParent                                     int32

	Kind  NodeKind
	Attrs Attrs

	text      textPayload
	textarea  textareaPayload
	scroll    scrollareaPayload

	Intrinsic Size

	Outer, Inner               Rect
	OuterClipped, InnerClipped Rect
}

const nilIdx int32 = -1
