package xls

// Format describes one cell style (spec.md §3 FormatDesc). Identity is the
// xfIndex assigned when the format is added to a Workbook; everything else
// is mutated in place by the setters below until the workbook is closed.
type Format struct {
	xfIndex   int
	fontIndex int

	fontName string
	size     int
	bold     uint16
	italic   bool
	color    int

	underline     int
	strikeout     bool
	outline       bool
	shadow        bool
	script        int
	family        int
	charset       int

	numFormat    int
	numFormatStr string

	hAlign     int
	wrap       bool
	vAlign     int
	justLast   bool
	rotation   int

	fgColor int
	bgColor int
	pattern int

	top, bottom, left, right                         int
	topColor, bottomColor, leftColor, rightColor int
}

const (
	boldNormal = 0x0190
	boldBold   = 0x02BC
	colorDefault = 0x7FFF
)

// newFormat builds a format with the original library's defaults
// (src/format.c fmt_new): Arial 10pt, normal weight, default palette color,
// bottom-aligned vertically, grey-ish default fill/border palette indices.
func newFormat(xfIndex int) *Format {
	return &Format{
		xfIndex:      xfIndex,
		fontName:     "Arial",
		size:         10,
		bold:         boldNormal,
		color:        colorDefault,
		vAlign:       2,
		fgColor:      0x40,
		bgColor:      0x41,
		topColor:     0x40,
		bottomColor:  0x40,
		leftColor:    0x40,
		rightColor:   0x40,
	}
}

// SetBold toggles bold per fmt_set_bold's two-valued encoding.
func (f *Format) SetBold(bold bool) {
	if bold {
		f.bold = boldBold
	} else {
		f.bold = boldNormal
	}
}

func (f *Format) SetItalic(v bool)      { f.italic = v }
func (f *Format) SetUnderline(v bool)   { if v { f.underline = 1 } else { f.underline = 0 } }
func (f *Format) SetStrikeout(v bool)   { f.strikeout = v }
func (f *Format) SetOutline(v bool)     { f.outline = v }
func (f *Format) SetShadow(v bool)      { f.shadow = v }
func (f *Format) SetSize(points int)    { f.size = points }
func (f *Format) SetFontName(name string) { f.fontName = name }
func (f *Format) SetRotation(v int)     { f.rotation = v }
func (f *Format) SetTextWrap(v bool)    { f.wrap = v }
func (f *Format) SetPattern(v int)      { f.pattern = v }
func (f *Format) SetNumFormatStr(s string) { f.numFormatStr = s }

// SetMerge sets the "merge" horizontal alignment keyword (fmt_set_merge).
func (f *Format) SetMerge() { f.hAlign = 6 }

// SetAlign accepts the same keyword set as the original's fmt_set_align:
// horizontal ("left", "centre"/"center", "right", "fill", "justify",
// "merge") and vertical ("top", "vcentre"/"vcenter", "bottom", "vjustify").
// Unknown keywords are ignored.
func (f *Format) SetAlign(keyword string) {
	if v, ok := hAlignKeywords[keyword]; ok {
		f.hAlign = v
		return
	}
	if v, ok := vAlignKeywords[keyword]; ok {
		f.vAlign = v
	}
}

var hAlignKeywords = map[string]int{
	"left": 1, "centre": 2, "center": 2, "right": 3,
	"fill": 4, "justify": 5, "merge": 6,
}

var vAlignKeywords = map[string]int{
	"top": 0, "vcentre": 1, "vcenter": 1, "bottom": 2, "vjustify": 3,
}

// SetBorder sets all four border styles at once (fmt_set_border).
func (f *Format) SetBorder(style int) {
	f.top, f.bottom, f.left, f.right = style, style, style, style
}

// SetBorderColor sets all four border colors by name.
func (f *Format) SetBorderColor(name string) {
	c := colorByName(name)
	f.topColor, f.bottomColor, f.leftColor, f.rightColor = c, c, c, c
}

func (f *Format) SetFgColor(name string) { f.fgColor = colorByName(name) }
func (f *Format) SetBgColor(name string) { f.bgColor = colorByName(name) }
func (f *Format) SetColor(name string)   { f.color = colorByName(name) }

// SetColorIndex sets the font color by raw palette index. Out-of-range
// input (outside 8..63) falls back to the default sentinel 0x7FFF and
// returns immediately — the original fmt_set_colori set the sentinel and
// then fell through to overwrite it unconditionally with the caller's raw
// value regardless of range; DESIGN.md documents that as a bug and this is
// the corrected, evidently-intended behavior.
func (f *Format) SetColorIndex(v int) {
	if v < 8 || v > 63 {
		f.color = colorDefault
		return
	}
	f.color = v
}

var namedColors = map[string]int{
	"aqua": 0x0F, "black": 0x08, "blue": 0x0C, "fuchsia": 0x0E,
	"gray": 0x17, "grey": 0x17, "green": 0x11, "lime": 0x0B,
	"navy": 0x12, "orange": 0x1D, "purple": 0x24, "red": 0x0A,
	"silver": 0x16, "white": 0x09, "yellow": 0x0D,
}

func colorByName(name string) int {
	if v, ok := namedColors[name]; ok {
		return v
	}
	return colorDefault
}

// fontKey groups the font-contributing fields the original hashes for
// FONT-record dedup (fmt_gethash, restricted to the name+size+style
// fields). Used as a map key for exact structural-equality dedup — per
// spec.md §9 ("dedup by structural equality... hashing only as an
// accelerator"), this IS the equality key, not an accelerator over a
// separate equality check, since every field that distinguishes two FONT
// records is present in it.
type fontKey struct {
	name             string
	size             int
	script, underline int
	strikeout, bold, outline bool
	family, charset  int
	shadow           bool
	color            int
	italic           bool
}

func (f *Format) fontKey() fontKey {
	return fontKey{
		name: f.fontName, size: f.size, script: f.script, underline: f.underline,
		strikeout: f.strikeout, bold: f.bold != boldNormal, outline: f.outline,
		family: f.family, charset: f.charset, shadow: f.shadow,
		color: f.color, italic: f.italic,
	}
}

// numFormatKey is the equality key for FORMAT-record dedup.
func (f *Format) numFormatKey() string { return f.numFormatStr }

// buildFontRecord emits the BIFF FONT record payload (fmt_get_font).
func (f *Format) buildFontRecord() []byte {
	grbit := 0
	if f.italic {
		grbit |= 0x02
	}
	if f.strikeout {
		grbit |= 0x08
	}
	if f.outline {
		grbit |= 0x10
	}
	if f.shadow {
		grbit |= 0x20
	}

	buf := newOctetBuffer()
	buf.putU16LE(uint16(f.size * 20))
	buf.putU16LE(uint16(grbit))
	buf.putU16LE(uint16(f.color))
	buf.putU16LE(f.bold)
	buf.putU16LE(uint16(f.script))
	buf.putU8(uint8(f.underline))
	buf.putU8(uint8(f.family))
	buf.putU8(uint8(f.charset))
	buf.putU8(0)
	buf.putU8(uint8(len(f.fontName)))
	buf.putRaw([]byte(f.fontName))
	return buf.Bytes()
}

// buildFormatRecord emits the BIFF FORMAT record payload for a user-defined
// number format string at the given index.
func buildFormatRecord(numFormatStr string, index int) []byte {
	buf := newOctetBuffer()
	buf.putU16LE(uint16(index))
	buf.putU8(uint8(len(numFormatStr)))
	buf.putRaw([]byte(numFormatStr))
	return buf.Bytes()
}

// buildXFRecord emits the BIFF XF record payload (fmt_get_xf). style
// carries the record's "style and other options" word (0xFFF5 for the
// fifteen style XFs, 0x0001 for cell XFs).
func (f *Format) buildXFRecord(style uint16) []byte {
	atrNum := f.numFormat != 0
	atrFnt := f.fontIndex != 0
	atrAlc := f.wrap
	atrBdr := f.top != 0 || f.bottom != 0 || f.left != 0 || f.right != 0
	atrPat := f.fgColor != 0 || f.bgColor != 0 || f.pattern != 0

	bottomColor, topColor, leftColor, rightColor := f.bottomColor, f.topColor, f.leftColor, f.rightColor
	if f.bottom == 0 {
		bottomColor = 0
	}
	if f.top == 0 {
		topColor = 0
	}
	if f.right == 0 {
		rightColor = 0
	}
	if f.left == 0 {
		leftColor = 0
	}

	align := uint16(f.hAlign)
	if f.wrap {
		align |= 1 << 3
	}
	align |= uint16(f.vAlign) << 4
	if f.justLast {
		align |= 1 << 7
	}
	align |= uint16(f.rotation) << 8
	if atrNum {
		align |= 1 << 10
	}
	if atrFnt {
		align |= 1 << 11
	}
	if atrAlc {
		align |= 1 << 12
	}
	if atrBdr {
		align |= 1 << 13
	}
	if atrPat {
		align |= 1 << 14
	}

	icv := uint16(f.fgColor) | uint16(f.bgColor)<<7

	fill := uint16(f.pattern) | uint16(f.bottom)<<6 | uint16(bottomColor)<<9
	border1 := uint16(f.top) | uint16(f.left)<<3 | uint16(f.right)<<6 | uint16(topColor)<<9
	border2 := uint16(leftColor) | uint16(rightColor)<<7

	buf := newOctetBuffer()
	buf.putU16LE(uint16(f.fontIndex))
	buf.putU16LE(uint16(f.numFormat))
	buf.putU16LE(style)
	buf.putU16LE(align)
	buf.putU16LE(icv)
	buf.putU16LE(fill)
	buf.putU16LE(border1)
	buf.putU16LE(border2)
	return buf.Bytes()
}
