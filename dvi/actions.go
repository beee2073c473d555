/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package dvi

import "github.com/dvisvgm-go/dvi2svg/font"

// MoveCause distinguishes a cursor move caused by a pop (which may need to
// force an explicit position update) from an ordinary right/down command.
type MoveCause int

// The reasons a cursor move callback can fire.
const (
	MoveNormal MoveCause = iota
	MoveCausedByPop
)

// Actions is the semantic callback surface the state machine drives as it
// executes opcodes. Implementations translate these calls into an output
// representation (the svg package's Actions builds the SVG tree;
// PreScanActions and the driver's hash sink are the other implementations
// this module ships; the interface itself is the documented contract of
// spec §4.4).
type Actions interface {
	BeginPage(pageno uint, counters [10]int32)
	EndPage(pageno uint)

	// SetChar places a glyph and, for Set (not Put), advances the cursor.
	SetChar(h, v int32, code uint32, vertical bool, fnt *font.Font, advance bool)
	SetRule(h, v, height, width int32, advance bool)

	MoveTo(h, v int32, cause MoveCause)
	SetFont(id font.ID, fnt *font.Font)
	SetWritingMode(vertical bool)
	Special(body string)

	// NativeText exposes the Unicode text run carried alongside an XDV
	// xdv-text-and-glyphs opcode (v7), decoded from its UTF-16BE encoding.
	// It has no effect on layout (the glyph array already places the
	// shaped output); implementations may use it for search-text metadata
	// or ignore it entirely.
	NativeText(s string)
}

// Handlers is the opcode-level dispatch surface the Decoder invokes. It is
// implemented by Machine, which interprets geometry and glyph advances and
// forwards the results to an Actions implementation; the Decoder itself
// never interprets geometry (spec §4.2).
type Handlers interface {
	SetChar(code uint32, advance bool)
	SetRule(h, w int32, advance bool)
	Nop()
	Bop(counters [10]int32, prevBop int32)
	Eop() error
	Push()
	Pop() error
	Right(n int32)
	Down(n int32)
	W0()
	SetW(n int32)
	X0()
	SetX(n int32)
	Y0()
	SetY(n int32)
	Z0()
	SetZ(n int32)
	FontNum(n uint32)
	FontDef(localNum uint32, checksum, scale, design uint32, area, name string)
	XXX(body string)
	Pre(format byte, num, den, mag uint32, comment string) error
	Dir(vertical bool)
	XGlyphArray(dx, dy []float64, glyphs []uint16)
	XGlyphString(dx []float64, glyphs []uint16)
	XTextAndGlyphs(dx, dy []float64, chars, glyphs []uint16)
}
