/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package dvi

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/dvisvgm-go/dvi2svg/dvierrors"
	"github.com/dvisvgm-go/dvi2svg/font"
)

// utf16beDecoder decodes the UTF-16BE text XeTeX embeds alongside
// xdv-text-and-glyphs opcodes (spec's DOMAIN STACK: golang.org/x/text).
var utf16beDecoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

// Machine implements Handlers: it owns the per-page State register file and
// the shared font.Manager, interprets opcode geometry (advances, writing-
// mode axis swap) and forwards the resulting semantic events to an Actions
// implementation. Grounded on DVIToSVG.cpp's dviSetChar0/dviSetRule/
// moveRight/moveDown/dviFontNum/dviPop.
type Machine struct {
	state   State
	fonts   *font.Manager
	actions Actions

	version  Version
	num, den uint32
	mag      uint32
	pageno   uint
	prevBop  int32
	fontDefs map[uint32]fontDef
	curFont  *font.Font
}

type fontDef struct {
	name          string
	checksum      uint32
	scale, design uint32
	area          string
}

// NewMachine creates a Machine that drives actions using fonts for font
// resolution.
func NewMachine(fonts *font.Manager, actions Actions) *Machine {
	return &Machine{
		fonts:    fonts,
		actions:  actions,
		fontDefs: make(map[uint32]fontDef),
	}
}

// SetVersion records the DVI format version, reported back by Version. It
// does not change how Machine interprets opcodes, and the Decoder's
// legality checks use the Decoder's own version (Decoder.SetVersion).
func (m *Machine) SetVersion(v Version) { m.version = v }

// Version returns the format version last fixed by Pre or SetVersion, for
// a driver to forward to the Decoder once the preamble has been read.
func (m *Machine) Version() Version { return m.version }

func (m *Machine) vertical() bool { return m.state.D() == TB }

// moveRight applies a horizontal-axis spacing command, routing it to the v
// register instead when the page is in vertical writing mode (dvisvgm's
// moveRight/moveDown axis swap).
func (m *Machine) moveRight(n int32) {
	if m.vertical() {
		m.state.v += n
	} else {
		m.state.h += n
	}
	m.actions.MoveTo(m.state.h, m.state.v, MoveNormal)
}

func (m *Machine) moveDown(n int32) {
	if m.vertical() {
		m.state.h += n
	} else {
		m.state.v += n
	}
	m.actions.MoveTo(m.state.h, m.state.v, MoveNormal)
}

// SetChar places a glyph at the current position, then (if advance) moves
// the cursor by the glyph's scaled advance width along the writing
// direction's primary axis.
func (m *Machine) SetChar(code uint32, advance bool) {
	m.actions.SetChar(m.state.h, m.state.v, code, m.vertical(), m.curFont, advance)
	if !advance {
		return
	}
	w := m.glyphAdvance(code)
	if m.vertical() {
		m.state.v += w
	} else {
		m.state.h += w
	}
}

// glyphAdvance returns the advance width of code in the current font,
// scaled from font design units into DVI units, or 0 if no font is set or
// the glyph is missing (the char is still placed; only spacing degrades).
func (m *Machine) glyphAdvance(code uint32) int32 {
	if m.curFont == nil {
		return 0
	}
	outline, ok := m.curFont.Glyph(code)
	if !ok {
		return 0
	}
	design := m.curFont.DesignSize()
	if design == 0 {
		return 0
	}
	scale := m.curFont.ScaledSize() / design
	return int32(outline.AdvanceWidth * scale)
}

// SetRule places a rule and, if advance, moves right by its width (rules
// have no notion of vertical writing mode swap in dvisvgm: they always
// advance along h per the DVI standard).
func (m *Machine) SetRule(h, w int32, advance bool) {
	m.actions.SetRule(m.state.h, m.state.v, h, w, advance)
	if advance {
		m.state.h += w
	}
}

func (m *Machine) Nop() {}

// Bop resets the register file and stack for a new page and notifies
// Actions. prevBop is retained for diagnostics but not otherwise used: page
// linkage is handled by the Reader's postamble scan.
func (m *Machine) Bop(counters [10]int32, prevBop int32) {
	m.state.Reset()
	m.prevBop = prevBop
	m.pageno++
	m.curFont = nil
	m.actions.BeginPage(m.pageno, counters)
}

// Eop requires the push/pop stack to be balanced, mirroring the DVI
// standard's requirement that eop occur at stack depth 0.
func (m *Machine) Eop() error {
	if !m.state.Empty() {
		return dvierrors.New(dvierrors.StackUnderflow, int(m.pageno), "eop with non-empty push stack (depth %d)", m.state.Depth())
	}
	m.actions.EndPage(m.pageno)
	return nil
}

func (m *Machine) Push() { m.state.Push() }

func (m *Machine) Pop() error {
	if err := m.state.Pop(); err != nil {
		return dvierrors.Wrap(dvierrors.StackUnderflow, int(m.pageno), err, "pop")
	}
	m.actions.MoveTo(m.state.h, m.state.v, MoveCausedByPop)
	return nil
}

func (m *Machine) Right(n int32) { m.moveRight(n) }
func (m *Machine) Down(n int32)  { m.moveDown(n) }

func (m *Machine) W0() { m.moveRight(m.state.w) }
func (m *Machine) SetW(n int32) {
	m.state.w = n
	m.moveRight(n)
}

func (m *Machine) X0() { m.moveRight(m.state.x) }
func (m *Machine) SetX(n int32) {
	m.state.x = n
	m.moveRight(n)
}

func (m *Machine) Y0() { m.moveDown(m.state.y) }
func (m *Machine) SetY(n int32) {
	m.state.y = n
	m.moveDown(n)
}

func (m *Machine) Z0() { m.moveDown(m.state.z) }
func (m *Machine) SetZ(n int32) {
	m.state.z = n
	m.moveDown(n)
}

// FontNum switches the current font, resolving it through the shared
// font.Manager (dviFontNum in the original driver).
func (m *Machine) FontNum(n uint32) {
	fnt, ok := m.fonts.Resolve(n)
	if !ok {
		return
	}
	m.state.font = fnt.ID()
	m.curFont = fnt
	m.actions.SetFont(fnt.ID(), fnt)
}

// FontDef registers a font definition with the shared font.Manager. Virtual
// fonts are distinguished by name pattern is not available at this layer;
// the caller (the driver, from a pre-scan or configuration) marks them via
// DefineVirtual before the corresponding FontNum switches to one — absent
// that, fonts default to physical.
func (m *Machine) FontDef(localNum uint32, checksum, scale, design uint32, area, name string) {
	m.fontDefs[localNum] = fontDef{name: name, checksum: checksum, scale: scale, design: design, area: area}
	m.fonts.Define(localNum, name, checksum, scale, design, area, false)
}

// DefineVirtual re-registers a previously-defined font as virtual. Called
// by the driver once it has classified fonts using its VF lookup rules,
// before the main pass begins.
func (m *Machine) DefineVirtual(localNum uint32) {
	d, ok := m.fontDefs[localNum]
	if !ok {
		return
	}
	m.fonts.Define(localNum, d.name, d.checksum, d.scale, d.design, d.area, true)
}

func (m *Machine) XXX(body string) { m.actions.Special(body) }

// Pre validates the preamble's declared format version and fixes it, along
// with its (num, den, mag) scale triple (spec §3/§4.1), for the remainder
// of the stream.
func (m *Machine) Pre(format byte, num, den, mag uint32, comment string) error {
	v := Version(format)
	if !v.valid() {
		return dvierrors.New(dvierrors.UnsupportedVersion, 0, "unsupported DVI format version %d", format)
	}
	m.version = v
	m.num, m.den, m.mag = num, den, mag
	return nil
}

// NumDenMag returns the (num, den, mag) scale triple last fixed by Pre, for
// a caller that decodes the preamble directly rather than sourcing the same
// triple from the postamble (which duplicates it per the DVI standard).
func (m *Machine) NumDenMag() (num, den, mag uint32) { return m.num, m.den, m.mag }

// Dir switches writing mode. No opcode handled by Decoder dispatches to
// Dir; it is only reached by calling it directly.
func (m *Machine) Dir(vertical bool) {
	if vertical {
		m.state.d = TB
	} else {
		m.state.d = LR
	}
	m.actions.SetWritingMode(vertical)
}

// XGlyphArray places a run of glyphs at explicit per-glyph offsets from the
// current position, without touching the register file (XDV native glyph
// placement bypasses the w/x/y/z spacing model entirely).
func (m *Machine) XGlyphArray(dx, dy []float64, glyphs []uint16) {
	h, v := m.state.h, m.state.v
	for i, g := range glyphs {
		gh := h + int32(dx[i])
		gv := v + int32(dy[i])
		m.actions.SetChar(gh, gv, uint32(g), m.vertical(), m.curFont, false)
	}
}

// XGlyphString is XGlyphArray with implicit dy=0 (v5-only opcode).
func (m *Machine) XGlyphString(dx []float64, glyphs []uint16) {
	dy := make([]float64, len(dx))
	m.XGlyphArray(dx, dy, glyphs)
}

// XTextAndGlyphs places shaped glyphs like XGlyphArray while additionally
// exposing the original Unicode text run for specials/search-text purposes;
// the chars slice has no effect on layout.
func (m *Machine) XTextAndGlyphs(dx, dy []float64, chars, glyphs []uint16) {
	m.XGlyphArray(dx, dy, glyphs)
	if s, ok := decodeUTF16BE(chars); ok {
		m.actions.NativeText(s)
	}
}

// decodeUTF16BE decodes a big-endian UTF-16 char sequence (as XeTeX emits
// for xdv-text-and-glyphs) into a Go string. A decode failure (an
// unpaired surrogate) is reported by ok=false and the run is dropped
// rather than surfacing mojibake.
func decodeUTF16BE(chars []uint16) (string, bool) {
	if len(chars) == 0 {
		return "", false
	}
	raw := make([]byte, len(chars)*2)
	for i, c := range chars {
		raw[2*i] = byte(c >> 8)
		raw[2*i+1] = byte(c)
	}
	out, err := utf16beDecoder.Bytes(raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// valid reports whether v is a version this module recognizes.
func (v Version) valid() bool {
	switch v {
	case VersionStandard, VersionPTeX, VersionXDV5, VersionXDV6, VersionXDV7:
		return true
	default:
		return false
	}
}
