/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dvisvgm-go/dvi2svg/dvi"
	"github.com/dvisvgm-go/dvi2svg/font"
	"github.com/dvisvgm-go/dvi2svg/special"
)

// UnitsPerPoint is one TeX scaled point expressed in TeX points (1/65536),
// kept as the default scale for an Actions that is never told otherwise
// (e.g. in tests that construct one directly). For TeX's conventional
// preamble triple (num=25400000, den=473628672, mag=1000),
// DVIUnitsToBigPoints returns 72/72.27 of this value.
const UnitsPerPoint = 1.0 / 65536.0

// metersPerRawUnit and metersPerBigPoint implement the DVI standard's
// definition of a scaled point: one DVI unit is num/den * 1e-7 meters, and a
// big point (SVG's user unit) is 1/72 inch.
const (
	metersPerRawUnit  = 1e-7
	metersPerBigPoint = 0.0254 / 72.0
)

// DVIUnitsToBigPoints returns the factor that converts a DVI scaled
// quantity into big points (1/72 inch, the unit this package's SVG output
// is expressed in), combining the preamble/postamble's (num, den) unit
// definition with the mag/1000 magnification factor (spec §3). den and mag
// of 0 fall back to TeX's conventional defaults rather than producing a
// division by zero or a silently unmagnified page.
func DVIUnitsToBigPoints(num, den, mag uint32) float64 {
	if den == 0 {
		num, den = 25400000, 473628672
	}
	if mag == 0 {
		mag = 1000
	}
	metersPerUnit := float64(num) / float64(den) * metersPerRawUnit
	return metersPerUnit / metersPerBigPoint * (float64(mag) / 1000)
}

// Actions implements dvi.Actions, building an SVG document tree for one
// page at a time. A pending run of SetChar calls sharing a font and
// writing mode is coalesced into a single <text> element with per-glyph
// positioning, mirroring DVIToSVG.cpp's approach of grouping consecutive
// glyphs before flushing a <text> node.
type Actions struct {
	Root *Element // the <svg> root, valid once BeginPage has run

	page    *Element
	defs    *Element
	bbox    BoundingBox
	pending *textRun

	specials *special.Manager

	fontElems map[font.ID]string                // font.ID -> SVG font-family value already emitted
	usedChars map[font.ID]map[uint32]*font.Font // per unique font, the set of char codes drawn this page

	scale float64 // DVI units -> big points, set by SetScale (defaults to UnitsPerPoint)

	curH, curV   int32   // current cursor register, tracked for special.Actions.Position
	pageW, pageH float64 // set by a papersize-style special via SetPageSize; 0 means unset
}

type textRun struct {
	elem     *Element
	fontID   font.ID
	vertical bool
	baseline int32 // the h or v register at run start, along the non-advance axis
}

// NewActions creates an Actions builder. specials may be nil to disable
// special processing entirely.
func NewActions(specials *special.Manager) *Actions {
	return &Actions{
		fontElems: make(map[font.ID]string),
		specials:  specials,
		scale:     UnitsPerPoint,
	}
}

// SetScale fixes the DVI-units-to-big-points conversion factor used by
// SetChar and SetRule, normally DVIUnitsToBigPoints applied to the
// document's preamble/postamble (num, den, mag). Must be called before
// BeginPage's first drawing callback to take effect for that page.
func (a *Actions) SetScale(scale float64) { a.scale = scale }

func (a *Actions) BeginPage(pageno uint, counters [10]int32) {
	a.Root = NewElement("svg")
	a.Root.SetAttr("xmlns", "http://www.w3.org/2000/svg")
	a.Root.SetAttr("xmlns:xlink", "http://www.w3.org/1999/xlink")
	a.Root.SetAttr("version", "1.1")
	a.defs = NewElement("defs")
	a.Root.AppendChild(a.defs)
	a.page = NewElement("g")
	a.Root.AppendChild(a.page)
	a.bbox = NewBoundingBox()
	a.pending = nil
	a.usedChars = make(map[font.ID]map[uint32]*font.Font)
}

// EndPage flushes the pending text run, emits a <path> glyph definition
// into <defs> for every character code actually drawn from a physical
// font (aggregated through UniqueFont so a font scaled differently across
// references is traced only once), appends a single <style> element holding
// one font-family rule per used font (no @font-face rule is written), and
// fixes the page's width/height/viewBox from the
// accumulated bounding box. Grounded on DVIToSVG.cpp's end-of-page
// collect_chars pass over the font-usage map.
func (a *Actions) EndPage(pageno uint) {
	a.flush()
	a.emitGlyphDefs()
	width, height := a.bbox.Width(), a.bbox.Height()
	minX, minY := a.bbox.MinX, a.bbox.MinY
	if a.pageW > 0 && a.pageH > 0 {
		// A papersize-style special widens the page to an explicit size,
		// centering the accumulated content within it (spec §9's "dvi"
		// bboxFormatString open question, resolved here since SetPageSize
		// is only ever called with a concrete, non-zero size).
		minX -= (a.pageW - width) / 2
		minY -= (a.pageH - height) / 2
		width, height = a.pageW, a.pageH
	}
	a.Root.SetAttr("width", formatLength(width))
	a.Root.SetAttr("height", formatLength(height))
	a.Root.SetAttr("viewBox", fmt.Sprintf("%s %s %s %s",
		formatLength(minX), formatLength(minY),
		formatLength(width), formatLength(height)))
}

// emitGlyphDefs appends one <path> per distinct (font, code) pair drawn
// this page whose glyph lookup succeeds, and a single <style> element with
// one font-family rule per font whose char set is non-empty. Virtual fonts
// are skipped entirely; a glyph whose lookup fails gets no <path> (spec
// §4.3's FontResolution policy), but its font still gets its style rule.
func (a *Actions) emitGlyphDefs() {
	var styleBody strings.Builder
	for id, codes := range a.usedChars {
		if len(codes) == 0 {
			continue
		}
		var fnt *font.Font
		for _, f := range codes {
			fnt = f
			break
		}
		if fnt == nil || fnt.IsVirtual() {
			continue
		}
		for code, f := range codes {
			outline, ok := f.Glyph(code)
			if !ok {
				continue
			}
			AppendGlyphPath(a.defs, id, code, outline)
		}
		fmt.Fprintf(&styleBody, "text.f%d{font-family:%s}\n", id, fnt.Name())
	}
	if styleBody.Len() == 0 {
		return
	}
	style := NewElement("style")
	style.SetAttr("type", "text/css")
	style.AppendChild(NewCData(styleBody.String()))
	a.defs.AppendChild(style)
}

// SetChar places one glyph as a <use> reference to the glyph definition
// AppendGlyphPath will later emit into <defs>, coalescing consecutive
// glyphs sharing a font and writing mode into one wrapping <text> element
// (spec §4.7, testable property #3: no <tspan> nesting, each glyph is its
// own reference child).
func (a *Actions) SetChar(h, v int32, code uint32, vertical bool, fnt *font.Font, advance bool) {
	a.curH, a.curV = h, v
	x, y := float64(h)*a.scale, float64(v)*a.scale
	a.bbox.Extend(x, y)
	var id font.ID
	if fnt != nil {
		id = fnt.ID()
		a.markUsed(fnt, code)
	}
	if a.pending == nil || a.pending.fontID != id || a.pending.vertical != vertical {
		a.flush()
		a.startRun(id, vertical, fnt)
		a.pending.baseline = v
		if vertical {
			a.pending.baseline = h
		}
	}
	use := NewElement("use")
	use.SetAttr("xlink:href", "#"+GlyphPathID(id, code))
	use.SetAttr("x", formatLength(x))
	use.SetAttr("y", formatLength(y))
	a.pending.elem.AppendChild(use)
}

// markUsed records that code was drawn from fnt's underlying unique font,
// so EndPage traces it exactly once regardless of how many scaled
// references to the same font appeared on the page.
func (a *Actions) markUsed(fnt *font.Font, code uint32) {
	unique := fnt.UniqueFont()
	codes, ok := a.usedChars[unique.ID()]
	if !ok {
		codes = make(map[uint32]*font.Font)
		a.usedChars[unique.ID()] = codes
	}
	codes[code] = unique
}

func (a *Actions) startRun(id font.ID, vertical bool, fnt *font.Font) {
	run := NewElement("text")
	if family, ok := a.fontElems[id]; ok {
		run.SetAttr("font-family", family)
	} else if fnt != nil {
		run.SetAttr("font-family", fnt.Name())
		a.fontElems[id] = fnt.Name()
	}
	a.page.AppendChild(run)
	a.pending = &textRun{elem: run, fontID: id, vertical: vertical}
}

func (a *Actions) flush() {
	a.pending = nil
}

func (a *Actions) SetRule(h, v, height, width int32, advance bool) {
	a.curH, a.curV = h, v
	a.flush()
	x, y := float64(h)*a.scale, float64(v-height)*a.scale
	w, ht := float64(width)*a.scale, float64(height)*a.scale
	a.bbox.ExtendRect(x, y, w, ht)
	rect := NewElement("rect")
	rect.SetAttr("x", formatLength(x))
	rect.SetAttr("y", formatLength(y))
	rect.SetAttr("width", formatLength(w))
	rect.SetAttr("height", formatLength(ht))
	a.page.AppendChild(rect)
}

func (a *Actions) MoveTo(h, v int32, cause dvi.MoveCause) {
	a.curH, a.curV = h, v
	// Pure cursor movement has no visual effect until the next drawing
	// action; runs are only broken by a font/writing-mode change (see
	// SetChar), matching DVIToSVG.cpp's lazy flush policy.
}

func (a *Actions) SetFont(id font.ID, fnt *font.Font) {
	if fnt == nil {
		return
	}
	if _, ok := a.fontElems[id]; !ok {
		a.fontElems[id] = fnt.Name()
	}
}

func (a *Actions) SetWritingMode(vertical bool) {
	a.flush()
}

// NativeText records the Unicode source text of an XDV native-glyph run as
// a data attribute on the run's <text> element, for search/copy-paste
// tooling; it has no effect on layout or glyph placement.
func (a *Actions) NativeText(s string) {
	if a.pending == nil {
		return
	}
	a.pending.elem.SetAttr("data-text", s)
}

// Special dispatches the special's body to the registered handler pool, if
// any; an unrecognized prefix is silently ignored, matching
// SpecialManager's policy for specials with no matching handler.
func (a *Actions) Special(body string) {
	a.flush()
	if a.specials == nil {
		return
	}
	a.specials.Process(body, a)
}

// AppendElement exposes the current page group to special handlers that
// need to insert raw markup (e.g. a color or background special).
func (a *Actions) AppendElement(e *Element) {
	a.page.AppendChild(e)
}

// Position implements special.Actions: the cursor position in DVI units, as
// tracked through the last SetChar/SetRule/MoveTo callback.
func (a *Actions) Position() (h, v int32) { return a.curH, a.curV }

// BBox returns the page's accumulated content bounding box, before any
// bboxFormatString-driven override is applied by svg.ApplyBBoxFormat.
func (a *Actions) BBox() BoundingBox { return a.bbox }

// PageSize returns the explicit page size set by a papersize-style special
// via SetPageSize, or (0, 0) if none fired this page.
func (a *Actions) PageSize() (w, h float64) { return a.pageW, a.pageH }

// ExtendBBox implements special.Actions, letting a handler (e.g. a PostScript
// \special that draws outside the glyph/rule model) grow the page's
// accumulated bounding box directly, in SVG user-space units.
func (a *Actions) ExtendBBox(x, y, width, height float64) {
	a.bbox.ExtendRect(x, y, width, height)
}

// SetPageSize implements special.Actions: a papersize-style special fixes
// the final page size regardless of accumulated content, per spec §4.5's
// pre-scan requirement that such specials be known before the first page is
// rendered.
func (a *Actions) SetPageSize(width, height float64) {
	a.pageW, a.pageH = width, height
}

// formatLength renders a float64 using the shortest decimal representation
// that round-trips, trimming a trailing ".0" the way dvisvgm's length
// formatting does for integral values.
func formatLength(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return strings.TrimSuffix(s, ".0")
}
