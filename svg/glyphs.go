/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package svg

import (
	"fmt"
	"strings"

	"github.com/dvisvgm-go/dvi2svg/font"
)

// GlyphPathID returns the <path>/<glyph> id this package assigns a single
// character of a font, derived from the font's stable process-wide ID and
// the character code, so references from a <use> element are collision-free
// across every font used in a page.
func GlyphPathID(id font.ID, code uint32) string {
	return fmt.Sprintf("g%d-%d", id, code)
}

// AppendGlyphPath converts one glyph outline into a <path> element inside
// defs, named GlyphPathID(fontID, code), for later reference by <use>. The
// "glyph accessor" contract named in spec §4.3 supplies outline; this
// function only turns it into markup.
func AppendGlyphPath(defs *Element, fontID font.ID, code uint32, outline font.GlyphOutline) {
	p := NewElement("path")
	p.SetAttr("id", GlyphPathID(fontID, code))
	p.SetAttr("d", outlineToPathData(outline))
	defs.AppendChild(p)
}

// outlineToPathData renders a glyph outline's segments as an SVG path data
// string. Font-unit y grows upward while SVG user-space y grows downward,
// so every y coordinate is negated, matching the convention dvisvgm's own
// glyph tracer uses when emitting <path> data from font outlines.
func outlineToPathData(outline font.GlyphOutline) string {
	var b strings.Builder
	for _, seg := range outline.Segments {
		switch seg.Op {
		case font.SegMoveTo:
			fmt.Fprintf(&b, "M%s,%s ", fnum(seg.Args[0]), fnum(-seg.Args[1]))
		case font.SegLineTo:
			fmt.Fprintf(&b, "L%s,%s ", fnum(seg.Args[0]), fnum(-seg.Args[1]))
		case font.SegQuadTo:
			fmt.Fprintf(&b, "Q%s,%s %s,%s ", fnum(seg.Args[0]), fnum(-seg.Args[1]), fnum(seg.Args[2]), fnum(-seg.Args[3]))
		case font.SegCubeTo:
			fmt.Fprintf(&b, "C%s,%s %s,%s %s,%s ", fnum(seg.Args[0]), fnum(-seg.Args[1]), fnum(seg.Args[2]), fnum(-seg.Args[3]), fnum(seg.Args[4]), fnum(-seg.Args[5]))
		}
	}
	b.WriteString("Z")
	return strings.TrimSpace(b.String())
}

func fnum(v float64) string {
	if v == 0 {
		v = 0 // a negated zero y would otherwise print as "-0"
	}
	return formatLength(v)
}
