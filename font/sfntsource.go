/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package font

import (
	"os"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// sfntSource is the default GlyphSource, backed by golang.org/x/image's
// TrueType/OpenType table reader. It is the "glyph accessor" named for
// physical fonts in spec §4.3; table parsing itself is x/image's job.
type sfntSource struct {
	font   *sfnt.Font
	buffer sfnt.Buffer
}

// NewSfntLoader returns a Loader that reads TrueType/OpenType outlines via
// golang.org/x/image/font/sfnt, used by Manager as the default glyph Loader.
func NewSfntLoader() Loader { return sfntLoader{} }

type sfntLoader struct{}

func (sfntLoader) Load(path string, format Format) (GlyphSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fnt, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	return &sfntSource{font: fnt}, nil
}

// Glyph returns the outline of the glyph at the given character code,
// treating code as a raw glyph index (TeX/DVI font encodings are not
// Unicode, so code-to-glyph mapping for physical fonts is assumed to
// already be glyph-index space by the time it reaches this accessor).
func (s *sfntSource) Glyph(code uint32) (GlyphOutline, bool) {
	gi := sfnt.GlyphIndex(code)
	segments, err := s.font.LoadGlyph(&s.buffer, gi, fixed.I(1000), nil)
	if err != nil {
		return GlyphOutline{}, false
	}
	adv, err := s.font.GlyphAdvance(&s.buffer, gi, fixed.I(1000), 0)
	if err != nil {
		adv = 0
	}
	out := GlyphOutline{AdvanceWidth: float64(adv) / 64}
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			out.Segments = append(out.Segments, Segment{Op: SegMoveTo, Args: point(seg.Args[0])})
		case sfnt.SegmentOpLineTo:
			out.Segments = append(out.Segments, Segment{Op: SegLineTo, Args: point(seg.Args[0])})
		case sfnt.SegmentOpQuadTo:
			out.Segments = append(out.Segments, Segment{Op: SegQuadTo, Args: points(seg.Args[0], seg.Args[1])})
		case sfnt.SegmentOpCubeTo:
			out.Segments = append(out.Segments, Segment{Op: SegCubeTo, Args: points(seg.Args[0], seg.Args[1], seg.Args[2])})
		}
	}
	return out, true
}

func point(p fixed.Point26_6) []float64 {
	return []float64{float64(p.X) / 64, float64(p.Y) / 64}
}

func points(ps ...fixed.Point26_6) []float64 {
	out := make([]float64, 0, len(ps)*2)
	for _, p := range ps {
		out = append(out, float64(p.X)/64, float64(p.Y)/64)
	}
	return out
}
