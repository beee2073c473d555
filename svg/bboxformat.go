/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package svg

import (
	"fmt"

	"github.com/dvisvgm-go/dvi2svg/length"
)

// ApplyBBoxFormat overrides root's width/height/viewBox attributes (as set
// by Actions.EndPage's default content-tight sizing) according to the
// bboxFormatString configuration contract (spec §6). content is the raw
// accumulated content box; specialSize is whatever SetPageSize recorded
// from a papersize-style special this page (0,0 if none fired); maxPage
// holds the postamble's declared maximum page width and height, in the same
// units as content.
//
// BBoxDVI centers the content within maxPage; spec §9 leaves the
// behavior undefined when those are zero (no postamble dimensions), and
// this implementation resolves that Open Question by falling back to
// BBoxMin rather than raising InvalidPaperSize, since a zero-size page is
// a more surprising failure mode than simply not centering.
func ApplyBBoxFormat(root *Element, content BoundingBox, specialSize [2]float64, maxPage [2]float64, format length.BBoxFormat) {
	switch format.Kind {
	case length.BBoxMin, length.BBoxPreview:
		// Already set by EndPage's default tight-content sizing.
	case length.BBoxNone:
		root.RemoveAttr("width")
		root.RemoveAttr("height")
		root.RemoveAttr("viewBox")
	case length.BBoxDVI:
		if maxPage[0] <= 0 || maxPage[1] <= 0 {
			return
		}
		centerWithin(root, content, maxPage[0], maxPage[1])
	case length.BBoxPapersizeSpecial:
		if specialSize[0] <= 0 || specialSize[1] <= 0 {
			return
		}
		centerWithin(root, content, specialSize[0], specialSize[1])
	case length.BBoxNamedPaper:
		centerWithin(root, content, format.Paper.Width, format.Paper.Height)
	case length.BBoxExplicit:
		applyExplicit(root, content, format.Explicit)
	}
}

func centerWithin(root *Element, content BoundingBox, width, height float64) {
	cw, ch := content.Width(), content.Height()
	minX := content.MinX - (width-cw)/2
	minY := content.MinY - (height-ch)/2
	setBoxAttrs(root, minX, minY, width, height)
}

// applyExplicit honors a 2-length list (explicit width, height, content
// centered as for a named paper size) or a 4-length list (left, bottom,
// right, top margins added around the content box), per spec §6's
// "explicit list of length expressions" bboxFormatString value.
func applyExplicit(root *Element, content BoundingBox, lengths []float64) {
	switch len(lengths) {
	case 2:
		centerWithin(root, content, lengths[0], lengths[1])
	case 4:
		left, bottom, right, top := lengths[0], lengths[1], lengths[2], lengths[3]
		minX := content.MinX - left
		minY := content.MinY - top
		width := content.Width() + left + right
		height := content.Height() + top + bottom
		setBoxAttrs(root, minX, minY, width, height)
	}
}

func setBoxAttrs(root *Element, minX, minY, width, height float64) {
	root.SetAttr("width", formatLength(width))
	root.SetAttr("height", formatLength(height))
	root.SetAttr("viewBox", fmt.Sprintf("%s %s %s %s",
		formatLength(minX), formatLength(minY), formatLength(width), formatLength(height)))
}
