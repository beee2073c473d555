/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package dvi

import "github.com/dvisvgm-go/dvi2svg/font"

// PreScanActions is a minimal Actions implementation used for the pre-scan
// pass over a page range: it tracks the bounding register extremes and
// collects xxx specials (papersize, color, etc.) that must be known before
// the main rendering pass begins, without producing any SVG output.
// Grounded on original_source's PreScanDVIReader.
type PreScanActions struct {
	MaxH, MaxV int32
	MinH, MinV int32
	Specials   []string

	pageno uint
}

// NewPreScanActions returns an empty pre-scan collector.
func NewPreScanActions() *PreScanActions {
	return &PreScanActions{}
}

func (p *PreScanActions) BeginPage(pageno uint, counters [10]int32) {
	p.pageno = pageno
}

func (p *PreScanActions) EndPage(pageno uint) {}

func (p *PreScanActions) SetChar(h, v int32, code uint32, vertical bool, fnt *font.Font, advance bool) {
	p.track(h, v)
}

func (p *PreScanActions) SetRule(h, v, height, width int32, advance bool) {
	p.track(h, v)
	p.track(h+width, v-height)
}

func (p *PreScanActions) MoveTo(h, v int32, cause MoveCause) {
	p.track(h, v)
}

func (p *PreScanActions) SetFont(id font.ID, fnt *font.Font) {}

func (p *PreScanActions) SetWritingMode(vertical bool) {}

func (p *PreScanActions) NativeText(s string) {}

// Special records the raw body of every xxx command seen; the driver scans
// these afterward for papersize and other pre-render-relevant specials
// (setProcessSpecials in the original driver runs handlers during the main
// pass, but bounding-box-affecting specials like papersize must be known
// before page geometry is fixed).
func (p *PreScanActions) Special(body string) {
	p.Specials = append(p.Specials, body)
}

func (p *PreScanActions) track(h, v int32) {
	if h > p.MaxH {
		p.MaxH = h
	}
	if h < p.MinH {
		p.MinH = h
	}
	if v > p.MaxV {
		p.MaxV = v
	}
	if v < p.MinV {
		p.MinV = v
	}
}
