/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package length parses TeX length-unit expressions and named paper sizes
// for the bboxFormatString configuration contract (spec §6): one of
// min|dvi|preview|papersize|none|<named paper size>|<explicit length list>.
package length

import (
	"strconv"
	"strings"

	"github.com/dvisvgm-go/dvi2svg/common"
	"github.com/dvisvgm-go/dvi2svg/dvierrors"
)

// bigPointsPerUnit converts one unit of each TeX length to big points
// (1/72 inch), the SVG/PDF point named in the GLOSSARY.
var bigPointsPerUnit = map[string]float64{
	"pt": 72.0 / 72.27,
	"bp": 1.0,
	"in": 72.0,
	"cm": 72.0 / 2.54,
	"mm": 72.0 / 25.4,
	"pc": 12 * 72.0 / 72.27,
	"dd": 1238.0 / 1157.0 * 72.0 / 72.27,
	"cc": 12 * 1238.0 / 1157.0 * 72.0 / 72.27,
	"sp": 72.0 / 72.27 / 65536.0,
}

// ToBigPoints converts value unit-many length units into big points.
func ToBigPoints(value float64, unit string) (float64, error) {
	factor, ok := bigPointsPerUnit[strings.ToLower(unit)]
	if !ok {
		return 0, dvierrors.New(dvierrors.InvalidPaperSize, 0, "unknown length unit %q", unit)
	}
	return value * factor, nil
}

// ParseLength parses a single "<number><unit>" length expression (e.g.
// "2.5cm", "72bp") into big points.
func ParseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] == '.' || s[i] == '-' || s[i] == '+' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, dvierrors.New(dvierrors.InvalidPaperSize, 0, "length %q has no leading number", s)
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, dvierrors.Wrap(dvierrors.InvalidPaperSize, 0, err, "invalid length %q", s)
	}
	unit := strings.TrimSpace(s[i:])
	if unit == "" {
		return v, nil
	}
	return ToBigPoints(v, unit)
}

// PaperSize is a named paper format's dimensions, portrait orientation, in
// big points.
type PaperSize struct {
	Width, Height float64
}

// namedPaperSizes lists the ISO A/B series and common US formats, the way
// dvisvgm's PageSize.cpp table does; this is the complete closed set a
// named-paper-size bboxFormatString value (spec §6) resolves against.
var namedPaperSizes = map[string]PaperSize{
	"a0":     {2383.94, 3370.39},
	"a1":     {1683.78, 2383.94},
	"a2":     {1190.55, 1683.78},
	"a3":     {841.89, 1190.55},
	"a4":     {595.28, 841.89},
	"a5":     {419.53, 595.28},
	"a6":     {297.64, 419.53},
	"b0":     {2834.65, 4008.19},
	"b1":     {2004.09, 2834.65},
	"b2":     {1417.32, 2004.09},
	"b3":     {1000.63, 1417.32},
	"b4":     {708.66, 1000.63},
	"b5":     {498.90, 708.66},
	"letter": {612.00, 792.00},
	"legal":  {612.00, 1008.00},
	"executive": {522.00, 756.00},
}

// Lookup returns the named paper size, case-insensitively. A trailing
// "landscape" modifier swaps width and height.
func Lookup(name string) (PaperSize, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	landscape := strings.HasSuffix(name, "landscape")
	name = strings.TrimSpace(strings.TrimSuffix(name, "landscape"))
	size, ok := namedPaperSizes[name]
	if !ok {
		return PaperSize{}, false
	}
	if landscape {
		size.Width, size.Height = size.Height, size.Width
	}
	return size, true
}

// BBoxFormat is a parsed bboxFormatString value (spec §6).
type BBoxFormat struct {
	Kind     BBoxKind
	Explicit []float64 // for BBoxExplicit: width, height, or left, bottom, right, top margins
	Paper    PaperSize // for BBoxNamedPaper
}

// BBoxKind distinguishes the bboxFormatString's closed set of modes.
type BBoxKind int

// The bboxFormatString modes named in spec §6.
const (
	BBoxMin BBoxKind = iota
	BBoxDVI
	BBoxPreview
	BBoxPapersizeSpecial
	BBoxNone
	BBoxNamedPaper
	BBoxExplicit
)

// ParseBBoxFormat parses the bboxFormatString configuration value.
//
// The source silently swallows exceptions when parsing an explicit length
// list; this re-implementation instead logs a warning and falls back to
// BBoxMin, resolving the Open Question in spec §9 toward an observable
// fallback rather than a silent one.
func ParseBBoxFormat(s string) BBoxFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "min", "":
		return BBoxFormat{Kind: BBoxMin}
	case "dvi":
		return BBoxFormat{Kind: BBoxDVI}
	case "preview":
		return BBoxFormat{Kind: BBoxPreview}
	case "papersize":
		return BBoxFormat{Kind: BBoxPapersizeSpecial}
	case "none":
		return BBoxFormat{Kind: BBoxNone}
	}
	if size, ok := Lookup(s); ok {
		return BBoxFormat{Kind: BBoxNamedPaper, Paper: size}
	}
	if lengths, ok := parseExplicitList(s); ok {
		return BBoxFormat{Kind: BBoxExplicit, Explicit: lengths}
	}
	common.Log.Warning("length: unrecognized bboxFormatString %q, falling back to min", s)
	return BBoxFormat{Kind: BBoxMin}
}

// parseExplicitList parses a comma-separated list of length expressions
// (e.g. "10cm,15cm" for width and height, or "1cm,1cm,1cm,1cm" for left,
// bottom, right and top margins). Any list of two or more lengths parses;
// svg.ApplyBBoxFormat acts only on lists of 2 or 4 values.
func parseExplicitList(s string) ([]float64, bool) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return nil, false
	}
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := ParseLength(p)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
