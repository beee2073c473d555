/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package main

import (
	"encoding/binary"
	"io"

	"github.com/dvisvgm-go/dvi2svg/dvi"
	"github.com/dvisvgm-go/dvi2svg/font"
)

// hashActions implements dvi.Actions by feeding a deterministic binary
// encoding of every semantic event into an io.Writer (a hashsink.Writer in
// practice), rather than building any SVG tree. Used by Driver's
// hash-before-render shortcut (spec §9): running the page interpretation a
// second time against this sink is cheaper than serializing a full SVG
// document just to decide whether the page changed.
type hashActions struct {
	w io.Writer
}

func newHashActions(w io.Writer) *hashActions {
	return &hashActions{w: w}
}

func (h *hashActions) write(tag byte, fields ...int32) {
	buf := make([]byte, 1+4*len(fields))
	buf[0] = tag
	for i, f := range fields {
		binary.BigEndian.PutUint32(buf[1+4*i:], uint32(f))
	}
	h.w.Write(buf)
}

func (h *hashActions) writeStr(tag byte, s string) {
	h.w.Write([]byte{tag})
	io.WriteString(h.w, s)
}

func (h *hashActions) BeginPage(pageno uint, counters [10]int32) {
	fields := make([]int32, 0, 11)
	fields = append(fields, int32(pageno))
	fields = append(fields, counters[:]...)
	h.write('B', fields...)
}

func (h *hashActions) EndPage(pageno uint) { h.write('E', int32(pageno)) }

func (h *hashActions) SetChar(x, y int32, code uint32, vertical bool, fnt *font.Font, advance bool) {
	v := int32(0)
	if vertical {
		v = 1
	}
	a := int32(0)
	if advance {
		a = 1
	}
	fontID := int32(0)
	if fnt != nil {
		fontID = int32(fnt.ID())
	}
	h.write('C', x, y, int32(code), v, a, fontID)
}

func (h *hashActions) SetRule(x, y, height, width int32, advance bool) {
	a := int32(0)
	if advance {
		a = 1
	}
	h.write('R', x, y, height, width, a)
}

func (h *hashActions) MoveTo(x, y int32, cause dvi.MoveCause) { h.write('M', x, y, int32(cause)) }

func (h *hashActions) SetFont(id font.ID, fnt *font.Font) { h.write('F', int32(id)) }

func (h *hashActions) SetWritingMode(vertical bool) {
	v := int32(0)
	if vertical {
		v = 1
	}
	h.write('W', v)
}

func (h *hashActions) Special(body string) { h.writeStr('S', body) }

func (h *hashActions) NativeText(s string) { h.writeStr('T', s) }
