/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package dvi

import "github.com/dvisvgm-go/dvi2svg/dvierrors"

// Decoder is the stateless opcode table: for each opcode it knows the
// length of the operand block and which Handlers method to invoke. It
// never interprets geometry itself (spec §4.2).
type Decoder struct {
	reader  *Reader
	version Version
}

// NewDecoder creates a decoder bound to r, initially with no version set;
// until SetVersion is called (the driver passes the version read from the
// post_post record), every XDV extension opcode is rejected.
func NewDecoder(r *Reader) *Decoder {
	return &Decoder{reader: r}
}

// SetVersion fixes the DVI format version for the remainder of the stream.
func (d *Decoder) SetVersion(v Version) { d.version = v }

// Version returns the currently active format version.
func (d *Decoder) Version() Version { return d.version }

// ExecuteCommand decodes exactly one opcode, dispatching to h, and returns
// the opcode byte consumed.
func (d *Decoder) ExecuteCommand(h Handlers) (byte, error) {
	op, err := d.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	if err := checkVersion(op, d.version); err != nil {
		return op, err
	}
	switch {
	case op <= opSetChar127:
		h.SetChar(uint32(op), true)
	case op >= opSet1 && op <= opSet4:
		n := variableOperandLen(op, opSet1)
		code, err := d.reader.ReadU(n)
		if err != nil {
			return op, err
		}
		h.SetChar(code, true)
	case op == opSetRule:
		height, err := d.reader.ReadS(4)
		if err != nil {
			return op, err
		}
		width, err := d.reader.ReadS(4)
		if err != nil {
			return op, err
		}
		h.SetRule(height, width, true)
	case op >= opPut1 && op <= opPut4:
		n := variableOperandLen(op, opPut1)
		code, err := d.reader.ReadU(n)
		if err != nil {
			return op, err
		}
		h.SetChar(code, false)
	case op == opPutRule:
		height, err := d.reader.ReadS(4)
		if err != nil {
			return op, err
		}
		width, err := d.reader.ReadS(4)
		if err != nil {
			return op, err
		}
		h.SetRule(height, width, false)
	case op == opNop:
		h.Nop()
	case op == opBop:
		var counters [10]int32
		for i := range counters {
			c, err := d.reader.ReadS(4)
			if err != nil {
				return op, err
			}
			counters[i] = c
		}
		prev, err := d.reader.ReadS(4)
		if err != nil {
			return op, err
		}
		h.Bop(counters, prev)
	case op == opEop:
		return op, h.Eop()
	case op == opPush:
		h.Push()
	case op == opPop:
		return op, h.Pop()
	case op >= opRight1 && op <= opRight4:
		n := variableOperandLen(op, opRight1)
		v, err := d.reader.ReadS(n)
		if err != nil {
			return op, err
		}
		h.Right(v)
	case op == opW0:
		h.W0()
	case op >= opW1 && op <= opW4:
		n := variableOperandLen(op, opW1)
		v, err := d.reader.ReadS(n)
		if err != nil {
			return op, err
		}
		h.SetW(v)
	case op == opX0:
		h.X0()
	case op >= opX1 && op <= opX4:
		n := variableOperandLen(op, opX1)
		v, err := d.reader.ReadS(n)
		if err != nil {
			return op, err
		}
		h.SetX(v)
	case op >= opDown1 && op <= opDown4:
		n := variableOperandLen(op, opDown1)
		v, err := d.reader.ReadS(n)
		if err != nil {
			return op, err
		}
		h.Down(v)
	case op == opY0:
		h.Y0()
	case op >= opY1 && op <= opY4:
		n := variableOperandLen(op, opY1)
		v, err := d.reader.ReadS(n)
		if err != nil {
			return op, err
		}
		h.SetY(v)
	case op == opZ0:
		h.Z0()
	case op >= opZ1 && op <= opZ4:
		n := variableOperandLen(op, opZ1)
		v, err := d.reader.ReadS(n)
		if err != nil {
			return op, err
		}
		h.SetZ(v)
	case op >= opFntNumFirst && op <= opFntNumLast:
		h.FontNum(uint32(op - opFntNumFirst))
	case op >= opFnt1 && op <= opFnt4:
		n := variableOperandLen(op, opFnt1)
		v, err := d.reader.ReadU(n)
		if err != nil {
			return op, err
		}
		h.FontNum(v)
	case op >= opXXX1 && op <= opXXX4:
		n := variableOperandLen(op, opXXX1)
		length, err := d.reader.ReadU(n)
		if err != nil {
			return op, err
		}
		body, err := d.reader.ReadBytes(int(length))
		if err != nil {
			return op, err
		}
		h.XXX(string(body))
	case op >= opFntDef1 && op <= opFntDef4:
		n := variableOperandLen(op, opFntDef1)
		localNum, err := d.reader.ReadU(n)
		if err != nil {
			return op, err
		}
		if err := d.decodeFontDef(h, localNum); err != nil {
			return op, err
		}
	case op == opPre:
		if err := d.decodePre(h); err != nil {
			return op, err
		}
	case op == opPost, op == opPostPost:
		return op, dvierrors.New(dvierrors.UnsupportedOpcode, 0, "opcode %d must be handled by the driver, not the page loop", op)
	case op == opXDVPic:
		// xdv-pic (v5): length-prefixed raw picture-inclusion data. The
		// contract only requires consuming it; dvisvgm handlers for the
		// actual picture inclusion are out of this module's scope.
		length, err := d.reader.ReadU(4)
		if err != nil {
			return op, err
		}
		if _, err := d.reader.ReadBytes(int(length)); err != nil {
			return op, err
		}
	case op == opXDVFntDef:
		localNum, err := d.reader.ReadU(4)
		if err != nil {
			return op, err
		}
		if err := d.decodeFontDef(h, localNum); err != nil {
			return op, err
		}
	case op == opXDVGlyphArray:
		if err := d.decodeGlyphArray(h); err != nil {
			return op, err
		}
	case op == opXDVGlyphString:
		if err := d.decodeGlyphString(h); err != nil {
			return op, err
		}
	case op == opXDVTextAndGlyphs:
		if err := d.decodeTextAndGlyphs(h); err != nil {
			return op, err
		}
	default:
		return op, dvierrors.New(dvierrors.UnsupportedOpcode, 0, "unhandled opcode %d", op)
	}
	return op, nil
}

func (d *Decoder) decodeFontDef(h Handlers, localNum uint32) error {
	checksum, err := d.reader.ReadU(4)
	if err != nil {
		return err
	}
	scale, err := d.reader.ReadU(4)
	if err != nil {
		return err
	}
	design, err := d.reader.ReadU(4)
	if err != nil {
		return err
	}
	areaLen, err := d.reader.ReadU(1)
	if err != nil {
		return err
	}
	nameLen, err := d.reader.ReadU(1)
	if err != nil {
		return err
	}
	areaBytes, err := d.reader.ReadBytes(int(areaLen))
	if err != nil {
		return err
	}
	nameBytes, err := d.reader.ReadBytes(int(nameLen))
	if err != nil {
		return err
	}
	h.FontDef(localNum, checksum, scale, design, string(areaBytes), string(nameBytes))
	return nil
}

func (d *Decoder) decodePre(h Handlers) error {
	format, err := d.reader.ReadU(1)
	if err != nil {
		return err
	}
	num, err := d.reader.ReadU(4)
	if err != nil {
		return err
	}
	den, err := d.reader.ReadU(4)
	if err != nil {
		return err
	}
	mag, err := d.reader.ReadU(4)
	if err != nil {
		return err
	}
	commentLen, err := d.reader.ReadU(1)
	if err != nil {
		return err
	}
	comment, err := d.reader.ReadBytes(int(commentLen))
	if err != nil {
		return err
	}
	return h.Pre(byte(format), num, den, mag, string(comment))
}

// decodeGlyphArray reads the xdv-glyph-array operand: a 2-byte count, then
// count dx values, then count dy values (each 4-byte signed, in DVI units),
// then count 2-byte glyph ids.
func (d *Decoder) decodeGlyphArray(h Handlers) error {
	count, err := d.reader.ReadU(2)
	if err != nil {
		return err
	}
	dx := make([]float64, count)
	dy := make([]float64, count)
	glyphs := make([]uint16, count)
	for i := range dx {
		v, err := d.reader.ReadS(4)
		if err != nil {
			return err
		}
		dx[i] = float64(v)
	}
	for i := range dy {
		v, err := d.reader.ReadS(4)
		if err != nil {
			return err
		}
		dy[i] = float64(v)
	}
	for i := range glyphs {
		v, err := d.reader.ReadU(2)
		if err != nil {
			return err
		}
		glyphs[i] = uint16(v)
	}
	h.XGlyphArray(dx, dy, glyphs)
	return nil
}

// decodeGlyphString reads the xdv-glyph-string operand (v5 only): like
// xdv-glyph-array but with dx only (dy is implicitly 0).
func (d *Decoder) decodeGlyphString(h Handlers) error {
	count, err := d.reader.ReadU(2)
	if err != nil {
		return err
	}
	dx := make([]float64, count)
	glyphs := make([]uint16, count)
	for i := range dx {
		v, err := d.reader.ReadS(4)
		if err != nil {
			return err
		}
		dx[i] = float64(v)
	}
	for i := range glyphs {
		v, err := d.reader.ReadU(2)
		if err != nil {
			return err
		}
		glyphs[i] = uint16(v)
	}
	h.XGlyphString(dx, glyphs)
	return nil
}

// decodeTextAndGlyphs reads the xdv-text-and-glyphs operand (v7 only): a
// native UTF-16 text run's char codes alongside the shaped glyph array.
func (d *Decoder) decodeTextAndGlyphs(h Handlers) error {
	charCount, err := d.reader.ReadU(2)
	if err != nil {
		return err
	}
	chars := make([]uint16, charCount)
	for i := range chars {
		v, err := d.reader.ReadU(2)
		if err != nil {
			return err
		}
		chars[i] = uint16(v)
	}
	glyphCount, err := d.reader.ReadU(2)
	if err != nil {
		return err
	}
	dx := make([]float64, glyphCount)
	dy := make([]float64, glyphCount)
	glyphs := make([]uint16, glyphCount)
	for i := range dx {
		v, err := d.reader.ReadS(4)
		if err != nil {
			return err
		}
		dx[i] = float64(v)
	}
	for i := range dy {
		v, err := d.reader.ReadS(4)
		if err != nil {
			return err
		}
		dy[i] = float64(v)
	}
	for i := range glyphs {
		v, err := d.reader.ReadU(2)
		if err != nil {
			return err
		}
		glyphs[i] = uint16(v)
	}
	h.XTextAndGlyphs(dx, dy, chars, glyphs)
	return nil
}
