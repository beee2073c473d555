/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package dvi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dvisvgm-go/dvi2svg/dvierrors"
)

// fakeHandlers records every Handlers call it receives, for assertion
// against what the decoder dispatched.
type fakeHandlers struct {
	setChars   []struct {
		code    uint32
		advance bool
	}
	setRules []struct {
		h, w    int32
		advance bool
	}
	nops      int
	bops      []struct {
		counters [10]int32
		prevBop  int32
	}
	eops, pushes, pops int
	rights, downs      []int32
	w0s, x0s, y0s, z0s int
	ws, xs, ys, zs     []int32
	fontNums           []uint32
	fontDefs           []struct {
		localNum                 uint32
		checksum, scale, design  uint32
		area, name               string
	}
	xxxBodies    []string
	preCalls     []struct {
		format         byte
		num, den, mag  uint32
		comment        string
	}
	glyphArrays []struct {
		dx, dy []float64
		glyphs []uint16
	}
	glyphStrings []struct {
		dx     []float64
		glyphs []uint16
	}
	textAndGlyphs []struct {
		dx, dy       []float64
		chars, glyphs []uint16
	}
}

func (f *fakeHandlers) SetChar(code uint32, advance bool) {
	f.setChars = append(f.setChars, struct {
		code    uint32
		advance bool
	}{code, advance})
}
func (f *fakeHandlers) SetRule(h, w int32, advance bool) {
	f.setRules = append(f.setRules, struct {
		h, w    int32
		advance bool
	}{h, w, advance})
}
func (f *fakeHandlers) Nop() { f.nops++ }
func (f *fakeHandlers) Bop(counters [10]int32, prevBop int32) {
	f.bops = append(f.bops, struct {
		counters [10]int32
		prevBop  int32
	}{counters, prevBop})
}
func (f *fakeHandlers) Eop() error   { f.eops++; return nil }
func (f *fakeHandlers) Push()        { f.pushes++ }
func (f *fakeHandlers) Pop() error   { f.pops++; return nil }
func (f *fakeHandlers) Right(n int32) { f.rights = append(f.rights, n) }
func (f *fakeHandlers) Down(n int32)  { f.downs = append(f.downs, n) }
func (f *fakeHandlers) W0()           { f.w0s++ }
func (f *fakeHandlers) SetW(n int32)  { f.ws = append(f.ws, n) }
func (f *fakeHandlers) X0()           { f.x0s++ }
func (f *fakeHandlers) SetX(n int32)  { f.xs = append(f.xs, n) }
func (f *fakeHandlers) Y0()           { f.y0s++ }
func (f *fakeHandlers) SetY(n int32)  { f.ys = append(f.ys, n) }
func (f *fakeHandlers) Z0()           { f.z0s++ }
func (f *fakeHandlers) SetZ(n int32)  { f.zs = append(f.zs, n) }
func (f *fakeHandlers) FontNum(n uint32) {
	f.fontNums = append(f.fontNums, n)
}
func (f *fakeHandlers) FontDef(localNum uint32, checksum, scale, design uint32, area, name string) {
	f.fontDefs = append(f.fontDefs, struct {
		localNum                uint32
		checksum, scale, design uint32
		area, name              string
	}{localNum, checksum, scale, design, area, name})
}
func (f *fakeHandlers) XXX(body string) { f.xxxBodies = append(f.xxxBodies, body) }
func (f *fakeHandlers) Pre(format byte, num, den, mag uint32, comment string) error {
	f.preCalls = append(f.preCalls, struct {
		format        byte
		num, den, mag uint32
		comment       string
	}{format, num, den, mag, comment})
	return nil
}
func (f *fakeHandlers) Dir(vertical bool) {}
func (f *fakeHandlers) XGlyphArray(dx, dy []float64, glyphs []uint16) {
	f.glyphArrays = append(f.glyphArrays, struct {
		dx, dy []float64
		glyphs []uint16
	}{dx, dy, glyphs})
}
func (f *fakeHandlers) XGlyphString(dx []float64, glyphs []uint16) {
	f.glyphStrings = append(f.glyphStrings, struct {
		dx     []float64
		glyphs []uint16
	}{dx, glyphs})
}
func (f *fakeHandlers) XTextAndGlyphs(dx, dy []float64, chars, glyphs []uint16) {
	f.textAndGlyphs = append(f.textAndGlyphs, struct {
		dx, dy        []float64
		chars, glyphs []uint16
	}{dx, dy, chars, glyphs})
}

func newTestDecoder(version Version, data []byte) (*Decoder, *fakeHandlers) {
	r := NewReader(bytes.NewReader(data))
	d := NewDecoder(r)
	d.SetVersion(version)
	return d, &fakeHandlers{}
}

func TestExecuteCommandSetChar0To127(t *testing.T) {
	d, h := newTestDecoder(VersionStandard, []byte{65})
	op, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Equal(t, byte(65), op)
	require.Len(t, h.setChars, 1)
	require.Equal(t, uint32(65), h.setChars[0].code)
	require.True(t, h.setChars[0].advance)
}

func TestExecuteCommandSet1VariableLength(t *testing.T) {
	d, h := newTestDecoder(VersionStandard, []byte{opSet1, 0x42})
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Equal(t, uint32(0x42), h.setChars[0].code)
	require.True(t, h.setChars[0].advance)
}

func TestExecuteCommandPut1NoAdvance(t *testing.T) {
	d, h := newTestDecoder(VersionStandard, []byte{opPut1, 0x42})
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.False(t, h.setChars[0].advance)
}

func TestExecuteCommandSetRule(t *testing.T) {
	buf := []byte{opSetRule}
	buf = append(buf, 0, 0, 0, 10) // height
	buf = append(buf, 0, 0, 0, 20) // width
	d, h := newTestDecoder(VersionStandard, buf)
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Len(t, h.setRules, 1)
	require.Equal(t, int32(10), h.setRules[0].h)
	require.Equal(t, int32(20), h.setRules[0].w)
	require.True(t, h.setRules[0].advance)
}

func TestExecuteCommandBopAndEop(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(opBop)
	for i := 0; i < 10; i++ {
		writeS4(&buf, int32(i))
	}
	writeS4(&buf, -1)
	d, h := newTestDecoder(VersionStandard, buf.Bytes())
	op, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Equal(t, byte(opBop), op)
	require.Len(t, h.bops, 1)
	require.Equal(t, int32(-1), h.bops[0].prevBop)
	require.Equal(t, int32(5), h.bops[0].counters[5])

	d2, h2 := newTestDecoder(VersionStandard, []byte{opEop})
	op2, err := d2.ExecuteCommand(h2)
	require.NoError(t, err)
	require.Equal(t, byte(opEop), op2)
	require.Equal(t, 1, h2.eops)
}

func TestExecuteCommandPushPop(t *testing.T) {
	d, h := newTestDecoder(VersionStandard, []byte{opPush, opPop})
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	_, err = d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Equal(t, 1, h.pushes)
	require.Equal(t, 1, h.pops)
}

func TestExecuteCommandRightAndDownVariableLength(t *testing.T) {
	buf := []byte{opRight1 + 1, 0x01, 0x00}
	d, h := newTestDecoder(VersionStandard, buf)
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Equal(t, int32(256), h.rights[0])

	buf2 := []byte{opDown1, 0xFF} // -1 sign-extended
	d2, h2 := newTestDecoder(VersionStandard, buf2)
	_, err = d2.ExecuteCommand(h2)
	require.NoError(t, err)
	require.Equal(t, int32(-1), h2.downs[0])
}

func TestExecuteCommandWXYZRegisters(t *testing.T) {
	d, h := newTestDecoder(VersionStandard, []byte{opW0})
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Equal(t, 1, h.w0s)

	d2, h2 := newTestDecoder(VersionStandard, []byte{opX0})
	_, err = d2.ExecuteCommand(h2)
	require.NoError(t, err)
	require.Equal(t, 1, h2.x0s)

	d3, h3 := newTestDecoder(VersionStandard, []byte{opY1, 5})
	_, err = d3.ExecuteCommand(h3)
	require.NoError(t, err)
	require.Equal(t, int32(5), h3.ys[0])

	d4, h4 := newTestDecoder(VersionStandard, []byte{opZ1, 5})
	_, err = d4.ExecuteCommand(h4)
	require.NoError(t, err)
	require.Equal(t, int32(5), h4.zs[0])
}

func TestExecuteCommandFontNumDirectRange(t *testing.T) {
	d, h := newTestDecoder(VersionStandard, []byte{opFntNumFirst + 3})
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Equal(t, uint32(3), h.fontNums[0])
}

func TestExecuteCommandFnt1(t *testing.T) {
	d, h := newTestDecoder(VersionStandard, []byte{opFnt1, 200})
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Equal(t, uint32(200), h.fontNums[0])
}

func TestExecuteCommandXXX(t *testing.T) {
	buf := []byte{opXXX1, 5}
	buf = append(buf, []byte("hello")...)
	d, h := newTestDecoder(VersionStandard, buf)
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Equal(t, "hello", h.xxxBodies[0])
}

func TestExecuteCommandFontDef1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(opFntDef1)
	buf.WriteByte(7) // localNum
	writeU4(&buf, 1234)
	writeU4(&buf, 1000)
	writeU4(&buf, 1000)
	buf.WriteByte(0) // areaLen
	buf.WriteByte(3) // nameLen
	buf.WriteString("cmr")
	d, h := newTestDecoder(VersionStandard, buf.Bytes())
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Len(t, h.fontDefs, 1)
	require.Equal(t, uint32(7), h.fontDefs[0].localNum)
	require.Equal(t, "cmr", h.fontDefs[0].name)
	require.Equal(t, "", h.fontDefs[0].area)
}

func TestExecuteCommandPre(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(opPre)
	buf.WriteByte(byte(VersionStandard))
	writeU4(&buf, 25400000)
	writeU4(&buf, 473628672)
	writeU4(&buf, 1000)
	buf.WriteByte(4)
	buf.WriteString("test")
	d, h := newTestDecoder(VersionStandard, buf.Bytes())
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Len(t, h.preCalls, 1)
	require.Equal(t, "test", h.preCalls[0].comment)
	require.Equal(t, uint32(1000), h.preCalls[0].mag)
}

func TestExecuteCommandRejectsXDVOpcodeUnderStandardVersion(t *testing.T) {
	d, h := newTestDecoder(VersionStandard, []byte{opXDVGlyphArray, 0, 0})
	_, err := d.ExecuteCommand(h)
	require.Error(t, err)
	require.True(t, dvierrors.Is(err, dvierrors.UnsupportedOpcode))
}

func TestExecuteCommandXDVGlyphArrayUnderXDVVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(opXDVGlyphArray)
	writeU2(&buf, 2) // count
	writeS4(&buf, 10)
	writeS4(&buf, 20)
	writeS4(&buf, 0)
	writeS4(&buf, 0)
	writeU2(&buf, 5)
	writeU2(&buf, 6)
	d, h := newTestDecoder(VersionXDV6, buf.Bytes())
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Len(t, h.glyphArrays, 1)
	require.Equal(t, []float64{10, 20}, h.glyphArrays[0].dx)
	require.Equal(t, []uint16{5, 6}, h.glyphArrays[0].glyphs)
}

func TestExecuteCommandXDVGlyphStringOnlyLegalInV5(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(opXDVGlyphString)
	writeU2(&buf, 1)
	writeS4(&buf, 7)
	writeU2(&buf, 9)
	d, h := newTestDecoder(VersionXDV5, buf.Bytes())
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Len(t, h.glyphStrings, 1)
	require.Equal(t, []uint16{9}, h.glyphStrings[0].glyphs)

	d2, h2 := newTestDecoder(VersionXDV6, buf.Bytes())
	_, err = d2.ExecuteCommand(h2)
	require.Error(t, err)
	require.True(t, dvierrors.Is(err, dvierrors.UnsupportedOpcode))
}

func TestExecuteCommandXDVTextAndGlyphsOnlyLegalInV7(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(opXDVTextAndGlyphs)
	writeU2(&buf, 1) // charCount
	writeU2(&buf, 'A')
	writeU2(&buf, 1) // glyphCount
	writeS4(&buf, 3)
	writeS4(&buf, 4)
	writeU2(&buf, 11)
	d, h := newTestDecoder(VersionXDV7, buf.Bytes())
	_, err := d.ExecuteCommand(h)
	require.NoError(t, err)
	require.Len(t, h.textAndGlyphs, 1)
	require.Equal(t, []uint16{'A'}, h.textAndGlyphs[0].chars)
	require.Equal(t, []uint16{11}, h.textAndGlyphs[0].glyphs)

	d2, h2 := newTestDecoder(VersionXDV6, buf.Bytes())
	_, err = d2.ExecuteCommand(h2)
	require.Error(t, err)
	require.True(t, dvierrors.Is(err, dvierrors.UnsupportedOpcode))
}

func TestExecuteCommandPostMustBeHandledByDriver(t *testing.T) {
	d, h := newTestDecoder(VersionStandard, []byte{opPost})
	_, err := d.ExecuteCommand(h)
	require.Error(t, err)
	require.True(t, dvierrors.Is(err, dvierrors.UnsupportedOpcode))
}
