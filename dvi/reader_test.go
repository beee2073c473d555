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

func TestReadUBigEndian(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))
	v, err := r.ReadU(4)
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), v)
}

func TestReadSSignExtends(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xFF}))
	v, err := r.ReadS(1)
	require.NoError(t, err)
	require.Equal(t, int32(-1), v)

	r2 := NewReader(bytes.NewReader([]byte{0x80, 0x00}))
	v2, err := r2.ReadS(2)
	require.NoError(t, err)
	require.Equal(t, int32(-32768), v2)
}

func TestReadBytesShortReadIsError(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02}))
	_, err := r.ReadBytes(5)
	require.Error(t, err)
	require.True(t, dvierrors.Is(err, dvierrors.UnexpectedEOF))
}

func TestSeekResetsBufferAndTell(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0, 1, 2, 3, 4, 5}))
	require.NoError(t, r.Seek(3))
	require.Equal(t, int64(3), r.Tell())
	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(3), b)
	require.Equal(t, int64(4), r.Tell())
}

func TestLocatePostambleSinglePage(t *testing.T) {
	buf := buildMinimalDVI(t)
	r := NewReader(bytes.NewReader(buf))
	post, err := r.LocatePostamble()
	require.NoError(t, err)
	require.Equal(t, uint16(1), post.NumberOfPages)
	require.Len(t, post.BopOffsets, 1)
	require.Equal(t, int64(0), post.BopOffsets[0])
	require.Equal(t, VersionStandard, post.Version, "post_post's identification byte must be propagated")
}

// buildMinimalDVI hand-assembles the smallest valid DVI byte stream this
// package's reader can navigate: bop, eop, post, post_post (no preamble),
// padded to a multiple of 4 bytes with the trailer byte.
func buildMinimalDVI(t *testing.T) []byte {
	t.Helper()
	var b bytes.Buffer

	bopOffset := int64(0)
	b.WriteByte(opBop)
	for i := 0; i < 10; i++ {
		writeS4(&b, 0)
	}
	writeS4(&b, -1) // prevBop: none

	b.WriteByte(opEop)

	postOffset := int64(b.Len())
	b.WriteByte(opPost)
	writeS4(&b, int32(bopOffset)) // link back to the one bop
	writeU4(&b, 25400000)
	writeU4(&b, 473628672)
	writeU4(&b, 1000)
	writeU4(&b, 0) // max page height
	writeU4(&b, 0) // max page width
	writeU2(&b, 0) // max stack depth
	writeU2(&b, 1) // number of pages

	b.WriteByte(opPostPost)
	writeU4(&b, int32(postOffset))
	b.WriteByte(byte(VersionStandard))
	for b.Len()%4 != 0 || b.Len() < 4 {
		b.WriteByte(trailerByte)
	}
	for i := 0; i < 4; i++ {
		b.WriteByte(trailerByte)
	}
	return b.Bytes()
}

func writeU4(b *bytes.Buffer, v int32) {
	b.WriteByte(byte(v >> 24))
	b.WriteByte(byte(v >> 16))
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v))
}

func writeS4(b *bytes.Buffer, v int32) { writeU4(b, v) }

func writeU2(b *bytes.Buffer, v uint16) {
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v))
}

