/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package dvi implements the binary DVI/XDV opcode decoder, the register
// state machine it drives, and the pre-scan pass. It has no notion of SVG;
// callers supply an Actions implementation (see actions.go) that turns the
// callbacks into whatever output representation they like.
package dvi

import (
	"bufio"
	"io"

	"github.com/dvisvgm-go/dvi2svg/common"
	"github.com/dvisvgm-go/dvi2svg/dvierrors"
)

// Reader is a buffered, randomly-seekable big-endian integer reader over a
// DVI byte stream. All higher layers phrase their parsing in terms of its
// primitives exclusively.
type Reader struct {
	rs     io.ReadSeeker
	reader *bufio.Reader
	pos    int64
}

// NewReader wraps rs for DVI decoding.
func NewReader(rs io.ReadSeeker) *Reader {
	r := &Reader{rs: rs}
	r.reader = bufio.NewReader(rs)
	return r
}

// Tell returns the current logical read offset.
func (r *Reader) Tell() int64 {
	return r.pos
}

// Seek moves the read position to an absolute offset.
func (r *Reader) Seek(pos int64) error {
	if _, err := r.rs.Seek(pos, io.SeekStart); err != nil {
		return dvierrors.Wrap(dvierrors.IOError, 0, err, "seek to %d", pos)
	}
	r.reader.Reset(r.rs)
	r.pos = pos
	return nil
}

// SeekEnd moves the read position to offset bytes from the end of the stream.
func (r *Reader) SeekEnd(offset int64) error {
	pos, err := r.rs.Seek(offset, io.SeekEnd)
	if err != nil {
		return dvierrors.Wrap(dvierrors.IOError, 0, err, "seek to end%+d", offset)
	}
	r.reader.Reset(r.rs)
	r.pos = pos
	return nil
}

// ReadBytes reads exactly n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r.reader, buf)
	r.pos += int64(read)
	if err != nil {
		return buf[:read], dvierrors.Wrap(dvierrors.UnexpectedEOF, 0, err, "read %d bytes", n)
	}
	return buf, nil
}

// ReadU reads an n-byte (1..4) big-endian unsigned integer.
func (r *Reader) ReadU(n int) (uint32, error) {
	buf, err := r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	var v uint32
	for _, b := range buf {
		v = v<<8 | uint32(b)
	}
	return v, nil
}

// ReadS reads an n-byte (1..4) big-endian two's-complement signed integer.
func (r *Reader) ReadS(n int) (int32, error) {
	u, err := r.ReadU(n)
	if err != nil {
		return 0, err
	}
	// Sign-extend from the n-th byte.
	signBit := uint32(1) << (uint(n)*8 - 1)
	if u&signBit != 0 {
		u |= ^uint32(0) << (uint(n) * 8)
	}
	return int32(u), nil
}

// ReadByte reads a single raw byte, satisfying io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.reader.ReadByte()
	if err != nil {
		return 0, dvierrors.Wrap(dvierrors.UnexpectedEOF, 0, err, "read byte")
	}
	r.pos++
	return b, nil
}

// trailerByte is the DVI file trailer padding value (223 decimal).
const trailerByte = 0xDF

// Postamble holds the information read from the DVI postamble (opcode 248)
// needed to navigate pages, plus the forward-ordered list of bop offsets.
type Postamble struct {
	PostambleOffset int64
	Version         Version // from the post_post identification byte
	PrevBopOffset   int32
	Num, Den        uint32
	Mag             uint32
	MaxPageHeight   uint32
	MaxPageWidth    uint32
	MaxStackDepth   uint16
	NumberOfPages   uint16
	BopOffsets      []int64 // forward order, index 0 = first page
}

// LocatePostamble seeks to EOF, scans backward over the trailer's run of
// 0xDF padding bytes to find the post_post (opcode 249) byte, then reads
// the post_post record to locate the postamble (opcode 248) itself, then
// walks the postamble's linked list of bop offsets backward and returns
// them in forward (page 1 first) order.
//
// Grounded on the teacher's seekToEOFMarker backward-chunked scan
// (core/parser.go): here the scan is a direct byte walk since the DVI
// trailer marker is a single repeated byte rather than a regex pattern.
func (r *Reader) LocatePostamble() (*Postamble, error) {
	size, err := r.rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, dvierrors.Wrap(dvierrors.IOError, 0, err, "seek to end")
	}
	const chunk = 4096
	var trailerStart int64 = size
	for trailerStart > 0 {
		readLen := chunk
		if int64(readLen) > trailerStart {
			readLen = int(trailerStart)
		}
		if err := r.Seek(trailerStart - int64(readLen)); err != nil {
			return nil, err
		}
		buf, err := r.ReadBytes(readLen)
		if err != nil {
			return nil, err
		}
		i := readLen - 1
		for ; i >= 0; i-- {
			if buf[i] != trailerByte {
				break
			}
		}
		trailerStart = trailerStart - int64(readLen) + int64(i+1)
		if i >= 0 {
			break
		}
		if trailerStart == 0 {
			break
		}
	}
	if trailerStart < 6 {
		return nil, dvierrors.New(dvierrors.UnexpectedEOF, 0, "no post_post marker found")
	}
	// post_post record: opcode(249) postambleOffset(4) version(1) then 0xDF
	// padding, 6 bytes total before the padding run begins at trailerStart.
	if err := r.Seek(trailerStart - 6); err != nil {
		return nil, err
	}
	opcode, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if opcode != opPostPost {
		return nil, dvierrors.New(dvierrors.UnexpectedEOF, 0, "expected post_post, found opcode %d", opcode)
	}
	postambleOffset, err := r.ReadU(4)
	if err != nil {
		return nil, err
	}
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if err := r.Seek(int64(postambleOffset)); err != nil {
		return nil, err
	}
	post, err := r.readPostamble(int64(postambleOffset))
	if err != nil {
		return nil, err
	}
	post.Version = Version(version)
	common.Log.Debug("located postamble at %d: %d pages, version %d", postambleOffset, post.NumberOfPages, post.Version)
	return post, nil
}

func (r *Reader) readPostamble(offset int64) (*Postamble, error) {
	opcode, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if opcode != opPost {
		return nil, dvierrors.New(dvierrors.UnexpectedEOF, 0, "expected post, found opcode %d", opcode)
	}
	post := &Postamble{PostambleOffset: offset}
	prevBop, err := r.ReadS(4)
	if err != nil {
		return nil, err
	}
	post.PrevBopOffset = prevBop
	if post.Num, err = r.ReadU(4); err != nil {
		return nil, err
	}
	if post.Den, err = r.ReadU(4); err != nil {
		return nil, err
	}
	if post.Mag, err = r.ReadU(4); err != nil {
		return nil, err
	}
	if post.MaxPageHeight, err = r.ReadU(4); err != nil {
		return nil, err
	}
	if post.MaxPageWidth, err = r.ReadU(4); err != nil {
		return nil, err
	}
	depth, err := r.ReadU(2)
	if err != nil {
		return nil, err
	}
	post.MaxStackDepth = uint16(depth)
	pages, err := r.ReadU(2)
	if err != nil {
		return nil, err
	}
	post.NumberOfPages = uint16(pages)

	// Walk the bop backlinks starting from prevBop, producing reverse order,
	// then flip to forward order.
	offsets := make([]int64, 0, post.NumberOfPages)
	next := int64(prevBop)
	for next >= 0 {
		offsets = append(offsets, next)
		if err := r.Seek(next); err != nil {
			return nil, err
		}
		bopOp, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if bopOp != opBop {
			return nil, dvierrors.New(dvierrors.UnexpectedEOF, 0, "bop backlink at %d does not point to a bop", next)
		}
		if _, err := r.ReadBytes(4 * 10); err != nil { // skip the 10 counters
			return nil, err
		}
		prev, err := r.ReadS(4)
		if err != nil {
			return nil, err
		}
		next = int64(prev)
	}
	for i, j := 0, len(offsets)-1; i < j; i, j = i+1, j-1 {
		offsets[i], offsets[j] = offsets[j], offsets[i]
	}
	post.BopOffsets = offsets
	return post, nil
}
