/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package dvi

import (
	"github.com/dvisvgm-go/dvi2svg/dvierrors"
	"github.com/dvisvgm-go/dvi2svg/font"
)

// WritingMode is the DVI writing direction.
type WritingMode int

// The two writing directions a DVI page can be in.
const (
	LR WritingMode = iota // left-to-right (horizontal)
	TB                    // top-to-bottom (vertical)
)

// regs is the full register file pushed/popped by push/pop.
type regs struct {
	h, v, w, x, y, z int32
	d                WritingMode
	font             font.ID
}

// State is the per-page register file: position (h, v), spacing
// accumulators (w, x, y, z), writing direction, current font, and the
// push/pop stack. It is reset at the start of every page.
type State struct {
	regs
	stack []regs
}

// Reset clears the register file and the stack; called on bop.
func (s *State) Reset() {
	s.regs = regs{}
	s.stack = s.stack[:0]
}

// Push saves a snapshot of every register value (h, v, w, x, y, z, the
// writing direction and the current font).
func (s *State) Push() {
	s.stack = append(s.stack, s.regs)
}

// Pop restores the most recent snapshot, failing with StackUnderflow if
// none remains.
func (s *State) Pop() error {
	if len(s.stack) == 0 {
		return dvierrors.New(dvierrors.StackUnderflow, 0, "pop with empty stack")
	}
	n := len(s.stack) - 1
	s.regs = s.stack[n]
	s.stack = s.stack[:n]
	return nil
}

// Depth returns the current stack depth.
func (s *State) Depth() int {
	return len(s.stack)
}

// Empty reports whether the stack has no pending pushes, as required at eop.
func (s *State) Empty() bool {
	return len(s.stack) == 0
}

// H, V, W, X, Y, Z, D, Font expose the current register values read-only.
func (s *State) H() int32       { return s.h }
func (s *State) V() int32       { return s.v }
func (s *State) W() int32       { return s.w }
func (s *State) X() int32       { return s.x }
func (s *State) Y() int32       { return s.y }
func (s *State) Z() int32       { return s.z }
func (s *State) D() WritingMode { return s.d }
func (s *State) Font() font.ID  { return s.font }
