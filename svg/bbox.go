/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package svg

import "math"

// BoundingBox is an axis-aligned box in SVG user-space units, accumulated
// as page content is drawn. An empty box (no content seen yet) reports
// zero for Width/Height and does not expand on further Extend calls until
// a point has actually been recorded, mirroring dvisvgm's BoundingBox
// class.
type BoundingBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
	empty      bool
}

// NewBoundingBox returns an empty bounding box.
func NewBoundingBox() BoundingBox {
	return BoundingBox{empty: true}
}

// Extend grows the box to include the point (x, y).
func (b *BoundingBox) Extend(x, y float64) {
	if b.empty {
		b.MinX, b.MaxX = x, x
		b.MinY, b.MaxY = y, y
		b.empty = false
		return
	}
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
}

// ExtendRect grows the box to include the rectangle with corner (x, y) and
// the given width/height.
func (b *BoundingBox) ExtendRect(x, y, width, height float64) {
	b.Extend(x, y)
	b.Extend(x+width, y+height)
}

// Union grows b to include every point of other.
func (b *BoundingBox) Union(other BoundingBox) {
	if other.empty {
		return
	}
	b.ExtendRect(other.MinX, other.MinY, other.MaxX-other.MinX, other.MaxY-other.MinY)
}

// Width returns the box's width, 0 if empty.
func (b BoundingBox) Width() float64 {
	if b.empty {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns the box's height, 0 if empty.
func (b BoundingBox) Height() float64 {
	if b.empty {
		return 0
	}
	return b.MaxY - b.MinY
}

// IsEmpty reports whether no point has ever been recorded.
func (b BoundingBox) IsEmpty() bool { return b.empty }
