/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package transform implements the affine transform calculator that
// evaluates a page's transformCommands string (spec §6) over the named
// variables {ux, uy, w, h} and the length-unit constants, producing the
// page transformation matrix the svg builder applies to a page's root <g>.
// The Matrix/Point algebra is adapted directly from the teacher's
// internal/transform package, generalized from PDF content-stream
// transforms to DVI page transforms.
package transform

import (
	"fmt"
	"math"

	"github.com/dvisvgm-go/dvi2svg/common"
)

// Matrix is a 2D affine transform in homogeneous coordinates, laid out as
//
//	a  b  0
//	c  d  0
//	tx ty 1
type Matrix [9]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return NewMatrix(1, 0, 0, 1, 0, 0)
}

// Translation returns a matrix that translates by tx, ty.
func Translation(tx, ty float64) Matrix {
	return NewMatrix(1, 0, 0, 1, tx, ty)
}

// NewMatrix builds the affine transform with components a, b, c, d, tx, ty.
func NewMatrix(a, b, c, d, tx, ty float64) Matrix {
	m := Matrix{
		a, b, 0,
		c, d, 0,
		tx, ty, 1,
	}
	m.clampRange()
	return m
}

// String renders m as "[a,b,c,d:tx,ty]" for diagnostics.
func (m Matrix) String() string {
	a, b, c, d, tx, ty := m[0], m[1], m[3], m[4], m[6], m[7]
	return fmt.Sprintf("[%7.4f,%7.4f,%7.4f,%7.4f:%7.4f,%7.4f]", a, b, c, d, tx, ty)
}

// Scale returns m pre-multiplied by a scale of xScale, yScale.
func (m Matrix) Scale(xScale, yScale float64) Matrix {
	return m.Mult(NewMatrix(xScale, 0, 0, yScale, 0, 0))
}

// Rotate returns m pre-multiplied by a rotation of theta degrees.
func (m Matrix) Rotate(theta float64) Matrix {
	sin, cos := math.Sincos(theta / 180.0 * math.Pi)
	return m.Mult(NewMatrix(cos, -sin, sin, cos, 0, 0))
}

// Translate returns m with an additional translation of tx, ty.
func (m Matrix) Translate(tx, ty float64) Matrix {
	return NewMatrix(m[0], m[1], m[3], m[4], m[6]+tx, m[7]+ty)
}

// Concat sets m to b × m.
func (m *Matrix) Concat(b Matrix) {
	*m = Matrix{
		b[0]*m[0] + b[1]*m[3], b[0]*m[1] + b[1]*m[4], 0,
		b[3]*m[0] + b[4]*m[3], b[3]*m[1] + b[4]*m[4], 0,
		b[6]*m[0] + b[7]*m[3] + m[6], b[6]*m[1] + b[7]*m[4] + m[7], 1,
	}
	m.clampRange()
}

// Mult returns b × m.
func (m Matrix) Mult(b Matrix) Matrix {
	m.Concat(b)
	return m
}

// Transform returns (x, y) transformed by m.
func (m Matrix) Transform(x, y float64) (float64, float64) {
	xp := x*m[0] + y*m[1] + m[6]
	yp := x*m[3] + y*m[4] + m[7]
	return xp, yp
}

// TranslationPart returns the translation component of m.
func (m Matrix) TranslationPart() (float64, float64) {
	return m[6], m[7]
}

// Components returns the six affine coefficients in SVG matrix() order:
// a, b, c, d, e, f.
func (m Matrix) Components() (a, b, c, d, e, f float64) {
	return m[0], m[1], m[3], m[4], m[6], m[7]
}

// clampRange guards against runaway values from a malformed transform
// expression producing floating point exceptions downstream.
func (m *Matrix) clampRange() {
	for i, x := range m {
		if x > maxAbsNumber {
			common.Log.Debug("transform: clamping %g to %g", x, maxAbsNumber)
			m[i] = maxAbsNumber
		} else if x < -maxAbsNumber {
			common.Log.Debug("transform: clamping %g to %g", x, -maxAbsNumber)
			m[i] = -maxAbsNumber
		}
	}
}

const maxAbsNumber = 1e9
