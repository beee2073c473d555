/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package transform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateTranslate(t *testing.T) {
	c := NewCalculator(10, 20, 100, 200)
	m, err := c.Evaluate("translate(ux,uy)")
	require.NoError(t, err)
	x, y := m.Transform(0, 0)
	require.InDelta(t, 10.0, x, 1e-9)
	require.InDelta(t, 20.0, y, 1e-9)
}

func TestEvaluateScale(t *testing.T) {
	c := NewCalculator(0, 0, 0, 0)
	m, err := c.Evaluate("scale(2)")
	require.NoError(t, err)
	x, y := m.Transform(3, 4)
	require.InDelta(t, 6.0, x, 1e-9)
	require.InDelta(t, 8.0, y, 1e-9)
}

func TestEvaluateComposedOps(t *testing.T) {
	c := NewCalculator(0, 0, 100, 200)
	m, err := c.Evaluate("translate(w/2,h/2) scale(1)")
	require.NoError(t, err)
	x, y := m.Transform(0, 0)
	require.InDelta(t, 50.0, x, 1e-9)
	require.InDelta(t, 100.0, y, 1e-9)
}

func TestEvaluateLengthUnitArgument(t *testing.T) {
	c := NewCalculator(0, 0, 0, 0)
	m, err := c.Evaluate("translate(1in,0)")
	require.NoError(t, err)
	x, _ := m.Transform(0, 0)
	require.InDelta(t, 72.0, x, 1e-9)
}

func TestEvaluateUnknownOperationErrors(t *testing.T) {
	c := NewCalculator(0, 0, 0, 0)
	_, err := c.Evaluate("frobnicate(1)")
	require.Error(t, err)
}

func TestEvaluateUndefinedVariableErrors(t *testing.T) {
	c := NewCalculator(0, 0, 0, 0)
	_, err := c.Evaluate("translate(nosuch,0)")
	require.Error(t, err)
}

func TestEvaluateRotateAroundPoint(t *testing.T) {
	c := NewCalculator(0, 0, 0, 0)
	m, err := c.Evaluate("rotate(90,0,0)")
	require.NoError(t, err)
	x, y := m.Transform(1, 0)
	require.InDelta(t, 0.0, x, 1e-9)
	require.InDelta(t, 1.0, y, 1e-9)
}
