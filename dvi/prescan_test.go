/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package dvi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreScanActionsTracksExtremesFromSetChar(t *testing.T) {
	p := NewPreScanActions()
	p.SetChar(10, 20, 65, false, nil, true)
	p.SetChar(-5, 50, 66, false, nil, true)
	require.Equal(t, int32(10), p.MaxH)
	require.Equal(t, int32(-5), p.MinH)
	require.Equal(t, int32(50), p.MaxV)
	require.Equal(t, int32(0), p.MinV)
}

func TestPreScanActionsSetRuleTracksBothCorners(t *testing.T) {
	p := NewPreScanActions()
	p.SetRule(10, 10, 15, 20, true)
	require.Equal(t, int32(30), p.MaxH) // h + width
	require.Equal(t, int32(10), p.MaxV)
	require.Equal(t, int32(-5), p.MinV) // v - height
}

func TestPreScanActionsMoveToTracksPosition(t *testing.T) {
	p := NewPreScanActions()
	p.MoveTo(100, -50, MoveNormal)
	require.Equal(t, int32(100), p.MaxH)
	require.Equal(t, int32(-50), p.MinV)
}

func TestPreScanActionsCollectsSpecials(t *testing.T) {
	p := NewPreScanActions()
	p.Special("papersize=100,200")
	p.Special("color push rgb 1 0 0")
	require.Equal(t, []string{"papersize=100,200", "color push rgb 1 0 0"}, p.Specials)
}

func TestPreScanActionsBeginPageTracksPageNumber(t *testing.T) {
	p := NewPreScanActions()
	var counters [10]int32
	p.BeginPage(3, counters)
	require.Equal(t, uint(3), p.pageno)
}
