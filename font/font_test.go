/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package font

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefineAssignsStableIncreasingIDs(t *testing.T) {
	m := NewManager(nil)
	f1 := m.Define(0, "cmr10", 0x1234, 655360, 655360, "", false)
	f2 := m.Define(1, "cmbx10", 0x5678, 655360, 655360, "", false)
	require.Equal(t, ID(1), f1.ID())
	require.Equal(t, ID(2), f2.ID())
}

func TestDefineUniquesSameUnderlyingFontAcrossLocalNumbers(t *testing.T) {
	m := NewManager(nil)
	f1 := m.Define(0, "cmr10", 0xabcd, 655360, 655360, "", false)
	f2 := m.Define(1, "cmr10", 0xabcd, 327680, 655360, "", false)
	require.NotSame(t, f1, f2, "each local number gets its own Font record")
	require.Same(t, f1.UniqueFont(), f2.UniqueFont(), "same (name, design, checksum) shares a canonical instance")
	require.Equal(t, f1.ID(), f2.ID(), "the canonical ID is shared across scaled references")
}

func TestDefineScaledSizeDiffersPerLocalReference(t *testing.T) {
	m := NewManager(nil)
	f1 := m.Define(0, "cmr10", 1, 655360, 655360, "", false)
	f2 := m.Define(1, "cmr10", 1, 327680, 655360, "", false)
	require.Equal(t, float64(655360), f1.ScaledSize())
	require.Equal(t, float64(327680), f2.ScaledSize())
	require.Equal(t, float64(655360), f1.DesignSize())
	require.Equal(t, float64(655360), f2.DesignSize())
}

func TestDefineVirtualFlipsAlreadyCachedPhysicalEntry(t *testing.T) {
	m := NewManager(nil)
	phys := m.Define(0, "cmvirt10", 42, 655360, 655360, "", false)
	require.False(t, phys.IsVirtual())

	virt := m.Define(1, "cmvirt10", 42, 655360, 655360, "", true)
	require.True(t, virt.IsVirtual(), "a later fntdef for the same font marked virtual must flip the cached entry")
	require.True(t, virt.UniqueFont().IsVirtual())
}

func TestResolveReturnsDefinedFontByLocalNumber(t *testing.T) {
	m := NewManager(nil)
	m.Define(7, "cmr10", 1, 655360, 655360, "", false)
	f, ok := m.Resolve(7)
	require.True(t, ok)
	require.Equal(t, "cmr10", f.Name())

	_, ok = m.Resolve(99)
	require.False(t, ok)
}

func TestFontIDReturnsZeroForUnknownLocalNumber(t *testing.T) {
	m := NewManager(nil)
	require.Equal(t, ID(0), m.FontID(5))
	m.Define(5, "cmr10", 1, 655360, 655360, "", false)
	require.Equal(t, ID(1), m.FontID(5))
}

func TestVirtualFontNeverProducesGlyphs(t *testing.T) {
	m := NewManager(nil)
	f := m.Define(0, "cmvirt10", 1, 655360, 655360, "", true)
	_, ok := f.Glyph(65)
	require.False(t, ok)
}

func TestUnresolvedFontWithNoLoaderNeverProducesGlyphs(t *testing.T) {
	m := NewManager(nil)
	f := m.Define(0, "cmr10", 1, 655360, 655360, "", false)
	_, ok := f.Glyph(65)
	require.False(t, ok)
}
