/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package svg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttributeExtractorHoistsSharedAttributeAcrossRun(t *testing.T) {
	root := NewElement("g")
	for i := 0; i < 3; i++ {
		c := NewElement("text")
		c.SetAttr("fill", "red")
		root.AppendChild(c)
	}
	AttributeExtractor{}.Execute(root)

	require.Len(t, root.Children, 1)
	g, ok := root.Children[0].(*Element)
	require.True(t, ok)
	require.Equal(t, "g", g.Tag)
	v, ok := g.Attr("fill")
	require.True(t, ok)
	require.Equal(t, "red", v)
	require.Len(t, g.Children, 3)
	for _, c := range g.Elements() {
		_, has := c.Attr("fill")
		require.False(t, has)
	}
}

func TestAttributeExtractorSkipsRunsShorterThanMinimum(t *testing.T) {
	root := NewElement("g")
	c := NewElement("text")
	c.SetAttr("fill", "red")
	root.AppendChild(c)
	AttributeExtractor{}.Execute(root)

	require.Len(t, root.Children, 1)
	require.Same(t, c, root.Children[0])
	v, ok := c.Attr("fill")
	require.True(t, ok)
	require.Equal(t, "red", v)
}

func TestAttributeExtractorDoesNotMergeDifferingValues(t *testing.T) {
	root := NewElement("g")
	a := NewElement("text")
	a.SetAttr("fill", "red")
	b := NewElement("text")
	b.SetAttr("fill", "blue")
	root.AppendChild(a)
	root.AppendChild(b)
	AttributeExtractor{}.Execute(root)

	require.Equal(t, []Node{a, b}, root.Children)
}

func TestAttributeExtractorKeepsAttributeOnChildWithID(t *testing.T) {
	root := NewElement("g")
	a := NewElement("text")
	a.SetAttr("fill", "red")
	a.SetAttr("id", "a")
	b := NewElement("text")
	b.SetAttr("fill", "red")
	root.AppendChild(a)
	root.AppendChild(b)
	AttributeExtractor{}.Execute(root)

	require.Len(t, root.Children, 1)
	g, ok := root.Children[0].(*Element)
	require.True(t, ok)
	v, ok := g.Attr("fill")
	require.True(t, ok)
	require.Equal(t, "red", v)
	av, ok := a.Attr("fill")
	require.True(t, ok, "child with its own id keeps the hoisted attribute")
	require.Equal(t, "red", av)
	_, bHas := b.Attr("fill")
	require.False(t, bHas)
}

func TestAttributeExtractorKeepsFillOnAnimationElement(t *testing.T) {
	root := NewElement("g")
	a := NewElement("animate")
	a.SetAttr("fill", "freeze")
	b := NewElement("animate")
	b.SetAttr("fill", "freeze")
	root.AppendChild(a)
	root.AppendChild(b)
	AttributeExtractor{}.Execute(root)

	// <animate> is not a groupable tag, so the run never forms at all.
	require.Equal(t, []Node{a, b}, root.Children)
	av, ok := a.Attr("fill")
	require.True(t, ok)
	require.Equal(t, "freeze", av)
}

func TestAttributeExtractorSkipsNonGroupableTags(t *testing.T) {
	root := NewElement("g")
	clip := NewElement("clipPath")
	clip.SetAttr("fill", "red")
	text := NewElement("text")
	text.SetAttr("fill", "red")
	other := NewElement("text")
	other.SetAttr("fill", "red")
	root.AppendChild(clip)
	root.AppendChild(text)
	root.AppendChild(other)
	AttributeExtractor{}.Execute(root)

	// clipPath breaks the run; only the trailing two <text> siblings group.
	require.Len(t, root.Children, 2)
	require.Same(t, clip, root.Children[0])
	g, ok := root.Children[1].(*Element)
	require.True(t, ok)
	require.Equal(t, "g", g.Tag)
	require.Len(t, g.Children, 2)
}

func TestGroupCollapserMergesSingleChildGroup(t *testing.T) {
	outer := NewElement("g")
	outer.SetAttr("fill", "red")
	inner := NewElement("g")
	inner.SetAttr("transform", "translate(1,2)")
	leaf := NewElement("path")
	inner.AppendChild(leaf)
	outer.AppendChild(inner)

	GroupCollapser{}.Execute(outer)

	require.Equal(t, "g", outer.Tag)
	require.Equal(t, []Node{leaf}, outer.Children)
	v, ok := outer.Attr("fill")
	require.True(t, ok)
	require.Equal(t, "red", v)
	tr, ok := outer.Attr("transform")
	require.True(t, ok)
	require.Equal(t, "translate(1,2)", tr)
	require.Same(t, outer, leaf.Parent())
}

func TestGroupCollapserDoesNotMergeWhenClipPathsDiffer(t *testing.T) {
	outer := NewElement("g")
	outer.SetAttr("clip-path", "url(#a)")
	inner := NewElement("g")
	inner.SetAttr("clip-path", "url(#b)")
	leaf := NewElement("path")
	inner.AppendChild(leaf)
	outer.AppendChild(inner)

	GroupCollapser{}.Execute(outer)

	require.Equal(t, []Node{inner}, outer.Children)
}

func TestGroupCollapserMergesInnerGroupRegardlessOfItsOwnChildCount(t *testing.T) {
	outer := NewElement("g")
	inner := NewElement("g")
	leafA := NewElement("path")
	leafB := NewElement("path")
	inner.AppendChild(leafA)
	inner.AppendChild(leafB)
	outer.AppendChild(inner)

	GroupCollapser{}.Execute(outer)

	require.Equal(t, []Node{leafA, leafB}, outer.Children)
}

func TestGroupCollapserSkipsWhenInnerHasID(t *testing.T) {
	outer := NewElement("g")
	inner := NewElement("g")
	inner.SetAttr("id", "keep-me")
	inner.AppendChild(NewElement("path"))
	outer.AppendChild(inner)

	GroupCollapser{}.Execute(outer)

	require.Equal(t, []Node{inner}, outer.Children)
}

func TestGroupCollapserSkipsWhenInnerHasNonInheritableAttribute(t *testing.T) {
	outer := NewElement("g")
	inner := NewElement("g")
	inner.SetAttr("opacity", "0.5")
	inner.AppendChild(NewElement("path"))
	outer.AppendChild(inner)

	GroupCollapser{}.Execute(outer)

	require.Equal(t, []Node{inner}, outer.Children, "a non-inheritable attribute on the inner group must block the collapse")
}

func TestGroupCollapserRequiresExactClipPathMatch(t *testing.T) {
	outer := NewElement("g")
	inner := NewElement("g")
	inner.SetAttr("clip-path", "url(#a)")
	inner.AppendChild(NewElement("path"))
	outer.AppendChild(inner)

	GroupCollapser{}.Execute(outer)

	require.Equal(t, []Node{inner}, outer.Children, "inner clip-path with no matching outer clip-path must block the collapse")
}

func TestGroupCollapserSkipsWhenOuterHasMultipleChildren(t *testing.T) {
	outer := NewElement("g")
	inner := NewElement("g")
	inner.AppendChild(NewElement("path"))
	outer.AppendChild(inner)
	outer.AppendChild(NewElement("rect"))

	GroupCollapser{}.Execute(outer)

	require.Equal(t, []Node{inner, outer.Children[1]}, outer.Children)
	require.Equal(t, "g", inner.Tag)
}

// TestRedundantElementRemoverKeepsNestedClipPathChain matches the testable
// property that removal preserves every clipPath reachable from any
// referencing element, including transitively through a clipPath that is
// itself clipped by another.
func TestRedundantElementRemoverKeepsNestedClipPathChain(t *testing.T) {
	root := NewElement("svg")
	defs := NewElement("defs")
	root.AppendChild(defs)

	clipB := NewElement("clipPath")
	clipB.SetAttr("id", "b")
	defs.AppendChild(clipB)

	clipA := NewElement("clipPath")
	clipA.SetAttr("id", "a")
	clipA.SetAttr("clip-path", "url(#b)") // a depends on b
	defs.AppendChild(clipA)

	unused := NewElement("clipPath")
	unused.SetAttr("id", "c")
	defs.AppendChild(unused)

	visible := NewElement("rect")
	visible.SetAttr("clip-path", "url(#a)")
	root.AppendChild(visible)

	RedundantElementRemover{}.Execute(root)

	ids := make(map[string]bool)
	for _, e := range defs.Elements() {
		id, _ := e.Attr("id")
		ids[id] = true
	}
	require.True(t, ids["a"], "directly referenced clipPath must survive")
	require.True(t, ids["b"], "clipPath referenced by a kept clipPath must survive")
	require.False(t, ids["c"], "wholly unreferenced clipPath must be removed")
}

func TestRedundantElementRemoverNoopWithoutDefs(t *testing.T) {
	root := NewElement("svg")
	root.AppendChild(NewElement("rect"))
	require.NotPanics(t, func() { RedundantElementRemover{}.Execute(root) })
}

func TestOptimizeRunsAllThreePassesInOrder(t *testing.T) {
	root := NewElement("svg")
	g := NewElement("g")
	for i := 0; i < 2; i++ {
		c := NewElement("text")
		c.SetAttr("fill", "red")
		g.AppendChild(c)
	}
	root.AppendChild(g)

	require.NotPanics(t, func() { Optimize(root) })
}

func TestDependencyGraphReachableFromTransitive(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a", "b")
	g.AddDependency("b", "c")
	reachable := g.ReachableFrom([]string{"a"})
	require.True(t, reachable["a"])
	require.True(t, reachable["b"])
	require.True(t, reachable["c"])
	require.False(t, reachable["d"])
}
