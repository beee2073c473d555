/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package svg

import (
	"sort"
	"strings"
)

// minRunLength is the shortest run of sibling elements sharing an
// extractable attribute value that AttributeExtractor will hoist into a
// wrapping <g>. Below this length, wrapping costs more bytes than it saves.
// Grounded on SVGOptimizer.cpp's AttributeExtractor (MIN_RUN_LENGTH there
// is 2; kept the same here).
const minRunLength = 2

// inheritableAttrs lists the attributes whose value an ancestor <g> passes
// down unchanged to descendants that don't redefine it, so hoisting them
// onto a wrapping <g> never changes a leaf's effective style.
// clip-path is not inheritable per the SVG spec but is included anyway, per
// spec §9's documented extension: the extractor only ever hoists it when
// every run member already carries the identical value and no descendant
// overrides it, which keeps the hoist rendering-equivalent in practice.
var inheritableAttrs = []string{"clip-path", "fill", "font-family", "font-size", "font-style", "font-weight", "stroke", "stroke-width"}

// groupableTags lists the element tags AttributeExtractor and GroupCollapser
// are willing to fold into/out of a <g>, per SVGOptimizer.cpp's groupable()
// predicate. Tags outside this set (<defs>, <clipPath>, gradients,
// animation elements, ...) never join or break open a wrapped run, matching
// the closed set named in spec §4.8.
var groupableTags = []string{"circle", "ellipse", "g", "image", "line", "path", "polygon", "polyline", "rect", "text", "use"}

// animationTags lists the SVG animation elements whose own fill attribute
// means "freeze/remove" rather than paint color; AttributeExtractor must
// never strip a run-hoisted fill from one of these (spec §4.8).
var animationTags = []string{"animate", "animateColor", "animateMotion", "animateTransform", "set"}

func inSortedSet(set []string, name string) bool {
	i := sort.SearchStrings(set, name)
	return i < len(set) && set[i] == name
}

func extractable(name string) bool   { return inSortedSet(inheritableAttrs, name) }
func groupableTag(tag string) bool   { return inSortedSet(groupableTags, tag) }
func isAnimationTag(tag string) bool { return inSortedSet(animationTags, tag) }

func init() {
	sort.Strings(inheritableAttrs)
	sort.Strings(groupableTags)
	sort.Strings(animationTags)
}

// AttributeExtractor replaces a run of sibling elements that all carry the
// same value for an extractable attribute with a wrapping <g> carrying that
// attribute once, deleting it from each child. Grounded on
// SVGOptimizer.cpp's AttributeExtractor::execute/extractAttribute.
type AttributeExtractor struct{}

// Execute runs attribute extraction over every extractable attribute name,
// recursively through root's subtree.
func (AttributeExtractor) Execute(root *Element) {
	for _, name := range inheritableAttrs {
		extractAttribute(root, name)
	}
}

func extractAttribute(e *Element, name string) {
	children := e.Elements()
	i := 0
	for i < len(children) {
		if !groupableTag(children[i].Tag) {
			i++
			continue
		}
		val, ok := children[i].Attr(name)
		if !ok {
			i++
			continue
		}
		j := i + 1
		for j < len(children) {
			if !groupableTag(children[j].Tag) {
				break
			}
			v, ok := children[j].Attr(name)
			if !ok || v != val {
				break
			}
			j++
		}
		if run := j - i; run >= minRunLength {
			wrapRun(e, children[i:j], name, val)
		}
		i = j
	}
	for _, c := range e.Elements() {
		extractAttribute(c, name)
	}
}

// wrapRun replaces the contiguous run of children (a sub-slice of e's
// current Elements, identified by identity) with a single <g name="val">
// wrapping them, removing name from each child attribute list.
func wrapRun(e *Element, run []*Element, name, val string) {
	if len(run) == 0 {
		return
	}
	first := run[0]
	idx := e.indexIn(first)
	if idx < 0 {
		return
	}
	g := NewElement("g")
	g.SetAttr(name, val)
	for _, child := range run {
		// A child with its own id stays independently addressable, and an
		// animation element's fill means "freeze/remove", not paint color:
		// in both cases the run-hoisted copy stays but the child keeps its
		// own (spec §4.8's extraction exceptions).
		if _, hasID := child.Attr("id"); hasID {
			continue
		}
		if name == "fill" && isAnimationTag(child.Tag) {
			continue
		}
		child.RemoveAttr(name)
	}
	// Remove the run's nodes (which may be interleaved with non-Element
	// siblings only at the edges, since Elements() skips them) from e's
	// child list and reinsert as g's children.
	newChildren := make([]Node, 0, len(e.Children))
	inserted := false
	runSet := make(map[Node]bool, len(run))
	for _, r := range run {
		runSet[r] = true
	}
	for _, c := range e.Children {
		if runSet[c] {
			if !inserted {
				g.setParent(e)
				newChildren = append(newChildren, g)
				inserted = true
			}
			g.AppendChild(c)
			continue
		}
		newChildren = append(newChildren, c)
	}
	e.Children = newChildren
}

// GroupCollapser merges a <g> into its single <g> child (or parent) when
// doing so is safe, concatenating transform attributes and moving other
// attributes down, to undo the nesting AttributeExtractor and the original
// page structure can accumulate. Grounded on SVGOptimizer.cpp's
// GroupCollapser::execute/moveAttributes/collapsible/unwrappable.
type GroupCollapser struct{}

func (GroupCollapser) Execute(root *Element) {
	collapse(root)
}

func collapse(e *Element) {
	for _, c := range e.Elements() {
		collapse(c)
	}
	if e.Tag != "g" {
		return
	}
	children := e.Elements()
	if len(children) != 1 || len(e.Children) != 1 {
		return
	}
	child := children[0]
	if child.Tag != "g" {
		return
	}
	if !collapsible(e, child) {
		return
	}
	moveAttributes(e, child)
	e.Tag = child.Tag
	e.Children = child.Children
	for _, gc := range e.Children {
		if el, ok := gc.(*Element); ok {
			el.setParent(e)
		} else if p, ok := gc.(interface{ setParent(*Element) }); ok {
			p.setParent(e)
		}
	}
}

// blockedCollapseAttrs are attributes on inner that always prevent a
// collapse outright, regardless of value (spec §4.8 (c)): each one can
// change behavior in a way that depends on inner remaining a distinct
// element (CSS targeting, filter/mask application, inline style rules).
var blockedCollapseAttrs = []string{"class", "filter", "id", "mask", "style"}

func init() { sort.Strings(blockedCollapseAttrs) }

// collapsible reports whether outer's lone <g> child (inner) can be merged
// upward. outer's own tag is already constrained to "g" by collapse, which
// naturally excludes animation elements (spec (a)); inner must be tag "g"
// (checked by the caller, spec (b)); inner must carry none of
// blockedCollapseAttrs (spec (c)); inner's clip-path, if any, must match
// outer's exactly rather than merely not collide (spec (d)); and every
// other attribute on inner besides transform/clip-path must be inheritable,
// since a non-inheritable attribute on inner would otherwise be silently
// dropped by the merge (spec "non-inheritable attributes on E block the
// collapse of that pair").
func collapsible(outer, inner *Element) bool {
	for _, name := range blockedCollapseAttrs {
		if _, ok := inner.Attr(name); ok {
			return false
		}
	}
	if innerClip, ok := inner.Attr("clip-path"); ok {
		outerClip, outerOk := outer.Attr("clip-path")
		if !outerOk || outerClip != innerClip {
			return false
		}
	}
	for _, a := range inner.Attrs {
		if a.Name == "transform" || a.Name == "clip-path" {
			continue
		}
		if !extractable(a.Name) {
			return false
		}
	}
	return true
}

// moveAttributes merges inner's attributes onto outer: transform strings
// are concatenated (outer's transform applies after inner's, so outer's
// text comes first since SVG transform lists compose left-to-right outer-
// most-first... matching matrix multiplication order of nested <g>
// transforms), and any other attribute present only on inner is copied
// across.
func moveAttributes(outer, inner *Element) {
	if innerT, ok := inner.Attr("transform"); ok {
		if outerT, ok := outer.Attr("transform"); ok {
			outer.SetAttr("transform", strings.TrimSpace(outerT+" "+innerT))
		} else {
			outer.SetAttr("transform", innerT)
		}
		inner.RemoveAttr("transform")
	}
	for _, a := range inner.Attrs {
		if _, exists := outer.Attr(a.Name); !exists {
			outer.SetAttr(a.Name, a.Value)
		}
	}
}

// RedundantElementRemover deletes <clipPath> elements in <defs> that no
// element outside <defs> references (directly or transitively through a
// chain of nested clip-paths). Grounded on SVGOptimizer.cpp's
// RedundantElementRemover::execute and its DependencyGraph (spec §4.8,
// testable property "Redundant element removal preserves every clipPath
// reachable from any referencing element").
type RedundantElementRemover struct{}

func (RedundantElementRemover) Execute(root *Element) {
	defs := findDefs(root)
	if defs == nil {
		return
	}
	clipPaths := make(map[string]*Element)
	for _, e := range GetDescendants(defs) {
		if e.Tag != "clipPath" {
			continue
		}
		if id, ok := e.Attr("id"); ok {
			clipPaths[id] = e
		}
	}
	if len(clipPaths) == 0 {
		return
	}

	// Edges run owning_id -> url_id: a clipPath whose own clip-path
	// attribute references another clipPath depends on it, so keeping the
	// dependent one alive must also keep the referenced one alive.
	graph := NewDependencyGraph()
	for id, e := range clipPaths {
		v, ok := e.Attr("clip-path")
		if !ok {
			continue
		}
		ref, ok := extractIDFromURL(v)
		if !ok {
			continue
		}
		if _, exists := clipPaths[ref]; exists {
			graph.AddDependency(id, ref)
		}
	}

	var referencedRoots []string
	for _, e := range GetDescendants(root) {
		if e == defs || isDescendantOf(e, defs) {
			continue
		}
		v, ok := e.Attr("clip-path")
		if !ok {
			continue
		}
		id, ok := extractIDFromURL(v)
		if !ok {
			continue
		}
		if _, exists := clipPaths[id]; exists {
			referencedRoots = append(referencedRoots, id)
		}
	}

	keep := graph.ReachableFrom(referencedRoots)
	for id, e := range clipPaths {
		if !keep[id] {
			defs.RemoveChild(e)
		}
	}
}

// findDefs returns the first <defs> element found in root's subtree, or
// nil if none exists.
func findDefs(root *Element) *Element {
	for _, e := range GetDescendants(root) {
		if e.Tag == "defs" {
			return e
		}
	}
	return nil
}

// isDescendantOf reports whether e is somewhere under ancestor (ancestor
// itself does not count).
func isDescendantOf(e, ancestor *Element) bool {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

// extractIDFromURL parses a url(#id) reference, per SVGOptimizer.cpp's
// extract_id_from_url.
func extractIDFromURL(v string) (string, bool) {
	const prefix, suffix = "url(#", ")"
	if !strings.HasPrefix(v, prefix) || !strings.HasSuffix(v, suffix) {
		return "", false
	}
	return v[len(prefix) : len(v)-len(suffix)], true
}

// Optimize runs the three structural passes over root in the fixed order
// SVGOptimizer.cpp applies them: attribute extraction creates the grouping
// opportunities group collapsing then exploits, and redundant clipPath
// removal runs last.
func Optimize(root *Element) {
	AttributeExtractor{}.Execute(root)
	GroupCollapser{}.Execute(root)
	RedundantElementRemover{}.Execute(root)
}
