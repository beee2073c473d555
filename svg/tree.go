/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package svg

// AppendChild adds child as the last child of e, setting its back-pointer.
// These helpers keep Parent() consistent; the optimizer code that rebuilds
// a Children slice directly (wrapRun, collapse) sets the parents itself
// (the Design Notes open question on parent tracking is resolved in favor
// of stored back-pointers over threaded parent args).
func (e *Element) AppendChild(child Node) {
	if p, ok := child.(interface{ setParent(*Element) }); ok {
		p.setParent(e)
	}
	e.Children = append(e.Children, child)
}

// InsertChild inserts child at position i, shifting later children right.
func (e *Element) InsertChild(i int, child Node) {
	if p, ok := child.(interface{ setParent(*Element) }); ok {
		p.setParent(e)
	}
	e.Children = append(e.Children, nil)
	copy(e.Children[i+1:], e.Children[i:])
	e.Children[i] = child
}

// RemoveChild removes the first occurrence of child from e's children.
func (e *Element) RemoveChild(child Node) {
	for i, c := range e.Children {
		if c == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			if p, ok := child.(interface{ setParent(*Element) }); ok {
				p.setParent(nil)
			}
			return
		}
	}
}

// indexIn returns the position of child within e.Children, or -1.
func (e *Element) indexIn(child Node) int {
	for i, c := range e.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Wrap inserts wrapper as child's replacement in its parent and reparents
// child underneath wrapper. The optimizer passes do not call it;
// AttributeExtractor's wrapRun builds its wrapping <g> directly.
func Wrap(child Node, wrapper *Element) {
	parent := child.Parent()
	if parent == nil {
		return
	}
	i := parent.indexIn(child)
	if i < 0 {
		return
	}
	parent.Children[i] = wrapper
	wrapper.setParent(parent)
	wrapper.AppendChild(child)
}

// Unwrap replaces e in its parent's child list with e's own children,
// flattened in place, and returns them. The optimizer passes do not call
// it; GroupCollapser merges groups by moving children itself.
func Unwrap(e *Element) []Node {
	parent := e.Parent()
	if parent == nil {
		return nil
	}
	i := parent.indexIn(e)
	if i < 0 {
		return nil
	}
	children := e.Children
	rest := append([]Node{}, parent.Children[i+1:]...)
	parent.Children = append(parent.Children[:i], children...)
	for _, c := range children {
		if p, ok := c.(interface{ setParent(*Element) }); ok {
			p.setParent(parent)
		}
	}
	parent.Children = append(parent.Children, rest...)
	return children
}

// GetDescendants returns every Element in e's subtree, e included, in
// document order (pre-order traversal), for use by the optimizer passes.
func GetDescendants(e *Element) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(el *Element) {
		out = append(out, el)
		for _, c := range el.Children {
			if child, ok := c.(*Element); ok {
				walk(child)
			}
		}
	}
	walk(e)
	return out
}

// Elements returns the direct Element children of e, skipping Text/CData/
// Comment nodes.
func (e *Element) Elements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}
