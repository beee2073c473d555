/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package svg implements the in-memory SVG document tree, the structural
// optimizer passes that run over it before serialization, and the
// dvi.Actions implementation that builds it from a decoded DVI page.
package svg

// Node is any member of the SVG document tree. Grounded on unipdf's
// core.PdfObject interface family, generalized from PDF objects to XML
// nodes.
type Node interface {
	Parent() *Element
	setParent(*Element)
}

// Attr is one ordered (name, value) pair of an Element. Attribute order is
// preserved exactly as inserted, mirroring core.PdfObjectDictionary's
// insertion-order guarantee (spec §3 "SVG tree").
type Attr struct {
	Name  string
	Value string
}

// Element is an SVG element node: a tag name, an ordered attribute list,
// and an ordered list of children (which may themselves be Elements, Text,
// CData or Comment nodes).
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node

	parent *Element
}

// NewElement creates an unattached element with the given tag name.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

func (e *Element) Parent() *Element    { return e.parent }
func (e *Element) setParent(p *Element) { e.parent = p }

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets name to value, preserving the position of an existing
// attribute or appending a new one at the end.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute, if present.
func (e *Element) RemoveAttr(name string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// Text is a literal character-data node (not escaped further at insertion
// time; serialize.go performs XML escaping on output).
type Text struct {
	Data   string
	parent *Element
}

func NewText(data string) *Text { return &Text{Data: data} }

func (t *Text) Parent() *Element    { return t.parent }
func (t *Text) setParent(p *Element) { t.parent = p }

// CData is a CDATA section, used for embedding raw content (e.g. font
// program data via data: URIs is not used here, but style blocks may be).
type CData struct {
	Data   string
	parent *Element
}

func NewCData(data string) *CData { return &CData{Data: data} }

func (c *CData) Parent() *Element    { return c.parent }
func (c *CData) setParent(p *Element) { c.parent = p }

// Comment is an XML comment node.
type Comment struct {
	Data   string
	parent *Element
}

func NewComment(data string) *Comment { return &Comment{Data: data} }

func (c *Comment) Parent() *Element    { return c.parent }
func (c *Comment) setParent(p *Element) { c.parent = p }
