/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package svg

import (
	"fmt"
	"io"
	"strings"
)

// Serialize writes e and its subtree to w as well-formed XML, preserving
// attribute insertion order exactly (no alphabetic sorting, unlike
// encoding/xml's Marshal). dvisvgm's SVG output intentionally orders
// attributes for readability (e.g. "x" before "y" before "width"), which a
// general-purpose marshaler cannot be told to do, so this writer is
// hand-rolled directly over the tree rather than layered on encoding/xml.
func Serialize(w io.Writer, e *Element) error {
	return writeNode(w, e, 0)
}

func writeNode(w io.Writer, n Node, depth int) error {
	switch v := n.(type) {
	case *Element:
		return writeElement(w, v, depth)
	case *Text:
		_, err := io.WriteString(w, escapeText(v.Data))
		return err
	case *CData:
		_, err := fmt.Fprintf(w, "<![CDATA[%s]]>", v.Data)
		return err
	case *Comment:
		_, err := fmt.Fprintf(w, "<!--%s-->", v.Data)
		return err
	default:
		return fmt.Errorf("svg: unknown node type %T", n)
	}
}

func writeElement(w io.Writer, e *Element, depth int) error {
	if _, err := fmt.Fprintf(w, "<%s", e.Tag); err != nil {
		return err
	}
	for _, a := range e.Attrs {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}
	if len(e.Children) == 0 {
		_, err := io.WriteString(w, "/>")
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := writeNode(w, c, depth+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>", e.Tag)
	return err
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
