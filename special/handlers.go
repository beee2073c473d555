/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package special

import (
	"strconv"
	"strings"

	"github.com/dvisvgm-go/dvi2svg/common"
)

// BuiltinHandlers returns the core module's thin registrations for the
// special families dvisvgm recognizes: color, html (hyperref), papersize,
// ps (PostScript), tpic, em (emTeX), pdf, and dvisvgm-raw. Per spec §1 these
// handlers' detailed semantics are the excluded external collaborator; what
// is real here is registration, prefix matching, and (for papersize, which
// the pre-scan pass depends on per spec §4.5) the one behavior the rest of
// this module actually consumes.
func BuiltinHandlers() []Handler {
	return []Handler{
		papersizeHandler{},
		colorHandler{},
		htmlHandler{},
		psHandler{},
		tpicHandler{},
		emHandler{},
		pdfHandler{},
		rawHandler{},
	}
}

// papersizeHandler implements the "papersize=<w>,<h>" special, which must
// widen the page bounding box used by the *first* page even when it is
// declared on a later one — this is why the driver runs a full pre-scan
// pass before any page is finally rendered (spec §4.5, §9).
type papersizeHandler struct{}

func (papersizeHandler) Prefix() string { return "papersize" }
func (papersizeHandler) Info() string   { return "papersize=<width>,<height>: fixes the output page size" }

func (papersizeHandler) Process(prefix, body string, actions Actions) (bool, error) {
	body = strings.TrimPrefix(body, "=")
	parts := strings.SplitN(body, ",", 2)
	if len(parts) != 2 {
		common.Log.Debug("special: malformed papersize body %q", body)
		return false, nil
	}
	w, err1 := parseBigPoints(parts[0])
	h, err2 := parseBigPoints(parts[1])
	if err1 != nil || err2 != nil {
		common.Log.Debug("special: unparseable papersize dimensions %q", body)
		return false, nil
	}
	actions.SetPageSize(w, h)
	return true, nil
}

// parseBigPoints parses a leading decimal number off s, ignoring any unit
// suffix (papersize specials conventionally give lengths in "pt" or "true").
func parseBigPoints(s string) (float64, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] == '.' || s[i] == '-' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	return strconv.ParseFloat(s[:i], 64)
}

// colorHandler recognizes "color push/pop ..." bodies. Actual color-stack
// tracking and fill/stroke attribute emission is the excluded collaborator;
// this handler only claims the prefix so dispatch and the ignore-list
// contract are exercised end to end.
type colorHandler struct{}

func (colorHandler) Prefix() string { return "color" }
func (colorHandler) Info() string   { return "color push/pop <spec>: sets the current drawing color" }
func (colorHandler) Process(prefix, body string, actions Actions) (bool, error) {
	common.Log.Debug("special: color %q (color model dispatch not implemented in core)", body)
	return true, nil
}

// htmlHandler recognizes hyperref's "html:" specials (anchors and links).
type htmlHandler struct{}

func (htmlHandler) Prefix() string { return "html:" }
func (htmlHandler) Info() string   { return "html:<anchor|<a href=...>|</a>>: hyperref anchors/links" }
func (htmlHandler) Process(prefix, body string, actions Actions) (bool, error) {
	common.Log.Debug("special: html %q (hyperref anchor emission not implemented in core)", body)
	return true, nil
}

// psHandler recognizes raw PostScript literals and ps: file inclusions. The
// PostScript interpreter itself is out of scope (spec §1).
type psHandler struct{}

func (psHandler) Prefix() string { return "ps:" }
func (psHandler) Info() string   { return "ps: <code> | ps: plotfile <path>: raw PostScript inclusion" }
func (psHandler) Process(prefix, body string, actions Actions) (bool, error) {
	common.Log.Debug("special: ps %q (PostScript interpreter not implemented in core)", body)
	return true, nil
}

// tpicHandler recognizes the TPIC pen-size special (pn). It is registered
// under that one prefix, so other TPIC commands (pa, fp, ...) are not
// dispatched to it.
type tpicHandler struct{}

func (tpicHandler) Prefix() string { return "pn" }
func (tpicHandler) Info() string   { return "pn <size>: TPIC pen-size command" }
func (tpicHandler) Process(prefix, body string, actions Actions) (bool, error) {
	common.Log.Debug("special: tpic %s %q (pic drawing not implemented in core)", prefix, body)
	return true, nil
}

// emHandler recognizes emTeX's line-drawing/bitmap-inclusion specials.
type emHandler struct{}

func (emHandler) Prefix() string { return "em:" }
func (emHandler) Info() string   { return "em:line/box/point/graph: emTeX graphics specials" }
func (emHandler) Process(prefix, body string, actions Actions) (bool, error) {
	common.Log.Debug("special: em %q (emTeX graphics not implemented in core)", body)
	return true, nil
}

// pdfHandler recognizes pdfTeX/pdfmark-flavored literal and annotation
// specials still occasionally seen ahead of a DVI->SVG pass.
type pdfHandler struct{}

func (pdfHandler) Prefix() string { return "pdf:" }
func (pdfHandler) Info() string   { return "pdf: literal/annotation/...: pdfTeX specials" }
func (pdfHandler) Process(prefix, body string, actions Actions) (bool, error) {
	common.Log.Debug("special: pdf %q (pdfmark annotations not implemented in core)", body)
	return true, nil
}

// rawHandler recognizes dvisvgm's own "dvisvgm:raw" escape for inserting
// literal SVG markup, acknowledged but not inserted (raw markup parsing
// would require an XML fragment parser, itself out of this module's scope).
type rawHandler struct{}

func (rawHandler) Prefix() string { return "dvisvgm:raw" }
func (rawHandler) Info() string   { return "dvisvgm:raw <xml>: inserts literal SVG markup" }
func (rawHandler) Process(prefix, body string, actions Actions) (bool, error) {
	common.Log.Debug("special: dvisvgm:raw %q (raw markup insertion not implemented in core)", body)
	return true, nil
}
