/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package hashsink implements the pluggable page-content hash described in
// spec §4.10/§9: computing a page's content hash requires running the page
// interpretation once against a hash sink before deciding whether to skip
// re-rendering an already-produced page. The hashing algorithm itself is an
// external collaborator per spec §1 ("hashing libraries... only their
// contracts matter"); this package owns only the Writer/Func contract and a
// default blake2b-backed implementation.
package hashsink

import (
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/dvisvgm-go/dvi2svg/dvierrors"
)

// Func constructs a new hash.Hash for one page's content digest. Additional
// algorithms register under this same contract so the concrete hashing
// library stays swappable.
type Func func() (hash.Hash, error)

// registry maps a Config.HashAlgorithmName value to its Func.
var registry = map[string]Func{
	"blake2b": func() (hash.Hash, error) { return blake2b.New256(nil) },
}

// Register adds (or overrides) a named hash algorithm.
func Register(name string, f Func) {
	registry[name] = f
}

// New returns a fresh hash.Hash for the named algorithm.
func New(name string) (hash.Hash, error) {
	f, ok := registry[name]
	if !ok {
		return nil, dvierrors.New(dvierrors.IOError, 0, "unknown hash algorithm %q", name)
	}
	return f()
}

// Writer wraps a hash.Hash as an io.Writer sink. The driver feeds it a
// binary encoding of one page's interpretation events and records Sum in a
// leading comment of that page's SVG output; the output filename does not
// include the digest. Grounded on the "hash-before-render shortcut" design note: this
// is a genuine second execution of page interpretation against a sink,
// not a pure memoized shortcut.
type Writer struct {
	h hash.Hash
}

// NewWriter wraps h.
func NewWriter(h hash.Hash) *Writer { return &Writer{h: h} }

// Write feeds p into the underlying hash, satisfying io.Writer.
func (w *Writer) Write(p []byte) (int, error) { return w.h.Write(p) }

// Sum returns the accumulated digest as a lowercase hex string, suitable
// for use as (part of) an output filename.
func (w *Writer) Sum() string {
	return hex.EncodeToString(w.h.Sum(nil))
}
