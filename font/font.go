/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package font implements the font manager contract: assigning stable IDs
// to DVI-local font numbers, resolving font definitions, and distinguishing
// physical from virtual fonts. Actually loading glyph outlines from a font
// file is delegated to a pluggable GlyphSource; parsing TFM/OpenType/
// Metafont data is an external collaborator outside this module's scope
// (spec §1).
package font

import (
	"path/filepath"
	"strings"

	"github.com/adrg/sysfont"
	"github.com/h2non/filetype"
	"github.com/dvisvgm-go/dvi2svg/common"
	"github.com/dvisvgm-go/dvi2svg/dvierrors"
)

// ID is a process-wide stable font identifier, distinct from a DVI file's
// local per-page font numbers (which only have meaning within one file).
type ID int

// Format identifies the on-disk container of a resolved physical font, as
// sniffed by Manager.resolvePath. It never implies the font has been parsed.
type Format int

// The font container formats. sniffFormat distinguishes TrueType and
// OpenType by magic bytes and reports FormatUnknown for anything else; it
// never reports FormatType1.
const (
	FormatUnknown Format = iota
	FormatTrueType
	FormatOpenType
	FormatType1
)

// Font describes one font reference encountered via a DVI fntdef opcode.
// Physical and virtual fonts are represented uniformly except that virtual
// fonts never produce glyph nodes directly (spec §3, "Font reference").
type Font struct {
	id         ID
	name       string
	path       string
	format     Format
	checksum   uint32
	designSize float64 // in DVI units, as declared by fntdef
	scaledSize float64 // in DVI units, as declared by fntdef
	virtual    bool

	unique *Font // canonical instance for this (name, design size, checksum)

	source GlyphSource // nil if unresolved or virtual
}

// Name returns the font's TeX name (e.g. "cmr10").
func (f *Font) Name() string { return f.name }

// Path returns the resolved font file path, or "" if unresolved.
func (f *Font) Path() string { return f.path }

// DesignSize returns the font's design size in DVI units.
func (f *Font) DesignSize() float64 { return f.designSize }

// ScaledSize returns the font's size as scaled for this reference, in DVI units.
func (f *Font) ScaledSize() float64 { return f.scaledSize }

// IsVirtual reports whether this font expands to a nested DVI fragment
// rather than mapping directly to glyph outlines.
func (f *Font) IsVirtual() bool { return f.virtual }

// ID returns the process-wide stable identifier assigned by the Manager.
func (f *Font) ID() ID { return f.id }

// UniqueFont returns the canonical instance shared by every scaled copy of
// the same underlying font, so glyph tracing and embedding are not repeated
// per scale. Grounded on original_source's Font::uniqueFont()/collect_chars.
func (f *Font) UniqueFont() *Font {
	if f.unique != nil {
		return f.unique
	}
	return f
}

// Glyph returns the outline for a character code, using the font's
// GlyphSource. Virtual fonts and fonts with no resolved path never produce
// outlines.
func (f *Font) Glyph(code uint32) (GlyphOutline, bool) {
	if f.virtual || f.source == nil {
		return GlyphOutline{}, false
	}
	return f.source.Glyph(code)
}

// GlyphOutline is the vector outline data a physical font's glyph accessor
// returns for one character code, expressed as a sequence of path segments
// in font units. svg.AppendGlyphPath turns these into an SVG <path> d
// attribute.
type GlyphOutline struct {
	AdvanceWidth float64
	Segments     []Segment
}

// SegmentOp names an outline path-segment operator, mirroring
// golang.org/x/image/font/sfnt's Segment operator set (MoveTo/LineTo/
// QuadTo/CubeTo), which is what the default GlyphSource implementation
// is backed by.
type SegmentOp int

// The segment operators an outline can be built from.
const (
	SegMoveTo SegmentOp = iota
	SegLineTo
	SegQuadTo
	SegCubeTo
)

// Segment is one drawing instruction of a glyph outline. Args holds 1 point
// (MoveTo/LineTo), 2 points (QuadTo) or 3 points (CubeTo) as (x0,y0,x1,y1,...).
type Segment struct {
	Op   SegmentOp
	Args []float64
}

// GlyphSource is the pluggable glyph-outline accessor for a resolved
// physical font. The default implementation (see sfntsource.go) is backed
// by golang.org/x/image/font/sfnt; font loading itself remains the excluded
// external collaborator named in spec §1 — GlyphSource is the contract,
// not a guarantee that any particular format is parsed correctly.
type GlyphSource interface {
	Glyph(code uint32) (GlyphOutline, bool)
}

// Manager assigns stable IDs to fonts referenced in a DVI file's fntdef
// opcodes and resolves their file paths. One Manager instance is shared
// across all pages of a run (spec §5: font manager ID assignment is not
// guarded and is not meant to be used concurrently).
type Manager struct {
	nextID  ID
	byLocal map[uint32]*Font // keyed by the DVI file's local font number
	byKey   map[string]*Font // keyed by (name, designSize, checksum) for uniquing

	finder *sysfont.Finder
	loader Loader
}

// Loader constructs a GlyphSource for a resolved font file path. The
// default loader (NewSfntLoader) is backed by golang.org/x/image/font/sfnt.
type Loader interface {
	Load(path string, format Format) (GlyphSource, error)
}

// NewManager creates a font manager using the given glyph Loader. Pass nil
// to disable glyph outline resolution entirely (e.g. for a dry run that
// only needs font metadata).
func NewManager(loader Loader) *Manager {
	return &Manager{
		byLocal: make(map[uint32]*Font),
		byKey:   make(map[string]*Font),
		finder:  sysfont.NewFinder(nil),
		loader:  loader,
	}
}

// Define registers a font declared by a fntdef opcode for local number n
// and returns its Font record, uniqued against any previously-seen font
// with the same (name, designSize, checksum).
func (m *Manager) Define(n uint32, name string, checksum uint32, scale, design uint32, area string, virtual bool) *Font {
	key := uniqueKey(name, design, checksum)
	f, seen := m.byKey[key]
	if seen && virtual && !f.virtual {
		// A font first seen via fntdef defaults to physical; DefineVirtual
		// re-invokes Define once the caller has classified it, so the
		// cached record must flip rather than stay physical forever.
		f.virtual = true
		f.path = ""
		f.source = nil
	}
	if !seen {
		m.nextID++
		f = &Font{
			id:         m.nextID,
			name:       name,
			checksum:   checksum,
			designSize: float64(design),
			virtual:    virtual,
		}
		m.byKey[key] = f
		if !virtual {
			if path := m.resolvePath(name, area); path != "" {
				f.path = path
				f.format = sniffFormat(path)
				if m.loader != nil {
					src, err := m.loader.Load(path, f.format)
					if err != nil {
						common.Log.Warning("font resolution: %v", dvierrors.Wrap(dvierrors.FontResolution, 0, err, "loading glyphs for %q", name))
					} else {
						f.source = src
					}
				}
			} else {
				common.Log.Warning("font resolution: %v", dvierrors.New(dvierrors.FontResolution, 0, "could not locate font file for %q", name))
			}
		}
	}
	// Each local number gets its own Font value (so ScaledSize differs per
	// reference) but shares the unique canonical instance for glyph tracing.
	copyForRef := *f
	copyForRef.scaledSize = float64(scale)
	copyForRef.unique = f
	m.byLocal[n] = &copyForRef
	return &copyForRef
}

// Resolve returns the Font previously registered for local font number n.
func (m *Manager) Resolve(n uint32) (*Font, bool) {
	f, ok := m.byLocal[n]
	return f, ok
}

// FontID returns the stable process-wide ID for a local font number, as
// used by DVIToSVG::dviFontNum in the original implementation to recompute
// IDs independent of the DVI file's own numbering.
func (m *Manager) FontID(n uint32) ID {
	if f, ok := m.byLocal[n]; ok {
		return f.id
	}
	return 0
}

func uniqueKey(name string, design, checksum uint32) string {
	return name + "\x00" + itoa(design) + "\x00" + itoa(checksum)
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// resolvePath looks for the font file next to area (the fntdef-declared
// directory hint, usually empty) and falls back to a system font lookup by
// family name via adrg/sysfont when no direct hint resolves.
func (m *Manager) resolvePath(name, area string) string {
	if area != "" {
		candidate := filepath.Join(area, name+".ttf")
		if filetype.MatchesExtension(strings.TrimPrefix(filepath.Ext(candidate), ".")) {
			return candidate
		}
	}
	if m.finder == nil {
		return ""
	}
	if f := m.finder.Match(name); f != nil {
		return f.Filename
	}
	return ""
}

func sniffFormat(path string) Format {
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return FormatUnknown
	}
	switch kind.Extension {
	case "ttf":
		return FormatTrueType
	case "otf":
		return FormatOpenType
	default:
		return FormatUnknown
	}
}
