/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dvisvgm-go/dvi2svg/common"
	"github.com/dvisvgm-go/dvi2svg/dvi"
	"github.com/dvisvgm-go/dvi2svg/dvierrors"
	"github.com/dvisvgm-go/dvi2svg/font"
	"github.com/dvisvgm-go/dvi2svg/hashsink"
	"github.com/dvisvgm-go/dvi2svg/length"
	"github.com/dvisvgm-go/dvi2svg/pagerange"
	"github.com/dvisvgm-go/dvi2svg/special"
	"github.com/dvisvgm-go/dvi2svg/svg"
	"github.com/dvisvgm-go/dvi2svg/transform"
)

// hashCommentPrefix marks the leading <!--dvi2svg:hash ...--> comment a driver
// run embeds in its output so a later run can compare against a freshly
// computed digest instead of re-rendering unchanged pages.
const hashCommentPrefix = "dvi2svg:hash "

// Driver wires together the stream reader, decoder, state machine, font
// manager and SVG builder into the page-range-driven run described in
// spec §4.10: pre-scan once, then per requested page, optionally skip via
// the content hash, else run the main pass, optimize, and serialize.
type Driver struct {
	cfg    Config
	fonts  *font.Manager
	bbox   length.BBoxFormat
	calc   *transform.Calculator
	matrix transform.Matrix
	cancel dvi.CancelFlag
	scale  float64 // DVI units -> big points, from the postamble's (num, den, mag)

	// docPageW, docPageH hold a papersize-style special's dimensions found
	// anywhere in the pre-scan pass, used as every page's default size
	// unless that page fires its own (spec §4.5/§9: such a special must
	// widen the *first* page's bbox even when declared on a later one).
	docPageW, docPageH float64
}

// Cancel requests that the current and any subsequent page abort with
// dvierrors.Cancelled at the next opcode boundary (spec §5).
func (d *Driver) Cancel() { d.cancel.Cancel() }

// NewDriver prepares a Driver from cfg, parsing its bboxFormatString up
// front (an unrecognized value falls back to min, so this never fails).
// The transform expression is parsed by Run, before any page is touched.
func NewDriver(cfg Config) (*Driver, error) {
	d := &Driver{
		cfg:   cfg,
		fonts: font.NewManager(font.NewSfntLoader()),
		bbox:  length.ParseBBoxFormat(cfg.BBoxFormat),
	}
	return d, nil
}

// Run opens inputPath, parses its preamble and postamble, and drives the
// requested pages to outputPattern-named files. It returns the first fatal
// error encountered (per dvierrors.Fatal); non-fatal per-page errors are
// logged and that page is skipped, matching spec §5's "current page is
// aborted" cancellation policy generalized to ordinary page errors.
func (d *Driver) Run(inputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return dvierrors.Wrap(dvierrors.IOError, 0, err, "opening %q", inputPath)
	}
	defer f.Close()

	reader := dvi.NewReader(f)
	post, err := reader.LocatePostamble()
	if err != nil {
		return err
	}
	d.scale = svg.DVIUnitsToBigPoints(post.Num, post.Den, post.Mag)

	ranges, err := pagerange.Parse(d.cfg.PageRangeExpression, int(post.NumberOfPages))
	if err != nil {
		return err
	}
	if pagerange.Count(ranges) == 0 {
		common.Log.Notice("no pages selected out of %d", post.NumberOfPages)
		return nil
	}

	d.calc = transform.NewCalculator(0, 0, float64(post.MaxPageWidth), float64(post.MaxPageHeight))
	if strings.TrimSpace(d.cfg.TransformCommands) != "" {
		m, err := d.calc.Evaluate(d.cfg.TransformCommands)
		if err != nil {
			return dvierrors.Wrap(dvierrors.InvalidTransformExpression, 0, err, "parsing transform commands %q", d.cfg.TransformCommands)
		}
		d.matrix = m
	} else {
		d.matrix = transform.Identity()
	}

	specials := special.NewManager()
	specials.RegisterHandlers(special.BuiltinHandlers(), d.cfg.IgnoreSpecialsList)

	prescan := dvi.NewPreScanActions()
	prescanMachine := dvi.NewMachine(d.fonts, prescan)
	if err := d.runPass(reader, post.Version, post.BopOffsets, prescanMachine); err != nil {
		return err
	}
	d.scanDocumentPageSize(prescan, specials)

	for _, r := range ranges {
		for p := r.First; p <= r.Last; p++ {
			if err := d.processPage(reader, post, p, specials); err != nil {
				if dvierrors.Fatal(kindOf(err)) {
					return err
				}
				common.Log.Error("page %d: %v", p, err)
				continue
			}
			if d.cfg.ComputeProgress {
				common.Log.Info("page %d/%d done", p, post.NumberOfPages)
			}
		}
	}
	return nil
}

// scanDocumentPageSize replays the specials collected by the pre-scan pass
// through specials, so a papersize-style special is honored regardless of
// which page declared it (spec §4.5's reason for pre-scanning at all).
func (d *Driver) scanDocumentPageSize(prescan *dvi.PreScanActions, specials *special.Manager) {
	sink := &pageSizeSink{}
	for _, body := range prescan.Specials {
		specials.Process(body, sink)
	}
	d.docPageW, d.docPageH = sink.w, sink.h
}

// pageSizeSink implements special.Actions just enough to capture a
// papersize-style special's declared dimensions during the pre-scan replay;
// position tracking and bbox extension are meaningless at this stage.
type pageSizeSink struct {
	w, h float64
}

func (*pageSizeSink) Position() (h, v int32)                 { return 0, 0 }
func (*pageSizeSink) ExtendBBox(x, y, width, height float64) {}
func (s *pageSizeSink) SetPageSize(width, height float64) {
	if s.w == 0 && s.h == 0 {
		s.w, s.h = width, height
	}
}

// runPass executes every opcode of every bop-delimited page against a
// single dvi.Actions implementation, without producing any output file —
// used for the pre-scan pass over the whole document.
func (d *Driver) runPass(reader *dvi.Reader, version dvi.Version, offsets []int64, machine *dvi.Machine) error {
	for _, off := range offsets {
		if err := reader.Seek(off); err != nil {
			return err
		}
		decoder := dvi.NewDecoder(reader)
		decoder.SetVersion(version)
		if err := d.runPage(reader, decoder, machine); err != nil {
			return err
		}
	}
	return nil
}

// runPage executes commands from the current reader position through the
// page's eop opcode inclusive, against machine.
func (d *Driver) runPage(reader *dvi.Reader, decoder *dvi.Decoder, machine *dvi.Machine) error {
	for {
		if d.cancel.Cancelled() {
			return dvierrors.New(dvierrors.Cancelled, 0, "run cancelled")
		}
		op, err := decoder.ExecuteCommand(machine)
		if err != nil {
			return err
		}
		if op == dvi.OpEop {
			return nil
		}
	}
}

// processPage renders one physical page, applying the content-hash
// shortcut first when configured.
func (d *Driver) processPage(reader *dvi.Reader, post *dvi.Postamble, pageno int, specials *special.Manager) error {
	outputPath := fmt.Sprintf(d.cfg.OutputPattern, pageno)
	offset := post.BopOffsets[pageno-1]

	var digest string
	if d.cfg.HashAlgorithmName != "" {
		h, err := hashsink.New(d.cfg.HashAlgorithmName)
		if err != nil {
			return dvierrors.Wrap(dvierrors.IOError, pageno, err, "selecting hash algorithm %q", d.cfg.HashAlgorithmName)
		}
		writer := hashsink.NewWriter(h)
		hashM := dvi.NewMachine(d.fonts, newHashActions(writer))
		if err := reader.Seek(offset); err != nil {
			return err
		}
		hashDecoder := dvi.NewDecoder(reader)
		hashDecoder.SetVersion(post.Version)
		if err := d.runPage(reader, hashDecoder, hashM); err != nil {
			return err
		}
		digest = writer.Sum()
		if existingHashMatches(outputPath, digest) {
			common.Log.Debug("page %d unchanged (hash %s), skipping", pageno, digest)
			return nil
		}
	}

	actions := svg.NewActions(specials)
	actions.SetScale(d.scale)
	machine := dvi.NewMachine(d.fonts, actions)
	if err := reader.Seek(offset); err != nil {
		return err
	}
	decoder := dvi.NewDecoder(reader)
	decoder.SetVersion(post.Version)
	if err := d.runPage(reader, decoder, machine); err != nil {
		return err
	}

	if d.matrix != transform.Identity() {
		applyTransform(actions.Root, d.matrix)
	}

	specialW, specialH := actions.PageSize()
	if specialW <= 0 || specialH <= 0 {
		specialW, specialH = d.docPageW, d.docPageH
	}
	maxPage := [2]float64{
		float64(post.MaxPageWidth) * d.scale,
		float64(post.MaxPageHeight) * d.scale,
	}
	svg.ApplyBBoxFormat(actions.Root, actions.BBox(), [2]float64{specialW, specialH}, maxPage, d.bbox)

	svg.Optimize(actions.Root)

	if digest != "" {
		actions.Root.InsertChild(0, svg.NewComment(hashCommentPrefix+digest))
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return dvierrors.Wrap(dvierrors.IOError, pageno, err, "creating %q", outputPath)
	}
	defer out.Close()
	if err := svg.Serialize(out, actions.Root); err != nil {
		return dvierrors.Wrap(dvierrors.IOError, pageno, err, "serializing page %d", pageno)
	}
	return nil
}

// applyTransform sets the page transformation matrix (spec §4.10/§6) as a
// transform attribute on the page body group, the first (and only) <g>
// child of the <svg> root.
func applyTransform(root *svg.Element, m transform.Matrix) {
	for _, c := range root.Elements() {
		if c.Tag == "g" {
			a, b, cc, d, e, f := m.Components()
			c.SetAttr("transform", fmt.Sprintf("matrix(%v,%v,%v,%v,%v,%v)", a, b, cc, d, e, f))
			return
		}
	}
}

// existingHashMatches reports whether path already holds output whose
// leading comment records the given content digest.
func existingHashMatches(path, digest string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	marker := "<!--" + hashCommentPrefix + digest
	return strings.Contains(string(data), marker)
}

// kindOf extracts the dvierrors.Kind from err, defaulting to IOError for
// errors outside the closed set (e.g. a raw I/O failure not wrapped by
// this module), so an unrecognized error is still treated as fatal.
func kindOf(err error) dvierrors.Kind {
	var e *dvierrors.Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return dvierrors.IOError
}
