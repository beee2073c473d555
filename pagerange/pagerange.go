/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package pagerange parses the user-supplied page range expression
// (grammar `R := N | N-N | -N | N- | R,R`, spec §6) into a set of physical
// page intervals clipped to [1, numberOfPages].
package pagerange

import (
	"strconv"
	"strings"

	"github.com/dvisvgm-go/dvi2svg/dvierrors"
)

// Range is an inclusive [First, Last] interval of physical page numbers.
type Range struct {
	First, Last int
}

// Parse parses expr per the page range grammar, clipping every interval to
// [1, numberOfPages]. An empty expr means "every page". Malformed input
// returns dvierrors.InvalidRangeExpression, fatal before any page is
// touched (spec §6).
func Parse(expr string, numberOfPages int) ([]Range, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		if numberOfPages <= 0 {
			return nil, nil
		}
		return []Range{{First: 1, Last: numberOfPages}}, nil
	}
	var ranges []Range
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, dvierrors.New(dvierrors.InvalidRangeExpression, 0, "empty range component in %q", expr)
		}
		r, err := parseComponent(part, numberOfPages)
		if err != nil {
			return nil, err
		}
		if r.First > r.Last {
			continue // entirely outside [1, numberOfPages]; drop silently
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// parseComponent parses one comma-separated component: "N", "N-N", "-N",
// or "N-".
func parseComponent(part string, numberOfPages int) (Range, error) {
	if i := strings.IndexByte(part, '-'); i >= 0 {
		loStr, hiStr := part[:i], part[i+1:]
		lo := 1
		if loStr != "" {
			n, err := strconv.Atoi(loStr)
			if err != nil {
				return Range{}, dvierrors.Wrap(dvierrors.InvalidRangeExpression, 0, err, "invalid range start %q", loStr)
			}
			lo = n
		}
		hi := numberOfPages
		if hiStr != "" {
			n, err := strconv.Atoi(hiStr)
			if err != nil {
				return Range{}, dvierrors.Wrap(dvierrors.InvalidRangeExpression, 0, err, "invalid range end %q", hiStr)
			}
			hi = n
		}
		return clip(lo, hi, numberOfPages), nil
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return Range{}, dvierrors.Wrap(dvierrors.InvalidRangeExpression, 0, err, "invalid page number %q", part)
	}
	return clip(n, n, numberOfPages), nil
}

func clip(lo, hi, numberOfPages int) Range {
	if lo < 1 {
		lo = 1
	}
	if numberOfPages > 0 && hi > numberOfPages {
		hi = numberOfPages
	}
	return Range{First: lo, Last: hi}
}

// Contains reports whether page (1-based, physical index) falls within any
// of ranges.
func Contains(ranges []Range, page int) bool {
	for _, r := range ranges {
		if page >= r.First && page <= r.Last {
			return true
		}
	}
	return false
}

// Count returns the total number of pages named by ranges.
func Count(ranges []Range) int {
	n := 0
	for _, r := range ranges {
		if r.Last >= r.First {
			n += r.Last - r.First + 1
		}
	}
	return n
}
