/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package main

// Config collects the driver's run-time options, taken as a single value
// object the way model.Reader and creator.Creator take option structs
// rather than long positional parameter lists.
type Config struct {
	BBoxFormat          string // bboxFormatString: min|dvi|preview|papersize|none|<paper size>|<lengths>
	TraceMode           bool
	ComputeProgress     bool
	HashAlgorithmName   string // empty disables the hash-before-render shortcut
	IgnoreSpecialsList  string // comma-separated special prefixes, or "*" for all
	PageRangeExpression string
	TransformCommands   string // page transformation matrix expression, e.g. "rotate(90)"
	OutputPattern       string // printf-style pattern with one verb for the page number
}
