/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dvisvgm-go/dvi2svg/common"
)

func main() {
	bboxFormat := flag.String("bbox", "min", "bboxFormatString: min|dvi|preview|papersize|none|<paper size>|<lengths>")
	pages := flag.String("pages", "1-", "page range expression, e.g. \"1,3-5,-1\"")
	hashAlgo := flag.String("hash", "", "content hash algorithm name enabling the unchanged-page skip (empty disables it)")
	ignoreSpecials := flag.String("ignore-specials", "", "comma-separated special prefixes to skip, or \"*\" for all")
	transformCmds := flag.String("transform", "", "page transformation expression, e.g. \"rotate(90)\"")
	outputPattern := flag.String("o", "page-%d.svg", "printf-style output pattern with one verb for the page number")
	progress := flag.Bool("progress", false, "log a line per completed page")
	verbosity := flag.Int("v", int(common.LogLevelWarning), "log level: 0=error 1=warning 2=notice 3=info 4=debug 5=trace")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dvi2svg [flags] input.dvi")
		flag.PrintDefaults()
		os.Exit(2)
	}
	input := flag.Arg(0)

	common.SetLogger(common.NewConsoleLogger(common.LogLevel(*verbosity)))

	cfg := Config{
		BBoxFormat:          *bboxFormat,
		ComputeProgress:     *progress,
		HashAlgorithmName:   *hashAlgo,
		IgnoreSpecialsList:  *ignoreSpecials,
		PageRangeExpression: *pages,
		TransformCommands:   *transformCmds,
		OutputPattern:       *outputPattern,
	}

	driver, err := NewDriver(cfg)
	if err != nil {
		common.Log.Error("%v", err)
		os.Exit(1)
	}
	if err := driver.Run(input); err != nil {
		common.Log.Error("%v", err)
		os.Exit(1)
	}
}
