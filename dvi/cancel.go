/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package dvi

import "sync/atomic"

// CancelFlag is the process-wide signal a driver polls between opcode
// executions (spec §5's "single process-wide signal flag"). It has no
// relation to the per-page register stack; a single instance is shared
// across every page of a run. The zero value is ready to use (not
// cancelled).
type CancelFlag struct {
	flag atomic.Bool
}

// Cancel marks the flag set; every subsequent poll reports cancelled until
// Reset is called. Safe to call from any goroutine (e.g. a signal handler),
// though the spec's execution model itself is single-threaded.
func (c *CancelFlag) Cancel() { c.flag.Store(true) }

// Cancelled reports whether Cancel has been called since the last Reset.
func (c *CancelFlag) Cancelled() bool { return c.flag.Load() }

// Reset clears the flag, e.g. between independent driver runs sharing a
// process.
func (c *CancelFlag) Reset() { c.flag.Store(false) }
