// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sand

import (
	"sync/atomic"
	"time"
)

// Clock provides the current timestamp, in unix seconds.
type Clock interface {
	Now() uint64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() uint64

// Now implements Clock.
func (f ClockFunc) Now() uint64 { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(func() uint64 { return uint64(time.Now().Unix()) })

// ManualClock is a clock advanced explicitly, like block timestamps.
type ManualClock struct {
	now atomic.Uint64
}

// NewManualClock creates a manual clock starting at ts.
func NewManualClock(ts uint64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(ts)
	return c
}

// Now implements Clock.
func (c *ManualClock) Now() uint64 { return c.now.Load() }

// Set moves the clock to ts.
func (c *ManualClock) Set(ts uint64) { c.now.Store(ts) }

// Advance moves the clock forward by secs and returns the new time.
func (c *ManualClock) Advance(secs uint64) uint64 { return c.now.Add(secs) }
