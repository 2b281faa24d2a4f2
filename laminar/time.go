// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

// Time manages the circuit's simulation time: one Cycle of processing
// advances it by TimePerCyc seconds.
type Time struct {
	Time       float64 `desc:"accumulated simulated time in seconds"`
	Cycle      int     `desc:"cycle counter, reset by Reset"`
	CycleTot   int     `desc:"total cycle counter, never reset"`
	TimePerCyc float64 `def:"0.001" desc:"seconds of simulated time per cycle"`
}

// NewTime returns a new Time with default parameters.
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

func (tm *Time) Defaults() {
	tm.TimePerCyc = 0.001
}

// Reset restarts the clock, preserving the total cycle count.
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Cycle = 0
}

// CycleInc advances to the next cycle of processing.
func (tm *Time) CycleInc() {
	tm.Cycle++
	tm.CycleTot++
	tm.Time += tm.TimePerCyc
}
