// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package learn

// Stats aggregate learning activity over a run.  They are mutated only
// by the learning call path and are read-only everywhere else.
type Stats struct {
	Events     int     `json:"events" desc:"total learning opportunities seen (gated + skipped)"`
	Gated      int     `json:"gated" desc:"events that passed the resonance / attention gate and updated weights"`
	Skipped    int     `json:"skipped" desc:"events rejected by the gate"`
	TotalDWt   float64 `json:"total_dwt" desc:"accumulated mean absolute weight change over all gated events"`
	LastAvgDWt float64 `json:"last_avg_dwt" desc:"mean absolute weight change of the most recent gated event"`
	LastTime   float64 `json:"last_time" desc:"simulation time of the most recent event in seconds"`
}

// RecordGated records a learning event that updated weights.
func (st *Stats) RecordGated(avgDWt, time float64) {
	st.Events++
	st.Gated++
	st.TotalDWt += avgDWt
	st.LastAvgDWt = avgDWt
	st.LastTime = time
}

// RecordSkipped records a learning opportunity rejected by the gate.
func (st *Stats) RecordSkipped(time float64) {
	st.Events++
	st.Skipped++
	st.LastTime = time
}

// Efficiency returns the fraction of learning opportunities that
// actually resulted in weight updates.
func (st *Stats) Efficiency() float64 {
	if st.Events == 0 {
		return 0
	}
	return float64(st.Gated) / float64(st.Events)
}

// MeanDWt returns the mean absolute weight change per gated event.
func (st *Stats) MeanDWt() float64 {
	if st.Gated == 0 {
		return 0
	}
	return st.TotalDWt / float64(st.Gated)
}

// Reset zeroes all statistics.
func (st *Stats) Reset() {
	*st = Stats{}
}
