// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sigmoid provides the saturating compression function used to map
unbounded feedforward drive into a bounded activation range, primarily
for the fast driving input layer (Layer 4).

The core function is the x/(x+1) form: zero drive produces exactly the
floor of the output range (no drive, no output), the initial regime is
largely linear with slope Gain, and large drives saturate smoothly just
below the ceiling.  This matches the rate-code saturation profile of
cortical driving inputs better than a symmetric logistic, which leaks
output at zero drive.
*/
package sigmoid

import "github.com/emer/etable/minmax"

// Params are the saturating compression parameters.
type Params struct {
	Gain  float64    `def:"2" min:"0" desc:"gain on the drive before compression -- sets the slope of the initial linear regime and how quickly the output saturates"`
	Range minmax.F64 `desc:"output activation range -- Min is returned exactly for any drive <= 0, and Max is the asymptote for large drive"`
}

func (sp *Params) Defaults() {
	sp.Gain = 2
	sp.Range.Set(0, 1)
	sp.Update()
}

// Update must be called after any changes to parameters.
func (sp *Params) Update() {
}

// XX1 computes the basic x/(x+1) saturating function for x >= 0.
func (sp *Params) XX1(x float64) float64 { return x / (x + 1) }

// Compress maps an unbounded drive value into [Range.Min, Range.Max].
// Drive at or below zero returns Range.Min exactly.
func (sp *Params) Compress(drive float64) float64 {
	if drive <= 0 {
		return sp.Range.Min
	}
	g := sp.Gain * drive
	return sp.Range.Min + sp.Range.Range()*sp.XX1(g)
}
