// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package learn

import (
	"fmt"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/minmax"
)

// WtMatrix is a dense matrix of synaptic strengths, row-major with
// rows = receiving (post-synaptic) units and columns = sending
// (pre-synaptic) units.  It is mutated in place by the learning rules
// and bounded to the configured weight range after every update.
type WtMatrix struct {
	Rows int       `json:"rows" desc:"number of receiving (post-synaptic) units"`
	Cols int       `json:"cols" desc:"number of sending (pre-synaptic) units"`
	Wts  []float64 `json:"wts" desc:"weight values, row-major: Wts[r*Cols+c]"`
}

// NewWtMatrix returns a new zero-valued matrix of the given shape.
func NewWtMatrix(rows, cols int) *WtMatrix {
	return &WtMatrix{Rows: rows, Cols: cols, Wts: make([]float64, rows*cols)}
}

// At returns the weight from sending unit c to receiving unit r.
func (wm *WtMatrix) At(r, c int) float64 { return wm.Wts[r*wm.Cols+c] }

// Set sets the weight from sending unit c to receiving unit r.
func (wm *WtMatrix) Set(r, c int, v float64) { wm.Wts[r*wm.Cols+c] = v }

// SetAll sets every weight to v.
func (wm *WtMatrix) SetAll(v float64) {
	for i := range wm.Wts {
		wm.Wts[i] = v
	}
}

// Bound clamps every weight into the given range.
func (wm *WtMatrix) Bound(rng minmax.F64) {
	for i, w := range wm.Wts {
		wm.Wts[i] = rng.ClipVal(w)
	}
}

// Apply computes out = W * in, the weighted drive onto each receiving
// unit.  out must have Rows elements and in must have Cols elements.
func (wm *WtMatrix) Apply(in, out []float64) error {
	if len(in) != wm.Cols {
		return fmt.Errorf("learn.Apply: input dimension %d != matrix cols %d", len(in), wm.Cols)
	}
	if len(out) != wm.Rows {
		return fmt.Errorf("learn.Apply: output dimension %d != matrix rows %d", len(out), wm.Rows)
	}
	for r := 0; r < wm.Rows; r++ {
		row := wm.Wts[r*wm.Cols : (r+1)*wm.Cols]
		sum := 0.0
		for c, w := range row {
			sum += w * in[c]
		}
		out[r] = sum
	}
	return nil
}

// CopyFrom copies weight values from another matrix of the same shape.
func (wm *WtMatrix) CopyFrom(fm *WtMatrix) error {
	if wm.Rows != fm.Rows || wm.Cols != fm.Cols {
		return fmt.Errorf("learn.CopyFrom: shape %dx%d != source %dx%d", wm.Rows, wm.Cols, fm.Rows, fm.Cols)
	}
	copy(wm.Wts, fm.Wts)
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  WtInitParams

// WtInitParams are weight initialization parameters -- the random
// distribution that fresh weights are drawn from.
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 0.5
	wp.Var = 0.25
	wp.Dist = erand.Uniform
}

// InitWts initializes all weights in the matrix from the distribution,
// clipped to the given weight range.
func (wp *WtInitParams) InitWts(wm *WtMatrix, rng minmax.F64) {
	for i := range wm.Wts {
		wm.Wts[i] = rng.ClipVal(float64(wp.Gen(-1)))
	}
}
