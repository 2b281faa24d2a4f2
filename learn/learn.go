// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package learn implements the synaptic weight matrix and the family of
local learning rules used by the laminar layers: plain Hebbian, BCM
with a per-unit sliding modification threshold, Instar and Outstar
competitive rules, and a resonance-gated Hebbian rule whose effective
rate is scaled by the consciousness-likelihood of the current resonance
state.

All rules mutate the weight matrix in place and bound it to the
configured weight range after every update.  The package also provides
a fixed pool of pre-allocated matrices for high-frequency training
loops, learning statistics, and JSON checkpointing of weights and
statistics.
*/
package learn

import (
	"fmt"
	"math"

	"github.com/emer/etable/minmax"
)

// Rules are the different learning rule variants.
type Rules int

const (
	// Hebbian is the plain correlational rule: dw = rate * pre * post.
	Hebbian Rules = iota

	// BCM scales the Hebbian term by (post - theta) where theta is a
	// per-receiving-unit sliding threshold tracking the recent average
	// of post^2, producing both potentiation and depression.
	BCM

	// Instar moves weights toward the pre-synaptic pattern in
	// proportion to post-synaptic activity: dw = rate * post * (pre - w).
	Instar

	// Outstar moves weights toward the post-synaptic pattern in
	// proportion to pre-synaptic activity: dw = rate * pre * (post - w).
	Outstar

	// ResonanceGated is Hebbian learning scaled by the
	// consciousness-likelihood of the current resonance state, so that
	// weight change only occurs during resonant processing.
	ResonanceGated

	RulesN
)

var rulesNames = [RulesN]string{"Hebbian", "BCM", "Instar", "Outstar", "ResonanceGated"}

func (r Rules) String() string {
	if r < 0 || r >= RulesN {
		return fmt.Sprintf("Rules(%d)", int(r))
	}
	return rulesNames[r]
}

//////////////////////////////////////////////////////////////////////////////////////
//  Params

// Params are the learning parameters for one weight matrix.
type Params struct {
	Rule     Rules      `desc:"which learning rule to apply"`
	Lrate    float64    `def:"0.1" min:"0" max:"1" desc:"base learning rate -- must be in (0, 1]"`
	WtRange  minmax.F64 `desc:"permitted weight range -- weights are clipped into this range after every update"`
	ThetaTau float64    `def:"10" min:"1" desc:"BCM only: time constant, in learning events, for the sliding modification threshold tracking average post^2"`

	ThetaDt float64 `inactive:"+" view:"-" json:"-" xml:"-" desc:"rate = 1 / ThetaTau"`
}

func (lp *Params) Defaults() {
	lp.Rule = Hebbian
	lp.Lrate = 0.1
	lp.WtRange.Set(0, 1)
	lp.ThetaTau = 10
	lp.Update()
}

// Update must be called after any changes to parameters.
func (lp *Params) Update() {
	lp.ThetaDt = 1 / lp.ThetaTau
}

// Validate returns an error if parameters are outside permitted ranges.
func (lp *Params) Validate() error {
	if lp.Rule < 0 || lp.Rule >= RulesN {
		return fmt.Errorf("learn.Params: unknown rule %d", int(lp.Rule))
	}
	if lp.Lrate <= 0 || lp.Lrate > 1 {
		return fmt.Errorf("learn.Params: Lrate must be in (0, 1], got %g", lp.Lrate)
	}
	if lp.WtRange.Min > lp.WtRange.Max {
		return fmt.Errorf("learn.Params: WtRange min %g > max %g", lp.WtRange.Min, lp.WtRange.Max)
	}
	if lp.ThetaTau < 1 {
		return fmt.Errorf("learn.Params: ThetaTau must be >= 1, got %g", lp.ThetaTau)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  State, Context

// State is the mutable per-matrix learning state (currently the BCM
// sliding thresholds, one per receiving unit).
type State struct {
	Theta []float64 `desc:"BCM sliding modification threshold per receiving unit -- tracks average of post^2"`
}

// NewState returns learning state for a matrix with n receiving units.
func NewState(n int) *State {
	return &State{Theta: make([]float64, n)}
}

// Reset clears the sliding thresholds.
func (ls *State) Reset() {
	for i := range ls.Theta {
		ls.Theta[i] = 0
	}
}

// Context carries the per-event gating information that accompanies one
// learning call: the resonance likelihood, the attention strength
// derived from Layer 1, and the event time.  It is produced by the
// circuit's gating logic and read-only here.
type Context struct {
	Likelihood float64 `desc:"consciousness-likelihood of the resonance state in effect for this event"`
	Attention  float64 `desc:"attention strength (norm of Layer 1 output) for this event"`
	Time       float64 `desc:"simulation time of this event in seconds"`
}

//////////////////////////////////////////////////////////////////////////////////////
//  DWt

// DWt applies one learning event to the weight matrix given pre- and
// post-synaptic activation patterns, using rate as the effective
// learning rate (the layer's base rate, already modulated by the
// caller).  ctx may be nil for rules that do not use it; it is required
// for ResonanceGated.  The matrix is bounded to WtRange afterward.
// Returns the mean absolute weight change.
func (lp *Params) DWt(wm *WtMatrix, ls *State, pre, post []float64, rate float64, ctx *Context) (float64, error) {
	if len(pre) != wm.Cols {
		return 0, fmt.Errorf("learn.DWt: pre dimension %d != matrix cols %d", len(pre), wm.Cols)
	}
	if len(post) != wm.Rows {
		return 0, fmt.Errorf("learn.DWt: post dimension %d != matrix rows %d", len(post), wm.Rows)
	}
	if rate <= 0 || rate > 1 {
		return 0, fmt.Errorf("learn.DWt: rate must be in (0, 1], got %g", rate)
	}
	if lp.Rule == ResonanceGated && ctx == nil {
		return 0, fmt.Errorf("learn.DWt: ResonanceGated rule requires a learning context")
	}
	if lp.Rule == BCM {
		if ls == nil || len(ls.Theta) != wm.Rows {
			return 0, fmt.Errorf("learn.DWt: BCM rule requires state with %d thresholds", wm.Rows)
		}
		for r, p := range post {
			ls.Theta[r] += lp.ThetaDt * (p*p - ls.Theta[r])
		}
	}

	tot := 0.0
	for r := 0; r < wm.Rows; r++ {
		row := wm.Wts[r*wm.Cols : (r+1)*wm.Cols]
		po := post[r]
		for c := range row {
			pr := pre[c]
			var dw float64
			switch lp.Rule {
			case Hebbian:
				dw = rate * pr * po
			case BCM:
				dw = rate * pr * po * (po - ls.Theta[r])
			case Instar:
				dw = rate * po * (pr - row[c])
			case Outstar:
				dw = rate * pr * (po - row[c])
			case ResonanceGated:
				dw = rate * ctx.Likelihood * pr * po
			}
			row[c] = lp.WtRange.ClipVal(row[c] + dw)
			tot += math.Abs(dw)
		}
	}
	n := wm.Rows * wm.Cols
	if n == 0 {
		return 0, nil
	}
	return tot / float64(n), nil
}
