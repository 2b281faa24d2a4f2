// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"fmt"

	"github.com/Hellblazer/ART-sub006/learn"
	"github.com/Hellblazer/ART-sub006/shunt"
)

// Layer is one population of units in the laminar circuit.  The Prm
// field holds one of the five parameter variants and determines the
// layer class: all routing entry points dispatch on it, and calling an
// entry point a class does not support is an error, not a no-op.
//
// A layer owns its shunting state, its output activation, and its
// incoming weight matrix (rows = this layer's units, cols = the units
// of whatever pattern the circuit pairs it with for learning).
type Layer struct {
	Nm    string          `desc:"layer name, used in checkpoints and error messages"`
	Prm   LayerParams     `desc:"parameter variant -- determines the layer class and all routing behavior"`
	Shunt *shunt.State    `desc:"shunting dynamics state"`
	Act   []float64       `desc:"most recent output activation"`
	Wts   *learn.WtMatrix `desc:"incoming synaptic weights"`
	LrnSt *learn.State    `desc:"per-matrix learning state (BCM thresholds)"`
	Stats learn.Stats     `desc:"learning statistics"`

	buDrive []float64 // bottom-up drive stored for reuse by top-down passes
	mod     []float64 // Layer 6 persistent modulation state
	expect  []float64 // weight-derived expectation scratch
	drive   []float64 // drive computation scratch
	zeros   []float64 // zero inhibition vector
}

// NewLayer returns a new layer of the given size using the given
// parameter variant.  Parameters are validated and weights initialized
// from the standard random distribution.
func NewLayer(nm string, prm LayerParams, size int) (*Layer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("laminar.NewLayer: %s size must be > 0, got %d: %w", nm, size, ErrParamRange)
	}
	if err := prm.Validate(); err != nil {
		return nil, fmt.Errorf("laminar.NewLayer: %s: %w", nm, err)
	}
	ly := &Layer{Nm: nm, Prm: prm}
	ly.Shunt = shunt.NewState(prm.ShuntParams(), size)
	ly.Act = make([]float64, size)
	ly.buDrive = make([]float64, size)
	ly.mod = make([]float64, size)
	ly.expect = make([]float64, size)
	ly.drive = make([]float64, size)
	ly.zeros = make([]float64, size)
	copy(ly.Act, ly.Shunt.Act)

	ly.Wts = learn.NewWtMatrix(size, size)
	wi := learn.WtInitParams{}
	wi.Defaults()
	wi.InitWts(ly.Wts, prm.LearnParams().WtRange)
	ly.LrnSt = learn.NewState(size)
	return ly, nil
}

// Size returns the number of units.
func (ly *Layer) Size() int { return len(ly.Act) }

// Class returns the laminar layer class.
func (ly *Layer) Class() LayerClasses { return ly.Prm.Class() }

// Reset restores the layer's dynamic state to initial conditions.
// Learned weights and statistics persist across resets.
func (ly *Layer) Reset() {
	ly.Shunt.Reset()
	copy(ly.Act, ly.Shunt.Act)
	for i := range ly.buDrive {
		ly.buDrive[i] = 0
		ly.mod[i] = 0
	}
	ly.LrnSt.Reset()
}

// checkDims validates a routing input against the layer size and step.
func (ly *Layer) checkDims(op string, input []float64, dt float64) error {
	if len(input) != ly.Size() {
		return fmt.Errorf("laminar.%s: %s input dimension %d != layer size %d: %w",
			op, ly.Nm, len(input), ly.Size(), ErrDimMismatch)
	}
	if dt <= 0 {
		return fmt.Errorf("laminar.%s: %s time step must be > 0, got %g: %w", op, ly.Nm, dt, ErrParamRange)
	}
	return nil
}

// ProcessBottomUp routes a bottom-up (driving) input pattern through
// the layer and returns the resulting activation.  Supported by Layer
// 4 (sigmoid compression of the driving input), Layer 2/3 (shunting
// competition over the drive) and Layer 5 (output amplification).
// The returned slice is the layer's live activation buffer.
func (ly *Layer) ProcessBottomUp(input []float64, dt float64) ([]float64, error) {
	if err := ly.checkDims("ProcessBottomUp", input, dt); err != nil {
		return nil, err
	}
	switch p := ly.Prm.(type) {
	case *Layer4Params:
		return ly.bottomUp4(p, input, dt)
	case *Layer23Params:
		return ly.bottomUp23(p, input, dt)
	case *Layer5Params:
		return ly.output5(p, input, dt)
	default:
		return nil, fmt.Errorf("laminar.ProcessBottomUp: %s (%v) does not process bottom-up input", ly.Nm, ly.Class())
	}
}

// ProcessTopDown routes a top-down signal through the layer: Layer 1
// integrates it as slow sustained priming, Layer 2/3 combines it with
// its stored bottom-up drive and re-competes, and Layer 4 applies it
// as weak multiplicative modulation of its stored drive.
func (ly *Layer) ProcessTopDown(signal []float64, dt float64) ([]float64, error) {
	if err := ly.checkDims("ProcessTopDown", signal, dt); err != nil {
		return nil, err
	}
	switch p := ly.Prm.(type) {
	case *Layer1Params:
		return ly.prime1(p, signal, dt)
	case *Layer23Params:
		return ly.topDown23(p, signal, dt)
	case *Layer4Params:
		return ly.topDown4(p, signal)
	default:
		return nil, fmt.Errorf("laminar.ProcessTopDown: %s (%v) does not process top-down input", ly.Nm, ly.Class())
	}
}

// ProcessLateral routes a horizontal grouping pattern: Layer 2/3 adds
// it to the stored bottom-up drive and re-runs the competition.
func (ly *Layer) ProcessLateral(grouping []float64, dt float64) ([]float64, error) {
	if err := ly.checkDims("ProcessLateral", grouping, dt); err != nil {
		return nil, err
	}
	p, ok := ly.Prm.(*Layer23Params)
	if !ok {
		return nil, fmt.Errorf("laminar.ProcessLateral: %s (%v) does not process lateral input", ly.Nm, ly.Class())
	}
	return ly.lateral23(p, grouping, dt)
}

// Modulate is the Layer 6 matching operation: bottom-up signals with
// support above the floor are modulated by the on-center off-surround
// of the expectation; signals at or below the floor produce exactly
// zero output regardless of the expectation.
func (ly *Layer) Modulate(bottomUp, expect []float64, dt float64) ([]float64, error) {
	if err := ly.checkDims("Modulate", bottomUp, dt); err != nil {
		return nil, err
	}
	if len(expect) != ly.Size() {
		return nil, fmt.Errorf("laminar.Modulate: %s expectation dimension %d != layer size %d: %w",
			ly.Nm, len(expect), ly.Size(), ErrDimMismatch)
	}
	p, ok := ly.Prm.(*Layer6Params)
	if !ok {
		return nil, fmt.Errorf("laminar.Modulate: %s (%v) is not the matching layer", ly.Nm, ly.Class())
	}
	return ly.modulate6(p, bottomUp, expect, dt)
}

// Expectation applies the layer's weight matrix to the given pattern,
// producing the learned top-down expectation.  The returned slice is
// a live scratch buffer valid until the next Expectation call.
func (ly *Layer) Expectation(in []float64) ([]float64, error) {
	if err := ly.Wts.Apply(in, ly.expect); err != nil {
		return nil, err
	}
	return ly.expect, nil
}

// UpdateWeights applies the layer's learning rule for one gated event,
// with the given pre-synaptic pattern and the layer's current
// activation as the post-synaptic pattern.  Returns the mean absolute
// weight change.
func (ly *Layer) UpdateWeights(pre []float64, ctx *learn.Context) (float64, error) {
	lp := ly.Prm.LearnParams()
	avg, err := lp.DWt(ly.Wts, ly.LrnSt, pre, ly.Act, lp.Lrate, ctx)
	if err != nil {
		return 0, fmt.Errorf("laminar.UpdateWeights: %s: %w", ly.Nm, err)
	}
	tm := 0.0
	if ctx != nil {
		tm = ctx.Time
	}
	ly.Stats.RecordGated(avg, tm)
	return avg, nil
}

// SkipLearning records a learning opportunity rejected by the gate.
func (ly *Layer) SkipLearning(time float64) {
	ly.Stats.RecordSkipped(time)
}
