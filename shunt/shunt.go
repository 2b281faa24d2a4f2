// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package shunt implements the bounded competitive shunting equation that
drives all laminar layer dynamics:

	dx/dt = -A*x + (B - x)*Ie - (x - F)*Ii

where A is the passive decay rate, B the excitatory ceiling, F the
inhibitory floor (the classical -D hyperpolarization bound), Ie the
excitatory drive and Ii the inhibitory drive.  The multiplicative
(shunting) form automatically bounds activation to [F, B] under bounded
inputs, and implements divisive normalization in competitive circuits.

Integration is explicit forward Euler with a caller-supplied time step,
with a hard clip to the activation range every step as a numerical
safety net.  A Lyapunov-style energy functional provides a convergence
predicate for settling loops.
*/
package shunt

import (
	"fmt"

	"github.com/emer/etable/minmax"
)

// Params are the shunting equation parameters for one population of units.
// All rates are per millisecond of simulated time.
type Params struct {
	Decay     float64 `def:"0.1" min:"0" desc:"A: passive decay rate pulling activation back toward zero -- reciprocal of the population time constant in msec"`
	Ceiling   float64 `def:"1" desc:"B: excitatory saturation ceiling -- excitation drives activation toward this upper bound"`
	Floor     float64 `def:"0" desc:"F: inhibitory floor (= -D in the classical formulation) -- inhibition drives activation toward this lower bound -- must be <= Ceiling"`
	InitAct   float64 `def:"0" desc:"initial activation value that Reset restores -- must lie within [Floor, Ceiling]"`
	EnergyTol float64 `def:"1e-6" min:"0" desc:"maximum absolute energy change per step that still counts as stable for the convergence predicate"`
	EnergyWin int     `def:"3" min:"1" desc:"number of consecutive stable steps required before Converged reports true"`

	Range minmax.F64 `inactive:"+" view:"-" json:"-" xml:"-" desc:"activation range = [Floor, Ceiling] -- updated from those values"`
}

func (sp *Params) Defaults() {
	sp.Decay = 0.1
	sp.Ceiling = 1
	sp.Floor = 0
	sp.InitAct = 0
	sp.EnergyTol = 1e-6
	sp.EnergyWin = 3
	sp.Update()
}

// Update must be called after any changes to parameters.
func (sp *Params) Update() {
	sp.Range.Set(sp.Floor, sp.Ceiling)
}

// Validate returns an error if parameters are outside their permitted ranges.
func (sp *Params) Validate() error {
	if sp.Floor > sp.Ceiling {
		return fmt.Errorf("shunt.Params: Floor %g > Ceiling %g", sp.Floor, sp.Ceiling)
	}
	if sp.Decay < 0 {
		return fmt.Errorf("shunt.Params: Decay must be >= 0, got %g", sp.Decay)
	}
	if sp.InitAct < sp.Floor || sp.InitAct > sp.Ceiling {
		return fmt.Errorf("shunt.Params: InitAct %g outside [%g, %g]", sp.InitAct, sp.Floor, sp.Ceiling)
	}
	if sp.EnergyWin < 1 {
		return fmt.Errorf("shunt.Params: EnergyWin must be >= 1, got %d", sp.EnergyWin)
	}
	return nil
}

// Step computes one forward Euler step of the shunting equation for a
// single unit with activation x, excitatory drive exc and inhibitory
// drive inh, returning the new activation clipped to [Floor, Ceiling].
func (sp *Params) Step(x, exc, inh, dt float64) float64 {
	dx := -sp.Decay*x + (sp.Ceiling-x)*exc - (x-sp.Floor)*inh
	return sp.Range.ClipVal(x + dt*dx)
}

// State is the activation state for one population of shunting units.
// Each owner (layer) holds exactly one State and is the only mutator.
type State struct {
	Params *Params   `desc:"the shared parameters -- owned by the layer, not by this state"`
	Act    []float64 `desc:"per-unit activation, always within [Floor, Ceiling]"`

	energy   float64 // energy after the most recent step
	hasPrev  bool    // energy is valid for comparison
	stableCt int     // consecutive steps with |dE| <= EnergyTol
}

// NewState returns a new State of n units using the given params,
// initialized to InitAct.
func NewState(sp *Params, n int) *State {
	st := &State{Params: sp, Act: make([]float64, n)}
	st.Reset()
	return st
}

// Reset sets all units back to the initial activation constant and
// clears the convergence tracking state.
func (st *State) Reset() {
	for i := range st.Act {
		st.Act[i] = st.Params.InitAct
	}
	st.energy = 0
	st.hasPrev = false
	st.stableCt = 0
}

// Energy returns the Lyapunov-style energy functional over current
// activations: E = 0.5 * sum(x^2).  At a steady state of the shunting
// system this quantity is non-increasing step to step.
func (st *State) Energy() float64 {
	e := 0.0
	for _, x := range st.Act {
		e += x * x
	}
	return 0.5 * e
}

// Converged reports whether the energy functional has been stable
// (change within EnergyTol) for EnergyWin consecutive steps, signaling
// that a settling loop may stop.
func (st *State) Converged() bool {
	return st.stableCt >= st.Params.EnergyWin
}

// Integrate advances all units one Euler step given per-unit excitatory
// and inhibitory drives.  Both inputs must match the state size and dt
// must be positive.
func (st *State) Integrate(exc, inh []float64, dt float64) error {
	n := len(st.Act)
	if len(exc) != n {
		return fmt.Errorf("shunt.Integrate: excitatory input dimension %d != state size %d", len(exc), n)
	}
	if len(inh) != n {
		return fmt.Errorf("shunt.Integrate: inhibitory input dimension %d != state size %d", len(inh), n)
	}
	if dt <= 0 {
		return fmt.Errorf("shunt.Integrate: time step must be > 0, got %g", dt)
	}
	sp := st.Params
	for i := range st.Act {
		st.Act[i] = sp.Step(st.Act[i], exc[i], inh[i], dt)
	}
	nrg := st.Energy()
	if st.hasPrev {
		de := nrg - st.energy
		if de < 0 {
			de = -de
		}
		if de <= sp.EnergyTol {
			st.stableCt++
		} else {
			st.stableCt = 0
		}
	}
	st.energy = nrg
	st.hasPrev = true
	return nil
}

// Settle integrates with fixed drives until the convergence predicate
// fires or maxSteps is reached, returning the number of steps taken.
func (st *State) Settle(exc, inh []float64, dt float64, maxSteps int) (int, error) {
	for s := 0; s < maxSteps; s++ {
		if err := st.Integrate(exc, inh, dt); err != nil {
			return s, err
		}
		if st.Converged() {
			return s + 1, nil
		}
	}
	return maxSteps, nil
}

// Compete runs one step of on-center off-surround shunting competition
// over the given input: each unit is excited by its own input and
// inhibited by the average of the competing inputs scaled by the
// inhibition gain gi.  This is the divisive-normalization workhorse
// used by the laminar layers for lateral processing.
func (st *State) Compete(input []float64, gi, dt float64) error {
	n := len(st.Act)
	if len(input) != n {
		return fmt.Errorf("shunt.Compete: input dimension %d != state size %d", len(input), n)
	}
	sum := 0.0
	for _, v := range input {
		sum += v
	}
	div := float64(n - 1)
	if div < 1 {
		div = 1
	}
	exc := input
	inh := make([]float64, n)
	for i := range inh {
		inh[i] = gi * (sum - input[i]) / div
	}
	return st.Integrate(exc, inh, dt)
}
