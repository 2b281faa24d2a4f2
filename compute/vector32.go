// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"fmt"

	"github.com/Hellblazer/ART-sub006/shunt"
	"github.com/chewxy/math32"
	"github.com/goki/mat32"
)

// Vector32 is the single-precision data-parallel backend: the shunting
// update is evaluated in float32 with a 4-wide unrolled inner loop
// (auto-vectorizable) over pre-converted buffers, and results are
// written back to the float64 state.  Equivalence to the reference is
// the cross-precision tolerance band.
type Vector32 struct {
	act, exc, inh []float32
}

// NewVector32 returns a new float32 vectorized backend.
func NewVector32() *Vector32 { return &Vector32{} }

func (vb *Vector32) Name() string          { return "Vector32" }
func (vb *Vector32) Precision() Precisions { return Float32 }
func (vb *Vector32) Tolerance() float64    { return CrossTol }

func (vb *Vector32) ensure(n int) {
	if cap(vb.act) < n {
		vb.act = make([]float32, n)
		vb.exc = make([]float32, n)
		vb.inh = make([]float32, n)
	}
	vb.act = vb.act[:n]
	vb.exc = vb.exc[:n]
	vb.inh = vb.inh[:n]
}

func (vb *Vector32) Integrate(st *shunt.State, exc, inh []float64, dt float64, steps int) error {
	n := len(st.Act)
	if len(exc) != n || len(inh) != n {
		return fmt.Errorf("compute.Vector32: drive dimensions %d, %d != state size %d", len(exc), len(inh), n)
	}
	if dt <= 0 {
		return fmt.Errorf("compute.Vector32: time step must be > 0, got %g", dt)
	}
	sp := st.Params
	a32 := float32(sp.Decay)
	b32 := float32(sp.Ceiling)
	f32 := float32(sp.Floor)
	dt32 := float32(dt)

	vb.ensure(n)
	for i := 0; i < n; i++ {
		vb.act[i] = float32(st.Act[i])
		vb.exc[i] = float32(exc[i])
		vb.inh[i] = float32(inh[i])
	}

	n4 := n - n%4
	for s := 0; s < steps; s++ {
		for i := 0; i < n4; i += 4 {
			x0, x1, x2, x3 := vb.act[i], vb.act[i+1], vb.act[i+2], vb.act[i+3]
			x0 += dt32 * (-a32*x0 + (b32-x0)*vb.exc[i] - (x0-f32)*vb.inh[i])
			x1 += dt32 * (-a32*x1 + (b32-x1)*vb.exc[i+1] - (x1-f32)*vb.inh[i+1])
			x2 += dt32 * (-a32*x2 + (b32-x2)*vb.exc[i+2] - (x2-f32)*vb.inh[i+2])
			x3 += dt32 * (-a32*x3 + (b32-x3)*vb.exc[i+3] - (x3-f32)*vb.inh[i+3])
			vb.act[i] = mat32.Clamp(x0, f32, b32)
			vb.act[i+1] = mat32.Clamp(x1, f32, b32)
			vb.act[i+2] = mat32.Clamp(x2, f32, b32)
			vb.act[i+3] = mat32.Clamp(x3, f32, b32)
		}
		for i := n4; i < n; i++ {
			x := vb.act[i]
			x += dt32 * (-a32*x + (b32-x)*vb.exc[i] - (x-f32)*vb.inh[i])
			vb.act[i] = mat32.Clamp(x, f32, b32)
		}
	}

	for i := 0; i < n; i++ {
		st.Act[i] = float64(vb.act[i])
	}
	return nil
}

// Settle integrates in float32 until the energy functional stabilizes
// (change within the state's EnergyTol for EnergyWin consecutive steps)
// or maxSteps is reached, returning the number of steps taken.  This is
// the accelerated counterpart of shunt.State.Settle.
func (vb *Vector32) Settle(st *shunt.State, exc, inh []float64, dt float64, maxSteps int) (int, error) {
	tol := float32(st.Params.EnergyTol)
	win := st.Params.EnergyWin
	prev := float32(0)
	hasPrev := false
	stable := 0
	for s := 0; s < maxSteps; s++ {
		if err := vb.Integrate(st, exc, inh, dt, 1); err != nil {
			return s, err
		}
		nrg := float32(0)
		for _, x := range vb.act {
			nrg += x * x
		}
		nrg *= 0.5
		if hasPrev && math32.Abs(nrg-prev) <= tol {
			stable++
			if stable >= win {
				return s + 1, nil
			}
		} else if hasPrev {
			stable = 0
		}
		prev = nrg
		hasPrev = true
	}
	return maxSteps, nil
}
