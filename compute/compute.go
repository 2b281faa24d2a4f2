// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package compute is the acceleration boundary for the dynamics inner
loops.  A Backend integrates shunting state over a number of steps and
declares its numeric precision and the tolerance under which its
results count as equivalent to the float64 sequential reference.

Backends available here are the Sequential reference and a float32
vectorized path; GPU backends plug in behind the same interface.
Selection is by an explicit Environment value computed once and passed
in, not a process-wide singleton: the preferred accelerated backend is
chosen when available, falling back to the sequential reference, and
accelerated paths are disabled under automated/headless test execution.

Batch parallelism across independent circuits (no shared mutable state)
is provided by Batcher.
*/
package compute

import (
	"fmt"

	"github.com/Hellblazer/ART-sub006/shunt"
)

// Precisions are the numeric precisions a backend can execute in.
type Precisions int

const (
	// Float64 is double precision, the reference precision.
	Float64 Precisions = iota

	// Float32 is single precision, used by vectorized and GPU paths.
	Float32

	PrecisionsN
)

var precisionsNames = [PrecisionsN]string{"Float64", "Float32"}

func (pr Precisions) String() string {
	if pr < 0 || pr >= PrecisionsN {
		return fmt.Sprintf("Precisions(%d)", int(pr))
	}
	return precisionsNames[pr]
}

// Tolerance bands for comparing a backend against the sequential
// reference: same-precision execution must agree far more tightly than
// a double-to-single precision crossing.
const (
	SameTol  = 1e-10
	CrossTol = 1e-5
)

// Backend integrates shunting dynamics for one population over a fixed
// number of Euler steps with constant drives.  Implementations must be
// deterministic: the same inputs always produce the same outputs.
type Backend interface {
	// Name identifies the backend for selection and reporting.
	Name() string

	// Precision is the numeric precision this backend executes in.
	Precision() Precisions

	// Tolerance is the maximum per-unit absolute difference from the
	// sequential reference under which this backend's results are
	// considered equivalent.
	Tolerance() float64

	// Integrate advances the state by steps Euler steps of size dt with
	// the given constant drives, writing results back into st.Act.
	Integrate(st *shunt.State, exc, inh []float64, dt float64, steps int) error
}

// Sequential is the float64 reference backend: it simply runs the
// shunt integrator.  All other backends are validated against it.
type Sequential struct{}

func (sq *Sequential) Name() string          { return "Sequential" }
func (sq *Sequential) Precision() Precisions { return Float64 }
func (sq *Sequential) Tolerance() float64    { return SameTol }

func (sq *Sequential) Integrate(st *shunt.State, exc, inh []float64, dt float64, steps int) error {
	for s := 0; s < steps; s++ {
		if err := st.Integrate(exc, inh, dt); err != nil {
			return err
		}
	}
	return nil
}
