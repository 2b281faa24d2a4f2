// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"fmt"
	"math"

	"github.com/Hellblazer/ART-sub006/shunt"
)

// ToleranceError reports a precision-tolerance violation when
// cross-validating an accelerated backend against the reference path.
// It is a validation failure, distinct from runtime faults such as
// dimension mismatches.
type ToleranceError struct {
	Backend string  // backend that produced the value
	Index   int     // unit index of the worst violation
	Got     float64 // backend value
	Want    float64 // reference value
	Tol     float64 // tolerance that was exceeded
}

func (te *ToleranceError) Error() string {
	return fmt.Sprintf("compute: %s tolerance violation at unit %d: got %g, want %g (tol %g)",
		te.Backend, te.Index, te.Got, te.Want, te.Tol)
}

// Validate compares backend results against reference values under the
// given tolerance, returning a *ToleranceError describing the worst
// violation if any unit differs by more than tol.
func Validate(name string, got, want []float64, tol float64) error {
	if len(got) != len(want) {
		return fmt.Errorf("compute.Validate: length %d != reference length %d", len(got), len(want))
	}
	worst := -1
	worstDif := tol
	for i := range got {
		dif := math.Abs(got[i] - want[i])
		if dif > worstDif {
			worstDif = dif
			worst = i
		}
	}
	if worst >= 0 {
		return &ToleranceError{Backend: name, Index: worst, Got: got[worst], Want: want[worst], Tol: tol}
	}
	return nil
}

// CrossCheck runs the given backend and the sequential reference over
// identical initial conditions and validates the results under the
// backend's declared tolerance.
func CrossCheck(bk Backend, sp *shunt.Params, init, exc, inh []float64, dt float64, steps int) error {
	ref := shunt.NewState(sp, len(init))
	copy(ref.Act, init)
	acc := shunt.NewState(sp, len(init))
	copy(acc.Act, init)

	sq := &Sequential{}
	if err := sq.Integrate(ref, exc, inh, dt, steps); err != nil {
		return err
	}
	if err := bk.Integrate(acc, exc, inh, dt, steps); err != nil {
		return err
	}
	return Validate(bk.Name(), acc.Act, ref.Act, bk.Tolerance())
}
