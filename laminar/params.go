// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"errors"
	"fmt"

	"github.com/Hellblazer/ART-sub006/learn"
	"github.com/Hellblazer/ART-sub006/shunt"
)

// Sentinel errors for the two failure families: configuration values
// outside their biologically-derived ranges, and pattern dimensions
// that do not match the consuming component.  Both fail fast at
// construction or first call; nothing is silently clamped.
var (
	ErrParamRange  = errors.New("parameter out of range")
	ErrDimMismatch = errors.New("dimension mismatch")
)

// LayerClasses enumerates the laminar layer variants.  This is a
// closed set: every LayerParams implementation corresponds to exactly
// one class and all per-class dispatch is exhaustive over it.
type LayerClasses int

const (
	// Layer1Class is the very slow (200-1000 msec) sustained top-down
	// priming layer.
	Layer1Class LayerClasses = iota

	// Layer23Class is the medium-speed (30-150 msec) integration layer
	// combining bottom-up drive, top-down priming and horizontal
	// grouping.
	Layer23Class

	// Layer4Class is the fast (10-50 msec) driving input layer.
	Layer4Class

	// Layer5Class is the output amplification / burst layer.
	Layer5Class

	// Layer6Class is the ART-matching modulation layer.
	Layer6Class

	LayerClassesN
)

var layerClassesNames = [LayerClassesN]string{"Layer1", "Layer23", "Layer4", "Layer5", "Layer6"}

func (lc LayerClasses) String() string {
	if lc < 0 || lc >= LayerClassesN {
		return fmt.Sprintf("LayerClasses(%d)", int(lc))
	}
	return layerClassesNames[lc]
}

// LayerParams is the interface over the closed set of per-layer
// parameter variants.  Each variant carries its own shunting and
// learning parameters plus layer-specific routing constants, and
// validates itself against biologically-derived ranges at circuit
// construction.
type LayerParams interface {
	// Class returns which laminar layer this parameter variant is for.
	Class() LayerClasses

	// Validate returns an error if any value is outside its permitted range.
	Validate() error

	// ShuntParams returns the shunting dynamics parameters.
	ShuntParams() *shunt.Params

	// LearnParams returns the learning rule parameters.
	LearnParams() *learn.Params
}

// timeConstErr formats the standard time-constant range violation.
func timeConstErr(cls LayerClasses, tc, lo, hi float64) error {
	return fmt.Errorf("laminar: %v TimeConst %g msec outside [%g, %g]: %w", cls, tc, lo, hi, ErrParamRange)
}
