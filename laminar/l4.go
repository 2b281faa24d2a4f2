// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"fmt"

	"github.com/Hellblazer/ART-sub006/learn"
	"github.com/Hellblazer/ART-sub006/shunt"
	"github.com/Hellblazer/ART-sub006/sigmoid"
)

// Layer4Params parameterize the fast driving input layer.  Bottom-up
// input is gain-scaled and sigmoid-compressed, so zero input produces
// output exactly at the activation floor, with optional lateral
// shunting competition on top.  Top-down signals only weakly modulate
// the stored drive and can never create activation on their own.
type Layer4Params struct {
	TimeConst float64 `def:"20" min:"10" max:"50" desc:"membrane time constant in msec -- the fast driving dynamics -- Shunt.Decay is derived as its reciprocal"`
	Driving   float64 `def:"1.5" min:"0" desc:"gain on the chunked bottom-up input before compression"`
	TopDown   float64 `def:"0.1" min:"0" max:"1" desc:"gain on top-down modulation -- kept weak so expectation biases but never drives"`
	LateralGi float64 `def:"0" min:"0" desc:"lateral inhibition gain -- 0 disables competition, giving pure feedforward compression"`
	Steps     int     `def:"5" min:"1" desc:"integration steps per process call when lateral competition is enabled"`

	Sig   sigmoid.Params `view:"inline" desc:"saturating compression of the driving input"`
	Shunt shunt.Params   `view:"inline" desc:"shunting dynamics parameters"`
	Learn learn.Params   `view:"inline" desc:"learning rule parameters -- fast rate for feature tuning"`
}

func (p *Layer4Params) Defaults() {
	p.TimeConst = 20
	p.Driving = 1.5
	p.TopDown = 0.1
	p.LateralGi = 0
	p.Steps = 5
	p.Sig.Defaults()
	p.Shunt.Defaults()
	p.Learn.Defaults()
	p.Learn.Rule = learn.Instar
	p.Learn.Lrate = 0.2
	p.Update()
}

// Update must be called after any changes to parameters.
func (p *Layer4Params) Update() {
	if p.TimeConst > 0 {
		p.Shunt.Decay = 1 / p.TimeConst
	}
	p.Sig.Range.Set(p.Shunt.Floor, p.Shunt.Ceiling)
	p.Sig.Update()
	p.Shunt.Update()
	p.Learn.Update()
}

func (p *Layer4Params) Class() LayerClasses { return Layer4Class }
func (p *Layer4Params) ShuntParams() *shunt.Params { return &p.Shunt }
func (p *Layer4Params) LearnParams() *learn.Params { return &p.Learn }

func (p *Layer4Params) Validate() error {
	if p.TimeConst < 10 || p.TimeConst > 50 {
		return timeConstErr(Layer4Class, p.TimeConst, 10, 50)
	}
	if p.Driving < 0 {
		return fmt.Errorf("laminar: Layer4 Driving must be >= 0, got %g: %w", p.Driving, ErrParamRange)
	}
	if p.TopDown < 0 || p.TopDown > 1 {
		return fmt.Errorf("laminar: Layer4 TopDown must be in [0, 1], got %g: %w", p.TopDown, ErrParamRange)
	}
	if p.LateralGi < 0 {
		return fmt.Errorf("laminar: Layer4 LateralGi must be >= 0, got %g: %w", p.LateralGi, ErrParamRange)
	}
	if p.Steps < 1 {
		return fmt.Errorf("laminar: Layer4 Steps must be >= 1, got %d: %w", p.Steps, ErrParamRange)
	}
	if err := p.Shunt.Validate(); err != nil {
		return err
	}
	return p.Learn.Validate()
}

// bottomUp4 compresses the driving input and optionally runs lateral
// competition over it.  With no competition the compressed drive is
// the output directly, so zero input yields the floor exactly.
func (ly *Layer) bottomUp4(p *Layer4Params, input []float64, dt float64) ([]float64, error) {
	for i, v := range input {
		ly.drive[i] = p.Sig.Compress(p.Driving * v)
	}
	copy(ly.buDrive, ly.drive)
	if p.LateralGi > 0 {
		for s := 0; s < p.Steps; s++ {
			if err := ly.Shunt.Compete(ly.drive, p.LateralGi, dt); err != nil {
				return nil, err
			}
		}
		copy(ly.Act, ly.Shunt.Act)
	} else {
		copy(ly.Act, ly.drive)
	}
	return ly.Act, nil
}

// topDown4 applies weak multiplicative modulation of the stored
// bottom-up drive.  Units with no drive above the floor stay at the
// floor: top-down input cannot create Layer 4 activation.
func (ly *Layer) topDown4(p *Layer4Params, signal []float64) ([]float64, error) {
	for i := range ly.Act {
		if ly.buDrive[i] <= p.Shunt.Floor {
			ly.Act[i] = p.Shunt.Floor
			continue
		}
		ly.Act[i] = p.Shunt.Range.ClipVal(ly.buDrive[i] * (1 + p.TopDown*signal[i]))
	}
	return ly.Act, nil
}
