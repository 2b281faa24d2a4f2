// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"fmt"

	"github.com/Hellblazer/ART-sub006/learn"
	"github.com/Hellblazer/ART-sub006/shunt"
)

// Layer1Params parameterize the slow sustained priming layer.  Its
// very long time constant plus self-excitation hold top-down context
// active well after the input that created it, providing the
// attentional priming signal for Layer 2/3 and the attention strength
// read by the learning gate.
type Layer1Params struct {
	TimeConst float64 `def:"400" min:"200" max:"1000" desc:"membrane time constant in msec -- very slow sustained dynamics -- Shunt.Decay is derived as its reciprocal"`
	Priming   float64 `def:"0.8" min:"0" desc:"gain on the top-down priming input"`
	SelfExc   float64 `def:"0.1" min:"0" max:"1" desc:"self-excitation sustaining activity after input ends"`
	Steps     int     `def:"1" min:"1" desc:"integration steps per process call"`

	Shunt shunt.Params `view:"inline" desc:"shunting dynamics parameters"`
	Learn learn.Params `view:"inline" desc:"learning rule parameters -- slow rate for stable context"`
}

func (p *Layer1Params) Defaults() {
	p.TimeConst = 400
	p.Priming = 0.8
	p.SelfExc = 0.1
	p.Steps = 1
	p.Shunt.Defaults()
	p.Learn.Defaults()
	p.Learn.Lrate = 0.02
	p.Update()
}

// Update must be called after any changes to parameters.
func (p *Layer1Params) Update() {
	if p.TimeConst > 0 {
		p.Shunt.Decay = 1 / p.TimeConst
	}
	p.Shunt.Update()
	p.Learn.Update()
}

func (p *Layer1Params) Class() LayerClasses { return Layer1Class }
func (p *Layer1Params) ShuntParams() *shunt.Params { return &p.Shunt }
func (p *Layer1Params) LearnParams() *learn.Params { return &p.Learn }

func (p *Layer1Params) Validate() error {
	if p.TimeConst < 200 || p.TimeConst > 1000 {
		return timeConstErr(Layer1Class, p.TimeConst, 200, 1000)
	}
	if p.Priming < 0 {
		return fmt.Errorf("laminar: Layer1 Priming must be >= 0, got %g: %w", p.Priming, ErrParamRange)
	}
	if p.SelfExc < 0 || p.SelfExc > 1 {
		return fmt.Errorf("laminar: Layer1 SelfExc must be in [0, 1], got %g: %w", p.SelfExc, ErrParamRange)
	}
	if p.Steps < 1 {
		return fmt.Errorf("laminar: Layer1 Steps must be >= 1, got %d: %w", p.Steps, ErrParamRange)
	}
	if err := p.Shunt.Validate(); err != nil {
		return err
	}
	return p.Learn.Validate()
}

// prime1 integrates top-down input plus self-excitation through the
// slow shunting dynamics, yielding the sustained priming activation.
func (ly *Layer) prime1(p *Layer1Params, signal []float64, dt float64) ([]float64, error) {
	for s := 0; s < p.Steps; s++ {
		for i := range ly.drive {
			ly.drive[i] = p.Priming*signal[i] + p.SelfExc*ly.Shunt.Act[i]
		}
		if err := ly.Shunt.Integrate(ly.drive, ly.zeros, dt); err != nil {
			return nil, err
		}
	}
	copy(ly.Act, ly.Shunt.Act)
	return ly.Act, nil
}
