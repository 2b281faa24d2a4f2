// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"fmt"

	"github.com/Hellblazer/ART-sub006/learn"
	"github.com/Hellblazer/ART-sub006/shunt"
)

// Layer23Params parameterize the medium-speed integration layer, which
// combines bottom-up drive from Layer 4, top-down priming/modulation,
// and horizontal grouping, all resolved through shunting competition.
// The bottom-up drive from the most recent ProcessBottomUp call is
// stored and reused by the top-down and lateral passes, so the
// competition always resolves the full combined drive.
type Layer23Params struct {
	TimeConst float64 `def:"75" min:"30" max:"150" desc:"membrane time constant in msec -- Shunt.Decay is derived as its reciprocal"`
	BuGain    float64 `def:"1" min:"0" desc:"gain on bottom-up drive from Layer 4"`
	TdGain    float64 `def:"0.5" min:"0" desc:"gain on top-down priming and modulation signals"`
	GroupGain float64 `def:"0.3" min:"0" desc:"gain on horizontal grouping input"`
	Gi        float64 `def:"0.6" min:"0" desc:"lateral inhibition gain for the shunting competition"`
	Steps     int     `def:"5" min:"1" desc:"competition steps per process call"`

	Shunt shunt.Params `view:"inline" desc:"shunting dynamics parameters"`
	Learn learn.Params `view:"inline" desc:"learning rule parameters"`
}

func (p *Layer23Params) Defaults() {
	p.TimeConst = 75
	p.BuGain = 1
	p.TdGain = 0.5
	p.GroupGain = 0.3
	p.Gi = 0.6
	p.Steps = 5
	p.Shunt.Defaults()
	p.Learn.Defaults()
	p.Update()
}

// Update must be called after any changes to parameters.
func (p *Layer23Params) Update() {
	if p.TimeConst > 0 {
		p.Shunt.Decay = 1 / p.TimeConst
	}
	p.Shunt.Update()
	p.Learn.Update()
}

func (p *Layer23Params) Class() LayerClasses { return Layer23Class }
func (p *Layer23Params) ShuntParams() *shunt.Params { return &p.Shunt }
func (p *Layer23Params) LearnParams() *learn.Params { return &p.Learn }

func (p *Layer23Params) Validate() error {
	if p.TimeConst < 30 || p.TimeConst > 150 {
		return timeConstErr(Layer23Class, p.TimeConst, 30, 150)
	}
	if p.BuGain < 0 || p.TdGain < 0 || p.GroupGain < 0 || p.Gi < 0 {
		return fmt.Errorf("laminar: Layer23 gains must be >= 0: %w", ErrParamRange)
	}
	if p.Steps < 1 {
		return fmt.Errorf("laminar: Layer23 Steps must be >= 1, got %d: %w", p.Steps, ErrParamRange)
	}
	if err := p.Shunt.Validate(); err != nil {
		return err
	}
	return p.Learn.Validate()
}

// compete23 resolves the current drive through the shunting competition.
func (ly *Layer) compete23(p *Layer23Params, dt float64) ([]float64, error) {
	for s := 0; s < p.Steps; s++ {
		if err := ly.Shunt.Compete(ly.drive, p.Gi, dt); err != nil {
			return nil, err
		}
	}
	copy(ly.Act, ly.Shunt.Act)
	return ly.Act, nil
}

func (ly *Layer) bottomUp23(p *Layer23Params, input []float64, dt float64) ([]float64, error) {
	for i, v := range input {
		ly.buDrive[i] = p.BuGain * v
		ly.drive[i] = ly.buDrive[i]
	}
	return ly.compete23(p, dt)
}

func (ly *Layer) topDown23(p *Layer23Params, signal []float64, dt float64) ([]float64, error) {
	for i := range ly.drive {
		ly.drive[i] = ly.buDrive[i] + p.TdGain*signal[i]
	}
	return ly.compete23(p, dt)
}

func (ly *Layer) lateral23(p *Layer23Params, grouping []float64, dt float64) ([]float64, error) {
	for i := range ly.drive {
		ly.drive[i] = ly.buDrive[i] + p.GroupGain*grouping[i]
	}
	return ly.compete23(p, dt)
}
