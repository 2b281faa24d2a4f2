// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"fmt"

	"github.com/Hellblazer/ART-sub006/learn"
	"github.com/Hellblazer/ART-sub006/shunt"
)

// Layer5Params parameterize the output layer: amplification of the
// resolved Layer 2/3 pattern with extra burst gain above threshold,
// integrated through fast shunting dynamics and renormalized so the
// output maximum never exceeds the configured ceiling.
type Layer5Params struct {
	TimeConst float64 `def:"40" min:"20" max:"100" desc:"membrane time constant in msec -- Shunt.Decay is derived as its reciprocal"`
	Gain      float64 `def:"1.2" min:"0" desc:"output amplification gain"`
	BurstThr  float64 `def:"0.5" min:"0" max:"1" desc:"input level above which burst amplification applies"`
	BurstGain float64 `def:"1.5" min:"1" desc:"extra multiplicative gain on inputs above the burst threshold"`
	OutMax    float64 `def:"1" desc:"normalization ceiling -- output is rescaled when its maximum exceeds this"`
	Steps     int     `def:"5" min:"1" desc:"integration steps per process call"`

	Shunt shunt.Params `view:"inline" desc:"shunting dynamics parameters"`
	Learn learn.Params `view:"inline" desc:"learning rule parameters"`
}

func (p *Layer5Params) Defaults() {
	p.TimeConst = 40
	p.Gain = 1.2
	p.BurstThr = 0.5
	p.BurstGain = 1.5
	p.OutMax = 1
	p.Steps = 5
	p.Shunt.Defaults()
	p.Learn.Defaults()
	p.Update()
}

// Update must be called after any changes to parameters.
func (p *Layer5Params) Update() {
	if p.TimeConst > 0 {
		p.Shunt.Decay = 1 / p.TimeConst
	}
	p.Shunt.Update()
	p.Learn.Update()
}

func (p *Layer5Params) Class() LayerClasses { return Layer5Class }
func (p *Layer5Params) ShuntParams() *shunt.Params { return &p.Shunt }
func (p *Layer5Params) LearnParams() *learn.Params { return &p.Learn }

func (p *Layer5Params) Validate() error {
	if p.TimeConst < 20 || p.TimeConst > 100 {
		return timeConstErr(Layer5Class, p.TimeConst, 20, 100)
	}
	if p.Gain < 0 {
		return fmt.Errorf("laminar: Layer5 Gain must be >= 0, got %g: %w", p.Gain, ErrParamRange)
	}
	if p.BurstThr < 0 || p.BurstThr > 1 {
		return fmt.Errorf("laminar: Layer5 BurstThr must be in [0, 1], got %g: %w", p.BurstThr, ErrParamRange)
	}
	if p.BurstGain < 1 {
		return fmt.Errorf("laminar: Layer5 BurstGain must be >= 1, got %g: %w", p.BurstGain, ErrParamRange)
	}
	if p.OutMax <= 0 {
		return fmt.Errorf("laminar: Layer5 OutMax must be > 0, got %g: %w", p.OutMax, ErrParamRange)
	}
	if p.Steps < 1 {
		return fmt.Errorf("laminar: Layer5 Steps must be >= 1, got %d: %w", p.Steps, ErrParamRange)
	}
	if err := p.Shunt.Validate(); err != nil {
		return err
	}
	return p.Learn.Validate()
}

// output5 amplifies the resolved pattern with burst gating, integrates
// it through the shunting dynamics and renormalizes to OutMax.
func (ly *Layer) output5(p *Layer5Params, input []float64, dt float64) ([]float64, error) {
	for i, v := range input {
		d := p.Gain * v
		if v > p.BurstThr {
			d *= p.BurstGain
		}
		ly.drive[i] = d
	}
	copy(ly.buDrive, ly.drive)
	for s := 0; s < p.Steps; s++ {
		if err := ly.Shunt.Integrate(ly.drive, ly.zeros, dt); err != nil {
			return nil, err
		}
	}
	copy(ly.Act, ly.Shunt.Act)
	mx := 0.0
	for _, v := range ly.Act {
		if v > mx {
			mx = v
		}
	}
	if mx > p.OutMax {
		sc := p.OutMax / mx
		for i := range ly.Act {
			ly.Act[i] *= sc
		}
	}
	return ly.Act, nil
}
