// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"fmt"

	"github.com/Hellblazer/ART-sub006/learn"
	"github.com/Hellblazer/ART-sub006/shunt"
)

// Layer6Params parameterize the matching layer.  It implements the
// ART matching rule: a unit's output is its bottom-up signal modulated
// by the on-center off-surround transform of the learned expectation,
// tracked through a slowly decaying persistent modulation state -- but
// any unit whose bottom-up signal is at or below the floor outputs
// exactly zero, no matter how strong the expectation.  Expectation
// alone never creates activity.
type Layer6Params struct {
	TimeConst float64 `def:"150" min:"50" max:"300" desc:"modulation state time constant in msec -- rate ModDt is derived as its reciprocal"`
	OnGain    float64 `def:"1" min:"0" desc:"on-center gain: how strongly the expectation at a unit boosts it"`
	OffGain   float64 `def:"0.5" min:"0" desc:"off-surround gain: how strongly the expectation in the neighborhood suppresses it"`
	Surround  int     `def:"2" min:"1" desc:"off-surround neighborhood radius in units"`
	ModGain   float64 `def:"0.5" min:"0" desc:"scale of the persistent modulation applied to bottom-up signals"`

	Shunt shunt.Params `view:"inline" desc:"shunting dynamics parameters -- Floor defines the bottom-up support threshold"`
	Learn learn.Params `view:"inline" desc:"learning rule parameters -- Outstar by default, so weights learn the expectation pattern"`

	ModDt float64 `inactive:"+" view:"-" json:"-" xml:"-" desc:"rate = 1 / TimeConst"`
}

func (p *Layer6Params) Defaults() {
	p.TimeConst = 150
	p.OnGain = 1
	p.OffGain = 0.5
	p.Surround = 2
	p.ModGain = 0.5
	p.Shunt.Defaults()
	p.Learn.Defaults()
	p.Learn.Rule = learn.Outstar
	p.Learn.Lrate = 0.05
	p.Update()
}

// Update must be called after any changes to parameters.
func (p *Layer6Params) Update() {
	if p.TimeConst > 0 {
		p.ModDt = 1 / p.TimeConst
		p.Shunt.Decay = p.ModDt
	}
	p.Shunt.Update()
	p.Learn.Update()
}

func (p *Layer6Params) Class() LayerClasses { return Layer6Class }
func (p *Layer6Params) ShuntParams() *shunt.Params { return &p.Shunt }
func (p *Layer6Params) LearnParams() *learn.Params { return &p.Learn }

func (p *Layer6Params) Validate() error {
	if p.TimeConst < 50 || p.TimeConst > 300 {
		return timeConstErr(Layer6Class, p.TimeConst, 50, 300)
	}
	if p.OnGain < 0 || p.OffGain < 0 || p.ModGain < 0 {
		return fmt.Errorf("laminar: Layer6 gains must be >= 0: %w", ErrParamRange)
	}
	if p.Surround < 1 {
		return fmt.Errorf("laminar: Layer6 Surround must be >= 1, got %d: %w", p.Surround, ErrParamRange)
	}
	if err := p.Shunt.Validate(); err != nil {
		return err
	}
	return p.Learn.Validate()
}

// modulate6 applies the matching rule.  The persistent modulation
// state always tracks the on-center off-surround of the expectation,
// but output is hard-gated by bottom-up support.
func (ly *Layer) modulate6(p *Layer6Params, bottomUp, expect []float64, dt float64) ([]float64, error) {
	n := len(ly.Act)
	for i := 0; i < n; i++ {
		on := p.OnGain * expect[i]
		off := 0.0
		ct := 0
		lo, hi := i-p.Surround, i+p.Surround
		if lo < 0 {
			lo = 0
		}
		if hi >= n {
			hi = n - 1
		}
		for j := lo; j <= hi; j++ {
			if j == i {
				continue
			}
			off += expect[j]
			ct++
		}
		if ct > 0 {
			off = p.OffGain * off / float64(ct)
		}
		ly.mod[i] += dt * p.ModDt * ((on - off) - ly.mod[i])

		if bottomUp[i] <= p.Shunt.Floor {
			ly.Act[i] = 0
			continue
		}
		v := bottomUp[i] * (1 + p.ModGain*ly.mod[i])
		if v < 0 {
			v = 0
		}
		if v > p.Shunt.Ceiling {
			v = p.Shunt.Ceiling
		}
		ly.Act[i] = v
	}
	return ly.Act, nil
}
