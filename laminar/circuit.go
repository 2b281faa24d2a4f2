// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"fmt"
	"math"

	"github.com/Hellblazer/ART-sub006/art"
	"github.com/Hellblazer/ART-sub006/chunk"
	"github.com/Hellblazer/ART-sub006/compute"
	"github.com/Hellblazer/ART-sub006/learn"
	"github.com/Hellblazer/ART-sub006/osc"
	"github.com/emer/etable/etensor"
)

// Config is the full configuration of a laminar circuit.  All pattern
// dimensions are Size; the chunking front end inherits it.
type Config struct {
	Size int `desc:"pattern dimension shared by all layers and the chunking front end"`

	L1  Layer1Params  `view:"inline" desc:"slow sustained priming layer"`
	L23 Layer23Params `view:"inline" desc:"integration layer"`
	L4  Layer4Params  `view:"inline" desc:"fast driving input layer"`
	L5  Layer5Params  `view:"inline" desc:"output layer"`
	L6  Layer6Params  `view:"inline" desc:"matching layer"`

	Chunk chunk.Params         `view:"inline" desc:"temporal chunking front end"`
	Osc   osc.Params           `view:"inline" desc:"oscillation analysis of the bottom-up and top-down streams"`
	Match art.MatchParams      `view:"inline" desc:"ART matching rule"`
	Like  art.LikelihoodParams `view:"inline" desc:"consciousness-likelihood heuristic"`

	Resonance bool    `def:"true" desc:"record oscillation streams and evaluate resonance every cycle"`
	Learning  bool    `desc:"apply gated learning every cycle"`
	LikeThr   float64 `def:"0.5" min:"0" max:"1" desc:"minimum consciousness-likelihood for learning to proceed -- only enforced when resonance is enabled"`
	AttnThr   float64 `def:"0.1" min:"0" desc:"minimum attention strength (mean absolute Layer 1 activation) for learning to proceed"`
	CycleDt   float64 `def:"1" desc:"integration time step per cycle in msec of simulated time"`
}

func (cf *Config) Defaults() {
	cf.L1.Defaults()
	cf.L23.Defaults()
	cf.L4.Defaults()
	cf.L5.Defaults()
	cf.L6.Defaults()
	cf.Chunk.Defaults()
	cf.Osc.Defaults()
	cf.Match.Defaults()
	cf.Like.Defaults()
	cf.Resonance = true
	cf.LikeThr = 0.5
	cf.AttnThr = 0.1
	cf.CycleDt = 1
}

// Update must be called after any changes to parameters.
func (cf *Config) Update() {
	cf.L1.Update()
	cf.L23.Update()
	cf.L4.Update()
	cf.L5.Update()
	cf.L6.Update()
	cf.Chunk.Update()
	cf.Osc.Update()
}

// Validate returns an error if any part of the configuration is
// outside its permitted range.
func (cf *Config) Validate() error {
	if cf.Size <= 0 {
		return fmt.Errorf("laminar.Config: Size must be > 0, got %d: %w", cf.Size, ErrParamRange)
	}
	if cf.CycleDt <= 0 {
		return fmt.Errorf("laminar.Config: CycleDt must be > 0, got %g: %w", cf.CycleDt, ErrParamRange)
	}
	if cf.LikeThr < 0 || cf.LikeThr > 1 {
		return fmt.Errorf("laminar.Config: LikeThr must be in [0, 1], got %g: %w", cf.LikeThr, ErrParamRange)
	}
	if cf.AttnThr < 0 {
		return fmt.Errorf("laminar.Config: AttnThr must be >= 0, got %g: %w", cf.AttnThr, ErrParamRange)
	}
	for _, lp := range []LayerParams{&cf.L1, &cf.L23, &cf.L4, &cf.L5, &cf.L6} {
		if err := lp.Validate(); err != nil {
			return err
		}
	}
	if err := cf.Chunk.Validate(); err != nil {
		return err
	}
	if err := cf.Osc.Validate(); err != nil {
		return err
	}
	if err := cf.Match.Validate(); err != nil {
		return err
	}
	return cf.Like.Validate()
}

// CycleResult is the outcome of one processing cycle.
type CycleResult struct {
	Output    []float64           `desc:"Layer 5 output pattern"`
	Chunked   []float64           `desc:"pattern emitted by the chunking front end and fed to Layer 4"`
	Resonance *art.ResonanceState `desc:"resonance evaluation -- nil when resonance is disabled"`
	Learned   bool                `desc:"whether this cycle's learning gate opened"`
	Attention float64             `desc:"mean absolute Layer 1 activation used by the learning gate"`
	Cycle     int                 `desc:"cycle index of this result"`
	Time      float64             `desc:"simulation time of this result in seconds"`
}

// Circuit is the six-layer laminar cortical circuit: the temporal
// chunking front end, the five active layer populations (Layer 2 and
// Layer 3 are modeled as one), the oscillation analyzers over the
// bottom-up and top-down streams, and the resonance detector.
type Circuit struct {
	Config Config `desc:"configuration -- validated at construction"`

	L1  *Layer `desc:"slow sustained priming layer"`
	L23 *Layer `desc:"integration layer"`
	L4  *Layer `desc:"fast driving input layer"`
	L5  *Layer `desc:"output layer"`
	L6  *Layer `desc:"matching layer"`

	Tempo   *chunk.Processor    `desc:"temporal chunking front end"`
	BuOsc   *osc.Analyzer       `desc:"bottom-up (Layer 4) oscillation stream -- nil when resonance is disabled"`
	TdOsc   *osc.Analyzer       `desc:"top-down (Layer 1) oscillation stream -- nil when resonance is disabled"`
	Detect  *art.Detector       `desc:"resonance detector -- nil when resonance is disabled"`
	Time    *Time               `desc:"simulation clock"`
	LastRes *art.ResonanceState `desc:"most recent resonance evaluation"`

	chunked, l4bu, l23bu, l1out, l6out, primed []float64
}

// NewCircuit returns a new circuit for the given configuration, or an
// error if any parameter is out of range.
func NewCircuit(cf *Config) (*Circuit, error) {
	cc := &Circuit{Config: *cf}
	if cc.Config.Chunk.Size == 0 {
		cc.Config.Chunk.Size = cc.Config.Size
	}
	if err := cc.Config.Validate(); err != nil {
		return nil, err
	}
	sz := cc.Config.Size

	var err error
	if cc.L1, err = NewLayer("L1", &cc.Config.L1, sz); err != nil {
		return nil, err
	}
	if cc.L23, err = NewLayer("L23", &cc.Config.L23, sz); err != nil {
		return nil, err
	}
	if cc.L4, err = NewLayer("L4", &cc.Config.L4, sz); err != nil {
		return nil, err
	}
	if cc.L5, err = NewLayer("L5", &cc.Config.L5, sz); err != nil {
		return nil, err
	}
	if cc.L6, err = NewLayer("L6", &cc.Config.L6, sz); err != nil {
		return nil, err
	}
	if cc.Tempo, err = chunk.NewProcessor(&cc.Config.Chunk); err != nil {
		return nil, err
	}
	if cc.Config.Resonance {
		if cc.BuOsc, err = osc.NewAnalyzer(&cc.Config.Osc); err != nil {
			return nil, err
		}
		if cc.TdOsc, err = osc.NewAnalyzer(&cc.Config.Osc); err != nil {
			return nil, err
		}
		if cc.Detect, err = art.NewDetector(&cc.Config.Match, &cc.Config.Like, cc.BuOsc, cc.TdOsc); err != nil {
			return nil, err
		}
	}
	cc.Time = NewTime()
	cc.chunked = make([]float64, sz)
	cc.l4bu = make([]float64, sz)
	cc.l23bu = make([]float64, sz)
	cc.l1out = make([]float64, sz)
	cc.l6out = make([]float64, sz)
	cc.primed = make([]float64, sz)
	return cc, nil
}

// Layers returns the five layers in laminar order, Layer 1 first.
func (cc *Circuit) Layers() []*Layer {
	return []*Layer{cc.L1, cc.L23, cc.L4, cc.L5, cc.L6}
}

// Reset restores all dynamic state to initial conditions: layer
// activations, chunking working memory, oscillation buffers and the
// clock.  Learned weights and statistics persist, so a reset followed
// by the same input sequence (with learning disabled) replays the
// same outputs exactly.
func (cc *Circuit) Reset() {
	for _, ly := range cc.Layers() {
		ly.Reset()
	}
	cc.Tempo.Reset()
	if cc.BuOsc != nil {
		cc.BuOsc.Reset()
	}
	if cc.TdOsc != nil {
		cc.TdOsc.Reset()
	}
	cc.Time.Reset()
	cc.LastRes = nil
}

// Cycle runs one full processing cycle over an input pattern:
//
//	chunking -> bottom-up sweep (L4, L2/3, L1) -> matching (L6) ->
//	top-down modulation (L2/3, L4) -> second L1 priming of L2/3 ->
//	output (L5) -> resonance evaluation -> gated learning.
//
// The returned result holds copies of the output and chunked patterns.
func (cc *Circuit) Cycle(input []float64) (*CycleResult, error) {
	if len(input) != cc.Config.Size {
		return nil, fmt.Errorf("laminar.Cycle: input dimension %d != circuit size %d: %w",
			len(input), cc.Config.Size, ErrDimMismatch)
	}
	now := cc.Time.Time
	dt := cc.Config.CycleDt

	ch, err := cc.Tempo.Process(input, now)
	if err != nil {
		return nil, err
	}
	copy(cc.chunked, ch)

	// bottom-up sweep
	out, err := cc.L4.ProcessBottomUp(cc.chunked, dt)
	if err != nil {
		return nil, err
	}
	copy(cc.l4bu, out)
	if out, err = cc.L23.ProcessBottomUp(cc.l4bu, dt); err != nil {
		return nil, err
	}
	copy(cc.l23bu, out)
	if out, err = cc.L1.ProcessTopDown(cc.l23bu, dt); err != nil {
		return nil, err
	}
	copy(cc.l1out, out)

	// matching: the learned expectation modulates what has bottom-up support
	expect, err := cc.L6.Expectation(cc.l23bu)
	if err != nil {
		return nil, err
	}
	if out, err = cc.L6.Modulate(cc.l23bu, expect, dt); err != nil {
		return nil, err
	}
	copy(cc.l6out, out)

	// top-down sweep
	if _, err = cc.L23.ProcessTopDown(cc.l6out, dt); err != nil {
		return nil, err
	}
	if _, err = cc.L4.ProcessTopDown(cc.l6out, dt); err != nil {
		return nil, err
	}
	if out, err = cc.L23.ProcessTopDown(cc.l1out, dt); err != nil {
		return nil, err
	}
	copy(cc.primed, out)

	// output
	if out, err = cc.L5.ProcessBottomUp(cc.primed, dt); err != nil {
		return nil, err
	}

	var rs *art.ResonanceState
	if cc.Config.Resonance {
		cc.BuOsc.Record(cc.L4.Act, now)
		cc.TdOsc.Record(cc.L1.Act, now)
		if rs, err = cc.Detect.Detect(cc.L23.Act, cc.l6out, now); err != nil {
			return nil, err
		}
		cc.LastRes = rs
	}

	attn := meanAbs(cc.l1out)
	learned := false
	if cc.Config.Learning {
		if learned, err = cc.learnCycle(rs, attn, now); err != nil {
			return nil, err
		}
	}

	res := &CycleResult{
		Output:    append([]float64(nil), out...),
		Chunked:   append([]float64(nil), cc.chunked...),
		Resonance: rs,
		Learned:   learned,
		Attention: attn,
		Cycle:     cc.Time.Cycle,
		Time:      now,
	}
	cc.Time.CycleInc()
	return res, nil
}

// learnCycle applies the learning gate and, when it opens, one
// learning event per layer with its feedforward pairing: chunked
// input -> L4, L4 -> L2/3, L2/3 -> L6, L2/3 -> L1, primed L2/3 -> L5.
func (cc *Circuit) learnCycle(rs *art.ResonanceState, attn, now float64) (bool, error) {
	lk := 1.0
	open := attn >= cc.Config.AttnThr
	if cc.Config.Resonance {
		if rs == nil || rs.Likelihood < cc.Config.LikeThr {
			open = false
		} else {
			lk = rs.Likelihood
		}
	}
	if !open {
		for _, ly := range cc.Layers() {
			ly.SkipLearning(now)
		}
		return false, nil
	}
	ctx := &learn.Context{Likelihood: lk, Attention: attn, Time: now}
	pairs := []struct {
		ly  *Layer
		pre []float64
	}{
		{cc.L4, cc.chunked},
		{cc.L23, cc.l4bu},
		{cc.L6, cc.l23bu},
		{cc.L1, cc.l23bu},
		{cc.L5, cc.primed},
	}
	for _, pr := range pairs {
		if _, err := pr.ly.UpdateWeights(pr.pre, ctx); err != nil {
			return false, err
		}
	}
	return true, nil
}

// CycleTensor runs one cycle on a tensor-shaped input pattern,
// optionally writing the output pattern into out (reshaped to the
// circuit size).
func (cc *Circuit) CycleTensor(input, out *etensor.Float64) (*CycleResult, error) {
	if input == nil || input.Len() != cc.Config.Size {
		return nil, fmt.Errorf("laminar.CycleTensor: input length != circuit size %d: %w",
			cc.Config.Size, ErrDimMismatch)
	}
	res, err := cc.Cycle(input.Values)
	if err != nil {
		return nil, err
	}
	if out != nil {
		out.SetShape([]int{cc.Config.Size}, nil, []string{"Units"})
		copy(out.Values, res.Output)
	}
	return res, nil
}

// Checkpoint captures the learned state of the circuit: each layer's
// weight matrix and learning statistics by layer name.
func (cc *Circuit) Checkpoint() *learn.Checkpoint {
	ck := learn.NewCheckpoint()
	for _, ly := range cc.Layers() {
		wm := learn.NewWtMatrix(ly.Wts.Rows, ly.Wts.Cols)
		copy(wm.Wts, ly.Wts.Wts)
		ck.Wts[ly.Nm] = wm
		st := ly.Stats
		ck.Stats[ly.Nm] = &st
	}
	return ck
}

// LoadCheckpoint restores learned state previously captured with
// Checkpoint.  Every layer must be present with a matching shape.
func (cc *Circuit) LoadCheckpoint(ck *learn.Checkpoint) error {
	for _, ly := range cc.Layers() {
		wm, ok := ck.Wts[ly.Nm]
		if !ok {
			return fmt.Errorf("laminar.LoadCheckpoint: checkpoint missing weights for %s", ly.Nm)
		}
		if err := ly.Wts.CopyFrom(wm); err != nil {
			return fmt.Errorf("laminar.LoadCheckpoint: %s: %w", ly.Nm, err)
		}
		if st, ok := ck.Stats[ly.Nm]; ok {
			ly.Stats = *st
		}
	}
	return nil
}

// CycleBatch runs one cycle on each of a batch of independent circuits
// in parallel, nThreads workers at a time.  Each circuit is owned
// exclusively by its slot, so results are identical to sequential
// execution.  The first error, if any, is returned; other slots still
// complete.
func CycleBatch(ccs []*Circuit, inputs [][]float64, nThreads int) ([]*CycleResult, error) {
	if len(inputs) != len(ccs) {
		return nil, fmt.Errorf("laminar.CycleBatch: %d inputs for %d circuits: %w",
			len(inputs), len(ccs), ErrDimMismatch)
	}
	results := make([]*CycleResult, len(ccs))
	errs := make([]error, len(ccs))
	bt := compute.Batcher{NThreads: nThreads}
	bt.Run(len(ccs), func(i int) {
		results[i], errs[i] = ccs[i].Cycle(inputs[i])
	})
	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func meanAbs(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += math.Abs(v)
	}
	return sum / float64(len(vs))
}
