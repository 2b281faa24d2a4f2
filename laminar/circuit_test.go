// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/Hellblazer/ART-sub006/learn"
	"github.com/emer/etable/etensor"
)

func testConfig(size int) *Config {
	cf := &Config{Size: size}
	cf.Defaults()
	return cf
}

func TestCircuitZeroInput(t *testing.T) {
	cc, err := NewCircuit(testConfig(8))
	if err != nil {
		t.Fatal(err)
	}
	zeros := make([]float64, 8)
	var res *CycleResult
	for c := 0; c < 10; c++ {
		if res, err = cc.Cycle(zeros); err != nil {
			t.Fatal(err)
		}
	}
	for i, v := range cc.L4.Act {
		if v != cc.Config.L4.Shunt.Floor {
			t.Errorf("L4 unit %d: zero input must hold the floor exactly, got %v", i, v)
		}
	}
	for i, v := range res.Output {
		if v != 0 {
			t.Errorf("output unit %d: expected 0 for zero input, got %v", i, v)
		}
	}
	if res.Resonance == nil {
		t.Fatal("resonance evaluation missing")
	}
	if res.Resonance.Likelihood != 0 {
		t.Errorf("zero input should have zero likelihood, got %v", res.Resonance.Likelihood)
	}
}

func TestCircuitConstantInputResonates(t *testing.T) {
	cc, err := NewCircuit(testConfig(8))
	if err != nil {
		t.Fatal(err)
	}
	in := make([]float64, 8)
	for i := range in {
		in[i] = 0.6
	}
	var res *CycleResult
	for c := 0; c < 200; c++ {
		if res, err = cc.Cycle(in); err != nil {
			t.Fatal(err)
		}
	}
	rs := res.Resonance
	if rs == nil {
		t.Fatal("resonance evaluation missing")
	}
	if !rs.Match {
		t.Errorf("sustained matched input should reach vigilance, quality %v", rs.MatchQuality)
	}
	if rs.Likelihood < 0.7 {
		t.Errorf("sustained matched input should be high likelihood, got %v", rs.Likelihood)
	}
	if res.Attention <= cc.Config.AttnThr {
		t.Errorf("sustained input should build attention above threshold, got %v", res.Attention)
	}
}

func TestCircuitReplayDeterminism(t *testing.T) {
	cc, err := NewCircuit(testConfig(6))
	if err != nil {
		t.Fatal(err)
	}
	in := make([]float64, 6)
	run := func() [][]float64 {
		outs := make([][]float64, 60)
		for c := 0; c < 60; c++ {
			tm := float64(c) * 0.001
			for i := range in {
				in[i] = 0.5 + 0.4*math.Sin(2*math.Pi*40*tm+float64(i))
			}
			res, err := cc.Cycle(in)
			if err != nil {
				t.Fatal(err)
			}
			outs[c] = res.Output
		}
		return outs
	}
	first := run()
	cc.Reset()
	second := run()
	for c := range first {
		for i := range first[c] {
			if first[c][i] != second[c][i] {
				t.Fatalf("replay differs at cycle %d unit %d: %v != %v", c, i, first[c][i], second[c][i])
			}
		}
	}
}

func TestCircuitGatedLearning(t *testing.T) {
	cf := testConfig(8)
	cf.Learning = true
	cf.AttnThr = 0.01
	cc, err := NewCircuit(cf)
	if err != nil {
		t.Fatal(err)
	}
	before := append([]float64(nil), cc.L4.Wts.Wts...)
	in := make([]float64, 8)
	for i := range in {
		in[i] = 0.6
	}
	for c := 0; c < 50; c++ {
		if _, err = cc.Cycle(in); err != nil {
			t.Fatal(err)
		}
	}
	if cc.L4.Stats.Gated == 0 {
		t.Fatal("matched sustained input should open the learning gate")
	}
	if cc.L4.Stats.Events != 50 {
		t.Errorf("every cycle is a learning opportunity: %d events", cc.L4.Stats.Events)
	}
	changed := false
	for i, w := range cc.L4.Wts.Wts {
		if w != before[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("gated learning should change weights")
	}
}

func TestCircuitLearningGateClosed(t *testing.T) {
	cf := testConfig(8)
	cf.Learning = true
	cf.AttnThr = 5 // unattainable: mean activation is bounded by 1
	cc, err := NewCircuit(cf)
	if err != nil {
		t.Fatal(err)
	}
	before := append([]float64(nil), cc.L4.Wts.Wts...)
	in := make([]float64, 8)
	for i := range in {
		in[i] = 0.6
	}
	for c := 0; c < 20; c++ {
		res, err := cc.Cycle(in)
		if err != nil {
			t.Fatal(err)
		}
		if res.Learned {
			t.Fatal("gate must stay closed below the attention threshold")
		}
	}
	if cc.L4.Stats.Skipped != 20 || cc.L4.Stats.Gated != 0 {
		t.Errorf("expected 20 skipped events, got %+v", cc.L4.Stats)
	}
	for i, w := range cc.L4.Wts.Wts {
		if w != before[i] {
			t.Fatal("weights must not change while the gate is closed")
		}
	}
}

func TestCircuitCheckpoint(t *testing.T) {
	cf := testConfig(6)
	cf.Learning = true
	cf.AttnThr = 0.01
	cc, err := NewCircuit(cf)
	if err != nil {
		t.Fatal(err)
	}
	in := make([]float64, 6)
	for i := range in {
		in[i] = 0.6
	}
	for c := 0; c < 30; c++ {
		if _, err = cc.Cycle(in); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := cc.Checkpoint().Write(&buf); err != nil {
		t.Fatal(err)
	}
	ck := learn.NewCheckpoint()
	if err := ck.Read(&buf); err != nil {
		t.Fatal(err)
	}

	cc2, err := NewCircuit(cf)
	if err != nil {
		t.Fatal(err)
	}
	if err := cc2.LoadCheckpoint(ck); err != nil {
		t.Fatal(err)
	}
	for _, nm := range []string{"L1", "L23", "L4", "L5", "L6"} {
		var a, b *Layer
		for _, ly := range cc.Layers() {
			if ly.Nm == nm {
				a = ly
			}
		}
		for _, ly := range cc2.Layers() {
			if ly.Nm == nm {
				b = ly
			}
		}
		for i := range a.Wts.Wts {
			if a.Wts.Wts[i] != b.Wts.Wts[i] {
				t.Fatalf("%s weights differ after checkpoint restore at %d", nm, i)
			}
		}
		if a.Stats.Gated != b.Stats.Gated {
			t.Errorf("%s stats not restored: %d != %d", nm, a.Stats.Gated, b.Stats.Gated)
		}
	}
}

func TestCycleBatch(t *testing.T) {
	n := 3
	ccs := make([]*Circuit, n)
	inputs := make([][]float64, n)
	for i := range ccs {
		cc, err := NewCircuit(testConfig(4))
		if err != nil {
			t.Fatal(err)
		}
		// identical weights so all slots compute identical results
		for _, ly := range cc.Layers() {
			ly.Wts.SetAll(0.5)
		}
		ccs[i] = cc
		inputs[i] = []float64{0.2, 0.4, 0.6, 0.8}
	}
	results, err := CycleBatch(ccs, inputs, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < n; i++ {
		for j := range results[0].Output {
			if results[i].Output[j] != results[0].Output[j] {
				t.Fatalf("slot %d output differs at %d: %v != %v", i, j, results[i].Output[j], results[0].Output[j])
			}
		}
	}
	if _, err := CycleBatch(ccs, inputs[:1], 2); !errors.Is(err, ErrDimMismatch) {
		t.Errorf("expected ErrDimMismatch for input/circuit count mismatch, got %v", err)
	}
}

func TestCycleTensor(t *testing.T) {
	cc, err := NewCircuit(testConfig(4))
	if err != nil {
		t.Fatal(err)
	}
	in := etensor.NewFloat64([]int{4}, nil, nil)
	for i := range in.Values {
		in.Values[i] = 0.5
	}
	out := etensor.NewFloat64([]int{1}, nil, nil)
	res, err := cc.CycleTensor(in, out)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 4 {
		t.Fatalf("output tensor not reshaped: len %d", out.Len())
	}
	for i, v := range out.Values {
		if v != res.Output[i] {
			t.Errorf("tensor output differs at %d: %v != %v", i, v, res.Output[i])
		}
	}
	bad := etensor.NewFloat64([]int{3}, nil, nil)
	if _, err := cc.CycleTensor(bad, nil); !errors.Is(err, ErrDimMismatch) {
		t.Errorf("expected ErrDimMismatch for wrong tensor size, got %v", err)
	}
}

func TestCircuitValidation(t *testing.T) {
	cf := testConfig(0)
	if _, err := NewCircuit(cf); !errors.Is(err, ErrParamRange) {
		t.Errorf("expected ErrParamRange for zero size, got %v", err)
	}
	cf = testConfig(8)
	cf.L23.TimeConst = 10
	if _, err := NewCircuit(cf); !errors.Is(err, ErrParamRange) {
		t.Errorf("expected ErrParamRange for out-of-range L23 TimeConst, got %v", err)
	}
	cf = testConfig(8)
	cc, err := NewCircuit(cf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cc.Cycle(make([]float64, 3)); !errors.Is(err, ErrDimMismatch) {
		t.Errorf("expected ErrDimMismatch for wrong input size, got %v", err)
	}
}

func TestCircuitResonanceDisabled(t *testing.T) {
	cf := testConfig(6)
	cf.Resonance = false
	cf.Learning = true
	cf.AttnThr = 0.01
	cc, err := NewCircuit(cf)
	if err != nil {
		t.Fatal(err)
	}
	in := make([]float64, 6)
	for i := range in {
		in[i] = 0.6
	}
	var res *CycleResult
	for c := 0; c < 10; c++ {
		if res, err = cc.Cycle(in); err != nil {
			t.Fatal(err)
		}
	}
	if res.Resonance != nil {
		t.Error("resonance state should be nil when disabled")
	}
	if cc.BuOsc != nil || cc.Detect != nil {
		t.Error("oscillation analysis should not be constructed when disabled")
	}
	// learning falls back to attention-only gating
	if cc.L4.Stats.Gated == 0 {
		t.Error("attention-gated learning should proceed without resonance")
	}
}
