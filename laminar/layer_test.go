// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package laminar

import (
	"errors"
	"testing"
)

func TestLayer4ZeroInputFloor(t *testing.T) {
	p := &Layer4Params{}
	p.Defaults()
	ly, err := NewLayer("L4", p, 8)
	if err != nil {
		t.Fatal(err)
	}
	zeros := make([]float64, 8)
	out, err := ly.ProcessBottomUp(zeros, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if v != p.Shunt.Floor {
			t.Errorf("unit %d: zero input must produce the floor exactly, got %v", i, v)
		}
	}

	// with lateral competition enabled the result is the same: no
	// drive anywhere means nothing to compete over
	p2 := &Layer4Params{}
	p2.Defaults()
	p2.LateralGi = 0.5
	p2.Update()
	ly2, err := NewLayer("L4", p2, 8)
	if err != nil {
		t.Fatal(err)
	}
	out, err = ly2.ProcessBottomUp(zeros, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if v != p2.Shunt.Floor {
			t.Errorf("unit %d: zero input with competition must stay at the floor, got %v", i, v)
		}
	}
}

func TestLayer4TopDownCannotDrive(t *testing.T) {
	p := &Layer4Params{}
	p.Defaults()
	ly, err := NewLayer("L4", p, 4)
	if err != nil {
		t.Fatal(err)
	}
	zeros := make([]float64, 4)
	if _, err = ly.ProcessBottomUp(zeros, 1); err != nil {
		t.Fatal(err)
	}
	strong := []float64{1, 1, 1, 1}
	out, err := ly.ProcessTopDown(strong, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if v != p.Shunt.Floor {
			t.Errorf("unit %d: top-down input alone must not create activation, got %v", i, v)
		}
	}
}

func TestLayer4Modulation(t *testing.T) {
	p := &Layer4Params{}
	p.Defaults()
	ly, err := NewLayer("L4", p, 4)
	if err != nil {
		t.Fatal(err)
	}
	in := []float64{0.5, 0.5, 0.5, 0.5}
	bu, err := ly.ProcessBottomUp(in, 1)
	if err != nil {
		t.Fatal(err)
	}
	base := append([]float64(nil), bu...)
	td := []float64{1, 0, 1, 0}
	out, err := ly.ProcessTopDown(td, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !(out[0] > base[0] && out[2] > base[2]) {
		t.Errorf("top-down signal should boost driven units: %v vs %v", out, base)
	}
	if out[1] != base[1] || out[3] != base[3] {
		t.Errorf("units without top-down signal should be unchanged: %v vs %v", out, base)
	}
	for i, v := range out {
		if v > p.Shunt.Ceiling {
			t.Errorf("unit %d exceeds ceiling: %v", i, v)
		}
	}
}

func TestLayer23Competition(t *testing.T) {
	p := &Layer23Params{}
	p.Defaults()
	ly, err := NewLayer("L23", p, 3)
	if err != nil {
		t.Fatal(err)
	}
	var out []float64
	for c := 0; c < 20; c++ {
		if out, err = ly.ProcessBottomUp([]float64{0.8, 0.5, 0.2}, 1); err != nil {
			t.Fatal(err)
		}
	}
	if !(out[0] > out[1] && out[1] > out[2]) {
		t.Errorf("competition must preserve input ordering: %v", out)
	}
	for i, v := range out {
		if v < p.Shunt.Floor || v > p.Shunt.Ceiling {
			t.Errorf("unit %d out of bounds: %v", i, v)
		}
	}
}

func TestLayer23TopDownPriming(t *testing.T) {
	p := &Layer23Params{}
	p.Defaults()
	ly, err := NewLayer("L23", p, 4)
	if err != nil {
		t.Fatal(err)
	}
	in := []float64{0.4, 0.4, 0.4, 0.4}
	for c := 0; c < 10; c++ {
		if _, err = ly.ProcessBottomUp(in, 1); err != nil {
			t.Fatal(err)
		}
	}
	base := append([]float64(nil), ly.Act...)
	prime := []float64{1, 1, 0, 0}
	var out []float64
	for c := 0; c < 10; c++ {
		if out, err = ly.ProcessTopDown(prime, 1); err != nil {
			t.Fatal(err)
		}
	}
	if !(out[0] > base[0] && out[1] > base[1]) {
		t.Errorf("primed units should increase: %v vs %v", out, base)
	}
	if !(out[0] > out[2]) {
		t.Errorf("primed units should win the competition: %v", out)
	}
}

func TestLayer1Sustained(t *testing.T) {
	p := &Layer1Params{}
	p.Defaults()
	ly, err := NewLayer("L1", p, 4)
	if err != nil {
		t.Fatal(err)
	}
	in := []float64{0.6, 0.6, 0.6, 0.6}
	for c := 0; c < 20; c++ {
		if _, err = ly.ProcessTopDown(in, 1); err != nil {
			t.Fatal(err)
		}
	}
	driven := ly.Act[0]
	if driven <= 0 {
		t.Fatalf("expected activation after sustained input, got %v", driven)
	}
	// with input removed, the slow dynamics plus self-excitation keep
	// activity from collapsing over tens of msec
	zeros := make([]float64, 4)
	for c := 0; c < 50; c++ {
		if _, err = ly.ProcessTopDown(zeros, 1); err != nil {
			t.Fatal(err)
		}
	}
	if ly.Act[0] < 0.5*driven {
		t.Errorf("priming activity decayed too fast: %v -> %v after 50 msec", driven, ly.Act[0])
	}
	if ly.Act[0] > p.Shunt.Ceiling {
		t.Errorf("sustained activity exceeds ceiling: %v", ly.Act[0])
	}
}

func TestLayer6ZeroBottomUpGate(t *testing.T) {
	p := &Layer6Params{}
	p.Defaults()
	ly, err := NewLayer("L6", p, 4)
	if err != nil {
		t.Fatal(err)
	}
	zeros := make([]float64, 4)
	expect := []float64{5, 5, 5, 5}
	// repeated calls accumulate modulation state, but with no
	// bottom-up support the output must be exactly zero every time
	for c := 0; c < 10; c++ {
		out, err := ly.Modulate(zeros, expect, 1)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range out {
			if v != 0 {
				t.Fatalf("cycle %d unit %d: expectation without bottom-up must yield exactly 0, got %v", c, i, v)
			}
		}
	}
}

func TestLayer6Modulation(t *testing.T) {
	p := &Layer6Params{}
	p.Defaults()
	ly, err := NewLayer("L6", p, 5)
	if err != nil {
		t.Fatal(err)
	}
	bu := []float64{0.5, 0.5, 0.5, 0.5, 0.5}
	expect := []float64{1, 0, 0, 0, 0}
	var out []float64
	for c := 0; c < 100; c++ {
		if out, err = ly.Modulate(bu, expect, 1); err != nil {
			t.Fatal(err)
		}
	}
	// on-center unit is enhanced, its surround suppressed
	if !(out[0] > bu[0]) {
		t.Errorf("expected unit should be enhanced: %v", out)
	}
	if !(out[1] < bu[1]) {
		t.Errorf("surround unit should be suppressed: %v", out)
	}
	for i, v := range out {
		if v < 0 || v > p.Shunt.Ceiling {
			t.Errorf("unit %d out of bounds: %v", i, v)
		}
	}
}

func TestLayer5BurstAndBound(t *testing.T) {
	p := &Layer5Params{}
	p.Defaults()
	ly, err := NewLayer("L5", p, 3)
	if err != nil {
		t.Fatal(err)
	}
	var out []float64
	for c := 0; c < 50; c++ {
		if out, err = ly.ProcessBottomUp([]float64{0.9, 0.3, 0}, 1); err != nil {
			t.Fatal(err)
		}
	}
	// the above-threshold unit gets burst gain on top of the base gain
	if !(out[0] > out[1]) {
		t.Errorf("burst unit should dominate: %v", out)
	}
	for i, v := range out {
		if v > p.OutMax {
			t.Errorf("unit %d exceeds normalization ceiling: %v", i, v)
		}
	}
	if out[2] != 0 {
		t.Errorf("undriven output unit should stay at zero, got %v", out[2])
	}
}

func TestLayerClassRouting(t *testing.T) {
	p5 := &Layer5Params{}
	p5.Defaults()
	l5, err := NewLayer("L5", p5, 4)
	if err != nil {
		t.Fatal(err)
	}
	sig := make([]float64, 4)
	if _, err := l5.ProcessTopDown(sig, 1); err == nil {
		t.Error("Layer5 must reject top-down processing")
	}
	if _, err := l5.ProcessLateral(sig, 1); err == nil {
		t.Error("Layer5 must reject lateral processing")
	}
	if _, err := l5.Modulate(sig, sig, 1); err == nil {
		t.Error("Layer5 must reject the matching operation")
	}
	p1 := &Layer1Params{}
	p1.Defaults()
	l1, err := NewLayer("L1", p1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l1.ProcessBottomUp(sig, 1); err == nil {
		t.Error("Layer1 must reject bottom-up processing")
	}
}

func TestLayerValidation(t *testing.T) {
	p4 := &Layer4Params{}
	p4.Defaults()
	p4.TimeConst = 5 // below the 10-50 msec range
	if err := p4.Validate(); !errors.Is(err, ErrParamRange) {
		t.Errorf("expected ErrParamRange for fast TimeConst, got %v", err)
	}
	p1 := &Layer1Params{}
	p1.Defaults()
	p1.TimeConst = 1500 // above the 200-1000 msec range
	if err := p1.Validate(); !errors.Is(err, ErrParamRange) {
		t.Errorf("expected ErrParamRange for slow TimeConst, got %v", err)
	}
	p23 := &Layer23Params{}
	p23.Defaults()
	if err := p23.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}

	p6 := &Layer6Params{}
	p6.Defaults()
	ly, err := NewLayer("L6", p6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ly.Modulate(make([]float64, 3), make([]float64, 3), 1); !errors.Is(err, ErrDimMismatch) {
		t.Errorf("expected ErrDimMismatch for wrong input size, got %v", err)
	}
	if _, err := ly.Modulate(make([]float64, 4), make([]float64, 4), 0); !errors.Is(err, ErrParamRange) {
		t.Errorf("expected ErrParamRange for zero time step, got %v", err)
	}
}

func TestLayerClassesString(t *testing.T) {
	if Layer4Class.String() != "Layer4" || Layer23Class.String() != "Layer23" {
		t.Errorf("unexpected class names: %v %v", Layer4Class, Layer23Class)
	}
}
