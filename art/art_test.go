// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package art

import (
	"math"
	"testing"

	"github.com/Hellblazer/ART-sub006/osc"
)

const difTol = 1.0e-12

func TestQuality(t *testing.T) {
	mp := MatchParams{}
	mp.Defaults()

	q, err := mp.Quality([]float64{1, 1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if dif := math.Abs(q - 1); dif > difTol {
		t.Errorf("identical vectors: got %v, want 1", q)
	}

	q, _ = mp.Quality([]float64{1, 1}, []float64{0, 0})
	if q != 0 {
		t.Errorf("disjoint expectation: got %v, want 0", q)
	}

	q, _ = mp.Quality([]float64{1, 1}, []float64{1, 0})
	if dif := math.Abs(q - 0.5); dif > difTol {
		t.Errorf("half overlap: got %v, want 0.5", q)
	}

	// zero feature vector is the defined empty value, not an error
	q, err = mp.Quality([]float64{0, 0}, []float64{1, 1})
	if err != nil || q != 0 {
		t.Errorf("zero feature: got %v, %v", q, err)
	}

	if _, err := mp.Quality([]float64{1}, []float64{1, 1}); err == nil {
		t.Errorf("expected dimension mismatch error")
	}
}

func newTestDetector(t *testing.T) *Detector {
	op := osc.Params{}
	op.Defaults()
	op.Size = 256
	bu, err := osc.NewAnalyzer(&op)
	if err != nil {
		t.Fatal(err)
	}
	td, err := osc.NewAnalyzer(&op)
	if err != nil {
		t.Fatal(err)
	}
	mp := MatchParams{}
	mp.Defaults()
	lp := LikelihoodParams{}
	lp.Defaults()
	dt, err := NewDetector(&mp, &lp, bu, td)
	if err != nil {
		t.Fatal(err)
	}
	return dt
}

// fill drives both streams with 40 Hz sinusoids at the given top-down
// phase offset (radians).
func fill(dt *Detector, offset float64) {
	n := dt.BottomUp.Params.Size
	fs := dt.BottomUp.Params.SampleRate
	for i := 0; i < n; i++ {
		ts := float64(i) / fs
		dt.BottomUp.RecordSample(math.Sin(2*math.Pi*40*ts), ts)
		dt.TopDown.RecordSample(math.Sin(2*math.Pi*40*ts+offset), ts)
	}
}

func TestDetectResonance(t *testing.T) {
	dt := newTestDetector(t)
	fill(dt, 0)
	rs, err := dt.Detect([]float64{1, 1}, []float64{1, 1}, 0.256)
	if err != nil {
		t.Fatal(err)
	}
	if !rs.Match || !rs.PhaseSync || !rs.BothGamma {
		t.Fatalf("expected full resonance, got %+v", rs)
	}
	if rs.Likelihood != 1 {
		t.Errorf("likelihood should cap at 1, got %v", rs.Likelihood)
	}
}

func TestDetectAntiphase(t *testing.T) {
	dt := newTestDetector(t)
	fill(dt, math.Pi)
	rs, err := dt.Detect([]float64{1, 1}, []float64{1, 1}, 0.256)
	if err != nil {
		t.Fatal(err)
	}
	if rs.PhaseSync {
		t.Errorf("antiphase streams should not be synchronized: %+v", rs)
	}
	if !rs.BothGamma {
		t.Errorf("both streams are still 40 Hz: %+v", rs)
	}
}

func TestDetectBeforeFull(t *testing.T) {
	dt := newTestDetector(t)
	rs, err := dt.Detect([]float64{1, 1}, []float64{1, 1}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if rs.PhaseSync || rs.BothGamma {
		t.Errorf("oscillation flags should be false before buffers fill: %+v", rs)
	}
	if !rs.Match {
		t.Errorf("match should not depend on oscillation state")
	}
	if dif := math.Abs(rs.Likelihood - rs.MatchQuality); dif > difTol {
		t.Errorf("likelihood should equal match quality: %v vs %v", rs.Likelihood, rs.MatchQuality)
	}
}

// TestLikelihoodMonotonic verifies that forcing each of match,
// phase-sync and joint-gamma true never decreases the likelihood.
func TestLikelihoodMonotonic(t *testing.T) {
	dt := newTestDetector(t)
	base := &ResonanceState{MatchQuality: 0.8}
	flags := []func(rs *ResonanceState){
		func(rs *ResonanceState) { rs.Match = true },
		func(rs *ResonanceState) { rs.PhaseSync = true },
		func(rs *ResonanceState) { rs.BothGamma = true },
	}
	// over all 8 combinations, adding any single flag must not decrease
	for bits := 0; bits < 8; bits++ {
		rs := *base
		for i, fn := range flags {
			if bits&(1<<i) != 0 {
				fn(&rs)
			}
		}
		lk := dt.likelihood(&rs)
		for i, fn := range flags {
			if bits&(1<<i) != 0 {
				continue
			}
			up := rs
			fn(&up)
			if dt.likelihood(&up) < lk {
				t.Errorf("forcing flag %d true decreased likelihood: %v -> %v", i, lk, dt.likelihood(&up))
			}
		}
	}
}

func TestValidate(t *testing.T) {
	mp := MatchParams{Vigilance: 1.5}
	if err := mp.Validate(); err == nil {
		t.Errorf("expected vigilance range error")
	}
	lp := LikelihoodParams{}
	lp.Defaults()
	lp.Cap = 0
	if err := lp.Validate(); err == nil {
		t.Errorf("expected cap range error")
	}
	lp.Defaults()
	lp.PhaseWindow = 4
	if err := lp.Validate(); err == nil {
		t.Errorf("expected phase window range error")
	}

	op := osc.Params{}
	op.Defaults()
	an, _ := osc.NewAnalyzer(&op)
	mp.Defaults()
	lp.Defaults()
	if _, err := NewDetector(&mp, &lp, an, nil); err == nil {
		t.Errorf("expected missing stream error")
	}
}
