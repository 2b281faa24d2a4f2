// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package art implements adaptive-resonance matching and the resonance
detector that combines three independent signatures into a single
consciousness-likelihood value:

  - ART match: normalized overlap between a bottom-up feature vector
    and a top-down expectation vector, accepted when it reaches the
    vigilance threshold.
  - Phase synchrony: the wrapped phase difference between the bottom-up
    and top-down oscillation streams is within the sync window.
  - Joint gamma: both streams' dominant frequencies fall in the gamma
    band.

The combination rule (match quality as base, fixed bonuses for phase
synchrony and joint gamma, capped at 1) is an explicit heuristic
carried over from the model design -- not a learned or derived
quantity -- so all of its constants are configurable parameters.
*/
package art

import (
	"fmt"
	"math"

	"github.com/Hellblazer/ART-sub006/osc"
)

// MatchParams parameterize the ART matching rule.
type MatchParams struct {
	Vigilance float64 `def:"0.7" min:"0" max:"1" desc:"match-quality threshold for declaring a match -- higher values demand closer agreement between feature and expectation"`
}

func (mp *MatchParams) Defaults() {
	mp.Vigilance = 0.7
}

// Validate returns an error if parameters are outside permitted ranges.
func (mp *MatchParams) Validate() error {
	if mp.Vigilance < 0 || mp.Vigilance > 1 {
		return fmt.Errorf("art.MatchParams: Vigilance must be in [0, 1], got %g", mp.Vigilance)
	}
	return nil
}

// Quality returns the normalized overlap between a feature vector and
// an expectation vector: sum(min(f, e)) / sum(f), with negative
// components treated as zero.  Returns 0 for an empty or zero feature
// vector (the defined "no match" value, not an error).
func (mp *MatchParams) Quality(feature, expect []float64) (float64, error) {
	if len(feature) != len(expect) {
		return 0, fmt.Errorf("art.Quality: feature dimension %d != expectation dimension %d", len(feature), len(expect))
	}
	num, den := 0.0, 0.0
	for i, f := range feature {
		if f < 0 {
			f = 0
		}
		e := expect[i]
		if e < 0 {
			e = 0
		}
		den += f
		num += math.Min(f, e)
	}
	if den <= 0 {
		return 0, nil
	}
	return num / den, nil
}

// LikelihoodParams are the constants of the consciousness-likelihood
// heuristic.  These are design-intent values, not measurements; the
// defaults reproduce the original model.
type LikelihoodParams struct {
	PhaseWindow float64 `def:"0.785" min:"0" desc:"maximum absolute wrapped phase difference, in radians, for the streams to count as phase-synchronized -- default pi/4"`
	PhaseBonus  float64 `def:"0.2" min:"0" desc:"likelihood bonus added when the streams are phase-synchronized"`
	GammaBonus  float64 `def:"0.3" min:"0" desc:"likelihood bonus added when both streams' dominant frequencies are in the gamma band"`
	Cap         float64 `def:"1" min:"0" max:"1" desc:"upper bound on the combined likelihood"`
}

func (lp *LikelihoodParams) Defaults() {
	lp.PhaseWindow = math.Pi / 4
	lp.PhaseBonus = 0.2
	lp.GammaBonus = 0.3
	lp.Cap = 1
}

// Validate returns an error if parameters are outside permitted ranges.
func (lp *LikelihoodParams) Validate() error {
	if lp.PhaseWindow <= 0 || lp.PhaseWindow > math.Pi {
		return fmt.Errorf("art.LikelihoodParams: PhaseWindow must be in (0, pi], got %g", lp.PhaseWindow)
	}
	if lp.PhaseBonus < 0 || lp.GammaBonus < 0 {
		return fmt.Errorf("art.LikelihoodParams: bonuses must be >= 0")
	}
	if lp.Cap <= 0 || lp.Cap > 1 {
		return fmt.Errorf("art.LikelihoodParams: Cap must be in (0, 1], got %g", lp.Cap)
	}
	return nil
}

// ResonanceState is the outcome of one resonance evaluation.
type ResonanceState struct {
	Match        bool        `desc:"match quality reached vigilance"`
	PhaseSync    bool        `desc:"bottom-up and top-down streams are phase-synchronized"`
	BothGamma    bool        `desc:"both streams' dominant frequencies are in the gamma band"`
	Likelihood   float64     `desc:"combined consciousness-likelihood heuristic in [0, 1]"`
	MatchQuality float64     `desc:"normalized feature/expectation overlap in [0, 1]"`
	BottomUp     osc.Metrics `desc:"oscillation metrics of the bottom-up stream"`
	TopDown      osc.Metrics `desc:"oscillation metrics of the top-down stream"`
	Time         float64     `desc:"evaluation time in seconds"`
}

// Detector evaluates resonance between a bottom-up and a top-down
// activation stream.  The two analyzers are owned by the circuit; the
// detector only reads them.
type Detector struct {
	Match MatchParams      `view:"inline" desc:"ART matching rule parameters"`
	Like  LikelihoodParams `view:"inline" desc:"likelihood heuristic constants"`

	BottomUp *osc.Analyzer `desc:"bottom-up (driving pathway) oscillation stream -- non-owning"`
	TopDown  *osc.Analyzer `desc:"top-down (expectation pathway) oscillation stream -- non-owning"`
}

// NewDetector returns a detector reading the two given streams, or an
// error if parameters are invalid or a stream is missing.
func NewDetector(mp *MatchParams, lp *LikelihoodParams, bu, td *osc.Analyzer) (*Detector, error) {
	if err := mp.Validate(); err != nil {
		return nil, err
	}
	if err := lp.Validate(); err != nil {
		return nil, err
	}
	if bu == nil || td == nil {
		return nil, fmt.Errorf("art.NewDetector: both oscillation streams are required")
	}
	return &Detector{Match: *mp, Like: *lp, BottomUp: bu, TopDown: td}, nil
}

// Detect evaluates resonance between the given feature (bottom-up) and
// expectation (top-down) vectors at the given time, using the current
// oscillation metrics of the two streams.
func (dt *Detector) Detect(feature, expect []float64, time float64) (*ResonanceState, error) {
	q, err := dt.Match.Quality(feature, expect)
	if err != nil {
		return nil, err
	}
	rs := &ResonanceState{
		MatchQuality: q,
		Match:        q >= dt.Match.Vigilance,
		BottomUp:     dt.BottomUp.Metrics(),
		TopDown:      dt.TopDown.Metrics(),
		Time:         time,
	}
	if dt.BottomUp.Full() && dt.TopDown.Full() {
		pd := osc.PhaseDiff(rs.BottomUp.Phase, rs.TopDown.Phase)
		rs.PhaseSync = math.Abs(pd) < dt.Like.PhaseWindow
		rs.BothGamma = rs.BottomUp.InGamma(dt.BottomUp.Params.Gamma) &&
			rs.TopDown.InGamma(dt.TopDown.Params.Gamma)
	}
	rs.Likelihood = dt.likelihood(rs)
	return rs, nil
}

// likelihood applies the heuristic combination rule.
func (dt *Detector) likelihood(rs *ResonanceState) float64 {
	lk := 0.0
	if rs.Match {
		lk = rs.MatchQuality
	}
	if rs.PhaseSync {
		lk += dt.Like.PhaseBonus
	}
	if rs.BothGamma {
		lk += dt.Like.GammaBonus
	}
	if lk > dt.Like.Cap {
		lk = dt.Like.Cap
	}
	return lk
}
