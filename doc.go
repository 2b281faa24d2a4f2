// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
This is the repository for the laminar adaptive-resonance circuit: a
rate-coded model of a six-layer cortical column that combines shunting
dynamics, temporal chunking, oscillation analysis and resonance-gated
learning.

The packages build on each other roughly bottom-up:

* shunt: the bounded competitive shunting equation and its forward
Euler integrator, the dynamical substrate for every layer.

* sigmoid: the x/(x+1) saturating compression used by the driving
input pathway.

* learn: weight matrices, the learning rule family (Hebbian, BCM,
Instar, Outstar, resonance-gated), learning statistics and JSON
checkpointing.

* chunk: the temporal chunking front end -- working memory with a
primacy gradient from transmitter habituation, and the masking field
of formed chunks.

* osc: FFT-based oscillation analysis of activation streams: dominant
frequency, gamma-band power and instantaneous phase.

* art: the adaptive-resonance matching rule and the resonance detector
combining match quality, phase synchrony and joint gamma into the
consciousness-likelihood heuristic.

* compute: the acceleration backend boundary -- the float64 reference
path, the float32 vectorized path, cross-precision validation and
batch parallelism.

* laminar: the six-layer circuit itself, tying all of the above into
the per-cycle bottom-up / top-down processing sweep.

* examples/resonance: a runnable demonstration driving the circuit
with modulated input and reporting the resonance trajectory.
*/
package art
