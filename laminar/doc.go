// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package laminar implements the six-layer cortical circuit that ties the
rest of the model together.  Layers 2 and 3 are modeled as a single
integration population, giving five active layers, each a population of
shunting units with its own time constant and routing behavior:

  - Layer 4: fast driving input, sigmoid-compressed so zero input
    produces output exactly at the activation floor.
  - Layer 2/3: integration of bottom-up drive, top-down priming and
    horizontal grouping, resolved by shunting competition.
  - Layer 1: very slow sustained priming, the source of the attention
    signal gating learning.
  - Layer 6: the matching layer -- learned expectations modulate
    bottom-up signals but can never create activity on their own.
  - Layer 5: amplified, burst-gated, normalized output.

A Circuit owns the five layers plus the temporal chunking front end,
the oscillation analyzers over the bottom-up (Layer 4) and top-down
(Layer 1) streams, and the resonance detector.  Each Cycle call runs
one full bottom-up / top-down sweep over an input pattern, evaluates
resonance, and applies resonance- and attention-gated learning.
*/
package laminar
