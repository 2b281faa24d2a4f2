// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chunk

import (
	"fmt"
	"math"
)

// Params are the temporal processor parameters.
type Params struct {
	Size     int     `desc:"dimension of input patterns -- all stored and emitted patterns have this size"`
	Capacity int     `def:"7" min:"3" max:"15" desc:"working memory capacity in items -- a chunk forms when this many items are held -- constrained to the Miller/Cowan 3..15 range"`
	Deplete  float64 `def:"0.2" min:"0" max:"1" desc:"fraction of the transmitter resource consumed by each item presentation -- produces the primacy gradient"`
	RecTau   float64 `def:"0.5" min:"0" desc:"transmitter recovery time constant in seconds -- resource recovers toward 1 between presentations"`
	ItemTau  float64 `def:"2" min:"0" desc:"item strength decay time constant in seconds"`
	ChunkTau float64 `def:"5" min:"0" desc:"chunk strength decay time constant in seconds -- chunks below a negligible strength are dropped"`
}

func (tp *Params) Defaults() {
	tp.Capacity = 7
	tp.Deplete = 0.2
	tp.RecTau = 0.5
	tp.ItemTau = 2
	tp.ChunkTau = 5
	tp.Update()
}

// Update must be called after any changes to parameters.
func (tp *Params) Update() {
}

// Validate returns an error if parameters are outside permitted ranges.
func (tp *Params) Validate() error {
	if tp.Size <= 0 {
		return fmt.Errorf("chunk.Params: Size must be > 0, got %d", tp.Size)
	}
	if tp.Capacity < 3 || tp.Capacity > 15 {
		return fmt.Errorf("chunk.Params: Capacity must be in [3, 15], got %d", tp.Capacity)
	}
	if tp.Deplete < 0 || tp.Deplete > 1 {
		return fmt.Errorf("chunk.Params: Deplete must be in [0, 1], got %g", tp.Deplete)
	}
	if tp.RecTau <= 0 || tp.ItemTau <= 0 || tp.ChunkTau <= 0 {
		return fmt.Errorf("chunk.Params: time constants must be > 0")
	}
	return nil
}

// Processor is the temporal chunking front end: a working memory of
// recent items plus the masking field of formed chunks.
type Processor struct {
	Params Params `desc:"parameters -- validated at construction"`

	Items       []ItemNode   `desc:"items currently held in working memory, position order"`
	Chunks      []*ListChunk `desc:"formed chunks, bounded to Capacity entries"`
	Transmitter float64      `desc:"habituating transmitter resource in [0, 1] gating stored item strength"`
	Position    int          `desc:"next item sequence position"`
	Time        float64      `desc:"time of the most recent input in seconds"`
	trigger     bool
}

// NewProcessor returns a new temporal processor, or an error if the
// parameters are out of range.
func NewProcessor(tp *Params) (*Processor, error) {
	if err := tp.Validate(); err != nil {
		return nil, err
	}
	pr := &Processor{Params: *tp}
	pr.Reset()
	return pr, nil
}

// Reset clears all working memory and chunk state.
func (pr *Processor) Reset() {
	pr.Items = pr.Items[:0]
	pr.Chunks = pr.Chunks[:0]
	pr.Transmitter = 1
	pr.Position = 0
	pr.Time = 0
	pr.trigger = false
}

// Trigger requests chunk formation on the next Process call regardless
// of whether capacity has been reached.
func (pr *Processor) Trigger() {
	pr.trigger = true
}

// Activations returns the current strength of each held item in
// position order: the primacy gradient.
func (pr *Processor) Activations() []float64 {
	acts := make([]float64, len(pr.Items))
	for i, it := range pr.Items {
		acts[i] = it.Strength
	}
	return acts
}

// step advances the decay and recovery dynamics by dt seconds.
func (pr *Processor) step(dt float64) {
	if dt <= 0 {
		return
	}
	itemDk := math.Exp(-dt / pr.Params.ItemTau)
	for i := range pr.Items {
		pr.Items[i].Strength *= itemDk
	}
	// transmitter recovers toward full availability
	pr.Transmitter += (1 - pr.Transmitter) * (1 - math.Exp(-dt/pr.Params.RecTau))
}

// Process stores one input pattern at the given time and returns the
// chunked pattern: the strongest current chunk's derived pattern once
// chunks have formed, or the raw input until then.  time must be
// non-decreasing across calls.
func (pr *Processor) Process(input []float64, time float64) ([]float64, error) {
	if len(input) != pr.Params.Size {
		return nil, fmt.Errorf("chunk.Process: input dimension %d != configured size %d", len(input), pr.Params.Size)
	}
	if time < pr.Time {
		return nil, fmt.Errorf("chunk.Process: time went backward: %g < %g", time, pr.Time)
	}
	pr.step(time - pr.Time)
	pr.Time = time

	it := ItemNode{Pattern: append([]float64(nil), input...), Position: pr.Position, Strength: pr.Transmitter, Time: time}
	pr.Items = append(pr.Items, it)
	pr.Position++
	pr.Transmitter *= 1 - pr.Params.Deplete

	if len(pr.Items) >= pr.Params.Capacity || pr.trigger {
		pr.formChunk()
		pr.trigger = false
	}

	if best := pr.Strongest(); best != nil {
		return best.Pattern, nil
	}
	return input, nil
}

// formChunk consumes all held items into a new chunk, merges it with
// any overlapping existing chunk, and enforces the chunk-count bound.
func (pr *Processor) formChunk() {
	if len(pr.Items) == 0 {
		return
	}
	lc := &ListChunk{Items: append([]ItemNode(nil), pr.Items...), FormedAt: pr.Time}
	tot := 0.0
	for _, it := range lc.Items {
		tot += it.Strength
	}
	lc.Strength = tot / float64(len(lc.Items))
	lc.Type = SizeClass(len(lc.Items))
	lc.derivePattern(pr.Params.Size)
	pr.Items = pr.Items[:0]

	for i, oc := range pr.Chunks {
		if oc.Overlaps(lc) {
			merged := Merge(oc, lc, pr.Params.Size)
			pr.Chunks[i] = merged
			pr.bound()
			return
		}
	}
	pr.Chunks = append(pr.Chunks, lc)
	pr.bound()
}

// bound drops the weakest chunks so the chunk count never exceeds the
// configured capacity.
func (pr *Processor) bound() {
	for len(pr.Chunks) > pr.Params.Capacity {
		wk := 0
		for i, lc := range pr.Chunks {
			if lc.StrengthAt(pr.Time, pr.Params.ChunkTau) < pr.Chunks[wk].StrengthAt(pr.Time, pr.Params.ChunkTau) {
				wk = i
			}
		}
		pr.Chunks = append(pr.Chunks[:wk], pr.Chunks[wk+1:]...)
	}
}

// Strongest returns the chunk with the highest current (decayed)
// strength, or nil if none have formed.
func (pr *Processor) Strongest() *ListChunk {
	var best *ListChunk
	bestStr := 0.0
	for _, lc := range pr.Chunks {
		s := lc.StrengthAt(pr.Time, pr.Params.ChunkTau)
		if best == nil || s > bestStr {
			best = lc
			bestStr = s
		}
	}
	return best
}
