// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chunk implements the temporal-chunking front end that converts
a raw input pattern stream into capacity-limited list chunks before
laminar processing.

A working memory stores incoming items with a primacy gradient: each
item's stored strength is gated by a habituating transmitter resource
that depletes with every presentation and recovers over time, so items
presented earlier in a sequence retain a persistent activation
advantage over later ones.  A masking field groups the held items into
a chunk when the configured capacity (constrained to the 3..15
Miller/Cowan range) is reached or a formation trigger fires.  Chunk
strength decays exponentially from formation time, and overlapping
chunks are merged by unioning their items.
*/
package chunk

import (
	"fmt"
	"math"
	"sort"
)

// ChunkTypes classify a chunk by its item count, mirroring the
// 7 +/- 2 capacity bands of immediate memory.
type ChunkTypes int

const (
	// Small is 1-2 items.
	Small ChunkTypes = iota

	// Medium is 3-4 items.
	Medium

	// Large is 5-7 items, the classical span.
	Large

	// Super is 8 or more items, beyond the classical span.
	Super

	ChunkTypesN
)

var chunkTypesNames = [ChunkTypesN]string{"Small", "Medium", "Large", "Super"}

func (ct ChunkTypes) String() string {
	if ct < 0 || ct >= ChunkTypesN {
		return fmt.Sprintf("ChunkTypes(%d)", int(ct))
	}
	return chunkTypesNames[ct]
}

// SizeClass returns the chunk type for a given item count.
func SizeClass(n int) ChunkTypes {
	switch {
	case n <= 2:
		return Small
	case n <= 4:
		return Medium
	case n <= 7:
		return Large
	default:
		return Super
	}
}

// ItemNode is one timestamped item held in working memory: the input
// pattern, its sequence position, and its stored strength (set by the
// transmitter gate at presentation time, then decaying).
type ItemNode struct {
	Pattern  []float64 `desc:"copy of the input pattern for this item"`
	Position int       `desc:"sequence position, 0-based from start of the current list"`
	Strength float64   `desc:"stored activation strength -- transmitter-gated at entry, decays over time"`
	Time     float64   `desc:"presentation time in seconds"`
}

// ListChunk is an ordered group of items with a derived averaged
// pattern, a formation time, a decaying strength, and a size class.
type ListChunk struct {
	Items    []ItemNode `desc:"constituent items in position order"`
	Pattern  []float64  `desc:"strength-weighted average of the item patterns"`
	FormedAt float64    `desc:"formation time in seconds"`
	Strength float64    `desc:"strength at formation -- use StrengthAt for the decayed value"`
	Type     ChunkTypes `desc:"size classification of this chunk"`
}

// StrengthAt returns the exponentially decayed strength at the given
// time, with decay time constant tau (seconds).
func (lc *ListChunk) StrengthAt(time, tau float64) float64 {
	dt := time - lc.FormedAt
	if dt <= 0 {
		return lc.Strength
	}
	return lc.Strength * math.Exp(-dt/tau)
}

// PosRange returns the inclusive position range spanned by this chunk.
func (lc *ListChunk) PosRange() (lo, hi int) {
	lo, hi = math.MaxInt32, -1
	for _, it := range lc.Items {
		if it.Position < lo {
			lo = it.Position
		}
		if it.Position > hi {
			hi = it.Position
		}
	}
	return
}

// Overlaps reports whether the position ranges of two chunks intersect.
func (lc *ListChunk) Overlaps(oc *ListChunk) bool {
	alo, ahi := lc.PosRange()
	blo, bhi := oc.PosRange()
	return alo <= bhi && blo <= ahi
}

// derivePattern recomputes the strength-weighted average pattern from
// the current items.
func (lc *ListChunk) derivePattern(size int) {
	lc.Pattern = make([]float64, size)
	totStr := 0.0
	for _, it := range lc.Items {
		totStr += it.Strength
	}
	if totStr <= 0 {
		return
	}
	for _, it := range lc.Items {
		w := it.Strength / totStr
		for i, v := range it.Pattern {
			lc.Pattern[i] += w * v
		}
	}
}

// Merge unions the items of two overlapping chunks into a new chunk:
// items are deduplicated by position (keeping the stronger), re-sorted
// by position, and the pattern is re-derived.  The earlier formation
// time and the stronger strength are retained.
func Merge(a, b *ListChunk, size int) *ListChunk {
	byPos := map[int]ItemNode{}
	for _, it := range a.Items {
		byPos[it.Position] = it
	}
	for _, it := range b.Items {
		if cur, ok := byPos[it.Position]; !ok || it.Strength > cur.Strength {
			byPos[it.Position] = it
		}
	}
	mc := &ListChunk{FormedAt: math.Min(a.FormedAt, b.FormedAt), Strength: math.Max(a.Strength, b.Strength)}
	for _, it := range byPos {
		mc.Items = append(mc.Items, it)
	}
	sort.Slice(mc.Items, func(i, j int) bool { return mc.Items[i].Position < mc.Items[j].Position })
	mc.Type = SizeClass(len(mc.Items))
	mc.derivePattern(size)
	return mc
}
