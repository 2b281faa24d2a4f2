// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package learn

import "sync"

// Pool is a fixed-size free list of pre-allocated weight matrices of
// one shape, used to avoid allocation pressure from scratch matrices in
// high-frequency training loops.  Matrices obtained with Get must be
// explicitly returned with Put.  If the pool runs dry, Get falls back
// to a fresh allocation and counts it in Misses.
type Pool struct {
	Rows   int `desc:"matrix rows for all pooled matrices"`
	Cols   int `desc:"matrix cols for all pooled matrices"`
	Misses int `inactive:"+" desc:"number of Gets served by fresh allocation because the pool was empty"`

	mu   sync.Mutex
	free []*WtMatrix
}

// NewPool returns a pool of n pre-allocated rows x cols matrices.
func NewPool(rows, cols, n int) *Pool {
	pl := &Pool{Rows: rows, Cols: cols, free: make([]*WtMatrix, n)}
	for i := range pl.free {
		pl.free[i] = NewWtMatrix(rows, cols)
	}
	return pl
}

// Get returns a zeroed matrix from the pool, allocating a fresh one
// only if the pool is empty.
func (pl *Pool) Get() *WtMatrix {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	n := len(pl.free)
	if n == 0 {
		pl.Misses++
		return NewWtMatrix(pl.Rows, pl.Cols)
	}
	wm := pl.free[n-1]
	pl.free = pl.free[:n-1]
	wm.SetAll(0)
	return wm
}

// Put returns a matrix to the pool.  Matrices of the wrong shape are
// dropped rather than poisoning the pool.
func (pl *Pool) Put(wm *WtMatrix) {
	if wm == nil || wm.Rows != pl.Rows || wm.Cols != pl.Cols {
		return
	}
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.free = append(pl.free, wm)
}

// Free returns the number of matrices currently available.
func (pl *Pool) Free() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.free)
}
