// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import "sync"

// Batcher fans independent work items out across worker goroutines.
// It is used for batch parallelism over independent circuit instances
// or pattern batches: each item must own its state exclusively, so no
// locking is needed and results are identical to sequential execution.
type Batcher struct {
	NThreads int `desc:"number of worker goroutines -- <= 1 runs inline sequentially"`
}

// Run calls fun(i) for i in [0, n), distributed over NThreads workers
// in contiguous index ranges, and waits for completion.
func (bt *Batcher) Run(n int, fun func(i int)) {
	nt := bt.NThreads
	if nt <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fun(i)
		}
		return
	}
	if nt > n {
		nt = n
	}
	var wg sync.WaitGroup
	per := (n + nt - 1) / nt
	for w := 0; w < nt; w++ {
		st := w * per
		ed := st + per
		if ed > n {
			ed = n
		}
		if st >= ed {
			break
		}
		wg.Add(1)
		go func(st, ed int) {
			defer wg.Done()
			for i := st; i < ed; i++ {
				fun(i)
			}
		}(st, ed)
	}
	wg.Wait()
}
