// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compute

import (
	"flag"
	"os"
	"runtime"
)

// Environment describes the execution environment that backend
// selection depends on.  It is computed once with DetectEnvironment
// and threaded explicitly through construction -- there is no hidden
// process-wide backend cache.
type Environment struct {
	NumCPU    int       `desc:"number of logical CPUs available for batch parallelism"`
	Headless  bool      `desc:"running under automated / headless test execution -- accelerated backends are disabled for reproducibility"`
	Available []Backend `desc:"backends in priority order, most preferred first"`
}

// DetectEnvironment computes the environment: CPU count, headless
// detection (CI environment variable or go test execution), and the
// priority-ordered backend list (Vector32 then Sequential).
func DetectEnvironment() Environment {
	hd := os.Getenv("CI") != "" || flag.Lookup("test.v") != nil
	return Environment{
		NumCPU:    runtime.NumCPU(),
		Headless:  hd,
		Available: []Backend{NewVector32(), &Sequential{}},
	}
}

// Select returns the backend to use: the highest-priority available
// backend, or the float64 reference when running headless or when no
// accelerated backend is available.
func (ev *Environment) Select() Backend {
	if !ev.Headless {
		for _, bk := range ev.Available {
			return bk
		}
	}
	for _, bk := range ev.Available {
		if bk.Precision() == Float64 {
			return bk
		}
	}
	return &Sequential{}
}
