// Copyright (c) 2024, The ART Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package osc analyzes the oscillatory content of an activation stream.

An Analyzer keeps a fixed-capacity circular buffer of scalar activation
snapshots (typically the mean activation of a layer, sampled once per
circuit cycle).  Until the buffer has filled it reports the zero "no
oscillation" metrics.  Once full, each Metrics call computes a power
spectrum over the window (zero-padded to a power of two, so arbitrary
history sizes work), and extracts the dominant frequency, the fraction
of power in the gamma band (30-50 Hz by default), and the instantaneous
phase at the dominant frequency.
*/
package osc

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/emer/etable/minmax"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Metrics are the oscillation measurements for one analysis window.
// The zero value means "no oscillation detected".
type Metrics struct {
	DominantFreq float64 `json:"dominant_freq" desc:"frequency of the spectral power peak in Hz -- always >= 0"`
	GammaPower   float64 `json:"gamma_power" desc:"fraction of total (non-DC) spectral power within the gamma band, in [0, 1]"`
	Phase        float64 `json:"phase" desc:"instantaneous phase at the dominant frequency, in [-pi, pi]"`
	Time         float64 `json:"time" desc:"time of the most recent sample in seconds"`
}

// InGamma reports whether the dominant frequency lies within the given band.
func (mt *Metrics) InGamma(band minmax.F64) bool {
	return mt.DominantFreq >= band.Min && mt.DominantFreq <= band.Max
}

// Params are the oscillation analyzer parameters.
type Params struct {
	Size       int        `def:"128" min:"8" desc:"history buffer capacity in samples -- frequency resolution is SampleRate / next-power-of-two(Size)"`
	SampleRate float64    `def:"1000" min:"1" desc:"sampling rate of the activation stream in Hz -- one sample per circuit cycle at 1 msec per cycle = 1000 Hz"`
	Gamma      minmax.F64 `desc:"gamma band in Hz -- default 30..50"`
}

func (op *Params) Defaults() {
	op.Size = 128
	op.SampleRate = 1000
	op.Gamma.Set(30, 50)
	op.Update()
}

// Update must be called after any changes to parameters.
func (op *Params) Update() {
}

// Validate returns an error if parameters are outside permitted ranges.
func (op *Params) Validate() error {
	if op.Size < 8 {
		return fmt.Errorf("osc.Params: Size must be >= 8, got %d", op.Size)
	}
	if op.SampleRate <= 0 {
		return fmt.Errorf("osc.Params: SampleRate must be > 0, got %g", op.SampleRate)
	}
	if op.Gamma.Min < 0 || op.Gamma.Min > op.Gamma.Max {
		return fmt.Errorf("osc.Params: invalid gamma band [%g, %g]", op.Gamma.Min, op.Gamma.Max)
	}
	return nil
}

// Analyzer maintains the circular sample buffer and the FFT plan for
// one activation stream.
type Analyzer struct {
	Params Params `desc:"parameters -- validated at construction"`

	buf    []float64
	idx    int
	full   bool
	time   float64
	padN   int
	fft    *fourier.FFT
	window []float64
	coefs  []complex128
}

// NewAnalyzer returns a new analyzer, or an error if the parameters
// are out of range.
func NewAnalyzer(op *Params) (*Analyzer, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	an := &Analyzer{Params: *op}
	an.padN = 1
	for an.padN < op.Size {
		an.padN <<= 1
	}
	an.buf = make([]float64, op.Size)
	an.fft = fourier.NewFFT(an.padN)
	an.window = make([]float64, an.padN)
	an.coefs = make([]complex128, an.padN/2+1)
	return an, nil
}

// Reset empties the sample buffer.
func (an *Analyzer) Reset() {
	an.idx = 0
	an.full = false
	an.time = 0
	for i := range an.buf {
		an.buf[i] = 0
	}
}

// Full reports whether the history buffer has filled.
func (an *Analyzer) Full() bool { return an.full }

// RecordSample adds one scalar activation sample at the given time.
func (an *Analyzer) RecordSample(v, time float64) {
	an.buf[an.idx] = v
	an.idx++
	if an.idx >= len(an.buf) {
		an.idx = 0
		an.full = true
	}
	an.time = time
}

// Record adds the mean of an activation pattern as one sample.
func (an *Analyzer) Record(act []float64, time float64) {
	if len(act) == 0 {
		an.RecordSample(0, time)
		return
	}
	sum := 0.0
	for _, v := range act {
		sum += v
	}
	an.RecordSample(sum/float64(len(act)), time)
}

// Metrics computes the oscillation metrics over the current window.
// Returns the zero "no oscillation" value until the buffer is full,
// and for windows with negligible power (e.g. all-zero activation).
func (an *Analyzer) Metrics() Metrics {
	if !an.full {
		return Metrics{}
	}
	n := len(an.buf)
	// oldest-first copy of the ring, mean-subtracted to kill the DC
	// component, zero-padded to the transform size
	mean := 0.0
	for _, v := range an.buf {
		mean += v
	}
	mean /= float64(n)
	for i := 0; i < n; i++ {
		an.window[i] = an.buf[(an.idx+i)%n] - mean
	}
	for i := n; i < an.padN; i++ {
		an.window[i] = 0
	}
	an.coefs = an.fft.Coefficients(an.coefs, an.window)

	peak := 0
	peakPwr := 0.0
	totPwr := 0.0
	gamPwr := 0.0
	for i := 1; i < len(an.coefs); i++ {
		pwr := real(an.coefs[i])*real(an.coefs[i]) + imag(an.coefs[i])*imag(an.coefs[i])
		totPwr += pwr
		hz := an.fft.Freq(i) * an.Params.SampleRate
		if hz >= an.Params.Gamma.Min && hz <= an.Params.Gamma.Max {
			gamPwr += pwr
		}
		if pwr > peakPwr {
			peakPwr = pwr
			peak = i
		}
	}
	if totPwr < 1e-12 || peak == 0 {
		return Metrics{Time: an.time}
	}
	mt := Metrics{
		DominantFreq: an.fft.Freq(peak) * an.Params.SampleRate,
		GammaPower:   gamPwr / totPwr,
		Phase:        cmplx.Phase(an.coefs[peak]),
		Time:         an.time,
	}
	if mt.GammaPower > 1 {
		mt.GammaPower = 1
	}
	return mt
}

// PhaseDiff returns the phase difference a - b wrapped to [-pi, pi].
func PhaseDiff(a, b float64) float64 {
	d := a - b
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
