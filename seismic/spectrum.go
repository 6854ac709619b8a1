// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seismic implements design response spectra and the modal
// combination rules (SRSS and CQC) used by response-spectrum analyses
package seismic

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// SpectrumDomainError indicates a period outside a tabulated spectrum's range
type SpectrumDomainError struct {
	T, Tmin, Tmax float64
}

func (e *SpectrumDomainError) Error() string {
	return io.Sf("period %g s is outside the spectrum range [%g, %g] s", e.T, e.Tmin, e.Tmax)
}

// Spectrum maps a natural period to a spectral pseudo-acceleration [m/s²].
// It is either tabulated (piecewise linear between given points) or a code
// plateau spectrum built from the short-period and one-second accelerations.
type Spectrum struct {
	Periods []float64 // tabulated periods [s], strictly ascending (tabulated form)
	Accels  []float64 // accelerations at Periods [m/s²]
	Ss, S1  float64   // plateau parameters (analytic form)
	t0, ts  float64   // plateau corner periods
}

// NewSpectrum builds a tabulated spectrum. Periods must be strictly ascending
// and accelerations non-negative.
func NewSpectrum(periods, accels []float64) (o *Spectrum, err error) {
	if len(periods) < 2 || len(periods) != len(accels) {
		return nil, chk.Err("spectrum table needs at least two (period, acceleration) pairs: got %d periods and %d accelerations", len(periods), len(accels))
	}
	for i := 0; i < len(periods); i++ {
		if i > 0 && periods[i] <= periods[i-1] {
			return nil, chk.Err("spectrum periods must be strictly ascending: period[%d]=%g <= period[%d]=%g", i, periods[i], i-1, periods[i-1])
		}
		if accels[i] < 0 {
			return nil, chk.Err("spectrum accelerations must be non-negative: accel[%d]=%g", i, accels[i])
		}
	}
	return &Spectrum{Periods: periods, Accels: accels}, nil
}

// NewPlateauSpectrum builds the analytic code spectrum from the short-period
// acceleration Ss and the one-second acceleration S1: linear ramp up to
// T0 = 0.2·S1/Ss, plateau at Ss until Ts = S1/Ss, then the S1/T branch
func NewPlateauSpectrum(ss, s1 float64) (o *Spectrum, err error) {
	if ss <= 0 || s1 <= 0 || s1 > ss {
		return nil, chk.Err("plateau spectrum needs 0 < S1 <= Ss: got Ss=%g S1=%g", ss, s1)
	}
	ts := s1 / ss
	return &Spectrum{Ss: ss, S1: s1, t0: 0.2 * ts, ts: ts}, nil
}

// Sa returns the spectral acceleration at period T. Tabulated spectra fail
// with SpectrumDomainError outside their range; the plateau form is defined
// for all T >= 0.
func (o *Spectrum) Sa(T float64) (sa float64, err error) {
	if o.Periods == nil {
		switch {
		case T < 0:
			return 0, &SpectrumDomainError{T: T, Tmin: 0, Tmax: -1}
		case T < o.t0:
			return o.Ss * (0.4 + 0.6*T/o.t0), nil
		case T <= o.ts:
			return o.Ss, nil
		}
		return o.S1 / T, nil
	}
	n := len(o.Periods)
	if T < o.Periods[0] || T > o.Periods[n-1] {
		return 0, &SpectrumDomainError{T: T, Tmin: o.Periods[0], Tmax: o.Periods[n-1]}
	}
	for i := 1; i < n; i++ {
		if T <= o.Periods[i] {
			t0, t1 := o.Periods[i-1], o.Periods[i]
			a0, a1 := o.Accels[i-1], o.Accels[i]
			return a0 + (a1-a0)*(T-t0)/(t1-t0), nil
		}
	}
	return o.Accels[n-1], nil
}
