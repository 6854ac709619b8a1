// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seismic

import (
	"math"
)

// combination rule names
const (
	RuleSRSS = "srss"
	RuleCQC  = "cqc"
)

// Participation returns the modal participation factor Γ = φᵀ·M·r of a
// mass-normalized mode shape φ for the influence vector r
func Participation(phi []float64, M [][]float64, r []float64) (gamma float64) {
	n := len(phi)
	for i := 0; i < n; i++ {
		mr := 0.0
		for j := 0; j < n; j++ {
			mr += M[i][j] * r[j]
		}
		gamma += phi[i] * mr
	}
	return
}

// ModalPeak returns the peak modal response vector Γ·Sa/ω² · φ
func ModalPeak(gamma, sa, omega float64, phi []float64) (peak []float64) {
	peak = make([]float64, len(phi))
	f := gamma * sa / (omega * omega)
	for i, p := range phi {
		peak[i] = f * p
	}
	return
}

// SRSS combines per-mode peak vectors component-wise as the square root of
// the sum of squares. It assumes well-separated modes.
func SRSS(peaks [][]float64) (comb []float64) {
	if len(peaks) == 0 {
		return
	}
	comb = make([]float64, len(peaks[0]))
	for _, p := range peaks {
		for i, v := range p {
			comb[i] += v * v
		}
	}
	for i := range comb {
		comb[i] = math.Sqrt(comb[i])
	}
	return
}

// CQC combines per-mode peak vectors with the complete quadratic combination,
// using the Der Kiureghian cross-correlation coefficients for equal modal
// damping zeta. With diagonal correlation only it reduces to SRSS; the cross
// terms never decrease the combined value for same-sign peaks.
func CQC(peaks [][]float64, omegas []float64, zeta float64) (comb []float64) {
	nm := len(peaks)
	if nm == 0 {
		return
	}
	rho := make([][]float64, nm)
	for i := 0; i < nm; i++ {
		rho[i] = make([]float64, nm)
		for j := 0; j < nm; j++ {
			rho[i][j] = crossCorrelation(omegas[i], omegas[j], zeta)
		}
	}
	comb = make([]float64, len(peaks[0]))
	for k := range comb {
		s := 0.0
		for i := 0; i < nm; i++ {
			for j := 0; j < nm; j++ {
				s += rho[i][j] * peaks[i][k] * peaks[j][k]
			}
		}
		if s < 0 {
			s = 0
		}
		comb[k] = math.Sqrt(s)
	}
	return
}

// crossCorrelation is the Der Kiureghian coefficient for two modes with equal
// damping: ρ = 8ζ²(1+r)·r^{3/2} / ((1-r²)² + 4ζ²r(1+r)²), r = ωj/ωi
func crossCorrelation(wi, wj, zeta float64) float64 {
	if wi == 0 || wj == 0 {
		if wi == wj {
			return 1
		}
		return 0
	}
	r := wj / wi
	if r > 1 {
		r = 1 / r
	}
	num := 8 * zeta * zeta * (1 + r) * math.Pow(r, 1.5)
	den := (1-r*r)*(1-r*r) + 4*zeta*zeta*r*(1+r)*(1+r)
	return num / den
}

// CloselySpaced reports whether any two adjacent modes have a period ratio
// (shorter over longer) above the given threshold
func CloselySpaced(periods []float64, threshold float64) bool {
	for i := 1; i < len(periods); i++ {
		lo, hi := periods[i], periods[i-1]
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi > 0 && lo/hi > threshold {
			return true
		}
	}
	return false
}

// Combine applies the appropriate combination rule: CQC when any adjacent
// modes are closely spaced (period ratio above closeRatio), SRSS otherwise.
// It returns the combined vector and the rule used.
func Combine(peaks [][]float64, omegas, periods []float64, zeta, closeRatio float64) (comb []float64, rule string) {
	if CloselySpaced(periods, closeRatio) {
		return CQC(peaks, omegas, zeta), RuleCQC
	}
	return SRSS(peaks), RuleSRSS
}
