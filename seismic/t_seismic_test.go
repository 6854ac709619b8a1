// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seismic

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func Test_spectrum01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("spectrum01. plateau spectrum branches")

	// Ss = 10 m/s², S1 = 4 m/s² gives Ts = 0.4 s, T0 = 0.08 s
	sp, err := NewPlateauSpectrum(10, 4)
	if err != nil {
		tst.Fatal(err)
	}

	// ramp: Sa(0) = 0.4 Ss, Sa(T0) joins the plateau
	sa, _ := sp.Sa(0)
	chk.Scalar(tst, "Sa(0)", 1e-15, sa, 4.0)
	sa, _ = sp.Sa(0.04)
	chk.Scalar(tst, "Sa(T0/2)", 1e-15, sa, 10*(0.4+0.3))
	sa, _ = sp.Sa(0.08)
	chk.Scalar(tst, "Sa(T0)", 1e-15, sa, 10.0)

	// plateau
	sa, _ = sp.Sa(0.2)
	chk.Scalar(tst, "Sa(plateau)", 1e-15, sa, 10.0)
	sa, _ = sp.Sa(0.4)
	chk.Scalar(tst, "Sa(Ts)", 1e-15, sa, 10.0)

	// long-period branch: Sa = S1/T
	sa, _ = sp.Sa(2.0)
	chk.Scalar(tst, "Sa(2s)", 1e-15, sa, 2.0)

	// invalid parameters
	if _, err = NewPlateauSpectrum(0, 1); err == nil {
		tst.Fatalf("expected Ss=0 to be rejected")
	}
	if _, err = NewPlateauSpectrum(5, 6); err == nil {
		tst.Fatalf("expected S1 > Ss to be rejected")
	}
}

func Test_spectrum02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("spectrum02. tabulated spectrum interpolation and domain")

	sp, err := NewSpectrum([]float64{0.1, 0.5, 1.0}, []float64{2, 10, 5})
	if err != nil {
		tst.Fatal(err)
	}
	sa, err := sp.Sa(0.3)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "Sa(0.3)", 1e-15, sa, 6.0)
	sa, _ = sp.Sa(0.75)
	chk.Scalar(tst, "Sa(0.75)", 1e-15, sa, 7.5)
	sa, _ = sp.Sa(0.1)
	chk.Scalar(tst, "Sa(left end)", 1e-15, sa, 2.0)
	sa, _ = sp.Sa(1.0)
	chk.Scalar(tst, "Sa(right end)", 1e-15, sa, 5.0)

	// periods outside the table are an error, not an extrapolation
	_, err = sp.Sa(1.5)
	de, ok := err.(*SpectrumDomainError)
	if !ok {
		tst.Fatalf("expected SpectrumDomainError, got %T: %v", err, err)
	}
	chk.Scalar(tst, "Tmax", 1e-15, de.Tmax, 1.0)

	// malformed tables
	if _, err = NewSpectrum([]float64{0.5}, []float64{1}); err == nil {
		tst.Fatalf("expected a single-point table to be rejected")
	}
	if _, err = NewSpectrum([]float64{0.5, 0.5}, []float64{1, 2}); err == nil {
		tst.Fatalf("expected non-ascending periods to be rejected")
	}
	if _, err = NewSpectrum([]float64{0.1, 0.5}, []float64{1, -2}); err == nil {
		tst.Fatalf("expected a negative acceleration to be rejected")
	}
}

func Test_combine01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("combine01. SRSS and CQC basics")

	// single mode: both rules return the magnitude
	one := [][]float64{{3, -4, 0}}
	chk.Vector(tst, "srss single", 1e-15, SRSS(one), []float64{3, 4, 0})
	chk.Vector(tst, "cqc single", 1e-15, CQC(one, []float64{10}, 0.05), []float64{3, 4, 0})

	// two well-separated modes: CQC is close to SRSS
	peaks := [][]float64{{1, 2}, {3, 1}}
	srss := SRSS(peaks)
	cqc := CQC(peaks, []float64{5, 50}, 0.05)
	chk.Vector(tst, "separated modes", 1e-3, cqc, srss)

	// identical frequencies with same-sign peaks: CQC degenerates to the
	// plain sum, strictly above SRSS
	cqc = CQC(peaks, []float64{10, 10}, 0.05)
	chk.Vector(tst, "coincident modes", 1e-12, cqc, []float64{4, 3})
}

func Test_combine02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("combine02. rule selection by period spacing")

	peaks := [][]float64{{1}, {1}}
	omegas := []float64{10, 11}

	// adjacent periods at 91% of each other: closely spaced, CQC
	_, rule := Combine(peaks, omegas, []float64{1.0, 0.91}, 0.05, 0.90)
	if rule != RuleCQC {
		tst.Fatalf("rule = %q, want %q", rule, RuleCQC)
	}

	// well separated: SRSS
	_, rule = Combine(peaks, omegas, []float64{1.0, 0.5}, 0.05, 0.90)
	if rule != RuleSRSS {
		tst.Fatalf("rule = %q, want %q", rule, RuleSRSS)
	}

	if CloselySpaced([]float64{1.0, 0.95, 0.3}, 0.90) != true {
		tst.Fatalf("0.95/1.0 should count as closely spaced at threshold 0.90")
	}
	if CloselySpaced([]float64{1.0, 0.5, 0.25}, 0.90) != false {
		tst.Fatalf("octave-spaced periods should not count as closely spaced")
	}
}

func Test_combine03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("combine03. CQC bounds SRSS from above for same-sign peaks")

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	properties.Property("cqc >= srss componentwise", prop.ForAll(
		func(a, b, c, d float64, w1, w2 float64) bool {
			peaks := [][]float64{{a, b}, {c, d}}
			srss := SRSS(peaks)
			cqc := CQC(peaks, []float64{w1, w2}, 0.05)
			for i := range srss {
				if cqc[i] < srss[i]-1e-12 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(1, 200),
		gen.Float64Range(1, 200),
	))

	properties.Property("combined envelope is non-negative", prop.ForAll(
		func(a, b, c float64) bool {
			peaks := [][]float64{{a}, {b}, {c}}
			omegas := []float64{5, 20, 80}
			for _, v := range append(SRSS(peaks), CQC(peaks, omegas, 0.05)...) {
				if v < 0 || math.IsNaN(v) {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-50, 50),
		gen.Float64Range(-50, 50),
		gen.Float64Range(-50, 50),
	))

	properties.TestingRun(tst)
}

func Test_participation01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("participation01. participation factor and modal peak")

	// diagonal mass: Γ = Σ φ_i·m_i·r_i
	M := [][]float64{{2, 0}, {0, 2}}
	phi := []float64{0.5, 0.25}
	r := []float64{1, 1}
	gamma := Participation(phi, M, r)
	chk.Scalar(tst, "gamma", 1e-15, gamma, 1.5)

	peak := ModalPeak(2, 5, 10, []float64{1, -0.5})
	chk.Vector(tst, "peak", 1e-15, peak, []float64{0.1, -0.05})
}
