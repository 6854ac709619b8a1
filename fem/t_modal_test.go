// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/strucfem/strucfem/ana"
	"github.com/strucfem/strucfem/inp"
)

func Test_modal01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modal01. axial oscillator against the closed form")

	// fixed-base column whose top node only moves axially: a single DOF with
	// k = EA/L and half the member mass lumped at the top
	m := inp.NewModel("axial-column")
	m.AddNode(&inp.Node{Id: 0, X: [3]float64{0, 0, 0}, Support: "fixed"})
	m.AddNode(&inp.Node{Id: 1, X: [3]float64{0, 0, 3}, Rmask: &[6]bool{true, true, false, true, true, true}})
	m.AddMaterial(concreteK25())
	m.AddSection(&inp.Section{Name: "C30x30", Wid: 0.30, Hei: 0.30})
	m.AddElement(&inp.Element{Id: 0, Kind: "column", N0: 0, N1: 1, Mat: "K-25", Sec: "C30x30"})
	m.AddLoad(&inp.Load{Case: "D", Kind: "point", NodeId: 1, ElemId: -1, Dir: [3]float64{0, 0, -1}, Mag: 1})
	m.AddCombo(&inp.Combination{Name: "D", Terms: []inp.ComboTerm{{Case: "D", Factor: 1}}})

	cfg := inp.DefaultConfig()
	cfg.Type = inp.AnaModal
	cfg.Nmodes = 1
	dom := newTestDomain(tst, m, cfg, true)
	res, err := dom.SolveModal(1, cfg.EigMaxSweeps)
	if err != nil {
		tst.Fatal(err)
	}

	A := 0.09
	EA := 2.35e7 * A
	mass := 2.4 * A * 3.0
	sd := ana.Sdof{K: EA / 3.0, M: mass / 2.0}
	chk.Scalar(tst, "omega", 1e-6*sd.Omega(), res.Omegas[0], sd.Omega())
	chk.Scalar(tst, "freq ", 1e-6*sd.FreqHz(), res.Freqs[0], sd.FreqHz())

	// mass normalization: for a single DOF, phi = 1/sqrt(m)
	phi := res.Shapes[0][6*1+2]
	chk.Scalar(tst, "phi", 1e-9, phi, 1.0/math.Sqrt(mass/2.0))
}

func Test_modal02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modal02. frequencies ascending and shapes mass-normalized")

	cfg := inp.DefaultConfig()
	cfg.Type = inp.AnaModal
	cfg.Nmodes = 4
	dom := newTestDomain(tst, portalModel(), cfg, true)
	res, err := dom.SolveModal(cfg.Nmodes, cfg.EigMaxSweeps)
	if err != nil {
		tst.Fatal(err)
	}
	if len(res.Omegas) != 4 {
		tst.Fatalf("expected 4 modes, got %d", len(res.Omegas))
	}
	for i, w := range res.Omegas {
		if w < 0 {
			tst.Fatalf("mode %d has negative frequency %g", i, w)
		}
		if i > 0 && w < res.Omegas[i-1] {
			tst.Fatalf("frequencies are not ascending at mode %d", i)
		}
	}

	// phiᵀ·M·phi = 1 for every extracted mode
	for _, shape := range res.Shapes {
		phi := dom.Dmap.Reduce(shape)
		gen := 0.0
		for i := 0; i < dom.Dmap.Nred; i++ {
			for j := 0; j < dom.Dmap.Nred; j++ {
				gen += phi[i] * dom.Mred[i][j] * phi[j]
			}
		}
		chk.Scalar(tst, "phi'.M.phi", 1e-8, gen, 1.0)
	}
}

func Test_modal03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modal03. sweep cap failure is reported")

	cfg := inp.DefaultConfig()
	cfg.Type = inp.AnaModal
	dom := newTestDomain(tst, portalModel(), cfg, true)
	_, err := dom.SolveModal(3, 1) // one sweep cannot converge a 12-DOF problem
	if err == nil {
		tst.Fatalf("expected the eigen solver to give up")
	}
	if _, ok := err.(*EigenSolverDivergedError); !ok {
		tst.Fatalf("expected EigenSolverDivergedError, got %T: %v", err, err)
	}
}
