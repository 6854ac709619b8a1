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

// concreteK25 is the test material used throughout: K-25 concrete
func concreteK25() *inp.Material {
	return &inp.Material{Name: "K-25", Kind: "concrete", Fc: 25000, E: 2.35e7, Nu: 0.2, Rho: 2.4}
}

// ssBeamModel builds a simply supported beam along X split into nelem
// elements, loaded by a uniform qn on every element (case "D")
func ssBeamModel(length float64, nelem int, qn float64) *inp.Model {
	m := inp.NewModel("ss-beam")
	dx := length / float64(nelem)
	for i := 0; i <= nelem; i++ {
		n := &inp.Node{Id: i, X: [3]float64{float64(i) * dx, 0, 0}}
		if i == 0 {
			n.Rmask = &[6]bool{true, true, true, true, false, false}
		}
		if i == nelem {
			n.Rmask = &[6]bool{false, true, true, true, false, false}
		}
		m.AddNode(n)
	}
	m.AddMaterial(concreteK25())
	m.AddSection(&inp.Section{Name: "B25x40", Wid: 0.25, Hei: 0.40})
	for i := 0; i < nelem; i++ {
		m.AddElement(&inp.Element{Id: i, Kind: "beam", N0: i, N1: i + 1, Mat: "K-25", Sec: "B25x40"})
		m.AddLoad(&inp.Load{Case: "D", Kind: "distributed", NodeId: -1, ElemId: i, Qn: qn})
	}
	m.AddCombo(&inp.Combination{Name: "D", Terms: []inp.ComboTerm{{Case: "D", Factor: 1}}})
	return m
}

// portalModel builds a single-bay portal frame with dead, live and wind cases
func portalModel() *inp.Model {
	m := inp.NewModel("portal")
	m.AddNode(&inp.Node{Id: 0, X: [3]float64{0, 0, 0}, Support: "fixed"})
	m.AddNode(&inp.Node{Id: 1, X: [3]float64{4, 0, 0}, Support: "fixed"})
	m.AddNode(&inp.Node{Id: 2, X: [3]float64{0, 0, 3}})
	m.AddNode(&inp.Node{Id: 3, X: [3]float64{4, 0, 3}})
	m.AddMaterial(concreteK25())
	m.AddSection(&inp.Section{Name: "C30x30", Wid: 0.30, Hei: 0.30})
	m.AddElement(&inp.Element{Id: 0, Kind: "column", N0: 0, N1: 2, Mat: "K-25", Sec: "C30x30"})
	m.AddElement(&inp.Element{Id: 1, Kind: "column", N0: 1, N1: 3, Mat: "K-25", Sec: "C30x30"})
	m.AddElement(&inp.Element{Id: 2, Kind: "beam", N0: 2, N1: 3, Mat: "K-25", Sec: "C30x30"})
	m.AddLoad(&inp.Load{Case: "D", Kind: "distributed", NodeId: -1, ElemId: 2, Qn: -15})
	m.AddLoad(&inp.Load{Case: "L", Kind: "distributed", NodeId: -1, ElemId: 2, Qn: -7.5})
	m.AddLoad(&inp.Load{Case: "W", Kind: "point", NodeId: 2, ElemId: -1, Dir: [3]float64{1, 0, 0}, Mag: 12})
	m.AddCombo(&inp.Combination{Name: "1.2D+1.6L", Terms: []inp.ComboTerm{{Case: "D", Factor: 1.2}, {Case: "L", Factor: 1.6}}})
	m.AddCombo(&inp.Combination{Name: "1.2D+1.0L+1.0W", Terms: []inp.ComboTerm{
		{Case: "D", Factor: 1.2}, {Case: "L", Factor: 1.0}, {Case: "W", Factor: 1.0}}})
	return m
}

// newTestDomain validates, builds and assembles a domain
func newTestDomain(tst *testing.T, m *inp.Model, cfg inp.Config, withM bool) *Domain {
	if err := cfg.Check(); err != nil {
		tst.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		tst.Fatal(err)
	}
	dom, err := NewDomain(m, cfg)
	if err != nil {
		tst.Fatal(err)
	}
	if err := dom.Assemble(withM); err != nil {
		tst.Fatal(err)
	}
	return dom
}

func Test_assembly01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("assembly01. global stiffness is symmetric")

	cfg := inp.DefaultConfig()
	dom := newTestDomain(tst, portalModel(), cfg, false)
	for _, K := range [][][]float64{dom.Kfull, dom.Kred} {
		for i := 0; i < len(K); i++ {
			for j := i + 1; j < len(K); j++ {
				if math.Abs(K[i][j]-K[j][i]) > 1e-8 {
					tst.Fatalf("K is not symmetric at (%d,%d)", i, j)
				}
			}
		}
	}
	if dom.Dmap.Nred >= dom.Dmap.Ntot {
		tst.Fatalf("reduction removed no DOFs: %d >= %d", dom.Dmap.Nred, dom.Dmap.Ntot)
	}
}

func Test_linear01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linear01. simply supported beam against the closed form")

	q := 10.0
	L := 6.0
	nelem := 6
	m := ssBeamModel(L, nelem, -q)
	cfg := inp.DefaultConfig()
	dom := newTestDomain(tst, m, cfg, false)

	lis, err := NewLinSolver("dense", 0, 0)
	if err != nil {
		tst.Fatal(err)
	}
	defer lis.Free()
	if err = lis.Init(dom.Kred); err != nil {
		tst.Fatal(err)
	}
	res, err := dom.SolveLinear(lis, "D")
	if err != nil {
		tst.Fatal(err)
	}

	// midspan deflection within 1% of 5qL⁴/384EI
	sec := m.GetSection("B25x40")
	ss := ana.SimplySupportedBeam{E: 2.35e7, I: sec.I22, L: L}
	wana := ss.DeflUniform(q)
	mid := nelem / 2
	wfem := -res.U[6*mid+2]
	chk.Scalar(tst, "w midspan", 0.01*wana, wfem, wana)

	// vertical reactions balance the applied load: qL split evenly
	r0 := res.Reactions[2]
	r1 := res.Reactions[6*nelem+2]
	chk.Scalar(tst, "sum Rz", 1e-8, r0+r1, q*L)
	chk.Scalar(tst, "symmetry Rz", 1e-8, r0, r1)

	// the end moments of a simply supported beam vanish; midspan moment is
	// qL²/8 recovered from the element end forces
	flmid := res.EndForces[mid]
	chk.Scalar(tst, "M midspan", 0.01*q*L*L/8.0, math.Abs(flmid[5]), q*L*L/8.0)
}

func Test_linear02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linear02. under-constrained model is singular")

	m := portalModel()
	m.GetNode(0).Support = "" // released supports leave rigid-body modes
	m.GetNode(1).Support = ""
	cfg := inp.DefaultConfig()
	if err := cfg.Check(); err != nil {
		tst.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		tst.Fatal(err)
	}
	dom, err := NewDomain(m, cfg)
	if err != nil {
		tst.Fatal(err)
	}
	if err = dom.Assemble(false); err != nil {
		tst.Fatal(err)
	}
	lis, _ := NewLinSolver("dense", 0, 0)
	defer lis.Free()
	err = lis.Init(dom.Kred)
	if err == nil {
		tst.Fatalf("factorization of a floating structure must fail")
	}
	if _, ok := err.(*SingularStiffnessError); !ok {
		tst.Fatalf("expected SingularStiffnessError, got %T: %v", err, err)
	}
}

func Test_linear03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linear03. iterative solver agrees with the direct one")

	m := portalModel()
	cfg := inp.DefaultConfig()
	dom := newTestDomain(tst, m, cfg, false)

	dense, _ := NewLinSolver("dense", 0, 0)
	defer dense.Free()
	if err := dense.Init(dom.Kred); err != nil {
		tst.Fatal(err)
	}
	rd, err := dom.SolveLinear(dense, "1.2D+1.6L")
	if err != nil {
		tst.Fatal(err)
	}

	cg, _ := NewLinSolver("cg", 1e-12, 0)
	defer cg.Free()
	if err := cg.Init(dom.Kred); err != nil {
		tst.Fatal(err)
	}
	ri, err := dom.SolveLinear(cg, "1.2D+1.6L")
	if err != nil {
		tst.Fatal(err)
	}
	chk.Vector(tst, "u dense vs cg", 1e-8, ri.U, rd.U)
}
