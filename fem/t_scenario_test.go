// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/strucfem/strucfem/code"
	"github.com/strucfem/strucfem/inp"
)

// buildingModel builds a 6 by 4 column grid, nstories stories of 3 m, with
// floor beams spanning the X direction. Floor pressures are turned into line
// loads on the beams through the 4 m tributary width.
func buildingModel(nstories int) *inp.Model {
	const (
		nx = 6   // columns along X
		ny = 4   // columns along Y
		dx = 5.0 // bay size X [m]
		dy = 4.0 // bay size Y [m]
		dz = 3.0 // story height [m]
	)
	nid := func(level, i, j int) int { return level*nx*ny + i*ny + j }

	m := inp.NewModel("office-block")
	for level := 0; level <= nstories; level++ {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				n := &inp.Node{Id: nid(level, i, j),
					X: [3]float64{float64(i) * dx, float64(j) * dy, float64(level) * dz}}
				if level == 0 {
					n.Support = "fixed"
				}
				m.AddNode(n)
			}
		}
	}
	m.AddMaterial(&inp.Material{Name: "K-25", Kind: "concrete", Fc: 25000, E: 2.35e7, Nu: 0.2, Rho: 2.4})
	m.AddSection(&inp.Section{Name: "C40x40", Wid: 0.40, Hei: 0.40})
	m.AddSection(&inp.Section{Name: "B30x50", Wid: 0.30, Hei: 0.50})

	eid := 0
	add := func(kind string, n0, n1 int, sec string) int {
		m.AddElement(&inp.Element{Id: eid, Kind: kind, N0: n0, N1: n1, Mat: "K-25", Sec: sec})
		eid++
		return eid - 1
	}

	// columns
	for level := 0; level < nstories; level++ {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				add("column", nid(level, i, j), nid(level+1, i, j), "C40x40")
			}
		}
	}

	// floor beams, dead 5 kN/m² and live 2.5 kN/m² over the 4 m tributary
	for level := 1; level <= nstories; level++ {
		for i := 0; i < nx-1; i++ {
			for j := 0; j < ny; j++ {
				id := add("beam", nid(level, i, j), nid(level, i+1, j), "B30x50")
				m.AddLoad(&inp.Load{Case: "D", Kind: "distributed", NodeId: -1, ElemId: id, Qn: -5.0 * dy})
				m.AddLoad(&inp.Load{Case: "L", Kind: "distributed", NodeId: -1, ElemId: id, Qn: -2.5 * dy})
			}
		}
		for i := 0; i < nx; i++ {
			for j := 0; j < ny-1; j++ {
				add("beam", nid(level, i, j), nid(level, i, j+1), "B30x50")
			}
		}
	}

	m.AddCombo(&inp.Combination{Name: "1.2D+1.6L", Terms: []inp.ComboTerm{
		{Case: "D", Factor: 1.2}, {Case: "L", Factor: 1.6}}})
	return m
}

func Test_scenario01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("scenario01. five-story building under gravity passes the code checks")

	if testing.Short() {
		tst.Skip("long building run")
	}

	m := buildingModel(5)
	cfg := inp.DefaultConfig()

	r, err := Start(m, cfg, nil)
	if err != nil {
		tst.Fatal(err)
	}
	res, err := r.Wait()
	if err != nil {
		tst.Fatal(err)
	}
	if s := r.Status(); s != StatusDone {
		tst.Fatalf("status = %q, want %q", s, StatusDone)
	}
	if len(res.Combos) != 1 {
		tst.Fatalf("got %d combination results, want 1", len(res.Combos))
	}
	cr := res.Combos[0]

	// displacements are finite and something actually deflected
	umax := 0.0
	for _, v := range cr.U {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			tst.Fatalf("non-finite displacement in the solution")
		}
		if math.Abs(v) > umax {
			umax = math.Abs(v)
		}
	}
	if umax <= 0 {
		tst.Fatalf("structure did not deflect under load")
	}
	if umax > 0.1 {
		tst.Fatalf("implausible deflection %g m for a braced gravity frame", umax)
	}

	// every element stays below 80% of the concrete strength
	fc := m.GetMaterial("K-25").Fc
	smax := 0.0
	for _, s := range cr.Stress {
		if s > smax {
			smax = s
		}
	}
	if smax >= 0.8*fc {
		tst.Fatalf("max stress %g exceeds 0.8fc = %g", smax, 0.8*fc)
	}
	io.Pforan("umax = %g m, smax = %g kPa\n", umax, smax)

	// the compliance report covers every rule and the building passes
	if res.Compliance == nil {
		tst.Fatalf("compliance report was not produced")
	}
	if res.Compliance.OverallStatus != code.Compliant {
		tst.Fatalf("overall status = %q, failed rules: %v",
			res.Compliance.OverallStatus, res.Compliance.FailedRules)
	}
	for _, f := range res.Compliance.PerRule {
		if !f.Passed && !f.NotApplicable {
			tst.Fatalf("rule %q failed: %s", f.RuleId, f.Message)
		}
	}

	// gravity on a symmetric frame produces no story drift to speak of
	for _, f := range res.Compliance.PerRule {
		if f.RuleId == "drift" && !f.NotApplicable && f.Utilization > 0.05 {
			tst.Fatalf("unexpected drift utilization %g under pure gravity", f.Utilization)
		}
	}
}
