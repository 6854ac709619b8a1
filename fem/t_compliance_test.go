// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/strucfem/strucfem/code"
	"github.com/strucfem/strucfem/inp"
)

func Test_compliance01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("compliance01. high utilization passes with an advisory warning")

	// cantilever column under a lateral tip load: PL³/3EI = 5.39 mm against
	// the h/500 = 6 mm drift limit, a 90% utilization that passes
	m := inp.NewModel("cantilever")
	m.AddNode(&inp.Node{Id: 0, X: [3]float64{0, 0, 0}, Support: "fixed"})
	m.AddNode(&inp.Node{Id: 1, X: [3]float64{0, 0, 3}})
	m.AddMaterial(concreteK25())
	m.AddSection(&inp.Section{Name: "C30x30", Wid: 0.30, Hei: 0.30})
	m.AddElement(&inp.Element{Id: 0, Kind: "column", N0: 0, N1: 1, Mat: "K-25", Sec: "C30x30"})
	m.AddLoad(&inp.Load{Case: "W", Kind: "point", NodeId: 1, ElemId: -1, Dir: [3]float64{1, 0, 0}, Mag: 9.5})
	m.AddCombo(&inp.Combination{Name: "1.0W", Terms: []inp.ComboTerm{{Case: "W", Factor: 1}}})
	cfg := inp.DefaultConfig()

	r, err := Start(m, cfg, nil)
	if err != nil {
		tst.Fatal(err)
	}
	res, err := r.Wait()
	if err != nil {
		tst.Fatal(err)
	}
	if res.Compliance == nil {
		tst.Fatalf("compliance report was not produced")
	}
	if res.Compliance.OverallStatus != code.Compliant {
		tst.Fatalf("overall status = %q, failed rules: %v",
			res.Compliance.OverallStatus, res.Compliance.FailedRules)
	}
	var f *code.Finding
	for i := range res.Compliance.PerRule {
		if res.Compliance.PerRule[i].RuleId == "drift" {
			f = &res.Compliance.PerRule[i]
		}
	}
	if f == nil || f.NotApplicable {
		tst.Fatalf("drift rule did not apply")
	}
	if !f.Passed {
		tst.Fatalf("drift rule failed with utilization %g", f.Utilization)
	}
	if f.Utilization < 0.8 || f.Utilization > 1.0 {
		tst.Fatalf("utilization %g fell outside the advisory band", f.Utilization)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "drift") && strings.Contains(w, "high utilization") {
			found = true
		}
	}
	if !found {
		tst.Fatalf("missing high-utilization advisory, warnings: %v", res.Warnings)
	}
}

func Test_compliance02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("compliance02. overload fails the stress rule and the run stays done")

	// three times the advisory-band load: utilization far above one
	m := ssBeamModel(6.0, 6, -80)
	r, err := Start(m, inp.DefaultConfig(), nil)
	if err != nil {
		tst.Fatal(err)
	}
	res, err := r.Wait()
	if err != nil {
		tst.Fatal(err)
	}
	if s := r.Status(); s != StatusDone {
		tst.Fatalf("an over-stressed model still analyses fine: status %q", s)
	}
	if res.Compliance.OverallStatus != code.NonCompliant {
		tst.Fatalf("overall status = %q, want %q", res.Compliance.OverallStatus, code.NonCompliant)
	}
	hit := false
	for _, id := range res.Compliance.FailedRules {
		if id == "concrete-stress" {
			hit = true
		}
	}
	if !hit {
		tst.Fatalf("concrete-stress missing from failed rules: %v", res.Compliance.FailedRules)
	}
}

func Test_compliance03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("compliance03. the envelope takes the worst case per entity")

	m := portalModel()
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
	a, err := dom.SolveLinear(lis, "1.2D+1.6L")
	if err != nil {
		tst.Fatal(err)
	}
	b, err := dom.SolveLinear(lis, "1.2D+1.0L+1.0W")
	if err != nil {
		tst.Fatal(err)
	}

	in := dom.complianceInputs([]*ComboResult{a, b})
	for _, ei := range in.Elements {
		worst := a.Stress[ei.Id]
		if s := b.Stress[ei.Id]; s > worst {
			worst = s
		}
		chk.Scalar(tst, "envelope stress", 1e-12, ei.Stress, worst)
	}

	// the wind combination governs the drift entries at the frame top
	inA := dom.complianceInputs([]*ComboResult{a})
	inAB := dom.complianceInputs([]*ComboResult{a, b})
	for k := range inAB.Nodes {
		if inAB.Nodes[k].Drift < inA.Nodes[k].Drift-1e-15 {
			tst.Fatalf("adding a combination shrank the drift envelope at node %d", inAB.Nodes[k].Id)
		}
	}
}

func Test_compliance04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("compliance04. modal runs still get a full report")

	cfg := inp.DefaultConfig()
	cfg.Type = inp.AnaModal

	r, err := Start(portalModel(), cfg, nil)
	if err != nil {
		tst.Fatal(err)
	}
	res, err := r.Wait()
	if err != nil {
		tst.Fatal(err)
	}
	if res.Compliance == nil {
		tst.Fatalf("compliance report was not produced")
	}
	if n := len(res.Compliance.PerRule); n != len(code.Builtin()) {
		tst.Fatalf("got %d findings, want one per builtin rule (%d)", n, len(code.Builtin()))
	}
	for _, f := range res.Compliance.PerRule {
		if !f.NotApplicable {
			tst.Fatalf("rule %q should not apply without displacement results", f.RuleId)
		}
	}
	if res.Compliance.OverallStatus != code.Compliant {
		tst.Fatalf("overall status = %q, want %q", res.Compliance.OverallStatus, code.Compliant)
	}
	if len(res.Compliance.FailedRules) != 0 {
		tst.Fatalf("unexpected failed rules: %v", res.Compliance.FailedRules)
	}
}
