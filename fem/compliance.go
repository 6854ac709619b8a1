// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/strucfem/strucfem/code"
)

// utilization above this fraction of a limit draws an advisory warning even
// when the rule passes
const warnUtilization = 0.80

// complianceInputs builds the rule-engine inputs as the envelope (worst case
// per entity) over the successful combinations
func (o *Domain) complianceInputs(combos []*ComboResult) (in *code.Inputs) {
	in = &code.Inputs{AnaType: o.Cfg.Type}

	// elements: peak stress and transverse relative end displacement
	for _, e := range o.Elems {
		edat := o.Model.GetElement(e.Id())
		mat := o.Model.GetMaterial(edat.Mat)
		ei := code.ElementInput{
			Id:      e.Id(),
			Kind:    edat.Kind,
			MatKind: mat.Kind,
			Fc:      mat.Fc,
			Fy:      mat.Fy,
			Length:  e.Length(),
		}
		n0, n1 := e.Nodes()
		i0 := o.Dmap.NodeIdx[n0]
		i1 := o.Dmap.NodeIdx[n1]
		x0 := o.Model.GetNode(n0).X
		x1 := o.Model.GetNode(n1).X
		var axis [3]float64
		for k := 0; k < 3; k++ {
			axis[k] = (x1[k] - x0[k]) / e.Length()
		}
		for _, cr := range combos {
			if s := cr.Stress[e.Id()]; s > ei.Stress {
				ei.Stress = s
			}
			// relative end displacement perpendicular to the axis
			var du [3]float64
			dot := 0.0
			for k := 0; k < 3; k++ {
				du[k] = cr.U[o.Dmap.Full(i1, k)] - cr.U[o.Dmap.Full(i0, k)]
				dot += du[k] * axis[k]
			}
			d := 0.0
			for k := 0; k < 3; k++ {
				p := du[k] - dot*axis[k]
				d += p * p
			}
			if d = math.Sqrt(d); d > ei.Deflection {
				ei.Deflection = d
			}
		}
		in.Elements = append(in.Elements, ei)
	}

	// nodes: peak horizontal displacement against elevation above the base
	zbase := math.Inf(1)
	for _, n := range o.Dmap.Nodes {
		if n.X[2] < zbase {
			zbase = n.X[2]
		}
	}
	for idx, n := range o.Dmap.Nodes {
		ni := code.NodeInput{Id: n.Id, Height: n.X[2] - zbase}
		for _, cr := range combos {
			ux := cr.U[o.Dmap.Full(idx, 0)]
			uy := cr.U[o.Dmap.Full(idx, 1)]
			if d := math.Hypot(ux, uy); d > ni.Drift {
				ni.Drift = d
			}
		}
		in.Nodes = append(in.Nodes, ni)
	}
	return
}

// evaluateCompliance runs the builtin rule set over the envelope of the
// successful combinations and collects high-utilization advisories. Runs
// without combination results (modal) still get a report; the stress and
// displacement rules come back not applicable there.
func (o *Domain) evaluateCompliance(res *Results) {
	in := o.complianceInputs(res.Combos)
	res.Compliance = code.Evaluate(in, code.Builtin())
	for _, f := range res.Compliance.PerRule {
		if !f.NotApplicable && f.Passed && f.Utilization >= warnUtilization {
			res.Warnings = append(res.Warnings,
				io.Sf("%s: high utilization %.0f%%: %s", f.RuleId, 100*f.Utilization, f.Message))
		}
	}
}
