// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package code evaluates design-code compliance rules over analysis results.
// Evaluation is pure and total: every rule yields exactly one finding, with
// inapplicable rules reporting notApplicable instead of being dropped.
package code

import (
	"github.com/cpmech/gosl/io"
)

// overall verdicts
const (
	Compliant    = "compliant"
	NonCompliant = "nonCompliant"
)

// ElementInput is one element's worth of extracted response quantities
type ElementInput struct {
	Id         int
	Kind       string  // beam, column, brace, truss, slab, wall
	MatKind    string  // concrete, steel, other
	Fc         float64 // concrete compressive strength [kPa]
	Fy         float64 // steel yield strength [kPa]
	Length     float64 // member length [m]
	Stress     float64 // extreme-fibre stress magnitude [kPa]
	Deflection float64 // transverse relative end displacement [m]
}

// NodeInput is one node's worth of extracted response quantities
type NodeInput struct {
	Id     int
	Height float64 // elevation above the base [m]
	Drift  float64 // horizontal displacement magnitude [m]
}

// Inputs holds everything the rules evaluate over. When several combinations
// succeeded the quantities are their envelope (worst case per entity).
type Inputs struct {
	AnaType  string
	Elements []ElementInput
	Nodes    []NodeInput
}

// Finding is one rule verdict: utilization is demand over capacity, so values
// above one fail
type Finding struct {
	RuleId        string  `json:"ruleId"`
	Passed        bool    `json:"passed"`
	NotApplicable bool    `json:"notApplicable"`
	Utilization   float64 `json:"utilization"`
	Message       string  `json:"message"`
}

// Extractor computes a rule's governing (worst) utilization over the inputs.
// ok is false when the inputs carry nothing the rule governs.
type Extractor func(in *Inputs) (utilization float64, detail string, ok bool)

// Rule is one named compliance criterion restricted to the analysis types it
// makes sense for (empty means all)
type Rule struct {
	Id       string
	AnaTypes []string
	Extract  Extractor
}

// Applies reports whether the rule covers the given analysis type
func (o *Rule) Applies(anaType string) bool {
	if len(o.AnaTypes) == 0 {
		return true
	}
	for _, t := range o.AnaTypes {
		if t == anaType {
			return true
		}
	}
	return false
}

// Report aggregates the findings of one evaluation
type Report struct {
	PerRule       []Finding `json:"perRule"`
	OverallStatus string    `json:"overallStatus"` // compliant | nonCompliant
	FailedRules   []string  `json:"failedRules"`   // ids of rules that failed
}

// Evaluate runs every rule over the inputs. len(report.PerRule) always equals
// len(rules): inapplicable or data-starved rules yield notApplicable findings.
// The overall status is compliant iff every applicable finding passed.
func Evaluate(in *Inputs, rules []Rule) (rep *Report) {
	rep = &Report{OverallStatus: Compliant}
	for _, r := range rules {
		f := Finding{RuleId: r.Id}
		if !r.Applies(in.AnaType) {
			f.NotApplicable = true
			f.Message = io.Sf("%s: not applicable to %s analyses", r.Id, in.AnaType)
			rep.PerRule = append(rep.PerRule, f)
			continue
		}
		util, detail, ok := r.Extract(in)
		if !ok {
			f.NotApplicable = true
			f.Message = io.Sf("%s: nothing to check in this model", r.Id)
			rep.PerRule = append(rep.PerRule, f)
			continue
		}
		f.Utilization = util
		f.Passed = util <= 1
		f.Message = detail
		if !f.Passed {
			rep.OverallStatus = NonCompliant
			rep.FailedRules = append(rep.FailedRules, r.Id)
		}
		rep.PerRule = append(rep.PerRule, f)
	}
	return
}

// Builtin returns the default rule set: concrete stress against 0.8·f'c,
// steel stress against Fy, lateral drift against h/500 and beam deflection
// against L/240. The rules need displacement and stress envelopes, so they
// cover the analysis types that produce them; modal runs get four
// notApplicable findings.
func Builtin() []Rule {
	types := []string{"static", "nonlinear", "response-spectrum"}
	return []Rule{
		{Id: "concrete-stress", AnaTypes: types, Extract: concreteStress},
		{Id: "steel-stress", AnaTypes: types, Extract: steelStress},
		{Id: "drift", AnaTypes: types, Extract: drift},
		{Id: "deflection", AnaTypes: types, Extract: deflection},
	}
}

func concreteStress(in *Inputs) (util float64, detail string, ok bool) {
	for _, e := range in.Elements {
		if e.MatKind != "concrete" || e.Fc <= 0 {
			continue
		}
		ok = true
		if u := e.Stress / (0.8 * e.Fc); u > util {
			util = u
			detail = io.Sf("element %d governs: stress %.1f kPa against 0.8·fc = %.1f kPa", e.Id, e.Stress, 0.8*e.Fc)
		}
	}
	return
}

func steelStress(in *Inputs) (util float64, detail string, ok bool) {
	for _, e := range in.Elements {
		if e.MatKind != "steel" || e.Fy <= 0 {
			continue
		}
		ok = true
		if u := e.Stress / e.Fy; u > util {
			util = u
			detail = io.Sf("element %d governs: stress %.1f kPa against Fy = %.1f kPa", e.Id, e.Stress, e.Fy)
		}
	}
	return
}

func drift(in *Inputs) (util float64, detail string, ok bool) {
	for _, n := range in.Nodes {
		if n.Height <= 0 {
			continue
		}
		ok = true
		limit := n.Height / 500
		if u := n.Drift / limit; u > util {
			util = u
			detail = io.Sf("node %d governs: drift %.4g m against h/500 = %.4g m", n.Id, n.Drift, limit)
		}
	}
	return
}

func deflection(in *Inputs) (util float64, detail string, ok bool) {
	for _, e := range in.Elements {
		if (e.Kind != "beam" && e.Kind != "slab") || e.Length <= 0 {
			continue
		}
		ok = true
		limit := e.Length / 240
		if u := e.Deflection / limit; u > util {
			util = u
			detail = io.Sf("element %d governs: deflection %.4g m against L/240 = %.4g m", e.Id, e.Deflection, limit)
		}
	}
	return
}
