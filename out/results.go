// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package out shapes analysis results into the immutable output contract and
// renders convergence and spectrum diagrams
package out

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/cpmech/gosl/io"

	"github.com/strucfem/strucfem/code"
	"github.com/strucfem/strucfem/fem"
	"github.com/strucfem/strucfem/inp"
)

// result states
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Summary holds the headline response quantities over all combinations
type Summary struct {
	MaxDisplacement float64 `json:"maxDisplacement"` // [m]
	MaxStress       float64 `json:"maxStress"`       // [kPa]
	MaxReaction     float64 `json:"maxReaction"`     // [kN]
	SafetyFactor    float64 `json:"safetyFactor"`    // capacity over demand of the governing rule
}

// ElementResult is one element under one combination
type ElementResult struct {
	Combo     string    `json:"combo"`
	ElemId    int       `json:"elemId"`
	Axial     float64   `json:"axial"`     // [kN], tension positive
	Stress    float64   `json:"stress"`    // extreme-fibre magnitude [kPa]
	EndForces []float64 `json:"endForces"` // [12] local end forces
}

// NodeResult is one node under one combination
type NodeResult struct {
	Combo     string    `json:"combo"`
	NodeId    int       `json:"nodeId"`
	Disp      []float64 `json:"disp"`      // [6] translations [m] and rotations [rad]
	Reactions []float64 `json:"reactions"` // [6] support reactions [kN, kN·m]; zeros at free nodes
}

// ModeResult is one extracted natural mode
type ModeResult struct {
	Mode    int     `json:"mode"` // 1-based mode number
	Omega   float64 `json:"omega"`
	FreqHz  float64 `json:"freqHz"`
	Period  float64 `json:"period"`
	Gamma   float64 `json:"gamma,omitempty"` // participation factor (response-spectrum runs)
}

// AnalysisResults is the immutable output contract. Field names are stable:
// external consumers round-trip this through JSON.
type AnalysisResults struct {
	Status     string          `json:"status"` // success | error
	RunId      string          `json:"runId"`
	Summary    Summary         `json:"summary"`
	PerElement []ElementResult `json:"perElement"`
	PerNode    []NodeResult    `json:"perNode"`
	Modal      []ModeResult    `json:"modal,omitempty"`
	Compliance *code.Report    `json:"compliance,omitempty"`
	Warnings   []string        `json:"warnings"`
	Errors     []string        `json:"errors"`
}

// Collect shapes one finished run into the output contract. A fatal error or
// a run with no surviving combination yields status error; per-combination
// failures are reported alongside the successful combinations' results.
func Collect(m *inp.Model, runId string, res *fem.Results, runErr error) (r *AnalysisResults) {
	r = &AnalysisResults{
		Status:   StatusSuccess,
		RunId:    runId,
		Warnings: []string{},
		Errors:   []string{},
	}
	if runErr != nil {
		r.Status = StatusError
		r.Errors = append(r.Errors, runErr.Error())
	}
	if res == nil {
		return
	}
	r.Warnings = append(r.Warnings, res.Warnings...)
	r.Compliance = res.Compliance

	// failed combinations, deterministic order
	failed := make([]string, 0, len(res.Failed))
	for combo := range res.Failed {
		failed = append(failed, combo)
	}
	sort.Strings(failed)
	for _, combo := range failed {
		r.Errors = append(r.Errors, io.Sf("combination %q: %v", combo, res.Failed[combo]))
	}

	for _, cr := range res.Combos {
		collectCombo(r, m, cr)
	}
	if res.Modal != nil {
		for i := range res.Modal.Omegas {
			mr := ModeResult{
				Mode:   i + 1,
				Omega:  res.Modal.Omegas[i],
				FreqHz: res.Modal.Freqs[i],
				Period: res.Modal.Periods[i],
			}
			if i < len(res.Gammas) {
				mr.Gamma = res.Gammas[i]
			}
			r.Modal = append(r.Modal, mr)
		}
	}
	r.Summary.SafetyFactor = safetyFactor(res.Compliance)
	return
}

// collectCombo flattens one combination into per-element/per-node entries and
// folds its extremes into the summary
func collectCombo(r *AnalysisResults, m *inp.Model, cr *fem.ComboResult) {
	eids := make([]int, 0, len(cr.EndForces))
	for eid := range cr.EndForces {
		eids = append(eids, eid)
	}
	sort.Ints(eids)
	for _, eid := range eids {
		r.PerElement = append(r.PerElement, ElementResult{
			Combo:     cr.Combo,
			ElemId:    eid,
			Axial:     cr.Axial[eid],
			Stress:    cr.Stress[eid],
			EndForces: cr.EndForces[eid],
		})
		if s := cr.Stress[eid]; s > r.Summary.MaxStress {
			r.Summary.MaxStress = s
		}
	}
	for idx, n := range m.Nodes {
		nr := NodeResult{
			Combo:     cr.Combo,
			NodeId:    n.Id,
			Disp:      make([]float64, 6),
			Reactions: make([]float64, 6),
		}
		d := 0.0
		for j := 0; j < 6; j++ {
			nr.Disp[j] = cr.U[6*idx+j]
			nr.Reactions[j] = cr.Reactions[6*idx+j]
			if j < 3 {
				d += nr.Disp[j] * nr.Disp[j]
			}
			if rx := math.Abs(nr.Reactions[j]); rx > r.Summary.MaxReaction {
				r.Summary.MaxReaction = rx
			}
		}
		if d = math.Sqrt(d); d > r.Summary.MaxDisplacement {
			r.Summary.MaxDisplacement = d
		}
		r.PerNode = append(r.PerNode, nr)
	}
}

// safetyFactor is capacity over demand of the governing (highest utilization)
// applicable rule. Infinite demand headroom reports as zero, meaning unknown.
func safetyFactor(rep *code.Report) float64 {
	if rep == nil {
		return 0
	}
	worst := 0.0
	for _, f := range rep.PerRule {
		if !f.NotApplicable && f.Utilization > worst {
			worst = f.Utilization
		}
	}
	if worst == 0 {
		return 0
	}
	return 1 / worst
}

// WriteJSON saves the results contract, indented for inspection
func (o *AnalysisResults) WriteJSON(filename string) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return
	}
	return os.WriteFile(filename, b, 0644)
}
