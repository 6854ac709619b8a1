// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/strucfem/strucfem/seismic"
)

// Spectrum runs a response-spectrum analysis: modal extraction, per-mode peak
// responses scaled by the design spectrum, then SRSS or CQC combination into
// a non-negative response envelope
type Spectrum struct{}

// Run implements Solver
func (o *Spectrum) Run(dom *Domain, run *Run) (res *Results, err error) {
	if err = run.checkpoint(Progress{Phase: PhaseAssembly}); err != nil {
		return
	}
	if err = dom.EnsureAssembled(true); err != nil {
		return
	}
	if err = run.checkpoint(Progress{Phase: PhaseSolve}); err != nil {
		return
	}
	mr, err := dom.SolveModal(dom.Cfg.Nmodes, dom.Cfg.EigMaxSweeps)
	if err != nil {
		return
	}

	sd := dom.Cfg.Spectrum
	var spec *seismic.Spectrum
	if len(sd.Periods) > 0 {
		spec, err = seismic.NewSpectrum(sd.Periods, sd.Accels)
	} else {
		spec, err = seismic.NewPlateauSpectrum(sd.Ss, sd.S1)
	}
	if err != nil {
		return
	}

	// influence vector: unit ground acceleration along the excitation
	// direction at every active translational DOF (reduced numbering)
	r := make([]float64, dom.Dmap.Nred)
	for idx := range dom.Dmap.Nodes {
		I := dom.Dmap.Full(idx, sd.Dir)
		if q := dom.Dmap.Eq[I]; q >= 0 {
			r[q] = 1
		}
	}

	// per-mode peak responses
	nm := len(mr.Omegas)
	gammas := make([]float64, nm)
	peakU := make([][]float64, 0, nm)      // full-length displacement peaks
	peakR := make([][]float64, 0, nm)      // full-length reaction peaks
	peakFl := make(map[int][][]float64)    // element id => per-mode local end forces
	var omegas, periods []float64
	ue := make([]float64, 12)
	for m := 0; m < nm; m++ {
		if err = run.checkpoint(Progress{Phase: PhaseSolve, Done: m, Total: nm}); err != nil {
			return
		}
		if mr.Omegas[m] == 0 {
			continue // rigid-body remnant carries no spectral response
		}
		phired := dom.Dmap.Reduce(mr.Shapes[m])
		gammas[m] = seismic.Participation(phired, dom.Mred, r)
		sa, serr := spec.Sa(mr.Periods[m])
		if serr != nil {
			return nil, serr
		}
		u := seismic.ModalPeak(gammas[m], sa, mr.Omegas[m], mr.Shapes[m])
		peakU = append(peakU, u)
		omegas = append(omegas, mr.Omegas[m])
		periods = append(periods, mr.Periods[m])

		ku := make([]float64, dom.Dmap.Ntot)
		la.MatVecMul(ku, 1, dom.Kfull, u)
		rx := make([]float64, dom.Dmap.Ntot)
		for i := range rx {
			if dom.Dmap.Restr[i] {
				rx[i] = ku[i]
			}
		}
		peakR = append(peakR, rx)

		for _, e := range dom.Elems {
			for i, I := range e.Umap() {
				ue[i] = u[I]
			}
			peakFl[e.Id()] = append(peakFl[e.Id()], e.EndForces(ue, nil))
		}
	}

	if len(peakU) == 0 {
		return nil, chk.Err("no flexible modes available for spectral combination")
	}

	// combination: envelopes are non-negative magnitudes per component
	cr := &ComboResult{
		EndForces: make(map[int][]float64, len(dom.Elems)),
		Axial:     make(map[int]float64, len(dom.Elems)),
		Stress:    make(map[int]float64, len(dom.Elems)),
	}
	var rule string
	cr.U, rule = seismic.Combine(peakU, omegas, periods, dom.Cfg.Damping, dom.Cfg.CloseFreq)
	cr.Combo = "spectrum-" + rule
	cr.Reactions, _ = seismic.Combine(peakR, omegas, periods, dom.Cfg.Damping, dom.Cfg.CloseFreq)
	for _, e := range dom.Elems {
		fl, _ := seismic.Combine(peakFl[e.Id()], omegas, periods, dom.Cfg.Damping, dom.Cfg.CloseFreq)
		cr.EndForces[e.Id()] = fl
		cr.Axial[e.Id()] = math.Abs(fl[0])
		cr.Stress[e.Id()] = e.MaxStress(fl)
	}
	return &Results{Combos: []*ComboResult{cr}, Modal: mr, Gammas: gammas}, nil
}
