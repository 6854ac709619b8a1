// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem implements the finite element core: DOF numbering, global
// stiffness/mass assembly, the load combination engine, the linear static,
// modal and nonlinear solvers, and the analysis orchestrator
package fem

import (
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/strucfem/strucfem/ele"
	"github.com/strucfem/strucfem/inp"
)

// Domain binds a validated model to its elements, DOF map and assembled
// global matrices. Solvers treat the domain as read-only shared state; each
// combination solve owns its private displacement/force buffers.
type Domain struct {

	// input
	Model *inp.Model
	Cfg   inp.Config

	// elements and numbering
	Elems    []ele.Element
	Eid2elem map[int]ele.Element
	Dmap     *DofMap

	// assembled matrices (built exactly once per run, before any solve)
	Kfull [][]float64 // unreduced stiffness, kept for reaction recovery
	Kred  [][]float64 // reduced stiffness
	Mred  [][]float64 // reduced mass (modal/spectrum analyses only)

	// factored loads
	CaseVecs map[string][]float64         // full-length load vector per case
	CaseFxl  map[string]map[int][]float64 // per case: element id => local fixed-end forces

	// assembly barrier
	assembleOnce sync.Once
	assembleErr  error
}

// NewDomain allocates elements and the DOF map for a validated model
func NewDomain(m *inp.Model, cfg inp.Config) (o *Domain, err error) {
	o = &Domain{Model: m, Cfg: cfg}
	o.Elems = make([]ele.Element, 0, len(m.Elements))
	o.Eid2elem = make(map[int]ele.Element, len(m.Elements))
	for _, edat := range m.Elements {
		n0 := m.GetNode(edat.N0)
		n1 := m.GetNode(edat.N1)
		mat := m.GetMaterial(edat.Mat)
		sec := m.GetSection(edat.Sec)
		mat.Derive()
		e, err := ele.New(edat, n0, n1, mat, sec)
		if err != nil {
			return nil, chk.Err("cannot allocate element %d:\n%v", edat.Id, err)
		}
		o.Elems = append(o.Elems, e)
		o.Eid2elem[edat.Id] = e
	}
	o.Dmap = NewDofMap(m, o.Elems)
	for _, e := range o.Elems {
		e.SetUmap(o.Dmap.Umap(e))
	}
	return
}

// Assemble builds the global stiffness (full and reduced) and, when withM is
// true, the reduced mass matrix. It also expands all load cases into global
// vectors. Assembly happens exactly once per analysis run, before any
// combination-specific solve starts.
func (o *Domain) Assemble(withM bool) (err error) {
	o.assembleK()
	if withM {
		o.assembleM()
	}
	return o.caseVectors()
}

// EnsureAssembled is the assembly barrier: solver workers may all hit it but
// assembly runs exactly once and every caller sees its error
func (o *Domain) EnsureAssembled(withM bool) error {
	o.assembleOnce.Do(func() { o.assembleErr = o.Assemble(withM) })
	return o.assembleErr
}

// assembleK scatter-adds the element stiffness matrices into the full and
// reduced global matrices
func (o *Domain) assembleK() {
	nt, nr := o.Dmap.Ntot, o.Dmap.Nred
	o.Kfull = la.MatAlloc(nt, nt)
	o.Kred = la.MatAlloc(nr, nr)
	for _, e := range o.Elems {
		K := e.K()
		umap := e.Umap()
		for i, I := range umap {
			for j, J := range umap {
				o.Kfull[I][J] += K[i][j]
			}
		}
	}
	for I := 0; I < nt; I++ {
		qi := o.Dmap.Eq[I]
		if qi < 0 {
			continue
		}
		for J := 0; J < nt; J++ {
			if qj := o.Dmap.Eq[J]; qj >= 0 {
				o.Kred[qi][qj] = o.Kfull[I][J]
			}
		}
	}
}

// assembleM scatter-adds the element mass matrices into the reduced mass matrix
func (o *Domain) assembleM() {
	lumped := o.Cfg.MassType != "consistent"
	nr := o.Dmap.Nred
	o.Mred = la.MatAlloc(nr, nr)
	for _, e := range o.Elems {
		M := e.M(lumped)
		umap := e.Umap()
		for i, I := range umap {
			qi := o.Dmap.Eq[I]
			if qi < 0 {
				continue
			}
			for j, J := range umap {
				if qj := o.Dmap.Eq[J]; qj >= 0 {
					o.Mred[qi][qj] += M[i][j]
				}
			}
		}
	}
}

// TangentRed assembles the reduced tangent stiffness for the nonlinear
// solver: elastic stiffness plus, when pdelta is on, the geometric stiffness
// from the current axial forces. ufull holds the current displacements.
func (o *Domain) TangentRed(ufull []float64, pdelta bool) (Kt [][]float64) {
	nr := o.Dmap.Nred
	Kt = la.MatAlloc(nr, nr)
	ue := make([]float64, 12)
	for _, e := range o.Elems {
		umap := e.Umap()
		K := e.K()
		var G [][]float64
		if pdelta {
			for i, I := range umap {
				ue[i] = ufull[I]
			}
			G = e.Kg(e.AxialForce(ue))
		}
		for i, I := range umap {
			qi := o.Dmap.Eq[I]
			if qi < 0 {
				continue
			}
			for j, J := range umap {
				qj := o.Dmap.Eq[J]
				if qj < 0 {
					continue
				}
				v := K[i][j]
				if G != nil {
					v += G[i][j]
				}
				Kt[qi][qj] += v
			}
		}
	}
	return
}

// InternalForces computes the full-length internal force vector
// fint = Σ (Ke + Kg)·ue for the current displacements
func (o *Domain) InternalForces(ufull []float64, pdelta bool) (fint []float64) {
	fint = make([]float64, o.Dmap.Ntot)
	ue := make([]float64, 12)
	fe := make([]float64, 12)
	for _, e := range o.Elems {
		umap := e.Umap()
		for i, I := range umap {
			ue[i] = ufull[I]
		}
		K := e.K()
		var G [][]float64
		if pdelta {
			G = e.Kg(e.AxialForce(ue))
		}
		for i := 0; i < 12; i++ {
			fe[i] = 0
			for j := 0; j < 12; j++ {
				v := K[i][j]
				if G != nil {
					v += G[i][j]
				}
				fe[i] += v * ue[j]
			}
		}
		for i, I := range umap {
			fint[I] += fe[i]
		}
	}
	return
}
