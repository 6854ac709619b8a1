// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// ComboResult holds the outcome of one load combination: nodal displacements,
// support reactions and element recovery quantities
type ComboResult struct {
	Combo      string              // combination name
	U          []float64           // [Ntot] nodal displacements (full numbering)
	Reactions  []float64           // [Ntot] support reactions, nonzero at restrained DOFs only
	EndForces  map[int][]float64   // element id => [12] local end forces
	Axial      map[int]float64     // element id => axial force (tension positive)
	Stress     map[int]float64     // element id => extreme-fibre stress magnitude
	Iterations int                 // solver iterations (1 for a linear solve)
	Residuals  []float64           // relative residual history (nonlinear solves)
}

// SolveLinear runs one linear static solve for the given combination using a
// previously factored solver over the reduced stiffness
func (o *Domain) SolveLinear(lis LinSolver, combo string) (res *ComboResult, err error) {
	c := o.Model.GetCombo(combo)
	if c == nil {
		return nil, chk.Err("cannot find load combination %q", combo)
	}
	F, fxl, err := o.Combine(c)
	if err != nil {
		return
	}
	Fred := o.Dmap.Reduce(F)
	ured := make([]float64, o.Dmap.Nred)
	if err = lis.Solve(ured, Fred); err != nil {
		return
	}
	u := o.Dmap.Expand(ured)
	res = o.recover(combo, u, F, fxl)
	res.Iterations = 1
	return
}

// recover computes reactions and element end forces for a displacement field.
// Reactions come from the unreduced stiffness: R = Kfull·u - F at restrained
// DOFs (the reduction never sees them, so no penalty terms pollute them).
func (o *Domain) recover(combo string, u, F []float64, fxl map[int][]float64) (res *ComboResult) {
	res = &ComboResult{
		Combo:     combo,
		U:         u,
		Reactions: make([]float64, o.Dmap.Ntot),
		EndForces: make(map[int][]float64, len(o.Elems)),
		Axial:     make(map[int]float64, len(o.Elems)),
		Stress:    make(map[int]float64, len(o.Elems)),
	}
	ku := make([]float64, o.Dmap.Ntot)
	la.MatVecMul(ku, 1, o.Kfull, u) // ku := Kfull * u
	for i := 0; i < o.Dmap.Ntot; i++ {
		if o.Dmap.Restr[i] {
			res.Reactions[i] = ku[i] - F[i]
		}
	}
	ue := make([]float64, 12)
	for _, e := range o.Elems {
		for i, I := range e.Umap() {
			ue[i] = u[I]
		}
		fl := e.EndForces(ue, fxl[e.Id()])
		res.EndForces[e.Id()] = fl
		res.Axial[e.Id()] = e.AxialForce(ue)
		res.Stress[e.Id()] = e.MaxStress(fl)
	}
	return
}
