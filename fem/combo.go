// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/strucfem/strucfem/inp"
)

// caseVectors expands every load case into one full-length global load
// vector and records the local fixed-end forces of distributed loads per
// element, both keyed by case name
func (o *Domain) caseVectors() (err error) {
	o.CaseVecs = make(map[string][]float64)
	o.CaseFxl = make(map[string]map[int][]float64)
	for _, l := range o.Model.Loads {
		F, ok := o.CaseVecs[l.Case]
		if !ok {
			F = make([]float64, o.Dmap.Ntot)
			o.CaseVecs[l.Case] = F
			o.CaseFxl[l.Case] = make(map[int][]float64)
		}
		switch {

		// nodal point load
		case l.NodeId >= 0:
			i, ok := o.Dmap.NodeIdx[l.NodeId]
			if !ok {
				return chk.Err("load in case %q targets missing node %d", l.Case, l.NodeId)
			}
			for j := 0; j < 3; j++ {
				F[o.Dmap.Full(i, j)] += l.Mag * l.Dir[j]
			}

		// element load
		case l.ElemId >= 0:
			e, ok := o.Eid2elem[l.ElemId]
			if !ok {
				return chk.Err("load in case %q targets missing element %d", l.Case, l.ElemId)
			}
			umap := e.Umap()
			if l.Kind == "distributed" || l.Qn != 0 || l.Qt != 0 {
				fg, fl := e.EquivNodal(l.Qn, l.Qt)
				for i, I := range umap {
					F[I] += fg[i]
				}
				fxl, ok := o.CaseFxl[l.Case][l.ElemId]
				if !ok {
					fxl = make([]float64, 12)
					o.CaseFxl[l.Case][l.ElemId] = fxl
				}
				for i := 0; i < 12; i++ {
					fxl[i] += fl[i]
				}
			} else {
				// point load on an element: split between the end nodes
				for j := 0; j < 3; j++ {
					F[umap[j]] += 0.5 * l.Mag * l.Dir[j]
					F[umap[6+j]] += 0.5 * l.Mag * l.Dir[j]
				}
			}

		default:
			return chk.Err("load in case %q has no target", l.Case)
		}
	}
	return
}

// Combine builds the factored global load vector of one combination:
// F = Σ factor·F(case). Accumulation is plain vector addition, hence
// order-independent. The element fixed-end forces are factored alongside for
// later end-force recovery.
func (o *Domain) Combine(c *inp.Combination) (F []float64, fxl map[int][]float64, err error) {
	F = make([]float64, o.Dmap.Ntot)
	fxl = make(map[int][]float64)
	for _, t := range c.Terms {
		Fc, ok := o.CaseVecs[t.Case]
		if !ok {
			return nil, nil, &inp.UnknownLoadCaseError{Combo: c.Name, Case: t.Case}
		}
		for i := range Fc {
			F[i] += t.Factor * Fc[i]
		}
		for eid, fl := range o.CaseFxl[t.Case] {
			acc, ok := fxl[eid]
			if !ok {
				acc = make([]float64, 12)
				fxl[eid] = acc
			}
			for i := 0; i < 12; i++ {
				acc[i] += t.Factor * fl[i]
			}
		}
	}
	return
}
