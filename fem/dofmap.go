// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/strucfem/strucfem/ele"
	"github.com/strucfem/strucfem/inp"
)

// DofMap numbers the global degrees of freedom: six per node (three
// translations, three rotations) in node insertion order. Restrained DOFs
// are removed from the reduced system (penalty-free reduction): Eq maps the
// full numbering onto reduced equation numbers, with -1 marking removed rows.
type DofMap struct {
	Nodes   []*inp.Node // nodes in model order
	NodeIdx map[int]int // node id => index in Nodes
	Ntot    int         // 6 * number of nodes (full system size)
	Nred    int         // reduced system size
	Eq      []int       // [Ntot] full DOF => reduced equation number, or -1
	Restr   []bool      // [Ntot] restrained by a support
	Active  []bool      // [Ntot] carries stiffness (rotations at truss-only or unconnected nodes do not)
}

// Full returns the full DOF index of node (by model index) and local dof j
func (o *DofMap) Full(nodeIdx, j int) int { return 6*nodeIdx + j }

// NewDofMap builds the DOF numbering for the given model and elements
func NewDofMap(m *inp.Model, elems []ele.Element) (o *DofMap) {
	o = &DofMap{
		Nodes:   m.Nodes,
		NodeIdx: make(map[int]int, len(m.Nodes)),
		Ntot:    6 * len(m.Nodes),
	}
	for i, n := range m.Nodes {
		o.NodeIdx[n.Id] = i
	}
	o.Eq = make([]int, o.Ntot)
	o.Restr = make([]bool, o.Ntot)
	o.Active = make([]bool, o.Ntot)

	// activation: translations wherever any element attaches; rotations only
	// where a rotational-stiffness element (frame) attaches
	for _, e := range elems {
		n0, n1 := e.Nodes()
		_, rotational := e.(*ele.Frame)
		for _, nid := range []int{n0, n1} {
			i := o.NodeIdx[nid]
			for j := 0; j < 3; j++ {
				o.Active[o.Full(i, j)] = true
			}
			if rotational {
				for j := 3; j < 6; j++ {
					o.Active[o.Full(i, j)] = true
				}
			}
		}
	}

	// restraints from supports
	for i, n := range m.Nodes {
		mask := n.Restraints()
		for j := 0; j < 6; j++ {
			if mask[j] {
				o.Restr[o.Full(i, j)] = true
			}
		}
	}

	// reduced equation numbers
	o.Nred = 0
	for r := 0; r < o.Ntot; r++ {
		if o.Active[r] && !o.Restr[r] {
			o.Eq[r] = o.Nred
			o.Nred++
		} else {
			o.Eq[r] = -1
		}
	}
	return
}

// Umap returns the 12 full DOF indices of a two-node element
func (o *DofMap) Umap(e ele.Element) (umap []int) {
	n0, n1 := e.Nodes()
	i0, i1 := o.NodeIdx[n0], o.NodeIdx[n1]
	umap = make([]int, 12)
	for j := 0; j < 6; j++ {
		umap[j] = o.Full(i0, j)
		umap[6+j] = o.Full(i1, j)
	}
	return
}

// Reduce gathers a full-length vector into reduced numbering
func (o *DofMap) Reduce(full []float64) (red []float64) {
	red = make([]float64, o.Nred)
	for r := 0; r < o.Ntot; r++ {
		if q := o.Eq[r]; q >= 0 {
			red[q] = full[r]
		}
	}
	return
}

// Expand scatters a reduced vector back to full numbering (zeros elsewhere)
func (o *DofMap) Expand(red []float64) (full []float64) {
	full = make([]float64, o.Ntot)
	for r := 0; r < o.Ntot; r++ {
		if q := o.Eq[r]; q >= 0 {
			full[r] = red[q]
		}
	}
	return
}
