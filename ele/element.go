// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ele implements the element formulations: local stiffness, mass and
// geometric stiffness matrices, coordinate transformations and end-force
// recovery for frame and truss members
package ele

import (
	"github.com/cpmech/gosl/chk"

	"github.com/strucfem/strucfem/inp"
)

// Element defines what all element formulations must implement. Matrices are
// 12x12 over the two end nodes' six DOFs each, ordered
// {ux,uy,uz,rx,ry,rz}(node0) then {ux,uy,uz,rx,ry,rz}(node1), in global
// coordinates unless stated otherwise.
type Element interface {

	// information
	Id() int               // element id
	Nodes() (n0, n1 int)   // end node ids
	Length() float64       // member length
	Umap() []int           // [12] global equation numbers (full numbering)
	SetUmap(umap []int)    // set global equation numbers

	// matrices (global coordinates, cached until Recompute)
	K() [][]float64              // elastic stiffness
	M(lumped bool) [][]float64   // mass (lumped == HRZ diagonal)
	Kg(axialN float64) [][]float64 // geometric stiffness for axial force N (tension positive)

	// loads and recovery
	EquivNodal(qn, qt float64) (fg, fl []float64)     // equivalent nodal forces of distributed loads (global, local)
	EndForces(ue, fxl []float64) (fl []float64)       // local end forces: fl = Kl*T*ue - fxl
	AxialForce(ue []float64) float64                  // axial force from global element displacements (tension positive)
	MaxStress(fl []float64) float64                   // extreme-fibre stress magnitude from local end forces

	// invalidation of the cached matrices after material/section/geometry change
	Recompute()
}

// Allocator creates one element from model data
type Allocator func(e *inp.Element, n0, n1 *inp.Node, mat *inp.Material, sec *inp.Section) Element

// allocators holds all available element formulations, keyed by kind
var allocators = make(map[string]Allocator)

// SetAllocator registers an element formulation. The kind set is closed: new
// kinds are added here together with their entry in inp.ElementKinds.
func SetAllocator(kind string, alloc Allocator) {
	allocators[kind] = alloc
}

// New allocates an element for the given model entities
func New(e *inp.Element, n0, n1 *inp.Node, mat *inp.Material, sec *inp.Section) (Element, error) {
	alloc, ok := allocators[e.Kind]
	if !ok {
		return nil, chk.Err("cannot find element formulation for kind %q (element %d)", e.Kind, e.Id)
	}
	return alloc(e, n0, n1, mat, sec), nil
}
