// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"

	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/strucfem/strucfem/inp"
)

// Truss represents a two-node axial-only member. It shares the 12-DOF layout
// of Frame with zero rotational stiffness so that assembly stays uniform;
// the rotational DOFs of truss-only nodes are restrained by the DOF map.
type Truss struct {

	// basic data
	Eid int
	N0  int
	N1  int
	X0  [3]float64
	X1  [3]float64

	// parameters and properties
	E   float64
	Rho float64
	A   float64
	Cap float64

	// derived
	L  float64
	e0 []float64 // [3] unit vector along the member

	// matrices (cached)
	T  [][]float64
	Kl [][]float64
	Ke [][]float64

	// problem variables
	umap []int
}

func init() {
	SetAllocator(inp.KindTruss, func(e *inp.Element, n0, n1 *inp.Node, mat *inp.Material, sec *inp.Section) Element {
		o := &Truss{
			Eid: e.Id, N0: n0.Id, N1: n1.Id, X0: n0.X, X1: n1.X,
			E: mat.E, Rho: mat.Rho, Cap: mat.Strength(), A: sec.A,
		}
		o.e0 = make([]float64, 3)
		o.T = la.MatAlloc(12, 12)
		o.Kl = la.MatAlloc(12, 12)
		o.Ke = la.MatAlloc(12, 12)
		o.Recompute()
		return o
	})
}

// Id returns the element id
func (o *Truss) Id() int { return o.Eid }

// Nodes returns the end node ids
func (o *Truss) Nodes() (int, int) { return o.N0, o.N1 }

// Length returns the member length
func (o *Truss) Length() float64 { return o.L }

// Umap returns the assembly map
func (o *Truss) Umap() []int { return o.umap }

// SetUmap sets the assembly map
func (o *Truss) SetUmap(umap []int) { o.umap = umap }

// K returns the cached global stiffness matrix
func (o *Truss) K() [][]float64 { return o.Ke }

// Recompute rebuilds axes and stiffness
func (o *Truss) Recompute() {
	for i := 0; i < 3; i++ {
		o.e0[i] = o.X1[i] - o.X0[i]
	}
	o.L = la.VecNorm(o.e0)
	for i := 0; i < 3; i++ {
		o.e0[i] /= o.L
	}

	// orthonormal local axes, same construction as Frame
	k := []float64{0, 0, 1}
	if math.Abs(o.e0[2]) > 0.999 {
		k[0], k[2] = 1, 0
	}
	e2 := make([]float64, 3)
	e1 := make([]float64, 3)
	utl.Cross3d(e2, o.e0, k)
	n2 := la.VecNorm(e2)
	for i := 0; i < 3; i++ {
		e2[i] /= n2
	}
	utl.Cross3d(e1, e2, o.e0)
	la.MatFill(o.T, 0)
	for b := 0; b < 4; b++ {
		for j := 0; j < 3; j++ {
			o.T[3*b+0][3*b+j] = o.e0[j]
			o.T[3*b+1][3*b+j] = e1[j]
			o.T[3*b+2][3*b+j] = e2[j]
		}
	}

	la.MatFill(o.Kl, 0)
	EA := o.E * o.A
	o.Kl[0][0] = EA / o.L
	o.Kl[0][6] = -EA / o.L
	o.Kl[6][0] = -EA / o.L
	o.Kl[6][6] = EA / o.L
	la.MatTrMul3(o.Ke, 1, o.T, o.Kl, o.T)
}

// M returns the global mass matrix (translations only)
func (o *Truss) M(lumped bool) [][]float64 {
	m := o.Rho * o.A * o.L
	Mg := la.MatAlloc(12, 12)
	if lumped {
		for _, i := range []int{0, 1, 2, 6, 7, 8} {
			Mg[i][i] = m / 2.0
		}
		return Mg
	}
	for _, i := range []int{0, 1, 2} {
		Mg[i][i] = m / 3.0
		Mg[i+6][i+6] = m / 3.0
		Mg[i][i+6] = m / 6.0
		Mg[i+6][i] = m / 6.0
	}
	return Mg
}

// Kg returns the global geometric (string) stiffness for axial force N
func (o *Truss) Kg(axialN float64) [][]float64 {
	g := axialN / o.L
	Gl := la.MatAlloc(12, 12)
	for _, i := range []int{1, 2} {
		Gl[i][i] = g
		Gl[i+6][i+6] = g
		Gl[i][i+6] = -g
		Gl[i+6][i] = -g
	}
	Gg := la.MatAlloc(12, 12)
	la.MatTrMul3(Gg, 1, o.T, Gl, o.T)
	return Gg
}

// EquivNodal splits distributed loads evenly between the end nodes
func (o *Truss) EquivNodal(qn, qt float64) (fg, fl []float64) {
	fl = make([]float64, 12)
	fl[0] = qt * o.L / 2.0
	fl[1] = qn * o.L / 2.0
	fl[6] = qt * o.L / 2.0
	fl[7] = qn * o.L / 2.0
	fg = make([]float64, 12)
	la.MatTrVecMulAdd(fg, 1.0, o.T, fl)
	return
}

// EndForces recovers the local end forces. The buffers are freshly
// allocated so recovery is safe from concurrent workers.
func (o *Truss) EndForces(ue, fxl []float64) []float64 {
	ul := make([]float64, 12)
	la.MatVecMul(ul, 1, o.T, ue)
	fl := make([]float64, 12)
	la.MatVecMul(fl, 1, o.Kl, ul)
	if fxl != nil {
		for i := 0; i < 12; i++ {
			fl[i] -= fxl[i]
		}
	}
	return fl
}

// AxialForce returns the axial force (tension positive)
func (o *Truss) AxialForce(ue []float64) float64 {
	ul := make([]float64, 12)
	la.MatVecMul(ul, 1, o.T, ue)
	return o.E * o.A / o.L * (ul[6] - ul[0])
}

// MaxStress returns |N|/A
func (o *Truss) MaxStress(fl []float64) float64 {
	return math.Abs(fl[0]) / o.A
}
