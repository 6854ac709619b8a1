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

// Frame represents a 3D two-node frame member (Euler-Bernoulli, linear
// elastic) with 12 DOFs. Beams, columns, braces and the grillage
// idealization of slabs/walls all use this formulation.
//
//  local axes:   y1 (e1)
//         ^
//         | qn                        Props:     Nodes:
//         o---------------------------o           E, G, A    0 and 1
//         |------> y0 (e0)            |           I22 (major, bending in e0-e1 plane)
//       (y2, e2 out of plane)         |           I11 (minor)
//                                                 Jtt (torsion)
//
// Local DOF order per node: {u, v, w, θx, θy, θz}.
type Frame struct {

	// basic data
	Eid  int        // element id
	N0   int        // start node id
	N1   int        // end node id
	X0   [3]float64 // start coordinates
	X1   [3]float64 // end coordinates
	Roll float64    // roll angle about the member axis [rad]

	// parameters and properties
	E   float64 // Young's modulus
	G   float64 // shear modulus
	Rho float64 // density
	A   float64 // cross-sectional area
	I22 float64 // major moment of inertia
	I11 float64 // minor moment of inertia
	Jtt float64 // torsional constant
	C22 float64 // extreme-fibre distance for major bending
	C11 float64 // extreme-fibre distance for minor bending
	Cap float64 // capacity stress (Fc or Fy) for utilization

	// derived
	L float64 // member length

	// unit vectors aligned with the member
	e0 []float64 // [3] along the axis
	e1 []float64 // [3] local y
	e2 []float64 // [3] local z

	// matrices (cached)
	T  [][]float64 // [12][12] global-to-local transformation
	Kl [][]float64 // local stiffness
	Ke [][]float64 // global stiffness

	// problem variables
	umap []int // [12] assembly map (global equation numbers)
}

// register formulation for all frame-like kinds
func init() {
	alloc := func(e *inp.Element, n0, n1 *inp.Node, mat *inp.Material, sec *inp.Section) Element {
		o := &Frame{
			Eid: e.Id, N0: n0.Id, N1: n1.Id, X0: n0.X, X1: n1.X, Roll: e.Roll,
			E: mat.E, G: mat.G, Rho: mat.Rho, Cap: mat.Strength(),
			A: sec.A, I22: sec.I22, I11: sec.I11, Jtt: sec.Jtt,
			C22: sec.HalfDepth(), C11: sec.HalfWidth(),
		}
		o.e0 = make([]float64, 3)
		o.e1 = make([]float64, 3)
		o.e2 = make([]float64, 3)
		o.T = la.MatAlloc(12, 12)
		o.Kl = la.MatAlloc(12, 12)
		o.Ke = la.MatAlloc(12, 12)
		o.Recompute()
		return o
	}
	for _, kind := range []string{inp.KindBeam, inp.KindColumn, inp.KindBrace, inp.KindSlab, inp.KindWall} {
		SetAllocator(kind, alloc)
	}
}

// Id returns the element id
func (o *Frame) Id() int { return o.Eid }

// Nodes returns the end node ids
func (o *Frame) Nodes() (int, int) { return o.N0, o.N1 }

// Length returns the member length
func (o *Frame) Length() float64 { return o.L }

// Umap returns the assembly map
func (o *Frame) Umap() []int { return o.umap }

// SetUmap sets the assembly map
func (o *Frame) SetUmap(umap []int) { o.umap = umap }

// K returns the cached global stiffness matrix
func (o *Frame) K() [][]float64 { return o.Ke }

// Recompute rebuilds the member axes, the transformation matrix and the
// local/global stiffness after material, section or geometry changes
func (o *Frame) Recompute() {

	// axis and length
	for i := 0; i < 3; i++ {
		o.e0[i] = o.X1[i] - o.X0[i]
	}
	o.L = la.VecNorm(o.e0)
	for i := 0; i < 3; i++ {
		o.e0[i] /= o.L
	}

	// local y and z: e2 := e0 x k with k = global Z, or global X for
	// near-vertical members; e1 := e2 x e0
	k := []float64{0, 0, 1}
	if math.Abs(o.e0[2]) > 0.999 {
		k[0], k[2] = 1, 0
	}
	utl.Cross3d(o.e2, o.e0, k)
	n2 := la.VecNorm(o.e2)
	for i := 0; i < 3; i++ {
		o.e2[i] /= n2
	}
	utl.Cross3d(o.e1, o.e2, o.e0)

	// roll about the axis
	if o.Roll != 0 {
		c, s := math.Cos(o.Roll), math.Sin(o.Roll)
		e1r := make([]float64, 3)
		for i := 0; i < 3; i++ {
			e1r[i] = c*o.e1[i] + s*o.e2[i]
			o.e2[i] = -s*o.e1[i] + c*o.e2[i]
		}
		copy(o.e1, e1r)
	}

	// global-to-local transformation: four 3x3 blocks of [e0; e1; e2]
	la.MatFill(o.T, 0)
	for b := 0; b < 4; b++ {
		for j := 0; j < 3; j++ {
			o.T[3*b+0][3*b+j] = o.e0[j]
			o.T[3*b+1][3*b+j] = o.e1[j]
			o.T[3*b+2][3*b+j] = o.e2[j]
		}
	}

	// constants
	EA := o.E * o.A
	EIr := o.E * o.I22
	EIs := o.E * o.I11
	GJ := o.G * o.Jtt
	l := o.L
	ll := l * l
	lll := ll * l

	// local stiffness
	la.MatFill(o.Kl, 0)

	// axial
	o.Kl[0][0] = EA / l
	o.Kl[0][6] = -EA / l
	o.Kl[6][6] = EA / l

	// bending in the e0-e1 plane (major axis, couples v and θz)
	o.Kl[1][1] = 12.0 * EIr / lll
	o.Kl[1][5] = 6.0 * EIr / ll
	o.Kl[1][7] = -12.0 * EIr / lll
	o.Kl[1][11] = 6.0 * EIr / ll
	o.Kl[5][5] = 4.0 * EIr / l
	o.Kl[5][7] = -6.0 * EIr / ll
	o.Kl[5][11] = 2.0 * EIr / l
	o.Kl[7][7] = 12.0 * EIr / lll
	o.Kl[7][11] = -6.0 * EIr / ll
	o.Kl[11][11] = 4.0 * EIr / l

	// bending in the e0-e2 plane (minor axis, couples w and θy)
	o.Kl[2][2] = 12.0 * EIs / lll
	o.Kl[2][4] = -6.0 * EIs / ll
	o.Kl[2][8] = -12.0 * EIs / lll
	o.Kl[2][10] = -6.0 * EIs / ll
	o.Kl[4][4] = 4.0 * EIs / l
	o.Kl[4][8] = 6.0 * EIs / ll
	o.Kl[4][10] = 2.0 * EIs / l
	o.Kl[8][8] = 12.0 * EIs / lll
	o.Kl[8][10] = 6.0 * EIs / ll
	o.Kl[10][10] = 4.0 * EIs / l

	// torsion
	o.Kl[3][3] = GJ / l
	o.Kl[3][9] = -GJ / l
	o.Kl[9][9] = GJ / l

	// symmetrize lower triangle
	for i := 1; i < 12; i++ {
		for j := 0; j < i; j++ {
			o.Kl[i][j] = o.Kl[j][i]
		}
	}

	// global stiffness
	la.MatTrMul3(o.Ke, 1, o.T, o.Kl, o.T) // K := 1 * trans(T) * Kl * T
}

// M returns the global mass matrix. lumped == true gives the HRZ diagonal
// lumping; otherwise the consistent matrix is returned.
func (o *Frame) M(lumped bool) [][]float64 {
	m := o.Rho * o.A * o.L
	l := o.L
	ll := l * l
	rx2 := o.Jtt / o.A // polar radius of gyration squared
	Ml := la.MatAlloc(12, 12)

	if lumped {
		// HRZ: translations take half the mass each; rotary terms are the
		// consistent diagonal scaled to preserve the total mass
		for _, i := range []int{0, 1, 2, 6, 7, 8} {
			Ml[i][i] = m / 2.0
		}
		Ml[3][3] = m * rx2 / 2.0
		Ml[9][9] = m * rx2 / 2.0
		rot := m * ll / 78.0 // (4ll*m/420) * (210/156)
		Ml[4][4], Ml[5][5], Ml[10][10], Ml[11][11] = rot, rot, rot, rot
	} else {
		c := m / 420.0

		// axial
		Ml[0][0] = m / 3.0
		Ml[0][6] = m / 6.0
		Ml[6][6] = m / 3.0

		// torsion
		Ml[3][3] = m * rx2 / 3.0
		Ml[3][9] = m * rx2 / 6.0
		Ml[9][9] = m * rx2 / 3.0

		// bending in the e0-e1 plane
		Ml[1][1] = 156.0 * c
		Ml[1][5] = 22.0 * l * c
		Ml[1][7] = 54.0 * c
		Ml[1][11] = -13.0 * l * c
		Ml[5][5] = 4.0 * ll * c
		Ml[5][7] = 13.0 * l * c
		Ml[5][11] = -3.0 * ll * c
		Ml[7][7] = 156.0 * c
		Ml[7][11] = -22.0 * l * c
		Ml[11][11] = 4.0 * ll * c

		// bending in the e0-e2 plane
		Ml[2][2] = 156.0 * c
		Ml[2][4] = -22.0 * l * c
		Ml[2][8] = 54.0 * c
		Ml[2][10] = 13.0 * l * c
		Ml[4][4] = 4.0 * ll * c
		Ml[4][8] = -13.0 * l * c
		Ml[4][10] = -3.0 * ll * c
		Ml[8][8] = 156.0 * c
		Ml[8][10] = 22.0 * l * c
		Ml[10][10] = 4.0 * ll * c

		for i := 1; i < 12; i++ {
			for j := 0; j < i; j++ {
				Ml[i][j] = Ml[j][i]
			}
		}
	}

	Mg := la.MatAlloc(12, 12)
	la.MatTrMul3(Mg, 1, o.T, Ml, o.T) // M := 1 * trans(T) * Ml * T
	return Mg
}

// Kg returns the global geometric stiffness matrix for axial force N
// (tension positive). Tension stiffens the member; compression softens it.
func (o *Frame) Kg(axialN float64) [][]float64 {
	g := axialN / o.L
	l := o.L
	ll := l * l
	Gl := la.MatAlloc(12, 12)

	// e0-e1 plane
	Gl[1][1] = 6.0 / 5.0 * g
	Gl[1][5] = l / 10.0 * g
	Gl[1][7] = -6.0 / 5.0 * g
	Gl[1][11] = l / 10.0 * g
	Gl[5][5] = 2.0 * ll / 15.0 * g
	Gl[5][7] = -l / 10.0 * g
	Gl[5][11] = -ll / 30.0 * g
	Gl[7][7] = 6.0 / 5.0 * g
	Gl[7][11] = -l / 10.0 * g
	Gl[11][11] = 2.0 * ll / 15.0 * g

	// e0-e2 plane
	Gl[2][2] = 6.0 / 5.0 * g
	Gl[2][4] = -l / 10.0 * g
	Gl[2][8] = -6.0 / 5.0 * g
	Gl[2][10] = -l / 10.0 * g
	Gl[4][4] = 2.0 * ll / 15.0 * g
	Gl[4][8] = l / 10.0 * g
	Gl[4][10] = -ll / 30.0 * g
	Gl[8][8] = 6.0 / 5.0 * g
	Gl[8][10] = l / 10.0 * g
	Gl[10][10] = 2.0 * ll / 15.0 * g

	for i := 1; i < 12; i++ {
		for j := 0; j < i; j++ {
			Gl[i][j] = Gl[j][i]
		}
	}

	Gg := la.MatAlloc(12, 12)
	la.MatTrMul3(Gg, 1, o.T, Gl, o.T)
	return Gg
}

// EquivNodal returns the equivalent (fixed-end) nodal forces of uniform
// distributed loads: qn along local e1 and qt along the axis.
//  Output:
//   fg -- [12] forces in global coordinates, to be scattered into the load vector
//   fl -- [12] the same forces in local coordinates, kept for end-force recovery
func (o *Frame) EquivNodal(qn, qt float64) (fg, fl []float64) {
	l := o.L
	ll := l * l
	fl = make([]float64, 12)
	fl[0] = qt * l / 2.0
	fl[1] = qn * l / 2.0
	fl[5] = qn * ll / 12.0
	fl[6] = qt * l / 2.0
	fl[7] = qn * l / 2.0
	fl[11] = -qn * ll / 12.0
	fg = make([]float64, 12)
	la.MatTrVecMulAdd(fg, 1.0, o.T, fl) // fg += trans(T) * fl
	return
}

// EndForces recovers the local end forces from the global element
// displacements ue: fl = Kl*T*ue - fxl, where fxl holds accumulated local
// fixed-end forces of distributed loads (nil means none). The buffers are
// freshly allocated so recovery is safe from concurrent workers.
func (o *Frame) EndForces(ue, fxl []float64) []float64 {
	ul := make([]float64, 12)
	la.MatVecMul(ul, 1, o.T, ue) // ul := T * ue
	fl := make([]float64, 12)
	la.MatVecMul(fl, 1, o.Kl, ul) // fl := Kl * ul
	if fxl != nil {
		for i := 0; i < 12; i++ {
			fl[i] -= fxl[i]
		}
	}
	return fl
}

// AxialForce returns the axial force from global element displacements
// (tension positive)
func (o *Frame) AxialForce(ue []float64) float64 {
	ul := make([]float64, 12)
	la.MatVecMul(ul, 1, o.T, ue)
	return o.E * o.A / o.L * (ul[6] - ul[0])
}

// MaxStress returns the extreme-fibre normal stress magnitude from the local
// end forces: |N|/A + |M22|·c22/I22 + |M11|·c11/I11
func (o *Frame) MaxStress(fl []float64) float64 {
	sig := math.Abs(fl[0]) / o.A
	m22 := math.Max(math.Abs(fl[5]), math.Abs(fl[11]))
	m11 := math.Max(math.Abs(fl[4]), math.Abs(fl[10]))
	if o.I22 > 0 {
		sig += m22 * o.C22 / o.I22
	}
	if o.I11 > 0 {
		sig += m11 * o.C11 / o.I11
	}
	return sig
}
