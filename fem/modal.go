// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/la"
)

// ModalResult holds the extracted natural modes, ascending by frequency.
// Shapes are mass-normalized (φᵀ·M·φ = 1) and expanded to the full DOF
// numbering with zeros at restrained DOFs.
type ModalResult struct {
	Omegas  []float64   // circular frequencies [rad/s]
	Freqs   []float64   // natural frequencies [Hz]
	Periods []float64   // natural periods [s]
	Shapes  [][]float64 // [nmodes][Ntot] mode shapes
}

// SolveModal extracts the lowest nmodes natural modes from the reduced K and
// M. The generalized problem K·φ = ω²·M·φ is transformed with the Cholesky
// factor of M into a standard symmetric one solved by Jacobi rotations.
func (o *Domain) SolveModal(nmodes, maxSweeps int) (res *ModalResult, err error) {
	n := o.Dmap.Nred
	if nmodes > n {
		nmodes = n
	}

	// M = L·Lᵀ. The HRZ-lumped and the consistent matrices are both positive
	// definite, so a failure here means a massless active DOF.
	mfac := new(denseChol)
	if err = mfac.Init(o.Mred); err != nil {
		if se, ok := err.(*SingularStiffnessError); ok {
			se.What = "mass factorisation"
		}
		return
	}

	// S = L⁻¹·K·L⁻ᵀ
	W := la.MatAlloc(n, n)
	col := make([]float64, n)
	sol := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			col[i] = o.Kred[i][j]
		}
		mfac.forward(sol, col)
		for i := 0; i < n; i++ {
			W[i][j] = sol[i]
		}
	}
	S := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		mfac.forward(S[i], W[i])
	}
	for i := 0; i < n-1; i++ { // symmetrize against roundoff
		for j := i + 1; j < n; j++ {
			s := (S[i][j] + S[j][i]) / 2
			S[i][j], S[j][i] = s, s
		}
	}

	Q := la.MatAlloc(n, n)
	lam := make([]float64, n)
	if err = jacobiEig(Q, lam, S, maxSweeps); err != nil {
		return
	}

	// ascending frequency order; equal eigenvalues keep their Jacobi order
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return lam[idx[a]] < lam[idx[b]] })

	res = &ModalResult{
		Omegas:  make([]float64, nmodes),
		Freqs:   make([]float64, nmodes),
		Periods: make([]float64, nmodes),
		Shapes:  make([][]float64, nmodes),
	}
	y := make([]float64, n)
	phi := make([]float64, n)
	for m := 0; m < nmodes; m++ {
		k := idx[m]
		w2 := lam[k]
		if w2 < 0 {
			w2 = 0
		}
		w := math.Sqrt(w2)
		res.Omegas[m] = w
		res.Freqs[m] = w / (2 * math.Pi)
		if w > 0 {
			res.Periods[m] = 2 * math.Pi / w
		}

		// φ = L⁻ᵀ·y. The Jacobi eigenvectors are orthonormal, hence φ is
		// already mass-normalized.
		for i := 0; i < n; i++ {
			y[i] = Q[i][k]
		}
		mfac.backward(phi, y)
		flipToLargestPositive(phi)
		res.Shapes[m] = o.Dmap.Expand(phi)
	}
	return
}

// flipToLargestPositive fixes the arbitrary eigenvector sign so the largest
// magnitude component is positive
func flipToLargestPositive(v []float64) {
	big, k := 0.0, 0
	for i, x := range v {
		if math.Abs(x) > big {
			big, k = math.Abs(x), i
		}
	}
	if v[k] < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}
