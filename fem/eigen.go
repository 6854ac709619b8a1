// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// jacobiEig computes all eigenvalues and eigenvectors of the symmetric matrix
// A by cyclic Jacobi rotations. On return v holds the eigenvalues and the
// columns of Q the corresponding orthonormal eigenvectors. A is preserved.
// The iteration stops when the off-diagonal Frobenius norm drops below
// machine tolerance relative to the diagonal; exceeding maxSweeps fails with
// EigenSolverDivergedError.
func jacobiEig(Q [][]float64, v []float64, A [][]float64, maxSweeps int) (err error) {
	n := len(A)
	a := la.MatAlloc(n, n)
	for i := 0; i < n; i++ {
		copy(a[i], A[i])
		la.VecFill(Q[i], 0)
		Q[i][i] = 1
	}
	sumd := 0.0
	for i := 0; i < n; i++ {
		sumd += math.Abs(a[i][i])
	}
	tol := 1e-15 * math.Max(sumd, 1)
	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := 0.0
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				off += math.Abs(a[i][j])
			}
		}
		if off < tol {
			for i := 0; i < n; i++ {
				v[i] = a[i][i]
			}
			return
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(a[p][q]) < tol/float64(n*n) {
					continue
				}
				// rotation angle from the classical 2x2 reduction
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				var t float64
				if theta >= 0 {
					t = 1 / (theta + math.Sqrt(1+theta*theta))
				} else {
					t = -1 / (-theta + math.Sqrt(1+theta*theta))
				}
				c := 1 / math.Sqrt(1+t*t)
				s := t * c
				tau := s / (1 + c)
				apq := a[p][q]
				a[p][p] -= t * apq
				a[q][q] += t * apq
				a[p][q] = 0
				a[q][p] = 0
				for i := 0; i < n; i++ {
					if i != p && i != q {
						aip, aiq := a[i][p], a[i][q]
						a[i][p] = aip - s*(aiq+tau*aip)
						a[i][q] = aiq + s*(aip-tau*aiq)
						a[p][i] = a[i][p]
						a[q][i] = a[i][q]
					}
					qip, qiq := Q[i][p], Q[i][q]
					Q[i][p] = qip - s*(qiq+tau*qip)
					Q[i][q] = qiq + s*(qip-tau*qiq)
				}
			}
		}
	}
	return &EigenSolverDivergedError{Sweeps: maxSweeps}
}
