// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// pivotTol is the relative tolerance below which a Cholesky pivot is treated
// as zero, flagging a non-positive-definite (under-constrained) system
const pivotTol = 1e-12

// LinSolver solves the reduced linear system K·u = F. Init factors the
// matrix once; Solve may then be called concurrently by combination workers,
// each with private x/b buffers.
type LinSolver interface {
	Init(K [][]float64) error
	Solve(x, b []float64) error
	Free()
}

// NewLinSolver returns a linear solver by name: "dense" (Cholesky),
// "umfpack" (sparse direct via gosl) or "cg" (Jacobi-preconditioned
// conjugate gradients)
func NewLinSolver(name string, tol float64, maxIt int) (LinSolver, error) {
	switch name {
	case "", "dense":
		return new(denseChol), nil
	case "umfpack":
		return new(sparseDirect), nil
	case "cg":
		return &conjGrad{tol: tol, maxIt: maxIt}, nil
	}
	return nil, chk.Err("cannot find linear solver named %q", name)
}

// denseChol factors K = L·Lᵀ. Suited to small/medium dense systems; the
// factorization doubles as the positive-definiteness test demanded by the
// penalty-free reduction.
type denseChol struct {
	n int
	L [][]float64
}

// Init computes the Cholesky factor, failing with SingularStiffnessError on
// the first non-positive pivot
func (o *denseChol) Init(K [][]float64) (err error) {
	o.n = len(K)
	o.L = la.MatAlloc(o.n, o.n)
	maxd := 0.0
	for i := 0; i < o.n; i++ {
		if K[i][i] > maxd {
			maxd = K[i][i]
		}
	}
	if maxd <= 0 {
		return &SingularStiffnessError{Eq: 0, What: "empty or zero stiffness"}
	}
	for j := 0; j < o.n; j++ {
		d := K[j][j]
		for k := 0; k < j; k++ {
			d -= o.L[j][k] * o.L[j][k]
		}
		if d <= pivotTol*maxd {
			return &SingularStiffnessError{Eq: j, What: "factorisation"}
		}
		o.L[j][j] = math.Sqrt(d)
		for i := j + 1; i < o.n; i++ {
			s := K[i][j]
			for k := 0; k < j; k++ {
				s -= o.L[i][k] * o.L[j][k]
			}
			o.L[i][j] = s / o.L[j][j]
		}
	}
	return
}

// Solve performs the forward and back substitutions: L·Lᵀ·x = b
func (o *denseChol) Solve(x, b []float64) (err error) {
	y := make([]float64, o.n)
	o.forward(y, b)
	o.backward(x, y)
	return
}

// forward solves L·y = b
func (o *denseChol) forward(y, b []float64) {
	for i := 0; i < o.n; i++ {
		s := b[i]
		for k := 0; k < i; k++ {
			s -= o.L[i][k] * y[k]
		}
		y[i] = s / o.L[i][i]
	}
}

// backward solves Lᵀ·x = y
func (o *denseChol) backward(x, y []float64) {
	for i := o.n - 1; i >= 0; i-- {
		s := y[i]
		for k := i + 1; k < o.n; k++ {
			s -= o.L[k][i] * x[k]
		}
		x[i] = s / o.L[i][i]
	}
}

func (o *denseChol) Free() { o.L = nil }

// sparseDirect wraps gosl's sparse direct solver (umfpack). The triplet is
// rebuilt from the reduced matrix; SolveR is serialized because the backend
// is not reentrant.
type sparseDirect struct {
	mu  sync.Mutex
	lis la.LinSol
}

func (o *sparseDirect) Init(K [][]float64) (err error) {
	n := len(K)
	nnz := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if K[i][j] != 0 {
				nnz++
			}
		}
	}
	Kb := new(la.Triplet)
	Kb.Init(n, n, nnz)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if K[i][j] != 0 {
				Kb.Put(i, j, K[i][j])
			}
		}
	}
	o.lis = la.GetSolver("umfpack")
	if err = o.lis.InitR(Kb, false, false, false); err != nil {
		return chk.Err("cannot initialise sparse solver:\n%v", err)
	}
	if err = o.lis.Fact(); err != nil {
		return &SingularStiffnessError{Eq: -1, What: "sparse factorisation"}
	}
	return
}

func (o *sparseDirect) Solve(x, b []float64) (err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lis.SolveR(x, b, false)
}

func (o *sparseDirect) Free() {
	if o.lis != nil {
		o.lis.Free()
	}
}

// conjGrad is a Jacobi-preconditioned conjugate gradient solver for large
// well-conditioned systems. It is the only path that can fail with
// NonConvergentSolveError.
type conjGrad struct {
	tol   float64
	maxIt int
	K     [][]float64
	diag  []float64
}

func (o *conjGrad) Init(K [][]float64) (err error) {
	o.K = K
	n := len(K)
	o.diag = make([]float64, n)
	for i := 0; i < n; i++ {
		if K[i][i] <= 0 {
			return &SingularStiffnessError{Eq: i, What: "cg preconditioner"}
		}
		o.diag[i] = K[i][i]
	}
	if o.maxIt < 1 {
		o.maxIt = 10 * n
	}
	if o.tol <= 0 {
		o.tol = 1e-8
	}
	return
}

func (o *conjGrad) Solve(x, b []float64) (err error) {
	n := len(b)
	r := make([]float64, n)
	z := make([]float64, n)
	p := make([]float64, n)
	q := make([]float64, n)
	la.VecFill(x, 0)
	copy(r, b)
	normb := la.VecNorm(b)
	if normb == 0 {
		return
	}
	rz := 0.0
	for i := 0; i < n; i++ {
		z[i] = r[i] / o.diag[i]
		rz += r[i] * z[i]
	}
	copy(p, z)
	var res float64
	for it := 0; it < o.maxIt; it++ {
		la.MatVecMul(q, 1, o.K, p) // q := K·p
		pq := 0.0
		for i := 0; i < n; i++ {
			pq += p[i] * q[i]
		}
		alp := rz / pq
		for i := 0; i < n; i++ {
			x[i] += alp * p[i]
			r[i] -= alp * q[i]
		}
		res = la.VecNorm(r) / normb
		if res < o.tol {
			return
		}
		rznew := 0.0
		for i := 0; i < n; i++ {
			z[i] = r[i] / o.diag[i]
			rznew += r[i] * z[i]
		}
		bet := rznew / rz
		rz = rznew
		for i := 0; i < n; i++ {
			p[i] = z[i] + bet*p[i]
		}
	}
	return &NonConvergentSolveError{Iterations: o.maxIt, Residual: res, Tolerance: o.tol}
}

func (o *conjGrad) Free() { o.K, o.diag = nil, nil }
