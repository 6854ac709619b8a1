// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// SolveNonlinear runs Newton-Raphson iterations for one combination:
//
//	R := F - fint(u);  Kt·δu = R;  u += δu
//
// Convergence is relative: ‖R‖/‖F‖ < tol. The tangent is the elastic
// stiffness plus, under pdelta, the geometric stiffness at the current axial
// forces; a singular tangent in that regime indicates buckling. On a linear
// structure the first correction lands exactly on the linear solution.
func (o *Domain) SolveNonlinear(combo string) (res *ComboResult, err error) {
	c := o.Model.GetCombo(combo)
	if c == nil {
		return nil, chk.Err("cannot find load combination %q", combo)
	}
	F, fxl, err := o.Combine(c)
	if err != nil {
		return
	}
	Fred := o.Dmap.Reduce(F)
	normF := la.VecNorm(Fred)
	u := make([]float64, o.Dmap.Ntot)
	geom := o.Cfg.PDelta || o.Cfg.GeomNL

	// unloaded structure: nothing to iterate
	if normF == 0 {
		res = o.recover(combo, u, F, fxl)
		res.Iterations = 0
		return
	}

	var hist []float64
	var rel, prev float64
	npass := 0 // consecutive passing residual checks
	ndiverging := 0
	for it := 1; it <= o.Cfg.NmaxIt; it++ {

		// residual
		fint := o.InternalForces(u, geom)
		Rred := o.Dmap.Reduce(fint)
		for i := range Rred {
			Rred[i] = Fred[i] - Rred[i]
		}
		rel = la.VecNorm(Rred) / normF
		hist = append(hist, rel)
		if o.Cfg.Verbose {
			io.Pf("  %s it=%2d  rel=%13.6e\n", combo, it, rel)
		}

		// two consecutive passing checks guard against a single oscillation
		// dipping below the tolerance
		if rel < o.Cfg.Tol {
			npass++
			if npass >= 2 {
				res = o.recover(combo, u, F, fxl)
				res.Iterations = it
				res.Residuals = hist
				return
			}
		} else {
			npass = 0
		}

		// two consecutive growing residuals mean the iteration is running away
		if it > 1 && rel > prev {
			ndiverging++
			if ndiverging >= 2 {
				return nil, &DivergedIterationError{Combo: combo, Iterations: it, Residual: rel}
			}
		} else {
			ndiverging = 0
		}
		prev = rel

		// correction
		Kt := o.TangentRed(u, geom)
		lis, e := NewLinSolver(o.Cfg.LinSol.Name, o.Cfg.LinSol.Tol, o.Cfg.LinSol.MaxIt)
		if e != nil {
			return nil, e
		}
		if e = lis.Init(Kt); e != nil {
			lis.Free()
			if _, singular := e.(*SingularStiffnessError); singular && geom {
				return nil, &DivergedIterationError{Combo: combo, Iterations: it, Residual: rel, Buckling: true}
			}
			return nil, e
		}
		du := make([]float64, o.Dmap.Nred)
		if e = lis.Solve(du, Rred); e != nil {
			lis.Free()
			return nil, e
		}
		lis.Free()
		dfull := o.Dmap.Expand(du)
		la.VecAdd(u, 1, dfull) // u += du
	}
	return nil, &DivergedIterationError{Combo: combo, Iterations: o.Cfg.NmaxIt, Residual: rel}
}
