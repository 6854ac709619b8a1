// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/gosl/io"

// SingularStiffnessError indicates that the reduced stiffness matrix is not
// positive-definite: the model carries an unrestrained rigid-body mode or is
// otherwise under-constrained. Fatal for the affected combination.
type SingularStiffnessError struct {
	Eq   int    // reduced equation number of the first non-positive pivot; -1 when unknown
	What string // context; e.g. combination name
}

func (e *SingularStiffnessError) Error() string {
	if e.Eq < 0 {
		return io.Sf("stiffness matrix is singular or not positive-definite (%s): under-constrained model", e.What)
	}
	return io.Sf("stiffness matrix is singular or not positive-definite (%s): non-positive pivot at equation %d", e.What, e.Eq)
}

// NonConvergentSolveError indicates that an iterative linear solver exhausted
// its iteration budget before meeting the tolerance
type NonConvergentSolveError struct {
	Iterations int
	Residual   float64
	Tolerance  float64
}

func (e *NonConvergentSolveError) Error() string {
	return io.Sf("iterative solve did not converge after %d iterations: residual %g > tolerance %g", e.Iterations, e.Residual, e.Tolerance)
}

// DivergedIterationError indicates that the Newton-Raphson loop reached the
// iteration cap, or that an intermediate tangent stiffness became
// non-positive-definite (instability/buckling signal)
type DivergedIterationError struct {
	Combo      string
	Iterations int
	Residual   float64
	Buckling   bool
}

func (e *DivergedIterationError) Error() string {
	if e.Buckling {
		return io.Sf("nonlinear iterations diverged for combination %q: tangent stiffness became non-positive-definite after %d iterations (instability/buckling)", e.Combo, e.Iterations)
	}
	return io.Sf("nonlinear iterations diverged for combination %q: residual %g after %d iterations", e.Combo, e.Residual, e.Iterations)
}

// EigenSolverDivergedError indicates that the eigen solver did not converge
// within the configured sweep cap
type EigenSolverDivergedError struct {
	Sweeps int
}

func (e *EigenSolverDivergedError) Error() string {
	return io.Sf("eigen solver did not converge within %d sweeps", e.Sweeps)
}

// CanceledError indicates that a run was canceled, either by the caller or by
// the advisory timeout. Work stops at the next checkpoint; no partial results
// are kept.
type CanceledError struct {
	RunId string
}

func (e *CanceledError) Error() string {
	return io.Sf("analysis run %s was canceled", e.RunId)
}
