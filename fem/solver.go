// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"
	"sync"

	"github.com/cpmech/gosl/chk"

	"github.com/strucfem/strucfem/code"
	"github.com/strucfem/strucfem/inp"
)

// Results aggregates what one analysis run produced
type Results struct {
	Combos     []*ComboResult   // static/nonlinear/spectrum: one entry per successful combination
	Failed     map[string]error // combinations that failed (remaining ones still complete)
	Modal      *ModalResult     // modal and response-spectrum analyses
	Gammas     []float64        // response-spectrum: modal participation factors
	Compliance *code.Report     // rule findings over the successful combinations
	Warnings   []string         // non-fatal advisories
}

// Solver implements one analysis type over an assembled domain. The run
// handle provides cancellation and progress checkpoints.
type Solver interface {
	Run(dom *Domain, run *Run) (res *Results, err error)
}

// solverAllocators holds all available solvers, keyed by analysis type
var solverAllocators = make(map[string]func() Solver)

// NewSolver allocates the solver for the given analysis type
func NewSolver(anaType string) (Solver, error) {
	alloc, ok := solverAllocators[anaType]
	if !ok {
		return nil, chk.Err("cannot find solver for analysis type %q", anaType)
	}
	return alloc(), nil
}

func init() {
	solverAllocators[inp.AnaStatic] = func() Solver { return new(LinearStatic) }
	solverAllocators[inp.AnaModal] = func() Solver { return new(Modal) }
	solverAllocators[inp.AnaSpectrum] = func() Solver { return new(Spectrum) }
	solverAllocators[inp.AnaNonlinear] = func() Solver { return new(Nonlinear) }
}

// LinearStatic factors the reduced stiffness once and solves every load
// combination against it, fanning combinations out over the worker pool
type LinearStatic struct{}

// Run implements Solver
func (o *LinearStatic) Run(dom *Domain, run *Run) (res *Results, err error) {
	if err = run.checkpoint(Progress{Phase: PhaseAssembly}); err != nil {
		return
	}
	if err = dom.EnsureAssembled(false); err != nil {
		return
	}
	lis, err := NewLinSolver(dom.Cfg.LinSol.Name, dom.Cfg.LinSol.Tol, dom.Cfg.LinSol.MaxIt)
	if err != nil {
		return
	}
	defer lis.Free()
	if err = lis.Init(dom.Kred); err != nil {
		return
	}
	return solveCombos(dom, run, func(combo string) (*ComboResult, error) {
		return dom.SolveLinear(lis, combo)
	})
}

// Nonlinear runs Newton-Raphson iterations per combination, each from the
// undeformed state (combinations are independent load levels, not increments)
type Nonlinear struct{}

// Run implements Solver
func (o *Nonlinear) Run(dom *Domain, run *Run) (res *Results, err error) {
	if err = run.checkpoint(Progress{Phase: PhaseAssembly}); err != nil {
		return
	}
	if err = dom.EnsureAssembled(false); err != nil {
		return
	}
	return solveCombos(dom, run, dom.SolveNonlinear)
}

// solveCombos distributes the model's combinations over a bounded worker
// pool. One failing combination is recorded and the rest keep going; the
// run only fails as a whole when every combination failed or it is canceled.
func solveCombos(dom *Domain, run *Run, solve func(combo string) (*ComboResult, error)) (res *Results, err error) {
	names := make([]string, len(dom.Model.Combos))
	order := make(map[string]int, len(dom.Model.Combos))
	for i, c := range dom.Model.Combos {
		names[i] = c.Name
		order[c.Name] = i
	}
	if len(names) == 0 {
		return nil, chk.Err("model has no load combinations to solve")
	}

	nw := dom.Cfg.Nworkers
	if nw > len(names) {
		nw = len(names)
	}
	jobs := make(chan string, len(names))
	for _, name := range names {
		jobs <- name
	}
	close(jobs)

	res = &Results{Failed: make(map[string]error)}
	var mu sync.Mutex
	var wg sync.WaitGroup
	done := 0
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for combo := range jobs {
				mu.Lock()
				d := done
				mu.Unlock()
				if run.checkpoint(Progress{Phase: PhaseSolve, Combo: combo, Done: d, Total: len(names)}) != nil {
					return
				}
				cr, cerr := solve(combo)
				mu.Lock()
				if cerr != nil {
					res.Failed[combo] = cerr
				} else {
					res.Combos = append(res.Combos, cr)
				}
				done++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if err = run.checkpoint(Progress{Phase: PhaseSolve, Done: done, Total: len(names)}); err != nil {
		return nil, err
	}

	// results follow the model's combination order regardless of worker
	// scheduling
	sort.Slice(res.Combos, func(a, b int) bool { return order[res.Combos[a].Combo] < order[res.Combos[b].Combo] })
	if len(res.Combos) == 0 {
		for _, ferr := range res.Failed {
			return nil, ferr
		}
	}
	return
}

// Modal extracts natural frequencies and mode shapes
type Modal struct{}

// Run implements Solver
func (o *Modal) Run(dom *Domain, run *Run) (res *Results, err error) {
	if err = run.checkpoint(Progress{Phase: PhaseAssembly}); err != nil {
		return
	}
	if err = dom.EnsureAssembled(true); err != nil {
		return
	}
	if err = run.checkpoint(Progress{Phase: PhaseSolve}); err != nil {
		return
	}
	mr, err := dom.SolveModal(dom.Cfg.Nmodes, dom.Cfg.EigMaxSweeps)
	if err != nil {
		return
	}
	return &Results{Modal: mr}, nil
}
