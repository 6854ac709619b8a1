// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sync"
	"time"

	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"

	"github.com/strucfem/strucfem/inp"
)

// run states
const (
	StatusRunning  = "running"
	StatusDone     = "done"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)

// progress phases
const (
	PhaseAssembly   = "assembly"
	PhaseSolve      = "solve"
	PhaseCompliance = "compliance"
)

// Progress is one orchestrator checkpoint. Done/Total count combinations in
// static and nonlinear analyses; modal analyses report phases only.
type Progress struct {
	Phase string
	Combo string
	Done  int
	Total int
}

// Run is the handle of one analysis in flight. The model stays locked for its
// whole duration; results become available once Wait returns.
type Run struct {
	Id string

	model      *inp.Model
	cfg        inp.Config
	onProgress func(Progress)

	cancel     chan struct{}
	cancelOnce sync.Once
	done       chan struct{}

	mu     sync.Mutex
	status string
	res    *Results
	err    error
}

// runs tracks analyses in flight, keyed by run id
var (
	runsMu sync.Mutex
	runs   = make(map[string]*Run)
)

// GetRun returns the run with the given id, or nil. A run stays registered
// until its result is consumed through Wait or it is canceled.
func GetRun(id string) *Run {
	runsMu.Lock()
	defer runsMu.Unlock()
	return runs[id]
}

// deregister removes a run handle from the registry
func deregister(id string) {
	runsMu.Lock()
	delete(runs, id)
	runsMu.Unlock()
}

// Start validates the model and configuration, locks the model and launches
// the analysis in the background. onProgress (may be nil) is called at
// checkpoints from solver goroutines; it must be quick and must not call back
// into the run.
func Start(m *inp.Model, cfg inp.Config, onProgress func(Progress)) (r *Run, err error) {
	if err = cfg.Check(); err != nil {
		return
	}
	if err = m.Validate(); err != nil {
		return
	}
	solver, err := NewSolver(cfg.Type)
	if err != nil {
		return
	}
	r = &Run{
		Id:         uuid.NewString(),
		model:      m,
		cfg:        cfg,
		onProgress: onProgress,
		cancel:     make(chan struct{}),
		done:       make(chan struct{}),
		status:     StatusRunning,
	}
	if err = m.Lock(r.Id); err != nil {
		return nil, err
	}
	runsMu.Lock()
	runs[r.Id] = r
	runsMu.Unlock()
	go r.run(solver)
	return
}

// Cancel requests cooperative cancellation: the run stops at its next
// checkpoint. Safe to call more than once and after completion.
func (r *Run) Cancel() {
	r.cancelOnce.Do(func() {
		close(r.cancel)
		deregister(r.Id)
	})
}

// Wait blocks until the run finished (or was canceled) and returns its
// outcome. Consuming the result tears the handle down: GetRun no longer
// finds it afterwards.
func (r *Run) Wait() (*Results, error) {
	<-r.done
	deregister(r.Id)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.res, r.err
}

// Status returns the current run state
func (r *Run) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// run executes the analysis and finalizes the handle
func (r *Run) run(solver Solver) {
	defer func() {
		r.model.Unlock(r.Id)
		close(r.done)
	}()

	// the timeout is advisory: it triggers the same cooperative cancellation
	// a caller would, so workers stop at the next checkpoint
	if r.cfg.Timeout > 0 {
		t := time.AfterFunc(time.Duration(r.cfg.Timeout), r.Cancel)
		defer t.Stop()
	}

	start := time.Now()
	if r.cfg.Verbose {
		io.Pf("analysis %s started: type=%s\n", r.Id, r.cfg.Type)
	}

	var res *Results
	dom, err := NewDomain(r.model, r.cfg)
	if err == nil {
		res, err = solver.Run(dom, r)
	}

	// compliance always runs on whatever combinations did succeed
	if err == nil && res != nil {
		if cerr := r.checkpoint(Progress{Phase: PhaseCompliance}); cerr != nil {
			err = cerr
		} else {
			dom.evaluateCompliance(res)
		}
	}

	r.mu.Lock()
	r.res, r.err = res, err
	switch {
	case err == nil:
		r.status = StatusDone
	case isCanceled(err):
		r.status = StatusCanceled
	default:
		r.status = StatusFailed
	}
	r.mu.Unlock()

	if r.cfg.Verbose {
		io.Pf("analysis %s finished: status=%s elapsed=%v\n", r.Id, r.Status(), time.Since(start))
	}
}

// checkpoint is called by solvers between units of work: it reports progress
// and polls for cancellation. Long numeric kernels never check; only the
// boundaries between combinations and phases do.
func (r *Run) checkpoint(p Progress) error {
	select {
	case <-r.cancel:
		return &CanceledError{RunId: r.Id}
	default:
	}
	if r.onProgress != nil {
		r.onProgress(p)
	}
	return nil
}

// isCanceled reports whether err is a cancellation
func isCanceled(err error) bool {
	_, ok := err.(*CanceledError)
	return ok
}
