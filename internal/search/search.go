package search

import (
	"sync/atomic"
	"time"

	"github.com/faculty-sched/scheduled/internal/model"
	"github.com/faculty-sched/scheduled/internal/objective"
)

// StopToken lets a caller cancel a running search; the engine checks it
// between search nodes.
type StopToken struct {
	stopped int32
}

// NewStopToken returns a token in the not-stopped state.
func NewStopToken() *StopToken { return &StopToken{} }

// Stop signals cancellation. Safe to call from any goroutine, any
// number of times.
func (s *StopToken) Stop() { atomic.StoreInt32(&s.stopped, 1) }

// Stopped reports whether Stop has been called.
func (s *StopToken) Stopped() bool { return atomic.LoadInt32(&s.stopped) != 0 }

// Outcome is one leaf the search core reached and validated: either a
// feasible, scored assignment, or nothing (used internally; see Result
// for what Solve ultimately returns).
type Outcome struct {
	Objective int
	Arena     *model.Arena
}

// PublishFunc receives every improving incumbent as the search finds it.
// It is invoked from the search goroutine and must not block.
type PublishFunc func(Outcome)

// SolveOptions configures one Engine.Solve call.
type SolveOptions struct {
	Deadline time.Time
	Stop     *StopToken
	Publish  PublishFunc

	// ReverseBranch explores the upper half of a split domain before the
	// lower half. The search is otherwise fully deterministic; this is
	// the one knob the worker pool uses to diversify workers exploring
	// the same tree without sacrificing reproducibility, since each
	// worker's own traversal order is still fixed by its index.
	ReverseBranch bool
}

// Result is what Solve returns once it stops (deadline, exhaustion, or
// cancellation).
type Result struct {
	Feasible  bool
	Truncated bool // true if the budget expired (or was cancelled) before the tree was exhausted
	Objective int
	Arena     *model.Arena // nil if Feasible is false
}

type searchRun struct {
	engine    *Engine
	obj       *objective.Objective
	opts      SolveOptions
	best      int
	bestSet   bool
	bestOut   Outcome
	exhausted bool
}

// Solve runs chronological-backtracking branch-and-bound to exhaustion
// or budget expiry, whichever comes first. ds is
// left unchanged: Solve snapshots it before every branch. On a feasible run it returns the best incumbent found; if
// the tree was exhausted without ever reaching a feasible leaf, Result
// is infeasible and the caller should run ConflictRefine.
func (e *Engine) Solve(ds Domains, obj *objective.Objective, opts SolveOptions) Result {
	run := &searchRun{engine: e, obj: obj, opts: opts, best: 0}
	run.exhausted = true
	run.step(ds)

	if !run.bestSet {
		return Result{Feasible: false, Truncated: !run.exhausted}
	}
	return Result{
		Feasible:  true,
		Truncated: !run.exhausted,
		Objective: run.bestOut.Objective,
		Arena:     run.bestOut.Arena,
	}
}

func (r *searchRun) budgetOK() bool {
	if r.opts.Stop != nil && r.opts.Stop.Stopped() {
		return false
	}
	if !r.opts.Deadline.IsZero() && !time.Now().Before(r.opts.Deadline) {
		return false
	}
	return true
}

func (r *searchRun) step(ds Domains) {
	if !r.budgetOK() {
		r.exhausted = false
		return
	}

	h, ok := selectVariable(r.engine, ds)
	if !ok {
		r.leaf(ds)
		return
	}

	d := ds[h]
	lo, hi := d.Lo(), d.Hi()
	mid := lo + (hi-lo)/2

	first := func() {
		lower := ds.Snapshot()
		lower[h].RemoveRange(mid+1, hi)
		if r.engine.Propagate(lower) {
			r.step(lower)
		}
	}
	second := func() {
		upper := ds.Snapshot()
		upper[h].RemoveRange(lo, mid)
		if r.engine.Propagate(upper) {
			r.step(upper)
		}
	}

	if r.opts.ReverseBranch {
		second, first = first, second
	}

	first()
	if !r.budgetOK() {
		r.exhausted = false
		return
	}
	second()
}

func (r *searchRun) leaf(ds Domains) {
	arena := materialize(r.engine.Model, ds)
	leaf := withArena(r.engine.Model, arena)
	if !r.engine.CheckAssignment(leaf) {
		return
	}
	value := r.obj.Evaluate(leaf)
	if r.bestSet && value >= r.best {
		return
	}
	r.bestSet = true
	r.best = value
	r.bestOut = Outcome{Objective: value, Arena: arena}
	if r.opts.Publish != nil {
		r.opts.Publish(r.bestOut)
	}
}

// selectVariable picks the next variable to branch on: smallest
// remaining domain, ties broken by earliest lower bound, then
// lexicographic name. Returns ok=false once every domain is a singleton
// (a leaf).
func selectVariable(e *Engine, ds Domains) (model.Handle, bool) {
	best := -1
	for _, h := range e.Model.Arena.All() {
		d := ds[h]
		if d.Size() <= 1 {
			continue
		}
		if best == -1 || better(e, ds, h, model.Handle(best)) {
			best = int(h)
		}
	}
	if best == -1 {
		return 0, false
	}
	return model.Handle(best), true
}

func better(e *Engine, ds Domains, a, b model.Handle) bool {
	da, db := ds[a], ds[b]
	if da.Size() != db.Size() {
		return da.Size() < db.Size()
	}
	if da.Lo() != db.Lo() {
		return da.Lo() < db.Lo()
	}
	return e.Model.Arena.Get(a).Name < e.Model.Arena.Get(b).Name
}

// materialize writes every singleton domain's value into a fresh arena
// clone, producing the concrete assignment a leaf represents.
func materialize(m *model.Model, ds Domains) *model.Arena {
	arena := m.Arena.Clone()
	for _, h := range m.Arena.All() {
		s, _ := ds[h].Singleton()
		arena.Get(h).Start = s
	}
	return arena
}

func withArena(m *model.Model, arena *model.Arena) *model.Model {
	cp := *m
	cp.Arena = arena
	return &cp
}
