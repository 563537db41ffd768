package search

import (
	"runtime"
	"sync"
	"time"

	"github.com/faculty-sched/scheduled/internal/constraints"
	"github.com/faculty-sched/scheduled/internal/model"
	"github.com/faculty-sched/scheduled/internal/objective"
)

// RunOptions configures a pooled run.
type RunOptions struct {
	Workers int // 0 means runtime.NumCPU()
	// Seed selects each worker's branch-exploration order (see
	// ReverseBranch): the same Seed and Workers always assign the same
	// order to the same worker index, so reruns are reproducible.
	Seed     int64
	Deadline time.Time
	Stop     *StopToken
	Publish  PublishFunc // invoked with every improving *global* incumbent
}

// candidate is one worker's reported leaf, tagged with the worker index
// the determinism tie-break uses.
type candidate struct {
	worker int
	out    Outcome
}

// Run fans out RunOptions.Workers goroutines, each running an
// independent search over its own domain snapshot with a Seed-derived
// branch order, merging results through a single coordinator goroutine
// that owns the incumbent behind a mutex, so writes to best are
// serialised.
func Run(m *model.Model, set *constraints.Set, obj *objective.Objective, opts RunOptions) Result {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	engine, ds0, ok := NewEngine(m, set)
	if !ok {
		return Result{Feasible: false, Truncated: false}
	}
	if !engine.Propagate(ds0) {
		return Result{Feasible: false, Truncated: false}
	}

	results := make(chan candidate, workers*2)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var best *Result
	bestWorker := -1

	// One goroutine gathers results and owns the incumbent. Ties on
	// objective value are broken by worker index, not arrival order, so
	// the final incumbent is independent of goroutine scheduling.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for c := range results {
			mu.Lock()
			improves := best == nil || c.out.Objective < best.Objective ||
				(c.out.Objective == best.Objective && c.worker < bestWorker)
			if improves {
				best = &Result{Feasible: true, Objective: c.out.Objective, Arena: c.out.Arena}
				bestWorker = c.worker
				if opts.Publish != nil {
					opts.Publish(c.out)
				}
			}
			mu.Unlock()
		}
	}()

	workerTruncated := make([]bool, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerIdx int) {
			defer wg.Done()
			localDS := ds0.Snapshot()
			r := engine.Solve(localDS, obj, SolveOptions{
				Deadline:      opts.Deadline,
				Stop:          opts.Stop,
				ReverseBranch: (opts.Seed+int64(workerIdx))%2 == 1,
				Publish: func(o Outcome) {
					results <- candidate{worker: workerIdx, out: o}
				},
			})
			workerTruncated[workerIdx] = r.Truncated
		}(w)
	}

	wg.Wait()
	close(results)
	<-done

	// The run is truncated as soon as any worker stopped before
	// exhausting its tree: the optimum is only proven when every worker
	// ran to exhaustion.
	truncated := false
	for _, t := range workerTruncated {
		if t {
			truncated = true
		}
	}

	if best == nil {
		return Result{Feasible: false, Truncated: truncated}
	}
	best.Truncated = truncated
	return *best
}
