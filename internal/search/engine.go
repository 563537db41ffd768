package search

import (
	"github.com/faculty-sched/scheduled/internal/constraints"
	"github.com/faculty-sched/scheduled/internal/model"
)

// Engine holds everything one search needs that does not change across
// workers: the read-only model/grid and the compiled propagator list, a
// constraint graph the workers share without ever writing to.
type Engine struct {
	Model *model.Model
	Set   *constraints.Set
	props []propagator
	c     ctx
}

// NewEngine compiles the propagator list and runs every propagator's
// Init once. Returns ok=false if the static restrictions alone already
// wipe out a domain (e.g. a fixed placement that no segment in a
// variable's week bounds can satisfy).
func NewEngine(m *model.Model, set *constraints.Set) (*Engine, Domains, bool) {
	e := &Engine{
		Model: m,
		Set:   set,
		props: compilePropagators(set, m),
		c:     ctx{grid: m.Grid, arena: m.Arena},
	}
	ds := newDomains(m)
	for _, p := range e.props {
		if !p.Init(e.c, ds) {
			return e, ds, false
		}
	}
	ok := e.Propagate(ds)
	return e, ds, ok
}

// Propagate runs every propagator to a fixpoint: repeat until a full
// pass makes no change, or a propagator reports a wipeout.
func (e *Engine) Propagate(ds Domains) bool {
	for {
		changedAny := false
		for _, p := range e.props {
			changed, ok := p.Propagate(e.c, ds)
			if !ok {
				return false
			}
			if changed {
				changedAny = true
			}
		}
		if !changedAny {
			return true
		}
	}
}

// FirstWipeout runs Propagate but returns the ID of the first propagator
// to report a wipeout, for conflict-set attribution. It does not mutate
// ds (it is given a scratch snapshot by the caller).
func (e *Engine) FirstWipeout(ds Domains) string {
	for {
		changedAny := false
		for _, p := range e.props {
			changed, ok := p.Propagate(e.c, ds)
			if !ok {
				return p.ID()
			}
			if changed {
				changedAny = true
			}
		}
		if !changedAny {
			return ""
		}
	}
}

// CheckAssignment authoritatively validates a complete assignment
// (every variable's Start set in m.Arena) against every compiled
// constraint, independent of the propagators' approximations. This is
// the ground truth a leaf must pass before becoming an incumbent. It
// takes m explicitly (rather than reading e.Model) so concurrent
// workers sharing one Engine can each check their own leaf arena
// without racing on shared state.
func (e *Engine) CheckAssignment(m *model.Model) bool {
	for _, c := range e.Set.NoOverlaps {
		if !checkNoOverlap(m, c) {
			return false
		}
	}
	for _, c := range e.Set.LongIntegrities {
		if !checkLongIntegrity(m, c) {
			return false
		}
	}
	for _, c := range e.Set.Unavailable {
		if !checkUnavailability(m, c) {
			return false
		}
	}
	for _, c := range e.Set.SegmentQuotas {
		if !checkSegmentQuota(m, c) {
			return false
		}
	}
	for _, c := range e.Set.SectionSyncs {
		if !checkSectionSync(m, c) {
			return false
		}
	}
	for _, c := range e.Set.Precedences {
		if !checkPrecedence(m, c) {
			return false
		}
	}
	for _, c := range e.Set.Fixed {
		if !checkFixed(m, c) {
			return false
		}
	}
	for _, c := range e.Set.Simultaneous {
		if !checkSimultaneity(m, c) {
			return false
		}
	}
	return true
}

func checkNoOverlap(m *model.Model, c constraints.NoOverlap) bool {
	for i := range c.Vars {
		vi := m.Arena.Get(c.Vars[i])
		for j := i + 1; j < len(c.Vars); j++ {
			vj := m.Arena.Get(c.Vars[j])
			if vi.Start < vj.End() && vj.Start < vi.End() {
				return false
			}
		}
	}
	return true
}

func checkLongIntegrity(m *model.Model, c constraints.LongIntegrity) bool {
	v := m.Arena.Get(c.Var)
	return m.Grid.DayOf(v.Start) == m.Grid.DayOf(v.End()-1)
}

func checkUnavailability(m *model.Model, c constraints.Unavailability) bool {
	for _, h := range m.GroupTimeline[c.Group] {
		v := m.Arena.Get(h)
		for _, r := range c.Ranges {
			if r.Overlaps(v.Start, v.Length) {
				return false
			}
		}
	}
	return true
}

func checkSegmentQuota(m *model.Model, c constraints.SegmentQuota) bool {
	perSegment := make(map[int]int)
	for _, h := range c.Vars {
		v := m.Arena.Get(h)
		perSegment[m.Grid.Decode(v.Start).Segment]++
	}
	for _, n := range perSegment {
		if n > c.MaxPerSegment {
			return false
		}
	}
	return true
}

func checkSectionSync(m *model.Model, c constraints.SectionSync) bool {
	seg := -1
	for _, h := range c.Vars {
		v := m.Arena.Get(h)
		s := m.Grid.Decode(v.Start).Segment
		if seg == -1 {
			seg = s
		} else if seg != s {
			return false
		}
	}
	return true
}

func checkPrecedence(m *model.Model, c constraints.Precedence) bool {
	// Every lecture sharing a follower's segment must end before the
	// follower starts; a follower in a segment with no lecture at all is
	// vacuously fine.
	for _, fh := range c.FollowerVars {
		fv := m.Arena.Get(fh)
		fSeg := m.Grid.Decode(fv.Start).Segment
		for _, lh := range c.LectureVars {
			lv := m.Arena.Get(lh)
			if m.Grid.Decode(lv.Start).Segment != fSeg {
				continue
			}
			if lv.End() > fv.Start {
				return false
			}
		}
	}
	return true
}

func checkFixed(m *model.Model, c constraints.FixedPlacement) bool {
	v := m.Arena.Get(c.Var)
	coord := m.Grid.Decode(v.Start)
	return coord.Day == c.Day && coord.Slot == c.Slot
}

func checkSimultaneity(m *model.Model, c constraints.Simultaneity) bool {
	for i := range c.VarsA {
		a := m.Arena.Get(c.VarsA[i])
		b := m.Arena.Get(c.VarsB[i])
		if a.Start != b.Start {
			return false
		}
	}
	return true
}
