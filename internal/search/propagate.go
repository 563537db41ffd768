package search

import (
	"strconv"

	"github.com/faculty-sched/scheduled/internal/constraints"
	"github.com/faculty-sched/scheduled/internal/model"
)

// ctx is the read-only context every propagator needs: the time grid for
// decoding starts, and the arena for looking up a variable's fixed
// length. Both are immutable for the lifetime of a search.
type ctx struct {
	grid  model.Grid
	arena *model.Arena
}

func (c ctx) length(h model.Handle) int { return c.arena.Get(h).Length }

// propagator is one compiled constraint's bounds-consistency rule.
// Init runs once,
// before search, to bake static restrictions into the initial domains
// (long-activity integrity, unavailability, fixed placement). Propagate
// runs to fixpoint after every domain change during search; it returns
// ok=false on a domain wipeout, which conflict refinement uses to build
// the minimal conflict set.
type propagator interface {
	ID() string
	Init(c ctx, ds Domains) bool
	Propagate(c ctx, ds Domains) (changed, ok bool)
}

// compilePropagators turns a *constraints.Set into the propagator list
// the engine runs. m resolves the group references unavailability specs
// carry (constraints.Unavailability only names the group; the variables
// demanding it live on m.GroupTimeline).
func compilePropagators(set *constraints.Set, m *model.Model) []propagator {
	var props []propagator
	for i := range set.LongIntegrities {
		props = append(props, &longIntegrityProp{id: idFor("integrity", i), c: set.LongIntegrities[i]})
	}
	for i := range set.Unavailable {
		u := set.Unavailable[i]
		props = append(props, &unavailabilityProp{id: idFor("unavailability", i), c: u, vars: m.GroupTimeline[u.Group]})
	}
	for i := range set.Fixed {
		props = append(props, &fixedProp{id: idFor("fixed", i), c: set.Fixed[i]})
	}
	for i := range set.NoOverlaps {
		props = append(props, &noOverlapProp{id: idFor("overlap", i), c: set.NoOverlaps[i]})
	}
	for i := range set.SegmentQuotas {
		props = append(props, &segmentQuotaProp{id: idFor("quota", i), c: set.SegmentQuotas[i]})
	}
	for i := range set.SectionSyncs {
		props = append(props, &sectionSyncProp{id: idFor("sync", i), c: set.SectionSyncs[i]})
	}
	for i := range set.Precedences {
		props = append(props, &precedenceProp{id: idFor("precedence", i), c: set.Precedences[i]})
	}
	for i := range set.Simultaneous {
		props = append(props, &simultaneityProp{id: idFor("simultaneity", i), c: set.Simultaneous[i]})
	}
	return props
}

func idFor(kind string, i int) string { return kind + "#" + strconv.Itoa(i) }

// --- long-activity integrity: static, baked in by Init only ---

type longIntegrityProp struct {
	id string
	c  constraints.LongIntegrity
}

func (p *longIntegrityProp) ID() string { return p.id }

func (p *longIntegrityProp) Init(c ctx, ds Domains) bool {
	d := ds[p.c.Var]
	length := c.length(p.c.Var)
	for s := d.Lo(); s <= d.Hi(); s++ {
		if d.Allows(s) && c.grid.DayOf(s) != c.grid.DayOf(s+length-1) {
			d.Remove(s)
		}
	}
	return !d.IsEmpty()
}

func (p *longIntegrityProp) Propagate(c ctx, ds Domains) (bool, bool) {
	return false, !ds[p.c.Var].IsEmpty()
}

// --- cursus unavailability: static, baked in by Init only ---

type unavailabilityProp struct {
	id   string
	c    constraints.Unavailability
	vars []model.Handle
}

func (p *unavailabilityProp) ID() string { return p.id }

func (p *unavailabilityProp) Init(c ctx, ds Domains) bool {
	for _, h := range p.vars {
		d := ds[h]
		length := c.length(h)
		for _, r := range p.c.Ranges {
			// A start overlaps the forbidden range [r.Lo, r.Hi] when
			// start < r.Hi+1 && start+length > r.Lo (constraints.SlotRange.Overlaps).
			lo, hi := r.Lo-length+1, r.Hi
			d.RemoveRange(lo, hi)
		}
		if d.IsEmpty() {
			return false
		}
	}
	return true
}

func (p *unavailabilityProp) Propagate(c ctx, ds Domains) (bool, bool) {
	for _, h := range p.vars {
		if ds[h].IsEmpty() {
			return false, false
		}
	}
	return false, true
}

// --- explicit fixed placement: static, baked in by Init only ---

type fixedProp struct {
	id string
	c  constraints.FixedPlacement
}

func (p *fixedProp) ID() string { return p.id }

func (p *fixedProp) Init(c ctx, ds Domains) bool {
	d := ds[p.c.Var]
	for s := d.Lo(); s <= d.Hi(); s++ {
		if !d.Allows(s) {
			continue
		}
		coord := c.grid.Decode(s)
		if coord.Day != p.c.Day || coord.Slot != p.c.Slot {
			d.Remove(s)
		}
	}
	return !d.IsEmpty()
}

func (p *fixedProp) Propagate(c ctx, ds Domains) (bool, bool) {
	return false, !ds[p.c.Var].IsEmpty()
}

// --- no-overlap: forward-checking bounds consistency ---

type noOverlapProp struct {
	id string
	c  constraints.NoOverlap
}

func (p *noOverlapProp) ID() string { return p.id }

func (p *noOverlapProp) Init(c ctx, ds Domains) bool { return true }

func (p *noOverlapProp) Propagate(c ctx, ds Domains) (changed, ok bool) {
	vars := p.c.Vars
	for i := range vars {
		di := ds[vars[i]]
		si, fixedI := di.Singleton()
		if !fixedI {
			continue
		}
		lenI := c.length(vars[i])
		for j := range vars {
			if j == i {
				continue
			}
			dj := ds[vars[j]]
			if dj.IsEmpty() {
				return changed, false
			}
			lenJ := c.length(vars[j])
			lo, hi := si-lenJ+1, si+lenI-1
			if dj.RemoveRange(lo, hi) {
				changed = true
			}
			if dj.IsEmpty() {
				return changed, false
			}
		}
	}
	return changed, true
}

// --- segment quota: forward-checking on a per-segment counter ---

type segmentQuotaProp struct {
	id string
	c  constraints.SegmentQuota
}

func (p *segmentQuotaProp) ID() string { return p.id }

func (p *segmentQuotaProp) Init(c ctx, ds Domains) bool { return true }

func (p *segmentQuotaProp) Propagate(c ctx, ds Domains) (changed, ok bool) {
	perSegment := make(map[int]int)
	var unassigned []model.Handle
	for _, h := range p.c.Vars {
		d := ds[h]
		if s, fixed := d.Singleton(); fixed {
			perSegment[c.grid.Decode(s).Segment]++
		} else {
			unassigned = append(unassigned, h)
		}
	}
	for _, h := range unassigned {
		d := ds[h]
		for s := d.Lo(); s <= d.Hi(); s++ {
			if !d.Allows(s) {
				continue
			}
			seg := c.grid.Decode(s).Segment
			if perSegment[seg] >= p.c.MaxPerSegment {
				if d.Remove(s) {
					changed = true
				}
			}
		}
		if d.IsEmpty() {
			return changed, false
		}
	}
	return changed, true
}

// --- section sync: restrict every section's lesson to a shared segment ---

type sectionSyncProp struct {
	id string
	c  constraints.SectionSync
}

func (p *sectionSyncProp) ID() string { return p.id }

func (p *sectionSyncProp) Init(c ctx, ds Domains) bool { return true }

func (p *sectionSyncProp) Propagate(c ctx, ds Domains) (changed, ok bool) {
	allowedSegments := make(map[int]bool)
	first := true
	for _, h := range p.c.Vars {
		d := ds[h]
		segs := make(map[int]bool)
		for s := d.Lo(); s <= d.Hi(); s++ {
			if d.Allows(s) {
				segs[c.grid.Decode(s).Segment] = true
			}
		}
		if first {
			allowedSegments = segs
			first = false
			continue
		}
		for seg := range allowedSegments {
			if !segs[seg] {
				delete(allowedSegments, seg)
			}
		}
	}
	if len(allowedSegments) == 0 {
		return changed, false
	}
	for _, h := range p.c.Vars {
		d := ds[h]
		for s := d.Lo(); s <= d.Hi(); s++ {
			if !d.Allows(s) {
				continue
			}
			if !allowedSegments[c.grid.Decode(s).Segment] {
				if d.Remove(s) {
					changed = true
				}
			}
		}
		if d.IsEmpty() {
			return changed, false
		}
	}
	return changed, true
}

// --- precedence: lecture ends before followers start, within a shared segment ---

type precedenceProp struct {
	id string
	c  constraints.Precedence
}

func (p *precedenceProp) ID() string { return p.id }

func (p *precedenceProp) Init(c ctx, ds Domains) bool { return true }

// Propagate prunes only from fixed counterparts: a lecture whose start
// is still open might land in a different segment entirely, in which
// case any follower start in this one is vacuously fine, so unfixed
// variables never justify a removal.
func (p *precedenceProp) Propagate(c ctx, ds Domains) (changed, ok bool) {
	for _, lec := range p.c.LectureVars {
		dl := ds[lec]
		l, fixed := dl.Singleton()
		if !fixed {
			continue
		}
		seg := c.grid.Decode(l).Segment
		end := l + c.length(lec)
		for _, fw := range p.c.FollowerVars {
			df := ds[fw]
			for s := df.Lo(); s <= df.Hi() && s < end; s++ {
				if df.Allows(s) && c.grid.Decode(s).Segment == seg {
					if df.Remove(s) {
						changed = true
					}
				}
			}
			if df.IsEmpty() {
				return changed, false
			}
		}
	}
	for _, fw := range p.c.FollowerVars {
		df := ds[fw]
		s, fixed := df.Singleton()
		if !fixed {
			continue
		}
		seg := c.grid.Decode(s).Segment
		for _, lec := range p.c.LectureVars {
			dl := ds[lec]
			lenL := c.length(lec)
			for l := dl.Lo(); l <= dl.Hi(); l++ {
				if !dl.Allows(l) || c.grid.Decode(l).Segment != seg {
					continue
				}
				if l+lenL > s {
					if dl.Remove(l) {
						changed = true
					}
				}
			}
			if dl.IsEmpty() {
				return changed, false
			}
		}
	}
	return changed, true
}

// --- simultaneity: two variable lists share a start, pairwise ---

type simultaneityProp struct {
	id string
	c  constraints.Simultaneity
}

func (p *simultaneityProp) ID() string { return p.id }

func (p *simultaneityProp) Init(c ctx, ds Domains) bool { return true }

func (p *simultaneityProp) Propagate(c ctx, ds Domains) (changed, ok bool) {
	for i := range p.c.VarsA {
		da, db := ds[p.c.VarsA[i]], ds[p.c.VarsB[i]]
		if da.IsEmpty() || db.IsEmpty() {
			return changed, false
		}
		if a, fixed := da.Singleton(); fixed {
			if !db.Allows(a) {
				return changed, false
			}
			if db.Size() > 1 {
				db.Fix(a)
				changed = true
			}
		} else if b, fixed := db.Singleton(); fixed {
			if !da.Allows(b) {
				return changed, false
			}
			if da.Size() > 1 {
				da.Fix(b)
				changed = true
			}
		}
	}
	return changed, true
}
