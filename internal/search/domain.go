// Package search implements the search core: bounds-consistency
// propagation over per-variable start domains, a branch-and-bound tree
// search, a worker-pool fan-out, and conflict refinement for infeasible
// models.
package search

import "github.com/faculty-sched/scheduled/internal/model"

// Domain is the set of starts still possible for one interval variable,
// represented as an explicit allowed-starts bitset rather than a single
// [lo,hi] bound: several propagators here (section sync, fixed
// placement, unavailability) punch holes rather than shrink from the
// edges, so a contiguous range cannot represent every domain this engine
// produces. Lo/Hi are kept as a cache so variable selection and
// midpoint-branching stay O(1).
type Domain struct {
	allowed []bool
	lo, hi  int // -1 if empty
	size    int
}

// NewDomain returns the domain [minStart, maxStart] clamped to [0, T-1].
func NewDomain(minStart, maxStart, total int) *Domain {
	if minStart < 0 {
		minStart = 0
	}
	if maxStart > total-1 {
		maxStart = total - 1
	}
	d := &Domain{allowed: make([]bool, total)}
	if minStart > maxStart {
		d.lo, d.hi = -1, -1
		return d
	}
	for s := minStart; s <= maxStart; s++ {
		d.allowed[s] = true
	}
	d.lo, d.hi = minStart, maxStart
	d.size = maxStart - minStart + 1
	return d
}

// Clone deep-copies the domain for a search-tree branch point.
func (d *Domain) Clone() *Domain {
	cp := &Domain{
		allowed: make([]bool, len(d.allowed)),
		lo:      d.lo,
		hi:      d.hi,
		size:    d.size,
	}
	copy(cp.allowed, d.allowed)
	return cp
}

// IsEmpty reports a domain wipeout.
func (d *Domain) IsEmpty() bool { return d.size == 0 }

// Size is the number of starts still allowed.
func (d *Domain) Size() int { return d.size }

// Lo/Hi are the current bounds; both -1 when empty.
func (d *Domain) Lo() int { return d.lo }
func (d *Domain) Hi() int { return d.hi }

// Singleton returns the sole remaining start and true, or (0, false).
func (d *Domain) Singleton() (int, bool) {
	if d.size == 1 {
		return d.lo, true
	}
	return 0, false
}

// Allows reports whether s is still in the domain.
func (d *Domain) Allows(s int) bool {
	if s < 0 || s >= len(d.allowed) {
		return false
	}
	return d.allowed[s]
}

// Remove excludes s from the domain, recomputing the bounds if s was a
// bound. Returns true if anything changed.
func (d *Domain) Remove(s int) bool {
	if !d.Allows(s) {
		return false
	}
	d.allowed[s] = false
	d.size--
	if d.size == 0 {
		d.lo, d.hi = -1, -1
		return true
	}
	if s == d.lo {
		for i := d.lo + 1; i <= d.hi; i++ {
			if d.allowed[i] {
				d.lo = i
				break
			}
		}
	}
	if s == d.hi {
		for i := d.hi - 1; i >= d.lo; i-- {
			if d.allowed[i] {
				d.hi = i
				break
			}
		}
	}
	return true
}

// RemoveRange excludes every start in [lo, hi] (inclusive). Returns true
// if anything changed.
func (d *Domain) RemoveRange(lo, hi int) bool {
	if lo < 0 {
		lo = 0
	}
	if hi > len(d.allowed)-1 {
		hi = len(d.allowed) - 1
	}
	changed := false
	for s := lo; s <= hi; s++ {
		if d.Remove(s) {
			changed = true
		}
	}
	return changed
}

// Fix restricts the domain to exactly {s}. Returns false (wipeout) if s
// was not already allowed.
func (d *Domain) Fix(s int) bool {
	if !d.Allows(s) {
		d.allowed = make([]bool, len(d.allowed))
		d.lo, d.hi, d.size = -1, -1, 0
		return false
	}
	for i := range d.allowed {
		if i != s {
			d.allowed[i] = false
		}
	}
	d.allowed[s] = true
	d.lo, d.hi, d.size = s, s, 1
	return true
}

// Domains is the per-variable store the engine mutates during search,
// indexed by model.Handle.
type Domains []*Domain

// Snapshot returns a deep copy for backtracking.
func (ds Domains) Snapshot() Domains {
	cp := make(Domains, len(ds))
	for i, d := range ds {
		cp[i] = d.Clone()
	}
	return cp
}

func newDomains(m *model.Model) Domains {
	total := m.Grid.TotalSlots()
	ds := make(Domains, m.Arena.Len())
	for _, h := range m.Arena.All() {
		v := m.Arena.Get(h)
		ds[h] = NewDomain(v.MinStart, v.MaxStart, total)
	}
	return ds
}
