// Package objective compiles the quality objective: a weighted sum of
// indicator/penalty terms over interval variables' decoded (day, slot)
// coordinates, evaluated once the search core has assigned every
// variable's Start.
package objective

import "github.com/faculty-sched/scheduled/internal/model"

// Term is one linear penalty term in the objective sum.
type Term interface {
	// Evaluate reads the current Start of every variable it references
	// from m.Arena and returns its weighted penalty contribution.
	Evaluate(m *model.Model) int
	// Name identifies the term for diagnostics (e.g. incumbent logging).
	Name() string
}

// Objective is the compiled weighted sum to minimise.
type Objective struct {
	Terms []Term
}

// Evaluate sums every term's contribution. Every referenced variable
// must already have a non-negative Start; callers only evaluate at a
// search leaf.
func (o *Objective) Evaluate(m *model.Model) int {
	total := 0
	for _, t := range o.Terms {
		total += t.Evaluate(m)
	}
	return total
}

// Breakdown returns the per-term contribution keyed by term name (terms
// sharing a name are summed), for diagnostics and tests.
func (o *Objective) Breakdown(m *model.Model) map[string]int {
	out := make(map[string]int, len(o.Terms))
	for _, t := range o.Terms {
		out[t.Name()] += t.Evaluate(m)
	}
	return out
}
