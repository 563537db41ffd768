package search

import "fmt"

// InfeasibleModel describes a search tree exhausted (or a budget
// expired) without ever reaching a feasible leaf. Conflicts holds the
// minimal unsatisfiable core found by conflict refinement. Solve and Run
// do not return it: they report that case as a Result with Feasible
// false; solution.FromError classifies it when a caller passes one.
type InfeasibleModel struct {
	Conflicts []string
}

func (e *InfeasibleModel) Error() string {
	return fmt.Sprintf("search: infeasible model, conflict set: %v", e.Conflicts)
}

// BudgetExceeded describes a wall-clock budget that expired before a
// feasible leaf was ever found (as opposed to BudgetExceededWithIncumbent,
// represented in internal/solution as the truncated-but-ok case). Solve
// and Run do not return it: they report that case as a Result with
// Feasible false and Truncated true.
type BudgetExceeded struct{}

func (e *BudgetExceeded) Error() string {
	return "search: time budget exceeded with no feasible leaf found"
}

// InternalInvariantViolation marks a defect in the engine itself (a
// negative domain size and similar impossibilities). It is fatal: never
// recovered. A leaf that passes propagation but fails CheckAssignment is
// not such a defect; the search discards that leaf and goes on.
type InternalInvariantViolation struct {
	Detail string
}

func (e *InternalInvariantViolation) Error() string {
	return fmt.Sprintf("search: internal invariant violated: %s", e.Detail)
}
