package solution

import (
	"errors"

	"github.com/faculty-sched/scheduled/internal/dataset"
	"github.com/faculty-sched/scheduled/internal/search"
)

// Envelope is the discriminated union callers receive:
// {status:"ok", solution:...} | {status:"infeasible", conflicts:[...]} |
// {status:"error", kind:..., detail:...}. Status is the discriminator;
// the other fields are omitted when not relevant to it.
type Envelope struct {
	Status   string    `json:"status"`
	Solution *Solution `json:"solution,omitempty"`
	// Truncated distinguishes a best-so-far incumbent (budget expired
	// before the search tree was exhausted) from a proven optimum.
	Truncated bool     `json:"truncated,omitempty"`
	Conflicts []string `json:"conflicts,omitempty"`
	Kind      string   `json:"kind,omitempty"`
	Detail    string   `json:"detail,omitempty"`
}

// OK wraps a feasible solution; truncated marks it as a best incumbent
// rather than a proven optimum.
func OK(sol *Solution, truncated bool) Envelope {
	return Envelope{Status: "ok", Solution: sol, Truncated: truncated}
}

// Infeasible wraps a minimal unsatisfiable core, as produced by
// search.ConflictRefine.
func Infeasible(conflicts []string) Envelope {
	return Envelope{Status: "infeasible", Conflicts: conflicts}
}

// FromError classifies err against the typed error hierarchy and builds
// the matching envelope. Unrecognised errors fall back to kind
// "internal".
func FromError(err error) Envelope {
	var infeasible *search.InfeasibleModel
	if errors.As(err, &infeasible) {
		return Infeasible(infeasible.Conflicts)
	}

	var budget *search.BudgetExceeded
	if errors.As(err, &budget) {
		return Envelope{Status: "error", Kind: "budget_exceeded", Detail: budget.Error()}
	}

	var invariant *search.InternalInvariantViolation
	if errors.As(err, &invariant) {
		return Envelope{Status: "error", Kind: "internal_invariant", Detail: invariant.Error()}
	}

	var input *dataset.InputError
	if errors.As(err, &input) {
		return Envelope{Status: "error", Kind: "input", Detail: input.Error()}
	}

	return Envelope{Status: "error", Kind: "internal", Detail: err.Error()}
}
