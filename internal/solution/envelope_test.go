package solution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faculty-sched/scheduled/internal/dataset"
	"github.com/faculty-sched/scheduled/internal/search"
)

func TestFromErrorClassifiesInfeasibleModel(t *testing.T) {
	env := FromError(&search.InfeasibleModel{Conflicts: []string{"overlap#0"}})
	assert.Equal(t, "infeasible", env.Status)
	assert.Equal(t, []string{"overlap#0"}, env.Conflicts)
}

func TestFromErrorClassifiesBudgetExceeded(t *testing.T) {
	env := FromError(&search.BudgetExceeded{})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "budget_exceeded", env.Kind)
}

func TestFromErrorClassifiesInputError(t *testing.T) {
	env := FromError(dataset.NewInputError("courses[0].id", "missing mandatory course code"))
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "input", env.Kind)
}

func TestFromErrorFallsBackToInternal(t *testing.T) {
	env := FromError(assertError("boom"))
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "internal", env.Kind)
}

type plainError string

func (e plainError) Error() string { return string(e) }

func assertError(msg string) error { return plainError(msg) }
