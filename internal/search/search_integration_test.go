package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faculty-sched/scheduled/internal/constraints"
	"github.com/faculty-sched/scheduled/internal/dataset"
	"github.com/faculty-sched/scheduled/internal/model"
	"github.com/faculty-sched/scheduled/internal/objective"
	"github.com/faculty-sched/scheduled/internal/registry"
)

func intPtr(n int) *int { return &n }

// minimalModel builds a single lecture activity for one group, one
// teacher, one room over a small horizon (S1: a minimal feasible model).
func minimalModel(t *testing.T) *model.Model {
	t.Helper()
	groups := registry.New(dataset.GroupDataset{
		"BA1": {{Name: "BA1-A", Headcount: 30}},
	})
	grid := model.Grid{Weeks: 3, Days: 5, Slots: 4, SegmentSize: 3}
	m, err := model.Build([]dataset.CourseRecord{{
		Cursus:           []string{"BA1"},
		ID:               "ALG101",
		LectureHours:     intPtr(2),
		LectureTeachers:  []string{"Prof. A"},
		LectureRooms:     []string{"R1"},
		LectureWeekStart: 1,
		LectureWeekEnd:   3,
	}}, groups, model.BuildOptions{
		Grid:              grid,
		RoundUp:           true,
		EnforceWeekBounds: true,
		EnabledCursus:     map[string]bool{"BA1": true},
	})
	require.NoError(t, err)
	return m
}

func TestEngineSolvesMinimalModel(t *testing.T) {
	m := minimalModel(t)
	set, err := constraints.Compile(m, constraints.Options{})
	require.NoError(t, err)

	engine, ds, ok := NewEngine(m, set)
	require.True(t, ok)

	obj := &objective.Objective{}
	result := engine.Solve(ds, obj, SolveOptions{Deadline: time.Now().Add(5 * time.Second)})
	require.True(t, result.Feasible)
	assert.True(t, engine.CheckAssignment(withArena(m, result.Arena)))
}

// twoActivitiesInfeasibleModel is an infeasible scenario: two lecture
// activities sharing the only room and the only group, both constrained
// to the same single start, which the room and group no-overlap
// constraints each forbid.
func twoActivitiesInfeasibleModel(t *testing.T) (*model.Model, *constraints.Set) {
	t.Helper()
	groups := registry.New(dataset.GroupDataset{
		"BA1": {{Name: "BA1-A", Headcount: 30}},
	})
	grid := model.Grid{Weeks: 1, Days: 1, Slots: 1, SegmentSize: 1}
	courses := []dataset.CourseRecord{
		{
			Cursus: []string{"BA1"}, ID: "C1", LectureHours: intPtr(2),
			LectureRooms: []string{"R1"}, LectureWeekStart: 1, LectureWeekEnd: 1,
		},
		{
			Cursus: []string{"BA1"}, ID: "C2", LectureHours: intPtr(2),
			LectureRooms: []string{"R1"}, LectureWeekStart: 1, LectureWeekEnd: 1,
		},
	}
	m, err := model.Build(courses, groups, model.BuildOptions{
		Grid:              grid,
		RoundUp:           true,
		EnforceWeekBounds: true,
		EnabledCursus:     map[string]bool{"BA1": true},
	})
	require.NoError(t, err)
	set, err := constraints.Compile(m, constraints.Options{})
	require.NoError(t, err)
	return m, set
}

func TestEngineDetectsInfeasibleSharedRoom(t *testing.T) {
	m, set := twoActivitiesInfeasibleModel(t)
	engine, ds, ok := NewEngine(m, set)
	if !ok {
		return // wiped out during Init/Propagate: still correctly infeasible
	}
	obj := &objective.Objective{}
	result := engine.Solve(ds, obj, SolveOptions{Deadline: time.Now().Add(5 * time.Second)})
	assert.False(t, result.Feasible)
}

func TestConflictRefineFindsMinimalCore(t *testing.T) {
	m, set := twoActivitiesInfeasibleModel(t)
	conflicts := ConflictRefine(func(candidate *constraints.Set) bool {
		e, ds, ok := NewEngine(m, candidate)
		return ok && e.Propagate(ds)
	}, set)
	assert.NotEmpty(t, conflicts)
}

func TestRunProducesSameResultAcrossWorkerCounts(t *testing.T) {
	m := minimalModel(t)
	set, err := constraints.Compile(m, constraints.Options{})
	require.NoError(t, err)
	obj := &objective.Objective{}

	r1 := Run(m, set, obj, RunOptions{Workers: 1, Seed: 7, Deadline: time.Now().Add(5 * time.Second)})
	r2 := Run(m, set, obj, RunOptions{Workers: 4, Seed: 7, Deadline: time.Now().Add(5 * time.Second)})
	require.True(t, r1.Feasible)
	require.True(t, r2.Feasible)
	assert.Equal(t, r1.Objective, r2.Objective)
}

func TestStopTokenHaltsSearch(t *testing.T) {
	m := minimalModel(t)
	set, err := constraints.Compile(m, constraints.Options{})
	require.NoError(t, err)
	engine, ds, ok := NewEngine(m, set)
	require.True(t, ok)

	stop := NewStopToken()
	stop.Stop()
	obj := &objective.Objective{}
	result := engine.Solve(ds, obj, SolveOptions{Deadline: time.Now().Add(time.Minute), Stop: stop})
	assert.True(t, result.Truncated)
}
