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

// TestTwoLecturesSameTeacherGetDistinctSlots is scenario S2: two 2-hour
// lectures taught by the same teacher must land on disjoint slots.
func TestTwoLecturesSameTeacherGetDistinctSlots(t *testing.T) {
	groups := registry.New(dataset.GroupDataset{
		"BA1": {{Name: "BA1-A", Headcount: 30}},
	})
	grid := model.Grid{Weeks: 1, Days: 1, Slots: 2, SegmentSize: 1}
	courses := []dataset.CourseRecord{
		{
			Cursus: []string{"BA1"}, ID: "C1", LectureHours: intPtr(2),
			LectureTeachers: []string{"Prof. A"}, LectureRooms: []string{"R1"},
			LectureWeekStart: 1, LectureWeekEnd: 1,
		},
		{
			Cursus: []string{"BA1"}, ID: "C2", LectureHours: intPtr(2),
			LectureTeachers: []string{"Prof. A"}, LectureRooms: []string{"R2"},
			LectureWeekStart: 1, LectureWeekEnd: 1,
		},
	}
	m, err := model.Build(courses, groups, model.BuildOptions{
		Grid:              grid,
		RoundUp:           true,
		EnforceWeekBounds: true,
		EnabledCursus:     map[string]bool{"BA1": true},
	})
	require.NoError(t, err)
	require.Len(t, m.TeacherTimeline["Prof. A"], 2)

	set, err := constraints.Compile(m, constraints.Options{})
	require.NoError(t, err)

	engine, ds, ok := NewEngine(m, set)
	require.True(t, ok)
	result := engine.Solve(ds, &objective.Objective{}, SolveOptions{Deadline: time.Now().Add(5 * time.Second)})
	require.True(t, result.Feasible)

	c1 := result.Arena.Get(m.TeacherTimeline["Prof. A"][0])
	c2 := result.Arena.Get(m.TeacherTimeline["Prof. A"][1])
	assert.NotEqual(t, c1.Start, c2.Start)
	assert.True(t, c1.Start+c1.Length <= c2.Start || c2.Start+c2.Length <= c1.Start)
}

// TestLongLabRejectsDayCrossingStart is scenario S3: 4-hour labs with
// Days=Slots=2 must land on starts that keep both half-slots on the
// same day (start 0 or 2), never start 1.
func TestLongLabRejectsDayCrossingStart(t *testing.T) {
	groups := registry.New(dataset.GroupDataset{
		"BA1": {{Name: "BA1-A", Headcount: 30}},
	})
	grid := model.Grid{Weeks: 1, Days: 2, Slots: 2, SegmentSize: 1}
	courses := []dataset.CourseRecord{
		{
			Cursus: []string{"BA1"}, ID: "C1", TPHours: intPtr(8), TPDuration: 4,
			TPDivisions: 1, TPTeachers: []string{"Prof. A"}, TPRooms: []string{"R1"},
			TPWeekStart: 1, TPWeekEnd: 1,
		},
	}
	m, err := model.Build(courses, groups, model.BuildOptions{
		Grid:              grid,
		RoundUp:           true,
		EnforceWeekBounds: true,
		EnabledCursus:     map[string]bool{"BA1": true},
	})
	require.NoError(t, err)

	entry, ok := m.ActivityEntry(model.KindLab, "C1")
	require.True(t, ok)
	require.Len(t, entry.Divisions[0], 2)

	set, err := constraints.Compile(m, constraints.Options{})
	require.NoError(t, err)

	engine, ds, ok := NewEngine(m, set)
	require.True(t, ok)
	result := engine.Solve(ds, &objective.Objective{}, SolveOptions{Deadline: time.Now().Add(5 * time.Second)})
	require.True(t, result.Feasible)

	for _, h := range entry.Divisions[0] {
		start := result.Arena.Get(h).Start
		assert.Contains(t, []int{0, 2}, start)
	}
}

// TestLectureEndsBeforeExerciseWithinSegment: with the order flag set,
// every lecture sharing a segment with an exercise of the same activity
// must end before that exercise starts.
func TestLectureEndsBeforeExerciseWithinSegment(t *testing.T) {
	groups := registry.New(dataset.GroupDataset{
		"BA1": {{Name: "BA1-A", Headcount: 30}},
	})
	grid := model.Grid{Weeks: 1, Days: 1, Slots: 4, SegmentSize: 1}
	courses := []dataset.CourseRecord{
		{
			Cursus: []string{"BA1"}, ID: "C1",
			LectureHours: intPtr(2), LectureTeachers: []string{"Prof. A"},
			LectureWeekStart: 1, LectureWeekEnd: 1,
			ExerciseHours: intPtr(2), ExerciseDivisions: 1,
			ExerciseTeachers: []string{"Asst. B"},
			ExerciseWeekStart: 1, ExerciseWeekEnd: 1,
			Order: true,
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
	require.NotEmpty(t, set.Precedences)

	engine, ds, ok := NewEngine(m, set)
	require.True(t, ok)
	result := engine.Solve(ds, &objective.Objective{}, SolveOptions{Deadline: time.Now().Add(5 * time.Second)})
	require.True(t, result.Feasible)

	lec, ok := m.ActivityEntry(model.KindLecture, "C1")
	require.True(t, ok)
	ex, ok := m.ActivityEntry(model.KindExercise, "C1")
	require.True(t, ok)

	lv := result.Arena.Get(lec.Divisions[0][0])
	ev := result.Arena.Get(ex.Divisions[0][0])
	assert.GreaterOrEqual(t, ev.Start, lv.Start+lv.Length)
}
