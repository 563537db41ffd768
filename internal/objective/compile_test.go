package objective

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faculty-sched/scheduled/internal/config"
	"github.com/faculty-sched/scheduled/internal/dataset"
	"github.com/faculty-sched/scheduled/internal/model"
	"github.com/faculty-sched/scheduled/internal/registry"
)

func intPtr(n int) *int { return &n }

func buildTestModel(t *testing.T) *model.Model {
	t.Helper()
	groups := registry.New(dataset.GroupDataset{
		"BA1": {{Name: "BA1-A", Headcount: 30}},
	})
	grid := model.Grid{Weeks: 12, Days: 5, Slots: 4, SegmentSize: 3}
	m, err := model.Build([]dataset.CourseRecord{{
		Cursus:           []string{"BA1"},
		ID:               "ALG101",
		LectureHours:     intPtr(24),
		LectureTeachers:  []string{"Prof. A"},
		LectureRooms:     []string{"R1", "R2"},
		LectureWeekStart: 1,
		LectureWeekEnd:   12,
	}}, groups, model.BuildOptions{
		Grid:          grid,
		RoundUp:       true,
		EnabledCursus: map[string]bool{"BA1": true},
	})
	require.NoError(t, err)
	return m
}

func TestCompileAlwaysIncludesRequiredTerms(t *testing.T) {
	m := buildTestModel(t)
	profile := config.Default()
	profile.ExtraPenalties = config.ExtraPenalties{}
	obj := Compile(m, profile, Options{})

	names := map[string]bool{}
	for _, term := range obj.Terms {
		names[term.Name()] = true
	}
	assert.True(t, names["afternoonLecture"])
	assert.True(t, names["lastSlotExercise"])
	assert.Len(t, obj.Terms, 2)
}

func TestCompileGatesSupplementalTermsByProfile(t *testing.T) {
	m := buildTestModel(t)
	profile := config.Default()
	profile.ExtraPenalties = config.ExtraPenalties{RoomCount: true}
	obj := Compile(m, profile, Options{})

	found := false
	for _, term := range obj.Terms {
		if term.Name() == "roomCount:ALG101" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFindMinRoomsHittingSet(t *testing.T) {
	rooms := []string{"R1", "R2", "R3"}
	demands := [][]string{
		{"R1", "R2"},
		{"R2", "R3"},
	}
	// a single room (R2) hits both demands, so the minimum hitting set is 1.
	assert.Equal(t, 1, findMinRooms(rooms, demands))
}

func TestFindMinRoomsNoOverlapRequiresTwo(t *testing.T) {
	rooms := []string{"R1", "R2"}
	demands := [][]string{
		{"R1"},
		{"R2"},
	}
	assert.Equal(t, 2, findMinRooms(rooms, demands))
}

func TestObjectiveBreakdownSumsToEvaluate(t *testing.T) {
	m := buildTestModel(t)
	profile := config.Default()
	obj := Compile(m, profile, Options{})

	total := 0
	for _, v := range obj.Breakdown(m) {
		total += v
	}
	assert.Equal(t, obj.Evaluate(m), total)
}
