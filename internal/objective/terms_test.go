package objective

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faculty-sched/scheduled/internal/model"
)

func gridAndArena() (model.Grid, *model.Arena) {
	return model.Grid{Weeks: 1, Days: 5, Slots: 4, SegmentSize: 1}, model.NewArena()
}

func TestAfternoonLectureCountsSecondHalfSlots(t *testing.T) {
	grid, arena := gridAndArena()
	morning := arena.New("m", "C1", model.KindLecture, 0, 0, 100, nil, nil, nil)
	afternoon := arena.New("a", "C1", model.KindLecture, 0, 0, 100, nil, nil, nil)
	arena.Get(morning).Start = 0 // slot 0: morning
	arena.Get(afternoon).Start = 2 // slot 2: afternoon (midpoint = 4/2 = 2)

	m := &model.Model{Grid: grid, Arena: arena}
	term := AfternoonLecture{Vars: []model.Handle{morning, afternoon}, Weight: 4}
	assert.Equal(t, 4, term.Evaluate(m))
}

func TestLastSlotExerciseExcludesLanguageCourses(t *testing.T) {
	grid, arena := gridAndArena()
	lang := arena.New("l", "LANG1", model.KindExercise, 0, 0, 100, nil, nil, nil)
	other := arena.New("o", "ALG101", model.KindExercise, 0, 0, 100, nil, nil, nil)
	arena.Get(lang).Start = 3   // last slot
	arena.Get(other).Start = 3  // last slot

	m := &model.Model{Grid: grid, Arena: arena}
	term := LastSlotExercise{
		Vars:     []model.Handle{lang, other},
		Weight:   1,
		Excluded: map[string]bool{"LANG1": true},
	}
	assert.Equal(t, 1, term.Evaluate(m))
}

func TestRoomCountPenalisesExcessRooms(t *testing.T) {
	grid, arena := gridAndArena()
	m := &model.Model{Grid: grid, Arena: arena}
	term := RoomCount{ActivityCode: "ALG101", DistinctRooms: 3, MinRooms: 1, Weight: 2}
	assert.Equal(t, 2*2*2, term.Evaluate(m))
}

func TestTeacherDayBalancePenalisesUnevenSpread(t *testing.T) {
	grid, arena := gridAndArena()
	// two lessons on day 0 and one on day 1 for this teacher.
	h1 := arena.New("h1", "C1", model.KindLecture, 0, 0, 100, nil, []string{"T1"}, nil)
	h2 := arena.New("h2", "C1", model.KindLecture, 0, 0, 100, nil, []string{"T1"}, nil)
	h3 := arena.New("h3", "C1", model.KindLecture, 0, 0, 100, nil, []string{"T1"}, nil)
	arena.Get(h1).Start = 0 // day 0
	arena.Get(h2).Start = 1 // day 0 (slots 0-3 = day 0 when Slots=4)
	arena.Get(h3).Start = 4 // day 1

	m := &model.Model{Grid: grid, Arena: arena}
	term := TeacherDayBalance{Teacher: "T1", Vars: []model.Handle{h1, h2, h3}, Weight: 1}
	// day 0 has 2 lessons, day 1 has 1: (2-1)^2 = 1
	assert.Equal(t, 1, term.Evaluate(m))
}

func TestTeacherGapsPenalisesGapsOverOneSlot(t *testing.T) {
	grid, arena := gridAndArena()
	h1 := arena.New("h1", "C1", model.KindLecture, 0, 0, 100, nil, []string{"T1"}, nil)
	h2 := arena.New("h2", "C1", model.KindLecture, 0, 0, 100, nil, []string{"T1"}, nil)
	arena.Get(h1).Start = 0 // ends at 1
	arena.Get(h2).Start = 3 // gap = 3-1 = 2 > 1

	m := &model.Model{Grid: grid, Arena: arena}
	term := TeacherGaps{Teacher: "T1", Vars: []model.Handle{h1, h2}, Weight: 1}
	assert.Equal(t, 4, term.Evaluate(m)) // gap^2 = 2^2 = 4
}
