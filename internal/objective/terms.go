package objective

import "github.com/faculty-sched/scheduled/internal/model"

// AfternoonLecture penalises lectures placed late in the day: w * sum
// of 1[lecture variable starts in an afternoon slot]. A slot is
// "afternoon" when its decoded slot index falls in the second half of
// the day (slot >= Slots/2, rounding the midpoint down so an odd slot
// count puts the extra slot in the afternoon).
type AfternoonLecture struct {
	Vars   []model.Handle
	Weight int
}

func (t AfternoonLecture) Name() string { return "afternoonLecture" }

func (t AfternoonLecture) Evaluate(m *model.Model) int {
	midpoint := m.Grid.Slots / 2
	count := 0
	for _, h := range t.Vars {
		v := m.Arena.Get(h)
		if v.Start == model.Unassigned {
			continue
		}
		if m.Grid.Decode(v.Start).Slot >= midpoint {
			count++
		}
	}
	return t.Weight * count
}

// LastSlotExercise penalises exercises pushed to the end of the day: w *
// sum of 1[exercise variable starts in the last slot of a day],
// excluding activities in the language-course exclusion list.
type LastSlotExercise struct {
	Vars     []model.Handle
	Weight   int
	Excluded map[string]bool
}

func (t LastSlotExercise) Name() string { return "lastSlotExercise" }

func (t LastSlotExercise) Evaluate(m *model.Model) int {
	last := m.Grid.Slots - 1
	count := 0
	for _, h := range t.Vars {
		v := m.Arena.Get(h)
		if v.Start == model.Unassigned || t.Excluded[v.ActivityCode] {
			continue
		}
		if m.Grid.Decode(v.Start).Slot == last {
			count++
		}
	}
	return t.Weight * count
}

// RoomCount penalises an activity's sections for using more distinct
// rooms than necessary: (distinctRooms - minRooms)^2. Both quantities
// are structural, fixed by the builder's resource-demand sets rather
// than by the search, so this term is a constant contribution per run
// that still rewards tighter room lists in the input data.
type RoomCount struct {
	ActivityCode  string
	DistinctRooms int
	MinRooms      int
	Weight        int
}

func (t RoomCount) Name() string { return "roomCount:" + t.ActivityCode }

func (t RoomCount) Evaluate(m *model.Model) int {
	diff := t.DistinctRooms - t.MinRooms
	return t.Weight * diff * diff
}

// TeacherDayBalance penalises uneven distribution of one teacher's
// lessons across the days they teach: (max-min)^2 over per-day lesson
// counts.
type TeacherDayBalance struct {
	Teacher string
	Vars    []model.Handle
	Weight  int
}

func (t TeacherDayBalance) Name() string { return "teacherDayBalance:" + t.Teacher }

func (t TeacherDayBalance) Evaluate(m *model.Model) int {
	counts := make(map[int]int)
	for _, h := range t.Vars {
		v := m.Arena.Get(h)
		if v.Start == model.Unassigned {
			continue
		}
		day := m.Grid.DayOf(v.Start)
		counts[day]++
	}
	if len(counts) == 0 {
		return 0
	}
	min, max := -1, -1
	for _, c := range counts {
		if min == -1 || c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	diff := max - min
	return t.Weight * diff * diff
}

// TeacherGaps penalises gaps strictly larger than one slot between two
// consecutive lessons of the same teacher on the same day: gap^2 per
// occurrence.
type TeacherGaps struct {
	Teacher string
	Vars    []model.Handle
	Weight  int
}

func (t TeacherGaps) Name() string { return "teacherGaps:" + t.Teacher }

func (t TeacherGaps) Evaluate(m *model.Model) int {
	byDay := make(map[int][]*model.Variable)
	for _, h := range t.Vars {
		v := m.Arena.Get(h)
		if v.Start == model.Unassigned {
			continue
		}
		day := m.Grid.DayOf(v.Start)
		byDay[day] = append(byDay[day], v)
	}

	total := 0
	for _, vars := range byDay {
		sortByStart(vars)
		for i := 0; i+1 < len(vars); i++ {
			gap := vars[i+1].Start - vars[i].End()
			if gap > 1 {
				total += t.Weight * gap * gap
			}
		}
	}
	return total
}

func sortByStart(vars []*model.Variable) {
	for i := 1; i < len(vars); i++ {
		for j := i; j > 0 && vars[j].Start < vars[j-1].Start; j-- {
			vars[j], vars[j-1] = vars[j-1], vars[j]
		}
	}
}
