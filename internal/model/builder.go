package model

import (
	"fmt"

	"github.com/faculty-sched/scheduled/internal/dataset"
	"github.com/faculty-sched/scheduled/internal/registry"
)

// ActivityEntry is one activity-dictionary entry: per-activity
// bookkeeping the constraint and objective compilers consume.
type ActivityEntry struct {
	Code       string
	Kind       Kind
	WeekBounds [2]int
	Cursus     []string
	// Divisions[section] is the ordered list of interval variables
	// (lesson index order) for that section. Single-section kinds
	// (lecture, project) have exactly one entry at index 0.
	Divisions [][]Handle
	Order     bool
}

// Model is the variable builder's output: the interval variable arena,
// the three resource timelines, and the four activity dictionaries. Its
// lifetime spans "after build" to "after extraction" and it is
// immutable during solving.
type Model struct {
	Grid  Grid
	Arena *Arena

	GroupTimeline   map[string][]Handle
	TeacherTimeline map[string][]Handle
	RoomTimeline    map[string][]Handle

	Lectures  map[string]*ActivityEntry
	Exercises map[string]*ActivityEntry
	Labs      map[string]*ActivityEntry
	Projects  map[string]*ActivityEntry

	// RoundingDelta accumulates the signed true-vs-model lesson count
	// delta across all activities.
	RoundingDelta int
	Warnings      []string
}

func newModel(g Grid) *Model {
	return &Model{
		Grid:            g,
		Arena:           NewArena(),
		GroupTimeline:   make(map[string][]Handle),
		TeacherTimeline: make(map[string][]Handle),
		RoomTimeline:    make(map[string][]Handle),
		Lectures:        make(map[string]*ActivityEntry),
		Exercises:       make(map[string]*ActivityEntry),
		Labs:            make(map[string]*ActivityEntry),
		Projects:        make(map[string]*ActivityEntry),
	}
}

// BuildOptions configures a Build run.
type BuildOptions struct {
	Grid              Grid
	RoundUp           bool
	EnforceWeekBounds bool
	GroupAuto         bool
	EnabledCursus     map[string]bool
}

// Build translates a course dataset into interval variables, producing
// a Model ready for constraint compilation. An activity is processed
// iff at least one of its cursus is enabled and its code has not been
// seen before.
func Build(courses []dataset.CourseRecord, groups *registry.CursusGroups, opts BuildOptions) (*Model, error) {
	m := newModel(opts.Grid)
	seen := make(map[string]bool)

	for _, course := range courses {
		if seen[course.ID] {
			continue
		}
		if !anyEnabled(course.Cursus, opts.EnabledCursus) {
			m.Warnings = append(m.Warnings, fmt.Sprintf("course %q: skipped, no enabled cursus follows it", course.ID))
			continue
		}
		seen[course.ID] = true

		if course.LectureHours != nil {
			if err := m.buildSingleSection(course, KindLecture, *course.LectureHours, 0,
				course.LectureWeekStart, course.LectureWeekEnd, course.LectureTeachers, course.LectureRooms, opts, groups); err != nil {
				return nil, err
			}
		}
		if course.ExerciseHours != nil {
			if err := m.buildMultiSection(course, KindExercise, *course.ExerciseHours, 2,
				course.ExerciseWeekStart, course.ExerciseWeekEnd, course.ExerciseDivisions, course.ExerciseSplit,
				course.ExerciseTeachers, course.ExerciseRooms, opts, groups); err != nil {
				return nil, err
			}
		}
		if course.TPHours != nil {
			if err := m.buildMultiSection(course, KindLab, *course.TPHours, course.TPDuration,
				course.TPWeekStart, course.TPWeekEnd, course.TPDivisions, 0,
				course.TPTeachers, course.TPRooms, opts, groups); err != nil {
				return nil, err
			}
		}
		if course.ProjectHours != nil {
			if err := m.buildSingleSection(course, KindProject, *course.ProjectHours, course.ProjectDuration,
				course.ProjectWeekStart, course.ProjectWeekEnd, course.ProjectTeachers, nil, opts, groups); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func anyEnabled(cursusList []string, enabled map[string]bool) bool {
	for _, c := range cursusList {
		if enabled[c] {
			return true
		}
	}
	return false
}

func (m *Model) activityDict(k Kind) map[string]*ActivityEntry {
	switch k {
	case KindLecture:
		return m.Lectures
	case KindExercise:
		return m.Exercises
	case KindLab:
		return m.Labs
	default:
		return m.Projects
	}
}

// ActivityEntry looks up the activity dictionary entry for a (kind, code)
// pair; used by the Constraint and Objective Compilers to resolve
// external references (fixed placements, simultaneity) against the
// built Model.
func (m *Model) ActivityEntry(k Kind, code string) (*ActivityEntry, bool) {
	entry, ok := m.activityDict(k)[code]
	return entry, ok
}

func (m *Model) startRange(weekStart, weekEnd int, length int, enforce bool) (lo, hi int) {
	if !enforce {
		return 0, m.Grid.TotalSlots() - length
	}
	lo, hi = m.Grid.WeekRangeToSlotRange(weekStart, weekEnd)
	hi -= length - 1
	maxHi := m.Grid.TotalSlots() - length
	if hi > maxHi {
		hi = maxHi
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// buildSingleSection handles lectures and projects: one division shared
// by every group following the course.
func (m *Model) buildSingleSection(course dataset.CourseRecord, kind Kind, hours, duration int,
	weekStart, weekEnd int, teachers, rooms []string, opts BuildOptions, groups *registry.CursusGroups) error {

	groupList, err := groups.GetGroups(course.Cursus)
	if err != nil {
		return err
	}

	length := kind.Length()
	trueLessons := trueLessonCount(kind, hours, duration)
	modelLessons, delta := roundToSegments(trueLessons, opts.Grid.SegmentSize, opts.RoundUp)
	m.RoundingDelta += delta

	lo, hi := m.startRange(weekStart, weekEnd, length, opts.EnforceWeekBounds)

	handles := make([]Handle, 0, modelLessons)
	for i := 0; i < modelLessons; i++ {
		name := fmt.Sprintf("%s_%s_%d", course.ID, kind.Tag(), i)
		h := m.Arena.New(name, course.ID, kind, 0, lo, hi, groupList, teachers, rooms)
		handles = append(handles, h)

		for _, g := range groupList {
			m.GroupTimeline[g] = append(m.GroupTimeline[g], h)
		}
		for _, t := range teachers {
			m.TeacherTimeline[t] = append(m.TeacherTimeline[t], h)
		}
		for _, r := range rooms {
			m.RoomTimeline[r] = append(m.RoomTimeline[r], h)
		}
	}

	m.activityDict(kind)[course.ID] = &ActivityEntry{
		Code:       course.ID,
		Kind:       kind,
		WeekBounds: [2]int{weekStart, weekEnd},
		Cursus:     course.Cursus,
		Divisions:  [][]Handle{handles},
		Order:      course.Order,
	}
	return nil
}

// buildMultiSection handles exercises and labs: 0..divisions-1 parallel
// sections, each balanced over groups and optionally rotated over a
// subset of teachers/rooms.
func (m *Model) buildMultiSection(course dataset.CourseRecord, kind Kind, hours, duration int,
	weekStart, weekEnd, divisions, split int, teachers, rooms []string, opts BuildOptions, groups *registry.CursusGroups) error {

	if divisions < 1 {
		divisions = 1
	}
	divisionOf, err := groups.GenerateBalancedDivisions(course.Cursus, divisions, opts.GroupAuto)
	if err != nil {
		return err
	}

	length := kind.Length()
	trueLessons := trueLessonCount(kind, hours, duration)
	modelLessons, deltaPerSection := roundToSegments(trueLessons, opts.Grid.SegmentSize, opts.RoundUp)
	m.RoundingDelta += deltaPerSection * divisions

	lo, hi := m.startRange(weekStart, weekEnd, length, opts.EnforceWeekBounds)

	entry := &ActivityEntry{
		Code:       course.ID,
		Kind:       kind,
		WeekBounds: [2]int{weekStart, weekEnd},
		Cursus:     course.Cursus,
		Divisions:  make([][]Handle, divisions),
		Order:      course.Order,
	}

	groupsInSection := make(map[int][]string)
	for g, s := range divisionOf {
		groupsInSection[s] = append(groupsInSection[s], g)
	}

	for section := 0; section < divisions; section++ {
		sectionTeachers := splitRotation(teachers, split, section)
		sectionRooms := splitRotation(rooms, split, section)
		sectionGroups := groupsInSection[section]

		for l := 0; l < modelLessons; l++ {
			name := fmt.Sprintf("%s_%s_%d_d_%d", course.ID, kind.Tag(), l, section)
			h := m.Arena.New(name, course.ID, kind, section, lo, hi, sectionGroups, sectionTeachers, sectionRooms)
			entry.Divisions[section] = append(entry.Divisions[section], h)

			for _, g := range sectionGroups {
				m.GroupTimeline[g] = append(m.GroupTimeline[g], h)
			}
			for _, t := range sectionTeachers {
				m.TeacherTimeline[t] = append(m.TeacherTimeline[t], h)
			}
			for _, r := range sectionRooms {
				m.RoomTimeline[r] = append(m.RoomTimeline[r], h)
			}
		}
	}

	m.activityDict(kind)[course.ID] = entry
	return nil
}

// splitRotation partitions teachers/rooms into consecutive subsets of
// size split (the last subset absorbing the remainder) and returns the
// subset used by the given section (section mod numSubsets). split == 0
// means every resource serves every section.
func splitRotation(resources []string, split, section int) []string {
	if split <= 0 || len(resources) == 0 {
		return resources
	}
	numSubsets := ceilDiv(len(resources), split)
	if numSubsets == 0 {
		return resources
	}
	subset := section % numSubsets
	start := subset * split
	end := start + split
	if subset == numSubsets-1 || end > len(resources) {
		end = len(resources)
	}
	if start > len(resources) {
		start = len(resources)
	}
	return resources[start:end]
}

// trueLessonCount converts an hour total into lesson occurrences: short
// kinds hold ceil(hours/2) two-hour lessons; long kinds hold
// floor(hours/duration) blocks of duration hours each.
func trueLessonCount(kind Kind, hours, duration int) int {
	if !kind.IsLong() {
		return ceilDiv(hours, 2)
	}
	if duration <= 0 {
		duration = kind.Length() * 2
	}
	return hours / duration
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// roundToSegments rounds trueLessons to a multiple of the segment size
// (up or down per roundUp), returning the model lesson count and the
// signed rounding delta: 7 lessons in segments of size 3 become 9
// (rounded up, delta +2) or 6 (rounded down, delta -1), then one model
// lesson stands for segmentSize weekly occurrences.
func roundToSegments(trueLessons, segmentSize int, roundUp bool) (modelLessons, delta int) {
	if segmentSize <= 0 {
		return trueLessons, 0
	}
	if roundUp {
		modelLessons = ceilDiv(trueLessons, segmentSize)
		delta = modelLessons*segmentSize - trueLessons
		return modelLessons, delta
	}
	modelLessons = trueLessons / segmentSize
	delta = -(trueLessons - modelLessons*segmentSize)
	return modelLessons, delta
}
