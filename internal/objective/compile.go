package objective

import (
	"sort"

	"github.com/faculty-sched/scheduled/internal/config"
	"github.com/faculty-sched/scheduled/internal/model"
)

// Options configures the Objective Compiler beyond what Profile.ExtraPenalties
// already gates: the language-course exclusion list for the last-slot
// exercise term.
type Options struct {
	LanguageCourses []string
}

// Compile builds the Objective from a built Model and a Profile. The
// afternoon-lecture and last-slot-exercise terms are always present;
// the supplemental terms are added only when their
// Profile.ExtraPenalties flag is set.
func Compile(m *model.Model, profile config.Profile, opts Options) *Objective {
	obj := &Objective{}

	var lectureVars []model.Handle
	for _, entry := range m.Lectures {
		for _, section := range entry.Divisions {
			lectureVars = append(lectureVars, section...)
		}
	}
	obj.Terms = append(obj.Terms, AfternoonLecture{Vars: lectureVars, Weight: 4})

	excluded := make(map[string]bool, len(opts.LanguageCourses))
	for _, c := range opts.LanguageCourses {
		excluded[c] = true
	}
	var exerciseVars []model.Handle
	for _, entry := range m.Exercises {
		for _, section := range entry.Divisions {
			exerciseVars = append(exerciseVars, section...)
		}
	}
	obj.Terms = append(obj.Terms, LastSlotExercise{Vars: exerciseVars, Weight: 1, Excluded: excluded})

	if profile.ExtraPenalties.RoomCount {
		obj.Terms = append(obj.Terms, compileRoomCountTerms(m)...)
	}
	if profile.ExtraPenalties.DayBalance {
		obj.Terms = append(obj.Terms, compileTeacherTerms(m, true)...)
	}
	if profile.ExtraPenalties.TeacherGaps {
		obj.Terms = append(obj.Terms, compileTeacherTerms(m, false)...)
	}

	return obj
}

func compileRoomCountTerms(m *model.Model) []Term {
	var terms []Term
	for _, dict := range []map[string]*model.ActivityEntry{m.Lectures, m.Exercises, m.Labs, m.Projects} {
		for code, entry := range dict {
			roomSet := make(map[string]bool)
			var perVarRooms [][]string
			for _, section := range entry.Divisions {
				for _, h := range section {
					v := m.Arena.Get(h)
					if len(v.Rooms) == 0 {
						continue
					}
					perVarRooms = append(perVarRooms, v.Rooms)
					for _, r := range v.Rooms {
						roomSet[r] = true
					}
				}
			}
			if len(roomSet) == 0 {
				continue
			}
			rooms := make([]string, 0, len(roomSet))
			for r := range roomSet {
				rooms = append(rooms, r)
			}
			sort.Strings(rooms)

			minRooms := findMinRooms(rooms, perVarRooms)
			terms = append(terms, RoomCount{
				ActivityCode:  code,
				DistinctRooms: len(rooms),
				MinRooms:      minRooms,
				Weight:        1,
			})
		}
	}
	return terms
}

// findMinRooms is a brute-force minimum hitting set search: the smallest
// k such that some k-subset of rooms intersects every variable's room
// candidate list. Run once per activity at compile time, since
// resource-demand sets are fixed at build time rather than chosen
// during search.
func findMinRooms(rooms []string, demands [][]string) int {
	if len(demands) == 0 {
		return 0
	}
	n := len(rooms)
	for k := 1; k <= n; k++ {
		set := nChooseKInit(n, k)
		for nChooseKNext(set, n, k) {
			if hitsAll(set, rooms, demands) {
				return k
			}
		}
	}
	return n
}

func hitsAll(set []int, rooms []string, demands [][]string) bool {
	chosen := make(map[string]bool, len(set))
	for _, idx := range set {
		chosen[rooms[idx]] = true
	}
demandLoop:
	for _, d := range demands {
		for _, r := range d {
			if chosen[r] {
				continue demandLoop
			}
		}
		return false
	}
	return true
}

func nChooseKInit(n, k int) []int {
	if k > n || n < 1 {
		return nil
	}
	lst := make([]int, k)
	for i := range lst {
		lst[i] = -1
	}
	return lst
}

func nChooseKNext(lst []int, n, k int) bool {
	if lst == nil {
		return false
	}
	if lst[0] == -1 {
		for i := 0; i < k; i++ {
			lst[i] = i
		}
		return true
	}
	for i := 0; i < k; i++ {
		elt := lst[k-1-i]
		if elt < n-1-i {
			for j := k - 1 - i; j < k; j++ {
				elt++
				lst[j] = elt
			}
			return true
		}
	}
	return false
}

func compileTeacherTerms(m *model.Model, dayBalance bool) []Term {
	var terms []Term
	teachers := make([]string, 0, len(m.TeacherTimeline))
	for t := range m.TeacherTimeline {
		teachers = append(teachers, t)
	}
	sort.Strings(teachers)

	for _, t := range teachers {
		vars := m.TeacherTimeline[t]
		if dayBalance {
			terms = append(terms, TeacherDayBalance{Teacher: t, Vars: vars, Weight: 1})
		} else {
			terms = append(terms, TeacherGaps{Teacher: t, Vars: vars, Weight: 1})
		}
	}
	return terms
}
