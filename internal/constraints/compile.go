package constraints

import (
	"fmt"

	"github.com/faculty-sched/scheduled/internal/dataset"
	"github.com/faculty-sched/scheduled/internal/model"
)

// UnavailabilitySpec forbids a group's variables from overlapping a slot
// range, repeated every segment (e.g. "BA1 Wednesday afternoon of every
// week is reserved").
type UnavailabilitySpec struct {
	Group    string
	DayStart int // day-of-segment, 0-indexed
	SlotLo   int
	SlotHi   int // inclusive, within Grid.Slots
}

// FixedPlacementSpec pins one lesson of an activity's section to a
// specific (day, slot) within every segment it spans.
type FixedPlacementSpec struct {
	ActivityCode string
	Kind         model.Kind
	Section      int
	LessonIndex  int
	Day          int
	Slot         int
}

// SimultaneitySpec forces two activities' same-section variables to share
// a start, lesson index for lesson index.
type SimultaneitySpec struct {
	ActivityA string
	KindA     model.Kind
	SectionA  int
	ActivityB string
	KindB     model.Kind
	SectionB  int
}

// Options carries the per-run constraint rules the Model itself does
// not: cursus unavailability, explicit initial placements, and forced
// simultaneity, expressed as data rather than one call per case.
type Options struct {
	Unavailability []UnavailabilitySpec
	FixedSlots     []FixedPlacementSpec
	Simultaneous   []SimultaneitySpec
	OrderedOnly    bool // has no effect: Precedence is only ever compiled for activities with Order set
}

// Compile builds the constraint Set from a built Model. Malformed
// Options references (unknown groups, activities, sections, lesson
// indices) are reported eagerly, before search begins; negative counts
// and oversized splits are caught earlier, in the dataset loader.
func Compile(m *model.Model, opts Options) (*Set, error) {
	set := &Set{}

	compileNoOverlaps(m, set)
	compileLongIntegrities(m, set)
	compileSegmentQuotas(m, set)
	compileSectionSyncs(m, set)
	compilePrecedences(m, set, opts.OrderedOnly)

	if err := compileUnavailability(m, set, opts.Unavailability); err != nil {
		return nil, dataset.NewInputError("unavailability", "%v", err)
	}
	if err := compileFixedPlacements(m, set, opts.FixedSlots); err != nil {
		return nil, dataset.NewInputError("fixedSlots", "%v", err)
	}
	if err := compileSimultaneity(m, set, opts.Simultaneous); err != nil {
		return nil, dataset.NewInputError("simultaneous", "%v", err)
	}

	return set, nil
}

func compileNoOverlaps(m *model.Model, set *Set) {
	for resource, vars := range m.GroupTimeline {
		set.NoOverlaps = append(set.NoOverlaps, NoOverlap{Resource: "group:" + resource, Vars: vars})
	}
	for resource, vars := range m.TeacherTimeline {
		set.NoOverlaps = append(set.NoOverlaps, NoOverlap{Resource: "teacher:" + resource, Vars: vars})
	}
	for resource, vars := range m.RoomTimeline {
		set.NoOverlaps = append(set.NoOverlaps, NoOverlap{Resource: "room:" + resource, Vars: vars})
	}
}

func compileLongIntegrities(m *model.Model, set *Set) {
	for _, h := range m.Arena.All() {
		v := m.Arena.Get(h)
		if v.Kind.IsLong() {
			set.LongIntegrities = append(set.LongIntegrities, LongIntegrity{Var: h})
		}
	}
}

// compileSegmentQuotas emits one SegmentQuota per (activity, kind,
// section): the section's lessons are spread so that each segment holds
// at most ceil(count/segments) of them, which forces exactly one per
// segment when the count equals the number of segments.
func compileSegmentQuotas(m *model.Model, set *Set) {
	segments := m.Grid.Segments()
	for _, dict := range []map[string]*model.ActivityEntry{m.Lectures, m.Exercises, m.Labs, m.Projects} {
		for code, entry := range dict {
			for section, vars := range entry.Divisions {
				if len(vars) == 0 {
					continue
				}
				max := ceilDivConstraints(len(vars), segments)
				set.SegmentQuotas = append(set.SegmentQuotas, SegmentQuota{
					ActivityCode:  code,
					Kind:          entry.Kind,
					Section:       section,
					Vars:          vars,
					Segments:      segments,
					MaxPerSegment: max,
				})
			}
		}
	}
}

func ceilDivConstraints(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// compileSectionSyncs pairs up, for each lesson index, the variable from
// every section of a multi-section activity: all sections of the same
// lesson index must fall into the same segment.
func compileSectionSyncs(m *model.Model, set *Set) {
	for _, dict := range []map[string]*model.ActivityEntry{m.Exercises, m.Labs} {
		for code, entry := range dict {
			if len(entry.Divisions) < 2 {
				continue
			}
			lessons := len(entry.Divisions[0])
			for l := 0; l < lessons; l++ {
				vars := make([]model.Handle, 0, len(entry.Divisions))
				for _, section := range entry.Divisions {
					if l < len(section) {
						vars = append(vars, section[l])
					}
				}
				if len(vars) > 1 {
					set.SectionSyncs = append(set.SectionSyncs, SectionSync{
						ActivityCode: code,
						Kind:         entry.Kind,
						LessonIndex:  l,
						Vars:         vars,
					})
				}
			}
		}
	}
}

// compilePrecedences links a lecture activity's variables to the
// exercise and lab variables of the same activity code, for activities
// with the order flag set. orderedOnly is ignored: Entry.Order alone
// gates this constraint, and there is no option that disables it.
func compilePrecedences(m *model.Model, set *Set, orderedOnly bool) {
	_ = orderedOnly
	for code, lec := range m.Lectures {
		if !lec.Order {
			continue
		}
		var followers []model.Handle
		if ex, ok := m.Exercises[code]; ok {
			for _, section := range ex.Divisions {
				followers = append(followers, section...)
			}
		}
		if tp, ok := m.Labs[code]; ok {
			for _, section := range tp.Divisions {
				followers = append(followers, section...)
			}
		}
		if len(followers) == 0 {
			continue
		}
		set.Precedences = append(set.Precedences, Precedence{
			ActivityCode: code,
			LectureVars:  lec.Divisions[0],
			FollowerVars: followers,
		})
	}
}

func compileUnavailability(m *model.Model, set *Set, specs []UnavailabilitySpec) error {
	for _, s := range specs {
		if _, ok := m.GroupTimeline[s.Group]; !ok {
			return fmt.Errorf("constraints: unavailability references unknown group %q", s.Group)
		}
		if s.SlotLo < 0 || s.SlotHi < s.SlotLo || s.SlotHi >= m.Grid.Slots {
			return fmt.Errorf("constraints: unavailability for group %q has invalid slot range [%d,%d]", s.Group, s.SlotLo, s.SlotHi)
		}
		var ranges []SlotRange
		perSegment := m.Grid.SlotsPerSegment()
		for seg := 0; seg < m.Grid.Segments(); seg++ {
			base := seg*perSegment + s.DayStart*m.Grid.Slots
			ranges = append(ranges, SlotRange{Lo: base + s.SlotLo, Hi: base + s.SlotHi})
		}
		set.Unavailable = append(set.Unavailable, Unavailability{Group: s.Group, Ranges: ranges})
	}
	return nil
}

func compileFixedPlacements(m *model.Model, set *Set, specs []FixedPlacementSpec) error {
	for _, s := range specs {
		entry, ok := m.ActivityEntry(s.Kind, s.ActivityCode)
		if !ok {
			return fmt.Errorf("constraints: fixed placement references unknown activity %q", s.ActivityCode)
		}
		if s.Section < 0 || s.Section >= len(entry.Divisions) {
			return fmt.Errorf("constraints: fixed placement references unknown section %d of %q", s.Section, s.ActivityCode)
		}
		vars := entry.Divisions[s.Section]
		if s.LessonIndex < 0 || s.LessonIndex >= len(vars) {
			return fmt.Errorf("constraints: fixed placement references unknown lesson index %d of %q", s.LessonIndex, s.ActivityCode)
		}
		set.Fixed = append(set.Fixed, FixedPlacement{Var: vars[s.LessonIndex], Day: s.Day, Slot: s.Slot})
	}
	return nil
}

func compileSimultaneity(m *model.Model, set *Set, specs []SimultaneitySpec) error {
	for _, s := range specs {
		entryA, ok := m.ActivityEntry(s.KindA, s.ActivityA)
		if !ok || s.SectionA < 0 || s.SectionA >= len(entryA.Divisions) {
			return fmt.Errorf("constraints: simultaneity references unknown activity/section %q/%d", s.ActivityA, s.SectionA)
		}
		entryB, ok := m.ActivityEntry(s.KindB, s.ActivityB)
		if !ok || s.SectionB < 0 || s.SectionB >= len(entryB.Divisions) {
			return fmt.Errorf("constraints: simultaneity references unknown activity/section %q/%d", s.ActivityB, s.SectionB)
		}
		varsA := entryA.Divisions[s.SectionA]
		varsB := entryB.Divisions[s.SectionB]
		if len(varsA) != len(varsB) {
			return fmt.Errorf("constraints: simultaneity between %q and %q requires equal lesson counts, got %d and %d", s.ActivityA, s.ActivityB, len(varsA), len(varsB))
		}
		set.Simultaneous = append(set.Simultaneous, Simultaneity{VarsA: varsA, VarsB: varsB})
	}
	return nil
}
