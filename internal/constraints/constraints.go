// Package constraints compiles the constraint set that defines
// feasibility for a built Model.
package constraints

import "github.com/faculty-sched/scheduled/internal/model"

// SlotRange is an inclusive [Lo, Hi] range of unit slots, used for
// cursus unavailability (forbidden) ranges.
type SlotRange struct {
	Lo, Hi int
}

// Overlaps reports whether the range overlaps [start, start+length).
func (r SlotRange) Overlaps(start, length int) bool {
	return start < r.Hi+1 && start+length > r.Lo
}

// NoOverlap is one disjunctive resource timeline: every pair of variables
// in Vars must have disjoint [start, start+length) intervals.
type NoOverlap struct {
	Resource string
	Vars     []model.Handle
}

// LongIntegrity demands floor(start/Slots) == floor((start+len-1)/Slots)
// for one long interval variable.
type LongIntegrity struct {
	Var model.Handle
}

// Unavailability forbids a group's variables from overlapping any of a
// set of forbidden ranges (e.g. "Wednesday afternoon every week").
type Unavailability struct {
	Group  string
	Ranges []SlotRange
}

// SegmentQuota bounds how many of a (activity, kind, section)'s variables
// may land in the same segment: at most ceil(count/segments), and exactly
// one per segment when count == segments.
type SegmentQuota struct {
	ActivityCode  string
	Kind          model.Kind
	Section       int
	Vars          []model.Handle
	Segments      int
	MaxPerSegment int
}

// SectionSync demands that, for a given lesson index, every section's
// variable at that index lands in the same segment: parallel sections
// deliver the same lesson in the same weeks.
type SectionSync struct {
	ActivityCode string
	Kind         model.Kind
	LessonIndex  int
	Vars         []model.Handle // one handle per section, same lesson index
}

// Precedence demands that, within any segment shared by a lecture
// variable and a follower (exercise/lab) variable of the same activity,
// the lecture ends before the follower starts.
type Precedence struct {
	ActivityCode  string
	LectureVars   []model.Handle
	FollowerVars  []model.Handle
}

// FixedPlacement pins a variable to a specific (day, slot) pair within
// every segment it could occupy.
type FixedPlacement struct {
	Var  model.Handle
	Day  int
	Slot int
}

// Simultaneity forces two variable lists of equal length to share a
// start value pairwise (e.g. "synchronise the exercises of two courses").
type Simultaneity struct {
	VarsA, VarsB []model.Handle
}

// Set is the complete, compiled constraint set.
type Set struct {
	NoOverlaps      []NoOverlap
	LongIntegrities []LongIntegrity
	Unavailable     []Unavailability
	SegmentQuotas   []SegmentQuota
	SectionSyncs    []SectionSync
	Precedences     []Precedence
	Fixed           []FixedPlacement
	Simultaneous    []Simultaneity
}

// Count is the total number of constraints across every family.
func (s *Set) Count() int {
	return len(s.NoOverlaps) + len(s.LongIntegrities) + len(s.Unavailable) +
		len(s.SegmentQuotas) + len(s.SectionSyncs) + len(s.Precedences) +
		len(s.Fixed) + len(s.Simultaneous)
}
