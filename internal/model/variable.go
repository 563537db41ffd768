package model

import "fmt"

// Kind is the tagged sum type for the four activity kinds; they differ
// only by duration and which resource timelines they join, so a single
// tag with constant parameters replaces four parallel code paths.
type Kind int

const (
	KindLecture Kind = iota
	KindExercise
	KindLab
	KindProject
)

func (k Kind) String() string {
	switch k {
	case KindLecture:
		return "lecture"
	case KindExercise:
		return "exercise"
	case KindLab:
		return "lab"
	case KindProject:
		return "project"
	default:
		return "unknown"
	}
}

// Tag is the short string used in interval variable names
// ("<code>_<kindTag>_<i>[_d_<section>]").
func (k Kind) Tag() string {
	switch k {
	case KindLecture:
		return "lec"
	case KindExercise:
		return "ex"
	case KindLab:
		return "tp"
	case KindProject:
		return "pr"
	default:
		return "??"
	}
}

// Length is the fixed duration in unit slots: short kinds (lecture,
// exercise) are 1 slot (2 hours); long kinds (lab, project) are 2 slots.
func (k Kind) Length() int {
	switch k {
	case KindLab, KindProject:
		return 2
	default:
		return 1
	}
}

// IsLong reports whether the kind must respect long-activity integrity
// (no crossing of an inter-day boundary).
func (k Kind) IsLong() bool { return k.Length() > 1 }

// Handle is a stable integer reference into an Arena. Interval variables
// are shared by reference across up to three resource timelines and one
// activity dictionary; Handle is how that sharing is realised without
// ownership cycles.
type Handle int

// Variable is one placed-lesson occurrence: one physical interval
// variable.
type Variable struct {
	Handle Handle
	Name   string

	ActivityCode string
	Kind         Kind
	Section      int // 0 for single-section kinds

	Length   int
	MinStart int
	MaxStart int

	Groups   []string
	Teachers []string
	Rooms    []string

	// Start is -1 until the Search Core assigns it.
	Start int
}

const Unassigned = -1

// End returns Start+Length; only meaningful once assigned.
func (v *Variable) End() int { return v.Start + v.Length }

// Arena is the single owner of all interval variables: resource
// timelines and activity dictionaries store Handles, never *Variable
// directly, so the arena can be the sole point of mutation during
// search.
type Arena struct {
	vars []*Variable
}

// NewArena returns an empty arena.
func NewArena() *Arena { return &Arena{} }

// New creates and registers a new interval variable, returning its Handle.
func (a *Arena) New(name, activityCode string, kind Kind, section, minStart, maxStart int, groups, teachers, rooms []string) Handle {
	h := Handle(len(a.vars))
	a.vars = append(a.vars, &Variable{
		Handle:       h,
		Name:         name,
		ActivityCode: activityCode,
		Kind:         kind,
		Section:      section,
		Length:       kind.Length(),
		MinStart:     minStart,
		MaxStart:     maxStart,
		Groups:       groups,
		Teachers:     teachers,
		Rooms:        rooms,
		Start:        Unassigned,
	})
	return h
}

// Get returns the Variable for a Handle.
func (a *Arena) Get(h Handle) *Variable { return a.vars[h] }

// Len is the number of interval variables in the arena.
func (a *Arena) Len() int { return len(a.vars) }

// All returns every handle in creation order.
func (a *Arena) All() []Handle {
	out := make([]Handle, len(a.vars))
	for i := range a.vars {
		out[i] = Handle(i)
	}
	return out
}

// Clone deep-copies the arena's Variable values (but not their slices,
// which are treated as immutable after Build) so the Search Core can run
// multiple independent searches (one per worker) over the same model.
func (a *Arena) Clone() *Arena {
	out := &Arena{vars: make([]*Variable, len(a.vars))}
	for i, v := range a.vars {
		cp := *v
		out.vars[i] = &cp
	}
	return out
}

func (v *Variable) String() string {
	return fmt.Sprintf("%s[%d..%d]", v.Name, v.MinStart, v.MaxStart)
}
