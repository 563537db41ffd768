// Package solution extracts and serialises the search core's output: a
// flat list of placed-lesson records, the JSON/CSV writers, and the
// discriminated status envelope callers consume.
package solution

import "github.com/faculty-sched/scheduled/internal/model"

// Record is one placed lesson: a single interval variable's final
// assignment, decoded out of the segmented horizon coordinate.
// WeekIndex names the segment the lesson
// falls in, not an individual calendar week: the model only resolves
// time at segment granularity, so a lesson scheduled in segment s runs
// identically in every one of that segment's SegmentSize weeks.
type Record struct {
	VariableName string   `json:"variableName"`
	WeekIndex    int      `json:"weekIndex"`
	DayIndex     int      `json:"dayIndex"`
	SlotIndex    int      `json:"slotIndex"`
	Length       int      `json:"length"`
	Groups       []string `json:"groups"`
	Teachers     []string `json:"teachers"`
	Rooms        []string `json:"rooms"`
}

// Solution is the materialised output of one search run: every interval
// variable's record plus the total objective value.
type Solution struct {
	Objective int      `json:"objective"`
	Records   []Record `json:"records"`
}

// Extract walks every interval variable in arena and decodes its Start
// against grid, producing one Record per variable in arena creation
// order. arena must be fully assigned (every Start != model.Unassigned);
// this is the final step of the Search Core's leaf materialisation
// (internal/search.materialize), so Extract itself never fails.
func Extract(m *model.Model, arena *model.Arena, objective int) *Solution {
	records := make([]Record, 0, arena.Len())
	for _, h := range arena.All() {
		v := arena.Get(h)
		c := m.Grid.Decode(v.Start)
		records = append(records, Record{
			VariableName: v.Name,
			WeekIndex:    c.Segment,
			DayIndex:     c.Day,
			SlotIndex:    c.Slot,
			Length:       v.Length,
			Groups:       v.Groups,
			Teachers:     v.Teachers,
			Rooms:        v.Rooms,
		})
	}
	return &Solution{Objective: objective, Records: records}
}
