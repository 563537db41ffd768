// Package model holds the interval-variable arena, resource timelines
// and activity dictionaries that the constraint compiler, objective
// compiler and search core all share.
package model

// Grid decodes and encodes the integer unit-slot coordinate used
// throughout the model: slot 0 is week 1 / day 1 / slot 1, and slot t
// decodes as (segment = t div (D*S), day = (t mod (D*S)) div S, slot = t
// mod S).
type Grid struct {
	Weeks       int
	Days        int
	Slots       int
	SegmentSize int
}

// SlotsPerSegment is D*S.
func (g Grid) SlotsPerSegment() int { return g.Days * g.Slots }

// TotalSlots is T = W*D*S/Z.
func (g Grid) TotalSlots() int { return g.Weeks * g.Days * g.Slots / g.SegmentSize }

// Segments is the number of distinct segments in the horizon.
func (g Grid) Segments() int { return g.TotalSlots() / g.SlotsPerSegment() }

// Coord is a decoded (segment, day, slot) triple.
type Coord struct {
	Segment int
	Day     int
	Slot    int
}

// Decode turns an integer slot into its (segment, day, slot) coordinate.
func (g Grid) Decode(t int) Coord {
	perSegment := g.SlotsPerSegment()
	return Coord{
		Segment: t / perSegment,
		Day:     (t % perSegment) / g.Slots,
		Slot:    t % g.Slots,
	}
}

// Encode is the inverse of Decode.
func (g Grid) Encode(c Coord) int {
	return c.Segment*g.SlotsPerSegment() + c.Day*g.Slots + c.Slot
}

// DayOf returns the global day index (segment * Days + Day) that the
// long-activity integrity check needs: two slots are on the same day
// iff start/Slots == (start+len-1)/Slots.
func (g Grid) DayOf(t int) int { return t / g.Slots }

// WeekRangeToSlotRange translates a (weekStart, weekEnd) desiderata bound
// (1-indexed, inclusive) into a [lo, hi] slot range, honoring the segment
// aggregation: Z consecutive weeks share one segment, so the bound is
// widened to whole segments.
func (g Grid) WeekRangeToSlotRange(weekStart, weekEnd int) (lo, hi int) {
	segStart := (weekStart - 1) / g.SegmentSize
	segEndExclusive := (weekEnd + g.SegmentSize - 1) / g.SegmentSize
	lo = segStart * g.SlotsPerSegment()
	hi = segEndExclusive*g.SlotsPerSegment() - 1
	return lo, hi
}
