package model

import "testing"

func TestGridDecodeEncodeRoundTrip(t *testing.T) {
	g := Grid{Weeks: 12, Days: 5, Slots: 4, SegmentSize: 3}
	for t_ := 0; t_ < g.TotalSlots(); t_++ {
		c := g.Decode(t_)
		if got := g.Encode(c); got != t_ {
			t.Fatalf("round trip failed for slot %d: decoded %+v, re-encoded to %d", t_, c, got)
		}
	}
}

func TestGridSegmentsAndTotalSlots(t *testing.T) {
	g := Grid{Weeks: 12, Days: 5, Slots: 4, SegmentSize: 3}
	if got, want := g.TotalSlots(), 12*5*4/3; got != want {
		t.Fatalf("TotalSlots() = %d, want %d", got, want)
	}
	if got, want := g.Segments(), 4; got != want {
		t.Fatalf("Segments() = %d, want %d", got, want)
	}
}

func TestGridDayOf(t *testing.T) {
	g := Grid{Weeks: 12, Days: 5, Slots: 4, SegmentSize: 3}
	// slot 3 is the last slot of day 0; slot 4 is the first slot of day 1.
	if g.DayOf(3) == g.DayOf(4) {
		t.Fatalf("slots 3 and 4 should fall on different days")
	}
	if g.DayOf(0) != g.DayOf(3) {
		t.Fatalf("slots 0..3 should fall on the same day")
	}
}

func TestWeekRangeToSlotRangeWidensToWholeSegments(t *testing.T) {
	g := Grid{Weeks: 12, Days: 5, Slots: 4, SegmentSize: 3}
	lo, hi := g.WeekRangeToSlotRange(2, 2)
	// week 2 falls in segment 0 (weeks 1-3); the whole segment should be covered.
	wantLo, wantHi := g.WeekRangeToSlotRange(1, 3)
	if lo != wantLo || hi != wantHi {
		t.Fatalf("WeekRangeToSlotRange(2,2) = [%d,%d], want segment-aligned [%d,%d]", lo, hi, wantLo, wantHi)
	}
}
