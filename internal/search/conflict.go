package search

import "github.com/faculty-sched/scheduled/internal/constraints"

// item is one addressable constraint in a Set, used by ConflictRefine to
// build and shrink candidate subsets.
type item struct {
	kind string
	idx  int
}

func allItems(set *constraints.Set) []item {
	var items []item
	for i := range set.NoOverlaps {
		items = append(items, item{"overlap", i})
	}
	for i := range set.LongIntegrities {
		items = append(items, item{"integrity", i})
	}
	for i := range set.Unavailable {
		items = append(items, item{"unavailability", i})
	}
	for i := range set.SegmentQuotas {
		items = append(items, item{"quota", i})
	}
	for i := range set.SectionSyncs {
		items = append(items, item{"sync", i})
	}
	for i := range set.Precedences {
		items = append(items, item{"precedence", i})
	}
	for i := range set.Fixed {
		items = append(items, item{"fixed", i})
	}
	for i := range set.Simultaneous {
		items = append(items, item{"simultaneity", i})
	}
	return items
}

// subset rebuilds a Set holding only the items still marked kept. The
// rebuilt set is compacted, so its indices differ from set's; the IDs
// reported at the end use each item's index in the original set, the
// same IDs the propagators compiled from that set carry.
func subset(set *constraints.Set, items []item, kept []bool) *constraints.Set {
	out := &constraints.Set{}
	for i, it := range items {
		if !kept[i] {
			continue
		}
		switch it.kind {
		case "overlap":
			out.NoOverlaps = append(out.NoOverlaps, set.NoOverlaps[it.idx])
		case "integrity":
			out.LongIntegrities = append(out.LongIntegrities, set.LongIntegrities[it.idx])
		case "unavailability":
			out.Unavailable = append(out.Unavailable, set.Unavailable[it.idx])
		case "quota":
			out.SegmentQuotas = append(out.SegmentQuotas, set.SegmentQuotas[it.idx])
		case "sync":
			out.SectionSyncs = append(out.SectionSyncs, set.SectionSyncs[it.idx])
		case "precedence":
			out.Precedences = append(out.Precedences, set.Precedences[it.idx])
		case "fixed":
			out.Fixed = append(out.Fixed, set.Fixed[it.idx])
		case "simultaneity":
			out.Simultaneous = append(out.Simultaneous, set.Simultaneous[it.idx])
		}
	}
	return out
}

// itemID renders the item the same way its propagator's ID() does, so
// ConflictRefine's output lines up with search-time wipeout attribution.
func itemID(it item) string { return idFor(it.kind, it.idx) }

// ConflictRefine extracts a minimal unsatisfiable core from set by
// iterative deletion: try removing each constraint in turn; keep it
// removed only if the remainder is still infeasible, restore it when
// its removal restores feasibility.
func ConflictRefine(feasible func(set *constraints.Set) bool, set *constraints.Set) []string {
	items := allItems(set)
	kept := make([]bool, len(items))
	for i := range kept {
		kept[i] = true
	}

	for i := range items {
		kept[i] = false
		if feasible(subset(set, items, kept)) {
			// removing it restores feasibility: it belongs to the core.
			kept[i] = true
		}
	}

	var ids []string
	for i, it := range items {
		if kept[i] {
			ids = append(ids, itemID(it))
		}
	}
	return ids
}
