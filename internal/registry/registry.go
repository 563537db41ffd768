// Package registry owns cursus/group/headcount data and produces
// balanced divisions for multi-section activities.
package registry

import (
	"fmt"
	"sort"

	"github.com/faculty-sched/scheduled/internal/dataset"
)

// EmptyCursusError is raised by GetGroups/GenerateBalancedDivisions when
// none of the requested cursus resolve to any group.
type EmptyCursusError struct {
	Cursus []string
}

func (e *EmptyCursusError) Error() string {
	return fmt.Sprintf("registry: no group found for cursus %v", e.Cursus)
}

// CursusGroups is the per-run group registry: constructed once,
// consulted by the variable builder, discarded after solving. It owns
// cursus -> groups with headcount.
type CursusGroups struct {
	groups map[string][]dataset.GroupRecord
}

// New builds a CursusGroups from a Group Dataset.
func New(gd dataset.GroupDataset) *CursusGroups {
	groups := make(map[string][]dataset.GroupRecord, len(gd))
	for cursus, recs := range gd {
		cp := make([]dataset.GroupRecord, len(recs))
		copy(cp, recs)
		groups[cursus] = cp
	}
	return &CursusGroups{groups: groups}
}

// GetGroups returns the union (preserving input order, deduplicated) of
// groups in the listed cursus.
func (c *CursusGroups) GetGroups(cursusList []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, cursus := range cursusList {
		for _, g := range c.groups[cursus] {
			if !seen[g.Name] {
				seen[g.Name] = true
				out = append(out, g.Name)
			}
		}
	}
	if len(out) == 0 {
		return nil, &EmptyCursusError{Cursus: cursusList}
	}
	return out, nil
}

// GenerateBalancedDivisions returns a map from group name to section
// index 0..n-1.
//
// If auto is false, groups are partitioned by a deterministic round-robin
// of input order. If auto is true, groups are assigned by a greedy
// longest-processing-time-first pass using headcounts as weights (falling
// back to a headcount of 1 per group when headcount data is unavailable),
// seeded only by input order so the result is reproducible. If n == 1, all
// groups map to section 0.
func (c *CursusGroups) GenerateBalancedDivisions(cursusList []string, n int, auto bool) (map[string]int, error) {
	if n < 1 {
		n = 1
	}

	type weightedGroup struct {
		name   string
		weight int
	}
	var ordered []weightedGroup
	seen := make(map[string]bool)
	for _, cursus := range cursusList {
		for _, g := range c.groups[cursus] {
			if seen[g.Name] {
				continue
			}
			seen[g.Name] = true
			weight := g.Headcount
			if weight <= 0 {
				weight = 1
			}
			ordered = append(ordered, weightedGroup{name: g.Name, weight: weight})
		}
	}
	if len(ordered) == 0 {
		return nil, &EmptyCursusError{Cursus: cursusList}
	}

	result := make(map[string]int, len(ordered))

	if n == 1 {
		for _, g := range ordered {
			result[g.name] = 0
		}
		return result, nil
	}

	if !auto {
		for i, g := range ordered {
			result[g.name] = i % n
		}
		return result, nil
	}

	// Greedy LPT: sort groups by descending weight (stable, so equal
	// weights keep their original relative order and the result stays
	// reproducible), then repeatedly drop the heaviest remaining group
	// into the currently lightest section.
	sortable := make([]weightedGroup, len(ordered))
	copy(sortable, ordered)
	sort.SliceStable(sortable, func(i, j int) bool {
		return sortable[i].weight > sortable[j].weight
	})

	load := make([]int, n)
	for _, g := range sortable {
		lightest := 0
		for s := 1; s < n; s++ {
			if load[s] < load[lightest] {
				lightest = s
			}
		}
		result[g.name] = lightest
		load[lightest] += g.weight
	}
	return result, nil
}
