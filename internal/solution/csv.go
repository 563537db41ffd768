package solution

import (
	"bufio"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"variable", "week", "day", "slot", "length", "groups", "teachers", "rooms",
}

// WriteCSV writes sol as CSV, one row per record plus a header and a
// leading comment row carrying the objective value. Records are sorted
// by VariableName first so the output is stable across runs regardless
// of arena iteration order.
func WriteCSV(w io.Writer, sol *Solution) error {
	buf := bufio.NewWriter(w)
	defer buf.Flush()

	cw := csv.NewWriter(buf)
	defer cw.Flush()

	if err := cw.Write([]string{"// objective", strconv.Itoa(sol.Objective)}); err != nil {
		return err
	}
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	records := make([]Record, len(sol.Records))
	copy(records, sol.Records)
	sort.Slice(records, func(a, b int) bool {
		return records[a].VariableName < records[b].VariableName
	})

	for _, r := range records {
		row := []string{
			r.VariableName,
			strconv.Itoa(r.WeekIndex),
			strconv.Itoa(r.DayIndex),
			strconv.Itoa(r.SlotIndex),
			strconv.Itoa(r.Length),
			strings.Join(r.Groups, "|"),
			strings.Join(r.Teachers, "|"),
			strings.Join(r.Rooms, "|"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
