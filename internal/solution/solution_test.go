package solution

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faculty-sched/scheduled/internal/model"
)

func buildSolvedModel(t *testing.T) (*model.Model, *model.Arena) {
	t.Helper()
	grid := model.Grid{Weeks: 1, Days: 5, Slots: 4, SegmentSize: 1}
	arena := model.NewArena()
	h := arena.New("ALG101_lec_0", "ALG101", model.KindLecture, 0, 0, 19, []string{"BA1-A"}, []string{"Prof. A"}, []string{"R1"})
	arena.Get(h).Start = 6 // segment 0, day 1, slot 2 when Days=5 Slots=4
	m := &model.Model{Grid: grid, Arena: arena}
	return m, arena
}

func TestExtractDecodesCoordinates(t *testing.T) {
	m, arena := buildSolvedModel(t)
	sol := Extract(m, arena, 42)
	require.Len(t, sol.Records, 1)
	rec := sol.Records[0]
	assert.Equal(t, "ALG101_lec_0", rec.VariableName)
	assert.Equal(t, 0, rec.WeekIndex)
	assert.Equal(t, 1, rec.DayIndex)
	assert.Equal(t, 2, rec.SlotIndex)
	assert.Equal(t, 1, rec.Length)
	assert.Equal(t, []string{"BA1-A"}, rec.Groups)
	assert.Equal(t, 42, sol.Objective)
}

func TestWriteJSONReadJSONRoundTrip(t *testing.T) {
	m, arena := buildSolvedModel(t)
	sol := Extract(m, arena, 7)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sol))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, sol, got)
}

func TestWriteCSVIncludesObjectiveAndHeader(t *testing.T) {
	m, arena := buildSolvedModel(t)
	sol := Extract(m, arena, 7)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sol))
	out := buf.String()
	assert.Contains(t, out, "objective")
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "ALG101_lec_0")
}

func TestEnvelopeOKAndInfeasible(t *testing.T) {
	m, arena := buildSolvedModel(t)
	sol := Extract(m, arena, 0)

	ok := OK(sol, false)
	assert.Equal(t, "ok", ok.Status)
	assert.NotNil(t, ok.Solution)
	assert.False(t, ok.Truncated)

	truncated := OK(sol, true)
	assert.Equal(t, "ok", truncated.Status)
	assert.True(t, truncated.Truncated)

	infeasible := Infeasible([]string{"overlap#0"})
	assert.Equal(t, "infeasible", infeasible.Status)
	assert.Equal(t, []string{"overlap#0"}, infeasible.Conflicts)
}
