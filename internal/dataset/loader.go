package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// InputError is raised before search begins: missing mandatory fields,
// negative counts, split exceeding a resource list, out-of-range week
// bounds, and malformed per-run constraint rules. The loader does not
// check cursus names; a cursus with no groups is reported by the Group
// Registry as registry.EmptyCursusError, not as an InputError.
type InputError struct {
	Field  string
	Detail string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: field %q: %s", e.Field, e.Detail)
}

// NewInputError builds an InputError naming the offending field, so a
// caller can point at the exact dataset entry.
func NewInputError(field, format string, args ...interface{}) error {
	return &InputError{Field: field, Detail: fmt.Sprintf(format, args...)}
}

// LoadCourses decodes a canonical Course Dataset from JSON, applying
// defaults and validation. Warnings ("no desiderata", duplicate codes)
// are returned alongside the records so the caller can surface them
// without failing the run; rounding delta summaries are emitted later,
// by the variable builder.
func LoadCourses(r io.Reader, weeks int) ([]CourseRecord, []string, error) {
	var raw []rawCourseRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, errors.Wrap(err, "dataset: decoding course dataset")
	}

	var out []CourseRecord
	var warnings []string
	seen := make(map[string]bool)

	for i, row := range raw {
		if row.ID == "" {
			return nil, nil, NewInputError(fmt.Sprintf("courses[%d].id", i), "missing mandatory course code")
		}
		if seen[row.ID] {
			warnings = append(warnings, fmt.Sprintf("course %q: duplicate entry ignored after first occurrence", row.ID))
			continue
		}
		seen[row.ID] = true

		cursus := splitCSV(row.Cursus)
		if len(cursus) == 0 {
			return nil, nil, NewInputError(fmt.Sprintf("courses[%d:%s].cursus", i, row.ID), "must list at least one cursus")
		}

		if err := validate.Struct(row); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				fe := fieldErrs[0]
				return nil, nil, NewInputError(fmt.Sprintf("courses[%s].%s", row.ID, fe.Field()),
					"failed %q validation (value %v)", fe.Tag(), fe.Value())
			}
			return nil, nil, NewInputError(fmt.Sprintf("courses[%s]", row.ID), "%v", err)
		}

		rec := CourseRecord{
			Cursus:            cursus,
			ID:                row.ID,
			Name:              row.Name,
			Quadri:            row.Quadri,
			LectureHours:      row.LectureHours,
			ExerciseHours:     row.ExerciseHours,
			TPHours:           row.TPHours,
			ProjectHours:      row.ProjectHours,
			LectureTeachers:   splitCSVPtr(row.LectureTeachers),
			ExerciseTeachers:  splitCSVPtr(row.ExerciseTeachers),
			TPTeachers:        splitCSVPtr(row.TPTeachers),
			ProjectTeachers:   splitCSVPtr(row.ProjectTeachers),
			LectureRooms:      splitCSVPtr(row.LectureRooms),
			ExerciseRooms:     splitCSVPtr(row.ExerciseRooms),
			TPRooms:           splitCSVPtr(row.TPRooms),
			ExerciseDivisions: atLeastOne(row.ExerciseDivisions),
			TPDivisions:       atLeastOne(row.TPDivisions),
			ExerciseSplit:     row.ExerciseSplit,
			TPDuration:        defaultDuration(row.TPDuration),
			ProjectDuration:   defaultDuration(row.ProjectDuration),
			Order:             row.Order,
			Rythm:             row.Rythm,
			LecBefore:         row.LecBefore,
			AltBloc:           row.AltBloc,
		}

		if row.ExerciseSplit > len(rec.ExerciseTeachers) && len(rec.ExerciseTeachers) > 0 {
			return nil, nil, NewInputError(fmt.Sprintf("courses[%s].exerciseSplit", row.ID),
				"split %d exceeds teacher list of length %d", row.ExerciseSplit, len(rec.ExerciseTeachers))
		}
		if row.ExerciseSplit > len(rec.ExerciseRooms) && len(rec.ExerciseRooms) > 0 {
			return nil, nil, NewInputError(fmt.Sprintf("courses[%s].exerciseSplit", row.ID),
				"split %d exceeds room list of length %d", row.ExerciseSplit, len(rec.ExerciseRooms))
		}

		rec.LectureWeekStart, rec.LectureWeekEnd = weekBounds(row.LectureWeekStart, row.LectureWeekEnd, weeks)
		rec.ExerciseWeekStart, rec.ExerciseWeekEnd = weekBounds(row.ExerciseWeekStart, row.ExerciseWeekEnd, weeks)
		rec.TPWeekStart, rec.TPWeekEnd = weekBounds(row.TPWeekStart, row.TPWeekEnd, weeks)
		rec.ProjectWeekStart, rec.ProjectWeekEnd = weekBounds(row.ProjectWeekStart, row.ProjectWeekEnd, weeks)

		if row.LectureWeekStart == 0 && row.LectureWeekEnd == 0 && row.LectureHours != nil {
			warnings = append(warnings, fmt.Sprintf("course %q: no lecture desiderata, defaulting to [1,%d]", row.ID, weeks))
		}

		bounds := [][2]int{
			{rec.LectureWeekStart, rec.LectureWeekEnd},
			{rec.ExerciseWeekStart, rec.ExerciseWeekEnd},
			{rec.TPWeekStart, rec.TPWeekEnd},
			{rec.ProjectWeekStart, rec.ProjectWeekEnd},
		}
		for _, b := range bounds {
			if b[1] > weeks {
				return nil, nil, NewInputError(fmt.Sprintf("courses[%s]", row.ID), "week bound %d exceeds horizon of %d weeks", b[1], weeks)
			}
			if b[0] > b[1] {
				return nil, nil, NewInputError(fmt.Sprintf("courses[%s]", row.ID), "week start %d after week end %d", b[0], b[1])
			}
		}

		out = append(out, rec)
	}

	return out, warnings, nil
}

// LoadGroups decodes a Group Dataset (cursus -> groups) from JSON.
func LoadGroups(r io.Reader) (GroupDataset, error) {
	var raw map[string][]rawGroupRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "dataset: decoding group dataset")
	}

	out := make(GroupDataset, len(raw))
	for cursus, groups := range raw {
		recs := make([]GroupRecord, 0, len(groups))
		for _, g := range groups {
			if g.Name == "" {
				return nil, NewInputError(fmt.Sprintf("groups[%s]", cursus), "group entry missing a name")
			}
			recs = append(recs, GroupRecord{Name: g.Name, Headcount: g.Headcount})
		}
		out[cursus] = recs
	}
	return out, nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitCSVPtr(s *string) []string {
	if s == nil {
		return nil
	}
	return splitCSV(*s)
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func defaultDuration(n int) int {
	if n == 0 {
		return 4
	}
	return n
}

func weekBounds(start, end, weeks int) (int, int) {
	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = weeks
	}
	return start, end
}

// ParseIntField parses one numeric field, wrapping failures as
// InputError so malformed numbers surface with their field location.
func ParseIntField(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, NewInputError(field, "expected an integer, found %q", raw)
	}
	return n, nil
}
