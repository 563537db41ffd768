// Package dataset holds the Course Dataset and Group Dataset types plus
// the JSON loader and validation. Catalogue ingestion lives elsewhere:
// this package assumes the catalogue has already been normalised into
// these shapes.
package dataset

// CourseRecord is one row of the Course Dataset. A nil hour count
// disables the corresponding kind for this activity.
type CourseRecord struct {
	Cursus []string
	ID     string
	Name   string
	Quadri string

	LectureHours  *int
	ExerciseHours *int
	TPHours       *int
	ProjectHours  *int

	LectureTeachers  []string
	ExerciseTeachers []string
	TPTeachers       []string
	ProjectTeachers  []string

	LectureRooms  []string
	ExerciseRooms []string
	TPRooms       []string

	ExerciseDivisions int
	TPDivisions       int
	ExerciseSplit     int

	TPDuration      int
	ProjectDuration int

	LectureWeekStart, LectureWeekEnd   int
	ExerciseWeekStart, ExerciseWeekEnd int
	TPWeekStart, TPWeekEnd             int
	ProjectWeekStart, ProjectWeekEnd   int

	Order     bool
	Rythm     string
	LecBefore bool
	AltBloc   string
}

// GroupRecord is one group within a cursus, along with its headcount when
// known (0 means "unknown"; the Group Registry falls back to count-based
// balancing in that case).
type GroupRecord struct {
	Name      string
	Headcount int
}

// GroupDataset maps cursus name to its ordered list of groups.
type GroupDataset map[string][]GroupRecord

// rawCourseRecord is the wire shape of CourseRecord: comma-separated
// strings for list fields, matching the catalogue export columns.
type rawCourseRecord struct {
	Cursus string `json:"cursus"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Quadri string `json:"quadri"`

	LectureHours  *int `json:"lectureHours" validate:"omitempty,gte=0"`
	ExerciseHours *int `json:"exerciseHours" validate:"omitempty,gte=0"`
	TPHours       *int `json:"tpHours" validate:"omitempty,gte=0"`
	ProjectHours  *int `json:"projectHours" validate:"omitempty,gte=0"`

	LectureTeachers  *string `json:"lectureTeachers"`
	ExerciseTeachers *string `json:"exerciseTeachers"`
	TPTeachers       *string `json:"tpTeachers"`
	ProjectTeachers  *string `json:"projectTeachers"`

	LectureRooms  *string `json:"lectureRooms"`
	ExerciseRooms *string `json:"exerciseRooms"`
	TPRooms       *string `json:"tpRooms"`

	ExerciseDivisions int `json:"exerciseDivisions" validate:"gte=0"`
	TPDivisions       int `json:"tpDivisions" validate:"gte=0"`
	ExerciseSplit     int `json:"exerciseSplit" validate:"gte=0"`

	TPDuration      int `json:"tpDuration" validate:"oneof=0 3 4"`
	ProjectDuration int `json:"projectDuration" validate:"oneof=0 3 4"`

	LectureWeekStart  int `json:"lectureWeekStart" validate:"gte=0"`
	LectureWeekEnd    int `json:"lectureWeekEnd" validate:"gte=0"`
	ExerciseWeekStart int `json:"exerciseWeekStart" validate:"gte=0"`
	ExerciseWeekEnd   int `json:"exerciseWeekEnd" validate:"gte=0"`
	TPWeekStart       int `json:"tpWeekStart" validate:"gte=0"`
	TPWeekEnd         int `json:"tpWeekEnd" validate:"gte=0"`
	ProjectWeekStart  int `json:"projectWeekStart" validate:"gte=0"`
	ProjectWeekEnd    int `json:"projectWeekEnd" validate:"gte=0"`

	Order     bool   `json:"order"`
	Rythm     string `json:"rythm"`
	LecBefore bool   `json:"lecBeforeEx"`
	AltBloc   string `json:"altBloc"`
}

type rawGroupRecord struct {
	Name      string `json:"name"`
	Headcount int    `json:"headcount"`
}
