// Package main is the scheduled CLI entrypoint: package-level flag-bound
// variables, one cobra.Command per subcommand, all hung off a single
// root command. It wires JSON Course/Group Datasets and a Parameter
// Profile through the build/compile/solve/extract pipeline.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/faculty-sched/scheduled/internal/config"
	"github.com/faculty-sched/scheduled/internal/constraints"
	"github.com/faculty-sched/scheduled/internal/dataset"
	"github.com/faculty-sched/scheduled/internal/model"
	"github.com/faculty-sched/scheduled/internal/objective"
	"github.com/faculty-sched/scheduled/internal/registry"
	"github.com/faculty-sched/scheduled/internal/search"
	"github.com/faculty-sched/scheduled/internal/solution"
)

var (
	coursesPath = "courses.json"
	groupsPath  = "groups.json"
	profilePath = ""
	outPath     = "solution.json"
	outCSV      = ""
	languages   []string
	logger      *zap.Logger
)

func main() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "scheduled: failed to start logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	root := &cobra.Command{
		Use:   "scheduled",
		Short: "Faculty weekly timetable scheduling engine",
		Long: "Builds interval variables from a Course Dataset, compiles constraints\n" +
			"and an objective, and runs branch-and-bound search to produce a\n" +
			"weekly timetable.",
	}
	root.PersistentFlags().StringVar(&coursesPath, "courses", coursesPath, "path to the Course Dataset JSON file")
	root.PersistentFlags().StringVar(&groupsPath, "groups", groupsPath, "path to the Group Dataset JSON file")
	root.PersistentFlags().StringVar(&profilePath, "profile", profilePath, "path to the Parameter Profile YAML file (defaults built in if empty)")

	cmdRun := &cobra.Command{
		Use:   "run",
		Short: "build, compile, and search for a schedule",
		Run:   commandRun,
	}
	cmdRun.Flags().StringVar(&outPath, "out", outPath, "path to write the JSON solution envelope")
	cmdRun.Flags().StringVar(&outCSV, "out-csv", outCSV, "optional path to also write a CSV solution (feasible runs only)")
	cmdRun.Flags().StringSliceVar(&languages, "languages", languages, "course codes excluded from the last-slot-exercise penalty")
	root.AddCommand(cmdRun)

	cmdValidate := &cobra.Command{
		Use:   "validate",
		Short: "load and validate the dataset and profile without searching",
		Run:   commandValidate,
	}
	root.AddCommand(cmdValidate)

	cmdExplain := &cobra.Command{
		Use:   "explain",
		Short: "report the minimal conflict set for an infeasible model",
		Run:   commandExplain,
	}
	root.AddCommand(cmdExplain)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// loadAll reads the Profile, Course Dataset, and Group Dataset and runs
// the Variable Builder, returning everything downstream stages need.
func loadAll() (config.Profile, *model.Model, error) {
	profile, err := config.Load(profilePath)
	if err != nil {
		return config.Profile{}, nil, err
	}

	coursesFile, err := os.Open(coursesPath)
	if err != nil {
		return config.Profile{}, nil, fmt.Errorf("opening courses dataset: %w", err)
	}
	defer coursesFile.Close()

	courses, warnings, err := dataset.LoadCourses(coursesFile, profile.Weeks)
	if err != nil {
		return config.Profile{}, nil, err
	}
	for _, w := range warnings {
		logger.Warn("dataset warning", zap.String("detail", w))
	}

	groupsFile, err := os.Open(groupsPath)
	if err != nil {
		return config.Profile{}, nil, fmt.Errorf("opening groups dataset: %w", err)
	}
	defer groupsFile.Close()

	groupDataset, err := dataset.LoadGroups(groupsFile)
	if err != nil {
		return config.Profile{}, nil, err
	}

	cursusGroups := registry.New(groupDataset)

	grid := model.Grid{Weeks: profile.Weeks, Days: profile.Days, Slots: profile.Slots, SegmentSize: profile.SegmentSize}
	m, err := model.Build(courses, cursusGroups, model.BuildOptions{
		Grid:              grid,
		RoundUp:           profile.RoundUp,
		EnforceWeekBounds: profile.EnforceWeekBounds,
		GroupAuto:         profile.GroupAuto,
		EnabledCursus:     profile.Cursus,
	})
	if err != nil {
		return config.Profile{}, nil, err
	}
	for _, w := range m.Warnings {
		logger.Warn("build warning", zap.String("detail", w))
	}
	if m.RoundingDelta != 0 {
		logger.Warn("rounding delta accumulated", zap.Int("delta", m.RoundingDelta))
	}

	return profile, m, nil
}

func commandRun(cmd *cobra.Command, args []string) {
	profile, m, err := loadAll()
	if err != nil {
		writeEnvelope(solution.FromError(err))
		return
	}

	opts, err := constraintOptions(profile)
	if err != nil {
		writeEnvelope(solution.FromError(err))
		return
	}
	set, err := constraints.Compile(m, opts)
	if err != nil {
		writeEnvelope(solution.FromError(err))
		return
	}

	obj := objective.Compile(m, profile, objective.Options{
		LanguageCourses: append(profile.LanguageCourses, languages...),
	})

	stop := search.NewStopToken()
	deadline := time.Now().Add(profile.TimeBudget)
	result := search.Run(m, set, obj, search.RunOptions{
		Workers:  profile.Workers,
		Seed:     profile.Seed,
		Deadline: deadline,
		Stop:     stop,
		Publish: func(o search.Outcome) {
			logger.Info("incumbent improved", zap.Int("objective", o.Objective))
		},
	})

	if !result.Feasible {
		conflicts := search.ConflictRefine(func(candidate *constraints.Set) bool {
			e, ds, ok := search.NewEngine(m, candidate)
			return ok && e.Propagate(ds)
		}, set)
		writeEnvelope(solution.Infeasible(conflicts))
		return
	}

	sol := solution.Extract(m, result.Arena, result.Objective)
	if result.Truncated {
		logger.Warn("search budget exceeded before exhaustion; returning best incumbent found")
	}
	writeEnvelope(solution.OK(sol, result.Truncated))

	if outCSV != "" {
		f, err := os.Create(outCSV)
		if err != nil {
			logger.Error("failed to create CSV output", zap.Error(err))
			return
		}
		defer f.Close()
		if err := solution.WriteCSV(f, sol); err != nil {
			logger.Error("failed to write CSV output", zap.Error(err))
		}
	}
}

func commandValidate(cmd *cobra.Command, args []string) {
	profile, m, err := loadAll()
	if err != nil {
		logger.Error("validation failed", zap.Error(err))
		os.Exit(1)
	}
	opts, err := constraintOptions(profile)
	if err != nil {
		logger.Error("validation failed", zap.Error(err))
		os.Exit(1)
	}
	if _, err := constraints.Compile(m, opts); err != nil {
		logger.Error("constraint compilation failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("dataset and profile are valid",
		zap.Int("totalSlots", profile.TotalSlots()),
		zap.Int("variables", m.Arena.Len()))
}

func commandExplain(cmd *cobra.Command, args []string) {
	profile, m, err := loadAll()
	if err != nil {
		logger.Error("explain failed", zap.Error(err))
		os.Exit(1)
	}
	opts, err := constraintOptions(profile)
	if err != nil {
		logger.Error("explain failed", zap.Error(err))
		os.Exit(1)
	}
	set, err := constraints.Compile(m, opts)
	if err != nil {
		logger.Error("explain failed", zap.Error(err))
		os.Exit(1)
	}

	conflicts := search.ConflictRefine(func(candidate *constraints.Set) bool {
		e, ds, ok := search.NewEngine(m, candidate)
		return ok && e.Propagate(ds)
	}, set)

	if len(conflicts) == 0 {
		fmt.Println("no conflicts found by propagation alone; model may still be infeasible under full search")
		return
	}
	fmt.Println("minimal conflict set:")
	for _, id := range conflicts {
		fmt.Println(" -", id)
	}
}

// constraintOptions translates the profile's per-run constraint rules
// into the Constraint Compiler's option set, dropping rules tagged for
// the other semester.
func constraintOptions(profile config.Profile) (constraints.Options, error) {
	var opts constraints.Options
	for _, r := range profile.Unavailability {
		if !config.AppliesTo(r.Quadri, profile.Quadri) {
			continue
		}
		opts.Unavailability = append(opts.Unavailability, constraints.UnavailabilitySpec{
			Group:    r.Group,
			DayStart: r.Day,
			SlotLo:   r.SlotLo,
			SlotHi:   r.SlotHi,
		})
	}
	for _, r := range profile.FixedSlots {
		if !config.AppliesTo(r.Quadri, profile.Quadri) {
			continue
		}
		kind, err := parseKind(r.Kind)
		if err != nil {
			return constraints.Options{}, err
		}
		opts.FixedSlots = append(opts.FixedSlots, constraints.FixedPlacementSpec{
			ActivityCode: r.Activity,
			Kind:         kind,
			Section:      r.Section,
			LessonIndex:  r.Lesson,
			Day:          r.Day,
			Slot:         r.Slot,
		})
	}
	for _, r := range profile.Simultaneous {
		if !config.AppliesTo(r.Quadri, profile.Quadri) {
			continue
		}
		kind, err := parseKind(r.Kind)
		if err != nil {
			return constraints.Options{}, err
		}
		opts.Simultaneous = append(opts.Simultaneous, constraints.SimultaneitySpec{
			ActivityA: r.ActivityA,
			KindA:     kind,
			SectionA:  r.Section,
			ActivityB: r.ActivityB,
			KindB:     kind,
			SectionB:  r.Section,
		})
	}
	return opts, nil
}

func parseKind(s string) (model.Kind, error) {
	switch s {
	case "lecture":
		return model.KindLecture, nil
	case "exercise":
		return model.KindExercise, nil
	case "lab":
		return model.KindLab, nil
	case "project":
		return model.KindProject, nil
	default:
		return 0, fmt.Errorf("unknown activity kind %q", s)
	}
}

func writeEnvelope(env solution.Envelope) {
	f, err := os.Create(outPath)
	if err != nil {
		logger.Error("failed to create output file", zap.Error(err))
		os.Exit(1)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		logger.Error("failed to write solution envelope", zap.Error(err))
		os.Exit(1)
	}
}
