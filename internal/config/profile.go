// Package config holds the Parameter Profile: a single immutable record
// describing the time grid and search knobs for one scheduling run.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Profile is the flat, immutable configuration record for one run. It
// is constructed once and passed by reference from the variable builder
// through to the search core.
type Profile struct {
	Weeks       int `mapstructure:"weeks" validate:"required,gt=0"`
	Days        int `mapstructure:"days" validate:"required,gt=0"`
	Slots       int `mapstructure:"slots" validate:"required,gt=0"`
	SegmentSize int `mapstructure:"segmentSize" validate:"required,gt=0"`

	// RoundUp selects ceil (true) or floor (false) when converting true
	// lesson counts into a multiple of SegmentSize.
	RoundUp bool `mapstructure:"roundUp"`

	// Cursus maps cursus name to whether it is enabled for this run.
	Cursus map[string]bool `mapstructure:"cursus"`

	Quadri string `mapstructure:"quadri"`

	// GroupAuto selects the greedy longest-processing-time-first division
	// balancer (true) or round-robin (false) in the Group Registry.
	GroupAuto bool `mapstructure:"groupAuto"`

	// TimeBudget is the search wall-clock allowance.
	TimeBudget time.Duration `mapstructure:"timeBudget" validate:"required,gt=0"`

	// Workers is the number of search goroutines fanned out by the Search
	// Core. Zero means "use runtime.NumCPU()".
	Workers int `mapstructure:"workers" validate:"gte=0"`

	// Seed makes the worker pool's branch diversification reproducible.
	Seed int64 `mapstructure:"seed"`

	// EnforceWeekBounds controls whether desiderata week ends are
	// enforced as a hard upper bound on start. Defaults to true.
	EnforceWeekBounds bool `mapstructure:"enforceWeekBounds"`

	// ExtraPenalties toggles the supplemental objective terms. Disabling
	// all of them leaves only the afternoon-lecture and last-slot-exercise
	// penalties.
	ExtraPenalties ExtraPenalties `mapstructure:"extraPenalties"`

	// LanguageCourses lists the course codes excluded from the
	// last-slot-exercise penalty.
	LanguageCourses []string `mapstructure:"languageCourses"`

	// Unavailability, FixedSlots and Simultaneous carry the explicit
	// per-run constraint rules that the dataset itself does not: reserved
	// cursus slots, pinned placements, and forced simultaneity. Rules with
	// a Quadri tag apply only when it matches the profile's Quadri.
	Unavailability []UnavailabilityRule `mapstructure:"unavailability" validate:"omitempty,dive"`
	FixedSlots     []FixedSlotRule      `mapstructure:"fixedSlots" validate:"omitempty,dive"`
	Simultaneous   []SimultaneityRule   `mapstructure:"simultaneous" validate:"omitempty,dive"`
}

// ExtraPenalties gates each supplemental penalty term individually.
type ExtraPenalties struct {
	RoomCount   bool `mapstructure:"roomCount"`
	DayBalance  bool `mapstructure:"dayBalance"`
	TeacherGaps bool `mapstructure:"teacherGaps"`
}

// UnavailabilityRule reserves a slot range of one day, every segment,
// for a group (e.g. "BA1-A is unavailable Wednesday afternoon").
type UnavailabilityRule struct {
	Group  string `mapstructure:"group" validate:"required"`
	Day    int    `mapstructure:"day" validate:"gte=0"`
	SlotLo int    `mapstructure:"slotLo" validate:"gte=0"`
	SlotHi int    `mapstructure:"slotHi" validate:"gte=0"`
	Quadri string `mapstructure:"quadri"`
}

// FixedSlotRule pins one lesson of an activity's section to a (day,
// slot) pair. Kind is one of "lecture", "exercise", "lab", "project".
type FixedSlotRule struct {
	Activity string `mapstructure:"activity" validate:"required"`
	Kind     string `mapstructure:"kind" validate:"required,oneof=lecture exercise lab project"`
	Section  int    `mapstructure:"section" validate:"gte=0"`
	Lesson   int    `mapstructure:"lesson" validate:"gte=0"`
	Day      int    `mapstructure:"day" validate:"gte=0"`
	Slot     int    `mapstructure:"slot" validate:"gte=0"`
	Quadri   string `mapstructure:"quadri"`
}

// SimultaneityRule forces two activities' same-kind sections to share
// their starts, lesson for lesson.
type SimultaneityRule struct {
	ActivityA string `mapstructure:"activityA" validate:"required"`
	ActivityB string `mapstructure:"activityB" validate:"required"`
	Kind      string `mapstructure:"kind" validate:"required,oneof=lecture exercise lab project"`
	Section   int    `mapstructure:"section" validate:"gte=0"`
	Quadri    string `mapstructure:"quadri"`
}

// AppliesTo reports whether a rule tagged with quadri applies to the
// given semester; an empty tag applies to both.
func AppliesTo(ruleQuadri, profileQuadri string) bool {
	return ruleQuadri == "" || ruleQuadri == profileQuadri
}

// TotalSlots is the number of unit slots in the segmented horizon.
func (p *Profile) TotalSlots() int {
	return p.Weeks * p.Days * p.Slots / p.SegmentSize
}

// SlotsPerSegment is D*S.
func (p *Profile) SlotsPerSegment() int {
	return p.Days * p.Slots
}

// Segments is the number of distinct segments in the horizon.
func (p *Profile) Segments() int {
	return p.TotalSlots() / p.SlotsPerSegment()
}

// Default returns a Profile with the usual semester shape: 12 weeks,
// 5 days, 4 slots, segments of 3 weeks.
func Default() Profile {
	return Profile{
		Weeks:             12,
		Days:              5,
		Slots:             4,
		SegmentSize:       3,
		RoundUp:           true,
		Cursus:            map[string]bool{},
		Quadri:            "Q1",
		GroupAuto:         false,
		TimeBudget:        3 * time.Minute,
		Workers:           0,
		Seed:              1,
		EnforceWeekBounds: true,
		ExtraPenalties: ExtraPenalties{
			RoomCount:   true,
			DayBalance:  true,
			TeacherGaps: true,
		},
	}
}

var validate = validator.New()

// Load reads a Parameter Profile from a YAML file, overridable by
// SCHED_-prefixed environment variables, on top of Default().
func Load(path string) (Profile, error) {
	profile := Default()

	v := viper.New()
	v.SetEnvPrefix("SCHED")
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Profile{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&profile); err != nil {
		return Profile{}, fmt.Errorf("config: decoding profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Validate checks the structural invariants a Profile must satisfy before
// it can be handed to the Variable Builder.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("config: invalid profile: %w", err)
	}
	if p.TotalSlots()*p.SegmentSize != p.Weeks*p.Days*p.Slots {
		return fmt.Errorf("config: segmentSize %d does not evenly divide weeks*days*slots", p.SegmentSize)
	}
	return nil
}
