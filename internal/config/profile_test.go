package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfileIsValid(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
}

func TestProfileTotalSlotsMatchesWorkedExample(t *testing.T) {
	p := Default()
	assert.Equal(t, 12*5*4/3, p.TotalSlots())
	assert.Equal(t, 4, p.Segments())
}

func TestValidateRejectsNonDivisibleSegmentSize(t *testing.T) {
	p := Default()
	p.SegmentSize = 7 // does not evenly divide 12*5*4
	err := p.Validate()
	require.Error(t, err)
}

func TestValidateRejectsZeroWeeks(t *testing.T) {
	p := Default()
	p.Weeks = 0
	require.Error(t, p.Validate())
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Weeks, p.Weeks)
}

func TestValidateRejectsMalformedFixedSlotRule(t *testing.T) {
	p := Default()
	p.FixedSlots = []FixedSlotRule{{Activity: "I-POLY-011", Kind: "seminar", Day: 4, Slot: 3}}
	require.Error(t, p.Validate())
}

func TestAppliesToMatchesQuadriOrEmpty(t *testing.T) {
	assert.True(t, AppliesTo("", "Q1"))
	assert.True(t, AppliesTo("Q1", "Q1"))
	assert.False(t, AppliesTo("Q2", "Q1"))
}
