package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDomainClampsToTotal(t *testing.T) {
	d := NewDomain(-2, 100, 10)
	assert.Equal(t, 0, d.Lo())
	assert.Equal(t, 9, d.Hi())
	assert.Equal(t, 10, d.Size())
}

func TestDomainRemoveUpdatesBounds(t *testing.T) {
	d := NewDomain(0, 4, 10)
	assert.True(t, d.Remove(0))
	assert.Equal(t, 1, d.Lo())
	assert.True(t, d.Remove(4))
	assert.Equal(t, 3, d.Hi())
	assert.Equal(t, 3, d.Size())
}

func TestDomainRemoveRangePunchesHole(t *testing.T) {
	d := NewDomain(0, 9, 10)
	d.RemoveRange(3, 6)
	assert.False(t, d.Allows(3))
	assert.False(t, d.Allows(6))
	assert.True(t, d.Allows(2))
	assert.True(t, d.Allows(7))
	assert.Equal(t, 6, d.Size())
}

func TestDomainFixNarrowsToSingleton(t *testing.T) {
	d := NewDomain(0, 9, 10)
	ok := d.Fix(5)
	assert.True(t, ok)
	s, isSingleton := d.Singleton()
	assert.True(t, isSingleton)
	assert.Equal(t, 5, s)
}

func TestDomainFixOnDisallowedStartWipesOut(t *testing.T) {
	d := NewDomain(0, 9, 10)
	d.Remove(5)
	ok := d.Fix(5)
	assert.False(t, ok)
	assert.True(t, d.IsEmpty())
}

func TestDomainCloneIsIndependent(t *testing.T) {
	d := NewDomain(0, 9, 10)
	cp := d.Clone()
	cp.Remove(0)
	assert.True(t, d.Allows(0))
	assert.False(t, cp.Allows(0))
}

func TestDomainsSnapshotDeepCopies(t *testing.T) {
	ds := Domains{NewDomain(0, 9, 10)}
	snap := ds.Snapshot()
	snap[0].Remove(0)
	assert.True(t, ds[0].Allows(0))
	assert.False(t, snap[0].Allows(0))
}
