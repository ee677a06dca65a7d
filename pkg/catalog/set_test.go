package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageSet_FirstWriteWins(t *testing.T) {
	first := &Package{Name: "Foo.cab", Link: "packages/foo.cab", Size: 100}
	second := &Package{Name: "FOO.CAB", Link: "packages/other.cab", Size: 999}

	set := NewPackageSet()
	assert.True(t, set.Add(first))
	assert.False(t, set.Add(second), "duplicate key must be dropped")

	require.Equal(t, 1, set.Len())

	got, ok := set.Get("foo.CAB")
	require.True(t, ok)
	assert.Same(t, first, got, "the first occurrence wins, link/size of later duplicates are ignored")
}

func TestPackageSet_InsertionOrder(t *testing.T) {
	set := NewPackageSet()
	names := []string{"B.cab", "A.cab", "C.cab"}
	for _, name := range names {
		set.Add(&Package{Name: name})
	}

	var got []string
	for _, pkg := range set.Packages() {
		got = append(got, pkg.Name)
	}
	assert.Equal(t, names, got)
}

func TestPackageSet_Contains(t *testing.T) {
	set := NewPackageSet()
	set.Add(&Package{Name: "Intro_A.cab"})

	assert.True(t, set.Contains("intro_a.CAB"))
	assert.False(t, set.Contains("Other.cab"))
}

func TestPackageState_String(t *testing.T) {
	tests := []struct {
		state PackageState
		want  string
	}{
		{StateNotDownloaded, "not-downloaded"},
		{StateOutOfDate, "out-of-date"},
		{StateReady, "ready"},
		{PackageState(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestPackageState_NeedsDownload(t *testing.T) {
	assert.True(t, StateNotDownloaded.NeedsDownload())
	assert.True(t, StateOutOfDate.NeedsDownload())
	assert.False(t, StateReady.NeedsDownload())
}

func TestPackage_Key(t *testing.T) {
	pkg := &Package{Name: "Mixed_Case.cab", LastModified: time.Now()}
	assert.Equal(t, "MIXED_CASE.CAB", pkg.Key())
	assert.True(t, SameName("a.cab", "A.CAB"))
	assert.False(t, SameName("a.cab", "b.cab"))
}
