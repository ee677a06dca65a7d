package cachefs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestEnsurePackagesDir(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "nested", "cache"))

	require.NoError(t, m.EnsurePackagesDir(testContext(t)))

	info, err := os.Stat(m.PackagesDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRemoveIndexFiles(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)
	ctx := testContext(t)

	for _, name := range []string{
		"HelpContentSetup.msha",
		"CSharp.group.html",
		"Intro.book.html",
		"unrelated.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, m.EnsurePackagesDir(ctx))
	kept := filepath.Join(m.PackagesDir(), "A.cab")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0644))

	require.NoError(t, m.RemoveIndexFiles(ctx))

	assert.NoFileExists(t, filepath.Join(dir, "HelpContentSetup.msha"))
	assert.NoFileExists(t, filepath.Join(dir, "CSharp.group.html"))
	assert.NoFileExists(t, filepath.Join(dir, "Intro.book.html"))
	assert.FileExists(t, filepath.Join(dir, "unrelated.txt"))
	assert.FileExists(t, kept, "Packages/ content survives index cleanup")
}

func TestWriteIndexFile_Atomic(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)
	ctx := testContext(t)

	require.NoError(t, m.WriteIndexFile(ctx, "HelpContentSetup.msha", "first"))
	require.NoError(t, m.WriteIndexFile(ctx, "HelpContentSetup.msha", "second"))

	content, err := os.ReadFile(filepath.Join(dir, "HelpContentSetup.msha"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
	assert.NoFileExists(t, filepath.Join(dir, "HelpContentSetup.msha.tmp"))
}

func TestPruneOrphans(t *testing.T) {
	m := New(t.TempDir())
	ctx := testContext(t)
	require.NoError(t, m.EnsurePackagesDir(ctx))

	for _, name := range []string{"Keep.cab", "Orphan.cab"} {
		require.NoError(t, os.WriteFile(m.PackagePath(name), []byte("x"), 0644))
	}

	removed, err := m.PruneOrphans(ctx, func(fileName string) bool {
		return strings.EqualFold(fileName, "KEEP.CAB")
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Orphan.cab"}, removed)
	assert.FileExists(t, m.PackagePath("Keep.cab"))
	assert.NoFileExists(t, m.PackagePath("Orphan.cab"))
}

func TestPruneOrphans_NoPackagesDir(t *testing.T) {
	m := New(t.TempDir())

	removed, err := m.PruneOrphans(testContext(t), func(string) bool { return true })
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestStampPackageTimes(t *testing.T) {
	m := New(t.TempDir())
	ctx := testContext(t)
	require.NoError(t, m.EnsurePackagesDir(ctx))
	require.NoError(t, os.WriteFile(m.PackagePath("A.cab"), []byte("x"), 0644))

	stamp := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)
	require.NoError(t, m.StampPackageTimes(ctx, "A.cab", stamp))

	info, err := os.Stat(m.PackagePath("A.cab"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))
}

func TestRemoveAll(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)
	ctx := testContext(t)

	require.NoError(t, m.EnsurePackagesDir(ctx))
	require.NoError(t, os.WriteFile(m.PackagePath("A.cab"), []byte("x"), 0644))
	require.NoError(t, m.WriteIndexFile(ctx, "HelpContentSetup.msha", "x"))

	require.NoError(t, m.RemoveAll(ctx))

	assert.NoFileExists(t, filepath.Join(dir, "HelpContentSetup.msha"))
	assert.NoDirExists(t, m.PackagesDir())
}
