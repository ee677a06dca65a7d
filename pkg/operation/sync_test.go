package operation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kmdocs/helpsync/pkg/cachefs"
	"github.com/kmdocs/helpsync/pkg/catalog"
	"github.com/kmdocs/helpsync/pkg/errdefs"
	"github.com/kmdocs/helpsync/pkg/progress"
	"github.com/kmdocs/helpsync/pkg/trust"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

// stubFetcher serves canned payloads and writes canned package content,
// honoring the per-file notification contract of the real transport.
type stubFetcher struct {
	localesPayload []byte
	catalogs       map[string][]byte // catalog link -> payload
	content        map[string][]byte // download link -> bytes
	downloads      []string          // links in download order
}

func (f *stubFetcher) FetchLocales(ctx context.Context, versionToken string) ([]byte, error) {
	if f.localesPayload == nil {
		return nil, errors.Errorf("%w: no locales payload", errdefs.ErrNetwork)
	}
	return f.localesPayload, nil
}

func (f *stubFetcher) FetchCatalog(ctx context.Context, catalogLink string) ([]byte, error) {
	payload, ok := f.catalogs[catalogLink]
	if !ok {
		return nil, errors.Errorf("%w: no catalog at %s", errdefs.ErrNetwork, catalogLink)
	}
	return payload, nil
}

func (f *stubFetcher) DownloadPackage(ctx context.Context, link, fileName, destPath string, sink progress.Sink) error {
	content, ok := f.content[link]
	if !ok {
		return errors.Errorf("%w: no package at %s", errdefs.ErrNetwork, link)
	}
	f.downloads = append(f.downloads, link)

	sink.FileProgress(progress.StartEvent(fileName))
	if err := os.WriteFile(destPath, content, 0644); err != nil {
		return errors.Errorf("%w: writing stub package: %w", errdefs.ErrFilesystem, err)
	}
	sink.FileProgress(progress.FileEvent{
		Filename:        fileName,
		Percent:         100,
		BytesDownloaded: int64(len(content)),
		BytesTotal:      int64(len(content)),
	})
	return nil
}

func newTestEngine(t *testing.T, fetcher *stubFetcher, cacheDir string, verifier trust.Verifier, sink progress.Sink) *Engine {
	t.Helper()
	engine, err := New(Options{
		Remote:   fetcher,
		Files:    cachefs.New(cacheDir),
		Verifier: verifier,
		Sink:     sink,
	})
	require.NoError(t, err)
	return engine
}

func introGroups(wanted bool) []*catalog.BookGroup {
	modTime := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)
	return []*catalog.BookGroup{{
		Name: "C# Docs",
		Books: []*catalog.Book{{
			Name:     "Intro",
			Category: "Languages",
			Wanted:   wanted,
			Packages: []*catalog.Package{
				{Name: "A.cab", Link: "packages/A.cab", Size: 500000, LastModified: modTime},
				{Name: "B.cab", Link: "packages/B.cab", Size: 100, LastModified: modTime},
			},
		}},
	}}
}

func introFetcher() *stubFetcher {
	return &stubFetcher{
		content: map[string][]byte{
			"packages/A.cab": []byte("content of A"),
			"packages/B.cab": []byte("content of B"),
		},
	}
}

func TestSyncBooks_EndToEnd(t *testing.T) {
	cacheDir := t.TempDir()
	rec := &progress.Recorder{}
	engine := newTestEngine(t, introFetcher(), cacheDir, trust.Static(true), rec)

	require.NoError(t, engine.SyncBooks(testContext(t), introGroups(true)))

	assert.FileExists(t, filepath.Join(cacheDir, "HelpContentSetup.msha"))
	assert.FileExists(t, filepath.Join(cacheDir, "C__Docs.group.html"))
	assert.FileExists(t, filepath.Join(cacheDir, "Intro.book.html"))
	assert.FileExists(t, filepath.Join(cacheDir, "Packages", "A.cab"))
	assert.FileExists(t, filepath.Join(cacheDir, "Packages", "B.cab"))

	assert.Equal(t, []int{50, 100}, rec.Overall())

	aEvents := rec.FilesFor("A.cab")
	require.NotEmpty(t, aEvents)
	assert.Equal(t, 0, aEvents[0].Percent)
	assert.Equal(t, 100, aEvents[len(aEvents)-1].Percent)
}

func TestSyncBooks_StampsRecordedTimestamp(t *testing.T) {
	cacheDir := t.TempDir()
	groups := introGroups(true)
	engine := newTestEngine(t, introFetcher(), cacheDir, trust.Static(true), nil)

	require.NoError(t, engine.SyncBooks(testContext(t), groups))

	info, err := os.Stat(filepath.Join(cacheDir, "Packages", "A.cab"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(groups[0].Books[0].Packages[0].LastModified))
	assert.Equal(t, catalog.StateReady, groups[0].Books[0].Packages[0].State)
}

func TestSyncBooks_DeduplicatesByCaseInsensitiveName(t *testing.T) {
	modTime := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	groups := []*catalog.BookGroup{{
		Name: "Docs",
		Books: []*catalog.Book{
			{
				Name:   "First",
				Wanted: true,
				Packages: []*catalog.Package{
					{Name: "Foo.cab", Link: "packages/Foo.cab", Size: 10, LastModified: modTime},
				},
			},
			{
				Name:   "Second",
				Wanted: true,
				Packages: []*catalog.Package{
					{Name: "FOO.CAB", Link: "packages/FOO.CAB", Size: 10, LastModified: modTime},
				},
			},
		},
	}}

	fetcher := &stubFetcher{content: map[string][]byte{
		"packages/Foo.cab": []byte("foo"),
		"packages/FOO.CAB": []byte("foo"),
	}}
	rec := &progress.Recorder{}
	engine := newTestEngine(t, fetcher, t.TempDir(), trust.Static(true), rec)

	require.NoError(t, engine.SyncBooks(testContext(t), groups))

	require.Len(t, fetcher.downloads, 1, "identical names must download at most once")
	assert.Equal(t, "packages/Foo.cab", fetcher.downloads[0], "first occurrence wins")
	assert.Equal(t, []int{100}, rec.Overall())
}

func TestSyncBooks_PrunesOrphans(t *testing.T) {
	cacheDir := t.TempDir()
	packagesDir := filepath.Join(cacheDir, "Packages")
	require.NoError(t, os.MkdirAll(packagesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(packagesDir, "Orphan.cab"), []byte("old"), 0644))

	engine := newTestEngine(t, introFetcher(), cacheDir, trust.Static(true), nil)
	require.NoError(t, engine.SyncBooks(testContext(t), introGroups(true)))

	assert.NoFileExists(t, filepath.Join(packagesDir, "Orphan.cab"))
	assert.FileExists(t, filepath.Join(packagesDir, "A.cab"))
}

func TestSyncBooks_UnwantedBooks(t *testing.T) {
	cacheDir := t.TempDir()
	fetcher := introFetcher()
	engine := newTestEngine(t, fetcher, cacheDir, trust.Static(true), nil)

	require.NoError(t, engine.SyncBooks(testContext(t), introGroups(false)))

	assert.FileExists(t, filepath.Join(cacheDir, "HelpContentSetup.msha"))
	assert.FileExists(t, filepath.Join(cacheDir, "C__Docs.group.html"), "group index is written regardless of selection")
	assert.NoFileExists(t, filepath.Join(cacheDir, "Intro.book.html"), "book index only exists for wanted books")
	assert.Empty(t, fetcher.downloads)
}

func TestSyncBooks_SkipsReadyPackages(t *testing.T) {
	cacheDir := t.TempDir()
	groups := introGroups(true)
	groups[0].Books[0].Packages[0].State = catalog.StateReady

	fetcher := introFetcher()
	rec := &progress.Recorder{}
	engine := newTestEngine(t, fetcher, cacheDir, trust.Static(true), rec)

	require.NoError(t, engine.SyncBooks(testContext(t), groups))

	assert.Equal(t, []string{"packages/B.cab"}, fetcher.downloads)
	assert.Equal(t, []int{50, 100}, rec.Overall(), "skipped packages still advance aggregate progress")
}

func TestSyncBooks_OutOfDatePackagesAreRefetched(t *testing.T) {
	cacheDir := t.TempDir()
	groups := introGroups(true)
	groups[0].Books[0].Packages[0].State = catalog.StateOutOfDate
	groups[0].Books[0].Packages[1].State = catalog.StateReady

	fetcher := introFetcher()
	engine := newTestEngine(t, fetcher, cacheDir, trust.Static(true), nil)

	require.NoError(t, engine.SyncBooks(testContext(t), groups))
	assert.Equal(t, []string{"packages/A.cab"}, fetcher.downloads)
}

func TestSyncBooks_IntegrityFailure(t *testing.T) {
	cacheDir := t.TempDir()
	fetcher := introFetcher()
	engine := newTestEngine(t, fetcher, cacheDir, trust.Static(false), nil)

	err := engine.SyncBooks(testContext(t), introGroups(true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrIntegrity))

	assert.NoFileExists(t, filepath.Join(cacheDir, "Packages", "A.cab"), "rejected download must be deleted")
	require.Len(t, fetcher.downloads, 1, "packages after the failure are not attempted")

	assert.FileExists(t, filepath.Join(cacheDir, "HelpContentSetup.msha"), "indices written before the failure stay in place")
}

func TestSyncBooks_ProgressMonotonic(t *testing.T) {
	modTime := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var pkgs []*catalog.Package
	content := map[string][]byte{}
	for _, name := range []string{"P1.cab", "P2.cab", "P3.cab"} {
		link := "packages/" + name
		pkgs = append(pkgs, &catalog.Package{Name: name, Link: link, Size: 4, LastModified: modTime})
		content[link] = []byte("data")
	}
	groups := []*catalog.BookGroup{{
		Name:  "Docs",
		Books: []*catalog.Book{{Name: "Book", Wanted: true, Packages: pkgs}},
	}}

	rec := &progress.Recorder{}
	engine := newTestEngine(t, &stubFetcher{content: content}, t.TempDir(), trust.Static(true), rec)

	require.NoError(t, engine.SyncBooks(testContext(t), groups))

	overall := rec.Overall()
	require.Len(t, overall, len(pkgs))
	prev := -1
	for _, p := range overall {
		assert.Greater(t, p, prev)
		prev = p
	}
	assert.Equal(t, 100, overall[len(overall)-1])
}

func TestSyncBooks_InvalidArguments(t *testing.T) {
	engine := newTestEngine(t, introFetcher(), t.TempDir(), trust.Static(true), nil)

	err := engine.SyncBooks(testContext(t), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"missing_remote", Options{Files: cachefs.New(t.TempDir()), Verifier: trust.Static(true)}},
		{"missing_files", Options{Remote: introFetcher(), Verifier: trust.Static(true)}},
		{"missing_verifier", Options{Remote: introFetcher(), Files: cachefs.New(t.TempDir())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
		})
	}
}
