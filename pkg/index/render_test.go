package index

import (
	"strings"
	"testing"

	"github.com/kmdocs/helpsync/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPipeline_Deterministic(t *testing.T) {
	render := func() string {
		groups, err := ParseCatalog([]byte(catalogPayload))
		require.NoError(t, err)

		var sb strings.Builder
		sb.WriteString(RenderSetupIndex(groups))
		for _, group := range groups {
			sb.WriteString(RenderGroupIndex(group))
			for _, book := range group.Books {
				sb.WriteString(RenderBookIndex(group, book))
			}
		}
		return sb.String()
	}

	first := render()
	second := render()
	assert.Equal(t, first, second, "re-running the pipeline on unchanged bytes must be byte-identical")
}

func TestRenderSetupIndex(t *testing.T) {
	groups := []*catalog.BookGroup{
		{Name: "C# Docs"},
		{Name: "VB Docs", Books: []*catalog.Book{{Name: "Hidden", Wanted: false}}},
	}

	out := RenderSetupIndex(groups)

	assert.Contains(t, out, `<body class="product-list">`)
	assert.Contains(t, out, `href="C__Docs.group.html"`)
	assert.Contains(t, out, "C# Docs", "display names keep their original characters")
	assert.Contains(t, out, `href="VB_Docs.group.html"`, "unwanted books never hide their group")
}

func TestRenderGroupIndex_ListsEveryBook(t *testing.T) {
	group := &catalog.BookGroup{
		Name: "Docs",
		Books: []*catalog.Book{
			{Name: "Wanted", Category: "A", Description: "yes", Wanted: true},
			{Name: "Unwanted", Category: "B", Description: "no", Wanted: false},
		},
	}

	out := RenderGroupIndex(group)

	assert.Contains(t, out, `href="Wanted.book.html"`)
	assert.Contains(t, out, `href="Unwanted.book.html"`, "selection state never affects the group index")
	assert.Contains(t, out, `<span class="category">B</span>`)
}

func TestRenderBookIndex_ReferencesPackagesDir(t *testing.T) {
	groups, err := ParseCatalog([]byte(catalogPayload))
	require.NoError(t, err)

	out := RenderBookIndex(groups[0], groups[0].Books[0])

	assert.Contains(t, out, `href="Packages/A.cab"`)
	assert.Contains(t, out, `href="Packages/B.cab"`)
	assert.Contains(t, out, `<span class="package-size-bytes">500000</span>`)
	assert.Contains(t, out, "2024-03-01T10:20:30.5Z")
}

func TestFileNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"package_with_ext", PackageFileName(&catalog.Package{Name: "A.cab"}), "A.cab"},
		{"package_without_ext", PackageFileName(&catalog.Package{Name: "Intro"}), "Intro.cab"},
		{"package_sanitized", PackageFileName(&catalog.Package{Name: "vs docs/üne.cab"}), "vs_docs__ne.cab"},
		{"book", BookFileName(&catalog.Book{Name: "C# Intro"}), "C__Intro.book.html"},
		{"group", GroupFileName(&catalog.BookGroup{Name: "C# Docs"}), "C__Docs.group.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestFileNames_Deterministic(t *testing.T) {
	pkg := &catalog.Package{Name: "Some Package Name"}
	assert.Equal(t, PackageFileName(pkg), PackageFileName(pkg))
}
