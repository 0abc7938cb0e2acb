package epub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelbind/novelbind/pkg/novel"
)

func TestGenerateTitlePage(t *testing.T) {
	t.Parallel()
	pkg := New(&novel.Novel{
		URL:     "https://example.com/novel/my-test-novel/",
		NovelID: "my-test-novel",
		SiteID:  "example.com",
		Title:   "My Test Novel",
		Author:  &novel.Person{Name: "Johnny B. Goode"},
	}, NewOptions())

	data, err := generateTitlePage(pkg)
	require.NoError(t, err)
	assert.Equal(t,
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"+
			"<html xmlns=\"http://www.w3.org/1999/xhtml\">\n"+
			"  <head>\n"+
			"    <title>My Test Novel by Johnny B. Goode</title>\n"+
			"    <link href=\"stylesheet.css\" type=\"text/css\" rel=\"stylesheet\"/>\n"+
			"  </head>\n"+
			"  <body class=\"novelbind-titlepage\">\n"+
			"    <h3><a href=\"https://example.com/novel/my-test-novel/\">My Test Novel</a> by Johnny B. Goode</h3>\n"+
			"    <div><br /></div>\n"+
			"  </body>\n"+
			"</html>",
		string(data))
}

func TestGenerateTitlePageWithoutAuthor(t *testing.T) {
	t.Parallel()
	pkg := New(&novel.Novel{
		URL:     "https://example.com/novel/my-test-novel/",
		NovelID: "my-test-novel",
		SiteID:  "example.com",
		Title:   "My Test Novel",
	}, NewOptions())

	data, err := generateTitlePage(pkg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>My Test Novel</title>")
	assert.Contains(t, string(data),
		"<h3><a href=\"https://example.com/novel/my-test-novel/\">My Test Novel</a></h3>")
	assert.NotContains(t, string(data), " by ")
}

func TestGenerateTitlePageWithSummary(t *testing.T) {
	t.Parallel()
	pkg := New(&novel.Novel{
		URL:         "https://example.com/novel/my-test-novel/",
		NovelID:     "my-test-novel",
		SiteID:      "example.com",
		Title:       "My Test Novel",
		Summary:     "<p>First paragraph.</p><p>Second one.</p>",
		SummaryKind: novel.SummaryHTML,
	}, NewOptions())

	data, err := generateTitlePage(pkg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<div class=\"novelbind-summary\">")
	assert.Contains(t, string(data), "<p>First paragraph.</p>")
	assert.Contains(t, string(data), "<p>Second one.</p>")
}

func TestGenerateCoverPage(t *testing.T) {
	t.Parallel()
	pkg := New(&novel.Novel{
		URL:     "https://example.com/novel-name",
		NovelID: "novel-name",
		SiteID:  "example.com",
		Title:   "Novel Name",
	}, NewOptions())

	_, err := pkg.AddImage(testImage("image/png"), true)
	require.NoError(t, err)

	data, err := generateCoverPage(pkg)
	require.NoError(t, err)
	assert.Equal(t,
		"<html xmlns=\"http://www.w3.org/1999/xhtml\" xml:lang=\"en\">\n"+
			"<head>\n"+
			"  <title>Cover</title>\n"+
			"  <style type=\"text/css\" title=\"override_css\">\n"+
			"    @page { padding: 0pt; margin: 0pt }\n"+
			"    body { text-align: center; padding: 0pt; margin: 0pt; }\n"+
			"    div { margin: 0pt; padding: 0pt; }\n"+
			"  </style>\n"+
			"</head>\n"+
			"<body class=\"novelbind-coverpage\">\n"+
			"  <div><img src=\"OEBPS/image000.png\" alt=\"cover\"/></div>\n"+
			"</body>\n"+
			"</html>",
		string(data))
}

func TestGenerateCoverPageWithoutCover(t *testing.T) {
	t.Parallel()
	pkg := New(&novel.Novel{
		URL:     "https://example.com/novel-name",
		NovelID: "novel-name",
		SiteID:  "example.com",
		Title:   "Novel Name",
	}, NewOptions())

	_, err := generateCoverPage(pkg)
	require.Error(t, err)
}

func TestChapterPageRewritesImagePlaceholders(t *testing.T) {
	t.Parallel()
	pkg := New(&novel.Novel{
		URL:     "https://example.com/novel-name",
		NovelID: "novel-name",
		SiteID:  "example.com",
		Title:   "Novel Name",
	}, NewOptions())

	id, err := pkg.AddImage(testImage("image/png"), false)
	require.NoError(t, err)

	pkg.AddChapter(novel.Chapter{
		URL:     "https://example.com/novel-name/chapter-1",
		Title:   "Chapter 1",
		Content: "<p>Look:</p><img src=\"IMAGE:" + id + "\"/>",
	})

	f, err := pkg.files.Get("ch00000")
	require.NoError(t, err)
	require.NoError(t, f.Generate(pkg))

	data, err := f.Data()
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h2>Chapter 1</h2>")
	assert.Contains(t, string(data), "<img src=\"image000.png\"/>")
	assert.NotContains(t, string(data), "IMAGE:")
}

func TestStylesheetIncludesExtraCSS(t *testing.T) {
	t.Parallel()
	opts := NewOptions()
	opts.ExtraCSS = "p { color: red; }"
	pkg := New(&novel.Novel{
		URL:     "https://example.com/novel-name",
		NovelID: "novel-name",
		SiteID:  "example.com",
		Title:   "Novel Name",
	}, opts)

	data, err := generateStylesheet(pkg)
	require.NoError(t, err)
	assert.Contains(t, string(data), defaultStylesheet)
	assert.Contains(t, string(data), "\n\np { color: red; }")
}
