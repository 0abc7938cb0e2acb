package epub

import (
	"fmt"
	"strings"

	"github.com/novelbind/novelbind/pkg/novel"
	"github.com/novelbind/novelbind/pkg/xmlbuilder"
)

// defaultStylesheet is embedded into every package at OEBPS/stylesheet.css.
// Per-package additions come from Options.ExtraCSS.
const defaultStylesheet = `body {
  margin: 2% 4%;
  font-family: serif;
  line-height: 1.4;
}

h1, h2, h3 {
  text-align: center;
}

p {
  text-indent: 1.25em;
  margin: 0.2em 0;
}

img {
  max-width: 100%;
}

.novelbind-titlepage h3 {
  margin-top: 3em;
}

.novelbind-chapter-source {
  font-size: 0.8em;
  text-align: center;
}
`

func generateStylesheet(pkg *Package) ([]byte, error) {
	data := defaultStylesheet
	if pkg.Options.ExtraCSS != "" {
		data += "\n\n" + pkg.Options.ExtraCSS
	}
	return []byte(data), nil
}

// generateTitlePage builds the opening page naming the novel, linking back
// to its source, and carrying the summary when one is known.
func generateTitlePage(pkg *Package) ([]byte, error) {
	n := pkg.Novel
	titlePage, err := pkg.files.Get(FileIDTitlePage)
	if err != nil {
		return nil, err
	}
	style, err := pkg.files.Get(FileIDStylesheet)
	if err != nil {
		return nil, err
	}

	title := xmlbuilder.EscapeText(n.Title)
	headTitle := title
	byline := ""
	if n.Author != nil && n.Author.Name != "" {
		author := xmlbuilder.EscapeText(n.Author.Name)
		headTitle = fmt.Sprintf("%s by %s", title, author)
		byline = " by " + author
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\">\n")
	b.WriteString("  <head>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", headTitle)
	fmt.Fprintf(&b, "    <link href=\"%s\" type=\"text/css\" rel=\"stylesheet\"/>\n",
		relativeTo(titlePage.Filename, style.Filename))
	b.WriteString("  </head>\n")
	b.WriteString("  <body class=\"novelbind-titlepage\">\n")
	fmt.Fprintf(&b, "    <h3><a href=\"%s\">%s</a>%s</h3>\n",
		escapeAttrText(n.URL), title, byline)
	b.WriteString("    <div><br /></div>\n")
	if summary := pkg.summaryText(); summary != "" {
		b.WriteString("    <div class=\"novelbind-summary\">\n")
		for _, para := range strings.Split(summary, "\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			fmt.Fprintf(&b, "      <p>%s</p>\n", xmlbuilder.EscapeText(para))
		}
		b.WriteString("    </div>\n")
	}
	b.WriteString("  </body>\n")
	b.WriteString("</html>")
	return []byte(b.String()), nil
}

// generateCoverPage builds the page that displays the cover image full size.
func generateCoverPage(pkg *Package) ([]byte, error) {
	cover := pkg.CoverImage()
	if cover == nil {
		return nil, &NotFoundError{ID: "cover image"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<html xmlns=\"http://www.w3.org/1999/xhtml\" xml:lang=\"%s\">\n", pkg.Options.LanguageCode)
	b.WriteString("<head>\n")
	b.WriteString("  <title>Cover</title>\n")
	b.WriteString("  <style type=\"text/css\" title=\"override_css\">\n")
	b.WriteString("    @page { padding: 0pt; margin: 0pt }\n")
	b.WriteString("    body { text-align: center; padding: 0pt; margin: 0pt; }\n")
	b.WriteString("    div { margin: 0pt; padding: 0pt; }\n")
	b.WriteString("  </style>\n")
	b.WriteString("</head>\n")
	b.WriteString("<body class=\"novelbind-coverpage\">\n")
	fmt.Fprintf(&b, "  <div><img src=\"%s\" alt=\"cover\"/></div>\n", cover.Filename)
	b.WriteString("</body>\n")
	b.WriteString("</html>")
	return []byte(b.String()), nil
}

// generateTOCPage builds the in-book table of contents page, linking every
// reader-facing page in reading order.
func generateTOCPage(pkg *Package) ([]byte, error) {
	tocPage, err := pkg.files.Get(FileIDTOCPage)
	if err != nil {
		return nil, err
	}
	style, err := pkg.files.Get(FileIDStylesheet)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\">\n")
	b.WriteString("  <head>\n")
	b.WriteString("    <title>Table of Contents</title>\n")
	fmt.Fprintf(&b, "    <link href=\"%s\" type=\"text/css\" rel=\"stylesheet\"/>\n",
		relativeTo(tocPage.Filename, style.Filename))
	b.WriteString("  </head>\n")
	b.WriteString("  <body class=\"novelbind-tocpage\">\n")
	b.WriteString("    <h2>Table of Contents</h2>\n")
	b.WriteString("    <ul>\n")
	for _, f := range pkg.tocFiles() {
		if f.ID == FileIDTOCPage {
			continue
		}
		fmt.Fprintf(&b, "      <li><a href=\"%s\">%s</a></li>\n",
			relativeTo(tocPage.Filename, f.Filename), xmlbuilder.EscapeText(f.Title))
	}
	b.WriteString("    </ul>\n")
	b.WriteString("  </body>\n")
	b.WriteString("</html>")
	return []byte(b.String()), nil
}

// chapterGenerator returns the generator for one chapter page. The chapter
// content is trusted markup from the scraper pipeline and is embedded
// verbatim, except for image placeholders in the form IMAGE:{file_id} which
// are rewritten to the image's archive location.
func chapterGenerator(fileID string, ch novel.Chapter) Generator {
	return func(pkg *Package) ([]byte, error) {
		chFile, err := pkg.files.Get(fileID)
		if err != nil {
			return nil, err
		}
		style, err := pkg.files.Get(FileIDStylesheet)
		if err != nil {
			return nil, err
		}

		content := ch.Content
		if pkg.Options.IncludeImages {
			for _, img := range pkg.images.Images() {
				content = strings.ReplaceAll(content,
					"IMAGE:"+img.ID, relativeTo(chFile.Filename, img.Filename))
			}
		}

		var b strings.Builder
		b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
		b.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\">\n")
		b.WriteString("  <head>\n")
		fmt.Fprintf(&b, "    <title>%s</title>\n", xmlbuilder.EscapeText(ch.Title))
		fmt.Fprintf(&b, "    <link href=\"%s\" type=\"text/css\" rel=\"stylesheet\"/>\n",
			relativeTo(chFile.Filename, style.Filename))
		b.WriteString("  </head>\n")
		b.WriteString("  <body>\n")
		fmt.Fprintf(&b, "    <h2>%s</h2>\n", xmlbuilder.EscapeText(ch.Title))
		if ch.URL != "" {
			fmt.Fprintf(&b, "    <p class=\"novelbind-chapter-source\"><a href=\"%s\">%s</a></p>\n",
				escapeAttrText(ch.URL), escapeAttrText(ch.URL))
		}
		b.WriteString("    ")
		b.WriteString(content)
		b.WriteString("\n  </body>\n")
		b.WriteString("</html>")
		return []byte(b.String()), nil
	}
}

// escapeAttrText escapes a value used both as attribute and text content.
func escapeAttrText(s string) string {
	return strings.ReplaceAll(xmlbuilder.EscapeText(s), `"`, "&quot;")
}
