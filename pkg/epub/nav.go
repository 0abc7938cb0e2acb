package epub

import (
	"fmt"
	"path"
	"strings"

	"github.com/novelbind/novelbind/pkg/xmlbuilder"
)

// relativeTo rewrites an archive path so it resolves from the directory of
// the referencing file. Archive paths always use forward slashes.
func relativeTo(fromFile, target string) string {
	dir := path.Dir(fromFile)
	if dir == "." || dir == "" {
		return target
	}
	prefix := dir + "/"
	if strings.HasPrefix(target, prefix) {
		return strings.TrimPrefix(target, prefix)
	}
	ups := strings.Count(dir, "/") + 1
	return strings.Repeat("../", ups) + target
}

// tocFiles returns the reader-facing pages in reading order: cover page
// first when present, then the title page, the TOC page, and the chapters.
// Archive order differs (the cover page sits with the images), so the order
// is fixed here rather than taken from the registry.
func (pkg *Package) tocFiles() []*File {
	var out []*File
	for _, id := range []string{FileIDCoverPage, FileIDTitlePage, FileIDTOCPage} {
		if f, err := pkg.files.Get(id); err == nil {
			out = append(out, f)
		}
	}
	for _, f := range pkg.files.Files() {
		if f.Kind == KindChapter {
			out = append(out, f)
		}
	}
	return out
}

// generateNCX builds toc.ncx, the EPUB 2 navigation file. EPUB 3 readers
// ignore it in favor of nav.xhtml but it is carried for both versions.
func generateNCX(pkg *Package) ([]byte, error) {
	doc := xmlbuilder.NewDocument("ncx")
	doc.Root.SetAttr("version", "2005-1")
	doc.Root.SetAttr("xmlns", "http://www.daisy.org/z3986/2005/ncx/")

	head := xmlbuilder.CreateElement(doc.Root, "head", "")
	docTitle := xmlbuilder.CreateElement(doc.Root, "docTitle", "")
	navMap := xmlbuilder.CreateElement(doc.Root, "navMap", "")

	headMeta := func(name, content string) {
		xmlbuilder.CreateElement(head, "meta", "",
			xmlbuilder.Attr{Name: "name", Value: name},
			xmlbuilder.Attr{Name: "content", Value: content},
		)
	}
	headMeta("dtb:uid", pkg.UID())
	headMeta("dtb:depth", "1")
	headMeta("dtb:totalPageCount", "0")
	headMeta("dtb:maxPageNumber", "0")

	xmlbuilder.CreateElement(docTitle, "text", pkg.Novel.Title)

	ncx, err := pkg.files.Get(FileIDNCX)
	if err != nil {
		return nil, err
	}
	for i, f := range pkg.tocFiles() {
		navPoint := xmlbuilder.CreateElement(navMap, "navPoint", "",
			xmlbuilder.Attr{Name: "id", Value: f.ID},
			xmlbuilder.Attr{Name: "playOrder", Value: fmt.Sprintf("%d", i)},
		)
		navLabel := xmlbuilder.CreateElement(navPoint, "navLabel", "")
		xmlbuilder.CreateElement(navLabel, "text", f.Title)
		xmlbuilder.CreateElement(navPoint, "content", "",
			xmlbuilder.Attr{Name: "src", Value: relativeTo(ncx.Filename, f.Filename)})
	}
	return doc.Bytes(), nil
}

// generateNavXHTML builds nav.xhtml, the EPUB 3 navigation document. It
// lists the same pages as the NCX, as an epub:type="toc" ordered list.
func generateNavXHTML(pkg *Package) ([]byte, error) {
	nav, err := pkg.files.Get(FileIDNav)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\" xmlns:epub=\"http://www.idpf.org/2007/ops\"")
	fmt.Fprintf(&b, " lang=\"%s\" xml:lang=\"%s\">\n", pkg.Options.LanguageCode, pkg.Options.LanguageCode)
	b.WriteString("<head>\n")
	fmt.Fprintf(&b, "  <title>%s</title>\n", xmlbuilder.EscapeText(pkg.Novel.Title))
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString("  <nav epub:type=\"toc\" id=\"toc\">\n")
	b.WriteString("    <ol>\n")
	for _, f := range pkg.tocFiles() {
		fmt.Fprintf(&b, "      <li><a href=\"%s\">%s</a></li>\n",
			relativeTo(nav.Filename, f.Filename), xmlbuilder.EscapeText(f.Title))
	}
	b.WriteString("    </ol>\n")
	b.WriteString("  </nav>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>")
	return []byte(b.String()), nil
}
