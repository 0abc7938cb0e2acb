package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"

	"github.com/novelbind/novelbind/pkg/htmlutil"
	"github.com/novelbind/novelbind/pkg/novel"
)

// Options control how a package is assembled. The zero value is not usable
// directly; NewOptions fills in the defaults.
type Options struct {
	Version          string `json:"epub_version" default:"3.0"`
	PkgOPFPath       string `json:"pkg_opf_path,omitempty" default:"package.opf"`
	LanguageCode     string `json:"language_code,omitempty" default:"en"`
	IncludeTitlePage *bool  `json:"include_title_page,omitempty" default:"true"`
	IncludeTOCPage   *bool  `json:"include_toc_page,omitempty" default:"true"`
	IncludeImages    bool   `json:"include_images" default:"true"`
	ExtraCSS         string `json:"extra_css,omitempty"`
}

// NewOptions returns the default assembly options.
func NewOptions() Options {
	opts := Options{}
	if err := defaults.Set(&opts); err != nil {
		// Options only uses scalar defaults, which cannot fail to apply.
		panic(err)
	}
	return opts
}

func (o *Options) normalize() {
	def := NewOptions()
	if o.Version == "" {
		o.Version = def.Version
	}
	if o.PkgOPFPath == "" {
		o.PkgOPFPath = def.PkgOPFPath
	}
	if o.LanguageCode == "" {
		o.LanguageCode = def.LanguageCode
	}
	if o.IncludeTitlePage == nil {
		o.IncludeTitlePage = def.IncludeTitlePage
	}
	if o.IncludeTOCPage == nil {
		o.IncludeTOCPage = def.IncludeTOCPage
	}
}

// Package assembles one EPUB archive from a scraped novel. Fixed members
// (container, package document, navigation, stylesheet, metadata) are
// created once and kept for the package's lifetime; images and chapters
// accumulate through AddImage and AddChapter. Write produces the archive.
type Package struct {
	Novel   *novel.Novel
	Options Options

	files    *Registry
	images   *ImageRegistry
	chapters []*File
	uid      string
	log      logger.Logger

	mimetype  *File
	container *File
	opf       *File
	ncx       *File
	nav       *File
	style     *File
	metaJSON  *File
	titlePage *File
	tocPage   *File
	coverPage *File
}

// New returns a package for the given novel. Any chapters already attached
// to the novel are registered immediately.
func New(n *novel.Novel, opts Options) *Package {
	opts.normalize()

	pkg := &Package{
		Novel:   n,
		Options: opts,
		images:  NewImageRegistry(),
		uid:     buildUID(n),
		log:     logger.New(),
	}

	pkg.mimetype = NewFile(FileIDMimetype, "mimetype", "application/epub+zip", nil)
	pkg.mimetype.Method = zip.Store
	pkg.mimetype.payload = GeneratedPayload([]byte("application/epub+zip"))

	pkg.container = NewFile(FileIDContainer, "META-INF/container.xml", "application/xml", generateContainerXML)
	pkg.opf = NewFile(FileIDOPF, opts.PkgOPFPath, "application/oebps-package+xml", generatePackageOPF)
	pkg.ncx = NewFile(FileIDNCX, "toc.ncx", "application/x-dtbncx+xml", generateNCX)
	pkg.ncx.InManifest = true
	pkg.nav = NewFile(FileIDNav, "nav.xhtml", "application/xhtml+xml", generateNavXHTML)
	pkg.style = NewFile(FileIDStylesheet, "OEBPS/stylesheet.css", "text/css", generateStylesheet)
	pkg.style.InManifest = true
	pkg.metaJSON = NewFile(FileIDMetadata, MetadataFilename, "application/json", generateMetadataJSON)
	pkg.metaJSON.InManifest = true

	pkg.titlePage = NewFile(FileIDTitlePage, "OEBPS/title_page.xhtml", "application/xhtml+xml", generateTitlePage)
	pkg.titlePage.Title = "Title Page"
	pkg.titlePage.Kind = KindTitlePage
	pkg.titlePage.InManifest = true
	pkg.titlePage.InSpine = true

	pkg.tocPage = NewFile(FileIDTOCPage, "OEBPS/toc_page.xhtml", "application/xhtml+xml", generateTOCPage)
	pkg.tocPage.Title = "Table of Contents"
	pkg.tocPage.Kind = KindTOCPage
	pkg.tocPage.InManifest = true
	pkg.tocPage.InSpine = true

	for _, ch := range n.Chapters {
		pkg.appendChapterFile(ch)
	}

	pkg.declare()
	return pkg
}

func buildUID(n *novel.Novel) string {
	if n.SiteID != "" && n.NovelID != "" {
		return fmt.Sprintf("urn:novelbind:uid:%s:%s", n.SiteID, n.NovelID)
	}
	return "urn:novelbind:uid:" + uuid.NewString()
}

// UID returns the URN identifying this package.
func (pkg *Package) UID() string { return pkg.uid }

// IsEpub3 reports whether the package targets EPUB 3.x.
func (pkg *Package) IsEpub3() bool {
	major, _, _ := strings.Cut(pkg.Options.Version, ".")
	n, err := strconv.Atoi(major)
	return err == nil && n == 3
}

func (pkg *Package) opfPath() string { return pkg.Options.PkgOPFPath }

// CoverImage returns the cover image file, or nil when none is set.
func (pkg *Package) CoverImage() *File { return pkg.images.Cover() }

// Images returns the registered images in insertion order.
func (pkg *Package) Images() []*File { return pkg.images.Images() }

// summaryText returns the novel summary as plain text, stripping markup
// when the scraper delivered HTML.
func (pkg *Package) summaryText() string {
	if pkg.Novel.Summary == "" {
		return ""
	}
	if pkg.Novel.SummaryKind == novel.SummaryHTML {
		return htmlutil.StripTags(pkg.Novel.Summary)
	}
	return pkg.Novel.Summary
}

func chapterFileID(index int) string {
	return fmt.Sprintf("ch%05d", index)
}

func (pkg *Package) appendChapterFile(ch novel.Chapter) {
	index := len(pkg.chapters)
	id := chapterFileID(index)
	f := NewFile(
		id,
		fmt.Sprintf("OEBPS/chapter_%05d.xhtml", index),
		"application/xhtml+xml",
		chapterGenerator(id, ch),
	)
	f.Title = ch.Title
	f.Kind = KindChapter
	f.InManifest = true
	f.InSpine = true
	pkg.chapters = append(pkg.chapters, f)
}

// AddChapter appends a chapter to the package. Navigation and the package
// document are regenerated on the next build; already-generated chapter
// pages are untouched.
func (pkg *Package) AddChapter(ch novel.Chapter) {
	pkg.Novel.Chapters = append(pkg.Novel.Chapters, ch)
	pkg.appendChapterFile(ch)
	pkg.invalidateNavigation()
	pkg.declare()
}

// AddImage registers an already-fetched image and returns its allocated id.
// A cover image also brings the cover page into the package.
func (pkg *Package) AddImage(img novel.Image, isCover bool) (string, error) {
	id, err := pkg.images.Add(img, isCover)
	if err != nil {
		return "", err
	}
	if isCover && pkg.coverPage == nil {
		pkg.coverPage = NewFile(FileIDCoverPage, "cover.xhtml", "application/xhtml+xml", generateCoverPage)
		pkg.coverPage.Title = "Cover"
		pkg.coverPage.Kind = KindCoverPage
		pkg.coverPage.InManifest = true
		pkg.coverPage.InSpine = true
	}
	pkg.invalidateNavigation()
	pkg.declare()
	return id, nil
}

// invalidateNavigation resets the members whose content depends on package
// membership. The cover page is included because it renders whichever image
// is currently the cover. Chapter pages and images keep their bytes.
func (pkg *Package) invalidateNavigation() {
	pkg.opf.Invalidate()
	pkg.ncx.Invalidate()
	pkg.nav.Invalidate()
	pkg.tocPage.Invalidate()
	pkg.metaJSON.Invalidate()
	if pkg.coverPage != nil {
		pkg.coverPage.Invalidate()
	}
}

// declare rebuilds the member registry from the current membership. Fixed
// entities are reused, so payloads generated on a previous build survive.
// Registry order is archive order and also manifest and spine order.
func (pkg *Package) declare() {
	files := NewRegistry()
	add := func(f *File) {
		// Fixed entities have unique ids, so insertion cannot collide.
		if err := files.Insert(f); err != nil {
			panic(err)
		}
	}

	add(pkg.mimetype)
	add(pkg.container)
	add(pkg.opf)
	add(pkg.ncx)
	if pkg.IsEpub3() {
		add(pkg.nav)
	}
	add(pkg.style)
	add(pkg.metaJSON)

	if *pkg.Options.IncludeTitlePage {
		add(pkg.titlePage)
	}
	if *pkg.Options.IncludeTOCPage && len(pkg.chapters) > 1 {
		add(pkg.tocPage)
	}
	if pkg.Options.IncludeImages {
		for _, img := range pkg.images.Images() {
			add(img)
		}
		// The cover page sits after the images it references.
		if pkg.coverPage != nil && pkg.images.Cover() != nil {
			add(pkg.coverPage)
		}
	}
	for _, ch := range pkg.chapters {
		add(ch)
	}

	pkg.files = files
}

// Files returns the current archive members in archive order.
func (pkg *Package) Files() []*File {
	return pkg.files.Files()
}

// Manifest returns the manifest entries recorded into the embedded metadata.
func (pkg *Package) Manifest() []ManifestEntry {
	var entries []ManifestEntry
	for _, f := range pkg.files.Files() {
		if !f.InManifest {
			continue
		}
		entries = append(entries, ManifestEntry{
			ID:        f.ID,
			Filename:  f.Filename,
			MediaType: f.MediaType,
			Title:     f.Title,
		})
	}
	return entries
}

// GetContainerXML generates and returns the container.xml bytes.
func (pkg *Package) GetContainerXML() ([]byte, error) {
	return generateContainerXML(pkg)
}

// GetPackageOPF generates and returns the package document bytes.
func (pkg *Package) GetPackageOPF() ([]byte, error) {
	return generatePackageOPF(pkg)
}

// generateAll fills in every pending payload for the current membership.
func (pkg *Package) generateAll() error {
	pkg.declare()
	for _, f := range pkg.files.Files() {
		if err := f.Generate(pkg); err != nil {
			return err
		}
	}
	return nil
}

// Write streams the archive. The mimetype entry is written first and
// stored uncompressed, which is what makes the output identifiable as an
// EPUB by the leading bytes alone.
func (pkg *Package) Write(w io.Writer) error {
	if err := pkg.generateAll(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, f := range pkg.files.Files() {
		data, err := f.Data()
		if err != nil {
			return errors.WithMessagef(err, "writing %q", f.ID)
		}
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:   f.Filename,
			Method: f.Method,
		})
		if err != nil {
			return errors.WithStack(err)
		}
		if _, err := entry.Write(data); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(zw.Close())
}

// WriteFile writes the archive to path atomically: the bytes go to a
// temporary file in the same directory and are renamed into place, so a
// failed build never clobbers an existing epub.
func (pkg *Package) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".novelbind-*.epub")
	if err != nil {
		return errors.WithStack(err)
	}
	defer os.Remove(tmp.Name())

	if err := pkg.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WithStack(err)
	}

	pkg.log.Info("wrote epub", logger.Data{
		"path":     path,
		"chapters": len(pkg.chapters),
		"images":   pkg.images.Len(),
		"version":  pkg.Options.Version,
	})
	return nil
}
