package epub

import (
	"archive/zip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/novelbind/novelbind/pkg/novel"
)

// Open reads a previously written package out of zip data. Only archives
// carrying a novelbind.json can be reopened; anything else is not ours to
// rebuild. Chapter pages and images come back as final bytes, so a loaded
// package can be extended with new chapters and rewritten without
// re-fetching anything.
func Open(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	contents := map[string][]byte{}
	for _, file := range zr.File {
		fr, err := file.Open()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		data, err := io.ReadAll(fr)
		fr.Close()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		contents[file.Name] = data
	}

	rawMeta, ok := contents[MetadataFilename]
	if !ok {
		return nil, errors.Errorf("no %s in archive, not a novelbind epub", MetadataFilename)
	}
	meta, err := ParseMetadata(rawMeta)
	if err != nil {
		return nil, err
	}

	pkg := New(novelFromMetadata(meta), meta.Options)

	for _, entry := range meta.Files {
		data, ok := contents[entry.Filename]
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(entry.ID, "image"):
			img := NewFile(entry.ID, entry.Filename, entry.MediaType, nil)
			img.Kind = KindImage
			img.InManifest = true
			img.payload = GeneratedPayload(data)
			isCover := entry.ID == meta.CoverImageID
			if err := pkg.images.AddFile(img, isCover, true); err != nil {
				return nil, err
			}
		case strings.HasPrefix(entry.ID, "ch"):
			ch := NewFile(entry.ID, entry.Filename, entry.MediaType, nil)
			ch.Title = entry.Title
			ch.Kind = KindChapter
			ch.InManifest = true
			ch.InSpine = true
			ch.payload = GeneratedPayload(data)
			pkg.chapters = append(pkg.chapters, ch)
		}
	}

	if pkg.images.Cover() != nil {
		pkg.coverPage = NewFile(FileIDCoverPage, "cover.xhtml", "application/xhtml+xml", generateCoverPage)
		pkg.coverPage.Title = "Cover"
		pkg.coverPage.Kind = KindCoverPage
		pkg.coverPage.InManifest = true
		pkg.coverPage.InSpine = true
		if data, ok := contents[pkg.coverPage.Filename]; ok {
			pkg.coverPage.payload = GeneratedPayload(data)
		}
	}

	pkg.declare()
	return pkg, nil
}

// Load opens a package from a file on disk.
func Load(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	stats, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Open(f, stats.Size())
}

// novelFromMetadata reverses MetadataFromNovel as far as the stored fields
// allow. Chapter content is not recoverable; the rendered pages are carried
// as-is instead.
func novelFromMetadata(meta *Metadata) *novel.Novel {
	n := &novel.Novel{
		URL:         meta.NovelURL,
		NovelID:     meta.NovelID,
		SiteID:      meta.SiteID,
		Title:       meta.Title,
		Status:      meta.Status,
		Summary:     meta.Summary,
		SummaryKind: meta.SummaryKind,
		Genres:      meta.Genres,
		Tags:        meta.Tags,
		Author:      meta.Author,
		Translator:  meta.Translator,
		Extras:      meta.Extras,
	}
	if meta.CoverImageURL != "" {
		n.CoverImage = &novel.Image{URL: meta.CoverImageURL}
	}
	return n
}
