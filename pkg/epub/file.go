package epub

import (
	"archive/zip"

	"github.com/pkg/errors"
)

// Well-known file ids for the package members that exist at most once.
const (
	FileIDMimetype   = "mimetype"
	FileIDContainer  = "container-xml"
	FileIDOPF        = "opf"
	FileIDNCX        = "ncx"
	FileIDNav        = "nav"
	FileIDStylesheet = "style"
	FileIDMetadata   = "novelbind-meta"
	FileIDTitlePage  = "title_page"
	FileIDTOCPage    = "toc_page"
	FileIDCoverPage  = "cover"
)

// Kind classifies a package member. Navigation and spine generation only
// list user-facing kinds; infrastructure entries (mimetype, container, ncx,
// stylesheet) never appear in reading order.
type Kind int

const (
	KindInfra Kind = iota
	KindCoverPage
	KindTitlePage
	KindTOCPage
	KindChapter
	KindImage
)

// Payload is the two-state content of a package member: pending until
// generation runs, then an immutable byte buffer for the rest of the build.
type Payload struct {
	data      []byte
	generated bool
}

// GeneratedPayload wraps bytes that are already final, e.g. image data
// supplied by the scraper.
func GeneratedPayload(data []byte) Payload {
	return Payload{data: data, generated: true}
}

// Generated reports whether the payload holds final bytes.
func (p Payload) Generated() bool { return p.generated }

// Bytes returns the generated content. Reading a pending payload is a
// programmer error and fails rather than emitting undefined content.
func (p Payload) Bytes() ([]byte, error) {
	if !p.generated {
		return nil, errors.WithStack(ErrNotGenerated)
	}
	return p.data, nil
}

// Generator produces the content of one package member. Generators run after
// the package's registries reach their final membership for the build, so
// they may consult the file list, image list, and cover designation.
type Generator func(pkg *Package) ([]byte, error)

// File is one member of the EPUB archive.
type File struct {
	ID         string
	Filename   string
	MediaType  string
	Title      string
	Kind       Kind
	InSpine    bool
	InManifest bool
	// Method selects the zip compression for this entry. The mimetype entry
	// must be stored; everything else deflates.
	Method uint16

	payload  Payload
	generate Generator
}

// NewFile returns a deflated, non-spine file with a pending payload.
func NewFile(id, filename, mediaType string, gen Generator) *File {
	return &File{
		ID:        id,
		Filename:  filename,
		MediaType: mediaType,
		Method:    zip.Deflate,
		generate:  gen,
	}
}

// Generated reports whether this file already has final content.
func (f *File) Generated() bool { return f.payload.Generated() }

// Data returns the generated content, or ErrNotGenerated.
func (f *File) Data() ([]byte, error) { return f.payload.Bytes() }

// Generate fills in the payload if it is still pending. Generation runs at
// most once per build; an already-generated file is left untouched.
func (f *File) Generate(pkg *Package) error {
	if f.payload.Generated() {
		return nil
	}
	if f.generate == nil {
		return errors.Errorf("file %q has no content and no generator", f.ID)
	}
	data, err := f.generate(pkg)
	if err != nil {
		return errors.WithMessagef(err, "generating %q", f.ID)
	}
	f.payload = GeneratedPayload(data)
	return nil
}

// Invalidate resets the payload to pending so the next build regenerates it.
// Files without a generator keep their content; their bytes are the source
// of truth (images, loaded chapters).
func (f *File) Invalidate() {
	if f.generate == nil {
		return
	}
	f.payload = Payload{}
}

// UserFacing reports whether this file is a page a reader navigates to.
func (f *File) UserFacing() bool {
	switch f.Kind {
	case KindCoverPage, KindTitlePage, KindTOCPage, KindChapter:
		return true
	}
	return false
}
