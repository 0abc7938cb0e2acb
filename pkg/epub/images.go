package epub

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/novelbind/novelbind/pkg/mediafile"
	"github.com/novelbind/novelbind/pkg/novel"
)

// NewImageFile wraps an already-fetched image into a package member at
// OEBPS/{id}{ext}. The extension comes from the fixed media type map; an
// unmapped media type is a hard error.
func NewImageFile(img novel.Image, id string) (*File, error) {
	ext, err := mediafile.ImageExtension(img.MediaType)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	f := NewFile(id, fmt.Sprintf("OEBPS/%s%s", id, ext), img.MediaType, nil)
	f.Kind = KindImage
	f.InManifest = true
	f.payload = GeneratedPayload(img.Data)
	return f, nil
}

// ImageRegistry holds the package's images in insertion order, allocates
// their ids, and tracks which one is the cover.
type ImageRegistry struct {
	files   *Registry
	counter int
	coverID string
}

// NewImageRegistry returns an empty image registry.
func NewImageRegistry() *ImageRegistry {
	return &ImageRegistry{files: NewRegistry()}
}

// GenerateImageID formats the counter as image000, image001, ... until it
// finds an id not already present. The counter advances on every attempt,
// including retries, so it only ever grows.
func (r *ImageRegistry) GenerateImageID() string {
	for {
		id := fmt.Sprintf("image%03d", r.counter)
		r.counter++
		if !r.files.Has(id) {
			return id
		}
	}
}

// Add wraps a raw image with a freshly generated id and registers it.
// It returns the allocated id.
func (r *ImageRegistry) Add(img novel.Image, isCover bool) (string, error) {
	f, err := NewImageFile(img, r.GenerateImageID())
	if err != nil {
		return "", err
	}
	if err := r.AddFile(f, isCover, false); err != nil {
		return "", err
	}
	return f.ID, nil
}

// AddFile registers an image file under its id. An id collision fails
// unless force is set, in which case the prior entity is replaced in place:
// the id keeps its position and, if it was the cover, stays the cover.
// The counter advances past the registered id, so ids allocated later never
// fall behind restored ones.
func (r *ImageRegistry) AddFile(f *File, isCover, force bool) error {
	if r.files.Has(f.ID) && !force {
		return errors.WithStack(&CollisionError{ID: f.ID})
	}
	r.files.Replace(f)
	if n, err := strconv.Atoi(strings.TrimPrefix(f.ID, "image")); err == nil && r.counter <= n {
		r.counter = n + 1
	}
	if r.counter < r.files.Len() {
		r.counter = r.files.Len()
	}
	if isCover {
		r.coverID = f.ID
	}
	return nil
}

// Images returns all images in insertion order.
func (r *ImageRegistry) Images() []*File {
	return r.files.Files()
}

// Get returns the image registered under id.
func (r *ImageRegistry) Get(id string) (*File, error) {
	return r.files.Get(id)
}

// Len returns the number of registered images.
func (r *ImageRegistry) Len() int {
	return r.files.Len()
}

// CoverID returns the cover image id, or "" when no cover is designated.
func (r *ImageRegistry) CoverID() string {
	return r.coverID
}

// Cover returns the designated cover image, or nil.
func (r *ImageRegistry) Cover() *File {
	if r.coverID == "" {
		return nil
	}
	f, err := r.files.Get(r.coverID)
	if err != nil {
		return nil
	}
	return f
}

// Validate checks the registry invariants: the counter never falls behind
// the entry count, and a designated cover must be a present key.
func (r *ImageRegistry) Validate() bool {
	return r.counter >= r.files.Len() && (r.coverID == "" || r.files.Has(r.coverID))
}
