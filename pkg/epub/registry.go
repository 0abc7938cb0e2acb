package epub

import "github.com/pkg/errors"

// Registry is an insertion-ordered collection of package files keyed by file
// id. Iteration order is the manifest and spine emission order, so it is
// load-bearing: files appear in the archive in the order they were inserted.
// All mutation goes through Insert/Replace so the collision rule cannot be
// bypassed.
type Registry struct {
	order []*File
	index map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: map[string]int{}}
}

// Insert adds a file under its id. Inserting an id that is already present
// is a CollisionError; nothing is ever renamed or silently overwritten.
func (r *Registry) Insert(f *File) error {
	if _, ok := r.index[f.ID]; ok {
		return errors.WithStack(&CollisionError{ID: f.ID})
	}
	r.index[f.ID] = len(r.order)
	r.order = append(r.order, f)
	return nil
}

// Replace inserts f, replacing any existing file with the same id in place:
// the id keeps its position in iteration order and only the entity changes.
func (r *Registry) Replace(f *File) {
	if i, ok := r.index[f.ID]; ok {
		r.order[i] = f
		return
	}
	r.index[f.ID] = len(r.order)
	r.order = append(r.order, f)
}

// Get returns the file registered under id, or a NotFoundError.
func (r *Registry) Get(id string) (*File, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, errors.WithStack(&NotFoundError{ID: id})
	}
	return r.order[i], nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Files returns the registered files in insertion order. The slice is a
// copy; the files themselves are shared.
func (r *Registry) Files() []*File {
	out := make([]*File, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered files.
func (r *Registry) Len() int {
	return len(r.order)
}
