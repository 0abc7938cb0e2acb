package epub

import (
	"fmt"

	"github.com/pkg/errors"
)

// CollisionError is returned when a file or image id is inserted twice
// without an explicit replace.
type CollisionError struct {
	ID string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("collision on file id %q", e.ID)
}

// NotFoundError is returned when a file id is looked up but not registered.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no file with id %q", e.ID)
}

// VersionParseError is returned when the embedded metadata carries a version
// field that cannot be read as a known version number. The bad value is never
// coerced to a default.
type VersionParseError struct {
	Value interface{}
}

func (e *VersionParseError) Error() string {
	return fmt.Sprintf("bad version value in epub metadata: %v", e.Value)
}

// MissingConverterError is returned when a migration path needs a converter
// that was never registered.
type MissingConverterError struct {
	From MetadataVersion
	To   MetadataVersion
}

func (e *MissingConverterError) Error() string {
	return fmt.Sprintf("no converter registered from metadata v%d to v%d", e.From, e.To)
}

// ErrNotGenerated is returned when an entity's payload is read before
// generation ran for this build.
var ErrNotGenerated = errors.New("file payload has not been generated")
