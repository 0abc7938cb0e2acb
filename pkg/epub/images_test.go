package epub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelbind/novelbind/pkg/novel"
)

func testImage(mediaType string) novel.Image {
	return novel.Image{
		URL:       "file:///test-image",
		Data:      []byte{0x01, 0x02, 0x03},
		MediaType: mediaType,
	}
}

func TestGenerateImageIDMonotonic(t *testing.T) {
	t.Parallel()
	r := NewImageRegistry()

	assert.Equal(t, "image000", r.GenerateImageID())
	assert.Equal(t, "image001", r.GenerateImageID())
	assert.Equal(t, "image002", r.GenerateImageID())
	assert.Equal(t, "image003", r.GenerateImageID())
	assert.Equal(t, "image004", r.GenerateImageID())
}

func TestGenerateImageIDSkipsTakenIDs(t *testing.T) {
	t.Parallel()
	r := NewImageRegistry()
	f, err := NewImageFile(testImage("image/png"), "image000")
	require.NoError(t, err)
	require.NoError(t, r.AddFile(f, false, false))

	// image000 is taken, so the first free id is image001 and the counter
	// has advanced past both.
	assert.Equal(t, "image001", r.GenerateImageID())
	assert.Equal(t, "image002", r.GenerateImageID())
}

func TestImageRegistryAdd(t *testing.T) {
	t.Parallel()
	r := NewImageRegistry()

	id, err := r.Add(testImage("image/png"), false)
	require.NoError(t, err)
	assert.Equal(t, "image000", id)

	id, err = r.Add(testImage("image/jpg"), false)
	require.NoError(t, err)
	assert.Equal(t, "image001", id)

	images := r.Images()
	require.Len(t, images, 2)
	assert.Equal(t, "OEBPS/image000.png", images[0].Filename)
	assert.Equal(t, "OEBPS/image001.jpg", images[1].Filename)
	assert.True(t, r.Validate())
}

func TestImageRegistryUnknownMediaType(t *testing.T) {
	t.Parallel()
	r := NewImageRegistry()

	_, err := r.Add(testImage("image/tiff"), false)
	require.Error(t, err)
}

func TestImageRegistryAddFileAdvancesCounter(t *testing.T) {
	t.Parallel()
	r := NewImageRegistry()
	for _, id := range []string{"image000", "image003"} {
		f, err := NewImageFile(testImage("image/png"), id)
		require.NoError(t, err)
		require.NoError(t, r.AddFile(f, false, false))
	}

	// The counter has moved past the highest registered id, so freshly
	// generated ids never revisit a registered one.
	assert.True(t, r.Validate())
	assert.Equal(t, "image004", r.GenerateImageID())
}

func TestImageRegistryCollision(t *testing.T) {
	t.Parallel()
	r := NewImageRegistry()
	f, err := NewImageFile(testImage("image/png"), "image000")
	require.NoError(t, err)
	require.NoError(t, r.AddFile(f, false, false))

	dup, err := NewImageFile(testImage("image/png"), "image000")
	require.NoError(t, err)

	err = r.AddFile(dup, false, false)
	collision := &CollisionError{}
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "image000", collision.ID)
}

func TestImageRegistryForceReplaceKeepsCover(t *testing.T) {
	t.Parallel()
	r := NewImageRegistry()
	f, err := NewImageFile(testImage("image/png"), "image000")
	require.NoError(t, err)
	require.NoError(t, r.AddFile(f, true, false))
	require.Equal(t, "image000", r.CoverID())

	replacement, err := NewImageFile(testImage("image/jpeg"), "image000")
	require.NoError(t, err)
	require.NoError(t, r.AddFile(replacement, false, true))

	// Replacement under the same id keeps the cover designation.
	assert.Equal(t, "image000", r.CoverID())
	require.NotNil(t, r.Cover())
	assert.Equal(t, "OEBPS/image000.jpg", r.Cover().Filename)
	assert.True(t, r.Validate())
}

func TestImageRegistryCoverLastWriterWins(t *testing.T) {
	t.Parallel()
	r := NewImageRegistry()

	first, err := r.Add(testImage("image/png"), true)
	require.NoError(t, err)
	assert.Equal(t, first, r.CoverID())

	second, err := r.Add(testImage("image/jpg"), true)
	require.NoError(t, err)
	assert.Equal(t, second, r.CoverID())
}
