package epub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsertCollision(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	require.NoError(t, r.Insert(NewFile("a", "a.xhtml", "application/xhtml+xml", nil)))

	err := r.Insert(NewFile("a", "other.xhtml", "application/xhtml+xml", nil))
	require.Error(t, err)

	collision := &CollisionError{}
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "a", collision.ID)
}

func TestRegistryReplacePreservesPosition(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	require.NoError(t, r.Insert(NewFile("a", "a.xhtml", "application/xhtml+xml", nil)))
	require.NoError(t, r.Insert(NewFile("b", "b.xhtml", "application/xhtml+xml", nil)))
	require.NoError(t, r.Insert(NewFile("c", "c.xhtml", "application/xhtml+xml", nil)))

	r.Replace(NewFile("b", "b2.xhtml", "application/xhtml+xml", nil))

	files := r.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "a", files[0].ID)
	assert.Equal(t, "b", files[1].ID)
	assert.Equal(t, "c", files[2].ID)
	assert.Equal(t, "b2.xhtml", files[1].Filename)
}

func TestRegistryGetNotFound(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	_, err := r.Get("missing")
	require.Error(t, err)

	notFound := &NotFoundError{}
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
	assert.False(t, r.Has("missing"))
}

func TestRegistryIterationOrder(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	ids := []string{"z", "a", "m", "b"}
	for _, id := range ids {
		require.NoError(t, r.Insert(NewFile(id, id+".xhtml", "application/xhtml+xml", nil)))
	}

	files := r.Files()
	require.Len(t, files, len(ids))
	for i, f := range files {
		assert.Equal(t, ids[i], f.ID)
	}
}
