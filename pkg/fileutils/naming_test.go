package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain title", input: "My Test Novel", want: "My Test Novel"},
		{name: "invalid characters stripped", input: `What? A <Novel>: Part 1/2`, want: "What A Novel Part 12"},
		{name: "collapses whitespace", input: "Too   many    spaces", want: "Too many spaces"},
		{name: "trims trailing dots", input: "Ellipsis...", want: "Ellipsis"},
		{name: "empty stays empty", input: "", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestEpubFilename(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "My Test Novel.epub", EpubFilename("My Test Novel"))
	assert.Equal(t, "Unknown.epub", EpubFilename(""))
	assert.Equal(t, "Unknown.epub", EpubFilename("..."))
}

func TestUniqueFilepath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "novel.epub")

	assert.Equal(t, path, UniqueFilepath(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.Equal(t, filepath.Join(dir, "novel (1).epub"), UniqueFilepath(path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "novel (1).epub"), []byte("x"), 0o644))
	assert.Equal(t, filepath.Join(dir, "novel (2).epub"), UniqueFilepath(path))
}
