package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	doubleQuotes = regexp.MustCompile(`[""]`)
	singleQuotes = regexp.MustCompile(`['']`)
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// SanitizeFilename strips characters that are invalid or awkward in
// filenames across operating systems. Windows in particular rejects
// trailing dots and a set of reserved punctuation.
func SanitizeFilename(name string) string {
	name = doubleQuotes.ReplaceAllString(name, `"`)
	name = singleQuotes.ReplaceAllString(name, `'`)
	name = invalidChars.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")

	if len(name) > 200 {
		name = name[:200]
		name = strings.Trim(name, " .")
	}
	return name
}

// EpubFilename builds the output filename for a novel: Title.epub, with the
// title sanitized for the filesystem. An empty title falls back to a fixed
// placeholder rather than producing ".epub".
func EpubFilename(title string) string {
	name := SanitizeFilename(title)
	if name == "" {
		name = "Unknown"
	}
	return name + ".epub"
}

// UniqueFilepath returns path if nothing exists there, otherwise the first
// "name (n).ext" variant that is free.
func UniqueFilepath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
