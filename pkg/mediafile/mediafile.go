// Package mediafile maps image media types to archive file extensions and
// sniffs the format of raw image payloads.
package mediafile

import (
	"bytes"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// extensionsByMediaType is the fixed set of image formats an EPUB package may
// contain. Anything else must be resolved by the caller before images reach
// the assembler.
var extensionsByMediaType = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UnsupportedMediaTypeError indicates a media type with no known extension.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("no extension known for media type %q", e.MediaType)
}

// ImageExtension returns the archive file extension for an image media type.
// Unknown media types are a hard error; there is no best-guess fallback.
func ImageExtension(mediaType string) (string, error) {
	ext, ok := extensionsByMediaType[mediaType]
	if !ok {
		return "", &UnsupportedMediaTypeError{MediaType: mediaType}
	}
	return ext, nil
}

// Detector inspects raw image bytes and reports a media type, or "" if the
// format isn't one it recognizes. Detectors are pure functions; none of them
// mutate shared detection tables.
type Detector func(data []byte) string

// detectors is tried in order. The magic-byte checks come first so the common
// formats resolve without the generic sniffer; mimetype.Detect is the
// catch-all.
var detectors = []Detector{
	detectPNG,
	detectJPEG,
	detectWebP,
	detectGIF,
	detectSniff,
}

// DetectImageType runs the prioritized detector list over data. It returns ""
// when no detector recognizes the payload as a supported image format.
func DetectImageType(data []byte) string {
	for _, detect := range detectors {
		if mt := detect(data); mt != "" {
			return mt
		}
	}
	return ""
}

func detectPNG(data []byte) string {
	if bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		return "image/png"
	}
	return ""
}

func detectJPEG(data []byte) string {
	if bytes.HasPrefix(data, []byte("\xff\xd8\xff")) {
		return "image/jpeg"
	}
	return ""
}

// detectWebP recognizes the RIFF....WEBP layout explicitly because generic
// sniffers historically missed it.
func detectWebP(data []byte) string {
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	return ""
}

func detectGIF(data []byte) string {
	if bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")) {
		return "image/gif"
	}
	return ""
}

func detectSniff(data []byte) string {
	mt := mimetype.Detect(data).String()
	if _, ok := extensionsByMediaType[mt]; ok {
		return mt
	}
	return ""
}
