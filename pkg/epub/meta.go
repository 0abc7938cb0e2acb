package epub

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"

	"github.com/novelbind/novelbind/pkg/novel"
)

// MetadataFilename is the archive path of the embedded scraper metadata.
const MetadataFilename = "novelbind.json"

// MetadataVersion numbers the embedded metadata format. The version field
// was introduced in v2; a document without one is v1 by definition.
type MetadataVersion int

const (
	MetadataV1 MetadataVersion = 1
	MetadataV2 MetadataVersion = 2

	// CurrentMetadataVersion is written into new packages and is the target
	// when migrating older documents on load.
	CurrentMetadataVersion = MetadataV2
)

func (v MetadataVersion) valid() bool {
	return v >= MetadataV1 && v <= MetadataV2
}

// DetectVersion reads the version field out of a raw metadata document. A
// missing field means v1. A value that is not a known version number is a
// VersionParseError, never silently coerced.
func DetectVersion(data map[string]interface{}) (MetadataVersion, error) {
	raw, ok := data["version"]
	if !ok {
		return MetadataV1, nil
	}

	var n int
	switch value := raw.(type) {
	case int:
		n = value
	case int64:
		n = int(value)
	case float64:
		if value != math.Trunc(value) {
			return 0, errors.WithStack(&VersionParseError{Value: raw})
		}
		n = int(value)
	case string:
		i, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.WithStack(&VersionParseError{Value: raw})
		}
		n = i
	default:
		return 0, errors.WithStack(&VersionParseError{Value: raw})
	}

	v := MetadataVersion(n)
	if !v.valid() {
		return 0, errors.WithStack(&VersionParseError{Value: raw})
	}
	return v, nil
}

// Converter rewrites a raw metadata document from one version to the next.
type Converter func(data map[string]interface{}) (map[string]interface{}, error)

// ConversionMap holds the registered converters, keyed by the version each
// one converts FROM. Migration always runs one step at a time; there are no
// shortcut converters.
type ConversionMap struct {
	converters map[MetadataVersion]Converter
}

// NewConversionMap returns an empty conversion map.
func NewConversionMap() *ConversionMap {
	return &ConversionMap{converters: map[MetadataVersion]Converter{}}
}

// Register installs the converter that lifts documents from version v to v+1.
func (m *ConversionMap) Register(from MetadataVersion, fn Converter) {
	m.converters[from] = fn
}

// BuildPath returns the converter chain that lifts data to target, in
// application order. A gap in the chain is a MissingConverterError.
func (m *ConversionMap) BuildPath(data map[string]interface{}, target MetadataVersion) ([]Converter, error) {
	current, err := DetectVersion(data)
	if err != nil {
		return nil, err
	}
	var path []Converter
	for current < target {
		fn, ok := m.converters[current]
		if !ok {
			return nil, errors.WithStack(&MissingConverterError{From: current, To: current + 1})
		}
		path = append(path, fn)
		current++
	}
	return path, nil
}

// ConvertToVersion lifts a raw metadata document to the target version.
func (m *ConversionMap) ConvertToVersion(data map[string]interface{}, target MetadataVersion) (map[string]interface{}, error) {
	path, err := m.BuildPath(data, target)
	if err != nil {
		return nil, err
	}
	for _, fn := range path {
		data, err = fn(data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// ConvertToCurrent lifts a raw metadata document to CurrentMetadataVersion.
func (m *ConversionMap) ConvertToCurrent(data map[string]interface{}) (map[string]interface{}, error) {
	return m.ConvertToVersion(data, CurrentMetadataVersion)
}

// Conversions is the default conversion map used when loading packages.
var Conversions = NewConversionMap()

func init() {
	// v1 documents predate the version field; adding it is the whole
	// migration.
	Conversions.Register(MetadataV1, func(data map[string]interface{}) (map[string]interface{}, error) {
		data["version"] = int(MetadataV2)
		return data, nil
	})
}

// ManifestEntry records one archive member in the embedded metadata so a
// package can be rebuilt without re-fetching anything.
type ManifestEntry struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	Title     string `json:"title,omitempty"`
}

// Metadata is the novelbind.json document stored inside every package. It
// carries everything the scraper knew so a package can be inspected and
// updated later.
type Metadata struct {
	Version       MetadataVersion   `json:"version"`
	NovelURL      string            `json:"novel_url"`
	NovelID       string            `json:"novel_id"`
	SiteID        string            `json:"site_id"`
	Title         string            `json:"title,omitempty"`
	Status        novel.Status      `json:"status,omitempty"`
	Summary       string            `json:"summary,omitempty"`
	SummaryKind   novel.SummaryKind `json:"summary_type,omitempty"`
	Genres        []string          `json:"genres,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Author        *novel.Person     `json:"author,omitempty"`
	Translator    *novel.Person     `json:"translator,omitempty"`
	CoverImageURL string            `json:"cover_image_url,omitempty"`
	CoverImageID  string            `json:"cover_image_id,omitempty"`
	Extras        map[string]string `json:"extras,omitempty"`
	Options       Options           `json:"options"`
	Files         []ManifestEntry   `json:"files,omitempty"`
}

// MetadataFromNovel captures a Novel into the embedded metadata document.
func MetadataFromNovel(n *novel.Novel, opts Options) Metadata {
	meta := Metadata{
		Version:     CurrentMetadataVersion,
		NovelURL:    n.URL,
		NovelID:     n.NovelID,
		SiteID:      n.SiteID,
		Title:       n.Title,
		Status:      n.Status,
		Summary:     n.Summary,
		SummaryKind: n.SummaryKind,
		Genres:      n.Genres,
		Tags:        n.Tags,
		Author:      n.Author,
		Translator:  n.Translator,
		Extras:      n.Extras,
		Options:     opts,
	}
	if n.CoverImage != nil {
		meta.CoverImageURL = n.CoverImage.URL
	}
	return meta
}

// ParseMetadata decodes a novelbind.json document, migrating older versions
// to the current format first.
func ParseMetadata(data []byte) (*Metadata, error) {
	raw := map[string]interface{}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.WithStack(err)
	}
	raw, err := Conversions.ConvertToCurrent(raw)
	if err != nil {
		return nil, err
	}
	migrated, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	meta := &Metadata{}
	if err := json.Unmarshal(migrated, meta); err != nil {
		return nil, errors.WithStack(err)
	}
	return meta, nil
}

// generateMetadataJSON builds the novelbind.json archive member.
func generateMetadataJSON(pkg *Package) ([]byte, error) {
	meta := MetadataFromNovel(pkg.Novel, pkg.Options)
	if cover := pkg.images.Cover(); cover != nil {
		meta.CoverImageID = cover.ID
	}
	meta.Files = pkg.Manifest()
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}
