// Package novel defines the domain values handed to the EPUB assembler by
// scraper collaborators. Everything here is plain data: fetching, cleaning,
// and site-specific parsing happen before these values are constructed.
package novel

import (
	"fmt"
	"strings"
)

// Status is the publication status of a novel as reported by its source site.
type Status string

const (
	StatusOnGoing   Status = "On Going"
	StatusHiatus    Status = "Hiatus"
	StatusDropped   Status = "Dropped"
	StatusCompleted Status = "Completed"
	StatusUnknown   Status = "Unknown"
)

// SummaryKind indicates whether a novel summary is raw text or HTML markup.
type SummaryKind string

const (
	SummaryText SummaryKind = "text"
	SummaryHTML SummaryKind = "html"
)

// Person is an author, translator, or other contributor.
type Person struct {
	Name  string
	Email string
	URL   string
}

// Image is an already-fetched image payload. Data and MediaType must be
// populated by the caller; the assembler never performs network access.
type Image struct {
	URL       string
	Data      []byte
	MediaType string
}

// Chapter is one chapter of a novel. Content holds the cleaned chapter body
// HTML, ready to embed verbatim into an XHTML page.
type Chapter struct {
	URL       string
	Title     string
	ChapterNo string
	Content   string
}

// Novel is the in-memory model of a scraped book.
type Novel struct {
	URL         string
	NovelID     string
	SiteID      string
	Title       string
	Status      Status
	Summary     string
	SummaryKind SummaryKind
	Genres      []string
	Tags        []string
	Author      *Person
	Translator  *Person
	Chapters    []Chapter
	CoverImage  *Image
	Extras      map[string]string
}

func (n *Novel) String() string {
	author := ""
	if n.Author != nil {
		author = n.Author.Name
	}
	return fmt.Sprintf("Title:     %s\nAuthor:    %s\nStatus:    %s\nGenres:    %s\nChapters:  %d", n.Title, author, n.Status, strings.Join(n.Genres, ", "), len(n.Chapters))
}
