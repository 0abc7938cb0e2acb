// Package htmlutil reduces scraped HTML fragments to plain text. The EPUB
// metadata fields (dc:description, title page summary) want text, but many
// sites only expose summaries as markup.
package htmlutil

import (
	"regexp"
	"strings"
)

// tagPattern matches HTML tags including self-closing tags.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// multipleSpacesPattern matches runs of whitespace within a line.
var multipleSpacesPattern = regexp.MustCompile(`\s{2,}`)

// blockBreaks are the closing tags that mark a visual paragraph break in
// summary markup.
var blockBreaks = []string{"</p>", "</div>", "<br>", "<br/>", "<br />", "</li>", "</h1>", "</h2>", "</h3>", "</h4>", "</h5>", "</h6>"}

// StripTags removes all HTML tags from a fragment and normalizes whitespace.
// Block-level tag boundaries become newlines so paragraph structure survives
// the strip.
func StripTags(html string) string {
	if html == "" {
		return ""
	}

	result := html
	for _, tag := range blockBreaks {
		result = strings.ReplaceAll(result, tag, "\n")
		result = strings.ReplaceAll(result, strings.ToUpper(tag), "\n")
	}

	result = tagPattern.ReplaceAllString(result, "")
	result = decodeEntities(result)

	// Collapse spaces within each line but keep the newlines inserted above.
	lines := strings.Split(result, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(multipleSpacesPattern.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&mdash;", "—",
	"&ndash;", "–",
	"&hellip;", "…",
	"&rsquo;", "’",
	"&lsquo;", "‘",
	"&rdquo;", "”",
	"&ldquo;", "“",
)

// decodeEntities decodes the named entities that show up in webnovel
// summaries.
func decodeEntities(s string) string {
	return entityReplacer.Replace(s)
}
