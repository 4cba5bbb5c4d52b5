package mdpress

import (
	"html"
	"strconv"
	"strings"
)

// tocTitle is the fixed heading of the generated table of contents.
const tocTitle = "Table of Contents"

// maxTOCLevel bounds which headings enter the table of contents.
// Only two levels are supported; deeper headings never reach this package.
const maxTOCLevel = 2

// Heading is one entry discovered by a render pass: text, hierarchy level
// (1 or 2), the 1-based page the heading landed on, and its allocated anchor.
// Headings live only for the duration of one conversion.
type Heading struct {
	Text   string
	Level  int
	Page   int
	Anchor string
}

// buildTOCHTML renders an HTML fragment for the table of contents. Entries
// are emitted in the order given; the synthesizer never re-sorts. Each entry
// is a list item tagged by level, linking to the heading's anchor with a
// trailing page-number label. Heading text originates from user content and
// is escaped. Empty input yields an empty fragment.
//
// The container carries its own page break so body content always starts on
// a fresh page regardless of theme.
func buildTOCHTML(headings []Heading) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<div class="toc" style="page-break-after: always;">`)
	buf.WriteString(`<h1>` + tocTitle + `</h1>`)
	buf.WriteString(`<ul>`)

	for _, h := range headings {
		buf.WriteString(`<li class="toc-h` + strconv.Itoa(h.Level) + `">`)
		buf.WriteString(`<a href="#` + html.EscapeString(h.Anchor) + `">`)
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a>`)
		buf.WriteString(`<span class="toc-page">` + strconv.Itoa(h.Page) + `</span>`)
		buf.WriteString(`</li>`)
	}

	buf.WriteString(`</ul></div>`)
	return buf.String()
}
