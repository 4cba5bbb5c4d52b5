package mdpress

import (
	"html"
	"strings"
)

// fallbackCoverTitle is used when no title is available for the cover page.
const fallbackCoverTitle = "Untitled"

// buildCoverHTML renders the cover page fragment: title, optional author
// line, and a formatted date. An empty title falls back to a fixed
// placeholder; an empty author is omitted entirely. Both are escaped since
// they originate from user input. The container carries a hard page break so
// body content always starts on a new page.
func buildCoverHTML(title, author, date string) string {
	if title == "" {
		title = fallbackCoverTitle
	}

	var buf strings.Builder
	buf.WriteString(`<div class="title-page" style="page-break-after: always;">`)
	buf.WriteString(`<h1>` + html.EscapeString(title) + `</h1>`)
	if author != "" {
		buf.WriteString(`<p class="author">` + html.EscapeString(author) + `</p>`)
	}
	buf.WriteString(`<p class="date">` + html.EscapeString(date) + `</p>`)
	buf.WriteString(`</div>`)
	return buf.String()
}
