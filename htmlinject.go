package mdpress

import (
	"regexp"
	"strings"
)

// injectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent breaking out of the style block.
func injectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := bodyOpenEnd(htmlContent, lowerHTML); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Fallback: prepend
	return styleBlock + htmlContent
}

// injectHead inserts a fragment before </head>. Falls back to prepending.
func injectHead(htmlContent, fragment string) string {
	if fragment == "" {
		return htmlContent
	}

	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + fragment + htmlContent[idx:]
	}
	return fragment + htmlContent
}

// prependBody inserts a fragment right after the opening <body> tag, so the
// fragment's content renders before everything the author wrote.
// Falls back to prepending when no body tag is found.
func prependBody(htmlContent, fragment string) string {
	if fragment == "" {
		return htmlContent
	}

	lowerHTML := strings.ToLower(htmlContent)
	if idx := bodyOpenEnd(htmlContent, lowerHTML); idx != -1 {
		return htmlContent[:idx] + fragment + htmlContent[idx:]
	}
	return fragment + htmlContent
}

// bodyOpenEnd returns the index just past the closing > of the opening
// <body...> tag, or -1 when absent.
func bodyOpenEnd(htmlContent, lowerHTML string) int {
	idx := strings.Index(lowerHTML, "<body")
	if idx == -1 {
		return -1
	}
	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return -1
	}
	return idx + closeIdx + 1
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// tocHeadingPattern matches h1/h2 opening tags for anchor stamping.
// Deeper headings never receive anchors.
var tocHeadingPattern = regexp.MustCompile(`(?i)<h([12])((?:[^>"]|"[^"]*")*)>`)

// assignHeadingIDs stamps allocated anchors onto h1/h2 opening tags in
// document order. The headings slice must be the level-filtered sequence the
// render pass reported, in the same order the tags appear in the HTML; each
// tag consumes the next anchor. Any pre-existing id attribute is replaced so
// TOC links always target the registry-allocated identifier. Surplus tags
// (or surplus headings) are left untouched.
func assignHeadingIDs(htmlContent string, headings []Heading) string {
	if len(headings) == 0 {
		return htmlContent
	}

	next := 0
	return tocHeadingPattern.ReplaceAllStringFunc(htmlContent, func(tag string) string {
		if next >= len(headings) {
			return tag
		}
		anchor := headings[next].Anchor
		next++

		m := tocHeadingPattern.FindStringSubmatch(tag)
		attrs := idAttrPattern.ReplaceAllString(m[2], "")
		return `<h` + m[1] + attrs + ` id="` + anchor + `">`
	})
}

// idAttrPattern matches an existing id attribute inside a tag's attributes.
var idAttrPattern = regexp.MustCompile(`(?i)\s+id="[^"]*"`)
