package mdpress

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/mpercival/mdpress/internal/assets"
)

// DefaultTheme is used when a Request selects neither a theme nor custom CSS.
const DefaultTheme = "github"

// defaultFontFamily is the font stack for generated footers.
const defaultFontFamily = "sans-serif"

// paperDimensions maps page size tokens to (width, height) in inches.
var paperDimensions = map[string][2]float64{
	PageSizeA4:     {8.27, 11.69},
	PageSizeA3:     {11.69, 16.54},
	PageSizeA5:     {5.83, 8.27},
	PageSizeLetter: {8.5, 11},
	PageSizeLegal:  {8.5, 14},
}

// PaperGeometry is page geometry resolved to inches, consumed by the engine's
// print options. It is derived only from PageSettings, never from theme text.
type PaperGeometry struct {
	Width, Height           float64
	MarginTop, MarginBottom float64
	MarginLeft, MarginRight float64
}

// Stylesheet is the composed output of the Style Composer: page geometry,
// the page-number footer contribution, and exactly one visual block.
//
// Chromium renders page counters only through its native footer template, so
// the footer rule travels as an HTML fragment next to the CSS rather than as
// an @page margin box. Composition order and origin are fixed: geometry and
// footer never come from theme text, and the visual block never comes from
// geometry logic.
type Stylesheet struct {
	CSS    string        // geometry @page block followed by the visual block
	Footer string        // footer template HTML, empty when page numbers are disabled
	Paper  PaperGeometry // geometry in inches for the engine
}

// ComposeStyles builds the final stylesheet from a Request's style fields.
// Theme/custom-CSS mutual exclusivity is enforced here as well as in
// Request.Validate, so direct callers cannot bypass it.
func ComposeStyles(req Request) (Stylesheet, error) {
	if req.Theme != "" && req.CSS != "" {
		return Stylesheet{}, ErrStyleConflict
	}

	page := req.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	if err := page.Validate(); err != nil {
		return Stylesheet{}, err
	}
	if err := req.PageNumbers.Validate(); err != nil {
		return Stylesheet{}, err
	}

	visual := req.CSS
	if visual == "" {
		name := req.Theme
		if name == "" {
			name = DefaultTheme
		}
		css, err := assets.LoadStyle(name)
		if err != nil {
			return Stylesheet{}, err
		}
		visual = css
	}

	geometry, err := resolvePaperGeometry(page)
	if err != nil {
		return Stylesheet{}, err
	}

	return Stylesheet{
		CSS:    buildPageCSS(page) + "\n" + visual,
		Footer: buildFooterTemplate(req.PageNumbers),
		Paper:  geometry,
	}, nil
}

// buildPageCSS generates the @page rule block from page settings.
func buildPageCSS(p *PageSettings) string {
	return fmt.Sprintf(`@page {
  size: %s;
  margin-top: %s;
  margin-bottom: %s;
  margin-left: %s;
  margin-right: %s;
}
`, strings.ToUpper(p.Size), p.MarginTop, p.MarginBottom, p.MarginLeft, p.MarginRight)
}

// resolvePaperGeometry converts page settings to inches for the engine.
func resolvePaperGeometry(p *PageSettings) (PaperGeometry, error) {
	dims, ok := paperDimensions[strings.ToLower(p.Size)]
	if !ok {
		return PaperGeometry{}, fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	g := PaperGeometry{Width: dims[0], Height: dims[1]}
	var err error
	if g.MarginTop, err = cssLengthToInches(p.MarginTop); err != nil {
		return PaperGeometry{}, err
	}
	if g.MarginBottom, err = cssLengthToInches(p.MarginBottom); err != nil {
		return PaperGeometry{}, err
	}
	if g.MarginLeft, err = cssLengthToInches(p.MarginLeft); err != nil {
		return PaperGeometry{}, err
	}
	if g.MarginRight, err = cssLengthToInches(p.MarginRight); err != nil {
		return PaperGeometry{}, err
	}
	return g, nil
}

// cssLengthToInches parses a CSS length token ("2cm", "0.5in", "36pt")
// into inches.
func cssLengthToInches(value string) (float64, error) {
	units := map[string]float64{
		"cm": 2.54,
		"mm": 25.4,
		"in": 1,
		"pt": 72,
		"px": 96,
	}
	for _, unit := range []string{"cm", "mm", "in", "pt", "px"} {
		if !strings.HasSuffix(value, unit) {
			continue
		}
		number := strings.TrimSpace(strings.TrimSuffix(value, unit))
		n, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidMargin, value)
		}
		if n < 0 {
			return 0, fmt.Errorf("%w: %q (must not be negative)", ErrInvalidMargin, value)
		}
		return n / units[unit], nil
	}
	return 0, fmt.Errorf("%w: %q (must include unit: cm, mm, in, pt, px)", ErrInvalidMargin, value)
}

// buildFooterTemplate converts page-number settings into the engine's footer
// template. The format template is walked left-to-right: literal text is
// escaped and emitted as-is, {page} and {pages} become counter references.
// Unrecognized placeholders pass through as literal text. Templates beyond
// MaxPageNumberFormatLen characters are truncated first to bound the footer.
// Returns "" when page numbers are disabled.
func buildFooterTemplate(n *PageNumbers) string {
	if n == nil || !n.Enabled {
		return ""
	}

	format := n.Format
	if format == "" {
		format = DefaultPageNumberFormat
	}
	if runes := []rune(format); len(runes) > MaxPageNumberFormatLen {
		format = string(runes[:MaxPageNumberFormatLen])
	}

	var buf strings.Builder
	remaining := format
	for remaining != "" {
		pageIdx := strings.Index(remaining, "{page}")
		pagesIdx := strings.Index(remaining, "{pages}")

		// {pages} first when it precedes {page}, or when {page} is absent.
		// Note: "{pages}" also contains "{page" as a prefix, so compare
		// positions rather than testing containment.
		switch {
		case pagesIdx != -1 && (pageIdx == -1 || pagesIdx <= pageIdx):
			buf.WriteString(html.EscapeString(remaining[:pagesIdx]))
			buf.WriteString(`<span class="totalPages"></span>`)
			remaining = remaining[pagesIdx+len("{pages}"):]
		case pageIdx != -1:
			buf.WriteString(html.EscapeString(remaining[:pageIdx]))
			buf.WriteString(`<span class="pageNumber"></span>`)
			remaining = remaining[pageIdx+len("{page}"):]
		default:
			buf.WriteString(html.EscapeString(remaining))
			remaining = ""
		}
	}

	textAlign := "center"
	switch strings.ToLower(n.Placement) {
	case PlacementLeft:
		textAlign = "left"
	case PlacementRight:
		textAlign = "right"
	}

	return fmt.Sprintf(
		`<div style="font-size: 9px; font-family: %s; color: #666; width: 100%%; text-align: %s; padding: 0 0.5in;">%s</div>`,
		defaultFontFamily, textAlign, buf.String())
}
