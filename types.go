package mdpress

import (
	"fmt"
	"strings"
	"time"
)

// Page size tokens.
const (
	PageSizeA4     = "a4"
	PageSizeA3     = "a3"
	PageSizeA5     = "a5"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Page number placement tokens.
const (
	PlacementLeft   = "left"
	PlacementCenter = "center"
	PlacementRight  = "right"
)

// Page number format defaults and bounds.
const (
	DefaultPageNumberFormat = "Page {page} of {pages}"
	MaxPageNumberFormatLen  = 100
)

// DefaultMargin is applied to all four sides when not configured.
const DefaultMargin = "2cm"

// marginUnits are the accepted CSS length units for margins.
var marginUnits = []string{"cm", "mm", "in", "pt", "px"}

// PageSettings configures page geometry: size token plus four margins.
// Margins are CSS lengths and must carry a unit (cm, mm, in, pt, px).
type PageSettings struct {
	Size         string
	MarginTop    string
	MarginBottom string
	MarginLeft   string
	MarginRight  string
}

// DefaultPageSettings returns A4 pages with 2cm margins on all sides.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:         PageSizeA4,
		MarginTop:    DefaultMargin,
		MarginBottom: DefaultMargin,
		MarginLeft:   DefaultMargin,
		MarginRight:  DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	margins := []struct {
		name  string
		value string
	}{
		{"margin-top", p.MarginTop},
		{"margin-bottom", p.MarginBottom},
		{"margin-left", p.MarginLeft},
		{"margin-right", p.MarginRight},
	}
	for _, m := range margins {
		if !hasMarginUnit(m.value) {
			return fmt.Errorf("%w: %s %q (must include unit: %s)",
				ErrInvalidMargin, m.name, m.value, strings.Join(marginUnits, ", "))
		}
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeA4, PageSizeA3, PageSizeA5, PageSizeLetter, PageSizeLegal:
		return true
	}
	return false
}

// hasMarginUnit checks that a margin token carries a recognized unit
// with a non-empty numeric part.
func hasMarginUnit(value string) bool {
	for _, unit := range marginUnits {
		if strings.HasSuffix(value, unit) && len(value) > len(unit) {
			return true
		}
	}
	return false
}

// PageNumbers configures the page-number footer.
type PageNumbers struct {
	Enabled   bool
	Placement string // "left", "center", "right" (default: "center")
	Format    string // template with {page} and {pages} placeholders
}

// Validate checks that page number settings are valid.
// Returns nil if n is nil (nil means no page numbers).
func (n *PageNumbers) Validate() error {
	if n == nil {
		return nil
	}
	switch strings.ToLower(n.Placement) {
	case "", PlacementLeft, PlacementCenter, PlacementRight:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidPlacement, n.Placement)
	}
}

// Metadata holds the PDF document properties. The rendering engine always
// receives a complete record: unset fields stay empty strings, and an unset
// title is defaulted to the source file's base name before the final render.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Request describes one document conversion job. It is passed by value into
// the converter; nothing in a Request is shared between concurrent jobs.
type Request struct {
	SourcePath string // Markdown file to convert (required)
	OutputPath string // informational; the caller owns writing the PDF

	// Style selection: a built-in theme name XOR custom CSS text.
	// Setting both is a configuration error.
	Theme string
	CSS   string

	// Document features.
	TOC         bool
	CoverPage   bool
	PageNumbers *PageNumbers

	Page *PageSettings // nil = defaults
	Meta Metadata
}

// Validate checks that required fields are present and valid.
// All violations here are configuration errors: they surface before any
// rendering begins and produce no partial output.
func (r Request) Validate() error {
	if r.SourcePath == "" {
		return ErrNoSourcePath
	}
	if r.Theme != "" && r.CSS != "" {
		return ErrStyleConflict
	}
	if err := r.Page.Validate(); err != nil {
		return err
	}
	if err := r.PageNumbers.Validate(); err != nil {
		return err
	}
	return nil
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout time.Duration
	now     func() time.Time
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdpress: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithEngine replaces the rendering engine. Used by tests and by callers
// embedding an alternative backend.
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.engine = e
	}
}

// WithClock replaces the time source used for generated cover dates.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.cfg.now = now
	}
}
