package mdpress

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mpercival/mdpress/internal/dateutil"
	"github.com/mpercival/mdpress/internal/pdfinfo"
)

// Diagnostic codes emitted on conversion results.
const (
	DiagNoHeadings       = "no-headings"
	DiagOutputInspect    = "output-inspect"
	DiagFlattenCollision = "flatten-collision"
)

// Diagnostic is a non-fatal condition surfaced alongside a result instead of
// being written to the console, so callers decide how to report it.
type Diagnostic struct {
	Code    string
	Message string
}

// Result holds the outcome of one conversion.
type Result struct {
	PDF         []byte
	PageCount   int // 0 when the output could not be inspected
	Diagnostics []Diagnostic
}

// Converter orchestrates the markdown-to-PDF pipeline. A single document
// flows through at most two render passes: an optional first pass that
// discovers where headings land, and the final pass over the composed
// document. Create with NewConverter, convert with Convert, and Close when
// done.
type Converter struct {
	cfg    converterConfig
	html   htmlConverter
	engine Engine
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithEngine).
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg:  converterConfig{timeout: defaultTimeout, now: time.Now},
		html: newGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Create rendering engine if not injected (e.g., by tests)
	if c.engine == nil {
		c.engine = newRodEngine(c.cfg.timeout)
	}

	return c
}

// Convert runs the pipeline for one request and returns the PDF bytes with
// any diagnostics. The context is used for cancellation; per-job deadlines
// are the caller's responsibility.
//
// When a table of contents is requested, the document is rendered twice:
// the first pass reports each heading's final page number, which cannot be
// known before layout has happened once; the second pass renders the
// composed document (cover, then TOC, then the untouched body). Without a
// TOC a single render suffices and the first pass is skipped entirely.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Compose styles before any rendering: configuration errors must
	// surface with no partial output.
	style, err := ComposeStyles(req)
	if err != nil {
		return nil, err
	}

	source, err := os.ReadFile(req.SourcePath) // #nosec G304 -- caller-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}

	htmlContent, err := c.html.ToHTML(ctx, string(source))
	if err != nil {
		return nil, err
	}

	htmlContent, err = resolveImagePaths(htmlContent, req.SourcePath)
	if err != nil {
		return nil, err
	}

	res := &Result{}

	// Pass 1: only when a TOC is requested. The rendered document is
	// discarded; only the heading report is used.
	var tocHTML string
	if req.TOC {
		_, engineHeadings, err := c.engine.RenderWithHeadings(ctx, htmlContent, style)
		if err != nil {
			return nil, err
		}

		headings := allocateAnchors(engineHeadings)
		if len(headings) == 0 {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Code:    DiagNoHeadings,
				Message: fmt.Sprintf("no H1/H2 headings found for TOC in %s", req.SourcePath),
			})
		} else {
			htmlContent = assignHeadingIDs(htmlContent, headings)
			tocHTML = buildTOCHTML(headings)
		}
	}

	var coverHTML string
	if req.CoverPage {
		coverHTML = buildCoverHTML(req.Meta.Title, req.Meta.Author, dateutil.CoverDate(c.cfg.now()))
	}

	// Fixed composition order: cover page, then TOC, then the body.
	htmlContent = prependBody(htmlContent, coverHTML+tocHTML)

	pdf, err := c.engine.Render(ctx, htmlContent, style, resolveMetadata(req))
	if err != nil {
		return nil, err
	}
	res.PDF = pdf

	pages, err := pdfinfo.PageCount(pdf)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Code:    DiagOutputInspect,
			Message: fmt.Sprintf("output inspection failed for %s: %v", req.SourcePath, err),
		})
	} else {
		res.PageCount = pages
	}

	return res, nil
}

// Close releases resources (headless Chromium browser).
func (c *Converter) Close() error {
	if c.engine != nil {
		return c.engine.Close()
	}
	return nil
}

// allocateAnchors filters the engine's heading report to the two supported
// levels and allocates a unique anchor for each, in document order so that
// collision numbering is reproducible across runs.
func allocateAnchors(engineHeadings []EngineHeading) []Heading {
	registry := NewAnchorRegistry()

	var headings []Heading
	for _, h := range engineHeadings {
		if h.Level < 1 || h.Level > maxTOCLevel {
			continue
		}
		headings = append(headings, Heading{
			Text:   h.Text,
			Level:  h.Level,
			Page:   h.Page,
			Anchor: registry.Allocate(h.Text),
		})
	}
	return headings
}

// resolveMetadata completes the metadata record before the final render:
// the title falls back to the source file's base name with the extension
// stripped; the remaining fields stay empty strings, never absent.
func resolveMetadata(req Request) Metadata {
	meta := req.Meta
	if meta.Title == "" {
		base := filepath.Base(req.SourcePath)
		meta.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return meta
}
