package mdpress

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/mpercival/mdpress/internal/fileutil"
)

// EngineHeading is one heading reported by a render pass: its text, its
// hierarchy level (1-6), and the 1-based page it landed on. The engine
// reports every heading in document order; level filtering is the
// orchestrator's job.
type EngineHeading struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
	Page  int    `json:"page"`
}

// Engine abstracts the fixed-layout rendering backend.
type Engine interface {
	// Render produces the final document from styled markup and metadata.
	Render(ctx context.Context, htmlContent string, style Stylesheet, meta Metadata) ([]byte, error)

	// RenderWithHeadings renders once and additionally reports every
	// heading with the page it landed on, in document order.
	RenderWithHeadings(ctx context.Context, htmlContent string, style Stylesheet) ([]byte, []EngineHeading, error)

	Close() error
}

// Compile-time interface check.
var _ Engine = (*rodEngine)(nil)

// cssPixelsPerInch is the CSS reference pixel density used by Chromium.
const cssPixelsPerInch = 96

// headingProbeJS measures each heading's vertical offset and derives the
// 1-based page it falls on from the printable content height (in CSS px).
// Returns a JSON array in document order.
const headingProbeJS = `(contentHeight) => {
	const out = [];
	document.querySelectorAll("h1, h2, h3, h4, h5, h6").forEach((el) => {
		const top = el.getBoundingClientRect().top + window.scrollY;
		out.push({
			text: el.textContent.trim(),
			level: parseInt(el.tagName.substring(1), 10),
			page: Math.max(1, Math.floor(top / contentHeight) + 1),
		});
	});
	return JSON.stringify(out);
}`

// rodEngine renders HTML to PDF with headless Chromium via go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodEngine struct {
	browser *rod.Browser
	timeout time.Duration
}

// newRodEngine creates a rodEngine with the given per-render timeout.
func newRodEngine(timeout time.Duration) *rodEngine {
	return &rodEngine{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (e *rodEngine) ensureBrowser() error {
	if e.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	e.browser = rod.New().ControlURL(u)
	if err := e.browser.Connect(); err != nil {
		e.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (e *rodEngine) Close() error {
	if e.browser != nil {
		err := e.browser.Close()
		e.browser = nil
		return err
	}
	return nil
}

// Render injects the stylesheet and metadata into the markup and prints it.
func (e *rodEngine) Render(ctx context.Context, htmlContent string, style Stylesheet, meta Metadata) ([]byte, error) {
	htmlContent = injectHead(htmlContent, buildMetadataHead(meta))
	htmlContent = injectCSS(htmlContent, style.CSS)

	pdf, _, err := e.render(ctx, htmlContent, style, false)
	return pdf, err
}

// RenderWithHeadings injects the stylesheet and prints the markup, probing
// heading positions after layout. The resulting document is typically
// discarded by the caller; only the heading report is consumed.
func (e *rodEngine) RenderWithHeadings(ctx context.Context, htmlContent string, style Stylesheet) ([]byte, []EngineHeading, error) {
	htmlContent = injectCSS(htmlContent, style.CSS)
	return e.render(ctx, htmlContent, style, true)
}

// render opens the markup in a fresh page and prints it to PDF bytes,
// optionally probing heading positions first.
func (e *rodEngine) render(ctx context.Context, htmlContent string, style Stylesheet, probeHeadings bool) ([]byte, []EngineHeading, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if err := e.ensureBrowser(); err != nil {
		return nil, nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	page, err := e.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var headings []EngineHeading
	if probeHeadings {
		headings, err = probeHeadingPages(page, style.Paper)
		if err != nil {
			return nil, nil, err
		}
	}

	reader, err := page.PDF(buildPrintOptions(style))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, headings, nil
}

// probeHeadingPages evaluates the heading probe in the loaded page.
func probeHeadingPages(page *rod.Page, paper PaperGeometry) ([]EngineHeading, error) {
	contentHeight := (paper.Height - paper.MarginTop - paper.MarginBottom) * cssPixelsPerInch
	if contentHeight <= 0 {
		return nil, fmt.Errorf("%w: non-positive content height", ErrHeadingProbe)
	}

	res, err := page.Eval(headingProbeJS, contentHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeadingProbe, err)
	}

	var headings []EngineHeading
	if err := json.Unmarshal([]byte(res.Value.Str()), &headings); err != nil {
		return nil, fmt.Errorf("%w: decoding probe result: %v", ErrHeadingProbe, err)
	}
	return headings, nil
}

// buildPrintOptions constructs proto.PagePrintToPDF from the composed
// stylesheet's geometry and footer contribution.
func buildPrintOptions(style Stylesheet) *proto.PagePrintToPDF {
	opts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(style.Paper.Width),
		PaperHeight:     floatPtr(style.Paper.Height),
		MarginTop:       floatPtr(style.Paper.MarginTop),
		MarginBottom:    floatPtr(style.Paper.MarginBottom),
		MarginLeft:      floatPtr(style.Paper.MarginLeft),
		MarginRight:     floatPtr(style.Paper.MarginRight),
		PrintBackground: true,
	}

	if style.Footer != "" {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = "<span></span>" // Empty header
		opts.FooterTemplate = style.Footer
	}

	return opts
}

// buildMetadataHead renders the metadata record as head elements. Chromium's
// print pipeline carries the document title into the PDF; the remaining
// fields travel as meta elements. The record is always complete: callers
// default unset fields to empty strings before reaching the engine.
func buildMetadataHead(meta Metadata) string {
	head := "<title>" + html.EscapeString(meta.Title) + "</title>"
	head += `<meta name="author" content="` + html.EscapeString(meta.Author) + `"/>`
	head += `<meta name="subject" content="` + html.EscapeString(meta.Subject) + `"/>`
	head += `<meta name="keywords" content="` + html.EscapeString(meta.Keywords) + `"/>`
	return head
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
