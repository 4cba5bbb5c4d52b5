// Package mdpress converts Markdown documents into paginated, styled PDFs.
//
// The package wraps a two-pass rendering pipeline around a headless-Chromium
// engine: an optional first pass discovers where headings land on the page so
// a table of contents with real page numbers can be composed into the second,
// final pass. Cover pages, page-number footers, PDF metadata, and batch
// conversion with per-file failure isolation are layered on top without ever
// modifying the author's source content.
//
// Basic usage:
//
//	conv := mdpress.NewConverter()
//	defer conv.Close()
//
//	res, err := conv.Convert(ctx, mdpress.Request{
//		SourcePath: "report.md",
//		Theme:      "github",
//		TOC:        true,
//	})
//
// Styling is selected by built-in theme name or by custom CSS text, never
// both. Page geometry and page-number footers are composed independently of
// the visual theme.
package mdpress
