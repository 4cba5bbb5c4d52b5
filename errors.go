package mdpress

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoSourcePath   = errors.New("source path cannot be empty")
	ErrReadSource     = errors.New("failed to read source file")
	ErrImageNotFound  = errors.New("image not found")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrHeadingProbe   = errors.New("heading probe failed")

	// Configuration validation errors. All of these are detected before
	// any rendering begins.
	ErrStyleConflict    = errors.New("theme and custom CSS are mutually exclusive")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidMargin    = errors.New("invalid margin")
	ErrInvalidPlacement = errors.New("invalid page number placement")

	// Batch path resolution errors.
	ErrOutsideInputRoot = errors.New("source path is outside the input root")
)
