package main

import (
	"errors"

	mdpress "github.com/mpercival/mdpress"
	"github.com/mpercival/mdpress/internal/assets"
	"github.com/mpercival/mdpress/internal/config"
)

// Exit codes for the mdpress CLI.
// 0 = all conversions succeeded, 1 = some conversions failed,
// 2 = invalid flags, config, or validation, or a batch where no file
// converted at all.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrInvalidFieldValue) ||
		errors.Is(err, mdpress.ErrStyleConflict) ||
		errors.Is(err, mdpress.ErrInvalidPageSize) ||
		errors.Is(err, mdpress.ErrInvalidMargin) ||
		errors.Is(err, mdpress.ErrInvalidPlacement) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrMergeOutputIsDir) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrAllConversionsFailed) {
		return ExitUsage
	}

	return ExitFailure
}
