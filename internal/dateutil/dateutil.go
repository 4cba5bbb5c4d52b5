// Package dateutil formats dates for rendered documents.
package dateutil

import "time"

// coverDateLayout is the long-form date shown on generated cover pages.
// The day is zero-padded.
const coverDateLayout = "January 02, 2006"

// CoverDate formats t for display on a cover page, e.g. "March 04, 2025".
func CoverDate(t time.Time) string {
	return t.Format(coverDateLayout)
}
