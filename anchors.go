package mdpress

import (
	"strconv"
	"strings"
	"unicode"
)

// fallbackAnchorBase is used when heading text sanitizes to nothing.
const fallbackAnchorBase = "heading"

// AnchorRegistry tracks anchor identifiers already allocated within one
// document conversion. Each conversion owns its own registry; registries are
// never shared across concurrent jobs.
type AnchorRegistry struct {
	used map[string]struct{}
}

// NewAnchorRegistry creates an empty registry.
func NewAnchorRegistry() *AnchorRegistry {
	return &AnchorRegistry{used: make(map[string]struct{})}
}

// Allocate returns a registry-unique anchor for the given heading text and
// records it. Callers must allocate in document order so collision numbering
// is deterministic across runs on the same input: the first occurrence of a
// text gets the bare sanitized form, later duplicates get -2, -3, and so on.
func (r *AnchorRegistry) Allocate(text string) string {
	base := sanitizeAnchor(text)
	if base == "" {
		base = fallbackAnchorBase
	}

	candidate := base
	for n := 2; ; n++ {
		if _, taken := r.used[candidate]; !taken {
			break
		}
		candidate = base + "-" + strconv.Itoa(n)
	}

	r.used[candidate] = struct{}{}
	return candidate
}

// Len returns the number of anchors allocated so far.
func (r *AnchorRegistry) Len() int {
	return len(r.used)
}

// sanitizeAnchor derives an anchor base from heading text: lower-cased,
// whitespace runs become single hyphens, characters outside [a-z0-9-] are
// dropped, hyphen runs are collapsed, and leading/trailing hyphens trimmed.
// The result is idempotent: sanitizing a sanitized anchor returns it
// unchanged.
func sanitizeAnchor(text string) string {
	var buf strings.Builder
	buf.Grow(len(text))

	lastHyphen := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				buf.WriteByte('-')
				lastHyphen = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			buf.WriteRune(r)
			lastHyphen = false
		}
	}

	return strings.Trim(buf.String(), "-")
}
