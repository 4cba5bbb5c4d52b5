package mdpress

// Notes:
// - buildCoverHTML: tests the title fallback, author omission, date line,
//   and escaping of user-provided fields

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestBuildCoverHTML - Cover Page Fragment
// ---------------------------------------------------------------------------

func TestBuildCoverHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		title       string
		author      string
		date        string
		contains    []string
		notContains []string
	}{
		{
			name:   "all fields",
			title:  "My Report",
			author: "Jane Doe",
			date:   "March 14, 2025",
			contains: []string{
				`<div class="title-page" style="page-break-after: always;">`,
				`<h1>My Report</h1>`,
				`<p class="author">Jane Doe</p>`,
				`<p class="date">March 14, 2025</p>`,
			},
		},
		{
			name:     "empty title falls back",
			title:    "",
			author:   "Jane Doe",
			date:     "March 14, 2025",
			contains: []string{`<h1>Untitled</h1>`},
		},
		{
			name:        "empty author omitted",
			title:       "My Report",
			author:      "",
			date:        "March 14, 2025",
			contains:    []string{`<h1>My Report</h1>`, `<p class="date">`},
			notContains: []string{`<p class="author">`},
		},
		{
			name:        "title escaped",
			title:       `<img src=x>`,
			author:      "",
			date:        "March 14, 2025",
			contains:    []string{"&lt;img src=x&gt;"},
			notContains: []string{"<img"},
		},
		{
			name:        "author escaped",
			title:       "Report",
			author:      `Jane <script>`,
			date:        "March 14, 2025",
			contains:    []string{"Jane &lt;script&gt;"},
			notContains: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildCoverHTML(tt.title, tt.author, tt.date)

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("cover missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("cover should not contain %q:\n%s", unwanted, got)
				}
			}
		})
	}
}
