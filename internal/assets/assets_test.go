package assets

// Notes:
// - LoadStyle: tests the embedded themes, unknown names, and name validation
// - Names: tests the sorted theme inventory
// - ValidateAssetName: tests rejection of traversal and separator characters

import (
	"errors"
	"strings"
	"testing"
)

// builtinThemes is the shipped theme set.
var builtinThemes = []string{"academic", "dark", "github", "minimal", "modern"}

// ---------------------------------------------------------------------------
// TestLoadStyle - Embedded Theme Loading
// ---------------------------------------------------------------------------

func TestLoadStyleBuiltins(t *testing.T) {
	t.Parallel()

	for _, name := range builtinThemes {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			css, err := LoadStyle(name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(css, "body") {
				t.Errorf("theme %q looks empty:\n%s", name, css)
			}
			// Every theme styles the generated cover and TOC fragments.
			for _, selector := range []string{".toc", ".title-page"} {
				if !strings.Contains(css, selector) {
					t.Errorf("theme %q missing %s rules", name, selector)
				}
			}
		})
	}
}

func TestLoadStyleUnknown(t *testing.T) {
	t.Parallel()

	_, err := LoadStyle("nonexistent")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Fatalf("expected ErrStyleNotFound, got %v", err)
	}
	// The error lists what is available.
	if !strings.Contains(err.Error(), "github") {
		t.Errorf("error should list available themes: %v", err)
	}
}

func TestLoadStyleInvalidNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "path traversal", input: "../../../etc/passwd"},
		{name: "slash", input: "sub/style"},
		{name: "backslash", input: `sub\style`},
		{name: "extension smuggling", input: "github.css"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadStyle(tt.input)
			if !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("expected ErrInvalidAssetName for %q, got %v", tt.input, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNames - Theme Inventory
// ---------------------------------------------------------------------------

func TestNames(t *testing.T) {
	t.Parallel()

	names := Names()
	if len(names) != len(builtinThemes) {
		t.Fatalf("got %d themes, want %d: %v", len(names), len(builtinThemes), names)
	}
	for i, want := range builtinThemes {
		if names[i] != want {
			t.Errorf("names[%d] = %q, want %q (sorted)", i, names[i], want)
		}
	}
}
