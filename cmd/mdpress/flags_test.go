package main

// Notes:
// - parseFlags: tests defaults, long and short forms, positional args,
//   and unknown-flag rejection

import (
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseFlags - Flag Parsing
// ---------------------------------------------------------------------------

func TestParseFlagsDefaults(t *testing.T) {
	t.Parallel()

	flags, args, err := parseFlags([]string{"docs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(args) != 1 || args[0] != "docs" {
		t.Errorf("positional args = %v", args)
	}
	if flags.output != "" || flags.config != "" {
		t.Errorf("unexpected defaults: %+v", flags)
	}
	if flags.workers != 0 {
		t.Errorf("workers = %d, want 0 (auto)", flags.workers)
	}
	if flags.toc || flags.cover || flags.merge || flags.preserveStructure {
		t.Errorf("feature flags should default off: %+v", flags)
	}
}

func TestParseFlagsAll(t *testing.T) {
	t.Parallel()

	flags, args, err := parseFlags([]string{
		"--output", "build",
		"--preserve-structure",
		"--config", "prod",
		"--workers", "4",
		"--timeout", "45s",
		"--merge",
		"--toc",
		"--cover",
		"--theme", "dark",
		"--page-size", "letter",
		"--margin", "1in",
		"--margin-top", "2in",
		"--page-numbers",
		"--page-number-position", "right",
		"--page-number-format", "{page}/{pages}",
		"--title", "Report",
		"--author", "Jane",
		"--subject", "Q3",
		"--keywords", "a,b",
		"--quiet",
		"docs",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(args) != 1 || args[0] != "docs" {
		t.Errorf("positional args = %v", args)
	}
	if flags.output != "build" || !flags.preserveStructure || flags.config != "prod" {
		t.Errorf("io flags = %+v", flags)
	}
	if flags.workers != 4 || flags.timeout != "45s" || !flags.merge {
		t.Errorf("batch flags = %+v", flags)
	}
	if !flags.toc || !flags.cover || flags.style.theme != "dark" {
		t.Errorf("feature flags = %+v", flags)
	}
	if flags.page.size != "letter" || flags.page.margin != "1in" || flags.page.marginTop != "2in" {
		t.Errorf("page flags = %+v", flags.page)
	}
	if !flags.pageNumbers.enabled || flags.pageNumbers.position != "right" || flags.pageNumbers.format != "{page}/{pages}" {
		t.Errorf("page number flags = %+v", flags.pageNumbers)
	}
	if flags.metadata.title != "Report" || flags.metadata.author != "Jane" {
		t.Errorf("metadata flags = %+v", flags.metadata)
	}
	if !flags.quiet {
		t.Error("quiet not set")
	}
}

func TestParseFlagsShortForms(t *testing.T) {
	t.Parallel()

	flags, _, err := parseFlags([]string{"-o", "out", "-c", "cfg", "-w", "2", "-t", "30s", "-p", "a4", "-q", "-v", "input.md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flags.output != "out" || flags.config != "cfg" || flags.workers != 2 {
		t.Errorf("short flags = %+v", flags)
	}
	if flags.timeout != "30s" || flags.page.size != "a4" || !flags.quiet || !flags.verbose {
		t.Errorf("short flags = %+v", flags)
	}
}

func TestParseFlagsUnknown(t *testing.T) {
	t.Parallel()

	if _, _, err := parseFlags([]string{"--nonsense"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}
