package main

// Notes:
// - run: end-to-end CLI flow against an injected engine, no browser started.
//   Covers directory batches, single files, merge mode, and failure exits.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdpress "github.com/mpercival/mdpress"
)

// fakeEngine satisfies mdpress.Engine without a browser. When failOn is set,
// Render fails for any document whose HTML contains that marker.
type fakeEngine struct {
	failOn string
}

func (f fakeEngine) Render(_ context.Context, htmlContent string, _ mdpress.Stylesheet, _ mdpress.Metadata) ([]byte, error) {
	if f.failOn != "" && strings.Contains(htmlContent, f.failOn) {
		return nil, errors.New("render failed")
	}
	return []byte("%PDF-fake"), nil
}

func (fakeEngine) RenderWithHeadings(_ context.Context, _ string, _ mdpress.Stylesheet) ([]byte, []mdpress.EngineHeading, error) {
	return []byte("%PDF-fake"), nil, nil
}

func (fakeEngine) Close() error { return nil }

// testEnv returns an Environment capturing output in buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    time.Now,
		Stdout: &stdout,
		Stderr: &stderr,
	}
	return env, &stdout, &stderr
}

// testPool returns a pool backed by the fake engine.
func testPool(t *testing.T) *mdpress.ConverterPool {
	t.Helper()
	return testPoolWith(t, fakeEngine{})
}

// testPoolWith returns a pool backed by the given engine.
func testPoolWith(t *testing.T, engine mdpress.Engine) *mdpress.ConverterPool {
	t.Helper()
	pool := mdpress.NewConverterPool(2, mdpress.WithEngine(engine))
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

// ---------------------------------------------------------------------------
// TestRun - CLI Orchestration
// ---------------------------------------------------------------------------

func TestRunDirectoryBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"))
	writeFile(t, filepath.Join(dir, "sub", "b.md"))

	flags := &cliFlags{output: outDir, preserveStructure: true, quiet: true}
	env, _, _ := testEnv()

	if err := run(context.Background(), []string{dir}, flags, testPool(t), env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, out := range []string{
		filepath.Join(outDir, "a.pdf"),
		filepath.Join(outDir, "sub", "b.pdf"),
	} {
		if _, err := os.Stat(out); err != nil {
			t.Errorf("expected output %s: %v", out, err)
		}
	}
}

func TestRunSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "doc.md")
	writeFile(t, src)
	out := filepath.Join(t.TempDir(), "final.pdf")

	flags := &cliFlags{output: out}
	env, stdout, _ := testEnv()

	if err := run(context.Background(), []string{src}, flags, testPool(t), env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected output: %v", err)
	}
	if !strings.Contains(stdout.String(), "Created "+out) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunMerge(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "01-intro.md"))
	writeFile(t, filepath.Join(dir, "02-body.md"))
	out := filepath.Join(t.TempDir(), "book.pdf")

	flags := &cliFlags{merge: true, output: out, quiet: true}
	env, _, _ := testEnv()

	if err := run(context.Background(), []string{dir}, flags, testPool(t), env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected merged output: %v", err)
	}
}

func TestRunNoInput(t *testing.T) {
	t.Parallel()

	flags := &cliFlags{}
	env, _, _ := testEnv()

	err := run(context.Background(), nil, flags, testPool(t), env)
	if err == nil {
		t.Fatal("expected error")
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitUsage)
	}
}

func TestRunInvalidPageSizeRejectedBeforeConversion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.md"))

	flags := &cliFlags{quiet: true}
	flags.page.size = "tabloid"

	env, _, stderr := testEnv()

	err := run(context.Background(), []string{dir}, flags, testPool(t), env)
	if !errors.Is(err, mdpress.ErrInvalidPageSize) {
		t.Fatalf("error = %v, want ErrInvalidPageSize", err)
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitUsage)
	}
	if strings.Contains(stderr.String(), "FAILED") {
		t.Errorf("per-file failures reported for a configuration error: %q", stderr.String())
	}
	if _, statErr := os.Stat(filepath.Join(dir, "good.pdf")); statErr == nil {
		t.Error("output written despite invalid configuration")
	}
}

func TestRunThemeAndCSSFlagsConflict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "doc.md")
	writeFile(t, src)
	cssPath := filepath.Join(dir, "custom.css")
	if err := os.WriteFile(cssPath, []byte("body { margin: 0; }"), 0o644); err != nil {
		t.Fatalf("writing css: %v", err)
	}

	flags := &cliFlags{quiet: true}
	flags.style.theme = "github"
	flags.style.css = cssPath

	env, _, _ := testEnv()

	err := run(context.Background(), []string{src}, flags, testPool(t), env)
	if !errors.Is(err, mdpress.ErrStyleConflict) {
		t.Fatalf("error = %v, want ErrStyleConflict", err)
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitUsage)
	}
}

func TestRunAllConversionsFailed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.md", "b.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("# BOOM"), 0o644); err != nil {
			t.Fatalf("writing markdown: %v", err)
		}
	}

	flags := &cliFlags{quiet: true}
	env, _, stderr := testEnv()

	err := run(context.Background(), []string{dir}, flags, testPoolWith(t, fakeEngine{failOn: "BOOM"}), env)
	if !errors.Is(err, ErrAllConversionsFailed) {
		t.Fatalf("error = %v, want ErrAllConversionsFailed", err)
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitUsage)
	}
	if !strings.Contains(stderr.String(), "FAILED") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunPartialFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.md"), []byte("# BOOM"), 0o644); err != nil {
		t.Fatalf("writing markdown: %v", err)
	}
	writeFile(t, filepath.Join(dir, "good.md"))

	flags := &cliFlags{quiet: true}
	env, _, stderr := testEnv()

	err := run(context.Background(), []string{dir}, flags, testPoolWith(t, fakeEngine{failOn: "BOOM"}), env)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrAllConversionsFailed) {
		t.Error("partial failure reported as total failure")
	}
	if exitCodeFor(err) != ExitFailure {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitFailure)
	}
	if !strings.Contains(stderr.String(), "FAILED") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if _, statErr := os.Stat(filepath.Join(dir, "good.pdf")); statErr != nil {
		t.Errorf("expected sibling output: %v", statErr)
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	t.Parallel()

	flags := &cliFlags{}
	env, _, _ := testEnv()

	if err := run(context.Background(), []string{t.TempDir()}, flags, testPool(t), env); err == nil {
		t.Error("expected error for empty directory")
	}
}
