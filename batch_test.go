package mdpress

// Notes:
// - ResolveOutputPath: tests flatten and preserve modes plus the escape check
// - ResolveJobs: tests flatten collision diagnostics
// - Batch.Run: tests per-file isolation (one bad file never aborts siblings),
//   result ordering, output files on disk, and cancellation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// stubEngine is a concurrency-safe engine double for batch tests.
type stubEngine struct {
	mu      sync.Mutex
	renders int
}

func (s *stubEngine) Render(_ context.Context, _ string, _ Stylesheet, _ Metadata) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders++
	return []byte("%PDF-fake"), nil
}

func (s *stubEngine) RenderWithHeadings(_ context.Context, _ string, _ Stylesheet) ([]byte, []EngineHeading, error) {
	return []byte("%PDF-fake"), nil, nil
}

func (s *stubEngine) Close() error { return nil }

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Destination Mapping
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		inputRoot  string
		outputRoot string
		sourcePath string
		preserve   bool
		expected   string
		wantErr    bool
	}{
		{
			name:       "flatten keeps base name only",
			inputRoot:  "/a",
			outputRoot: "/out",
			sourcePath: "/a/b/c.md",
			preserve:   false,
			expected:   "/out/c.pdf",
		},
		{
			name:       "preserve keeps relative directories",
			inputRoot:  "/a",
			outputRoot: "/out",
			sourcePath: "/a/b/c.md",
			preserve:   true,
			expected:   "/out/b/c.pdf",
		},
		{
			name:       "preserve at root level",
			inputRoot:  "/a",
			outputRoot: "/out",
			sourcePath: "/a/c.md",
			preserve:   true,
			expected:   "/out/c.pdf",
		},
		{
			name:       "markdown extension replaced",
			inputRoot:  "/a",
			outputRoot: "/out",
			sourcePath: "/a/readme.markdown",
			preserve:   false,
			expected:   "/out/readme.pdf",
		},
		{
			name:       "source outside input root",
			inputRoot:  "/a/docs",
			outputRoot: "/out",
			sourcePath: "/a/other/c.md",
			preserve:   true,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveOutputPath(tt.inputRoot, tt.outputRoot, tt.sourcePath, tt.preserve)
			if tt.wantErr {
				if !errors.Is(err, ErrOutsideInputRoot) {
					t.Errorf("expected ErrOutsideInputRoot, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != filepath.FromSlash(tt.expected) {
				t.Errorf("ResolveOutputPath() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveJobs - Collision Detection
// ---------------------------------------------------------------------------

func TestResolveJobsFlattenCollision(t *testing.T) {
	t.Parallel()

	sources := []string{"/a/x/doc.md", "/a/y/doc.md", "/a/z/other.md"}

	jobs, diags, err := ResolveJobs("/a", "/out", sources, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(jobs) != 3 {
		t.Fatalf("got %d jobs, want 3 (collisions preserved)", len(jobs))
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Code != DiagFlattenCollision {
		t.Errorf("diagnostic code = %q, want %q", diags[0].Code, DiagFlattenCollision)
	}
}

func TestResolveJobsPreserveAvoidsCollision(t *testing.T) {
	t.Parallel()

	sources := []string{"/a/x/doc.md", "/a/y/doc.md"}

	jobs, diags, err := ResolveJobs("/a", "/out", sources, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if jobs[0].OutputPath == jobs[1].OutputPath {
		t.Errorf("preserve mode mapped two sources to %q", jobs[0].OutputPath)
	}
}

// ---------------------------------------------------------------------------
// TestBatchRun - Concurrent Conversion
// ---------------------------------------------------------------------------

func TestBatchRunIsolatesFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := t.TempDir()

	writeSource := func(name string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("# "+name), 0o644); err != nil {
			t.Fatalf("writing source: %v", err)
		}
		return path
	}

	jobs := []Job{
		{SourcePath: writeSource("one.md"), OutputPath: filepath.Join(outDir, "one.pdf")},
		{SourcePath: filepath.Join(dir, "missing.md"), OutputPath: filepath.Join(outDir, "missing.pdf")},
		{SourcePath: writeSource("three.md"), OutputPath: filepath.Join(outDir, "three.pdf")},
	}

	pool := NewConverterPool(2, WithEngine(&stubEngine{}))
	defer pool.Close()

	batch := &Batch{Pool: pool}
	results := batch.Run(context.Background(), jobs)

	if len(results) != 3 {
		t.Fatalf("got %d results, want one per job", len(results))
	}

	// Results stay in job order.
	for i, r := range results {
		if r.Job.SourcePath != jobs[i].SourcePath {
			t.Errorf("result %d out of order: %q", i, r.Job.SourcePath)
		}
	}

	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("sibling jobs failed: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, ErrReadSource) {
		t.Errorf("expected ErrReadSource for missing file, got %v", results[1].Err)
	}

	// Successful jobs produced files; the failed one did not.
	for _, path := range []string{jobs[0].OutputPath, jobs[2].OutputPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected output %s: %v", path, err)
		}
	}
	if _, err := os.Stat(jobs[1].OutputPath); err == nil {
		t.Errorf("failed job must not produce output")
	}
}

func TestBatchRunCreatesNestedDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := t.TempDir()

	src := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(src, []byte("# Doc"), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	out := filepath.Join(outDir, "deeply", "nested", "doc.pdf")
	pool := NewConverterPool(1, WithEngine(&stubEngine{}))
	defer pool.Close()

	batch := &Batch{Pool: pool}
	results := batch.Run(context.Background(), []Job{{SourcePath: src, OutputPath: out}})

	if results[0].Err != nil {
		t.Fatalf("unexpected error: %v", results[0].Err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("nested output missing: %v", err)
	}
}

func TestBatchRunEmptyJobs(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1, WithEngine(&stubEngine{}))
	defer pool.Close()

	batch := &Batch{Pool: pool}
	if results := batch.Run(context.Background(), nil); results != nil {
		t.Errorf("expected nil results for no jobs, got %v", results)
	}
}

func TestBatchRunCanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(src, []byte("# Doc"), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewConverterPool(1, WithEngine(&stubEngine{}))
	defer pool.Close()

	batch := &Batch{Pool: pool}
	results := batch.Run(ctx, []Job{{SourcePath: src, OutputPath: filepath.Join(dir, "doc.pdf")}})

	if results[0].Err == nil {
		t.Error("expected error for canceled context")
	}
}
