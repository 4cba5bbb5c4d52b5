package mdpress

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// outputExtension replaces the source extension on resolved output paths.
const outputExtension = ".pdf"

// Job is one unit of batch work: a source file and its resolved destination.
type Job struct {
	SourcePath string
	OutputPath string
}

// JobResult is the outcome of one batch job. A batch never aborts early:
// every job produces exactly one result, failed or not.
type JobResult struct {
	Job         Job
	Err         error
	PageCount   int
	Diagnostics []Diagnostic
	Duration    time.Duration
}

// ResolveOutputPath computes the destination for a source file.
// The source must be a descendant of inputRoot. When preserving structure the
// source's path relative to inputRoot is kept under outputRoot; when
// flattening only the base name is kept. The extension becomes .pdf either
// way.
func ResolveOutputPath(inputRoot, outputRoot, sourcePath string, preserve bool) (string, error) {
	base := filepath.Base(sourcePath)
	pdfName := strings.TrimSuffix(base, filepath.Ext(base)) + outputExtension

	if !preserve {
		return filepath.Join(outputRoot, pdfName), nil
	}

	rel, err := filepath.Rel(inputRoot, sourcePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s (input root %s)", ErrOutsideInputRoot, sourcePath, inputRoot)
	}

	return filepath.Join(outputRoot, filepath.Dir(rel), pdfName), nil
}

// ResolveJobs maps discovered source files to jobs. Flattening can map two
// same-named sources from different subdirectories onto one output path;
// that outcome is preserved (later files overwrite earlier ones) but each
// collision is surfaced as a diagnostic so callers can warn.
func ResolveJobs(inputRoot, outputRoot string, sources []string, preserve bool) ([]Job, []Diagnostic, error) {
	jobs := make([]Job, 0, len(sources))
	var diags []Diagnostic
	claimed := make(map[string]string, len(sources))

	for _, src := range sources {
		out, err := ResolveOutputPath(inputRoot, outputRoot, src, preserve)
		if err != nil {
			return nil, nil, err
		}

		if prev, ok := claimed[out]; ok {
			diags = append(diags, Diagnostic{
				Code:    DiagFlattenCollision,
				Message: fmt.Sprintf("%s and %s both resolve to %s; the later file wins", prev, src, out),
			})
		}
		claimed[out] = src

		jobs = append(jobs, Job{SourcePath: src, OutputPath: out})
	}

	return jobs, diags, nil
}

// Batch drives conversion over a set of jobs. Jobs share no mutable state:
// each conversion owns its anchor registry and heading list and writes to a
// distinct output path, so jobs run concurrently across the pool with no
// locking. A failure on one job is recorded and never aborts its siblings.
type Batch struct {
	Pool *ConverterPool

	// Request is the template applied to every job; SourcePath and
	// OutputPath are filled per job.
	Request Request

	// JobTimeout bounds one job's conversion, including both render
	// passes. Zero means no per-job deadline.
	JobTimeout time.Duration
}

// Run converts every job and returns one result per job, in job order.
func (b *Batch) Run(ctx context.Context, jobs []Job) []JobResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := b.Pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]JobResult, len(jobs))
	var wg sync.WaitGroup
	work := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := b.Pool.Acquire()
			defer b.Pool.Release(conv)

			for idx := range work {
				if ctx.Err() != nil {
					results[idx] = JobResult{Job: jobs[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = b.runJob(ctx, conv, jobs[idx])
			}
		}()
	}

	for i := range jobs {
		work <- i
	}
	close(work)

	wg.Wait()
	return results
}

// runJob converts a single job and writes its output.
func (b *Batch) runJob(ctx context.Context, conv *Converter, job Job) JobResult {
	start := time.Now()
	result := JobResult{Job: job}

	if b.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.JobTimeout)
		defer cancel()
	}

	req := b.Request
	req.SourcePath = job.SourcePath
	req.OutputPath = job.OutputPath

	res, err := conv.Convert(ctx, req)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.PageCount = res.PageCount
	result.Diagnostics = res.Diagnostics

	if err := writeOutput(job.OutputPath, res.PDF); err != nil {
		result.Err = err
	}

	result.Duration = time.Since(start)
	return result
}

// writeOutput creates the destination directory and writes the PDF.
// Directory creation is idempotent, so two jobs sharing a parent directory
// cannot race each other.
func writeOutput(path string, pdf []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, pdf, filePermissions); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}
