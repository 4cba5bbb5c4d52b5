package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	mdpress "github.com/mpercival/mdpress"
	"github.com/mpercival/mdpress/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrReadCSS        = errors.New("failed to read CSS file")
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrAllConversionsFailed marks a batch where no file converted.
	// It carries the total-failure exit code, distinct from partial failure.
	ErrAllConversionsFailed = errors.New("all conversions failed")
)

// run orchestrates the conversion process.
func run(ctx context.Context, positionalArgs []string, flags *cliFlags, pool *mdpress.ConverterPool, env *Environment) error {
	cfg := config.DefaultConfig()
	var err error
	if flags.config != "" {
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	if flags.style.theme != "" && flags.style.css != "" {
		return fmt.Errorf("%w: --theme and --css were both given", mdpress.ErrStyleConflict)
	}

	// Merge CLI flags into config (CLI wins)
	mergeFlags(flags, cfg)

	jobTimeout, err := parseTimeout(flags.timeout)
	if err != nil {
		return err
	}

	if len(positionalArgs) == 0 {
		return ErrNoInput
	}
	inputPath := positionalArgs[0]

	sources, err := discoverSources(inputPath)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no markdown files found in %s", inputPath)
	}

	req, err := buildRequest(cfg)
	if err != nil {
		return err
	}

	// Styling and geometry errors apply to every job equally, so they are
	// surfaced once here, before any file is touched.
	if _, err := mdpress.ComposeStyles(req); err != nil {
		return err
	}

	if flags.merge {
		return runMerge(ctx, pool, sources, req, cfg, flags, jobTimeout, env)
	}

	jobs, diags, err := resolveJobs(inputPath, sources, cfg)
	if err != nil {
		return err
	}
	printDiagnostics(diags, env)

	batch := &mdpress.Batch{Pool: pool, Request: req, JobTimeout: jobTimeout}
	results := batch.Run(ctx, jobs)

	failed := printResults(results, flags.quiet, flags.verbose, env)
	if failed > 0 {
		return conversionError(failed, len(results))
	}

	return nil
}

// conversionError distinguishes a fully failed batch from a partial one.
func conversionError(failed, total int) error {
	if failed == total {
		return fmt.Errorf("%w: %d of %d", ErrAllConversionsFailed, failed, total)
	}
	return fmt.Errorf("%d of %d conversions failed", failed, total)
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	// Styling flags
	if flags.style.theme != "" {
		cfg.Style.Theme = flags.style.theme
	}
	if flags.style.css != "" {
		cfg.Style.CSS = flags.style.css
		cfg.Style.Theme = ""
	}

	// Page flags: the shorthand applies to all sides, specific flags win
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.margin != "" {
		cfg.Page.MarginTop = flags.page.margin
		cfg.Page.MarginBottom = flags.page.margin
		cfg.Page.MarginLeft = flags.page.margin
		cfg.Page.MarginRight = flags.page.margin
	}
	if flags.page.marginTop != "" {
		cfg.Page.MarginTop = flags.page.marginTop
	}
	if flags.page.marginBottom != "" {
		cfg.Page.MarginBottom = flags.page.marginBottom
	}
	if flags.page.marginLeft != "" {
		cfg.Page.MarginLeft = flags.page.marginLeft
	}
	if flags.page.marginRight != "" {
		cfg.Page.MarginRight = flags.page.marginRight
	}

	// Page number flags
	if flags.pageNumbers.enabled {
		cfg.PageNumbers.Enabled = true
	}
	if flags.pageNumbers.position != "" {
		cfg.PageNumbers.Position = flags.pageNumbers.position
	}
	if flags.pageNumbers.format != "" {
		cfg.PageNumbers.Format = flags.pageNumbers.format
	}

	// Feature flags
	if flags.toc {
		cfg.TOC.Enabled = true
	}
	if flags.cover {
		cfg.Cover.Enabled = true
	}

	// Metadata flags
	if flags.metadata.title != "" {
		cfg.Metadata.Title = flags.metadata.title
	}
	if flags.metadata.author != "" {
		cfg.Metadata.Author = flags.metadata.author
	}
	if flags.metadata.subject != "" {
		cfg.Metadata.Subject = flags.metadata.subject
	}
	if flags.metadata.keywords != "" {
		cfg.Metadata.Keywords = flags.metadata.keywords
	}

	// Output flags
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.preserveStructure {
		cfg.Output.PreserveStructure = true
	}
}

// parseTimeout parses the timeout flag into a duration. Empty means no
// per-job deadline.
func parseTimeout(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, value)
	}
	return d, nil
}

// buildRequest creates the request template applied to every job.
// SourcePath and OutputPath are filled per job by the batch.
func buildRequest(cfg *config.Config) (mdpress.Request, error) {
	req := mdpress.Request{
		Theme:     cfg.Style.Theme,
		TOC:       cfg.TOC.Enabled,
		CoverPage: cfg.Cover.Enabled,
		Meta: mdpress.Metadata{
			Title:    cfg.Metadata.Title,
			Author:   cfg.Metadata.Author,
			Subject:  cfg.Metadata.Subject,
			Keywords: cfg.Metadata.Keywords,
		},
	}

	if cfg.Style.CSS != "" {
		content, err := os.ReadFile(cfg.Style.CSS) // #nosec G304 -- user-provided path
		if err != nil {
			return mdpress.Request{}, fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		req.CSS = string(content)
	}

	req.Page = buildPageSettings(cfg)

	if cfg.PageNumbers.Enabled {
		req.PageNumbers = &mdpress.PageNumbers{
			Enabled:   true,
			Placement: cfg.PageNumbers.Position,
			Format:    cfg.PageNumbers.Format,
		}
	}

	return req, nil
}

// buildPageSettings creates page settings from config, starting from defaults.
func buildPageSettings(cfg *config.Config) *mdpress.PageSettings {
	ps := mdpress.DefaultPageSettings()
	if cfg.Page.Size != "" {
		ps.Size = cfg.Page.Size
	}
	if cfg.Page.MarginTop != "" {
		ps.MarginTop = cfg.Page.MarginTop
	}
	if cfg.Page.MarginBottom != "" {
		ps.MarginBottom = cfg.Page.MarginBottom
	}
	if cfg.Page.MarginLeft != "" {
		ps.MarginLeft = cfg.Page.MarginLeft
	}
	if cfg.Page.MarginRight != "" {
		ps.MarginRight = cfg.Page.MarginRight
	}
	return ps
}

// resolveJobs maps discovered sources to jobs.
//
// A single file converts next to itself unless the output names a .pdf path
// or a directory. A directory converts into the output directory (default:
// the input directory itself), flattened unless structure preservation is on.
func resolveJobs(inputPath string, sources []string, cfg *config.Config) ([]mdpress.Job, []mdpress.Diagnostic, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, nil, err
	}

	if !info.IsDir() {
		src := sources[0]
		out := singleFileOutputPath(src, cfg.Output.Dir)
		return []mdpress.Job{{SourcePath: src, OutputPath: out}}, nil, nil
	}

	outputRoot := cfg.Output.Dir
	if outputRoot == "" {
		outputRoot = inputPath
	}
	return mdpress.ResolveJobs(inputPath, outputRoot, sources, cfg.Output.PreserveStructure)
}

// singleFileOutputPath determines the PDF destination for one source file.
func singleFileOutputPath(sourcePath, output string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath)) + ".pdf"

	if output == "" {
		return filepath.Join(filepath.Dir(sourcePath), base)
	}
	if strings.HasSuffix(output, ".pdf") {
		return output
	}
	return filepath.Join(output, base)
}

// printDiagnostics reports non-fatal conditions to stderr.
func printDiagnostics(diags []mdpress.Diagnostic, env *Environment) {
	for _, d := range diags {
		fmt.Fprintf(env.Stderr, "warning: %s: %s\n", d.Code, d.Message)
	}
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []mdpress.JobResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		printDiagnostics(r.Diagnostics, env)

		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Job.SourcePath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n",
				r.Job.SourcePath, r.Job.OutputPath, r.PageCount, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Job.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
