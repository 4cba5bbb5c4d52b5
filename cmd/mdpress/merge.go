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
	"github.com/mpercival/mdpress/internal/fileutil"
)

// ErrMergeOutputIsDir rejects a directory as the merge destination.
var ErrMergeOutputIsDir = errors.New("merge output must be a .pdf file path")

// defaultMergeName is the output base name when merging without -o.
const defaultMergeName = "merged.pdf"

// runMerge joins all sources into one markdown document and converts it in a
// single job. Sources are concatenated in discovery order (sorted by path).
func runMerge(ctx context.Context, pool *mdpress.ConverterPool, sources []string, req mdpress.Request, cfg *config.Config, flags *cliFlags, jobTimeout time.Duration, env *Environment) error {
	outputPath, err := mergeOutputPath(cfg.Output.Dir, sources[0])
	if err != nil {
		return err
	}

	merged, err := joinSources(sources)
	if err != nil {
		return err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(merged, "md")
	if err != nil {
		return err
	}
	defer cleanup()

	// The temp file's name is meaningless, so the title falls back to the
	// output name instead of the source name.
	if req.Meta.Title == "" {
		base := filepath.Base(outputPath)
		req.Meta.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	batch := &mdpress.Batch{Pool: pool, Request: req, JobTimeout: jobTimeout}
	results := batch.Run(ctx, []mdpress.Job{{SourcePath: tmpPath, OutputPath: outputPath}})

	if failed := printResults(results, flags.quiet, flags.verbose, env); failed > 0 {
		return conversionError(failed, len(results))
	}
	return nil
}

// mergeOutputPath determines the single destination for a merged conversion.
func mergeOutputPath(output, firstSource string) (string, error) {
	if output == "" {
		return filepath.Join(filepath.Dir(firstSource), defaultMergeName), nil
	}
	if strings.HasSuffix(output, ".pdf") {
		return output, nil
	}

	info, err := os.Stat(output)
	if err == nil && info.IsDir() {
		return filepath.Join(output, defaultMergeName), nil
	}
	return "", fmt.Errorf("%w: got %q", ErrMergeOutputIsDir, output)
}

// joinSources reads every source and concatenates the contents, separated by
// blank lines so adjacent documents cannot fuse a trailing and leading block.
func joinSources(sources []string) (string, error) {
	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		content, err := os.ReadFile(src) // #nosec G304 -- discovered path
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", src, err)
		}
		parts = append(parts, strings.TrimRight(string(content), "\n"))
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}
