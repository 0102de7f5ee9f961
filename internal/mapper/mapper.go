// Package mapper drives the analysis run: discover files, analyze each one,
// persist its map document, and upsert the master index.
package mapper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/silice-dev/silice/internal/analyze"
	"github.com/silice-dev/silice/internal/discover"
	"github.com/silice-dev/silice/internal/extract"
	"github.com/silice-dev/silice/internal/protocol"
	"github.com/silice-dev/silice/internal/store"
)

// Runner wires the per-file pipeline together. Files are processed strictly
// one at a time; the index is mutated in memory and written once at the end,
// so an interrupted run leaves the previous index untouched on disk.
type Runner struct {
	Extractor *extract.Extractor
	Analyzer  analyze.Analyzer
	Maps      *store.MapStore
	IndexPath string
	Progress  io.Writer // user-facing per-file progress; nil silences it
}

// Stats summarizes one mapping run.
type Stats struct {
	Analyzed int
	Skipped  int
	Indexed  int // total entries in the persisted index
}

// Run expands paths, analyzes every discovered file, and persists the index.
// Per-file failures (unparsable source, exhausted model retries) are skipped;
// only discovery and index persistence errors abort the run.
func (r *Runner) Run(ctx context.Context, paths []string) (*Stats, error) {
	files, err := discover.Files(paths)
	if err != nil {
		return nil, err
	}

	projectRoot, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	index := store.LoadIndex(r.IndexPath, projectRoot)

	stats := &Stats{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := r.processFile(ctx, file, index); err != nil {
			slog.Warn("skipping file", "file", file, "error", err)
			stats.Skipped++
			continue
		}
		stats.Analyzed++
	}

	if err := store.SaveIndex(r.IndexPath, index); err != nil {
		return nil, err
	}
	stats.Indexed = index.Len()
	return stats, nil
}

func (r *Runner) processFile(ctx context.Context, file string, index *protocol.MasterIndex) error {
	r.progressf("[*] Analyzing: %s\n", file)

	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	meta, err := r.Extractor.Extract(content)
	if err != nil {
		if errors.Is(err, extract.ErrNotAnalyzable) {
			return err
		}
		return fmt.Errorf("static extraction failed: %w", err)
	}

	node, err := r.Analyzer.Analyze(ctx, string(content), meta)
	if err != nil {
		return err
	}

	node.FileName = filepath.Base(file)
	if abs, absErr := filepath.Abs(file); absErr == nil {
		node.FilePath = abs
	} else {
		node.FilePath = file
	}

	location, err := r.Maps.Save(file, node)
	if err != nil {
		return err
	}

	index.Upsert(file, location, node.Summary)
	return nil
}

func (r *Runner) progressf(format string, args ...any) {
	if r.Progress != nil {
		fmt.Fprintf(r.Progress, format, args...)
	}
}
