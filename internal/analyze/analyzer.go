// Package analyze calls the language model that turns a source file into a
// structured FileNode. The model sits behind the Analyzer interface so the
// rest of the pipeline can be exercised with a deterministic stub.
package analyze

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/silice-dev/silice/internal/extract"
	"github.com/silice-dev/silice/internal/protocol"
)

// DefaultAttempts bounds how often a file is retried before it is skipped.
const DefaultAttempts = 3

// Analyzer produces the analysis record for one file.
type Analyzer interface {
	Analyze(ctx context.Context, content string, meta *extract.Metadata) (*protocol.FileNode, error)
}

// Retrying wraps an Analyzer with a bounded retry policy. Exhausting the
// attempts returns the last error; the caller decides whether that is fatal.
type Retrying struct {
	Inner    Analyzer
	Attempts int
}

// WithRetries wraps inner with the given attempt budget.
func WithRetries(inner Analyzer, attempts int) *Retrying {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &Retrying{Inner: inner, Attempts: attempts}
}

// Analyze retries the wrapped analyzer up to Attempts times.
func (r *Retrying) Analyze(ctx context.Context, content string, meta *extract.Metadata) (*protocol.FileNode, error) {
	var lastErr error
	for attempt := 1; attempt <= r.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node, err := r.Inner.Analyze(ctx, content, meta)
		if err == nil {
			return node, nil
		}
		lastErr = err
		slog.Warn("analysis attempt failed", "attempt", attempt, "max_attempts", r.Attempts, "error", err)
	}
	return nil, fmt.Errorf("analysis failed after %d attempts: %w", r.Attempts, lastErr)
}
